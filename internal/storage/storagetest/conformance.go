// ABOUTME: Shared behavioral test suite for storage.Repository implementations.
// ABOUTME: Each backend's tests call Run with a constructor for a fresh, empty repository.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty repository. Cleanup is registered on t.
type Factory func(t *testing.T) storage.Repository

// Run exercises every Repository operation against repositories from newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, repo storage.Repository)
	}{
		{"ExerciseRoundTrip", testExerciseRoundTrip},
		{"ExerciseCatalogOrder", testExerciseCatalogOrder},
		{"ExerciseNotFound", testExerciseNotFound},
		{"ProfileRoundTrip", testProfileRoundTrip},
		{"ProfileNotFound", testProfileNotFound},
		{"ProfileKeysAreExact", testProfileKeysAreExact},
		{"WorkoutRoundTrip", testWorkoutRoundTrip},
		{"WorkoutByPrefix", testWorkoutByPrefix},
		{"WorkoutAmbiguousPrefix", testWorkoutAmbiguousPrefix},
		{"WorkoutNotFound", testWorkoutNotFound},
		{"ListWorkoutsFilters", testListWorkoutsFilters},
		{"DeleteWorkoutCascadesRecords", testDeleteWorkoutCascadesRecords},
		{"SwapRecordIfGreater", testSwapRecordIfGreater},
		{"SwapRecordConcurrent", testSwapRecordConcurrent},
		{"RecordKeysAreExact", testRecordKeysAreExact},
		{"ListPersonalRecords", testListPersonalRecords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(t)
			tt.fn(t, repo)
		})
	}
}

// baseTime is a fixed instant so ordering assertions are deterministic.
var baseTime = time.Date(2024, time.March, 4, 9, 30, 0, 123456789, time.UTC)

func exercise(id, name string) *models.Exercise {
	return &models.Exercise{
		ID:           id,
		Name:         name,
		Description:  "How to do " + name,
		Category:     "strength",
		MuscleGroups: []string{"chest", "triceps"},
		Equipment:    []string{"barbell"},
		Difficulty:   "intermediate",
	}
}

func workoutAt(userID, name string, at time.Time) *models.Workout {
	w := models.NewWorkout(userID, name).
		WithCategory("strength").
		WithDuration(30).
		WithCalories(240).
		WithCreatedAt(at)
	w.Difficulty = "beginner"
	return w
}

// workoutWithPrefix creates a workout whose ID starts with prefix.
func workoutWithPrefix(userID, prefix string, at time.Time) *models.Workout {
	w := workoutAt(userID, "Prefixed", at)
	s := uuid.New().String()
	w.ID = uuid.MustParse(prefix + s[len(prefix):])
	return w
}

func testExerciseRoundTrip(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	e := exercise("bench-press", "Bench Press")

	require.NoError(t, repo.SaveExercise(ctx, e))

	got, err := repo.GetExercise(ctx, "bench-press")
	require.NoError(t, err)
	if diff := cmp.Diff(e, got); diff != "" {
		t.Errorf("GetExercise mismatch (-want +got):\n%s", diff)
	}

	// Upsert replaces fields.
	e.Difficulty = "advanced"
	require.NoError(t, repo.SaveExercise(ctx, e))
	got, err = repo.GetExercise(ctx, "bench-press")
	require.NoError(t, err)
	assert.Equal(t, "advanced", got.Difficulty)

	all, err := repo.ListExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testExerciseCatalogOrder(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	ids := []string{"squat", "bench-press", "deadlift", "pushups"}
	for _, id := range ids {
		require.NoError(t, repo.SaveExercise(ctx, exercise(id, id)))
	}

	// Re-saving keeps the original position.
	require.NoError(t, repo.SaveExercise(ctx, exercise("squat", "Back Squat")))

	all, err := repo.ListExercises(ctx)
	require.NoError(t, err)

	var got []string
	for _, e := range all {
		got = append(got, e.ID)
	}
	assert.Equal(t, ids, got)
	assert.Equal(t, "Back Squat", all[0].Name)
}

func testExerciseNotFound(t *testing.T, repo storage.Repository) {
	_, err := repo.GetExercise(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testProfileRoundTrip(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	p := models.NewFitnessProfile("alice", models.GoalBuildMuscle).
		WithMaxes(models.Float(100), nil, models.Float(180))
	p.Equipment = []string{"barbell", "dumbbells"}
	p.FocusAreas = []string{"chest", "back"}
	p.TimeAvailable = 45

	require.NoError(t, repo.SaveProfile(ctx, p))

	got, err := repo.GetProfile(ctx, "alice")
	require.NoError(t, err)
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("GetProfile mismatch (-want +got):\n%s", diff)
	}

	p.Goal = models.GoalLoseWeight
	require.NoError(t, repo.SaveProfile(ctx, p))
	require.NoError(t, repo.SaveProfile(ctx, models.NewFitnessProfile("bob", models.GoalGeneral)))

	profiles, err := repo.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "alice", profiles[0].UserID)
	assert.Equal(t, models.GoalLoseWeight, profiles[0].Goal)
	assert.Equal(t, "bob", profiles[1].UserID)
}

func testProfileNotFound(t *testing.T, repo storage.Repository) {
	_, err := repo.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testWorkoutRoundTrip(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	w := workoutAt("alice", "Chest Strength Workout", baseTime).WithNotes("felt strong")
	w.Exercises = []models.PrescribedExercise{
		{ExerciseID: "bench-press", ExerciseName: "Bench Press", Sets: 4, Reps: 8, Weight: 75, Order: 1},
		{ExerciseID: "pushups", ExerciseName: "Push-ups", Sets: 4, Reps: 8, Weight: 0, Order: 2},
	}

	require.NoError(t, repo.CreateWorkout(ctx, w))

	got, err := repo.GetWorkout(ctx, w.ID.String())
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(w.CreatedAt), "created_at %v != %v", got.CreatedAt, w.CreatedAt)
	got.CreatedAt = w.CreatedAt
	if diff := cmp.Diff(w, got); diff != "" {
		t.Errorf("GetWorkout mismatch (-want +got):\n%s", diff)
	}
}

func testWorkoutByPrefix(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	w := workoutAt("alice", "Legs", baseTime)
	require.NoError(t, repo.CreateWorkout(ctx, w))

	got, err := repo.GetWorkout(ctx, w.ID.String()[:8])
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)
}

func testWorkoutAmbiguousPrefix(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	require.NoError(t, repo.CreateWorkout(ctx, workoutWithPrefix("alice", "abcd", baseTime)))
	require.NoError(t, repo.CreateWorkout(ctx, workoutWithPrefix("alice", "abcd", baseTime.Add(time.Hour))))

	_, err := repo.GetWorkout(ctx, "abcd")
	assert.ErrorIs(t, err, storage.ErrAmbiguousPrefix)

	err = repo.DeleteWorkout(ctx, "abcd")
	assert.ErrorIs(t, err, storage.ErrAmbiguousPrefix)
}

func testWorkoutNotFound(t *testing.T, repo storage.Repository) {
	ctx := context.Background()

	_, err := repo.GetWorkout(ctx, "ffffffff")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.GetWorkout(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = repo.DeleteWorkout(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testListWorkoutsFilters(t *testing.T, repo storage.Repository) {
	ctx := context.Background()

	var created []*models.Workout
	for i := 0; i < 5; i++ {
		w := workoutAt("alice", fmt.Sprintf("Day %d", i), baseTime.AddDate(0, 0, i))
		if i%2 == 1 {
			w.Category = "cardio"
		}
		require.NoError(t, repo.CreateWorkout(ctx, w))
		created = append(created, w)
	}
	require.NoError(t, repo.CreateWorkout(ctx, workoutAt("bob", "Bob Day", baseTime)))

	all, err := repo.ListWorkouts(ctx, storage.WorkoutFilter{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, created[4].ID, all[0].ID, "most recent first")
	assert.Equal(t, created[0].ID, all[4].ID)

	limited, err := repo.ListWorkouts(ctx, storage.WorkoutFilter{UserID: "alice", Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, created[4].ID, limited[0].ID)

	cardio, err := repo.ListWorkouts(ctx, storage.WorkoutFilter{UserID: "alice", Category: "Cardio"})
	require.NoError(t, err)
	assert.Len(t, cardio, 2)

	// Since is inclusive, Until is exclusive.
	since := created[1].CreatedAt
	until := created[3].CreatedAt
	window, err := repo.ListWorkouts(ctx, storage.WorkoutFilter{UserID: "alice", Since: &since, Until: &until})
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, created[2].ID, window[0].ID)
	assert.Equal(t, created[1].ID, window[1].ID)

	everyone, err := repo.ListWorkouts(ctx, storage.WorkoutFilter{})
	require.NoError(t, err)
	assert.Len(t, everyone, 6)
}

func testDeleteWorkoutCascadesRecords(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	w := workoutAt("alice", "Push", baseTime)
	w.Exercises = []models.PrescribedExercise{
		{ExerciseID: "bench-press", ExerciseName: "Bench Press", Sets: 3, Reps: 10, Weight: 60, Order: 1},
	}
	require.NoError(t, repo.CreateWorkout(ctx, w))

	linked := models.NewPersonalRecord(models.RecordKey{UserID: "alice", ExerciseID: "bench-press", MetricType: models.MetricMaxWeight}, 60).
		WithAchievedAt(baseTime).
		WithWorkout(w.ID)
	_, err := repo.SwapRecordIfGreater(ctx, linked)
	require.NoError(t, err)

	standalone := models.NewPersonalRecord(models.RecordKey{UserID: "alice", ExerciseID: "squat", MetricType: models.MetricMaxWeight}, 100).
		WithAchievedAt(baseTime)
	_, err = repo.SwapRecordIfGreater(ctx, standalone)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteWorkout(ctx, w.ID.String()[:8]))

	_, err = repo.GetWorkout(ctx, w.ID.String())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.GetPersonalRecord(ctx, linked.RecordKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := repo.GetPersonalRecord(ctx, standalone.RecordKey)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Value)
}

func testProfileKeysAreExact(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	require.NoError(t, repo.SaveProfile(ctx, models.NewFitnessProfile("Alice", models.GoalBuildMuscle)))
	require.NoError(t, repo.SaveProfile(ctx, models.NewFitnessProfile("alice", models.GoalLoseWeight)))

	upper, err := repo.GetProfile(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, models.GoalBuildMuscle, upper.Goal)

	lower, err := repo.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.GoalLoseWeight, lower.Goal)

	profiles, err := repo.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}

// Keys differing only in case or punctuation are distinct records.
func testRecordKeysAreExact(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	keys := []models.RecordKey{
		{UserID: "Alice", ExerciseID: "bench-press", MetricType: models.MetricMaxWeight},
		{UserID: "alice", ExerciseID: "bench-press", MetricType: models.MetricMaxWeight},
		{UserID: "alice", ExerciseID: "bench press", MetricType: models.MetricMaxWeight},
	}

	for i, key := range keys {
		swap, err := repo.SwapRecordIfGreater(ctx, models.NewPersonalRecord(key, float64(100+i)).WithAchievedAt(baseTime))
		require.NoError(t, err, key.String())
		assert.True(t, swap.Swapped, key.String())
		assert.Nil(t, swap.Previous, key.String())
	}

	for i, key := range keys {
		got, err := repo.GetPersonalRecord(ctx, key)
		require.NoError(t, err, key.String())
		assert.Equal(t, float64(100+i), got.Value, key.String())
	}

	all, err := repo.ListPersonalRecords(ctx, storage.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func testSwapRecordIfGreater(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	key := models.RecordKey{UserID: "alice", ExerciseID: "deadlift", MetricType: models.MetricOneRepMax}

	first := models.NewPersonalRecord(key, 140).WithAchievedAt(baseTime)
	swap, err := repo.SwapRecordIfGreater(ctx, first)
	require.NoError(t, err)
	assert.True(t, swap.Swapped)
	assert.Nil(t, swap.Previous)
	assert.Equal(t, 140.0, swap.Current.Value)

	// Ties do not replace the record.
	tie := models.NewPersonalRecord(key, 140).WithAchievedAt(baseTime.Add(time.Hour))
	swap, err = repo.SwapRecordIfGreater(ctx, tie)
	require.NoError(t, err)
	assert.False(t, swap.Swapped)
	assert.Equal(t, first.ID, swap.Current.ID)

	lower := models.NewPersonalRecord(key, 120).WithAchievedAt(baseTime.Add(2 * time.Hour))
	swap, err = repo.SwapRecordIfGreater(ctx, lower)
	require.NoError(t, err)
	assert.False(t, swap.Swapped)
	assert.Equal(t, 140.0, swap.Current.Value)

	higher := models.NewPersonalRecord(key, 150).WithAchievedAt(baseTime.Add(3 * time.Hour))
	swap, err = repo.SwapRecordIfGreater(ctx, higher)
	require.NoError(t, err)
	assert.True(t, swap.Swapped)
	require.NotNil(t, swap.Previous)
	assert.Equal(t, 140.0, swap.Previous.Value)
	assert.Equal(t, 150.0, swap.Current.Value)

	got, err := repo.GetPersonalRecord(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.Value)
	assert.Equal(t, first.ID, got.ID, "record keeps its identity across improvements")
	assert.True(t, got.AchievedAt.Equal(higher.AchievedAt))
}

func testSwapRecordConcurrent(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	key := models.RecordKey{UserID: "alice", ExerciseID: "squat", MetricType: models.MetricMaxWeight}

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	swapped := make(chan float64, writers)

	for i := 1; i <= writers; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			swap, err := repo.SwapRecordIfGreater(ctx, models.NewPersonalRecord(key, v).WithAchievedAt(baseTime))
			if err != nil {
				errs <- err
				return
			}
			if swap.Swapped {
				swapped <- v
			}
		}(float64(i * 5))
	}
	wg.Wait()
	close(errs)
	close(swapped)

	for err := range errs {
		t.Errorf("SwapRecordIfGreater: %v", err)
	}

	got, err := repo.GetPersonalRecord(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, float64(writers*5), got.Value)

	var sawMax bool
	for v := range swapped {
		if v == float64(writers*5) {
			sawMax = true
		}
	}
	assert.True(t, sawMax, "the maximum value must be reported as swapped")
}

func testListPersonalRecords(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	entries := []struct {
		user, exercise string
		metric         models.MetricType
		value          float64
		at             time.Time
	}{
		{"alice", "bench-press", models.MetricMaxWeight, 80, baseTime},
		{"alice", "bench-press", models.MetricOneRepMax, 95, baseTime.Add(time.Hour)},
		{"alice", "squat", models.MetricMaxReps, 20, baseTime.Add(2 * time.Hour)},
		{"bob", "squat", models.MetricMaxWeight, 120, baseTime.Add(3 * time.Hour)},
	}
	for _, e := range entries {
		key := models.RecordKey{UserID: e.user, ExerciseID: e.exercise, MetricType: e.metric}
		_, err := repo.SwapRecordIfGreater(ctx, models.NewPersonalRecord(key, e.value).WithAchievedAt(e.at))
		require.NoError(t, err)
	}

	alice, err := repo.ListPersonalRecords(ctx, storage.RecordFilter{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, alice, 3)
	assert.Equal(t, "squat", alice[0].ExerciseID, "most recent first")
	assert.Equal(t, models.MetricMaxWeight, alice[2].MetricType)
	assert.Equal(t, "reps", alice[0].Unit)

	bench, err := repo.ListPersonalRecords(ctx, storage.RecordFilter{UserID: "alice", ExerciseID: "bench-press"})
	require.NoError(t, err)
	assert.Len(t, bench, 2)

	latest, err := repo.ListPersonalRecords(ctx, storage.RecordFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "bob", latest[0].UserID)
}
