// ABOUTME: Tests for exercise selection, prescription rules, and plan generation.
// ABOUTME: Uses go-cmp for whole-plan comparisons.
package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/trainer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []*models.Exercise {
	return []*models.Exercise{
		{ID: "bench-press", Name: "Bench Press", Category: "strength", MuscleGroups: []string{"chest", "triceps"}, Equipment: []string{"barbell", "bench"}},
		{ID: "pushups", Name: "Pushups", Category: "strength", MuscleGroups: []string{"chest", "triceps"}, Equipment: []string{"bodyweight"}},
		{ID: "dumbbell-fly", Name: "Dumbbell Fly", Category: "strength", MuscleGroups: []string{"chest"}, Equipment: []string{"dumbbell"}},
		{ID: "back-squat", Name: "Back Squat", Category: "strength", MuscleGroups: []string{"legs", "glutes"}, Equipment: []string{"barbell"}},
		{ID: "squats", Name: "Squats", Category: "strength", MuscleGroups: []string{"legs"}, Equipment: []string{"bodyweight"}},
		{ID: "deadlift", Name: "Deadlift", Category: "strength", MuscleGroups: []string{"back", "legs"}, Equipment: []string{"barbell"}},
		{ID: "running", Name: "Running", Category: "cardio", MuscleGroups: []string{"legs", "cardio"}, Equipment: []string{"none"}},
	}
}

func TestSelectExercises(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name      string
		muscle    string
		equipment []string
		count     int
		want      []string
	}{
		{"first matches in catalog order", "chest", []string{"barbell", "bench", "bodyweight", "dumbbell"}, 2, []string{"bench-press", "pushups"}},
		{"equipment filters", "chest", []string{"dumbbell"}, 5, []string{"dumbbell-fly"}},
		{"count caps result", "legs", []string{"barbell", "bodyweight"}, 1, []string{"back-squat"}},
		{"no muscle match", "shoulders", []string{"barbell"}, 3, nil},
		{"zero count", "chest", []string{"bodyweight"}, 0, nil},
		{"no equipment", "chest", nil, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range SelectExercises(catalog, tt.muscle, tt.equipment, tt.count) {
				got = append(got, e.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrescriptionFor(t *testing.T) {
	tests := []struct {
		goal models.Goal
		want Prescription
	}{
		{models.GoalBuildMuscle, Prescription{4, 8, 0.75}},
		{models.GoalIncreaseStrength, Prescription{5, 5, 0.85}},
		{models.GoalLoseWeight, Prescription{3, 15, 0.65}},
		{models.GoalImproveEndurance, Prescription{3, 12, 0.70}},
		{models.GoalGeneral, Prescription{3, 10, 0.70}},
		{"", Prescription{3, 10, 0.70}},
		{"become_a_pirate", Prescription{3, 10, 0.70}},
	}

	for _, tt := range tests {
		t.Run(string(tt.goal), func(t *testing.T) {
			assert.Equal(t, tt.want, PrescriptionFor(tt.goal))
		})
	}
}

func TestTargetWeight(t *testing.T) {
	tests := []struct {
		name      string
		max       *float64
		intensity float64
		want      float64
	}{
		{"exact multiple", models.Float(200), 0.75, 150},
		{"rounds down", models.Float(203), 0.75, 150},
		{"rounds up", models.Float(205), 0.75, 155},
		{"half rounds up", models.Float(50), 0.25, 15},
		{"absent max is bodyweight", nil, 0.85, 0},
		{"small max", models.Float(10), 0.65, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetWeight(tt.max, tt.intensity))
		})
	}
}

func TestReferenceMax(t *testing.T) {
	profile := models.NewFitnessProfile("u1", models.GoalBuildMuscle).
		WithMaxes(models.Float(100), models.Float(140), models.Float(180))

	tests := []struct {
		name     string
		exercise string
		want     *float64
	}{
		{"bench", "Incline Bench Press", models.Float(100)},
		{"squat", "Front SQUAT", models.Float(140)},
		{"deadlift", "Romanian Deadlift", models.Float(180)},
		{"accessory uses 60% of smallest", "Pushups", models.Float(60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReferenceMax(tt.exercise, profile)
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestReferenceMaxIgnoresAbsentMaxes(t *testing.T) {
	profile := models.NewFitnessProfile("u1", models.GoalBuildMuscle).WithMaxes(nil, models.Float(150), nil)

	got := ReferenceMax("Lunges", profile)
	require.NotNil(t, got)
	assert.InDelta(t, 90.0, *got, 1e-9)

	assert.Nil(t, ReferenceMax("Bench Press", profile), "bench max is absent")
	assert.Nil(t, ReferenceMax("Lunges", models.NewFitnessProfile("u1", models.GoalBuildMuscle)))
}

func TestReferenceMaxTreatsZeroAsAbsent(t *testing.T) {
	profile := models.NewFitnessProfile("u1", models.GoalBuildMuscle).
		WithMaxes(models.Float(0), models.Float(200), nil)

	assert.Nil(t, ReferenceMax("Bench Press", profile))

	got := ReferenceMax("Barbell Row", profile)
	require.NotNil(t, got)
	assert.InDelta(t, 120.0, *got, 1e-9)
	assert.Equal(t, 90.0, TargetWeight(got, PrescriptionFor(models.GoalBuildMuscle).Intensity))
}

func TestGenerate(t *testing.T) {
	profile := &models.FitnessProfile{
		UserID:          "u1",
		Goal:            models.GoalBuildMuscle,
		ExperienceLevel: "intermediate",
		WorkoutType:     "strength",
		Equipment:       []string{"barbell", "bench", "bodyweight"},
		FocusAreas:      []string{"chest", "legs"},
		TimeAvailable:   45,
		BenchPressMax:   models.Float(100),
		SquatMax:        models.Float(140),
	}

	plan, err := Generate(profile, testCatalog())
	require.NoError(t, err)

	want := models.WorkoutPlan{
		Name:            "intermediate build muscle Workout",
		Category:        "strength",
		Difficulty:      "intermediate",
		DurationMinutes: 45,
		Calories:        360,
		Exercises: []models.PrescribedExercise{
			{ExerciseID: "bench-press", ExerciseName: "Bench Press", Sets: 4, Reps: 8, Weight: 75, Order: 1},
			{ExerciseID: "pushups", ExerciseName: "Pushups", Sets: 4, Reps: 8, Weight: 45, Order: 2},
			{ExerciseID: "back-squat", ExerciseName: "Back Squat", Sets: 4, Reps: 8, Weight: 105, Order: 3},
			{ExerciseID: "squats", ExerciseName: "Squats", Sets: 4, Reps: 8, Weight: 105, Order: 4},
		},
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	profile := &models.FitnessProfile{
		Goal:            models.GoalIncreaseStrength,
		ExperienceLevel: "advanced",
		Equipment:       []string{"barbell", "bodyweight", "none"},
		FocusAreas:      []string{"legs", "back", "chest"},
		TimeAvailable:   60,
		DeadliftMax:     models.Float(200),
	}

	first, err := Generate(profile, testCatalog())
	require.NoError(t, err)
	second, err := Generate(profile, testCatalog())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("plans differ (-first +second):\n%s", diff)
	}
}

func TestGenerateOrderIsDense(t *testing.T) {
	profile := &models.FitnessProfile{
		Goal:          models.GoalLoseWeight,
		Equipment:     []string{"barbell", "bench", "bodyweight", "dumbbell", "none"},
		FocusAreas:    []string{"chest", "shoulders", "legs", "back"},
		TimeAvailable: 90,
	}

	plan, err := Generate(profile, testCatalog())
	require.NoError(t, err)
	require.NotEmpty(t, plan.Exercises)

	for i, e := range plan.Exercises {
		assert.Equal(t, i+1, e.Order)
		assert.Zero(t, e.Weight, "no maxes known")
		assert.Equal(t, 15, e.Reps)
	}
}

func TestGenerateSmallTimeBudgetYieldsEmptyAreas(t *testing.T) {
	profile := &models.FitnessProfile{
		Goal:          models.GoalBuildMuscle,
		Equipment:     []string{"bodyweight"},
		FocusAreas:    []string{"chest", "legs"},
		TimeAvailable: 15,
	}

	plan, err := Generate(profile, testCatalog())
	require.NoError(t, err)
	assert.Empty(t, plan.Exercises)
	assert.Equal(t, 120, plan.Calories)
}

func TestGenerateNoEligibleExercises(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.FitnessProfile
	}{
		{"no focus areas", &models.FitnessProfile{Equipment: []string{"bodyweight"}, TimeAvailable: 30}},
		{"equipment matches nothing", &models.FitnessProfile{Equipment: []string{"kettlebell"}, FocusAreas: []string{"chest"}, TimeAvailable: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.profile, testCatalog())
			assert.ErrorIs(t, err, ErrNoEligibleExercises)
		})
	}
}

func TestGenerateUnsetGoalName(t *testing.T) {
	profile := &models.FitnessProfile{
		UserID:          "u1",
		ExperienceLevel: "beginner",
		Equipment:       []string{"bodyweight"},
		FocusAreas:      []string{"chest"},
		TimeAvailable:   20,
	}

	plan, err := Generate(profile, testCatalog())
	require.NoError(t, err)
	assert.Equal(t, "beginner general Workout", plan.Name)
	assert.NotContains(t, plan.Name, "  ")
}

func TestGenerateInvalidProfile(t *testing.T) {
	_, err := Generate(nil, testCatalog())
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = Generate(&models.FitnessProfile{FocusAreas: []string{"chest"}, Equipment: []string{"bodyweight"}, TimeAvailable: -5}, testCatalog())
	assert.ErrorIs(t, err, ErrInvalidProfile)
	assert.NotErrorIs(t, err, ErrNoEligibleExercises)
}

func TestGenerateRejectsNegativeMaxes(t *testing.T) {
	base := func() *models.FitnessProfile {
		return &models.FitnessProfile{
			UserID:          "u1",
			Goal:            models.GoalBuildMuscle,
			ExperienceLevel: "intermediate",
			Equipment:       []string{"barbell", "bench"},
			FocusAreas:      []string{"chest", "back"},
			TimeAvailable:   40,
		}
	}

	tests := []struct {
		name  string
		apply func(p *models.FitnessProfile)
	}{
		{"bench", func(p *models.FitnessProfile) { p.BenchPressMax = models.Float(-100) }},
		{"squat", func(p *models.FitnessProfile) { p.SquatMax = models.Float(-1) }},
		{"deadlift", func(p *models.FitnessProfile) { p.DeadliftMax = models.Float(-0.5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.apply(p)
			_, err := Generate(p, testCatalog())
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}

func TestGenerateZeroMaxIsUntested(t *testing.T) {
	profile := &models.FitnessProfile{
		UserID:          "u1",
		Goal:            models.GoalBuildMuscle,
		ExperienceLevel: "intermediate",
		Equipment:       []string{"barbell", "bench", "bodyweight"},
		FocusAreas:      []string{"chest", "back"},
		TimeAvailable:   40,
		BenchPressMax:   models.Float(0),
		DeadliftMax:     models.Float(200),
	}

	plan, err := Generate(profile, testCatalog())
	require.NoError(t, err)

	// Accessories scale off the deadlift, not the zero bench.
	want := []models.PrescribedExercise{
		{ExerciseID: "bench-press", ExerciseName: "Bench Press", Sets: 4, Reps: 8, Weight: 0, Order: 1},
		{ExerciseID: "pushups", ExerciseName: "Pushups", Sets: 4, Reps: 8, Weight: 90, Order: 2},
		{ExerciseID: "deadlift", ExerciseName: "Deadlift", Sets: 4, Reps: 8, Weight: 150, Order: 3},
	}
	if diff := cmp.Diff(want, plan.Exercises); diff != "" {
		t.Errorf("Generate() exercises mismatch (-want +got):\n%s", diff)
	}
}
