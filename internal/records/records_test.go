// ABOUTME: Tests for one-rep-max estimation and the personal record tracker.
// ABOUTME: Uses an in-memory compare-and-swap store, including concurrent submissions.
package records

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[models.RecordKey]*models.PersonalRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[models.RecordKey]*models.PersonalRecord)}
}

func (m *memoryStore) SwapRecordIfGreater(_ context.Context, candidate *models.PersonalRecord) (*models.RecordSwap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.records[candidate.RecordKey]
	if prev != nil && candidate.Value <= prev.Value {
		return &models.RecordSwap{Previous: prev, Current: prev}, nil
	}
	if prev != nil {
		candidate.ID = prev.ID
	}
	m.records[candidate.RecordKey] = candidate
	return &models.RecordSwap{Previous: prev, Current: candidate, Swapped: true}, nil
}

func entry(metric models.MetricType, value float64) models.PerformanceEntry {
	return models.PerformanceEntry{UserID: "u1", ExerciseID: "bench-press", MetricType: metric, Value: value}
}

func TestEstimateOneRepMax(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		reps   int
		want   float64
	}{
		{"five reps", 200, 5, 225},
		{"single rep is the weight", 100, 1, 100},
		{"ten reps", 100, 10, 133},
		{"upper bound", 10, 36, 360},
		{"zero weight", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EstimateOneRepMax(tt.weight, tt.reps)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateOneRepMaxInvalid(t *testing.T) {
	for _, reps := range []int{37, 38, 100, 0, -1} {
		_, err := EstimateOneRepMax(100, reps)
		assert.ErrorIs(t, err, ErrInvalidReps, "reps=%d", reps)
	}

	_, err := EstimateOneRepMax(-5, 5)
	assert.ErrorIs(t, err, ErrInvalidWeight)
	_, err = EstimateOneRepMax(math.NaN(), 5)
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestCheckAndUpdateFirstRecord(t *testing.T) {
	tracker := NewTracker(newMemoryStore())

	res, err := tracker.CheckAndUpdate(context.Background(), entry(models.MetricMaxWeight, 100))
	require.NoError(t, err)
	assert.True(t, res.IsNewRecord)
	assert.Equal(t, 100.0, res.Improvement)
	assert.Equal(t, "kg", res.Record.Unit)
}

func TestCheckAndUpdateLowerValueKeepsRecord(t *testing.T) {
	tracker := NewTracker(newMemoryStore())
	ctx := context.Background()

	_, err := tracker.CheckAndUpdate(ctx, entry(models.MetricMaxWeight, 100))
	require.NoError(t, err)

	res, err := tracker.CheckAndUpdate(ctx, entry(models.MetricMaxWeight, 90))
	require.NoError(t, err)
	assert.False(t, res.IsNewRecord)
	assert.Zero(t, res.Improvement)
	assert.Equal(t, 100.0, res.Record.Value)
}

func TestCheckAndUpdateTieIsNotRecord(t *testing.T) {
	tracker := NewTracker(newMemoryStore())
	ctx := context.Background()

	_, err := tracker.CheckAndUpdate(ctx, entry(models.MetricMaxReps, 12))
	require.NoError(t, err)

	res, err := tracker.CheckAndUpdate(ctx, entry(models.MetricMaxReps, 12))
	require.NoError(t, err)
	assert.False(t, res.IsNewRecord)
}

func TestCheckAndUpdateImprovement(t *testing.T) {
	tracker := NewTracker(newMemoryStore())
	ctx := context.Background()

	first, err := tracker.CheckAndUpdate(ctx, entry(models.MetricOneRepMax, 100))
	require.NoError(t, err)

	res, err := tracker.CheckAndUpdate(ctx, entry(models.MetricOneRepMax, 110))
	require.NoError(t, err)
	assert.True(t, res.IsNewRecord)
	assert.Equal(t, 10.0, res.Improvement)
	assert.Equal(t, 110.0, res.Record.Value)
	assert.Equal(t, first.Record.ID, res.Record.ID, "record is overwritten in place")
}

func TestCheckAndUpdateKeysAreIndependent(t *testing.T) {
	tracker := NewTracker(newMemoryStore())
	ctx := context.Background()

	_, err := tracker.CheckAndUpdate(ctx, entry(models.MetricMaxWeight, 100))
	require.NoError(t, err)

	other := entry(models.MetricMaxWeight, 50)
	other.UserID = "u2"
	res, err := tracker.CheckAndUpdate(ctx, other)
	require.NoError(t, err)
	assert.True(t, res.IsNewRecord)

	reps := entry(models.MetricMaxReps, 5)
	res, err = tracker.CheckAndUpdate(ctx, reps)
	require.NoError(t, err)
	assert.True(t, res.IsNewRecord)
}

func TestCheckAndUpdateUsesClockAndWorkout(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	tracker := NewTracker(newMemoryStore()).WithClock(func() time.Time { return fixed })

	wid := uuid.New()
	e := entry(models.MetricMaxTime, 90)
	e.WorkoutID = &wid
	e.Unit = "min"

	res, err := tracker.CheckAndUpdate(context.Background(), e)
	require.NoError(t, err)
	assert.True(t, res.Record.AchievedAt.Equal(fixed))
	require.NotNil(t, res.Record.WorkoutID)
	assert.Equal(t, wid, *res.Record.WorkoutID)
	assert.Equal(t, "min", res.Record.Unit)
}

func TestCheckAndUpdateValidation(t *testing.T) {
	tracker := NewTracker(newMemoryStore())
	ctx := context.Background()

	tests := []struct {
		name  string
		entry models.PerformanceEntry
		want  error
	}{
		{"unknown metric", entry("fastest_mile", 10), ErrInvalidMetric},
		{"empty metric", entry("", 10), ErrInvalidMetric},
		{"zero value", entry(models.MetricMaxWeight, 0), ErrInvalidValue},
		{"negative value", entry(models.MetricMaxWeight, -10), ErrInvalidValue},
		{"infinite value", entry(models.MetricMaxWeight, math.Inf(1)), ErrInvalidValue},
		{"missing user", models.PerformanceEntry{ExerciseID: "x", MetricType: models.MetricMaxReps, Value: 1}, ErrInvalidEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tracker.CheckAndUpdate(ctx, tt.entry)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheckAndUpdateConcurrentKeepsMax(t *testing.T) {
	store := newMemoryStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	const n = 200
	var wg sync.WaitGroup
	newRecords := make(chan float64, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			res, err := tracker.CheckAndUpdate(ctx, entry(models.MetricMaxWeight, v))
			if err == nil && res.IsNewRecord {
				newRecords <- v
			}
		}(float64(i))
	}
	wg.Wait()
	close(newRecords)

	key := entry(models.MetricMaxWeight, 0).Key()
	assert.Equal(t, float64(n), store.records[key].Value)

	sawMax := false
	for v := range newRecords {
		if v == n {
			sawMax = true
		}
	}
	assert.True(t, sawMax, "the maximum submission must be reported as a new record")
}

func TestRecordSet(t *testing.T) {
	tracker := NewTracker(newMemoryStore())
	ctx := context.Background()

	results, err := tracker.RecordSet(ctx, SetEntry{UserID: "u1", ExerciseID: "back-squat", Weight: 200, Reps: 5})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, models.MetricMaxWeight, results[0].Record.MetricType)
	assert.Equal(t, 200.0, results[0].Record.Value)
	assert.Equal(t, models.MetricMaxReps, results[1].Record.MetricType)
	assert.Equal(t, "reps", results[1].Record.Unit)
	assert.Equal(t, models.MetricOneRepMax, results[2].Record.MetricType)
	assert.Equal(t, 225.0, results[2].Record.Value)
	for _, r := range results {
		assert.True(t, r.IsNewRecord)
	}

	results, err = tracker.RecordSet(ctx, SetEntry{UserID: "u1", ExerciseID: "back-squat", Weight: 180, Reps: 8})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.False(t, results[0].IsNewRecord, "lighter weight")
	assert.True(t, results[1].IsNewRecord, "more reps")
	assert.Equal(t, 3.0, results[1].Improvement)
	assert.False(t, results[2].IsNewRecord, "estimate 223 < 225")
}

func TestRecordSetBodyweight(t *testing.T) {
	tracker := NewTracker(newMemoryStore())

	results, err := tracker.RecordSet(context.Background(), SetEntry{UserID: "u1", ExerciseID: "pushups", Reps: 40})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.MetricMaxReps, results[0].Record.MetricType)
	assert.Equal(t, 40.0, results[0].Record.Value)
}

func TestRecordSetValidation(t *testing.T) {
	tracker := NewTracker(newMemoryStore())
	ctx := context.Background()

	_, err := tracker.RecordSet(ctx, SetEntry{UserID: "u1", ExerciseID: "x", Weight: 50})
	assert.ErrorIs(t, err, ErrInvalidReps)

	_, err = tracker.RecordSet(ctx, SetEntry{UserID: "u1", ExerciseID: "x", Weight: -1, Reps: 3})
	assert.ErrorIs(t, err, ErrInvalidWeight)
}
