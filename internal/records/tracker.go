// ABOUTME: Personal record tracker that detects and persists new bests.
// ABOUTME: The write is a compare-and-swap delegated to the store, so concurrent submissions never lose the max.
package records

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

var (
	// ErrInvalidMetric means the metric type is not one of the known kinds.
	ErrInvalidMetric = errors.New("invalid metric type")

	// ErrInvalidValue means the value is not a positive finite number.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidEntry means the user or exercise is missing.
	ErrInvalidEntry = errors.New("invalid performance entry")
)

// Store persists personal records with an atomic conditional write.
// SwapRecordIfGreater stores candidate only if no record exists for its key
// or candidate.Value strictly exceeds the stored value.
type Store interface {
	SwapRecordIfGreater(ctx context.Context, candidate *models.PersonalRecord) (*models.RecordSwap, error)
}

// Result reports the outcome of a record check.
type Result struct {
	Record      *models.PersonalRecord `json:"record"`
	IsNewRecord bool                   `json:"is_new_record"`
	Improvement float64                `json:"improvement"`
}

// Tracker checks performances against stored records.
type Tracker struct {
	store Store
	now   func() time.Time
}

// NewTracker creates a tracker backed by store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// WithClock replaces the clock used for default timestamps.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// CheckAndUpdate stores entry as the new record for its key when it strictly
// beats the current one. Ties are not records.
func (t *Tracker) CheckAndUpdate(ctx context.Context, entry models.PerformanceEntry) (*Result, error) {
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	at := entry.AchievedAt
	if at.IsZero() {
		at = t.now()
	}

	candidate := models.NewPersonalRecord(entry.Key(), entry.Value).
		WithUnit(entry.Unit).
		WithAchievedAt(at)
	if entry.WorkoutID != nil {
		candidate.WithWorkout(*entry.WorkoutID)
	}

	swap, err := t.store.SwapRecordIfGreater(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("swap record %s: %w", entry.Key(), err)
	}

	if !swap.Swapped {
		return &Result{Record: swap.Current}, nil
	}

	improvement := entry.Value
	if swap.Previous != nil {
		improvement = entry.Value - swap.Previous.Value
	}
	return &Result{Record: swap.Current, IsNewRecord: true, Improvement: improvement}, nil
}

func validateEntry(entry models.PerformanceEntry) error {
	if entry.UserID == "" || entry.ExerciseID == "" {
		return fmt.Errorf("%w: user and exercise are required", ErrInvalidEntry)
	}
	if !models.IsValidMetricType(string(entry.MetricType)) {
		return fmt.Errorf("%w: %q", ErrInvalidMetric, entry.MetricType)
	}
	if math.IsNaN(entry.Value) || math.IsInf(entry.Value, 0) || entry.Value <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidValue, entry.Value)
	}
	return nil
}

// SetEntry is a completed set of a loaded or bodyweight exercise.
type SetEntry struct {
	UserID     string     `json:"user_id"`
	ExerciseID string     `json:"exercise_id"`
	Weight     float64    `json:"weight"`
	Reps       int        `json:"reps"`
	Unit       string     `json:"unit,omitempty"`
	WorkoutID  *uuid.UUID `json:"workout_id,omitempty"`
	AchievedAt time.Time  `json:"achieved_at,omitempty"`
}

// RecordSet checks every metric a set can produce: max weight and the
// estimated one-rep max when loaded, and max reps always. Results come back
// in that order: max_weight, max_reps, one_rep_max.
func (t *Tracker) RecordSet(ctx context.Context, set SetEntry) ([]*Result, error) {
	if set.Reps <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidReps, set.Reps)
	}
	if set.Weight < 0 || math.IsNaN(set.Weight) || math.IsInf(set.Weight, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeight, set.Weight)
	}

	base := models.PerformanceEntry{
		UserID:     set.UserID,
		ExerciseID: set.ExerciseID,
		WorkoutID:  set.WorkoutID,
		AchievedAt: set.AchievedAt,
	}

	var entries []models.PerformanceEntry
	if set.Weight > 0 {
		e := base
		e.MetricType, e.Value, e.Unit = models.MetricMaxWeight, set.Weight, set.Unit
		entries = append(entries, e)
	}

	reps := base
	reps.MetricType, reps.Value = models.MetricMaxReps, float64(set.Reps)
	entries = append(entries, reps)

	if set.Weight > 0 && set.Reps <= MaxEstimableReps {
		estimate, err := EstimateOneRepMax(set.Weight, set.Reps)
		if err != nil {
			return nil, err
		}
		if estimate > 0 {
			e := base
			e.MetricType, e.Value, e.Unit = models.MetricOneRepMax, estimate, set.Unit
			entries = append(entries, e)
		}
	}

	results := make([]*Result, 0, len(entries))
	for _, e := range entries {
		r, err := t.CheckAndUpdate(ctx, e)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}
