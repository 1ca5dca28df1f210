// ABOUTME: Personal record model and MetricType enum for strength tracking.
// ABOUTME: Records are keyed by user, exercise, and metric type; one current best per key.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MetricType is the kind of performance a personal record measures.
type MetricType string

const (
	MetricOneRepMax MetricType = "one_rep_max"
	MetricMaxWeight MetricType = "max_weight"
	MetricMaxReps   MetricType = "max_reps"
	MetricMaxTime   MetricType = "max_time"
)

// MetricUnits maps metric types to their default units.
var MetricUnits = map[MetricType]string{
	MetricOneRepMax: "kg",
	MetricMaxWeight: "kg",
	MetricMaxReps:   "reps",
	MetricMaxTime:   "s",
}

// AllMetricTypes returns all valid metric types.
var AllMetricTypes = []MetricType{
	MetricOneRepMax, MetricMaxWeight, MetricMaxReps, MetricMaxTime,
}

// IsValidMetricType checks if a string is a valid metric type.
func IsValidMetricType(s string) bool {
	for _, mt := range AllMetricTypes {
		if string(mt) == s {
			return true
		}
	}
	return false
}

// RecordKey identifies the single current record for a user, exercise, and metric.
type RecordKey struct {
	UserID     string     `json:"user_id"`
	ExerciseID string     `json:"exercise_id"`
	MetricType MetricType `json:"metric_type"`
}

// String renders the key as user/exercise/metric.
func (k RecordKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.UserID, k.ExerciseID, k.MetricType)
}

// PerformanceEntry is a logged performance submitted to the record tracker.
type PerformanceEntry struct {
	UserID     string     `json:"user_id"`
	ExerciseID string     `json:"exercise_id"`
	MetricType MetricType `json:"metric_type"`
	Value      float64    `json:"value"`
	Unit       string     `json:"unit,omitempty"`
	WorkoutID  *uuid.UUID `json:"workout_id,omitempty"`
	AchievedAt time.Time  `json:"achieved_at,omitempty"`
}

// Key returns the record key this entry competes for.
func (e PerformanceEntry) Key() RecordKey {
	return RecordKey{UserID: e.UserID, ExerciseID: e.ExerciseID, MetricType: e.MetricType}
}

// PersonalRecord is the best-ever value for a RecordKey.
type PersonalRecord struct {
	ID uuid.UUID `json:"id"`
	RecordKey
	Value      float64    `json:"value"`
	Unit       string     `json:"unit"`
	AchievedAt time.Time  `json:"achieved_at"`
	WorkoutID  *uuid.UUID `json:"workout_id,omitempty"`
}

// NewPersonalRecord creates a record with a generated UUID and the metric's default unit.
func NewPersonalRecord(key RecordKey, value float64) *PersonalRecord {
	return &PersonalRecord{
		ID:         uuid.New(),
		RecordKey:  key,
		Value:      value,
		Unit:       MetricUnits[key.MetricType],
		AchievedAt: time.Now(),
	}
}

// WithUnit overrides the unit when non-empty.
func (r *PersonalRecord) WithUnit(unit string) *PersonalRecord {
	if unit != "" {
		r.Unit = unit
	}
	return r
}

// WithAchievedAt sets a custom achievement timestamp.
func (r *PersonalRecord) WithAchievedAt(t time.Time) *PersonalRecord {
	r.AchievedAt = t
	return r
}

// WithWorkout links the record to the workout it was set in.
func (r *PersonalRecord) WithWorkout(id uuid.UUID) *PersonalRecord {
	r.WorkoutID = &id
	return r
}

// RecordSwap is the outcome of a conditional record write.
// Previous is nil when no record existed for the key.
// Current is whatever is stored after the write attempt.
type RecordSwap struct {
	Previous *PersonalRecord
	Current  *PersonalRecord
	Swapped  bool
}
