// ABOUTME: Goal-based prescription table and target weight derivation.
// ABOUTME: Weights round to the nearest 5; unknown goals fall back to the default row.
package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/harperreed/trainer/internal/models"
)

// Prescription is the sets, reps, and load fraction for a goal.
type Prescription struct {
	Sets      int
	Reps      int
	Intensity float64
}

// DefaultPrescription applies to any goal without its own row.
var DefaultPrescription = Prescription{Sets: 3, Reps: 10, Intensity: 0.70}

var prescriptions = map[models.Goal]Prescription{
	models.GoalBuildMuscle:      {Sets: 4, Reps: 8, Intensity: 0.75},
	models.GoalIncreaseStrength: {Sets: 5, Reps: 5, Intensity: 0.85},
	models.GoalLoseWeight:       {Sets: 3, Reps: 15, Intensity: 0.65},
	models.GoalImproveEndurance: {Sets: 3, Reps: 12, Intensity: 0.70},
}

// accessoryFraction scales the smallest known max for lifts without a direct max.
const accessoryFraction = 0.6

// PrescriptionFor returns the prescription for goal. It never fails.
func PrescriptionFor(goal models.Goal) Prescription {
	if p, ok := prescriptions[goal]; ok {
		return p
	}
	return DefaultPrescription
}

// TargetWeight returns max*intensity rounded half-up to the nearest 5.
// A nil max means bodyweight and yields 0.
func TargetWeight(max *float64, intensity float64) float64 {
	if max == nil {
		return 0
	}
	return roundToNearest5(*max * intensity)
}

func roundToNearest5(v float64) float64 {
	return math.Floor(v/5+0.5) * 5
}

// ReferenceMax picks the known max an exercise is loaded from.
// Bench, squat, and deadlift variants use their own max. Anything else
// uses 60% of the smallest known max, or nil when no max is known.
// A max of zero counts as unknown.
func ReferenceMax(exerciseName string, profile *models.FitnessProfile) *float64 {
	name := strings.ToLower(exerciseName)
	switch {
	case strings.Contains(name, "bench"):
		return knownMax(profile.BenchPressMax)
	case strings.Contains(name, "squat"):
		return knownMax(profile.SquatMax)
	case strings.Contains(name, "deadlift"):
		return knownMax(profile.DeadliftMax)
	}

	var smallest *float64
	for _, m := range []*float64{profile.BenchPressMax, profile.SquatMax, profile.DeadliftMax} {
		if knownMax(m) == nil {
			continue
		}
		if smallest == nil || *m < *smallest {
			v := *m
			smallest = &v
		}
	}
	if smallest == nil {
		return nil
	}
	accessory := *smallest * accessoryFraction
	return &accessory
}

func knownMax(m *float64) *float64 {
	if m == nil || *m <= 0 {
		return nil
	}
	return m
}

// ValidateMaxes rejects negative or non-finite lift maxima. Zero is allowed
// and means the lift is untested.
func ValidateMaxes(profile *models.FitnessProfile) error {
	lifts := []struct {
		name string
		max  *float64
	}{
		{"bench press", profile.BenchPressMax},
		{"squat", profile.SquatMax},
		{"deadlift", profile.DeadliftMax},
	}
	for _, l := range lifts {
		if l.max == nil {
			continue
		}
		if v := *l.max; v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s max must be a positive weight, got %v", ErrInvalidProfile, l.name, v)
		}
	}
	return nil
}
