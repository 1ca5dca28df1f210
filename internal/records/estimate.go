// ABOUTME: One-rep-max estimation from a submaximal set using the Brzycki formula.
// ABOUTME: Defined for 1..36 reps; anything else is rejected.
package records

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidReps means the rep count is outside 1..36.
	ErrInvalidReps = errors.New("invalid reps")

	// ErrInvalidWeight means the weight is negative or not a number.
	ErrInvalidWeight = errors.New("invalid weight")
)

// MaxEstimableReps is the highest rep count the Brzycki formula accepts.
const MaxEstimableReps = 36

// EstimateOneRepMax returns round(weight * 36 / (37 - reps)).
func EstimateOneRepMax(weight float64, reps int) (float64, error) {
	if reps <= 0 || reps > MaxEstimableReps {
		return 0, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidReps, reps, MaxEstimableReps)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidWeight, weight)
	}
	return math.Round(weight * 36 / float64(37-reps)), nil
}
