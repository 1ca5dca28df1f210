// ABOUTME: Maps engine and storage errors onto the outcome kinds hosts report.
// ABOUTME: HTTP status codes and CLI hints are derived from Kind.
package coach

import (
	"errors"
	"net/http"

	"github.com/harperreed/trainer/internal/planner"
	"github.com/harperreed/trainer/internal/records"
	"github.com/harperreed/trainer/internal/storage"
)

// ErrInvalidExercise means a catalog entry failed validation.
var ErrInvalidExercise = errors.New("invalid exercise")

// Kind classifies an error for reporting.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAmbiguous
	// KindUnsatisfiable means well-formed input that the catalog cannot serve.
	KindUnsatisfiable
)

// Classify returns the Kind of err. A nil error is KindInternal.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, planner.ErrInvalidProfile),
		errors.Is(err, records.ErrInvalidReps),
		errors.Is(err, records.ErrInvalidWeight),
		errors.Is(err, records.ErrInvalidMetric),
		errors.Is(err, records.ErrInvalidValue),
		errors.Is(err, records.ErrInvalidEntry),
		errors.Is(err, ErrInvalidExercise):
		return KindValidation
	case errors.Is(err, planner.ErrNoEligibleExercises):
		return KindUnsatisfiable
	case errors.Is(err, storage.ErrAmbiguousPrefix):
		return KindAmbiguous
	case errors.Is(err, storage.ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch Classify(err) {
	case KindValidation, KindAmbiguous:
		return http.StatusBadRequest
	case KindNotFound, KindUnsatisfiable:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
