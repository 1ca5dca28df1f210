// ABOUTME: Repository interface for training data storage.
// ABOUTME: Defines the contract for catalog, profile, workout, and personal record persistence.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/trainer/internal/models"
)

var (
	// ErrNotFound means no record matched the ID, prefix, or key.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousPrefix means an ID prefix matched more than one record.
	ErrAmbiguousPrefix = errors.New("ambiguous prefix")
)

// WorkoutFilter narrows ListWorkouts. Zero values mean no constraint.
// Since is inclusive and Until is exclusive.
type WorkoutFilter struct {
	UserID   string
	Category string
	Since    *time.Time
	Until    *time.Time
	Limit    int
}

// Matches reports whether w passes the filter, ignoring Limit.
func (f WorkoutFilter) Matches(w *models.Workout) bool {
	if f.UserID != "" && w.UserID != f.UserID {
		return false
	}
	if f.Category != "" && !strings.EqualFold(w.Category, f.Category) {
		return false
	}
	if f.Since != nil && w.CreatedAt.Before(*f.Since) {
		return false
	}
	if f.Until != nil && !w.CreatedAt.Before(*f.Until) {
		return false
	}
	return true
}

// RecordFilter narrows ListPersonalRecords. Zero values mean no constraint.
type RecordFilter struct {
	UserID     string
	ExerciseID string
	Limit      int
}

// Matches reports whether r passes the filter, ignoring Limit.
func (f RecordFilter) Matches(r *models.PersonalRecord) bool {
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.ExerciseID != "" && r.ExerciseID != f.ExerciseID {
		return false
	}
	return true
}

// Repository defines the storage interface for training data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Exercise catalog, kept in insertion order
	SaveExercise(ctx context.Context, e *models.Exercise) error
	GetExercise(ctx context.Context, id string) (*models.Exercise, error)
	ListExercises(ctx context.Context) ([]*models.Exercise, error)

	// Profile operations
	SaveProfile(ctx context.Context, p *models.FitnessProfile) error
	GetProfile(ctx context.Context, userID string) (*models.FitnessProfile, error)
	ListProfiles(ctx context.Context) ([]*models.FitnessProfile, error)

	// Workout operations; lists are sorted by CreatedAt descending
	CreateWorkout(ctx context.Context, w *models.Workout) error
	GetWorkout(ctx context.Context, idOrPrefix string) (*models.Workout, error)
	ListWorkouts(ctx context.Context, filter WorkoutFilter) ([]*models.Workout, error)
	DeleteWorkout(ctx context.Context, idOrPrefix string) error

	// Personal record operations; lists are sorted by AchievedAt descending
	GetPersonalRecord(ctx context.Context, key models.RecordKey) (*models.PersonalRecord, error)
	ListPersonalRecords(ctx context.Context, filter RecordFilter) ([]*models.PersonalRecord, error)
	SwapRecordIfGreater(ctx context.Context, candidate *models.PersonalRecord) (*models.RecordSwap, error)

	// Lifecycle
	Close() error
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func ambiguous(prefix string) error {
	return fmt.Errorf("%w %s: matches multiple records", ErrAmbiguousPrefix, prefix)
}

// isFullUUID reports whether s looks like a complete UUID rather than a prefix.
func isFullUUID(s string) bool {
	return len(s) == 36 && strings.Count(s, "-") == 4
}

// applyLimit truncates a sorted slice to limit entries when limit is positive.
func applyLimit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
