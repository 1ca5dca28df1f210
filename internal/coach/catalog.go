// ABOUTME: Exercise catalog and fitness profile operations of the coach service.
// ABOUTME: An empty catalog is seeded from the embedded default exercises.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/trainer/internal/catalog"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/planner"
	"github.com/harperreed/trainer/internal/storage"
)

// Catalog lists every exercise in catalog order.
func (s *Service) Catalog(ctx context.Context) ([]*models.Exercise, error) {
	return s.repo.ListExercises(ctx)
}

// AddExercises validates and saves exercises. Existing IDs are replaced in place.
func (s *Service) AddExercises(ctx context.Context, exercises ...*models.Exercise) error {
	if err := catalog.Validate(exercises); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExercise, err)
	}
	for _, e := range exercises {
		if err := s.repo.SaveExercise(ctx, e); err != nil {
			return fmt.Errorf("save exercise %s: %w", e.ID, err)
		}
	}
	return nil
}

// SeedCatalog stores the default exercises when the catalog is empty and
// returns how many were added.
func (s *Service) SeedCatalog(ctx context.Context) (int, error) {
	existing, err := s.repo.ListExercises(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	defaults := catalog.Default()
	if err := s.AddExercises(ctx, defaults...); err != nil {
		return 0, err
	}
	s.logger.Info("catalog seeded", "exercises", len(defaults))
	return len(defaults), nil
}

// Profile returns the stored profile of userID.
func (s *Service) Profile(ctx context.Context, userID string) (*models.FitnessProfile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// ProfileOrDefault returns the stored profile or a fresh general one.
func (s *Service) ProfileOrDefault(ctx context.Context, userID string) (*models.FitnessProfile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.NewFitnessProfile(userID, models.GoalGeneral), nil
	}
	return p, err
}

// SaveProfile normalizes tag lists and stores p.
func (s *Service) SaveProfile(ctx context.Context, p *models.FitnessProfile) error {
	if p == nil || strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("%w: user is required", planner.ErrInvalidProfile)
	}
	if p.TimeAvailable < 0 {
		return fmt.Errorf("%w: time available must not be negative", planner.ErrInvalidProfile)
	}
	if err := planner.ValidateMaxes(p); err != nil {
		return err
	}
	p.BenchPressMax = positiveOrNil(p.BenchPressMax)
	p.SquatMax = positiveOrNil(p.SquatMax)
	p.DeadliftMax = positiveOrNil(p.DeadliftMax)

	p.Equipment = normalizeTags(p.Equipment)
	p.FocusAreas = normalizeTags(p.FocusAreas)
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	s.logger.Debug("profile saved", "user", p.UserID, "goal", p.Goal)
	return nil
}

// positiveOrNil stores an untested (zero) max as absent.
func positiveOrNil(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

// normalizeTags trims and lowercases tags and drops blanks, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
