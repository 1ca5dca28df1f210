// ABOUTME: Plan generation and workout history operations of the coach service.
// ABOUTME: Generated plans are optionally persisted as workouts owned by the user.
package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/planner"
	"github.com/harperreed/trainer/internal/storage"
)

// GeneratedPlan is a plan and, when persisted, the workout it was saved as.
type GeneratedPlan struct {
	Plan    models.WorkoutPlan `json:"plan"`
	Workout *models.Workout    `json:"workout,omitempty"`
}

// GeneratePlan builds a plan for userID. A nil profile loads the stored one.
// When persist is set the plan is saved as a new workout.
func (s *Service) GeneratePlan(ctx context.Context, userID string, profile *models.FitnessProfile, persist bool) (*GeneratedPlan, error) {
	if profile == nil {
		stored, err := s.repo.GetProfile(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		profile = stored
	}

	plan, err := s.PreviewPlan(ctx, profile)
	if err != nil {
		return nil, err
	}

	out := &GeneratedPlan{Plan: plan}
	if !persist {
		return out, nil
	}

	w := models.NewWorkoutFromPlan(userID, plan).WithCreatedAt(s.now())
	if err := s.repo.CreateWorkout(ctx, w); err != nil {
		return nil, fmt.Errorf("save workout: %w", err)
	}
	s.logger.Info("workout saved", "user", userID, "id", w.ID, "exercises", len(w.Exercises))
	out.Workout = w
	return out, nil
}

// PreviewPlan runs the generator against the stored catalog without saving anything.
func (s *Service) PreviewPlan(ctx context.Context, profile *models.FitnessProfile) (models.WorkoutPlan, error) {
	exercises, err := s.repo.ListExercises(ctx)
	if err != nil {
		return models.WorkoutPlan{}, fmt.Errorf("load catalog: %w", err)
	}

	plan, err := planner.Generate(profile, exercises)
	if err != nil {
		s.logger.Debug("plan generation failed", "err", err)
		return models.WorkoutPlan{}, err
	}

	if s.metrics != nil {
		s.metrics.CounterPlansGenerated.WithLabelValues(string(profile.Goal)).Inc()
		s.metrics.HistPlanExercises.Observe(float64(len(plan.Exercises)))
	}
	s.logger.Debug("plan generated", "name", plan.Name, "exercises", len(plan.Exercises))
	return plan, nil
}

// Workouts lists the user's workouts, newest first.
func (s *Service) Workouts(ctx context.Context, userID string, filter storage.WorkoutFilter) ([]*models.Workout, error) {
	filter.UserID = userID
	return s.repo.ListWorkouts(ctx, filter)
}

// Workout resolves an ID or prefix among the user's workouts.
// Workouts of other users are reported as not found.
func (s *Service) Workout(ctx context.Context, userID, idOrPrefix string) (*models.Workout, error) {
	w, err := s.repo.GetWorkout(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, fmt.Errorf("%w: workout %s", storage.ErrNotFound, idOrPrefix)
	}
	return w, nil
}

// DeleteWorkout removes a workout and the records linked to it.
func (s *Service) DeleteWorkout(ctx context.Context, userID, idOrPrefix string) (*models.Workout, error) {
	w, err := s.Workout(ctx, userID, idOrPrefix)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteWorkout(ctx, w.ID.String()); err != nil {
		return nil, fmt.Errorf("delete workout: %w", err)
	}
	s.logger.Info("workout deleted", "user", userID, "id", w.ID)
	return w, nil
}

// IsNotFound reports whether err means a missing workout, profile, or record.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
