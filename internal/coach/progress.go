// ABOUTME: Progress, streak, and stats operations of the coach service.
// ABOUTME: The current and previous windows are loaded concurrently.
package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/progress"
	"github.com/harperreed/trainer/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Progress summarizes the calendar window of tf containing now and compares
// it with the window before.
func (s *Service) Progress(ctx context.Context, userID string, tf progress.Timeframe) (progress.Summary, error) {
	window := progress.WindowFor(tf, s.now(), s.loc, s.weekStart)
	previous := window.Previous()

	var current, before []*models.Workout
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.workoutsIn(gctx, userID, window)
		return err
	})
	g.Go(func() error {
		var err error
		before, err = s.workoutsIn(gctx, userID, previous)
		return err
	})
	if err := g.Wait(); err != nil {
		return progress.Summary{}, err
	}

	return progress.Summarize(current, before, window, s.loc), nil
}

// Streak counts consecutive workout days ending today or yesterday.
func (s *Service) Streak(ctx context.Context, userID string) (int, error) {
	dates, err := s.workoutDates(ctx, userID)
	if err != nil {
		return 0, err
	}
	return progress.Streak(dates, s.now(), s.loc), nil
}

// Stats reports streak, total workouts, and the last workout time.
func (s *Service) Stats(ctx context.Context, userID string) (progress.Stats, error) {
	dates, err := s.workoutDates(ctx, userID)
	if err != nil {
		return progress.Stats{}, err
	}
	return progress.ComputeStats(dates, s.now(), s.loc), nil
}

func (s *Service) workoutsIn(ctx context.Context, userID string, w progress.Window) ([]*models.Workout, error) {
	start, end := w.Start, w.End
	workouts, err := s.repo.ListWorkouts(ctx, storage.WorkoutFilter{
		UserID: userID,
		Since:  &start,
		Until:  &end,
	})
	if err != nil {
		return nil, fmt.Errorf("list workouts %s..%s: %w", start.Format(time.DateOnly), end.Format(time.DateOnly), err)
	}
	return workouts, nil
}

func (s *Service) workoutDates(ctx context.Context, userID string) ([]time.Time, error) {
	workouts, err := s.repo.ListWorkouts(ctx, storage.WorkoutFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	dates := make([]time.Time, len(workouts))
	for i, w := range workouts {
		dates[i] = w.CreatedAt
	}
	return dates, nil
}
