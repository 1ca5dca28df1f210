// ABOUTME: Personal record operations of the coach service.
// ABOUTME: Performance entries and sets go through the compare-and-swap tracker.
package coach

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/records"
	"github.com/harperreed/trainer/internal/storage"
)

// DefaultRecentRecords is the number of records RecentRecords returns when limit is not positive.
const DefaultRecentRecords = 5

// RecordPerformance checks entry against the current best and stores it when it wins.
// A linked workout must belong to the same user.
func (s *Service) RecordPerformance(ctx context.Context, entry models.PerformanceEntry) (*records.Result, error) {
	if err := s.checkWorkoutLink(ctx, entry.UserID, entry.WorkoutID); err != nil {
		return nil, err
	}

	res, err := s.tracker.CheckAndUpdate(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.observeRecord(res)
	return res, nil
}

// RecordSet feeds a completed set to the tracker as max weight, max reps, and estimated one-rep max.
func (s *Service) RecordSet(ctx context.Context, set records.SetEntry) ([]*records.Result, error) {
	if err := s.checkWorkoutLink(ctx, set.UserID, set.WorkoutID); err != nil {
		return nil, err
	}

	results, err := s.tracker.RecordSet(ctx, set)
	for _, r := range results {
		s.observeRecord(r)
	}
	return results, err
}

// EstimateOneRepMax applies the Brzycki formula.
func (s *Service) EstimateOneRepMax(weight float64, reps int) (float64, error) {
	return records.EstimateOneRepMax(weight, reps)
}

// Records lists the user's records, optionally for one exercise.
func (s *Service) Records(ctx context.Context, userID, exerciseID string, limit int) ([]*models.PersonalRecord, error) {
	return s.repo.ListPersonalRecords(ctx, storage.RecordFilter{
		UserID:     userID,
		ExerciseID: exerciseID,
		Limit:      limit,
	})
}

// RecentRecords returns the user's most recently achieved records.
func (s *Service) RecentRecords(ctx context.Context, userID string, limit int) ([]*models.PersonalRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentRecords
	}
	return s.Records(ctx, userID, "", limit)
}

// ResolveWorkoutID turns a workout ID or prefix into the full ID of one of
// the user's workouts. An empty string resolves to nil.
func (s *Service) ResolveWorkoutID(ctx context.Context, userID, idOrPrefix string) (*uuid.UUID, error) {
	if idOrPrefix == "" {
		return nil, nil
	}
	w, err := s.Workout(ctx, userID, idOrPrefix)
	if err != nil {
		return nil, err
	}
	id := w.ID
	return &id, nil
}

func (s *Service) checkWorkoutLink(ctx context.Context, userID string, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.Workout(ctx, userID, id.String()); err != nil {
		return fmt.Errorf("linked workout: %w", err)
	}
	return nil
}

func (s *Service) observeRecord(res *records.Result) {
	if res == nil || res.Record == nil {
		return
	}
	metric := string(res.Record.MetricType)
	if s.metrics != nil {
		s.metrics.CounterRecordChecks.WithLabelValues(metric).Inc()
		if res.IsNewRecord {
			s.metrics.CounterNewRecords.WithLabelValues(metric).Inc()
		}
	}
	if res.IsNewRecord {
		s.logger.Info("new personal record",
			"user", res.Record.UserID,
			"exercise", res.Record.ExerciseID,
			"metric", metric,
			"value", res.Record.Value,
			"improvement", res.Improvement)
	}
}
