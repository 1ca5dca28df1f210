// ABOUTME: Data migration between trainer storage backends.
// ABOUTME: Copies the catalog, profiles, workouts, and personal records from source to destination.

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Exercises int
	Profiles  int
	Workouts  int
	Records   int
}

// MigrateData copies all data from src to dst storage.
// Exercises are copied in catalog order so positions survive the move, and
// workouts are copied before records so workout links stay valid. The
// destination should be empty before calling this function.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	exercises, err := src.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source exercises: %w", err)
	}
	for _, e := range exercises {
		if err := dst.SaveExercise(ctx, e); err != nil {
			return nil, fmt.Errorf("save exercise %s: %w", e.ID, err)
		}
		summary.Exercises++
	}

	profiles, err := src.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source profiles: %w", err)
	}
	for _, p := range profiles {
		if err := dst.SaveProfile(ctx, p); err != nil {
			return nil, fmt.Errorf("save profile %s: %w", p.UserID, err)
		}
		summary.Profiles++
	}

	workouts, err := src.ListWorkouts(ctx, WorkoutFilter{})
	if err != nil {
		return nil, fmt.Errorf("list source workouts: %w", err)
	}
	// Oldest first keeps insertion order stable in append-only backends.
	for i := len(workouts) - 1; i >= 0; i-- {
		w := workouts[i]
		if err := dst.CreateWorkout(ctx, w); err != nil {
			return nil, fmt.Errorf("create workout %s: %w", w.ID, err)
		}
		summary.Workouts++
	}

	records, err := src.ListPersonalRecords(ctx, RecordFilter{})
	if err != nil {
		return nil, fmt.Errorf("list source records: %w", err)
	}
	for _, r := range records {
		if _, err := dst.SwapRecordIfGreater(ctx, r); err != nil {
			return nil, fmt.Errorf("copy record %s: %w", r.RecordKey, err)
		}
		summary.Records++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
