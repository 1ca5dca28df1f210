// ABOUTME: Shared fixtures for storage package tests.
// ABOUTME: Opens throwaway SQLite and markdown stores under t.TempDir.
package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/trainer/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), DBFileName))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupTestMarkdownStore(t *testing.T) *MarkdownStore {
	t.Helper()

	store, err := NewMarkdownStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create markdown store: %v", err)
	}
	return store
}

// seed writes one of everything into repo and returns the workout.
func seed(t *testing.T, repo Repository) *models.Workout {
	t.Helper()
	ctx := context.Background()

	e := &models.Exercise{
		ID:           "bench-press",
		Name:         "Bench Press",
		Description:  "Press the bar from chest to lockout.",
		Category:     "strength",
		MuscleGroups: []string{"chest", "triceps"},
		Equipment:    []string{"barbell", "bench"},
		Difficulty:   "intermediate",
	}
	if err := repo.SaveExercise(ctx, e); err != nil {
		t.Fatalf("SaveExercise failed: %v", err)
	}

	p := models.NewFitnessProfile("alice", models.GoalBuildMuscle).WithMaxes(models.Float(100), nil, nil)
	p.Equipment = []string{"barbell", "bench"}
	p.FocusAreas = []string{"chest"}
	if err := repo.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	w := models.NewWorkout("alice", "Chest Build Muscle Workout").
		WithCategory("strength").
		WithDuration(30).
		WithCalories(240).
		WithCreatedAt(time.Date(2024, time.May, 6, 7, 0, 0, 0, time.UTC)).
		WithNotes("heavy day")
	w.Difficulty = "beginner"
	w.Exercises = []models.PrescribedExercise{
		{ExerciseID: "bench-press", ExerciseName: "Bench Press", Sets: 4, Reps: 8, Weight: 75, Order: 1},
	}
	if err := repo.CreateWorkout(ctx, w); err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}

	r := models.NewPersonalRecord(models.RecordKey{
		UserID: "alice", ExerciseID: "bench-press", MetricType: models.MetricMaxWeight,
	}, 75).WithAchievedAt(w.CreatedAt).WithWorkout(w.ID)
	if _, err := repo.SwapRecordIfGreater(ctx, r); err != nil {
		t.Fatalf("SwapRecordIfGreater failed: %v", err)
	}

	return w
}
