// ABOUTME: Workout CRUD operations for SQLite storage.
// ABOUTME: Prescribed exercises live in a child table; deleting a workout cascades to them and its records.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

// timeFormat is fixed-width so stored timestamps sort chronologically as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

func formatDBTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseDBTime(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}

// CreateWorkout stores a new workout and its prescribed exercises in one transaction.
func (d *DB) CreateWorkout(ctx context.Context, w *models.Workout) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create workout: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO workouts (id, user_id, name, category, difficulty, duration_minutes, calories, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		w.ID.String(),
		w.UserID,
		w.Name,
		w.Category,
		w.Difficulty,
		w.DurationMinutes,
		w.Calories,
		w.Notes,
		formatDBTime(w.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create workout: %w", err)
	}

	for _, e := range w.Exercises {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO workout_exercises (workout_id, position, exercise_id, exercise_name, sets, reps, weight)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, w.ID.String(), e.Order, e.ExerciseID, e.ExerciseName, e.Sets, e.Reps, e.Weight)
		if err != nil {
			return fmt.Errorf("create workout exercise %s: %w", e.ExerciseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create workout: %w", err)
	}
	return nil
}

const workoutColumns = `id, user_id, name, category, difficulty, duration_minutes, calories, notes, created_at`

// GetWorkout retrieves a workout with its exercises by ID or ID prefix.
func (d *DB) GetWorkout(ctx context.Context, idOrPrefix string) (*models.Workout, error) {
	id, err := d.resolveWorkoutID(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}

	w, err := scanWorkout(d.db.QueryRowContext(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(idOrPrefix)
	}
	if err != nil {
		return nil, err
	}

	if w.Exercises, err = d.listWorkoutExercises(ctx, w.ID); err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorkouts retrieves workouts matching filter, most recent first.
func (d *DB) ListWorkouts(ctx context.Context, filter WorkoutFilter) ([]*models.Workout, error) {
	var where []string
	var args []any

	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Category != "" {
		where = append(where, "LOWER(category) = LOWER(?)")
		args = append(args, filter.Category)
	}
	if filter.Since != nil {
		where = append(where, "created_at >= ?")
		args = append(args, formatDBTime(*filter.Since))
	}
	if filter.Until != nil {
		where = append(where, "created_at < ?")
		args = append(args, formatDBTime(*filter.Until))
	}

	query := `SELECT ` + workoutColumns + ` FROM workouts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	workouts, err := d.queryWorkouts(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	// Rows are closed by now; the single connection is free for child queries.
	for _, w := range workouts {
		if w.Exercises, err = d.listWorkoutExercises(ctx, w.ID); err != nil {
			return nil, err
		}
	}
	return workouts, nil
}

func (d *DB) queryWorkouts(ctx context.Context, query string, args ...any) ([]*models.Workout, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []*models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// DeleteWorkout removes a workout, its exercises, and records set in it (cascade delete).
func (d *DB) DeleteWorkout(ctx context.Context, idOrPrefix string) error {
	id, err := d.resolveWorkoutID(ctx, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	// CASCADE is enabled, so deleting the workout deletes its children
	result, err := d.db.ExecContext(ctx, "DELETE FROM workouts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if affected == 0 {
		return notFound(idOrPrefix)
	}

	return nil
}

func (d *DB) listWorkoutExercises(ctx context.Context, workoutID uuid.UUID) ([]models.PrescribedExercise, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT exercise_id, exercise_name, sets, reps, weight, position
		FROM workout_exercises
		WHERE workout_id = ?
		ORDER BY position ASC
	`, workoutID.String())
	if err != nil {
		return nil, fmt.Errorf("list workout exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.PrescribedExercise
	for rows.Next() {
		var e models.PrescribedExercise
		if err := rows.Scan(&e.ExerciseID, &e.ExerciseName, &e.Sets, &e.Reps, &e.Weight, &e.Order); err != nil {
			return nil, fmt.Errorf("scan workout exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// resolveWorkoutID finds the full ID from a prefix.
func (d *DB) resolveWorkoutID(ctx context.Context, idOrPrefix string) (string, error) {
	if isFullUUID(idOrPrefix) {
		return idOrPrefix, nil
	}

	query := `SELECT id FROM workouts WHERE id LIKE ? || '%' LIMIT 2`
	rows, err := d.db.QueryContext(ctx, query, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve workout ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan workout ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve workout ID: %w", err)
	}

	if len(matches) == 0 {
		return "", notFound(idOrPrefix)
	}
	if len(matches) > 1 {
		return "", ambiguous(idOrPrefix)
	}

	return matches[0], nil
}

// scanWorkout scans a single row into a Workout without its exercises.
func scanWorkout(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	var idStr, createdAt string
	var notes sql.NullString

	err := row.Scan(&idStr, &w.UserID, &w.Name, &w.Category, &w.Difficulty,
		&w.DurationMinutes, &w.Calories, &notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan workout: %w", err)
	}

	if w.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse workout ID %q: %w", idStr, err)
	}
	if w.CreatedAt, err = parseDBTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if notes.Valid {
		w.Notes = &notes.String
	}

	return &w, nil
}
