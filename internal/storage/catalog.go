// ABOUTME: Exercise catalog and fitness profile operations for SQLite storage.
// ABOUTME: Tag sets are stored as JSON arrays; catalog order is kept in a position column.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/trainer/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// SaveExercise inserts an exercise at the end of the catalog, or updates it in place.
func (d *DB) SaveExercise(ctx context.Context, e *models.Exercise) error {
	muscles, err := encodeTags(e.MuscleGroups)
	if err != nil {
		return fmt.Errorf("save exercise: %w", err)
	}
	equipment, err := encodeTags(e.Equipment)
	if err != nil {
		return fmt.Errorf("save exercise: %w", err)
	}

	query := `
		INSERT INTO exercises (id, position, name, description, category, muscle_groups, equipment, difficulty)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM exercises), ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			category = excluded.category,
			muscle_groups = excluded.muscle_groups,
			equipment = excluded.equipment,
			difficulty = excluded.difficulty
	`
	_, err = d.db.ExecContext(ctx, query,
		e.ID, e.Name, e.Description, e.Category, muscles, equipment, e.Difficulty)
	if err != nil {
		return fmt.Errorf("save exercise: %w", err)
	}
	return nil
}

// GetExercise retrieves an exercise by its ID.
func (d *DB) GetExercise(ctx context.Context, id string) (*models.Exercise, error) {
	query := `
		SELECT id, name, description, category, muscle_groups, equipment, difficulty
		FROM exercises
		WHERE id = ?
	`
	e, err := scanExercise(d.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	return e, err
}

// ListExercises returns the whole catalog in insertion order.
func (d *DB) ListExercises(ctx context.Context) ([]*models.Exercise, error) {
	query := `
		SELECT id, name, description, category, muscle_groups, equipment, difficulty
		FROM exercises
		ORDER BY position ASC
	`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var e models.Exercise
	var muscles, equipment string

	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Category, &muscles, &equipment, &e.Difficulty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan exercise: %w", err)
	}
	if e.MuscleGroups, err = decodeTags(muscles); err != nil {
		return nil, fmt.Errorf("decode muscle groups for %s: %w", e.ID, err)
	}
	if e.Equipment, err = decodeTags(equipment); err != nil {
		return nil, fmt.Errorf("decode equipment for %s: %w", e.ID, err)
	}
	return &e, nil
}

// SaveProfile creates or replaces the profile for p.UserID.
func (d *DB) SaveProfile(ctx context.Context, p *models.FitnessProfile) error {
	equipment, err := encodeTags(p.Equipment)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	focus, err := encodeTags(p.FocusAreas)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	query := `
		INSERT INTO profiles (user_id, goal, experience_level, workout_type, equipment, focus_areas,
			time_available, bench_press_max, squat_max, deadlift_max)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			goal = excluded.goal,
			experience_level = excluded.experience_level,
			workout_type = excluded.workout_type,
			equipment = excluded.equipment,
			focus_areas = excluded.focus_areas,
			time_available = excluded.time_available,
			bench_press_max = excluded.bench_press_max,
			squat_max = excluded.squat_max,
			deadlift_max = excluded.deadlift_max
	`
	_, err = d.db.ExecContext(ctx, query,
		p.UserID, string(p.Goal), p.ExperienceLevel, p.WorkoutType, equipment, focus,
		p.TimeAvailable, p.BenchPressMax, p.SquatMax, p.DeadliftMax)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

const profileColumns = `user_id, goal, experience_level, workout_type, equipment, focus_areas,
	time_available, bench_press_max, squat_max, deadlift_max`

// GetProfile retrieves the profile for userID.
func (d *DB) GetProfile(ctx context.Context, userID string) (*models.FitnessProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ?`
	p, err := scanProfile(d.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("profile " + userID)
	}
	return p, err
}

// ListProfiles returns every stored profile ordered by user ID.
func (d *DB) ListProfiles(ctx context.Context) ([]*models.FitnessProfile, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.FitnessProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func scanProfile(row rowScanner) (*models.FitnessProfile, error) {
	var p models.FitnessProfile
	var goal, equipment, focus string
	var bench, squat, deadlift sql.NullFloat64

	err := row.Scan(&p.UserID, &goal, &p.ExperienceLevel, &p.WorkoutType, &equipment, &focus,
		&p.TimeAvailable, &bench, &squat, &deadlift)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	p.Goal = models.Goal(goal)
	if p.Equipment, err = decodeTags(equipment); err != nil {
		return nil, fmt.Errorf("decode equipment: %w", err)
	}
	if p.FocusAreas, err = decodeTags(focus); err != nil {
		return nil, fmt.Errorf("decode focus areas: %w", err)
	}
	p.BenchPressMax = nullFloat(bench)
	p.SquatMax = nullFloat(squat)
	p.DeadliftMax = nullFloat(deadlift)
	return &p, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}

func decodeTags(s string) ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
