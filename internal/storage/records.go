// ABOUTME: Personal record operations for SQLite storage.
// ABOUTME: SwapRecordIfGreater is a conditional upsert on the (user, exercise, metric) key.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

const recordColumns = `id, user_id, exercise_id, metric_type, value, unit, achieved_at, workout_id`

// GetPersonalRecord retrieves the current record for key.
func (d *DB) GetPersonalRecord(ctx context.Context, key models.RecordKey) (*models.PersonalRecord, error) {
	return getRecord(ctx, d.db, key)
}

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getRecord(ctx context.Context, q queryRower, key models.RecordKey) (*models.PersonalRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM personal_records
		WHERE user_id = ? AND exercise_id = ? AND metric_type = ?`
	r, err := scanRecord(q.QueryRowContext(ctx, query, key.UserID, key.ExerciseID, string(key.MetricType)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("record " + key.String())
	}
	return r, err
}

// ListPersonalRecords retrieves records matching filter, most recent first.
func (d *DB) ListPersonalRecords(ctx context.Context, filter RecordFilter) ([]*models.PersonalRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM personal_records WHERE 1 = 1`
	var args []any

	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.ExerciseID != "" {
		query += " AND exercise_id = ?"
		args = append(args, filter.ExerciseID)
	}
	query += " ORDER BY achieved_at DESC, exercise_id ASC, metric_type ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list personal records: %w", err)
	}
	defer rows.Close()

	var out []*models.PersonalRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SwapRecordIfGreater writes candidate when its key has no record or candidate
// strictly beats the stored value. An existing record keeps its ID.
func (d *DB) SwapRecordIfGreater(ctx context.Context, candidate *models.PersonalRecord) (*models.RecordSwap, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin record swap: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prev, err := getRecord(ctx, tx, candidate.RecordKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	next := *candidate
	if prev != nil {
		next.ID = prev.ID
	}

	var workoutID *string
	if next.WorkoutID != nil {
		s := next.WorkoutID.String()
		workoutID = &s
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO personal_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, exercise_id, metric_type) DO UPDATE SET
			value = excluded.value,
			unit = excluded.unit,
			achieved_at = excluded.achieved_at,
			workout_id = excluded.workout_id
		WHERE excluded.value > personal_records.value
	`, next.ID.String(), next.UserID, next.ExerciseID, string(next.MetricType),
		next.Value, next.Unit, formatDBTime(next.AchievedAt), workoutID)
	if err != nil {
		return nil, fmt.Errorf("upsert record %s: %w", next.RecordKey, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("upsert record %s: %w", next.RecordKey, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit record swap: %w", err)
	}

	if affected == 0 {
		return &models.RecordSwap{Previous: prev, Current: prev}, nil
	}
	return &models.RecordSwap{Previous: prev, Current: &next, Swapped: true}, nil
}

func scanRecord(row rowScanner) (*models.PersonalRecord, error) {
	var r models.PersonalRecord
	var idStr, metric, achievedAt string
	var workoutID sql.NullString

	err := row.Scan(&idStr, &r.UserID, &r.ExerciseID, &metric, &r.Value, &r.Unit, &achievedAt, &workoutID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan personal record: %w", err)
	}

	r.MetricType = models.MetricType(metric)
	if r.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse record ID %q: %w", idStr, err)
	}
	if r.AchievedAt, err = parseDBTime(achievedAt); err != nil {
		return nil, fmt.Errorf("parse achieved_at %q: %w", achievedAt, err)
	}
	if workoutID.Valid {
		id, err := uuid.Parse(workoutID.String)
		if err != nil {
			return nil, fmt.Errorf("parse record workout ID %q: %w", workoutID.String, err)
		}
		r.WorkoutID = &id
	}
	return &r, nil
}
