// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines exercises, profiles, workouts, workout_exercises, and personal_records.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		muscle_groups TEXT NOT NULL DEFAULT '[]',
		equipment TEXT NOT NULL DEFAULT '[]',
		difficulty TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		goal TEXT NOT NULL DEFAULT '',
		experience_level TEXT NOT NULL DEFAULT '',
		workout_type TEXT NOT NULL DEFAULT '',
		equipment TEXT NOT NULL DEFAULT '[]',
		focus_areas TEXT NOT NULL DEFAULT '[]',
		time_available INTEGER NOT NULL DEFAULT 0,
		bench_press_max REAL,
		squat_max REAL,
		deadlift_max REAL
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		calories INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS workout_exercises (
		workout_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		exercise_id TEXT NOT NULL,
		exercise_name TEXT NOT NULL DEFAULT '',
		sets INTEGER NOT NULL,
		reps INTEGER NOT NULL,
		weight REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (workout_id, position),
		FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS personal_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		metric_type TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT NOT NULL,
		achieved_at TEXT NOT NULL,
		workout_id TEXT,
		UNIQUE (user_id, exercise_id, metric_type),
		FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_exercises_position ON exercises(position);
	CREATE INDEX IF NOT EXISTS idx_workouts_user_created ON workouts(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_records_user_achieved ON personal_records(user_id, achieved_at DESC);
	CREATE INDEX IF NOT EXISTS idx_records_workout ON personal_records(workout_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
