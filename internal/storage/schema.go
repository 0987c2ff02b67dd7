// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for entries, sessions, session_exercises, and set_logs.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sets TEXT NOT NULL DEFAULT '',
		reps TEXT NOT NULL DEFAULT '',
		weight TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		completed_at DATETIME,
		is_completed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date_created DATETIME NOT NULL,
		is_completed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS session_exercises (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		sets TEXT NOT NULL DEFAULT '',
		reps TEXT NOT NULL DEFAULT '',
		weight TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		is_completed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS set_logs (
		id TEXT PRIMARY KEY,
		exercise_id TEXT NOT NULL,
		set_number INTEGER NOT NULL,
		reps INTEGER NOT NULL,
		weight REAL NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (exercise_id) REFERENCES session_exercises(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(date_created DESC);
	CREATE INDEX IF NOT EXISTS idx_session_exercises_session ON session_exercises(session_id, position);
	CREATE INDEX IF NOT EXISTS idx_set_logs_exercise ON set_logs(exercise_id, set_number);
	`

	_, err := d.db.Exec(schema)
	return err
}
