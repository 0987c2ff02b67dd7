// ABOUTME: Session exercise and set log operations for SQLite storage.
// ABOUTME: Keeps exercise positions contiguous and numbers set logs per exercise.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/models"
)

const exerciseColumns = `id, session_id, position, name, sets, reps, weight, notes, is_completed, created_at`

const setLogColumns = `id, exercise_id, set_number, reps, weight, created_at`

// AddExercise appends an exercise to the end of a session.
// The exercise is validated before the session is looked up.
func (d *DB) AddExercise(sessionIDOrPrefix string, ex *models.WorkoutExercise) error {
	if err := ex.Validate(); err != nil {
		return fmt.Errorf("add exercise: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	sessionID, err := resolveID(tx, "sessions", "session", sessionIDOrPrefix)
	if err != nil {
		return fmt.Errorf("add exercise: %w", err)
	}

	n, err := countExercises(tx, sessionID)
	if err != nil {
		return fmt.Errorf("add exercise: %w", err)
	}

	row := *ex
	row.SessionID, _ = uuid.Parse(sessionID)
	row.Position = n
	if err := insertExercise(tx, &row); err != nil {
		return fmt.Errorf("add exercise: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit exercise: %w", err)
	}

	ex.SessionID = row.SessionID
	ex.Position = row.Position
	return nil
}

// GetExercise retrieves an exercise by ID or ID prefix.
func (d *DB) GetExercise(idOrPrefix string) (*models.WorkoutExercise, error) {
	id, err := resolveID(d.db, "session_exercises", "exercise", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanExercise(d.db.QueryRow(`SELECT `+exerciseColumns+` FROM session_exercises WHERE id = ?`, id))
}

// ListExercises retrieves a session's exercises ordered by position.
func (d *DB) ListExercises(sessionID uuid.UUID) ([]*models.WorkoutExercise, error) {
	exercises, err := listExercises(d.db, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

// RemoveExercise deletes the exercise at position and shifts later exercises down by one.
// It returns the removed exercise.
func (d *DB) RemoveExercise(sessionIDOrPrefix string, position int) (*models.WorkoutExercise, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	sessionID, err := resolveID(tx, "sessions", "session", sessionIDOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("remove exercise: %w", err)
	}

	n, err := countExercises(tx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("remove exercise: %w", err)
	}
	if position < 0 || position >= n {
		return nil, fmt.Errorf("remove exercise: %w", &models.IndexError{Position: position, Length: n})
	}

	removed, err := scanExercise(tx.QueryRow(
		`SELECT `+exerciseColumns+` FROM session_exercises WHERE session_id = ? AND position = ?`,
		sessionID, position))
	if err != nil {
		return nil, fmt.Errorf("remove exercise: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM session_exercises WHERE id = ?`, removed.ID.String()); err != nil {
		return nil, fmt.Errorf("remove exercise: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE session_exercises SET position = position - 1 WHERE session_id = ? AND position > ?`,
		sessionID, position); err != nil {
		return nil, fmt.Errorf("shift exercises: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit exercise removal: %w", err)
	}
	return removed, nil
}

// ToggleExerciseCompletion flips an exercise's completion flag.
func (d *DB) ToggleExerciseCompletion(idOrPrefix string) (*models.WorkoutExercise, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	id, err := resolveID(tx, "session_exercises", "exercise", idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("toggle exercise: %w", err)
	}
	if _, err := tx.Exec(`UPDATE session_exercises SET is_completed = 1 - is_completed WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("toggle exercise: %w", err)
	}
	ex, err := scanExercise(tx.QueryRow(`SELECT `+exerciseColumns+` FROM session_exercises WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("toggle exercise: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit exercise: %w", err)
	}
	return ex, nil
}

// GetExerciseSession follows an exercise's back-reference to its owning session.
func (d *DB) GetExerciseSession(exerciseIDOrPrefix string) (*models.WorkoutSession, error) {
	ex, err := d.GetExercise(exerciseIDOrPrefix)
	if err != nil {
		return nil, err
	}
	return loadSession(d.db, ex.SessionID.String())
}

// LogSet records a performed set. SetNumber is assigned as one past the
// exercise's current set count.
func (d *DB) LogSet(sl *models.SetLog) error {
	if err := sl.Validate(); err != nil {
		return fmt.Errorf("log set: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	n, err := insertSetLog(tx, sl)
	if err != nil {
		return fmt.Errorf("log set: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set log: %w", err)
	}
	sl.SetNumber = n
	return nil
}

// insertSetLog writes sl with the next set number for its exercise and returns that number.
func insertSetLog(q queryer, sl *models.SetLog) (int, error) {
	var exists int
	err := q.QueryRow(`SELECT 1 FROM session_exercises WHERE id = ?`, sl.ExerciseID.String()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.NotFound("exercise", sl.ExerciseID.String())
	}
	if err != nil {
		return 0, err
	}

	var last int
	err = q.QueryRow(`SELECT COALESCE(MAX(set_number), 0) FROM set_logs WHERE exercise_id = ?`,
		sl.ExerciseID.String()).Scan(&last)
	if err != nil {
		return 0, err
	}

	_, err = q.Exec(`INSERT INTO set_logs (`+setLogColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		sl.ID.String(),
		sl.ExerciseID.String(),
		last+1,
		sl.Reps,
		sl.Weight,
		formatTime(sl.CreatedAt),
	)
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

// ListSetLogs retrieves an exercise's set logs ordered by set number.
func (d *DB) ListSetLogs(exerciseID uuid.UUID) ([]*models.SetLog, error) {
	rows, err := d.db.Query(`SELECT `+setLogColumns+` FROM set_logs WHERE exercise_id = ? ORDER BY set_number ASC`,
		exerciseID.String())
	if err != nil {
		return nil, fmt.Errorf("list set logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.SetLog
	for rows.Next() {
		var sl models.SetLog
		var idStr, exerciseIDStr, createdAt string
		if err := rows.Scan(&idStr, &exerciseIDStr, &sl.SetNumber, &sl.Reps, &sl.Weight, &createdAt); err != nil {
			return nil, fmt.Errorf("scan set log: %w", err)
		}
		sl.ID, _ = uuid.Parse(idStr)
		sl.ExerciseID, _ = uuid.Parse(exerciseIDStr)
		if sl.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("scan set log %s: %w", idStr, err)
		}
		logs = append(logs, &sl)
	}
	return logs, rows.Err()
}

func insertExercise(q queryer, ex *models.WorkoutExercise) error {
	if err := ex.Validate(); err != nil {
		return err
	}
	_, err := q.Exec(`INSERT INTO session_exercises (`+exerciseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID.String(),
		ex.SessionID.String(),
		ex.Position,
		ex.Name,
		ex.Sets,
		ex.Reps,
		ex.Weight,
		ex.Notes,
		boolToInt(ex.IsCompleted),
		formatTime(ex.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}
	return nil
}

func countExercises(q queryer, sessionID string) (int, error) {
	var n int
	err := q.QueryRow(`SELECT COUNT(*) FROM session_exercises WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count exercises: %w", err)
	}
	return n, nil
}

func listExercises(q queryer, sessionID string) ([]*models.WorkoutExercise, error) {
	rows, err := q.Query(`SELECT `+exerciseColumns+` FROM session_exercises WHERE session_id = ? ORDER BY position ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []*models.WorkoutExercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}

// scanExercise scans a single row into a WorkoutExercise.
func scanExercise(row rowScanner) (*models.WorkoutExercise, error) {
	var ex models.WorkoutExercise
	var idStr, sessionIDStr, createdAt string
	var completed int

	err := row.Scan(&idStr, &sessionIDStr, &ex.Position, &ex.Name, &ex.Sets, &ex.Reps, &ex.Weight, &ex.Notes, &completed, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("exercise", idStr)
		}
		return nil, fmt.Errorf("scan exercise: %w", err)
	}

	ex.ID, _ = uuid.Parse(idStr)
	ex.SessionID, _ = uuid.Parse(sessionIDStr)
	ex.IsCompleted = completed != 0
	if ex.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("scan exercise %s: %w", idStr, err)
	}
	return &ex, nil
}
