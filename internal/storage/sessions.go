// ABOUTME: WorkoutSession CRUD operations for SQLite storage.
// ABOUTME: Sessions are loaded with their exercises; deletes cascade to exercises and set logs.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/models"
)

const sessionColumns = `id, name, date_created, is_completed`

// CreateSession stores a new session along with any exercises it already carries.
// Exercises are renumbered 0..n-1 in slice order and written in the same transaction.
func (d *DB) CreateSession(s *models.WorkoutSession) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertSession(tx, s); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}

	for i := range s.Exercises {
		s.Exercises[i].SessionID = s.ID
		s.Exercises[i].Position = i
	}
	return nil
}

// insertSession writes the session row and its exercises at positions 0..n-1.
func insertSession(q queryer, s *models.WorkoutSession) error {
	_, err := q.Exec(`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?)`,
		s.ID.String(),
		s.Name,
		formatTime(s.DateCreated),
		boolToInt(s.IsCompleted),
	)
	if err != nil {
		return err
	}

	for i := range s.Exercises {
		ex := s.Exercises[i]
		ex.SessionID = s.ID
		ex.Position = i
		if err := insertExercise(q, &ex); err != nil {
			return err
		}
	}
	return nil
}

// GetSession retrieves a session by ID or ID prefix, with exercises ordered by position.
func (d *DB) GetSession(idOrPrefix string) (*models.WorkoutSession, error) {
	id, err := resolveID(d.db, "sessions", "session", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return loadSession(d.db, id)
}

// ListSessions retrieves sessions sorted by DateCreated descending, each with its exercises.
// A limit of zero or less returns all sessions.
func (d *DB) ListSessions(limit int) ([]*models.WorkoutSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY date_created DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var sessions []*models.WorkoutSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	rows.Close()

	for _, s := range sessions {
		exercises, err := listExercises(d.db, s.ID.String())
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		s.Exercises = derefExercises(exercises)
	}
	return sessions, nil
}

// DeleteSession removes a session, its exercises, and their set logs (cascade delete).
func (d *DB) DeleteSession(idOrPrefix string) error {
	id, err := resolveID(d.db, "sessions", "session", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	// CASCADE is enabled, so deleting the session deletes its exercises
	result, err := d.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete session: %w", models.NotFound("session", idOrPrefix))
	}
	return nil
}

// ToggleSessionCompletion flips the session-level completion flag.
// Exercise completion is left untouched.
func (d *DB) ToggleSessionCompletion(idOrPrefix string) (*models.WorkoutSession, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	id, err := resolveID(tx, "sessions", "session", idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("toggle session: %w", err)
	}
	if _, err := tx.Exec(`UPDATE sessions SET is_completed = 1 - is_completed WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("toggle session: %w", err)
	}
	s, err := loadSession(tx, id)
	if err != nil {
		return nil, fmt.Errorf("toggle session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit session: %w", err)
	}
	return s, nil
}

// loadSession reads one session row and its exercises.
func loadSession(q queryer, id string) (*models.WorkoutSession, error) {
	s, err := scanSession(q.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NotFound("session", id)
		}
		return nil, err
	}

	exercises, err := listExercises(q, id)
	if err != nil {
		return nil, fmt.Errorf("list session exercises: %w", err)
	}
	s.Exercises = derefExercises(exercises)
	return s, nil
}

// scanSession scans a single row into a WorkoutSession without exercises.
func scanSession(row rowScanner) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	var idStr, dateCreated string
	var completed int

	if err := row.Scan(&idStr, &s.Name, &dateCreated, &completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("session", idStr)
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	s.ID, _ = uuid.Parse(idStr)
	var err error
	if s.DateCreated, err = parseTime(dateCreated); err != nil {
		return nil, fmt.Errorf("scan session %s: %w", idStr, err)
	}
	s.IsCompleted = completed != 0
	s.Exercises = []models.WorkoutExercise{}
	return &s, nil
}

func derefExercises(in []*models.WorkoutExercise) []models.WorkoutExercise {
	out := make([]models.WorkoutExercise, 0, len(in))
	for _, ex := range in {
		out = append(out, *ex)
	}
	return out
}
