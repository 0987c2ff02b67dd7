// ABOUTME: WorkoutEntry CRUD operations for SQLite storage.
// ABOUTME: Implements Repository interface methods for standalone entries.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/models"
)

const entryColumns = `id, name, sets, reps, weight, notes, created_at, completed_at, is_completed`

// CreateEntry stores a new entry in the database.
func (d *DB) CreateEntry(e *models.WorkoutEntry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	if err := insertEntry(d.db, e); err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

func insertEntry(q queryer, e *models.WorkoutEntry) error {
	query := `INSERT INTO entries (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := q.Exec(query,
		e.ID.String(),
		e.Name,
		e.Sets,
		e.Reps,
		e.Weight,
		e.Notes,
		formatTime(e.CreatedAt),
		nullTime(e.CompletedAt),
		boolToInt(e.IsCompleted),
	)
	return err
}

// GetEntry retrieves an entry by ID or ID prefix.
func (d *DB) GetEntry(idOrPrefix string) (*models.WorkoutEntry, error) {
	id, err := resolveID(d.db, "entries", "entry", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = ?`
	return scanEntry(d.db.QueryRow(query, id))
}

// ListEntries retrieves entries sorted by CreatedAt descending (most recent first).
// A limit of zero or less returns all entries.
func (d *DB) ListEntries(limit int) ([]*models.WorkoutEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.WorkoutEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteEntry removes an entry by ID or prefix.
func (d *DB) DeleteEntry(idOrPrefix string) error {
	id, err := resolveID(d.db, "entries", "entry", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	result, err := d.db.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete entry: %w", models.NotFound("entry", idOrPrefix))
	}
	return nil
}

// ToggleEntryCompletion flips an entry's completion flag and returns the updated entry.
func (d *DB) ToggleEntryCompletion(idOrPrefix string) (*models.WorkoutEntry, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	id, err := resolveID(tx, "entries", "entry", idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("toggle entry: %w", err)
	}
	e, err := scanEntry(tx.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("toggle entry: %w", err)
	}

	e.ToggleCompletion(time.Now())

	_, err = tx.Exec(`UPDATE entries SET is_completed = ?, completed_at = ? WHERE id = ?`,
		boolToInt(e.IsCompleted), nullTime(e.CompletedAt), id)
	if err != nil {
		return nil, fmt.Errorf("toggle entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit entry: %w", err)
	}
	return e, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry scans a single row into a WorkoutEntry.
func scanEntry(row rowScanner) (*models.WorkoutEntry, error) {
	var e models.WorkoutEntry
	var idStr, createdAt string
	var completedAt sql.NullString
	var completed int

	err := row.Scan(&idStr, &e.Name, &e.Sets, &e.Reps, &e.Weight, &e.Notes, &createdAt, &completedAt, &completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("entry", idStr)
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}

	e.ID, _ = uuid.Parse(idStr)
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("scan entry %s: %w", idStr, err)
	}
	e.IsCompleted = completed != 0
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("scan entry %s: %w", idStr, err)
		}
		e.CompletedAt = &t
	}
	return &e, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
