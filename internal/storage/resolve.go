// ABOUTME: ID prefix resolution for the SQLite backend.
// ABOUTME: Maps a full UUID or unique prefix to a stored row ID.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/lift/internal/models"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// resolveID finds the full ID of a row in table from an ID or prefix.
// kind names the record in the returned NotFoundError.
func resolveID(q queryer, table, kind, idOrPrefix string) (string, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return "", models.NotFound(kind, idOrPrefix)
	}

	if isFullUUID(idOrPrefix) {
		var id string
		err := q.QueryRow("SELECT id FROM "+table+" WHERE id = ?", strings.ToLower(idOrPrefix)).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.NotFound(kind, idOrPrefix)
		}
		if err != nil {
			return "", fmt.Errorf("resolve %s ID: %w", kind, err)
		}
		return id, nil
	}

	rows, err := q.Query("SELECT id FROM "+table+` WHERE id LIKE ? || '%' ESCAPE '\' LIMIT 2`,
		likeEscaper.Replace(strings.ToLower(idOrPrefix)))
	if err != nil {
		return "", fmt.Errorf("resolve %s ID: %w", kind, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan %s ID: %w", kind, err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve %s ID: %w", kind, err)
	}

	if len(matches) == 0 {
		return "", models.NotFound(kind, idOrPrefix)
	}
	if len(matches) > 1 {
		return "", models.Ambiguous(idOrPrefix)
	}

	return matches[0], nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// likeEscaper makes LIKE wildcards in a user prefix match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// timeLayout is fixed width so text ordering in SQL matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime reads both timeLayout and older second-precision RFC3339 values.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
