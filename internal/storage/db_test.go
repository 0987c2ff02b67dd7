// ABOUTME: Tests specific to the SQLite backend.
// ABOUTME: Covers timestamp storage precision and legacy or corrupt timestamp rows.
package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeKeepsNanoseconds(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 123456789, time.UTC)

	got, err := parseTime(formatTime(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got), "got %v, want %v", got, ts)

	// Fixed width keeps text order aligned with time order.
	whole := formatTime(ts.Truncate(time.Second))
	assert.Less(t, whole, formatTime(ts))
	assert.Len(t, whole, len(formatTime(ts)))
}

func TestReadsSecondPrecisionRows(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.db.Exec(`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, '', '', '', '', ?, NULL, 0)`,
		"0f0f0f0f-0000-4000-8000-000000000001", "Deadlift", "2025-01-02T03:04:05Z")
	require.NoError(t, err)

	got, err := db.GetEntry("0f0f0f0f")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestCorruptTimestampIsAnError(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.db.Exec(`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, '', '', '', '', ?, NULL, 0)`,
		"0f0f0f0f-0000-4000-8000-000000000002", "Deadlift", "yesterday-ish")
	require.NoError(t, err)

	_, err = db.GetEntry("0f0f0f0f")
	assert.ErrorContains(t, err, "parse time")

	_, err = db.ListEntries(0)
	assert.Error(t, err)
}
