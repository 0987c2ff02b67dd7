// ABOUTME: Shared test helpers for storage backends.
// ABOUTME: Opens throwaway SQLite and in-memory Badger repositories.
package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/lift/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "lift-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	db, err := Open(filepath.Join(tmpDir, "lift.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func setupTestBadger(t *testing.T) *BadgerStore {
	t.Helper()

	store, err := OpenBadgerInMemory()
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// forEachBackend runs fn once per storage backend as a named subtest.
func forEachBackend(t *testing.T, fn func(t *testing.T, repo Repository)) {
	t.Helper()

	backends := []struct {
		name string
		open func(t *testing.T) Repository
	}{
		{"sqlite", func(t *testing.T) Repository { return setupTestDB(t) }},
		{"badger", func(t *testing.T) Repository { return setupTestBadger(t) }},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.open(t))
		})
	}
}

// seedSession stores a session with one exercise per name.
func seedSession(t *testing.T, repo Repository, name string, exercises ...string) *models.WorkoutSession {
	t.Helper()

	s := models.NewWorkoutSession(name)
	for _, ex := range exercises {
		s.Append(models.NewWorkoutExercise(ex, "3", "10", "", ""))
	}
	if err := repo.CreateSession(s); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return s
}

func exerciseNames(s *models.WorkoutSession) []string {
	names := make([]string, 0, len(s.Exercises))
	for _, ex := range s.Exercises {
		names = append(names, ex.Name)
	}
	return names
}
