// ABOUTME: Repository interface for lift data storage.
// ABOUTME: Defines the contract for entries, sessions, exercises, and set logs.
package storage

import (
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/models"
)

// Repository defines the storage interface for workout data.
// Both the SQLite and Badger backends implement it; every method that takes
// an idOrPrefix accepts a full UUID or a unique prefix of one.
type Repository interface {
	// Entry operations
	CreateEntry(e *models.WorkoutEntry) error
	GetEntry(idOrPrefix string) (*models.WorkoutEntry, error)
	ListEntries(limit int) ([]*models.WorkoutEntry, error)
	DeleteEntry(idOrPrefix string) error
	ToggleEntryCompletion(idOrPrefix string) (*models.WorkoutEntry, error)

	// Session operations
	CreateSession(s *models.WorkoutSession) error
	GetSession(idOrPrefix string) (*models.WorkoutSession, error)
	ListSessions(limit int) ([]*models.WorkoutSession, error)
	DeleteSession(idOrPrefix string) error
	ToggleSessionCompletion(idOrPrefix string) (*models.WorkoutSession, error)

	// Exercise operations
	AddExercise(sessionIDOrPrefix string, ex *models.WorkoutExercise) error
	GetExercise(idOrPrefix string) (*models.WorkoutExercise, error)
	ListExercises(sessionID uuid.UUID) ([]*models.WorkoutExercise, error)
	RemoveExercise(sessionIDOrPrefix string, position int) (*models.WorkoutExercise, error)
	ToggleExerciseCompletion(idOrPrefix string) (*models.WorkoutExercise, error)
	GetExerciseSession(exerciseIDOrPrefix string) (*models.WorkoutSession, error)

	// Set log operations
	LogSet(sl *models.SetLog) error
	ListSetLogs(exerciseID uuid.UUID) ([]*models.SetLog, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}

// isFullUUID reports whether s has the canonical 36-character UUID form.
func isFullUUID(s string) bool {
	return len(s) == 36 && strings.Count(s, "-") == 4
}
