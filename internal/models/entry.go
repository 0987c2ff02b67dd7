// ABOUTME: WorkoutEntry model for standalone logged exercises.
// ABOUTME: Quantities are free text; completion is a flag plus optional timestamp.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkoutEntry is a single exercise logged outside of any session.
type WorkoutEntry struct {
	ID          uuid.UUID  `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Sets        string     `json:"sets" yaml:"sets"`
	Reps        string     `json:"reps" yaml:"reps"`
	Weight      string     `json:"weight,omitempty" yaml:"weight,omitempty"`
	Notes       string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	IsCompleted bool       `json:"is_completed" yaml:"is_completed"`
}

// NewWorkoutEntry creates a new entry with generated UUID and current timestamp.
func NewWorkoutEntry(name, sets, reps, weight, notes string) *WorkoutEntry {
	return &WorkoutEntry{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Sets:      sets,
		Reps:      reps,
		Weight:    weight,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
}

// WithCreatedAt sets a custom creation timestamp.
func (e *WorkoutEntry) WithCreatedAt(t time.Time) *WorkoutEntry {
	e.CreatedAt = t
	return e
}

// Validate checks the fields required to persist an entry.
func (e *WorkoutEntry) Validate() error {
	return validateName(e.Name)
}

// ToggleCompletion flips the completion flag, stamping or clearing CompletedAt.
func (e *WorkoutEntry) ToggleCompletion(now time.Time) {
	e.IsCompleted = !e.IsCompleted
	if e.IsCompleted {
		e.CompletedAt = &now
	} else {
		e.CompletedAt = nil
	}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}
