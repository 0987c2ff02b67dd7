// ABOUTME: WorkoutSession and WorkoutExercise models.
// ABOUTME: Sessions own an ordered list of exercises; exercises point back by ID only.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkoutSession is a named, dated collection of exercises performed together.
type WorkoutSession struct {
	ID          uuid.UUID         `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	DateCreated time.Time         `json:"date_created" yaml:"date_created"`
	IsCompleted bool              `json:"is_completed" yaml:"is_completed"`
	Exercises   []WorkoutExercise `json:"exercises" yaml:"exercises"` // Ordered by Position
}

// NewWorkoutSession creates an empty session with generated UUID and current timestamp.
func NewWorkoutSession(name string) *WorkoutSession {
	return &WorkoutSession{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		DateCreated: time.Now(),
		Exercises:   []WorkoutExercise{},
	}
}

// NewSessionFromTemplate creates a session named after the template, with one
// exercise per template step in catalog order. Weight starts empty.
func NewSessionFromTemplate(t Template) *WorkoutSession {
	s := NewWorkoutSession(t.Name)
	for _, te := range t.Exercises {
		s.Append(NewWorkoutExercise(te.Name, te.Sets, te.Reps, "", te.Notes))
	}
	return s
}

// WithDateCreated sets a custom creation timestamp.
func (s *WorkoutSession) WithDateCreated(t time.Time) *WorkoutSession {
	s.DateCreated = t
	return s
}

// Append adds an exercise at the end of the in-memory list and links it to the session.
// It does not persist anything; use Repository.AddExercise for stored sessions.
func (s *WorkoutSession) Append(ex *WorkoutExercise) {
	ex.SessionID = s.ID
	ex.Position = len(s.Exercises)
	s.Exercises = append(s.Exercises, *ex)
}

// Validate checks the session and every attached exercise.
func (s *WorkoutSession) Validate() error {
	if err := validateName(s.Name); err != nil {
		return err
	}
	for i := range s.Exercises {
		if err := s.Exercises[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// WorkoutExercise is one movement within a session.
type WorkoutExercise struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	SessionID   uuid.UUID `json:"session_id" yaml:"session_id"`
	Position    int       `json:"position" yaml:"position"`
	Name        string    `json:"name" yaml:"name"`
	Sets        string    `json:"sets" yaml:"sets"`
	Reps        string    `json:"reps" yaml:"reps"`
	Weight      string    `json:"weight,omitempty" yaml:"weight,omitempty"`
	Notes       string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	IsCompleted bool      `json:"is_completed" yaml:"is_completed"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	SetLogs     []SetLog  `json:"set_logs,omitempty" yaml:"set_logs,omitempty"` // Populated for export only
}

// NewWorkoutExercise creates an exercise not yet attached to a session.
func NewWorkoutExercise(name, sets, reps, weight, notes string) *WorkoutExercise {
	return &WorkoutExercise{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Sets:      sets,
		Reps:      reps,
		Weight:    weight,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
}

// Validate checks the fields required to persist an exercise.
func (e *WorkoutExercise) Validate() error {
	return validateName(e.Name)
}
