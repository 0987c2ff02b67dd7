// ABOUTME: SetLog model for live set-by-set logging.
// ABOUTME: Unlike exercises, reps and weight are numeric and validated.
package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// SetLog records one performed set of an exercise.
type SetLog struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	ExerciseID uuid.UUID `json:"exercise_id" yaml:"exercise_id"`
	SetNumber  int       `json:"set_number" yaml:"set_number"` // Assigned by the store, 1-based
	Reps       int       `json:"reps" yaml:"reps"`
	Weight     float64   `json:"weight" yaml:"weight"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// NewSetLog creates a set log for the given exercise.
func NewSetLog(exerciseID uuid.UUID, reps int, weight float64) *SetLog {
	return &SetLog{
		ID:         uuid.New(),
		ExerciseID: exerciseID,
		Reps:       reps,
		Weight:     weight,
		CreatedAt:  time.Now(),
	}
}

// Validate rejects negative reps and negative or non-finite weight.
func (s *SetLog) Validate() error {
	if s.Reps < 0 {
		return &ValidationError{Field: "reps", Reason: "must not be negative"}
	}
	if math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) {
		return &ValidationError{Field: "weight", Reason: "must be a finite number"}
	}
	if s.Weight < 0 {
		return &ValidationError{Field: "weight", Reason: "must not be negative"}
	}
	return nil
}
