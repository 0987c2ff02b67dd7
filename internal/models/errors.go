// ABOUTME: Typed errors for lift domain operations.
// ABOUTME: Validation, not-found, and index errors match sentinels via errors.Is.
package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrIndex matches any *IndexError.
	ErrIndex = errors.New("index out of range")
	// ErrAmbiguous is returned when an ID prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
)

// ValidationError reports a required field that was missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a lookup of a record that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s %s", e.Kind, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IndexError reports a position outside a session's exercise list.
type IndexError struct {
	Position int
	Length   int
	OneBased bool // Position and range are stated as users count them
}

func (e *IndexError) Error() string {
	if !e.OneBased {
		return fmt.Sprintf("position %d out of range [0, %d)", e.Position, e.Length)
	}
	if e.Length == 0 {
		return fmt.Sprintf("position %d out of range: session has no exercises", e.Position)
	}
	return fmt.Sprintf("position %d out of range [1, %d]", e.Position, e.Length)
}

// Is reports whether target is ErrIndex.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndex
}

// OneBasedIndex restates an *IndexError in err for callers that number
// positions from 1. Other errors are returned unchanged.
func OneBasedIndex(err error) error {
	var ie *IndexError
	if errors.As(err, &ie) && !ie.OneBased {
		return &IndexError{Position: ie.Position + 1, Length: ie.Length, OneBased: true}
	}
	return err
}

// NotFound is shorthand for building a *NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// Ambiguous wraps ErrAmbiguous with the offending prefix.
func Ambiguous(prefix string) error {
	return fmt.Errorf("%w %s: matches multiple records", ErrAmbiguous, prefix)
}
