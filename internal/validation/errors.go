// Package validation holds the typed errors shared by services and the
// pre-flight checks that run before a write.  The checks are conveniences:
// UNIQUE and FOREIGN KEY constraints in storage remain the final guard.
package validation

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every *NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists matches every *AlreadyExistsError via errors.Is.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalid matches every *InvalidError via errors.Is.
	ErrInvalid = errors.New("invalid input")
)

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string // "User", "Habit", "Assignment", "Completed date"
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a NotFoundError for entity.
func NotFound(entity string) error { return &NotFoundError{Entity: entity} }

// AlreadyExistsError reports a uniqueness clash.  Subject names what
// clashed, e.g. "Username" or "Assignment".
type AlreadyExistsError struct {
	Subject string
}

func (e *AlreadyExistsError) Error() string {
	return e.Subject + " already exists. Please choose a different one."
}

func (e *AlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// AlreadyExists builds an AlreadyExistsError for subject.
func AlreadyExists(subject string) error { return &AlreadyExistsError{Subject: subject} }

// InvalidError reports malformed input that never reached storage.
type InvalidError struct {
	Field  string
	Reason string
}

func (e *InvalidError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *InvalidError) Is(target error) bool { return target == ErrInvalid }

// Invalid builds an InvalidError.
func Invalid(field, reason string) error { return &InvalidError{Field: field, Reason: reason} }
