// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrStructureNotFound  = errors.New("structure not found")
	ErrRollNotFound       = errors.New("roll not found")
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrInvalidTransition  = errors.New("invalid lifecycle transition")
	ErrStructureNotActive = errors.New("structure is not active")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrDatabaseError      = errors.New("database error")
	ErrInputValidation    = errors.New("input validation failed")
)

// ValidationError represents a construction-time validation failure.
// The core components assume pre-validated inputs, so this is raised
// before data ever reaches them.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed [%s]: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// StoreError represents an error from the ledger store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store error [%s]", e.Op)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// IsNotFound returns true if the error is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStructureNotFound) ||
		errors.Is(err, ErrRollNotFound) ||
		errors.Is(err, ErrExerciseNotFound)
}
