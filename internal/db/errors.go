package db

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError indicates an unknown or soft-deleted record id.
type NotFoundError struct {
	Kind string // "application", "metric", "resume version", "job posting"
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ConcurrencyConflictError indicates two writers raced on the same
// application. The caller should retry the whole transition, not just the
// metric half, so status and metric stay consistent.
type ConcurrencyConflictError struct {
	Cause error
}

func (e *ConcurrencyConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("concurrent write conflict: %v", e.Cause)
	}
	return "concurrent write conflict"
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConcurrencyConflictError.
func IsConflict(err error) bool {
	var cc *ConcurrencyConflictError
	return errors.As(err, &cc)
}
