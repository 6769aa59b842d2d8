package content

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for content operations. Typed errors below wrap them so
// callers can match with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("record not found")
	ErrPersistence = errors.New("persistence failed")
)

// ValidationError reports a missing or empty required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports that no record of the resource has the given id.
type NotFoundError struct {
	Label string
	ID    int64
}

func (e *NotFoundError) Error() string { return e.Label + " not found" }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PersistenceError reports a database failure during Op.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("Failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// MapHTTPStatus maps content domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
