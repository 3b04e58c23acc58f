package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSaveInProgress is returned when a save is requested while another
	// save of the same editor has not finished.
	ErrSaveInProgress = errors.New("a save is already in progress")
	// ErrEventNotFound is returned when an event id is not in the timeline.
	ErrEventNotFound = errors.New("event not found")
	// ErrNoPendingRegenerate is returned by a confirm without a prior request.
	ErrNoPendingRegenerate = errors.New("no regenerate request to confirm")
	// ErrPracticumNotFound is returned when a practicum lookup misses.
	ErrPracticumNotFound = errors.New("practicum not found")
)

// InvalidRangeError reports a start date after the end date.
type InvalidRangeError struct {
	Start Day
	End   Day
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s", e.Start, e.End)
}

// FieldError is one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every rejected field of one input.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// PersistenceError wraps a failed timeline write. The working copy is never
// discarded when one is returned.
type PersistenceError struct {
	PracticumID string
	Err         error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("saving timeline for practicum %s: %v", e.PracticumID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
