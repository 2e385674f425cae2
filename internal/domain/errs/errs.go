// Package errs defines the error kinds the tracker surfaces to callers.
//
// Callers branch on kind with errors.Is (sentinels) or errors.As
// (*ValidationError); stores wrap driver errors so the original cause
// stays available through errors.Unwrap.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a lookup references a missing id or key.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable covers connection failures and timeouts talking
	// to the document store. It is never retried inside the core.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrConflict is returned when a concurrent write on the same key won
	// the race and a single retry did not resolve it.
	ErrConflict = errors.New("conflict")

	// ErrDuplicateUsername is the cause of the conflict returned when a
	// student registers with a username that is already taken.
	ErrDuplicateUsername = errors.New("username is already taken")
)

// FieldProblem describes one rejected input field.
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field problem found in a request. A request
// that produces one is rejected before any write happens.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a problem for field.
func (e *ValidationError) Add(field, message string) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Message: message})
}

// OrNil returns e when it holds problems, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}
	return e
}

// Invalid builds a ValidationError with a single problem.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Problems: []FieldProblem{{Field: field, Message: message}}}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Unavailable wraps cause as ErrStorageUnavailable, keeping the cause.
func Unavailable(op string, cause error) error {
	return &kindError{op: op, kind: ErrStorageUnavailable, cause: cause}
}

// Conflict wraps cause as ErrConflict, keeping the cause.
func Conflict(op string, cause error) error {
	return &kindError{op: op, kind: ErrConflict, cause: cause}
}

// NotFound wraps ErrNotFound with the operation and key that missed.
func NotFound(op, key string) error {
	return &kindError{op: op, kind: ErrNotFound, cause: fmt.Errorf("%s", key)}
}

type kindError struct {
	op    string
	kind  error
	cause error
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return e.op + ": " + e.kind.Error()
	}
	return e.op + ": " + e.kind.Error() + ": " + e.cause.Error()
}

func (e *kindError) Is(target error) bool { return target == e.kind }

func (e *kindError) Unwrap() error { return e.cause }
