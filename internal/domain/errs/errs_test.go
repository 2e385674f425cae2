package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKindErrors_Is(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"unavailable", Unavailable("list students", context.DeadlineExceeded), ErrStorageUnavailable},
		{"conflict", Conflict("upsert progress", errors.New("E11000 duplicate key")), ErrConflict},
		{"not found", NotFound("get student", "alice"), ErrNotFound},
		{"wrapped twice", fmt.Errorf("delete task: %w", Unavailable("delete", errors.New("boom"))), ErrStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.kind)
			}
		})
	}
}

func TestUnavailable_KeepsCause(t *testing.T) {
	err := Unavailable("ping", context.DeadlineExceeded)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected cause to be reachable through errors.Is")
	}
	if errors.Is(err, ErrConflict) {
		t.Error("unavailable error should not match ErrConflict")
	}
}

func TestValidationError(t *testing.T) {
	ve := &ValidationError{}
	if ve.OrNil() != nil {
		t.Fatal("empty ValidationError should collapse to nil")
	}

	ve.Add("email", "must be a valid email address")
	ve.Add("username", "is required")

	err := ve.OrNil()
	if err == nil {
		t.Fatal("expected non-nil error")
	}
	if !IsValidation(fmt.Errorf("create student: %w", err)) {
		t.Error("IsValidation should see through wrapping")
	}
	want := "validation failed: email: must be a valid email address; username: is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
