// Package mongoerr translates driver errors into the tracker's error kinds.
package mongoerr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/stagetrack/internal/domain/errs"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
)

// Classify wraps err with op and maps it onto an errs kind:
//
//   - duplicate key                       -> errs.ErrConflict
//   - timeouts, network, server selection -> errs.ErrStorageUnavailable
//
// mongo.ErrNoDocuments and nil pass through unchanged so callers can keep
// comparing against them.
func Classify(op string, err error) error {
	if err == nil || errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	if wafflemongo.IsDup(err) || mongo.IsDuplicateKeyError(err) {
		return errs.Conflict(op, err)
	}
	if IsUnavailable(err) {
		return errs.Unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsUnavailable reports whether err means the store could not be reached
// in time.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "server selection")
}
