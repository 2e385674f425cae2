// Package txn runs multi-collection writes inside a MongoDB transaction when
// the deployment supports one, and falls back to plain sequential execution
// on standalone servers.
//
// Callers that need all-or-nothing semantics on the fallback path must
// compensate themselves; see tracker.Service.DeleteTask.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Runner executes functions in a transaction on Client.
type Runner struct {
	Client *mongo.Client
	Log    *zap.Logger
}

// NewRunner returns a Runner bound to client.
func NewRunner(client *mongo.Client, logger *zap.Logger) *Runner {
	return &Runner{Client: client, Log: logger}
}

// RunInTx runs fn inside a transaction. fn must route every database call
// through the ctx it receives so the calls join the session.
//
// If the server rejects transactions (standalone mongod, some DocumentDB
// versions) fn is run once more without one. Nothing from the failed
// attempt was committed, so the rerun starts clean.
func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil || r.Client == nil {
		return fn(ctx)
	}

	sess, err := r.Client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			r.logFallback(err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		r.logFallback(err)
		return fn(ctx)
	}
	return err
}

// Atomic reports whether ctx belongs to a transaction started by RunInTx.
// It is false on the fallback path.
func (r *Runner) Atomic(ctx context.Context) bool {
	return mongo.SessionFromContext(ctx) != nil
}

func (r *Runner) logFallback(err error) {
	if r.Log != nil {
		r.Log.Info("transactions unsupported; running without one", zap.Error(err))
	}
}

// IsNotSupported reports whether err means the deployment cannot run
// multi-document transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, // IllegalOperation: transaction numbers on a standalone
			51,  // legacy IllegalOperation
			263: // OperationNotSupportedInTransaction
			return true
		}
	}

	// Some drivers and proxies only surface text. Require two signals so a
	// plain "transaction failed" is not mistaken for missing support.
	s := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(s, kw) {
			hits++
		}
	}
	return hits >= 2
}
