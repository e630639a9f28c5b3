package db

import (
	"context"
	"errors"

	"github.com/lib/pq"
)

// ErrUnavailable is surfaced after a transient storage failure persisted
// through the single retry.
var ErrUnavailable = errors.New("storage unavailable")

// Postgres error classes that are safe to retry with the same
// idempotency key: connection failures, serialization conflicts,
// deadlocks.
const (
	pgClassConnection   = "08"
	pgSerializationFail = "40001"
	pgDeadlockDetected  = "40P01"
)

// IsTransient reports whether err is a storage failure that a repeat of
// the same call may recover from.
func IsTransient(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code.Class() == pgClassConnection {
			return true
		}
		if pqErr.Code == pgSerializationFail || pqErr.Code == pgDeadlockDetected {
			return true
		}
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// RetryOnce runs fn, repeats it a single time on a transient failure,
// and converts a still-failing transient error into ErrUnavailable.
// Validation and state errors pass through untouched.
func RetryOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil || !IsTransient(err) {
		return err
	}

	if err = fn(ctx); err == nil {
		return nil
	}
	if IsTransient(err) {
		return ErrUnavailable
	}
	return err
}
