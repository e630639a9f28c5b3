package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"ConnectionFailure", &pq.Error{Code: "08006"}, true},
		{"ConnectionDoesNotExist", &pq.Error{Code: "08003"}, true},
		{"SerializationFailure", &pq.Error{Code: "40001"}, true},
		{"DeadlockDetected", &pq.Error{Code: "40P01"}, true},
		{"UniqueViolation", &pq.Error{Code: "23505"}, false},
		{"DeadlineExceeded", context.DeadlineExceeded, true},
		{"WrappedSerialization", fmt.Errorf("apply: %w", &pq.Error{Code: "40001"}), true},
		{"PlainError", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestRetryOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessFirstTry", func(t *testing.T) {
		calls := 0
		err := RetryOnce(ctx, func(ctx context.Context) error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("NonTransientNotRetried", func(t *testing.T) {
		calls := 0
		boom := errors.New("validation failed")
		err := RetryOnce(ctx, func(ctx context.Context) error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("TransientRecoversOnRetry", func(t *testing.T) {
		calls := 0
		err := RetryOnce(ctx, func(ctx context.Context) error {
			calls++
			if calls == 1 {
				return &pq.Error{Code: "40001"}
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("TransientPersistsBecomesUnavailable", func(t *testing.T) {
		calls := 0
		err := RetryOnce(ctx, func(ctx context.Context) error {
			calls++
			return &pq.Error{Code: "08006"}
		})
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, 2, calls)
	})

	t.Run("NonTransientOnRetryPassesThrough", func(t *testing.T) {
		calls := 0
		boom := errors.New("constraint violated")
		err := RetryOnce(ctx, func(ctx context.Context) error {
			calls++
			if calls == 1 {
				return &pq.Error{Code: "40P01"}
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
