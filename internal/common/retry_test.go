package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetrySucceedsAfterTransientFailure(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &RetryableError{Err: fmt.Errorf("transient"), Retryable: true}
		}
		return nil
	}, fastRetry())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryStopsOnPermanentFailure(t *testing.T) {
	attempts := 0
	permanent := &RetryableError{Err: fmt.Errorf("bad request"), Retryable: false}

	err := WithRetry(context.Background(), func() error {
		attempts++
		return permanent
	}, fastRetry())

	require.Error(t, err)
	assert.Equal(t, 1, attempts, "non-retryable errors fail fast")
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return &RetryableError{Err: fmt.Errorf("still down"), Retryable: true}
	}, fastRetry())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := WithRetry(ctx, func() error {
		attempts++
		cancel()
		return &RetryableError{Err: fmt.Errorf("transient"), Retryable: true}
	}, RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestRetryableErrorUnwraps(t *testing.T) {
	inner := ErrConnection
	wrapped := &RetryableError{Err: fmt.Errorf("%w: reset by peer", inner), Retryable: true}

	assert.True(t, errors.Is(wrapped, ErrConnection))
	assert.Equal(t, "catalog connection failed: reset by peer", wrapped.Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "connection error", err: fmt.Errorf("%w: timeout", ErrConnection), want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "retryable wrapper", err: &RetryableError{Err: fmt.Errorf("x"), Retryable: true}, want: true},
		{name: "permanent wrapper", err: &RetryableError{Err: fmt.Errorf("x"), Retryable: false}, want: false},
		{name: "plain error", err: fmt.Errorf("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not reach the catalog", ErrConnection)
	assert.Contains(t, err.Error(), "could not reach the catalog")
	assert.True(t, errors.Is(err, ErrConnection))
}
