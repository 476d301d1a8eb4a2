package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts:     maxAttempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		attempts++
		return nil
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		attempts++
		if attempts < 3 {
			return NewRetryableError(errors.New("transient"))
		}
		return nil
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		attempts++
		return NewRetryableError(errors.New("transient"))
	}, nil)

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_FatalStopsImmediately(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		attempts++
		return NewFatalError(errors.New("rejected"))
	}, nil)

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.True(t, IsFatal(err))
}

func TestDo_PlainErrorsAreRetryable(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(2), func() error {
		attempts++
		return errors.New("plain")
	}, nil)

	assert.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.False(t, IsFatal(err))
}

func TestDo_OnRetryCallback(t *testing.T) {
	var observed []int
	attempts := 0

	err := Do(context.Background(), fastPolicy(3), func() error {
		attempts++
		return NewRetryableError(errors.New("transient"))
	}, func(attempt int, attemptErr error, nextDelay time.Duration) {
		observed = append(observed, attempt)
		assert.Error(t, attemptErr)
		assert.Positive(t, nextDelay)
	})

	assert.Error(t, err)
	// The final attempt is not followed by a retry, so it is not observed.
	assert.Equal(t, []int{1, 2}, observed)
}

func TestIsFatal_WrappedError(t *testing.T) {
	wrapped := NewFatalError(errors.New("rejected"))
	assert.True(t, IsFatal(wrapped))
	assert.False(t, IsFatal(errors.New("plain")))
	assert.False(t, IsFatal(NewRetryableError(errors.New("transient"))))
}

func TestNextDelay(t *testing.T) {
	policy := Policy{
		InitialInterval: time.Second,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
	}

	assert.Equal(t, time.Second, NextDelay(1, policy))
	assert.Equal(t, 2*time.Second, NextDelay(2, policy))
	assert.Equal(t, 4*time.Second, NextDelay(3, policy))
	assert.Equal(t, 10*time.Second, NextDelay(10, policy))
}

func TestNewRetryableError_Unwrap(t *testing.T) {
	base := errors.New("transient")
	wrapped := NewRetryableError(base)
	require.ErrorIs(t, wrapped, base)

	fatal := NewFatalError(base)
	require.ErrorIs(t, fatal, base)
}
