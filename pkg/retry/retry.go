package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryableError marks a failure worth another attempt (transport errors,
// 5xx responses).
type RetryableError interface {
	error
	IsRetryable() bool
}

type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) IsRetryable() bool {
	return true
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func NewRetryableError(err error) RetryableError {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// FatalError marks a failure that must not be re-attempted (rejected
// payloads, 4xx responses).
type FatalError interface {
	error
	IsFatal() bool
}

type fatalError struct {
	err error
}

func (e *fatalError) Error() string {
	return e.err.Error()
}

func (e *fatalError) IsFatal() bool {
	return true
}

func (e *fatalError) Unwrap() error {
	return e.err
}

func NewFatalError(err error) FatalError {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

func IsFatal(err error) bool {
	var fatalErr FatalError
	return errors.As(err, &fatalErr) && fatalErr.IsFatal()
}

type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
	}
}

// Do runs fn up to policy.MaxAttempts times with exponential backoff.
// Errors default to retryable unless they satisfy FatalError; fatal errors
// stop the loop immediately. onRetry, when non-nil, observes every failed
// attempt that will be retried.
func Do(ctx context.Context, policy Policy, fn func() error, onRetry func(attempt int, err error, nextDelay time.Duration)) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultPolicy().MaxAttempts
	}

	b := newExponentialBackoff(policy)
	b = backoff.WithContext(b, ctx)
	b = backoff.WithMaxRetries(b, uint64(policy.MaxAttempts-1))

	attempt := 0
	operation := func() error {
		attempt++
		err := fn()

		if err == nil {
			return nil
		}

		var fatalErr FatalError
		if errors.As(err, &fatalErr) {
			return backoff.Permanent(err)
		}

		var retryableErr RetryableError
		if !errors.As(err, &retryableErr) {
			// Default: treat as retryable
			err = NewRetryableError(err)
		}

		if onRetry != nil && attempt < policy.MaxAttempts {
			onRetry(attempt, err, NextDelay(attempt, policy))
		}

		return err
	}

	return backoff.Retry(operation, b)
}
