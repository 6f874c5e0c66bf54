package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a shared backend cannot be reached.
// Callers fall back to a local cache on it.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks a transient failure, such as a reset S3 connection,
// that [RetryWithBackoff] may try again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. It returns nil for a nil error.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or anything it wraps, is transient.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

const retryAttempts = 3

// retryBaseDelay is the wait before the second attempt; tests shorten it.
var retryBaseDelay = time.Second

// RetryWithBackoff calls fn until it succeeds, returns a permanent error,
// or has failed retryAttempts times. The wait doubles after each attempt.
// A canceled ctx ends the wait with ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryBaseDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
