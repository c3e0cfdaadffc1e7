package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a backend that could not be reached.
var ErrNetwork = errors.New("network error")

// RetryableError flags a failure as transient.
type RetryableError struct{ Err error }

// Retryable flags err as transient. A nil error stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, was flagged with
// [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries transient failures with doubling delays capped at Max.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// defaultBackoff serves the Redis backend. Three attempts keep a render
// request well inside the server's 60s timeout.
var defaultBackoff = Backoff{Attempts: 3, Initial: 200 * time.Millisecond, Max: 2 * time.Second}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The last error is returned; a cancelled ctx returns
// ctx.Err() while waiting.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Initial
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if delay *= 2; b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
}

// RetryWithBackoff runs fn under the default backoff.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return defaultBackoff.Do(ctx, fn)
}
