// Package backoff provides exponential backoff with jitter for the retries
// performed while connecting to external stores.
package backoff

import (
	"context"
	"errors"
	"fmt"
	"math"
	mrand "math/rand/v2"
	"time"
)

const maxShift = 62

// ErrInvalidAttempts is returned by Retry when attempts is lower than one.
var ErrInvalidAttempts = errors.New("attempts must be at least 1")

// Exponential calculates base * 2^attempt with overflow protection.
// Negative attempts are treated as 0.
func Exponential(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}

	if attempt < 0 {
		attempt = 0
	} else if attempt > maxShift {
		attempt = maxShift
	}

	multiplier := int64(1 << attempt)

	baseInt := int64(base)
	if baseInt > math.MaxInt64/multiplier {
		return time.Duration(math.MaxInt64)
	}

	return time.Duration(baseInt * multiplier)
}

// FullJitter returns a random duration in the range [0, delay).
// Returns 0 for zero or negative delays.
func FullJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return 0
	}

	return time.Duration(mrand.Int64N(int64(delay))) // #nosec G404 -- jitter, not security sensitive
}

// ExponentialWithJitter combines exponential backoff with full jitter.
func ExponentialWithJitter(base time.Duration, attempt int) time.Duration {
	return FullJitter(Exponential(base, attempt))
}

// SleepWithContext sleeps for duration but returns early when ctx is done.
func SleepWithContext(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context done: %w", ctx.Err())
	}
}

// Retry calls fn up to attempts times, sleeping ExponentialWithJitter(base, i)
// between failures. It returns nil on the first success, otherwise the last
// error joined with any context error that interrupted the wait.
func Retry(ctx context.Context, attempts int, base time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		return ErrInvalidAttempts
	}

	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}

		if attempt == attempts-1 {
			break
		}

		if err := SleepWithContext(ctx, ExponentialWithJitter(base, attempt)); err != nil {
			return errors.Join(lastErr, err)
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
