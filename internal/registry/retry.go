// File path: internal/registry/retry.go
package registry

import (
	"context"
	"fmt"
	"time"
)

// Policy is a bounded retry policy with exponential backoff. The zero value
// is unusable; construct one with the fields set.
type Policy struct {
	// MaxAttempts bounds the total number of tries, including the first.
	MaxAttempts int
	// Backoff is the delay before the second attempt; it doubles on each
	// subsequent attempt up to MaxBackoff.
	Backoff    time.Duration
	MaxBackoff time.Duration
	// Retryable decides whether an error is worth another attempt. A nil
	// predicate retries nothing.
	Retryable func(error) bool
}

// Do runs op until it succeeds, exhausts the attempt budget, fails with a
// non-retryable error, or the context is done. The returned error is the
// last one observed.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.Backoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = op(); err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		if delay <= 0 {
			delay = time.Second
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if p.MaxBackoff > 0 && delay > p.MaxBackoff {
			delay = p.MaxBackoff
		}
	}
	return fmt.Errorf("retries exhausted after %d attempts: %w", attempts, err)
}
