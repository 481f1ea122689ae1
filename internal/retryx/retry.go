// Package retryx provides a small reusable retry policy: a bounded
// number of attempts, an exponential backoff schedule, and a classifier
// predicate deciding which errors are worth retrying at all.
package retryx

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy describes one retry discipline. The zero value is not usable;
// construct with explicit fields.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the wait before the first retry; it doubles on each
	// subsequent retry (base, 2*base, 4*base, ...).
	BaseDelay time.Duration
	// Retryable reports whether an error is transient. Errors it
	// rejects are surfaced immediately.
	Retryable func(error) bool
}

// Do runs fn under the policy. The last error is returned once the
// attempt budget is exhausted or fn fails with a non-retryable error.
// Context cancellation interrupts the backoff wait.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(p.BaseDelay))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && p.Retryable != nil && p.Retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
