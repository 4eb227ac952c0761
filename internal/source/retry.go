package source

import (
	"context"
	"time"
)

// RetryPolicy controls how the client retries transient failures.
// It is an explicit value injected into the Client so tests can exercise
// rate-limiting and timeout paths deterministically.
//
// Rate-limit waits (429 responses) do not consume attempts: the ceiling
// only counts genuine failures (timeouts, 5xx).
type RetryPolicy struct {
	// MaxAttempts is the total number of tries for one page fetch.
	// After MaxAttempts failures the fetch fails with ErrSourceUnavailable.
	MaxAttempts int

	// BaseDelay is the backoff before the first retry. Each subsequent
	// retry doubles the delay.
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration

	// RetryAfterDefault is the wait applied to a rate-limit response that
	// carries no usable Retry-After hint.
	RetryAfterDefault time.Duration
}

// DefaultRetryPolicy returns the policy used when none is injected:
// three attempts with a 500ms..8s exponential schedule and a 5s default
// rate-limit wait.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		BaseDelay:         500 * time.Millisecond,
		MaxDelay:          8 * time.Second,
		RetryAfterDefault: 5 * time.Second,
	}
}

// Backoff returns the delay before the retry following the given
// zero-based failed attempt: BaseDelay * 2^attempt, capped at MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// sleep waits for the given duration or until the context is done,
// whichever comes first. Returning the context error lets callers
// propagate cancellation out of a backoff wait.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
