package source

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestRetryPolicyBackoff tests the exponential schedule and its cap.
func TestRetryPolicyBackoff(t *testing.T) {
	t.Parallel()

	p := RetryPolicy{
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  8 * time.Second,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: 500 * time.Millisecond},
		{attempt: 1, want: time.Second},
		{attempt: 2, want: 2 * time.Second},
		{attempt: 3, want: 4 * time.Second},
		{attempt: 4, want: 8 * time.Second},
		{attempt: 10, want: 8 * time.Second},
	}

	for _, tt := range tests {
		if got := p.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

// TestSleep tests context-aware waiting.
func TestSleep(t *testing.T) {
	t.Parallel()

	t.Run("returns after the delay", func(t *testing.T) {
		t.Parallel()

		if err := sleep(context.Background(), time.Millisecond); err != nil {
			t.Errorf("sleep() returned error: %v", err)
		}
	})

	t.Run("cancellation interrupts the wait", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := sleep(ctx, time.Minute); !errors.Is(err, context.Canceled) {
			t.Errorf("sleep() = %v, want context.Canceled", err)
		}
	})

	t.Run("non-positive delay returns immediately", func(t *testing.T) {
		t.Parallel()

		if err := sleep(context.Background(), 0); err != nil {
			t.Errorf("sleep() returned error: %v", err)
		}
	})
}
