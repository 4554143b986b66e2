package query

import (
	"context"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/api"
)

// RetryPolicy controls how failed fetches are retried. Retries counts the
// extra attempts after the first one.
type RetryPolicy struct {
	Retries   int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// ShouldRetry decides whether an error is worth another attempt.
	ShouldRetry func(error) bool
}

// DefaultRetryPolicy retries transient failures three times with
// exponential backoff capped at 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Retries:     3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		ShouldRetry: api.IsTransient,
	}
}

// Delay returns the wait before retry number attempt (0-based):
// min(BaseDelay * 2^attempt, MaxDelay).
func (p RetryPolicy) Delay(attempt int) time.Duration {
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

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// run calls fn until it succeeds, the error is not retryable, the retry
// budget is spent or ctx is cancelled. It returns the number of attempts.
func (p RetryPolicy) run(ctx context.Context, sleep SleepFunc, fn func(context.Context) (any, error)) (any, int, error) {
	attempts := 0
	for {
		attempts++
		v, err := fn(ctx)
		if err == nil {
			return v, attempts, nil
		}
		retry := attempts-1 < p.Retries && (p.ShouldRetry == nil || p.ShouldRetry(err))
		if !retry {
			return nil, attempts, err
		}
		if serr := sleep(ctx, p.Delay(attempts-1)); serr != nil {
			return nil, attempts, err
		}
	}
}
