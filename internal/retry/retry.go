// Package retry wraps circuit-breaker-guarded calls with a bounded-attempt
// retry loop using exponential backoff and full jitter.
package retry

import (
	"context"
	"errors"
	"time"

	"order-gateway/internal/breaker"
	"order-gateway/internal/downstream"
)

// Policy bounds a retry loop. MaxAttempts counts the first attempt.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy retries twice more after the first failure, starting at
// 100ms between attempts.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = d.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = d.MaxDelay
	}
	return p
}

// Do runs op until it succeeds or the attempt budget is spent, backing off
// between attempts. Two kinds of failure are never retried: an open
// circuit (retrying into it spends attempts for nothing, so it fast-fails
// straight to the caller) and non-transient errors. After the last attempt
// the final error is surfaced for the caller to apply its fallback.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var (
		zero    T
		lastErr error
	)

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := exponential(p.BaseDelay, attempt-1)
			if delay > p.MaxDelay {
				delay = p.MaxDelay
			}
			if err := sleep(ctx, jitter(delay)); err != nil {
				return zero, lastErr
			}
		}

		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if errors.Is(err, breaker.ErrCircuitOpen) {
			return zero, err
		}
		if !downstream.IsRetryable(err) {
			return zero, err
		}
	}

	return zero, lastErr
}
