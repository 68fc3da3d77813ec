package resilience

import (
	"context"
	"time"

	"stayscout/pkg/metrics"
)

// RetryPlan is the immutable retry configuration.
type RetryPlan struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Retry runs op, retrying failures with deterministic exponential backoff:
// delay = min(BaseDelay * 2^attempt, MaxDelay), no jitter. The last failure
// is returned once the retry budget is exhausted. A breaker-open rejection
// counts as a retryable failure like any other.
func Retry(ctx context.Context, plan RetryPlan, op func() error) error {
	var lastErr error
	for attempt := 0; attempt <= plan.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.RetryAttemptsTotal.Inc()
			if err := sleep(ctx, backoffDelay(plan, attempt-1)); err != nil {
				return err
			}
		}

		if lastErr = op(); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func backoffDelay(plan RetryPlan, attempt int) time.Duration {
	delay := plan.BaseDelay << uint(attempt)
	if delay > plan.MaxDelay || delay <= 0 {
		delay = plan.MaxDelay
	}
	return delay
}

// sleep blocks for d, waking early if the context is cancelled. Only the
// worker running this operation is suspended.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
