package fetcher

import (
	"context"
	"time"
)

// RetryPolicy is a bounded retry with fixed backoff, parameterized per
// collaborator so retry semantics are testable independently of timing.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first failure.
	MaxRetries int
	// Backoff is the fixed delay between attempts.
	Backoff time.Duration
}

// FetchRetryPolicy is the default policy for document fetches.
var FetchRetryPolicy = RetryPolicy{MaxRetries: 2, Backoff: 2 * time.Second}

// NoRetryPolicy performs a single attempt. Used for collaborators whose
// failures are retried at a coarser level (store writes, notifications).
var NoRetryPolicy = RetryPolicy{}

// Do invokes fn until it succeeds, retries are exhausted, or the context is
// cancelled. The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Backoff):
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}

	return lastErr
}
