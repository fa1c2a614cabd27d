package embedder

import (
	"context"
	"time"
)

// Retry configuration for remote providers.
const (
	maxRetries        = 3
	initialBackoff    = 100 * time.Millisecond
	maxBackoff        = 5 * time.Second
	backoffMultiplier = 2.0
)

// retryWithBackoff executes fn with exponential backoff. Retrying stops
// immediately on context cancellation.
func retryWithBackoff[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var lastErr error
	var zero T
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if attempt < maxRetries-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * backoffMultiplier)
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
			}
		}
	}

	return zero, lastErr
}
