package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/techdocs"
)

// Backoff policy for rate-limited downstream calls.
const (
	// retryAttempts is the total number of attempts before giving up.
	retryAttempts = 5
	// retryBaseDelay is the delay before the first retry.
	retryBaseDelay = 1 * time.Second
	// retryMaxDelay caps the exponential backoff.
	retryMaxDelay = 30 * time.Second
)

// RetryRateLimited invokes fn, retrying with exponential backoff whenever it
// returns ERATELIMIT. Only the calling worker sleeps; other workers keep
// processing. The context and cancellation token are checked before each
// sleep, and cancellation surfaces as ECANCELLED.
//
// Errors with any other code are returned immediately without retry.
func RetryRateLimited[T any](ctx context.Context, token *techdocs.CancelToken, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	delay := retryBaseDelay

	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if token != nil && token.Cancelled() {
			return zero, techdocs.Errorf(techdocs.ECANCELLED, "cancelled before attempt %d", attempt+1)
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if techdocs.ErrorCode(err) != techdocs.ERATELIMIT {
			return zero, err
		}
		lastErr = err

		if attempt >= retryAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}

	return zero, lastErr
}
