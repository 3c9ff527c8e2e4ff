// Package httpretry provides the shared HTTP transport interface and a
// generic retry helper with linear backoff for external API calls.
package httpretry

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/consent-relay/internal/pkg/logger"
)

// HTTPDoer is the interface for executing HTTP requests.
// *http.Client satisfies this interface; tests substitute their own.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultAttempts is the attempt count used when a caller passes zero or less.
const DefaultAttempts = 3

// Do invokes op up to attempts times, waiting baseDelay × attemptNumber
// between attempts (linear backoff, no jitter). Every failure is retried
// identically: op decides what counts as a failure, including non-2xx
// statuses the caller has turned into errors. After the final attempt the
// last error is returned. The backoff wait honors ctx cancellation.
func Do(ctx context.Context, attempts int, baseDelay time.Duration, op func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		delay := baseDelay * time.Duration(attempt)
		logger.Warn("retrying after failure",
			"attempt", attempt, "attempts", attempts, "delay", delay, "error", lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		}
	}

	return lastErr
}
