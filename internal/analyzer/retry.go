package analyzer

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/policyaudit/internal/qa"
)

// isRetryable checks if an error is worth retrying.
func isRetryable(err error) bool {
	var retryErr *qa.RetryableError
	return errors.As(err, &retryErr)
}

// backoff returns a duration for attempt n (0-indexed) with jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

const extractRetries = 3
