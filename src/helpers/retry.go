package helpers

import (
	"time"

	"aapl-elt/src/logger"
)

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// sleep is overridden in tests to avoid real delays.
var sleep = time.Sleep

// RetryFixedDelay attempts fn up to attempts times with a fixed delay between
// tries. Used for whole-run scheduler retries and read-only warehouse
// connects while a replace transaction holds the file.
func RetryFixedDelay(operation string, attempts int, delay time.Duration, log *logger.Logger, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		if log != nil {
			log.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt, attempts, operation, lastErr, delay)
		}
		sleep(delay)
	}

	return lastErr
}
