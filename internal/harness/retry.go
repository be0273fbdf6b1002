package harness

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"uatharness/pkg/logging"
)

const (
	cleanupAttempts = 3
	cleanupInterval = 2 * time.Second
)

// CleanupWithRetry runs fn up to cleanupAttempts times with a constant
// delay between attempts. Resource deletion on the platform can race
// with teardown of the compute behind it, so a couple of retries absorb
// most transient conflicts. The last error is returned if all attempts
// fail; cleanup failures are reported, never raised past the caller.
func CleanupWithRetry(ctx context.Context, description string, fn func(ctx context.Context) error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cleanupInterval), cleanupAttempts-1),
		ctx,
	)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		if err := fn(ctx); err != nil {
			logging.Debug("harness", "cleanup %q attempt %d failed: %v", description, attempt, err)
			return err
		}
		return nil
	}, policy)

	if err != nil {
		logging.Warn("harness", "cleanup %q gave up after %d attempts: %v", description, attempt, err)
	}
	return err
}
