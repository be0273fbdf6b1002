package harness

import (
	"context"
	"time"
)

// PollConfig bounds a poll loop. Interval is the fixed delay between
// checks, Timeout is the hard ceiling on total wait.
type PollConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultPollConfig matches the platform's typical provisioning times.
var DefaultPollConfig = PollConfig{
	Interval: 5 * time.Second,
	Timeout:  5 * time.Minute,
}

// PollResult records the outcome of a Poll call.
type PollResult struct {
	// Satisfied is true if the condition became true before the deadline.
	Satisfied bool
	// Elapsed is the total time spent polling.
	Elapsed time.Duration
	// Attempts is the number of checks performed, always at least one.
	Attempts int
	// LastErr is the error from the final check, if any. Check errors do
	// not stop the loop; a transient API hiccup mid-wait is expected.
	LastErr error
}

// Poll repeatedly evaluates check until it reports true, the timeout
// elapses, or ctx is cancelled. The first check runs immediately.
// Timing out is an outcome, not an error.
func Poll(ctx context.Context, cfg PollConfig, check func(ctx context.Context) (bool, error)) PollResult {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollConfig.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPollConfig.Timeout
	}

	start := time.Now()
	deadline := start.Add(cfg.Timeout)
	result := PollResult{}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	expired := time.NewTimer(cfg.Timeout)
	defer expired.Stop()

	for {
		result.Attempts++
		ok, err := check(ctx)
		result.LastErr = err
		if ok {
			result.Satisfied = true
			result.Elapsed = time.Since(start)
			return result
		}

		if time.Now().After(deadline) {
			result.Elapsed = time.Since(start)
			return result
		}

		// The timer case fires at the wall-clock deadline even when the
		// interval is longer than the remaining wait.
		select {
		case <-ctx.Done():
			result.LastErr = ctx.Err()
			result.Elapsed = time.Since(start)
			return result
		case <-expired.C:
			result.Elapsed = time.Since(start)
			return result
		case <-ticker.C:
		}
	}
}
