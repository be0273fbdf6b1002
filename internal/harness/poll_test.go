package harness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollImmediateSuccess(t *testing.T) {
	start := time.Now()
	result := Poll(context.Background(), PollConfig{Interval: time.Second, Timeout: 5 * time.Second},
		func(ctx context.Context) (bool, error) { return true, nil })

	assert.True(t, result.Satisfied)
	assert.Equal(t, 1, result.Attempts)
	assert.NoError(t, result.LastErr)
	assert.Less(t, time.Since(start), time.Second, "first check must run without an initial delay")
}

func TestPollSucceedsAfterRetries(t *testing.T) {
	checks := 0
	result := Poll(context.Background(), PollConfig{Interval: 10 * time.Millisecond, Timeout: time.Second},
		func(ctx context.Context) (bool, error) {
			checks++
			return checks >= 3, nil
		})

	assert.True(t, result.Satisfied)
	assert.Equal(t, 3, result.Attempts)
	assert.GreaterOrEqual(t, result.Elapsed, 20*time.Millisecond)
}

func TestPollTimeout(t *testing.T) {
	result := Poll(context.Background(), PollConfig{Interval: 10 * time.Millisecond, Timeout: 50 * time.Millisecond},
		func(ctx context.Context) (bool, error) { return false, nil })

	assert.False(t, result.Satisfied)
	assert.GreaterOrEqual(t, result.Elapsed, 50*time.Millisecond)
	assert.GreaterOrEqual(t, result.Attempts, 2)
}

func TestPollTimeoutFiresBeforeLongInterval(t *testing.T) {
	start := time.Now()
	result := Poll(context.Background(), PollConfig{Interval: time.Hour, Timeout: 50 * time.Millisecond},
		func(ctx context.Context) (bool, error) { return false, nil })

	assert.False(t, result.Satisfied)
	assert.Less(t, time.Since(start), time.Second, "must not wait out a full interval past the deadline")
}

func TestPollCheckErrorsDoNotStopTheLoop(t *testing.T) {
	checks := 0
	result := Poll(context.Background(), PollConfig{Interval: 10 * time.Millisecond, Timeout: time.Second},
		func(ctx context.Context) (bool, error) {
			checks++
			if checks < 3 {
				return false, errors.New("transient")
			}
			return true, nil
		})

	assert.True(t, result.Satisfied)
	assert.Equal(t, 3, result.Attempts)
	assert.NoError(t, result.LastErr, "last check succeeded")
}

func TestPollContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Poll(ctx, PollConfig{Interval: time.Hour, Timeout: time.Hour},
		func(ctx context.Context) (bool, error) { return false, nil })

	assert.False(t, result.Satisfied)
	assert.ErrorIs(t, result.LastErr, context.Canceled)
	assert.Equal(t, 1, result.Attempts)
}

func TestPollZeroConfigUsesDefaults(t *testing.T) {
	result := Poll(context.Background(), PollConfig{},
		func(ctx context.Context) (bool, error) { return true, nil })

	assert.True(t, result.Satisfied)
}
