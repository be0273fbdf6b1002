package perf

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCountExecutesAllRequests(t *testing.T) {
	var calls int32
	result := RunCount(context.Background(), "noop", LoadConfig{Concurrency: 4, Requests: 20},
		func(ctx context.Context, index int) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

	assert.Equal(t, int32(20), atomic.LoadInt32(&calls))
	assert.Equal(t, 20, result.Requested)
	assert.Equal(t, 20, result.Completed)
	assert.Zero(t, result.Failed)
	assert.Greater(t, result.Throughput, 0.0)
}

func TestRunCountRespectsConcurrencyLimit(t *testing.T) {
	var current, peak int32
	var mu sync.Mutex

	RunCount(context.Background(), "limited", LoadConfig{Concurrency: 3, Requests: 30},
		func(ctx context.Context, index int) error {
			n := atomic.AddInt32(&current, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil
		})

	assert.LessOrEqual(t, peak, int32(3))
	assert.Greater(t, peak, int32(1), "workers actually ran concurrently")
}

func TestRunCountRecordsFailuresWithoutStopping(t *testing.T) {
	result := RunCount(context.Background(), "flaky", LoadConfig{Concurrency: 2, Requests: 10},
		func(ctx context.Context, index int) error {
			if index%2 == 0 {
				return errors.New("synthetic failure")
			}
			return nil
		})

	assert.Equal(t, 10, result.Requested, "failures never cancel the remaining operations")
	assert.Equal(t, 5, result.Completed)
	assert.Equal(t, 5, result.Failed)
	assert.NotEmpty(t, result.Errors)
	assert.LessOrEqual(t, len(result.Errors), maxRecordedErrors)
}

func TestRunCountLatencyStats(t *testing.T) {
	result := RunCount(context.Background(), "timed", LoadConfig{Concurrency: 1, Requests: 5},
		func(ctx context.Context, index int) error {
			time.Sleep(2 * time.Millisecond)
			return nil
		})

	require.Equal(t, 5, result.Completed)
	assert.GreaterOrEqual(t, result.MinLatency, 2*time.Millisecond)
	assert.GreaterOrEqual(t, result.MaxLatency, result.MinLatency)
	assert.GreaterOrEqual(t, result.P95Latency, result.P50Latency)
	assert.GreaterOrEqual(t, result.AvgLatency, result.MinLatency)
}

func TestRunDurationStopsAtDeadline(t *testing.T) {
	start := time.Now()
	result := RunDuration(context.Background(), "timed", LoadConfig{Concurrency: 2, Duration: 50 * time.Millisecond},
		func(ctx context.Context, index int) error {
			time.Sleep(time.Millisecond)
			return nil
		})

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Greater(t, result.Completed, 0)
	assert.Equal(t, result.Requested, result.Completed+result.Failed)
}

func TestPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(5), percentile(sorted, 0.5))
	assert.Equal(t, time.Duration(9), percentile(sorted, 0.95))
	assert.Equal(t, time.Duration(0), percentile(nil, 0.5))
}

func TestLoadResultString(t *testing.T) {
	r := &LoadResult{Operation: "x", Completed: 3, Requested: 4, Throughput: 1.5}
	s := r.String()
	assert.Contains(t, s, "3/4")
	assert.Contains(t, s, "x")
}
