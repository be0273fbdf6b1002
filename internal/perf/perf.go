// Package perf generates concurrent load against the platform and
// aggregates latency statistics. Workers fan out under a bounded
// errgroup; results are collected per-slot so no aggregation happens
// until every worker has finished.
package perf

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"uatharness/pkg/logging"
)

const maxRecordedErrors = 10

// LoadConfig shapes a load test.
type LoadConfig struct {
	// Concurrency is the number of operations in flight at once.
	Concurrency int `json:"concurrency"`
	// Requests is the total number of operations for fixed-count tests.
	Requests int `json:"requests"`
	// Duration bounds duration-based tests.
	Duration time.Duration `json:"duration"`
}

func (c LoadConfig) withDefaults() LoadConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = 5
	}
	if c.Requests <= 0 {
		c.Requests = c.Concurrency
	}
	if c.Duration <= 0 {
		c.Duration = 30 * time.Second
	}
	return c
}

// LoadResult summarizes a completed load test.
type LoadResult struct {
	Operation   string        `json:"operation"`
	Concurrency int           `json:"concurrency"`
	Requested   int           `json:"requested"`
	Completed   int           `json:"completed"`
	Failed      int           `json:"failed"`
	Duration    time.Duration `json:"duration"`
	// Throughput is completed operations per second.
	Throughput float64       `json:"throughput"`
	MinLatency time.Duration `json:"min_latency"`
	MaxLatency time.Duration `json:"max_latency"`
	AvgLatency time.Duration `json:"avg_latency"`
	P50Latency time.Duration `json:"p50_latency"`
	P95Latency time.Duration `json:"p95_latency"`
	// Errors holds up to maxRecordedErrors distinct failure messages.
	Errors []string `json:"errors,omitempty"`
}

// OperationFunc is one unit of load. The index identifies the operation
// within the test so implementations can derive unique resource names.
type OperationFunc func(ctx context.Context, index int) error

// RunCount executes cfg.Requests operations with at most
// cfg.Concurrency in flight and aggregates once all are done.
func RunCount(ctx context.Context, name string, cfg LoadConfig, op OperationFunc) *LoadResult {
	cfg = cfg.withDefaults()
	logging.Info("perf", "load test %s: %d requests, concurrency %d", name, cfg.Requests, cfg.Concurrency)

	latencies := make([]time.Duration, cfg.Requests)
	errs := make([]error, cfg.Requests)

	start := time.Now()
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.Concurrency)
	for i := 0; i < cfg.Requests; i++ {
		index := i
		group.Go(func() error {
			opStart := time.Now()
			errs[index] = op(groupCtx, index)
			latencies[index] = time.Since(opStart)
			// Individual failures are data, not reasons to cancel the group.
			return nil
		})
	}
	_ = group.Wait()

	return aggregate(name, cfg, time.Since(start), latencies, errs)
}

// RunDuration executes op repeatedly for cfg.Duration with
// cfg.Concurrency workers.
func RunDuration(ctx context.Context, name string, cfg LoadConfig, op OperationFunc) *LoadResult {
	cfg = cfg.withDefaults()
	logging.Info("perf", "stress test %s: %s, concurrency %d", name, cfg.Duration, cfg.Concurrency)

	deadline := time.Now().Add(cfg.Duration)
	var mu sync.Mutex
	var latencies []time.Duration
	var errs []error

	start := time.Now()
	group, groupCtx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Concurrency; w++ {
		worker := w
		group.Go(func() error {
			var local []time.Duration
			var localErrs []error
			for i := 0; time.Now().Before(deadline); i++ {
				if groupCtx.Err() != nil {
					break
				}
				opStart := time.Now()
				err := op(groupCtx, worker*1_000_000+i)
				local = append(local, time.Since(opStart))
				localErrs = append(localErrs, err)
			}
			mu.Lock()
			latencies = append(latencies, local...)
			errs = append(errs, localErrs...)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	cfg.Requests = len(latencies)
	return aggregate(name, cfg, time.Since(start), latencies, errs)
}

func aggregate(name string, cfg LoadConfig, elapsed time.Duration, latencies []time.Duration, errs []error) *LoadResult {
	result := &LoadResult{
		Operation:   name,
		Concurrency: cfg.Concurrency,
		Requested:   len(latencies),
		Duration:    elapsed,
	}

	var succeeded []time.Duration
	for i, err := range errs {
		if err != nil {
			result.Failed++
			if len(result.Errors) < maxRecordedErrors {
				result.Errors = append(result.Errors, err.Error())
			}
			continue
		}
		result.Completed++
		succeeded = append(succeeded, latencies[i])
	}

	if len(succeeded) > 0 {
		sort.Slice(succeeded, func(i, j int) bool { return succeeded[i] < succeeded[j] })
		result.MinLatency = succeeded[0]
		result.MaxLatency = succeeded[len(succeeded)-1]
		var total time.Duration
		for _, l := range succeeded {
			total += l
		}
		result.AvgLatency = total / time.Duration(len(succeeded))
		result.P50Latency = percentile(succeeded, 0.50)
		result.P95Latency = percentile(succeeded, 0.95)
	}
	if elapsed > 0 {
		result.Throughput = float64(result.Completed) / elapsed.Seconds()
	}

	logging.Info("perf", "load test %s done: %d/%d completed in %s", name, result.Completed, result.Requested, elapsed)
	return result
}

// percentile expects a sorted slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	index := int(p * float64(len(sorted)-1))
	return sorted[index]
}

// String renders a one-line summary.
func (r *LoadResult) String() string {
	return fmt.Sprintf("%s: %d/%d ok, %.1f op/s, p50 %s, p95 %s",
		r.Operation, r.Completed, r.Requested, r.Throughput,
		r.P50Latency.Round(time.Millisecond), r.P95Latency.Round(time.Millisecond))
}
