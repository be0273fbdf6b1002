// Package harness contains the scenario execution engine: the safe-call
// wrapper that turns failures into data, the bounded poll loop for
// asynchronous platform operations, the cleanup retry helper, and the
// declarative scenario/suite interpreter built on top of them.
package harness

import (
	"time"
)

// Status is the single closed result vocabulary used everywhere in the
// harness. Free-text detail lives in the Description/Error fields.
type Status string

const (
	// StatusPassed indicates the operation or scenario succeeded.
	StatusPassed Status = "PASSED"
	// StatusWarning indicates a non-fatal problem, typically an optional
	// platform feature that is absent or permission-gated.
	StatusWarning Status = "WARNING"
	// StatusFailed indicates a hard failure.
	StatusFailed Status = "FAILED"
	// StatusSkipped indicates the operation was not attempted.
	StatusSkipped Status = "SKIPPED"
)

// OperationResult is the outcome of one safe-called operation. It is
// created once by SafeCall and never mutated afterwards.
type OperationResult struct {
	// ID is the step identifier within the scenario, empty for direct calls.
	ID string `json:"id,omitempty"`
	// Description is the human-readable description of the operation.
	Description string `json:"description"`
	// Status is the normalized outcome.
	Status Status `json:"status"`
	// Result is the opaque payload returned by the underlying call.
	Result interface{} `json:"result,omitempty"`
	// Error holds the failure text when Status is not PASSED.
	Error string `json:"error,omitempty"`
	// Guidance carries user-facing advice for warnings (e.g. how to
	// enable an optional feature).
	Guidance string `json:"guidance,omitempty"`
	// Duration is how long the operation took.
	Duration time.Duration `json:"duration"`
}

// ScenarioResult is the outcome of one scenario invocation. It is built
// incrementally during execution and returned once; its lifetime is
// exactly one invocation.
type ScenarioResult struct {
	Name       string            `json:"scenario"`
	Suite      string            `json:"suite,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
	StartTime  time.Time         `json:"timestamp"`
	Duration   time.Duration     `json:"duration"`
	Operations []OperationResult `json:"operations"`
	Status     Status            `json:"status"`
	Error      string            `json:"error,omitempty"`
}

// OperationCounts tallies operation outcomes of a scenario.
func (r *ScenarioResult) OperationCounts() (passed, warned, failed, skipped int) {
	for _, op := range r.Operations {
		switch op.Status {
		case StatusPassed:
			passed++
		case StatusWarning:
			warned++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return
}

// SuiteResult aggregates the scenario results of one suite run.
type SuiteResult struct {
	Suite       string           `json:"suite"`
	Description string           `json:"description,omitempty"`
	StartTime   time.Time        `json:"start_time"`
	Duration    time.Duration    `json:"duration"`
	Scenarios   []ScenarioResult `json:"scenarios"`
	Total       int              `json:"total_scenarios"`
	Passed      int              `json:"passed_scenarios"`
	Failed      int              `json:"failed_scenarios"`
	Skipped     int              `json:"skipped_scenarios"`
	// SuccessRate is passed / (total - skipped), in [0, 1].
	SuccessRate float64 `json:"success_rate"`
	// Threshold is the pass threshold the suite was judged against.
	Threshold float64 `json:"threshold"`
	Status    Status  `json:"status"`
	Error     string  `json:"error,omitempty"`
}
