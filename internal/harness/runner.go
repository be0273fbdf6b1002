package harness

import (
	"context"
	"fmt"
	"time"

	"uatharness/pkg/logging"
)

// Runner executes scenarios and suites against a platform deployment.
// Execution is strictly sequential: steps run in declared order, a
// failed step never aborts the scenario, and a failed scenario never
// aborts the suite. The final report carries the full picture.
type Runner struct {
	deps     *Deps
	registry *Registry
	library  *Library
	reporter Reporter
}

// NewRunner assembles a runner.
func NewRunner(deps *Deps, registry *Registry, library *Library, reporter Reporter) *Runner {
	if reporter == nil {
		reporter = NewStructuredReporter()
	}
	return &Runner{
		deps:     deps,
		registry: registry,
		library:  library,
		reporter: reporter,
	}
}

// Library exposes the loaded scenario set.
func (r *Runner) Library() *Library {
	return r.library
}

// RunScenario executes the named scenario. params override the
// scenario's declared defaults. The returned error covers lookup and
// validation problems only; execution failures are data in the result.
func (r *Runner) RunScenario(ctx context.Context, name string, params map[string]string) (*ScenarioResult, error) {
	scenario, ok := r.library.Scenario(name)
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (available: %v)", name, r.library.ScenarioNames())
	}
	return r.runScenario(ctx, scenario, params), nil
}

func (r *Runner) runScenario(ctx context.Context, scenario *Scenario, params map[string]string) *ScenarioResult {
	merged := make(map[string]string, len(scenario.Params)+len(params))
	for k, v := range scenario.Params {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}

	result := &ScenarioResult{
		Name:      scenario.Name,
		Params:    merged,
		StartTime: time.Now(),
	}
	r.reporter.ScenarioStarted(scenario)
	logging.Info("harness", "running scenario %s", scenario.Name)

	scenarioCtx := NewScenarioContext(merged)
	for _, step := range scenario.Steps {
		op := r.executeStep(ctx, scenarioCtx, step, false)
		result.Operations = append(result.Operations, op)
		r.reporter.OperationCompleted(op)
	}

	// Cleanup always runs, whatever the test steps did. Each cleanup
	// step gets a few retries and its outcome is recorded like any other.
	for _, step := range scenario.Cleanup {
		op := r.executeStep(ctx, scenarioCtx, step, true)
		result.Operations = append(result.Operations, op)
		r.reporter.OperationCompleted(op)
	}

	result.Status = deriveStatus(scenario, result)
	result.Duration = time.Since(result.StartTime)
	r.reporter.ScenarioCompleted(result)
	logging.Info("harness", "scenario %s finished: %s (%s)", scenario.Name, result.Status, result.Duration)
	return result
}

func (r *Runner) executeStep(ctx context.Context, scenarioCtx *ScenarioContext, step Step, cleanup bool) OperationResult {
	description := step.Description
	if description == "" {
		description = step.Operation
	}

	fn, ok := r.registry.Lookup(step.Operation)
	if !ok {
		return OperationResult{
			ID:          step.ID,
			Description: description,
			Status:      StatusFailed,
			Error:       fmt.Sprintf("unknown operation %q", step.Operation),
		}
	}

	args, err := scenarioCtx.ResolveArgs(step.Args)
	if err != nil {
		// An unresolvable reference usually means the step it points at
		// failed earlier. Skip rather than fail so the root cause stays
		// the visible failure.
		return OperationResult{
			ID:          step.ID,
			Description: description,
			Status:      StatusSkipped,
			Error:       err.Error(),
		}
	}

	invoke := func(ctx context.Context) (interface{}, error) {
		return fn(ctx, r.deps, args)
	}
	if cleanup {
		inner := invoke
		invoke = func(ctx context.Context) (interface{}, error) {
			return nil, CleanupWithRetry(ctx, description, func(ctx context.Context) error {
				_, err := inner(ctx)
				return err
			})
		}
	}

	op := SafeCall(ctx, description, r.deps.Config.RestrictedPolicy, invoke)
	op.ID = step.ID
	if op.Status == StatusPassed || op.Status == StatusWarning {
		scenarioCtx.RecordStep(step.ID, op.Result)
	}
	return op
}

// deriveStatus applies the scenario's pass rule to its operation results.
func deriveStatus(scenario *Scenario, result *ScenarioResult) Status {
	passed, _, failed, skipped := result.OperationCounts()
	total := len(result.Operations)

	if total > 0 && skipped == total {
		return StatusSkipped
	}

	switch scenario.Pass.Mode {
	case PassModeThreshold:
		attempted := total - skipped
		if attempted == 0 {
			return StatusSkipped
		}
		if float64(passed)/float64(attempted) >= scenario.Pass.Threshold {
			return StatusPassed
		}
		return StatusFailed
	default:
		// Operation results line up with scenario.Steps by position,
		// with cleanup results appended after.
		for i, step := range scenario.Steps {
			if step.Critical && i < total && result.Operations[i].Status == StatusFailed {
				return StatusFailed
			}
		}
		if failed > 0 && passed == 0 {
			return StatusFailed
		}
		return StatusPassed
	}
}

// RunSuite executes every scenario of the named suite in declared
// order and aggregates the outcome against the suite threshold.
func (r *Runner) RunSuite(ctx context.Context, name string, params map[string]string) (*SuiteResult, error) {
	suite, ok := r.library.Suite(name)
	if !ok {
		return nil, fmt.Errorf("unknown suite %q (available: %v)", name, r.library.SuiteNames())
	}

	result := &SuiteResult{
		Suite:       suite.Name,
		Description: suite.Description,
		StartTime:   time.Now(),
		Threshold:   suite.Threshold,
	}
	r.reporter.SuiteStarted(suite)
	logging.Info("harness", "running suite %s (%d scenarios)", suite.Name, len(suite.Scenarios))

	for _, scenarioName := range suite.Scenarios {
		scenario, ok := r.library.Scenario(scenarioName)
		if !ok {
			// Validation makes this unreachable for loaded suites, but a
			// programmatically built suite can still get here.
			result.Scenarios = append(result.Scenarios, ScenarioResult{
				Name:   scenarioName,
				Suite:  suite.Name,
				Status: StatusFailed,
				Error:  "scenario not found",
			})
			continue
		}
		scenarioResult := r.runScenario(ctx, scenario, params)
		scenarioResult.Suite = suite.Name
		result.Scenarios = append(result.Scenarios, *scenarioResult)
	}

	result.Total = len(result.Scenarios)
	for _, s := range result.Scenarios {
		switch s.Status {
		case StatusPassed:
			result.Passed++
		case StatusSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}
	attempted := result.Total - result.Skipped
	if attempted > 0 {
		result.SuccessRate = float64(result.Passed) / float64(attempted)
	} else {
		result.SuccessRate = 1
	}
	if result.SuccessRate >= suite.Threshold {
		result.Status = StatusPassed
	} else {
		result.Status = StatusFailed
	}
	result.Duration = time.Since(result.StartTime)

	r.reporter.SuiteCompleted(result)
	logging.Info("harness", "suite %s finished: %s (%.0f%% passed, threshold %.0f%%)",
		suite.Name, result.Status, result.SuccessRate*100, suite.Threshold*100)
	return result, nil
}
