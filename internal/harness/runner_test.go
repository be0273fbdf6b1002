package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uatharness/internal/config"
	"uatharness/internal/platform"
)

func testDeps() *Deps {
	return &Deps{
		Config: &config.Config{RestrictedPolicy: config.RestrictedWarn},
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	r.Register("test.ok", func(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
		return map[string]interface{}{"id": "res-1", "echo": args["value"]}, nil
	})
	r.Register("test.fail", func(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
		return nil, errors.New("boom")
	})
	r.Register("test.restricted", func(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
		return nil, &platform.APIError{StatusCode: 403, Method: "GET", Path: "/v4/admin"}
	})
	return r
}

func newTestRunner(t *testing.T, scenarios []*Scenario, suites []*Suite) *Runner {
	t.Helper()
	return NewRunner(testDeps(), testRegistry(t), NewLibrary(scenarios, suites), NewStructuredReporter())
}

func TestRunScenarioContinuesPastFailures(t *testing.T) {
	scenario := &Scenario{
		Name: "three-ops",
		Steps: []Step{
			{ID: "first", Operation: "test.ok"},
			{ID: "second", Operation: "test.fail"},
			{ID: "third", Operation: "test.ok"},
		},
	}
	runner := newTestRunner(t, []*Scenario{scenario}, nil)

	result, err := runner.RunScenario(context.Background(), "three-ops", nil)

	require.NoError(t, err)
	require.Len(t, result.Operations, 3, "a failed operation must not stop the scenario")
	assert.Equal(t, StatusPassed, result.Operations[0].Status)
	assert.Equal(t, StatusFailed, result.Operations[1].Status)
	assert.Equal(t, StatusPassed, result.Operations[2].Status)
	assert.Equal(t, StatusPassed, result.Status, "non-critical failure does not fail the scenario")
}

func TestRunScenarioCriticalFailure(t *testing.T) {
	scenario := &Scenario{
		Name: "critical",
		Steps: []Step{
			{Operation: "test.ok"},
			{Operation: "test.fail", Critical: true},
		},
	}
	runner := newTestRunner(t, []*Scenario{scenario}, nil)

	result, err := runner.RunScenario(context.Background(), "critical", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, result.Status)
}

func TestRunScenarioCleanupAlwaysRuns(t *testing.T) {
	scenario := &Scenario{
		Name: "with-cleanup",
		Steps: []Step{
			{Operation: "test.fail", Critical: true},
		},
		Cleanup: []Step{
			{ID: "teardown", Operation: "test.ok"},
		},
	}
	runner := newTestRunner(t, []*Scenario{scenario}, nil)

	result, err := runner.RunScenario(context.Background(), "with-cleanup", nil)

	require.NoError(t, err)
	require.Len(t, result.Operations, 2)
	assert.Equal(t, StatusPassed, result.Operations[1].Status, "cleanup runs after the failure")
	assert.Equal(t, StatusFailed, result.Status)
}

func TestRunScenarioStepChaining(t *testing.T) {
	scenario := &Scenario{
		Name:   "chained",
		Params: map[string]string{"value": "hello"},
		Steps: []Step{
			{ID: "first", Operation: "test.ok", Args: map[string]interface{}{"value": "${params.value}"}},
			{ID: "second", Operation: "test.ok", Args: map[string]interface{}{"value": "${steps.first.echo}"}},
		},
	}
	runner := newTestRunner(t, []*Scenario{scenario}, nil)

	result, err := runner.RunScenario(context.Background(), "chained", nil)

	require.NoError(t, err)
	second := result.Operations[1].Result.(map[string]interface{})
	assert.Equal(t, "hello", second["echo"])
}

func TestRunScenarioBrokenReferenceSkipsStep(t *testing.T) {
	scenario := &Scenario{
		Name: "broken-ref",
		Steps: []Step{
			{ID: "first", Operation: "test.fail"},
			{Operation: "test.ok", Args: map[string]interface{}{"value": "${steps.first.id}"}},
		},
	}
	runner := newTestRunner(t, []*Scenario{scenario}, nil)

	result, err := runner.RunScenario(context.Background(), "broken-ref", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, result.Operations[1].Status,
		"a reference to a failed step skips the dependent step")
}

func TestRunScenarioParamsOverrideDefaults(t *testing.T) {
	scenario := &Scenario{
		Name:   "params",
		Params: map[string]string{"value": "default"},
		Steps: []Step{
			{ID: "only", Operation: "test.ok", Args: map[string]interface{}{"value": "${params.value}"}},
		},
	}
	runner := newTestRunner(t, []*Scenario{scenario}, nil)

	result, err := runner.RunScenario(context.Background(), "params", map[string]string{"value": "override"})

	require.NoError(t, err)
	echo := result.Operations[0].Result.(map[string]interface{})["echo"]
	assert.Equal(t, "override", echo)
}

func TestRunScenarioRestrictedWarningDoesNotFail(t *testing.T) {
	scenario := &Scenario{
		Name: "restricted",
		Steps: []Step{
			{Operation: "test.restricted"},
			{Operation: "test.ok"},
		},
	}
	runner := newTestRunner(t, []*Scenario{scenario}, nil)

	result, err := runner.RunScenario(context.Background(), "restricted", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusWarning, result.Operations[0].Status)
	assert.Equal(t, StatusPassed, result.Status)
}

func TestRunScenarioThresholdMode(t *testing.T) {
	scenario := &Scenario{
		Name: "threshold",
		Pass: PassRule{Mode: PassModeThreshold, Threshold: 0.5},
		Steps: []Step{
			{Operation: "test.ok"},
			{Operation: "test.ok"},
			{Operation: "test.fail"},
		},
	}
	runner := newTestRunner(t, []*Scenario{scenario}, nil)

	result, err := runner.RunScenario(context.Background(), "threshold", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusPassed, result.Status, "2 of 3 passed meets a 0.5 threshold")
}

func TestRunScenarioUnknown(t *testing.T) {
	runner := newTestRunner(t, nil, nil)

	_, err := runner.RunScenario(context.Background(), "nope", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestRunSuiteAggregation(t *testing.T) {
	scenarios := []*Scenario{
		{Name: "good", Steps: []Step{{Operation: "test.ok"}}},
		{Name: "bad", Steps: []Step{{Operation: "test.fail", Critical: true}}},
	}
	suites := []*Suite{
		{Name: "mixed", Threshold: 0.5, Scenarios: []string{"good", "bad"}},
		{Name: "strict", Threshold: 0.9, Scenarios: []string{"good", "bad"}},
	}
	runner := newTestRunner(t, scenarios, suites)

	mixed, err := runner.RunSuite(context.Background(), "mixed", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPassed, mixed.Status)
	assert.Equal(t, 2, mixed.Total)
	assert.Equal(t, 1, mixed.Passed)
	assert.Equal(t, 1, mixed.Failed)
	assert.InDelta(t, 0.5, mixed.SuccessRate, 0.001)

	strict, err := runner.RunSuite(context.Background(), "strict", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, strict.Status, "a failed scenario never aborts the suite but counts against it")
	assert.Len(t, strict.Scenarios, 2)
}

func TestRunSuiteUnknown(t *testing.T) {
	runner := newTestRunner(t, nil, nil)

	_, err := runner.RunSuite(context.Background(), "ghost", nil)

	require.Error(t, err)
}

func TestStructuredReporterRetainsResults(t *testing.T) {
	scenarios := []*Scenario{{Name: "good", Steps: []Step{{Operation: "test.ok"}}}}
	suites := []*Suite{{Name: "solo", Threshold: 1, Scenarios: []string{"good"}}}
	reporter := NewStructuredReporter()
	runner := NewRunner(testDeps(), testRegistry(t), NewLibrary(scenarios, suites), reporter)

	_, err := runner.RunSuite(context.Background(), "solo", nil)
	require.NoError(t, err)

	suite := reporter.LastSuite()
	require.NotNil(t, suite)
	assert.Equal(t, "solo", suite.Suite)

	recent := reporter.RecentScenarios(10)
	require.Len(t, recent, 1)
	assert.Equal(t, "good", recent[0].Name)

	payload, err := reporter.ResultsJSON()
	require.NoError(t, err)
	assert.Contains(t, payload, "last_suite")
}
