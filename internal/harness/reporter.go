package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Reporter receives execution events as scenarios and suites run.
type Reporter interface {
	SuiteStarted(suite *Suite)
	ScenarioStarted(scenario *Scenario)
	OperationCompleted(op OperationResult)
	ScenarioCompleted(result *ScenarioResult)
	SuiteCompleted(result *SuiteResult)
}

// ConsoleReporter prints progress and a summary table to a writer. Used
// by the CLI; never used in MCP mode, where stdout belongs to the
// protocol stream.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to out.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

func (r *ConsoleReporter) SuiteStarted(suite *Suite) {
	fmt.Fprintf(r.out, "\n=== Suite: %s (%d scenarios, threshold %.0f%%) ===\n",
		suite.Name, len(suite.Scenarios), suite.Threshold*100)
}

func (r *ConsoleReporter) ScenarioStarted(scenario *Scenario) {
	fmt.Fprintf(r.out, "\n--- %s ---\n", scenario.Name)
}

func (r *ConsoleReporter) OperationCompleted(op OperationResult) {
	marker := statusMarker(op.Status)
	fmt.Fprintf(r.out, "  %s %s (%s)\n", marker, op.Description, op.Duration.Round(time.Millisecond))
	if op.Error != "" {
		fmt.Fprintf(r.out, "      %s\n", op.Error)
	}
	if op.Guidance != "" {
		fmt.Fprintf(r.out, "      hint: %s\n", op.Guidance)
	}
}

func (r *ConsoleReporter) ScenarioCompleted(result *ScenarioResult) {
	passed, warned, failed, skipped := result.OperationCounts()
	fmt.Fprintf(r.out, "  => %s: %d passed, %d warnings, %d failed, %d skipped\n",
		result.Status, passed, warned, failed, skipped)
}

func (r *ConsoleReporter) SuiteCompleted(result *SuiteResult) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Scenario", "Status", "Ops", "Duration"})
	for _, s := range result.Scenarios {
		t.AppendRow(table.Row{s.Name, coloredStatus(s.Status), len(s.Operations), s.Duration.Round(time.Millisecond)})
	}
	t.AppendFooter(table.Row{
		"",
		coloredStatus(result.Status),
		fmt.Sprintf("%d/%d passed", result.Passed, result.Total),
		result.Duration.Round(time.Millisecond),
	})
	fmt.Fprintln(r.out)
	t.Render()
	fmt.Fprintf(r.out, "Success rate %.0f%% against threshold %.0f%%\n",
		result.SuccessRate*100, result.Threshold*100)
}

func statusMarker(status Status) string {
	switch status {
	case StatusPassed:
		return "✓"
	case StatusWarning:
		return "!"
	case StatusSkipped:
		return "-"
	default:
		return "✗"
	}
}

func coloredStatus(status Status) string {
	switch status {
	case StatusPassed:
		return text.FgGreen.Sprint(status)
	case StatusWarning:
		return text.FgYellow.Sprint(status)
	case StatusSkipped:
		return text.FgHiBlack.Sprint(status)
	default:
		return text.FgRed.Sprint(status)
	}
}

// StructuredReporter retains results in memory so the MCP agent can
// serve them from a later tool call. Safe for concurrent use.
type StructuredReporter struct {
	mu        sync.Mutex
	scenarios []ScenarioResult
	lastSuite *SuiteResult
}

// NewStructuredReporter creates an empty structured reporter.
func NewStructuredReporter() *StructuredReporter {
	return &StructuredReporter{}
}

func (r *StructuredReporter) SuiteStarted(suite *Suite) {}

func (r *StructuredReporter) ScenarioStarted(scenario *Scenario) {}

func (r *StructuredReporter) OperationCompleted(op OperationResult) {}

func (r *StructuredReporter) ScenarioCompleted(result *ScenarioResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarios = append(r.scenarios, *result)
}

func (r *StructuredReporter) SuiteCompleted(result *SuiteResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSuite = result
}

// LastSuite returns the most recent suite result, or nil.
func (r *StructuredReporter) LastSuite() *SuiteResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSuite
}

// RecentScenarios returns up to limit most recent scenario results,
// newest last.
func (r *StructuredReporter) RecentScenarios(limit int) []ScenarioResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.scenarios) {
		limit = len(r.scenarios)
	}
	out := make([]ScenarioResult, limit)
	copy(out, r.scenarios[len(r.scenarios)-limit:])
	return out
}

// ResultsJSON renders the retained results as indented JSON.
func (r *StructuredReporter) ResultsJSON() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload := map[string]interface{}{
		"scenarios": r.scenarios,
	}
	if r.lastSuite != nil {
		payload["last_suite"] = r.lastSuite
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
