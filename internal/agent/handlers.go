package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"uatharness/internal/harness"
	"uatharness/internal/perf"
	"uatharness/internal/platform"
)

// jsonResult renders v as an indented JSON tool result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func scenarioParams(args map[string]interface{}) map[string]string {
	params := make(map[string]string)
	for _, key := range []string{"user_name", "project_name", "hardware_tier"} {
		if v, ok := args[key].(string); ok && v != "" {
			params[key] = v
		}
	}
	return params
}

func (s *Server) handleRunScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, ok := args["scenario"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("scenario is required"), nil
	}

	result, err := s.runner.RunScenario(ctx, name, scenarioParams(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

// scenarioHandler binds a tool to one fixed scenario name.
func (s *Server) scenarioHandler(name string) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.runner.RunScenario(ctx, name, scenarioParams(request.GetArguments()))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(result)
	}
}

func (s *Server) handleRunSuite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, ok := args["suite"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("suite is required"), nil
	}

	result, err := s.runner.RunSuite(ctx, name, scenarioParams(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Server) handleRunMasterSuite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	result, err := s.runner.RunSuite(ctx, "master", scenarioParams(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	include, _ := args["include_performance"].(bool)
	if !include {
		return jsonResult(result)
	}

	payload := map[string]interface{}{"suite": result}
	owner, _ := args["user_name"].(string)
	projectName, _ := args["project_name"].(string)
	if owner == "" || projectName == "" {
		payload["performance"] = "skipped: user_name and project_name are required for the performance pass"
		return jsonResult(payload)
	}

	cfg := perf.LoadConfig{Requests: 3, Concurrency: 3}
	performance := map[string]interface{}{}
	if project, err := s.deps.Client.GetProject(ctx, owner, projectName); err != nil {
		performance["workspaces_error"] = err.Error()
	} else {
		performance["workspaces"] = perf.WorkspaceStorm(ctx, s.deps.Client, project.ID, "", cfg)
	}
	performance["uploads"] = perf.UploadThroughput(ctx, s.deps.Client, owner, projectName, 1, cfg)
	performance["api"] = perf.APIStress(ctx, s.deps.Client, perf.LoadConfig{Concurrency: 3, Duration: 10 * time.Second})
	payload["performance"] = performance
	return jsonResult(payload)
}

func (s *Server) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	library := s.runner.Library()

	type scenarioInfo struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Steps       int    `json:"steps"`
	}
	type suiteInfo struct {
		Name        string   `json:"name"`
		Description string   `json:"description,omitempty"`
		Threshold   float64  `json:"threshold"`
		Scenarios   []string `json:"scenarios"`
	}

	var scenarios []scenarioInfo
	for _, name := range library.ScenarioNames() {
		scenario, _ := library.Scenario(name)
		scenarios = append(scenarios, scenarioInfo{
			Name:        scenario.Name,
			Description: scenario.Description,
			Steps:       len(scenario.Steps),
		})
	}
	var suites []suiteInfo
	for _, name := range library.SuiteNames() {
		suite, _ := library.Suite(name)
		suites = append(suites, suiteInfo{
			Name:        suite.Name,
			Description: suite.Description,
			Threshold:   suite.Threshold,
			Scenarios:   suite.Scenarios,
		})
	}

	return jsonResult(map[string]interface{}{
		"scenarios": scenarios,
		"suites":    suites,
	})
}

func (s *Server) handleGetResults(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	limit := 20
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}

	payload := map[string]interface{}{
		"scenarios": s.reporter.RecentScenarios(limit),
	}
	if suite := s.reporter.LastSuite(); suite != nil {
		payload["last_suite"] = suite
	}
	return jsonResult(payload)
}

func (s *Server) handleRunJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	owner, project, errResult := requireProject(args)
	if errResult != nil {
		return errResult, nil
	}
	command, _ := args["command"].(string)
	if command == "" {
		return mcp.NewToolResultError("command is required"), nil
	}

	req := platform.StartRunRequest{
		Command: strings.Fields(command),
		Title:   "UAT harness job",
	}
	if tier, ok := args["hardware_tier"].(string); ok && tier != "" {
		tiers, err := s.deps.Client.ListHardwareTiers(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve hardware tier: %v", err)), nil
		}
		req.HardwareTierID = platform.ResolveHardwareTier(tier, tiers)
	}

	run, err := s.deps.Client.StartRun(ctx, owner, project, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start job: %v", err)), nil
	}

	wait, _ := args["wait"].(bool)
	if !wait {
		return jsonResult(run)
	}

	timeout := 10 * time.Minute
	if v, ok := args["timeout"].(string); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	var last *platform.Run
	poll := harness.Poll(ctx, harness.PollConfig{Interval: 10 * time.Second, Timeout: timeout},
		func(ctx context.Context) (bool, error) {
			status, err := s.deps.Client.RunStatus(ctx, owner, project, run.ID)
			if err != nil {
				return false, err
			}
			last = status
			return platform.RunTerminal(status.Status), nil
		})

	return jsonResult(map[string]interface{}{
		"run":        last,
		"finished":   poll.Satisfied,
		"waited":     poll.Elapsed.String(),
		"checks":     poll.Attempts,
		"last_error": errString(poll.LastErr),
	})
}

func (s *Server) handleJobStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	owner, project, errResult := requireProject(args)
	if errResult != nil {
		return errResult, nil
	}
	runID, _ := args["run_id"].(string)
	if runID == "" {
		return mcp.NewToolResultError("run_id is required"), nil
	}

	run, err := s.deps.Client.RunStatus(ctx, owner, project, runID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch job status: %v", err)), nil
	}
	return jsonResult(run)
}

func (s *Server) handleJobLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	owner, project, errResult := requireProject(args)
	if errResult != nil {
		return errResult, nil
	}
	runID, _ := args["run_id"].(string)
	if runID == "" {
		return mcp.NewToolResultError("run_id is required"), nil
	}

	logs, err := s.deps.Client.RunLogs(ctx, owner, project, runID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch job logs: %v", err)), nil
	}
	return jsonResult(logs)
}

// handleCleanup removes harness-created leftovers. Projects owned by
// the user and matching project_prefix are deleted outright; when
// project_name is given, prefix-matched workspaces and datasets inside
// it are deleted too. Only prefix-matched resources are touched.
func (s *Server) handleCleanup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	owner, _ := args["user_name"].(string)
	if owner == "" {
		return mcp.NewToolResultError("user_name is required"), nil
	}
	projectName, _ := args["project_name"].(string)
	projectPrefix := stringArgDefault(args, "project_prefix", "uat-")
	datasetPrefix := stringArgDefault(args, "dataset_prefix", "uat-")

	summary := map[string]interface{}{}
	var failures []string

	projects, err := s.deps.Client.ListProjects(ctx)
	if err != nil {
		failures = append(failures, fmt.Sprintf("list projects: %v", err))
	}
	deletedProjects := 0
	for _, p := range projects {
		if p.Owner != owner || p.Name == projectName || !harnessResource(p.Name, projectPrefix) {
			continue
		}
		err := harness.CleanupWithRetry(ctx, "delete project "+p.Name, func(ctx context.Context) error {
			return s.deps.Client.DeleteProject(ctx, p.ID)
		})
		if err != nil {
			failures = append(failures, fmt.Sprintf("project %s: %v", p.Name, err))
			continue
		}
		deletedProjects++
	}
	summary["deleted_projects"] = deletedProjects

	if projectName != "" {
		project, err := s.deps.Client.GetProject(ctx, owner, projectName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to look up project: %v", err)), nil
		}

		workspaces, err := s.deps.Client.ListWorkspaces(ctx, project.ID)
		if err != nil {
			failures = append(failures, fmt.Sprintf("list workspaces: %v", err))
		}
		deletedWorkspaces := 0
		for _, ws := range workspaces {
			if !harnessResource(ws.Name, projectPrefix) {
				continue
			}
			err := harness.CleanupWithRetry(ctx, "delete workspace "+ws.Name, func(ctx context.Context) error {
				return s.deps.Client.DeleteWorkspace(ctx, ws.ID)
			})
			if err != nil {
				failures = append(failures, fmt.Sprintf("workspace %s: %v", ws.Name, err))
				continue
			}
			deletedWorkspaces++
		}
		summary["deleted_workspaces"] = deletedWorkspaces

		datasets, err := s.deps.Client.ListDatasets(ctx, project.ID)
		if err != nil {
			failures = append(failures, fmt.Sprintf("list datasets: %v", err))
		}
		deletedDatasets := 0
		for _, ds := range datasets {
			if !harnessResource(ds.Name, datasetPrefix) {
				continue
			}
			err := harness.CleanupWithRetry(ctx, "delete dataset "+ds.Name, func(ctx context.Context) error {
				return s.deps.Client.DeleteDataset(ctx, ds.ID)
			})
			if err != nil {
				failures = append(failures, fmt.Sprintf("dataset %s: %v", ds.Name, err))
				continue
			}
			deletedDatasets++
		}
		summary["deleted_datasets"] = deletedDatasets
	}

	if len(failures) > 0 {
		summary["failures"] = failures
	}
	return jsonResult(summary)
}

// harnessResource reports whether name matches the requested cleanup
// prefix or the perf- prefix the load builtins stamp on everything.
func harnessResource(name, prefix string) bool {
	return strings.HasPrefix(name, prefix) || strings.HasPrefix(name, "perf-")
}

func stringArgDefault(args map[string]interface{}, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func (s *Server) handlePerfWorkspaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	owner, projectName, errResult := requireProject(args)
	if errResult != nil {
		return errResult, nil
	}

	project, err := s.deps.Client.GetProject(ctx, owner, projectName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to look up project: %v", err)), nil
	}

	cfg := perf.LoadConfig{
		Requests:    numberArg(args, "count", 5),
		Concurrency: numberArg(args, "concurrency", 5),
	}
	tier, _ := args["hardware_tier"].(string)

	result := perf.WorkspaceStorm(ctx, s.deps.Client, project.ID, tier, cfg)
	return jsonResult(result)
}

func (s *Server) handlePerfJobs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	owner, projectName, errResult := requireProject(args)
	if errResult != nil {
		return errResult, nil
	}

	command, _ := args["command"].(string)
	if command == "" {
		command = "main.py"
	}
	cfg := perf.LoadConfig{
		Requests:    numberArg(args, "count", 5),
		Concurrency: numberArg(args, "concurrency", 5),
	}

	result := perf.JobBurst(ctx, s.deps.Client, owner, projectName, command, "", cfg)
	return jsonResult(result)
}

func (s *Server) handlePerfUploads(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	owner, projectName, errResult := requireProject(args)
	if errResult != nil {
		return errResult, nil
	}

	sizeMB := numberArg(args, "file_size_mb", 10)
	cfg := perf.LoadConfig{
		Requests:    numberArg(args, "file_count", 5),
		Concurrency: numberArg(args, "concurrency", 5),
	}

	result := perf.UploadThroughput(ctx, s.deps.Client, owner, projectName, sizeMB, cfg)
	return jsonResult(map[string]interface{}{
		"result":        result,
		"file_size_mb":  sizeMB,
		"mb_per_second": result.Throughput * float64(sizeMB),
	})
}

func (s *Server) handleStressAPI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	cfg := perf.LoadConfig{
		Concurrency: numberArg(args, "concurrency", 5),
		Duration:    30 * time.Second,
	}
	if v, ok := args["duration"].(string); ok && v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid duration %q", v)), nil
		}
		cfg.Duration = parsed
	}

	result := perf.APIStress(ctx, s.deps.Client, cfg)
	return jsonResult(result)
}

func (s *Server) handleResolveTier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	tier, _ := args["tier"].(string)
	if tier == "" {
		return mcp.NewToolResultError("tier is required"), nil
	}

	tiers, err := s.deps.Client.ListHardwareTiers(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list hardware tiers: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"requested": tier,
		"resolved":  platform.ResolveHardwareTier(tier, tiers),
		"available": tiers,
	})
}

func requireProject(args map[string]interface{}) (owner, project string, errResult *mcp.CallToolResult) {
	owner, _ = args["user_name"].(string)
	project, _ = args["project_name"].(string)
	if owner == "" {
		return "", "", mcp.NewToolResultError("user_name is required")
	}
	if project == "" {
		return "", "", mcp.NewToolResultError("project_name is required")
	}
	return owner, project, nil
}

func numberArg(args map[string]interface{}, key string, fallback int) int {
	if v, ok := args[key].(float64); ok && v > 0 {
		return int(v)
	}
	return fallback
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
