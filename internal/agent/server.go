// Package agent exposes the acceptance harness as an MCP tool server
// over stdio. Every tool returns its outcome as JSON text; hard
// failures inside a scenario are data in that JSON, not protocol
// errors. Logging goes to stderr because stdout carries the protocol
// stream.
package agent

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"uatharness/internal/config"
	"uatharness/internal/harness"
	"uatharness/internal/platform"
)

const serverName = "uat-harness"

// Server wraps the harness runner and exposes it via MCP.
type Server struct {
	mcpServer *server.MCPServer
	deps      *harness.Deps
	runner    *harness.Runner
	reporter  *harness.StructuredReporter
}

// NewServer assembles the MCP server. scenarioDir optionally points at
// a directory of scenario overrides merged over the embedded set.
func NewServer(cfg *config.Config, scenarioDir, version string) (*Server, error) {
	mcpServer := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(true),
	)

	registry := harness.BuiltinRegistry()
	library, err := harness.LoadLibrary(registry, scenarioDir)
	if err != nil {
		return nil, err
	}

	deps := &harness.Deps{
		Client: platform.NewClient(cfg),
		Config: cfg,
	}
	reporter := harness.NewStructuredReporter()

	s := &Server{
		mcpServer: mcpServer,
		deps:      deps,
		runner:    harness.NewRunner(deps, registry, library, reporter),
		reporter:  reporter,
	}
	s.registerTools()
	s.registerPrompts()
	return s, nil
}

// Start serves MCP over stdio until the stream closes.
func (s *Server) Start(ctx context.Context) error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	runScenarioTool := mcp.NewTool("run_scenario",
		mcp.WithDescription("Execute a single UAT scenario by name"),
		mcp.WithString("scenario",
			mcp.Required(),
			mcp.Description("Scenario name, see list_scenarios"),
		),
		mcp.WithString("user_name",
			mcp.Description("Platform username owning the test project"),
		),
		mcp.WithString("project_name",
			mcp.Description("Test project name (default uat-harness)"),
		),
		mcp.WithString("hardware_tier",
			mcp.Description("Hardware tier name or shorthand (small, medium, large)"),
		),
	)
	s.mcpServer.AddTool(runScenarioTool, s.handleRunScenario)

	runSuiteTool := mcp.NewTool("run_suite",
		mcp.WithDescription("Execute a named UAT suite (user, admin, or master)"),
		mcp.WithString("suite",
			mcp.Required(),
			mcp.Description("Suite name"),
		),
		mcp.WithString("user_name",
			mcp.Description("Platform username owning the test project"),
		),
		mcp.WithString("project_name",
			mcp.Description("Test project name (default uat-harness)"),
		),
	)
	s.mcpServer.AddTool(runSuiteTool, s.handleRunSuite)

	masterSuiteTool := mcp.NewTool("run_master_suite",
		mcp.WithDescription("Execute the full acceptance pass covering user and admin surfaces"),
		mcp.WithString("user_name",
			mcp.Description("Platform username owning the test project"),
		),
		mcp.WithString("project_name",
			mcp.Description("Test project name (default uat-harness)"),
		),
		mcp.WithBoolean("include_performance",
			mcp.Description("Also run the performance pass (workspaces, uploads, API reads)"),
		),
	)
	s.mcpServer.AddTool(masterSuiteTool, s.handleRunMasterSuite)

	listScenariosTool := mcp.NewTool("list_scenarios",
		mcp.WithDescription("List available scenarios and suites"),
	)
	s.mcpServer.AddTool(listScenariosTool, s.handleListScenarios)

	getResultsTool := mcp.NewTool("get_results",
		mcp.WithDescription("Return results retained from earlier runs in this session"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of recent scenario results to include"),
		),
	)
	s.mcpServer.AddTool(getResultsTool, s.handleGetResults)

	runJobTool := mcp.NewTool("run_job",
		mcp.WithDescription("Start a job in a project, optionally waiting for completion"),
		mcp.WithString("user_name",
			mcp.Required(),
			mcp.Description("Project owner username"),
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Project name"),
		),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Command to run, e.g. main.py"),
		),
		mcp.WithString("hardware_tier",
			mcp.Description("Hardware tier name or shorthand"),
		),
		mcp.WithBoolean("wait",
			mcp.Description("Wait for the job to reach a terminal state"),
		),
		mcp.WithString("timeout",
			mcp.Description("Wait timeout as a duration string (default 10m)"),
		),
	)
	s.mcpServer.AddTool(runJobTool, s.handleRunJob)

	jobStatusTool := mcp.NewTool("check_job_status",
		mcp.WithDescription("Fetch the status of a job"),
		mcp.WithString("user_name", mcp.Required(), mcp.Description("Project owner username")),
		mcp.WithString("project_name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Job identifier")),
	)
	s.mcpServer.AddTool(jobStatusTool, s.handleJobStatus)

	jobLogsTool := mcp.NewTool("get_job_logs",
		mcp.WithDescription("Fetch the stdout logs of a job"),
		mcp.WithString("user_name", mcp.Required(), mcp.Description("Project owner username")),
		mcp.WithString("project_name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Job identifier")),
	)
	s.mcpServer.AddTool(jobLogsTool, s.handleJobLogs)

	cleanupTool := mcp.NewTool("cleanup_test_resources",
		mcp.WithDescription("Delete leftover prefix-matched test projects, workspaces, and datasets"),
		mcp.WithString("user_name", mcp.Required(), mcp.Description("Owner whose test resources to remove")),
		mcp.WithString("project_name",
			mcp.Description("Project whose workspaces and datasets to clean (optional)"),
		),
		mcp.WithString("project_prefix",
			mcp.Description("Delete the owner's projects with this name prefix (default uat-)"),
		),
		mcp.WithString("dataset_prefix",
			mcp.Description("Dataset name prefix to match (default uat-)"),
		),
	)
	s.mcpServer.AddTool(cleanupTool, s.handleCleanup)

	perfWorkspacesTool := mcp.NewTool("performance_test_workspaces",
		mcp.WithDescription("Create workspaces concurrently and report latency statistics"),
		mcp.WithString("user_name", mcp.Required(), mcp.Description("Project owner username")),
		mcp.WithString("project_name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithNumber("count",
			mcp.Description("Number of workspaces to create (default 5)"),
		),
		mcp.WithNumber("concurrency",
			mcp.Description("Concurrent creations (default 5)"),
		),
		mcp.WithString("hardware_tier",
			mcp.Description("Hardware tier name or shorthand"),
		),
	)
	s.mcpServer.AddTool(perfWorkspacesTool, s.handlePerfWorkspaces)

	perfJobsTool := mcp.NewTool("performance_test_jobs",
		mcp.WithDescription("Start jobs concurrently and report latency statistics"),
		mcp.WithString("user_name", mcp.Required(), mcp.Description("Project owner username")),
		mcp.WithString("project_name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("command",
			mcp.Description("Command each job runs (default main.py)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of jobs to start (default 5)"),
		),
		mcp.WithNumber("concurrency",
			mcp.Description("Concurrent starts (default 5)"),
		),
	)
	s.mcpServer.AddTool(perfJobsTool, s.handlePerfJobs)

	perfUploadsTool := mcp.NewTool("performance_test_upload_throughput",
		mcp.WithDescription("Upload generated files concurrently and report throughput"),
		mcp.WithString("user_name", mcp.Required(), mcp.Description("Project owner username")),
		mcp.WithString("project_name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithNumber("file_size_mb",
			mcp.Description("Size of each uploaded file in MB (default 10)"),
		),
		mcp.WithNumber("file_count",
			mcp.Description("Number of files to upload (default 5)"),
		),
		mcp.WithNumber("concurrency",
			mcp.Description("Concurrent uploads (default 5)"),
		),
	)
	s.mcpServer.AddTool(perfUploadsTool, s.handlePerfUploads)

	stressTool := mcp.NewTool("stress_test_api",
		mcp.WithDescription("Hammer cheap read endpoints for a fixed duration"),
		mcp.WithNumber("concurrency",
			mcp.Description("Concurrent workers (default 5)"),
		),
		mcp.WithString("duration",
			mcp.Description("Test duration as a duration string (default 30s)"),
		),
	)
	s.mcpServer.AddTool(stressTool, s.handleStressAPI)

	resolveTierTool := mcp.NewTool("resolve_hardware_tier",
		mcp.WithDescription("Resolve a tier name or shorthand against the deployment's tier list"),
		mcp.WithString("tier",
			mcp.Required(),
			mcp.Description("Tier id, name, substring, or shorthand (small, medium, large)"),
		),
	)
	s.mcpServer.AddTool(resolveTierTool, s.handleResolveTier)

	// One shortcut tool per loaded scenario, so agents can discover the
	// individual checks without going through run_scenario.
	for _, name := range s.runner.Library().ScenarioNames() {
		scenario, _ := s.runner.Library().Scenario(name)
		description := scenario.Description
		if description == "" {
			description = "Execute the " + name + " scenario"
		}
		tool := mcp.NewTool("test_"+strings.ReplaceAll(name, "-", "_"),
			mcp.WithDescription(description),
			mcp.WithString("user_name",
				mcp.Description("Platform username owning the test project"),
			),
			mcp.WithString("project_name",
				mcp.Description("Test project name (default uat-harness)"),
			),
			mcp.WithString("hardware_tier",
				mcp.Description("Hardware tier name or shorthand (small, medium, large)"),
			),
		)
		s.mcpServer.AddTool(tool, s.scenarioHandler(name))
	}
}
