package agent

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	quickAuth := mcp.NewPrompt("quick_auth_test",
		mcp.WithPromptDescription("Verify the configured credentials against the platform"),
	)
	s.mcpServer.AddPrompt(quickAuth, s.handleQuickAuthPrompt)

	uatProtocol := mcp.NewPrompt("end_to_end_uat_protocol",
		mcp.WithPromptDescription("Step-by-step protocol for a full acceptance pass"),
		mcp.WithArgument("user_name",
			mcp.ArgumentDescription("Platform username owning the test project"),
		),
	)
	s.mcpServer.AddPrompt(uatProtocol, s.handleUATProtocolPrompt)
}

func (s *Server) handleQuickAuthPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text := "Run the authentication-check scenario with the run_scenario tool. " +
		"If it passes, the API key is valid and the deployment is reachable. " +
		"If any step warns, inspect the guidance field before proceeding."
	return mcp.NewGetPromptResult(
		"Quick credential verification",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

func (s *Server) handleUATProtocolPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	userName := request.Params.Arguments["user_name"]
	if userName == "" {
		userName = "<your-username>"
	}

	text := fmt.Sprintf(`Full acceptance protocol:

1. Verify credentials: run_scenario with scenario=authentication-check.
2. Run the user suite: run_suite with suite=user and user_name=%[1]s.
3. Run the admin suite: run_suite with suite=admin and user_name=%[1]s.
   Expect warnings on restricted deployments; only failures count.
4. Optionally fire performance_test_workspaces and stress_test_api for
   capacity signals.
5. Fetch the aggregate with get_results, then remove leftovers with
   cleanup_test_resources.

Interpret results by status: FAILED needs investigation, WARNING means
an optional or permission-gated feature, SKIPPED means a prerequisite
step did not produce the data the step needed.`, userName)

	return mcp.NewGetPromptResult(
		"End-to-end acceptance protocol",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}
