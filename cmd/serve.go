package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"uatharness/internal/agent"
	"uatharness/internal/config"
	"uatharness/pkg/logging"
)

// serveDebug enables verbose logging on stderr. Stdout stays reserved
// for the MCP protocol stream.
var serveDebug bool

// serveScenarioDir optionally points at a directory of scenario YAML
// files merged over the embedded set.
var serveScenarioDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the harness as an MCP tool server over stdio",
	Long: `Starts an MCP server on stdin/stdout exposing the acceptance
scenarios, suites, performance tests, and job helpers as tools.

The process needs PLATFORM_HOST and PLATFORM_API_KEY set; it refuses to
start without them because every tool would fail anyway.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, cmd.ErrOrStderr())

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	server, err := agent.NewServer(cfg, serveScenarioDir, rootCmd.Version)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	logging.Info("serve", "starting MCP server for %s", cfg.Host)
	return server.Start(cmd.Context())
}

func init() {
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging on stderr")
	serveCmd.Flags().StringVar(&serveScenarioDir, "scenario-dir", "", "Directory of scenario YAML overrides")
	rootCmd.AddCommand(serveCmd)
}
