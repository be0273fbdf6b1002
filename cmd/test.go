package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"uatharness/internal/config"
	"uatharness/internal/harness"
	"uatharness/internal/platform"
	"uatharness/pkg/logging"
)

var (
	testSuite       string
	testScenario    string
	testParams      []string
	testScenarioDir string
	testReportPath  string
	testSettings    string
	testDebug       bool
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run acceptance scenarios from the command line",
	Long: `Runs a suite or a single scenario against the configured
deployment and prints a summary table. Use --param to override scenario
parameters, e.g. --param user_name=alice.

Exits non-zero when the suite misses its pass threshold or the scenario
fails.`,
	Args: cobra.NoArgs,
	RunE: runTest,
	Example: `  uat-harness test --suite user --param user_name=alice
  uat-harness test --scenario authentication-check
  uat-harness test --suite master --report results.json`,
}

func runTest(cmd *cobra.Command, args []string) error {
	if (testSuite == "") == (testScenario == "") {
		return fmt.Errorf("exactly one of --suite or --scenario is required")
	}

	level := logging.LevelWarn
	if testDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, cmd.ErrOrStderr())

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	params := make(map[string]string)
	if testSettings != "" {
		defaults, err := config.LoadSettings(testSettings)
		if err != nil {
			return err
		}
		for k, v := range defaults {
			params[k] = v
		}
	}
	overrides, err := parseParams(testParams)
	if err != nil {
		return err
	}
	for k, v := range overrides {
		params[k] = v
	}

	registry := harness.BuiltinRegistry()
	library, err := harness.LoadLibrary(registry, testScenarioDir)
	if err != nil {
		return err
	}
	deps := &harness.Deps{
		Client: platform.NewClient(cfg),
		Config: cfg,
	}
	runner := harness.NewRunner(deps, registry, library, harness.NewConsoleReporter(cmd.OutOrStdout()))

	var report interface{}
	var status harness.Status
	if testSuite != "" {
		result, err := runner.RunSuite(cmd.Context(), testSuite, params)
		if err != nil {
			return err
		}
		report = result
		status = result.Status
	} else {
		result, err := runner.RunScenario(cmd.Context(), testScenario, params)
		if err != nil {
			return err
		}
		report = result
		status = result.Status
	}

	if testReportPath != "" {
		if err := writeReport(testReportPath, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", testReportPath)
	}

	if status == harness.StatusFailed {
		return fmt.Errorf("acceptance run failed")
	}
	return nil
}

func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

func writeReport(path string, report interface{}) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}

func init() {
	testCmd.Flags().StringVar(&testSuite, "suite", "", "Suite to run (user, admin, master)")
	testCmd.Flags().StringVar(&testScenario, "scenario", "", "Single scenario to run")
	testCmd.Flags().StringArrayVar(&testParams, "param", nil, "Scenario parameter override (key=value, repeatable)")
	testCmd.Flags().StringVar(&testScenarioDir, "scenario-dir", "", "Directory of scenario YAML overrides")
	testCmd.Flags().StringVar(&testReportPath, "report", "", "Write the full result as JSON to this file")
	testCmd.Flags().StringVar(&testSettings, "settings", "", `Markdown file with key = "value" parameter defaults`)
	testCmd.Flags().BoolVar(&testDebug, "debug", false, "Enable debug logging on stderr")
	rootCmd.AddCommand(testCmd)
}
