package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"uatharness/internal/harness"
)

var listScenarioDir string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scenarios and suites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := harness.BuiltinRegistry()
		library, err := harness.LoadLibrary(registry, listScenarioDir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Scenarios:")
		for _, name := range library.ScenarioNames() {
			scenario, _ := library.Scenario(name)
			fmt.Fprintf(out, "  %-28s %s\n", name, scenario.Description)
		}
		fmt.Fprintln(out, "\nSuites:")
		for _, name := range library.SuiteNames() {
			suite, _ := library.Suite(name)
			fmt.Fprintf(out, "  %-28s %d scenarios, threshold %.0f%%\n",
				name, len(suite.Scenarios), suite.Threshold*100)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listScenarioDir, "scenario-dir", "", "Directory of scenario YAML overrides")
	rootCmd.AddCommand(listCmd)
}
