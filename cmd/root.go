package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the uat-harness application. It only
// carries subcommands; invoking it bare prints help.
var rootCmd = &cobra.Command{
	Use:   "uat-harness",
	Short: "User acceptance test harness for data science platform deployments",
	Long: `uat-harness runs declarative acceptance scenarios against a data
science platform deployment and reports normalized results. It can run
scenarios directly from the command line or serve them as MCP tools to
an AI assistant over stdio.

Configuration comes from the environment:
  PLATFORM_HOST      deployment base URL (legacy: PLATFORM_API_HOST)
  PLATFORM_API_KEY   user API key        (legacy: PLATFORM_USER_API_KEY)`,
	// SilenceUsage prevents Cobra from printing usage on handled errors.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from main
// to inject the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command. Called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "uat-harness version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
