package main

import (
	"github.com/spf13/cobra"

	tzlog "github.com/test-zeus-ai/testzeus-mcp-server/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for testzeus-mcp.
var rootCmd = &cobra.Command{
	Use:   "testzeus-mcp",
	Short: "MCP server for the TestZeus test management platform",
	Long: `testzeus-mcp bridges AI agents to TestZeus, the agentic test management
platform. It speaks the Model Context Protocol over stdio, exposing tests,
test runs, environments, tags, and test data as conversational tools and
browsable resources backed by the TestZeus REST API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		tzlog.Setup(verbose, quiet)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}
