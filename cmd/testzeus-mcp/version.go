package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd prints the testzeus-mcp version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print the version of the testzeus-mcp binary.",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("testzeus-mcp %s\n", Version)
	},
}
