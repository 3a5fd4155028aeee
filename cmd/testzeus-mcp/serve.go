// Copyright 2026 The TestZeus Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/test-zeus-ai/testzeus-mcp-server/internal/config"
	"github.com/test-zeus-ai/testzeus-mcp-server/internal/mcpserver"
)

// serveCmd runs the MCP server over stdio.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing the TestZeus platform:
  - tests:        list, inspect, create, update, delete, and run tests
  - test runs:    list, inspect, and create execution records
  - environments: list, inspect, and create execution environments
  - tags:         list organizational tags
  - test data:    list, inspect, and create test data records

Credentials are read from TESTZEUS_EMAIL and TESTZEUS_PASSWORD. When they
are absent the server still starts; agents authenticate with the
authenticate tool instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return mcpserver.Run(cmd.Context(), Version, cfg, &mcp.StdioTransport{})
	},
}
