// Copyright 2026 The TestZeus Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/test-zeus-ai/testzeus-mcp-server/internal/config"
	"github.com/test-zeus-ai/testzeus-mcp-server/internal/testzeus"
)

// doctorAuthTimeout bounds the connectivity probe.
const doctorAuthTimeout = 15 * time.Second

// doctorCmd checks local configuration and TestZeus connectivity.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and TestZeus connectivity",
	Long: `Verify that testzeus-mcp is ready to serve: loads the configuration,
reports which settings are in effect, and if credentials are present,
authenticates against the TestZeus API.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if noColor {
			color.NoColor = true
		}
		return runDoctor(cmd.Context(), cmd)
	},
}

func runDoctor(ctx context.Context, cmd *cobra.Command) error {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Sprint("testzeus-mcp doctor"))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "  %s config: %v\n", red.Sprint("✗"), err)
		return exitError(ExitInvalidArgs, "")
	}
	fmt.Fprintf(out, "  %s config loaded\n", green.Sprint("✓"))

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = testzeus.DefaultBaseURL
	}
	fmt.Fprintf(out, "  %s base URL: %s\n", green.Sprint("✓"), baseURL)

	if !cfg.HasCredentials() {
		fmt.Fprintf(out, "  %s no credentials: set %s and %s, or use the authenticate tool\n",
			yellow.Sprint("!"), config.EnvEmail, config.EnvPassword)
		return nil
	}
	fmt.Fprintf(out, "  %s credentials present for %s\n", green.Sprint("✓"), cfg.Email)

	opts := []testzeus.Option{testzeus.WithBaseURL(baseURL)}
	if cfg.Timeout > 0 {
		opts = append(opts, testzeus.WithTimeout(cfg.Timeout))
	}
	client := testzeus.NewClient(cfg.Email, cfg.Password, opts...)

	authCtx, cancel := context.WithTimeout(ctx, doctorAuthTimeout)
	defer cancel()
	if err := client.EnsureAuthenticated(authCtx); err != nil {
		fmt.Fprintf(out, "  %s authentication: %v\n", red.Sprint("✗"), err)
		return exitError(ExitAuthFailure, "")
	}
	fmt.Fprintf(out, "  %s authenticated against %s\n", green.Sprint("✓"), baseURL)
	return nil
}
