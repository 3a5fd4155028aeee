package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("root --help failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Model Context Protocol") {
		t.Errorf("root help missing description, got:\n%s", out)
	}
	for _, sub := range []string{"serve", "doctor", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("root help missing %s subcommand, got:\n%s", sub, out)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "quiet", "no-color"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("global flag --%s not registered", name)
		}
	}

	// Verify shorthand aliases.
	v := rootCmd.PersistentFlags().ShorthandLookup("v")
	if v == nil || v.Name != "verbose" {
		t.Error("-v shorthand not registered for --verbose")
	}
	q := rootCmd.PersistentFlags().ShorthandLookup("q")
	if q == nil || q.Name != "quiet" {
		t.Error("-q shorthand not registered for --quiet")
	}
}

func TestVersionDefault(t *testing.T) {
	if Version != "dev" {
		t.Errorf("default Version = %q, want %q", Version, "dev")
	}
}

func TestExitCodeError(t *testing.T) {
	err := exitError(ExitAuthFailure, "")
	if err.ExitCode() != ExitAuthFailure {
		t.Errorf("ExitCode() = %d, want %d", err.ExitCode(), ExitAuthFailure)
	}
	if !strings.Contains(err.Error(), "authentication failed") {
		t.Errorf("default message = %q, want authentication failure text", err.Error())
	}

	err = exitError(ExitInvalidArgs, "bad flag %q", "--nope")
	if err.Error() != `bad flag "--nope"` {
		t.Errorf("formatted message = %q", err.Error())
	}
}
