// Copyright 2026 The TestZeus Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Browsable resource URIs. The list resources render one entry per record
// returned by the client, each carrying the URI of its detail resource.

// testEntry is one row in the tests:// listing.
type testEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	TestFeature string `json:"test_feature"`
	URI         string `json:"uri"`
}

// runEntry is one row in the test-runs:// listing.
type runEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Test   string `json:"test"`
	URI    string `json:"uri"`
}

// envEntry is one row in the environments:// listing.
type envEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URI         string `json:"uri"`
}

// registerResources adds the browsable TestZeus resources to the server.
func registerResources(server *mcp.Server, h *Handlers) {
	server.AddResource(&mcp.Resource{
		URI:         "tests://",
		Name:        "tests",
		Description: "All tests in the TestZeus workspace",
		MIMEType:    "application/json",
	}, h.readTestsResource)
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "test://{id}",
		Name:        "test",
		Description: "A single TestZeus test",
		MIMEType:    "application/json",
	}, h.readTestResource)

	server.AddResource(&mcp.Resource{
		URI:         "test-runs://",
		Name:        "test-runs",
		Description: "All test runs in the TestZeus workspace",
		MIMEType:    "application/json",
	}, h.readTestRunsResource)
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "test-run://{id}",
		Name:        "test-run",
		Description: "A single TestZeus test run",
		MIMEType:    "application/json",
	}, h.readTestRunResource)

	server.AddResource(&mcp.Resource{
		URI:         "environments://",
		Name:        "environments",
		Description: "All environments in the TestZeus workspace",
		MIMEType:    "application/json",
	}, h.readEnvironmentsResource)
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "environment://{id}",
		Name:        "environment",
		Description: "A single TestZeus environment",
		MIMEType:    "application/json",
	}, h.readEnvironmentResource)
}

// jsonContents wraps marshalled JSON into a resource read result.
func jsonContents(uri string, v any) (*mcp.ReadResourceResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		}},
	}, nil
}

// errContents renders a failure as plain-text resource content, matching
// the tool handlers' error-in-band behavior.
func errContents(uri, format string, args ...any) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf(format, args...),
		}},
	}
}

// resourceAPI returns the current client, or an error body when no session
// is available.
func (h *Handlers) resourceAPI(ctx context.Context, uri string) (API, *mcp.ReadResourceResult) {
	api := h.current()
	if api == nil {
		return nil, errContents(uri, "%s", notAuthenticatedMsg)
	}
	if err := api.EnsureAuthenticated(ctx); err != nil {
		return nil, errContents(uri, "%s", notAuthenticatedMsg)
	}
	return api, nil
}

// templateID extracts the record id from a template-matched URI such as
// test://abc123.
func templateID(uri, scheme string) string {
	return strings.TrimPrefix(uri, scheme+"://")
}

func (h *Handlers) readTestsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	api, errRes := h.resourceAPI(ctx, uri)
	if errRes != nil {
		return errRes, nil
	}

	tests, err := api.ListAllTests(ctx)
	if err != nil {
		return errContents(uri, "Error listing tests: %v", err), nil
	}

	entries := make([]testEntry, 0, len(tests))
	for _, t := range tests {
		entries = append(entries, testEntry{
			ID:          t.ID,
			Name:        t.Name,
			Status:      t.Status,
			TestFeature: t.TestFeature,
			URI:         "test://" + t.ID,
		})
	}
	return jsonContents(uri, map[string]any{"tests": entries})
}

func (h *Handlers) readTestResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	api, errRes := h.resourceAPI(ctx, uri)
	if errRes != nil {
		return errRes, nil
	}

	test, err := api.GetTest(ctx, templateID(uri, "test"))
	if err != nil {
		return errContents(uri, "Error getting test: %v", err), nil
	}
	return jsonContents(uri, test)
}

func (h *Handlers) readTestRunsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	api, errRes := h.resourceAPI(ctx, uri)
	if errRes != nil {
		return errRes, nil
	}

	runs, err := api.ListAllTestRuns(ctx)
	if err != nil {
		return errContents(uri, "Error listing test runs: %v", err), nil
	}

	entries := make([]runEntry, 0, len(runs))
	for _, r := range runs {
		entries = append(entries, runEntry{
			ID:     r.ID,
			Name:   r.Name,
			Status: r.Status,
			Test:   r.Test,
			URI:    "test-run://" + r.ID,
		})
	}
	return jsonContents(uri, map[string]any{"test_runs": entries})
}

func (h *Handlers) readTestRunResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	api, errRes := h.resourceAPI(ctx, uri)
	if errRes != nil {
		return errRes, nil
	}

	run, err := api.GetTestRun(ctx, templateID(uri, "test-run"))
	if err != nil {
		return errContents(uri, "Error getting test run: %v", err), nil
	}
	return jsonContents(uri, run)
}

func (h *Handlers) readEnvironmentsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	api, errRes := h.resourceAPI(ctx, uri)
	if errRes != nil {
		return errRes, nil
	}

	envs, err := api.ListAllEnvironments(ctx)
	if err != nil {
		return errContents(uri, "Error listing environments: %v", err), nil
	}

	entries := make([]envEntry, 0, len(envs))
	for _, e := range envs {
		entries = append(entries, envEntry{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			URI:         "environment://" + e.ID,
		})
	}
	return jsonContents(uri, map[string]any{"environments": entries})
}

func (h *Handlers) readEnvironmentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	api, errRes := h.resourceAPI(ctx, uri)
	if errRes != nil {
		return errRes, nil
	}

	env, err := api.GetEnvironment(ctx, templateID(uri, "environment"))
	if err != nil {
		return errContents(uri, "Error getting environment: %v", err), nil
	}
	return jsonContents(uri, env)
}
