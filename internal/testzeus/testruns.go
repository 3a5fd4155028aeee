// Copyright 2026 The TestZeus Authors
// SPDX-License-Identifier: MIT

package testzeus

import "context"

const testRunsCollection = "test_runs"

// CreateTestRunInput holds the fields for a new test run. TestID is
// required; everything else is optional.
type CreateTestRunInput struct {
	TestID      string         `json:"test"`
	Name        string         `json:"name,omitempty"`
	Environment string         `json:"environment,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
}

// ListTestRuns returns one page of test runs.
func (c *Client) ListTestRuns(ctx context.Context, opts ListOptions) (*Page[TestRun], error) {
	return listRecords[TestRun](ctx, c, testRunsCollection, opts)
}

// ListAllTestRuns returns every test run, fetching all pages.
func (c *Client) ListAllTestRuns(ctx context.Context) ([]TestRun, error) {
	return listAllRecords[TestRun](ctx, c, testRunsCollection)
}

// GetTestRun fetches a test run by ID.
func (c *Client) GetTestRun(ctx context.Context, id string) (*TestRun, error) {
	return getRecord[TestRun](ctx, c, testRunsCollection, id)
}

// CreateTestRun creates a new test run.
func (c *Client) CreateTestRun(ctx context.Context, in CreateTestRunInput) (*TestRun, error) {
	return createRecord[TestRun](ctx, c, testRunsCollection, in)
}
