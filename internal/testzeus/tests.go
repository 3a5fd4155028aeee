// Copyright 2026 The TestZeus Authors
// SPDX-License-Identifier: MIT

package testzeus

import (
	"context"
	"fmt"
	"time"
)

const testsCollection = "tests"

// CreateTestInput holds the fields for a new test. Name and TestFeature
// are required by the remote; Status defaults to "draft" when empty.
type CreateTestInput struct {
	Name        string   `json:"name"`
	TestFeature string   `json:"test_feature"`
	Status      string   `json:"status,omitempty"`
	TestData    []string `json:"test_data,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ListTests returns one page of tests.
func (c *Client) ListTests(ctx context.Context, opts ListOptions) (*Page[Test], error) {
	return listRecords[Test](ctx, c, testsCollection, opts)
}

// ListAllTests returns every test, fetching all pages.
func (c *Client) ListAllTests(ctx context.Context) ([]Test, error) {
	return listAllRecords[Test](ctx, c, testsCollection)
}

// GetTest fetches a test by ID, falling back to a name lookup.
func (c *Client) GetTest(ctx context.Context, idOrName string) (*Test, error) {
	return getRecordByIDOrName[Test](ctx, c, testsCollection, idOrName)
}

// CreateTest creates a new test.
func (c *Client) CreateTest(ctx context.Context, in CreateTestInput) (*Test, error) {
	if in.Status == "" {
		in.Status = "draft"
	}
	return createRecord[Test](ctx, c, testsCollection, in)
}

// UpdateTest patches a test with the given fields. Only the supplied
// fields are sent to the remote.
func (c *Client) UpdateTest(ctx context.Context, idOrName string, fields map[string]any) (*Test, error) {
	test, err := c.GetTest(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	return updateRecord[Test](ctx, c, testsCollection, test.ID, fields)
}

// DeleteTest soft-deletes a test by setting its status to "deleted",
// matching the platform's delete semantics.
func (c *Client) DeleteTest(ctx context.Context, idOrName string) (*Test, error) {
	return c.UpdateTest(ctx, idOrName, map[string]any{"status": "deleted"})
}

// RunTest starts a run for the given test by creating a pending test_runs
// record bound to it. The run name is derived from the test name.
func (c *Client) RunTest(ctx context.Context, idOrName string) (*TestRun, error) {
	test, err := c.GetTest(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{
		"test":   test.ID,
		"name":   fmt.Sprintf("%s-run-%s", test.Name, time.Now().UTC().Format("20060102-150405")),
		"status": "pending",
	}
	return createRecord[TestRun](ctx, c, testRunsCollection, fields)
}
