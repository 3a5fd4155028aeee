// Copyright 2026 The TestZeus Authors
// SPDX-License-Identifier: MIT

package testzeus

// Records mirror what the TestZeus API returns. The server relays them as
// received: no local validation, no lifecycle ownership. Timestamps stay
// strings because the remote owns their format.

// Test is a test definition record.
type Test struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	TestFeature string         `json:"test_feature"`
	Tags        []string       `json:"tags,omitempty"`
	TestData    []string       `json:"test_data,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Created     string         `json:"created,omitempty"`
	Updated     string         `json:"updated,omitempty"`
	Tenant      string         `json:"tenant,omitempty"`
	ModifiedBy  string         `json:"modified_by,omitempty"`
}

// TestRun is a single execution of a test.
type TestRun struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Status        string         `json:"status"`
	Test          string         `json:"test"`
	TestStatus    string         `json:"test_status,omitempty"`
	StartTime     string         `json:"start_time,omitempty"`
	EndTime       string         `json:"end_time,omitempty"`
	WorkflowRunID string         `json:"workflow_run_id,omitempty"`
	Environment   string         `json:"environment,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Config        map[string]any `json:"config,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Created       string         `json:"created,omitempty"`
	Updated       string         `json:"updated,omitempty"`
	Tenant        string         `json:"tenant,omitempty"`
	ModifiedBy    string         `json:"modified_by,omitempty"`
}

// Environment is a named execution environment.
type Environment struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Created     string         `json:"created,omitempty"`
	Updated     string         `json:"updated,omitempty"`
	Tenant      string         `json:"tenant,omitempty"`
	ModifiedBy  string         `json:"modified_by,omitempty"`
}

// Tag is a label attachable to tests and test runs.
type Tag struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created,omitempty"`
	Updated string `json:"updated,omitempty"`
	Tenant  string `json:"tenant,omitempty"`
}

// TestDataRecord is a reusable data set referenced by tests.
type TestDataRecord struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Created    string         `json:"created,omitempty"`
	Updated    string         `json:"updated,omitempty"`
	Tenant     string         `json:"tenant,omitempty"`
	ModifiedBy string         `json:"modified_by,omitempty"`
}

// Page is one page of a paginated list response.
type Page[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

// ListOptions control pagination and filtering for list calls.
// PerPage defaults to 50 and is capped at 100 by the client.
type ListOptions struct {
	Page    int
	PerPage int
	Filter  string
}
