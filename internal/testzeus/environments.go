// Copyright 2026 The TestZeus Authors
// SPDX-License-Identifier: MIT

package testzeus

import "context"

const environmentsCollection = "environments"

// CreateEnvironmentInput holds the fields for a new environment.
type CreateEnvironmentInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
}

// ListEnvironments returns one page of environments.
func (c *Client) ListEnvironments(ctx context.Context, opts ListOptions) (*Page[Environment], error) {
	return listRecords[Environment](ctx, c, environmentsCollection, opts)
}

// ListAllEnvironments returns every environment, fetching all pages.
func (c *Client) ListAllEnvironments(ctx context.Context) ([]Environment, error) {
	return listAllRecords[Environment](ctx, c, environmentsCollection)
}

// GetEnvironment fetches an environment by ID, falling back to a name
// lookup.
func (c *Client) GetEnvironment(ctx context.Context, idOrName string) (*Environment, error) {
	return getRecordByIDOrName[Environment](ctx, c, environmentsCollection, idOrName)
}

// CreateEnvironment creates a new environment.
func (c *Client) CreateEnvironment(ctx context.Context, in CreateEnvironmentInput) (*Environment, error) {
	return createRecord[Environment](ctx, c, environmentsCollection, in)
}
