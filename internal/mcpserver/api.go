// Copyright 2026 The TestZeus Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"

	"github.com/test-zeus-ai/testzeus-mcp-server/internal/testzeus"
)

// API is the slice of the TestZeus client surface the tool and resource
// handlers call. Each handler maps 1:1 onto one of these methods.
type API interface {
	EnsureAuthenticated(ctx context.Context) error

	ListTests(ctx context.Context, opts testzeus.ListOptions) (*testzeus.Page[testzeus.Test], error)
	ListAllTests(ctx context.Context) ([]testzeus.Test, error)
	GetTest(ctx context.Context, idOrName string) (*testzeus.Test, error)
	CreateTest(ctx context.Context, in testzeus.CreateTestInput) (*testzeus.Test, error)
	UpdateTest(ctx context.Context, idOrName string, fields map[string]any) (*testzeus.Test, error)
	DeleteTest(ctx context.Context, idOrName string) (*testzeus.Test, error)
	RunTest(ctx context.Context, idOrName string) (*testzeus.TestRun, error)

	ListTestRuns(ctx context.Context, opts testzeus.ListOptions) (*testzeus.Page[testzeus.TestRun], error)
	ListAllTestRuns(ctx context.Context) ([]testzeus.TestRun, error)
	GetTestRun(ctx context.Context, id string) (*testzeus.TestRun, error)
	CreateTestRun(ctx context.Context, in testzeus.CreateTestRunInput) (*testzeus.TestRun, error)

	ListEnvironments(ctx context.Context, opts testzeus.ListOptions) (*testzeus.Page[testzeus.Environment], error)
	ListAllEnvironments(ctx context.Context) ([]testzeus.Environment, error)
	GetEnvironment(ctx context.Context, idOrName string) (*testzeus.Environment, error)
	CreateEnvironment(ctx context.Context, in testzeus.CreateEnvironmentInput) (*testzeus.Environment, error)

	ListTags(ctx context.Context, opts testzeus.ListOptions) (*testzeus.Page[testzeus.Tag], error)

	ListTestData(ctx context.Context, opts testzeus.ListOptions) (*testzeus.Page[testzeus.TestDataRecord], error)
	GetTestData(ctx context.Context, idOrName string) (*testzeus.TestDataRecord, error)
	CreateTestData(ctx context.Context, in testzeus.CreateTestDataInput) (*testzeus.TestDataRecord, error)
}

// Compile-time check that the real client satisfies API.
var _ API = (*testzeus.Client)(nil)

// ConnectFunc builds a new API client for the given credentials. The
// authenticate tool uses it to replace the long-lived client handle.
type ConnectFunc func(email, password, baseURL string) API
