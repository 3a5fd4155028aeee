// Copyright 2026 The TestZeus Authors
// SPDX-License-Identifier: MIT

// Package mcpserver exposes the TestZeus platform to MCP clients as tools
// and browsable resources. Every handler is a passthrough: it forwards its
// arguments to one client call and relays the JSON that comes back.
package mcpserver

import (
	"context"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/test-zeus-ai/testzeus-mcp-server/internal/config"
	"github.com/test-zeus-ai/testzeus-mcp-server/internal/testzeus"
)

// Handlers holds the only state the server owns: the client handle,
// created from env credentials at startup and replaceable once by the
// authenticate tool.
type Handlers struct {
	connect ConnectFunc

	mu  sync.Mutex
	api API
}

// NewHandlers creates the handler set. api may be nil when no credentials
// were available at startup; connect must not be nil.
func NewHandlers(api API, connect ConnectFunc) *Handlers {
	return &Handlers{api: api, connect: connect}
}

func (h *Handlers) current() API {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.api
}

func (h *Handlers) swap(api API) {
	h.mu.Lock()
	h.api = api
	h.mu.Unlock()
}

// New creates an MCP server with the TestZeus tools and resources
// registered.
func New(version string, h *Handlers) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "testzeus",
		Title:   "TestZeus — Agentic Test Management",
		Version: version,
	}, nil)

	registerTools(server, h)
	registerResources(server, h)
	return server
}

// Run builds a client from the given config, creates the MCP server, and
// runs it on the transport. It blocks until the client disconnects or the
// context is cancelled.
func Run(ctx context.Context, version string, cfg *config.Config, transport mcp.Transport) error {
	connect := func(email, password, baseURL string) API {
		if baseURL == "" {
			baseURL = cfg.BaseURL
		}
		opts := []testzeus.Option{testzeus.WithBaseURL(baseURL)}
		if cfg.Timeout > 0 {
			opts = append(opts, testzeus.WithTimeout(cfg.Timeout))
		}
		return testzeus.NewClient(email, password, opts...)
	}

	var api API
	if cfg.HasCredentials() {
		api = connect(cfg.Email, cfg.Password, "")
	}

	server := New(version, NewHandlers(api, connect))
	return server.Run(ctx, transport)
}
