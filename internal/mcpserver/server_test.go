package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/test-zeus-ai/testzeus-mcp-server/internal/testzeus"
)

// connect spins up the server over in-memory transports and returns a live
// client session.
func connect(t *testing.T, h *Handlers) *mcp.ClientSession {
	t.Helper()

	server := New("test", h)
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(context.Background(), serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func TestServer_ListsAllTools(t *testing.T) {
	session := connect(t, newTestHandlers(&fakeAPI{}))

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make(map[string]bool, len(res.Tools))
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	want := []string{
		"authenticate",
		"list_tests", "get_test", "create_test", "update_test", "delete_test", "run_test",
		"list_test_runs", "get_test_run", "create_test_run",
		"list_environments", "get_environment", "create_environment",
		"list_tags",
		"list_test_data", "get_test_data", "create_test_data",
	}
	for _, name := range want {
		assert.True(t, names[name], "missing tool %s", name)
	}
	assert.Len(t, res.Tools, len(want))
}

func TestServer_ListsResources(t *testing.T) {
	session := connect(t, newTestHandlers(&fakeAPI{}))

	res, err := session.ListResources(context.Background(), nil)
	require.NoError(t, err)

	uris := make([]string, 0, len(res.Resources))
	for _, r := range res.Resources {
		uris = append(uris, r.URI)
	}
	assert.ElementsMatch(t, []string{"tests://", "test-runs://", "environments://"}, uris)
}

func TestServer_CallToolEndToEnd(t *testing.T) {
	api := &fakeAPI{tests: []testzeus.Test{{ID: "t1", Name: "login flow", Status: "draft"}}}
	session := connect(t, newTestHandlers(api))

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "list_tests",
		Arguments: map[string]any{"per_page": 5},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Found 1 tests:")
	assert.Contains(t, text.Text, "login flow")

	require.Equal(t, "ListTests", api.lastCall().method)
	opts := api.lastCall().args[0].(testzeus.ListOptions)
	assert.Equal(t, 5, opts.PerPage)
}

func TestServer_CallToolErrorIsFlagged(t *testing.T) {
	session := connect(t, NewHandlers(nil, func(_, _, _ string) API { return &fakeAPI{} }))

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_test",
		Arguments: map[string]any{"test_id_or_name": "t1"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, notAuthenticatedMsg, text.Text)
}

func TestServer_ReadResourceEndToEnd(t *testing.T) {
	api := &fakeAPI{test: &testzeus.Test{ID: "t1", Name: "login flow"}}
	session := connect(t, newTestHandlers(api))

	res, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "test://t1"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)
	assert.Contains(t, res.Contents[0].Text, `"login flow"`)
}
