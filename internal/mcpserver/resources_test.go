package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/test-zeus-ai/testzeus-mcp-server/internal/testzeus"
)

func readReq(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

// resourceText extracts the single content block from a read result.
func resourceText(t *testing.T, res *mcp.ReadResourceResult) *mcp.ResourceContents {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Contents, 1)
	return res.Contents[0]
}

func TestReadTestsResource_OneEntryPerItem(t *testing.T) {
	api := &fakeAPI{tests: []testzeus.Test{
		{ID: "t1", Name: "login flow", Status: "draft", TestFeature: "Feature: login"},
		{ID: "t2", Name: "checkout", Status: "ready", TestFeature: "Feature: checkout"},
	}}
	h := newTestHandlers(api)

	res, err := h.readTestsResource(context.Background(), readReq("tests://"))
	require.NoError(t, err)

	content := resourceText(t, res)
	assert.Equal(t, "tests://", content.URI)
	assert.Equal(t, "application/json", content.MIMEType)

	var body struct {
		Tests []testEntry `json:"tests"`
	}
	require.NoError(t, json.Unmarshal([]byte(content.Text), &body))
	require.Len(t, body.Tests, 2)
	assert.Equal(t, "test://t1", body.Tests[0].URI)
	assert.Equal(t, "test://t2", body.Tests[1].URI)
	assert.Equal(t, "login flow", body.Tests[0].Name)
}

func TestReadTestsResource_EmptyListIsEmptyArray(t *testing.T) {
	h := newTestHandlers(&fakeAPI{})

	res, err := h.readTestsResource(context.Background(), readReq("tests://"))
	require.NoError(t, err)

	var body struct {
		Tests []testEntry `json:"tests"`
	}
	require.NoError(t, json.Unmarshal([]byte(resourceText(t, res).Text), &body))
	assert.Empty(t, body.Tests)
}

func TestReadTestResource_ExtractsID(t *testing.T) {
	api := &fakeAPI{test: &testzeus.Test{ID: "t1", Name: "login flow"}}
	h := newTestHandlers(api)

	res, err := h.readTestResource(context.Background(), readReq("test://t1"))
	require.NoError(t, err)

	assert.Equal(t, "GetTest", api.lastCall().method)
	assert.Equal(t, "t1", api.lastCall().args[0])

	var test testzeus.Test
	require.NoError(t, json.Unmarshal([]byte(resourceText(t, res).Text), &test))
	assert.Equal(t, "login flow", test.Name)
}

func TestReadTestRunsResource(t *testing.T) {
	api := &fakeAPI{runs: []testzeus.TestRun{{ID: "r1", Name: "nightly", Status: "completed", Test: "t1"}}}
	h := newTestHandlers(api)

	res, err := h.readTestRunsResource(context.Background(), readReq("test-runs://"))
	require.NoError(t, err)

	var body struct {
		TestRuns []runEntry `json:"test_runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(resourceText(t, res).Text), &body))
	require.Len(t, body.TestRuns, 1)
	assert.Equal(t, "test-run://r1", body.TestRuns[0].URI)
	assert.Equal(t, "t1", body.TestRuns[0].Test)
}

func TestReadEnvironmentResource(t *testing.T) {
	api := &fakeAPI{env: &testzeus.Environment{ID: "e1", Name: "staging"}}
	h := newTestHandlers(api)

	_, err := h.readEnvironmentResource(context.Background(), readReq("environment://e1"))
	require.NoError(t, err)
	assert.Equal(t, "e1", api.lastCall().args[0])
}

func TestReadResource_RemoteFailureIsInBand(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	h := newTestHandlers(api)

	res, err := h.readTestsResource(context.Background(), readReq("tests://"))
	require.NoError(t, err, "remote failures render as content, not protocol faults")

	content := resourceText(t, res)
	assert.Equal(t, "text/plain", content.MIMEType)
	assert.Contains(t, content.Text, "Error listing tests: boom")
}

func TestReadResource_NotAuthenticated(t *testing.T) {
	h := NewHandlers(nil, func(_, _, _ string) API { return &fakeAPI{} })

	res, err := h.readEnvironmentsResource(context.Background(), readReq("environments://"))
	require.NoError(t, err)
	assert.Equal(t, notAuthenticatedMsg, resourceText(t, res).Text)
}
