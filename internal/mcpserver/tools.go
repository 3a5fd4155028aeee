package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/test-zeus-ai/testzeus-mcp-server/internal/testzeus"
)

// notAuthenticatedMsg is returned by every tool that needs a client before
// credentials have been supplied.
const notAuthenticatedMsg = "Error: Not authenticated. Use the authenticate tool first."

// AuthenticateInput is the input schema for the authenticate tool.
type AuthenticateInput struct {
	Email    string `json:"email" jsonschema:"TestZeus account email"`
	Password string `json:"password" jsonschema:"TestZeus account password"`
	BaseURL  string `json:"base_url,omitempty" jsonschema:"Override the TestZeus API base URL"`
}

// ListTestsInput is the input schema for the list_tests tool.
type ListTestsInput struct {
	Page    int    `json:"page,omitempty" jsonschema:"Page number (default 1)"`
	PerPage int    `json:"per_page,omitempty" jsonschema:"Items per page (default 50, max 100)"`
	Status  string `json:"status,omitempty" jsonschema:"Filter tests by status"`
}

// GetTestInput is the input schema for the get_test tool.
type GetTestInput struct {
	TestIDOrName string `json:"test_id_or_name" jsonschema:"Test ID or name"`
}

// CreateTestInput is the input schema for the create_test tool.
type CreateTestInput struct {
	Name        string   `json:"name" jsonschema:"Test name"`
	TestFeature string   `json:"test_feature" jsonschema:"Gherkin feature content of the test"`
	Status      string   `json:"status,omitempty" jsonschema:"Initial status (default draft)"`
	TestData    []string `json:"test_data,omitempty" jsonschema:"Test data record IDs to attach"`
	Tags        []string `json:"tags,omitempty" jsonschema:"Tag IDs to attach"`
}

// UpdateTestInput is the input schema for the update_test tool.
type UpdateTestInput struct {
	TestIDOrName string   `json:"test_id_or_name" jsonschema:"Test ID or name"`
	Name         string   `json:"name,omitempty" jsonschema:"New test name"`
	TestFeature  string   `json:"test_feature,omitempty" jsonschema:"New feature content"`
	Status       string   `json:"status,omitempty" jsonschema:"New status"`
	TestData     []string `json:"test_data,omitempty" jsonschema:"Replacement test data record IDs"`
	Tags         []string `json:"tags,omitempty" jsonschema:"Replacement tag IDs"`
}

// DeleteTestInput is the input schema for the delete_test tool.
type DeleteTestInput struct {
	TestIDOrName string `json:"test_id_or_name" jsonschema:"Test ID or name"`
}

// RunTestInput is the input schema for the run_test tool.
type RunTestInput struct {
	TestIDOrName string `json:"test_id_or_name" jsonschema:"Test ID or name"`
}

// ListTestRunsInput is the input schema for the list_test_runs tool.
type ListTestRunsInput struct {
	Page    int    `json:"page,omitempty" jsonschema:"Page number (default 1)"`
	PerPage int    `json:"per_page,omitempty" jsonschema:"Items per page (default 50, max 100)"`
	TestID  string `json:"test_id,omitempty" jsonschema:"Filter runs by test ID"`
	Status  string `json:"status,omitempty" jsonschema:"Filter runs by status"`
}

// GetTestRunInput is the input schema for the get_test_run tool.
type GetTestRunInput struct {
	TestRunID string `json:"test_run_id" jsonschema:"Test run ID"`
}

// CreateTestRunInput is the input schema for the create_test_run tool.
type CreateTestRunInput struct {
	TestID      string         `json:"test_id" jsonschema:"ID of the test to run"`
	Name        string         `json:"name,omitempty" jsonschema:"Run name"`
	Environment string         `json:"environment,omitempty" jsonschema:"Environment ID to run in"`
	Config      map[string]any `json:"config,omitempty" jsonschema:"Run configuration overrides"`
}

// ListEnvironmentsInput is the input schema for the list_environments tool.
type ListEnvironmentsInput struct {
	Page    int `json:"page,omitempty" jsonschema:"Page number (default 1)"`
	PerPage int `json:"per_page,omitempty" jsonschema:"Items per page (default 50, max 100)"`
}

// GetEnvironmentInput is the input schema for the get_environment tool.
type GetEnvironmentInput struct {
	EnvironmentIDOrName string `json:"environment_id_or_name" jsonschema:"Environment ID or name"`
}

// CreateEnvironmentInput is the input schema for the create_environment tool.
type CreateEnvironmentInput struct {
	Name        string         `json:"name" jsonschema:"Environment name"`
	Description string         `json:"description,omitempty" jsonschema:"Environment description"`
	Config      map[string]any `json:"config,omitempty" jsonschema:"Environment configuration"`
}

// ListTagsInput is the input schema for the list_tags tool.
type ListTagsInput struct {
	Page    int `json:"page,omitempty" jsonschema:"Page number (default 1)"`
	PerPage int `json:"per_page,omitempty" jsonschema:"Items per page (default 50, max 100)"`
}

// ListTestDataInput is the input schema for the list_test_data tool.
type ListTestDataInput struct {
	Page    int `json:"page,omitempty" jsonschema:"Page number (default 1)"`
	PerPage int `json:"per_page,omitempty" jsonschema:"Items per page (default 50, max 100)"`
}

// GetTestDataInput is the input schema for the get_test_data tool.
type GetTestDataInput struct {
	TestDataIDOrName string `json:"test_data_id_or_name" jsonschema:"Test data record ID or name"`
}

// CreateTestDataInput is the input schema for the create_test_data tool.
type CreateTestDataInput struct {
	Name string         `json:"name" jsonschema:"Test data record name"`
	Type string         `json:"type,omitempty" jsonschema:"Test data type"`
	Data map[string]any `json:"data,omitempty" jsonschema:"Test data payload"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// textResult wraps a plain string into a tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult wraps a formatted message into an error-flagged tool result.
// Remote failures come back this way instead of as protocol faults.
func errorResult(format string, args ...any) *mcp.CallToolResult {
	res := textResult(fmt.Sprintf(format, args...))
	res.IsError = true
	return res
}

// jsonResult marshals v and returns it under a one-line prefix. A marshal
// failure is a programmer error and propagates as a Go error.
func jsonResult(prefix string, v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return textResult(prefix + "\n" + string(b)), nil, nil
}

// ready returns the current client once it holds a valid session, or a
// not-authenticated error result.
func (h *Handlers) ready(ctx context.Context) (API, *mcp.CallToolResult) {
	api := h.current()
	if api == nil {
		return nil, errorResult("%s", notAuthenticatedMsg)
	}
	if err := api.EnsureAuthenticated(ctx); err != nil {
		slog.Warn("authentication check failed", "error", err)
		return nil, errorResult("%s", notAuthenticatedMsg)
	}
	return api, nil
}

// registerTools adds the TestZeus tools to the MCP server.
func registerTools(server *mcp.Server, h *Handlers) {
	readOnly := &mcp.ToolAnnotations{
		ReadOnlyHint:    true,
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(true),
	}
	mutating := &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(true),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "authenticate",
		Description: "Authenticate with the TestZeus platform using email and password.",
		Annotations: mutating,
	}, h.handleAuthenticate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tests",
		Description: "List tests in TestZeus, with optional status filter and pagination.",
		Annotations: readOnly,
	}, h.handleListTests)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_test",
		Description: "Get a specific test by ID or name.",
		Annotations: readOnly,
	}, h.handleGetTest)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_test",
		Description: "Create a new test in TestZeus.",
		Annotations: mutating,
	}, h.handleCreateTest)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_test",
		Description: "Update an existing test. Only the supplied fields change.",
		Annotations: mutating,
	}, h.handleUpdateTest)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_test",
		Description: "Delete a test (sets its status to deleted).",
		Annotations: &mcp.ToolAnnotations{
			DestructiveHint: boolPtr(true),
			OpenWorldHint:   boolPtr(true),
		},
	}, h.handleDeleteTest)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_test",
		Description: "Execute a test and start a test run.",
		Annotations: mutating,
	}, h.handleRunTest)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_test_runs",
		Description: "List test runs, with optional test and status filters.",
		Annotations: readOnly,
	}, h.handleListTestRuns)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_test_run",
		Description: "Get a specific test run by ID.",
		Annotations: readOnly,
	}, h.handleGetTestRun)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_test_run",
		Description: "Create a new test run for a test.",
		Annotations: mutating,
	}, h.handleCreateTestRun)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_environments",
		Description: "List environments in TestZeus.",
		Annotations: readOnly,
	}, h.handleListEnvironments)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_environment",
		Description: "Get a specific environment by ID or name.",
		Annotations: readOnly,
	}, h.handleGetEnvironment)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_environment",
		Description: "Create a new environment.",
		Annotations: mutating,
	}, h.handleCreateEnvironment)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tags",
		Description: "List tags in TestZeus.",
		Annotations: readOnly,
	}, h.handleListTags)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_test_data",
		Description: "List test data records in TestZeus.",
		Annotations: readOnly,
	}, h.handleListTestData)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_test_data",
		Description: "Get a specific test data record by ID or name.",
		Annotations: readOnly,
	}, h.handleGetTestData)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_test_data",
		Description: "Create a new test data record.",
		Annotations: mutating,
	}, h.handleCreateTestData)
}

func (h *Handlers) handleAuthenticate(ctx context.Context, _ *mcp.CallToolRequest, input AuthenticateInput) (*mcp.CallToolResult, any, error) {
	if input.Email == "" || input.Password == "" {
		return errorResult("Error: email and password are required"), nil, nil
	}

	api := h.connect(input.Email, input.Password, input.BaseURL)
	if err := api.EnsureAuthenticated(ctx); err != nil {
		slog.Warn("authentication failed", "email", input.Email, "error", err)
		return errorResult("Authentication failed: %v", err), nil, nil
	}

	h.swap(api)
	slog.Info("authenticated with TestZeus", "email", input.Email)
	return textResult(fmt.Sprintf("Successfully authenticated with TestZeus as %s", input.Email)), nil, nil
}

func (h *Handlers) handleListTests(ctx context.Context, _ *mcp.CallToolRequest, input ListTestsInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}

	opts := testzeus.ListOptions{Page: input.Page, PerPage: input.PerPage}
	if input.Status != "" {
		opts.Filter = testzeus.EqFilter("status", input.Status)
	}

	page, err := api.ListTests(ctx, opts)
	if err != nil {
		return errorResult("Error listing tests: %v", err), nil, nil
	}

	slog.Info("listed tests", "count", len(page.Items))
	return jsonResult(fmt.Sprintf("Found %d tests:", len(page.Items)), page.Items)
}

func (h *Handlers) handleGetTest(ctx context.Context, _ *mcp.CallToolRequest, input GetTestInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}
	if input.TestIDOrName == "" {
		return errorResult("Error: test_id_or_name is required"), nil, nil
	}

	test, err := api.GetTest(ctx, input.TestIDOrName)
	if err != nil {
		return errorResult("Error getting test: %v", err), nil, nil
	}

	slog.Debug("retrieved test", "name", test.Name)
	return jsonResult("Test details:", test)
}

func (h *Handlers) handleCreateTest(ctx context.Context, _ *mcp.CallToolRequest, input CreateTestInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}
	if input.Name == "" || input.TestFeature == "" {
		return errorResult("Error: name and test_feature are required"), nil, nil
	}

	test, err := api.CreateTest(ctx, testzeus.CreateTestInput{
		Name:        input.Name,
		TestFeature: input.TestFeature,
		Status:      input.Status,
		TestData:    input.TestData,
		Tags:        input.Tags,
	})
	if err != nil {
		return errorResult("Error creating test: %v", err), nil, nil
	}

	slog.Info("created test", "name", test.Name, "id", test.ID)
	return textResult(fmt.Sprintf("Successfully created test '%s' with ID: %s", test.Name, test.ID)), nil, nil
}

func (h *Handlers) handleUpdateTest(ctx context.Context, _ *mcp.CallToolRequest, input UpdateTestInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}
	if input.TestIDOrName == "" {
		return errorResult("Error: test_id_or_name is required"), nil, nil
	}

	// Only supplied fields go over the wire.
	fields := map[string]any{}
	if input.Name != "" {
		fields["name"] = input.Name
	}
	if input.TestFeature != "" {
		fields["test_feature"] = input.TestFeature
	}
	if input.Status != "" {
		fields["status"] = input.Status
	}
	if len(input.TestData) > 0 {
		fields["test_data"] = input.TestData
	}
	if len(input.Tags) > 0 {
		fields["tags"] = input.Tags
	}
	if len(fields) == 0 {
		return errorResult("Error: no fields to update"), nil, nil
	}

	test, err := api.UpdateTest(ctx, input.TestIDOrName, fields)
	if err != nil {
		return errorResult("Error updating test: %v", err), nil, nil
	}

	slog.Info("updated test", "name", test.Name, "id", test.ID)
	return textResult(fmt.Sprintf("Successfully updated test '%s' (ID: %s)", test.Name, test.ID)), nil, nil
}

func (h *Handlers) handleDeleteTest(ctx context.Context, _ *mcp.CallToolRequest, input DeleteTestInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}
	if input.TestIDOrName == "" {
		return errorResult("Error: test_id_or_name is required"), nil, nil
	}

	test, err := api.DeleteTest(ctx, input.TestIDOrName)
	if err != nil {
		return errorResult("Error deleting test: %v", err), nil, nil
	}

	slog.Info("deleted test", "name", test.Name, "id", test.ID)
	return textResult(fmt.Sprintf("Successfully deleted test '%s' (ID: %s)", test.Name, test.ID)), nil, nil
}

func (h *Handlers) handleRunTest(ctx context.Context, _ *mcp.CallToolRequest, input RunTestInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}
	if input.TestIDOrName == "" {
		return errorResult("Error: test_id_or_name is required"), nil, nil
	}

	run, err := api.RunTest(ctx, input.TestIDOrName)
	if err != nil {
		return errorResult("Error running test: %v", err), nil, nil
	}

	slog.Info("started test run", "test", input.TestIDOrName, "run", run.ID)
	return textResult(fmt.Sprintf("Successfully started test run '%s' with ID: %s", run.Name, run.ID)), nil, nil
}

func (h *Handlers) handleListTestRuns(ctx context.Context, _ *mcp.CallToolRequest, input ListTestRunsInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}

	var filters []string
	if input.TestID != "" {
		filters = append(filters, testzeus.EqFilter("test", input.TestID))
	}
	if input.Status != "" {
		filters = append(filters, testzeus.EqFilter("status", input.Status))
	}
	opts := testzeus.ListOptions{
		Page:    input.Page,
		PerPage: input.PerPage,
		Filter:  testzeus.AndFilter(filters...),
	}

	page, err := api.ListTestRuns(ctx, opts)
	if err != nil {
		return errorResult("Error listing test runs: %v", err), nil, nil
	}

	slog.Info("listed test runs", "count", len(page.Items))
	return jsonResult(fmt.Sprintf("Found %d test runs:", len(page.Items)), page.Items)
}

func (h *Handlers) handleGetTestRun(ctx context.Context, _ *mcp.CallToolRequest, input GetTestRunInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}
	if input.TestRunID == "" {
		return errorResult("Error: test_run_id is required"), nil, nil
	}

	run, err := api.GetTestRun(ctx, input.TestRunID)
	if err != nil {
		return errorResult("Error getting test run: %v", err), nil, nil
	}

	slog.Debug("retrieved test run", "name", run.Name)
	return jsonResult("Test run details:", run)
}

func (h *Handlers) handleCreateTestRun(ctx context.Context, _ *mcp.CallToolRequest, input CreateTestRunInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}
	if input.TestID == "" {
		return errorResult("Error: test_id is required"), nil, nil
	}

	run, err := api.CreateTestRun(ctx, testzeus.CreateTestRunInput{
		TestID:      input.TestID,
		Name:        input.Name,
		Environment: input.Environment,
		Config:      input.Config,
	})
	if err != nil {
		return errorResult("Error creating test run: %v", err), nil, nil
	}

	slog.Info("created test run", "name", run.Name, "id", run.ID)
	return textResult(fmt.Sprintf("Successfully created test run '%s' with ID: %s", run.Name, run.ID)), nil, nil
}

func (h *Handlers) handleListEnvironments(ctx context.Context, _ *mcp.CallToolRequest, input ListEnvironmentsInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}

	page, err := api.ListEnvironments(ctx, testzeus.ListOptions{Page: input.Page, PerPage: input.PerPage})
	if err != nil {
		return errorResult("Error listing environments: %v", err), nil, nil
	}

	slog.Info("listed environments", "count", len(page.Items))
	return jsonResult(fmt.Sprintf("Found %d environments:", len(page.Items)), page.Items)
}

func (h *Handlers) handleGetEnvironment(ctx context.Context, _ *mcp.CallToolRequest, input GetEnvironmentInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}
	if input.EnvironmentIDOrName == "" {
		return errorResult("Error: environment_id_or_name is required"), nil, nil
	}

	env, err := api.GetEnvironment(ctx, input.EnvironmentIDOrName)
	if err != nil {
		return errorResult("Error getting environment: %v", err), nil, nil
	}

	slog.Debug("retrieved environment", "name", env.Name)
	return jsonResult("Environment details:", env)
}

func (h *Handlers) handleCreateEnvironment(ctx context.Context, _ *mcp.CallToolRequest, input CreateEnvironmentInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}
	if input.Name == "" {
		return errorResult("Error: name is required"), nil, nil
	}

	env, err := api.CreateEnvironment(ctx, testzeus.CreateEnvironmentInput{
		Name:        input.Name,
		Description: input.Description,
		Config:      input.Config,
	})
	if err != nil {
		return errorResult("Error creating environment: %v", err), nil, nil
	}

	slog.Info("created environment", "name", env.Name, "id", env.ID)
	return textResult(fmt.Sprintf("Successfully created environment '%s' with ID: %s", env.Name, env.ID)), nil, nil
}

func (h *Handlers) handleListTags(ctx context.Context, _ *mcp.CallToolRequest, input ListTagsInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}

	page, err := api.ListTags(ctx, testzeus.ListOptions{Page: input.Page, PerPage: input.PerPage})
	if err != nil {
		return errorResult("Error listing tags: %v", err), nil, nil
	}

	slog.Info("listed tags", "count", len(page.Items))
	return jsonResult(fmt.Sprintf("Found %d tags:", len(page.Items)), page.Items)
}

func (h *Handlers) handleListTestData(ctx context.Context, _ *mcp.CallToolRequest, input ListTestDataInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}

	page, err := api.ListTestData(ctx, testzeus.ListOptions{Page: input.Page, PerPage: input.PerPage})
	if err != nil {
		return errorResult("Error listing test data: %v", err), nil, nil
	}

	slog.Info("listed test data", "count", len(page.Items))
	return jsonResult(fmt.Sprintf("Found %d test data records:", len(page.Items)), page.Items)
}

func (h *Handlers) handleGetTestData(ctx context.Context, _ *mcp.CallToolRequest, input GetTestDataInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}
	if input.TestDataIDOrName == "" {
		return errorResult("Error: test_data_id_or_name is required"), nil, nil
	}

	rec, err := api.GetTestData(ctx, input.TestDataIDOrName)
	if err != nil {
		return errorResult("Error getting test data: %v", err), nil, nil
	}

	slog.Debug("retrieved test data", "name", rec.Name)
	return jsonResult("Test data details:", rec)
}

func (h *Handlers) handleCreateTestData(ctx context.Context, _ *mcp.CallToolRequest, input CreateTestDataInput) (*mcp.CallToolResult, any, error) {
	api, res := h.ready(ctx)
	if res != nil {
		return res, nil, nil
	}
	if input.Name == "" {
		return errorResult("Error: name is required"), nil, nil
	}

	rec, err := api.CreateTestData(ctx, testzeus.CreateTestDataInput{
		Name: input.Name,
		Type: input.Type,
		Data: input.Data,
	})
	if err != nil {
		return errorResult("Error creating test data: %v", err), nil, nil
	}

	slog.Info("created test data", "name", rec.Name, "id", rec.ID)
	return textResult(fmt.Sprintf("Successfully created test data '%s' with ID: %s", rec.Name, rec.ID)), nil, nil
}
