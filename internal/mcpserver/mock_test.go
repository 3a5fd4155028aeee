package mcpserver

import (
	"context"
	"sync"

	"github.com/test-zeus-ai/testzeus-mcp-server/internal/testzeus"
)

// fakeAPI is a test double for the TestZeus client. Each method returns
// the corresponding canned value (or err when set) and records the call
// with its arguments for later assertion.
type fakeAPI struct {
	mu    sync.Mutex
	calls []fakeCall

	err error

	authErr error

	tests []testzeus.Test
	test  *testzeus.Test

	runs []testzeus.TestRun
	run  *testzeus.TestRun

	envs []testzeus.Environment
	env  *testzeus.Environment

	tags []testzeus.Tag

	dataRecs []testzeus.TestDataRecord
	dataRec  *testzeus.TestDataRecord
}

type fakeCall struct {
	method string
	args   []any
}

var _ API = (*fakeAPI)(nil)

func (f *fakeAPI) record(method string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{method: method, args: args})
}

// callNames returns the recorded method names in order.
func (f *fakeAPI) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		names = append(names, c.method)
	}
	return names
}

// lastCall returns the most recent recorded call.
func (f *fakeAPI) lastCall() fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return fakeCall{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeAPI) EnsureAuthenticated(_ context.Context) error {
	f.record("EnsureAuthenticated")
	return f.authErr
}

func pageOf[T any](items []T) *testzeus.Page[T] {
	return &testzeus.Page[T]{Page: 1, PerPage: 50, TotalItems: len(items), TotalPages: 1, Items: items}
}

func (f *fakeAPI) ListTests(_ context.Context, opts testzeus.ListOptions) (*testzeus.Page[testzeus.Test], error) {
	f.record("ListTests", opts)
	if f.err != nil {
		return nil, f.err
	}
	return pageOf(f.tests), nil
}

func (f *fakeAPI) ListAllTests(_ context.Context) ([]testzeus.Test, error) {
	f.record("ListAllTests")
	return f.tests, f.err
}

func (f *fakeAPI) GetTest(_ context.Context, idOrName string) (*testzeus.Test, error) {
	f.record("GetTest", idOrName)
	return f.test, f.err
}

func (f *fakeAPI) CreateTest(_ context.Context, in testzeus.CreateTestInput) (*testzeus.Test, error) {
	f.record("CreateTest", in)
	return f.test, f.err
}

func (f *fakeAPI) UpdateTest(_ context.Context, idOrName string, fields map[string]any) (*testzeus.Test, error) {
	f.record("UpdateTest", idOrName, fields)
	return f.test, f.err
}

func (f *fakeAPI) DeleteTest(_ context.Context, idOrName string) (*testzeus.Test, error) {
	f.record("DeleteTest", idOrName)
	return f.test, f.err
}

func (f *fakeAPI) RunTest(_ context.Context, idOrName string) (*testzeus.TestRun, error) {
	f.record("RunTest", idOrName)
	return f.run, f.err
}

func (f *fakeAPI) ListTestRuns(_ context.Context, opts testzeus.ListOptions) (*testzeus.Page[testzeus.TestRun], error) {
	f.record("ListTestRuns", opts)
	if f.err != nil {
		return nil, f.err
	}
	return pageOf(f.runs), nil
}

func (f *fakeAPI) ListAllTestRuns(_ context.Context) ([]testzeus.TestRun, error) {
	f.record("ListAllTestRuns")
	return f.runs, f.err
}

func (f *fakeAPI) GetTestRun(_ context.Context, id string) (*testzeus.TestRun, error) {
	f.record("GetTestRun", id)
	return f.run, f.err
}

func (f *fakeAPI) CreateTestRun(_ context.Context, in testzeus.CreateTestRunInput) (*testzeus.TestRun, error) {
	f.record("CreateTestRun", in)
	return f.run, f.err
}

func (f *fakeAPI) ListEnvironments(_ context.Context, opts testzeus.ListOptions) (*testzeus.Page[testzeus.Environment], error) {
	f.record("ListEnvironments", opts)
	if f.err != nil {
		return nil, f.err
	}
	return pageOf(f.envs), nil
}

func (f *fakeAPI) ListAllEnvironments(_ context.Context) ([]testzeus.Environment, error) {
	f.record("ListAllEnvironments")
	return f.envs, f.err
}

func (f *fakeAPI) GetEnvironment(_ context.Context, idOrName string) (*testzeus.Environment, error) {
	f.record("GetEnvironment", idOrName)
	return f.env, f.err
}

func (f *fakeAPI) CreateEnvironment(_ context.Context, in testzeus.CreateEnvironmentInput) (*testzeus.Environment, error) {
	f.record("CreateEnvironment", in)
	return f.env, f.err
}

func (f *fakeAPI) ListTags(_ context.Context, opts testzeus.ListOptions) (*testzeus.Page[testzeus.Tag], error) {
	f.record("ListTags", opts)
	if f.err != nil {
		return nil, f.err
	}
	return pageOf(f.tags), nil
}

func (f *fakeAPI) ListTestData(_ context.Context, opts testzeus.ListOptions) (*testzeus.Page[testzeus.TestDataRecord], error) {
	f.record("ListTestData", opts)
	if f.err != nil {
		return nil, f.err
	}
	return pageOf(f.dataRecs), nil
}

func (f *fakeAPI) GetTestData(_ context.Context, idOrName string) (*testzeus.TestDataRecord, error) {
	f.record("GetTestData", idOrName)
	return f.dataRec, f.err
}

func (f *fakeAPI) CreateTestData(_ context.Context, in testzeus.CreateTestDataInput) (*testzeus.TestDataRecord, error) {
	f.record("CreateTestData", in)
	return f.dataRec, f.err
}

// newTestHandlers returns handlers backed by the fake, with a connect
// function that hands out the given replacement (or the same fake).
func newTestHandlers(api *fakeAPI) *Handlers {
	return NewHandlers(api, func(_, _, _ string) API { return api })
}
