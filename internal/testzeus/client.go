// Copyright 2026 The TestZeus Authors
// SPDX-License-Identifier: MIT

// Package testzeus is a client for the TestZeus test-management API.
//
// TestZeus serves its REST API through PocketBase-style collection
// endpoints: password authentication against the users collection, then
// bearer-token CRUD on per-entity record collections. This package holds
// all the remote-call machinery — authentication, pagination, retry — so
// the MCP layer above stays a plain passthrough.
package testzeus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the production TestZeus API endpoint.
const DefaultBaseURL = "https://pb.prod.testzeus.com"

const (
	defaultTimeout = 30 * time.Second
	defaultPerPage = 50
	maxPerPage     = 100

	// maxRetries bounds automatic retries on 429/5xx/network errors.
	maxRetries = 3

	// listAllConcurrency caps parallel page fetches in ListAll helpers.
	listAllConcurrency = 4
)

// ErrNotAuthenticated is returned when a call needs a token but the client
// has no credentials to obtain one.
var ErrNotAuthenticated = errors.New("testzeus: not authenticated")

// APIError is a non-2xx response from the TestZeus API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("testzeus: %s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is an authenticated TestZeus API client. The zero value is not
// usable; create one with NewClient. A Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	email      string
	password   string

	mu    sync.Mutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a TestZeus client for the given credentials.
// Authentication is lazy: the first request that needs a token performs
// the password grant.
func NewClient(email, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		email:      email,
		password:   password,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the API endpoint this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

type authResponse struct {
	Token string `json:"token"`
}

// EnsureAuthenticated obtains an auth token if the client does not hold
// one yet. It is called implicitly before every authenticated request.
func (c *Client) EnsureAuthenticated(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return nil
	}
	if c.email == "" || c.password == "" {
		return ErrNotAuthenticated
	}

	body := map[string]string{
		"identity": c.email,
		"password": c.password,
	}
	var resp authResponse
	if err := c.send(ctx, http.MethodPost, "/api/collections/users/auth-with-password", nil, body, &resp, ""); err != nil {
		return fmt.Errorf("authenticating as %s: %w", c.email, err)
	}
	if resp.Token == "" {
		return errors.New("testzeus: auth response contained no token")
	}
	c.token = resp.Token
	return nil
}

// do performs an authenticated request, authenticating first if needed.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	return c.send(ctx, method, path, query, body, out, token)
}

// send issues one HTTP request with bounded exponential-backoff retry on
// transient failures (network errors, 429, 5xx). Other failures are
// returned immediately as *APIError.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any, token string) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	op := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		// Correlation id for server-side request tracing.
		req.Header.Set("X-Request-Id", uuid.NewString())
		if token != "" {
			// PocketBase expects the raw token, no scheme prefix.
			req.Header.Set("Authorization", token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("calling %s %s: %w", method, path, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out == nil {
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return backoff.Permanent(fmt.Errorf("decoding %s %s response: %w", method, path, err))
			}
			return nil
		}

		apiErr := parseAPIError(resp)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return apiErr
		}
		return backoff.Permanent(apiErr)
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	return backoff.Retry(op, bo)
}

// parseAPIError extracts the error envelope from a non-2xx response body.
func parseAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
	}
	return apiErr
}

// EqFilter builds a PocketBase equality filter expression, escaping single
// quotes in the value.
func EqFilter(field, value string) string {
	return field + "='" + strings.ReplaceAll(value, "'", "\\'") + "'"
}

// AndFilter joins filter expressions with &&, skipping empty ones.
func AndFilter(exprs ...string) string {
	var parts []string
	for _, e := range exprs {
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, " && ")
}

// recordsPath returns the records endpoint for a collection.
func recordsPath(collection string) string {
	return "/api/collections/" + collection + "/records"
}

// listQuery converts ListOptions into PocketBase query parameters,
// defaulting the page to 1 and capping per_page at 100.
func listQuery(opts ListOptions) url.Values {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("perPage", strconv.Itoa(perPage))
	q.Set("sort", "-created")
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	}
	return q
}

// listRecords fetches one page of records from a collection.
func listRecords[T any](ctx context.Context, c *Client, collection string, opts ListOptions) (*Page[T], error) {
	var page Page[T]
	if err := c.do(ctx, http.MethodGet, recordsPath(collection), listQuery(opts), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// getRecord fetches a single record by its ID.
func getRecord[T any](ctx context.Context, c *Client, collection, id string) (*T, error) {
	var rec T
	if err := c.do(ctx, http.MethodGet, recordsPath(collection)+"/"+url.PathEscape(id), nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// findRecordByName looks a record up through a name filter.
func findRecordByName[T any](ctx context.Context, c *Client, collection, name string) (*T, error) {
	page, err := listRecords[T](ctx, c, collection, ListOptions{PerPage: 1, Filter: EqFilter("name", name)})
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, &APIError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("no %s record named %q", collection, name),
		}
	}
	return &page.Items[0], nil
}

// getRecordByIDOrName fetches by ID first and falls back to a name lookup
// when the ID is unknown.
func getRecordByIDOrName[T any](ctx context.Context, c *Client, collection, idOrName string) (*T, error) {
	rec, err := getRecord[T](ctx, c, collection, idOrName)
	if err == nil {
		return rec, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	return findRecordByName[T](ctx, c, collection, idOrName)
}

// createRecord creates a record in a collection.
func createRecord[T any](ctx context.Context, c *Client, collection string, fields any) (*T, error) {
	var rec T
	if err := c.do(ctx, http.MethodPost, recordsPath(collection), nil, fields, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// updateRecord patches a record by ID with the given fields.
func updateRecord[T any](ctx context.Context, c *Client, collection, id string, fields any) (*T, error) {
	var rec T
	if err := c.do(ctx, http.MethodPatch, recordsPath(collection)+"/"+url.PathEscape(id), nil, fields, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// listAllRecords fetches every record in a collection. Page 1 establishes
// the page count, then remaining pages are fetched concurrently with a
// bounded group. Order is preserved.
func listAllRecords[T any](ctx context.Context, c *Client, collection string) ([]T, error) {
	first, err := listRecords[T](ctx, c, collection, ListOptions{Page: 1, PerPage: maxPerPage})
	if err != nil {
		return nil, err
	}
	if first.TotalPages <= 1 {
		return first.Items, nil
	}

	pages := make([][]T, first.TotalPages)
	pages[0] = first.Items

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listAllConcurrency)
	for p := 2; p <= first.TotalPages; p++ {
		g.Go(func() error {
			page, err := listRecords[T](gctx, c, collection, ListOptions{Page: p, PerPage: maxPerPage})
			if err != nil {
				return err
			}
			pages[p-1] = page.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]T, 0, first.TotalItems)
	for _, items := range pages {
		all = append(all, items...)
	}
	return all, nil
}
