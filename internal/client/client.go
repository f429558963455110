// Package client is the client-side state layer of staffdesk: an HTTP transport for the
// REST API and one Store per entity that tracks the loaded list, its load status and the
// last error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/staffdesk/internal/table"
	"github.com/jonathan/staffdesk/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for API requests.
const DefaultUserAgent = "staffdesk-console/1.0"

// Options configures the transport.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Token      string
	HTTPClient *http.Client
}

// DefaultOptions returns sensible defaults for API calls.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// FieldError is one field reported by the server in a 400 or 422 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestError is a failed API call: a transport failure (Status 0) or a non-2xx response
// carrying the server message.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Client calls the staffdesk REST API.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string

	mu    sync.RWMutex
	token string
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{base: u, http: httpClient, userAgent: userAgent, token: opts.Token}, nil
}

// SetToken replaces the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// request is one API call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	accept      string
}

// send performs req and returns the response of a 2xx status. Any other status is turned
// into a *RequestError and the body is closed.
func (c *Client) send(ctx context.Context, req request) (*http.Response, error) {
	u := *c.base
	u.Path = c.base.Path + req.path
	u.RawQuery = req.query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), req.body)
	if err != nil {
		return nil, &RequestError{Method: req.method, Path: req.path, Cause: err}
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	accept := req.accept
	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Accept", accept)
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &RequestError{Method: req.method, Path: req.path, Cause: err}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer func() { _ = resp.Body.Close() }()
	return nil, responseError(req, resp)
}

// responseError reads the error body of a failed response.
func responseError(req request, resp *http.Response) *RequestError {
	rerr := &RequestError{Method: req.method, Path: req.path, Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error   string          `json:"error"`
		Message string          `json:"message"`
		Fields  json.RawMessage `json:"fields"`
	}
	if json.Unmarshal(data, &body) == nil {
		rerr.Message = body.Error
		if body.Message != "" {
			rerr.Message = body.Message
		}
		// fields is a list for validation and schema failures
		_ = json.Unmarshal(body.Fields, &rerr.Fields)
	}
	if rerr.Message == "" {
		rerr.Message = http.StatusText(resp.StatusCode)
	}
	return rerr
}

// do performs a JSON call. in, when not nil, is sent as the body; out, when not nil,
// receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req := request{method: method, path: path, query: query}
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode, Message: "invalid response body", Cause: err}
	}
	return nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// Login exchanges credentials for a token and keeps the token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*types.LoginResponse, error) {
	var resp types.LoginResponse
	req := types.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Me returns the authenticated employee.
func (c *Client) Me(ctx context.Context) (*types.Employee, error) {
	var e types.Employee
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ChangePassword replaces the authenticated employee's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	req := types.UpdatePasswordRequest{CurrentPassword: current, NewPassword: next}
	return c.do(ctx, http.MethodPut, "/api/auth/password", nil, req, nil)
}

// Query narrows a server-side list. A zero Size asks for every matching row.
type Query struct {
	Search  string
	Filters map[string]string
	Page    int
	Size    int
}

// Values encodes q as list query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for key, value := range q.Filters {
		if value != "" {
			v.Set("filter."+key, value)
		}
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// Page is one page of a server-side list.
type Page struct {
	Items     []table.Row    `json:"items"`
	Count     int            `json:"count"`
	Total     int            `json:"total"`
	Page      int            `json:"page"`
	Size      int            `json:"size"`
	PageCount int            `json:"page_count"`
	Filters   []table.Filter `json:"filters"`
}

// List fetches rows of resource as generic table rows.
func (c *Client) List(ctx context.Context, resource string, q Query) (*Page, error) {
	var p Page
	if err := c.do(ctx, http.MethodGet, "/api/"+resource, q.Values(), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Get fetches one record of resource as a table row.
func (c *Client) Get(ctx context.Context, resource string, id uuid.UUID) (table.Row, error) {
	var row table.Row
	if err := c.do(ctx, http.MethodGet, "/api/"+resource+"/"+id.String(), nil, nil, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// Export streams the rows of resource matching q in format (csv or xlsx) to w.
func (c *Client) Export(ctx context.Context, resource, format string, q Query, w io.Writer) error {
	v := q.Values()
	v.Set("format", format)
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/api/" + resource + "/export", query: v, accept: "*/*"})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
