// Package rest implements the service.Store interface over the /todos
// REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"todo/internal/config"
	"todo/internal/observability"
	"todo/internal/service"
)

const (
	// TodosPath is the collection path, relative to the base URL.
	TodosPath = "todos"

	// RequestIDHeader carries a per-request identifier.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 512
)

// ErrNoBaseURL is returned when no API base URL is configured.
var ErrNoBaseURL = errors.New("api_url not configured (set TODO_API_URL or api_url in config.toml)")

// ErrInvalidBaseURL is returned when the API base URL cannot be used.
var ErrInvalidBaseURL = errors.New("invalid api_url")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client implements service.Store over HTTP.
type Client struct {
	base    *url.URL
	http    *http.Client
	metrics *observability.StoreMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithMetrics records every call in m.
func WithMetrics(m *observability.StoreMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a REST client from config. The base URL is resolved here,
// once, at startup.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNoBaseURL
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		// Bearer token for backends that require one.
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
		hc.Timeout = cfg.Timeout
	}

	return NewWithBaseURL(cfg.BaseURL, append([]Option{WithHTTPClient(hc)}, opts...)...)
}

// NewWithBaseURL creates a client for the given base URL.
func NewWithBaseURL(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBaseURL, u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{base: u, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// task is the wire form of a task. MongoDB-backed servers send "_id".
type task struct {
	ID        opaqueID `json:"id,omitempty"`
	MongoID   opaqueID `json:"_id,omitempty"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
}

func (t task) toService() service.Task {
	id := t.ID
	if id == "" {
		id = t.MongoID
	}
	return service.Task{ID: string(id), Text: t.Text, Completed: t.Completed}
}

// opaqueID is a task id sent as a JSON string or a JSON number. Numbers
// keep their literal text, so 7 and 7.0 are different ids.
type opaqueID string

func (id *opaqueID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = opaqueID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	*id = opaqueID(n.String())
	return nil
}

type createRequest struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type updateRequest struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// List returns all tasks in server order.
func (c *Client) List(ctx context.Context) ([]service.Task, error) {
	var tasks []task
	if err := c.do(ctx, "list", http.MethodGet, TodosPath, nil, &tasks); err != nil {
		return nil, err
	}

	result := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, t.toService())
	}
	return result, nil
}

// Create creates an incomplete task.
func (c *Client) Create(ctx context.Context, text string) (service.Task, error) {
	var created task
	body := createRequest{Text: text, Completed: false}
	if err := c.do(ctx, "create", http.MethodPost, TodosPath, body, &created); err != nil {
		return service.Task{}, err
	}
	return created.toService(), nil
}

// Update sends only the fields set in patch.
func (c *Client) Update(ctx context.Context, id string, patch service.Patch) (service.Task, error) {
	var updated task
	body := updateRequest{Text: patch.Text, Completed: patch.Completed}
	if err := c.do(ctx, "update", http.MethodPut, taskPath(id), body, &updated); err != nil {
		return service.Task{}, err
	}
	return updated.toService(), nil
}

// Delete deletes a task. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id string) string {
	return TodosPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.Observe(op, time.Since(start), err)
	}()

	rel, err := url.Parse(path)
	if err != nil {
		return err
	}
	target := c.base.ResolveReference(rel)

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return wrapError(&StatusError{
			Method: method,
			Path:   "/" + path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(data)),
		})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// wrapError wraps API errors with user-friendly messages. The original
// error stays reachable through errors.As / errors.Is.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("unauthorized (check api_token): %w", err)
		case http.StatusNotFound:
			return fmt.Errorf("not found: %w", err)
		}
	}

	return err
}
