// Package googletasks implements the service.Store interface using Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/config"
	"todo/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Errors returned by New when credentials are missing or unusable.
var (
	ErrNoOAuthClient      = errors.New("oauth_client.json not found (run: todo login)")
	ErrInvalidOAuthClient = errors.New("invalid oauth_client.json")
	ErrNotLoggedIn        = errors.New("not logged in (run: todo login)")
	ErrInvalidToken       = errors.New("invalid token.json (run: todo login)")
)

// Client implements service.Store against a single Google Tasks list.
type Client struct {
	svc    *tasks.Service
	listID string
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoOAuthClient, cfg.Dir)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidOAuthClient, err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOAuthClient, err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient, cfg.TaskList)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	if listID == "" {
		listID = DefaultListID
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, listID: listID}, nil
}

// List returns every task in the list, completed and hidden ones included,
// in API order.
func (c *Client) List(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.Task
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, toService(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// Create creates a new task in the list.
func (c *Client) Create(ctx context.Context, text string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	t, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{Title: text, Status: statusNeedsAction}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return toService(t), nil
}

// Update patches the title and/or status of a task.
func (c *Client) Update(ctx context.Context, id string, patch service.Patch) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	t, err := c.svc.Tasks.Patch(c.listID, id, toPatch(patch)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return toService(t), nil
}

// Delete deletes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

func toService(t *tasks.Task) service.Task {
	return service.Task{
		ID:        t.Id,
		Text:      t.Title,
		Completed: t.Status == statusCompleted,
	}
}

// toPatch maps a partial update onto the API's task resource. Reopening a
// task has to clear the completion timestamp explicitly.
func toPatch(p service.Patch) *tasks.Task {
	t := &tasks.Task{}
	if p.Text != nil {
		t.Title = *p.Text
		t.ForceSendFields = append(t.ForceSendFields, "Title")
	}
	if p.Completed != nil {
		if *p.Completed {
			t.Status = statusCompleted
		} else {
			t.Status = statusNeedsAction
			t.NullFields = append(t.NullFields, "Completed")
		}
	}
	return t
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: todo login)")
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}

	return err
}
