package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"

	"todo/internal/config"
	"todo/internal/service"
)

type apiCall struct {
	method string
	path   string
	body   map[string]any
}

// fakeAPI answers Google Tasks API paths with canned bodies.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []apiCall
	routes map[string]string // "METHOD path" -> response body
	status int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(data, &body)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: r.Method, path: r.URL.Path, body: body})
	resp, ok := f.routes[r.Method+" "+r.URL.Path]
	status := f.status
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"Not Found"}}`)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, resp)
}

func (f *fakeAPI) lastCall() apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), "", option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

const tasksPath = "/tasks/v1/lists/@default/tasks"

func TestList(t *testing.T) {
	api := &fakeAPI{routes: map[string]string{
		"GET " + tasksPath: `{"items":[{"id":"a","title":"Buy milk","status":"needsAction"},{"id":"b","title":"Walk dog","status":"completed"}]}`,
	}}
	c := newTestClient(t, api)

	got, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []service.Task{
		{ID: "a", Text: "Buy milk"},
		{ID: "b", Text: "Walk dog", Completed: true},
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCreate(t *testing.T) {
	api := &fakeAPI{routes: map[string]string{
		"POST " + tasksPath: `{"id":"n1","title":"Buy milk","status":"needsAction"}`,
	}}
	c := newTestClient(t, api)

	got, err := c.Create(context.Background(), "Buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (service.Task{ID: "n1", Text: "Buy milk"}) {
		t.Errorf("unexpected task %+v", got)
	}
	if title := api.lastCall().body["title"]; title != "Buy milk" {
		t.Errorf("expected title in body, got %v", title)
	}
}

func TestUpdate_Reopen(t *testing.T) {
	api := &fakeAPI{routes: map[string]string{
		"PATCH " + tasksPath + "/a": `{"id":"a","title":"Buy milk","status":"needsAction"}`,
	}}
	c := newTestClient(t, api)

	got, err := c.Update(context.Background(), "a", service.CompletedPatch(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Completed {
		t.Error("expected reopened task")
	}
	body := api.lastCall().body
	if body["status"] != "needsAction" {
		t.Errorf("expected needsAction status, got %v", body["status"])
	}
	if v, ok := body["completed"]; !ok || v != nil {
		t.Errorf("expected completed to be sent as null, got %v (present=%v)", v, ok)
	}
	if _, ok := body["title"]; ok {
		t.Error("title must not be sent for a status-only patch")
	}
}

func TestUpdate_Text(t *testing.T) {
	api := &fakeAPI{routes: map[string]string{
		"PATCH " + tasksPath + "/a": `{"id":"a","title":"Buy oat milk","status":"needsAction"}`,
	}}
	c := newTestClient(t, api)

	if _, err := c.Update(context.Background(), "a", service.TextPatch("Buy oat milk")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := api.lastCall().body
	if body["title"] != "Buy oat milk" {
		t.Errorf("expected title, got %v", body["title"])
	}
	if _, ok := body["status"]; ok {
		t.Error("status must not be sent for a text-only patch")
	}
}

func TestDelete_NotFound(t *testing.T) {
	api := &fakeAPI{status: http.StatusNotFound}
	c := newTestClient(t, api)

	err := c.Delete(context.Background(), "gone")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestNew_CredentialErrors(t *testing.T) {
	const client = `{"installed":{"client_id":"id","client_secret":"secret","redirect_uris":["http://localhost"]}}`

	tests := []struct {
		name   string
		client string // "" means no oauth_client.json
		token  string // "" means no token.json
		want   error
	}{
		{name: "no client", want: ErrNoOAuthClient},
		{name: "bad client", client: "not json", want: ErrInvalidOAuthClient},
		{name: "no token", client: client, want: ErrNotLoggedIn},
		{name: "bad token", client: client, token: "{", want: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			writeFile(t, cfg.OAuthClientPath(), tt.client)
			writeFile(t, cfg.TokenPath(), tt.token)

			_, err := New(context.Background(), cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNew_WithCredentials(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.OAuthClientPath(), `{"installed":{"client_id":"id","client_secret":"secret","redirect_uris":["http://localhost"]}}`)
	writeFile(t, cfg.TokenPath(), `{"access_token":"a","refresh_token":"r","token_type":"Bearer"}`)

	if _, err := New(context.Background(), cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if body == "" {
		return
	}
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}
