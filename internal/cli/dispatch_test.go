package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"todo/internal/backend/googletasks"
	"todo/internal/backend/rest"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/devserver"
	"todo/internal/exitcode"
	"todo/internal/observability"
	"todo/internal/service"
	"todo/internal/testutil"
)

// testFactory creates a store factory that returns the given FakeStore.
func testFactory(store *testutil.FakeStore) cli.StoreFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		return store, nil
	}
}

func failingFactory(err error) cli.StoreFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		return nil, err
	}
}

// run dispatches args with an isolated config dir.
func run(t *testing.T, factory cli.StoreFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	for _, key := range []string{"TODO_API_URL", "TODO_API_TOKEN", "TODO_BACKEND", "TODO_TASK_LIST", "TODO_LOG_LEVEL", "TODO_TIMEOUT"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var outBuf, errBuf bytes.Buffer
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeStore()), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeStore()), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, nil, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, _, code := run(t, nil, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected 'todo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, nil, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	_, stderr, code := run(t, nil, "help", "--config")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -config\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsRunsUI(t *testing.T) {
	store := testutil.NewFakeStore()

	_, stderr, code := run(t, testFactory(store))

	// The test's stdout is a buffer, so the UI refuses to start.
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "requires a terminal") {
		t.Errorf("expected ui error, got %q", stderr)
	}
}

func TestDispatcher_ListViaAlias(t *testing.T) {
	store := testutil.NewFakeStore(service.Task{ID: "a1", Text: "Buy milk"})

	stdout, stderr, code := run(t, testFactory(store), "ls")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %s)", exitcode.Success, code, stderr)
	}
	if stdout != "   1  [ ] Buy milk\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestDispatcher_QuietFlag(t *testing.T) {
	store := testutil.NewFakeStore()

	stdout, _, code := run(t, testFactory(store), "add", "--quiet", "Buy", "milk")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if len(store.Tasks()) != 1 {
		t.Error("expected one task created")
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	store := testutil.NewFakeStore()
	store.ListErr = errors.New("boom")

	_, stderr, code := run(t, testFactory(store), "list", "--debug")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	for _, want := range []string{"dispatch", "error fetching todos", "error: backend error: boom"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestDispatcher_StoreNotNeeded(t *testing.T) {
	called := false
	factory := func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		called = true
		return nil, errors.New("should not be called")
	}

	_, _, code := run(t, factory, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if called {
		t.Error("factory should not run for commands without a store")
	}
}

func TestDispatcher_FactoryErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"missing base url", rest.ErrNoBaseURL, exitcode.ConfigError},
		{"invalid base url", fmt.Errorf("%w: unsupported scheme %q", rest.ErrInvalidBaseURL, "ftp"), exitcode.ConfigError},
		{"no oauth client", fmt.Errorf("%w: /tmp/todo", googletasks.ErrNoOAuthClient), exitcode.ConfigError},
		{"invalid oauth client", fmt.Errorf("%w: bad json", googletasks.ErrInvalidOAuthClient), exitcode.ConfigError},
		{"not logged in", googletasks.ErrNotLoggedIn, exitcode.ConfigError},
		{"invalid token", fmt.Errorf("%w: unexpected EOF", googletasks.ErrInvalidToken), exitcode.ConfigError},
		{"unreachable", errors.New("dial tcp: connection refused"), exitcode.BackendError},
		{"transport error naming the token url", errors.New(`Post "https://oauth2.googleapis.com/token": dial tcp: i/o timeout`), exitcode.BackendError},
		{"invalid response", errors.New("invalid character '<' looking for beginning of value"), exitcode.BackendError},
		{"unrelated missing file", fmt.Errorf("open cache: %w", os.ErrNotExist), exitcode.BackendError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := run(t, failingFactory(tt.err), "list")

			if code != tt.code {
				t.Errorf("expected exit code %d, got %d (stderr: %s)", tt.code, code, stderr)
			}
		})
	}
}

func TestDispatcher_NoFactory(t *testing.T) {
	_, stderr, code := run(t, nil, "list")

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if stderr != "error: no task store configured\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("backend = \"carrier-pigeon\"\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, stderr, code := run(t, testFactory(testutil.NewFakeStore()), "list", "--config", dir)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr, "error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_ConfigDirFlag(t *testing.T) {
	dir := t.TempDir()
	var got string
	factory := func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		got = cfg.Dir
		return testutil.NewFakeStore(), nil
	}

	_, _, code := run(t, factory, "list", "--config", dir)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got != dir {
		t.Errorf("expected config dir %q, got %q", dir, got)
	}
}

// restFactory points a REST client at a dev server and records its calls
// in metrics.
func restFactory(t *testing.T, metrics *observability.StoreMetrics) cli.StoreFactory {
	srv := httptest.NewServer(devserver.New().Router())
	t.Cleanup(srv.Close)
	return func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		return rest.NewWithBaseURL(srv.URL, rest.WithMetrics(metrics))
	}
}

func runWithMetrics(t *testing.T, args ...string) (stderr string, code int) {
	t.Helper()
	for _, key := range []string{"TODO_API_URL", "TODO_API_TOKEN", "TODO_BACKEND", "TODO_TASK_LIST", "TODO_LOG_LEVEL", "TODO_TIMEOUT"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	reg := prometheus.NewRegistry()
	metrics := observability.NewStoreMetrics(reg)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, restFactory(t, metrics), cli.WithMetrics(reg))

	var outBuf, errBuf bytes.Buffer
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return errBuf.String(), code
}

func TestDispatcher_StoreSummaryWithDebug(t *testing.T) {
	stderr, code := runWithMetrics(t, "add", "--debug", "Buy milk")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stderr, "store requests") {
		t.Errorf("expected store summary in stderr, got %q", stderr)
	}
	if !strings.Contains(stderr, "op=create") {
		t.Errorf("expected create op in summary, got %q", stderr)
	}
}

func TestDispatcher_StoreSummaryQuietWithoutDebug(t *testing.T) {
	stderr, code := runWithMetrics(t, "add", "Buy milk")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stderr)
	}
	if strings.Contains(stderr, "store requests") {
		t.Errorf("expected no summary without --debug, got %q", stderr)
	}
}
