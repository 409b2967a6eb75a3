package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"todo/internal/backend/googletasks"
	"todo/internal/backend/rest"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/diag"
	"todo/internal/exitcode"
	"todo/internal/observability"
	"todo/internal/service"
)

// DefaultCommand runs when no command is given.
const DefaultCommand = "ui"

// StoreFactory creates a Store from config.
// Used to inject the backend during dispatch.
type StoreFactory func(ctx context.Context, cfg *config.Config) (service.Store, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  StoreFactory
	metrics  prometheus.Gatherer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics makes the dispatcher log a per-operation summary of the store
// instruments in g after each store-backed command. The summary goes to the
// --debug logger.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(d *Dispatcher) { d.metrics = g }
}

// NewDispatcher creates a new dispatcher with the given registry and store factory.
func NewDispatcher(registry *commands.Registry, factory StoreFactory, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		factory:  factory,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return d.dispatch(ctx, DefaultCommand, nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Look up command
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Parse flags
	remaining := args[1:]
	return d.dispatchCommand(ctx, cmd, remaining, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	// Parse flags
	if err := fs.Parse(args); err != nil {
		// Handle specific error types
		errStr := err.Error()

		// Check for missing flag value
		if strings.HasPrefix(errStr, "flag needs an argument:") {
			flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
			return exitcode.UserError
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return exitcode.UserError
		}

		// Generic error handling for bad flag values
		if strings.Contains(errStr, "invalid value") {
			fmt.Fprintf(errOut, "error: %s\n", errStr)
			return exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger := diag.Discard
	if debug {
		logger = diag.NewFromConfig(errOut, cfg.EffectiveLogLevel(), cfg.LogFormat)
	}
	logger.Debug("dispatch", "command", cmd.Name(), "backend", cfg.Backend, "config_dir", cfg.Dir)

	var store service.Store
	if cmd.NeedsStore() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no task store configured")
			return exitcode.ConfigError
		}
		store, err = d.factory(ctx, cfg)
		if err != nil {
			if isConfigError(err) {
				fmt.Fprintf(errOut, "error: config error: %s\n", err)
				return exitcode.ConfigError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	code := cmd.Run(ctx, cfg, store, positionalArgs, out, errOut)
	if store != nil && d.metrics != nil {
		observability.LogStoreSummary(logger, d.metrics)
	}
	return code
}

// configErrors are the store construction failures caused by missing or
// bad settings rather than an unreachable backend.
var configErrors = []error{
	rest.ErrNoBaseURL,
	rest.ErrInvalidBaseURL,
	googletasks.ErrNoOAuthClient,
	googletasks.ErrInvalidOAuthClient,
	googletasks.ErrNotLoggedIn,
	googletasks.ErrInvalidToken,
}

func isConfigError(err error) bool {
	for _, target := range configErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
