package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"todo/internal/config"
	"todo/internal/diag"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/todolist"
	"todo/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the interactive list. It is the default command.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive list" }
func (c *UICmd) Usage() string     { return "todo [ui]" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	if !ui.IsTTY(out) {
		fmt.Fprintln(errOut, "error: ui requires a terminal (use: todo list)")
		return exitcode.UserError
	}

	// The terminal belongs to the UI; diagnostics go to a file.
	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.ConfigError
	}
	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to open log file: %v\n", err)
		return exitcode.ConfigError
	}
	defer logFile.Close()

	logger := diag.NewFromConfig(logFile, cfg.EffectiveLogLevel(), cfg.LogFormat)
	logger.Info("ui started", "backend", cfg.Backend)

	ctrl := todolist.New(store, logger)
	if err := ui.Run(ctx, ctrl, os.Stdin, out); err != nil {
		// Interrupted by a signal.
		if ctx.Err() != nil {
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
