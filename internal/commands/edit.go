package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// It drives the same edit cycle as the interactive UI: begin, set text, save.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's text" }
func (c *EditCmd) Usage() string     { return "todo edit <ref> <text...>" }
func (c *EditCmd) NeedsStore() bool  { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintf(errOut, "error: %v\n", ErrTaskRefRequired)
		return exitcode.UserError
	}
	text := strings.Join(args[1:], " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	ctrl := newController(cfg, store, errOut)
	task, code := loadAndResolve(ctx, ctrl, args[:1], errOut)
	if code != exitcode.Success {
		return code
	}

	ctrl.BeginEdit(task.ID, task.Text)
	ctrl.SetEditText(text)
	if code := run(ctx, ctrl, ctrl.SaveEdit(task.ID), errOut); code != exitcode.Success {
		return code
	}
	return ok(cfg, out)
}
