package commands

import (
	"context"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/diag"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/todolist"
)

// newController returns a controller for a one-shot command. Diagnostics go
// to errOut only with --debug; the command prints its own errors otherwise.
func newController(cfg *config.Config, store service.Store, errOut io.Writer) *todolist.Controller {
	var sink diag.Sink = diag.Discard
	if cfg.Debug {
		sink = diag.NewFromConfig(errOut, cfg.EffectiveLogLevel(), cfg.LogFormat)
	}
	return todolist.New(store, sink)
}

// run executes cmd and reports a failed request on errOut.
func run(ctx context.Context, ctrl *todolist.Controller, cmd todolist.Cmd, errOut io.Writer) int {
	msg := ctrl.Run(ctx, cmd)
	if msg == nil {
		return exitcode.Success
	}
	if err := msg.Failure(); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

// loadAndResolve fetches the list and resolves the task reference in args.
func loadAndResolve(ctx context.Context, ctrl *todolist.Controller, args []string, errOut io.Writer) (service.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}

	if code := run(ctx, ctrl, ctrl.Init(), errOut); code != exitcode.Success {
		return service.Task{}, code
	}

	task, err := ref.Resolve(ctrl.State())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}

func ok(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
