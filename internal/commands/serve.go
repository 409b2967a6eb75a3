package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/devserver"
	"todo/internal/diag"
	"todo/internal/exitcode"
	"todo/internal/service"
)

// DefaultServeAddr is where serve listens without --addr.
const DefaultServeAddr = "localhost:5000"

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the in-memory development API.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run an in-memory todo API for development" }
func (c *ServeCmd) Usage() string     { return "todo serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsStore() bool  { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", DefaultServeAddr, "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.addr == "" {
		c.addr = DefaultServeAddr
	}

	logger := diag.NewFromConfig(errOut, cfg.EffectiveLogLevel(), cfg.LogFormat)
	srv := devserver.New(devserver.WithLogger(logger))

	if !cfg.Quiet {
		fmt.Fprintf(out, "listening on http://%s\n", c.addr)
	}
	if err := srv.ListenAndServe(ctx, c.addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
