package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                   Open the interactive list
  todo ui [common flags]
  todo list [common flags] [--ids]       Print all tasks (alias: ls)
  todo add [common flags] <text...>      Create a task (alias: create)
  todo toggle [common flags] <ref>       Flip completed (alias: done)
  todo edit [common flags] <ref> <text...>
  todo rm [common flags] <ref>           Delete a task (alias: delete)
  todo serve [common flags] [--addr <host:port>]
  todo login [common flags]
  todo logout [common flags]
  todo help
  todo version

A <ref> is a task number as printed by list, or a task id.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TODO_API_URL     REST API base URL (overrides api_url)
  TODO_API_TOKEN   Bearer token for the REST API
  TODO_BACKEND     rest or google
  TODO_TASK_LIST   Google Tasks list id
  TODO_LOG_LEVEL   debug, info, warn or error
`
