package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"minitask/internal/config"
	"minitask/internal/exitcode"
	"minitask/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "minitask help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  minitask                                   List tasks
  minitask list [--status <all|pending|completed>] [--search <text>]
  minitask add <title...>
  minitask done <n>
  minitask undo <n>
  minitask edit <n> <title...>
  minitask rm <n>
  minitask dash                              Interactive dashboard
  minitask register <email> <password>
  minitask login <email> <password>
  minitask logout
  minitask whoami
  minitask help
  minitask version

Common flags:
  --config <dir>   Override config directory
  --server <url>   Override server URL (or set MINITASK_SERVER)
  --quiet          Suppress informational output
`
