package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"minitask/internal/client"
	"minitask/internal/config"
	"minitask/internal/exitcode"
	"minitask/internal/service"
	"minitask/internal/session"
	"minitask/internal/task"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct{}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and log in" }
func (c *RegisterCmd) Usage() string     { return "minitask register <email> <password>" }
func (c *RegisterCmd) NeedsAuth() bool   { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}

	sess, err := client.NewAuth(cfg.ServerURL).Register(ctx, args[0], args[1])
	if err != nil {
		if task.IsValidation(err) {
			fmt.Fprintf(errOut, "error: %s\n", err.Error())
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if code := saveSession(cfg, sess, errOut); code != exitcode.Success {
		return code
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "registered as %s\n", sess.Account.Email)
	}
	return exitcode.Success
}

// saveSession persists a fresh session under the config directory.
func saveSession(cfg *config.Config, sess session.Session, errOut io.Writer) int {
	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := session.Save(cfg.SessionPath(), sess); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	return exitcode.Success
}
