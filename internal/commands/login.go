package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"minitask/internal/client"
	"minitask/internal/config"
	"minitask/internal/exitcode"
	"minitask/internal/service"
	"minitask/internal/task"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in to the task server" }
func (c *LoginCmd) Usage() string     { return "minitask login <email> <password>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}

	// A fresh login replaces any stored session.
	sess, err := client.NewAuth(cfg.ServerURL).Login(ctx, args[0], args[1])
	if err != nil {
		if errors.Is(err, client.ErrLoginFailed) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
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
		fmt.Fprintf(out, "logged in as %s\n", sess.Account.Email)
	}
	return exitcode.Success
}
