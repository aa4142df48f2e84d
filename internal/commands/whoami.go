package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"minitask/internal/config"
	"minitask/internal/exitcode"
	"minitask/internal/service"
	"minitask/internal/session"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the logged-in account's email.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the logged-in account" }
func (c *WhoamiCmd) Usage() string     { return "minitask whoami" }
func (c *WhoamiCmd) NeedsAuth() bool   { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !cfg.HasSession() {
		fmt.Fprintln(errOut, "error: not logged in (run: minitask login)")
		return exitcode.AuthError
	}

	sess, err := session.Load(cfg.SessionPath())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	fmt.Fprintln(out, sess.Account.Email)
	return exitcode.Success
}
