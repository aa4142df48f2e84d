package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"minitask/internal/cache"
	"minitask/internal/clock"
	"minitask/internal/config"
	"minitask/internal/exitcode"
	"minitask/internal/service"
	"minitask/internal/ui"
)

func init() {
	Register(&DashboardCmd{})
}

// DashboardCmd runs the interactive dashboard.
type DashboardCmd struct{}

func (c *DashboardCmd) Name() string      { return "dash" }
func (c *DashboardCmd) Aliases() []string { return []string{"dashboard"} }
func (c *DashboardCmd) Synopsis() string  { return "Interactive dashboard" }
func (c *DashboardCmd) Usage() string     { return "minitask dash" }
func (c *DashboardCmd) NeedsAuth() bool   { return true }

func (c *DashboardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DashboardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// The error auto-clear fires on a timer goroutine; it has to wake
	// the program so the repaint is not deferred to the next keypress.
	var mu sync.Mutex
	var program *tea.Program

	ca := cache.New(cache.Config{
		Clock: clock.Real(),
		Notify: func() {
			mu.Lock()
			p := program
			mu.Unlock()
			if p != nil {
				p.Send(ui.StatusClearedMsg{})
			}
		},
	})

	m := ui.New(svc, ca)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(out), tea.WithContext(ctx))
	mu.Lock()
	program = p
	mu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
