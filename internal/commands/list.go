package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"minitask/internal/cache"
	"minitask/internal/config"
	"minitask/internal/exitcode"
	"minitask/internal/output"
	"minitask/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `minitask` (no args) and `minitask list`.
type ListCmd struct {
	status string
	search string
}

// SetStatus sets the status filter (for testing).
func (c *ListCmd) SetStatus(status string) {
	c.status = status
}

// SetSearch sets the search text (for testing).
func (c *ListCmd) SetSearch(search string) {
	c.search = search
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "minitask list [--status <all|pending|completed>] [--search <text>]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "all", "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filter, err := parseFilter(c.status)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	// Filter and search narrow what is shown; the counts footer always
	// reflects the full set.
	visible := cache.Visible(tasks, filter, c.search)
	for i, t := range visible {
		output.FormatTask(out, i+1, t)
	}

	if len(visible) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	if len(tasks) > 0 && !cfg.Quiet {
		output.FormatCounts(out, cache.Count(tasks))
	}

	return exitcode.Success
}

// parseFilter maps the --status flag value to a filter.
func parseFilter(s string) (cache.StatusFilter, error) {
	switch s {
	case "", "all":
		return cache.FilterAll, nil
	case "pending":
		return cache.FilterPending, nil
	case "completed":
		return cache.FilterCompleted, nil
	default:
		return cache.FilterAll, fmt.Errorf("invalid status filter: %s", s)
	}
}
