// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"minitask/internal/cache"
	"minitask/internal/task"
)

const (
	// PendingMark and CompletedMark are the status glyphs in list
	// output.
	PendingMark   = "[ ]"
	CompletedMark = "[x]"
)

// FormatTask formats a task line.
// Format: "{N:>4}  {MARK} {TITLE}\n" (4-wide right-aligned number, two
// spaces, status mark, space, title)
func FormatTask(w io.Writer, num int, t task.Task) {
	mark := PendingMark
	if t.Status == task.StatusCompleted {
		mark = CompletedMark
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, mark, normalizeTitle(t.Title))
}

// FormatCounts formats the aggregate footer. Counts always reflect the
// unfiltered set.
func FormatCounts(w io.Writer, c cache.Counts) {
	fmt.Fprintf(w, "%d total, %d pending, %d completed\n", c.Total, c.Pending, c.Completed)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
