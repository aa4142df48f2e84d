package cache

import "minitask/internal/task"

// StatusFilter selects which completion states are visible.
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterPending
	FilterCompleted
)

// String returns the filter's display label.
func (f StatusFilter) String() string {
	switch f {
	case FilterPending:
		return "pending"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// Next cycles through the three filters.
func (f StatusFilter) Next() StatusFilter {
	return (f + 1) % 3
}

// Matches reports whether a task with status s passes the filter.
func (f StatusFilter) Matches(s task.Status) bool {
	switch f {
	case FilterPending:
		return s == task.StatusPending
	case FilterCompleted:
		return s == task.StatusCompleted
	default:
		return true
	}
}

// Visible applies the status filter and the case-insensitive title
// search conjunctively. An empty search matches everything. The input
// order is preserved.
func Visible(tasks []task.Task, filter StatusFilter, search string) []task.Task {
	out := []task.Task{}
	for _, t := range tasks {
		if !filter.Matches(t.Status) {
			continue
		}
		if search != "" && !caseFoldContains(t.Title, search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Counts are aggregate totals computed over the unfiltered sequence,
// independent of any active filter or search.
type Counts struct {
	Total     int
	Pending   int
	Completed int
}

// Count tallies the full sequence. Pending + Completed == Total always
// holds while the status enum stays two-valued.
func Count(tasks []task.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status == task.StatusCompleted {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}
