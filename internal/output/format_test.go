package output

import (
	"bytes"
	"testing"
	"time"

	"minitask/internal/cache"
	"minitask/internal/task"
	"minitask/internal/testutil"
)

func sampleTask(title string, status task.Status) task.Task {
	return task.Task{
		ID:        "task-1",
		Title:     title,
		Status:    status,
		Owner:     "acct-1",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestListOutput(t *testing.T) {
	var buf bytes.Buffer

	FormatTask(&buf, 1, sampleTask("Buy milk", task.StatusPending))
	FormatTask(&buf, 2, sampleTask("Walk dog", task.StatusCompleted))
	FormatTask(&buf, 3, sampleTask("Line1\nLine2", task.StatusPending))
	FormatCounts(&buf, cache.Counts{Total: 3, Pending: 2, Completed: 1})

	testutil.Golden(t, "list_output", buf.Bytes())
}

func TestFormatTaskUntitled(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, 1, sampleTask("   ", task.StatusPending))
	if got := buf.String(); got != "   1  [ ] (untitled)\n" {
		t.Errorf("got %q", got)
	}
}

func TestFormatTaskWideNumber(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, 12345, sampleTask("Big list", task.StatusPending))
	if got := buf.String(); got != "12345  [ ] Big list\n" {
		t.Errorf("got %q", got)
	}
}
