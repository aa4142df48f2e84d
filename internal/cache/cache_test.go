package cache

import (
	"testing"
	"time"

	"minitask/internal/clock"
	"minitask/internal/task"
)

func newTestCache(t *testing.T) (*Cache, *clock.FakeClock) {
	t.Helper()
	fc := clock.Fake(time.Unix(1000, 0))
	return New(Config{Clock: fc}), fc
}

func mkTask(id, title string, status task.Status) task.Task {
	return task.Task{ID: id, Title: title, Status: status, Owner: "acct-1"}
}

func TestListLifecycle(t *testing.T) {
	c, _ := newTestCache(t)

	c.BeginList()
	if st := c.Status(); !st.Loading {
		t.Error("BeginList should set Loading")
	}

	c.ReplaceAll([]task.Task{mkTask("1", "a", task.StatusPending)})
	st := c.Status()
	if st.Loading || st.Error || st.Message != "" {
		t.Errorf("after ReplaceAll: %+v", st)
	}
	if got := c.Tasks(); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("tasks = %+v", got)
	}
}

func TestReplaceAllClearsError(t *testing.T) {
	c, _ := newTestCache(t)

	c.Fail("boom")
	c.ReplaceAll(nil)
	if st := c.Status(); st.Error || st.Message != "" {
		t.Errorf("ReplaceAll should clear the error: %+v", st)
	}
}

func TestPatchByID(t *testing.T) {
	c, _ := newTestCache(t)
	c.ReplaceAll([]task.Task{
		mkTask("1", "first", task.StatusPending),
		mkTask("2", "second", task.StatusPending),
	})

	// Create appends at the end.
	c.ApplyCreate(mkTask("3", "third", task.StatusPending))
	if got := c.Tasks(); len(got) != 3 || got[2].ID != "3" {
		t.Errorf("after create: %+v", got)
	}

	// Update replaces only the matching entry.
	c.ApplyUpdate(mkTask("2", "second", task.StatusCompleted))
	got := c.Tasks()
	if got[1].Status != task.StatusCompleted {
		t.Errorf("update did not apply: %+v", got[1])
	}
	if got[0].Status != task.StatusPending || got[2].Status != task.StatusPending {
		t.Error("update clobbered an unrelated entry")
	}

	// Update with an unknown id is a no-op.
	c.ApplyUpdate(mkTask("missing", "ghost", task.StatusCompleted))
	if got := c.Tasks(); len(got) != 3 {
		t.Errorf("no-op update changed length: %d", len(got))
	}

	// Delete removes exactly one entry.
	c.ApplyDelete("1")
	got = c.Tasks()
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Errorf("after delete: %+v", got)
	}
}

func TestFailAutoClears(t *testing.T) {
	c, fc := newTestCache(t)
	c.ReplaceAll([]task.Task{mkTask("1", "a", task.StatusPending)})

	before := len(c.Tasks())
	c.Fail("Task title is required")

	st := c.Status()
	if !st.Error || st.Message == "" {
		t.Fatalf("Fail did not record error: %+v", st)
	}
	if len(c.Tasks()) != before {
		t.Error("failure must not change the sequence")
	}

	// Just before the delay, still visible.
	fc.Advance(DefaultClearDelay - time.Millisecond)
	if st := c.Status(); !st.Error {
		t.Fatal("error cleared early")
	}

	fc.Advance(time.Millisecond)
	st = c.Status()
	if st.Error || st.Message != "" {
		t.Errorf("error did not auto-clear: %+v", st)
	}
}

func TestNewerErrorSupersedesClear(t *testing.T) {
	c, fc := newTestCache(t)

	c.Fail("first")
	fc.Advance(3 * time.Second)
	c.Fail("second")

	// The first error's timer would fire now; it must not clear the
	// second error.
	fc.Advance(2 * time.Second)
	if st := c.Status(); !st.Error || st.Message != "second" {
		t.Fatalf("first timer cleared the superseding error: %+v", st)
	}

	// The second error clears on its own schedule.
	fc.Advance(3 * time.Second)
	if st := c.Status(); st.Error {
		t.Errorf("second error did not clear: %+v", st)
	}
}

func TestFailNotifiesOnTimerClear(t *testing.T) {
	fc := clock.Fake(time.Unix(1000, 0))
	notified := 0
	c := New(Config{Clock: fc, Notify: func() { notified++ }})

	c.Fail("boom")
	if notified != 0 {
		t.Fatal("notify fired before the clear")
	}
	fc.Advance(DefaultClearDelay)
	if notified != 1 {
		t.Fatalf("notified = %d, want 1", notified)
	}

	// A manual Reset does not notify and stops the pending timer.
	c.Fail("again")
	c.Reset()
	fc.Advance(DefaultClearDelay)
	if notified != 1 {
		t.Fatalf("reset path notified = %d, want 1", notified)
	}
}

func TestStaleListReplaceWins(t *testing.T) {
	// Documented race: a list response that started before a mutation
	// may land after it and overwrite the patch. The cache applies the
	// replace unconditionally.
	c, _ := newTestCache(t)
	c.ReplaceAll([]task.Task{mkTask("1", "a", task.StatusPending)})

	c.ApplyUpdate(mkTask("1", "a", task.StatusCompleted))
	c.ReplaceAll([]task.Task{mkTask("1", "a", task.StatusPending)}) // stale payload

	if got := c.Tasks(); got[0].Status != task.StatusPending {
		t.Errorf("stale replace should win: %+v", got[0])
	}
}

func TestClear(t *testing.T) {
	c, fc := newTestCache(t)
	c.ReplaceAll([]task.Task{mkTask("1", "a", task.StatusPending)})
	c.Fail("boom")

	c.Clear()
	if got := c.Tasks(); len(got) != 0 {
		t.Errorf("Clear left %d tasks", len(got))
	}
	if st := c.Status(); st.Error || st.Loading || st.Message != "" {
		t.Errorf("Clear left status %+v", st)
	}

	// The cancelled timer must not resurrect anything.
	fc.Advance(DefaultClearDelay)
	if st := c.Status(); st.Error {
		t.Error("stopped timer fired after Clear")
	}
}
