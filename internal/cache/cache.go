// Package cache holds the client's local mirror of the server's task
// set plus the request-status state machine: loading, success, and a
// transient error that clears itself after a fixed delay.
//
// The sequence is only ever replaced wholesale (after a successful
// list fetch) or patched by exactly one element matching a confirmed
// mutation. Nothing is applied optimistically. Known ordering gap,
// kept on purpose: a list fetch in flight while a mutation completes
// may replace the sequence with data that predates the mutation; the
// next fetch converges. ReplaceAll does not attempt reconciliation.
package cache

import (
	"strings"
	"sync"
	"time"

	"minitask/internal/clock"
	"minitask/internal/task"
)

// DefaultClearDelay is how long a transient error stays visible before
// it clears itself.
const DefaultClearDelay = 5 * time.Second

// Status is the request-status record surfaced to the UI.
type Status struct {
	Loading bool
	Error   bool
	Message string
}

// Config holds the parameters for a Cache.
type Config struct {
	// Clock schedules the error auto-clear. Required.
	Clock clock.Clock

	// ClearDelay overrides DefaultClearDelay if non-zero.
	ClearDelay time.Duration

	// Notify, if set, is called (without the cache lock held) after a
	// timer-driven clear so the UI can repaint. Mutating calls made
	// by the UI itself do not notify; the UI already knows.
	Notify func()
}

// Cache is safe for concurrent use: the UI loop and the clear timer
// touch it from different goroutines.
type Cache struct {
	mu         sync.Mutex
	clock      clock.Clock
	clearDelay time.Duration
	notify     func()

	tasks  []task.Task
	status Status

	// errGen identifies the current error. The scheduled clear only
	// applies if no newer error superseded it; a newer error stops
	// the old timer and schedules its own.
	errGen     int
	clearTimer *clock.Timer
}

// New creates an empty cache.
func New(cfg Config) *Cache {
	if cfg.Clock == nil {
		panic("cache: Clock is required")
	}
	delay := cfg.ClearDelay
	if delay == 0 {
		delay = DefaultClearDelay
	}
	return &Cache{
		clock:      cfg.Clock,
		clearDelay: delay,
		notify:     cfg.Notify,
	}
}

// BeginList marks a list fetch as in flight.
func (c *Cache) BeginList() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Loading = true
}

// ReplaceAll installs the fetched sequence wholesale and clears both
// the loading flag and any visible error. The replace is unconditional
// even if a mutation patched the cache while the fetch was in flight
// (see the package comment).
func (c *Cache) ReplaceAll(tasks []task.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append([]task.Task(nil), tasks...)
	c.status.Loading = false
	c.clearErrorLocked()
}

// ApplyCreate appends a server-confirmed new task. Display order is
// derived by the views, not by the cache.
func (c *Cache) ApplyCreate(t task.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, t)
}

// ApplyUpdate replaces the entry whose id matches the confirmed task.
// A miss is a no-op; it can only happen if a stale list replace removed
// the entry first.
func (c *Cache) ApplyUpdate(t task.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == t.ID {
			c.tasks[i] = t
			return
		}
	}
}

// ApplyDelete removes the entry with the confirmed id.
func (c *Cache) ApplyDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return
		}
	}
}

// Fail records a failure (remote or local pre-submit) and schedules
// the auto-clear. A failure arriving while an older one is still
// visible supersedes it: the older clear is cancelled, not stacked.
func (c *Cache) Fail(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status.Loading = false
	c.status.Error = true
	c.status.Message = message

	if c.clearTimer != nil {
		c.clearTimer.Stop()
	}
	c.errGen++
	gen := c.errGen
	c.clearTimer = c.clock.AfterFunc(c.clearDelay, func() {
		c.expire(gen)
	})
}

// expire is the timer callback: clear the error unless a newer one
// took its place.
func (c *Cache) expire(gen int) {
	c.mu.Lock()
	if gen != c.errGen || !c.status.Error {
		c.mu.Unlock()
		return
	}
	c.status.Error = false
	c.status.Message = ""
	c.clearTimer = nil
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Reset clears the status record immediately (user dismissed the
// error, or a new screen took over).
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Loading = false
	c.clearErrorLocked()
}

// Clear drops everything: sequence, status, pending timer. Called when
// the dashboard shuts down, so no clear timer outlives its screen.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = nil
	c.status = Status{}
	c.clearErrorLocked()
}

// Tasks returns a copy of the cached sequence.
func (c *Cache) Tasks() []task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]task.Task(nil), c.tasks...)
}

// Status returns the current status record.
func (c *Cache) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Cache) clearErrorLocked() {
	c.status.Error = false
	c.status.Message = ""
	if c.clearTimer != nil {
		c.clearTimer.Stop()
		c.clearTimer = nil
	}
	c.errGen++
}

// caseFoldContains reports whether title contains needle, ignoring
// case. Shared by the views.
func caseFoldContains(title, needle string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(needle))
}
