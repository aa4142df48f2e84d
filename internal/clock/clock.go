// Package clock abstracts timer scheduling so the cache's transient
// error auto-clear can be driven deterministically in tests. Production
// code injects Real(); tests inject Fake() and call Advance.
package clock

import "time"

// Clock provides the subset of the time package this project schedules
// against. Code that needs time.Now or time.AfterFunc takes a Clock
// instead of calling the time package directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc schedules f to run after duration d. The returned
	// Timer cancels the pending call via Stop.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a scheduled AfterFunc call. Stop prevents it from firing if
// it has not fired yet.
type Timer struct {
	stopFunc func() bool
}

// Stop cancels the timer. Returns true if the call prevented the
// function from running, false if it already ran or was stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }
