package clock

import (
	"testing"
	"time"
)

func TestFakeNowAdvance(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := Fake(start)

	if !c.Now().Equal(start) {
		t.Fatalf("Now = %v, want %v", c.Now(), start)
	}
	c.Advance(90 * time.Second)
	if !c.Now().Equal(start.Add(90 * time.Second)) {
		t.Fatalf("Now = %v after Advance", c.Now())
	}
}

func TestFakeAfterFunc(t *testing.T) {
	c := Fake(time.Unix(0, 0))

	fired := 0
	c.AfterFunc(5*time.Second, func() { fired++ })

	c.Advance(4 * time.Second)
	if fired != 0 {
		t.Fatal("callback fired early")
	}
	c.Advance(1 * time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	// Advancing again must not re-fire a one-shot.
	c.Advance(10 * time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d after extra advance, want 1", fired)
	}
}

func TestFakeAfterFuncStop(t *testing.T) {
	c := Fake(time.Unix(0, 0))

	fired := false
	timer := c.AfterFunc(5*time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("Stop on a pending timer should return true")
	}
	c.Advance(10 * time.Second)
	if fired {
		t.Fatal("stopped timer fired")
	}
	if timer.Stop() {
		t.Fatal("second Stop should return false")
	}
}

func TestFakeAfterFuncImmediate(t *testing.T) {
	c := Fake(time.Unix(0, 0))
	fired := false
	c.AfterFunc(0, func() { fired = true })
	if !fired {
		t.Fatal("zero-duration AfterFunc should run synchronously")
	}
}

func TestFakeAfterOrdering(t *testing.T) {
	c := Fake(time.Unix(0, 0))

	var order []int
	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	c.Advance(5 * time.Second)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("callbacks fired in order %v, want [1 2 3]", order)
	}
}
