package track

import (
	"testing"
	"time"
)

func TestTickSchedulerFiresInDeadlineOrder(t *testing.T) {
	start := time.Unix(0, 0)
	sched := NewTickScheduler(start)

	var order []int
	sched.After(30*time.Millisecond, func() { order = append(order, 3) })
	sched.After(10*time.Millisecond, func() { order = append(order, 1) })
	sched.After(20*time.Millisecond, func() { order = append(order, 2) })

	sched.Advance(start.Add(25 * time.Millisecond))
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("after 25ms order = %v, want [1 2]", order)
	}

	sched.Advance(start.Add(40 * time.Millisecond))
	if len(order) != 3 || order[2] != 3 {
		t.Fatalf("after 40ms order = %v, want [1 2 3]", order)
	}
	if sched.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", sched.Pending())
	}
}

func TestTickSchedulerCancel(t *testing.T) {
	start := time.Unix(0, 0)
	sched := NewTickScheduler(start)

	fired := false
	cancel := sched.After(10*time.Millisecond, func() { fired = true })
	cancel()
	cancel() // safe to call twice

	sched.Advance(start.Add(time.Second))
	if fired {
		t.Fatalf("canceled timer fired")
	}
}

func TestTickSchedulerRunsCallbackChains(t *testing.T) {
	start := time.Unix(0, 0)
	sched := NewTickScheduler(start)

	var hops int
	var hop func()
	hop = func() {
		hops++
		if hops < 3 {
			sched.After(10*time.Millisecond, hop)
		}
	}
	sched.After(10*time.Millisecond, hop)

	// One big advance covers all three chained deadlines.
	sched.Advance(start.Add(time.Second))
	if hops != 3 {
		t.Fatalf("hops = %d, want 3", hops)
	}
}
