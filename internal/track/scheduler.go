package track

import (
	"sort"
	"sync"
	"time"
)

// Scheduler suspends work on wall-clock delays without blocking the caller.
// The returned cancel func is safe to call more than once.
type Scheduler interface {
	After(delay time.Duration, fn func()) (cancel func())
}

// TickScheduler is a cooperative scheduler advanced by the simulation loop.
// Timers fire inside Advance, on the loop goroutine, in deadline order.
type TickScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*tickTimer
	nextID uint64
}

type tickTimer struct {
	id       uint64
	deadline time.Time
	fn       func()
	canceled bool
}

// NewTickScheduler starts the scheduler's clock at the given instant.
func NewTickScheduler(now time.Time) *TickScheduler {
	return &TickScheduler{now: now}
}

// After registers fn to run once the scheduler's clock passes the delay.
// A non-positive delay fires on the next Advance.
func (s *TickScheduler) After(delay time.Duration, fn func()) func() {
	if s == nil || fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	timer := &tickTimer{
		id:       s.nextID,
		deadline: s.now.Add(delay),
		fn:       fn,
	}
	s.timers = append(s.timers, timer)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		timer.canceled = true
		s.mu.Unlock()
	}
}

// Pending reports the number of live timers.
func (s *TickScheduler) Pending() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, timer := range s.timers {
		if !timer.canceled {
			count++
		}
	}
	return count
}

// Advance moves the clock forward and fires every due timer in deadline
// order. Callbacks may register new timers; those are honored within the
// same Advance when already due.
func (s *TickScheduler) Advance(now time.Time) {
	if s == nil {
		return
	}

	s.mu.Lock()
	if now.After(s.now) {
		s.now = now
	}
	s.mu.Unlock()

	for {
		timer := s.popDue()
		if timer == nil {
			return
		}
		timer.fn()
	}
}

func (s *TickScheduler) popDue() *tickTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.timers[:0]
	var due *tickTimer
	for _, timer := range s.timers {
		if timer.canceled {
			continue
		}
		live = append(live, timer)
	}
	s.timers = live

	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].deadline.Equal(s.timers[j].deadline) {
			return s.timers[i].id < s.timers[j].id
		}
		return s.timers[i].deadline.Before(s.timers[j].deadline)
	})

	if len(s.timers) > 0 && !s.timers[0].deadline.After(s.now) {
		due = s.timers[0]
		s.timers = s.timers[1:]
	}
	return due
}
