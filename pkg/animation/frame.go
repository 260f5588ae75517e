package animation

import (
	"sync"
	"time"
)

// FrameScheduler is a Scheduler driven by virtual time. Nothing fires until
// the host moves time forward with Advance or Step, and callbacks run on the
// caller's goroutine.
//
// When several callbacks are due they fire in chronological order, and in
// registration order when their due times are equal. Callbacks run without
// the scheduler lock held, so they may register or cancel handles, including
// their own.
type FrameScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	next    Handle
	entries []*frameEntry
}

type frameEntry struct {
	handle   Handle
	callback func()
	interval time.Duration
	due      time.Duration
}

// NewFrameScheduler creates a scheduler whose virtual time starts at zero.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// Register implements Scheduler. The first callback is due one interval after
// the current virtual time.
func (s *FrameScheduler) Register(callback func(), interval time.Duration) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	h := s.next
	if callback == nil {
		return h
	}
	interval = clampInterval(interval)
	s.entries = append(s.entries, &frameEntry{
		handle:   h,
		callback: callback,
		interval: interval,
		due:      s.now + interval,
	})
	return h
}

// Cancel implements Scheduler.
func (s *FrameScheduler) Cancel(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.handle == h {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Advance moves virtual time forward by d, firing every callback that falls
// due on the way. It returns the number of callbacks fired.
func (s *FrameScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	fired := 0
	for {
		s.mu.Lock()
		e := s.nextDue()
		if e == nil || e.due > target {
			s.now = target
			s.mu.Unlock()
			return fired
		}
		cb := s.take(e)
		s.mu.Unlock()

		cb()
		fired++
	}
}

// Step jumps virtual time to the next due callback and fires it. It returns
// false when nothing is registered.
func (s *FrameScheduler) Step() bool {
	s.mu.Lock()
	e := s.nextDue()
	if e == nil {
		s.mu.Unlock()
		return false
	}
	cb := s.take(e)
	s.mu.Unlock()

	cb()
	return true
}

// Elapsed returns the current virtual time.
func (s *FrameScheduler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of live registrations.
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// nextDue returns the earliest due entry. Entries are kept in registration
// order, so the first minimum wins ties. Callers hold s.mu.
func (s *FrameScheduler) nextDue() *frameEntry {
	var best *frameEntry
	for _, e := range s.entries {
		if best == nil || e.due < best.due {
			best = e
		}
	}
	return best
}

// take moves time to e's due time, reschedules it and returns its callback.
// Callers hold s.mu.
func (s *FrameScheduler) take(e *frameEntry) func() {
	s.now = e.due
	e.due += e.interval
	return e.callback
}

var _ Scheduler = (*FrameScheduler)(nil)
