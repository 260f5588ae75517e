package animation

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-drift/counter/pkg/errors"
)

// IntervalScheduler delivers callbacks from wall-clock tickers, one goroutine
// per registration. It is safe for concurrent use.
//
// Callbacks for a single handle never overlap. Callbacks of different handles
// may run concurrently. A panicking callback is reported through
// [errors.ReportPanic] and the registration keeps running.
type IntervalScheduler struct {
	mu      sync.Mutex
	next    Handle
	active  map[Handle]*intervalEntry
	closed  bool
	stopped sync.WaitGroup
}

type intervalEntry struct {
	cancelled atomic.Bool
	stop      chan struct{}
}

// NewIntervalScheduler creates a scheduler backed by time.Ticker.
func NewIntervalScheduler() *IntervalScheduler {
	return &IntervalScheduler{
		active: make(map[Handle]*intervalEntry),
	}
}

// Register implements Scheduler. Registering on a closed scheduler returns a
// handle that never fires.
func (s *IntervalScheduler) Register(callback func(), interval time.Duration) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	h := s.next
	if s.closed || callback == nil {
		return h
	}

	entry := &intervalEntry{stop: make(chan struct{})}
	s.active[h] = entry

	ticker := time.NewTicker(clampInterval(interval))
	s.stopped.Add(1)
	go func() {
		defer s.stopped.Done()
		defer ticker.Stop()
		for {
			select {
			case <-entry.stop:
				return
			case <-ticker.C:
				if entry.cancelled.Load() {
					return
				}
				fire(callback)
			}
		}
	}()
	return h
}

func fire(callback func()) {
	defer errors.Recover("animation.IntervalScheduler.tick")
	callback()
}

// Cancel implements Scheduler.
func (s *IntervalScheduler) Cancel(h Handle) {
	s.mu.Lock()
	entry, ok := s.active[h]
	if ok {
		delete(s.active, h)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	entry.cancelled.Store(true)
	close(entry.stop)
}

// Active returns the number of live registrations.
func (s *IntervalScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Close cancels every registration and waits for their goroutines to exit.
// It must not be called from inside a callback.
func (s *IntervalScheduler) Close() {
	s.mu.Lock()
	s.closed = true
	entries := make([]*intervalEntry, 0, len(s.active))
	for h, entry := range s.active {
		entries = append(entries, entry)
		delete(s.active, h)
	}
	s.mu.Unlock()

	for _, entry := range entries {
		entry.cancelled.Store(true)
		close(entry.stop)
	}
	s.stopped.Wait()
}

var _ Scheduler = (*IntervalScheduler)(nil)
