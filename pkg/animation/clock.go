package animation

import (
	"sync"
	"time"
)

// Clock provides wall time to the scheduling layer and the journal. Tests
// inject a fake clock via SetClock to get deterministic timestamps.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

var (
	clockMu sync.RWMutex
	clock   Clock = realClock{}
)

// SetClock replaces the package clock. Passing nil restores system time.
// Returns the previous clock so callers can restore it during cleanup.
func SetClock(c Clock) Clock {
	clockMu.Lock()
	defer clockMu.Unlock()
	prev := clock
	if c == nil {
		c = realClock{}
	}
	clock = c
	return prev
}

// Now returns the current time from the active clock.
func Now() time.Time {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock.Now()
}

// SystemClock returns the package clock as a Clock value, resolved on every call.
func SystemClock() Clock { return packageClock{} }

type packageClock struct{}

func (packageClock) Now() time.Time { return Now() }
