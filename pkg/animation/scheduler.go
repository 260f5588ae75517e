// Package animation provides the timing primitives that drive counters.
//
// A [Scheduler] delivers a callback repeatedly at a fixed cadence until the
// registration is cancelled. Two implementations are provided:
//
//   - [IntervalScheduler] uses wall-clock tickers and delivers callbacks on
//     background goroutines. Use it for live displays.
//
//   - [FrameScheduler] keeps virtual time that only moves when the host calls
//     [FrameScheduler.Advance] or [FrameScheduler.Step]. Use it for offline
//     frame rendering and deterministic tests.
//
// # Basic Usage
//
//	sched := animation.NewIntervalScheduler()
//	defer sched.Close()
//
//	h := sched.Register(func() {
//	    fmt.Println("tick")
//	}, animation.Milliseconds(100))
//
//	// Later
//	sched.Cancel(h)
package animation

import (
	"math"
	"time"
)

// MinInterval is the shortest cadence a scheduler will honor. Shorter or
// non-positive intervals are clamped up to it.
const MinInterval = time.Millisecond

// Handle identifies one registration with a Scheduler. The zero Handle
// never refers to a live registration.
type Handle uint64

// Scheduler delivers callbacks repeatedly at a fixed cadence.
type Scheduler interface {
	// Register starts calling callback every interval until the returned
	// handle is cancelled.
	Register(callback func(), interval time.Duration) Handle
	// Cancel stops the registration. Callbacks that have not started yet are
	// never delivered. Cancelling an unknown or cancelled handle is a no-op.
	Cancel(h Handle)
}

// Milliseconds converts a cadence in (possibly fractional) milliseconds to a
// Duration. NaN converts to zero.
func Milliseconds(ms float64) time.Duration {
	if math.IsNaN(ms) {
		return 0
	}
	d := ms * float64(time.Millisecond)
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	if d <= math.MinInt64 {
		return time.Duration(math.MinInt64)
	}
	return time.Duration(d)
}

func clampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	return d
}
