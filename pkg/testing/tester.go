package testing

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/counter/pkg/animation"
	"github.com/go-drift/counter/pkg/counter"
	"github.com/go-drift/counter/pkg/target"
)

// ErrNotFinished is returned when RunToCompletion exhausts its tick budget
// before the counter destroys itself.
var ErrNotFinished = errors.New("RunToCompletion: counter still running after tick budget")

// CounterTester runs one counter on virtual time and records every lifecycle
// event it emits.
type CounterTester struct {
	target    *target.MemoryTarget
	scheduler *animation.FrameScheduler
	clock     *FakeClock
	prevClock animation.Clock
	counter   *counter.Counter

	mu     sync.Mutex
	events []counter.Event
}

// NewCounterTester creates the counter and registers cleanup with t.
func NewCounterTester(t testing.TB, opts counter.Options, options ...counter.Option) *CounterTester {
	tester := NewCounterTesterWithoutT(opts, options...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// NewCounterTesterWithoutT creates the counter. Call Cleanup when done.
func NewCounterTesterWithoutT(opts counter.Options, options ...counter.Option) *CounterTester {
	tester := &CounterTester{
		target:    target.NewMemoryTarget(),
		scheduler: animation.NewFrameScheduler(),
		clock:     NewFakeClock(),
	}
	tester.prevClock = animation.SetClock(tester.clock)

	recorders := make([]counter.Option, 0, len(counter.Events)+len(options))
	for _, ev := range counter.Events {
		ev := ev
		recorders = append(recorders, counter.WithListener(ev, func(*counter.Counter) {
			tester.record(ev)
		}))
	}
	tester.counter = counter.New(tester.target, tester.scheduler, opts, append(recorders, options...)...)
	return tester
}

// Cleanup destroys the counter and restores the animation clock.
func (t *CounterTester) Cleanup() {
	t.counter.Destroy()
	animation.SetClock(t.prevClock)
}

// Counter returns the counter under test.
func (t *CounterTester) Counter() *counter.Counter { return t.counter }

// Target returns the memory target the counter renders into.
func (t *CounterTester) Target() *target.MemoryTarget { return t.target }

// Scheduler returns the virtual-time scheduler.
func (t *CounterTester) Scheduler() *animation.FrameScheduler { return t.scheduler }

// Clock returns the fake clock installed as the animation clock.
func (t *CounterTester) Clock() *FakeClock { return t.clock }

// Text returns the target's current content.
func (t *CounterTester) Text() string { return t.target.Text() }

// Tick fires up to n scheduled ticks and returns how many fired.
func (t *CounterTester) Tick(n int) int {
	fired := 0
	for fired < n {
		before := t.scheduler.Elapsed()
		if !t.scheduler.Step() {
			break
		}
		t.clock.Advance(t.scheduler.Elapsed() - before)
		fired++
	}
	return fired
}

// Advance moves virtual time forward by d and returns the ticks fired.
func (t *CounterTester) Advance(d time.Duration) int {
	t.clock.Advance(d)
	return t.scheduler.Advance(d)
}

// RunToCompletion ticks until the counter destroys itself, at most maxTicks
// times. It returns the ticks fired.
func (t *CounterTester) RunToCompletion(maxTicks int) (int, error) {
	fired := 0
	for !t.counter.Destroyed() {
		if fired >= maxTicks || t.Tick(1) == 0 {
			return fired, ErrNotFinished
		}
		fired++
	}
	return fired, nil
}

// Events returns every event emitted so far, in order.
func (t *CounterTester) Events() []counter.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]counter.Event, len(t.events))
	copy(out, t.events)
	return out
}

// Count returns how many times event was emitted.
func (t *CounterTester) Count(event counter.Event) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, ev := range t.events {
		if ev == event {
			n++
		}
	}
	return n
}

func (t *CounterTester) record(ev counter.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, ev)
}
