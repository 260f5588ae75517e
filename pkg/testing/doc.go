// Package testing provides a harness for testing counters without wall-clock
// waits.
//
// # Quick Start
//
// Create a tester with the counter options, then move virtual time:
//
//	func TestCountdown(t *testing.T) {
//	    tester := countertest.NewCounterTester(t, counter.Options{
//	        Start:    10,
//	        Stop:     0,
//	        Interval: 1000,
//	    })
//
//	    tester.Tick(3)
//	    if got := tester.Text(); got != "7.0" {
//	        t.Errorf("text = %q", got)
//	    }
//
//	    tester.RunToCompletion(100)
//	    if !tester.Counter().Destroyed() {
//	        t.Error("expected countdown to finish")
//	    }
//	}
//
// The tester renders into a [target.MemoryTarget], schedules ticks on an
// [animation.FrameScheduler] and installs a [FakeClock] as the animation
// clock that moves in lockstep with the scheduler.
//
// # Snapshots
//
// CaptureSnapshot records the derived parameters, every rendered frame and
// every emitted event. MatchesFile compares it against a golden JSON file;
// run with COUNTER_UPDATE_SNAPSHOTS=1 to rewrite the golden files.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import countertest "github.com/go-drift/counter/pkg/testing"
package testing
