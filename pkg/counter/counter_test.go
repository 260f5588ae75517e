package counter_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/counter/pkg/animation"
	"github.com/go-drift/counter/pkg/counter"
	"github.com/go-drift/counter/pkg/errors"
	"github.com/go-drift/counter/pkg/target"
	countertest "github.com/go-drift/counter/pkg/testing"
)

func TestNew_RendersInitialFrame(t *testing.T) {
	tester := countertest.NewCounterTester(t, counter.Options{
		Start:    1200,
		Stop:     350,
		Interval: 3000,
		Step:     counter.Float(100),
		Round:    counter.Int(0),
		Text:     "%counter% HP left!!!",
		AddClass: "hp critical",
	})

	assert.Equal(t, "1200 HP left!!!", tester.Text())
	assert.Equal(t, []string{counter.BaseClass, "hp", "critical"}, tester.Target().Classes())
	assert.Equal(t, []counter.Event{counter.EventCreate, counter.EventStart, counter.EventRefresh}, tester.Events())
	assert.True(t, tester.Counter().Running())
	assert.Equal(t, 1, tester.Scheduler().Pending())
}

func TestCountsUpAndDestroysPastStop(t *testing.T) {
	tester := countertest.NewCounterTester(t, counter.Options{Start: 0, Stop: 100, Interval: 1000})
	c := tester.Counter()
	require.Equal(t, 10.0, c.Params().Step)
	require.Equal(t, 1.0, c.Params().Delta)

	var values []float64
	c.AddListener(counter.EventRefresh, func(c *counter.Counter) {
		values = append(values, c.Value())
	})

	ticks, err := tester.RunToCompletion(1000)
	require.NoError(t, err)

	// 100 is reached but not passed on tick 100; tick 101 passes it.
	assert.Equal(t, 101, ticks)
	assert.Equal(t, 101.0, c.Value())
	for i := 1; i < len(values); i++ {
		assert.Greater(t, values[i], values[i-1])
	}

	history := tester.Target().History()
	assert.Equal(t, "0.00", history[0])
	assert.Equal(t, "1.00", history[1])
	assert.Equal(t, "101.00", history[len(history)-1])

	assert.True(t, c.Destroyed())
	assert.False(t, c.Running())
	assert.Equal(t, "", tester.Text())
	assert.Empty(t, tester.Target().Classes())
	assert.Equal(t, 1, tester.Target().Clears())
	assert.Equal(t, 0, tester.Scheduler().Pending())
	assert.Equal(t, 1, tester.Count(counter.EventDestroy))

	events := tester.Events()
	assert.Equal(t, []counter.Event{counter.EventStop, counter.EventDestroy}, events[len(events)-2:])
}

func TestCountsDown(t *testing.T) {
	tester := countertest.NewCounterTester(t, counter.Options{
		Start:    1200,
		Stop:     350,
		Interval: 3000,
		Step:     counter.Float(100),
		Text:     "%counter% HP left!!!",
		Round:    counter.Int(0),
	})
	c := tester.Counter()
	assert.InDelta(t, 28.3333, c.Params().Delta, 1e-4)

	tester.Tick(1)
	assert.Equal(t, "1172 HP left!!!", tester.Text())

	var last float64
	c.AddListener(counter.EventRefresh, func(c *counter.Counter) {
		if !c.Destroyed() && c.Value() < 350 {
			last = c.Value()
		}
	})
	ticks, err := tester.RunToCompletion(100)
	require.NoError(t, err)

	total := ticks + 1
	assert.True(t, total == 30 || total == 31, "expected 30 or 31 ticks, got %d", total)
	assert.Less(t, last, 350.0)
	assert.Less(t, c.Value(), 350.0)
	assert.True(t, c.Destroyed())
}

func TestUnboundedNeverDestroys(t *testing.T) {
	tester := countertest.NewCounterTester(t, counter.Options{
		Start:    0,
		Stop:     0,
		Interval: 0,
		Step:     counter.Float(1000),
	})
	c := tester.Counter()
	assert.Equal(t, 1.0, c.Params().Delta)
	assert.Equal(t, 0, c.Params().Round)

	fired := tester.Advance(10 * time.Second)
	assert.Equal(t, 10, fired)
	assert.Equal(t, "10", tester.Text())
	assert.False(t, c.Destroyed())

	_, err := tester.RunToCompletion(500)
	assert.ErrorIs(t, err, countertest.ErrNotFinished)
	assert.Equal(t, 510.0, c.Value())

	c.Stop()
	assert.Equal(t, 0, tester.Advance(time.Hour))
	assert.Equal(t, 510.0, c.Value())
}

func TestUnboundedIgnoresSign(t *testing.T) {
	tester := countertest.NewCounterTester(t, counter.Options{Start: -5, Stop: -5, Step: counter.Float(10)})
	tester.Tick(100)
	assert.InDelta(t, -4.0, tester.Counter().Value(), 1e-9, "unbounded counters always count up")
}

func TestStartIsIdempotent(t *testing.T) {
	tester := countertest.NewCounterTester(t, counter.Options{Start: 0, Stop: 10, Interval: 100})
	c := tester.Counter()

	c.Start()
	c.Start()
	assert.Equal(t, 1, tester.Scheduler().Pending())
	assert.Equal(t, 1, tester.Count(counter.EventStart))

	assert.Equal(t, 1, tester.Tick(1))
	assert.Equal(t, 1.0, c.Value(), "a single registration moves one delta per tick")
}

func TestStopIsIdempotent(t *testing.T) {
	tester := countertest.NewCounterTester(t, counter.Options{Start: 0, Stop: 10, Interval: 100})
	c := tester.Counter()

	c.Stop()
	c.Stop()
	assert.Equal(t, 1, tester.Count(counter.EventStop))
	assert.False(t, c.Running())
	assert.Equal(t, 0, tester.Scheduler().Pending())

	c.Start()
	assert.True(t, c.Running())
	assert.Equal(t, 2, tester.Count(counter.EventStart))
	tester.Tick(2)
	assert.Equal(t, 2.0, c.Value(), "restart resumes from the current value")
}

func TestDestroyIsIdempotent(t *testing.T) {
	tester := countertest.NewCounterTester(t, counter.Options{Start: 0, Stop: 10, Interval: 100})
	c := tester.Counter()

	c.Destroy()
	c.Destroy()
	c.Start()
	c.Stop()

	assert.Equal(t, 1, tester.Count(counter.EventDestroy))
	assert.Equal(t, 1, tester.Count(counter.EventStop))
	assert.Equal(t, 1, tester.Count(counter.EventStart))
	assert.Equal(t, 0, tester.Scheduler().Pending())
	assert.Equal(t, 1, tester.Target().Clears())
	assert.Equal(t, 0.0, c.Value(), "value stays readable after destroy")
}

func TestDestroyWhileStopped(t *testing.T) {
	tester := countertest.NewCounterTester(t, counter.Options{Start: 0, Stop: 10, Interval: 100})
	c := tester.Counter()

	c.Stop()
	c.Destroy()
	assert.Equal(t, 1, tester.Count(counter.EventStop), "destroying a stopped counter emits no second fStop")
	assert.Equal(t, counter.EventDestroy, tester.Events()[len(tester.Events())-1])
}

func TestListenerCanReenter(t *testing.T) {
	tester := countertest.NewCounterTester(t, counter.Options{Start: 0, Stop: 100, Interval: 1000})
	c := tester.Counter()

	c.AddListener(counter.EventRefresh, func(c *counter.Counter) {
		if c.Value() >= 5 {
			c.Stop()
		}
	})
	tester.Tick(50)

	assert.Equal(t, 5.0, c.Value())
	assert.False(t, c.Running())
	assert.False(t, c.Destroyed())
}

func TestDestroyFromCreateListener(t *testing.T) {
	tester := countertest.NewCounterTester(t,
		counter.Options{Start: 0, Stop: 10, Interval: 100},
		counter.WithListener(counter.EventCreate, func(c *counter.Counter) { c.Destroy() }),
	)

	assert.Equal(t, []counter.Event{counter.EventCreate, counter.EventDestroy}, tester.Events())
	assert.Empty(t, tester.Target().History(), "a destroyed counter renders nothing")
	assert.Equal(t, 0, tester.Scheduler().Pending())
}

func TestRemoveListener(t *testing.T) {
	tester := countertest.NewCounterTester(t, counter.Options{Start: 0, Stop: 100, Interval: 1000})
	c := tester.Counter()

	var calls int
	remove := c.AddListener(counter.EventRefresh, func(*counter.Counter) { calls++ })
	tester.Tick(2)
	remove()
	remove()
	tester.Tick(2)

	assert.Equal(t, 2, calls)
}

type reportCollector struct {
	errs []*errors.CounterError
}

func (r *reportCollector) HandleError(err *errors.CounterError) { r.errs = append(r.errs, err) }
func (r *reportCollector) HandlePanic(*errors.PanicError)       {}

func TestPanickingListenerIsReported(t *testing.T) {
	collector := &reportCollector{}
	old := errors.DefaultHandler
	errors.SetHandler(collector)
	defer errors.SetHandler(old)

	var after int
	id := uuid.MustParse("6a1f9c1e-7d1b-4b8e-9a7c-2f3c4d5e6f70")
	tester := countertest.NewCounterTester(t,
		counter.Options{Start: 0, Stop: 100, Interval: 1000},
		counter.WithID(id),
		counter.WithListener(counter.EventRefresh, func(*counter.Counter) { panic("listener bug") }),
		counter.WithListener(counter.EventRefresh, func(*counter.Counter) { after++ }),
	)
	tester.Tick(2)

	assert.Equal(t, 3, after, "later listeners still run")
	require.Len(t, collector.errs, 3)
	assert.Equal(t, errors.KindListener, collector.errs[0].Kind)
	assert.Equal(t, id.String(), collector.errs[0].Counter)
	assert.Contains(t, collector.errs[0].Error(), "listener bug")
}

type mockTarget struct{ mock.Mock }

func (m *mockTarget) AddClass(names ...string)    { m.Called(names) }
func (m *mockTarget) RemoveClass(names ...string) { m.Called(names) }
func (m *mockTarget) SetText(text string)         { m.Called(text) }
func (m *mockTarget) Clear()                      { m.Called() }

func TestTargetInteraction(t *testing.T) {
	tgt := &mockTarget{}
	classes := []string{counter.BaseClass, "score"}
	tgt.On("AddClass", classes).Once()
	tgt.On("SetText", "Score: 0").Once()
	tgt.On("SetText", "Score: 1").Once()
	tgt.On("RemoveClass", classes).Once()
	tgt.On("Clear").Once()

	sched := animation.NewFrameScheduler()
	c := counter.New(tgt, sched, counter.Options{
		Start:    0,
		Stop:     3,
		Interval: 300,
		Text:     "Score: %counter%",
		AddClass: "score",
		Round:    counter.Int(0),
	})
	sched.Step()
	c.Destroy()
	sched.Step()

	tgt.AssertExpectations(t)
}

func TestIntervalSchedulerDrivesCounter(t *testing.T) {
	sched := animation.NewIntervalScheduler()
	defer sched.Close()

	var destroyed atomic.Bool
	done := make(chan struct{})
	mem := target.NewMemoryTarget()
	c := counter.New(mem, sched, counter.Options{
		Start:    0,
		Stop:     5,
		Interval: 10,
	}, counter.WithListener(counter.EventDestroy, func(*counter.Counter) {
		destroyed.Store(true)
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("counter did not finish")
	}

	assert.True(t, destroyed.Load())
	assert.Greater(t, c.Value(), 5.0)
	assert.Equal(t, 0, sched.Active())
	assert.Equal(t, "", mem.Text())
}
