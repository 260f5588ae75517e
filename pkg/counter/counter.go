// Package counter animates a number between two values and renders it as
// text into a [target.Target].
//
// A counter computes a fixed per-tick delta from its [Options], registers a
// tick with an [animation.Scheduler] and, on every tick, moves its value one
// delta toward the stop value, renders it and checks whether the stop value
// has been passed. Once passed, the counter destroys itself. A counter whose
// start and stop values are equal counts up until it is stopped.
//
// # Lifecycle
//
//	New ──► create ──► fStart ──► refresh (initial frame)
//	           ┌──────────────────────┐
//	           ▼                      │
//	        refresh ── goal passed? ──┘ no
//	           │ yes
//	           ▼
//	        fStop ──► destroy
//
// Start, Stop and Destroy are safe to call in any state and any number of
// times. After Destroy the counter ignores Start, Stop and ticks; Value and
// the other accessors keep answering.
//
// # Concurrency
//
// All methods are safe for concurrent use. Target writes happen while the
// counter's lock is held; listeners run without it and may call back into
// the counter.
package counter

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-drift/counter/pkg/animation"
	"github.com/go-drift/counter/pkg/target"
)

// Counter is one running (or finished) counter display.
type Counter struct {
	mu        sync.Mutex
	target    target.Target
	sched     animation.Scheduler
	opts      Options
	params    Params
	tmpl      string
	classes   []string
	current   float64
	text      string
	handle    animation.Handle
	gen       uint64
	destroyed bool

	id  uuid.UUID
	log zerolog.Logger

	lmu            sync.Mutex
	listeners      map[Event][]listenerEntry
	nextListenerID int
}

// Option customizes a Counter in New.
type Option func(*Counter)

// WithListener registers a listener before the counter emits anything, so it
// also observes EventCreate and the first EventStart.
func WithListener(event Event, fn Listener) Option {
	return func(c *Counter) {
		c.AddListener(event, fn)
	}
}

// WithLogger sets the logger lifecycle events are written to at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Counter) {
		c.log = l
	}
}

// WithID overrides the randomly generated counter id.
func WithID(id uuid.UUID) Option {
	return func(c *Counter) {
		c.id = id
	}
}

// New creates a counter on t, emits EventCreate, starts it on s and renders
// the first frame showing opts.Start.
func New(t target.Target, s animation.Scheduler, opts Options, options ...Option) *Counter {
	c := &Counter{
		target:    t,
		sched:     s,
		opts:      opts,
		params:    opts.Derive(),
		tmpl:      opts.template(),
		current:   opts.Start,
		id:        uuid.New(),
		log:       zerolog.Nop(),
		listeners: make(map[Event][]listenerEntry),
	}
	for _, o := range options {
		o(c)
	}
	c.log = c.log.With().Str("counter", c.id.String()).Logger()
	c.classes = append([]string{BaseClass}, target.SplitClasses(opts.AddClass)...)

	c.log.Debug().
		Float64("start", opts.Start).
		Float64("stop", opts.Stop).
		Float64("step", c.params.Step).
		Float64("delta", c.params.Delta).
		Int("round", c.params.Round).
		Msg("counter created")

	c.target.AddClass(c.classes...)
	c.emit(EventCreate)
	c.Start()

	c.mu.Lock()
	live := !c.destroyed
	if live {
		c.render()
	}
	c.mu.Unlock()
	if live {
		c.emit(EventRefresh)
	}
	return c
}

// Start registers the tick loop. It does nothing while the counter is
// running or after it was destroyed.
func (c *Counter) Start() {
	c.mu.Lock()
	if c.destroyed || c.handle != 0 {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	c.handle = c.sched.Register(func() { c.tick(gen) }, animation.Milliseconds(c.params.Step))
	c.mu.Unlock()

	c.emit(EventStart)
}

// Stop cancels the tick loop. It does nothing while the counter is stopped.
func (c *Counter) Stop() {
	c.mu.Lock()
	stopped := c.cancel()
	c.mu.Unlock()

	if stopped {
		c.emit(EventStop)
	}
}

// Destroy removes the counter's classes, stops it, clears the target and
// emits EventDestroy. Later calls do nothing.
func (c *Counter) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.target.RemoveClass(c.classes...)
	stopped := c.cancel()
	c.mu.Unlock()

	if stopped {
		c.emit(EventStop)
	}

	c.mu.Lock()
	c.target.Clear()
	c.text = ""
	c.mu.Unlock()

	c.emit(EventDestroy)
}

// Value returns the current value.
func (c *Counter) Value() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Text returns the text last written to the target, or "" once destroyed.
func (c *Counter) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Running reports whether the tick loop is registered.
func (c *Counter) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != 0
}

// Destroyed reports whether Destroy has run.
func (c *Counter) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Params returns the derived parameters.
func (c *Counter) Params() Params { return c.params }

// Options returns the options the counter was created with.
func (c *Counter) Options() Options { return c.opts }

// ID returns the counter's identity.
func (c *Counter) ID() uuid.UUID { return c.id }

// tick is the scheduler callback. gen pins it to the Start call that
// registered it, so a tick racing a Stop/Start pair is dropped.
func (c *Counter) tick(gen uint64) {
	c.mu.Lock()
	if c.destroyed || c.handle == 0 || c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.advance()
	c.render()
	passed := c.passedGoal()
	c.mu.Unlock()

	c.emit(EventRefresh)
	if passed {
		c.log.Debug().Float64("value", c.Value()).Msg("goal passed")
		c.Destroy()
	}
}

// advance moves the value one delta toward the stop value. Callers hold c.mu.
func (c *Counter) advance() {
	switch {
	case c.opts.Start == c.opts.Stop:
		c.current += c.params.Delta
	case c.opts.Start < c.opts.Stop:
		c.current += c.params.Delta
	default:
		c.current -= c.params.Delta
	}
}

// passedGoal reports whether a bounded counter moved beyond its stop value.
// Callers hold c.mu.
func (c *Counter) passedGoal() bool {
	switch {
	case c.opts.Start < c.opts.Stop:
		return c.current > c.opts.Stop
	case c.opts.Start > c.opts.Stop:
		return c.current < c.opts.Stop
	default:
		return false
	}
}

// render writes the formatted value to the target. Callers hold c.mu.
func (c *Counter) render() {
	c.text = Render(c.tmpl, c.current, c.params.Round)
	c.target.SetText(c.text)
}

// cancel unregisters the tick loop and reports whether it was running.
// Callers hold c.mu.
func (c *Counter) cancel() bool {
	if c.handle == 0 {
		return false
	}
	c.sched.Cancel(c.handle)
	c.handle = 0
	return true
}
