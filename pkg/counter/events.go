package counter

import (
	"fmt"

	"github.com/go-drift/counter/pkg/errors"
)

// Event names a lifecycle notification.
type Event string

const (
	// EventCreate fires once, from New, before the counter starts.
	EventCreate Event = "create"
	// EventStart fires each time the tick loop starts.
	EventStart Event = "fStart"
	// EventStop fires each time the tick loop stops.
	EventStop Event = "fStop"
	// EventRefresh fires after every render.
	EventRefresh Event = "refresh"
	// EventDestroy fires once, as the last notification of a counter.
	EventDestroy Event = "destroy"
)

// Events lists every lifecycle event in emission order of a full run.
var Events = []Event{EventCreate, EventStart, EventRefresh, EventStop, EventDestroy}

func (e Event) String() string { return string(e) }

// Listener observes a lifecycle event. It may call back into the counter.
type Listener func(c *Counter)

type listenerEntry struct {
	id int
	fn Listener
}

// AddListener registers fn for event and returns a function removing it.
// Listeners for the same event run in registration order.
func (c *Counter) AddListener(event Event, fn Listener) (remove func()) {
	c.lmu.Lock()
	defer c.lmu.Unlock()
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[event] = append(c.listeners[event], listenerEntry{id: id, fn: fn})
	return func() {
		c.lmu.Lock()
		defer c.lmu.Unlock()
		entries := c.listeners[event]
		for i, e := range entries {
			if e.id == id {
				c.listeners[event] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

// emit notifies listeners of event. It must be called without c.mu held.
func (c *Counter) emit(event Event) {
	c.lmu.Lock()
	entries := c.listeners[event]
	c.lmu.Unlock()

	c.log.Debug().Str("event", event.String()).Float64("value", c.Value()).Msg("counter event")
	for _, e := range entries {
		c.notify(event, e.fn)
	}
}

func (c *Counter) notify(event Event, fn Listener) {
	defer func() {
		if r := recover(); r != nil {
			errors.Report(&errors.CounterError{
				Op:         "counter.emit",
				Kind:       errors.KindListener,
				Counter:    c.id.String(),
				Err:        fmt.Errorf("%s listener panicked: %v", event, r),
				StackTrace: errors.CaptureStack(),
			})
		}
	}()
	fn(c)
}
