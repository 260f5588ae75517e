package journal

import (
	"io"
	"math/rand"
	"sync"

	"github.com/oklog/ulid/v2"
	pkgerrors "github.com/pkg/errors"

	"github.com/go-drift/counter/pkg/animation"
	"github.com/go-drift/counter/pkg/counter"
	"github.com/go-drift/counter/pkg/errors"
)

// Recorder writes a record for every lifecycle event of the counters it is
// attached to. It is safe for concurrent use. Encoding failures are reported
// through errors.Report with KindJournal and do not affect the counter.
type Recorder struct {
	mu      sync.Mutex
	enc     Encoder
	clock   animation.Clock
	entropy io.Reader
	written int
}

// NewRecorder returns a recorder writing through enc. A nil clock uses the
// animation package clock.
func NewRecorder(enc Encoder, clock animation.Clock) *Recorder {
	if clock == nil {
		clock = animation.SystemClock()
	}
	seed := clock.Now().UnixNano()
	return &Recorder{
		enc:     enc,
		clock:   clock,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
	}
}

// Options returns counter options that journal every event from creation
// on. Pass them to counter.New to capture EventCreate.
func (r *Recorder) Options() []counter.Option {
	opts := make([]counter.Option, 0, len(counter.Events))
	for _, ev := range counter.Events {
		ev := ev
		opts = append(opts, counter.WithListener(ev, func(c *counter.Counter) {
			r.Record(c, ev)
		}))
	}
	return opts
}

// Attach journals every later event of an existing counter. The returned
// function detaches the recorder.
func (r *Recorder) Attach(c *counter.Counter) (detach func()) {
	removers := make([]func(), 0, len(counter.Events))
	for _, ev := range counter.Events {
		ev := ev
		removers = append(removers, c.AddListener(ev, func(c *counter.Counter) {
			r.Record(c, ev)
		}))
	}
	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}

// Record writes one record for event.
func (r *Recorder) Record(c *counter.Counter, event counter.Event) {
	value, text, running := c.Value(), c.Text(), c.Running()

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	id, err := ulid.New(ulid.Timestamp(now), r.entropy)
	if err != nil {
		r.report(c, pkgerrors.Wrap(err, "generate record id"))
		return
	}
	rec := Record{
		ID:      id,
		Counter: c.ID(),
		Event:   event.String(),
		Value:   value,
		Text:    text,
		Running: running,
		Time:    now,
	}
	if err := r.enc.Encode(rec); err != nil {
		r.report(c, err)
		return
	}
	r.written++
}

// Written returns how many records were encoded successfully.
func (r *Recorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

func (r *Recorder) report(c *counter.Counter, err error) {
	errors.Report(&errors.CounterError{
		Op:      "journal.Recorder.Record",
		Kind:    errors.KindJournal,
		Counter: c.ID().String(),
		Err:     err,
	})
}
