package target

import (
	"io"
	"sync"

	"github.com/go-drift/counter/pkg/errors"
)

// Control sequences that rewrite the current terminal line in place.
const (
	carriageReturn = "\r"
	eraseToEOL     = "\x1b[K"
)

// WriterTarget renders onto a single terminal line: every frame rewrites the
// line in place. Classes are tracked but never printed.
//
// Write failures are reported through errors.Report with KindRender.
type WriterTarget struct {
	mu      sync.Mutex
	w       io.Writer
	classes Classes
}

// NewWriterTarget returns a WriterTarget writing to w.
func NewWriterTarget(w io.Writer) *WriterTarget {
	return &WriterTarget{w: w}
}

// AddClass implements Target.
func (t *WriterTarget) AddClass(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.classes.Add(names...)
}

// RemoveClass implements Target.
func (t *WriterTarget) RemoveClass(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.classes.Remove(names...)
}

// Classes returns the current class names.
func (t *WriterTarget) Classes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.classes.Names()
}

// SetText implements Target.
func (t *WriterTarget) SetText(text string) {
	t.write("target.WriterTarget.SetText", carriageReturn+text+eraseToEOL)
}

// Clear implements Target.
func (t *WriterTarget) Clear() {
	t.write("target.WriterTarget.Clear", carriageReturn+eraseToEOL)
}

func (t *WriterTarget) write(op, s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.w, s); err != nil {
		errors.Report(&errors.CounterError{
			Op:   op,
			Kind: errors.KindRender,
			Err:  err,
		})
	}
}

var _ Target = (*WriterTarget)(nil)
