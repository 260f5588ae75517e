// Package journal records counter lifecycle events to a stream.
//
// A [Recorder] subscribes to every event of a counter and writes one
// [Record] per notification through an [Encoder]. Two encodings exist: a
// compact CBOR stream with integer keys, and JSON lines for tooling. A
// [Reader] decodes either back into records.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	pkgerrors "github.com/pkg/errors"
)

// Record is one journaled lifecycle notification.
type Record struct {
	// ID orders records; ids from one Recorder are strictly increasing.
	ID ulid.ULID `cbor:"1,keyasint" json:"id"`
	// Counter is the id of the counter that emitted the event.
	Counter uuid.UUID `cbor:"2,keyasint" json:"counter"`
	// Event is the lifecycle event name.
	Event string `cbor:"3,keyasint" json:"event"`
	// Value is the counter value at emission.
	Value float64 `cbor:"4,keyasint" json:"value"`
	// Text is the text on the target at emission.
	Text string `cbor:"5,keyasint,omitempty" json:"text,omitempty"`
	// Running reports whether the tick loop was registered.
	Running bool `cbor:"6,keyasint" json:"running"`
	// Time is when the record was taken.
	Time time.Time `cbor:"7,keyasint" json:"time"`
}

// String formats the record for terminal output.
func (r Record) String() string {
	state := "stopped"
	if r.Running {
		state = "running"
	}
	s := fmt.Sprintf("%s %s %-8s value=%v %s",
		r.Time.Format("15:04:05.000"), shortID(r.Counter), r.Event, r.Value, state)
	if r.Text != "" {
		s += fmt.Sprintf(" text=%q", r.Text)
	}
	return s
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// Format selects a journal encoding.
type Format string

const (
	// FormatCBOR is a stream of CBOR maps with integer keys.
	FormatCBOR Format = "cbor"
	// FormatJSONL is one JSON object per line.
	FormatJSONL Format = "jsonl"
)

// ParseFormat parses a format name, case-insensitively. "json" is accepted
// for FormatJSONL.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cbor", "":
		return FormatCBOR, nil
	case "jsonl", "json":
		return FormatJSONL, nil
	default:
		return "", pkgerrors.Errorf("unknown journal format %q (use cbor or jsonl)", s)
	}
}
