// Package errors reports failures from a counter's collaborators.
//
// The counter engine itself never returns errors: a misbehaving render target,
// a panicking listener or a journal that cannot write must not stop the tick
// loop. Those failures are packaged as [CounterError] or [PanicError] values
// and handed to the process-wide [ErrorHandler].
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates a configuration loading or decoding failure.
	KindConfig
	// KindRender indicates a render target failed to apply a write.
	KindRender
	// KindListener indicates a lifecycle listener failed.
	KindListener
	// KindScheduler indicates a timer scheduler failure.
	KindScheduler
	// KindJournal indicates a journal record could not be written.
	KindJournal
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindRender:
		return "render"
	case KindListener:
		return "listener"
	case KindScheduler:
		return "scheduler"
	case KindJournal:
		return "journal"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// CounterError is a structured error raised by one of a counter's collaborators.
type CounterError struct {
	// Op is the operation that failed (e.g., "target.WriterTarget.SetText").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Counter is the id of the counter involved, if any.
	Counter string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *CounterError) Error() string {
	if e.Counter != "" {
		return fmt.Sprintf("%s [%s] counter=%s: %v", e.Op, e.Kind, e.Counter, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *CounterError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "animation.IntervalScheduler.tick").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by counters and their collaborators.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *CounterError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
