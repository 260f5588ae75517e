package errors

import (
	"os"

	"github.com/rs/zerolog"
)

// LogHandler is an ErrorHandler that logs through zerolog.
// The zero value logs to stderr.
type LogHandler struct {
	// Logger receives the entries. Nil means a stderr logger.
	Logger *zerolog.Logger
	// Verbose adds stack traces to the entries.
	Verbose bool
}

// NewLogHandler returns a LogHandler writing to the given logger.
func NewLogHandler(logger zerolog.Logger, verbose bool) *LogHandler {
	return &LogHandler{Logger: &logger, Verbose: verbose}
}

func (h *LogHandler) logger() *zerolog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	return &l
}

// HandleError logs a CounterError.
func (h *LogHandler) HandleError(err *CounterError) {
	if err == nil {
		return
	}
	ev := h.logger().Error().
		Err(err.Err).
		Str("op", err.Op).
		Stringer("kind", err.Kind)
	if err.Counter != "" {
		ev = ev.Str("counter", err.Counter)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("counter error")
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	ev := h.logger().Error().Interface("panic", err.Value)
	if err.Op != "" {
		ev = ev.Str("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("counter panic")
}
