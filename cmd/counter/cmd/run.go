package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/go-drift/counter/cmd/counter/internal/config"
	"github.com/go-drift/counter/pkg/animation"
	"github.com/go-drift/counter/pkg/counter"
	"github.com/go-drift/counter/pkg/journal"
	"github.com/go-drift/counter/pkg/target"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Animate a counter in the terminal",
		Long: `Animate a counter on the current terminal line until it passes its stop
value. A counter whose start equals its stop runs until interrupted.

Ctrl+C destroys the counter and exits cleanly.

Flags:
  --start N            Initial value
  --stop N             Goal value
  --interval MS        Milliseconds to travel from start to stop
  --step MS|auto       Milliseconds between ticks
  --round N|auto       Fraction digits
  --text TEMPLATE      Template containing %counter%
  --add-class NAMES    Extra classes for the target
  --journal PATH       Record lifecycle events to PATH
  --journal-format F   cbor (default) or jsonl
  --log-level LEVEL    trace, debug, info, warn or error
  --verbose            Include stack traces in error logs`,
		Usage: "counter run [--start N] [--stop N] [--interval MS] [--journal PATH]",
		Run:   runRun,
	})
}

func runRun(args []string) error {
	res, err := loadSettings()
	if err != nil {
		return err
	}

	fs := newFlagSet("run")
	bindCounterFlags(fs, &res.Options)
	bindLogFlags(fs, res)
	fs.StringVar(&res.JournalPath, "journal", res.JournalPath, "record lifecycle events to this file")
	fs.Func("journal-format", "cbor or jsonl", func(s string) error {
		format, err := journal.ParseFormat(s)
		if err != nil {
			return err
		}
		res.JournalFormat = format
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := setupLogging(res)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCounter(ctx, stdout, logger, res)
}

// runCounter animates one counter on w until it destroys itself or ctx is
// cancelled.
func runCounter(ctx context.Context, w io.Writer, logger zerolog.Logger, res *config.Resolved) error {
	options := []counter.Option{counter.WithLogger(logger)}

	if res.JournalPath != "" {
		f, err := os.Create(res.JournalPath)
		if err != nil {
			return pkgerrors.Wrap(err, "open journal")
		}
		defer f.Close()
		enc, err := journal.NewEncoder(f, res.JournalFormat)
		if err != nil {
			return err
		}
		options = append(options, journal.NewRecorder(enc, nil).Options()...)
		logger.Debug().Str("path", res.JournalPath).Str("format", string(res.JournalFormat)).Msg("journal enabled")
	}

	// The target is cleared on destroy; keep the last frame for the
	// scrollback.
	final := make(chan string, 1)
	done := make(chan struct{})
	options = append(options,
		counter.WithListener(counter.EventStop, func(c *counter.Counter) {
			select {
			case final <- c.Text():
			default:
			}
		}),
		counter.WithListener(counter.EventDestroy, func(*counter.Counter) {
			close(done)
		}),
	)

	sched := animation.NewIntervalScheduler()
	defer sched.Close()

	screen := target.NewWriterTarget(w)
	c := counter.New(screen, sched, res.Options, options...)

	params := c.Params()
	logger.Info().
		Float64("start", res.Options.Start).
		Float64("stop", res.Options.Stop).
		Float64("step", params.Step).
		Float64("delta", params.Delta).
		Int("round", params.Round).
		Msg("counter started")

	msg := "counter finished"
	select {
	case <-done:
	case <-ctx.Done():
		c.Destroy()
		msg = "counter interrupted"
	}

	select {
	case last := <-final:
		fmt.Fprintln(w, last)
	default:
	}
	logger.Info().Float64("value", c.Value()).Msg(msg)
	return nil
}
