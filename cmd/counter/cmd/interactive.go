package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/go-drift/counter/pkg/animation"
	"github.com/go-drift/counter/pkg/counter"
	"github.com/go-drift/counter/pkg/target"
)

func init() {
	RegisterCommand(&Command{
		Name:  "interactive",
		Short: "Control a counter from a shell",
		Long: `Start a counter in the background and control it from an interactive
shell. Lifecycle events are printed as they happen.

Commands inside the shell:
  start      Resume ticking
  stop       Pause ticking
  value      Print the current value
  show       Print the current text
  status     Print value, text, state and derived parameters
  destroy    Destroy the counter
  reset      Destroy the counter and create a new one
  help       Show this list
  quit       Destroy the counter and exit

The counter flags of "counter run" are accepted as well.`,
		Usage: "counter interactive [counter flags]",
		Run:   runInteractive,
	})
}

func runInteractive(args []string) error {
	res, err := loadSettings()
	if err != nil {
		return err
	}
	fs := newFlagSet("interactive")
	bindCounterFlags(fs, &res.Options)
	bindLogFlags(fs, res)
	if err := fs.Parse(args); err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "counter> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	logger := setupLogging(res)
	sh := newShell(rl.Stdout(), logger, res.Options)
	defer sh.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sh.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(sh.out, "Exiting...")
			return nil
		}
		if sh.exec(line) {
			cancel()
		}
	}
}

// shell owns one counter driven by a real-time scheduler.
type shell struct {
	out    io.Writer
	logger zerolog.Logger
	opts   counter.Options
	sched  *animation.IntervalScheduler
	screen *target.MemoryTarget
	c      *counter.Counter
}

func newShell(out io.Writer, logger zerolog.Logger, opts counter.Options) *shell {
	sh := &shell{
		out:    out,
		logger: logger,
		opts:   opts,
		sched:  animation.NewIntervalScheduler(),
	}
	sh.create()
	return sh
}

func (sh *shell) create() {
	sh.screen = target.NewMemoryTarget()
	sh.c = counter.New(sh.screen, sh.sched, sh.opts,
		counter.WithLogger(sh.logger),
		counter.WithListener(counter.EventStart, sh.announce(counter.EventStart)),
		counter.WithListener(counter.EventStop, sh.announce(counter.EventStop)),
		counter.WithListener(counter.EventDestroy, sh.announce(counter.EventDestroy)),
	)
}

func (sh *shell) announce(event counter.Event) counter.Listener {
	return func(c *counter.Counter) {
		fmt.Fprintf(sh.out, "[%s] value=%s\n", event, counter.FormatFixed(c.Value(), c.Params().Round))
	}
}

// exec runs one shell line and reports whether the shell should exit.
func (sh *shell) exec(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "help", "?":
		sh.printHelp()

	case "start":
		if sh.c.Destroyed() {
			fmt.Fprintln(sh.out, "Counter is destroyed (type 'reset' for a new one)")
			return false
		}
		sh.c.Start()

	case "stop":
		sh.c.Stop()

	case "value", "v":
		fmt.Fprintln(sh.out, counter.FormatFixed(sh.c.Value(), sh.c.Params().Round))

	case "show", "text":
		fmt.Fprintln(sh.out, sh.c.Text())

	case "status", "s":
		sh.printStatus()

	case "destroy":
		sh.c.Destroy()

	case "reset":
		sh.c.Destroy()
		sh.create()
		fmt.Fprintln(sh.out, "New counter created")

	case "quit", "exit", "q":
		fmt.Fprintln(sh.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(sh.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (sh *shell) printStatus() {
	p := sh.c.Params()
	state := "stopped"
	switch {
	case sh.c.Destroyed():
		state = "destroyed"
	case sh.c.Running():
		state = "running"
	}
	fmt.Fprintf(sh.out, "Counter %s\n", sh.c.ID())
	fmt.Fprintf(sh.out, "  State:    %s\n", state)
	fmt.Fprintf(sh.out, "  Value:    %s\n", counter.FormatFixed(sh.c.Value(), p.Round))
	fmt.Fprintf(sh.out, "  Text:     %q\n", sh.c.Text())
	fmt.Fprintf(sh.out, "  Classes:  %s\n", strings.Join(sh.screen.Classes(), " "))
	fmt.Fprintf(sh.out, "  Step:     %gms\n", p.Step)
	fmt.Fprintf(sh.out, "  Delta:    %g\n", p.Delta)
	fmt.Fprintf(sh.out, "  Round:    %d\n", p.Round)
}

func (sh *shell) printHelp() {
	fmt.Fprintln(sh.out, "Commands: start, stop, value, show, status, destroy, reset, help, quit")
}

func (sh *shell) close() {
	sh.c.Destroy()
	sh.sched.Close()
}
