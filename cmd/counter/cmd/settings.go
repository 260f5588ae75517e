package cmd

import (
	"flag"
	"os"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/go-drift/counter/cmd/counter/internal/config"
	"github.com/go-drift/counter/pkg/counter"
	"github.com/go-drift/counter/pkg/errors"
)

// loadSettings reads --config or ./counter.yaml and validates it.
func loadSettings() (*config.Resolved, error) {
	var (
		cfg    *config.Config
		source string
		err    error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
		source = configPath
	} else {
		var dir string
		dir, err = os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, source, err = config.LoadOptional(dir)
	}
	if err != nil {
		return nil, err
	}
	return config.Resolve(cfg, source)
}

// bindCounterFlags registers flags that override fields of opts. The
// step and round flags accept "auto" to restore the derived value.
func bindCounterFlags(fs *flag.FlagSet, opts *counter.Options) {
	fs.Func("start", "initial value", floatFlag(&opts.Start))
	fs.Func("stop", "goal value; equal to start counts forever", floatFlag(&opts.Stop))
	fs.Func("interval", "milliseconds to travel from start to stop", floatFlag(&opts.Interval))
	fs.Func("step", "milliseconds between ticks, or auto", func(s string) error {
		if isAuto(s) {
			opts.Step = nil
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		opts.Step = counter.Float(v)
		return nil
	})
	fs.Func("round", "fraction digits, or auto", func(s string) error {
		if isAuto(s) {
			opts.Round = nil
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		opts.Round = counter.Int(v)
		return nil
	})
	fs.Func("text", "template; "+counter.Placeholder+" is replaced by the value", func(s string) error {
		opts.Text = s
		return nil
	})
	fs.StringVar(&opts.AddClass, "add-class", opts.AddClass, "extra classes for the target")
}

func floatFlag(dst *float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func isAuto(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "" || s == "auto"
}

// bindLogFlags registers --log-level and --verbose over the configured values.
func bindLogFlags(fs *flag.FlagSet, res *config.Resolved) {
	fs.Func("log-level", "trace, debug, info, warn or error", func(s string) error {
		level, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return pkgerrors.Wrap(err, "log-level")
		}
		res.LogLevel = level
		return nil
	})
	fs.BoolVar(&res.Verbose, "verbose", res.Verbose, "include stack traces in error logs")
}

// setupLogging builds the console logger for a command and routes reported
// errors through it.
func setupLogging(res *config.Resolved) zerolog.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
		Level(res.LogLevel).
		With().
		Timestamp().
		Logger()
	errors.SetHandler(errors.NewLogHandler(logger, res.Verbose))
	return logger
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}
