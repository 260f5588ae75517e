package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/counter/pkg/counter"
	"github.com/go-drift/counter/pkg/journal"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "counter.yaml"

// Config represents the optional counter.yaml configuration.
type Config struct {
	Counter CounterConfig `yaml:"counter"`
	Journal JournalConfig `yaml:"journal"`
	Log     LogConfig     `yaml:"log"`
}

// CounterConfig mirrors counter.Options. Step and Round stay nil when the
// file omits them or sets them to null.
type CounterConfig struct {
	Start    float64  `yaml:"start"`
	Stop     float64  `yaml:"stop"`
	Interval float64  `yaml:"interval"`
	Step     *float64 `yaml:"step"`
	Text     string   `yaml:"text,omitempty"`
	AddClass string   `yaml:"addClass,omitempty"`
	Round    *int     `yaml:"round"`
}

// JournalConfig enables the lifecycle journal when Path is set.
type JournalConfig struct {
	Path   string `yaml:"path,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string `yaml:"level,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// Resolved contains validated configuration values.
type Resolved struct {
	Source        string
	Options       counter.Options
	JournalPath   string
	JournalFormat journal.Format
	LogLevel      zerolog.Level
	Verbose       bool
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read %s", path)
	}
	return Parse(data)
}

// LoadOptional reads counter.yaml from dir if present.
func LoadOptional(dir string) (*Config, string, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, "", nil
		}
		return nil, "", err
	}
	return cfg, path, nil
}

// Parse decodes configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse %s", FileName)
	}
	return &cfg, nil
}

// Resolve validates cfg and fills in defaults.
func Resolve(cfg *Config, source string) (*Resolved, error) {
	format, err := journal.ParseFormat(cfg.Journal.Format)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "journal.format")
	}

	levelName := strings.TrimSpace(cfg.Log.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "log.level")
	}

	return &Resolved{
		Source:        source,
		Options:       cfg.Counter.Options(),
		JournalPath:   strings.TrimSpace(cfg.Journal.Path),
		JournalFormat: format,
		LogLevel:      level,
		Verbose:       cfg.Log.Verbose,
	}, nil
}

// Options converts the section to counter options.
func (c CounterConfig) Options() counter.Options {
	opts := counter.DefaultOptions()
	opts.Start = c.Start
	opts.Stop = c.Stop
	opts.Interval = c.Interval
	opts.Step = c.Step
	opts.AddClass = c.AddClass
	opts.Round = c.Round
	if c.Text != "" {
		opts.Text = c.Text
	}
	return opts
}
