package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-logr/logr"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/zoobzio/timelinez"
	"github.com/zoobzio/timelinez/layout"
)

// Config is the content of the TOML configuration file.
type Config struct {
	SVG  SVGConfig  `toml:"svg"`
	Log  LogConfig  `toml:"log"`
	Demo DemoConfig `toml:"demo"`
}

// SVGConfig sizes and selects the drawing.
type SVGConfig struct {
	Kind   string  `toml:"kind"` // graph|gantt
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// LogConfig configures diagnostics output.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console|json
}

// DemoConfig shapes the synthetic workload of the demo command.
type DemoConfig struct {
	Unit    string `toml:"unit"`
	Workers int    `toml:"workers"`
	Depth   int    `toml:"depth"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		SVG:  SVGConfig{Kind: "graph", Width: layout.DefaultWidth, Height: layout.DefaultHeight},
		Log:  LogConfig{Level: "info", Format: "console"},
		Demo: DemoConfig{Unit: "2ms", Workers: 4, Depth: 3},
	}
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var err error
	if c.SVG.Kind != "graph" && c.SVG.Kind != "gantt" {
		err = multierr.Append(err, fmt.Errorf("svg.kind: %q (expected: graph|gantt)", c.SVG.Kind))
	}
	if c.SVG.Width <= 0 || c.SVG.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("svg size must be positive, got %vx%v", c.SVG.Width, c.SVG.Height))
	}
	if _, lerr := c.Log.level(); lerr != nil {
		err = multierr.Append(err, lerr)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		err = multierr.Append(err, fmt.Errorf("log.format: %q (expected: console|json)", c.Log.Format))
	}
	if _, uerr := c.Demo.unit(); uerr != nil {
		err = multierr.Append(err, uerr)
	}
	if c.Demo.Workers <= 0 {
		err = multierr.Append(err, errors.New("demo.workers must be > 0"))
	}
	if c.Demo.Depth < 0 {
		err = multierr.Append(err, errors.New("demo.depth must be >= 0"))
	}
	return err
}

func (c LogConfig) level() (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return level, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Logger builds the diagnostics logger writing to w.
func (c LogConfig) Logger(w io.Writer) (logr.Logger, error) {
	level, err := c.level()
	if err != nil {
		return logr.Discard(), err
	}
	if c.Format == "json" {
		return timelinez.NewJSONLogger(w, level), nil
	}
	return timelinez.NewLogger(w, level), nil
}

func (c DemoConfig) unit() (time.Duration, error) {
	d, err := time.ParseDuration(c.Unit)
	if err != nil {
		return 0, fmt.Errorf("demo.unit: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("demo.unit must be positive, got %s", d)
	}
	return d, nil
}

// Layout returns the layout options.
func (c SVGConfig) Layout() layout.Options {
	return layout.Options{Width: c.Width, Height: c.Height}
}
