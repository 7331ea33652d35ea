// Package config loads the scales configuration: built-in defaults, then an
// optional YAML file, then SCALES_* environment variables. Command-line
// flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/scale"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SCALES_"

// ErrInvalidConfig is returned by Validate and Load for unusable settings.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	// Puzzle: population size and the starting knowledge state.
	Population int `yaml:"population"  env:"POPULATION"`
	Unknown    int `yaml:"unknown"     env:"UNKNOWN"`
	MaybeLight int `yaml:"maybe_light" env:"MAYBE_LIGHT"`
	MaybeHeavy int `yaml:"maybe_heavy" env:"MAYBE_HEAVY"`

	// Metric is "worst-case" or "expected".
	Metric string `yaml:"metric" env:"METRIC"`

	// MaxStates caps states computed per query; 0 disables the cap.
	MaxStates int `yaml:"max_states" env:"MAX_STATES"`

	// Timeout bounds a single CLI run; 0 disables it.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	Log     Log     `yaml:"log"     envPrefix:"LOG_"`
	Store   Store   `yaml:"store"   envPrefix:"STORE_"`
	Metrics Metrics `yaml:"metrics" envPrefix:"METRICS_"`
	Trace   Trace   `yaml:"trace"   envPrefix:"TRACE_"`
	Server  Server  `yaml:"server"  envPrefix:"SERVER_"`
	Sweep   Sweep   `yaml:"sweep"   envPrefix:"SWEEP_"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `yaml:"level"  env:"LEVEL"`  // debug, info, warn, error
	Format string `yaml:"format" env:"FORMAT"` // text, json
}

// Store selects where memo snapshots are kept.
type Store struct {
	Driver string `yaml:"driver" env:"DRIVER"` // none, sqlite, badger
	Path   string `yaml:"path"   env:"PATH"`
}

// Metrics configures the Prometheus text file written after a CLI run.
type Metrics struct {
	File string `yaml:"file" env:"FILE"`
}

// Trace enables the stdout OpenTelemetry exporter.
type Trace struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
}

// Server configures the HTTP query service.
type Server struct {
	Addr          string        `yaml:"addr"           env:"ADDR"`
	QueryTimeout  time.Duration `yaml:"query_timeout"  env:"QUERY_TIMEOUT"`
	MaxPopulation int           `yaml:"max_population" env:"MAX_POPULATION"`
}

// Sweep configures the multi-population sweep.
type Sweep struct {
	From    int `yaml:"from"    env:"FROM"`
	To      int `yaml:"to"      env:"TO"`
	Workers int `yaml:"workers" env:"WORKERS"`
}

// Default returns the built-in configuration: twelve suspects among
// fourteen items, worst-case metric, text logs at info, no store.
func Default() Config {
	return Config{
		Population: 14,
		Unknown:    12,
		Metric:     analyzer.WorstCase.String(),
		Log:        Log{Level: "info", Format: "text"},
		Store:      Store{Driver: "none"},
		Server: Server{
			Addr:          ":8080",
			QueryTimeout:  10 * time.Second,
			MaxPopulation: 24,
		},
		Sweep: Sweep{From: 3, To: 14, Workers: 4},
	}
}

// Load returns Default() overlaid with the YAML file at path (skipped when
// path is empty) and then with SCALES_* environment variables, validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: open %s: %w", path, err)
		}
		defer f.Close()
		if err = decodeYAML(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse overlays YAML data on Default() and validates the result. It does
// not read the environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decodeYAML(bytes.NewReader(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks every field and reports the first problem found.
func (c Config) Validate() error {
	if _, err := c.State(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := analyzer.ParseMetric(c.Metric); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.MaxStates < 0 {
		return fmt.Errorf("%w: max_states must be >= 0, got %d", ErrInvalidConfig, c.MaxStates)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be >= 0, got %s", ErrInvalidConfig, c.Timeout)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	if !slices.Contains([]string{"text", "json"}, c.Log.Format) {
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	switch c.Store.Driver {
	case "none":
	case "sqlite", "badger":
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for driver %q", ErrInvalidConfig, c.Store.Driver)
		}
	default:
		return fmt.Errorf("%w: store.driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Server.QueryTimeout < 0 {
		return fmt.Errorf("%w: server.query_timeout must be >= 0", ErrInvalidConfig)
	}
	if c.Server.MaxPopulation < 1 {
		return fmt.Errorf("%w: server.max_population must be >= 1, got %d", ErrInvalidConfig, c.Server.MaxPopulation)
	}
	if c.Sweep.From < 1 || c.Sweep.To < c.Sweep.From {
		return fmt.Errorf("%w: sweep range %d..%d", ErrInvalidConfig, c.Sweep.From, c.Sweep.To)
	}
	if c.Sweep.Workers < 1 {
		return fmt.Errorf("%w: sweep.workers must be >= 1, got %d", ErrInvalidConfig, c.Sweep.Workers)
	}
	return nil
}

// State builds the configured starting state.
func (c Config) State() (scale.State, error) {
	return scale.NewState(c.Population, scale.Counts{
		Unknown:    c.Unknown,
		MaybeLight: c.MaybeLight,
		MaybeHeavy: c.MaybeHeavy,
	})
}

// AnalyzerMetric returns the parsed Metric.
func (c Config) AnalyzerMetric() (analyzer.Metric, error) {
	return analyzer.ParseMetric(c.Metric)
}
