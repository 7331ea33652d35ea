package main

import (
	"time"

	"github.com/katalvlaran/scales/internal/config"
	"github.com/spf13/cobra"
)

// overrides holds flag values that replace configured values when set
// explicitly on the command line.
type overrides struct {
	population  int
	unknown     int
	maybeLight  int
	maybeHeavy  int
	metric      string
	maxStates   int
	timeout     time.Duration
	store       string
	storePath   string
	metricsFile string
	trace       bool

	from, to, workers int
	addr              string
}

// addStateFlags registers the flags describing the starting state.
func addStateFlags(cmd *cobra.Command, o *overrides) {
	f := cmd.Flags()
	f.IntVarP(&o.population, "population", "n", 0, "number of items N")
	f.IntVar(&o.unknown, "unknown", 0, "items that may be light or heavy")
	f.IntVar(&o.maybeLight, "maybe-light", 0, "items that may only be light")
	f.IntVar(&o.maybeHeavy, "maybe-heavy", 0, "items that may only be heavy")
	f.StringVar(&o.metric, "metric", "", "worst-case or expected")
}

// addRunFlags registers budget, persistence and telemetry flags.
func addRunFlags(cmd *cobra.Command, o *overrides) {
	f := cmd.Flags()
	addMaxStatesFlag(cmd, o)
	f.DurationVar(&o.timeout, "timeout", 0, "abort the run after this long (0 = none)")
	f.StringVar(&o.store, "store", "", "memo store driver: none, sqlite or badger")
	f.StringVar(&o.storePath, "store-path", "", "memo store file or directory")
	f.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics here after the run")
	addTraceFlag(cmd, o)
}

func addMaxStatesFlag(cmd *cobra.Command, o *overrides) {
	cmd.Flags().IntVar(&o.maxStates, "max-states", 0, "cap on states computed per query (0 = none)")
}

func addTraceFlag(cmd *cobra.Command, o *overrides) {
	cmd.Flags().BoolVar(&o.trace, "trace", false, "export OpenTelemetry spans to stderr")
}

// apply copies every explicitly set flag into cfg. Counts given without
// --population keep the configured population.
func (o *overrides) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("population") {
		cfg.Population = o.population
		if !f.Changed("unknown") && !f.Changed("maybe-light") && !f.Changed("maybe-heavy") {
			// A bare -n means "all of them are suspects".
			cfg.Unknown, cfg.MaybeLight, cfg.MaybeHeavy = o.population, 0, 0
		}
	}
	if f.Changed("unknown") {
		cfg.Unknown = o.unknown
	}
	if f.Changed("maybe-light") {
		cfg.MaybeLight = o.maybeLight
	}
	if f.Changed("maybe-heavy") {
		cfg.MaybeHeavy = o.maybeHeavy
	}
	if f.Changed("metric") {
		cfg.Metric = o.metric
	}
	if f.Changed("max-states") {
		cfg.MaxStates = o.maxStates
	}
	if f.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if f.Changed("store") {
		cfg.Store.Driver = o.store
	}
	if f.Changed("store-path") {
		cfg.Store.Path = o.storePath
	}
	if f.Changed("metrics-file") {
		cfg.Metrics.File = o.metricsFile
	}
	if f.Changed("trace") {
		cfg.Trace.Enabled = o.trace
	}
	if f.Changed("from") {
		cfg.Sweep.From = o.from
	}
	if f.Changed("to") {
		cfg.Sweep.To = o.to
	}
	if f.Changed("workers") {
		cfg.Sweep.Workers = o.workers
	}
	if f.Changed("addr") {
		cfg.Server.Addr = o.addr
	}
}
