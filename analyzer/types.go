package analyzer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/katalvlaran/scales/scale"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrPopulationMismatch is returned when a state's population differs
	// from the population the analyzer's catalogue was built for.
	ErrPopulationMismatch = errors.New("analyzer: state population does not match analyzer")

	// ErrNoFeasibleExperiment is returned when a non-terminal state admits no
	// weighing at all. It signals a catalogue too small for the population
	// (e.g. a single item), never a solved state.
	ErrNoFeasibleExperiment = errors.New("analyzer: no feasible experiment from non-terminal state")

	// ErrUnsolvable is returned when every feasible weighing leads to a
	// state that cannot be solved or loops back onto itself.
	ErrUnsolvable = errors.New("analyzer: state cannot be solved")

	// ErrBudgetExceeded is returned when a query evaluates more distinct
	// states than allowed by WithMaxStates.
	ErrBudgetExceeded = errors.New("analyzer: state budget exceeded")

	// ErrTerminal is returned by Best and Evaluate when the state is
	// already solved and no further weighing is needed.
	ErrTerminal = errors.New("analyzer: state is already solved")

	// ErrUnknownMetric indicates a Metric outside WorstCase / Expected.
	ErrUnknownMetric = errors.New("analyzer: unknown metric")
)

// Status classifies a memoized state.
type Status int

const (
	// Solved: Result holds the optimal worst-case and expected depths.
	Solved Status = iota

	// Unsolvable: every feasible experiment has an unsolvable or cyclic outcome.
	Unsolvable

	// Stuck: the state is non-terminal and no experiment is feasible.
	Stuck
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Solved:
		return "solved"
	case Unsolvable:
		return "unsolvable"
	case Stuck:
		return "stuck"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText encodes the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "solved":
		*s = Solved
	case "unsolvable":
		*s = Unsolvable
	case "stuck":
		*s = Stuck
	default:
		return fmt.Errorf("analyzer: unknown status %q", string(text))
	}
	return nil
}

// Result is the analysis of a solved state.
type Result struct {
	// WorstCase is the minimal number of weighings that always suffices.
	WorstCase int `json:"worst_case"`

	// Expected is the minimal expected number of weighings under a uniform
	// prior over the open hypotheses.
	Expected float64 `json:"expected"`
}

// Entry is one memo-table row, exported for persistence.
type Entry struct {
	State  scale.State `json:"state"`
	Status Status      `json:"status"`
	Result Result      `json:"result"`
}

// Stats are cumulative counters of an Analyzer.
type Stats struct {
	// Evaluations counts states computed (memo misses).
	Evaluations int64 `json:"evaluations"`

	// CacheHits counts memo lookups answered from the table.
	CacheHits int64 `json:"cache_hits"`

	// States is the current size of the memo table.
	States int `json:"states"`
}

// Metric selects which depth a strategy optimizes.
type Metric int

const (
	// WorstCase minimizes the maximum number of weighings.
	WorstCase Metric = iota

	// Expected minimizes the expected number of weighings.
	Expected
)

// String returns the metric name used on the command line and in queries.
func (m Metric) String() string {
	switch m {
	case WorstCase:
		return "worst-case"
	case Expected:
		return "expected"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// ParseMetric converts "worst-case" / "wc" / "expected" / "exp" into a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "worst-case", "worst", "wc":
		return WorstCase, nil
	case "expected", "exp":
		return Expected, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
}

// Option configures an Analyzer.
// Use with New(n, opts...).
type Option func(*Options)

// Options holds the configurable parts of an Analyzer.
type Options struct {
	// Logger receives one Debug record per root query. Defaults to a
	// discarding logger.
	Logger *slog.Logger

	// Tracer starts one span per root query. Defaults to the global
	// provider's "github.com/katalvlaran/scales/analyzer" tracer.
	Tracer trace.Tracer

	// Metrics, if non-nil, receives query, evaluation and cache counters.
	Metrics *Metrics

	// MaxStates caps distinct states evaluated per query; 0 means no cap.
	MaxStates int
}

// DefaultOptions returns Options with:
//   - a discarding logger
//   - the global OpenTelemetry tracer
//   - no metrics
//   - no state budget
func DefaultOptions() Options {
	return Options{
		Logger:    slog.New(slog.DiscardHandler),
		Tracer:    otel.Tracer(tracerName),
		Metrics:   nil,
		MaxStates: 0,
	}
}

const tracerName = "github.com/katalvlaran/scales/analyzer"

// WithLogger sets the logger. Passing nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithTracer sets the tracer. Passing nil keeps the default.
func WithTracer(t trace.Tracer) Option {
	return func(o *Options) {
		if t != nil {
			o.Tracer = t
		}
	}
}

// WithMetrics installs Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithMaxStates caps the number of distinct states a single query may
// evaluate. Non-positive values disable the cap.
func WithMaxStates(limit int) Option {
	return func(o *Options) {
		if limit < 0 {
			limit = 0
		}
		o.MaxStates = limit
	}
}
