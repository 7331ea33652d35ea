package analyzer

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "scales"
	metricsSubsystem = "analyzer"
)

// Metrics holds the Prometheus collectors updated by every root query.
type Metrics struct {
	// queries counts root queries by operation and result
	// (solved, unsolvable, stuck, budget, canceled, error).
	queries *prometheus.CounterVec

	evaluations prometheus.Counter
	cacheHits   prometheus.Counter

	// duration tracks query latency per operation.
	duration *prometheus.HistogramVec
}

// NewMetrics creates the analyzer collectors and registers them on reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "queries_total",
			Help:      "Total analyzer queries by operation and result",
		}, []string{"op", "result"}),
		evaluations: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "evaluations_total",
			Help:      "States computed on a memo miss",
		}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "cache_hits_total",
			Help:      "Memo lookups answered from the table",
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "query_duration_seconds",
			Help:      "Analyzer query duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"op"}),
	}
}

func (m *Metrics) observe(op string, err error, evaluations, cacheHits int64, elapsed time.Duration) {
	m.queries.WithLabelValues(op, resultLabel(err)).Inc()
	m.evaluations.Add(float64(evaluations))
	m.cacheHits.Add(float64(cacheHits))
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "solved"
	case errors.Is(err, ErrUnsolvable):
		return "unsolvable"
	case errors.Is(err, ErrNoFeasibleExperiment):
		return "stuck"
	case errors.Is(err, ErrBudgetExceeded):
		return "budget"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
