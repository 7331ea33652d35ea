package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/internal/store"
	"github.com/katalvlaran/scales/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

// session owns the resources of one analysis run: metrics registry, memo
// store, tracer provider, and the analyzers created along the way.
type session struct {
	app     *app
	runID   string
	reg     *prometheus.Registry
	metrics *analyzer.Metrics
	store   store.Store
	trace   func(context.Context) error

	mu        sync.Mutex
	analyzers []*analyzer.Analyzer
}

func (a *app) open(ctx context.Context) (*session, error) {
	s := &session{
		app:   a,
		runID: store.NewRunID(),
		reg:   prometheus.NewRegistry(),
	}
	s.metrics = analyzer.NewMetrics(s.reg)

	if a.cfg.Trace.Enabled {
		shutdown, err := telemetry.InitTracing(ctx, a.stderr, "scales", version)
		if err != nil {
			return nil, err
		}
		s.trace = shutdown
	}

	st, err := store.Open(a.cfg.Store.Driver, a.cfg.Store.Path, a.logger)
	if err != nil {
		if s.trace != nil {
			_ = s.trace(ctx)
		}
		return nil, err
	}
	s.store = st

	a.logger.Debug("run started", "run_id", s.runID, "store", a.cfg.Store.Driver)
	return s, nil
}

// analyzer returns a new analyzer for population n, warmed from the store.
func (s *session) analyzer(ctx context.Context, n int) (*analyzer.Analyzer, error) {
	a, err := analyzer.New(n,
		analyzer.WithLogger(s.app.logger),
		analyzer.WithMetrics(s.metrics),
		analyzer.WithMaxStates(s.app.cfg.MaxStates),
	)
	if err != nil {
		return nil, err
	}

	ws, err := store.Warm(ctx, s.store, a)
	if err != nil {
		return nil, err
	}
	if ws.Entries > 0 {
		s.app.logger.Info("memo warm start",
			"run_id", s.runID,
			"previous_run", ws.LastRun,
			"population", n,
			"entries", ws.Entries,
		)
	}

	s.mu.Lock()
	s.analyzers = append(s.analyzers, a)
	s.mu.Unlock()
	return a, nil
}

// close persists every analyzer, writes the metrics file and releases the
// store and tracer. Persisting uses a fresh context so a timed-out run
// still saves the states it completed.
func (s *session) close() error {
	ctx := context.Background()
	var errs []error

	for _, a := range s.analyzers {
		if err := store.Persist(ctx, s.store, a, s.runID); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: close: %w", err))
	}

	if path := s.app.cfg.Metrics.File; path != "" {
		if err := telemetry.WriteMetrics(path, s.reg); err != nil {
			errs = append(errs, err)
		}
	}
	if s.trace != nil {
		if err := s.trace(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry: shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
