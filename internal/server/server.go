// Package server exposes the analyzer as a read-only HTTP query service.
//
// Routes:
//
//	GET /v1/analyze   worst case and expected number of weighings
//	GET /v1/explain   per-experiment breakdown for one state
//	GET /v1/strategy  optimal decision tree
//	GET /healthz      liveness and loaded populations
//	GET /metrics      Prometheus exposition
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/scale"
	"github.com/katalvlaran/scales/strategy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is reported by /healthz.
const Version = "1.0.0"

// requestIDHeader carries the request id in both directions.
const requestIDHeader = "X-Request-ID"

// errPopulationTooLarge rejects populations above Config.MaxPopulation.
var errPopulationTooLarge = errors.New("server: population above limit")

// Config holds the service limits.
type Config struct {
	// QueryTimeout bounds every /v1 request; 0 disables it.
	QueryTimeout time.Duration

	// MaxPopulation rejects larger N with 400.
	MaxPopulation int
}

// Server wires the HTTP routes to a shared analyzer.Registry.
type Server struct {
	reg      *analyzer.Registry
	cfg      Config
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// New returns a server answering queries from reg. A nil logger discards
// logs; a nil gatherer serves the default Prometheus registry.
func New(reg *analyzer.Registry, cfg Config, logger *slog.Logger, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{reg: reg, cfg: cfg, logger: logger, gatherer: gatherer}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/v1")
	{
		v1.GET("/analyze", s.handleAnalyze)
		v1.GET("/explain", s.handleExplain)
		v1.GET("/strategy", s.handleStrategy)
	}
	return router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set("request_id", id)

		start := time.Now()
		c.Next()

		s.logger.Info("request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "healthy",
		Version:     Version,
		Populations: s.reg.Populations(),
	})
}

// bind parses the query into a state and a request context carrying the
// query timeout. It writes the error response itself and returns ok=false
// on failure.
func (s *Server) bind(c *gin.Context) (q StateQuery, st scale.State, ctx context.Context, cancel context.CancelFunc, ok bool) {
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return q, st, nil, nil, false
	}
	if s.cfg.MaxPopulation > 0 && q.Population > s.cfg.MaxPopulation {
		s.fail(c, fmt.Errorf("%w: %d > %d", errPopulationTooLarge, q.Population, s.cfg.MaxPopulation))
		return q, st, nil, nil, false
	}

	st, err := scale.NewState(q.Population, scale.Counts{
		Unknown:    q.Unknown,
		MaybeLight: q.MaybeLight,
		MaybeHeavy: q.MaybeHeavy,
	})
	if err != nil {
		s.fail(c, err)
		return q, st, nil, nil, false
	}

	ctx = c.Request.Context()
	if s.cfg.QueryTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.cfg.QueryTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	return q, st, ctx, cancel, true
}

func (s *Server) handleAnalyze(c *gin.Context) {
	_, st, ctx, cancel, ok := s.bind(c)
	if !ok {
		return
	}
	defer cancel()

	res, err := s.reg.Analyze(ctx, st)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, AnalyzeResponse{State: st, Symbols: st.Symbols(), Free: st.Free(), Result: res})
}

func (s *Server) handleExplain(c *gin.Context) {
	_, st, ctx, cancel, ok := s.bind(c)
	if !ok {
		return
	}
	defer cancel()

	var resp ExplainResponse
	err := s.reg.Do(ctx, st.N(), func(a *analyzer.Analyzer) error {
		status, err := a.Status(ctx, st)
		if err != nil {
			return err
		}
		resp = ExplainResponse{State: st, Status: status}
		if status == analyzer.Solved {
			res, err := a.Analyze(ctx, st)
			if err != nil {
				return err
			}
			resp.Result = &res
		}
		resp.Candidates, err = a.Explain(ctx, st)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	if resp.Candidates == nil {
		resp.Candidates = []analyzer.Candidate{}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStrategy(c *gin.Context) {
	q, st, ctx, cancel, ok := s.bind(c)
	if !ok {
		return
	}
	defer cancel()

	m, err := analyzer.ParseMetric(q.Metric)
	if err != nil {
		s.fail(c, err)
		return
	}

	var tree *strategy.Tree
	err = s.reg.Do(ctx, st.N(), func(a *analyzer.Analyzer) error {
		var err error
		tree, err = strategy.Build(ctx, a, st, m)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, StrategyResponse{
		Metric:   m.String(),
		Depth:    tree.Depth(),
		Leaves:   tree.Leaves(),
		Expected: tree.Expected(),
		Root:     tree.Root,
	})
}

// fail maps err onto a status code and error code.
func (s *Server) fail(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("query failed", "request_id", c.GetString("request_id"), "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errPopulationTooLarge):
		return http.StatusBadRequest, "POPULATION_TOO_LARGE"
	case errors.Is(err, scale.ErrInvalidPopulation),
		errors.Is(err, scale.ErrInvalidState),
		errors.Is(err, analyzer.ErrPopulationMismatch),
		errors.Is(err, analyzer.ErrUnknownMetric):
		return http.StatusBadRequest, "INVALID_STATE"
	case errors.Is(err, analyzer.ErrUnsolvable):
		return http.StatusUnprocessableEntity, "UNSOLVABLE"
	case errors.Is(err, analyzer.ErrNoFeasibleExperiment):
		return http.StatusUnprocessableEntity, "NO_FEASIBLE_EXPERIMENT"
	case errors.Is(err, analyzer.ErrBudgetExceeded):
		return http.StatusServiceUnavailable, "BUDGET_EXCEEDED"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "TIMEOUT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
