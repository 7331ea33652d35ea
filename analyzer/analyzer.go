package analyzer

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/katalvlaran/scales/scale"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// pollMask sets how often a search polls its context: every 1024 evaluations.
const pollMask = 1023

// scanPollMask bounds the catalogue work between two polls: every 4096
// experiments scanned, feasible or not. Large populations spend most of a
// query inside single catalogue scans.
const scanPollMask = 4095

// entry is one memoized state. Terminal states are never stored.
type entry struct {
	status Status
	result Result
}

// Analyzer owns the experiment catalogue for one population and the memo
// table of every state it has analyzed. Results are deterministic and do
// not depend on the order of queries.
//
// An Analyzer is not safe for concurrent use; share one through Registry.
type Analyzer struct {
	n    int
	cat  *scale.Catalogue
	opts Options

	memo        map[scale.State]entry
	evaluations int64
	cacheHits   int64
}

// New builds the catalogue for a population of n items and returns an
// analyzer with an empty memo table.
//
// Errors: scale.ErrInvalidPopulation for n < 1.
func New(n int, opts ...Option) (*Analyzer, error) {
	cat, err := scale.NewCatalogue(n)
	if err != nil {
		return nil, err
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Analyzer{
		n:    n,
		cat:  cat,
		opts: o,
		memo: make(map[scale.State]entry),
	}, nil
}

// N returns the population size.
func (a *Analyzer) N() int { return a.n }

// Catalogue returns the analyzer's experiment catalogue.
func (a *Analyzer) Catalogue() *scale.Catalogue { return a.cat }

// Stats returns cumulative counters since construction.
func (a *Analyzer) Stats() Stats {
	return Stats{
		Evaluations: a.evaluations,
		CacheHits:   a.cacheHits,
		States:      len(a.memo),
	}
}

// Analyze returns the optimal worst-case and expected number of weighings
// needed to identify the defective item from s. The two metrics are
// minimized independently, so they may come from different experiments.
//
// Steps:
//  1. Reject states of another population (ErrPopulationMismatch).
//  2. Terminal states cost nothing: {0, 0}.
//  3. Otherwise search every feasible experiment recursively, memoizing
//     each visited state.
//
// Errors: ErrPopulationMismatch, ErrUnsolvable, ErrNoFeasibleExperiment,
// ErrBudgetExceeded and the context's error.
//
// Complexity: O(S·E) for S reachable states and E catalogue experiments on
// a cold table; O(1) for a memoized state.
func (a *Analyzer) Analyze(ctx context.Context, s scale.State) (Result, error) {
	var res Result
	err := a.query(ctx, "analyze", s, func(q *search) error {
		e, _, err := q.visit(s)
		if err != nil {
			return err
		}
		if err = statusErr(e.status, s); err != nil {
			return err
		}
		res = e.result
		return nil
	})
	return res, err
}

// Status reports how s resolves without turning Unsolvable or Stuck into
// errors. Terminal states are Solved.
func (a *Analyzer) Status(ctx context.Context, s scale.State) (Status, error) {
	var st Status
	err := a.query(ctx, "status", s, func(q *search) error {
		e, _, err := q.visit(s)
		st = e.status
		return err
	})
	return st, err
}

// statusErr converts a non-solved status into the matching sentinel.
func statusErr(st Status, s scale.State) error {
	switch st {
	case Unsolvable:
		return fmt.Errorf("%w: %s", ErrUnsolvable, s)
	case Stuck:
		return fmt.Errorf("%w: %s", ErrNoFeasibleExperiment, s)
	default:
		return nil
	}
}

// query wraps one root operation with validation, a span, metrics and a
// debug log record.
func (a *Analyzer) query(ctx context.Context, op string, s scale.State, fn func(q *search) error) error {
	if s.N() != a.n {
		return fmt.Errorf("%w: state %s has %d items, analyzer has %d",
			ErrPopulationMismatch, s, s.N(), a.n)
	}

	ctx, span := a.opts.Tracer.Start(ctx, "analyzer."+op,
		trace.WithAttributes(
			attribute.Int("scales.population", a.n),
			attribute.String("scales.state", s.String()),
		))
	defer span.End()

	start := time.Now()
	evals, hits := a.evaluations, a.cacheHits

	var err error
	if err = ctx.Err(); err == nil {
		q := &search{a: a, ctx: ctx, grey: make(map[scale.State]struct{})}
		err = fn(q)
	}

	evals, hits = a.evaluations-evals, a.cacheHits-hits
	span.SetAttributes(
		attribute.Int64("scales.evaluations", evals),
		attribute.Int64("scales.cache_hits", hits),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if m := a.opts.Metrics; m != nil {
		m.observe(op, err, evals, hits, time.Since(start))
	}
	a.opts.Logger.DebugContext(ctx, "analyzer query",
		"op", op,
		"population", a.n,
		"state", s.String(),
		"evaluations", evals,
		"cache_hits", hits,
		"elapsed", time.Since(start),
		"error", err,
	)

	return err
}

// search is the state of one root query: the grey set of states on the
// recursion stack and the per-query budget.
type search struct {
	a    *Analyzer
	ctx  context.Context
	grey map[scale.State]struct{}

	evaluated int // distinct states computed by this query
	scanned   int // catalogue experiments examined by this query
}

// visit returns the memo entry of s, computing it if needed. cyclic is true
// when s is already on the recursion stack; the returned entry is then
// meaningless.
func (q *search) visit(s scale.State) (e entry, cyclic bool, err error) {
	if s.Terminal() {
		return entry{status: Solved}, false, nil
	}
	if e, ok := q.a.memo[s]; ok {
		q.a.cacheHits++
		return e, false, nil
	}
	if _, ok := q.grey[s]; ok {
		return entry{}, true, nil
	}

	q.evaluated++
	if limit := q.a.opts.MaxStates; limit > 0 && q.evaluated > limit {
		return entry{}, false, fmt.Errorf("%w: more than %d states", ErrBudgetExceeded, limit)
	}
	if q.evaluated&pollMask == 0 {
		if err = q.ctx.Err(); err != nil {
			return entry{}, false, fmt.Errorf("analyzer: search interrupted: %w", err)
		}
	}

	q.grey[s] = struct{}{}
	defer delete(q.grey, s)

	var (
		feasible bool
		solved   bool
		best     = Result{WorstCase: math.MaxInt, Expected: math.Inf(1)}
	)
	for i := range q.a.cat.Len() {
		q.scanned++
		if q.scanned&scanPollMask == 0 {
			if err = q.ctx.Err(); err != nil {
				return entry{}, false, fmt.Errorf("analyzer: search interrupted: %w", err)
			}
		}

		x := q.a.cat.At(i)
		if !x.Feasible(s) {
			continue
		}
		feasible = true

		c, err := q.candidate(s, x)
		if err != nil {
			return entry{}, false, err
		}
		if !c.Viable {
			continue
		}
		solved = true
		best.WorstCase = min(best.WorstCase, c.Result.WorstCase)
		best.Expected = min(best.Expected, c.Result.Expected)
	}

	switch {
	case !feasible:
		e = entry{status: Stuck}
	case !solved:
		e = entry{status: Unsolvable}
	default:
		e = entry{status: Solved, result: best}
	}
	q.a.memo[s] = e
	q.a.evaluations++

	return e, false, nil
}

// candidate weighs x in s, visits all three children and combines them.
// Outcomes of probability 0 cannot happen and take no part in the result.
func (q *search) candidate(s scale.State, x scale.Experiment) (Candidate, error) {
	children, err := scale.Children(s, x)
	if err != nil {
		return Candidate{}, err
	}
	p := scale.Probabilities(s, x)

	c := Candidate{Experiment: x, Viable: true}
	worst, expected := 0, 0.0
	for i, o := range scale.Outcomes() {
		e, cyclic, err := q.visit(children[i])
		if err != nil {
			return Candidate{}, err
		}

		b := Branch{Outcome: o, Probability: p[i], Child: children[i], Status: e.status, Result: e.result}
		if cyclic {
			b.Status = Unsolvable
			b.Cyclic = true
		}
		c.Branches[i] = b
		c.MaxFree = max(c.MaxFree, children[i].Free())

		if p[i] == 0 {
			continue
		}
		if b.Cyclic || b.Status != Solved {
			c.Viable = false
			continue
		}
		worst = max(worst, b.Result.WorstCase)
		expected += p[i] * b.Result.Expected
	}
	if c.Viable {
		c.Result = Result{WorstCase: 1 + worst, Expected: 1 + expected}
	}

	return c, nil
}

// Entries exports the memo table sorted by state counts.
func (a *Analyzer) Entries() []Entry {
	out := make([]Entry, 0, len(a.memo))
	for s, e := range a.memo {
		out = append(out, Entry{State: s, Status: e.status, Result: e.result})
	}
	slices.SortFunc(out, func(x, y Entry) int {
		return compareStates(x.State, y.State)
	})
	return out
}

// Preload imports entries, typically a snapshot of an earlier run. Entries
// for terminal states are ignored; entries already present are kept.
//
// Errors: ErrPopulationMismatch if any entry has another population.
func (a *Analyzer) Preload(entries []Entry) error {
	for _, e := range entries {
		if e.State.N() != a.n {
			return fmt.Errorf("%w: entry %s has %d items, analyzer has %d",
				ErrPopulationMismatch, e.State, e.State.N(), a.n)
		}
	}
	for _, e := range entries {
		if e.State.Terminal() {
			continue
		}
		if _, ok := a.memo[e.State]; ok {
			continue
		}
		a.memo[e.State] = entry{status: e.Status, result: e.Result}
	}
	return nil
}

// Reset drops the memo table and zeroes the counters.
func (a *Analyzer) Reset() {
	clear(a.memo)
	a.evaluations, a.cacheHits = 0, 0
}

func compareStates(x, y scale.State) int {
	return cmp.Or(
		cmp.Compare(x.Unknown(), y.Unknown()),
		cmp.Compare(x.MaybeLight(), y.MaybeLight()),
		cmp.Compare(x.MaybeHeavy(), y.MaybeHeavy()),
		cmp.Compare(x.Light(), y.Light()),
		cmp.Compare(x.Heavy(), y.Heavy()),
	)
}
