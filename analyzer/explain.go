package analyzer

import (
	"context"
	"fmt"
	"slices"

	"github.com/katalvlaran/scales/scale"
)

// Branch is one outcome of a weighing.
type Branch struct {
	Outcome     scale.Outcome `json:"outcome"`
	Probability float64       `json:"probability"`
	Child       scale.State   `json:"child"`
	Status      Status        `json:"status"`
	Result      Result        `json:"result"`

	// Cyclic is set when the child is the state being explained: the
	// weighing can give no information on this outcome.
	Cyclic bool `json:"cyclic,omitempty"`
}

// Candidate is the analysis of one experiment from a given state.
type Candidate struct {
	Experiment scale.Experiment `json:"experiment"`
	Branches   [3]Branch        `json:"branches"`

	// MaxFree is the largest Free() among the three children.
	MaxFree int `json:"max_free"`

	// Viable is false when a reachable outcome is unsolvable or cyclic;
	// Result is then zero.
	Viable bool   `json:"viable"`
	Result Result `json:"result"`
}

// Explain analyzes every feasible experiment from s and returns one
// Candidate per experiment, sorted stably by MaxFree (catalogue order
// among equals). Terminal and stuck states yield an empty list.
//
// Errors: as Analyze, except that Unsolvable states are explained rather
// than rejected.
func (a *Analyzer) Explain(ctx context.Context, s scale.State) ([]Candidate, error) {
	var out []Candidate
	err := a.query(ctx, "explain", s, func(q *search) error {
		if s.Terminal() {
			return nil
		}
		q.grey[s] = struct{}{}
		defer delete(q.grey, s)

		for i := range a.cat.Len() {
			x := a.cat.At(i)
			if !x.Feasible(s) {
				continue
			}
			c, err := q.candidate(s, x)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, func(x, y Candidate) int {
		return x.MaxFree - y.MaxFree
	})
	return out, nil
}

// Evaluate explains a single, caller-chosen experiment. The experiment
// need not come from the catalogue but must be balanced and feasible.
//
// Errors: ErrTerminal for solved states, ErrPopulationMismatch,
// scale.ErrUnbalancedPans, scale.ErrInfeasibleExperiment,
// ErrBudgetExceeded, the context's error.
func (a *Analyzer) Evaluate(ctx context.Context, s scale.State, x scale.Experiment) (Candidate, error) {
	if s.N() == a.n && s.Terminal() {
		return Candidate{}, fmt.Errorf("%w: %s", ErrTerminal, s)
	}

	var c Candidate
	err := a.query(ctx, "evaluate", s, func(q *search) error {
		if _, err := scale.Children(s, x); err != nil {
			return err
		}
		q.grey[s] = struct{}{}
		defer delete(q.grey, s)

		var err error
		c, err = q.candidate(s, x)
		return err
	})
	return c, err
}

// Best returns the first experiment in catalogue order that achieves the
// optimum for m. For WorstCase, ties on the worst case are broken by the
// lower expected value.
//
// Errors: ErrTerminal for solved states, ErrUnknownMetric, and everything
// Analyze returns.
func (a *Analyzer) Best(ctx context.Context, s scale.State, m Metric) (Candidate, error) {
	if m != WorstCase && m != Expected {
		return Candidate{}, fmt.Errorf("%w: %d", ErrUnknownMetric, int(m))
	}
	if s.N() == a.n && s.Terminal() {
		return Candidate{}, fmt.Errorf("%w: %s", ErrTerminal, s)
	}
	if _, err := a.Analyze(ctx, s); err != nil {
		return Candidate{}, err
	}

	var (
		best  Candidate
		found bool
	)
	err := a.query(ctx, "best", s, func(q *search) error {
		q.grey[s] = struct{}{}
		defer delete(q.grey, s)

		for i := range a.cat.Len() {
			x := a.cat.At(i)
			if !x.Feasible(s) {
				continue
			}
			c, err := q.candidate(s, x)
			if err != nil {
				return err
			}
			if !c.Viable {
				continue
			}
			if !found || better(c.Result, best.Result, m) {
				best, found = c, true
			}
		}
		return nil
	})
	if err != nil {
		return Candidate{}, err
	}
	if !found {
		return Candidate{}, fmt.Errorf("%w: %s", ErrUnsolvable, s)
	}
	return best, nil
}

// better reports whether x strictly improves on y under m.
func better(x, y Result, m Metric) bool {
	if m == Expected {
		return x.Expected < y.Expected
	}
	if x.WorstCase != y.WorstCase {
		return x.WorstCase < y.WorstCase
	}
	return x.Expected < y.Expected
}
