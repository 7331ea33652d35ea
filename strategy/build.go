package strategy

import (
	"context"
	"fmt"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/scale"
)

// Build extracts the optimal strategy for m from s.
//
// At every non-terminal node the analyzer's Best experiment is used unless
// one of its reachable outcomes returns to a state already on the path
// from the root; the best experiment that avoids the path is used then.
//
// Errors: ErrNilAnalyzer, and anything Analyze / Best return for s or for
// a reachable descendant.
//
// Complexity: O(L·E) analyzer work on a warm memo table, L = leaves,
// E = catalogue size.
func Build(ctx context.Context, a *analyzer.Analyzer, s scale.State, m analyzer.Metric) (*Tree, error) {
	// --- 1. Validate ---
	if a == nil {
		return nil, ErrNilAnalyzer
	}
	if m != analyzer.WorstCase && m != analyzer.Expected {
		return nil, fmt.Errorf("%w: %d", analyzer.ErrUnknownMetric, int(m))
	}

	// --- 2. Solve the root once so failures surface before any recursion ---
	if _, err := a.Analyze(ctx, s); err != nil {
		return nil, err
	}

	// --- 3. Grow the tree ---
	b := &builder{ctx: ctx, a: a, metric: m, path: make(map[scale.State]struct{})}
	root, err := b.node(s)
	if err != nil {
		return nil, err
	}

	return &Tree{Root: root, Metric: m}, nil
}

type builder struct {
	ctx    context.Context
	a      *analyzer.Analyzer
	metric analyzer.Metric
	path   map[scale.State]struct{}
}

func (b *builder) node(s scale.State) (*Node, error) {
	if s.Terminal() {
		return &Node{State: s}, nil
	}
	if err := b.ctx.Err(); err != nil {
		return nil, err
	}

	res, err := b.a.Analyze(b.ctx, s)
	if err != nil {
		return nil, err
	}

	b.path[s] = struct{}{}
	defer delete(b.path, s)

	c, err := b.choose(s)
	if err != nil {
		return nil, err
	}

	x := c.Experiment
	n := &Node{State: s, Result: res, Experiment: &x}
	for _, br := range c.Branches {
		if br.Probability == 0 {
			continue
		}
		child, err := b.node(br.Child)
		if err != nil {
			return nil, err
		}
		n.Branches = append(n.Branches, Branch{
			Outcome:     br.Outcome,
			Probability: br.Probability,
			Node:        child,
		})
	}

	return n, nil
}

// choose returns the experiment to perform in s.
func (b *builder) choose(s scale.State) (analyzer.Candidate, error) {
	c, err := b.a.Best(b.ctx, s, b.metric)
	if err != nil {
		return analyzer.Candidate{}, err
	}
	if !b.revisits(c) {
		return c, nil
	}

	cands, err := b.a.Explain(b.ctx, s)
	if err != nil {
		return analyzer.Candidate{}, err
	}
	var (
		best  analyzer.Candidate
		found bool
	)
	for _, c := range cands {
		if !c.Viable || b.revisits(c) {
			continue
		}
		if !found || improves(c.Result, best.Result, b.metric) {
			best, found = c, true
		}
	}
	if !found {
		return analyzer.Candidate{}, fmt.Errorf("%w: every weighing from %s returns to an earlier state",
			analyzer.ErrUnsolvable, s)
	}
	return best, nil
}

// revisits reports whether a reachable outcome of c lands on the current path.
func (b *builder) revisits(c analyzer.Candidate) bool {
	for _, br := range c.Branches {
		if br.Probability == 0 {
			continue
		}
		if _, ok := b.path[br.Child]; ok {
			return true
		}
	}
	return false
}

func improves(x, y analyzer.Result, m analyzer.Metric) bool {
	if m == analyzer.Expected {
		return x.Expected < y.Expected
	}
	if x.WorstCase != y.WorstCase {
		return x.WorstCase < y.WorstCase
	}
	return x.Expected < y.Expected
}
