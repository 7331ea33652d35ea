package strategy

import (
	"context"
	"errors"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/scale"
)

var (
	// ErrNilAnalyzer is returned when Build receives a nil *analyzer.Analyzer.
	ErrNilAnalyzer = errors.New("strategy: analyzer is nil")

	// ErrNilTree is returned when Walk receives a nil tree or root.
	ErrNilTree = errors.New("strategy: tree is nil")
)

// Node is one state of a strategy. Leaves carry a terminal state and no
// experiment.
type Node struct {
	State scale.State `json:"state"`

	// Result is the analyzer's result for State; zero for leaves.
	Result analyzer.Result `json:"result"`

	// Experiment is the weighing to perform here; nil for leaves.
	Experiment *scale.Experiment `json:"experiment,omitempty"`

	// Branches holds one entry per reachable outcome, in scale.Outcomes() order.
	Branches []Branch `json:"branches,omitempty"`
}

// Leaf reports whether n has no further weighing.
func (n *Node) Leaf() bool { return n.Experiment == nil }

// Branch links a node to the node reached after one outcome.
type Branch struct {
	Outcome     scale.Outcome `json:"outcome"`
	Probability float64       `json:"probability"`
	Node        *Node         `json:"node"`
}

// Tree is a complete strategy rooted at the queried state.
type Tree struct {
	Root   *Node           `json:"root"`
	Metric analyzer.Metric `json:"-"`
}

// Option configures Walk.
// Use with Walk(t, opts...).
type Option func(*WalkOptions)

// WalkOptions holds the hooks and limits of a tree walk.
type WalkOptions struct {
	// Ctx allows cancellation; defaults to context.Background().
	Ctx context.Context

	// OnVisit, if non-nil, is called before a node's branches (pre-order).
	// Returning an error aborts the walk.
	OnVisit func(n *Node, depth int) error

	// OnExit, if non-nil, is called after a node's branches (post-order).
	// Returning an error aborts the walk.
	OnExit func(n *Node, depth int) error

	// MaxDepth, if non-negative, stops descending below that depth.
	// Default is -1 (no limit).
	MaxDepth int
}

// DefaultWalkOptions returns WalkOptions with:
//   - Background context
//   - No hooks
//   - No depth limit (MaxDepth = -1)
func DefaultWalkOptions() WalkOptions {
	return WalkOptions{
		Ctx:      context.Background(),
		OnVisit:  nil,
		OnExit:   nil,
		MaxDepth: -1,
	}
}

// WithContext sets the walk's context. A nil context is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *WalkOptions) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit installs a pre-order hook.
func WithOnVisit(fn func(n *Node, depth int) error) Option {
	return func(o *WalkOptions) {
		o.OnVisit = fn
	}
}

// WithOnExit installs a post-order hook.
func WithOnExit(fn func(n *Node, depth int) error) Option {
	return func(o *WalkOptions) {
		o.OnExit = fn
	}
}

// WithMaxDepth limits the walk to nodes at most limit weighings deep.
// A limit of 0 visits only the root.
func WithMaxDepth(limit int) Option {
	return func(o *WalkOptions) {
		o.MaxDepth = limit
	}
}
