package strategy

import "fmt"

// Depth returns the number of weighings on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	if t == nil || t.Root == nil {
		return 0
	}
	return depth(t.Root)
}

func depth(n *Node) int {
	d := 0
	for _, b := range n.Branches {
		d = max(d, 1+depth(b.Node))
	}
	return d
}

// Leaves returns the number of terminal nodes.
func (t *Tree) Leaves() int {
	if t == nil || t.Root == nil {
		return 0
	}
	return leaves(t.Root)
}

func leaves(n *Node) int {
	if len(n.Branches) == 0 {
		return 1
	}
	total := 0
	for _, b := range n.Branches {
		total += leaves(b.Node)
	}
	return total
}

// Expected returns the probability-weighted depth of the leaves.
func (t *Tree) Expected() float64 {
	if t == nil || t.Root == nil {
		return 0
	}
	return expected(t.Root, 1, 0)
}

func expected(n *Node, p float64, d int) float64 {
	if len(n.Branches) == 0 {
		return p * float64(d)
	}
	sum := 0.0
	for _, b := range n.Branches {
		sum += expected(b.Node, p*b.Probability, d+1)
	}
	return sum
}

// Walk traverses t depth-first from the root, calling the hooks from opts.
// Cancellation is checked before each node.
//
// Errors: ErrNilTree, the context's error, hook errors (wrapped).
func Walk(t *Tree, opts ...Option) error {
	if t == nil || t.Root == nil {
		return ErrNilTree
	}

	wopts := DefaultWalkOptions()
	for _, fn := range opts {
		fn(&wopts)
	}

	w := &walker{opts: wopts}
	return w.traverse(t.Root, 0)
}

type walker struct {
	opts WalkOptions
}

func (w *walker) traverse(n *Node, d int) error {
	// 1. Cancellation check
	select {
	case <-w.opts.Ctx.Done():
		return w.opts.Ctx.Err()
	default:
	}

	// 2. Depth limit
	if w.opts.MaxDepth >= 0 && d > w.opts.MaxDepth {
		return nil
	}

	// 3. Pre-order hook
	if w.opts.OnVisit != nil {
		if err := w.opts.OnVisit(n, d); err != nil {
			return fmt.Errorf("strategy: OnVisit hook at %s: %w", n.State, err)
		}
	}

	// 4. Branches in outcome order
	for _, b := range n.Branches {
		if err := w.traverse(b.Node, d+1); err != nil {
			return err
		}
	}

	// 5. Post-order hook
	if w.opts.OnExit != nil {
		if err := w.opts.OnExit(n, d); err != nil {
			return fmt.Errorf("strategy: OnExit hook at %s: %w", n.State, err)
		}
	}

	return nil
}
