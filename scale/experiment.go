package scale

import (
	"cmp"
	"fmt"
	"strings"
)

// Pan is an allocation quadruple: how many items of each non-terminal
// category are placed on one side of the balance.
type Pan struct {
	Unknown    int `json:"unknown"`
	MaybeLight int `json:"maybe_light"`
	MaybeHeavy int `json:"maybe_heavy"`
	Standard   int `json:"standard"`
}

// Size returns the number of items on the pan.
func (p Pan) Size() int {
	return p.Unknown + p.MaybeLight + p.MaybeHeavy + p.Standard
}

// Compare orders pans lexicographically by (unknown, maybeLight, maybeHeavy,
// standard) and returns -1, 0 or +1.
func (p Pan) Compare(o Pan) int {
	if c := cmp.Compare(p.Unknown, o.Unknown); c != 0 {
		return c
	}
	if c := cmp.Compare(p.MaybeLight, o.MaybeLight); c != 0 {
		return c
	}
	if c := cmp.Compare(p.MaybeHeavy, o.MaybeHeavy); c != 0 {
		return c
	}
	return cmp.Compare(p.Standard, o.Standard)
}

// Symbols renders one symbol per item on the pan, e.g. "? ? - o".
func (p Pan) Symbols() string {
	var b strings.Builder
	writeSymbols(&b, "?", p.Unknown)
	writeSymbols(&b, "-", p.MaybeLight)
	writeSymbols(&b, "+", p.MaybeHeavy)
	writeSymbols(&b, "o", p.Standard)
	return b.String()
}

func (p Pan) negative() bool {
	return p.Unknown < 0 || p.MaybeLight < 0 || p.MaybeHeavy < 0 || p.Standard < 0
}

// Experiment is one weighing: the Left pan against the Right pan.
type Experiment struct {
	Left  Pan `json:"left"`
	Right Pan `json:"right"`
}

// Size returns the number of items on each pan (the left pan's size for
// unbalanced experiments).
func (e Experiment) Size() int {
	return e.Left.Size()
}

// Balanced reports whether both pans hold the same number of items.
func (e Experiment) Balanced() bool {
	return e.Left.Size() == e.Right.Size()
}

// Mirror returns the experiment with the pans swapped.
func (e Experiment) Mirror() Experiment {
	return Experiment{Left: e.Right, Right: e.Left}
}

// Feasible reports whether s holds enough items of every category to
// fill both pans.
func (e Experiment) Feasible(s State) bool {
	if e.Left.negative() || e.Right.negative() {
		return false
	}
	return s.unknown >= e.Left.Unknown+e.Right.Unknown &&
		s.maybeLight >= e.Left.MaybeLight+e.Right.MaybeLight &&
		s.maybeHeavy >= e.Left.MaybeHeavy+e.Right.MaybeHeavy &&
		s.standard >= e.Left.Standard+e.Right.Standard
}

// String renders the experiment as "<left>  vs  <right>".
func (e Experiment) String() string {
	return fmt.Sprintf("%s  vs  %s", e.Left.Symbols(), e.Right.Symbols())
}
