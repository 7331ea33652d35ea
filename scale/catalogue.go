package scale

// Catalogue is the precomputed set of structurally distinct balanced
// weighings for a population of N items. It depends only on N, never on a
// particular state, and is immutable after construction: a *Catalogue is
// safe for concurrent readers.
type Catalogue struct {
	n           int
	experiments []Experiment
}

// NewCatalogue enumerates, for every pan size x in 1..n/2, all pairs of
// allocation quadruples (left, right) of x items such that
//
//   - left ≤ right in quadruple order (mirror images give the same information), and
//   - at least one pan holds no standard item (otherwise the standard items
//     on both pans cancel out and a smaller experiment says the same).
//
// Pairs are emitted in a fixed order: by x, then left, then right, each in
// the lexicographic order produced by quadruples.
//
// For n == 1 the catalogue is empty: a single item cannot be weighed
// against anything.
//
// Complexity: O(Σₓ q(x)²) time and space, q(x) = C(x+3, 3).
func NewCatalogue(n int) (*Catalogue, error) {
	if n < 1 {
		return nil, ErrInvalidPopulation
	}

	var experiments []Experiment
	for x := 1; x <= n/2; x++ {
		qs := quadruples(x)
		for _, left := range qs {
			for _, right := range qs {
				if left.Compare(right) > 0 {
					continue // mirror image of an emitted pair
				}
				if left.Standard != 0 && right.Standard != 0 {
					continue // dominated by a smaller experiment
				}
				experiments = append(experiments, Experiment{Left: left, Right: right})
			}
		}
	}

	return &Catalogue{n: n, experiments: experiments}, nil
}

// quadruples returns every Pan holding exactly sum items, ordered
// lexicographically by (unknown, maybeLight, maybeHeavy); standard takes
// the remainder.
func quadruples(sum int) []Pan {
	out := make([]Pan, 0, (sum+1)*(sum+2)*(sum+3)/6)
	for a := 0; a <= sum; a++ {
		for b := 0; b <= sum-a; b++ {
			for c := 0; c <= sum-a-b; c++ {
				out = append(out, Pan{
					Unknown:    a,
					MaybeLight: b,
					MaybeHeavy: c,
					Standard:   sum - a - b - c,
				})
			}
		}
	}
	return out
}

// N returns the population size the catalogue was built for.
func (c *Catalogue) N() int { return c.n }

// Len returns the number of experiments in the catalogue.
func (c *Catalogue) Len() int { return len(c.experiments) }

// At returns the i-th experiment in catalogue order.
func (c *Catalogue) At(i int) Experiment { return c.experiments[i] }

// All returns a copy of every experiment in catalogue order.
func (c *Catalogue) All() []Experiment {
	out := make([]Experiment, len(c.experiments))
	copy(out, c.experiments)
	return out
}

// Feasible returns the experiments that s can fill, in catalogue order.
// States from a different population yield no experiments.
func (c *Catalogue) Feasible(s State) []Experiment {
	var out []Experiment
	c.Each(s, func(e Experiment) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Each calls fn for every experiment feasible in s, in catalogue order,
// until fn returns false.
func (c *Catalogue) Each(s State, fn func(Experiment) bool) {
	if s.N() != c.n {
		return
	}
	for _, e := range c.experiments {
		if !e.Feasible(s) {
			continue
		}
		if !fn(e) {
			return
		}
	}
}
