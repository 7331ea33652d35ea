package scale

import (
	"encoding/json"
	"fmt"
	"strings"
)

// State is an immutable summary of what is known about a population of N
// items. It is a comparable value and can be used directly as a map key;
// two states are equal iff all six counts are equal.
//
// Invariants (enforced by NewState and preserved by Apply):
//   - all counts are non-negative and sum to N;
//   - light, heavy ∈ {0,1} and at most one of them is 1;
//   - once light or heavy is 1, unknown = maybeLight = maybeHeavy = 0.
type State struct {
	unknown    int
	maybeLight int
	maybeHeavy int
	standard   int
	light      int
	heavy      int
}

// NewState builds a state for a population of n items from the open and
// confirmed counts in c. The standard count is derived as n minus all other
// counts. The state is not collapsed; see Collapse.
//
// Errors: ErrInvalidPopulation for n < 1, ErrInvalidState (wrapped with the
// offending detail) for inconsistent counts.
func NewState(n int, c Counts) (State, error) {
	if n < 1 {
		return State{}, fmt.Errorf("%w: got %d", ErrInvalidPopulation, n)
	}
	if c.Unknown < 0 || c.MaybeLight < 0 || c.MaybeHeavy < 0 || c.Light < 0 || c.Heavy < 0 {
		return State{}, fmt.Errorf("%w: negative count in %+v", ErrInvalidState, c)
	}
	if c.Light > 1 || c.Heavy > 1 {
		return State{}, fmt.Errorf("%w: confirmed counts must be 0 or 1, got light=%d heavy=%d",
			ErrInvalidState, c.Light, c.Heavy)
	}
	if c.Light == 1 && c.Heavy == 1 {
		return State{}, fmt.Errorf("%w: both light and heavy confirmed", ErrInvalidState)
	}
	if (c.Light == 1 || c.Heavy == 1) && c.Unknown+c.MaybeLight+c.MaybeHeavy > 0 {
		return State{}, fmt.Errorf("%w: confirmed defective alongside open candidates", ErrInvalidState)
	}
	total := c.Unknown + c.MaybeLight + c.MaybeHeavy + c.Light + c.Heavy
	if total > n {
		return State{}, fmt.Errorf("%w: counts sum to %d, population is %d", ErrInvalidState, total, n)
	}

	return State{
		unknown:    c.Unknown,
		maybeLight: c.MaybeLight,
		maybeHeavy: c.MaybeHeavy,
		standard:   n - total,
		light:      c.Light,
		heavy:      c.Heavy,
	}, nil
}

// Initial returns the starting state of a puzzle: unknown items about which
// nothing is known, the remaining n-unknown items being standard references.
func Initial(n, unknown int) (State, error) {
	return NewState(n, Counts{Unknown: unknown})
}

// derive assembles a state from open/confirmed counts for a population of n,
// re-deriving standard. Callers guarantee the invariants.
func derive(n, unknown, maybeLight, maybeHeavy, light, heavy int) State {
	return State{
		unknown:    unknown,
		maybeLight: maybeLight,
		maybeHeavy: maybeHeavy,
		standard:   n - unknown - maybeLight - maybeHeavy - light - heavy,
		light:      light,
		heavy:      heavy,
	}
}

// N returns the population size.
func (s State) N() int {
	return s.unknown + s.maybeLight + s.maybeHeavy + s.standard + s.light + s.heavy
}

// Unknown returns the number of items about which nothing is known.
func (s State) Unknown() int { return s.unknown }

// MaybeLight returns the number of items that are standard or the light defective.
func (s State) MaybeLight() int { return s.maybeLight }

// MaybeHeavy returns the number of items that are standard or the heavy defective.
func (s State) MaybeHeavy() int { return s.maybeHeavy }

// Standard returns the number of items proven genuine.
func (s State) Standard() int { return s.standard }

// Light returns 1 if the defective has been identified as light.
func (s State) Light() int { return s.light }

// Heavy returns 1 if the defective has been identified as heavy.
func (s State) Heavy() int { return s.heavy }

// Counts returns the constructor view of s (standard omitted).
func (s State) Counts() Counts {
	return Counts{
		Unknown:    s.unknown,
		MaybeLight: s.maybeLight,
		MaybeHeavy: s.maybeHeavy,
		Light:      s.light,
		Heavy:      s.heavy,
	}
}

// Free returns 2·unknown + maybeLight + maybeHeavy: the number of open
// hypotheses, an unknown item counting once per possible polarity.
func (s State) Free() int {
	return 2*s.unknown + s.maybeLight + s.maybeHeavy
}

// Terminal reports whether the state is solved: the defective is confirmed
// light or heavy, or every item is proven standard.
func (s State) Terminal() bool {
	return s.light == 1 || s.heavy == 1 || s.standard == s.N()
}

// Collapse promotes a lone remaining candidate to a confirmed defective.
// With no unknown items, a single maybe-light item and no maybe-heavy item,
// that item is the light defective (symmetrically for heavy). Any other
// state is returned unchanged.
func (s State) Collapse() State {
	if s.unknown == 0 && s.maybeLight == 1 && s.maybeHeavy == 0 {
		s.maybeLight, s.light = 0, 1
	}
	if s.unknown == 0 && s.maybeLight == 0 && s.maybeHeavy == 1 {
		s.maybeHeavy, s.heavy = 0, 1
	}
	return s
}

// String renders the six counts as (unknown maybeLight maybeHeavy standard light heavy).
func (s State) String() string {
	return fmt.Sprintf("(%d %d %d %d %d %d)",
		s.unknown, s.maybeLight, s.maybeHeavy, s.standard, s.light, s.heavy)
}

// Symbols renders one symbol per item, e.g. "? ? - + o o".
func (s State) Symbols() string {
	var b strings.Builder
	writeSymbols(&b, "?", s.unknown)
	writeSymbols(&b, "-", s.maybeLight)
	writeSymbols(&b, "+", s.maybeHeavy)
	writeSymbols(&b, "o", s.standard)
	writeSymbols(&b, "L", s.light)
	writeSymbols(&b, "H", s.heavy)
	return b.String()
}

func writeSymbols(b *strings.Builder, sym string, count int) {
	for range count {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sym)
	}
}

type stateJSON struct {
	Unknown    int `json:"unknown"`
	MaybeLight int `json:"maybe_light"`
	MaybeHeavy int `json:"maybe_heavy"`
	Standard   int `json:"standard"`
	Light      int `json:"light"`
	Heavy      int `json:"heavy"`
}

// MarshalJSON encodes all six counts.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		Unknown:    s.unknown,
		MaybeLight: s.maybeLight,
		MaybeHeavy: s.maybeHeavy,
		Standard:   s.standard,
		Light:      s.light,
		Heavy:      s.heavy,
	})
}

// UnmarshalJSON decodes six counts and validates them through NewState,
// taking the population as their sum.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Standard < 0 {
		return fmt.Errorf("%w: negative standard count", ErrInvalidState)
	}
	n := raw.Unknown + raw.MaybeLight + raw.MaybeHeavy + raw.Standard + raw.Light + raw.Heavy
	st, err := NewState(n, Counts{
		Unknown:    raw.Unknown,
		MaybeLight: raw.MaybeLight,
		MaybeHeavy: raw.MaybeHeavy,
		Light:      raw.Light,
		Heavy:      raw.Heavy,
	})
	if err != nil {
		return err
	}
	*s = st
	return nil
}
