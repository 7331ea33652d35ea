package scale

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPopulation indicates a population size below 1.
	ErrInvalidPopulation = errors.New("scale: population must be at least 1")

	// ErrInvalidState indicates category counts that cannot describe a
	// population: negative counts, confirmed counts outside {0,1}, both
	// polarities confirmed, or counts exceeding the population.
	ErrInvalidState = errors.New("scale: invalid state")

	// ErrInfeasibleExperiment indicates pans that use more items of some
	// category than the state holds. Requests are rejected, never clamped.
	ErrInfeasibleExperiment = errors.New("scale: infeasible experiment")

	// ErrUnbalancedPans indicates pans holding different numbers of items.
	ErrUnbalancedPans = errors.New("scale: pans must hold the same number of items")

	// ErrUnknownOutcome indicates an Outcome value outside the three defined ones.
	ErrUnknownOutcome = errors.New("scale: unknown outcome")
)

// Counts is the caller-facing description of a state. Standard is not part
// of it: the number of standard items is always derived from the population.
type Counts struct {
	Unknown    int `json:"unknown" yaml:"unknown"`
	MaybeLight int `json:"maybe_light" yaml:"maybe_light"`
	MaybeHeavy int `json:"maybe_heavy" yaml:"maybe_heavy"`
	Light      int `json:"light" yaml:"light"`
	Heavy      int `json:"heavy" yaml:"heavy"`
}

// Outcome is the reading of the balance after one weighing.
type Outcome int

const (
	// Balance ("="): both pans weigh the same; every item on them is standard.
	Balance Outcome = iota

	// LeftLighter ("<"): the defective is light on the left or heavy on the right.
	LeftLighter

	// LeftHeavier (">"): the defective is heavy on the left or light on the right.
	LeftHeavier
)

// Outcomes returns the three outcomes in canonical order: "=", "<", ">".
func Outcomes() [3]Outcome {
	return [3]Outcome{Balance, LeftLighter, LeftHeavier}
}

// Valid reports whether o is one of the three defined outcomes.
func (o Outcome) Valid() bool {
	return o >= Balance && o <= LeftHeavier
}

// String returns the outcome symbol.
func (o Outcome) String() string {
	switch o {
	case Balance:
		return "="
	case LeftLighter:
		return "<"
	case LeftHeavier:
		return ">"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MarshalText encodes the outcome as its symbol.
func (o Outcome) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOutcome, int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes "=", "<" or ">".
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "=":
		*o = Balance
	case "<":
		*o = LeftLighter
	case ">":
		*o = LeftHeavier
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, string(text))
	}
	return nil
}
