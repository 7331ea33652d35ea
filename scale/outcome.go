package scale

import "fmt"

// Apply returns the state that follows from weighing e in s and reading o.
//
// Rules:
//
//   - "=": every item on either pan is standard. Their unknown, maybe-light
//     and maybe-heavy counts are removed (they become standard through the
//     derived total); confirmed counts are untouched.
//   - "<": the defective is light on the left or heavy on the right. Every
//     candidate off the pans is cleared, maybe-light becomes the left pan's
//     unknown + maybe-light items, maybe-heavy becomes the right pan's
//     unknown + maybe-heavy items, and unknown drops to 0.
//   - ">": as "<" with the pans swapped.
//
// The collapse rule is applied afterwards and standard is re-derived.
//
// Errors: ErrUnbalancedPans, ErrInfeasibleExperiment, ErrUnknownOutcome.
//
// Complexity: O(1).
func Apply(s State, e Experiment, o Outcome) (State, error) {
	if !o.Valid() {
		return State{}, fmt.Errorf("%w: %d", ErrUnknownOutcome, int(o))
	}
	if !e.Balanced() {
		return State{}, fmt.Errorf("%w: %d vs %d", ErrUnbalancedPans, e.Left.Size(), e.Right.Size())
	}
	if !e.Feasible(s) {
		return State{}, fmt.Errorf("%w: %s in %s", ErrInfeasibleExperiment, e, s)
	}
	return apply(s, e, o), nil
}

// apply is Apply without validation; e must be feasible in s.
func apply(s State, e Experiment, o Outcome) State {
	n := s.N()
	unknown, maybeLight, maybeHeavy := s.unknown, s.maybeLight, s.maybeHeavy

	switch o {
	case Balance:
		unknown -= e.Left.Unknown + e.Right.Unknown
		maybeLight -= e.Left.MaybeLight + e.Right.MaybeLight
		maybeHeavy -= e.Left.MaybeHeavy + e.Right.MaybeHeavy
	default:
		lighter, heavier := e.Left, e.Right
		if o == LeftHeavier {
			lighter, heavier = e.Right, e.Left
		}
		maybeLight = lighter.Unknown + lighter.MaybeLight
		maybeHeavy = heavier.Unknown + heavier.MaybeHeavy
		unknown = 0
	}

	return derive(n, unknown, maybeLight, maybeHeavy, s.light, s.heavy).Collapse()
}

// Children returns the three successor states of weighing e in s, indexed
// in Outcomes() order.
func Children(s State, e Experiment) ([3]State, error) {
	var out [3]State
	if !e.Balanced() {
		return out, fmt.Errorf("%w: %d vs %d", ErrUnbalancedPans, e.Left.Size(), e.Right.Size())
	}
	if !e.Feasible(s) {
		return out, fmt.Errorf("%w: %s in %s", ErrInfeasibleExperiment, e, s)
	}
	for i, o := range Outcomes() {
		out[i] = apply(s, e, o)
	}
	return out, nil
}

// Probabilities returns the probability of each outcome of weighing e in s,
// indexed in Outcomes() order, under a uniform prior over the open
// hypotheses counted by s.Free() (an unknown item is two hypotheses):
//
//	left  = L.unknown + L.maybeLight + R.unknown + R.maybeHeavy   ("<")
//	right = L.unknown + L.maybeHeavy + R.unknown + R.maybeLight   (">")
//	P(=)  = (free − left − right) / free
//
// A state with no open hypotheses yields all zeros.
func Probabilities(s State, e Experiment) [3]float64 {
	total := s.Free()
	if total == 0 {
		return [3]float64{}
	}
	left := e.Left.Unknown + e.Left.MaybeLight + e.Right.Unknown + e.Right.MaybeHeavy
	right := e.Left.Unknown + e.Left.MaybeHeavy + e.Right.Unknown + e.Right.MaybeLight

	t := float64(total)
	return [3]float64{
		float64(total-left-right) / t,
		float64(left) / t,
		float64(right) / t,
	}
}
