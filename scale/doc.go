// Package scale models the knowledge state of a balance-scale puzzle:
// N otherwise identical items, at most one of which is defective (lighter
// or heavier), and a two-pan balance that compares equally sized groups.
//
// What:
//
//   - State: six category counts summarizing what is known about the items
//     (unknown, maybe-light, maybe-heavy, standard, confirmed light,
//     confirmed heavy). Counts always sum to the population N.
//   - Pan / Experiment: how many items of each open category are placed on
//     the left and on the right pan.
//   - Catalogue: every structurally distinct balanced weighing for a given N,
//     built once and filtered per state by feasibility.
//   - Apply: the deterministic state update for each of the three outcomes
//     ("=", "<", ">"), followed by the collapse rule that promotes a lone
//     candidate to a confirmed defective.
//   - Probabilities: outcome weights under a uniform prior, where unknown
//     items count twice because either polarity is still possible.
//
// Notation:
//
//	?  unknown item          -  maybe-light item      +  maybe-heavy item
//	o  standard (genuine)    L  confirmed light       H  confirmed heavy
//
// Determinism:
//
//	The catalogue is generated in a fixed lexicographic order; Feasible keeps
//	that order, so every consumer sees experiments in the same sequence.
//
// Complexity:
//
//   - NewCatalogue: O(Σₓ q(x)²) with q(x) = C(x+3, 3) allocations of x items.
//   - Feasible:     O(|catalogue|) per state.
//   - Apply:        O(1).
//
// Errors:
//
//   - ErrInvalidPopulation    — population below 1.
//   - ErrInvalidState         — counts inconsistent with the population.
//   - ErrInfeasibleExperiment — pans use more items than the state holds.
//   - ErrUnbalancedPans       — pans of different sizes.
//   - ErrUnknownOutcome       — outcome outside "=", "<", ">".
package scale
