// Package strategy turns analyzer results into explicit decision trees:
// which weighing to perform at every step and what to do after each
// outcome.
//
// What:
//
//   - Build: follows the optimal experiment for a Metric from a state down
//     to terminal states. Only reachable outcomes (probability > 0) get a
//     child node.
//   - Tree: Depth, Leaves and Expected summarize a built tree.
//   - Walk: depth-first traversal with pre-/post-order hooks, depth
//     limiting and cancellation.
//
// Guarantees:
//
//   - a WorstCase tree has Depth() equal to the analyzer's worst case;
//   - an Expected tree has Expected() equal to the analyzer's expected
//     value (up to floating-point rounding);
//   - every leaf identifies the defective item, so Leaves() equals the
//     root's Free() count for puzzles that always contain a defective.
//
// An Expected tree may be deeper than the worst case when a deeper
// strategy has the same or lower expected cost.
//
// Errors:
//
//   - ErrNilAnalyzer  Build called without an analyzer
//   - ErrNilTree      Walk called without a tree
//   - analyzer errors (ErrUnsolvable, ErrNoFeasibleExperiment, ...) propagated
package strategy
