// Package analyzer computes optimal weighing strategies for the balance-scale
// puzzle modeled by package scale.
//
// What:
//
//   - Analyzer: a memoized recursive search over scale.State. For every
//     state it finds the minimal worst-case and the minimal expected number
//     of weighings that identify the defective item. Each metric is
//     minimized on its own.
//   - Explain / Evaluate: the per-experiment breakdown behind a result,
//     with the three outcomes, their probabilities and child results.
//   - Best: the experiment to perform next for a chosen Metric.
//   - Registry: one Analyzer per population, safe for concurrent callers.
//
// Search:
//
//	visit(s):
//	    terminal          → (0, 0)
//	    memoized          → table entry
//	    on the stack      → cyclic, the calling experiment is discarded
//	    otherwise, for every feasible experiment x:
//	        visit all three children
//	        skip outcomes with probability 0
//	        discard x if a reachable child is unsolved or cyclic
//	        wc  = 1 + max child wc
//	        exp = 1 + Σ p·child exp
//	    keep min wc and min exp over the surviving experiments
//
// States on the recursion stack are marked grey, as in DFS colouring. The
// only cycles in the state graph are weighings that leave a state
// unchanged, so memo entries never depend on where a query started.
//
// Status:
//
//   - Solved      Result is meaningful
//   - Unsolvable  every feasible experiment was discarded
//   - Stuck       no experiment is feasible (e.g. a single item)
//
// Budgets:
//
//	WithMaxStates caps the distinct states one query may compute; the
//	context is polled every 1024 computed states and every 4096 scanned
//	experiments. Entries completed before an interruption stay valid and
//	are kept.
//
// Observability:
//
//	Each root query opens an OpenTelemetry span, updates the optional
//	Prometheus collectors in Metrics and writes one Debug record.
//
// Errors:
//
//   - ErrPopulationMismatch    state built for another population
//   - ErrUnsolvable            no experiment leads to a solution
//   - ErrNoFeasibleExperiment  non-terminal state with nothing to weigh
//   - ErrBudgetExceeded        WithMaxStates limit hit
//   - ErrTerminal              Best called on a solved state
//   - ErrUnknownMetric         Metric outside WorstCase / Expected
package analyzer
