// Package scales answers the counterfeit-coin puzzle: among N items one
// is defective, lighter or heavier than the rest, and the only instrument
// is a two-pan balance. How many weighings are needed to find the item
// and its polarity, in the worst case and on average?
//
// 🚀 What is in the box?
//
//	• Knowledge states: how many items are unknown, maybe light, maybe
//	  heavy, proven standard or confirmed defective
//	• The catalogue of distinct weighings for a population, without
//	  mirrored or reordered duplicates
//	• An exhaustive memoized search that rates every state by its
//	  minimum worst-case and expected number of weighings
//	• Decision trees that tell the operator what to weigh next
//
// Under the hood, everything is organized into three packages:
//
//	scale/     — states, pans, experiments, outcomes and the catalogue
//	analyzer/  — the search, its memo table, Explain / Best, Registry
//	strategy/  — decision trees built from a solved analyzer, Walk hooks
//
// and a command with its supporting internals:
//
//	cmd/scales         — analyze, explain, strategy, sweep, catalogue, serve
//	internal/config    — defaults, YAML file, SCALES_* environment
//	internal/store     — memo snapshots in SQLite or Badger
//	internal/server    — HTTP query service
//	internal/report    — terminal rendering
//	internal/telemetry — slog, OpenTelemetry, Prometheus text files
//
// Quick ASCII example, the first weighing for twelve coins:
//
//	 ? ? ? ?          ? ? ? ?
//	───────────▲───────────
//	 '=' → the other four hold the defective
//	 '<' / '>' → one of the eight on the pans
//
//	go get github.com/katalvlaran/scales
package scales
