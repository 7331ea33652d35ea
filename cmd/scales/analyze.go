package main

import (
	"errors"
	"time"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/internal/report"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Minimum worst-case and expected number of weighings",
		Example: `  scales analyze -n 12
  scales analyze -n 13 --unknown 12
  scales analyze -n 14 --unknown 12 --store sqlite --store-path memo.db`,
		Args: cobra.NoArgs,
		RunE: a.runAnalyze,
	}
	addStateFlags(cmd, &a.flags)
	addRunFlags(cmd, &a.flags)
	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, _ []string) (err error) {
	ctx, cancel := a.context(cmd)
	defer cancel()

	s, err := a.cfg.State()
	if err != nil {
		return err
	}

	sess, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sess.close()) }()

	an, err := sess.analyzer(ctx, s.N())
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := an.Analyze(ctx, s)
	p := report.New(cmd.OutOrStdout())
	if st, failed := failure(err); failed {
		p.Failure(s, st)
	} else if err != nil {
		return err
	} else {
		p.Result(s, res)
	}
	p.Stats(an.Stats(), time.Since(start))

	a.logger.Debug("analysis complete",
		"run_id", sess.runID,
		"population", s.N(),
		"state", s.String(),
		"worst_case", res.WorstCase,
		"expected", res.Expected,
		"evaluations", an.Stats().Evaluations,
	)
	return nil
}

// failure reports whether err describes a state without a solution, as
// opposed to an aborted query.
func failure(err error) (analyzer.Status, bool) {
	switch {
	case errors.Is(err, analyzer.ErrUnsolvable):
		return analyzer.Unsolvable, true
	case errors.Is(err, analyzer.ErrNoFeasibleExperiment):
		return analyzer.Stuck, true
	default:
		return analyzer.Solved, false
	}
}
