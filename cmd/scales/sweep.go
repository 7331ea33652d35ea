package main

import (
	"errors"
	"time"

	"github.com/katalvlaran/scales/internal/report"
	"github.com/katalvlaran/scales/scale"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newSweepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Analyze every population in a range, all items suspect",
		Example: `  scales sweep --from 3 --to 14
  scales sweep --from 3 --to 20 --workers 8 --metrics-file sweep.prom`,
		Args: cobra.NoArgs,
		RunE: a.runSweep,
	}
	addRunFlags(cmd, &a.flags)
	f := cmd.Flags()
	f.IntVar(&a.flags.from, "from", 0, "first population")
	f.IntVar(&a.flags.to, "to", 0, "last population")
	f.IntVar(&a.flags.workers, "workers", 0, "populations analyzed concurrently")
	return cmd
}

func (a *app) runSweep(cmd *cobra.Command, _ []string) (err error) {
	ctx, cancel := a.context(cmd)
	defer cancel()

	sess, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sess.close()) }()

	from, to := a.cfg.Sweep.From, a.cfg.Sweep.To
	rows := make([]report.SweepRow, to-from+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Sweep.Workers)
	for n := from; n <= to; n++ {
		row := &rows[n-from]
		g.Go(func() error {
			s, err := scale.Initial(n, n)
			if err != nil {
				return err
			}
			an, err := sess.analyzer(gctx, n)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := an.Analyze(gctx, s)
			*row = report.SweepRow{
				Population:  n,
				Unknown:     n,
				Result:      res,
				Evaluations: an.Stats().Evaluations,
				Elapsed:     time.Since(start),
			}
			if st, failed := failure(err); failed {
				row.Status = st
			} else {
				row.Err = err
			}

			a.logger.Debug("sweep population done", "run_id", sess.runID, "population", n, "error", err)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	report.New(cmd.OutOrStdout()).Sweep(rows)
	return nil
}
