package main

import (
	"errors"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/internal/report"
	"github.com/spf13/cobra"
)

func newExplainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "List every distinct weighing for a state with its consequences",
		Long: `explain prints one block per distinct weighing of the state, most
informative first: the pans, the worst-case and expected number of
weighings when starting with it, and the state reached on each outcome.`,
		Example: `  scales explain -n 12
  scales explain -n 12 --unknown 0 --maybe-light 4 --maybe-heavy 4`,
		Args: cobra.NoArgs,
		RunE: a.runExplain,
	}
	addStateFlags(cmd, &a.flags)
	addRunFlags(cmd, &a.flags)
	return cmd
}

func (a *app) runExplain(cmd *cobra.Command, _ []string) (err error) {
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

	status, err := an.Status(ctx, s)
	if err != nil {
		return err
	}
	var res analyzer.Result
	if status == analyzer.Solved {
		if res, err = an.Analyze(ctx, s); err != nil {
			return err
		}
	}
	cands, err := an.Explain(ctx, s)
	if err != nil {
		return err
	}

	report.New(cmd.OutOrStdout()).Explain(s, status, res, cands)
	return nil
}
