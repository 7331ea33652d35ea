package main

import (
	"encoding/json"
	"errors"

	"github.com/katalvlaran/scales/internal/report"
	"github.com/katalvlaran/scales/strategy"
	"github.com/spf13/cobra"
)

func newStrategyCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Print the optimal decision tree of weighings",
		Example: `  scales strategy -n 12
  scales strategy -n 14 --unknown 12 --metric expected --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx, cancel := a.context(cmd)
			defer cancel()

			s, err := a.cfg.State()
			if err != nil {
				return err
			}
			m, err := a.cfg.AnalyzerMetric()
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

			tree, err := strategy.Build(ctx, an, s, m)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tree.Root)
			}
			return report.New(cmd.OutOrStdout()).Tree(tree)
		},
	}
	addStateFlags(cmd, &a.flags)
	addRunFlags(cmd, &a.flags)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tree as JSON")
	return cmd
}
