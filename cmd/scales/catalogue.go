package main

import (
	"github.com/katalvlaran/scales/internal/report"
	"github.com/katalvlaran/scales/scale"
	"github.com/spf13/cobra"
)

func newCatalogueCmd(a *app) *cobra.Command {
	var feasible bool

	cmd := &cobra.Command{
		Use:     "catalogue",
		Aliases: []string{"catalog"},
		Short:   "List the distinct weighings for a population",
		Example: `  scales catalogue -n 4
  scales catalogue -n 12 --unknown 4 --feasible`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := scale.NewCatalogue(a.cfg.Population)
			if err != nil {
				return err
			}

			var filter *scale.State
			if feasible {
				s, err := a.cfg.State()
				if err != nil {
					return err
				}
				filter = &s
			}

			report.New(cmd.OutOrStdout()).Catalogue(c, filter)
			return nil
		},
	}
	addStateFlags(cmd, &a.flags)
	cmd.Flags().BoolVar(&feasible, "feasible", false, "only weighings feasible in the configured state")
	return cmd
}
