package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/katalvlaran/scales/internal/config"
	"github.com/katalvlaran/scales/internal/telemetry"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string
	flags     overrides

	cfg    config.Config
	logger *slog.Logger
	stderr io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "scales",
		Short: "scales - optimal weighing strategies for the counterfeit coin puzzle",
		Long: `scales finds how many weighings on a two-pan balance are needed to
identify the single defective item of a population and whether it is
light or heavy, in the worst case and on average.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "text or json")

	root.AddCommand(
		newAnalyzeCmd(a),
		newExplainCmd(a),
		newStrategyCmd(a),
		newSweepCmd(a),
		newCatalogueCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads the configuration, applies explicitly set flags and builds
// the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	a.flags.apply(cmd, &cfg)
	if err = cfg.Validate(); err != nil {
		return err
	}

	logger, err := telemetry.NewLogger(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg, a.logger, a.stderr = cfg, logger, cmd.ErrOrStderr()
	return nil
}

// context derives the run context, bounded by the configured timeout.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, a.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}
