package main

import (
	"context"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/internal/server"
	"github.com/katalvlaran/scales/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve analyses over HTTP",
		Example: `  scales serve --addr :8080
  SCALES_SERVER_QUERY_TIMEOUT=30s scales serve`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}
	addMaxStatesFlag(cmd, &a.flags)
	addTraceFlag(cmd, &a.flags)
	cmd.Flags().StringVar(&a.flags.addr, "addr", "", "listen address")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if a.cfg.Trace.Enabled {
		shutdown, err := telemetry.InitTracing(ctx, a.stderr, "scales", version)
		if err != nil {
			return err
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	registry := analyzer.NewRegistry(
		analyzer.WithLogger(a.logger),
		analyzer.WithMetrics(analyzer.NewMetrics(reg)),
		analyzer.WithMaxStates(a.cfg.MaxStates),
	)

	srv := server.New(registry, server.Config{
		QueryTimeout:  a.cfg.Server.QueryTimeout,
		MaxPopulation: a.cfg.Server.MaxPopulation,
	}, a.logger, reg)
	return srv.Run(ctx, a.cfg.Server.Addr)
}
