// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ctmc/internal/api"
	"github.com/katalvlaran/ctmc/internal/metrics"
	"github.com/katalvlaran/ctmc/internal/telemetry"
	"github.com/katalvlaran/ctmc/reliability"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server: POST /process, POST /api/v1/solve,
GET /api/v1/graph, GET /api/v1/stream, GET /health and GET /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context())
		},
	}
	cmd.Flags().Int("port", 0, "listen port (overrides server.port)")
	_ = a.v.BindPFlag("server.port", cmd.Flags().Lookup("port")) //nolint:errcheck

	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	shutdownTracing := telemetry.Install(a.cfg.Telemetry, a.logger)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			a.logger.Warn("tracer shutdown", "error", err)
		}
	}()

	reg := metrics.NewRegistry()
	eng, err := a.engine(reliability.WithMetrics(reg.Engine()))
	if err != nil {
		return err
	}
	server := api.New(a.cfg, eng, reg, a.logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return nil

	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
