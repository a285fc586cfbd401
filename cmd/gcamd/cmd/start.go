package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gix-network/gcam/app"
)

const metricsShutdownTimeout = 5 * time.Second

// StartCmd runs the clearing daemon until SIGINT or SIGTERM.
func StartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the clearing engine with its gRPC, REST, health, and metrics servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := homeFromCmd(cmd)
			if err != nil {
				return err
			}
			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}

			logger, err := app.NewLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}

			tel, err := app.InitTelemetry(cfg.Telemetry, nil)
			if err != nil {
				return fmt.Errorf("init telemetry: %w", err)
			}

			metricsServer := StartPrometheusServer(cfg.Telemetry.MetricsPort, logger)
			defer func() {
				if metricsServer == nil {
					return
				}
				ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
				defer cancel()
				_ = metricsServer.Shutdown(ctx)
			}()

			gcam, err := app.NewGCAMApp(cfg, logger, tel)
			if err != nil {
				_ = tel.Shutdown(context.Background())
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting gcamd",
				"home", home,
				"grpc", cfg.GRPC.Address,
				"api", cfg.API.Address,
				"db_backend", cfg.Clearing.DBBackend,
			)
			if err := gcam.Run(ctx); err != nil {
				return err
			}
			logger.Info("gcamd stopped")
			return nil
		},
	}
}
