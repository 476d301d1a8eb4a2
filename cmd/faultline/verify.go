package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"faultline/internal/config"
	"faultline/internal/logger"
	"faultline/internal/reporter"
	"faultline/pkg/logging"
)

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Validate configuration and deliver one synthetic error",
		Long:  "verify loads the configuration, synthesizes one error and pushes it through the same capture pipeline production traffic uses, reporting success or failure",
		RunE: func(cmd *cobra.Command, args []string) error {
			earlyLog := logging.NewEarlyLog()

			if configFile == "" {
				configFile = os.Getenv("FAULTLINE_CONFIG")
				if configFile == "" {
					earlyLog.Error("Config file is required. Use --config flag or FAULTLINE_CONFIG environment variable")
					return fmt.Errorf("config file is required")
				}
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				earlyLog.Error("Failed to load config: %v", err)
				return err
			}

			// Verification delivers inline so the outcome is known before
			// the command exits.
			cfg.Delivery.Async = false

			log, err := logger.New(cfg.Logging.Level)
			if err != nil {
				earlyLog.Error("Failed to init logger: %v", err)
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			notifier, err := reporter.New(cfg, log)
			if err != nil {
				earlyLog.Error("Failed to initialize pipeline: %v", err)
				return err
			}
			defer notifier.Close(ctx)

			earlyLog.Info("Delivering synthetic error to %s ...", cfg.Endpoint)

			if err := notifier.Verify(ctx); err != nil {
				earlyLog.Error("Verification failed: %v", err)
				earlyLog.Warn("Check that the endpoint is reachable, the project id matches the collector, and reporting is enabled")
				return err
			}

			earlyLog.Info("Verification succeeded: the collector accepted the synthetic error for project %q", cfg.Project)
			return nil
		},
	}
}
