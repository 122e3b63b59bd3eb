// Command ephemeris-server is the HTTP front door: it loads configuration,
// wires the runtime, binds the listener, and shuts down cleanly on signal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eburns009/ephemeris-service/internal/config"
	"github.com/eburns009/ephemeris-service/internal/runtime"
)

var (
	configPath      string
	shutdownTimeout time.Duration

	rootCmd = &cobra.Command{
		Use:   "ephemeris-server",
		Short: "Serve planetary and lunar ephemeris positions over HTTP",
		RunE:  runServe,
	}
)

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "config/service.yaml", "path to the service configuration file")
	rootCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "how long to wait for in-flight requests to drain on shutdown")
}

// Execute runs the root command, returning any error for main to report.
func Execute() error {
	return rootCmd.Execute()
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rt := runtime.New(cfg, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rt.Start(ctx); err != nil {
		return fmt.Errorf("start runtime: %w", err)
	}
	log.Info("ephemeris-server ready")

	<-ctx.Done()
	log.Info("shutdown signal received, draining")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	return rt.Shutdown(shutdownCtx)
}
