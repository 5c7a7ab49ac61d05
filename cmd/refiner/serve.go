package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/refiner/internal/app"
	"github.com/abdulachik/refiner/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the refine API server",
	Long: `Run the HTTP API that refines statements with the configured model.

Routes:
  GET  /api          liveness probe
  GET  /api/status   component health
  POST /api/refine   refine one statement`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForServe(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	defer a.Close()

	slog.Info("starting refine API",
		"addr", cfg.Addr(),
		"provider", a.Generator.Name(),
		"model", a.Generator.Model(),
		"generate_timeout", cfg.GenerateTimeout,
		"database", cfg.DatabasePath,
	)

	for _, name := range a.Health.Names() {
		status, _ := a.Health.Status(name)
		slog.Info("component", "name", name, "healthy", status.Healthy, "message", status.Message)
	}

	// Run server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.ListenAndServe(cfg.Addr())
	}()

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	slog.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
