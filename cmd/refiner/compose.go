package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abdulachik/refiner/internal/client"
	"github.com/abdulachik/refiner/internal/config"
	"github.com/abdulachik/refiner/internal/schema"
	"github.com/abdulachik/refiner/internal/tui"
)

var composePerspective string

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Open the terminal UI",
	Long: `Open the interactive compose screen: pick a perspective, write the
problem and solution statements, refine each with the API, then generate the
final view to download, copy or share.

Logs go to REFINER_LOG_FILE while the UI is open.`,
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringVar(&composePerspective, "perspective", "investor", "Initial audience: investor, market or customer")
	rootCmd.AddCommand(composeCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForClient(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	perspective, err := schema.ParsePerspective(composePerspective)
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	setupLogging(logFile)
	defer setupLogging(os.Stderr)

	return tui.Run(ctx, tui.Options{
		Refiner:     client.New(client.Config{BaseURL: cfg.APIURL}),
		ExportDir:   cfg.ExportDir,
		Perspective: perspective,
	})
}
