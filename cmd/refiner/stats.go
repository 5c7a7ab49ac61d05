package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/refiner/internal/app"
	"github.com/abdulachik/refiner/internal/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	Long: `Display aggregate refinement usage: call counts by outcome, average
latency, and successful refinements by statement kind and perspective.
No statement text is stored.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForStats(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := app.OpenStore(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	total, err := store.CountRefinementEvents(ctx)
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}

	lastDay, err := store.CountRefinementEventsSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return fmt.Errorf("count recent events: %w", err)
	}

	byOutcome, err := store.CountByOutcome(ctx)
	if err != nil {
		return fmt.Errorf("count by outcome: %w", err)
	}

	breakdown, err := store.CountByKindAndPerspective(ctx)
	if err != nil {
		return fmt.Errorf("count by kind: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Refiner Statistics ===")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Database: %s\n", cfg.DatabasePath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Requests:")
	fmt.Fprintf(out, "  Total: %d\n", total)
	fmt.Fprintf(out, "  Last 24h: %d\n", lastDay)
	fmt.Fprintln(out)

	if len(byOutcome) > 0 {
		fmt.Fprintln(out, "  By outcome:")
		for _, row := range byOutcome {
			fmt.Fprintf(out, "    %s: %d (avg %.0f ms)\n", row.Outcome, row.Count, row.AvgLatencyMs)
		}
		fmt.Fprintln(out)
	}

	if len(breakdown) > 0 {
		fmt.Fprintln(out, "Refined statements:")
		for _, row := range breakdown {
			fmt.Fprintf(out, "  %s / %s: %d\n", row.FieldKind, row.Perspective, row.Count)
		}
		fmt.Fprintln(out)
	}

	return nil
}
