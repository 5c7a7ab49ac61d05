package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "refiner",
	Short: "Refine problem and solution statements with an AI model",
	Long: `Refiner rewrites business problem and solution statements for an
investor, market or customer audience. It runs the refine API, a terminal
compose UI, and one-shot commands for scripting.`,
	SilenceUsage: true,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	setupLogging(os.Stderr)
}

// setupLogging installs the default text logger writing to w.
func setupLogging(w io.Writer) {
	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
