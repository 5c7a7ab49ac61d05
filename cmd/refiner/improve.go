package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdulachik/refiner/internal/client"
	"github.com/abdulachik/refiner/internal/config"
	"github.com/abdulachik/refiner/internal/form"
	"github.com/abdulachik/refiner/internal/notify"
	"github.com/abdulachik/refiner/internal/schema"
)

var (
	improveType        string
	improvePerspective string
	improveText        string
	improveFile        string
	improveCheck       bool
)

var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Refine one statement through the API",
	Long: `Send a single problem or solution statement to the refine API and print
the improved text.

Examples:
  refiner improve --type problem --text "Our users churn after onboarding"
  refiner improve --type solution --perspective market --file solution.txt
  echo "..." | refiner improve --type problem
  refiner improve --check   # Only call the liveness probe`,
	RunE: runImprove,
}

func init() {
	improveCmd.Flags().StringVar(&improveType, "type", "problem", "Statement kind: problem or solution")
	improveCmd.Flags().StringVar(&improvePerspective, "perspective", "investor", "Audience: investor, market or customer")
	improveCmd.Flags().StringVar(&improveText, "text", "", "Statement text (default: read --file or stdin)")
	improveCmd.Flags().StringVar(&improveFile, "file", "", "Read the statement from a file")
	improveCmd.Flags().BoolVar(&improveCheck, "check", false, "Only check that the API is reachable")
	rootCmd.AddCommand(improveCmd)
}

func runImprove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForClient(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	api := client.New(client.Config{BaseURL: cfg.APIURL})

	if improveCheck {
		msg, err := api.Health(ctx)
		if err != nil {
			return fmt.Errorf("check API: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}

	kind, err := schema.ParseFieldKind(improveType)
	if err != nil {
		return err
	}
	perspective, err := schema.ParsePerspective(improvePerspective)
	if err != nil {
		return err
	}

	text, err := readStatement(improveText, improveFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctl := form.New(form.Config{
		Refiner:     api,
		Notifier:    notify.LogNotifier{},
		Perspective: perspective,
	})
	defer ctl.Close()
	ctl.Set(kind, text)

	if err := ctl.Improve(ctx, kind); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ctl.State().Field(kind).Text)
	return nil
}

// readStatement returns text, else the contents of file, else stdin.
func readStatement(text, file string, stdin io.Reader) (string, error) {
	if text != "" {
		return text, nil
	}

	var data []byte
	var err error
	if file != "" {
		data, err = os.ReadFile(file)
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("read statement: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
