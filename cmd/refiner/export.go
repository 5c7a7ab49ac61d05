package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdulachik/refiner/internal/config"
	"github.com/abdulachik/refiner/internal/form"
	"github.com/abdulachik/refiner/internal/notify"
	"github.com/abdulachik/refiner/internal/result"
	"github.com/abdulachik/refiner/internal/schema"
)

var (
	exportProblem      string
	exportSolution     string
	exportProblemFile  string
	exportSolutionFile string
	exportPerspective  string
	exportDir          string
	exportStdout       bool
	exportCopy         bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the final view without the UI",
	Long: `Validate a problem and solution pair and render the final view.

Examples:
  refiner export --problem-file p.txt --solution-file s.txt            # Write RefinedStatements-investor.txt
  refiner export --problem "..." --solution "..." --stdout             # Print instead of writing
  refiner export --problem-file p.txt --solution-file s.txt --copy     # Copy to the clipboard`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportProblem, "problem", "", "Problem statement")
	exportCmd.Flags().StringVar(&exportSolution, "solution", "", "Solution statement")
	exportCmd.Flags().StringVar(&exportProblemFile, "problem-file", "", "Read the problem statement from a file")
	exportCmd.Flags().StringVar(&exportSolutionFile, "solution-file", "", "Read the solution statement from a file")
	exportCmd.Flags().StringVar(&exportPerspective, "perspective", "investor", "Audience: investor, market or customer")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Output directory (default: EXPORT_DIR)")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Print the content instead of writing a file")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "Copy the content to the clipboard")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	perspective, err := schema.ParsePerspective(exportPerspective)
	if err != nil {
		return err
	}

	problem, err := readExportField(exportProblem, exportProblemFile)
	if err != nil {
		return err
	}
	solution, err := readExportField(exportSolution, exportSolutionFile)
	if err != nil {
		return err
	}

	ctl := form.New(form.Config{
		Perspective: perspective,
		Problem:     problem,
		Solution:    solution,
	})
	defer ctl.Close()

	view, errs := ctl.Generate()
	if len(errs) > 0 {
		return fmt.Errorf("invalid statements: %s", formatErrors(errs))
	}

	renderer := result.NewRenderer(result.Config{Notifier: notify.LogNotifier{}})
	out := cmd.OutOrStdout()

	switch {
	case exportStdout:
		fmt.Fprintln(out, result.Content(view))
	case exportCopy:
		return renderer.Copy(ctx, view)
	default:
		dir := exportDir
		if dir == "" {
			dir = cfg.ExportDir
		}
		path, err := renderer.Download(view, dir)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
	}
	return nil
}

func readExportField(text, file string) (string, error) {
	if text != "" || file == "" {
		return text, nil
	}
	return readStatement("", file, nil)
}

func formatErrors(errs schema.Errors) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, errs[field])
	}
	return strings.Join(msgs, " ")
}
