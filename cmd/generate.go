package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/conneroisu/metac/internal/logging"
	"github.com/conneroisu/metac/internal/scanner"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:     "generate [path...]",
	Aliases: []string{"g"},
	Short:   "Expand every source file under the scan paths",
	Long: `Expand every source file that contains a directive under the given
paths, or under the configured scan.paths when none are given.

Files are processed concurrently (scan.workers); generated files and the
configured exclusions are skipped. The command fails when any file could
not be expanded.

Examples:
  metac generate                  # Expand everything under scan.paths
  metac generate src include      # Expand specific directories
  metac g -f json                 # Print the summary as JSON`,
	RunE: runGenerateCommand,
}

var generateFlags *StandardFlags

func init() {
	rootCmd.AddCommand(generateCmd)

	generateFlags = AddStandardFlags(generateCmd, []string{"text", "json"}, "output", "cells")
}

// GenerateResult is the outcome of one file in a generate run.
type GenerateResult struct {
	Input       string   `json:"input"`
	Output      string   `json:"output,omitempty"`
	Status      string   `json:"status"`
	Tables      int      `json:"tables"`
	Diagnostics []string `json:"diagnostics,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// GenerateSummary aggregates a generate run.
type GenerateSummary struct {
	Paths   []string         `json:"paths"`
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Skipped int              `json:"skipped"`
	Failed  int              `json:"failed"`
	Elapsed string           `json:"elapsed"`
	Results []GenerateResult `json:"results"`
}

func runGenerateCommand(cmd *cobra.Command, args []string) error {
	if err := generateFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if generateFlags.DepthAware {
		cfg.Cells.DepthAware = true
	}

	paths := cfg.Scan.Paths
	if len(args) > 0 {
		paths = args
	}

	s := scanner.NewFileScanner(cfg, logger, scanner.WithStderr(cmd.ErrOrStderr()))
	defer s.Close()

	start := time.Now()
	results, scanErrs := generatePaths(commandContext(cmd), s, paths, logger)
	summary := buildGenerateSummary(paths, results, time.Since(start))
	summary.Failed += scanErrs

	var outErr error
	switch strings.ToLower(generateFlags.Format) {
	case "json":
		outErr = outputGenerateJSON(cmd.OutOrStdout(), summary)
	default:
		outErr = outputGenerateResults(cmd.OutOrStdout(), summary, generateFlags)
	}
	if outErr != nil {
		return outErr
	}

	if summary.Failed > 0 {
		return fmt.Errorf("expansion failed for %d files", summary.Failed)
	}
	return nil
}

// generatePaths scans each path in turn. A path that cannot be scanned is
// logged and counted, and the remaining paths still run.
func generatePaths(ctx context.Context, s *scanner.FileScanner, paths []string, logger logging.Logger) ([]scanner.FileResult, int) {
	var all []scanner.FileResult
	failed := 0
	for _, path := range paths {
		results, err := s.ScanDirectory(ctx, path)
		if err != nil {
			logger.Warn(ctx, err, "Failed to scan directory", "path", path)
			failed++
			continue
		}
		all = append(all, results...)
	}
	return all, failed
}

func buildGenerateSummary(paths []string, results []scanner.FileResult, elapsed time.Duration) GenerateSummary {
	sum := scanner.Summarize(results)
	summary := GenerateSummary{
		Paths:   paths,
		Total:   sum.Total,
		Success: sum.Expanded,
		Skipped: sum.Skipped,
		Failed:  sum.Failed,
		Elapsed: elapsed.Round(time.Millisecond).String(),
		Results: make([]GenerateResult, 0, len(results)),
	}

	title := cases.Title(language.English)
	for _, r := range results {
		gr := GenerateResult{
			Input:  r.InputPath,
			Output: r.OutputPath,
			Tables: r.Tables,
		}
		switch {
		case r.Skipped:
			gr.Status = title.String("skipped")
		case r.Success():
			gr.Status = title.String("expanded")
		default:
			gr.Status = title.String("failed")
			gr.Error = r.Err.Error()
		}
		for _, d := range r.Diagnostics {
			gr.Diagnostics = append(gr.Diagnostics, d.String())
		}
		summary.Results = append(summary.Results, gr)
	}
	return summary
}

func outputGenerateResults(w io.Writer, summary GenerateSummary, flags *StandardFlags) error {
	if flags.Quiet {
		return nil
	}

	fmt.Fprintf(w, "Expansion Summary:\n")
	fmt.Fprintf(w, "  Paths: %s\n", strings.Join(summary.Paths, ", "))
	fmt.Fprintf(w, "  Total files: %d\n", summary.Total)
	fmt.Fprintf(w, "  Expanded: %d\n", summary.Success)
	if summary.Skipped > 0 {
		fmt.Fprintf(w, "  Skipped: %d\n", summary.Skipped)
	}
	fmt.Fprintf(w, "  Failed: %d\n", summary.Failed)
	fmt.Fprintf(w, "  Elapsed: %s\n", summary.Elapsed)
	fmt.Fprintln(w)

	for _, result := range summary.Results {
		status := "✅"
		if result.Error != "" {
			status = "❌"
		}

		switch {
		case result.Error != "":
			fmt.Fprintf(w, "%s %s\n", status, result.Input)
			fmt.Fprintf(w, "    Error: %s\n", result.Error)
			for _, d := range result.Diagnostics {
				fmt.Fprintf(w, "    %s\n", d)
			}
		case flags.Verbose:
			fmt.Fprintf(w, "%s %s (%s)\n", status, result.Input, result.Status)
			if result.Output != "" {
				fmt.Fprintf(w, "    Output: %s (%d tables)\n", result.Output, result.Tables)
			}
		}
	}

	if summary.Failed == 0 {
		fmt.Fprintln(w, "✅ Expansion completed successfully!")
	}
	return nil
}

func outputGenerateJSON(w io.Writer, summary GenerateSummary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}
