package cmd

import (
	"github.com/conneroisu/metac/internal/scanner"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:     "expand <file> [output|-]",
	Aliases: []string{"e"},
	Short:   "Expand the directives of one file",
	Long: `Expand the @table and @expand directives of one file.

The output goes to the second argument, to stdout when it is "-", or next
to the input with the configured infix ("enum.c" becomes "enum.meta.c").
When the input has faults every diagnostic is printed to stderr as
"Error(<offset>): <message>", nothing is written, and the exit code is
non-zero.

Examples:
  metac expand enum.c                 # Writes enum.meta.c
  metac expand enum.c out.c           # Writes out.c
  metac expand enum.c -               # Writes to stdout
  metac e --depth-aware tables.c      # Allow nested brackets in cells`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExpand,
}

var expandFlags *StandardFlags

func init() {
	rootCmd.AddCommand(expandCmd)

	expandFlags = AddStandardFlags(expandCmd, nil, "cells")
}

func runExpand(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if expandFlags.DepthAware {
		cfg.Cells.DepthAware = true
	}

	in := args[0]
	out := ""
	if len(args) == 2 {
		out = args[1]
	}

	s := scanner.NewFileScanner(cfg, logger,
		scanner.WithStdout(cmd.OutOrStdout()),
		scanner.WithStderr(cmd.ErrOrStderr()),
	)
	defer s.Close()

	_, err = s.ProcessFile(commandContext(cmd), in, out)
	return err
}
