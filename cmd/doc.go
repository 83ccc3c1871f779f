// Package cmd provides the command-line interface for metac.
//
// This package implements all CLI commands using the Cobra framework.
//
// # Available Commands
//
//   - expand: Expand the directives of one file
//   - generate: Expand every source file under the scan paths
//   - watch: Re-expand source files as they change
//   - tables: List the tables a file declares
//   - config: Show or validate the configuration
//   - version: Show build information
//
// # Command Examples
//
//	// Expand one file next to itself (enum.c -> enum.meta.c)
//	metac expand enum.c
//
//	// Expand to stdout
//	metac expand enum.c -
//
//	// Expand a project and print a JSON summary
//	metac generate src --format json
//
//	// List tables including their cells
//	metac tables enum.c --rows
//
// # Exit Status
//
// Every command exits non-zero when an input has faults. The faults are
// printed to stderr as "Error(<offset>): <message>", one per line, and no
// output file is written for that input.
package cmd
