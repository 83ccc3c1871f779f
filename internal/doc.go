// Package internal contains the core implementation packages for metac.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the metac CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - source: Immutable input buffer and byte spans into it
//   - arena: Fixed-capacity regions that bound one run
//   - registry: Tables declared during a run, looked up by name
//   - errors: Diagnostics for faulty input and structured environment errors
//   - meta: The expansion engine (dispatcher, table parser, expand engine)
//   - scanner: File I/O, output path derivation and directory batches
//   - watcher: File system monitoring with debouncing
//   - config: Configuration management with validation
//   - logging: Structured logging on log/slog
//   - version: Build information
//
// # Data Flow
//
// The scanner reads a file into a source buffer and hands it to a meta
// engine. Each run owns its registry, diagnostics collector and output
// region. The scanner either writes the output or renders the
// diagnostics; it never does both. The watcher feeds changed paths back
// into the scanner.
package internal
