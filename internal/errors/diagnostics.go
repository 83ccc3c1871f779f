// Package errors provides the diagnostics reported while expanding a source
// file and the structured error type used for environment failures.
//
// Content faults (bad directive punctuation, unknown tables or labels) are
// Diagnostics: they carry a byte offset into the input and a fixed message,
// are collected in detection order, and never stop the pass. Failures of the
// environment (unreadable input, exhausted capacity, bad configuration) are
// returned as *MetacError values instead.
package errors

import (
	"fmt"
	"io"

	"github.com/conneroisu/metac/internal/arena"
)

// Kind classifies a diagnostic.
type Kind int

const (
	KindSyntax Kind = iota
	KindUndefinedTable
	KindUndefinedLabel
	KindArgumentMismatch
	KindUnterminatedDelimiter
	KindNoLabels
	KindNoTablesDefined
	KindDuplicateLabel
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindUndefinedTable:
		return "undefined table"
	case KindUndefinedLabel:
		return "undefined label"
	case KindArgumentMismatch:
		return "argument mismatch"
	case KindUnterminatedDelimiter:
		return "unterminated delimiter"
	case KindNoLabels:
		return "no labels"
	case KindNoTablesDefined:
		return "no tables defined"
	case KindDuplicateLabel:
		return "duplicate label"
	default:
		return "unknown"
	}
}

// Diagnostic is one fault found in the input.
type Diagnostic struct {
	Offset  int
	Kind    Kind
	Message string
}

// String renders the diagnostic the way it is printed to the error channel.
func (d Diagnostic) String() string {
	return fmt.Sprintf("Error(%d): %s", d.Offset, d.Message)
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return d.String()
}

// Collector accumulates diagnostics for one pass.
type Collector struct {
	diags *arena.Region[Diagnostic]
	err   error
}

// NewCollector creates a collector that holds at most limit diagnostics.
func NewCollector(limit int) *Collector {
	if limit <= 0 {
		limit = arena.DefaultMaxDiagnostics
	}
	return &Collector{diags: arena.NewRegion[Diagnostic]("diagnostics", limit)}
}

// Add records a diagnostic. Once the collector is full it stops recording
// and Err reports the overflow.
func (c *Collector) Add(offset int, kind Kind, message string) {
	if c.err != nil {
		return
	}
	if _, err := c.diags.Push(Diagnostic{Offset: offset, Kind: kind, Message: message}); err != nil {
		c.err = err
	}
}

// Err returns the capacity error, if the collector overflowed.
func (c *Collector) Err() error {
	return c.err
}

// HasErrors reports whether anything was recorded.
func (c *Collector) HasErrors() bool {
	return c.diags.Len() > 0
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	return c.diags.Len()
}

// Diagnostics returns a copy of the recorded diagnostics in detection order.
func (c *Collector) Diagnostics() []Diagnostic {
	items := c.diags.Items()
	result := make([]Diagnostic, len(items))
	copy(result, items)
	return result
}

// ByKind returns the recorded diagnostics of one kind.
func (c *Collector) ByKind(kind Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diags.Items() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Render writes one line per diagnostic.
func Render(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintf(w, "%s\n", d); err != nil {
			return err
		}
	}
	return nil
}
