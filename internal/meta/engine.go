// Package meta implements the directive expander.
//
// A run makes one left-to-right pass over an immutable input buffer. Bytes
// outside directives are copied to the output unchanged. An '@' followed by
// a known keyword starts a directive:
//
//	@table(l1, l2, ...) Name { { c1 c2 ... } ... }
//	@expand(Name var) `...$(var.l1)...`
//
// @table declares a table; @expand replays its backtick body once per row of
// the named table, replacing each $(var.label) with that row's cell. Faults
// are recorded as diagnostics and the pass resynchronizes after the broken
// directive, so one run reports every independent fault. A run with any
// diagnostic produces no output at all.
package meta

import (
	"github.com/conneroisu/metac/internal/arena"
	errs "github.com/conneroisu/metac/internal/errors"
	"github.com/conneroisu/metac/internal/registry"
	"github.com/conneroisu/metac/internal/source"
)

// DirectiveKind identifies what a keyword dispatches to.
type DirectiveKind int

const (
	DirectiveExpand DirectiveKind = iota
	DirectiveTableGenEnum
	DirectiveTable
)

// String returns the string representation of the directive kind
func (k DirectiveKind) String() string {
	switch k {
	case DirectiveExpand:
		return "expand"
	case DirectiveTableGenEnum:
		return "table_gen_enum"
	case DirectiveTable:
		return "table"
	default:
		return "unknown"
	}
}

// Keyword maps the identifier after the marker to a directive.
type Keyword struct {
	Name string
	Kind DirectiveKind
}

// DefaultKeywords returns the keyword table in dispatch priority order.
func DefaultKeywords() []Keyword {
	return []Keyword{
		{Name: "expand", Kind: DirectiveExpand},
		{Name: "table_gen_enum", Kind: DirectiveTableGenEnum},
		{Name: "table", Kind: DirectiveTable},
	}
}

// Options configures an Engine.
type Options struct {
	// Keywords is consulted in order; nil means DefaultKeywords.
	Keywords []Keyword
	// Limits bounds the run's regions; zero fields take defaults.
	Limits arena.Limits
	// DepthAwareCells makes (), {} and [] cells count nesting of their own
	// pair instead of closing at the first closer byte. This changes which
	// inputs parse; it is off by default.
	DepthAwareCells bool
}

// Result is the outcome of a run that was not aborted.
type Result struct {
	// Output is the transformed text. It is nil whenever Diagnostics is
	// not empty.
	Output []byte
	// Diagnostics lists faults in detection order.
	Diagnostics []errs.Diagnostic
	// Tables holds every table successfully declared, in order.
	Tables []registry.Table
	// Source is the buffer all spans in Tables refer to.
	Source source.Buffer
}

// OK reports whether the run produced output.
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Engine runs passes with fixed options. It holds no per-run state and is
// safe for concurrent use.
type Engine struct {
	opts Options
}

// New creates an engine.
func New(opts Options) *Engine {
	if opts.Keywords == nil {
		opts.Keywords = DefaultKeywords()
	}
	opts.Limits = opts.Limits.WithDefaults()
	return &Engine{opts: opts}
}

// Run expands src. The returned error is non-nil only when a region ran out
// of capacity; content faults are reported through Result.Diagnostics.
func (e *Engine) Run(src []byte) (*Result, error) {
	p := newPass(source.NewBuffer(src), e.opts)
	if err := p.run(); err != nil {
		return nil, errs.NewCapacityError(err)
	}

	result := &Result{
		Diagnostics: p.diags.Diagnostics(),
		Tables:      p.registry.Tables(),
		Source:      p.src,
	}
	if !p.diags.HasErrors() {
		result.Output = p.out.Bytes()
		if result.Output == nil {
			result.Output = []byte{}
		}
	}
	return result, nil
}

// Expand runs src through an engine with default options.
func Expand(src []byte) (*Result, error) {
	return New(Options{}).Run(src)
}
