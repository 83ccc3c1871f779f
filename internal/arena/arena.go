// Package arena provides the fixed-capacity storage used by a single
// expansion run.
//
// Regions only grow by appending at the end and are dropped as a whole when
// the run finishes. Appending past the configured capacity fails with
// ErrCapacityExceeded; callers treat that as fatal for the run, never as a
// content diagnostic.
package arena

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is returned when a region is asked to hold more than
// its fixed capacity.
var ErrCapacityExceeded = errors.New("arena capacity exceeded")

// Default capacities, sized like the 1 MiB regions of the original tool.
const (
	DefaultMaxOutputBytes = 16 << 20
	DefaultMaxTables      = 4096
	DefaultMaxSpans       = 1 << 20
	DefaultMaxDiagnostics = 4096
)

// Limits bounds every region of a run. Zero fields mean "use the default".
type Limits struct {
	MaxOutputBytes int `yaml:"max_output_bytes" json:"max_output_bytes" mapstructure:"max_output_bytes"`
	MaxTables      int `yaml:"max_tables" json:"max_tables" mapstructure:"max_tables"`
	MaxSpans       int `yaml:"max_spans" json:"max_spans" mapstructure:"max_spans"`
	MaxDiagnostics int `yaml:"max_diagnostics" json:"max_diagnostics" mapstructure:"max_diagnostics"`
}

// WithDefaults returns l with every zero field replaced by its default.
func (l Limits) WithDefaults() Limits {
	if l.MaxOutputBytes == 0 {
		l.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if l.MaxTables == 0 {
		l.MaxTables = DefaultMaxTables
	}
	if l.MaxSpans == 0 {
		l.MaxSpans = DefaultMaxSpans
	}
	if l.MaxDiagnostics == 0 {
		l.MaxDiagnostics = DefaultMaxDiagnostics
	}
	return l
}

// Validate rejects negative limits. The first negative field in declaration
// order is reported.
func (l Limits) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"max_output_bytes", l.MaxOutputBytes},
		{"max_tables", l.MaxTables},
		{"max_spans", l.MaxSpans},
		{"max_diagnostics", l.MaxDiagnostics},
	}
	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%s must not be negative, got %d", f.name, f.value)
		}
	}
	return nil
}

// Region is an append-only list with a fixed capacity.
type Region[T any] struct {
	name  string
	items []T
	limit int
}

// NewRegion creates an empty region that holds at most limit items.
func NewRegion[T any](name string, limit int) *Region[T] {
	return &Region[T]{name: name, limit: limit}
}

// Push appends v and returns its index.
func (r *Region[T]) Push(v T) (int, error) {
	if len(r.items) >= r.limit {
		return -1, fmt.Errorf("%s region full at %d entries: %w", r.name, r.limit, ErrCapacityExceeded)
	}
	r.items = append(r.items, v)
	return len(r.items) - 1, nil
}

// Reserve checks that n more items fit without appending them.
func (r *Region[T]) Reserve(n int) error {
	if len(r.items)+n > r.limit {
		return fmt.Errorf("%s region cannot take %d more entries (limit %d): %w",
			r.name, n, r.limit, ErrCapacityExceeded)
	}
	return nil
}

// Len returns the number of items pushed so far.
func (r *Region[T]) Len() int {
	return len(r.items)
}

// Cap returns the fixed capacity.
func (r *Region[T]) Cap() int {
	return r.limit
}

// At returns the item at index i.
func (r *Region[T]) At(i int) T {
	return r.items[i]
}

// Items returns the pushed items in push order. The slice must not be
// modified.
func (r *Region[T]) Items() []T {
	return r.items
}

// Bytes is the output accumulator of a run. Once a write overflows, every
// later write is dropped and Err reports the overflow.
type Bytes struct {
	buf   []byte
	limit int
	err   error
}

// NewBytes creates an accumulator holding at most limit bytes.
func NewBytes(limit int) *Bytes {
	return &Bytes{limit: limit}
}

// WriteByte appends c.
func (b *Bytes) WriteByte(c byte) error {
	if b.err != nil {
		return b.err
	}
	if len(b.buf)+1 > b.limit {
		b.err = fmt.Errorf("output region full at %d bytes: %w", b.limit, ErrCapacityExceeded)
		return b.err
	}
	b.buf = append(b.buf, c)
	return nil
}

// Write appends p. It implements io.Writer.
func (b *Bytes) Write(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	if len(b.buf)+len(p) > b.limit {
		b.err = fmt.Errorf("output region full at %d bytes: %w", b.limit, ErrCapacityExceeded)
		return 0, b.err
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// Err returns the overflow error, if any.
func (b *Bytes) Err() error {
	return b.err
}

// Len returns the number of bytes written.
func (b *Bytes) Len() int {
	return len(b.buf)
}

// Bytes returns the accumulated output.
func (b *Bytes) Bytes() []byte {
	return b.buf
}

// Budget counts units taken from a fixed pool without storing them. The
// registry uses it to bound the spans held by all tables of a run.
type Budget struct {
	name  string
	used  int
	limit int
}

// NewBudget creates a budget of limit units.
func NewBudget(name string, limit int) *Budget {
	return &Budget{name: name, limit: limit}
}

// Take consumes n units.
func (b *Budget) Take(n int) error {
	if b.used+n > b.limit {
		return fmt.Errorf("%s budget cannot take %d more (used %d of %d): %w",
			b.name, n, b.used, b.limit, ErrCapacityExceeded)
	}
	b.used += n
	return nil
}

// Used returns the units consumed so far.
func (b *Budget) Used() int {
	return b.used
}
