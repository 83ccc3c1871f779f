// Package registry stores the tables declared during one expansion run.
//
// The registry is append-only. Lookup walks tables in declaration order and
// returns the first whose name matches, so a later table with the same name
// is kept but never found by name ("shadowed"). All names, labels and cells
// are spans into the run's source buffer.
package registry

import (
	"bytes"

	"github.com/conneroisu/metac/internal/arena"
	"github.com/conneroisu/metac/internal/source"
)

// Row is one element of a table: one cell per label, in label order.
type Row struct {
	Cells []source.Span
}

// Table is a named list of rows sharing an ordered set of labels.
type Table struct {
	// Name is the span of the table name in the source.
	Name source.Span
	// Labels name the columns in declaration order.
	Labels []source.Span
	// Rows hold the elements in declaration order.
	Rows []Row
	// Offset is where the declaring directive starts.
	Offset int
}

// LabelIndex returns the column of the label whose bytes equal label, or -1.
func (t *Table) LabelIndex(buf source.Buffer, label []byte) int {
	for i, l := range t.Labels {
		if bytes.Equal(buf.Bytes(l), label) {
			return i
		}
	}
	return -1
}

// Cell returns the span of the cell at row, col.
func (t *Table) Cell(row, col int) source.Span {
	return t.Rows[row].Cells[col]
}

// SpanCount returns the number of spans the table holds.
func (t *Table) SpanCount() int {
	n := 1 + len(t.Labels)
	for _, r := range t.Rows {
		n += len(r.Cells)
	}
	return n
}

// Registry is the append-only table collection of a run.
type Registry struct {
	tables *arena.Region[Table]
	spans  *arena.Budget
}

// New creates an empty registry bounded by limits.
func New(limits arena.Limits) *Registry {
	limits = limits.WithDefaults()
	return &Registry{
		tables: arena.NewRegion[Table]("tables", limits.MaxTables),
		spans:  arena.NewBudget("spans", limits.MaxSpans),
	}
}

// Add appends t. Running out of table or span capacity is fatal for the run.
func (r *Registry) Add(t Table) error {
	if err := r.tables.Reserve(1); err != nil {
		return err
	}
	if err := r.spans.Take(t.SpanCount()); err != nil {
		return err
	}
	_, err := r.tables.Push(t)
	return err
}

// Lookup returns the first table declared under name.
func (r *Registry) Lookup(buf source.Buffer, name []byte) (*Table, bool) {
	items := r.tables.Items()
	for i := range items {
		if bytes.Equal(buf.Bytes(items[i].Name), name) {
			return &items[i], true
		}
	}
	return nil, false
}

// LookupString is Lookup for a string name.
func (r *Registry) LookupString(buf source.Buffer, name string) (*Table, bool) {
	return r.Lookup(buf, []byte(name))
}

// Len returns the number of declared tables.
func (r *Registry) Len() int {
	return r.tables.Len()
}

// Tables returns all tables in declaration order.
func (r *Registry) Tables() []Table {
	return r.tables.Items()
}

// Shadowed reports, per table, whether an earlier table has the same name.
func Shadowed(buf source.Buffer, tables []Table) []bool {
	out := make([]bool, len(tables))
	for i := range tables {
		for j := 0; j < i; j++ {
			if buf.Equal(tables[i].Name, tables[j].Name) {
				out[i] = true
				break
			}
		}
	}
	return out
}
