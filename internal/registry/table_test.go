package registry

import (
	"strings"
	"testing"

	"github.com/conneroisu/metac/internal/arena"
	"github.com/conneroisu/metac/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spanOf returns the span of the first occurrence of s in text.
func spanOf(t *testing.T, text, s string) source.Span {
	t.Helper()
	i := strings.Index(text, s)
	require.GreaterOrEqual(t, i, 0, "%q not found in %q", s, text)
	return source.Span{Offset: i, Length: len(s)}
}

func TestRegistryAddAndLookup(t *testing.T) {
	text := "Colors name value red 1 Sizes"
	buf := source.NewBuffer([]byte(text))
	reg := New(arena.Limits{})

	colors := Table{
		Name:   spanOf(t, text, "Colors"),
		Labels: []source.Span{spanOf(t, text, "name"), spanOf(t, text, "value")},
		Rows: []Row{
			{Cells: []source.Span{spanOf(t, text, "red"), spanOf(t, text, "1")}},
		},
	}
	require.NoError(t, reg.Add(colors))
	require.NoError(t, reg.Add(Table{
		Name:   spanOf(t, text, "Sizes"),
		Labels: []source.Span{spanOf(t, text, "name")},
	}))

	assert.Equal(t, 2, reg.Len())

	tbl, ok := reg.LookupString(buf, "Colors")
	require.True(t, ok)
	assert.Equal(t, 1, tbl.LabelIndex(buf, []byte("value")))
	assert.Equal(t, -1, tbl.LabelIndex(buf, []byte("missing")))
	assert.Equal(t, "red", buf.String(tbl.Cell(0, 0)))

	_, ok = reg.LookupString(buf, "Color")
	assert.False(t, ok)
}

func TestRegistryLookupReturnsFirstDeclaration(t *testing.T) {
	buf := source.NewBuffer([]byte("T a T b"))
	reg := New(arena.Limits{})

	first := Table{Name: source.Span{Offset: 0, Length: 1}, Labels: []source.Span{{Offset: 2, Length: 1}}}
	second := Table{Name: source.Span{Offset: 4, Length: 1}, Labels: []source.Span{{Offset: 6, Length: 1}}}
	require.NoError(t, reg.Add(first))
	require.NoError(t, reg.Add(second))

	tbl, ok := reg.LookupString(buf, "T")
	require.True(t, ok)
	assert.Equal(t, "a", buf.String(tbl.Labels[0]))

	assert.Equal(t, []bool{false, true}, Shadowed(buf, reg.Tables()))
}

func TestRegistryCapacity(t *testing.T) {
	tests := []struct {
		name   string
		limits arena.Limits
	}{
		{"table limit", arena.Limits{MaxTables: 1}},
		{"span limit", arena.Limits{MaxSpans: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := New(tt.limits)
			tbl := Table{Labels: []source.Span{{}}}

			require.NoError(t, reg.Add(tbl))
			err := reg.Add(tbl)
			require.ErrorIs(t, err, arena.ErrCapacityExceeded)
			assert.Equal(t, 1, reg.Len())
		})
	}
}

func TestTableSpanCount(t *testing.T) {
	tbl := Table{
		Labels: make([]source.Span, 2),
		Rows:   []Row{{Cells: make([]source.Span, 2)}, {Cells: make([]source.Span, 2)}},
	}
	assert.Equal(t, 7, tbl.SpanCount())
}
