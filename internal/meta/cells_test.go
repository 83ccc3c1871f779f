package meta

import (
	"testing"

	"github.com/conneroisu/metac/internal/source"
	"github.com/stretchr/testify/assert"
)

func TestCellMatchers(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		single string
		deep   string
	}{
		{"bare word", "abc def", "abc", "abc"},
		{"bare before brace", "abc}", "abc", "abc"},
		{"double quotes", `"a b" c`, `"a b"`, `"a b"`},
		{"single quotes", `'}' c`, `'}'`, `'}'`},
		{"parens", "(a b) c", "(a b)", "(a b)"},
		{"nested parens", "(a(b)c) d", "(a(b)", "(a(b)c)"},
		{"nested brackets", "[[1] [2]] x", "[[1]", "[[1] [2]]"},
		{"nested braces", "{a {b} c} }", "{a {b}", "{a {b} c}"},
		{"mixed nesting", "(a [b) c]) d", "(a [b)", "(a [b)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := source.NewBuffer([]byte(tc.input))

			span, ok := singleByteCell(buf, 0)
			assert.True(t, ok)
			assert.Equal(t, tc.single, buf.String(span))

			span, ok = depthAwareCell(buf, 0)
			assert.True(t, ok)
			assert.Equal(t, tc.deep, buf.String(span))
		})
	}
}

func TestCellMatchersAtEndOfInput(t *testing.T) {
	for _, input := range []string{`"abc`, "(a b", "abc", "((a)"} {
		buf := source.NewBuffer([]byte(input))

		_, ok := depthAwareCell(buf, 0)
		assert.False(t, ok, input)
	}

	buf := source.NewBuffer([]byte("((a)"))
	span, ok := singleByteCell(buf, 0)
	assert.True(t, ok)
	assert.Equal(t, "((a)", buf.String(span))
}
