package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanEnd(t *testing.T) {
	s := Span{Offset: 3, Length: 4}
	assert.Equal(t, 7, s.End())
	assert.False(t, s.Empty())
	assert.True(t, Span{Offset: 5}.Empty())
}

func TestBufferBytes(t *testing.T) {
	buf := NewBuffer([]byte("hello world"))

	assert.Equal(t, 11, buf.Len())
	assert.Equal(t, byte('w'), buf.At(6))
	assert.Equal(t, []byte("world"), buf.Bytes(Span{Offset: 6, Length: 5}))
	assert.Equal(t, "hello", buf.String(Span{Offset: 0, Length: 5}))
}

func TestBufferBytesCannotGrowIntoSource(t *testing.T) {
	data := []byte("abcdef")
	buf := NewBuffer(data)

	b := buf.Bytes(Span{Offset: 0, Length: 2})
	b = append(b, 'X')

	assert.Equal(t, "abcdef", string(data))
	assert.Equal(t, "abX", string(b))
}

func TestBufferEqualComparesContent(t *testing.T) {
	buf := NewBuffer([]byte("name str name"))

	first := Span{Offset: 0, Length: 4}
	second := Span{Offset: 9, Length: 4}
	other := Span{Offset: 5, Length: 3}

	assert.True(t, buf.Equal(first, second))
	assert.False(t, buf.Equal(first, other))
	assert.True(t, buf.EqualString(other, "str"))
	assert.False(t, buf.EqualString(other, "st"))
}

func TestBufferContains(t *testing.T) {
	buf := NewBuffer([]byte("abc"))

	tests := []struct {
		name string
		span Span
		want bool
	}{
		{"whole", Span{0, 3}, true},
		{"empty at end", Span{3, 0}, true},
		{"past end", Span{2, 2}, false},
		{"negative offset", Span{-1, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buf.Contains(tt.span))
		})
	}
}
