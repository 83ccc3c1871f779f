// Package source holds the immutable input text of a run and the spans that
// reference it.
//
// Every name, label and cell recorded during a pass is a Span into the same
// Buffer, so the buffer must outlive every table built from it. Spans are
// plain values; comparing two spans compares the bytes they cover.
package source

import "bytes"

// Span references Length bytes starting at Offset in a Buffer.
type Span struct {
	Offset int
	Length int
}

// End returns the offset one past the last byte of the span.
func (s Span) End() int {
	return s.Offset + s.Length
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.Length == 0
}

// Buffer is the read-only input of a run.
type Buffer struct {
	data []byte
}

// NewBuffer wraps data. The caller must not modify data afterwards.
func NewBuffer(data []byte) Buffer {
	return Buffer{data: data}
}

// Len returns the number of bytes in the buffer.
func (b Buffer) Len() int {
	return len(b.data)
}

// At returns the byte at offset i. It panics when i is out of range, like a
// slice index would.
func (b Buffer) At(i int) byte {
	return b.data[i]
}

// Bytes returns the bytes covered by s. The result aliases the buffer and
// must not be modified.
func (b Buffer) Bytes(s Span) []byte {
	return b.data[s.Offset:s.End():s.End()]
}

// String returns a copy of the bytes covered by s.
func (b Buffer) String(s Span) string {
	return string(b.Bytes(s))
}

// Equal reports whether x and y cover the same bytes.
func (b Buffer) Equal(x, y Span) bool {
	return bytes.Equal(b.Bytes(x), b.Bytes(y))
}

// EqualString reports whether s covers exactly the bytes of str.
func (b Buffer) EqualString(s Span, str string) bool {
	return string(b.Bytes(s)) == str
}

// Contains reports whether s lies entirely inside the buffer.
func (b Buffer) Contains(s Span) bool {
	return s.Offset >= 0 && s.Length >= 0 && s.End() <= len(b.data)
}
