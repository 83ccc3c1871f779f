package meta

import "github.com/conneroisu/metac/internal/source"

// cellMatcher returns the span of the cell starting at offset at. The byte at
// at is never whitespace or '}'. It reports false when input ends first.
type cellMatcher func(src source.Buffer, at int) (source.Span, bool)

// closers pairs each cell opener with the byte that ends it.
var closers = map[byte]byte{
	'\'': '\'',
	'"':  '"',
	'(':  ')',
	'{':  '}',
	'[':  ']',
}

// singleByteCell ends a paired cell at the first closer byte, so "(a(b)c)"
// yields "(a(b)". Paired cells keep their delimiters.
func singleByteCell(src source.Buffer, at int) (source.Span, bool) {
	closer, paired := closers[src.At(at)]
	if !paired {
		return bareCell(src, at)
	}
	for i := at + 1; i < src.Len(); i++ {
		if src.At(i) == closer {
			return source.Span{Offset: at, Length: i + 1 - at}, true
		}
	}
	return source.Span{}, false
}

// depthAwareCell is singleByteCell with nesting counted for bracket pairs.
// Quoted cells still end at the first matching quote.
func depthAwareCell(src source.Buffer, at int) (source.Span, bool) {
	opener := src.At(at)
	closer, paired := closers[opener]
	if !paired {
		return bareCell(src, at)
	}
	if opener == closer {
		return singleByteCell(src, at)
	}

	depth := 0
	for i := at; i < src.Len(); i++ {
		switch src.At(i) {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return source.Span{Offset: at, Length: i + 1 - at}, true
			}
		}
	}
	return source.Span{}, false
}

// bareCell runs to the next whitespace byte or '}'.
func bareCell(src source.Buffer, at int) (source.Span, bool) {
	for i := at; i < src.Len(); i++ {
		if c := src.At(i); isWhitespace(c) || c == '}' {
			return source.Span{Offset: at, Length: i - at}, true
		}
	}
	return source.Span{}, false
}
