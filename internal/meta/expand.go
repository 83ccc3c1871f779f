package meta

import (
	errs "github.com/conneroisu/metac/internal/errors"
	"github.com/conneroisu/metac/internal/registry"
	"github.com/conneroisu/metac/internal/source"
)

const (
	backtick = '`'
	escape   = '\\'
)

// expandHeader is a parsed "@expand(Name var) `body`".
type expandHeader struct {
	table   source.Span
	binding source.Span
	body    source.Span
}

// segment is one piece of a compiled template body: a literal run of source
// bytes, or the index of a label column when column >= 0.
type segment struct {
	literal source.Span
	column  int
}

// parseExpand handles an @expand directive whose keyword is at offset at.
func (p *pass) parseExpand(at int) {
	faults := p.diags.Len()
	if p.declared == 0 {
		p.fail(at, errs.KindNoTablesDefined, "no tables defined")
	}

	h, ok := p.expandHeader()
	if !ok {
		p.resyncExpand()
		return
	}

	// A table whose declaration failed was already reported.
	var table *registry.Table
	if p.declared > 0 {
		name := p.src.Bytes(h.table)
		table, ok = p.registry.Lookup(p.src, name)
		if !ok && !p.declarationFailed(name) {
			p.fail(h.table.Offset, errs.KindUndefinedTable, "undefined table name")
		}
	}

	segments := p.compileTemplate(h, table)
	if table == nil || p.diags.Len() > faults {
		return
	}
	for _, row := range table.Rows {
		for _, seg := range segments {
			if seg.column < 0 {
				p.emit(seg.literal)
				continue
			}
			p.emit(row.Cells[seg.column])
		}
		p.emitByte('\n')
	}
}

// expandHeader parses from '(' through the closing backtick.
func (p *pass) expandHeader() (expandHeader, bool) {
	var h expandHeader

	if p.peek() != '(' {
		p.fail(p.at, errs.KindSyntax, "expected '('")
		return h, false
	}
	p.at++

	p.skipWhitespace()
	start := p.at
	for !p.eof() && !isWhitespace(p.peek()) && p.peek() != ')' {
		p.at++
	}
	h.table = source.Span{Offset: start, Length: p.at - start}
	if p.eof() {
		p.fail(start, errs.KindUnterminatedDelimiter, "expected ')'")
		return h, false
	}
	if h.table.Empty() {
		p.fail(start, errs.KindSyntax, "table name required")
		return h, false
	}

	p.skipWhitespace()
	start = p.at
	if !p.skipTo(')') {
		p.fail(start, errs.KindUnterminatedDelimiter, "expected ')'")
		return h, false
	}
	h.binding = p.trimRight(source.Span{Offset: start, Length: p.at - start})
	if h.binding.Empty() {
		p.fail(start, errs.KindSyntax, "argument name required")
		return h, false
	}
	p.at++

	p.skipWhitespace()
	if p.peek() != backtick {
		p.fail(p.at, errs.KindSyntax, "expected opening '`'")
		return h, false
	}
	open := p.at
	p.at++

	start = p.at
	if !p.skipBody() {
		p.fail(open, errs.KindUnterminatedDelimiter, "expected closing '`'")
		return h, false
	}
	h.body = source.Span{Offset: start, Length: p.at - start}
	p.at++
	return h, true
}

// skipBody moves the cursor to the next unescaped backtick.
func (p *pass) skipBody() bool {
	for !p.eof() {
		switch p.peek() {
		case escape:
			p.at += 2
		case backtick:
			return true
		default:
			p.at++
		}
	}
	p.at = p.src.Len()
	return false
}

// resyncExpand moves the cursor past the body of a broken @expand, or to end
// of input when it has none.
func (p *pass) resyncExpand() {
	if p.eof() {
		return
	}
	if p.peek() != backtick && !p.skipTo(backtick) {
		return
	}
	p.at++
	if p.skipBody() {
		p.at++
	}
}

// compileTemplate splits the body into literals and placeholder columns.
// Placeholders are checked once here, so a bad one is reported once no
// matter how many rows the table has. table may be nil when the name did
// not resolve; labels are then left unchecked.
func (p *pass) compileTemplate(h expandHeader, table *registry.Table) []segment {
	var segments []segment
	end := h.body.End()
	lit := h.body.Offset

	flush := func(to int) {
		if to > lit {
			segments = append(segments, segment{
				literal: source.Span{Offset: lit, Length: to - lit},
				column:  -1,
			})
		}
	}

	for i := h.body.Offset; i < end; {
		c := p.src.At(i)
		switch {
		case c == escape && i+1 < end:
			flush(i)
			segments = append(segments, segment{
				literal: source.Span{Offset: i + 1, Length: 1},
				column:  -1,
			})
			i += 2
			lit = i

		case c == '$' && i+1 < end && p.src.At(i+1) == '(':
			flush(i)
			open := i + 2
			closing := p.indexByte(open, end, ')')
			if closing < 0 {
				p.fail(i, errs.KindUnterminatedDelimiter, "expected ')'")
				return segments
			}
			if col, ok := p.placeholder(source.Span{Offset: open, Length: closing - open}, h.binding, table); ok {
				segments = append(segments, segment{column: col})
			}
			i = closing + 1
			lit = i

		default:
			i++
		}
	}
	flush(end)
	return segments
}

// placeholder resolves "var.label" to a column index.
func (p *pass) placeholder(content, binding source.Span, table *registry.Table) (int, bool) {
	dot := p.indexByte(content.Offset, content.End(), '.')
	if dot < 0 {
		p.fail(content.Offset, errs.KindSyntax, "expected '.'")
		return 0, false
	}

	name := source.Span{Offset: content.Offset, Length: dot - content.Offset}
	if !p.src.Equal(name, binding) {
		p.fail(content.Offset, errs.KindArgumentMismatch, "argument name does not match defined one")
		return 0, false
	}
	if table == nil {
		return 0, false
	}

	label := source.Span{Offset: dot + 1, Length: content.End() - dot - 1}
	col := table.LabelIndex(p.src, p.src.Bytes(label))
	if col < 0 {
		p.fail(label.Offset, errs.KindUndefinedLabel, "undefined label")
		return 0, false
	}
	return col, true
}
