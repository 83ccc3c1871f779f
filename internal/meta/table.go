package meta

import (
	errs "github.com/conneroisu/metac/internal/errors"
	"github.com/conneroisu/metac/internal/registry"
	"github.com/conneroisu/metac/internal/source"
)

// tableParser parses one @table directive. depth counts the braces opened
// so far and drives resynchronization after a fault.
type tableParser struct {
	*pass
	depth int
	name  source.Span
}

// parseTable parses a table declaration whose marker is at offset start and
// registers it. On a fault the table is dropped and the cursor moves past the
// table's closing brace. The dropped table's name is remembered so that
// expansions of it are not reported again.
func (p *pass) parseTable(start int) {
	p.declared++
	tp := &tableParser{pass: p}
	table, ok := tp.parse(start)
	if !ok {
		if name, found := tp.failedName(); found {
			p.failed = append(p.failed, name)
		}
		tp.resync()
		return
	}
	if err := p.registry.Add(table); err != nil {
		p.fatal = err
	}
}

func (tp *tableParser) parse(start int) (registry.Table, bool) {
	labels, ok := tp.labels()
	if !ok {
		return registry.Table{}, false
	}
	name, ok := tp.parseName()
	if !ok {
		return registry.Table{}, false
	}
	tp.name = name

	tp.skipWhitespace()
	if tp.eof() || tp.peek() != '{' {
		tp.fail(tp.at, errs.KindSyntax, "expected '{'")
		return registry.Table{}, false
	}
	tp.at++
	tp.depth++

	rows, ok := tp.rows(len(labels))
	if !ok {
		return registry.Table{}, false
	}

	return registry.Table{
		Name:   name,
		Labels: labels,
		Rows:   rows,
		Offset: start,
	}, true
}

// labels parses "(l1, l2, ...)".
func (tp *tableParser) labels() ([]source.Span, bool) {
	if tp.peek() != '(' {
		tp.fail(tp.at, errs.KindSyntax, "expected '('")
		return nil, false
	}
	tp.at++

	var labels []source.Span
	for {
		tp.skipWhitespace()
		if tp.eof() {
			tp.fail(tp.at, errs.KindUnterminatedDelimiter, "expected ')'")
			return nil, false
		}
		if tp.peek() == ')' {
			if len(labels) == 0 {
				tp.fail(tp.at, errs.KindNoLabels, "no labels defined")
			} else {
				tp.fail(tp.at, errs.KindSyntax, "expected next label")
			}
			return nil, false
		}

		start := tp.at
		for !tp.eof() && tp.peek() != ',' && tp.peek() != ')' {
			tp.at++
		}
		if tp.eof() {
			tp.fail(start, errs.KindUnterminatedDelimiter, "expected ')'")
			return nil, false
		}

		label := tp.trimRight(source.Span{Offset: start, Length: tp.at - start})
		if label.Empty() {
			tp.fail(start, errs.KindSyntax, "expected next label")
			return nil, false
		}
		for _, prev := range labels {
			if tp.src.Equal(prev, label) {
				tp.fail(start, errs.KindDuplicateLabel, "duplicate label")
				return nil, false
			}
		}
		labels = append(labels, label)

		if tp.peek() == ')' {
			tp.at++
			return labels, true
		}
		tp.at++ // ','
	}
}

// parseName parses the table name, which ends at whitespace or '{'.
func (tp *tableParser) parseName() (source.Span, bool) {
	tp.skipWhitespace()
	if tp.eof() {
		tp.fail(tp.at, errs.KindSyntax, "expected table name")
		return source.Span{}, false
	}

	start := tp.at
	for !tp.eof() && !isWhitespace(tp.peek()) && tp.peek() != '{' {
		tp.at++
	}
	if tp.eof() {
		tp.fail(start, errs.KindUnterminatedDelimiter, "EOF while parsing table name")
		return source.Span{}, false
	}

	name := source.Span{Offset: start, Length: tp.at - start}
	if name.Empty() {
		tp.fail(start, errs.KindSyntax, "expected table name")
		return source.Span{}, false
	}
	return name, true
}

// rows parses "{ c1 ... cN }" groups up to the table's closing brace.
func (tp *tableParser) rows(width int) ([]registry.Row, bool) {
	var rows []registry.Row
	for {
		tp.skipWhitespace()
		if tp.eof() {
			tp.fail(tp.at, errs.KindUnterminatedDelimiter, "expected '}' or '{'")
			return nil, false
		}

		switch tp.peek() {
		case '}':
			tp.at++
			tp.depth--
			return rows, true
		case '{':
			tp.at++
			tp.depth++
		default:
			tp.fail(tp.at, errs.KindSyntax, "expected '{'")
			return nil, false
		}

		row, ok := tp.row(width)
		if !ok {
			return nil, false
		}
		rows = append(rows, row)
	}
}

func (tp *tableParser) row(width int) (registry.Row, bool) {
	cells := make([]source.Span, 0, width)
	for len(cells) < width {
		tp.skipWhitespace()
		if tp.eof() {
			tp.fail(tp.at, errs.KindUnterminatedDelimiter, "EOF while parsing element label")
			return registry.Row{}, false
		}
		if tp.peek() == '}' {
			tp.fail(tp.at, errs.KindSyntax, "too few elements in row")
			return registry.Row{}, false
		}

		cell, ok := tp.cell(tp.src, tp.at)
		if !ok {
			tp.fail(tp.at, errs.KindUnterminatedDelimiter, "EOF while parsing element label")
			return registry.Row{}, false
		}
		cells = append(cells, cell)
		tp.at = cell.End()
	}

	tp.skipWhitespace()
	if tp.eof() || tp.peek() != '}' {
		tp.fail(tp.at, errs.KindSyntax, "expected '}'")
		return registry.Row{}, false
	}
	tp.at++
	tp.depth--
	return registry.Row{Cells: cells}, true
}

// resync moves the cursor past the closing brace of the table being parsed.
// With no brace open yet it first looks for the table's opening brace.
// Quoted runs are skipped so braces inside string cells do not count.
// failedName returns the name of a table whose parse failed. When the fault
// was in the labels, the name after the closing ')' is read without moving
// the cursor or recording anything.
func (tp *tableParser) failedName() (source.Span, bool) {
	if !tp.name.Empty() {
		return tp.name, true
	}

	i := tp.at
	for i < tp.src.Len() && tp.src.At(i) != ')' && tp.src.At(i) != '{' {
		i++
	}
	if i >= tp.src.Len() || tp.src.At(i) != ')' {
		return source.Span{}, false
	}
	i++
	for i < tp.src.Len() && isWhitespace(tp.src.At(i)) {
		i++
	}
	start := i
	for i < tp.src.Len() && !isWhitespace(tp.src.At(i)) && tp.src.At(i) != '{' {
		i++
	}
	if i >= tp.src.Len() || i == start {
		return source.Span{}, false
	}
	return source.Span{Offset: start, Length: i - start}, true
}

func (tp *tableParser) resync() {
	depth := tp.depth
	if depth == 0 {
		if !tp.skipTo('{') {
			return
		}
		tp.at++
		depth = 1
	}

	for !tp.eof() {
		switch c := tp.peek(); c {
		case '"', '\'':
			tp.at++
			if !tp.skipTo(c) {
				return
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				tp.at++
				return
			}
		}
		tp.at++
	}
}
