package meta

import (
	errs "github.com/conneroisu/metac/internal/errors"
	"github.com/conneroisu/metac/internal/source"
)

const marker = '@'

// run is the top-level forward pass.
func (p *pass) run() error {
	for !p.eof() {
		if err := p.err(); err != nil {
			return err
		}

		c := p.src.At(p.at)
		if c != marker {
			p.emitByte(c)
			p.at++
			continue
		}
		p.directive()
	}
	return p.err()
}

// directive handles the marker under the cursor.
func (p *pass) directive() {
	start := p.at
	identAt := start + 1
	end := identAt
	for end < p.src.Len() && isIdentByte(p.src.At(end)) {
		end++
	}
	ident := p.src.Bytes(source.Span{Offset: identAt, Length: end - identAt})

	kw, ok := p.lookupKeyword(ident)
	if !ok {
		// Not a directive: the marker and the byte after it go through as is.
		p.emitByte(marker)
		p.at = identAt
		if !p.eof() {
			p.emitByte(p.src.At(p.at))
			p.at++
		}
		return
	}

	p.at = end
	switch kw.Kind {
	case DirectiveExpand:
		p.parseExpand(identAt)
	case DirectiveTableGenEnum:
		p.skipReserved()
	case DirectiveTable:
		p.parseTable(start)
	}
}

func (p *pass) lookupKeyword(ident []byte) (Keyword, bool) {
	for _, kw := range p.keywords {
		if string(ident) == kw.Name {
			return kw, true
		}
	}
	return Keyword{}, false
}

// skipReserved consumes a directive that is recognized but produces nothing,
// up to and including its closing brace.
func (p *pass) skipReserved() {
	if !p.skipTo('}') {
		p.fail(p.at, errs.KindUnterminatedDelimiter, "expected '}'")
		return
	}
	p.at++
}
