package meta

import (
	"bytes"

	"github.com/conneroisu/metac/internal/arena"
	errs "github.com/conneroisu/metac/internal/errors"
	"github.com/conneroisu/metac/internal/registry"
	"github.com/conneroisu/metac/internal/source"
)

// pass is the state of one run. Every parsing step receives it explicitly;
// it is never shared between runs.
type pass struct {
	src      source.Buffer
	at       int
	keywords []Keyword
	registry *registry.Registry
	diags    *errs.Collector
	out      *arena.Bytes
	cell     cellMatcher
	fatal    error

	// declared counts @table directives, faulty ones included. failed
	// holds the names of faulty declarations whose name could be read.
	declared int
	failed   []source.Span
}

func newPass(src source.Buffer, opts Options) *pass {
	cell := singleByteCell
	if opts.DepthAwareCells {
		cell = depthAwareCell
	}
	return &pass{
		src:      src,
		keywords: opts.Keywords,
		registry: registry.New(opts.Limits),
		diags:    errs.NewCollector(opts.Limits.MaxDiagnostics),
		out:      arena.NewBytes(opts.Limits.MaxOutputBytes),
		cell:     cell,
	}
}

// declarationFailed reports whether name belongs to a table directive that
// was dropped because of a fault.
func (p *pass) declarationFailed(name []byte) bool {
	for _, span := range p.failed {
		if bytes.Equal(p.src.Bytes(span), name) {
			return true
		}
	}
	return false
}

// err returns the first fatal condition of the pass.
func (p *pass) err() error {
	if p.fatal != nil {
		return p.fatal
	}
	if err := p.diags.Err(); err != nil {
		return err
	}
	return p.out.Err()
}

func (p *pass) eof() bool {
	return p.at >= p.src.Len()
}

// peek returns the byte under the cursor, or 0 at end of input.
func (p *pass) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src.At(p.at)
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func (p *pass) skipWhitespace() {
	for !p.eof() && isWhitespace(p.src.At(p.at)) {
		p.at++
	}
}

// skipTo advances the cursor to the next c without consuming it. It reports
// false, leaving the cursor at end of input, when there is none.
func (p *pass) skipTo(c byte) bool {
	for !p.eof() {
		if p.src.At(p.at) == c {
			return true
		}
		p.at++
	}
	return false
}

// trimRight drops trailing whitespace from s.
func (p *pass) trimRight(s source.Span) source.Span {
	for s.Length > 0 && isWhitespace(p.src.At(s.End()-1)) {
		s.Length--
	}
	return s
}

// indexByte finds c in [from, to) and returns its offset or -1.
func (p *pass) indexByte(from, to int, c byte) int {
	i := bytes.IndexByte(p.src.Bytes(source.Span{Offset: from, Length: to - from}), c)
	if i < 0 {
		return -1
	}
	return from + i
}

func (p *pass) fail(offset int, kind errs.Kind, message string) {
	p.diags.Add(offset, kind, message)
}

func (p *pass) emit(s source.Span) {
	_, _ = p.out.Write(p.src.Bytes(s))
}

func (p *pass) emitByte(c byte) {
	_ = p.out.WriteByte(c)
}
