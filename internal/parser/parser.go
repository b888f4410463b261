// Package parser implements NTL's recursive-descent parser: tokens in,
// an *ast.File out, aborting on the first unexpected token.
package parser

import (
	"fmt"

	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/diag"
	"github.com/ntl-lang/ntlc/internal/lexer"
)

// Parser holds the token cursor and the file being built. No look-back
// beyond two tokens is needed except for arrow-function disambiguation,
// which scans forward with explicit bracket-depth tracking instead.
type Parser struct {
	file   string
	toks   []lexer.Token
	pos    int // index of the current token
}

// abortParse is the panic payload used to unwind to ParseFile on the
// first unexpected token.
type abortParse struct {
	diag diag.Diagnostic
}

// New builds a parser over an already-lexed token stream.
func New(file string, toks []lexer.Token) *Parser {
	return &Parser{file: file, toks: toks}
}

// ParseFile parses an entire compilation unit. On success it returns the
// file and a nil diagnostic; on the first parse error it returns nil and
// the single diagnostic that aborts the pipeline.
func ParseFile(file, src string) (f *ast.File, lexErr *diag.Diagnostic, parseErr *diag.Diagnostic) {
	toks, lerr := lexer.New(src, file).Tokenize()
	if lerr != nil {
		return nil, lerr, nil
	}
	p := New(file, toks)
	f, perr := p.parseFile()
	return f, nil, perr
}

func (p *Parser) parseFile() (f *ast.File, err *diag.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			if ab, ok := r.(abortParse); ok {
				f = nil
				d := ab.diag
				err = &d
				return
			}
			panic(r)
		}
	}()

	start := p.cur().Span
	var decls []ast.Decl
	for !p.atEnd() {
		decls = append(decls, p.parseTopLevel())
	}
	end := p.cur().Span
	return ast.NewFile(p.file, decls, mergeSpan(start, end)), nil
}

// --- token cursor helpers -------------------------------------------------

func (p *Parser) cur() lexer.Token { return p.toks[p.pos] }

func (p *Parser) peek(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) atEnd() bool { return p.cur().Kind == lexer.KindEOF }

// prevSpan returns the span of the token just consumed, used to close off
// a node's span at the end of a multi-token production.
func (p *Parser) prevSpan() lexer.Span {
	if p.pos == 0 {
		return p.toks[0].Span
	}
	return p.toks[p.pos-1].Span
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

// check reports whether the current token matches kind (and, if value is
// non-empty, also matches Text).
func (p *Parser) check(kind lexer.Kind, value string) bool {
	tok := p.cur()
	if tok.Kind != kind {
		return false
	}
	return value == "" || tok.Text == value
}

func (p *Parser) checkKeyword(word string) bool { return p.check(lexer.KindKeyword, word) }
func (p *Parser) checkOp(op string) bool        { return p.check(lexer.KindOperator, op) }
func (p *Parser) checkPunct(c string) bool      { return p.check(lexer.KindPunctuation, c) }

func (p *Parser) eatIf(kind lexer.Kind, value string) (lexer.Token, bool) {
	if p.check(kind, value) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

// eat consumes the current token if it matches, otherwise aborts with a
// parse diagnostic at the offending token's location.
func (p *Parser) eat(kind lexer.Kind, value string) lexer.Token {
	tok, ok := p.eatIf(kind, value)
	if !ok {
		p.fail(fmt.Sprintf("expected %s, found %q", describe(kind, value), p.cur().Text))
	}
	return tok
}

func describe(kind lexer.Kind, value string) string {
	if value != "" {
		return fmt.Sprintf("%q", value)
	}
	return string(kind)
}

// eatSemi consumes an optional trailing `;`.
func (p *Parser) eatSemi() { p.eatIf(lexer.KindPunctuation, ";") }

// isLineEnd reports whether the current token starts a new source line
// relative to the previous token, used for the return-expression-on-
// same-line heuristic (a bare `return` followed by a newline does not
// consume the next line's expression).
func (p *Parser) isLineEnd() bool {
	if p.pos == 0 {
		return false
	}
	prev := p.toks[p.pos-1]
	return p.cur().Span.Line > prev.Span.Line
}

func (p *Parser) fail(msg string) {
	tok := p.cur()
	d := diag.New(diag.PhaseParse, diag.SeverityError, "", tok.Span.Line, tok.Span.Column, msg)
	d.File = p.file
	panic(abortParse{diag: d})
}

func (p *Parser) failAt(sp lexer.Span, msg string) {
	d := diag.New(diag.PhaseParse, diag.SeverityError, "", sp.Line, sp.Column, msg)
	d.File = p.file
	panic(abortParse{diag: d})
}

func mergeSpan(start, end lexer.Span) lexer.Span {
	sp := start
	if end.End > sp.End {
		sp.End = end.End
	}
	return sp
}
