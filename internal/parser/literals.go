package parser

import (
	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/lexer"
)

// buildTemplateLit converts a lexer-level TEMPLATE token — whose expression
// parts are still raw, unparsed source spans — into an ast.TemplateLit by
// re-lexing and re-parsing each expression part with a fresh sub-parser.
func (p *Parser) buildTemplateLit(tok lexer.Token) ast.Expr {
	var parts []ast.TemplatePart
	for _, part := range tok.Parts {
		if !part.IsExpr {
			parts = append(parts, ast.TemplatePart{IsExpr: false, Text: part.Text})
			continue
		}
		parts = append(parts, ast.TemplatePart{IsExpr: true, Expr: p.parseEmbeddedExpr(part)})
	}
	n := &ast.TemplateLit{Parts: parts}
	n.SetSpan(tok.Span)
	return n
}

// parseEmbeddedExpr re-lexes and parses a single template expression span.
// A lex or parse failure here aborts the outer parse at the embedded
// span's own location, so diagnostics still point inside the template.
func (p *Parser) parseEmbeddedExpr(part lexer.TemplatePart) ast.Expr {
	toks, lerr := lexer.New(part.Source, p.file).Tokenize()
	if lerr != nil {
		p.failAt(part.Span, "invalid expression inside template: "+lerr.Message)
	}
	sub := New(p.file, toks)
	var expr ast.Expr
	func() {
		defer func() {
			if r := recover(); r != nil {
				if ab, ok := r.(abortParse); ok {
					p.failAt(part.Span, "invalid expression inside template: "+ab.diag.Message)
					return
				}
				panic(r)
			}
		}()
		expr = sub.parseExpr()
	}()
	return expr
}
