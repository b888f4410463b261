package parser

import (
	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/lexer"
)

// parseBindingTarget parses the left-hand side of a var decl or a function
// parameter: a bare identifier or a destructuring pattern.
func (p *Parser) parseBindingTarget() ast.DeclTarget {
	switch {
	case p.checkPunct("{"):
		return p.parseObjectPattern()
	case p.checkPunct("["):
		return p.parseArrayPattern()
	default:
		tok := p.eat(lexer.KindIdent, "")
		return ast.NewIdent(tok.Text, tok.Span)
	}
}

func (p *Parser) parseObjectPattern() *ast.ObjectPattern {
	start := p.cur().Span
	p.advance() // {
	var props []ast.ObjectPatternProp
	for !p.checkPunct("}") {
		if p.checkOp("...") {
			p.advance()
			name := p.eat(lexer.KindIdent, "")
			props = append(props, ast.ObjectPatternProp{Key: name.Text, Rest: true})
			break
		}
		key := p.eat(lexer.KindIdent, "")
		prop := ast.ObjectPatternProp{Key: key.Text}
		if p.checkOp(":") {
			p.advance()
			prop.Alias = p.parseBindingTarget()
		}
		if p.checkOp("=") {
			p.advance()
			prop.Default = p.parseAssignment()
		}
		props = append(props, prop)
		if p.checkPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.eat(lexer.KindPunctuation, "}")
	n := &ast.ObjectPattern{Props: props}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseArrayPattern() *ast.ArrayPattern {
	start := p.cur().Span
	p.advance() // [
	var items []ast.ArrayPatternItem
	for !p.checkPunct("]") {
		if p.checkPunct(",") {
			items = append(items, ast.ArrayPatternItem{Hole: true})
			p.advance()
			continue
		}
		item := ast.ArrayPatternItem{}
		if p.checkOp("...") {
			p.advance()
			item.Rest = true
		}
		item.Target = p.parseBindingTarget()
		if p.checkOp("=") {
			p.advance()
			item.Default = p.parseAssignment()
		}
		items = append(items, item)
		if p.checkPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.eat(lexer.KindPunctuation, "]")
	n := &ast.ArrayPattern{Items: items}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// parseMatchPattern parses one pattern in a `case` arm: literal, wildcard
// `_`, dotted enum value, variant `Name(p1, p2)`, array `[p1, p2]`, object
// `{k: p}`, or a bare binding name.
func (p *Parser) parseMatchPattern() ast.MatchPattern {
	start := p.cur().Span

	switch {
	case p.cur().Kind == lexer.KindIdent && p.cur().Text == "_":
		p.advance()
		n := &ast.WildcardPattern{}
		n.SetSpan(start)
		return n

	case p.cur().Kind == lexer.KindNumber || p.cur().Kind == lexer.KindString ||
		p.checkKeyword("true") || p.checkKeyword("false") || p.checkKeyword("null") ||
		p.checkKeyword("undefined") || p.checkOp("-"):
		v := p.parseUnary()
		n := &ast.LiteralPattern{Value: v}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n

	case p.checkPunct("["):
		p.advance()
		var items []ast.MatchPattern
		for !p.checkPunct("]") {
			items = append(items, p.parseMatchPattern())
			if p.checkPunct(",") {
				p.advance()
				continue
			}
			break
		}
		p.eat(lexer.KindPunctuation, "]")
		n := &ast.MatchArrayPattern{Items: items}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n

	case p.checkPunct("{"):
		p.advance()
		var props []ast.MatchObjectProp
		for !p.checkPunct("}") {
			key := p.eat(lexer.KindIdent, "")
			var pat ast.MatchPattern
			if p.checkOp(":") {
				p.advance()
				pat = p.parseMatchPattern()
			} else {
				bp := &ast.BindingPattern{Name: key.Text}
				bp.SetSpan(key.Span)
				pat = bp
			}
			props = append(props, ast.MatchObjectProp{Key: key.Text, Pattern: pat})
			if p.checkPunct(",") {
				p.advance()
				continue
			}
			break
		}
		p.eat(lexer.KindPunctuation, "}")
		n := &ast.MatchObjectPattern{Props: props}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n

	case p.cur().Kind == lexer.KindIdent:
		name := p.advance()
		path := []string{name.Text}
		for p.checkPunct(".") {
			p.advance()
			part := p.eat(lexer.KindIdent, "")
			path = append(path, part.Text)
		}
		if p.checkPunct("(") {
			p.advance()
			var fields []ast.MatchPattern
			for !p.checkPunct(")") {
				fields = append(fields, p.parseMatchPattern())
				if p.checkPunct(",") {
					p.advance()
					continue
				}
				break
			}
			p.eat(lexer.KindPunctuation, ")")
			n := &ast.VariantPattern{Name: path[len(path)-1], Fields: fields}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			return n
		}
		if len(path) > 1 {
			n := &ast.EnumValPattern{Path: path}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			return n
		}
		n := &ast.BindingPattern{Name: path[0]}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}

	p.fail("unexpected token in match pattern")
	return nil
}
