package parser

import (
	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/lexer"
)

// parseType parses a type expression: union of intersections of
// optional-suffixed array/postfix types.
func (p *Parser) parseType() ast.TypeExpr {
	return p.parseUnionType()
}

func (p *Parser) parseUnionType() ast.TypeExpr {
	start := p.cur().Span
	first := p.parseIntersectionType()
	if !p.checkOp("|") {
		return first
	}
	types := []ast.TypeExpr{first}
	for p.checkOp("|") {
		p.advance()
		types = append(types, p.parseIntersectionType())
	}
	n := &ast.UnionType{Types: types}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseIntersectionType() ast.TypeExpr {
	start := p.cur().Span
	first := p.parsePostfixType()
	if !p.checkOp("&") {
		return first
	}
	types := []ast.TypeExpr{first}
	for p.checkOp("&") {
		p.advance()
		types = append(types, p.parsePostfixType())
	}
	n := &ast.IntersectionType{Types: types}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// parsePostfixType applies `[]` array and `?` optional suffixes.
func (p *Parser) parsePostfixType() ast.TypeExpr {
	start := p.cur().Span
	t := p.parsePrefixType()
	for {
		if p.checkPunct("[") && p.peek(1).Kind == lexer.KindPunctuation && p.peek(1).Text == "]" {
			p.advance()
			p.advance()
			n := &ast.ArrayType{Elem: t}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			t = n
			continue
		}
		if p.checkOp("?") {
			p.advance()
			n := &ast.OptionalType{Inner: t}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			t = n
			continue
		}
		break
	}
	return t
}

func (p *Parser) parsePrefixType() ast.TypeExpr {
	start := p.cur().Span
	if p.checkKeyword("typeof") {
		p.advance()
		x := p.parseUnary()
		n := &ast.TypeOfType{X: x}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}
	if p.checkKeyword("keyof") {
		p.advance()
		inner := p.parsePrefixType()
		n := &ast.KeyOfType{Inner: inner}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}
	if p.checkKeyword("infer") {
		p.advance()
		name := p.eat(lexer.KindIdent, "")
		n := &ast.InferType{Name: name.Text}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}
	return p.parsePrimaryType()
}

func (p *Parser) parsePrimaryType() ast.TypeExpr {
	start := p.cur().Span

	if p.checkPunct("(") {
		return p.parseFunctionOrGroupType(start)
	}
	if p.checkPunct("{") {
		return p.parseObjectType(start)
	}
	if p.checkPunct("[") {
		return p.parseTupleType(start)
	}

	// A literal type: a string/number/bool literal used as a type.
	if p.cur().Kind == lexer.KindString || p.cur().Kind == lexer.KindNumber ||
		p.checkKeyword("true") || p.checkKeyword("false") {
		e := p.parsePrimary()
		n := &ast.LiteralType{Value: e}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}

	// Qualified dotted name, optionally generic.
	name := p.eat(lexer.KindIdent, "")
	path := []string{name.Text}
	for p.checkPunct(".") {
		p.advance()
		part := p.eat(lexer.KindIdent, "")
		path = append(path, part.Text)
	}
	var args []ast.TypeExpr
	if p.checkOp("<") {
		p.advance()
		for !p.checkOp(">") {
			args = append(args, p.parseType())
			if p.checkPunct(",") {
				p.advance()
				continue
			}
			break
		}
		p.eatGenericClose()
	}
	n := &ast.NamedType{Path: path, Args: args}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// eatGenericClose consumes a `>` that closes a generic argument list. Since
// `>>`/`>>>` are lexed as single operator tokens, a closing `>` may be the
// first character of one of those; split it in that case.
func (p *Parser) eatGenericClose() {
	tok := p.cur()
	switch {
	case tok.Kind == lexer.KindOperator && tok.Text == ">":
		p.advance()
	case tok.Kind == lexer.KindOperator && (tok.Text == ">>" || tok.Text == ">>>"):
		tok.Text = tok.Text[1:]
		p.toks[p.pos] = tok
	default:
		p.fail("expected '>' to close generic argument list")
	}
}

func (p *Parser) parseFunctionOrGroupType(start lexer.Span) ast.TypeExpr {
	p.advance() // (
	var params []ast.FuncTypeParam
	for !p.checkPunct(")") {
		name := p.eat(lexer.KindIdent, "")
		var ty ast.TypeExpr
		if p.checkOp(":") {
			p.advance()
			ty = p.parseType()
		}
		params = append(params, ast.FuncTypeParam{Name: name.Text, Type: ty})
		if p.checkPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.eat(lexer.KindPunctuation, ")")
	if p.checkOp("->") || p.checkOp("=>") {
		p.advance()
		ret := p.parseType()
		n := &ast.FunctionType{Params: params, Return: ret}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}
	// Not actually a function type: treat a single unnamed param as a
	// parenthesized type.
	if len(params) == 1 && params[0].Type != nil {
		return params[0].Type
	}
	p.fail("expected '->' or '=>' in function type")
	return nil
}

func (p *Parser) parseObjectType(start lexer.Span) ast.TypeExpr {
	p.advance() // {
	var fields []ast.ObjectTypeField
	for !p.checkPunct("}") {
		name := p.eat(lexer.KindIdent, "")
		optional := false
		if p.checkOp("?") {
			p.advance()
			optional = true
		}
		p.eat(lexer.KindOperator, ":")
		ty := p.parseType()
		fields = append(fields, ast.ObjectTypeField{Name: name.Text, Type: ty, Optional: optional})
		if p.checkPunct(",") || p.checkPunct(";") {
			p.advance()
			continue
		}
		break
	}
	p.eat(lexer.KindPunctuation, "}")
	n := &ast.ObjectType{Fields: fields}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseTupleType(start lexer.Span) ast.TypeExpr {
	p.advance() // [
	var elems []ast.TypeExpr
	for !p.checkPunct("]") {
		elems = append(elems, p.parseType())
		if p.checkPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.eat(lexer.KindPunctuation, "]")
	n := &ast.TupleType{Elems: elems}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}
