package parser

import (
	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/lexer"
)

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur().Span
	p.eat(lexer.KindPunctuation, "{")
	var stmts []ast.Stmt
	for !p.checkPunct("}") {
		stmts = append(stmts, p.parseStatement())
	}
	p.eat(lexer.KindPunctuation, "}")
	n := &ast.Block{Stmts: stmts}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// blockOrSingleStmt parses a braced block, or wraps a single non-braced
// statement in a one-element block, so later stages always see a block.
func (p *Parser) blockOrSingleStmt() *ast.Block {
	if p.checkPunct("{") {
		return p.parseBlock()
	}
	start := p.cur().Span
	s := p.parseStatement()
	n := &ast.Block{Stmts: []ast.Stmt{s}}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// parseStatement dispatches on the leading keyword; expression statements
// fall through to the default case.
func (p *Parser) parseStatement() ast.Stmt {
	switch {
	case p.checkKeyword("var"), p.checkKeyword("val"), p.checkKeyword("let"), p.checkKeyword("const"):
		return p.parseVarDeclStmt()
	case p.checkKeyword("fn"):
		return p.parseFnDecl(nil, false)
	case p.checkKeyword("async") && p.peek(1).Kind == lexer.KindKeyword && p.peek(1).Text == "fn":
		p.advance()
		return p.parseFnDecl(nil, true)
	case p.checkKeyword("class"):
		return p.parseClassDecl(nil)
	case p.checkKeyword("interface"):
		return p.parseInterfaceDecl()
	case p.checkKeyword("trait"):
		return p.parseTraitDecl()
	case p.checkKeyword("type"):
		return p.parseTypeAlias()
	case p.checkKeyword("enum"):
		return p.parseEnumDecl()
	case p.checkKeyword("namespace") || p.checkKeyword("module"):
		return p.parseNamespaceDecl()
	case p.checkKeyword("macro"):
		return p.parseMacroDecl()
	case p.checkKeyword("immutable"):
		return p.parseImmutableDecl()
	case p.checkKeyword("using"):
		return p.parseUsingDecl()
	case p.checkKeyword("declare"):
		return p.parseDeclareStmt()
	case p.isNTLRequireStart():
		return p.parseNTLRequire()
	case p.checkOp("@"):
		return p.parseDecoratedDecl()
	case p.checkKeyword("if"):
		return p.parseIf()
	case p.checkKeyword("unless"):
		return p.parseUnless()
	case p.checkKeyword("while"):
		return p.parseWhile()
	case p.checkKeyword("do"):
		return p.parseDoWhile()
	case p.checkKeyword("for"):
		return p.parseFor()
	case p.checkKeyword("loop"):
		return p.parseLoop()
	case p.checkKeyword("return"):
		return p.parseReturn()
	case p.checkKeyword("raise") || p.checkKeyword("throw"):
		return p.parseThrow()
	case p.checkKeyword("try"):
		return p.parseTry()
	case p.checkKeyword("match"):
		m := p.parseMatchExpr()
		p.eatSemi()
		return m.(ast.Stmt)
	case p.checkKeyword("break"):
		return p.parseBreak()
	case p.checkKeyword("continue"):
		return p.parseContinue()
	case p.checkKeyword("ifset"):
		return p.parseIfSet()
	case p.checkKeyword("spawn"):
		return p.parseSpawn()
	case p.checkKeyword("select"):
		return p.parseSelect()
	case p.checkKeyword("import"):
		return p.parseImport()
	case p.checkKeyword("export"):
		return p.parseExport()
	case p.checkPunct("{"):
		return p.parseBlock()
	case p.checkPunct(";"):
		start := p.cur().Span
		p.advance()
		n := &ast.Block{}
		n.SetSpan(start)
		return n
	default:
		start := p.cur().Span
		x := p.parseExpr()
		p.eatSemi()
		n := &ast.ExprStmt{X: x}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.cur().Span
	p.advance()
	p.eat(lexer.KindPunctuation, "(")
	cond := p.parseExpr()
	p.eat(lexer.KindPunctuation, ")")
	then := p.blockOrSingleStmt()
	var els ast.Stmt
	if p.checkKeyword("elif") {
		els = p.parseIfAsElif()
	} else if p.checkKeyword("else") {
		p.advance()
		if p.checkKeyword("if") {
			els = p.parseIf()
		} else {
			els = p.blockOrSingleStmt()
		}
	}
	n := &ast.If{Cond: cond, Then: then, Else: els}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// parseIfAsElif treats a leading `elif` exactly like `else if`.
func (p *Parser) parseIfAsElif() ast.Stmt {
	start := p.cur().Span
	p.advance() // elif
	p.eat(lexer.KindPunctuation, "(")
	cond := p.parseExpr()
	p.eat(lexer.KindPunctuation, ")")
	then := p.blockOrSingleStmt()
	var els ast.Stmt
	if p.checkKeyword("elif") {
		els = p.parseIfAsElif()
	} else if p.checkKeyword("else") {
		p.advance()
		if p.checkKeyword("if") {
			els = p.parseIf()
		} else {
			els = p.blockOrSingleStmt()
		}
	}
	n := &ast.If{Cond: cond, Then: then, Else: els}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseUnless() ast.Stmt {
	start := p.cur().Span
	p.advance()
	p.eat(lexer.KindPunctuation, "(")
	cond := p.parseExpr()
	p.eat(lexer.KindPunctuation, ")")
	then := p.blockOrSingleStmt()
	var els ast.Stmt
	if p.checkKeyword("else") {
		p.advance()
		els = p.blockOrSingleStmt()
	}
	n := &ast.Unless{Cond: cond, Then: then, Else: els}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.cur().Span
	p.advance()
	p.eat(lexer.KindPunctuation, "(")
	cond := p.parseExpr()
	p.eat(lexer.KindPunctuation, ")")
	body := p.blockOrSingleStmt()
	n := &ast.While{Cond: cond, Body: body}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseDoWhile() ast.Stmt {
	start := p.cur().Span
	p.advance() // do
	body := p.blockOrSingleStmt()
	p.eat(lexer.KindKeyword, "while")
	p.eat(lexer.KindPunctuation, "(")
	cond := p.parseExpr()
	p.eat(lexer.KindPunctuation, ")")
	p.eatSemi()
	n := &ast.DoWhile{Body: body, Cond: cond}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.cur().Span
	p.advance()
	p.eat(lexer.KindPunctuation, "(")
	if p.checkKeyword("var") || p.checkKeyword("val") || p.checkKeyword("let") || p.checkKeyword("const") {
		p.advance()
	}
	target := p.parseBindingTarget()
	if p.checkKeyword("of") {
		p.advance()
		iter := p.parseExpr()
		p.eat(lexer.KindPunctuation, ")")
		body := p.blockOrSingleStmt()
		n := &ast.ForOf{Target: target, Iter: iter, Body: body}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}
	p.eat(lexer.KindKeyword, "in")
	iter := p.parseExpr()
	p.eat(lexer.KindPunctuation, ")")
	body := p.blockOrSingleStmt()
	n := &ast.ForIn{Target: target, Iter: iter, Body: body}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseLoop() ast.Stmt {
	start := p.cur().Span
	p.advance()
	body := p.blockOrSingleStmt()
	n := &ast.Loop{Body: body}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.cur().Span
	p.advance()
	var val ast.Expr
	if !p.isLineEnd() && !p.checkPunct(";") && !p.checkPunct("}") && !p.atEnd() {
		val = p.parseExpr()
	}
	p.eatSemi()
	n := &ast.Return{Value: val}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseThrow() ast.Stmt {
	start := p.cur().Span
	p.advance()
	val := p.parseExpr()
	p.eatSemi()
	n := &ast.Throw{Value: val}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.cur().Span
	p.advance()
	body := p.parseBlock()
	var catch *ast.CatchClause
	if p.checkKeyword("catch") {
		p.advance()
		var param ast.DeclTarget
		if p.checkPunct("(") {
			p.advance()
			param = p.parseBindingTarget()
			p.eat(lexer.KindPunctuation, ")")
		}
		cbody := p.parseBlock()
		catch = &ast.CatchClause{Param: param, Body: cbody}
	}
	var fin *ast.Block
	if p.checkKeyword("finally") {
		p.advance()
		fin = p.parseBlock()
	}
	n := &ast.Try{Body: body, Catch: catch, Finally: fin}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// parseMatchExpr parses `match X { case … => …, … }`; usable both as a
// statement and as an expression since ast.Match implements both.
func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.cur().Span
	p.advance() // match
	subject := p.parseExpr()
	p.eat(lexer.KindPunctuation, "{")
	var cases []ast.MatchCase
	for !p.checkPunct("}") {
		cases = append(cases, p.parseMatchCase())
		p.eatIf(lexer.KindPunctuation, ",")
	}
	p.eat(lexer.KindPunctuation, "}")
	n := &ast.Match{Subject: subject, Cases: cases}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseMatchCase() ast.MatchCase {
	isDefault := false
	var patterns []ast.MatchPattern
	if p.checkKeyword("default") || p.checkKeyword("else") {
		p.advance()
		isDefault = true
	} else {
		p.eat(lexer.KindKeyword, "case")
		patterns = append(patterns, p.parseMatchPattern())
		for p.checkOp("|") {
			p.advance()
			patterns = append(patterns, p.parseMatchPattern())
		}
	}
	var guard ast.Expr
	if p.checkKeyword("when") {
		p.advance()
		guard = p.parseExpr()
	}
	p.eat(lexer.KindOperator, "=>")
	var body *ast.Block
	if p.checkPunct("{") {
		body = p.parseBlock()
	} else {
		start := p.cur().Span
		x := p.parseAssignment()
		ret := &ast.Return{Value: x}
		ret.SetSpan(mergeSpan(start, p.prevSpan()))
		body = &ast.Block{Stmts: []ast.Stmt{ret}}
		body.SetSpan(mergeSpan(start, p.prevSpan()))
		p.eatSemi()
	}
	return ast.MatchCase{Patterns: patterns, Guard: guard, Body: body, IsDefault: isDefault}
}

func (p *Parser) parseBreak() ast.Stmt {
	start := p.cur().Span
	p.advance()
	label := ""
	if p.cur().Kind == lexer.KindIdent && !p.isLineEnd() {
		label = p.advance().Text
	}
	p.eatSemi()
	n := &ast.Break{Label: label}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseContinue() ast.Stmt {
	start := p.cur().Span
	p.advance()
	label := ""
	if p.cur().Kind == lexer.KindIdent && !p.isLineEnd() {
		label = p.advance().Text
	}
	p.eatSemi()
	n := &ast.Continue{Label: label}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseIfSet() ast.Stmt {
	start := p.cur().Span
	p.advance()
	scrut := p.parseExpr()
	alias := ""
	if p.checkKeyword("as") {
		p.advance()
		alias = p.eat(lexer.KindIdent, "").Text
	}
	then := p.parseBlock()
	var els *ast.Block
	if p.checkKeyword("else") {
		p.advance()
		els = p.parseBlock()
	}
	n := &ast.IfSet{Scrutinee: scrut, Alias: alias, Then: then, Else: els}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseSpawn() ast.Stmt {
	start := p.cur().Span
	p.advance()
	x := p.parseExpr()
	p.eatSemi()
	n := &ast.Spawn{X: x}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseSelect() ast.Stmt {
	start := p.cur().Span
	p.advance()
	p.eat(lexer.KindPunctuation, "{")
	var cases []ast.SelectCase
	var def *ast.Block
	for !p.checkPunct("}") {
		if p.checkKeyword("default") {
			p.advance()
			p.eat(lexer.KindOperator, "=>")
			def = p.blockOrSingleStmt()
			p.eatIf(lexer.KindPunctuation, ",")
			continue
		}
		p.eat(lexer.KindKeyword, "case")
		binding := ""
		if p.cur().Kind == lexer.KindIdent && p.peek(1).Kind == lexer.KindOperator && p.peek(1).Text == "=" {
			binding = p.advance().Text
			p.advance() // =
		}
		ch := p.parseExpr()
		p.eat(lexer.KindOperator, "=>")
		body := p.blockOrSingleStmt()
		cases = append(cases, ast.SelectCase{Binding: binding, Channel: ch, Body: body})
		p.eatIf(lexer.KindPunctuation, ",")
	}
	p.eat(lexer.KindPunctuation, "}")
	n := &ast.Select{Cases: cases, Default: def}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseImport() ast.Stmt {
	start := p.cur().Span
	p.advance()
	imp := &ast.Import{}
	if p.cur().Kind == lexer.KindIdent {
		imp.Default = p.advance().Text
		p.eatIf(lexer.KindPunctuation, ",")
	}
	if p.checkOp("*") {
		p.advance()
		p.eat(lexer.KindKeyword, "as")
		imp.Namespace = p.eat(lexer.KindIdent, "").Text
	} else if p.checkPunct("{") {
		p.advance()
		for !p.checkPunct("}") {
			name := p.eat(lexer.KindIdent, "").Text
			alias := ""
			if p.checkKeyword("as") {
				p.advance()
				alias = p.eat(lexer.KindIdent, "").Text
			}
			imp.Specifiers = append(imp.Specifiers, ast.ImportSpecifier{Name: name, Alias: alias})
			if p.checkPunct(",") {
				p.advance()
				continue
			}
			break
		}
		p.eat(lexer.KindPunctuation, "}")
	}
	p.eat(lexer.KindKeyword, "from")
	imp.FromPath = p.eat(lexer.KindString, "").Value
	p.eatSemi()
	imp.SetSpan(mergeSpan(start, p.prevSpan()))
	return imp
}

func (p *Parser) parseExport() ast.Stmt {
	start := p.cur().Span
	p.advance()
	if p.checkPunct("{") {
		p.advance()
		var names []ast.ImportSpecifier
		for !p.checkPunct("}") {
			name := p.eat(lexer.KindIdent, "").Text
			alias := ""
			if p.checkKeyword("as") {
				p.advance()
				alias = p.eat(lexer.KindIdent, "").Text
			}
			names = append(names, ast.ImportSpecifier{Name: name, Alias: alias})
			if p.checkPunct(",") {
				p.advance()
				continue
			}
			break
		}
		p.eat(lexer.KindPunctuation, "}")
		from := ""
		if p.checkKeyword("from") {
			p.advance()
			from = p.eat(lexer.KindString, "").Value
		}
		p.eatSemi()
		n := &ast.Export{Names: names, From: from}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}
	inner := p.parseExportableDecl()
	n := &ast.Export{Inner: inner}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}
