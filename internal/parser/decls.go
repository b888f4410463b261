package parser

import (
	"fmt"

	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/lexer"
)

// parseTopLevel dispatches on the leading keyword for compilation-unit-level
// declarations. Falls through to a statement for code that runs at
// module scope (NTL allows bare statements at top level).
func (p *Parser) parseTopLevel() ast.Decl {
	switch {
	case p.checkKeyword("export"):
		return p.parseTopLevelExport()
	case p.checkKeyword("import"):
		return p.parseImport().(ast.Decl)
	case p.checkOp("@"):
		return p.parseDecoratedDecl().(ast.Decl)
	default:
		d, ok := p.tryParseDecl(false)
		if ok {
			return d
		}
		s := p.parseStatement()
		if d, ok := s.(ast.Decl); ok {
			return d
		}
		// Wrap a bare top-level statement (e.g. an expression statement)
		// in a decl-shaped container so parseFile's []ast.Decl stays
		// uniform; NTL treats the file body as an implicit main sequence.
		tls := &ast.TopLevelStmt{Inner: s}
		tls.SetSpan(s.Span())
		return tls
	}
}

func (p *Parser) parseTopLevelExport() ast.Decl {
	start := p.cur().Span
	p.advance()
	if p.checkPunct("{") || p.cur().Kind == lexer.KindString {
		s := p.parseReExportBody(start)
		return s
	}
	d, ok := p.tryParseDecl(true)
	if !ok {
		p.fail("expected a declaration after 'export'")
	}
	return d
}

func (p *Parser) parseReExportBody(start lexer.Span) ast.Decl {
	var names []ast.ImportSpecifier
	if p.checkPunct("{") {
		p.advance()
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
	}
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

// parseExportableDecl parses the declaration immediately following a bare
// `export` keyword that isn't a re-export list, marking it Exported.
func (p *Parser) parseExportableDecl() ast.Decl {
	d, ok := p.tryParseDecl(true)
	if !ok {
		p.fail("expected a declaration after 'export'")
	}
	return d
}

// tryParseDecl attempts one declaration-keyword production. exported marks
// the resulting node's Exported flag where applicable.
func (p *Parser) tryParseDecl(exported bool) (ast.Decl, bool) {
	switch {
	case p.checkKeyword("var"), p.checkKeyword("val"), p.checkKeyword("let"), p.checkKeyword("const"):
		d := p.parseVarDeclStmt()
		markExported(d, exported)
		return d.(ast.Decl), true
	case p.checkKeyword("fn"):
		d := p.parseFnDecl(nil, false)
		markExported(d, exported)
		return d.(ast.Decl), true
	case p.checkKeyword("async") && p.peek(1).Kind == lexer.KindKeyword && p.peek(1).Text == "fn":
		p.advance()
		d := p.parseFnDecl(nil, true)
		markExported(d, exported)
		return d.(ast.Decl), true
	case p.checkKeyword("class"):
		d := p.parseClassDecl(nil)
		markExported(d, exported)
		return d.(ast.Decl), true
	case p.checkKeyword("interface"):
		return p.parseInterfaceDecl().(ast.Decl), true
	case p.checkKeyword("trait"):
		return p.parseTraitDecl().(ast.Decl), true
	case p.checkKeyword("type"):
		return p.parseTypeAlias().(ast.Decl), true
	case p.checkKeyword("enum"):
		return p.parseEnumDecl().(ast.Decl), true
	case p.checkKeyword("namespace") || p.checkKeyword("module"):
		return p.parseNamespaceDecl().(ast.Decl), true
	case p.checkKeyword("macro"):
		return p.parseMacroDecl().(ast.Decl), true
	case p.checkKeyword("immutable"):
		return p.parseImmutableDecl().(ast.Decl), true
	case p.checkKeyword("using"):
		return p.parseUsingDecl().(ast.Decl), true
	case p.checkKeyword("declare"):
		return p.parseDeclareStmt().(ast.Decl), true
	case p.isNTLRequireStart():
		return p.parseNTLRequire().(ast.Decl), true
	case p.checkOp("@"):
		return p.parseDecoratedDecl().(ast.Decl), true
	}
	return nil, false
}

// markExported sets the Exported flag on the declaration kinds that carry
// one; it's a no-op for kinds that don't (interfaces, traits, ...).
func markExported(d ast.Stmt, exported bool) {
	if !exported {
		return
	}
	switch n := d.(type) {
	case *ast.VarDecl:
		n.Exported = true
	case *ast.MultiVarDecl:
		for _, v := range n.Decls {
			v.Exported = true
		}
	case *ast.FnDecl:
		n.Exported = true
	case *ast.ClassDecl:
		n.Exported = true
	}
}

func (p *Parser) parseVarDeclStmt() ast.Stmt {
	start := p.cur().Span
	isConst := p.cur().Text == "val" || p.cur().Text == "const"
	p.advance()
	first := p.parseOneVarDecl(isConst)
	if !p.checkPunct(",") {
		p.eatSemi()
		return first
	}
	decls := []*ast.VarDecl{first}
	for p.checkPunct(",") {
		p.advance()
		decls = append(decls, p.parseOneVarDecl(isConst))
	}
	p.eatSemi()
	n := &ast.MultiVarDecl{Decls: decls}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseOneVarDecl(isConst bool) *ast.VarDecl {
	start := p.cur().Span
	target := p.parseBindingTarget()
	var ty ast.TypeExpr
	if p.checkOp(":") {
		p.advance()
		ty = p.parseType()
	}
	var init ast.Expr
	if p.checkOp("=") {
		p.advance()
		init = p.parseAssignment()
	}
	return ast.NewVarDecl(target, ty, init, isConst, mergeSpan(start, p.prevSpan()))
}

func (p *Parser) parseFnDecl(decorators []ast.Expr, async bool) ast.Stmt {
	start := p.cur().Span
	p.eat(lexer.KindKeyword, "fn")
	name := p.eat(lexer.KindIdent, "")
	params := p.parseParamList()
	ret := p.parseOptReturnType()
	body := p.parseBlock()
	n := &ast.FnDecl{
		Name: ast.NewIdent(name.Text, name.Span), Params: params, ReturnType: ret,
		Body: body, Async: async, Decorators: decorators,
	}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseDecoratedDecl() ast.Stmt {
	start := p.cur().Span
	var decorators []ast.Expr
	for p.checkOp("@") {
		p.advance()
		decorators = append(decorators, p.parseCallChain())
	}
	async := false
	if p.checkKeyword("async") {
		async = true
		p.advance()
	}
	switch {
	case p.checkKeyword("fn"):
		return p.parseFnDecl(decorators, async)
	case p.checkKeyword("class"):
		return p.parseClassDecl(decorators)
	}
	p.failAt(start, "decorator must precede a function or class declaration")
	return nil
}

func (p *Parser) parseClassDecl(decorators []ast.Expr) ast.Stmt {
	start := p.cur().Span
	abstract := false
	if p.checkKeyword("abstract") {
		abstract = true
		p.advance()
	}
	p.eat(lexer.KindKeyword, "class")
	name := p.eat(lexer.KindIdent, "")
	var typeParams []string
	if p.checkOp("<") {
		typeParams = p.parseTypeParamNames()
	}
	var super ast.Expr
	var implements []ast.TypeExpr
	if p.checkKeyword("extends") {
		p.advance()
		super = p.parseCallChain()
	}
	if p.checkKeyword("implements") {
		p.advance()
		implements = append(implements, p.parseType())
		for p.checkPunct(",") {
			p.advance()
			implements = append(implements, p.parseType())
		}
	}
	members := p.parseClassBody()
	n := &ast.ClassDecl{
		Name: ast.NewIdent(name.Text, name.Span), TypeParams: typeParams, Super: super,
		Implements: implements, Members: members, Abstract: abstract, Decorators: decorators,
	}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseTypeParamNames() []string {
	p.advance() // <
	var names []string
	for !p.checkOp(">") {
		names = append(names, p.eat(lexer.KindIdent, "").Text)
		if p.checkPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.eatGenericClose()
	return names
}

func (p *Parser) parseClassBody() []ast.ClassMember {
	p.eat(lexer.KindPunctuation, "{")
	var members []ast.ClassMember
	for !p.checkPunct("}") {
		members = append(members, p.parseClassMember())
	}
	p.eat(lexer.KindPunctuation, "}")
	return members
}

func (p *Parser) parseClassMember() ast.ClassMember {
	start := p.cur().Span
	var decorators []ast.Expr
	for p.checkOp("@") {
		p.advance()
		decorators = append(decorators, p.parseCallChain())
	}
	var static, async, abstract, override, readonly, private, protected bool
	for {
		switch {
		case p.checkKeyword("static"):
			static = true
			p.advance()
		case p.checkKeyword("async"):
			async = true
			p.advance()
		case p.checkKeyword("abstract"):
			abstract = true
			p.advance()
		case p.checkKeyword("override"):
			override = true
			p.advance()
		case p.checkKeyword("readonly"):
			readonly = true
			p.advance()
		case p.checkKeyword("private"):
			private = true
			p.advance()
		case p.checkKeyword("protected"):
			protected = true
			p.advance()
		case p.checkKeyword("public"):
			p.advance()
		default:
			goto modifiersDone
		}
	}
modifiersDone:

	if (p.checkKeyword("get") || p.checkKeyword("set")) && p.peek(1).Kind == lexer.KindIdent {
		isGet := p.cur().Text == "get"
		p.advance()
		name := p.eat(lexer.KindIdent, "")
		params := p.parseParamList()
		body := p.parseBlock()
		n := &ast.AccessorMember{Name: ast.NewIdent(name.Text, name.Span), IsGet: isGet, Params: params, Body: body, Static: static}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}

	name := p.eat(lexer.KindIdent, "")
	if p.checkPunct("(") {
		params := p.parseParamList()
		ret := p.parseOptReturnType()
		body := p.parseBlock()
		n := &ast.MethodMember{
			Name: ast.NewIdent(name.Text, name.Span), Params: params, ReturnType: ret, Body: body,
			Static: static, Async: async, Abstract: abstract, Override: override,
			IsInit: name.Text == "init", Decorators: decorators,
		}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}

	var ty ast.TypeExpr
	if p.checkOp(":") {
		p.advance()
		ty = p.parseType()
	}
	var init ast.Expr
	if p.checkOp("=") {
		p.advance()
		init = p.parseAssignment()
	}
	p.eatSemi()
	n := &ast.FieldMember{
		Name: ast.NewIdent(name.Text, name.Span), TypeAnn: ty, Init: init,
		Static: static, Readonly: readonly, Private: private, Protected: protected,
	}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseInterfaceDecl() ast.Stmt {
	start := p.cur().Span
	p.advance()
	name := p.eat(lexer.KindIdent, "")
	members := p.parseClassBody()
	n := &ast.InterfaceDecl{Name: ast.NewIdent(name.Text, name.Span), Members: members}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseTraitDecl() ast.Stmt {
	start := p.cur().Span
	p.advance()
	name := p.eat(lexer.KindIdent, "")
	members := p.parseClassBody()
	n := &ast.TraitDecl{Name: ast.NewIdent(name.Text, name.Span), Members: members}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// parseTypeAlias parses `type X = <type>` or, when the right-hand side is a
// sequence of `Name(fields…) | …` arms, an algebraic sum type.
func (p *Parser) parseTypeAlias() ast.Stmt {
	start := p.cur().Span
	p.advance()
	name := p.eat(lexer.KindIdent, "")
	var typeParams []string
	if p.checkOp("<") {
		typeParams = p.parseTypeParamNames()
	}
	p.eat(lexer.KindOperator, "=")

	if p.looksLikeVariantList() {
		variants := []ast.AlgebraicVariant{p.parseVariant()}
		for p.checkOp("|") {
			p.advance()
			variants = append(variants, p.parseVariant())
		}
		p.eatSemi()
		n := &ast.TypeAlias{Name: ast.NewIdent(name.Text, name.Span), TypeParams: typeParams, Variants: variants}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}

	underlying := p.parseType()
	p.eatSemi()
	n := &ast.TypeAlias{Name: ast.NewIdent(name.Text, name.Span), TypeParams: typeParams, Underlying: underlying}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// looksLikeVariantList reports whether the upcoming tokens are
// `Ident (` — the `Name(fields…)` shape of an algebraic variant — as
// opposed to an ordinary type expression.
func (p *Parser) looksLikeVariantList() bool {
	return p.cur().Kind == lexer.KindIdent && p.peek(1).Kind == lexer.KindPunctuation && p.peek(1).Text == "("
}

func (p *Parser) parseVariant() ast.AlgebraicVariant {
	name := p.eat(lexer.KindIdent, "")
	p.eat(lexer.KindPunctuation, "(")
	var fields []string
	idx := 0
	for !p.checkPunct(")") {
		// A field is either `name: Type` or a bare `Type`; lowering only
		// needs the field's accessor name (the `_0, _1, …` positional
		// shape), so a bare type contributes a positional name and its
		// type is discarded here — the checker re-derives it from the
		// alias's declared type when needed.
		if p.cur().Kind == lexer.KindIdent && p.peek(1).Kind == lexer.KindOperator && p.peek(1).Text == ":" {
			fields = append(fields, p.advance().Text)
			p.advance() // :
			p.parseType()
		} else {
			p.parseType()
			fields = append(fields, fmt.Sprintf("_%d", idx))
		}
		idx++
		if p.checkPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.eat(lexer.KindPunctuation, ")")
	return ast.AlgebraicVariant{Name: name.Text, Fields: fields}
}

func (p *Parser) parseEnumDecl() ast.Stmt {
	start := p.cur().Span
	p.advance()
	name := p.eat(lexer.KindIdent, "")
	p.eat(lexer.KindPunctuation, "{")
	var members []ast.EnumMember
	for !p.checkPunct("}") {
		memberName := p.eat(lexer.KindIdent, "")
		var val ast.Expr
		if p.checkOp("=") {
			p.advance()
			val = p.parseAssignment()
		}
		members = append(members, ast.EnumMember{Name: memberName.Text, Value: val})
		if p.checkPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.eat(lexer.KindPunctuation, "}")
	n := &ast.EnumDecl{Name: ast.NewIdent(name.Text, name.Span), Members: members}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseNamespaceDecl() ast.Stmt {
	start := p.cur().Span
	p.advance()
	name := p.eat(lexer.KindIdent, "")
	p.eat(lexer.KindPunctuation, "{")
	var decls []ast.Decl
	for !p.checkPunct("}") {
		decls = append(decls, p.parseTopLevel())
	}
	p.eat(lexer.KindPunctuation, "}")
	n := &ast.NamespaceDecl{Name: ast.NewIdent(name.Text, name.Span), Decls: decls}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseMacroDecl() ast.Stmt {
	start := p.cur().Span
	p.advance()
	name := p.eat(lexer.KindIdent, "")
	params := p.parseParamList()
	body := p.parseBlock()
	n := &ast.MacroDecl{Name: ast.NewIdent(name.Text, name.Span), Params: params, Body: body}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseImmutableDecl() ast.Stmt {
	start := p.cur().Span
	p.advance()
	v := p.parseVarDeclStmt()
	vd, ok := v.(*ast.VarDecl)
	if !ok {
		p.failAt(start, "immutable must wrap a single variable declaration")
	}
	n := &ast.ImmutableDecl{Var: vd}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseUsingDecl() ast.Stmt {
	start := p.cur().Span
	p.advance()
	target := p.parseBindingTarget()
	p.eat(lexer.KindOperator, "=")
	init := p.parseAssignment()
	p.eatSemi()
	n := &ast.UsingDecl{Target: target, Init: init}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseDeclareStmt() ast.Stmt {
	start := p.cur().Span
	p.advance()
	inner, ok := p.tryParseDecl(false)
	if !ok {
		p.failAt(start, "expected a declaration after 'declare'")
	}
	n := &ast.DeclareStmt{Inner: inner}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// isNTLRequireStart reports whether the upcoming tokens are the
// `require(ntl, …)` declaration form, as opposed to a bare `require(path)`
// expression (parsed as an ordinary expression statement).
func (p *Parser) isNTLRequireStart() bool {
	return p.checkKeyword("require") &&
		p.peek(1).Kind == lexer.KindPunctuation && p.peek(1).Text == "(" &&
		p.peek(2).Kind == lexer.KindKeyword && p.peek(2).Text == "ntl"
}

// parseNTLRequire parses `require(ntl, name1, name2, …)`.
func (p *Parser) parseNTLRequire() ast.Stmt {
	start := p.cur().Span
	p.advance()
	p.eat(lexer.KindPunctuation, "(")
	p.eat(lexer.KindKeyword, "ntl")
	var names []*ast.Ident
	for p.checkPunct(",") {
		p.advance()
		tok := p.eat(lexer.KindIdent, "")
		names = append(names, ast.NewIdent(tok.Text, tok.Span))
	}
	p.eat(lexer.KindPunctuation, ")")
	p.eatSemi()
	n := &ast.NTLRequire{Names: names}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// parseOptReturnType parses an optional function return-type annotation
// after a parameter list, accepting either `: Type` or `-> Type` — a
// function/method declaration never uses `=>` for this position, so both
// are unambiguous there.
func (p *Parser) parseOptReturnType() ast.TypeExpr {
	if p.checkOp(":") || p.checkOp("->") {
		p.advance()
		return p.parseType()
	}
	return nil
}
