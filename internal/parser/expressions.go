package parser

import (
	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/lexer"
)

// parseExpr parses a full expression, including top-level comma sequences.
func (p *Parser) parseExpr() ast.Expr {
	start := p.cur().Span
	first := p.parseAssignment()
	if !p.checkPunct(",") {
		return first
	}
	exprs := []ast.Expr{first}
	for p.checkPunct(",") {
		p.advance()
		exprs = append(exprs, p.parseAssignment())
	}
	n := &ast.SequenceExpr{Exprs: exprs}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// parseAssignExpr parses a single assignment-or-lower expression, without
// consuming a top-level comma (used inside argument lists, array/object
// literals, for-loop headers, etc).
func (p *Parser) parseAssignExpr() ast.Expr { return p.parseAssignment() }

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, "&&=": true, "||=": true, "??=": true,
}

func (p *Parser) parseAssignment() ast.Expr {
	start := p.cur().Span
	left := p.parseArrowOrTernary()
	if p.cur().Kind == lexer.KindOperator && assignOps[p.cur().Text] {
		op := p.advance().Text
		right := p.parseAssignment()
		n := &ast.AssignExpr{Op: op, Target: left, Value: right}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}
	return left
}

// parseArrowOrTernary tries an arrow-function head first (since `(a, b) =>`
// and a parenthesized expression share a prefix), falling back to the
// ternary-and-below ladder.
func (p *Parser) parseArrowOrTernary() ast.Expr {
	if arrow := p.tryParseArrow(); arrow != nil {
		return arrow
	}
	return p.parseTernary()
}

// tryParseArrow scans forward for an arrow-function head and, if found,
// parses and returns it; otherwise it rewinds and returns nil.
func (p *Parser) tryParseArrow() ast.Expr {
	save := p.pos
	start := p.cur().Span
	async := false
	if p.checkKeyword("async") && (p.peek(1).Kind == lexer.KindIdent || (p.peek(1).Kind == lexer.KindPunctuation && p.peek(1).Text == "(")) {
		async = true
		p.advance()
	}

	var params []*ast.Param
	ok := false
	switch {
	case p.cur().Kind == lexer.KindIdent && p.peek(1).Kind == lexer.KindOperator && p.peek(1).Text == "=>":
		name := p.advance()
		id := ast.NewIdent(name.Text, name.Span)
		param := &ast.Param{Target: id}
		param.SetSpan(name.Span)
		params = []*ast.Param{param}
		ok = true
	case p.checkPunct("("):
		if end := p.scanMatchingParen(p.pos); end >= 0 && p.toks[end+1].Kind == lexer.KindOperator && p.toks[end+1].Text == "=>" {
			params = p.parseParamList()
			ok = true
		}
	}
	if !ok {
		p.pos = save
		return nil
	}
	ret := p.parseOptReturnType()
	if !p.checkOp("=>") {
		p.pos = save
		return nil
	}
	p.advance()
	n := &ast.ArrowFunc{Params: params, ReturnType: ret, Async: async}
	if p.checkPunct("{") {
		n.BlockBody = p.parseBlock()
	} else {
		n.ExprBody = p.parseAssignment()
	}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// scanMatchingParen returns the index of the `)` matching the `(` at
// openIdx, or -1 if unbalanced before EOF.
func (p *Parser) scanMatchingParen(openIdx int) int {
	depth := 0
	for i := openIdx; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.Kind == lexer.KindPunctuation && t.Text == "(" {
			depth++
		} else if t.Kind == lexer.KindPunctuation && t.Text == ")" {
			depth--
			if depth == 0 {
				return i
			}
		} else if t.Kind == lexer.KindEOF {
			return -1
		}
	}
	return -1
}

func (p *Parser) parseTernary() ast.Expr {
	start := p.cur().Span
	cond := p.parsePipeline()
	if !p.checkOp("?") {
		return cond
	}
	p.advance()
	then := p.parseAssignment()
	p.eat(lexer.KindOperator, ":")
	els := p.parseAssignment()
	n := &ast.TernaryExpr{Cond: cond, Then: then, Else: els}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parsePipeline() ast.Expr { return p.parseBinaryLevel(pipelineOps, p.parseNullish) }
func (p *Parser) parseNullish() ast.Expr  { return p.parseBinaryLevel(nullishOps, p.parseLogicalOr) }
func (p *Parser) parseLogicalOr() ast.Expr {
	return p.parseBinaryLevel(logicalOrOps, p.parseLogicalAnd)
}
func (p *Parser) parseLogicalAnd() ast.Expr {
	return p.parseBinaryLevel(logicalAndOps, p.parseBitOr)
}
func (p *Parser) parseBitOr() ast.Expr  { return p.parseBinaryLevel(bitOrOps, p.parseBitXor) }
func (p *Parser) parseBitXor() ast.Expr { return p.parseBinaryLevel(bitXorOps, p.parseBitAnd) }
func (p *Parser) parseBitAnd() ast.Expr { return p.parseBinaryLevel(bitAndOps, p.parseEquality) }
func (p *Parser) parseEquality() ast.Expr {
	return p.parseBinaryLevel(equalityOps, p.parseRelational)
}
func (p *Parser) parseRelational() ast.Expr {
	return p.parseRelationalLevel()
}
func (p *Parser) parseShift() ast.Expr { return p.parseBinaryLevel(shiftOps, p.parseAdditive) }
func (p *Parser) parseAdditive() ast.Expr {
	return p.parseBinaryLevel(additiveOps, p.parseMultiplicative)
}
func (p *Parser) parseMultiplicative() ast.Expr {
	return p.parseBinaryLevel(multiplicativeOps, p.parseExponent)
}
func (p *Parser) parseExponent() ast.Expr {
	start := p.cur().Span
	left := p.parseUnary()
	if p.checkOp("**") {
		p.advance()
		right := p.parseExponent() // right-associative
		n := &ast.BinaryExpr{Op: "**", Left: left, Right: right}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	}
	return left
}

var (
	pipelineOps       = opSet("|>")
	nullishOps        = opSet("??")
	logicalOrOps      = opSet("||")
	logicalAndOps     = opSet("&&")
	bitOrOps          = opSet("|")
	bitXorOps         = opSet("^")
	bitAndOps         = opSet("&")
	equalityOps       = opSet("==", "!=", "===", "!==")
	shiftOps          = opSet("<<", ">>", ">>>")
	additiveOps       = opSet("+", "-")
	multiplicativeOps = opSet("*", "/", "%")
)

func opSet(ops ...string) map[string]bool {
	m := make(map[string]bool, len(ops))
	for _, o := range ops {
		m[o] = true
	}
	return m
}

// parseBinaryLevel builds a standard left-associative binary-operator
// level over the given next-higher-precedence parser.
func (p *Parser) parseBinaryLevel(ops map[string]bool, next func() ast.Expr) ast.Expr {
	start := p.cur().Span
	left := next()
	for p.cur().Kind == lexer.KindOperator && ops[p.cur().Text] {
		op := p.advance().Text
		right := next()
		n := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		left = n
	}
	return left
}

// parseRelationalLevel handles <, >, <=, >=, instanceof, in. The `in` of a
// for-loop header never reaches this level: parseFor reads the loop target
// with parseBindingTarget before it checks for `of`/`in`.
func (p *Parser) parseRelationalLevel() ast.Expr {
	start := p.cur().Span
	left := p.parseShift()
	for {
		switch {
		case p.checkOp("<") || p.checkOp(">") || p.checkOp("<=") || p.checkOp(">="):
			op := p.advance().Text
			right := p.parseShift()
			n := &ast.BinaryExpr{Op: op, Left: left, Right: right}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			left = n
		case p.checkKeyword("instanceof") || p.checkKeyword("in"):
			op := p.advance().Text
			right := p.parseShift()
			n := &ast.BinaryExpr{Op: op, Left: left, Right: right}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			left = n
		default:
			return left
		}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur().Span
	switch {
	case p.checkOp("!"):
		p.advance()
		return p.finishUnary(start, ast.OpNot)
	case p.checkOp("~"):
		p.advance()
		return p.finishUnary(start, ast.OpBitNot)
	case p.checkOp("-"):
		p.advance()
		return p.finishUnary(start, ast.OpNeg)
	case p.checkOp("+"):
		p.advance()
		return p.finishUnary(start, ast.OpPos)
	case p.checkOp("++"):
		p.advance()
		x := p.parseUnary()
		n := &ast.UnaryExpr{Op: ast.OpPreIncr, X: x}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	case p.checkOp("--"):
		p.advance()
		x := p.parseUnary()
		n := &ast.UnaryExpr{Op: ast.OpPreDecr, X: x}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	case p.checkKeyword("typeof"):
		p.advance()
		return p.finishUnary(start, ast.OpTypeof)
	case p.checkKeyword("void"):
		p.advance()
		return p.finishUnary(start, ast.OpVoid)
	case p.checkKeyword("await"):
		p.advance()
		x := p.parseUnary()
		n := &ast.AwaitExpr{X: x}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	case p.checkKeyword("yield"):
		p.advance()
		delegate := false
		if p.checkOp("*") {
			p.advance()
			delegate = true
		}
		var x ast.Expr
		if !p.isLineEnd() && !p.checkPunct(")") && !p.checkPunct(",") && !p.checkPunct(";") && !p.atEnd() {
			x = p.parseAssignment()
		}
		n := &ast.YieldExpr{X: x, Delegate: delegate}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	case p.checkKeyword("have"):
		p.advance()
		x := p.parseUnary()
		n := &ast.HaveExpr{X: x}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) finishUnary(start lexer.Span, op ast.UnaryOp) ast.Expr {
	x := p.parseUnary()
	n := &ast.UnaryExpr{Op: op, X: x}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

// parsePostfix handles trailing ++/--, member/call/index chains (incl.
// optional chaining), `as`/`satisfies` assertions.
func (p *Parser) parsePostfix() ast.Expr {
	start := p.cur().Span
	x := p.parseCallChain()
	for {
		switch {
		case p.checkOp("++"):
			p.advance()
			n := &ast.UnaryExpr{Op: ast.OpPostIncr, X: x}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			x = n
		case p.checkOp("--"):
			p.advance()
			n := &ast.UnaryExpr{Op: ast.OpPostDecr, X: x}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			x = n
		case p.checkKeyword("as"):
			p.advance()
			ty := p.parseType()
			n := &ast.AsExpr{X: x, Type: ty}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			x = n
		case p.checkKeyword("satisfies"):
			p.advance()
			ty := p.parseType()
			n := &ast.SatisfiesExpr{X: x, Type: ty}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			x = n
		default:
			return x
		}
	}
}

// parseCallChain parses a primary expression followed by any number of
// `.prop`, `?.prop`, `[idx]`, `?.[idx]`, `(args)`, `?.(args)`, and
// `::method` suffixes.
func (p *Parser) parseCallChain() ast.Expr {
	start := p.cur().Span
	x := p.parsePrimary()
	for {
		switch {
		case p.checkPunct("."):
			p.advance()
			name := p.eat(lexer.KindIdent, "")
			n := &ast.MemberExpr{Object: x, Property: name.Text}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			x = n
		case p.checkOp("?."):
			p.advance()
			if p.checkPunct("(") {
				args := p.parseArgList()
				n := &ast.CallExpr{Callee: x, Args: args, Optional: true}
				n.SetSpan(mergeSpan(start, p.prevSpan()))
				x = n
				continue
			}
			if p.checkPunct("[") {
				p.advance()
				idx := p.parseExpr()
				p.eat(lexer.KindPunctuation, "]")
				n := &ast.MemberExpr{Object: x, Index: idx, Computed: true, Optional: true}
				n.SetSpan(mergeSpan(start, p.prevSpan()))
				x = n
				continue
			}
			name := p.eat(lexer.KindIdent, "")
			n := &ast.MemberExpr{Object: x, Property: name.Text, Optional: true}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			x = n
		case p.checkPunct("["):
			p.advance()
			idx := p.parseExpr()
			p.eat(lexer.KindPunctuation, "]")
			n := &ast.MemberExpr{Object: x, Index: idx, Computed: true}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			x = n
		case p.checkPunct("("):
			args := p.parseArgList()
			n := &ast.CallExpr{Callee: x, Args: args}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			x = n
		case p.checkOp("::"):
			p.advance()
			name := p.eat(lexer.KindIdent, "")
			n := &ast.BindExpr{Object: x, Method: name.Text}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			x = n
		default:
			return x
		}
	}
}

func (p *Parser) parseArgList() []ast.Expr {
	p.eat(lexer.KindPunctuation, "(")
	var args []ast.Expr
	for !p.checkPunct(")") {
		if p.checkOp("...") {
			start := p.cur().Span
			p.advance()
			x := p.parseAssignment()
			n := &ast.SpreadElement{X: x}
			n.SetSpan(mergeSpan(start, p.prevSpan()))
			args = append(args, n)
		} else {
			args = append(args, p.parseAssignment())
		}
		if p.checkPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.eat(lexer.KindPunctuation, ")")
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur().Span
	tok := p.cur()

	switch {
	case tok.Kind == lexer.KindNumber:
		p.advance()
		n := &ast.NumberLit{Raw: tok.Value, BigInt: tok.BigInt}
		n.SetSpan(start)
		return n
	case tok.Kind == lexer.KindString:
		p.advance()
		n := &ast.StringLit{Value: tok.Value}
		n.SetSpan(start)
		return n
	case tok.Kind == lexer.KindTemplate:
		p.advance()
		return p.buildTemplateLit(tok)
	case p.checkKeyword("true"):
		p.advance()
		n := &ast.BoolLit{Value: true}
		n.SetSpan(start)
		return n
	case p.checkKeyword("false"):
		p.advance()
		n := &ast.BoolLit{Value: false}
		n.SetSpan(start)
		return n
	case p.checkKeyword("null"):
		p.advance()
		n := &ast.NullLit{}
		n.SetSpan(start)
		return n
	case p.checkKeyword("undefined"):
		p.advance()
		n := &ast.UndefinedLit{}
		n.SetSpan(start)
		return n
	case p.checkKeyword("this"):
		p.advance()
		n := &ast.This{}
		n.SetSpan(start)
		return n
	case p.checkKeyword("super"):
		p.advance()
		n := &ast.Super{}
		n.SetSpan(start)
		return n
	case p.checkKeyword("channel"):
		p.advance()
		p.eat(lexer.KindPunctuation, "(")
		p.eat(lexer.KindPunctuation, ")")
		n := &ast.ChannelExpr{}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	case p.checkKeyword("require"):
		p.advance()
		p.eat(lexer.KindPunctuation, "(")
		path := p.parseAssignment()
		p.eat(lexer.KindPunctuation, ")")
		n := &ast.RequireExpr{Path: path}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	case p.checkKeyword("new"):
		p.advance()
		callee := p.parseNewCallee()
		var args []ast.Expr
		if p.checkPunct("(") {
			args = p.parseArgList()
		}
		n := &ast.NewExpr{Callee: callee, Args: args}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		return n
	case p.checkKeyword("fn"):
		return p.parseFuncExpr()
	case p.checkKeyword("async") && p.peek(1).Kind == lexer.KindKeyword && p.peek(1).Text == "fn":
		p.advance()
		fe := p.parseFuncExpr().(*ast.FuncExpr)
		fe.Async = true
		return fe
	case p.checkOp("@"):
		return p.parseDecoratedExpr()
	case tok.Kind == lexer.KindIdent:
		p.advance()
		n := ast.NewIdent(tok.Text, start)
		return n
	case p.checkPunct("("):
		p.advance()
		x := p.parseExpr()
		p.eat(lexer.KindPunctuation, ")")
		return x
	case p.checkPunct("["):
		return p.parseArrayLit()
	case p.checkPunct("{"):
		return p.parseObjectLit()
	case p.checkKeyword("match"):
		return p.parseMatchExpr()
	}

	p.fail("unexpected token in expression")
	return nil
}

// parseNewCallee parses the `Foo.Bar<T>` member-dot chain that a `new`
// expression's constructor name may take, stopping before any `(` so the
// call-args (if present) are attributed to the `new`, not to a later chain.
func (p *Parser) parseNewCallee() ast.Expr {
	start := p.cur().Span
	name := p.eat(lexer.KindIdent, "")
	var x ast.Expr = ast.NewIdent(name.Text, name.Span)
	for p.checkPunct(".") {
		p.advance()
		prop := p.eat(lexer.KindIdent, "")
		n := &ast.MemberExpr{Object: x, Property: prop.Text}
		n.SetSpan(mergeSpan(start, p.prevSpan()))
		x = n
	}
	if p.checkOp("<") {
		// Best-effort generic instantiation skip; NTL erases type args at
		// codegen so they need not be retained on the node.
		save := p.pos
		p.advance()
		depth := 1
		for depth > 0 && !p.atEnd() {
			if p.checkOp("<") {
				depth++
			} else if p.checkOp(">") {
				depth--
			} else if p.cur().Kind == lexer.KindPunctuation && p.cur().Text == "(" {
				p.pos = save
				break
			}
			p.advance()
		}
	}
	return x
}

func (p *Parser) parseFuncExpr() ast.Expr {
	start := p.cur().Span
	p.eat(lexer.KindKeyword, "fn")
	name := ""
	if p.cur().Kind == lexer.KindIdent {
		name = p.advance().Text
	}
	params := p.parseParamList()
	ret := p.parseOptReturnType()
	body := p.parseBlock()
	n := &ast.FuncExpr{Name: name, Params: params, ReturnType: ret, Body: body}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseDecoratedExpr() ast.Expr {
	start := p.cur().Span
	var decorators []ast.Expr
	for p.checkOp("@") {
		p.advance()
		decorators = append(decorators, p.parseCallChain())
	}
	inner := p.parseAssignment()
	n := &ast.DecoratedExpr{Decorators: decorators, Inner: inner}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.cur().Span
	p.advance() // [
	var elems []ast.Expr
	for !p.checkPunct("]") {
		if p.checkPunct(",") {
			elems = append(elems, nil) // hole
			p.advance()
			continue
		}
		if p.checkOp("...") {
			s := p.cur().Span
			p.advance()
			x := p.parseAssignment()
			n := &ast.SpreadElement{X: x}
			n.SetSpan(mergeSpan(s, p.prevSpan()))
			elems = append(elems, n)
		} else {
			elems = append(elems, p.parseAssignment())
		}
		if p.checkPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.eat(lexer.KindPunctuation, "]")
	n := &ast.ArrayLit{Elements: elems}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseObjectLit() ast.Expr {
	start := p.cur().Span
	p.advance() // {
	var props []ast.ObjectProp
	for !p.checkPunct("}") {
		props = append(props, p.parseObjectProp())
		if p.checkPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.eat(lexer.KindPunctuation, "}")
	n := &ast.ObjectLit{Props: props}
	n.SetSpan(mergeSpan(start, p.prevSpan()))
	return n
}

func (p *Parser) parseObjectProp() ast.ObjectProp {
	if p.checkOp("...") {
		p.advance()
		x := p.parseAssignment()
		return ast.ObjectProp{Kind: ast.PropSpread, Value: x}
	}
	if (p.checkKeyword("get") || p.checkKeyword("set")) && p.peek(1).Kind == lexer.KindIdent {
		kind := ast.PropGetter
		if p.cur().Text == "set" {
			kind = ast.PropSetter
		}
		p.advance()
		name := p.advance().Text
		params := p.parseParamList()
		body := p.parseBlock()
		return ast.ObjectProp{Kind: kind, Key: name, Params: params, Body: body}
	}

	var key string
	var computed ast.Expr
	if p.checkPunct("[") {
		p.advance()
		computed = p.parseAssignment()
		p.eat(lexer.KindPunctuation, "]")
	} else if p.cur().Kind == lexer.KindString {
		key = p.advance().Value
	} else {
		key = p.eat(lexer.KindIdent, "").Text
	}

	if p.checkPunct("(") {
		params := p.parseParamList()
		body := p.parseBlock()
		return ast.ObjectProp{Kind: ast.PropMethod, Key: key, Computed: computed, Params: params, Body: body}
	}
	if p.checkOp(":") {
		p.advance()
		val := p.parseAssignment()
		return ast.ObjectProp{Kind: ast.PropPlain, Key: key, Computed: computed, Value: val}
	}
	return ast.ObjectProp{Kind: ast.PropShorthand, Key: key, Value: ast.NewIdent(key, p.prevSpan())}
}

// parseParamList parses a `(p1, p2: T, ...rest)` parameter list.
func (p *Parser) parseParamList() []*ast.Param {
	p.eat(lexer.KindPunctuation, "(")
	var params []*ast.Param
	for !p.checkPunct(")") {
		params = append(params, p.parseParam())
		if p.checkPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.eat(lexer.KindPunctuation, ")")
	return params
}

func (p *Parser) parseParam() *ast.Param {
	start := p.cur().Span
	rest := false
	if p.checkOp("...") {
		p.advance()
		rest = true
	}
	target := p.parseBindingTarget()
	var ty ast.TypeExpr
	if p.checkOp(":") {
		p.advance()
		ty = p.parseType()
	}
	var def ast.Expr
	if p.checkOp("=") {
		p.advance()
		def = p.parseAssignment()
	}
	param := &ast.Param{Target: target, TypeAnn: ty, Default: def, Rest: rest}
	param.SetSpan(mergeSpan(start, p.prevSpan()))
	return param
}
