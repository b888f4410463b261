package scope

import (
	"fmt"

	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/diag"
)

// Analyzer runs the two-pass scope analysis over a single parsed file
// and accumulates every diagnostic it finds — unlike the lexer/parser,
// scope errors never abort early; the driver decides whether to proceed
// to the type/codegen stages.
type Analyzer struct {
	file  string
	diags []diag.Diagnostic
}

// Analyze hoists and visits every declaration in f, returning the
// accumulated diagnostics (possibly empty).
func Analyze(file string, f *ast.File) []diag.Diagnostic {
	a := &Analyzer{file: file}
	root := rootScope()
	a.hoistBlock(root, declsToStmts(f.Decls))
	for _, d := range f.Decls {
		a.visitStmt(root, d.(ast.Stmt))
	}
	return a.diags
}

func declsToStmts(decls []ast.Decl) []ast.Stmt {
	out := make([]ast.Stmt, len(decls))
	for i, d := range decls {
		out[i] = d.(ast.Stmt)
	}
	return out
}

func (a *Analyzer) errorf(line, col int, code diag.Code, format string, args ...interface{}) diag.Diagnostic {
	return diag.New(diag.PhaseScope, diag.SeverityError, code, line, col, fmt.Sprintf(format, args...))
}

// --- pass 1: hoisting ------------------------------------------------------

// hoistBlock pre-declares every function/class/enum/macro/namespace name
// (including decorated forms) appearing directly in stmts. `val`/`const`
// bindings are deliberately NOT hoisted here.
func (a *Analyzer) hoistBlock(sc *Scope, stmts []ast.Stmt) {
	for _, s := range stmts {
		a.hoistStmt(sc, s)
	}
}

func (a *Analyzer) hoistStmt(sc *Scope, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.FnDecl:
		sc.declare(n.Name.Name, kindFunc, n.Span().Line)
	case *ast.ClassDecl:
		sc.declare(n.Name.Name, kindClass, n.Span().Line)
	case *ast.EnumDecl:
		sc.declare(n.Name.Name, kindEnum, n.Span().Line)
	case *ast.MacroDecl:
		sc.declare(n.Name.Name, kindMacro, n.Span().Line)
	case *ast.NamespaceDecl:
		sc.declare(n.Name.Name, kindNamespace, n.Span().Line)
	case *ast.DeclareStmt:
		if n.Inner != nil {
			a.hoistStmt(sc, n.Inner.(ast.Stmt))
		}
	case *ast.Export:
		if n.Inner != nil {
			a.hoistStmt(sc, n.Inner.(ast.Stmt))
		}
	case *ast.TopLevelStmt:
		a.hoistStmt(sc, n.Inner)
	}
}

// --- pass 2: visiting --------------------------------------------------

// visitBlock pushes a fresh child scope, hoists its own nested
// declarations, then visits each statement in order.
func (a *Analyzer) visitBlock(parent *Scope, b *ast.Block) {
	if b == nil {
		return
	}
	sc := newScope(parent)
	a.hoistBlock(sc, b.Stmts)
	for _, s := range b.Stmts {
		a.visitStmt(sc, s)
	}
}

func (a *Analyzer) declareTarget(sc *Scope, t ast.DeclTarget, k kind, line int) {
	switch n := t.(type) {
	case *ast.Ident:
		sc.declare(n.Name, k, line)
	case *ast.ObjectPattern:
		for _, p := range n.Props {
			if p.Alias != nil {
				a.declareTarget(sc, p.Alias, k, line)
			} else {
				sc.declare(p.Key, k, line)
			}
			if p.Default != nil {
				a.visitExpr(sc, p.Default)
			}
		}
	case *ast.ArrayPattern:
		for _, it := range n.Items {
			if it.Hole || it.Target == nil {
				continue
			}
			a.declareTarget(sc, it.Target, k, line)
			if it.Default != nil {
				a.visitExpr(sc, it.Default)
			}
		}
	}
}

func (a *Analyzer) visitStmt(sc *Scope, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.TopLevelStmt:
		a.visitStmt(sc, n.Inner)
	case *ast.VarDecl:
		if n.Init != nil {
			a.visitExpr(sc, n.Init)
		}
		k := kindVar
		if n.Const {
			k = kindConst
		}
		a.declareTarget(sc, n.Target, k, n.Span().Line)
	case *ast.MultiVarDecl:
		for _, d := range n.Decls {
			a.visitStmt(sc, d)
		}
	case *ast.FnDecl:
		for _, dec := range n.Decorators {
			a.visitExpr(sc, dec)
		}
		a.visitFuncLike(sc, n.Params, n.Body, false)
	case *ast.ClassDecl:
		for _, dec := range n.Decorators {
			a.visitExpr(sc, dec)
		}
		if n.Super != nil {
			a.visitExpr(sc, n.Super)
		}
		a.visitClassBody(sc, n.Members)
	case *ast.InterfaceDecl, *ast.TraitDecl, *ast.TypeAlias, *ast.EnumDecl,
		*ast.MacroDecl, *ast.ImmutableDecl:
		a.visitDeclBody(sc, n.(ast.Decl))
	case *ast.NamespaceDecl:
		inner := newScope(sc)
		a.hoistBlock(inner, declsToStmts(n.Decls))
		for _, d := range n.Decls {
			a.visitStmt(inner, d.(ast.Stmt))
		}
	case *ast.UsingDecl:
		if n.Init != nil {
			a.visitExpr(sc, n.Init)
		}
		a.declareTarget(sc, n.Target, kindVar, n.Span().Line)
	case *ast.DeclareStmt:
		if n.Inner != nil {
			a.visitStmt(sc, n.Inner.(ast.Stmt))
		}
	case *ast.NTLRequire:
		for _, id := range n.Names {
			sc.declare(id.Name, kindImport, n.Span().Line)
		}
	case *ast.Import:
		if n.Default != "" {
			sc.declare(n.Default, kindImport, n.Span().Line)
		}
		if n.Namespace != "" {
			sc.declare(n.Namespace, kindImport, n.Span().Line)
		}
		for _, spec := range n.Specifiers {
			name := spec.Name
			if spec.Alias != "" {
				name = spec.Alias
			}
			sc.declare(name, kindImport, n.Span().Line)
		}
	case *ast.Export:
		if n.Inner != nil {
			a.visitStmt(sc, n.Inner.(ast.Stmt))
		}
	case *ast.Block:
		a.visitBlock(sc, n)
	case *ast.ExprStmt:
		a.visitExpr(sc, n.X)
	case *ast.If:
		a.visitExpr(sc, n.Cond)
		a.visitBlock(sc, n.Then)
		if n.Else != nil {
			a.visitStmt(sc, n.Else)
		}
	case *ast.Unless:
		a.visitExpr(sc, n.Cond)
		a.visitBlock(sc, n.Then)
		if n.Else != nil {
			a.visitStmt(sc, n.Else)
		}
	case *ast.While:
		a.visitExpr(sc, n.Cond)
		a.visitBlock(sc, n.Body)
	case *ast.DoWhile:
		a.visitBlock(sc, n.Body)
		a.visitExpr(sc, n.Cond)
	case *ast.ForOf:
		a.visitExpr(sc, n.Iter)
		inner := newScope(sc)
		a.declareTarget(inner, n.Target, kindConst, n.Span().Line)
		a.hoistBlock(inner, n.Body.Stmts)
		for _, st := range n.Body.Stmts {
			a.visitStmt(inner, st)
		}
	case *ast.ForIn:
		a.visitExpr(sc, n.Iter)
		inner := newScope(sc)
		a.declareTarget(inner, n.Target, kindConst, n.Span().Line)
		a.hoistBlock(inner, n.Body.Stmts)
		for _, st := range n.Body.Stmts {
			a.visitStmt(inner, st)
		}
	case *ast.Loop:
		a.visitBlock(sc, n.Body)
	case *ast.Return:
		if n.Value != nil {
			a.visitExpr(sc, n.Value)
		}
	case *ast.Throw:
		a.visitExpr(sc, n.Value)
	case *ast.Try:
		a.visitBlock(sc, n.Body)
		if n.Catch != nil {
			inner := newScope(sc)
			if n.Catch.Param != nil {
				a.declareTarget(inner, n.Catch.Param, kindConst, n.Span().Line)
			}
			a.hoistBlock(inner, n.Catch.Body.Stmts)
			for _, st := range n.Catch.Body.Stmts {
				a.visitStmt(inner, st)
			}
		}
		if n.Finally != nil {
			a.visitBlock(sc, n.Finally)
		}
	case *ast.Match:
		a.visitMatch(sc, n)
	case *ast.Break, *ast.Continue:
		// no names
	case *ast.IfSet:
		a.visitExpr(sc, n.Scrutinee)
		inner := newScope(sc)
		if n.Alias != "" {
			inner.declare(n.Alias, kindConst, n.Span().Line)
		}
		a.hoistBlock(inner, n.Then.Stmts)
		for _, st := range n.Then.Stmts {
			a.visitStmt(inner, st)
		}
		if n.Else != nil {
			a.visitBlock(sc, n.Else)
		}
	case *ast.Spawn:
		a.visitExpr(sc, n.X)
	case *ast.Select:
		a.visitSelect(sc, n)
	default:
		// expression-shaped statement types (e.g. bare Match as stmt handled
		// above); nothing else carries bindings.
	}
}

func (a *Analyzer) visitDeclBody(sc *Scope, d ast.Decl) {
	switch n := d.(type) {
	case *ast.InterfaceDecl:
		a.visitClassBody(sc, n.Members)
	case *ast.TraitDecl:
		a.visitClassBody(sc, n.Members)
	case *ast.TypeAlias:
		// type-level only; no value bindings.
	case *ast.EnumDecl:
		for _, m := range n.Members {
			if m.Value != nil {
				a.visitExpr(sc, m.Value)
			}
		}
	case *ast.MacroDecl:
		a.visitFuncLike(sc, n.Params, n.Body, false)
	case *ast.ImmutableDecl:
		a.visitStmt(sc, n.Var)
	}
}

func (a *Analyzer) visitFuncLike(parent *Scope, params []*ast.Param, body *ast.Block, isMethod bool) {
	sc := newScope(parent)
	if isMethod {
		sc.declare("this", kindParam, 0)
	}
	seen := map[string]bool{}
	for _, p := range params {
		if id, ok := p.Target.(*ast.Ident); ok {
			if seen[id.Name] {
				d := a.errorf(p.Span().Line, p.Span().Column, diag.CodeDupParam,
					"duplicate parameter name %q", id.Name)
				a.diags = append(a.diags, d)
			}
			seen[id.Name] = true
		}
		if p.Default != nil {
			a.visitExpr(sc, p.Default)
		}
		a.declareTarget(sc, p.Target, kindParam, p.Span().Line)
	}
	if body != nil {
		a.hoistBlock(sc, body.Stmts)
		for _, st := range body.Stmts {
			a.visitStmt(sc, st)
		}
	}
}

func (a *Analyzer) visitClassBody(parent *Scope, members []ast.ClassMember) {
	for _, m := range members {
		switch mm := m.(type) {
		case *ast.FieldMember:
			if mm.Init != nil {
				fieldSc := newScope(parent)
				fieldSc.declare("this", kindParam, 0)
				a.visitExpr(fieldSc, mm.Init)
			}
		case *ast.MethodMember:
			for _, dec := range mm.Decorators {
				a.visitExpr(parent, dec)
			}
			a.visitFuncLike(parent, mm.Params, mm.Body, true)
		case *ast.AccessorMember:
			a.visitFuncLike(parent, mm.Params, mm.Body, true)
		}
	}
}

func (a *Analyzer) visitMatch(sc *Scope, n *ast.Match) {
	a.visitExpr(sc, n.Subject)
	for _, c := range n.Cases {
		inner := newScope(sc)
		for _, p := range c.Patterns {
			a.declarePattern(inner, p)
		}
		if c.Guard != nil {
			a.visitExpr(inner, c.Guard)
		}
		a.hoistBlock(inner, c.Body.Stmts)
		for _, st := range c.Body.Stmts {
			a.visitStmt(inner, st)
		}
	}
}

// declarePattern binds every capturing name in a match pattern as a
// const within the arm's scope.
func (a *Analyzer) declarePattern(sc *Scope, p ast.MatchPattern) {
	switch pp := p.(type) {
	case *ast.BindingPattern:
		sc.declare(pp.Name, kindConst, pp.Span().Line)
	case *ast.VariantPattern:
		for _, f := range pp.Fields {
			a.declarePattern(sc, f)
		}
	case *ast.MatchArrayPattern:
		for _, it := range pp.Items {
			a.declarePattern(sc, it)
		}
	case *ast.MatchObjectPattern:
		for _, prop := range pp.Props {
			if prop.Pattern != nil {
				a.declarePattern(sc, prop.Pattern)
			} else {
				sc.declare(prop.Key, kindConst, pp.Span().Line)
			}
		}
	case *ast.WildcardPattern, *ast.LiteralPattern, *ast.EnumValPattern:
		// no bindings
	}
}

func (a *Analyzer) visitSelect(sc *Scope, n *ast.Select) {
	for _, c := range n.Cases {
		a.visitExpr(sc, c.Channel)
		inner := newScope(sc)
		if c.Binding != "" {
			inner.declare(c.Binding, kindConst, n.Span().Line)
		}
		a.hoistBlock(inner, c.Body.Stmts)
		for _, st := range c.Body.Stmts {
			a.visitStmt(inner, st)
		}
	}
	if n.Default != nil {
		a.visitBlock(sc, n.Default)
	}
}

// --- expressions ---------------------------------------------------------

func (a *Analyzer) visitExpr(sc *Scope, e ast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Ident:
		a.checkIdent(sc, n)
	case *ast.This, *ast.Super, *ast.NumberLit, *ast.StringLit, *ast.BoolLit,
		*ast.NullLit, *ast.UndefinedLit, *ast.ChannelExpr:
		// never subject to undeclared-check
	case *ast.TemplateLit:
		for _, part := range n.Parts {
			if part.IsExpr && part.Expr != nil {
				a.visitExpr(sc, part.Expr)
			}
		}
	case *ast.SpreadElement:
		a.visitExpr(sc, n.X)
	case *ast.ArrayLit:
		for _, el := range n.Elements {
			a.visitExpr(sc, el)
		}
	case *ast.ObjectLit:
		for _, p := range n.Props {
			if p.Computed != nil {
				a.visitExpr(sc, p.Computed)
			}
			switch p.Kind {
			case ast.PropMethod, ast.PropGetter, ast.PropSetter:
				a.visitFuncLike(sc, p.Params, p.Body, false)
			default:
				if p.Value != nil {
					a.visitExpr(sc, p.Value)
				}
			}
		}
	case *ast.FuncExpr:
		a.visitFuncLike(sc, n.Params, n.Body, false)
	case *ast.ArrowFunc:
		inner := newScope(sc)
		for _, p := range n.Params {
			if p.Default != nil {
				a.visitExpr(inner, p.Default)
			}
			a.declareTarget(inner, p.Target, kindParam, p.Span().Line)
		}
		if n.BlockBody != nil {
			a.hoistBlock(inner, n.BlockBody.Stmts)
			for _, st := range n.BlockBody.Stmts {
				a.visitStmt(inner, st)
			}
		} else if n.ExprBody != nil {
			a.visitExpr(inner, n.ExprBody)
		}
	case *ast.MemberExpr:
		a.visitExpr(sc, n.Object)
		if n.Computed {
			a.visitExpr(sc, n.Index)
		}
	case *ast.CallExpr:
		a.visitCall(sc, n)
	case *ast.NewExpr:
		a.visitExpr(sc, n.Callee)
		for _, arg := range n.Args {
			a.visitExpr(sc, arg)
		}
	case *ast.BindExpr:
		a.visitExpr(sc, n.Object)
	case *ast.UnaryExpr:
		a.visitExpr(sc, n.X)
	case *ast.BinaryExpr:
		a.visitExpr(sc, n.Left)
		a.visitExpr(sc, n.Right)
	case *ast.AsExpr:
		a.visitExpr(sc, n.X)
	case *ast.SatisfiesExpr:
		a.visitExpr(sc, n.X)
	case *ast.AssignExpr:
		a.visitExpr(sc, n.Value)
		a.visitAssignTarget(sc, n.Target)
	case *ast.TernaryExpr:
		a.visitExpr(sc, n.Cond)
		a.visitExpr(sc, n.Then)
		a.visitExpr(sc, n.Else)
	case *ast.AwaitExpr:
		a.visitExpr(sc, n.X)
	case *ast.YieldExpr:
		if n.X != nil {
			a.visitExpr(sc, n.X)
		}
	case *ast.SequenceExpr:
		for _, ex := range n.Exprs {
			a.visitExpr(sc, ex)
		}
	case *ast.HaveExpr:
		a.visitExpr(sc, n.X)
	case *ast.RequireExpr:
		a.visitExpr(sc, n.Path)
	case *ast.DecoratedExpr:
		for _, dec := range n.Decorators {
			a.visitExpr(sc, dec)
		}
		a.visitExpr(sc, n.Inner)
	case *ast.ObjectPattern, *ast.ArrayPattern:
		// patterns reached as expressions only via destructuring assignment
		// targets; handled in visitAssignTarget.
	case *ast.Match:
		a.visitMatch(sc, n)
	}
}

// visitAssignTarget checks a reassignment target without treating it as a
// fresh declaration, and reports CONST_REASSIGN when the target is a
// plain identifier bound as const/val.
func (a *Analyzer) visitAssignTarget(sc *Scope, target ast.Expr) {
	switch t := target.(type) {
	case *ast.Ident:
		if e, ok := sc.resolve(t.Name); ok {
			if e.kind == kindConst {
				d := a.errorf(t.Span().Line, t.Span().Column, diag.CodeConstReassign,
					"cannot reassign %q — declared with val/const on line %d", t.Name, e.line)
				a.diags = append(a.diags, d)
			}
			return
		}
		a.checkIdent(sc, t)
	case *ast.ObjectPattern, *ast.ArrayPattern:
		a.declareTarget(sc, t.(ast.DeclTarget), kindVar, t.Span().Line)
	default:
		a.visitExpr(sc, target)
	}
}

func (a *Analyzer) visitCall(sc *Scope, n *ast.CallExpr) {
	if id, ok := n.Callee.(*ast.Ident); ok {
		if _, found := sc.resolve(id.Name); !found {
			if specialUndeclaredFns[id.Name] {
				a.diags = append(a.diags, a.undefFuncDiag(id))
				for _, arg := range n.Args {
					a.visitExpr(sc, arg)
				}
				return
			}
		}
	}
	a.visitExpr(sc, n.Callee)
	for _, arg := range n.Args {
		a.visitExpr(sc, arg)
	}
}

func (a *Analyzer) checkIdent(sc *Scope, id *ast.Ident) {
	if _, ok := sc.resolve(id.Name); ok {
		return
	}
	sp := id.Span()
	d := a.errorf(sp.Line, sp.Column, diag.CodeUndefVar, "undeclared identifier %q", id.Name)
	candidates := make([]diag.Candidate, 0)
	for name, line := range sc.allNames() {
		candidates = append(candidates, diag.Candidate{Name: name, Line: line})
	}
	d.Similar = diag.FuzzyMatch(id.Name, candidates)
	d = d.WithSuggestion(fmt.Sprintf("declare %q before this use, e.g. `val %s = ...`", id.Name, id.Name))
	d = d.WithSuggestion(fmt.Sprintf("pass %q as a parameter to the enclosing function", id.Name))
	if len(d.Similar) > 0 {
		d = d.WithSuggestion(fmt.Sprintf("did you mean %q?", d.Similar[0].Name))
	} else {
		d = d.WithSuggestion(fmt.Sprintf("check for a typo in %q", id.Name))
	}
	a.diags = append(a.diags, d)
}

// undefFuncDiag builds the curated print/println diagnostic: a bad/good
// example pair pointing at console.log, plus three suggestions (alias,
// logger module, console.log directly).
func (a *Analyzer) undefFuncDiag(id *ast.Ident) diag.Diagnostic {
	sp := id.Span()
	d := a.errorf(sp.Line, sp.Column, diag.CodeUndefFunc,
		"%q is not declared — NTL has no built-in %s function", id.Name, id.Name)
	d = d.WithSuggestion("use `console.log(...)` directly")
	d = d.WithSuggestion(fmt.Sprintf("define an alias: `val %s = console.log`", id.Name))
	d = d.WithSuggestion("require the logger module: `require(ntl, logger)` then call `logger.info(...)`")
	d = d.WithExample(fmt.Sprintf(`%s("Hello")`, id.Name), `console.log("Hello")`)
	return d
}
