package parser

import (
	"testing"

	"github.com/ntl-lang/ntlc/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, lerr, perr := ParseFile("test.ntl", src)
	if lerr != nil {
		t.Fatalf("unexpected lex error: %s", lerr.Message)
	}
	if perr != nil {
		t.Fatalf("unexpected parse error: %s", perr.Message)
	}
	if f == nil {
		t.Fatalf("ParseFile returned a nil file with no diagnostic")
	}
	return f
}

func TestParseVarDecl(t *testing.T) {
	f := mustParse(t, `val x: number = 42;`)
	if len(f.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(f.Decls))
	}
	v, ok := f.Decls[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", f.Decls[0])
	}
	if !v.Const {
		t.Errorf("expected val to be Const")
	}
	id, ok := v.Target.(*ast.Ident)
	if !ok || id.Name != "x" {
		t.Errorf("expected target ident 'x', got %#v", v.Target)
	}
}

func TestParseFnDeclAndReturn(t *testing.T) {
	f := mustParse(t, `
fn add(a: number, b: number): number {
  return a + b;
}
`)
	fn, ok := f.Decls[0].(*ast.FnDecl)
	if !ok {
		t.Fatalf("expected *ast.FnDecl, got %T", f.Decls[0])
	}
	if fn.Name.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected fn shape: %+v", fn)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 stmt in body, got %d", len(fn.Body.Stmts))
	}
	ret, ok := fn.Body.Stmts[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected *ast.Return, got %T", fn.Body.Stmts[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected binary '+' expr, got %#v", ret.Value)
	}
}

func TestParseIfElifElse(t *testing.T) {
	f := mustParse(t, `
fn classify(n: number) {
  if (n < 0) {
    return "neg";
  } elif (n == 0) {
    return "zero";
  } else {
    return "pos";
  }
}
`)
	fn := f.Decls[0].(*ast.FnDecl)
	ifStmt, ok := fn.Body.Stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", fn.Body.Stmts[0])
	}
	elifStmt, ok := ifStmt.Else.(*ast.If)
	if !ok {
		t.Fatalf("expected elif to lower to a nested *ast.If, got %T", ifStmt.Else)
	}
	if _, ok := elifStmt.Else.(*ast.Block); !ok {
		t.Fatalf("expected final else branch to be a block, got %T", elifStmt.Else)
	}
}

func TestParseArrowFunction(t *testing.T) {
	f := mustParse(t, `val double = (x) => x * 2;`)
	v := f.Decls[0].(*ast.VarDecl)
	arrow, ok := v.Init.(*ast.ArrowFunc)
	if !ok {
		t.Fatalf("expected *ast.ArrowFunc, got %T", v.Init)
	}
	if len(arrow.Params) != 1 || arrow.ExprBody == nil {
		t.Fatalf("unexpected arrow shape: %+v", arrow)
	}
}

func TestParseMatchExpression(t *testing.T) {
	f := mustParse(t, `
fn describe(x) {
  match x {
    case 0 => "zero",
    case n when n > 0 => "positive",
    default => "other",
  }
}
`)
	fn := f.Decls[0].(*ast.FnDecl)
	exprStmt, ok := fn.Body.Stmts[0].(*ast.Match)
	if !ok {
		t.Fatalf("expected *ast.Match, got %T", fn.Body.Stmts[0])
	}
	if len(exprStmt.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(exprStmt.Cases))
	}
	if !exprStmt.Cases[2].IsDefault {
		t.Errorf("expected last case to be default")
	}
	if exprStmt.Cases[1].Guard == nil {
		t.Errorf("expected a when-guard on the second case")
	}
}

func TestParseAlgebraicTypeAlias(t *testing.T) {
	f := mustParse(t, `type Result = Ok(value) | Err(message);`)
	alias, ok := f.Decls[0].(*ast.TypeAlias)
	if !ok {
		t.Fatalf("expected *ast.TypeAlias, got %T", f.Decls[0])
	}
	if len(alias.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(alias.Variants))
	}
	if alias.Variants[0].Name != "Ok" || alias.Variants[1].Name != "Err" {
		t.Fatalf("unexpected variant names: %+v", alias.Variants)
	}
}

func TestParseClassWithInitAndMethod(t *testing.T) {
	f := mustParse(t, `
class Point {
  x: number;
  y: number;

  init(x: number, y: number) {
    this.x = x;
    this.y = y;
  }

  length(): number {
    return this.x;
  }
}
`)
	cls, ok := f.Decls[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", f.Decls[0])
	}
	var sawInit, sawMethod bool
	for _, m := range cls.Members {
		switch mm := m.(type) {
		case *ast.MethodMember:
			if mm.IsInit {
				sawInit = true
			} else {
				sawMethod = true
			}
		}
	}
	if !sawInit || !sawMethod {
		t.Fatalf("expected both an init and a regular method, members=%+v", cls.Members)
	}
}

func TestParseTemplateLiteralInterpolation(t *testing.T) {
	f := mustParse(t, "val greeting = `hello ${name}!`;")
	v := f.Decls[0].(*ast.VarDecl)
	tmpl, ok := v.Init.(*ast.TemplateLit)
	if !ok {
		t.Fatalf("expected *ast.TemplateLit, got %T", v.Init)
	}
	var sawExpr bool
	for _, part := range tmpl.Parts {
		if part.IsExpr {
			sawExpr = true
			if _, ok := part.Expr.(*ast.Ident); !ok {
				t.Errorf("expected embedded expr to be an ident, got %T", part.Expr)
			}
		}
	}
	if !sawExpr {
		t.Errorf("expected at least one interpolated part")
	}
}

func TestParseForOfAndDestructuring(t *testing.T) {
	f := mustParse(t, `
fn sum(pairs) {
  var total = 0;
  for ([a, b] of pairs) {
    total = total + a + b;
  }
  return total;
}
`)
	fn := f.Decls[0].(*ast.FnDecl)
	var forOf *ast.ForOf
	for _, s := range fn.Body.Stmts {
		if fo, ok := s.(*ast.ForOf); ok {
			forOf = fo
		}
	}
	if forOf == nil {
		t.Fatalf("expected a for-of statement in body")
	}
	if _, ok := forOf.Target.(*ast.ArrayPattern); !ok {
		t.Fatalf("expected array-pattern target, got %T", forOf.Target)
	}
}

func TestParseAbortsOnUnexpectedToken(t *testing.T) {
	_, lerr, perr := ParseFile("bad.ntl", `val x = ;`)
	if lerr != nil {
		t.Fatalf("unexpected lex error: %s", lerr.Message)
	}
	if perr == nil {
		t.Fatalf("expected a parse error for a missing initializer expression")
	}
}

func TestParseNTLRequire(t *testing.T) {
	f := mustParse(t, `require(ntl, http, fs);`)
	req, ok := f.Decls[0].(*ast.NTLRequire)
	if !ok {
		t.Fatalf("expected *ast.NTLRequire, got %T", f.Decls[0])
	}
	if len(req.Names) != 2 || req.Names[0].Name != "http" || req.Names[1].Name != "fs" {
		t.Fatalf("unexpected require names: %+v", req.Names)
	}
}

func TestParsePlainRequireExprStatement(t *testing.T) {
	f := mustParse(t, `require("./util");`)
	stmt, ok := f.Decls[0].(*ast.TopLevelStmt)
	if !ok {
		t.Fatalf("expected wrapped top-level statement, got %T", f.Decls[0])
	}
	exprStmt, ok := stmt.Inner.(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", stmt.Inner)
	}
	if _, ok := exprStmt.X.(*ast.RequireExpr); !ok {
		t.Fatalf("expected *ast.RequireExpr, got %T", exprStmt.X)
	}
}
