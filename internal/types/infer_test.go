package types

import (
	"testing"

	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/diag"
	"github.com/ntl-lang/ntlc/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, lerr, perr := parser.ParseFile("test.ntl", src)
	if lerr != nil {
		t.Fatalf("unexpected lex error: %s", lerr.Message)
	}
	if perr != nil {
		t.Fatalf("unexpected parse error: %s", perr.Message)
	}
	return f
}

func firstVarDeclType(t *testing.T, src string, strict bool) (Type, []diag.Diagnostic) {
	t.Helper()
	f := mustParse(t, src)
	in := &Inferer{strict: strict, classes: map[string]*Class{}}
	env := builtinEnv()
	decl := f.Decls[0].(*ast.VarDecl)
	in.inferVarDecl(env, decl)
	got, _ := env.LookupValue(identName(decl.Target))
	return got, in.diags
}

func identName(t ast.DeclTarget) string {
	if id, ok := t.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func TestNumberLiteralPropagation(t *testing.T) {
	got, _ := firstVarDeclType(t, `val x = 42`, false)
	if got.String() != "number" {
		t.Fatalf("expected number, got %s", got.String())
	}
}

func TestStringLiteralPropagation(t *testing.T) {
	got, _ := firstVarDeclType(t, `val s = "a"`, false)
	if got.String() != "string" {
		t.Fatalf("expected string, got %s", got.String())
	}
}

func TestArrayUnionPropagation(t *testing.T) {
	got, _ := firstVarDeclType(t, `val a = [1, "b"]`, false)
	arr, ok := got.(Array)
	if !ok {
		t.Fatalf("expected Array, got %T (%s)", got, got.String())
	}
	if arr.Elem.String() != "number | string" {
		t.Fatalf("expected number | string, got %s", arr.Elem.String())
	}
}

func TestStrictModeMismatch(t *testing.T) {
	_, ds := firstVarDeclType(t, `val x: number = "hi"`, true)
	found := false
	for _, d := range ds {
		if d.Code == diag.CodeTypeMismatch && d.Severity == diag.SeverityError {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected TYPE_MISMATCH error, got %+v", ds)
	}
}

func TestStrictModeAnyAllowed(t *testing.T) {
	_, ds := firstVarDeclType(t, `val x: any = "hi"`, true)
	for _, d := range ds {
		if d.Code == diag.CodeTypeMismatch {
			t.Fatalf("did not expect TYPE_MISMATCH for `any`, got %+v", ds)
		}
	}
}
