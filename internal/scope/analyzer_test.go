package scope

import (
	"testing"

	"github.com/ntl-lang/ntlc/internal/diag"
	"github.com/ntl-lang/ntlc/internal/parser"
)

func mustAnalyze(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	f, lerr, perr := parser.ParseFile("test.ntl", src)
	if lerr != nil {
		t.Fatalf("unexpected lex error: %s", lerr.Message)
	}
	if perr != nil {
		t.Fatalf("unexpected parse error: %s", perr.Message)
	}
	return Analyze("test.ntl", f)
}

func TestUndeclaredIdentifier(t *testing.T) {
	ds := mustAnalyze(t, "fn f() { return username }")
	if len(ds) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %+v", len(ds), ds)
	}
	d := ds[0]
	if d.Phase != diag.PhaseScope || d.Code != diag.CodeUndefVar {
		t.Fatalf("expected scope/UNDEF_VAR, got %s/%s", d.Phase, d.Code)
	}
	if len(d.Suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(d.Suggestions))
	}
	if len(d.Similar) != 0 {
		t.Fatalf("expected no similar names, got %+v", d.Similar)
	}
}

func TestPrintRedirect(t *testing.T) {
	ds := mustAnalyze(t, `print("Hello")`)
	if len(ds) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %+v", len(ds), ds)
	}
	d := ds[0]
	if d.Code != diag.CodeUndefFunc {
		t.Fatalf("expected UNDEF_FUNC, got %s", d.Code)
	}
	if d.Example == nil || d.Example.Bad != `print("Hello")` || d.Example.Good != `console.log("Hello")` {
		t.Fatalf("unexpected example: %+v", d.Example)
	}
	if len(d.Suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(d.Suggestions))
	}
}

func TestHoistingFunctionForwardReference(t *testing.T) {
	ds := mustAnalyze(t, `
fn main() {
  f();
}
fn f() {}
`)
	if len(ds) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", ds)
	}
}

func TestValNotHoisted(t *testing.T) {
	ds := mustAnalyze(t, `
fn main() {
  f();
}
val f = fn() {};
`)
	if len(ds) == 0 {
		t.Fatalf("expected an undeclared diagnostic, got none")
	}
}

func TestConstReassignment(t *testing.T) {
	ds := mustAnalyze(t, `
val x = 1;
x = 2;
`)
	found := false
	for _, d := range ds {
		if d.Code == diag.CodeConstReassign {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CONST_REASSIGN diagnostic, got %+v", ds)
	}
}

func TestFuzzySuggestion(t *testing.T) {
	ds := mustAnalyze(t, `
fn f(username: string) {
  return usernam;
}
`)
	if len(ds) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %+v", len(ds), ds)
	}
	if len(ds[0].Similar) == 0 || ds[0].Similar[0].Name != "username" {
		t.Fatalf("expected 'username' as similar name, got %+v", ds[0].Similar)
	}
}

func TestMatchVariantBinding(t *testing.T) {
	ds := mustAnalyze(t, `
type Result = Ok(v) | Err(e)
val r: Result = { _tag: "Ok", _0: 42 }
match r {
  case Ok(x) => console.log(x)
  case Err(m) => console.log(m)
}
`)
	if len(ds) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", ds)
	}
}
