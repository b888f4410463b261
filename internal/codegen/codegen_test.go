package codegen_test

import (
	"strings"
	"testing"

	"github.com/ntl-lang/ntlc/internal/codegen"
	"github.com/ntl-lang/ntlc/internal/parser"
)

func mustGen(t *testing.T, src string) string {
	t.Helper()
	f, lerr, perr := parser.ParseFile("test.ntl", src)
	if lerr != nil {
		t.Fatalf("unexpected lex error: %s", lerr.Message)
	}
	if perr != nil {
		t.Fatalf("unexpected parse error: %s", perr.Message)
	}
	return codegen.Generate(f)
}

func TestHelloWorldShape(t *testing.T) {
	out := mustGen(t, "val name: string = \"World\";\n"+
		"fn greet(n: string) -> string { return `Hello, ${n}!` }\n"+
		"console.log(greet(name));")
	if !strings.Contains(out, `const name = "World";`) {
		t.Errorf("expected const name = \"World\";, got:\n%s", out)
	}
	if !strings.Contains(out, "function greet(n)") {
		t.Errorf("expected a plain function declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "console.log(greet(name));") {
		t.Errorf("expected the call expression preserved, got:\n%s", out)
	}
}

func TestMatchOnVariantShape(t *testing.T) {
	out := mustGen(t, `type Result = Ok(v) | Err(e);
val r = { _tag: "Ok", _0: 42 };
match (r) {
  case Ok(x) => console.log(x);
  case Err(m) => console.log(m);
}`)
	if !strings.Contains(out, `_tag === "Ok"`) || !strings.Contains(out, `_tag === "Err"`) {
		t.Errorf("expected _tag discriminant checks for both variants, got:\n%s", out)
	}
	if !strings.Contains(out, "const x = ") {
		t.Errorf("expected variant field x to be bound from _0, got:\n%s", out)
	}
}

func TestImmutableFreezeShape(t *testing.T) {
	out := mustGen(t, `immutable val config = { port: 8080 };`)
	if !strings.Contains(out, "const config") {
		t.Errorf("expected val to lower to const, got:\n%s", out)
	}
	if !strings.Contains(out, "Object.freeze(config);") {
		t.Errorf("expected the declaration to be followed by Object.freeze(config), got:\n%s", out)
	}
}

func TestPipelineShape(t *testing.T) {
	out := mustGen(t, `val r = [1,2,3] |> (xs => xs.map(x => x*2)) |> (xs => xs.join(","));`)
	if !strings.Contains(out, ")(") {
		t.Errorf("expected pipeline to lower to a nested (right)(left) application, got:\n%s", out)
	}
	if strings.Index(out, "join") > -1 && strings.Index(out, "map") > -1 &&
		strings.Index(out, "join") > strings.Index(out, "map") {
		t.Errorf("expected the outer (rightmost) pipeline stage to wrap the inner one, got:\n%s", out)
	}
}

func TestOptionalChainShape(t *testing.T) {
	out := mustGen(t, `val x = a?.b?.c;`)
	if !strings.Contains(out, "?.") {
		t.Errorf("expected optional chain operators preserved, got:\n%s", out)
	}
}

func TestDecoratorReverseOrderShape(t *testing.T) {
	out := mustGen(t, `@logged
@cached
fn compute() {}`)
	idxCached := strings.Index(out, "cached(")
	idxLogged := strings.Index(out, "logged(")
	if idxCached == -1 || idxLogged == -1 {
		t.Fatalf("expected both decorators applied, got:\n%s", out)
	}
	if idxCached > idxLogged {
		t.Errorf("expected cached applied before logged (reverse declaration order), got:\n%s", out)
	}
}
