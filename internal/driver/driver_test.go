package driver_test

import (
	"os"
	"strings"
	"testing"

	"github.com/ntl-lang/ntlc/internal/driver"
)

func TestCompileSourceSuccess(t *testing.T) {
	res := driver.CompileSource("test.ntl", `val x: number = 42;`, driver.Options{})
	if !res.Success {
		t.Fatalf("expected success, got errors: %v", res.Errors)
	}
	if !strings.Contains(res.Code, "const x = 42;") {
		t.Errorf("expected const x = 42;, got:\n%s", res.Code)
	}
	if res.Stats.SourceChars == 0 || res.Stats.OutputChars == 0 {
		t.Errorf("expected non-zero stats, got %+v", res.Stats)
	}
}

func TestCompileSourceScopeFailure(t *testing.T) {
	res := driver.CompileSource("test.ntl", `fn f() { return username; }`, driver.Options{})
	if res.Success {
		t.Fatalf("expected failure for undeclared identifier")
	}
	if len(res.Errors) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
}

func TestCompileSourceStrictModeMismatch(t *testing.T) {
	res := driver.CompileSource("test.ntl", `val x: number = "hi";`, driver.Options{Strict: true})
	if res.Success {
		t.Fatalf("expected a strict-mode type mismatch to fail compilation")
	}
}

func TestCompileSourceUnknownModule(t *testing.T) {
	res := driver.CompileSource("test.ntl", `require(ntl, bogus);`, driver.Options{})
	if res.Success {
		t.Fatalf("expected an unknown built-in module to fail the resolve phase")
	}
	found := false
	for _, e := range res.Errors {
		if e.Code == "UNKNOWN_MODULE" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an UNKNOWN_MODULE diagnostic, got: %v", res.Errors)
	}
}

func TestCompileSourceMinify(t *testing.T) {
	res := driver.CompileSource("test.ntl", "val x: number = 1;\n\n\nval y: number = 2;", driver.Options{Minify: true})
	if !res.Success {
		t.Fatalf("expected success, got: %v", res.Errors)
	}
	if strings.Contains(res.Code, "\n\n") {
		t.Errorf("expected minify to strip blank lines, got:\n%q", res.Code)
	}
}

func TestCompileFileCaches(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/a.ntl"
	if err := os.WriteFile(path, []byte(`val x: number = 1;`), 0o644); err != nil {
		t.Fatal(err)
	}
	d := driver.New()
	res1, err := d.CompileFile(path, driver.Options{})
	if err != nil || !res1.Success {
		t.Fatalf("unexpected first compile failure: %v %v", err, res1.Errors)
	}
	res2, err := d.CompileFile(path, driver.Options{})
	if err != nil || !res2.Success {
		t.Fatalf("unexpected cached compile failure: %v %v", err, res2.Errors)
	}
	if res1.Code != res2.Code {
		t.Errorf("expected cached compile to return identical code")
	}
}
