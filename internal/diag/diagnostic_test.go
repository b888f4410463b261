package diag

import (
	"bytes"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"username", "usernme", 1},
		{"kitten", "sitting", 3},
	}
	for _, c := range cases {
		if got := Levenshtein(c.a, c.b); got != c.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestFuzzyMatchSingleCandidate(t *testing.T) {
	candidates := []Candidate{{Name: "username", Line: 3}, {Name: "completelyUnrelatedLongName", Line: 9}}
	got := FuzzyMatch("usrname", candidates)
	if len(got) != 1 || got[0].Name != "username" {
		t.Fatalf("expected exactly [username], got %v", got)
	}
}

func TestFuzzyMatchCapsAtThree(t *testing.T) {
	candidates := []Candidate{
		{Name: "cat", Line: 1}, {Name: "cats", Line: 2}, {Name: "cata", Line: 3}, {Name: "catb", Line: 4},
	}
	got := FuzzyMatch("cat2", candidates)
	if len(got) > 3 {
		t.Fatalf("expected at most 3 results, got %d", len(got))
	}
}

func TestHasErrors(t *testing.T) {
	ds := []Diagnostic{
		{Severity: SeverityWarning},
		{Severity: SeverityError},
	}
	if !HasErrors(ds) {
		t.Fatal("expected HasErrors to be true")
	}
	if len(Errors(ds)) != 1 || len(Warnings(ds)) != 1 {
		t.Fatal("expected one error and one warning")
	}
}

func TestTranslateHostErrorNullAccess(t *testing.T) {
	d := TranslateHostError("Cannot read property 'x' of undefined")
	if d.Code != CodeNullAccess {
		t.Fatalf("expected CodeNullAccess, got %s", d.Code)
	}
}

func TestTranslateHostErrorNotAFunction(t *testing.T) {
	d := TranslateHostError("foo is not a function")
	if d.Code != CodeNotFunction {
		t.Fatalf("expected CodeNotFunction, got %s", d.Code)
	}
}

func TestFormatterWritesHeaderAndMessage(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)
	f.Format(Diagnostic{
		Phase: PhaseScope, Severity: SeverityError, Code: CodeUndefVar,
		Message: "undeclared identifier 'username'", Line: 2, Column: 15, File: "main.ntl",
	})
	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("UNDEF_VAR")) {
		t.Fatalf("expected code in output, got %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("main.ntl:2:15")) {
		t.Fatalf("expected location in output, got %q", out)
	}
}

func TestExcerptClampsToFileBounds(t *testing.T) {
	src := "a\nb\nc"
	lines, base := Excerpt(src, 1)
	if base != 1 || len(lines) != 3 {
		t.Fatalf("expected base=1 len=3, got base=%d len=%d", base, len(lines))
	}
}
