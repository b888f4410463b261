package lexer

import "testing"

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := New(src, "test.ntl").Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %s", err.Message)
	}
	return toks
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestIdentifierAndKeyword(t *testing.T) {
	toks := tokenize(t, "val username")
	if toks[0].Kind != KindKeyword || toks[0].Text != "val" {
		t.Fatalf("expected keyword 'val', got %+v", toks[0])
	}
	if toks[1].Kind != KindIdent || toks[1].Text != "username" {
		t.Fatalf("expected ident 'username', got %+v", toks[1])
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := map[string]string{
		"0xFF":    "0xFF",
		"0b101":   "0b101",
		"0o17":    "0o17",
		"3.14":    "3.14",
		"1e9":     "1e9",
		"1_000":   "1000",
		"42n":     "42",
	}
	for src, want := range cases {
		toks := tokenize(t, src)
		if toks[0].Kind != KindNumber || toks[0].Text != want {
			t.Fatalf("src %q: got %+v, want text %q", src, toks[0], want)
		}
	}
	toks := tokenize(t, "42n")
	if !toks[0].BigInt {
		t.Fatalf("expected bigint marker on 42n")
	}
}

func TestOperatorGreedyMatch(t *testing.T) {
	toks := tokenize(t, "a >>> b")
	var ops []string
	for _, tok := range toks {
		if tok.Kind == KindOperator {
			ops = append(ops, tok.Text)
		}
	}
	if len(ops) != 1 || ops[0] != ">>>" {
		t.Fatalf("expected single >>> operator, got %v", ops)
	}
}

func TestDoubleQuotedInterpolation(t *testing.T) {
	toks := tokenize(t, `"Hello, {name}!"`)
	if toks[0].Kind != KindTemplate {
		t.Fatalf("expected TEMPLATE kind, got %s", toks[0].Kind)
	}
	if len(toks[0].Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %+v", len(toks[0].Parts), toks[0].Parts)
	}
	if toks[0].Parts[0].Text != "Hello, " || !toks[0].Parts[1].IsExpr || toks[0].Parts[1].Source != "name" {
		t.Fatalf("unexpected parts: %+v", toks[0].Parts)
	}
}

func TestDoubleQuotedWithoutInterpolationStaysString(t *testing.T) {
	toks := tokenize(t, `"plain text"`)
	if toks[0].Kind != KindString || toks[0].Value != "plain text" {
		t.Fatalf("expected plain STRING, got %+v", toks[0])
	}
}

func TestSingleQuotedNeverInterpolates(t *testing.T) {
	toks := tokenize(t, `'{not interpolated}'`)
	if toks[0].Kind != KindString || toks[0].Value != "{not interpolated}" {
		t.Fatalf("expected literal braces preserved, got %+v", toks[0])
	}
}

func TestBacktickTemplate(t *testing.T) {
	toks := tokenize(t, "`Hello, ${n}!`")
	if toks[0].Kind != KindTemplate || len(toks[0].Parts) != 3 {
		t.Fatalf("expected 3-part template, got %+v", toks[0])
	}
}

func TestUnterminatedStringAborts(t *testing.T) {
	_, err := New(`"unterminated`, "test.ntl").Tokenize()
	if err == nil {
		t.Fatal("expected a lex error")
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := tokenize(t, "val x // trailing\n# hash comment\n/* block */ val y")
	got := kinds(toks)
	want := []Kind{KindKeyword, KindIdent, KindKeyword, KindIdent, KindEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEOFSentinelAlwaysLast(t *testing.T) {
	toks := tokenize(t, "")
	if len(toks) != 1 || toks[0].Kind != KindEOF {
		t.Fatalf("expected single EOF token, got %+v", toks)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	src := "val x = 1 + 2"
	first := tokenize(t, src)
	var rebuilt string
	for _, tok := range first {
		if tok.Kind == KindEOF {
			break
		}
		if rebuilt != "" {
			rebuilt += " "
		}
		rebuilt += tok.Text
	}
	second := tokenize(t, rebuilt)
	if len(first) != len(second) {
		t.Fatalf("round-trip token count mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind || first[i].Value != second[i].Value {
			t.Fatalf("round-trip mismatch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
