package lexer

// Kind classifies a Token from the closed token-kind set.
type Kind string

const (
	KindKeyword     Kind = "KEYWORD"
	KindIdent       Kind = "IDENT"
	KindNumber      Kind = "NUMBER"
	KindString      Kind = "STRING"
	KindTemplate    Kind = "TEMPLATE" // backtick template, or a double-quoted string with {…} interpolation
	KindOperator    Kind = "OPERATOR"
	KindPunctuation Kind = "PUNCTUATION"
	KindEOF         Kind = "EOF"
)

// Span is a source location: line/column for display, start/end rune
// offsets for slicing the original source (used to re-lex embedded
// template expressions on demand).
type Span struct {
	File   string
	Line   int
	Column int
	Start  int
	End    int
}

// TemplatePart is one chunk of a TEMPLATE token's Value: either a literal
// string chunk or a raw source span to be re-tokenized/re-parsed by the
// parser. Parts alternate between literal and expression, but either kind
// may appear first or last.
type TemplatePart struct {
	IsExpr bool
	Text   string // literal text when !IsExpr
	Source string // raw expression source when IsExpr
	Span   Span   // location of this part, for re-parsing diagnostics
}

// Token is a single lexical token.
type Token struct {
	Kind    Kind
	Text    string // token text; numbers and strings carry the normalized/decoded form, not the raw source
	Value   string // decoded value: unescaped string contents, normalized number text
	BigInt  bool   // true when a numeric literal carried a trailing `n`
	Parts   []TemplatePart // populated when Kind == KindTemplate
	Span    Span
}

// keywords is the closed reserved-word set from the GLOSSARY.
var keywords = map[string]bool{
	"var": true, "val": true, "let": true, "const": true, "fn": true, "async": true,
	"await": true, "if": true, "else": true, "unless": true, "elif": true, "while": true,
	"for": true, "loop": true, "in": true, "of": true, "break": true, "continue": true,
	"return": true, "raise": true, "throw": true, "class": true, "extends": true, "new": true,
	"this": true, "super": true, "abstract": true, "override": true, "interface": true,
	"implements": true, "trait": true, "try": true, "catch": true, "finally": true,
	"match": true, "case": true, "default": true, "when": true, "import": true, "export": true,
	"from": true, "as": true, "true": true, "false": true, "null": true, "void": true,
	"undefined": true, "typeof": true, "instanceof": true, "keyof": true, "infer": true,
	"ifset": true, "have": true, "enum": true, "type": true, "alias": true, "require": true,
	"ntl": true, "static": true, "get": true, "set": true, "readonly": true, "private": true,
	"public": true, "protected": true, "do": true, "yield": true, "spawn": true, "select": true,
	"channel": true, "macro": true, "immutable": true, "freeze": true, "with": true,
	"using": true, "namespace": true, "module": true, "satisfies": true, "assert": true,
}

// IsKeyword reports whether name is one of NTL's reserved words.
func IsKeyword(name string) bool { return keywords[name] }

// operatorTable lists NTL's multi-character operators, followed by the
// single-character set. The lexer matches greedily by trying the longest
// candidate first regardless of this array's order (the order below is
// not itself length-sorted — e.g. the three-character "..." follows
// two-character operators such as "?." — so matching is done by explicit
// length rather than array position).
var operatorTable = []string{
	"===", "!==", "<<=", ">>=", "**=", "&&=", "||=", "??=",
	"==", "!=", "<=", ">=", "&&", "||", "??", "|>", "=>", "->",
	"++", "--", "+=", "-=", "*=", "/=", "%=", "**", "<<", ">>>", ">>",
	"?.", "...", "::", "@",
	"=", "+", "-", "*", "/", "%", "<", ">", "!", "~", "&", "|", "^", "?", ":",
}

// punctuation is the fixed single-character punctuation set.
var punctuation = map[rune]bool{
	'{': true, '}': true, '(': true, ')': true, '[': true, ']': true,
	',': true, '.': true, ';': true,
}
