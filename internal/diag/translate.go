package diag

import (
	"regexp"
	"strings"
)

// hostPattern matches a class of host-JavaScript-engine error messages
// and rewrites them into an NTL-shaped runtime diagnostic. Translation
// only — the engine never throws on its own.
type hostPattern struct {
	match   *regexp.Regexp
	code    Code
	rewrite func(m []string) string
}

var hostPatterns = []hostPattern{
	{
		match: regexp.MustCompile(`Cannot read propert(?:y|ies) '?([A-Za-z0-9_$]+)'? of (undefined|null)`),
		code:  CodeNullAccess,
		rewrite: func(m []string) string {
			return "Cannot access property '" + m[1] + "' — value is null or undefined"
		},
	},
	{
		match: regexp.MustCompile(`([A-Za-z0-9_$.\[\]]+) is not a function`),
		code:  CodeNotFunction,
		rewrite: func(m []string) string {
			return "'" + m[1] + "' is not a function — check the name and that it was declared before this call"
		},
	},
	{
		match: regexp.MustCompile(`([A-Za-z0-9_$]+) is not defined`),
		code:  CodeUndefVar,
		rewrite: func(m []string) string {
			return "'" + m[1] + "' is not defined in this scope"
		},
	},
	{
		match: regexp.MustCompile(`Maximum call stack size exceeded`),
		code:  CodeInternal,
		rewrite: func(m []string) string {
			return "stack overflow — likely unbounded recursion"
		},
	},
	{
		match: regexp.MustCompile(`Assignment to constant variable`),
		code:  CodeConstReassign,
		rewrite: func(m []string) string {
			return "cannot reassign a 'val' binding — it was declared const"
		},
	},
	{
		match: regexp.MustCompile(`(?:has already been declared|Identifier '([A-Za-z0-9_$]+)' has already been declared)`),
		code:  CodeInternal,
		rewrite: func(m []string) string {
			if len(m) > 1 && m[1] != "" {
				return "'" + m[1] + "' is already declared in this scope"
			}
			return "duplicate declaration in this scope"
		},
	},
}

// TranslateHostError rewrites a raw error string surfaced by the host
// JavaScript engine into an NTL runtime diagnostic. If no pattern matches,
// the original message is kept verbatim so nothing is ever silently
// dropped.
func TranslateHostError(raw string) Diagnostic {
	trimmed := strings.TrimSpace(raw)
	for _, p := range hostPatterns {
		if m := p.match.FindStringSubmatch(trimmed); m != nil {
			return Diagnostic{
				Phase:    PhaseRuntime,
				Severity: SeverityError,
				Code:     p.code,
				Message:  p.rewrite(m),
			}
		}
	}
	return Diagnostic{
		Phase:    PhaseRuntime,
		Severity: SeverityError,
		Code:     CodeInternal,
		Message:  trimmed,
	}
}
