// Package diag implements the compiler's diagnostic engine: structured
// errors with phase, location, source excerpt, fuzzy name suggestions and
// bad/good examples.
package diag

import "fmt"

// Phase identifies which compiler stage produced the diagnostic.
type Phase string

const (
	PhaseLex     Phase = "lex"
	PhaseParse   Phase = "parse"
	PhaseScope   Phase = "scope"
	PhaseType    Phase = "type"
	PhaseCompile Phase = "compile"
	PhaseRuntime Phase = "runtime"
	PhaseResolve Phase = "resolve"
	PhaseMacro   Phase = "macro"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	CodeUndefVar        Code = "UNDEF_VAR"
	CodeUndefFunc       Code = "UNDEF_FUNC"
	CodeConstReassign   Code = "CONST_REASSIGN"
	CodeTypeMismatch    Code = "TYPE_MISMATCH"
	CodeNotFunction     Code = "NOT_FUNCTION"
	CodeNullAccess      Code = "NULL_ACCESS"
	CodeDupParam        Code = "DUP_PARAM"
	CodeUnknownModule   Code = "UNKNOWN_MODULE"
	CodeInternal        Code = "INTERNAL"
)

// Span identifies a location (and optionally a range) in source code.
type Span struct {
	File   string
	Line   int // 1-based
	Column int // 1-based
	Start  int // rune offset, inclusive
	End    int // rune offset, exclusive
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// SimilarName is a fuzzy-matched candidate for an undeclared reference.
type SimilarName struct {
	Name         string
	DeclaredLine int
	Distance     int
}

// Example is a bad/good pair shown under a diagnostic to steer a fix.
type Example struct {
	Bad  string
	Good string
}

// Diagnostic is a single structured compiler complaint.
type Diagnostic struct {
	Phase       Phase
	Severity    Severity
	Message     string
	Code        Code
	File        string
	Line        int
	Column      int
	SourceLines []string // the ±2 line excerpt, already sliced; empty if unavailable
	ExcerptBase int      // line number of SourceLines[0]
	Similar     []SimilarName
	Suggestions []string
	Example     *Example
}

// Span returns the diagnostic's primary location as a Span.
func (d Diagnostic) Span() Span {
	return Span{File: d.File, Line: d.Line, Column: d.Column}
}

// WithSuggestion appends a suggestion line.
func (d Diagnostic) WithSuggestion(s string) Diagnostic {
	d.Suggestions = append(d.Suggestions, s)
	return d
}

// WithSimilar appends a fuzzy-matched candidate name.
func (d Diagnostic) WithSimilar(n SimilarName) Diagnostic {
	d.Similar = append(d.Similar, n)
	return d
}

// WithExample attaches a bad/good example pair.
func (d Diagnostic) WithExample(bad, good string) Diagnostic {
	d.Example = &Example{Bad: bad, Good: good}
	return d
}

// IsError reports whether the diagnostic should abort the pipeline.
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// New constructs a bare diagnostic at the given phase/location.
func New(phase Phase, sev Severity, code Code, line, column int, message string) Diagnostic {
	return Diagnostic{
		Phase:    phase,
		Severity: sev,
		Code:     code,
		Line:     line,
		Column:   column,
		Message:  message,
	}
}

// HasErrors reports whether any diagnostic in the slice is an error.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Errors filters a slice down to error-severity diagnostics.
func Errors(ds []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds {
		if d.IsError() {
			out = append(out, d)
		}
	}
	return out
}

// Warnings filters a slice down to warning-severity diagnostics.
func Warnings(ds []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds {
		if !d.IsError() {
			out = append(out, d)
		}
	}
	return out
}
