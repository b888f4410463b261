package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// color codes: red for the error mark/offending span, yellow for
// warnings/labels, cyan for section headings, gray for dim context.
const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
	colorBold   = "\x1b[1m"
	colorReset  = "\x1b[0m"
)

// Formatter renders diagnostics as a block of up to six regions, in this
// order: header with message, location, source excerpt with caret,
// bad/good example, suggestions, similar names.
type Formatter struct {
	w      io.Writer
	color  bool
}

// NewFormatter builds a formatter writing to w. Coloring is enabled
// unless NO_COLOR is set or w is not a terminal (a pipe or redirected
// file never gets ANSI codes).
func NewFormatter(w io.Writer) *Formatter {
	_, noColor := os.LookupEnv("NO_COLOR")
	return &Formatter{w: w, color: !noColor && isTerminal(w)}
}

// isTerminal reports whether w is a character-device file (a TTY). Any
// writer that isn't an *os.File (a bytes.Buffer in tests, a plain
// io.Writer wrapping a network socket) is treated as non-interactive.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func (f *Formatter) paint(code, s string) string {
	if !f.color {
		return s
	}
	return code + s + colorReset
}

// Format renders a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	header := string(d.Severity)
	if d.Code != "" {
		header = fmt.Sprintf("%s[%s]", header, d.Code)
	}
	headerColor := colorRed
	if d.Severity == SeverityWarning {
		headerColor = colorYellow
	}
	fmt.Fprintf(f.w, "%s: %s\n", f.paint(headerColor+colorBold, header), d.Message)

	loc := fmt.Sprintf("  --> %s", d.Span())
	fmt.Fprintln(f.w, f.paint(colorCyan, loc))
	fmt.Fprintln(f.w)

	if len(d.SourceLines) > 0 {
		f.printExcerpt(d)
		fmt.Fprintln(f.w)
	}

	if d.Example != nil {
		fmt.Fprintln(f.w, f.paint(colorGray, "  bad:"), d.Example.Bad)
		fmt.Fprintln(f.w, f.paint(colorGray, " good:"), d.Example.Good)
		fmt.Fprintln(f.w)
	}

	if len(d.Suggestions) > 0 {
		fmt.Fprintln(f.w, f.paint(colorCyan, "suggestions:"))
		for i, s := range d.Suggestions {
			fmt.Fprintf(f.w, "  %d. %s\n", i+1, s)
		}
	}

	if len(d.Similar) > 0 {
		fmt.Fprintln(f.w, f.paint(colorCyan, "did you mean:"))
		for _, s := range d.Similar {
			fmt.Fprintf(f.w, "  - %s %s\n", s.Name, f.paint(colorGray, fmt.Sprintf("(declared line %d)", s.DeclaredLine)))
		}
	}
}

func (f *Formatter) printExcerpt(d Diagnostic) {
	width := len(fmt.Sprintf("%d", d.ExcerptBase+len(d.SourceLines)-1))
	for i, line := range d.SourceLines {
		lineNo := d.ExcerptBase + i
		gutter := fmt.Sprintf("%*d | ", width, lineNo)
		fmt.Fprintf(f.w, "%s%s\n", f.paint(colorGray, gutter), line)
		if lineNo == d.Line {
			pad := strings.Repeat(" ", width+3+clampCol(d.Column-1))
			fmt.Fprintf(f.w, "%s%s\n", pad, f.paint(colorRed, "^"))
		}
	}
}

func clampCol(c int) int {
	if c < 0 {
		return 0
	}
	return c
}

// Excerpt builds the ±2 line source excerpt for a diagnostic given the
// full source text.
func Excerpt(source string, line int) (lines []string, base int) {
	all := strings.Split(source, "\n")
	start := line - 2
	if start < 1 {
		start = 1
	}
	end := line + 2
	if end > len(all) {
		end = len(all)
	}
	for l := start; l <= end; l++ {
		if l-1 >= 0 && l-1 < len(all) {
			lines = append(lines, all[l-1])
		}
	}
	return lines, start
}

// FormatAll renders every diagnostic in order, separated by a blank line.
func FormatAll(w io.Writer, ds []Diagnostic) {
	f := NewFormatter(w)
	for i, d := range ds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f.Format(d)
	}
}
