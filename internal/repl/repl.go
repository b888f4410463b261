// Package repl implements the `ntl repl` interactive prompt: multi-line
// bracket-balanced input, compiled chunk by chunk and run in a
// persistent Node host process.
//
// The read loop keeps reading lines into a buffer until the buffer looks
// complete, using the liner prompt/continuation-prompt pair, probing
// completeness with a bracket-balance count over the token stream, since
// NTL statements need no terminator and indentation is not significant.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/ntl-lang/ntlc/internal/driver"
	"github.com/ntl-lang/ntlc/internal/lexer"
)

const (
	promptMain = "ntl> "
	promptCont = "...> "
	historyFile = ".ntl_history"
)

const helpText = `REPL commands:
  :help            show this text
  :reset           restart the host process and scope
  :load <file>     compile and run a file in this session
  :quit, :exit     leave the REPL
`

// Run starts the interactive loop. It blocks until the user exits.
func Run() int {
	fmt.Println("ntl repl — Ctrl+D to exit, :help for commands")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	host, err := newHost()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ntl repl: starting host process: %v\n", err)
		return 1
	}
	defer host.close()

	d := driver.New()
	chunk := 0

	for {
		code, ok := readByBalanceProbe(ln)
		if !ok {
			fmt.Println()
			break
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			if handleCommand(trimmed, ln, &host, d) {
				break
			}
			continue
		}

		chunk++
		file := fmt.Sprintf("<repl:%d>", chunk)
		res := driver.CompileSource(file, code, driver.Options{Target: "node"})
		if !res.Success {
			for _, e := range res.Errors {
				fmt.Println(e.Message)
			}
			continue
		}
		out, err := host.eval(res.Code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		} else if out != "" {
			fmt.Println(out)
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

func handleCommand(line string, ln *liner.State, host *replHost, d *driver.Driver) (exit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":help":
		fmt.Print(helpText)
	case ":quit", ":exit":
		return true
	case ":reset":
		host.close()
		h, err := newHost()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ntl repl: restarting host: %v\n", err)
			return false
		}
		*host = h
		fmt.Println("host process restarted.")
	case ":load":
		if len(fields) < 2 {
			fmt.Println("usage: :load <file>")
			return false
		}
		res, err := d.CompileFile(fields[1], driver.Options{Target: "node"})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return false
		}
		if !res.Success {
			for _, e := range res.Errors {
				fmt.Println(e.Message)
			}
			return false
		}
		if out, err := host.eval(res.Code); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		} else if out != "" {
			fmt.Println(out)
		}
	default:
		fmt.Println("unknown command. Type :help for help.")
	}
	return false
}

// readByBalanceProbe reads one or more lines until braces/brackets/
// parens are balanced and the buffer is non-empty, mirroring
// readByParseProbe's loop shape but probing with a lexer token scan
// instead of a full parse.
func readByBalanceProbe(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == "" {
			return src, true
		}
		if balance(src) <= 0 {
			return src, true
		}
	}
}

var openers = map[string]int{"{": 1, "[": 1, "(": 1}
var closers = map[string]int{"}": -1, "]": -1, ")": -1}

// balance returns the net count of open brackets/braces/parens across
// src's token stream. An unterminated lex (unclosed string/template,
// trailing unexpected char) is treated as "still open" so the probe
// keeps reading another line rather than handing the parser a
// guaranteed-broken chunk.
func balance(src string) int {
	l := lexer.New(src, "<repl-probe>")
	toks, lexErr := l.Tokenize()
	depth := 0
	for _, tok := range toks {
		if tok.Kind != lexer.KindPunctuation {
			continue
		}
		depth += openers[tok.Text]
		depth += closers[tok.Text]
	}
	if lexErr != nil {
		depth++
	}
	return depth
}

// replHost is a persistent `node` subprocess whose stdin receives each
// compiled chunk and whose stdout is drained for the chunk's printed
// output, giving the REPL a single evolving global scope across chunks.
type replHost struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

const sentinel = "\x00__ntl_repl_done__\x00"

func newHost() (replHost, error) {
	cmd := exec.Command("node", "--interactive", "--experimental-repl-await")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return replHost{}, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return replHost{}, err
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return replHost{}, err
	}
	return replHost{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

func (h *replHost) eval(code string) (string, error) {
	if h.stdin == nil {
		return "", fmt.Errorf("repl host is not running")
	}
	if _, err := io.WriteString(h.stdin, code+"\n"); err != nil {
		return "", err
	}
	_, _ = fmt.Fprintf(h.stdin, "console.log(%q);\n", sentinel)
	var out strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := h.stdout.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			if idx := strings.Index(chunk, sentinel); idx >= 0 {
				out.WriteString(chunk[:idx])
				break
			}
			out.WriteString(chunk)
		}
		if err != nil {
			break
		}
	}
	return strings.TrimSpace(out.String()), nil
}

func (h *replHost) close() {
	if h.stdin != nil {
		_ = h.stdin.Close()
	}
	if h.cmd != nil && h.cmd.Process != nil {
		_ = h.cmd.Process.Kill()
		_ = h.cmd.Wait()
	}
}
