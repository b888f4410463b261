package main

import (
	"github.com/ntl-lang/ntlc/internal/repl"
)

// runRepl starts the interactive prompt.
func runRepl(args []string) int {
	return repl.Run()
}
