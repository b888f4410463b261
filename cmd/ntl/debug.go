package main

import (
	"fmt"

	"github.com/sanity-io/litter"

	"github.com/ntl-lang/ntlc/internal/lexer"
)

// dumpTokens lexes src and pretty-prints the resulting token stream via
// litter, behind --debug-tokens.
func dumpTokens(file, src string) {
	l := lexer.New(src, file)
	toks, err := l.Tokenize()
	litter.Dump(toks)
	if err != nil {
		fmt.Println("lex error:", err.Message)
	}
}
