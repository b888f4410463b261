package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ntl-lang/ntlc/internal/diag"
	"github.com/ntl-lang/ntlc/internal/driver"
)

// runCheck lexes, parses, scope-checks, and (always) type-checks FILE
// through the full compile pipeline, reporting diagnostics and discarding
// the generated code.
func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	sf := bindSharedFlags(fs)
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: ntl check FILE [flags]")
		return 1
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ntl check: %v\n", err)
		return 1
	}

	opts := optionsFrom(sf)
	opts.Typecheck = true
	res := driver.CompileSource(path, string(data), opts)
	if len(res.Errors) > 0 {
		diag.FormatAll(os.Stderr, res.Errors)
		return 1
	}
	for _, w := range res.Warnings {
		diag.NewFormatter(os.Stderr).Format(w)
	}
	fmt.Println("OK")
	return 0
}
