package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ntl-lang/ntlc/internal/devserver"
)

// runDev serves DIR's compiled .ntl files over HTTP, recompiling on
// change.
func runDev(args []string) int {
	fs := flag.NewFlagSet("dev", flag.ExitOnError)
	sf := bindSharedFlags(fs)
	port := fs.Int("port", 8080, "HTTP port to listen on")
	fs.Parse(args)

	dir := "."
	if fs.NArg() >= 1 {
		dir = fs.Arg(0)
	}

	srv := devserver.New(dir, optionsFrom(sf))
	addr := fmt.Sprintf(":%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "ntl dev: %v\n", err)
		return 1
	}
	return 0
}
