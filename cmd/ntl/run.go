package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/ntl-lang/ntlc/internal/diag"
	"github.com/ntl-lang/ntlc/internal/driver"
)

// runRun compiles FILE then executes it in an isolated `node` process,
// in an isolated host context.
func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	sf := bindSharedFlags(fs)
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: ntl run FILE [flags]")
		return 1
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ntl run: %v\n", err)
		return 1
	}

	opts := optionsFrom(sf)
	res := driver.CompileSource(path, string(data), opts)
	if !res.Success {
		diag.FormatAll(os.Stderr, res.Errors)
		return 1
	}

	tmp, err := os.CreateTemp("", "ntl-run-*.js")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ntl run: %v\n", err)
		return 1
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(res.Code); err != nil {
		tmp.Close()
		fmt.Fprintf(os.Stderr, "ntl run: %v\n", err)
		return 1
	}
	tmp.Close()

	cmd := exec.Command("node", tmp.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "ntl run: %v\n", err)
		return 1
	}
	return 0
}
