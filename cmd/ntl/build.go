package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sanity-io/litter"

	"github.com/ntl-lang/ntlc/internal/diag"
	"github.com/ntl-lang/ntlc/internal/driver"
	"github.com/ntl-lang/ntlc/internal/project"
)

func optionsFrom(sf *sharedFlags) driver.Options {
	return driver.Options{
		Target:      sf.target,
		Strict:      sf.strict,
		Minify:      sf.minify,
		Obfuscate:   sf.obfuscate,
		NoTreeShake: sf.noTreeshake,
		SourceMap:   sf.sourceMap,
		Incremental: sf.incremental,
	}
}

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	sf := bindSharedFlags(fs)
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: ntl build FILE|ntl.json [flags]")
		return 1
	}

	path := fs.Arg(0)
	if strings.HasSuffix(path, ".json") {
		return buildProject(path, sf)
	}
	return buildFile(path, sf)
}

func buildFile(path string, sf *sharedFlags) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ntl build: %v\n", err)
		return 1
	}
	if sf.debugTokens {
		dumpTokens(path, string(data))
	}
	res := driver.CompileSource(path, string(data), optionsFrom(sf))
	if sf.debugAST && res.AST != nil {
		litter.Dump(res.AST)
	}
	if !res.Success {
		diag.FormatAll(os.Stderr, res.Errors)
		return 1
	}
	for _, w := range res.Warnings {
		diag.NewFormatter(os.Stderr).Format(w)
	}
	if sf.out != "" {
		if err := os.WriteFile(sf.out, []byte(res.Code), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "ntl build: writing %s: %v\n", sf.out, err)
			return 1
		}
		return 0
	}
	fmt.Print(res.Code)
	return 0
}

func buildProject(configPath string, sf *sharedFlags) int {
	cfg, err := project.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ntl build: %v\n", err)
		return 1
	}
	if sf.target != "node" {
		cfg.CompilerOptions.Target = sf.target
	}
	if sf.strict {
		cfg.CompilerOptions.Strict = true
	}
	if sf.minify {
		cfg.CompilerOptions.Minify = true
	}

	d := driver.New()
	pr, err := d.CompileProject(configPath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ntl build: %v\n", err)
		return 1
	}
	if err := driver.WriteProjectResult(pr); err != nil {
		fmt.Fprintf(os.Stderr, "ntl build: %v\n", err)
		return 1
	}

	exit := 0
	for _, fr := range pr.Files {
		if fr.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", fr.SrcPath, fr.Err)
			exit = 1
			continue
		}
		if !fr.Result.Success {
			fmt.Fprintf(os.Stderr, "%s:\n", fr.SrcPath)
			diag.FormatAll(os.Stderr, fr.Result.Errors)
			exit = 1
		}
	}
	fmt.Printf("%d succeeded, %d failed (%.1fms)\n", pr.SuccessN, pr.FailN, pr.ElapsedMS)
	return exit
}
