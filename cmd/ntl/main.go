// Command ntl is the NTL compiler's CLI: run, build, check, watch, dev,
// repl, init, version, and help. Dispatch is a single flag.Parse over
// os.Args followed by a switch to one function per subcommand, each
// living in its own file.
package main

import (
	"flag"
	"fmt"
	"os"
)

const version = "0.1.0"

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: ntl <command> [file] [flags]")
	fmt.Fprintln(os.Stderr, `
Commands:
  run FILE           compile then execute in an isolated host context
  build FILE|ntl.json  compile a file or a project
  check FILE         lex, parse, scope, typecheck only
  watch FILE         initial compile, then recompile on change
  dev [DIR]          serve compiled .ntl files over HTTP, recompile on change
  repl               interactive prompt
  init [DIR]         scaffold a new project
  version            print the compiler version
  help               print this text

Flags:
  --target=node|browser|deno|bun|esm|cjs   (default node)
  --strict
  --minify
  --obfuscate
  --no-treeshake
  --credits
  --source-map
  --incremental
  -o, --out PATH
  --port N            (dev)
  -h, --help
  -v, --version`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "-h", "--help", "help":
		usage()
		return
	case "-v", "--version", "version":
		runVersion()
		return
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "run":
		os.Exit(runRun(args))
	case "build":
		os.Exit(runBuild(args))
	case "check":
		os.Exit(runCheck(args))
	case "watch":
		os.Exit(runWatch(args))
	case "dev":
		os.Exit(runDev(args))
	case "repl":
		os.Exit(runRepl(args))
	case "init":
		os.Exit(runInit(args))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

// sharedFlags installs the flags common to compile-like subcommands onto
// fs and returns the populated Options-building fields.
type sharedFlags struct {
	target      string
	strict      bool
	minify      bool
	obfuscate   bool
	noTreeshake bool
	credits     bool
	sourceMap   bool
	incremental bool
	out         string
	debugAST    bool
	debugTokens bool
}

func bindSharedFlags(fs *flag.FlagSet) *sharedFlags {
	sf := &sharedFlags{}
	fs.StringVar(&sf.target, "target", "node", "node|browser|deno|bun|esm|cjs")
	fs.BoolVar(&sf.strict, "strict", false, "enable strict type checking")
	fs.BoolVar(&sf.minify, "minify", false, "strip blank lines and collapse whitespace")
	fs.BoolVar(&sf.obfuscate, "obfuscate", false, "accepted; obfuscation is out of scope for the core")
	fs.BoolVar(&sf.noTreeshake, "no-treeshake", false, "accepted; no dead-export elimination is performed with or without it")
	fs.BoolVar(&sf.credits, "credits", false, "accepted; no credits header is emitted")
	fs.BoolVar(&sf.sourceMap, "source-map", false, "accepted; always a no-op")
	fs.BoolVar(&sf.incremental, "incremental", false, "accepted; no compile cache is kept across invocations")
	fs.StringVar(&sf.out, "o", "", "output path")
	fs.StringVar(&sf.out, "out", "", "output path")
	fs.BoolVar(&sf.debugAST, "debug-ast", false, "dump the parsed AST via litter after compiling (build only)")
	fs.BoolVar(&sf.debugTokens, "debug-tokens", false, "dump the token stream via litter before compiling (build only)")
	return sf
}
