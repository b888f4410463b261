package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ntl-lang/ntlc/internal/project"
)

const initMainNTL = `fn main() {
  println("hello from ntl")
}

main()
`

const initGitignore = "node_modules/\ndist/\n"

// runInit scaffolds ntl.json, src/main.ntl, package.json, and
// .gitignore under DIR (default the current directory).
func runInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	fs.Parse(args)

	dir := "."
	if fs.NArg() >= 1 {
		dir = fs.Arg(0)
	}
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "ntl init: %v\n", err)
		return 1
	}

	name := filepath.Base(absOrSame(dir))
	cfg := project.Default(name)
	configPath := filepath.Join(dir, "ntl.json")
	if err := project.Save(configPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "ntl init: %v\n", err)
		return 1
	}

	if err := os.WriteFile(filepath.Join(dir, "src", "main.ntl"), []byte(initMainNTL), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "ntl init: %v\n", err)
		return 1
	}

	pkgJSON := fmt.Sprintf("{\n  \"name\": %q,\n  \"version\": \"0.1.0\",\n  \"private\": true\n}\n", name)
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(pkgJSON), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "ntl init: %v\n", err)
		return 1
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(initGitignore), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "ntl init: %v\n", err)
		return 1
	}

	fmt.Printf("initialized ntl project %q in %s\n", name, dir)
	return 0
}

func absOrSame(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
