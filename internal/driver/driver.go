// Package driver orchestrates the compiler pipeline end to end: lex,
// parse, scope-check, optionally type-check, generate, then apply
// target-specific post-processing. It owns the only mutable shared
// state in the compiler core — the compile-file cache.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/codegen"
	"github.com/ntl-lang/ntlc/internal/diag"
	"github.com/ntl-lang/ntlc/internal/parser"
	"github.com/ntl-lang/ntlc/internal/scope"
	"github.com/ntl-lang/ntlc/internal/types"
)

// Options configures a single compile.
type Options struct {
	Target      string // node|browser|deno|bun|esm|cjs
	Strict      bool
	Typecheck   bool // run the inferer even outside strict mode
	Minify      bool
	Obfuscate   bool // out of scope for the core; accepted, not implemented here
	NoTreeShake bool
	SourceMap   bool // accepted, always a no-op
	Incremental bool
}

// Stats summarizes a single compile.
type Stats struct {
	SourceLines int
	SourceChars int
	OutputChars int
}

// Result is the structured outcome of a compile.
type Result struct {
	Success    bool
	Code       string
	AST        *ast.File
	Errors     []diag.Diagnostic
	Warnings   []diag.Diagnostic
	ElapsedMS  float64
	Target     string
	Stats      Stats
}

// CompileSource runs the full pipeline over in-memory source text.
func CompileSource(file, src string, opts Options) Result {
	start := time.Now()
	target := opts.Target
	if target == "" {
		target = "node"
	}
	res := Result{Target: target}

	f, lerr, perr := parser.ParseFile(file, src)
	if lerr != nil {
		res.Errors = []diag.Diagnostic{*lerr}
		res.ElapsedMS = elapsedMS(start)
		return res
	}
	if perr != nil {
		res.Errors = []diag.Diagnostic{*perr}
		res.ElapsedMS = elapsedMS(start)
		return res
	}
	res.AST = f

	if resolveDiags := resolveModules(f); len(resolveDiags) > 0 {
		res.Errors = resolveDiags
		res.ElapsedMS = elapsedMS(start)
		return res
	}

	scopeDiags := scope.Analyze(file, f)
	res.Warnings = append(res.Warnings, diag.Warnings(scopeDiags)...)
	if diag.HasErrors(scopeDiags) {
		res.Errors = append(res.Errors, diag.Errors(scopeDiags)...)
		res.ElapsedMS = elapsedMS(start)
		return res
	}

	if opts.Strict || opts.Typecheck {
		typeDiags := types.Infer(file, f, opts.Strict)
		res.Warnings = append(res.Warnings, diag.Warnings(typeDiags)...)
		if diag.HasErrors(typeDiags) {
			res.Errors = append(res.Errors, diag.Errors(typeDiags)...)
			res.ElapsedMS = elapsedMS(start)
			return res
		}
	}

	code, cerr := generate(f)
	if cerr != nil {
		res.Errors = []diag.Diagnostic{*cerr}
		res.ElapsedMS = elapsedMS(start)
		return res
	}

	code = postProcess(code, target, opts.Minify)

	res.Success = true
	res.Code = code
	res.Stats = Stats{
		SourceLines: strings.Count(src, "\n") + 1,
		SourceChars: len([]rune(src)),
		OutputChars: len([]rune(code)),
	}
	res.ElapsedMS = elapsedMS(start)
	return res
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

// generate recovers from any internal codegen panic and reports it as a
// single fatal compile-phase diagnostic carrying the offending node's
// location; codegen itself never intentionally errors on valid input.
func generate(f *ast.File) (code string, err *diag.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			d := diag.New(diag.PhaseCompile, diag.SeverityError, diag.CodeInternal, 0, 0,
				fmt.Sprintf("internal codegen failure: %v", r))
			err = &d
		}
	}()
	return codegen.Generate(f), nil
}

// --- file-level cache --------------------------------------------------

type cacheEntry struct {
	modTime time.Time
	result  Result
}

// Driver wraps CompileFile with an mtime-keyed cache.
type Driver struct {
	mu    sync.Mutex
	cache map[string]cacheEntry
}

func New() *Driver {
	return &Driver{cache: map[string]cacheEntry{}}
}

// CompileFile compiles the file at path, skipping the pipeline on a cache
// hit keyed by absolute path + last-modified timestamp. path is resolved
// to an absolute path before keying so the same file reached via a
// relative and an absolute path shares one cache entry.
func (d *Driver) CompileFile(path string, opts Options) (Result, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Result{}, fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", absPath, err)
	}
	d.mu.Lock()
	if entry, ok := d.cache[absPath]; ok && entry.modTime.Equal(info.ModTime()) {
		d.mu.Unlock()
		return entry.result, nil
	}
	d.mu.Unlock()

	data, err := os.ReadFile(absPath)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", absPath, err)
	}
	res := CompileSource(absPath, string(data), opts)

	d.mu.Lock()
	d.cache[absPath] = cacheEntry{modTime: info.ModTime(), result: res}
	d.mu.Unlock()
	return res, nil
}
