package driver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ntl-lang/ntlc/internal/project"
)

// skippedDirs mirrors the conventional dependency/output directories a
// project build skips.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".git":         true,
}

// FileResult pairs one compiled source file with its outcome.
type FileResult struct {
	SrcPath  string
	DistPath string
	Result   Result
	Err      error
}

// ProjectResult aggregates a whole-project compile.
type ProjectResult struct {
	Files       []FileResult
	SuccessN    int
	FailN       int
	ElapsedMS   float64
}

// CompileProject enumerates every `.ntl` file under cfg's src directory
// (mirrored to dist with the extension rewritten to `.js`, skipping
// `.`-prefixed directories and the conventional dependency/output
// directories) and compiles each one.
func (d *Driver) CompileProject(configPath string, cfg *project.Config) (ProjectResult, error) {
	srcDir := cfg.SrcDir(configPath)
	distDir := cfg.DistDir(configPath)

	var files []string
	err := filepath.WalkDir(srcDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			name := entry.Name()
			if strings.HasPrefix(name, ".") || skippedDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".ntl" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return ProjectResult{}, err
	}

	opts := Options{
		Target:      cfg.CompilerOptions.Target,
		Strict:      cfg.CompilerOptions.Strict,
		Minify:      cfg.CompilerOptions.Minify,
		NoTreeShake: !cfg.CompilerOptions.TreeShake,
	}

	var out ProjectResult
	for _, f := range files {
		rel, relErr := filepath.Rel(srcDir, f)
		if relErr != nil {
			rel = filepath.Base(f)
		}
		distPath := filepath.Join(distDir, strings.TrimSuffix(rel, ".ntl")+".js")
		res, cerr := d.CompileFile(f, opts)
		fr := FileResult{SrcPath: f, DistPath: distPath, Result: res, Err: cerr}
		out.Files = append(out.Files, fr)
		out.ElapsedMS += res.ElapsedMS
		if cerr == nil && res.Success {
			out.SuccessN++
		} else {
			out.FailN++
		}
	}
	return out, nil
}

// WriteProjectResult writes every successfully compiled file to its
// mirrored dist path, creating parent directories as needed.
func WriteProjectResult(pr ProjectResult) error {
	for _, fr := range pr.Files {
		if fr.Err != nil || !fr.Result.Success {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fr.DistPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(fr.DistPath, []byte(fr.Result.Code), 0o644); err != nil {
			return err
		}
	}
	return nil
}
