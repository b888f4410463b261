package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ntl-lang/ntlc/internal/project"
)

func writeMinimal(path string) error {
	return os.WriteFile(path, []byte(`{"name": "demo"}`), 0o644)
}

func TestDefaultConfig(t *testing.T) {
	cfg := project.Default("demo")
	if cfg.Src != "src" || cfg.Dist != "dist" {
		t.Errorf("expected src/dist defaults, got %+v", cfg)
	}
	if cfg.CompilerOptions.Target != "node" || !cfg.CompilerOptions.TreeShake {
		t.Errorf("expected node target and tree-shaking on by default, got %+v", cfg.CompilerOptions)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ntl.json")
	cfg := project.Default("demo")
	cfg.CompilerOptions.Strict = true
	if err := project.Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := project.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name != "demo" || !loaded.CompilerOptions.Strict {
		t.Errorf("expected round-tripped config, got %+v", loaded)
	}
}

func TestSrcDistDirRelativeToConfig(t *testing.T) {
	cfg := project.Default("demo")
	srcDir := cfg.SrcDir("/proj/ntl.json")
	distDir := cfg.DistDir("/proj/ntl.json")
	if srcDir != filepath.Join("/proj", "src") {
		t.Errorf("expected /proj/src, got %q", srcDir)
	}
	if distDir != filepath.Join("/proj", "dist") {
		t.Errorf("expected /proj/dist, got %q", distDir)
	}
}

func TestLoadFillsMissingDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ntl.json")
	if err := writeMinimal(path); err != nil {
		t.Fatal(err)
	}
	cfg, err := project.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Src != "src" || cfg.Dist != "dist" || cfg.CompilerOptions.Target != "node" {
		t.Errorf("expected defaults filled in, got %+v", cfg)
	}
}
