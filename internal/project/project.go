// Package project decodes and validates ntl.json project configuration
// as a plain Go struct with JSON tags — no configuration library is
// warranted for a single flat file.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CompilerOptions mirrors ntl.json's compilerOptions block.
type CompilerOptions struct {
	Target     string `json:"target"`
	Strict     bool   `json:"strict"`
	Minify     bool   `json:"minify"`
	TreeShake  bool   `json:"treeShake"`
	Credits    bool   `json:"credits"`
}

// Config is the decoded shape of ntl.json.
type Config struct {
	Name            string          `json:"name"`
	Version         string          `json:"version"`
	Src             string          `json:"src"`
	Dist            string          `json:"dist"`
	CompilerOptions CompilerOptions `json:"compilerOptions"`
	Include         []string        `json:"include"`
	Exclude         []string        `json:"exclude"`
}

// Default returns the configuration scaffolded by `ntl init`.
func Default(name string) *Config {
	return &Config{
		Name:    name,
		Version: "0.1.0",
		Src:     "src",
		Dist:    "dist",
		CompilerOptions: CompilerOptions{
			Target:    "node",
			Strict:    false,
			Minify:    false,
			TreeShake: true,
			Credits:   false,
		},
	}
}

// Load reads and decodes ntl.json from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project config %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing project config %s: %w", path, err)
	}
	if cfg.Src == "" {
		cfg.Src = "src"
	}
	if cfg.Dist == "" {
		cfg.Dist = "dist"
	}
	if cfg.CompilerOptions.Target == "" {
		cfg.CompilerOptions.Target = "node"
	}
	return &cfg, nil
}

// Save writes cfg as indented JSON to path.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding project config: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// SrcDir/DistDir resolve the configured directories relative to the
// project config's own directory.
func (c *Config) SrcDir(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), c.Src)
}

func (c *Config) DistDir(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), c.Dist)
}
