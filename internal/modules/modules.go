// Package modules implements the closed NTL built-in module table: the
// identifiers http, fs, crypto, logger, test, ai, game, web, obf resolve
// to absolute paths under the installed compiler's module directory.
package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// names is the closed set of NTL built-in module identifiers.
var names = map[string]string{
	"http":   "http.js",
	"fs":     "fs.js",
	"crypto": "crypto.js",
	"logger": "logger.js",
	"test":   "test.js",
	"ai":     "ai.js",
	"game":   "game.js",
	"web":    "web.js",
	"obf":    "obf.js",
}

// EnvVar names the environment variable that overrides the installed
// compiler's module directory, for running against an uninstalled
// checkout (e.g. from the project's own runtime/ directory in dev).
const EnvVar = "NTL_MODULES_DIR"

// defaultDir is used when EnvVar is unset.
const defaultDir = "/usr/local/lib/ntl/modules"

// BaseDir returns the directory the built-in modules are resolved under.
func BaseDir() string {
	if d := os.Getenv(EnvVar); d != "" {
		return d
	}
	return defaultDir
}

// IsBuiltin reports whether name is one of the closed NTL module names.
func IsBuiltin(name string) bool {
	_, ok := names[name]
	return ok
}

// Resolve maps a built-in module name to its absolute file path, or
// reports false for any name outside the closed set (surfaced by the
// caller as a resolve-phase UNKNOWN_MODULE diagnostic).
func Resolve(name string) (string, bool) {
	file, ok := names[name]
	if !ok {
		return "", false
	}
	return filepath.Join(BaseDir(), file), true
}

// Names returns the closed set of built-in module identifiers, sorted for
// deterministic iteration (e.g. in `init`'s scaffolded project, or CLI
// help text).
func Names() []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// UnknownModuleError formats the resolve-phase diagnostic message for a
// name outside the closed set.
func UnknownModuleError(name string) string {
	return fmt.Sprintf("unknown NTL built-in module %q — expected one of: http, fs, crypto, logger, test, ai, game, web, obf", name)
}
