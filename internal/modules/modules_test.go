package modules_test

import (
	"strings"
	"testing"

	"github.com/ntl-lang/ntlc/internal/modules"
)

func TestResolveKnownModule(t *testing.T) {
	path, ok := modules.Resolve("http")
	if !ok {
		t.Fatalf("expected http to resolve")
	}
	if !strings.HasSuffix(path, "http.js") {
		t.Errorf("expected path ending in http.js, got %q", path)
	}
}

func TestResolveUnknownModule(t *testing.T) {
	if _, ok := modules.Resolve("bogus"); ok {
		t.Errorf("expected bogus to fail resolution")
	}
}

func TestBaseDirHonorsEnvVar(t *testing.T) {
	t.Setenv(modules.EnvVar, "/tmp/ntl-modules")
	if got := modules.BaseDir(); got != "/tmp/ntl-modules" {
		t.Errorf("expected env override, got %q", got)
	}
}

func TestIsBuiltinClosedSet(t *testing.T) {
	for _, n := range []string{"http", "fs", "crypto", "logger", "test", "ai", "game", "web", "obf"} {
		if !modules.IsBuiltin(n) {
			t.Errorf("expected %q to be builtin", n)
		}
	}
	if modules.IsBuiltin("path") {
		t.Errorf("expected path (a Node builtin, not an NTL one) to not be builtin")
	}
}
