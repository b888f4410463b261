package devserver_test

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ntl-lang/ntlc/internal/devserver"
	"github.com/ntl-lang/ntlc/internal/driver"
)

func writeFixture(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html><body>hi</body></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.ntl"), []byte(`val x: number = 1;`), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestServeCompiledJS(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	srv := devserver.New(dir, driver.Options{Target: "node"})

	req := httptest.NewRequest("GET", "/main.js", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "const x = 1;") {
		t.Errorf("expected compiled output, got %q", w.Body.String())
	}
}

func TestServeHTMLInjectsLiveReload(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	srv := devserver.New(dir, driver.Options{Target: "node"})

	req := httptest.NewRequest("GET", "/index.html", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<script>") {
		t.Errorf("expected live-reload snippet injected, got %q", w.Body.String())
	}
}

func TestServeUnknownFileNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	srv := devserver.New(dir, driver.Options{Target: "node"})

	req := httptest.NewRequest("GET", "/missing.js", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != 404 {
		t.Errorf("expected 404 for a file with no matching .ntl source, got %d", w.Code)
	}
}
