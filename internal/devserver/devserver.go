// Package devserver implements the `ntl dev` command: a recompile-on-
// change HTTP file server. It serves each source file's compiled output
// at a mirrored URL path, injects a tiny polling live-reload snippet into
// any HTML it serves, and bumps a version counter on fsnotify write/create
// events for .ntl files. A changed file is recompiled on its next request,
// through the driver's modification-time cache.
package devserver

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ntl-lang/ntlc/internal/driver"
)

const reloadSnippet = `<script>
(function() {
  var last = null;
  setInterval(function() {
    fetch(window.location.pathname, {method: 'HEAD'}).then(function(r) {
      var tag = r.headers.get('X-NTL-Version');
      if (last !== null && tag !== last) { window.location.reload(); }
      last = tag;
    }).catch(function() {});
  }, 500);
})();
</script>`

// Server serves a source directory's compiled output, recompiling on
// change.
type Server struct {
	srcDir string
	opts   driver.Options
	d      *driver.Driver

	mu       sync.Mutex
	versions map[string]int
}

// New builds a Server rooted at srcDir.
func New(srcDir string, opts driver.Options) *Server {
	return &Server{
		srcDir:   srcDir,
		opts:     opts,
		d:        driver.New(),
		versions: map[string]int{},
	}
}

// ListenAndServe starts the HTTP server on addr and, concurrently,
// an fsnotify watcher over srcDir that bumps a file's version counter
// on every write so the live-reload snippet's polling loop notices.
func (s *Server) ListenAndServe(addr string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, s.srcDir); err != nil {
		return err
	}
	go s.watchLoop(watcher)

	log.Printf("ntl dev: serving %s on http://%s", s.srcDir, addr)
	return http.ListenAndServe(addr, s)
}

// ServeHTTP makes Server an http.Handler directly, so it can be driven
// without a listening socket (e.g. from tests).
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handle(w, r)
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func (s *Server) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 && strings.HasSuffix(ev.Name, ".ntl") {
				s.bumpVersion(ev.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("ntl dev: watch error: %v", err)
		}
	}
}

func (s *Server) bumpVersion(path string) {
	s.mu.Lock()
	s.versions[path]++
	s.mu.Unlock()
}

func (s *Server) version(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[path]
}

// handle serves the compiled output for a request path, recovering
// from any panic the pipeline raises so one bad file can't take the
// server down.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if e := recover(); e != nil {
			log.Printf("ntl dev: %v", e)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}()

	urlPath := strings.TrimPrefix(r.URL.Path, "/")
	if urlPath == "" {
		urlPath = "index.html"
	}

	if strings.HasSuffix(urlPath, ".html") || !strings.Contains(filepath.Base(urlPath), ".") {
		s.serveHTML(w, r, urlPath)
		return
	}

	srcPath := filepath.Join(s.srcDir, strings.TrimSuffix(urlPath, ".js")+".ntl")
	res, err := s.d.CompileFile(srcPath, s.opts)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !res.Success {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		for _, e := range res.Errors {
			fmt.Fprintln(w, e.Message)
		}
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("X-NTL-Version", fmt.Sprint(s.version(srcPath)))
	_, _ = w.Write([]byte(res.Code))
}

// serveHTML serves a static HTML file verbatim from srcDir, with the
// live-reload snippet injected just before `</body>` when present.
func (s *Server) serveHTML(w http.ResponseWriter, r *http.Request, urlPath string) {
	path := filepath.Join(s.srcDir, urlPath)
	data, err := os.ReadFile(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	body := string(data)
	if idx := strings.LastIndex(body, "</body>"); idx >= 0 {
		body = body[:idx] + reloadSnippet + body[idx:]
	} else {
		body += reloadSnippet
	}
	// The page's version is the sum of every source file's counter, so a
	// write to any watched .ntl file changes the tag the snippet polls.
	s.mu.Lock()
	total := 0
	for _, v := range s.versions {
		total += v
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-NTL-Version", fmt.Sprint(total))
	_, _ = w.Write([]byte(body))
}
