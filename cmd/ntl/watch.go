package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ntl-lang/ntlc/internal/diag"
	"github.com/ntl-lang/ntlc/internal/driver"
)

// runWatch compiles FILE once, then recompiles on every subsequent
// write event.
func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	sf := bindSharedFlags(fs)
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: ntl watch FILE [flags]")
		return 1
	}
	path := fs.Arg(0)
	opts := optionsFrom(sf)

	compileOnce := func() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ntl watch: %v\n", err)
			return
		}
		res := driver.CompileSource(path, string(data), opts)
		if !res.Success {
			diag.FormatAll(os.Stderr, res.Errors)
			return
		}
		if sf.out != "" {
			if err := os.WriteFile(sf.out, []byte(res.Code), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "ntl watch: writing %s: %v\n", sf.out, err)
				return
			}
		} else {
			fmt.Print(res.Code)
		}
		fmt.Fprintf(os.Stderr, "ntl watch: compiled %s (%.1fms)\n", path, res.ElapsedMS)
	}

	compileOnce()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ntl watch: %v\n", err)
		return 1
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		fmt.Fprintf(os.Stderr, "ntl watch: %v\n", err)
		return 1
	}

	abs, _ := filepath.Abs(path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			evAbs, _ := filepath.Abs(ev.Name)
			if evAbs != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				compileOnce()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			fmt.Fprintf(os.Stderr, "ntl watch: %v\n", err)
		}
	}
}
