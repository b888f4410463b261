package driver

import (
	"regexp"
	"strings"
)

// esmTargets is the set of --target values that want ES-module output
// instead of CommonJS.
var esmTargets = map[string]bool{"esm": true, "deno": true, "browser": true}

var (
	reConstRequire = regexp.MustCompile(`const\s+([A-Za-z_$][\w$]*)\s*=\s*require\((['"])([^'"]+)['"]\);`)
	reDestrRequire = regexp.MustCompile(`const\s*\{\s*([^}]*)\s*\}\s*=\s*require\((['"])([^'"]+)['"]\);`)
	reBareRequire  = regexp.MustCompile(`require\((['"])([^'"]+)['"]\);`)
	reModuleExport = regexp.MustCompile(`module\.exports\.([A-Za-z_$][\w$]*)\s*=\s*([A-Za-z_$][\w$]*);`)
)

// postProcess applies target-specific post-processing: an ESM textual
// rewrite of require/module.exports for esm-flavored targets, and
// optional minification.
func postProcess(code, target string, minify bool) string {
	if esmTargets[target] {
		code = rewriteToESM(code)
	}
	if minify {
		code = minifyJS(code)
	}
	return code
}

// rewriteToESM does a second textual pass over the generated code:
// rewrite `require`/`module.exports` into `import`/`export`.
func rewriteToESM(code string) string {
	code = reConstRequire.ReplaceAllString(code, `import $1 from $2$3$2;`)
	code = reDestrRequire.ReplaceAllStringFunc(code, func(m string) string {
		sub := reDestrRequire.FindStringSubmatch(m)
		return "import { " + sub[1] + " } from " + sub[2] + sub[3] + sub[2] + ";"
	})
	code = reBareRequire.ReplaceAllString(code, `import $1$2$1;`)
	code = reModuleExport.ReplaceAllString(code, `export { $2 as $1 };`)
	return code
}

// minifyJS strips blank lines and collapses leading-whitespace
// indentation. It does not attempt token-level minification (identifier
// renaming, semicolon elision) — the contract here is whitespace-only.
func minifyJS(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}
