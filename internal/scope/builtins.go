package scope

// builtinNames is the closed set of host-global names pre-declared in
// the root scope with kind builtin — referencing any of these never
// produces an undeclared diagnostic.
var builtinNames = []string{
	"console", "Math", "JSON", "Object", "Array", "Promise", "Date", "Error",
	"process", "require", "globalThis", "fetch", "Map", "Set", "WeakMap",
	"WeakSet", "Symbol", "Proxy", "Reflect", "RegExp", "BigInt",
	"Int8Array", "Uint8Array", "Uint8ClampedArray", "Int16Array", "Uint16Array",
	"Int32Array", "Uint32Array", "Float32Array", "Float64Array",
	"BigInt64Array", "BigUint64Array", "ArrayBuffer", "DataView",
	"TypeError", "RangeError", "SyntaxError", "ReferenceError", "EvalError", "URIError",
	"undefined", "NaN", "Infinity", "module", "exports", "__dirname", "__filename",
	"setTimeout", "setInterval", "clearTimeout", "clearInterval", "queueMicrotask",
	"structuredClone", "URL", "URLSearchParams", "TextEncoder", "TextDecoder",
}

// specialUndeclaredFns receive a curated UNDEF_FUNC diagnostic instead
// of the generic UNDEF_VAR treatment when referenced but never declared
// — they are not pre-declared as builtins.
var specialUndeclaredFns = map[string]bool{"print": true, "println": true}

func rootScope() *Scope {
	s := newScope(nil)
	for _, n := range builtinNames {
		s.declare(n, kindBuiltin, 0)
	}
	return s
}
