package types

// Env is a lexical type environment: two maps per scope (values, type
// names) with parent-chain lookup; a global table supplies primitive
// type names as a fallback.
type Env struct {
	parent *Env
	values map[string]Type
	types  map[string]Type
}

func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, values: map[string]Type{}, types: map[string]Type{}}
}

func (e *Env) SetValue(name string, t Type) { e.values[name] = t }

func (e *Env) LookupValue(name string) (Type, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if t, ok := cur.values[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (e *Env) SetType(name string, t Type) { e.types[name] = t }

func (e *Env) LookupType(name string) (Type, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if t, ok := cur.types[name]; ok {
			return t, true
		}
	}
	if t, ok := primitiveTypes[name]; ok {
		return t, true
	}
	return nil, false
}

// primitiveTypes is the global fallback table for primitive type names
// used when resolving a type annotation.
var primitiveTypes = map[string]Type{
	"any":       AnyType{},
	"never":     NeverType{},
	"unknown":   UnknownType{},
	"void":      VoidType{},
	"null":      NullType{},
	"undefined": UndefinedType{},
	"number":    Number,
	"string":    String_,
	"boolean":   Boolean,
	"bool":      Boolean,
	"bigint":    BigInt,
	"symbol":    Symbol,
}
