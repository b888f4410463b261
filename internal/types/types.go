// Package types implements NTL's structural type inferer: a closed set of
// type tags over primitives, arrays, objects, unions, functions, and
// classes, with an optional strict-mode compatibility check. Type is kept
// as a structured value throughout — it is never round-tripped through
// its printed string.
package types

import (
	"sort"
	"strings"
)

// Type is any member of the closed type-tag set.
type Type interface {
	String() string
	isType()
}

type AnyType struct{}

func (AnyType) String() string { return "any" }
func (AnyType) isType()        {}

type NeverType struct{}

func (NeverType) String() string { return "never" }
func (NeverType) isType()        {}

type UnknownType struct{}

func (UnknownType) String() string { return "unknown" }
func (UnknownType) isType()        {}

type VoidType struct{}

func (VoidType) String() string { return "void" }
func (VoidType) isType()        {}

type NullType struct{}

func (NullType) String() string { return "null" }
func (NullType) isType()        {}

type UndefinedType struct{}

func (UndefinedType) String() string { return "undefined" }
func (UndefinedType) isType()        {}

// Primitive covers number, string, boolean, bigint, symbol.
type Primitive struct{ Name string }

func (p Primitive) String() string { return p.Name }
func (Primitive) isType()          {}

var (
	Number  = Primitive{"number"}
	String_ = Primitive{"string"}
	Boolean = Primitive{"boolean"}
	BigInt  = Primitive{"bigint"}
	Symbol  = Primitive{"symbol"}
)

// Literal is a single-value literal type, e.g. the type of `42` narrowed
// to exactly 42. Base names the primitive it widens to.
type Literal struct {
	Raw  string // printed form of the literal value, e.g. `"a"`, `42`, `true`
	Base Primitive
}

func (l Literal) String() string { return l.Raw }
func (Literal) isType()          {}

type Array struct{ Elem Type }

func (a Array) String() string { return a.Elem.String() + "[]" }
func (Array) isType()          {}

type Tuple struct{ Elems []Type }

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (Tuple) isType() {}

// Object is a structural object type; Order preserves declaration order
// for deterministic printing.
type Object struct {
	Fields map[string]Type
	Order  []string
}

func NewObject() *Object { return &Object{Fields: map[string]Type{}} }

func (o *Object) Set(name string, t Type) {
	if _, exists := o.Fields[name]; !exists {
		o.Order = append(o.Order, name)
	}
	o.Fields[name] = t
}

func (o *Object) String() string {
	parts := make([]string, 0, len(o.Order))
	for _, name := range o.Order {
		parts = append(parts, name+": "+o.Fields[name].String())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
func (*Object) isType() {}

type FuncParam struct {
	Name string
	Type Type
}

type Function struct {
	Params []FuncParam
	Return Type
}

func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Name + ": " + p.Type.String()
	}
	ret := "any"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + ret
}
func (*Function) isType() {}

// Class is a named object shape with fields and methods, built from a
// ClassDecl.
type Class struct {
	Name    string
	Fields  map[string]Type
	Methods map[string]*Function
	Super   *Class
}

func NewClass(name string) *Class {
	return &Class{Name: name, Fields: map[string]Type{}, Methods: map[string]*Function{}}
}

func (c *Class) String() string { return c.Name }
func (*Class) isType()          {}

// Lookup walks the class's super chain for a field or method type.
func (c *Class) Lookup(name string) (Type, bool) {
	for cur := c; cur != nil; cur = cur.Super {
		if t, ok := cur.Fields[name]; ok {
			return t, true
		}
		if m, ok := cur.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// Union is a flattened, deduplicated (by printed form) set of member
// types. A singleton union collapses to its element via NewUnion.
type Union struct{ Types []Type }

func (u Union) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}
func (Union) isType() {}

// NewUnion flattens nested unions and deduplicates members by printed
// form. A singleton union collapses to its element.
func NewUnion(types ...Type) Type {
	seen := map[string]bool{}
	var flat []Type
	var flatten func(Type)
	flatten = func(t Type) {
		if u, ok := t.(Union); ok {
			for _, m := range u.Types {
				flatten(m)
			}
			return
		}
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		flat = append(flat, t)
	}
	for _, t := range types {
		if t == nil {
			continue
		}
		flatten(t)
	}
	sort.SliceStable(flat, func(i, j int) bool { return flat[i].String() < flat[j].String() })
	if len(flat) == 1 {
		return flat[0]
	}
	if len(flat) == 0 {
		return NeverType{}
	}
	return Union{Types: flat}
}

// Generic is an uninstantiated generic type reference, e.g. `Array<T>`,
// `Promise<string>`.
type Generic struct {
	Name string
	Args []Type
}

func (g Generic) String() string {
	if len(g.Args) == 0 {
		return g.Name
	}
	parts := make([]string, len(g.Args))
	for i, a := range g.Args {
		parts[i] = a.String()
	}
	return g.Name + "<" + strings.Join(parts, ", ") + ">"
}
func (Generic) isType() {}
