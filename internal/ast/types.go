package ast

// TypeExpr is a parsed type annotation. This is the parse grammar, not
// the canonical semantic Type (that lives in internal/types and is built
// directly from these nodes — the inferer never round-trips through a
// printed string).
type TypeExpr interface {
	Node
	typeNode()
}

// NamedType is a (possibly dotted, possibly generic) type reference, e.g.
// `string`, `Array<T>`, `ns.Thing<A, B>`. Primitive and built-in names
// (`any`, `never`, `unknown`, `void`, `number`, …) are recognized by name
// when the type checker resolves this node.
type NamedType struct {
	base
	Path []string
	Args []TypeExpr
}

func (*NamedType) typeNode() {}

type LiteralType struct {
	base
	Value Expr
}

func (*LiteralType) typeNode() {}

type ArrayType struct {
	base
	Elem TypeExpr
}

func (*ArrayType) typeNode() {}

type TupleType struct {
	base
	Elems []TypeExpr
}

func (*TupleType) typeNode() {}

type ObjectTypeField struct {
	Name     string
	Type     TypeExpr
	Optional bool
}

type ObjectType struct {
	base
	Fields []ObjectTypeField
}

func (*ObjectType) typeNode() {}

type FuncTypeParam struct {
	Name string
	Type TypeExpr
}

// FunctionType is `(params…) -> T`; the source is inconsistent about
// whether the arrow is written `->` or `=>` — both are accepted by the
// parser and both produce this same node.
type FunctionType struct {
	base
	Params []FuncTypeParam
	Return TypeExpr
}

func (*FunctionType) typeNode() {}

type UnionType struct {
	base
	Types []TypeExpr
}

func (*UnionType) typeNode() {}

// IntersectionType is the `&` form; it has no dedicated tag in the
// canonical semantic Type (the closed set has no intersection) and is
// resolved by merging object-shaped members structurally.
type IntersectionType struct {
	base
	Types []TypeExpr
}

func (*IntersectionType) typeNode() {}

// OptionalType is the `?` suffix; it resolves to a union with undefined.
type OptionalType struct {
	base
	Inner TypeExpr
}

func (*OptionalType) typeNode() {}

type TypeOfType struct {
	base
	X Expr
}

func (*TypeOfType) typeNode() {}

type KeyOfType struct {
	base
	Inner TypeExpr
}

func (*KeyOfType) typeNode() {}

type InferType struct {
	base
	Name string
}

func (*InferType) typeNode() {}
