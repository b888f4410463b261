package ast

import "github.com/ntl-lang/ntlc/internal/lexer"

// DeclTarget is the left-hand side of a variable declaration: either a
// bare identifier or a destructuring pattern.
type DeclTarget interface {
	Node
	declTargetNode()
}

func (*Ident) declTargetNode()   {}
func (*ObjectPattern) declTargetNode() {}
func (*ArrayPattern) declTargetNode()  {}

// VarDecl is a single `var`/`let`/`const`/`val` binding.
type VarDecl struct {
	base
	Target   DeclTarget
	TypeAnn  TypeExpr
	Init     Expr
	Const    bool // true for val/const
	Exported bool
}

func (*VarDecl) declNode() {}
func (*VarDecl) stmtNode() {}

func NewVarDecl(target DeclTarget, typeAnn TypeExpr, init Expr, isConst bool, span lexer.Span) *VarDecl {
	return &VarDecl{base: base{span}, Target: target, TypeAnn: typeAnn, Init: init, Const: isConst}
}

// MultiVarDecl groups several VarDecls declared on one statement
// (`var a = 1, b = 2`).
type MultiVarDecl struct {
	base
	Decls []*VarDecl
}

func (*MultiVarDecl) declNode() {}
func (*MultiVarDecl) stmtNode() {}

// Param is a function parameter; it may itself be destructured.
type Param struct {
	base
	Target  DeclTarget
	TypeAnn TypeExpr
	Default Expr
	Rest    bool
}

// FnDecl is a named function declaration.
type FnDecl struct {
	base
	Name       *Ident
	Params     []*Param
	ReturnType TypeExpr
	Body       *Block
	Async      bool
	Generator  bool
	Decorators []Expr
	Exported   bool
}

func (*FnDecl) declNode() {}
func (*FnDecl) stmtNode() {}

// ClassMember is one member of a class body: a field, method, or
// accessor; class members are kept as a flat list.
type ClassMember interface {
	Node
	classMemberNode()
}

type FieldMember struct {
	base
	Name      *Ident
	TypeAnn   TypeExpr
	Init      Expr
	Static    bool
	Readonly  bool
	Private   bool
	Protected bool
}

func (*FieldMember) classMemberNode() {}

type MethodMember struct {
	base
	Name       *Ident
	Params     []*Param
	ReturnType TypeExpr
	Body       *Block
	Static     bool
	Async      bool
	Abstract   bool
	Override   bool
	IsInit     bool // true when Name == "init" — the NTL constructor
	Decorators []Expr
}

func (*MethodMember) classMemberNode() {}

type AccessorMember struct {
	base
	Name   *Ident
	IsGet  bool // false means setter
	Params []*Param
	Body   *Block
	Static bool
}

func (*AccessorMember) classMemberNode() {}

// ClassDecl is a class declaration.
type ClassDecl struct {
	base
	Name       *Ident
	TypeParams []string
	Super      Expr
	Implements []TypeExpr
	Members    []ClassMember
	Abstract   bool
	Decorators []Expr
	Exported   bool
}

func (*ClassDecl) declNode() {}
func (*ClassDecl) stmtNode() {}

// InterfaceDecl, TraitDecl elide to nothing at codegen but still carry
// enough structure for the type checker to consult method signatures.
type InterfaceDecl struct {
	base
	Name    *Ident
	Members []ClassMember
}

func (*InterfaceDecl) declNode() {}
func (*InterfaceDecl) stmtNode() {}

type TraitDecl struct {
	base
	Name    *Ident
	Members []ClassMember
}

func (*TraitDecl) declNode() {}
func (*TraitDecl) stmtNode() {}

// AlgebraicVariant is one `Name(fields…)` arm of an algebraic sum type.
type AlgebraicVariant struct {
	Name   string
	Fields []string
}

// TypeAlias is `type X = <type>` or, when the RHS parses as a sequence of
// `Name(fields) | …` arms, an algebraic sum type.
type TypeAlias struct {
	base
	Name       *Ident
	TypeParams []string
	Underlying TypeExpr // nil when Variants is populated
	Variants   []AlgebraicVariant
}

func (*TypeAlias) declNode() {}
func (*TypeAlias) stmtNode() {}

// EnumMember is one `Name` or `Name = value` arm of an enum.
type EnumMember struct {
	Name  string
	Value Expr // nil when auto-numbered
}

type EnumDecl struct {
	base
	Name    *Ident
	Members []EnumMember
}

func (*EnumDecl) declNode() {}
func (*EnumDecl) stmtNode() {}

type NamespaceDecl struct {
	base
	Name  *Ident
	Decls []Decl
}

func (*NamespaceDecl) declNode() {}
func (*NamespaceDecl) stmtNode() {}

type MacroDecl struct {
	base
	Name   *Ident
	Params []*Param
	Body   *Block
}

func (*MacroDecl) declNode() {}
func (*MacroDecl) stmtNode() {}

// ImmutableDecl wraps a `val` declaration; codegen follows it with
// `Object.freeze(X)`, a shallow freeze, so objects nested inside the
// initializer stay mutable.
type ImmutableDecl struct {
	base
	Var *VarDecl
}

func (*ImmutableDecl) declNode() {}
func (*ImmutableDecl) stmtNode() {}

type UsingDecl struct {
	base
	Target DeclTarget
	Init   Expr
}

func (*UsingDecl) declNode() {}
func (*UsingDecl) stmtNode() {}

// DeclareStmt is an ambient `declare ...` — it elides to nothing at
// codegen, same as interfaces/traits/type aliases.
type DeclareStmt struct {
	base
	Inner Decl
}

func (*DeclareStmt) declNode() {}
func (*DeclareStmt) stmtNode() {}

// TopLevelStmt adapts a bare statement (e.g. a top-level expression
// statement) so it can sit directly in File.Decls alongside real
// declarations; NTL treats the file body as an implicit main sequence.
// Inner is deliberately a plain field, not embedded — every consumer
// that walks File.Decls must unwrap it explicitly instead of relying on
// a type assertion to silently pass through to the wrapper itself.
type TopLevelStmt struct {
	base
	Inner Stmt
}

func (*TopLevelStmt) declNode() {}
func (*TopLevelStmt) stmtNode() {}

// NTLRequire is `require(ntl, name, …)` — each name becomes a binding
// resolved against the closed built-in module table.
type NTLRequire struct {
	base
	Names []*Ident
}

func (*NTLRequire) declNode() {}
func (*NTLRequire) stmtNode() {}
