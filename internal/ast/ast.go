// Package ast defines the NTL abstract syntax tree: a strict tree (no
// cycles), every node carrying a line/column, decorator expressions
// wrapping a single child, class members as a flat list.
package ast

import "github.com/ntl-lang/ntlc/internal/lexer"

// Node is any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is a top-level or block-level declaration.
type Decl interface {
	Node
	declNode()
}

// base embeds the common span field every concrete node carries.
type base struct {
	span lexer.Span
}

func (b base) Span() lexer.Span { return b.span }

// SetSpan lets the parser stamp a node's source span after construction,
// since callers outside this package cannot set the unexported base field
// directly in a struct literal.
func (b *base) SetSpan(s lexer.Span) { b.span = s }

// File is a parsed compilation unit.
type File struct {
	base
	Path  string
	Decls []Decl
}

func NewFile(path string, decls []Decl, span lexer.Span) *File {
	return &File{base: base{span}, Path: path, Decls: decls}
}

// Ident is a bare identifier reference, used both as an expression and as
// a name slot inside declarations/patterns.
type Ident struct {
	base
	Name string
}

func NewIdent(name string, span lexer.Span) *Ident { return &Ident{base{span}, name} }
func (*Ident) exprNode()                           {}
