package driver

import (
	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/diag"
	"github.com/ntl-lang/ntlc/internal/modules"
)

// resolveModules walks f for every `require(ntl, …)` statement and reports
// a resolve-phase diagnostic for any name outside the closed built-in
// module set. Codegen otherwise falls back to using the bare name as the
// require path, so this pass is what actually surfaces the error to the
// user instead of silently emitting a bad require() call.
func resolveModules(f *ast.File) []diag.Diagnostic {
	w := &moduleWalker{}
	for _, d := range f.Decls {
		w.walkStmt(d.(ast.Stmt))
	}
	return w.diags
}

type moduleWalker struct {
	diags []diag.Diagnostic
}

func (w *moduleWalker) walkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		w.walkStmt(s)
	}
}

func (w *moduleWalker) walkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.TopLevelStmt:
		w.walkStmt(n.Inner)
	case *ast.NTLRequire:
		for _, id := range n.Names {
			if !modules.IsBuiltin(id.Name) {
				w.diags = append(w.diags, diag.New(diag.PhaseResolve, diag.SeverityError,
					diag.CodeUnknownModule, n.Span().Line, n.Span().Column,
					modules.UnknownModuleError(id.Name)))
			}
		}
	case *ast.Block:
		w.walkBlock(n)
	case *ast.If:
		w.walkBlock(n.Then)
		if n.Else != nil {
			w.walkStmt(n.Else)
		}
	case *ast.Unless:
		w.walkBlock(n.Then)
		if n.Else != nil {
			w.walkStmt(n.Else)
		}
	case *ast.While:
		w.walkBlock(n.Body)
	case *ast.DoWhile:
		w.walkBlock(n.Body)
	case *ast.ForOf:
		w.walkBlock(n.Body)
	case *ast.ForIn:
		w.walkBlock(n.Body)
	case *ast.Loop:
		w.walkBlock(n.Body)
	case *ast.Try:
		w.walkBlock(n.Body)
		if n.Catch != nil {
			w.walkBlock(n.Catch.Body)
		}
		w.walkBlock(n.Finally)
	case *ast.Match:
		for _, c := range n.Cases {
			w.walkBlock(c.Body)
		}
	case *ast.Select:
		for _, c := range n.Cases {
			w.walkBlock(c.Body)
		}
		w.walkBlock(n.Default)
	case *ast.IfSet:
		w.walkBlock(n.Then)
		w.walkBlock(n.Else)
	case *ast.FnDecl:
		w.walkBlock(n.Body)
	case *ast.ClassDecl:
		for _, m := range n.Members {
			if mm, ok := m.(*ast.MethodMember); ok {
				w.walkBlock(mm.Body)
			}
		}
	case *ast.NamespaceDecl:
		for _, d := range n.Decls {
			w.walkStmt(d.(ast.Stmt))
		}
	case *ast.DeclareStmt:
		if n.Inner != nil {
			w.walkStmt(n.Inner.(ast.Stmt))
		}
	case *ast.Export:
		if n.Inner != nil {
			w.walkStmt(n.Inner.(ast.Stmt))
		}
	}
}
