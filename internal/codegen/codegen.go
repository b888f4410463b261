// Package codegen lowers an NTL AST into JavaScript source text. Every
// output is CommonJS-flavored; the driver's second textual pass rewrites
// require/module.exports into import/export for ESM targets.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/modules"
)

// Generator emits newline-indented JavaScript, two spaces per level.
type Generator struct {
	b       strings.Builder
	indent  int
	matchID int
}

// New builds a fresh generator.
func New() *Generator { return &Generator{} }

// Generate lowers an entire file to JavaScript source text.
func Generate(file *ast.File) string {
	g := New()
	for _, d := range file.Decls {
		g.genStmt(d.(ast.Stmt))
	}
	return g.b.String()
}

func (g *Generator) writeIndent() { g.b.WriteString(strings.Repeat("  ", g.indent)) }

func (g *Generator) line(format string, args ...interface{}) {
	g.writeIndent()
	g.b.WriteString(fmt.Sprintf(format, args...))
	g.b.WriteByte('\n')
}

func (g *Generator) raw(s string) { g.b.WriteString(s) }

// --- declarations / statements ----------------------------------------------

func (g *Generator) genStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.TopLevelStmt:
		g.genStmt(n.Inner)
	case *ast.VarDecl:
		g.genVarDecl(n)
	case *ast.MultiVarDecl:
		for _, d := range n.Decls {
			g.genVarDecl(d)
		}
	case *ast.FnDecl:
		g.genFnDecl(n)
	case *ast.ClassDecl:
		g.genClassDecl(n)
	case *ast.InterfaceDecl, *ast.TraitDecl, *ast.TypeAlias:
		// type-only declarations have no runtime representation
	case *ast.EnumDecl:
		g.genEnumDecl(n)
	case *ast.NamespaceDecl:
		g.genNamespaceDecl(n)
	case *ast.MacroDecl:
		g.genMacroDecl(n)
	case *ast.ImmutableDecl:
		g.genVarDecl(n.Var)
		g.line("Object.freeze(%s);", declTargetName(n.Var.Target))
	case *ast.UsingDecl:
		g.writeIndent()
		g.raw("const " + declTargetText(n.Target) + " = ")
		g.genExprPrec(n.Init, precAssign)
		g.raw(";\n")
	case *ast.DeclareStmt:
		// elided: ambient declarations carry no runtime value
	case *ast.NTLRequire:
		g.genNTLRequire(n)
	case *ast.Import:
		g.genImport(n)
	case *ast.Export:
		g.genExport(n)
	case *ast.Block:
		g.genBlock(n)
	case *ast.ExprStmt:
		g.writeIndent()
		g.genExprPrec(n.X, precAssign)
		g.raw(";\n")
	case *ast.If:
		g.genIf(n)
	case *ast.Unless:
		g.genUnless(n)
	case *ast.While:
		g.writeIndent()
		g.raw("while (")
		g.genExprPrec(n.Cond, precAssign)
		g.raw(") ")
		g.genBlockInline(n.Body)
	case *ast.DoWhile:
		g.writeIndent()
		g.raw("do ")
		g.genBlockInline(n.Body)
		g.raw(" while (")
		g.genExprPrec(n.Cond, precAssign)
		g.raw(");\n")
	case *ast.ForOf:
		g.writeIndent()
		g.raw("for (const " + declTargetText(n.Target) + " of ")
		g.genExprPrec(n.Iter, precAssign)
		g.raw(") ")
		g.genBlockInline(n.Body)
	case *ast.ForIn:
		g.writeIndent()
		g.raw("for (const " + declTargetText(n.Target) + " in ")
		g.genExprPrec(n.Iter, precAssign)
		g.raw(") ")
		g.genBlockInline(n.Body)
	case *ast.Loop:
		g.writeIndent()
		g.raw("while (true) ")
		g.genBlockInline(n.Body)
	case *ast.Return:
		if n.Value == nil {
			g.line("return;")
			return
		}
		g.writeIndent()
		g.raw("return ")
		g.genExprPrec(n.Value, precAssign)
		g.raw(";\n")
	case *ast.Throw:
		g.writeIndent()
		g.raw("throw ")
		g.genExprPrec(n.Value, precAssign)
		g.raw(";\n")
	case *ast.Try:
		g.genTry(n)
	case *ast.Match:
		g.genMatch(n, "")
	case *ast.Break:
		if n.Label != "" {
			g.line("break %s;", n.Label)
		} else {
			g.line("break;")
		}
	case *ast.Continue:
		if n.Label != "" {
			g.line("continue %s;", n.Label)
		} else {
			g.line("continue;")
		}
	case *ast.IfSet:
		g.genIfSet(n)
	case *ast.Spawn:
		g.writeIndent()
		g.raw("Promise.resolve().then(() => ")
		g.genExprPrec(n.X, precAssign)
		g.raw(");\n")
	case *ast.Select:
		g.genSelect(n)
	}
}

func (g *Generator) genBlock(b *ast.Block) {
	if b == nil {
		return
	}
	g.indent++
	for _, s := range b.Stmts {
		g.genStmt(s)
	}
	g.indent--
}

// genBlockInline emits a braced block on the current line, closing it
// with its own indentation.
func (g *Generator) genBlockInline(b *ast.Block) {
	g.raw("{\n")
	g.genBlock(b)
	g.writeIndent()
	g.raw("}\n")
}

func declTargetName(t ast.DeclTarget) string {
	if id, ok := t.(*ast.Ident); ok {
		return id.Name
	}
	return declTargetText(t)
}

// declTargetText renders a destructuring pattern or plain identifier as
// JavaScript binding syntax.
func declTargetText(t ast.DeclTarget) string {
	switch n := t.(type) {
	case *ast.Ident:
		return n.Name
	case *ast.ObjectPattern:
		parts := make([]string, 0, len(n.Props))
		for _, p := range n.Props {
			switch {
			case p.Rest:
				parts = append(parts, "..."+p.Key)
			case p.Alias != nil:
				s := p.Key + ": " + declTargetText(p.Alias)
				if p.Default != nil {
					s += " = " + exprToString(p.Default)
				}
				parts = append(parts, s)
			default:
				s := p.Key
				if p.Default != nil {
					s += " = " + exprToString(p.Default)
				}
				parts = append(parts, s)
			}
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *ast.ArrayPattern:
		parts := make([]string, 0, len(n.Items))
		for _, it := range n.Items {
			switch {
			case it.Hole || it.Target == nil:
				parts = append(parts, "")
			case it.Rest:
				parts = append(parts, "..."+declTargetText(it.Target))
			default:
				s := declTargetText(it.Target)
				if it.Default != nil {
					s += " = " + exprToString(it.Default)
				}
				parts = append(parts, s)
			}
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return ""
}

func exprToString(e ast.Expr) string {
	g := New()
	g.genExprPrec(e, precAssign)
	return g.b.String()
}

func (g *Generator) genVarDecl(n *ast.VarDecl) {
	kw := "let"
	if n.Const {
		kw = "const"
	}
	g.writeIndent()
	g.raw(kw + " " + declTargetText(n.Target))
	if n.Init != nil {
		g.raw(" = ")
		g.genExprPrec(n.Init, precAssign)
	}
	g.raw(";\n")
}

func (g *Generator) genParams(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		s := declTargetText(p.Target)
		if p.Rest {
			s = "..." + s
		}
		if p.Default != nil {
			s += " = " + exprToString(p.Default)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) genFnDecl(n *ast.FnDecl) {
	kw := "function"
	if n.Async {
		kw = "async function"
	}
	if n.Generator {
		kw += "*"
	}
	g.writeIndent()
	g.raw(fmt.Sprintf("%s %s(%s) ", kw, n.Name.Name, g.genParams(n.Params)))
	g.genBlockInline(n.Body)
	g.genDecoratorReassign(n.Name.Name, n.Decorators)
}

// genDecoratorReassign emits the declaration followed by
// `name = decorator(name, args…)` for each decorator, applied in reverse
// order.
func (g *Generator) genDecoratorReassign(name string, decorators []ast.Expr) {
	for i := len(decorators) - 1; i >= 0; i-- {
		g.writeIndent()
		g.raw(name + " = ")
		g.genDecoratorApplication(decorators[i], name)
		g.raw(";\n")
	}
}

func (g *Generator) genDecoratorApplication(dec ast.Expr, target string) {
	if call, ok := dec.(*ast.CallExpr); ok {
		g.genExprPrec(call.Callee, precPrimary)
		g.raw("(" + target)
		for _, a := range call.Args {
			g.raw(", ")
			g.genExprPrec(a, precAssign)
		}
		g.raw(")")
		return
	}
	g.genExprPrec(dec, precPrimary)
	g.raw("(" + target + ")")
}

func (g *Generator) genClassDecl(n *ast.ClassDecl) {
	g.writeIndent()
	g.raw("class " + n.Name.Name)
	if n.Super != nil {
		g.raw(" extends ")
		g.genExprPrec(n.Super, precPrimary)
	}
	g.raw(" {\n")
	g.indent++
	for _, m := range n.Members {
		g.genClassMember(m)
	}
	g.indent--
	g.writeIndent()
	g.raw("}\n")
	g.genDecoratorReassign(n.Name.Name, n.Decorators)
}

func (g *Generator) genClassMember(m ast.ClassMember) {
	switch mm := m.(type) {
	case *ast.FieldMember:
		g.writeIndent()
		if mm.Static {
			g.raw("static ")
		}
		g.raw(mm.Name.Name)
		if mm.Init != nil {
			g.raw(" = ")
			g.genExprPrec(mm.Init, precAssign)
		}
		g.raw(";\n")
	case *ast.MethodMember:
		if mm.Abstract {
			return
		}
		name := mm.Name.Name
		if mm.IsInit {
			name = "constructor"
		}
		g.writeIndent()
		if mm.Static {
			g.raw("static ")
		}
		if mm.Async {
			g.raw("async ")
		}
		g.raw(fmt.Sprintf("%s(%s) ", name, g.genParams(mm.Params)))
		g.genBlockInline(mm.Body)
	case *ast.AccessorMember:
		kw := "get"
		if !mm.IsGet {
			kw = "set"
		}
		g.writeIndent()
		if mm.Static {
			g.raw("static ")
		}
		g.raw(fmt.Sprintf("%s %s(%s) ", kw, mm.Name.Name, g.genParams(mm.Params)))
		g.genBlockInline(mm.Body)
	}
}

// genEnumDecl emits a frozen object literal with auto-numbering when no
// explicit value is given.
func (g *Generator) genEnumDecl(n *ast.EnumDecl) {
	g.line("const %s = Object.freeze({", n.Name.Name)
	g.indent++
	next := 0
	for _, m := range n.Members {
		g.writeIndent()
		if m.Value != nil {
			g.raw(m.Name + ": ")
			g.genExprPrec(m.Value, precAssign)
			g.raw(",\n")
		} else {
			g.raw(fmt.Sprintf("%s: %d,\n", m.Name, next))
			next++
		}
	}
	g.indent--
	g.line("});")
}

func (g *Generator) genNamespaceDecl(n *ast.NamespaceDecl) {
	g.line("const %s = (() => {", n.Name.Name)
	g.indent++
	for _, d := range n.Decls {
		g.genStmt(d.(ast.Stmt))
	}
	names := make([]string, 0, len(n.Decls))
	for _, d := range n.Decls {
		if name := exportedDeclName(d); name != "" {
			names = append(names, name)
		}
	}
	g.line("return { %s };", strings.Join(names, ", "))
	g.indent--
	g.line("})();")
}

func exportedDeclName(d ast.Decl) string {
	switch n := d.(type) {
	case *ast.FnDecl:
		return n.Name.Name
	case *ast.ClassDecl:
		return n.Name.Name
	case *ast.EnumDecl:
		return n.Name.Name
	case *ast.VarDecl:
		if id, ok := n.Target.(*ast.Ident); ok {
			return id.Name
		}
	}
	return ""
}

func (g *Generator) genMacroDecl(n *ast.MacroDecl) {
	g.writeIndent()
	g.raw(fmt.Sprintf("function %s(%s) ", n.Name.Name, g.genParams(n.Params)))
	g.genBlockInline(n.Body)
}

// genNTLRequire lowers `require(ntl, http, …)` into one `const NAME =
// require("<absolute-path>")` per name.
func (g *Generator) genNTLRequire(n *ast.NTLRequire) {
	for _, id := range n.Names {
		path, ok := modules.Resolve(id.Name)
		if !ok {
			path = id.Name
		}
		g.line("const %s = require(%s);", id.Name, strconv.Quote(path))
	}
}

func (g *Generator) genImport(n *ast.Import) {
	var names []string
	if n.Default != "" {
		names = append(names, n.Default)
	}
	for _, s := range n.Specifiers {
		if s.Alias != "" {
			names = append(names, s.Name+": "+s.Alias)
		} else {
			names = append(names, s.Name)
		}
	}
	if n.Namespace != "" {
		g.line("const %s = require(%s);", n.Namespace, strconv.Quote(n.FromPath))
		return
	}
	if len(names) == 0 {
		g.line("require(%s);", strconv.Quote(n.FromPath))
		return
	}
	if n.Default != "" && len(n.Specifiers) == 0 {
		g.line("const %s = require(%s);", n.Default, strconv.Quote(n.FromPath))
		return
	}
	g.line("const { %s } = require(%s);", strings.Join(names, ", "), strconv.Quote(n.FromPath))
}

func (g *Generator) genExport(n *ast.Export) {
	if n.Inner != nil {
		g.genStmt(n.Inner.(ast.Stmt))
		if name := exportedDeclName(n.Inner); name != "" {
			g.line("module.exports.%s = %s;", name, name)
		}
		return
	}
	for _, spec := range n.Names {
		local := spec.Name
		exported := spec.Name
		if spec.Alias != "" {
			exported = spec.Alias
		}
		g.line("module.exports.%s = %s;", exported, local)
	}
}

func (g *Generator) genIf(n *ast.If) {
	g.writeIndent()
	g.raw("if (")
	g.genExprPrec(n.Cond, precAssign)
	g.raw(") ")
	g.genBlockInline(n.Then)
	if n.Else != nil {
		g.b.WriteString(strings.Repeat("  ", g.indent))
		// overwrite the trailing newline+indent with "} else " shape
		s := g.b.String()
		g.b.Reset()
		g.b.WriteString(strings.TrimSuffix(s, strings.Repeat("  ", g.indent)))
		g.genElse(n.Else)
	}
}

// genElse rewrites the closing brace of the preceding block to continue
// as `} else {` / `} else if (...) {` on the same line, matching common
// JavaScript formatter output.
func (g *Generator) genElse(elseStmt ast.Stmt) {
	s := g.b.String()
	s = strings.TrimRight(s, "\n")
	if strings.HasSuffix(s, "}") {
		s = s[:len(s)-1] + "} else "
	}
	g.b.Reset()
	g.b.WriteString(s)
	switch e := elseStmt.(type) {
	case *ast.If:
		g.raw("if (")
		g.genExprPrec(e.Cond, precAssign)
		g.raw(") ")
		g.genBlockInline(e.Then)
		if e.Else != nil {
			g.genElse(e.Else)
		}
	case *ast.Block:
		g.genBlockInline(e)
	default:
		g.raw("{\n")
		g.indent++
		g.genStmt(elseStmt)
		g.indent--
		g.writeIndent()
		g.raw("}\n")
	}
}

// genUnless lowers `unless C { A } else { B }` to `if (!(C)) { A } else { B }`.
func (g *Generator) genUnless(n *ast.Unless) {
	g.writeIndent()
	g.raw("if (!(")
	g.genExprPrec(n.Cond, precAssign)
	g.raw(")) ")
	g.genBlockInline(n.Then)
	if n.Else != nil {
		g.genElse(n.Else)
	}
}

func (g *Generator) genTry(n *ast.Try) {
	g.writeIndent()
	g.raw("try ")
	g.genBlockInline(n.Body)
	if n.Catch != nil {
		s := strings.TrimRight(g.b.String(), "\n")
		g.b.Reset()
		g.b.WriteString(s)
		if n.Catch.Param != nil {
			g.raw(" catch (" + declTargetText(n.Catch.Param) + ") ")
		} else {
			g.raw(" catch ")
		}
		g.genBlockInline(n.Catch.Body)
	}
	if n.Finally != nil {
		s := strings.TrimRight(g.b.String(), "\n")
		g.b.Reset()
		g.b.WriteString(s)
		g.raw(" finally ")
		g.genBlockInline(n.Finally)
	}
}

// genIfSet lowers `ifset X as y { … } else { … }` to `const y = X; if (y
// !== null && y !== undefined) { … } else { … }`. An alias-less `ifset`
// still binds the scrutinee under a generated name to test presence, but
// the consequent body sees the original expression, not a narrowed
// binding.
func (g *Generator) genIfSet(n *ast.IfSet) {
	alias := n.Alias
	if alias == "" {
		alias = "__ifset" + strconv.Itoa(g.matchID)
		g.matchID++
	}
	g.writeIndent()
	g.raw("const " + alias + " = ")
	g.genExprPrec(n.Scrutinee, precAssign)
	g.raw(";\n")
	g.writeIndent()
	g.raw(fmt.Sprintf("if (%s !== null && %s !== undefined) ", alias, alias))
	g.genBlockInline(n.Then)
	if n.Else != nil {
		g.genElse(n.Else)
	}
}

// genSelect lowers `select { case v = ch.receive() => … }` to a
// Promise.race over each channel tagged with its case index, then an
// if-cascade that binds v and runs the matching arm.
func (g *Generator) genSelect(n *ast.Select) {
	subj := fmt.Sprintf("__select%d", g.matchID)
	g.matchID++
	g.writeIndent()
	g.raw(fmt.Sprintf("const %s = await Promise.race([\n", subj))
	g.indent++
	for i, c := range n.Cases {
		g.writeIndent()
		g.raw(fmt.Sprintf("("))
		g.genExprPrec(c.Channel, precPrimary)
		g.raw(fmt.Sprintf(").receive().then(v => ({ __case: %d, v })),\n", i))
	}
	g.indent--
	g.writeIndent()
	g.raw("]);\n")
	for i, c := range n.Cases {
		if i == 0 {
			g.writeIndent()
			g.raw(fmt.Sprintf("if (%s.__case === %d) ", subj, i))
		} else {
			s := strings.TrimRight(g.b.String(), "\n")
			g.b.Reset()
			g.b.WriteString(s)
			g.raw(fmt.Sprintf(" else if (%s.__case === %d) ", subj, i))
		}
		if c.Binding != "" {
			g.raw("{\n")
			g.indent++
			g.line("const %s = %s.v;", c.Binding, subj)
			for _, st := range c.Body.Stmts {
				g.genStmt(st)
			}
			g.indent--
			g.writeIndent()
			g.raw("}\n")
		} else {
			g.genBlockInline(c.Body)
		}
	}
	if n.Default != nil {
		s := strings.TrimRight(g.b.String(), "\n")
		g.b.Reset()
		g.b.WriteString(s)
		g.raw(" else ")
		g.genBlockInline(n.Default)
	}
}
