package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ntl-lang/ntlc/internal/ast"
)

func exprPrec(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.AssignExpr:
		return precAssign
	case *ast.TernaryExpr:
		return precTernary
	case *ast.YieldExpr:
		return precAssign
	case *ast.ArrowFunc:
		return precAssign
	case *ast.BinaryExpr:
		if p, ok := binaryPrec[n.Op]; ok {
			return p
		}
		return precAdditive
	case *ast.UnaryExpr:
		switch n.Op {
		case ast.OpPostIncr, ast.OpPostDecr:
			return precPostfix
		default:
			return precUnary
		}
	case *ast.AwaitExpr, *ast.SpreadElement:
		return precUnary
	case *ast.AsExpr, *ast.SatisfiesExpr:
		return precPostfix
	case *ast.SequenceExpr:
		return 0
	case *ast.CallExpr, *ast.NewExpr, *ast.MemberExpr, *ast.BindExpr:
		return precPrimary
	default:
		return precPrimary
	}
}

// genExprPrec emits e, wrapping it in parentheses only when its own
// precedence is strictly lower than minPrec.
func (g *Generator) genExprPrec(e ast.Expr, minPrec int) {
	if exprPrec(e) < minPrec {
		g.raw("(")
		g.genExpr(e)
		g.raw(")")
		return
	}
	g.genExpr(e)
}

func (g *Generator) genExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.NumberLit:
		g.raw(n.Raw)
		if n.BigInt {
			g.raw("n")
		}
	case *ast.StringLit:
		g.raw(strconv.Quote(n.Value))
	case *ast.BoolLit:
		if n.Value {
			g.raw("true")
		} else {
			g.raw("false")
		}
	case *ast.NullLit:
		g.raw("null")
	case *ast.UndefinedLit:
		g.raw("undefined")
	case *ast.TemplateLit:
		g.genTemplate(n)
	case *ast.This:
		g.raw("this")
	case *ast.Super:
		g.raw("super")
	case *ast.Ident:
		g.raw(n.Name)
	case *ast.SpreadElement:
		g.raw("...")
		g.genExprPrec(n.X, precUnary)
	case *ast.ArrayLit:
		g.genArrayLit(n)
	case *ast.ObjectLit:
		g.genObjectLit(n)
	case *ast.FuncExpr:
		g.genFuncExpr(n)
	case *ast.ArrowFunc:
		g.genArrowFunc(n)
	case *ast.MemberExpr:
		g.genMemberExpr(n)
	case *ast.CallExpr:
		g.genCallExpr(n)
	case *ast.NewExpr:
		g.raw("new ")
		g.genExprPrec(n.Callee, precPrimary)
		g.raw("(")
		g.genArgs(n.Args)
		g.raw(")")
	case *ast.BindExpr:
		g.genBindExpr(n)
	case *ast.UnaryExpr:
		g.genUnaryExpr(n)
	case *ast.BinaryExpr:
		g.genBinaryExpr(n)
	case *ast.AsExpr:
		g.genExprPrec(n.X, precPostfix)
	case *ast.SatisfiesExpr:
		g.genExprPrec(n.X, precPostfix)
	case *ast.AssignExpr:
		g.genExprPrec(n.Target, precPostfix)
		g.raw(" " + n.Op + " ")
		g.genExprPrec(n.Value, precAssign)
	case *ast.TernaryExpr:
		g.genExprPrec(n.Cond, precNullish)
		g.raw(" ? ")
		g.genExprPrec(n.Then, precAssign)
		g.raw(" : ")
		g.genExprPrec(n.Else, precAssign)
	case *ast.AwaitExpr:
		g.raw("await ")
		g.genExprPrec(n.X, precUnary)
	case *ast.YieldExpr:
		g.raw("yield")
		if n.Delegate {
			g.raw("*")
		}
		if n.X != nil {
			g.raw(" ")
			g.genExprPrec(n.X, precAssign)
		}
	case *ast.SequenceExpr:
		parts := make([]string, len(n.Exprs))
		for i, ex := range n.Exprs {
			parts[i] = exprToString(ex)
		}
		g.raw(strings.Join(parts, ", "))
	case *ast.ChannelExpr:
		g.raw(channelLiteral)
	case *ast.HaveExpr:
		g.genExprPrec(n.X, precRelational)
		g.raw(" !== null && ")
		g.genExprPrec(n.X, precRelational)
		g.raw(" !== undefined")
	case *ast.RequireExpr:
		g.raw("require(")
		g.genExprPrec(n.Path, precAssign)
		g.raw(")")
	case *ast.DecoratedExpr:
		g.genDecoratedExpr(n)
	case *ast.Match:
		g.genMatchExpr(n)
	}
}

func (g *Generator) genArgs(args []ast.Expr) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = exprToString(a)
	}
	g.raw(strings.Join(parts, ", "))
}

// genTemplate emits a backtick string; each embedded expression part was
// already re-parsed into an Expr by the parser.
func (g *Generator) genTemplate(n *ast.TemplateLit) {
	g.raw("`")
	for _, p := range n.Parts {
		if p.IsExpr {
			g.raw("${")
			g.genExprPrec(p.Expr, precAssign)
			g.raw("}")
		} else {
			g.raw(escapeTemplateText(p.Text))
		}
	}
	g.raw("`")
}

func escapeTemplateText(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "`", "\\`", "${", "\\${")
	return r.Replace(s)
}

func (g *Generator) genArrayLit(n *ast.ArrayLit) {
	g.raw("[")
	for i, el := range n.Elements {
		if i > 0 {
			g.raw(", ")
		}
		if el == nil {
			continue
		}
		g.genExprPrec(el, precAssign)
	}
	g.raw("]")
}

func (g *Generator) genObjectLit(n *ast.ObjectLit) {
	if len(n.Props) == 0 {
		g.raw("{}")
		return
	}
	g.raw("{ ")
	for i, p := range n.Props {
		if i > 0 {
			g.raw(", ")
		}
		g.genObjectProp(p)
	}
	g.raw(" }")
}

func (g *Generator) genObjectProp(p ast.ObjectProp) {
	key := p.Key
	if p.Computed != nil {
		key = "[" + exprToString(p.Computed) + "]"
	}
	switch p.Kind {
	case ast.PropShorthand:
		g.raw(key)
	case ast.PropSpread:
		g.raw("...")
		g.genExprPrec(p.Value, precUnary)
	case ast.PropMethod:
		g.raw(fmt.Sprintf("%s(%s) ", key, g.genParams(p.Params)))
		g.genBlockInline(p.Body)
	case ast.PropGetter:
		g.raw(fmt.Sprintf("get %s() ", key))
		g.genBlockInline(p.Body)
	case ast.PropSetter:
		g.raw(fmt.Sprintf("set %s(%s) ", key, g.genParams(p.Params)))
		g.genBlockInline(p.Body)
	default:
		g.raw(key + ": ")
		g.genExprPrec(p.Value, precAssign)
	}
}

func (g *Generator) genFuncExpr(n *ast.FuncExpr) {
	kw := "function"
	if n.Async {
		kw = "async function"
	}
	if n.Generator {
		kw += "*"
	}
	name := n.Name
	g.raw(fmt.Sprintf("%s %s(%s) ", kw, name, g.genParams(n.Params)))
	g.genBlockInline(n.Body)
}

func (g *Generator) genArrowFunc(n *ast.ArrowFunc) {
	if n.Async {
		g.raw("async ")
	}
	g.raw("(" + g.genParams(n.Params) + ") => ")
	if n.BlockBody != nil {
		g.genBlockInline(n.BlockBody)
	} else {
		if _, ok := n.ExprBody.(*ast.ObjectLit); ok {
			g.raw("(")
			g.genExprPrec(n.ExprBody, precAssign)
			g.raw(")")
		} else {
			g.genExprPrec(n.ExprBody, precAssign)
		}
	}
}

func (g *Generator) genMemberExpr(n *ast.MemberExpr) {
	g.genExprPrec(n.Object, precPrimary)
	switch {
	case n.Computed && n.Optional:
		g.raw("?.[")
		g.genExprPrec(n.Index, precAssign)
		g.raw("]")
	case n.Computed:
		g.raw("[")
		g.genExprPrec(n.Index, precAssign)
		g.raw("]")
	case n.Optional:
		g.raw("?." + n.Property)
	default:
		g.raw("." + n.Property)
	}
}

func (g *Generator) genCallExpr(n *ast.CallExpr) {
	g.genExprPrec(n.Callee, precPrimary)
	if n.Optional {
		g.raw("?.(")
	} else {
		g.raw("(")
	}
	g.genArgs(n.Args)
	g.raw(")")
}

// genBindExpr lowers `obj::method` to a bound method reference.
func (g *Generator) genBindExpr(n *ast.BindExpr) {
	g.genExprPrec(n.Object, precPrimary)
	g.raw("." + n.Method + ".bind(")
	g.genExprPrec(n.Object, precAssign)
	g.raw(")")
}

func (g *Generator) genUnaryExpr(n *ast.UnaryExpr) {
	switch n.Op {
	case ast.OpPostIncr:
		g.genExprPrec(n.X, precPostfix)
		g.raw("++")
	case ast.OpPostDecr:
		g.genExprPrec(n.X, precPostfix)
		g.raw("--")
	case ast.OpPreIncr:
		g.raw("++")
		g.genExprPrec(n.X, precUnary)
	case ast.OpPreDecr:
		g.raw("--")
		g.genExprPrec(n.X, precUnary)
	case ast.OpTypeof, ast.OpVoid, ast.OpDelete:
		g.raw(string(n.Op) + " ")
		g.genExprPrec(n.X, precUnary)
	default:
		g.raw(string(n.Op))
		g.genExprPrec(n.X, precUnary)
	}
}

func (g *Generator) genBinaryExpr(n *ast.BinaryExpr) {
	if n.Op == "|>" {
		// pipeline: `a |> b` -> `(b)(a)`
		g.raw("(")
		g.genExprPrec(n.Right, precAssign)
		g.raw(")(")
		g.genExprPrec(n.Left, precAssign)
		g.raw(")")
		return
	}
	p := binaryPrec[n.Op]
	g.genExprPrec(n.Left, p)
	g.raw(" " + n.Op + " ")
	g.genExprPrec(n.Right, p+1)
}

func (g *Generator) genDecoratedExpr(n *ast.DecoratedExpr) {
	// decorated expressions (anonymous function/class expressions) apply
	// their decorators inline as nested calls, the last decorator innermost:
	// dec1(dec2(inner))
	inner := exprToString(n.Inner)
	cur := inner
	for i := len(n.Decorators) - 1; i >= 0; i-- {
		cur = exprToString(n.Decorators[i]) + "(" + cur + ")"
	}
	g.raw(cur)
}
