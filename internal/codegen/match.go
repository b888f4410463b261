package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ntl-lang/ntlc/internal/ast"
)

// channelLiteral is the inline object `channel()` lowers to: a
// single-producer/single-consumer async rendezvous with an unbounded
// queue and FIFO-ordered pending receivers.
const channelLiteral = `{
  _queue: [],
  _listeners: [],
  send(v) {
    if (this._listeners.length > 0) {
      this._listeners.shift()(v);
    } else {
      this._queue.push(v);
    }
  },
  receive() {
    return new Promise(resolve => {
      if (this._queue.length > 0) {
        resolve(this._queue.shift());
      } else {
        this._listeners.push(resolve);
      }
    });
  },
}`

// genMatch lowers a match statement to a fresh subject binding followed
// by an if/else-if cascade.
func (g *Generator) genMatch(n *ast.Match, _ string) {
	subj := fmt.Sprintf("__match%d", g.matchID)
	g.matchID++
	g.writeIndent()
	g.raw("const " + subj + " = ")
	g.genExprPrec(n.Subject, precAssign)
	g.raw(";\n")
	g.genMatchCascade(n.Cases, subj, false)
}

// genMatchExpr lowers a match used in expression position to an
// immediately invoked arrow function; each case's trailing expression
// statement becomes its return value.
func (g *Generator) genMatchExpr(n *ast.Match) {
	subj := fmt.Sprintf("__match%d", g.matchID)
	g.matchID++
	g.raw("(() => {\n")
	g.indent++
	g.line("const %s = %s;", subj, exprToString(n.Subject))
	g.genMatchCascade(n.Cases, subj, true)
	g.indent--
	g.writeIndent()
	g.raw("})()")
}

func (g *Generator) genMatchCascade(cases []ast.MatchCase, subj string, asExpr bool) {
	for i, c := range cases {
		var preds []string
		var allBindings []string
		if !c.IsDefault {
			for _, p := range c.Patterns {
				pred, bindings := patternCheck(p, subj)
				preds = append(preds, pred)
				allBindings = append(allBindings, bindings...)
			}
		}
		cond := strings.Join(preds, " || ")
		if c.Guard != nil {
			guard := exprToString(c.Guard)
			if cond != "" {
				cond = "(" + cond + ") && " + guard
			} else {
				cond = guard
			}
		}
		switch {
		case i == 0 && cond != "":
			g.writeIndent()
			g.raw("if (" + cond + ") {\n")
		case i == 0:
			g.writeIndent()
			g.raw("{\n")
		case cond != "":
			s := strings.TrimRight(g.b.String(), "\n")
			g.b.Reset()
			g.b.WriteString(s)
			g.raw(" else if (" + cond + ") {\n")
		default:
			s := strings.TrimRight(g.b.String(), "\n")
			g.b.Reset()
			g.b.WriteString(s)
			g.raw(" else {\n")
		}
		g.indent++
		for _, bind := range allBindings {
			g.line("%s", bind)
		}
		body := c.Body.Stmts
		for j, st := range body {
			if asExpr && j == len(body)-1 {
				if es, ok := st.(*ast.ExprStmt); ok {
					g.writeIndent()
					g.raw("return ")
					g.genExprPrec(es.X, precAssign)
					g.raw(";\n")
					continue
				}
			}
			g.genStmt(st)
		}
		g.indent--
		g.writeIndent()
		g.raw("}\n")
	}
}

// patternCheck returns the JS boolean predicate and const-binding
// statements for matching pat against the value at path.
func patternCheck(pat ast.MatchPattern, path string) (string, []string) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return "true", nil
	case *ast.BindingPattern:
		return "true", []string{fmt.Sprintf("const %s = %s;", p.Name, path)}
	case *ast.LiteralPattern:
		return path + " === " + exprToString(p.Value), nil
	case *ast.EnumValPattern:
		return path + " === " + strings.Join(p.Path, "."), nil
	case *ast.VariantPattern:
		pred := fmt.Sprintf("(%s && %s._tag === %s)", path, path, strconv.Quote(p.Name))
		var bindings []string
		var extra []string
		for i, f := range p.Fields {
			fieldPath := fmt.Sprintf("%s._%d", path, i)
			fp, fb := patternCheck(f, fieldPath)
			if fp != "true" {
				extra = append(extra, fp)
			}
			bindings = append(bindings, fb...)
		}
		if len(extra) > 0 {
			pred = pred + " && " + strings.Join(extra, " && ")
		}
		return pred, bindings
	case *ast.MatchArrayPattern:
		pred := fmt.Sprintf("Array.isArray(%s)", path)
		var bindings []string
		for i, it := range p.Items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			ip, ib := patternCheck(it, itemPath)
			if ip != "true" {
				pred += " && " + ip
			}
			bindings = append(bindings, ib...)
		}
		return pred, bindings
	case *ast.MatchObjectPattern:
		// Object patterns in match arms bind every listed key
		// unconditionally, even when the field is absent on the subject;
		// this is not treated as a non-match.
		pred := "true"
		var bindings []string
		for _, prop := range p.Props {
			propPath := fmt.Sprintf("%s.%s", path, prop.Key)
			if prop.Pattern != nil {
				pp, pb := patternCheck(prop.Pattern, propPath)
				if pp != "true" {
					pred += " && " + pp
				}
				bindings = append(bindings, pb...)
			} else {
				bindings = append(bindings, fmt.Sprintf("const %s = %s;", prop.Key, propPath))
			}
		}
		return pred, bindings
	}
	return "true", nil
}
