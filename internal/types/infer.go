package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ntl-lang/ntlc/internal/ast"
	"github.com/ntl-lang/ntlc/internal/diag"
)

// Inferer walks an already scope-checked AST and assigns a structural
// Type to every expression/declaration. In strict mode, compatibility
// misses on variable declarations and plain `=` assignments escalate from
// warnings to TYPE_MISMATCH errors.
type Inferer struct {
	strict  bool
	diags   []diag.Diagnostic
	classes map[string]*Class
}

// Infer runs the type inferer over file and returns every diagnostic it
// produced (warnings always; TYPE_MISMATCH errors only in strict mode).
func Infer(file string, f *ast.File, strict bool) []diag.Diagnostic {
	in := &Inferer{strict: strict, classes: map[string]*Class{}}
	env := builtinEnv()
	in.collectClasses(f.Decls)
	for _, d := range f.Decls {
		in.inferStmt(env, d.(ast.Stmt))
	}
	return in.diags
}

func (in *Inferer) collectClasses(decls []ast.Decl) {
	for _, d := range decls {
		if cd, ok := d.(*ast.ClassDecl); ok {
			in.classes[cd.Name.Name] = in.buildClassType(cd, nil)
		}
	}
	// resolve super links now that every class type exists
	for _, d := range decls {
		cd, ok := d.(*ast.ClassDecl)
		if !ok {
			continue
		}
		ct := in.classes[cd.Name.Name]
		if id, ok := cd.Super.(*ast.Ident); ok {
			if super, ok := in.classes[id.Name]; ok {
				ct.Super = super
			}
		}
	}
}

func (in *Inferer) buildClassType(cd *ast.ClassDecl, env *Env) *Class {
	c := NewClass(cd.Name.Name)
	for _, m := range cd.Members {
		switch mm := m.(type) {
		case *ast.FieldMember:
			if mm.TypeAnn != nil {
				c.Fields[mm.Name.Name] = in.resolveTypeExpr(env, mm.TypeAnn)
			} else {
				c.Fields[mm.Name.Name] = AnyType{}
			}
		case *ast.MethodMember:
			c.Methods[mm.Name.Name] = in.funcTypeOf(env, mm.Params, mm.ReturnType)
		}
	}
	return c
}

func (in *Inferer) funcTypeOf(env *Env, params []*ast.Param, ret ast.TypeExpr) *Function {
	f := &Function{}
	for _, p := range params {
		name := paramName(p.Target)
		var t Type = AnyType{}
		if p.TypeAnn != nil {
			t = in.resolveTypeExpr(env, p.TypeAnn)
		}
		f.Params = append(f.Params, FuncParam{Name: name, Type: t})
	}
	if ret != nil {
		f.Return = in.resolveTypeExpr(env, ret)
	} else {
		f.Return = AnyType{}
	}
	return f
}

func paramName(t ast.DeclTarget) string {
	if id, ok := t.(*ast.Ident); ok {
		return id.Name
	}
	return "_"
}

func (in *Inferer) warn(line, col int, code diag.Code, msg string) {
	in.diags = append(in.diags, diag.New(diag.PhaseType, diag.SeverityWarning, code, line, col, msg))
}

func (in *Inferer) reportMismatch(line, col int, msg string) {
	sev := diag.SeverityWarning
	if in.strict {
		sev = diag.SeverityError
	}
	in.diags = append(in.diags, diag.New(diag.PhaseType, sev, diag.CodeTypeMismatch, line, col, msg))
}

// --- statements ------------------------------------------------------------

func (in *Inferer) inferStmt(env *Env, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.TopLevelStmt:
		in.inferStmt(env, n.Inner)
	case *ast.VarDecl:
		in.inferVarDecl(env, n)
	case *ast.MultiVarDecl:
		for _, d := range n.Decls {
			in.inferVarDecl(env, d)
		}
	case *ast.FnDecl:
		ft := in.funcTypeOf(env, n.Params, n.ReturnType)
		env.SetValue(n.Name.Name, ft)
		in.inferFuncBody(env, n.Params, n.Body, ft.Return)
	case *ast.ClassDecl:
		ct := in.classes[n.Name.Name]
		if ct == nil {
			ct = in.buildClassType(n, env)
			in.classes[n.Name.Name] = ct
		}
		env.SetValue(n.Name.Name, ct)
		inner := NewEnv(env)
		inner.SetValue("this", ct)
		for _, m := range n.Members {
			if mm, ok := m.(*ast.MethodMember); ok {
				mft := ct.Methods[mm.Name.Name]
				if mft == nil {
					mft = in.funcTypeOf(env, mm.Params, mm.ReturnType)
				}
				in.inferFuncBody(inner, mm.Params, mm.Body, mft.Return)
			}
			if fm, ok := m.(*ast.FieldMember); ok && fm.Init != nil {
				in.inferExpr(inner, fm.Init)
			}
		}
	case *ast.EnumDecl:
		enumObj := NewObject()
		for _, m := range n.Members {
			enumObj.Set(m.Name, Number)
		}
		env.SetValue(n.Name.Name, enumObj)
	case *ast.TypeAlias:
		if n.Underlying != nil {
			env.SetType(n.Name.Name, in.resolveTypeExpr(env, n.Underlying))
		}
	case *ast.ImmutableDecl:
		in.inferVarDecl(env, n.Var)
	case *ast.UsingDecl:
		var t Type = AnyType{}
		if n.Init != nil {
			t = in.inferExpr(env, n.Init)
		}
		bindTarget(env, n.Target, t)
	case *ast.NamespaceDecl:
		inner := NewEnv(env)
		for _, d := range n.Decls {
			in.inferStmt(inner, d.(ast.Stmt))
		}
	case *ast.DeclareStmt:
		if n.Inner != nil {
			in.inferStmt(env, n.Inner.(ast.Stmt))
		}
	case *ast.Export:
		if n.Inner != nil {
			in.inferStmt(env, n.Inner.(ast.Stmt))
		}
	case *ast.Block:
		in.inferBlock(env, n)
	case *ast.ExprStmt:
		in.inferExpr(env, n.X)
	case *ast.If:
		in.inferExpr(env, n.Cond)
		in.inferBlock(env, n.Then)
		if n.Else != nil {
			in.inferStmt(env, n.Else)
		}
	case *ast.Unless:
		in.inferExpr(env, n.Cond)
		in.inferBlock(env, n.Then)
		if n.Else != nil {
			in.inferStmt(env, n.Else)
		}
	case *ast.While:
		in.inferExpr(env, n.Cond)
		in.inferBlock(env, n.Body)
	case *ast.DoWhile:
		in.inferBlock(env, n.Body)
		in.inferExpr(env, n.Cond)
	case *ast.ForOf:
		elemT := elemOf(in.inferExpr(env, n.Iter))
		inner := NewEnv(env)
		bindTarget(inner, n.Target, elemT)
		in.inferBlock(inner, n.Body)
	case *ast.ForIn:
		inner := NewEnv(env)
		bindTarget(inner, n.Target, String_)
		in.inferBlock(inner, n.Body)
	case *ast.Loop:
		in.inferBlock(env, n.Body)
	case *ast.Return:
		if n.Value != nil {
			in.inferExpr(env, n.Value)
		}
	case *ast.Throw:
		in.inferExpr(env, n.Value)
	case *ast.Try:
		in.inferBlock(env, n.Body)
		if n.Catch != nil {
			inner := NewEnv(env)
			if n.Catch.Param != nil {
				bindTarget(inner, n.Catch.Param, AnyType{})
			}
			in.inferBlock(inner, n.Catch.Body)
		}
		if n.Finally != nil {
			in.inferBlock(env, n.Finally)
		}
	case *ast.Match:
		in.inferExpr(env, n.Subject)
		for _, c := range n.Cases {
			inner := NewEnv(env)
			in.inferBlock(inner, c.Body)
		}
	case *ast.IfSet:
		in.inferExpr(env, n.Scrutinee)
		in.inferBlock(NewEnv(env), n.Then)
		if n.Else != nil {
			in.inferBlock(env, n.Else)
		}
	case *ast.Spawn:
		in.inferExpr(env, n.X)
	case *ast.Select:
		for _, c := range n.Cases {
			in.inferExpr(env, c.Channel)
			in.inferBlock(NewEnv(env), c.Body)
		}
		if n.Default != nil {
			in.inferBlock(env, n.Default)
		}
	}
}

func (in *Inferer) inferBlock(parent *Env, b *ast.Block) {
	if b == nil {
		return
	}
	env := NewEnv(parent)
	for _, s := range b.Stmts {
		in.inferStmt(env, s)
	}
}

func (in *Inferer) inferFuncBody(parent *Env, params []*ast.Param, body *ast.Block, ret Type) {
	env := NewEnv(parent)
	for _, p := range params {
		var t Type = AnyType{}
		if p.TypeAnn != nil {
			t = in.resolveTypeExpr(parent, p.TypeAnn)
		}
		bindTarget(env, p.Target, t)
	}
	in.inferBlock(env, body)
	_ = ret
}

func bindTarget(env *Env, t ast.DeclTarget, val Type) {
	switch n := t.(type) {
	case *ast.Ident:
		env.SetValue(n.Name, val)
	case *ast.ObjectPattern:
		for _, p := range n.Props {
			if p.Alias != nil {
				bindTarget(env, p.Alias, AnyType{})
			} else {
				env.SetValue(p.Key, AnyType{})
			}
		}
	case *ast.ArrayPattern:
		for _, it := range n.Items {
			if it.Target != nil {
				bindTarget(env, it.Target, AnyType{})
			}
		}
	}
}

// inferVarDecl infers the initializer when present; when an annotation is
// also present, it checks assignability and prefers the annotation as the
// declared type. With no initializer, it uses the annotation or any.
func (in *Inferer) inferVarDecl(env *Env, n *ast.VarDecl) {
	var declared Type
	var initT Type
	if n.TypeAnn != nil {
		declared = in.resolveTypeExpr(env, n.TypeAnn)
	}
	if n.Init != nil {
		initT = in.inferExpr(env, n.Init)
		if declared != nil {
			if !Assignable(declared, initT) {
				sp := n.Span()
				in.reportMismatch(sp.Line, sp.Column, fmt.Sprintf(
					"cannot assign initializer of type %s to declaration of type %s",
					initT.String(), declared.String()))
			}
		}
	}
	var final Type
	switch {
	case declared != nil:
		final = declared
	case initT != nil:
		final = initT
	default:
		final = AnyType{}
	}
	bindTarget(env, n.Target, final)
}

// --- expressions -----------------------------------------------------------

func (in *Inferer) inferExpr(env *Env, e ast.Expr) Type {
	if e == nil {
		return AnyType{}
	}
	switch n := e.(type) {
	case *ast.NumberLit:
		if n.BigInt {
			return BigInt
		}
		return Number
	case *ast.StringLit:
		return String_
	case *ast.BoolLit:
		return Boolean
	case *ast.NullLit:
		return NullType{}
	case *ast.UndefinedLit:
		return UndefinedType{}
	case *ast.TemplateLit:
		for _, p := range n.Parts {
			if p.IsExpr && p.Expr != nil {
				in.inferExpr(env, p.Expr)
			}
		}
		return String_
	case *ast.This:
		if t, ok := env.LookupValue("this"); ok {
			return t
		}
		return AnyType{}
	case *ast.Super:
		return AnyType{}
	case *ast.Ident:
		if t, ok := env.LookupValue(n.Name); ok {
			return t
		}
		// scope analysis already reported hard misses; strict mode only warns.
		if in.strict {
			in.warn(n.Span().Line, n.Span().Column, diag.CodeUndefVar,
				fmt.Sprintf("no inferred type for %q", n.Name))
		}
		return AnyType{}
	case *ast.ArrayLit:
		var elems []Type
		for _, el := range n.Elements {
			if el == nil {
				elems = append(elems, UndefinedType{})
				continue
			}
			if sp, ok := el.(*ast.SpreadElement); ok {
				elems = append(elems, elemOf(in.inferExpr(env, sp.X)))
				continue
			}
			elems = append(elems, in.inferExpr(env, el))
		}
		return Array{Elem: NewUnion(elems...)}
	case *ast.ObjectLit:
		obj := NewObject()
		for _, p := range n.Props {
			switch p.Kind {
			case ast.PropMethod, ast.PropGetter, ast.PropSetter:
				inner := NewEnv(env)
				ft := in.funcTypeOf(env, p.Params, nil)
				in.inferFuncBody(inner, p.Params, p.Body, ft.Return)
				obj.Set(p.Key, ft)
			case ast.PropSpread:
				if src, ok := in.inferExpr(env, p.Value).(*Object); ok {
					for _, k := range src.Order {
						obj.Set(k, src.Fields[k])
					}
				}
			default:
				if p.Computed != nil {
					in.inferExpr(env, p.Computed)
				}
				var vt Type = AnyType{}
				if p.Value != nil {
					vt = in.inferExpr(env, p.Value)
				}
				obj.Set(p.Key, vt)
			}
		}
		return obj
	case *ast.FuncExpr:
		ft := in.funcTypeOf(env, n.Params, n.ReturnType)
		in.inferFuncBody(env, n.Params, n.Body, ft.Return)
		return ft
	case *ast.ArrowFunc:
		ft := in.funcTypeOf(env, n.Params, n.ReturnType)
		inner := NewEnv(env)
		for _, p := range n.Params {
			var t Type = AnyType{}
			if p.TypeAnn != nil {
				t = in.resolveTypeExpr(env, p.TypeAnn)
			}
			bindTarget(inner, p.Target, t)
		}
		if n.BlockBody != nil {
			in.inferBlock(inner, n.BlockBody)
		} else if n.ExprBody != nil {
			ret := in.inferExpr(inner, n.ExprBody)
			if n.ReturnType == nil {
				ft.Return = ret
			}
		}
		return ft
	case *ast.MemberExpr:
		return in.inferMember(env, n)
	case *ast.CallExpr:
		return in.inferCall(env, n)
	case *ast.NewExpr:
		in.inferExpr(env, n.Callee)
		for _, a := range n.Args {
			in.inferExpr(env, a)
		}
		if id, ok := n.Callee.(*ast.Ident); ok {
			if c, ok := in.classes[id.Name]; ok {
				return c
			}
		}
		return AnyType{}
	case *ast.BindExpr:
		in.inferExpr(env, n.Object)
		return AnyType{}
	case *ast.UnaryExpr:
		return in.inferUnary(env, n)
	case *ast.BinaryExpr:
		return in.inferBinary(env, n)
	case *ast.AsExpr:
		in.inferExpr(env, n.X)
		return in.resolveTypeExpr(env, n.Type)
	case *ast.SatisfiesExpr:
		t := in.inferExpr(env, n.X)
		target := in.resolveTypeExpr(env, n.Type)
		if !Assignable(target, t) {
			sp := n.Span()
			in.reportMismatch(sp.Line, sp.Column, fmt.Sprintf(
				"%s does not satisfy %s", t.String(), target.String()))
		}
		return t
	case *ast.AssignExpr:
		return in.inferAssign(env, n)
	case *ast.TernaryExpr:
		in.inferExpr(env, n.Cond)
		t1 := in.inferExpr(env, n.Then)
		t2 := in.inferExpr(env, n.Else)
		return NewUnion(t1, t2)
	case *ast.AwaitExpr:
		in.inferExpr(env, n.X)
		return AnyType{}
	case *ast.YieldExpr:
		if n.X != nil {
			in.inferExpr(env, n.X)
		}
		return AnyType{}
	case *ast.SequenceExpr:
		var last Type = AnyType{}
		for _, ex := range n.Exprs {
			last = in.inferExpr(env, ex)
		}
		return last
	case *ast.SpreadElement:
		return in.inferExpr(env, n.X)
	case *ast.HaveExpr:
		in.inferExpr(env, n.X)
		return Boolean
	case *ast.RequireExpr:
		in.inferExpr(env, n.Path)
		return AnyType{}
	case *ast.DecoratedExpr:
		for _, d := range n.Decorators {
			in.inferExpr(env, d)
		}
		return in.inferExpr(env, n.Inner)
	case *ast.ChannelExpr:
		return Generic{Name: "Channel", Args: []Type{AnyType{}}}
	case *ast.Match:
		in.inferExpr(env, n.Subject)
		var results []Type
		for _, c := range n.Cases {
			inner := NewEnv(env)
			in.inferBlock(inner, c.Body)
			results = append(results, AnyType{})
		}
		return NewUnion(results...)
	}
	return AnyType{}
}

func (in *Inferer) inferMember(env *Env, n *ast.MemberExpr) Type {
	objT := in.inferExpr(env, n.Object)
	if n.Computed {
		in.inferExpr(env, n.Index)
		return elemOf(objT)
	}
	switch t := objT.(type) {
	case Array:
		if mt, ok := arrayMemberType(n.Property); ok {
			return mt
		}
	case *Object:
		if f, ok := t.Fields[n.Property]; ok {
			return f
		}
	case *Class:
		if f, ok := t.Lookup(n.Property); ok {
			return f
		}
	case Primitive:
		if t.Name == "string" {
			if mt, ok := stringMemberType(n.Property); ok {
				return mt
			}
		}
	case Literal:
		if t.Base.Name == "string" {
			if mt, ok := stringMemberType(n.Property); ok {
				return mt
			}
		}
	}
	return AnyType{}
}

func (in *Inferer) inferCall(env *Env, n *ast.CallExpr) Type {
	calleeT := in.inferExpr(env, n.Callee)
	for _, a := range n.Args {
		in.inferExpr(env, a)
	}
	switch ft := calleeT.(type) {
	case *Function:
		if ft.Return != nil {
			return ft.Return
		}
		return AnyType{}
	case *Class:
		return ft
	}
	return AnyType{}
}

func (in *Inferer) inferUnary(env *Env, n *ast.UnaryExpr) Type {
	t := in.inferExpr(env, n.X)
	switch n.Op {
	case ast.OpTypeof:
		return String_
	case ast.OpNot:
		return Boolean
	case ast.OpVoid:
		return UndefinedType{}
	case ast.OpDelete:
		return Boolean
	default:
		_ = t
		return Number
	}
}

func (in *Inferer) inferBinary(env *Env, n *ast.BinaryExpr) Type {
	lt := in.inferExpr(env, n.Left)
	rt := in.inferExpr(env, n.Right)
	switch n.Op {
	case "+":
		if isStringy(lt) || isStringy(rt) {
			return String_
		}
		return Number
	case "-", "*", "/", "%", "**", "&", "|", "^", "<<", ">>", ">>>":
		return Number
	case "===", "!==", "==", "!=", "<", ">", "<=", ">=", "instanceof", "in":
		return Boolean
	case "&&":
		return NewUnion(lt, rt)
	case "||":
		return NewUnion(lt, rt)
	case "??":
		return NewUnion(nonNullish(lt), rt)
	case "|>":
		if ft, ok := rt.(*Function); ok && ft.Return != nil {
			return ft.Return
		}
		return AnyType{}
	default:
		return AnyType{}
	}
}

func isStringy(t Type) bool {
	if p, ok := t.(Primitive); ok && p.Name == "string" {
		return true
	}
	if l, ok := t.(Literal); ok && l.Base.Name == "string" {
		return true
	}
	return false
}

func nonNullish(t Type) Type {
	if u, ok := t.(Union); ok {
		var kept []Type
		for _, m := range u.Types {
			if _, isNull := m.(NullType); isNull {
				continue
			}
			if _, isUndef := m.(UndefinedType); isUndef {
				continue
			}
			kept = append(kept, m)
		}
		return NewUnion(kept...)
	}
	return t
}

func elemOf(t Type) Type {
	switch a := t.(type) {
	case Array:
		return a.Elem
	case Generic:
		if len(a.Args) > 0 {
			return a.Args[0]
		}
	}
	return AnyType{}
}

// inferAssign implements compound assignment typing and the strict-mode
// TYPE_MISMATCH check on plain `=` assignments.
func (in *Inferer) inferAssign(env *Env, n *ast.AssignExpr) Type {
	valT := in.inferExpr(env, n.Value)
	targetT := in.inferExpr(env, n.Target)
	if n.Op == "=" {
		if !Assignable(targetT, valT) {
			sp := n.Span()
			in.reportMismatch(sp.Line, sp.Column, fmt.Sprintf(
				"cannot assign value of type %s to target of type %s", valT.String(), targetT.String()))
		}
		return valT
	}
	return targetT
}

// --- type-expression resolution --------------------------------------------

func (in *Inferer) resolveTypeExpr(env *Env, t ast.TypeExpr) Type {
	if t == nil {
		return AnyType{}
	}
	switch n := t.(type) {
	case *ast.NamedType:
		name := strings.Join(n.Path, ".")
		if env != nil {
			if resolved, ok := env.LookupType(name); ok {
				if len(n.Args) == 0 {
					return resolved
				}
			}
		}
		if resolved, ok := primitiveTypes[name]; ok {
			return resolved
		}
		if c, ok := in.classes[name]; ok {
			return c
		}
		if len(n.Args) == 0 {
			return Generic{Name: name}
		}
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = in.resolveTypeExpr(env, a)
		}
		return Generic{Name: name, Args: args}
	case *ast.LiteralType:
		return in.inferExpr(env, n.Value)
	case *ast.ArrayType:
		return Array{Elem: in.resolveTypeExpr(env, n.Elem)}
	case *ast.TupleType:
		elems := make([]Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = in.resolveTypeExpr(env, e)
		}
		return Tuple{Elems: elems}
	case *ast.ObjectType:
		obj := NewObject()
		for _, f := range n.Fields {
			ft := in.resolveTypeExpr(env, f.Type)
			if f.Optional {
				ft = NewUnion(ft, UndefinedType{})
			}
			obj.Set(f.Name, ft)
		}
		return obj
	case *ast.FunctionType:
		f := &Function{}
		for _, p := range n.Params {
			f.Params = append(f.Params, FuncParam{Name: p.Name, Type: in.resolveTypeExpr(env, p.Type)})
		}
		f.Return = in.resolveTypeExpr(env, n.Return)
		return f
	case *ast.UnionType:
		parts := make([]Type, len(n.Types))
		for i, tt := range n.Types {
			parts[i] = in.resolveTypeExpr(env, tt)
		}
		return NewUnion(parts...)
	case *ast.IntersectionType:
		return in.resolveIntersection(env, n.Types)
	case *ast.OptionalType:
		return NewUnion(in.resolveTypeExpr(env, n.Inner), UndefinedType{})
	case *ast.TypeOfType:
		return in.inferExpr(env, n.X)
	case *ast.KeyOfType:
		inner := in.resolveTypeExpr(env, n.Inner)
		if obj, ok := inner.(*Object); ok {
			keys := make([]Type, len(obj.Order))
			for i, k := range obj.Order {
				keys[i] = Literal{Raw: strconv.Quote(k), Base: String_}
			}
			return NewUnion(keys...)
		}
		return AnyType{}
	case *ast.InferType:
		return AnyType{}
	}
	return AnyType{}
}

// resolveIntersection merges object-shaped members structurally; the
// closed type-tag set has no dedicated canonical tag for intersections.
func (in *Inferer) resolveIntersection(env *Env, types []ast.TypeExpr) Type {
	merged := NewObject()
	allObjects := true
	for _, te := range types {
		rt := in.resolveTypeExpr(env, te)
		if obj, ok := rt.(*Object); ok {
			for _, k := range obj.Order {
				merged.Set(k, obj.Fields[k])
			}
		} else {
			allObjects = false
		}
	}
	if allObjects {
		return merged
	}
	if len(types) > 0 {
		return in.resolveTypeExpr(env, types[0])
	}
	return AnyType{}
}
