package types

// Assignable reports whether a value of type src can be assigned where
// target is expected: any is bidirectionally compatible; never is a
// bottom type; structural equality is by printed form; unions use
// any-compatible-member on the target side and all-compatible-member on
// the source side; a literal is assignable to its base primitive.
func Assignable(target, src Type) bool {
	if target == nil || src == nil {
		return true
	}
	if _, ok := target.(AnyType); ok {
		return true
	}
	if _, ok := src.(AnyType); ok {
		return true
	}
	if _, ok := src.(NeverType); ok {
		return true
	}
	if target.String() == src.String() {
		return true
	}
	if tu, ok := target.(Union); ok {
		for _, m := range tu.Types {
			if Assignable(m, src) {
				return true
			}
		}
		return false
	}
	if su, ok := src.(Union); ok {
		for _, m := range su.Types {
			if !Assignable(target, m) {
				return false
			}
		}
		return true
	}
	if lit, ok := src.(Literal); ok {
		return Assignable(target, lit.Base)
	}
	if _, ok := target.(UnknownType); ok {
		return true
	}
	if ta, ok := target.(Array); ok {
		if sa, ok2 := src.(Array); ok2 {
			return Assignable(ta.Elem, sa.Elem)
		}
		return false
	}
	if to, ok := target.(*Object); ok {
		so, ok2 := src.(*Object)
		if !ok2 {
			return false
		}
		for name, ft := range to.Fields {
			sf, present := so.Fields[name]
			if !present || !Assignable(ft, sf) {
				return false
			}
		}
		return true
	}
	if tc, ok := target.(*Class); ok {
		sc, ok2 := src.(*Class)
		if !ok2 {
			return false
		}
		for cur := sc; cur != nil; cur = cur.Super {
			if cur == tc || cur.Name == tc.Name {
				return true
			}
		}
		return false
	}
	return false
}
