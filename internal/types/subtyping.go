package types

import "fmt"

// IsSubtype implements the structural subtyping relation S <: T, applying
// the rules of spec.md §4.1 in priority order. It terminates because
// types are finite acyclic terms (spec.md §9).
func IsSubtype(s, t Type) bool {
	// Rule 1: identical pretty-printed form is a cheap, correct proxy for
	// structural equality across every Type variant defined in this
	// package (none of them carry non-structural identity).
	if s.String() == t.String() {
		return true
	}

	// Rule 2: Nothing is bottom.
	if _, ok := s.(Nothing); ok {
		return true
	}

	switch st := s.(type) {
	case List:
		if tt, ok := t.(List); ok {
			return IsSubtype(st.Elem, tt.Elem)
		}
	case Optional:
		if tt, ok := t.(Optional); ok {
			return IsSubtype(st.Elem, tt.Elem)
		}
	case Map:
		if tt, ok := t.(Map); ok {
			return st.Key.String() == tt.Key.String() && IsSubtype(st.Value, tt.Value)
		}
	case Record:
		if tt, ok := t.(Record); ok {
			return recordWidthDepth(st.Fields, tt.Fields)
		}
	case Function:
		if tt, ok := t.(Function); ok {
			return functionSubtype(st, tt)
		}
	}

	// Rule 6a: S <: Union(M) iff S is a subtype of some member. A union S
	// is decomposed by rule 6b first, member by member.
	_, sIsUnion := s.(Union)
	if tu, ok := t.(Union); ok && !sIsUnion {
		for _, m := range tu.Members {
			if IsSubtype(s, m) {
				return true
			}
		}
		return false
	}

	// Rule 6b: Union(M) <: T iff every member is a subtype of T.
	if su, ok := s.(Union); ok {
		for _, m := range su.Members {
			if !IsSubtype(m, t) {
				return false
			}
		}
		return true
	}

	return false
}

// recordWidthDepth implements Record(A) <: Record(B): every field in B
// must be present in A, with A's field a subtype of B's (width + depth).
func recordWidthDepth(a, b map[string]Type) bool {
	for name, bt := range b {
		at, ok := a[name]
		if !ok {
			return false
		}
		if !IsSubtype(at, bt) {
			return false
		}
	}
	return true
}

// functionSubtype implements Function(P1,R1) <: Function(P2,R2): arities
// match, each parameter is contravariant, and the return type is
// covariant.
func functionSubtype(s, t Function) bool {
	if len(s.Params) != len(t.Params) {
		return false
	}
	for i := range s.Params {
		if !IsSubtype(t.Params[i], s.Params[i]) {
			return false
		}
	}
	return IsSubtype(s.Ret, t.Ret)
}

// Lub computes the least upper bound of a and b: if one is a subtype of
// the other, the supertype is returned; otherwise the result is a
// (possibly newly-flattened) union of both, collapsed to a single member
// when it degenerates to one (spec.md §4.1, testable property 2).
func Lub(a, b Type) Type {
	if IsSubtype(a, b) {
		return b
	}
	if IsSubtype(b, a) {
		return a
	}
	return NormalizeUnion([]Type{a, b})
}

// Glb computes the greatest lower bound of a and b, returning Nothing
// when the two types are disjoint (spec.md §4.1, testable property 3).
func Glb(a, b Type) Type {
	if IsSubtype(a, b) {
		return a
	}
	if IsSubtype(b, a) {
		return b
	}
	return Nothing{}
}

// CommonType reduces a non-empty list of types with Lub from the left.
func CommonType(types []Type) (Type, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("common type of empty list is undefined")
	}
	result := types[0]
	for _, t := range types[1:] {
		result = Lub(result, t)
	}
	return result, nil
}

// ExplainFailure produces a short English reason why s is not a subtype
// of t. It is only meaningful (and only ever called) when IsSubtype(s, t)
// is false (spec.md §4.1).
func ExplainFailure(s, t Type) string {
	switch st := s.(type) {
	case List:
		if tt, ok := t.(List); ok {
			return fmt.Sprintf("list element type mismatch: %s is not a subtype of %s", st.Elem, tt.Elem)
		}
	case Optional:
		if tt, ok := t.(Optional); ok {
			return fmt.Sprintf("optional element type mismatch: %s is not a subtype of %s", st.Elem, tt.Elem)
		}
	case Record:
		if tt, ok := t.(Record); ok {
			for name, tf := range tt.Fields {
				af, ok := st.Fields[name]
				if !ok {
					return fmt.Sprintf("missing record field %q", name)
				}
				if !IsSubtype(af, tf) {
					return fmt.Sprintf("field %q has incompatible type: %s is not a subtype of %s", name, af, tf)
				}
			}
		}
	case Function:
		if tt, ok := t.(Function); ok {
			if len(st.Params) != len(tt.Params) {
				return fmt.Sprintf("function arity mismatch: %d vs %d parameters", len(st.Params), len(tt.Params))
			}
		}
	}
	return fmt.Sprintf("%s is not a subtype of %s", s, t)
}
