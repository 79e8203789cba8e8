package types

import "fmt"

// RowVarCounter generates fresh RowVar ids. Each check invocation owns
// one (spec.md §5: "monotonic counter owned by a single check
// invocation"); a package-level counter is never used so concurrent
// checker invocations never interfere (spec.md §4.4 concurrency note).
type RowVarCounter struct {
	next uint64
}

// Fresh returns a never-before-issued RowVar from this counter.
func (c *RowVarCounter) Fresh() RowVar {
	c.next++
	return RowVar{ID: c.next}
}

// UnifyRowError describes why row unification failed, carrying a short
// English reason suitable for inclusion in a TypeError (spec.md §4.2).
type UnifyRowError struct {
	Reason string
}

func (e *UnifyRowError) Error() string {
	return e.Reason
}

// UnifyRow unifies an actual type against an OpenRecord parameter type,
// producing a Subst binding the parameter's row variable (and any row
// variables nested in the actual type) so the two become structurally
// compatible (spec.md §4.2). This is the only use of row unification in
// the whole system: it is invoked once per call site of a row-polymorphic
// function, against freshly instantiated row variables.
func UnifyRow(actual Type, param OpenRecord) (Subst, error) {
	switch a := actual.(type) {
	case Record:
		return unifyRecordWithOpen(a, param)
	case OpenRecord:
		return unifyOpenWithOpen(a, param)
	default:
		return nil, &UnifyRowError{Reason: fmt.Sprintf(
			"row-polymorphic parameter expects a record, got %s", actual)}
	}
}

// unifyRecordWithOpen unifies Record(A) with OpenRecord(B, rho): every
// field in B must be present in A with a subtype-compatible value; rho
// binds to a record of A's remaining fields.
func unifyRecordWithOpen(actual Record, param OpenRecord) (Subst, error) {
	subst := Subst{}
	remaining := make(map[string]Type, len(actual.Fields))
	for k, v := range actual.Fields {
		remaining[k] = v
	}

	for _, name := range param.SortedFieldNames() {
		pt := param.Fields[name]
		at, ok := actual.Fields[name]
		if !ok {
			return nil, &UnifyRowError{Reason: fmt.Sprintf("missing required field %q", name)}
		}
		if !IsSubtype(at, pt) {
			return nil, &UnifyRowError{Reason: fmt.Sprintf(
				"field %q has incompatible type: %s is not a subtype of %s", name, at, pt)}
		}
		delete(remaining, name)
	}

	subst[param.Row.ID] = Record{Fields: remaining}
	return subst, nil
}

// unifyOpenWithOpen unifies OpenRecord(A, rho_a) with OpenRecord(B, rho_b):
// every field of B must be present in A with a subtype-compatible value;
// rho_a is bound to a closed record of A's remaining fields and rho_b is
// bound to rho_a. No fresh row variable is minted, so the result does not
// carry a further open tail beyond A's known fields.
func unifyOpenWithOpen(actual, param OpenRecord) (Subst, error) {
	subst := Subst{}
	remainingActual := make(map[string]Type, len(actual.Fields))
	for k, v := range actual.Fields {
		remainingActual[k] = v
	}

	for _, name := range param.SortedFieldNames() {
		pt := param.Fields[name]
		at, ok := actual.Fields[name]
		if !ok {
			return nil, &UnifyRowError{Reason: fmt.Sprintf("missing required field %q", name)}
		}
		if !IsSubtype(at, pt) {
			return nil, &UnifyRowError{Reason: fmt.Sprintf(
				"field %q has incompatible type: %s is not a subtype of %s", name, at, pt)}
		}
		delete(remainingActual, name)
	}

	// actual's row variable now stands for exactly its unmatched fields.
	subst[actual.Row.ID] = Record{Fields: remainingActual}
	// param's row variable absorbs whatever actual's row variable turned
	// out to be, so downstream substitution application sees a single
	// consistent image.
	subst[param.Row.ID] = actual.Row
	return subst, nil
}

// ComposeRow merges two row substitutions monoidally. A conflicting
// binding (the same RowVar bound to two different, non-equal images)
// fails with a reason describing the incompatibility (spec.md §4.2:
// "Substitutions compose; conflicts fail with a reason").
func ComposeRow(s1, s2 Subst) (Subst, error) {
	out := make(Subst, len(s1)+len(s2))
	for k, v := range s1 {
		out[k] = v
	}
	for k, v := range s2 {
		if existing, ok := out[k]; ok && existing.String() != v.String() {
			return nil, &UnifyRowError{Reason: fmt.Sprintf(
				"row variable bound to incompatible types %s and %s", existing, v)}
		}
		out[k] = v
	}
	return out, nil
}
