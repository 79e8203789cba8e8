// Package types implements the semantic type system described in
// spec.md §3: primitives, composite types, records with row polymorphism,
// and unions, together with substitution over row variables.
//
// It is deliberately smaller than the teacher's internal/typesystem: there
// is no general Hindley-Milner unification, no kinds, no rank-N
// polymorphism and no trait constraints. The only type variable in this
// system is RowVar, and it only ever appears inside OpenRecord.
package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/constellation-compiler/constellation/internal/config"
)

// Type is the sum type of every semantic type (spec.md §3).
type Type interface {
	// String renders the type for error messages and golden tests.
	String() string
	// Apply walks the type tree, replacing any RowVar bound in s.
	Apply(s Subst) Type
	// FreeRowVars returns the row variables still unbound in this type.
	FreeRowVars() []RowVar
}

// String is the primitive string type.
type String struct{}

func (String) String() string        { return "String" }
func (t String) Apply(Subst) Type     { return t }
func (String) FreeRowVars() []RowVar  { return nil }

// Int is the primitive integer type.
type Int struct{}

func (Int) String() string       { return "Int" }
func (t Int) Apply(Subst) Type    { return t }
func (Int) FreeRowVars() []RowVar { return nil }

// Float is the primitive floating point type.
type Float struct{}

func (Float) String() string       { return "Float" }
func (t Float) Apply(Subst) Type    { return t }
func (Float) FreeRowVars() []RowVar { return nil }

// Boolean is the primitive boolean type.
type Boolean struct{}

func (Boolean) String() string       { return "Boolean" }
func (t Boolean) Apply(Subst) Type    { return t }
func (Boolean) FreeRowVars() []RowVar { return nil }

// Nothing is the bottom type: a subtype of every other type (spec.md §3).
type Nothing struct{}

func (Nothing) String() string       { return "Nothing" }
func (t Nothing) Apply(Subst) Type    { return t }
func (Nothing) FreeRowVars() []RowVar { return nil }

// List is a homogeneous ordered sequence, covariant in Elem.
// "Candidates<T>" is a legacy alias resolved to List<T> during type-expr
// resolution (spec.md §9); there is no distinct runtime representation.
type List struct {
	Elem Type
}

func (t List) String() string { return fmt.Sprintf("List<%s>", t.Elem.String()) }
func (t List) Apply(s Subst) Type {
	return List{Elem: t.Elem.Apply(s)}
}
func (t List) FreeRowVars() []RowVar { return t.Elem.FreeRowVars() }

// Map is invariant in Key, covariant in Value.
type Map struct {
	Key   Type
	Value Type
}

func (t Map) String() string { return fmt.Sprintf("Map<%s, %s>", t.Key.String(), t.Value.String()) }
func (t Map) Apply(s Subst) Type {
	return Map{Key: t.Key.Apply(s), Value: t.Value.Apply(s)}
}
func (t Map) FreeRowVars() []RowVar {
	return append(t.Key.FreeRowVars(), t.Value.FreeRowVars()...)
}

// Optional may be absent; covariant in Elem.
type Optional struct {
	Elem Type
}

func (t Optional) String() string { return fmt.Sprintf("Optional<%s>", t.Elem.String()) }
func (t Optional) Apply(s Subst) Type {
	return Optional{Elem: t.Elem.Apply(s)}
}
func (t Optional) FreeRowVars() []RowVar { return t.Elem.FreeRowVars() }

// Record is a closed record type: exactly these fields, nothing more.
type Record struct {
	Fields map[string]Type
}

func NewRecord(fields map[string]Type) Record {
	return Record{Fields: fields}
}

func (t Record) SortedFieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (t Record) String() string {
	names := t.SortedFieldNames()
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", n, t.Fields[n].String()))
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

func (t Record) Apply(s Subst) Type {
	newFields := make(map[string]Type, len(t.Fields))
	for k, v := range t.Fields {
		newFields[k] = v.Apply(s)
	}
	return Record{Fields: newFields}
}

func (t Record) FreeRowVars() []RowVar {
	var vars []RowVar
	for _, n := range t.SortedFieldNames() {
		vars = append(vars, t.Fields[n].FreeRowVars()...)
	}
	return vars
}

// OpenRecord is a Record plus a row variable standing for "any further
// fields"; used only at function-parameter sites to express row
// polymorphism (spec.md §3).
type OpenRecord struct {
	Fields map[string]Type
	Row    RowVar
}

func (t OpenRecord) SortedFieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (t OpenRecord) String() string {
	names := t.SortedFieldNames()
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", n, t.Fields[n].String()))
	}
	return fmt.Sprintf("{%s | %s}", strings.Join(parts, ", "), t.Row.String())
}

// Apply substitutes the row variable when bound. If the image is itself a
// Record, the result collapses into a closed Record containing the fixed
// fields plus the image's fields (row variables only ever bind to a
// Record describing the remaining fields, per spec.md §4.2). If the image
// is another RowVar (renaming during unification) or OpenRecord (composed
// row), the result stays open.
func (t OpenRecord) Apply(s Subst) Type {
	newFields := make(map[string]Type, len(t.Fields))
	for k, v := range t.Fields {
		newFields[k] = v.Apply(s)
	}
	image, ok := s[t.Row.ID]
	if !ok {
		return OpenRecord{Fields: newFields, Row: t.Row}
	}
	switch img := image.Apply(s).(type) {
	case Record:
		for k, v := range img.Fields {
			newFields[k] = v
		}
		return Record{Fields: newFields}
	case OpenRecord:
		for k, v := range img.Fields {
			newFields[k] = v
		}
		return OpenRecord{Fields: newFields, Row: img.Row}
	case RowVar:
		return OpenRecord{Fields: newFields, Row: img}
	default:
		// A row variable can only ever be bound to a record-shaped image;
		// anything else indicates a bug in the row unifier.
		return OpenRecord{Fields: newFields, Row: t.Row}
	}
}

func (t OpenRecord) FreeRowVars() []RowVar {
	var vars []RowVar
	for _, n := range t.SortedFieldNames() {
		vars = append(vars, t.Fields[n].FreeRowVars()...)
	}
	vars = append(vars, t.Row)
	return vars
}

// RowVar is a fresh, compile-time-only identifier standing for "the rest
// of a record's fields". It is never persisted and never runtime-visible
// (spec.md §3).
type RowVar struct {
	ID uint64
}

func (t RowVar) String() string {
	if config.IsTestMode {
		return "ρ?"
	}
	return "ρ" + strconv.FormatUint(t.ID, 10)
}

func (t RowVar) Apply(s Subst) Type {
	if image, ok := s[t.ID]; ok {
		return image.Apply(s)
	}
	return t
}

func (t RowVar) FreeRowVars() []RowVar { return []RowVar{t} }

// Function is a compile-time-only type: contravariant in each parameter,
// covariant in the return type. It never leaks into the runtime type
// mirror (spec.md §6, internal/runtimetype).
type Function struct {
	Params []Type
	Ret    Type
}

func (t Function) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Ret.String())
}

func (t Function) Apply(s Subst) Type {
	newParams := make([]Type, len(t.Params))
	for i, p := range t.Params {
		newParams[i] = p.Apply(s)
	}
	return Function{Params: newParams, Ret: t.Ret.Apply(s)}
}

func (t Function) FreeRowVars() []RowVar {
	var vars []RowVar
	for _, p := range t.Params {
		vars = append(vars, p.FreeRowVars()...)
	}
	return append(vars, t.Ret.FreeRowVars()...)
}

// Union is a tagged set of member types: flattened on construction (no
// Union inside Union), deduplicated, and collapsed to the single member
// when size <= 1. Always construct through NormalizeUnion,
// never by building the struct literal directly, so these invariants
// hold universally (spec.md §3, testable property 5).
type Union struct {
	Members []Type
}

func (t Union) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

func (t Union) Apply(s Subst) Type {
	newMembers := make([]Type, len(t.Members))
	for i, m := range t.Members {
		newMembers[i] = m.Apply(s)
	}
	return NormalizeUnion(newMembers)
}

func (t Union) FreeRowVars() []RowVar {
	var vars []RowVar
	for _, m := range t.Members {
		vars = append(vars, m.FreeRowVars()...)
	}
	return vars
}

// NormalizeUnion flattens nested unions, deduplicates by canonical
// pretty-printed name, and collapses to the single member when possible.
// This is the only constructor for Union; it is what guarantees the
// "no Union in Union, never <2 members" invariant (spec.md §3).
func NormalizeUnion(members []Type) Type {
	flat := make([]Type, 0, len(members))
	for _, m := range members {
		if u, ok := m.(Union); ok {
			flat = append(flat, u.Members...)
		} else {
			flat = append(flat, m)
		}
	}

	seen := make(map[string]bool, len(flat))
	unique := make([]Type, 0, len(flat))
	for _, m := range flat {
		key := m.String()
		if !seen[key] {
			seen[key] = true
			unique = append(unique, m)
		}
	}

	if len(unique) == 0 {
		return Nothing{}
	}
	if len(unique) == 1 {
		return unique[0]
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	return Union{Members: unique}
}

// Subst maps a RowVar's numeric id to the Type it has been bound to
// (spec.md §4.2).
type Subst map[uint64]Type

// Compose combines two substitutions: applying s1.Compose(s2) is applying
// s1 first, then s2 (each s1 image has s2 applied to it). Bindings in s1
// win on direct key collision.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := make(Subst, len(s1)+len(s2))
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	return out
}
