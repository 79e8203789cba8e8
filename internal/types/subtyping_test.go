package types

import "testing"

func TestIsSubtypeReflexive(t *testing.T) {
	cases := []Type{
		String{}, Int{}, Float{}, Boolean{}, Nothing{},
		List{Elem: Int{}},
		Optional{Elem: String{}},
		Record{Fields: map[string]Type{"x": Int{}}},
		Function{Params: []Type{Int{}}, Ret: Boolean{}},
	}
	for _, c := range cases {
		if !IsSubtype(c, c) {
			t.Errorf("IsSubtype(%s, %s) = false, want true (reflexivity)", c, c)
		}
	}
}

func TestNothingIsBottom(t *testing.T) {
	targets := []Type{String{}, Int{}, List{Elem: Int{}}, Record{Fields: map[string]Type{"x": Int{}}}}
	for _, tgt := range targets {
		if !IsSubtype(Nothing{}, tgt) {
			t.Errorf("IsSubtype(Nothing, %s) = false, want true", tgt)
		}
	}
}

func TestRecordWidthSubtyping(t *testing.T) {
	wide := Record{Fields: map[string]Type{"id": Int{}, "name": String{}}}
	narrow := Record{Fields: map[string]Type{"id": Int{}}}
	if !IsSubtype(wide, narrow) {
		t.Errorf("wider record should be a subtype of the narrower one")
	}
	if IsSubtype(narrow, wide) {
		t.Errorf("narrower record should not be a subtype of the wider one")
	}
}

func TestListCovariance(t *testing.T) {
	sub := List{Elem: Nothing{}}
	sup := List{Elem: Int{}}
	if !IsSubtype(sub, sup) {
		t.Errorf("List<Nothing> should be a subtype of List<Int>")
	}
}

func TestFunctionContravariance(t *testing.T) {
	// (Nothing) -> Int is not a subtype of (Int) -> Int, since that would
	// need Int <: Nothing. Record width gives an unambiguous pair: a
	// function accepting the narrower record is the more permissive one.
	wide := Record{Fields: map[string]Type{"id": Int{}, "name": String{}}}
	narrow := Record{Fields: map[string]Type{"id": Int{}}}

	permissive := Function{Params: []Type{narrow}, Ret: Int{}}
	strict := Function{Params: []Type{wide}, Ret: Int{}}

	if !IsSubtype(permissive, strict) {
		t.Errorf("a function accepting the narrower record should be a subtype of one requiring the wider record")
	}
	if IsSubtype(strict, permissive) {
		t.Errorf("a function requiring the wider record should not be a subtype of one accepting the narrower one")
	}
}

func TestUnionSubtyping(t *testing.T) {
	u := NormalizeUnion([]Type{Int{}, String{}})
	if !IsSubtype(Int{}, u) {
		t.Errorf("Int should be a subtype of Int | String")
	}
	if IsSubtype(Boolean{}, u) {
		t.Errorf("Boolean should not be a subtype of Int | String")
	}
	if !IsSubtype(u, NormalizeUnion([]Type{Int{}, String{}, Boolean{}})) {
		t.Errorf("Int | String should be a subtype of Int | String | Boolean")
	}
}

func TestUnionFlattenAndCollapse(t *testing.T) {
	nested := NormalizeUnion([]Type{Int{}, NormalizeUnion([]Type{String{}, Int{}})})
	u, ok := nested.(Union)
	if !ok {
		t.Fatalf("expected a Union, got %T", nested)
	}
	if len(u.Members) != 2 {
		t.Errorf("expected 2 deduplicated members, got %d: %s", len(u.Members), u)
	}

	single := NormalizeUnion([]Type{Int{}, Int{}})
	if _, ok := single.(Union); ok {
		t.Errorf("a union collapsing to one member should not stay a Union, got %s", single)
	}
}

func TestLubUpperBound(t *testing.T) {
	a := Record{Fields: map[string]Type{"id": Int{}, "name": String{}}}
	b := Record{Fields: map[string]Type{"id": Int{}}}
	l := Lub(a, b)
	if !IsSubtype(a, l) || !IsSubtype(b, l) {
		t.Errorf("Lub(%s, %s) = %s is not an upper bound of both", a, b, l)
	}
}

func TestGlbLowerBound(t *testing.T) {
	a := Record{Fields: map[string]Type{"id": Int{}, "name": String{}}}
	b := Record{Fields: map[string]Type{"id": Int{}}}
	g := Glb(a, b)
	if !IsSubtype(g, a) || !IsSubtype(g, b) {
		t.Errorf("Glb(%s, %s) = %s is not a lower bound of both", a, b, g)
	}
}

func TestGlbDisjointIsNothing(t *testing.T) {
	g := Glb(Int{}, String{})
	if _, ok := g.(Nothing); !ok {
		t.Errorf("Glb of disjoint types should be Nothing, got %s", g)
	}
}

func TestCommonTypeReducesFromLeft(t *testing.T) {
	types := []Type{Int{}, Nothing{}, Int{}}
	ct, err := CommonType(types)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct.String() != "Int" {
		t.Errorf("common type = %s, want Int", ct)
	}
}

func TestCommonTypeEmptyListErrors(t *testing.T) {
	if _, err := CommonType(nil); err == nil {
		t.Errorf("expected an error for empty list")
	}
}
