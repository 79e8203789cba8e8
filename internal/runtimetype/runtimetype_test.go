package runtimetype

import (
	"testing"

	"github.com/constellation-compiler/constellation/internal/types"
)

func TestToRuntimeTypeRoundTripsScalarsAndContainers(t *testing.T) {
	cases := []types.Type{
		types.String{},
		types.Int{},
		types.Float{},
		types.Boolean{},
		types.Nothing{},
		types.List{Elem: types.Int{}},
		types.Map{Key: types.String{}, Value: types.Int{}},
		types.Optional{Elem: types.String{}},
		types.NewRecord(map[string]types.Type{"name": types.String{}, "age": types.Int{}}),
	}

	for _, tc := range cases {
		rt, err := ToRuntimeType(tc)
		if err != nil {
			t.Fatalf("ToRuntimeType(%s) returned unexpected error: %v", tc, err)
		}
		back := FromRuntimeType(rt)
		if back.String() != tc.String() {
			t.Errorf("round trip mismatch: started %s, ended %s", tc, back)
		}
	}
}

func TestToRuntimeTypeRejectsFunction(t *testing.T) {
	_, err := ToRuntimeType(types.Function{Params: []types.Type{types.Int{}}, Ret: types.Int{}})
	if err == nil {
		t.Fatal("expected a ProgrammerError converting a Function type")
	}
	if _, ok := err.(*ProgrammerError); !ok {
		t.Errorf("expected *ProgrammerError, got %T", err)
	}
}

func TestToRuntimeTypeRejectsRowVar(t *testing.T) {
	_, err := ToRuntimeType(types.RowVar{ID: 1})
	if _, ok := err.(*ProgrammerError); !ok {
		t.Errorf("expected *ProgrammerError converting a RowVar, got %T (%v)", err, err)
	}
}

func TestToRuntimeTypeRejectsOpenRecord(t *testing.T) {
	_, err := ToRuntimeType(types.OpenRecord{
		Fields: map[string]types.Type{"id": types.Int{}},
		Row:    types.RowVar{ID: 2},
	})
	if _, ok := err.(*ProgrammerError); !ok {
		t.Errorf("expected *ProgrammerError converting an OpenRecord, got %T (%v)", err, err)
	}
}

func TestToRuntimeTypePropagatesNestedProgrammerError(t *testing.T) {
	_, err := ToRuntimeType(types.List{Elem: types.Function{Ret: types.Int{}}})
	if _, ok := err.(*ProgrammerError); !ok {
		t.Errorf("expected a nested Function inside a List to still be a ProgrammerError, got %T", err)
	}
}

func TestFromRuntimeTypeUnion(t *testing.T) {
	u := CUnion{Members: []CType{CString{}, CInt{}}}
	back := FromRuntimeType(u)
	union, ok := back.(types.Union)
	if !ok {
		t.Fatalf("expected types.Union, got %T", back)
	}
	if len(union.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(union.Members))
	}
}
