package catalog

import (
	"testing"

	"github.com/constellation-compiler/constellation/internal/registry"
	"github.com/constellation-compiler/constellation/internal/types"
)

func TestLoadDefaultRegistersWellKnownBuiltins(t *testing.T) {
	reg := registry.New()
	if err := LoadDefault(reg); err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}

	for _, qualified := range []string{
		"stdlib.math.add",
		"stdlib.math.subtract",
		"stdlib.math.multiply",
		"stdlib.math.divide",
		"stdlib.string.concat",
		"stdlib.collection.filter",
		"stdlib.collection.map",
		"stdlib.collection.all",
		"stdlib.collection.any",
		"stdlib.collection.sortBy",
		"stdlib.misc.name_of",
	} {
		if _, ok := reg.LookupQualified(qualified); !ok {
			t.Errorf("expected %s to be registered", qualified)
		}
	}

	sig, ok := reg.LookupQualified("stdlib.math.add")
	if !ok {
		t.Fatal("stdlib.math.add missing")
	}
	if len(sig.Params) != 2 || sig.Ret.String() != "Int" {
		t.Errorf("unexpected add signature: %+v", sig)
	}
}

func TestLoadDefaultParsesRowPolymorphicSignature(t *testing.T) {
	reg := registry.New()
	if err := LoadDefault(reg); err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}

	sig, ok := reg.LookupQualified("stdlib.misc.name_of")
	if !ok {
		t.Fatal("stdlib.misc.name_of missing")
	}
	if !sig.IsRowPolymorphic() {
		t.Fatal("expected name_of to be row-polymorphic")
	}

	open, ok := sig.Params[0].Type.(types.OpenRecord)
	if !ok {
		t.Fatalf("expected an OpenRecord parameter, got %T", sig.Params[0].Type)
	}
	if _, hasName := open.Fields["name"]; !hasName {
		t.Errorf("expected the 'name' field to survive parsing: %+v", open.Fields)
	}
}

func TestLoadDefaultParsesFunctionTypedPredicate(t *testing.T) {
	reg := registry.New()
	if err := LoadDefault(reg); err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}

	sig, ok := reg.LookupQualified("stdlib.collection.filter")
	if !ok {
		t.Fatal("stdlib.collection.filter missing")
	}
	if sig.IsRowPolymorphic() {
		t.Fatal("expected filter to be a concrete, non-row-polymorphic signature")
	}

	fn, ok := sig.Params[1].Type.(types.Function)
	if !ok {
		t.Fatalf("expected a Function predicate parameter, got %T", sig.Params[1].Type)
	}
	if len(fn.Params) != 1 || fn.Params[0].String() != "Int" {
		t.Errorf("unexpected predicate parameter list: %+v", fn.Params)
	}
	if fn.Ret.String() != "Boolean" {
		t.Errorf("expected predicate to return Boolean, got %s", fn.Ret)
	}
}

func TestTypeParserRoundTripsNestedFunctionType(t *testing.T) {
	p := &typeParser{}
	got, err := p.parse("((Int) -> Boolean) -> Int")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	fn, ok := got.(types.Function)
	if !ok {
		t.Fatalf("expected types.Function, got %T", got)
	}
	if len(fn.Params) != 1 {
		t.Fatalf("expected one parameter, got %d", len(fn.Params))
	}
	if _, ok := fn.Params[0].(types.Function); !ok {
		t.Errorf("expected the parameter itself to be a function type, got %T", fn.Params[0])
	}
	if fn.Ret.String() != "Int" {
		t.Errorf("expected Int return, got %s", fn.Ret)
	}
	if got.String() != "((Int) -> Boolean) -> Int" {
		t.Errorf("round trip mismatch: %s", got.String())
	}
}

func TestLoadBytesRejectsMalformedType(t *testing.T) {
	reg := registry.New()
	bad := []byte(`
functions:
  - name: broken
    impl: stdlib.broken
    params:
      - { name: x, type: "NotARealType" }
    ret: Int
`)
	if err := LoadBytes(reg, bad); err == nil {
		t.Fatal("expected an error for an unrecognized type expression")
	}
}
