package registry

import (
	"testing"

	"github.com/constellation-compiler/constellation/internal/types"
)

func sigIntToInt(ns, name string) Signature {
	return Signature{
		Namespace: ns,
		Name:      name,
		Params:    []Param{{Name: "x", Type: types.Int{}}},
		Ret:       types.Int{},
		Impl:      ns + ":" + name,
	}
}

func TestRegisterAndLookupQualified(t *testing.T) {
	r := New()
	r.Register(sigIntToInt("stdlib.math", "add"))

	sig, ok := r.LookupQualified("stdlib.math.add")
	if !ok {
		t.Fatalf("expected stdlib.math.add to be registered")
	}
	if sig.Ret.String() != "Int" {
		t.Errorf("unexpected return type: %s", sig.Ret)
	}
}

func TestRegisterReplacesExisting(t *testing.T) {
	r := New()
	r.Register(sigIntToInt("stdlib.math", "add"))
	replacement := sigIntToInt("stdlib.math", "add")
	replacement.Impl = "replacement"
	r.Register(replacement)

	sig, _ := r.LookupQualified("stdlib.math.add")
	if sig.Impl != "replacement" {
		t.Errorf("expected replacement to win, got impl=%s", sig.Impl)
	}
	if len(r.LookupSimple("add")) != 1 {
		t.Errorf("expected exactly one 'add' signature after replace, got %d", len(r.LookupSimple("add")))
	}
}

func TestDeregisterRemovesNamespaceWhenEmpty(t *testing.T) {
	r := New()
	r.Register(sigIntToInt("stdlib.math", "add"))
	if !r.HasNamespace("stdlib.math") {
		t.Fatalf("expected namespace to be registered")
	}
	r.Deregister("stdlib.math.add")
	if r.HasNamespace("stdlib.math") {
		t.Errorf("expected namespace to be gone once its last member is deregistered")
	}
}

func TestLookupSimpleNoImportsBackwardCompat(t *testing.T) {
	r := New()
	r.Register(sigIntToInt("stdlib.math", "add"))
	scope := NewNamespaceScope()

	sig, err := r.LookupInScope("add", scope)
	if err != nil {
		t.Fatalf("expected backward-compat lookup to succeed with no imports, got %v", err)
	}
	if sig.QualifiedName() != "stdlib.math.add" {
		t.Errorf("unexpected resolution: %s", sig.QualifiedName())
	}
}

func TestLookupSimpleWithWildcardImport(t *testing.T) {
	r := New()
	r.Register(sigIntToInt("stdlib.math", "add"))
	r.Register(sigIntToInt("stdlib.other", "mul"))
	scope := NewNamespaceScope().WithWildcardImport("stdlib.math")

	sig, err := r.LookupInScope("add", scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.QualifiedName() != "stdlib.math.add" {
		t.Errorf("unexpected resolution: %s", sig.QualifiedName())
	}

	if _, err := r.LookupInScope("mul", scope); err == nil {
		t.Errorf("expected mul to be undefined once imports are present and mul's namespace isn't imported")
	}
}

func TestLookupSimpleAmbiguous(t *testing.T) {
	r := New()
	r.Register(sigIntToInt("ns1", "process"))
	r.Register(sigIntToInt("ns2", "process"))
	scope := NewNamespaceScope().WithWildcardImport("ns1").WithWildcardImport("ns2")

	_, err := r.LookupInScope("process", scope)
	if err == nil {
		t.Fatalf("expected AmbiguousFunction error")
	}
	resolveErr, ok := err.(*ResolveError)
	if !ok || resolveErr.Kind != "AmbiguousFunction" {
		t.Errorf("expected AmbiguousFunction, got %v", err)
	}
	if len(resolveErr.Suggestions) != 2 {
		t.Errorf("expected 2 candidates, got %d", len(resolveErr.Suggestions))
	}
}

func TestLookupQualifiedViaAlias(t *testing.T) {
	r := New()
	r.Register(sigIntToInt("stdlib.math", "add"))
	scope := NewNamespaceScope().WithAlias("m", "stdlib.math")

	sig, err := r.LookupInScope("m.add", scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.QualifiedName() != "stdlib.math.add" {
		t.Errorf("unexpected resolution via alias: %s", sig.QualifiedName())
	}
}

func TestLookupQualifiedUndefinedNamespace(t *testing.T) {
	r := New()
	_, err := r.LookupInScope("ghost.ns.fn", NewNamespaceScope())
	resolveErr, ok := err.(*ResolveError)
	if !ok || resolveErr.Kind != "UndefinedNamespace" {
		t.Errorf("expected UndefinedNamespace, got %v", err)
	}
}

func TestLookupQualifiedUndefinedFunctionInKnownNamespace(t *testing.T) {
	r := New()
	r.Register(sigIntToInt("stdlib.math", "add"))
	_, err := r.LookupInScope("stdlib.math.subtract", NewNamespaceScope())
	resolveErr, ok := err.(*ResolveError)
	if !ok || resolveErr.Kind != "UndefinedFunction" {
		t.Errorf("expected UndefinedFunction, got %v", err)
	}
}

func TestSimpleNameAliasIsIncompleteReference(t *testing.T) {
	r := New()
	r.Register(sigIntToInt("stdlib.math", "add"))
	scope := NewNamespaceScope().WithAlias("m", "stdlib.math")

	_, err := r.LookupInScope("m", scope)
	if err == nil {
		t.Fatalf("expected an alias used as a bare simple name to be undefined")
	}
}
