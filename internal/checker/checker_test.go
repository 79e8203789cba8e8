package checker

import (
	"testing"

	"github.com/constellation-compiler/constellation/internal/ast"
	"github.com/constellation-compiler/constellation/internal/registry"
	"github.com/constellation-compiler/constellation/internal/types"
)

func namedType(name string, args ...ast.TypeExpr) ast.TypeExpr {
	return &ast.NamedTypeExpr{Name: name, Args: args}
}

func varRef(name string) ast.Expression { return &ast.VarRef{Name: name} }

// TestRowPolymorphismOpenRecordParam is seed scenario S1: registering a
// row-polymorphic stdlib.misc.name_of and calling it with a wider
// record should check and resolve the return type to String. The row
// binding itself is not observable here; types.TestUnifyRowRecordWithOpen
// checks it.
func TestRowPolymorphismOpenRecordParam(t *testing.T) {
	reg := registry.New()
	counter := &types.RowVarCounter{}
	rho := counter.Fresh()
	reg.Register(registry.Signature{
		Namespace: "stdlib.misc",
		Name:      "name_of",
		Params: []registry.Param{{
			Name: "x",
			Type: types.OpenRecord{Fields: map[string]types.Type{"name": types.String{}}, Row: rho},
		}},
		Ret:     types.String{},
		Impl:    "stdlib.misc:name_of",
		RowVars: []types.RowVar{rho},
	})

	program := &ast.Program{Declarations: []ast.Declaration{
		&ast.InputDecl{Name: "u", TypeExpr: &ast.RecordTypeExpr{Fields: map[string]ast.TypeExpr{
			"name": namedType("String"),
			"age":  namedType("Int"),
		}}},
		&ast.Assignment{Name: "out_name", Value: &ast.FunctionCall{Name: "stdlib.misc.name_of", Args: []ast.Expression{varRef("u")}}},
		&ast.OutputDecl{Name: "out_name"},
	}}

	pipeline, errs := Check(program, reg)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if pipeline.Outputs[0].Type.String() != "String" {
		t.Errorf("expected out_name : String, got %s", pipeline.Outputs[0].Type)
	}
}

// TestLambdaInferredFromArgumentContext is seed scenario S2.
func TestLambdaInferredFromArgumentContext(t *testing.T) {
	reg := registry.New()
	reg.Register(registry.Signature{
		Namespace: "stdlib.collection",
		Name:      "filter",
		Params: []registry.Param{
			{Name: "items", Type: types.List{Elem: types.Int{}}},
			{Name: "pred", Type: types.Function{Params: []types.Type{types.Int{}}, Ret: types.Boolean{}}},
		},
		Ret:  types.List{Elem: types.Int{}},
		Impl: "stdlib.collection:filter",
	})
	reg.Register(registry.Signature{
		Name:   "gt",
		Params: []registry.Param{{Name: "a", Type: types.Int{}}, {Name: "b", Type: types.Int{}}},
		Ret:    types.Boolean{},
		Impl:   "stdlib:gt",
	})

	program := &ast.Program{Declarations: []ast.Declaration{
		&ast.InputDecl{Name: "xs", TypeExpr: namedType("List", namedType("Int"))},
		&ast.Assignment{Name: "ys", Value: &ast.FunctionCall{
			Name: "filter",
			Args: []ast.Expression{
				varRef("xs"),
				&ast.Lambda{
					Params: []ast.LambdaParam{{Name: "x"}},
					Body: &ast.FunctionCall{Name: "gt", Args: []ast.Expression{
						varRef("x"),
						&ast.Literal{Kind: ast.LiteralInt, Raw: "0"},
					}},
				},
			},
		}},
		&ast.OutputDecl{Name: "ys"},
	}}

	pipeline, errs := Check(program, reg)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if pipeline.Outputs[0].Type.String() != "List<Int>" {
		t.Errorf("expected ys : List<Int>, got %s", pipeline.Outputs[0].Type)
	}
}

// TestEmptyListTypedFromContext is seed scenario S3.
func TestEmptyListTypedFromContext(t *testing.T) {
	reg := registry.New()
	program := &ast.Program{Declarations: []ast.Declaration{
		&ast.InputDecl{
			Name:     "defaults",
			TypeExpr: namedType("List", namedType("Int")),
			Examples: []ast.Example{{Expr: &ast.ListLit{}}},
		},
		&ast.OutputDecl{Name: "defaults"},
	}}

	pipeline, errs := Check(program, reg)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	lst, ok := pipeline.Declarations[0].Examples[0].Type.(types.List)
	if !ok {
		t.Fatalf("expected the example's type to be a List")
	}
	if _, isNothing := lst.Elem.(types.Nothing); isNothing {
		t.Errorf("expected empty list element type Int (from context), got Nothing")
	}
	if lst.Elem.String() != "Int" {
		t.Errorf("expected empty list element type Int, got %s", lst.Elem)
	}
}

// TestRecordMergeWithListBroadcast is seed scenario S4.
func TestRecordMergeWithListBroadcast(t *testing.T) {
	reg := registry.New()
	program := &ast.Program{Declarations: []ast.Declaration{
		&ast.InputDecl{Name: "candidates", TypeExpr: namedType("List", &ast.RecordTypeExpr{Fields: map[string]ast.TypeExpr{"id": namedType("Int")}})},
		&ast.InputDecl{Name: "ctx", TypeExpr: &ast.RecordTypeExpr{Fields: map[string]ast.TypeExpr{"session": namedType("String")}}},
		&ast.Assignment{Name: "enriched", Value: &ast.Merge{Left: varRef("candidates"), Right: varRef("ctx")}},
		&ast.OutputDecl{Name: "enriched"},
	}}

	pipeline, errs := Check(program, reg)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	lst, ok := pipeline.Outputs[0].Type.(types.List)
	if !ok {
		t.Fatalf("expected enriched : List<...>, got %s", pipeline.Outputs[0].Type)
	}
	rec, ok := lst.Elem.(types.Record)
	if !ok {
		t.Fatalf("expected list element to be a Record, got %s", lst.Elem)
	}
	if len(rec.Fields) != 2 {
		t.Errorf("expected 2 fields (id, session), got %d: %s", len(rec.Fields), rec)
	}
}

// TestEqualityOnUnregisteredOperandTypeFails guards against silently
// binding a Float/Boolean equality comparison to the Int equality
// primitive: with no eq-float registered, comparing two Floats must
// fail rather than resolve to eq-int.
func TestEqualityOnUnregisteredOperandTypeFails(t *testing.T) {
	reg := registry.New()
	reg.Register(registry.Signature{
		Name:   "eq-int",
		Params: []registry.Param{{Name: "a", Type: types.Int{}}, {Name: "b", Type: types.Int{}}},
		Ret:    types.Boolean{},
		Impl:   "stdlib.compare:eq_int",
	})

	program := &ast.Program{Declarations: []ast.Declaration{
		&ast.InputDecl{Name: "a", TypeExpr: namedType("Float")},
		&ast.InputDecl{Name: "b", TypeExpr: namedType("Float")},
		&ast.Assignment{Name: "eq", Value: &ast.Compare{Op: ast.CompareEq, Left: varRef("a"), Right: varRef("b")}},
		&ast.OutputDecl{Name: "eq"},
	}}

	_, errs := Check(program, reg)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != "UnsupportedComparison" {
		t.Errorf("expected UnsupportedComparison, got %s", errs[0].Kind)
	}
}

// TestBranchAccumulatesIndependentArmErrors checks that every ill-typed
// Branch arm is reported, not just the first one reached.
func TestBranchAccumulatesIndependentArmErrors(t *testing.T) {
	reg := registry.New()
	program := &ast.Program{Declarations: []ast.Declaration{
		&ast.Assignment{Name: "r", Value: &ast.Branch{
			Cases: []ast.BranchCase{
				{Cond: &ast.Literal{Kind: ast.LiteralBoolean, Raw: "true"}, Body: varRef("missing1")},
				{Cond: &ast.Literal{Kind: ast.LiteralBoolean, Raw: "true"}, Body: varRef("missing2")},
			},
			Otherwise: varRef("missing3"),
		}},
		&ast.OutputDecl{Name: "r"},
	}}

	_, errs := Check(program, reg)
	if len(errs) != 3 {
		t.Fatalf("expected all three independent arm errors to be reported, got %d: %v", len(errs), errs)
	}
	for _, e := range errs {
		if e.Kind != "UndefinedVariable" {
			t.Errorf("expected UndefinedVariable, got %s", e.Kind)
		}
	}
}

// TestCallAccumulatesIndependentArgumentErrors checks that every
// ill-typed argument of a call is reported, not just the first.
func TestCallAccumulatesIndependentArgumentErrors(t *testing.T) {
	reg := registry.New()
	reg.Register(registry.Signature{
		Name:   "add",
		Params: []registry.Param{{Name: "a", Type: types.Int{}}, {Name: "b", Type: types.Int{}}},
		Ret:    types.Int{},
		Impl:   "stdlib:add",
	})

	program := &ast.Program{Declarations: []ast.Declaration{
		&ast.Assignment{Name: "r", Value: &ast.FunctionCall{
			Name: "add",
			Args: []ast.Expression{varRef("missing1"), varRef("missing2")},
		}},
		&ast.OutputDecl{Name: "r"},
	}}

	_, errs := Check(program, reg)
	if len(errs) != 2 {
		t.Fatalf("expected both independent argument errors to be reported, got %d: %v", len(errs), errs)
	}
	for _, e := range errs {
		if e.Kind != "UndefinedVariable" {
			t.Errorf("expected UndefinedVariable, got %s", e.Kind)
		}
	}
}

// TestAmbiguousFunction is seed scenario S6.
func TestAmbiguousFunction(t *testing.T) {
	reg := registry.New()
	reg.Register(registry.Signature{
		Namespace: "ns1", Name: "process",
		Params: []registry.Param{{Name: "x", Type: types.Int{}}}, Ret: types.Int{}, Impl: "ns1:process",
	})
	reg.Register(registry.Signature{
		Namespace: "ns2", Name: "process",
		Params: []registry.Param{{Name: "x", Type: types.Int{}}}, Ret: types.Int{}, Impl: "ns2:process",
	})

	program := &ast.Program{Declarations: []ast.Declaration{
		&ast.InputDecl{Name: "x", TypeExpr: namedType("Int")},
		&ast.UseDecl{Path: "ns1"},
		&ast.UseDecl{Path: "ns2"},
		&ast.Assignment{Name: "r", Value: &ast.FunctionCall{Name: "process", Args: []ast.Expression{varRef("x")}}},
		&ast.OutputDecl{Name: "r"},
	}}

	_, errs := Check(program, reg)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(errs))
	}
	if errs[0].Kind != "AmbiguousFunction" {
		t.Errorf("expected AmbiguousFunction, got %s", errs[0].Kind)
	}
}
