package types

import "testing"

func TestUnifyRowRecordWithOpen(t *testing.T) {
	counter := &RowVarCounter{}
	rho := counter.Fresh()

	actual := Record{Fields: map[string]Type{"name": String{}, "age": Int{}}}
	param := OpenRecord{Fields: map[string]Type{"name": String{}}, Row: rho}

	subst, err := UnifyRow(actual, param)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bound, ok := subst[rho.ID]
	if !ok {
		t.Fatalf("row variable was not bound")
	}
	rec, ok := bound.(Record)
	if !ok {
		t.Fatalf("expected row variable to bind to a Record, got %T", bound)
	}
	if _, ok := rec.Fields["age"]; !ok || len(rec.Fields) != 1 {
		t.Errorf("expected the row to bind to {age: Int}, got %s", rec)
	}
}

func TestUnifyRowMissingFieldFails(t *testing.T) {
	counter := &RowVarCounter{}
	rho := counter.Fresh()

	actual := Record{Fields: map[string]Type{"age": Int{}}}
	param := OpenRecord{Fields: map[string]Type{"name": String{}}, Row: rho}

	if _, err := UnifyRow(actual, param); err == nil {
		t.Errorf("expected an error for a missing required field")
	}
}

func TestApplySubstitutionResolvesOpenRecordToRecord(t *testing.T) {
	counter := &RowVarCounter{}
	rho := counter.Fresh()

	open := OpenRecord{Fields: map[string]Type{"name": String{}}, Row: rho}
	subst := Subst{rho.ID: Record{Fields: map[string]Type{"age": Int{}}}}

	resolved := open.Apply(subst)
	rec, ok := resolved.(Record)
	if !ok {
		t.Fatalf("expected a closed Record after substitution, got %T", resolved)
	}
	if len(rec.Fields) != 2 {
		t.Errorf("expected 2 fields after merge, got %d: %s", len(rec.Fields), rec)
	}
}

func TestApplySubstitutionIdempotent(t *testing.T) {
	counter := &RowVarCounter{}
	rho := counter.Fresh()

	fn := Function{
		Params: []Type{OpenRecord{Fields: map[string]Type{"name": String{}}, Row: rho}},
		Ret:    String{},
	}
	subst := Subst{rho.ID: Record{Fields: map[string]Type{"age": Int{}}}}

	once := fn.Apply(subst)
	twice := once.Apply(subst)
	if once.String() != twice.String() {
		t.Errorf("substitution is not idempotent: once=%s twice=%s", once, twice)
	}
}

func TestComposeRowConflictFails(t *testing.T) {
	s1 := Subst{1: Int{}}
	s2 := Subst{1: String{}}
	if _, err := ComposeRow(s1, s2); err == nil {
		t.Errorf("expected a conflict error when the same row var binds to incompatible types")
	}
}

func TestComposeRowMerge(t *testing.T) {
	s1 := Subst{1: Int{}}
	s2 := Subst{2: String{}}
	merged, err := ComposeRow(s1, s2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(merged) != 2 {
		t.Errorf("expected 2 bindings after merge, got %d", len(merged))
	}
}
