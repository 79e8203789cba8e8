package checker

import (
	"github.com/constellation-compiler/constellation/internal/ast"
	"github.com/constellation-compiler/constellation/internal/compileerr"
	"github.com/constellation-compiler/constellation/internal/types"
)

// check verifies an expression against an expected type (spec.md §4.4,
// the ⇓ T mode), using specialized rules where the expected type drives
// local inference decisions and falling back to infer-then-subsume
// otherwise.
func (c *Checker) check(env TypeEnv, e ast.Expression, expected types.Type) (TypedExpr, *compileerr.CompileError) {
	switch expr := e.(type) {
	case *ast.Lambda:
		if fn, ok := expected.(types.Function); ok {
			return c.checkLambda(env, expr, fn)
		}
	case *ast.ListLit:
		if lst, ok := expected.(types.List); ok {
			return c.checkListLit(env, expr, lst)
		}
	}

	inferred, err := c.infer(env, e)
	if err != nil {
		return TypedExpr{}, err
	}
	if !types.IsSubtype(inferred.Type, expected) {
		return TypedExpr{}, compileerr.TypeMismatch(expected, inferred.Type, e.GetSpan())
	}
	return inferred, nil
}

// checkLambda implements spec.md §4.4's `Lambda(params, body) ⇓
// Function(P, R)` rule: unannotated parameters are inferred from P;
// annotated parameters require `Pᵢ <: annotated` (contravariance); the
// body is then checked against R.
func (c *Checker) checkLambda(env TypeEnv, expr *ast.Lambda, fn types.Function) (TypedExpr, *compileerr.CompileError) {
	if len(expr.Params) != len(fn.Params) {
		return TypedExpr{}, compileerr.TypeErrorf(expr.Span,
			"lambda expects %d parameters, context requires %d", len(expr.Params), len(fn.Params))
	}

	inner := env
	paramTypes := make([]types.Type, len(expr.Params))
	for i, p := range expr.Params {
		expectedParam := fn.Params[i]
		if p.Annotation == nil {
			paramTypes[i] = expectedParam
			inner = inner.WithVar(p.Name, expectedParam)
			continue
		}
		annotated, terr := c.resolveTypeExpr(env, p.Annotation)
		if terr != nil {
			return TypedExpr{}, terr
		}
		if !types.IsSubtype(expectedParam, annotated) {
			return TypedExpr{}, compileerr.TypeMismatch(annotated, expectedParam, expr.Span)
		}
		paramTypes[i] = annotated
		inner = inner.WithVar(p.Name, annotated)
	}

	body, err := c.check(inner, expr.Body, fn.Ret)
	if err != nil {
		return TypedExpr{}, err
	}
	return TypedExpr{
		Span: expr.Span,
		Type: types.Function{Params: paramTypes, Ret: body.Type},
		Kind: KindLambda,
		Operands: []TypedExpr{body},
		Source: expr,
	}, nil
}

// checkListLit implements spec.md §4.4's list-literal check rules: an
// empty literal takes its element type entirely from context, while a
// non-empty literal requires `List(lub(elem_types)) <: List<T>` before
// the expected element type is propagated as the result.
func (c *Checker) checkListLit(env TypeEnv, expr *ast.ListLit, expected types.List) (TypedExpr, *compileerr.CompileError) {
	if len(expr.Elements) == 0 {
		return TypedExpr{Span: expr.Span, Type: expected, Kind: KindListLit, Source: expr}, nil
	}

	elems := make([]TypedExpr, len(expr.Elements))
	elemTypes := make([]types.Type, len(expr.Elements))
	for i, el := range expr.Elements {
		te, err := c.infer(env, el)
		if err != nil {
			return TypedExpr{}, err
		}
		elems[i] = te
		elemTypes[i] = te.Type
	}
	lub, cerr := commonTypeOrError(elemTypes, expr.Span)
	if cerr != nil {
		return TypedExpr{}, cerr
	}
	inferred := types.List{Elem: lub}
	if !types.IsSubtype(inferred, expected) {
		return TypedExpr{}, compileerr.TypeMismatch(expected, inferred, expr.Span)
	}
	return TypedExpr{Span: expr.Span, Type: expected, Kind: KindListLit, Elements: elems, Source: expr}, nil
}
