package checker

import (
	"github.com/constellation-compiler/constellation/internal/ast"
	"github.com/constellation-compiler/constellation/internal/compileerr"
	"github.com/constellation-compiler/constellation/internal/span"
	"github.com/constellation-compiler/constellation/internal/types"
)

// infer derives the type of an expression from its shape (spec.md §4.4,
// the ⇑ mode).
func (c *Checker) infer(env TypeEnv, e ast.Expression) (TypedExpr, *compileerr.CompileError) {
	switch expr := e.(type) {
	case *ast.VarRef:
		t, ok := env.LookupVar(expr.Name)
		if !ok {
			return TypedExpr{}, compileerr.UndefinedVariable(expr.Name, expr.Span)
		}
		return TypedExpr{Span: expr.Span, Type: t, Kind: KindVarRef, Source: e}, nil

	case *ast.Literal:
		return TypedExpr{Span: expr.Span, Type: literalType(expr.Kind), Kind: KindLiteral, Source: e}, nil

	case *ast.ListLit:
		if len(expr.Elements) == 0 {
			return TypedExpr{Span: expr.Span, Type: types.List{Elem: types.Nothing{}}, Kind: KindListLit, Source: e}, nil
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
		return TypedExpr{Span: expr.Span, Type: types.List{Elem: lub}, Kind: KindListLit, Elements: elems, Source: e}, nil

	case *ast.StringInterpolation:
		exprs := make([]TypedExpr, len(expr.Exprs))
		for i, sub := range expr.Exprs {
			te, err := c.infer(env, sub)
			if err != nil {
				return TypedExpr{}, err
			}
			exprs[i] = te
		}
		return TypedExpr{Span: expr.Span, Type: types.String{}, Kind: KindStringInterpolation, Elements: exprs, Source: e}, nil

	case *ast.Merge:
		return c.inferMerge(env, expr)

	case *ast.Projection:
		return c.inferProjection(env, expr)

	case *ast.FieldAccess:
		return c.inferFieldAccess(env, expr)

	case *ast.Conditional:
		return c.inferConditional(env, expr)

	case *ast.Compare:
		return c.inferCompare(env, expr)

	case *ast.Arithmetic:
		return c.inferArithmetic(env, expr)

	case *ast.BoolBinary:
		return c.inferBoolBinary(env, expr)

	case *ast.Not:
		operand, err := c.check(env, expr.Expr, types.Boolean{})
		if err != nil {
			return TypedExpr{}, err
		}
		return TypedExpr{Span: expr.Span, Type: types.Boolean{}, Kind: KindNot, Operands: []TypedExpr{operand}, Source: e}, nil

	case *ast.Guard:
		return c.inferGuard(env, expr)

	case *ast.Coalesce:
		return c.inferCoalesce(env, expr)

	case *ast.Branch:
		return c.inferBranch(env, expr)

	case *ast.Lambda:
		return c.inferLambda(env, expr)

	case *ast.FunctionCall:
		return c.inferCall(env, expr)

	default:
		return TypedExpr{}, compileerr.TypeErrorf(e.GetSpan(), "unrecognized expression form")
	}
}

func literalType(k ast.LiteralKind) types.Type {
	switch k {
	case ast.LiteralString:
		return types.String{}
	case ast.LiteralInt:
		return types.Int{}
	case ast.LiteralFloat:
		return types.Float{}
	case ast.LiteralBoolean:
		return types.Boolean{}
	default:
		return types.Nothing{}
	}
}

func commonTypeOrError(ts []types.Type, sp span.Span) (types.Type, *compileerr.CompileError) {
	ct, err := types.CommonType(ts)
	if err != nil {
		return nil, compileerr.TypeErrorf(sp, "%s", err.Error())
	}
	return ct, nil
}

func (c *Checker) inferMerge(env TypeEnv, expr *ast.Merge) (TypedExpr, *compileerr.CompileError) {
	l, err := c.infer(env, expr.Left)
	if err != nil {
		return TypedExpr{}, err
	}
	r, err := c.infer(env, expr.Right)
	if err != nil {
		return TypedExpr{}, err
	}
	merged, mergeErr := mergeTypes(l.Type, r.Type, expr.Span)
	if mergeErr != nil {
		return TypedExpr{}, mergeErr
	}
	return TypedExpr{Span: expr.Span, Type: merged, Kind: KindMerge, Operands: []TypedExpr{l, r}, Source: expr}, nil
}

func (c *Checker) inferProjection(env TypeEnv, expr *ast.Projection) (TypedExpr, *compileerr.CompileError) {
	src, err := c.infer(env, expr.Src)
	if err != nil {
		return TypedExpr{}, err
	}

	project := func(rec types.Record) (types.Record, *compileerr.CompileError) {
		fields := make(map[string]types.Type, len(expr.Fields))
		for _, f := range expr.Fields {
			ft, ok := rec.Fields[f]
			if !ok {
				return types.Record{}, compileerr.InvalidProjection(f, rec.SortedFieldNames(), expr.Span)
			}
			fields[f] = ft
		}
		return types.NewRecord(fields), nil
	}

	switch srcType := src.Type.(type) {
	case types.Record:
		projected, perr := project(srcType)
		if perr != nil {
			return TypedExpr{}, perr
		}
		return TypedExpr{Span: expr.Span, Type: projected, Kind: KindProjection, Operands: []TypedExpr{src}, Fields: expr.Fields, Source: expr}, nil
	case types.List:
		if rec, ok := srcType.Elem.(types.Record); ok {
			projected, perr := project(rec)
			if perr != nil {
				return TypedExpr{}, perr
			}
			return TypedExpr{Span: expr.Span, Type: types.List{Elem: projected}, Kind: KindProjection, Operands: []TypedExpr{src}, Fields: expr.Fields, Source: expr}, nil
		}
	}
	return TypedExpr{}, compileerr.TypeErrorf(expr.Span, "projection requires a record or list of records, got %s", src.Type)
}

func (c *Checker) inferFieldAccess(env TypeEnv, expr *ast.FieldAccess) (TypedExpr, *compileerr.CompileError) {
	src, err := c.infer(env, expr.Src)
	if err != nil {
		return TypedExpr{}, err
	}
	switch srcType := src.Type.(type) {
	case types.Record:
		ft, ok := srcType.Fields[expr.Field]
		if !ok {
			return TypedExpr{}, compileerr.InvalidFieldAccess(expr.Field, srcType.SortedFieldNames(), expr.Span)
		}
		return TypedExpr{Span: expr.Span, Type: ft, Kind: KindFieldAccess, Operands: []TypedExpr{src}, Field: expr.Field, Source: expr}, nil
	case types.List:
		if rec, ok := srcType.Elem.(types.Record); ok {
			ft, ok2 := rec.Fields[expr.Field]
			if !ok2 {
				return TypedExpr{}, compileerr.InvalidFieldAccess(expr.Field, rec.SortedFieldNames(), expr.Span)
			}
			return TypedExpr{Span: expr.Span, Type: types.List{Elem: ft}, Kind: KindFieldAccess, Operands: []TypedExpr{src}, Field: expr.Field, Source: expr}, nil
		}
	}
	return TypedExpr{}, compileerr.TypeErrorf(expr.Span, "field access requires a record or list of records, got %s", src.Type)
}

func (c *Checker) inferConditional(env TypeEnv, expr *ast.Conditional) (TypedExpr, *compileerr.CompileError) {
	cond, err := c.check(env, expr.Cond, types.Boolean{})
	if err != nil {
		return TypedExpr{}, err
	}
	thenExpr, err := c.infer(env, expr.Then)
	if err != nil {
		return TypedExpr{}, err
	}
	elseExpr, err := c.infer(env, expr.Else)
	if err != nil {
		return TypedExpr{}, err
	}
	result := types.Lub(thenExpr.Type, elseExpr.Type)
	return TypedExpr{Span: expr.Span, Type: result, Kind: KindConditional, Cond: &cond, Then: &thenExpr, Else: &elseExpr, Source: expr}, nil
}

func (c *Checker) inferCompare(env TypeEnv, expr *ast.Compare) (TypedExpr, *compileerr.CompileError) {
	l, err := c.infer(env, expr.Left)
	if err != nil {
		return TypedExpr{}, err
	}
	r, err := c.infer(env, expr.Right)
	if err != nil {
		return TypedExpr{}, err
	}
	if l.Type.String() != r.Type.String() {
		return TypedExpr{}, compileerr.UnsupportedComparison(string(expr.Op), l.Type, r.Type, expr.Span)
	}

	fnName, ok := comparisonFunction(expr.Op, l.Type)
	if !ok {
		return TypedExpr{}, compileerr.UnsupportedComparison(string(expr.Op), l.Type, r.Type, expr.Span)
	}
	sig, rerr := env.Registry.LookupInScope(fnName, env.Scope)
	if rerr != nil {
		return TypedExpr{}, compileerr.TypeErrorf(expr.Span, "comparison primitive %q is not registered: %s", fnName, rerr.Error())
	}

	call := TypedExpr{
		Span: expr.Span,
		Type: sig.Ret,
		Kind: KindFunctionCall,
		Call: &TypedCall{Signature: sig, Args: []TypedExpr{l, r}},
		Source: expr,
	}
	if expr.Op == ast.CompareNeq {
		return TypedExpr{Span: expr.Span, Type: types.Boolean{}, Kind: KindNot, Operands: []TypedExpr{call}, Source: expr}, nil
	}
	return call, nil
}

// comparisonFunction maps a comparison operator and operand type to the
// registered primitive implementing it (spec.md §4.4). String ordering
// comparisons are deliberately unsupported (spec.md §9 Open Question).
func comparisonFunction(op ast.CompareOp, operand types.Type) (string, bool) {
	_, isString := operand.(types.String)
	_, isInt := operand.(types.Int)
	switch op {
	case ast.CompareEq, ast.CompareNeq:
		switch {
		case isString:
			return "eq-string", true
		case isInt:
			return "eq-int", true
		}
		return "", false
	case ast.CompareLt:
		if isInt {
			return "lt", true
		}
		return "", false
	case ast.CompareGt:
		if isInt {
			return "gt", true
		}
		return "", false
	case ast.CompareLte:
		if isInt {
			return "lte", true
		}
		return "", false
	case ast.CompareGte:
		if isInt {
			return "gte", true
		}
		return "", false
	}
	return "", false
}

func (c *Checker) inferArithmetic(env TypeEnv, expr *ast.Arithmetic) (TypedExpr, *compileerr.CompileError) {
	l, err := c.infer(env, expr.Left)
	if err != nil {
		return TypedExpr{}, err
	}
	r, err := c.infer(env, expr.Right)
	if err != nil {
		return TypedExpr{}, err
	}

	if expr.Op == ast.ArithAdd && isMergeable(l.Type) && isMergeable(r.Type) {
		merged, mergeErr := mergeTypes(l.Type, r.Type, expr.Span)
		if mergeErr != nil {
			return TypedExpr{}, mergeErr
		}
		return TypedExpr{Span: expr.Span, Type: merged, Kind: KindMerge, Operands: []TypedExpr{l, r}, Source: expr}, nil
	}

	if !isNumeric(l.Type) || !isNumeric(r.Type) {
		return TypedExpr{}, compileerr.UnsupportedArithmetic(string(expr.Op), l.Type, r.Type, expr.Span)
	}
	if l.Type.String() != r.Type.String() {
		return TypedExpr{}, compileerr.UnsupportedArithmetic(string(expr.Op), l.Type, r.Type, expr.Span)
	}

	fnName := map[ast.ArithOp]string{
		ast.ArithAdd: "add", ast.ArithSub: "subtract", ast.ArithMul: "multiply", ast.ArithDiv: "divide",
	}[expr.Op]
	sig, rerr := env.Registry.LookupInScope(fnName, env.Scope)
	if rerr != nil {
		return TypedExpr{}, compileerr.TypeErrorf(expr.Span, "arithmetic primitive %q is not registered: %s", fnName, rerr.Error())
	}
	return TypedExpr{
		Span: expr.Span,
		Type: sig.Ret,
		Kind: KindFunctionCall,
		Call: &TypedCall{Signature: sig, Args: []TypedExpr{l, r}},
		Source: expr,
	}, nil
}

func isNumeric(t types.Type) bool {
	switch t.(type) {
	case types.Int, types.Float:
		return true
	}
	return false
}

func (c *Checker) inferBoolBinary(env TypeEnv, expr *ast.BoolBinary) (TypedExpr, *compileerr.CompileError) {
	l, err := c.check(env, expr.Left, types.Boolean{})
	if err != nil {
		return TypedExpr{}, err
	}
	r, err := c.check(env, expr.Right, types.Boolean{})
	if err != nil {
		return TypedExpr{}, err
	}
	return TypedExpr{Span: expr.Span, Type: types.Boolean{}, Kind: KindBoolBinary, Operands: []TypedExpr{l, r}, Source: expr}, nil
}

func (c *Checker) inferGuard(env TypeEnv, expr *ast.Guard) (TypedExpr, *compileerr.CompileError) {
	inner, err := c.infer(env, expr.Expr)
	if err != nil {
		return TypedExpr{}, err
	}
	cond, err := c.check(env, expr.Condition, types.Boolean{})
	if err != nil {
		return TypedExpr{}, err
	}
	return TypedExpr{Span: expr.Span, Type: types.Optional{Elem: inner.Type}, Kind: KindGuard, Operands: []TypedExpr{inner, cond}, Source: expr}, nil
}

func (c *Checker) inferCoalesce(env TypeEnv, expr *ast.Coalesce) (TypedExpr, *compileerr.CompileError) {
	l, err := c.infer(env, expr.Left)
	if err != nil {
		return TypedExpr{}, err
	}
	opt, ok := l.Type.(types.Optional)
	if !ok {
		return TypedExpr{}, compileerr.TypeErrorf(expr.Span, "left side of ?? must be Optional, got %s", l.Type)
	}
	r, err := c.infer(env, expr.Right)
	if err != nil {
		return TypedExpr{}, err
	}
	var resultType types.Type
	switch {
	case r.Type.String() == opt.Elem.String():
		resultType = opt.Elem
	default:
		if ropt, ok := r.Type.(types.Optional); ok && ropt.Elem.String() == opt.Elem.String() {
			resultType = r.Type
		} else {
			return TypedExpr{}, compileerr.TypeMismatch(opt.Elem, r.Type, expr.Span)
		}
	}
	return TypedExpr{Span: expr.Span, Type: resultType, Kind: KindCoalesce, Operands: []TypedExpr{l, r}, Source: expr}, nil
}

// inferBranch checks every case's condition/body and the otherwise arm
// independently: each arm failing doesn't stop the others from being
// checked too, since none of their errors depend on one another. Once
// any arm has failed the branch as a whole is ill-typed, so checking
// still stops short of computing a result type, but every arm's error
// is preserved (the first is returned, the rest recorded via
// collectExtra) instead of only the first arm reached.
func (c *Checker) inferBranch(env TypeEnv, expr *ast.Branch) (TypedExpr, *compileerr.CompileError) {
	cases := make([]TypedBranchCase, 0, len(expr.Cases))
	bodyTypes := make([]types.Type, 0, len(expr.Cases)+1)
	var armErrs []*compileerr.CompileError

	for _, cs := range expr.Cases {
		cond, err := c.check(env, cs.Cond, types.Boolean{})
		if err != nil {
			armErrs = append(armErrs, err)
			continue
		}
		body, err := c.infer(env, cs.Body)
		if err != nil {
			armErrs = append(armErrs, err)
			continue
		}
		cases = append(cases, TypedBranchCase{Cond: cond, Body: body})
		bodyTypes = append(bodyTypes, body.Type)
	}

	otherwise, err := c.infer(env, expr.Otherwise)
	if err != nil {
		armErrs = append(armErrs, err)
	} else {
		bodyTypes = append(bodyTypes, otherwise.Type)
	}

	if len(armErrs) > 0 {
		c.collectExtra(armErrs[1:])
		return TypedExpr{}, armErrs[0]
	}

	result, cerr := commonTypeOrError(bodyTypes, expr.Span)
	if cerr != nil {
		return TypedExpr{}, cerr
	}
	return TypedExpr{Span: expr.Span, Type: result, Kind: KindBranch, Branches: cases, Else: &otherwise, Source: expr}, nil
}

func (c *Checker) inferLambda(env TypeEnv, expr *ast.Lambda) (TypedExpr, *compileerr.CompileError) {
	params := make([]types.Type, len(expr.Params))
	inner := env
	for i, p := range expr.Params {
		if p.Annotation == nil {
			return TypedExpr{}, compileerr.TypeErrorf(expr.Span,
				"lambda parameter %q lacks a type annotation; use it where an expected function type can be inferred", p.Name)
		}
		pt, terr := c.resolveTypeExpr(env, p.Annotation)
		if terr != nil {
			return TypedExpr{}, terr
		}
		params[i] = pt
		inner = inner.WithVar(p.Name, pt)
	}
	body, err := c.infer(inner, expr.Body)
	if err != nil {
		return TypedExpr{}, err
	}
	return TypedExpr{
		Span: expr.Span,
		Type: types.Function{Params: params, Ret: body.Type},
		Kind: KindLambda,
		Operands: []TypedExpr{body},
		Source: expr,
	}, nil
}
