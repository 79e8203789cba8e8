package checker

import (
	"github.com/constellation-compiler/constellation/internal/ast"
	"github.com/constellation-compiler/constellation/internal/compileerr"
	"github.com/constellation-compiler/constellation/internal/registry"
	"github.com/constellation-compiler/constellation/internal/span"
	"github.com/constellation-compiler/constellation/internal/types"
)

// inferCall implements spec.md §4.4's per-call state machine: resolve
// signature → check arity → instantiate row vars (if polymorphic) →
// check arguments → validate options → emit typed call node. Any step
// failing short-circuits the whole call.
func (c *Checker) inferCall(env TypeEnv, expr *ast.FunctionCall) (TypedExpr, *compileerr.CompileError) {
	sig, rerr := env.Registry.LookupInScope(expr.Name, env.Scope)
	if rerr != nil {
		return TypedExpr{}, resolveErrToCompileError(rerr, expr.Span)
	}

	if len(expr.Args) != len(sig.Params) {
		return TypedExpr{}, compileerr.TypeErrorf(expr.Span,
			"%s expects %d arguments, got %d", sig.QualifiedName(), len(sig.Params), len(expr.Args))
	}

	var (
		args     []TypedExpr
		retType  types.Type
		checkErr *compileerr.CompileError
	)
	if sig.IsRowPolymorphic() {
		args, retType, checkErr = c.checkRowPolymorphicArgs(env, expr, sig)
	} else {
		args, checkErr = c.checkFixedArgs(env, expr, sig)
		retType = sig.Ret
	}
	if checkErr != nil {
		return TypedExpr{}, checkErr
	}

	options, optErr := c.checkCallOptions(env, expr, retType)
	if optErr != nil {
		return TypedExpr{}, optErr
	}

	return TypedExpr{
		Span: expr.Span,
		Type: retType,
		Kind: KindFunctionCall,
		Call: &TypedCall{Signature: sig, Args: args, Options: options},
		Source: expr,
	}, nil
}

// resolveErrToCompileError maps a registry.ResolveError onto the
// corresponding spec.md §7 error kind.
func resolveErrToCompileError(err error, sp span.Span) *compileerr.CompileError {
	re, ok := err.(*registry.ResolveError)
	if !ok {
		return compileerr.TypeErrorf(sp, "%s", err.Error())
	}
	switch re.Kind {
	case "UndefinedNamespace":
		return compileerr.UndefinedNamespace(re.Name, sp)
	case "AmbiguousFunction":
		return compileerr.AmbiguousFunction(re.Name, re.Suggestions, sp)
	default:
		return compileerr.UndefinedFunction(re.Name, sp, re.Suggestions)
	}
}

// checkFixedArgs checks each argument against its parameter type so
// lambdas inherit parameter types (spec.md §4.4). Arguments are
// independent of one another, so every argument is checked before any
// error is returned; only the first error short-circuits the call, the
// rest are recorded via collectExtra.
func (c *Checker) checkFixedArgs(env TypeEnv, expr *ast.FunctionCall, sig registry.Signature) ([]TypedExpr, *compileerr.CompileError) {
	args := make([]TypedExpr, len(expr.Args))
	var argErrs []*compileerr.CompileError
	for i, a := range expr.Args {
		checked, err := c.check(env, a, sig.Params[i].Type)
		if err != nil {
			argErrs = append(argErrs, err)
			continue
		}
		args[i] = checked
	}
	if len(argErrs) > 0 {
		c.collectExtra(argErrs[1:])
		return nil, argErrs[0]
	}
	return args, nil
}

// checkRowPolymorphicArgs instantiates fresh row variables for sig's
// quantified rows, infers each argument, unifies it against its
// (freshened) parameter type via the row unifier, composes the
// resulting substitutions, and applies them to the return type
// (spec.md §4.2, §4.4).
//
// Inference of each argument is independent of its siblings, so every
// argument is inferred before any inference error is returned (extras
// recorded via collectExtra). Row unification composes a running
// substitution across arguments in order, so once every argument has
// inferred successfully that pass still stops at its first conflict:
// a later argument's unification result depends on the row identities
// a prior argument's unification already resolved.
func (c *Checker) checkRowPolymorphicArgs(env TypeEnv, expr *ast.FunctionCall, sig registry.Signature) ([]TypedExpr, types.Type, *compileerr.CompileError) {
	freshen := freshRowSubst(sig.RowVars, c.rowCounter)

	args := make([]TypedExpr, len(expr.Args))
	var inferErrs []*compileerr.CompileError
	for i, a := range expr.Args {
		inferred, err := c.infer(env, a)
		if err != nil {
			inferErrs = append(inferErrs, err)
			continue
		}
		args[i] = inferred
	}
	if len(inferErrs) > 0 {
		c.collectExtra(inferErrs[1:])
		return nil, nil, inferErrs[0]
	}

	subst := types.Subst{}
	for i, a := range expr.Args {
		paramType := sig.Params[i].Type.Apply(freshen)
		inferred := args[i]

		openParam, isOpen := paramType.(types.OpenRecord)
		if !isOpen {
			if !types.IsSubtype(inferred.Type, paramType) {
				return nil, nil, compileerr.TypeMismatch(paramType, inferred.Type, a.GetSpan())
			}
			continue
		}
		unified, uerr := types.UnifyRow(inferred.Type, openParam)
		if uerr != nil {
			return nil, nil, compileerr.TypeErrorf(a.GetSpan(), "cannot unify argument against row-polymorphic parameter: %s", uerr.Error())
		}
		composed, cerr := types.ComposeRow(subst, unified)
		if cerr != nil {
			return nil, nil, compileerr.TypeErrorf(a.GetSpan(), "conflicting row substitution: %s", cerr.Error())
		}
		subst = composed
	}

	retType := sig.Ret.Apply(freshen).Apply(subst)
	return args, retType, nil
}

// freshRowSubst maps every row variable sig quantifies over to a freshly
// minted RowVar, so concurrent/repeated calls to the same signature
// never share row-variable identity (spec.md §4.2: "Each call site of a
// row-polymorphic function obtains fresh row-variable ids"). A counter
// id that coincides with one of the template ids is skipped, so no image
// is itself bound by the substitution.
func freshRowSubst(rowVars []types.RowVar, counter *types.RowVarCounter) types.Subst {
	subst := make(types.Subst, len(rowVars))
	isTemplate := make(map[uint64]bool, len(rowVars))
	for _, rv := range rowVars {
		isTemplate[rv.ID] = true
	}
	for _, rv := range rowVars {
		fresh := counter.Fresh()
		for isTemplate[fresh.ID] {
			fresh = counter.Fresh()
		}
		subst[rv.ID] = fresh
	}
	return subst
}
