package checker

import (
	"github.com/constellation-compiler/constellation/internal/ast"
	"github.com/constellation-compiler/constellation/internal/compileerr"
)

// checkDeclaration checks one top-level declaration and returns the
// environment extended by whatever binding it introduces (spec.md
// §4.4's "Declaration checking").
func (c *Checker) checkDeclaration(env TypeEnv, decl ast.Declaration) (TypedDeclaration, TypeEnv, *compileerr.CompileError) {
	switch d := decl.(type) {
	case *ast.TypeDef:
		t, err := c.resolveTypeExpr(env, d.Expr)
		if err != nil {
			return TypedDeclaration{}, env, err
		}
		return TypedDeclaration{Span: d.Span, Kind: DeclTypeDef, Name: d.Name, Type: t}, env.WithAlias(d.Name, t), nil

	case *ast.InputDecl:
		t, err := c.resolveTypeExpr(env, d.TypeExpr)
		if err != nil {
			return TypedDeclaration{}, env, err
		}
		examples := make([]TypedExpr, len(d.Examples))
		for i, ex := range d.Examples {
			checked, cerr := c.check(env, ex.Expr, t)
			if cerr != nil {
				return TypedDeclaration{}, env, cerr
			}
			examples[i] = checked
		}
		return TypedDeclaration{Span: d.Span, Kind: DeclInputDecl, Name: d.Name, Type: t, Examples: examples}, env.WithVar(d.Name, t), nil

	case *ast.Assignment:
		value, err := c.infer(env, d.Value)
		if err != nil {
			return TypedDeclaration{}, env, err
		}
		return TypedDeclaration{Span: d.Span, Kind: DeclAssignment, Name: d.Name, Type: value.Type, Value: &value}, env.WithVar(d.Name, value.Type), nil

	case *ast.OutputDecl:
		t, ok := env.LookupVar(d.Name)
		if !ok {
			return TypedDeclaration{}, env, compileerr.UndefinedVariable(d.Name, d.Span)
		}
		return TypedDeclaration{Span: d.Span, Kind: DeclOutputDecl, Name: d.Name, Type: t}, env, nil

	case *ast.UseDecl:
		return c.checkUseDecl(env, d)

	default:
		return TypedDeclaration{}, env, compileerr.TypeErrorf(decl.GetSpan(), "unrecognized declaration form")
	}
}

func (c *Checker) checkUseDecl(env TypeEnv, d *ast.UseDecl) (TypedDeclaration, TypeEnv, *compileerr.CompileError) {
	if !env.Registry.HasNamespace(d.Path) {
		return TypedDeclaration{}, env, compileerr.UndefinedNamespace(d.Path, d.Span)
	}

	scope := env.Scope
	if d.Alias != "" {
		scope = scope.WithAlias(d.Alias, d.Path)
	} else {
		scope = scope.WithWildcardImport(d.Path)
	}

	return TypedDeclaration{Span: d.Span, Kind: DeclUseDecl, Path: d.Path, Alias: d.Alias}, env.WithScope(scope), nil
}
