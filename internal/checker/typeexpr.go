package checker

import (
	"github.com/constellation-compiler/constellation/internal/ast"
	"github.com/constellation-compiler/constellation/internal/compileerr"
	"github.com/constellation-compiler/constellation/internal/types"
)

// resolveTypeExpr turns a surface TypeExpr into a types.Type, resolving
// named-type aliases against env and instantiating a fresh RowVar for
// every open record written in source (spec.md §9 treats "Candidates"
// as a legacy alias of "List").
func (c *Checker) resolveTypeExpr(env TypeEnv, te ast.TypeExpr) (types.Type, *compileerr.CompileError) {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		return c.resolveNamedTypeExpr(env, t)
	case *ast.RecordTypeExpr:
		return c.resolveRecordTypeExpr(env, t)
	case *ast.FunctionTypeExpr:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			pt, err := c.resolveTypeExpr(env, p)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		ret, err := c.resolveTypeExpr(env, t.Ret)
		if err != nil {
			return nil, err
		}
		return types.Function{Params: params, Ret: ret}, nil
	case *ast.UnionTypeExpr:
		members := make([]types.Type, len(t.Members))
		for i, m := range t.Members {
			mt, err := c.resolveTypeExpr(env, m)
			if err != nil {
				return nil, err
			}
			members[i] = mt
		}
		return types.NormalizeUnion(members), nil
	default:
		return nil, compileerr.TypeErrorf(te.GetSpan(), "unrecognized type expression")
	}
}

func (c *Checker) resolveNamedTypeExpr(env TypeEnv, t *ast.NamedTypeExpr) (types.Type, *compileerr.CompileError) {
	name := t.Name
	if name == "Candidates" {
		name = "List" // spec.md §9: legacy alias, no distinct runtime type
	}

	switch name {
	case "String":
		return types.String{}, nil
	case "Int":
		return types.Int{}, nil
	case "Float":
		return types.Float{}, nil
	case "Boolean":
		return types.Boolean{}, nil
	case "Nothing":
		return types.Nothing{}, nil
	case "List":
		if len(t.Args) != 1 {
			return nil, compileerr.TypeErrorf(t.Span, "List requires exactly one type argument")
		}
		elem, err := c.resolveTypeExpr(env, t.Args[0])
		if err != nil {
			return nil, err
		}
		return types.List{Elem: elem}, nil
	case "Optional":
		if len(t.Args) != 1 {
			return nil, compileerr.TypeErrorf(t.Span, "Optional requires exactly one type argument")
		}
		elem, err := c.resolveTypeExpr(env, t.Args[0])
		if err != nil {
			return nil, err
		}
		return types.Optional{Elem: elem}, nil
	case "Map":
		if len(t.Args) != 2 {
			return nil, compileerr.TypeErrorf(t.Span, "Map requires exactly two type arguments")
		}
		key, err := c.resolveTypeExpr(env, t.Args[0])
		if err != nil {
			return nil, err
		}
		val, err := c.resolveTypeExpr(env, t.Args[1])
		if err != nil {
			return nil, err
		}
		return types.Map{Key: key, Value: val}, nil
	}

	if alias, ok := env.LookupAlias(name); ok {
		return alias, nil
	}
	return nil, compileerr.UndefinedType(t.Name, t.Span)
}

func (c *Checker) resolveRecordTypeExpr(env TypeEnv, t *ast.RecordTypeExpr) (types.Type, *compileerr.CompileError) {
	fields := make(map[string]types.Type, len(t.Fields))
	for name, fte := range t.Fields {
		ft, err := c.resolveTypeExpr(env, fte)
		if err != nil {
			return nil, err
		}
		fields[name] = ft
	}
	if !t.Open {
		return types.NewRecord(fields), nil
	}
	return types.OpenRecord{Fields: fields, Row: c.rowCounter.Fresh()}, nil
}
