package ir

import (
	"fmt"
	"strconv"

	"github.com/constellation-compiler/constellation/internal/ast"
	"github.com/constellation-compiler/constellation/internal/checker"
	"github.com/constellation-compiler/constellation/internal/types"
)

// Lower consumes a checker.TypedPipeline and emits an IRProgram,
// fulfilling the lowering contract of spec.md §4.5: every expression's
// final Type flows onto the corresponding node, every ModuleCall node
// carries the call's original (uninstantiated) qualified name with its
// return type already resolved post-substitution, and every variable
// reference resolves through the VariableBindings built up while
// lowering declarations in source order.
func Lower(pipeline *checker.TypedPipeline) (*Program, error) {
	p := NewProgram()
	for _, decl := range pipeline.Declarations {
		if err := lowerDeclaration(p, decl); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func lowerDeclaration(p *Program, decl checker.TypedDeclaration) error {
	switch decl.Kind {
	case checker.DeclInputDecl:
		id := p.AddNode(&Node{Kind: KindInput, Type: decl.Type, InputName: decl.Name})
		p.Inputs = append(p.Inputs, id)
		p.VariableBindings[decl.Name] = id
		return nil

	case checker.DeclAssignment:
		id, err := lowerExpr(p, *decl.Value)
		if err != nil {
			return err
		}
		p.VariableBindings[decl.Name] = id
		return nil

	case checker.DeclOutputDecl:
		if _, ok := p.VariableBindings[decl.Name]; !ok {
			return fmt.Errorf("output %q is not bound to an IR node", decl.Name)
		}
		p.DeclaredOutputs = append(p.DeclaredOutputs, decl.Name)
		return nil

	case checker.DeclTypeDef, checker.DeclUseDecl:
		return nil

	default:
		return fmt.Errorf("unrecognized typed declaration kind %q", decl.Kind)
	}
}

func lowerExpr(p *Program, te checker.TypedExpr) (NodeId, error) {
	switch te.Kind {
	case checker.KindVarRef:
		name := te.Source.(*ast.VarRef).Name
		id, ok := p.VariableBindings[name]
		if !ok {
			return NodeId{}, fmt.Errorf("variable %q referenced before it was lowered", name)
		}
		return id, nil

	case checker.KindLiteral:
		lit := te.Source.(*ast.Literal)
		val, err := parseLiteral(lit)
		if err != nil {
			return NodeId{}, err
		}
		return p.AddNode(&Node{Kind: KindLiteral, Type: te.Type, Literal: val}), nil

	case checker.KindListLit:
		ids, err := lowerAll(p, te.Elements)
		if err != nil {
			return NodeId{}, err
		}
		return p.AddNode(&Node{Kind: KindListLiteral, Type: te.Type, Inputs: ids}), nil

	case checker.KindStringInterpolation:
		ids, err := lowerAll(p, te.Elements)
		if err != nil {
			return NodeId{}, err
		}
		parts := te.Source.(*ast.StringInterpolation).Parts
		return p.AddNode(&Node{Kind: KindStringInterpolation, Type: te.Type, Inputs: ids, StringParts: parts}), nil

	case checker.KindMerge:
		l, r, err := lowerPair(p, te.Operands)
		if err != nil {
			return NodeId{}, err
		}
		return p.AddNode(&Node{Kind: KindMerge, Type: te.Type, Inputs: []NodeId{l, r}}), nil

	case checker.KindProjection:
		src, err := lowerExpr(p, te.Operands[0])
		if err != nil {
			return NodeId{}, err
		}
		return p.AddNode(&Node{Kind: KindProject, Type: te.Type, Inputs: []NodeId{src}, Fields: te.Fields}), nil

	case checker.KindFieldAccess:
		src, err := lowerExpr(p, te.Operands[0])
		if err != nil {
			return NodeId{}, err
		}
		return p.AddNode(&Node{Kind: KindFieldAccess, Type: te.Type, Inputs: []NodeId{src}, Field: te.Field}), nil

	case checker.KindConditional:
		cond, err := lowerExpr(p, *te.Cond)
		if err != nil {
			return NodeId{}, err
		}
		thenId, err := lowerExpr(p, *te.Then)
		if err != nil {
			return NodeId{}, err
		}
		elseId, err := lowerExpr(p, *te.Else)
		if err != nil {
			return NodeId{}, err
		}
		return p.AddNode(&Node{Kind: KindConditional, Type: te.Type, Inputs: []NodeId{cond, thenId, elseId}}), nil

	case checker.KindBoolBinary:
		l, r, err := lowerPair(p, te.Operands)
		if err != nil {
			return NodeId{}, err
		}
		kind := KindAnd
		if te.Source.(*ast.BoolBinary).Op == ast.BoolOr {
			kind = KindOr
		}
		return p.AddNode(&Node{Kind: kind, Type: te.Type, Inputs: []NodeId{l, r}}), nil

	case checker.KindNot:
		operand, err := lowerExpr(p, te.Operands[0])
		if err != nil {
			return NodeId{}, err
		}
		return p.AddNode(&Node{Kind: KindNot, Type: te.Type, Inputs: []NodeId{operand}}), nil

	case checker.KindGuard:
		l, r, err := lowerPair(p, te.Operands)
		if err != nil {
			return NodeId{}, err
		}
		return p.AddNode(&Node{Kind: KindGuard, Type: te.Type, Inputs: []NodeId{l, r}}), nil

	case checker.KindCoalesce:
		l, r, err := lowerPair(p, te.Operands)
		if err != nil {
			return NodeId{}, err
		}
		return p.AddNode(&Node{Kind: KindCoalesce, Type: te.Type, Inputs: []NodeId{l, r}}), nil

	case checker.KindBranch:
		conds := make([]NodeId, len(te.Branches))
		bodies := make([]NodeId, len(te.Branches))
		for i, br := range te.Branches {
			condId, err := lowerExpr(p, br.Cond)
			if err != nil {
				return NodeId{}, err
			}
			bodyId, err := lowerExpr(p, br.Body)
			if err != nil {
				return NodeId{}, err
			}
			conds[i] = condId
			bodies[i] = bodyId
		}
		otherwiseId, err := lowerExpr(p, *te.Else)
		if err != nil {
			return NodeId{}, err
		}
		bodies = append(bodies, otherwiseId)
		return p.AddNode(&Node{Kind: KindBranch, Type: te.Type, Inputs: bodies, BranchConds: conds}), nil

	case checker.KindFunctionCall:
		return lowerCall(p, te)

	default:
		return NodeId{}, fmt.Errorf("unrecognized typed expression kind %q", te.Kind)
	}
}

func lowerCall(p *Program, te checker.TypedExpr) (NodeId, error) {
	call := te.Call
	if op, ok := higherOrderOp(call.Signature.Name); ok {
		return lowerHigherOrderCall(p, te, op)
	}

	ids, err := lowerAll(p, call.Args)
	if err != nil {
		return NodeId{}, err
	}
	return p.AddNode(&Node{Kind: KindModuleCall, Type: te.Type, Inputs: ids, ModuleName: call.Signature.QualifiedName()}), nil
}

func higherOrderOp(name string) (HigherOrderOp, bool) {
	switch name {
	case "filter":
		return OpFilter, true
	case "map":
		return OpMap, true
	case "all":
		return OpAll, true
	case "any":
		return OpAny, true
	case "sortBy":
		return OpSortBy, true
	}
	return "", false
}

// lowerHigherOrderCall lowers a filter/map/all/any/sortBy call: the
// non-lambda argument (the list) lowers normally, while the lambda
// argument's parameter is bound to a synthetic Input-kind node scoped to
// the lambda body only (not added to Program.Inputs, so it is never
// mistaken for a pipeline input).
func lowerHigherOrderCall(p *Program, te checker.TypedExpr, op HigherOrderOp) (NodeId, error) {
	call := te.Call
	var (
		listId    NodeId
		haveList  bool
		lambdaArg *checker.TypedExpr
	)
	for i := range call.Args {
		arg := call.Args[i]
		if arg.Kind == checker.KindLambda {
			lambdaArg = &call.Args[i]
			continue
		}
		id, err := lowerExpr(p, arg)
		if err != nil {
			return NodeId{}, err
		}
		listId = id
		haveList = true
	}
	if lambdaArg == nil || !haveList {
		return NodeId{}, fmt.Errorf("%s call is missing its list or lambda argument", op)
	}

	lambdaAst := lambdaArg.Source.(*ast.Lambda)
	paramName := lambdaAst.Params[0].Name
	paramType := lambdaArg.Type.(types.Function).Params[0]

	paramNodeId := p.AddNode(&Node{Kind: KindInput, Type: paramType, InputName: paramName})
	p.VariableBindings[paramName] = paramNodeId
	bodyId, err := lowerExpr(p, lambdaArg.Operands[0])
	if err != nil {
		return NodeId{}, err
	}
	delete(p.VariableBindings, paramName)

	return p.AddNode(&Node{
		Kind: KindHigherOrder, Type: te.Type,
		Inputs: []NodeId{listId}, HigherOrderOp: op,
		LambdaBody: bodyId, LambdaParam: paramName,
	}), nil
}

func lowerAll(p *Program, exprs []checker.TypedExpr) ([]NodeId, error) {
	ids := make([]NodeId, len(exprs))
	for i, e := range exprs {
		id, err := lowerExpr(p, e)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func lowerPair(p *Program, operands []checker.TypedExpr) (NodeId, NodeId, error) {
	l, err := lowerExpr(p, operands[0])
	if err != nil {
		return NodeId{}, NodeId{}, err
	}
	r, err := lowerExpr(p, operands[1])
	if err != nil {
		return NodeId{}, NodeId{}, err
	}
	return l, r, nil
}

func parseLiteral(lit *ast.Literal) (LiteralValue, error) {
	switch lit.Kind {
	case ast.LiteralString:
		return lit.Raw, nil
	case ast.LiteralInt:
		n, err := strconv.ParseInt(lit.Raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q: %w", lit.Raw, err)
		}
		return n, nil
	case ast.LiteralFloat:
		f, err := strconv.ParseFloat(lit.Raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %q: %w", lit.Raw, err)
		}
		return f, nil
	case ast.LiteralBoolean:
		b, err := strconv.ParseBool(lit.Raw)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean literal %q: %w", lit.Raw, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unrecognized literal kind")
	}
}
