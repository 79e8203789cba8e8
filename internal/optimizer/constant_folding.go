package optimizer

import (
	"fmt"
	"strings"

	"github.com/constellation-compiler/constellation/internal/ir"
)

// ConstantFoldingPass implements spec.md §4.6 pass 1: folds ModuleCall
// nodes over the well-known arithmetic/string builtins when every
// argument is a Literal, folds And/Or/Not over literal booleans, folds
// a StringInterpolation whose every interpolated expression is literal,
// and replaces a Conditional with a literal condition by its chosen
// branch. Division and modulo by zero are deliberately never folded, so
// the runtime's fault behavior on those inputs is preserved.
type ConstantFoldingPass struct{}

func (ConstantFoldingPass) Name() string { return "constant-folding" }

func (ConstantFoldingPass) Apply(p *ir.Program) (*ir.Program, bool) {
	out := p.Clone()
	changed := false

	for id, node := range out.Nodes {
		if folded, ok := foldNode(out, node); ok {
			*out.Nodes[id] = *folded
			changed = true
		}
	}

	return out, changed
}

func foldNode(p *ir.Program, node *ir.Node) (*ir.Node, bool) {
	switch node.Kind {
	case ir.KindModuleCall:
		return foldModuleCall(p, node)
	case ir.KindAnd:
		return foldBoolOp(p, node, func(a, b bool) bool { return a && b })
	case ir.KindOr:
		return foldBoolOp(p, node, func(a, b bool) bool { return a || b })
	case ir.KindNot:
		operand, ok := literalOf(p, node.Inputs[0])
		if !ok {
			return nil, false
		}
		b, ok := operand.(bool)
		if !ok {
			return nil, false
		}
		return &ir.Node{Kind: ir.KindLiteral, Type: node.Type, Literal: !b}, true
	case ir.KindStringInterpolation:
		return foldStringInterpolation(p, node)
	case ir.KindConditional:
		return foldConditional(p, node)
	}
	return nil, false
}

func literalOf(p *ir.Program, id ir.NodeId) (ir.LiteralValue, bool) {
	n, ok := p.Nodes[id]
	if !ok || n.Kind != ir.KindLiteral {
		return nil, false
	}
	return n.Literal, true
}

// wellKnownBuiltins maps a ModuleCall's qualified name to the operation
// it folds to (spec.md §4.6).
var wellKnownBuiltins = map[string]string{
	"stdlib.math.add":      "add",
	"stdlib.math.subtract": "subtract",
	"stdlib.math.multiply": "multiply",
	"stdlib.math.divide":   "divide",
	"stdlib.string.concat": "concat",
}

func foldModuleCall(p *ir.Program, node *ir.Node) (*ir.Node, bool) {
	op, known := wellKnownBuiltins[node.ModuleName]
	if !known {
		return nil, false
	}
	args := make([]ir.LiteralValue, len(node.Inputs))
	for i, id := range node.Inputs {
		v, ok := literalOf(p, id)
		if !ok {
			return nil, false
		}
		args[i] = v
	}

	if op == "concat" {
		var sb strings.Builder
		for _, a := range args {
			s, ok := a.(string)
			if !ok {
				return nil, false
			}
			sb.WriteString(s)
		}
		return &ir.Node{Kind: ir.KindLiteral, Type: node.Type, Literal: sb.String()}, true
	}

	if len(args) != 2 {
		return nil, false
	}
	result, ok := foldArithmetic(op, args[0], args[1])
	if !ok {
		return nil, false
	}
	return &ir.Node{Kind: ir.KindLiteral, Type: node.Type, Literal: result}, true
}

// foldArithmetic evaluates a two-operand arithmetic builtin over two
// literal values, refusing to fold division/modulo by zero so the
// runtime's own fault behavior on that input is preserved.
func foldArithmetic(op string, a, b ir.LiteralValue) (ir.LiteralValue, bool) {
	switch av := a.(type) {
	case int64:
		bv, ok := b.(int64)
		if !ok {
			return nil, false
		}
		switch op {
		case "add":
			return av + bv, true
		case "subtract":
			return av - bv, true
		case "multiply":
			return av * bv, true
		case "divide":
			if bv == 0 {
				return nil, false
			}
			return av / bv, true
		}
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return nil, false
		}
		switch op {
		case "add":
			return av + bv, true
		case "subtract":
			return av - bv, true
		case "multiply":
			return av * bv, true
		case "divide":
			if bv == 0 {
				return nil, false
			}
			return av / bv, true
		}
	}
	return nil, false
}

func foldBoolOp(p *ir.Program, node *ir.Node, op func(a, b bool) bool) (*ir.Node, bool) {
	l, ok := literalOf(p, node.Inputs[0])
	if !ok {
		return nil, false
	}
	r, ok := literalOf(p, node.Inputs[1])
	if !ok {
		return nil, false
	}
	lb, lok := l.(bool)
	rb, rok := r.(bool)
	if !lok || !rok {
		return nil, false
	}
	return &ir.Node{Kind: ir.KindLiteral, Type: node.Type, Literal: op(lb, rb)}, true
}

func foldStringInterpolation(p *ir.Program, node *ir.Node) (*ir.Node, bool) {
	var sb strings.Builder
	for i, id := range node.Inputs {
		sb.WriteString(node.StringParts[i])
		v, ok := literalOf(p, id)
		if !ok {
			return nil, false
		}
		sb.WriteString(literalToString(v))
	}
	if len(node.StringParts) > len(node.Inputs) {
		sb.WriteString(node.StringParts[len(node.Inputs)])
	}
	return &ir.Node{Kind: ir.KindLiteral, Type: node.Type, Literal: sb.String()}, true
}

func literalToString(v ir.LiteralValue) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func foldConditional(p *ir.Program, node *ir.Node) (*ir.Node, bool) {
	condVal, ok := literalOf(p, node.Inputs[0])
	if !ok {
		return nil, false
	}
	cond, ok := condVal.(bool)
	if !ok {
		return nil, false
	}
	chosen := node.Inputs[1]
	if !cond {
		chosen = node.Inputs[2]
	}
	chosenNode, ok := p.Nodes[chosen]
	if !ok {
		return nil, false
	}
	cp := *chosenNode
	return &cp, true
}
