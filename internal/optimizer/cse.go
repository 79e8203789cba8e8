package optimizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/constellation-compiler/constellation/internal/ir"
)

// CSEPass implements spec.md §4.6 pass 2: two nodes are equivalent iff
// they share variant, operator/module name, input-id list (or input
// *set* for commutative ops), literal value, and resulting type.
// Equivalent nodes are merged: the first-seen representative survives
// and every other reference is rewritten to point at it.
//
// Open Question (spec.md §9): add/multiply/merge are commutative and
// keyed by the sorted input-id set; subtract/divide are kept ordered —
// they must not be commuted.
type CSEPass struct{}

func (CSEPass) Name() string { return "cse" }

func (CSEPass) Apply(p *ir.Program) (*ir.Program, bool) {
	out := p.Clone()

	representative := map[string]ir.NodeId{}
	replacement := map[ir.NodeId]ir.NodeId{}

	for _, id := range sortedIds(out) {
		node := out.Nodes[id]
		key, ok := equivalenceKey(node)
		if !ok {
			continue
		}
		if rep, seen := representative[key]; seen {
			replacement[id] = rep
			continue
		}
		representative[key] = id
	}

	if len(replacement) == 0 {
		return out, false
	}

	for _, node := range out.Nodes {
		rewriteInputs(node, replacement)
	}
	for name, id := range out.VariableBindings {
		if rep, ok := replacement[id]; ok {
			out.VariableBindings[name] = rep
		}
	}
	for id := range replacement {
		delete(out.Nodes, id)
	}
	for i, id := range out.Inputs {
		if rep, ok := replacement[id]; ok {
			out.Inputs[i] = rep
		}
	}

	return out, true
}

func sortedIds(p *ir.Program) []ir.NodeId {
	ids := make([]ir.NodeId, 0, len(p.Nodes))
	for id := range p.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func rewriteInputs(node *ir.Node, replacement map[ir.NodeId]ir.NodeId) {
	for i, id := range node.Inputs {
		if rep, ok := replacement[id]; ok {
			node.Inputs[i] = rep
		}
	}
	for i, id := range node.BranchConds {
		if rep, ok := replacement[id]; ok {
			node.BranchConds[i] = rep
		}
	}
	if rep, ok := replacement[node.LambdaBody]; ok {
		node.LambdaBody = rep
	}
}

var commutativeModules = map[string]bool{
	"stdlib.math.add":      true,
	"stdlib.math.multiply": true,
}

// equivalenceKey renders a node's CSE identity, or ("", false) if the
// node variant is never merged by CSE (Input nodes, and anything with
// side-effect-like semantics outside this system's pure pipeline model
// would go here; in this model every node is pure, so only Input nodes
// are excluded since two inputs with the same name are already the same
// node by construction).
func equivalenceKey(node *ir.Node) (string, bool) {
	switch node.Kind {
	case ir.KindInput:
		return "", false
	case ir.KindLiteral:
		return fmt.Sprintf("Literal|%s|%v", node.Type, node.Literal), true
	case ir.KindModuleCall:
		ids := inputKeyPart(node.Inputs, isCommutativeCall(node))
		return fmt.Sprintf("ModuleCall|%s|%s|%s", node.ModuleName, ids, node.Type), true
	case ir.KindMerge:
		return fmt.Sprintf("Merge|%s|%s", inputKeyPart(node.Inputs, true), node.Type), true
	case ir.KindProject:
		fields := append([]string(nil), node.Fields...)
		sort.Strings(fields)
		return fmt.Sprintf("Project|%s|%s|%s", inputKeyPart(node.Inputs, false), strings.Join(fields, ","), node.Type), true
	case ir.KindHigherOrder:
		return fmt.Sprintf("HigherOrder|%s|%s|%s|%s", node.HigherOrderOp, inputKeyPart(node.Inputs, false), node.LambdaBody, node.Type), true
	default:
		ids := inputKeyPart(node.Inputs, false)
		conds := inputKeyPart(node.BranchConds, false)
		return fmt.Sprintf("%s|%s|%s|%s|%q|%s", node.Kind, ids, conds, node.Field, node.StringParts, node.Type), true
	}
}

func isCommutativeCall(node *ir.Node) bool {
	return commutativeModules[node.ModuleName]
}

func inputKeyPart(ids []ir.NodeId, commutative bool) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	if commutative {
		sort.Strings(parts)
	}
	return strings.Join(parts, ",")
}
