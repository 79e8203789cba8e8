package optimizer

import "github.com/constellation-compiler/constellation/internal/ir"

// DCEPass implements spec.md §4.6 pass 3: compute the set of nodes
// reachable from every node bound to a declared output (transitively
// through node inputs) and remove everything else.
type DCEPass struct{}

func (DCEPass) Name() string { return "dce" }

func (DCEPass) Apply(p *ir.Program) (*ir.Program, bool) {
	out := p.Clone()

	reachable := map[ir.NodeId]bool{}
	var mark func(id ir.NodeId)
	mark = func(id ir.NodeId) {
		if reachable[id] {
			return
		}
		node, ok := out.Nodes[id]
		if !ok {
			return
		}
		reachable[id] = true
		for _, dep := range node.Inputs {
			mark(dep)
		}
		for _, dep := range node.BranchConds {
			mark(dep)
		}
		if node.Kind == ir.KindHigherOrder {
			mark(node.LambdaBody)
		}
	}

	for _, name := range out.DeclaredOutputs {
		if id, ok := out.VariableBindings[name]; ok {
			mark(id)
		}
	}

	before := len(out.Nodes)
	for id := range out.Nodes {
		if !reachable[id] {
			delete(out.Nodes, id)
		}
	}

	liveInputs := out.Inputs[:0]
	for _, id := range out.Inputs {
		if reachable[id] {
			liveInputs = append(liveInputs, id)
		}
	}
	out.Inputs = liveInputs

	return out, len(out.Nodes) != before
}
