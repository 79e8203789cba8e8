package optimizer

import (
	"testing"

	"github.com/constellation-compiler/constellation/internal/ir"
	"github.com/constellation-compiler/constellation/internal/types"
)

func literalNode(p *ir.Program, v ir.LiteralValue, t types.Type) ir.NodeId {
	return p.AddNode(&ir.Node{Kind: ir.KindLiteral, Type: t, Literal: v})
}

func moduleCall(p *ir.Program, name string, t types.Type, inputs ...ir.NodeId) ir.NodeId {
	return p.AddNode(&ir.Node{Kind: ir.KindModuleCall, Type: t, ModuleName: name, Inputs: inputs})
}

// buildAddMulProgram builds add(mul(2, 3), 4) — seed scenario S5.
func buildAddMulProgram() *ir.Program {
	p := ir.NewProgram()
	two := literalNode(p, int64(2), types.Int{})
	three := literalNode(p, int64(3), types.Int{})
	four := literalNode(p, int64(4), types.Int{})
	mul := moduleCall(p, "stdlib.math.multiply", types.Int{}, two, three)
	add := moduleCall(p, "stdlib.math.add", types.Int{}, mul, four)
	p.VariableBindings["result"] = add
	p.DeclaredOutputs = []string{"result"}
	return p
}

func TestConstantFoldingEndToEnd(t *testing.T) {
	p := buildAddMulProgram()
	optimized, stats := Optimize(p, DefaultConfig())

	resultId := optimized.VariableBindings["result"]
	node := optimized.Nodes[resultId]
	if node.Kind != ir.KindLiteral {
		t.Fatalf("expected result to fold to a Literal, got %s", node.Kind)
	}
	if node.Literal.(int64) != 10 {
		t.Errorf("expected folded literal 10, got %v", node.Literal)
	}
	if len(optimized.Nodes) != 1 {
		t.Errorf("expected a single surviving node after DCE, got %d", len(optimized.Nodes))
	}
	if stats.NodesBefore-stats.NodesAfter < 4 {
		t.Errorf("expected at least 4 nodes eliminated, got %d", stats.NodesBefore-stats.NodesAfter)
	}
}

func TestOptimizerPreservesDeclaredOutputs(t *testing.T) {
	p := buildAddMulProgram()
	optimized, _ := Optimize(p, DefaultConfig())

	if len(optimized.DeclaredOutputs) != 1 || optimized.DeclaredOutputs[0] != "result" {
		t.Fatalf("declared outputs changed: %v", optimized.DeclaredOutputs)
	}
	if _, ok := optimized.VariableBindings["result"]; !ok {
		t.Fatalf("result is no longer bound")
	}
	if _, ok := optimized.Nodes[optimized.VariableBindings["result"]]; !ok {
		t.Fatalf("result is bound to a node that no longer exists")
	}
}

func TestOptimizerFixpoint(t *testing.T) {
	p := buildAddMulProgram()
	once, _ := Optimize(p, DefaultConfig())
	twice, stats := Optimize(once, DefaultConfig())

	if len(once.Nodes) != len(twice.Nodes) {
		t.Errorf("running the optimizer twice should be a fixpoint: %d vs %d nodes", len(once.Nodes), len(twice.Nodes))
	}
	if len(stats.PassesApplied) != 0 {
		t.Errorf("expected no further changes on the second run, got passes: %v", stats.PassesApplied)
	}
}

func TestDivisionByZeroNotFolded(t *testing.T) {
	p := ir.NewProgram()
	zero := literalNode(p, int64(0), types.Int{})
	ten := literalNode(p, int64(10), types.Int{})
	div := moduleCall(p, "stdlib.math.divide", types.Int{}, ten, zero)
	p.VariableBindings["result"] = div
	p.DeclaredOutputs = []string{"result"}

	optimized, _ := Optimize(p, DefaultConfig())
	node := optimized.Nodes[optimized.VariableBindings["result"]]
	if node.Kind != ir.KindModuleCall {
		t.Errorf("division by zero should never be folded, got node kind %s", node.Kind)
	}
}

func TestCSEMergesCommutativeAdds(t *testing.T) {
	p := ir.NewProgram()
	a := p.AddNode(&ir.Node{Kind: ir.KindInput, Type: types.Int{}, InputName: "a"})
	b := p.AddNode(&ir.Node{Kind: ir.KindInput, Type: types.Int{}, InputName: "b"})
	p.Inputs = []ir.NodeId{a, b}

	sum1 := moduleCall(p, "stdlib.math.add", types.Int{}, a, b)
	sum2 := moduleCall(p, "stdlib.math.add", types.Int{}, b, a) // commuted operands
	p.VariableBindings["x"] = sum1
	p.VariableBindings["y"] = sum2
	p.DeclaredOutputs = []string{"x", "y"}

	optimized, changed := CSEPass{}.Apply(p)
	if !changed {
		t.Fatalf("expected CSE to merge commuted add() calls")
	}
	if optimized.VariableBindings["x"] != optimized.VariableBindings["y"] {
		t.Errorf("expected x and y to share a representative node after CSE")
	}
}

func TestCSEDoesNotMergeNonCommutativeSubtract(t *testing.T) {
	p := ir.NewProgram()
	a := p.AddNode(&ir.Node{Kind: ir.KindInput, Type: types.Int{}, InputName: "a"})
	b := p.AddNode(&ir.Node{Kind: ir.KindInput, Type: types.Int{}, InputName: "b"})
	p.Inputs = []ir.NodeId{a, b}

	diff1 := moduleCall(p, "stdlib.math.subtract", types.Int{}, a, b)
	diff2 := moduleCall(p, "stdlib.math.subtract", types.Int{}, b, a)
	p.VariableBindings["x"] = diff1
	p.VariableBindings["y"] = diff2
	p.DeclaredOutputs = []string{"x", "y"}

	optimized, _ := CSEPass{}.Apply(p)
	if optimized.VariableBindings["x"] == optimized.VariableBindings["y"] {
		t.Errorf("subtract(a,b) and subtract(b,a) must not be merged by CSE")
	}
}

func TestDCERemovesUnreferencedNodes(t *testing.T) {
	p := ir.NewProgram()
	kept := literalNode(p, int64(1), types.Int{})
	literalNode(p, int64(2), types.Int{}) // never bound to an output
	p.VariableBindings["out"] = kept
	p.DeclaredOutputs = []string{"out"}

	optimized, changed := DCEPass{}.Apply(p)
	if !changed {
		t.Fatalf("expected DCE to remove the unreferenced literal")
	}
	if len(optimized.Nodes) != 1 {
		t.Errorf("expected exactly 1 surviving node, got %d", len(optimized.Nodes))
	}
}
