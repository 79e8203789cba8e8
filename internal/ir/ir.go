// Package ir implements the lowered intermediate representation of
// spec.md §3/§4.5: a Program is a NodeId-keyed DAG where every reference
// between nodes is explicit, so topological order is always derivable.
// NodeId is grounded on google/uuid's 128-bit identifier, the same
// dependency the rest of the pack (e.g. the retrieved event/task-queue
// examples) reaches for whenever a stable, collision-resistant id is
// needed instead of an incrementing counter.
package ir

import (
	"github.com/google/uuid"

	"github.com/constellation-compiler/constellation/internal/types"
)

// NodeId is a stable 128-bit identifier for one IR node.
type NodeId uuid.UUID

// NewNodeId mints a fresh, random NodeId.
func NewNodeId() NodeId { return NodeId(uuid.New()) }

func (id NodeId) String() string { return uuid.UUID(id).String() }

// NodeKind tags which Node variant a node is (spec.md §3).
type NodeKind string

const (
	KindInput               NodeKind = "Input"
	KindModuleCall          NodeKind = "ModuleCall"
	KindLiteral             NodeKind = "Literal"
	KindMerge               NodeKind = "Merge"
	KindProject             NodeKind = "Project"
	KindFieldAccess         NodeKind = "FieldAccess"
	KindConditional         NodeKind = "Conditional"
	KindAnd                 NodeKind = "And"
	KindOr                  NodeKind = "Or"
	KindNot                 NodeKind = "Not"
	KindGuard               NodeKind = "Guard"
	KindCoalesce            NodeKind = "Coalesce"
	KindBranch              NodeKind = "Branch"
	KindStringInterpolation NodeKind = "StringInterpolation"
	KindHigherOrder         NodeKind = "HigherOrder"
	KindListLiteral         NodeKind = "ListLiteral"
)

// HigherOrderOp names the higher-order list operation a HigherOrder node
// applies (spec.md §3: "filter/map/all/any/sortBy").
type HigherOrderOp string

const (
	OpFilter HigherOrderOp = "filter"
	OpMap    HigherOrderOp = "map"
	OpAll    HigherOrderOp = "all"
	OpAny    HigherOrderOp = "any"
	OpSortBy HigherOrderOp = "sortBy"
)

// LiteralValue is the concrete value carried by a Literal node; the
// optimizer's constant folder switches on its concrete Go type.
type LiteralValue interface{}

// Node is one DAG node. Every variant carries its output Type (spec.md
// §3). A single flat struct (tagged by Kind) is used instead of N
// separate Go types so the optimizer's rewrite passes — which must
// replace a node's Inputs or swap its Kind/Value in place — do not need
// a type switch keyed on a dozen concrete Go types; this mirrors how
// the checker's TypedExpr is represented and keeps lowering/optimizing
// symmetric.
type Node struct {
	Kind NodeKind
	Type types.Type

	// Inputs lists this node's operand node ids, in a kind-specific,
	// positionally meaningful order (e.g. Merge: [left, right];
	// Conditional: [cond, then, else]).
	Inputs []NodeId

	// ModuleName/Literal/Field/HigherOrderOp/LambdaBody are populated
	// depending on Kind.
	ModuleName    string        // ModuleCall, Arithmetic/Compare-desugared calls
	Literal       LiteralValue  // Literal
	Field         string        // FieldAccess
	Fields        []string      // Project
	HigherOrderOp HigherOrderOp // HigherOrder
	LambdaBody    NodeId        // HigherOrder: body of the lambda, closed over LambdaParam
	LambdaParam   string        // HigherOrder: the lambda's single bound parameter name
	StringParts   []string      // StringInterpolation literal segments, len(Inputs)+1
	BranchConds   []NodeId      // Branch: one condition id per case (Inputs holds the bodies, ending with the otherwise body)

	// InputName identifies which pipeline input this Input node denotes.
	InputName string
}

// Program is the lowered DAG (spec.md §3): the Program owns all nodes;
// nodes reference each other exclusively by id.
type Program struct {
	Nodes            map[NodeId]*Node
	Inputs           []NodeId
	DeclaredOutputs  []string
	VariableBindings map[string]NodeId
}

// NewProgram returns an empty Program.
func NewProgram() *Program {
	return &Program{
		Nodes:            map[NodeId]*Node{},
		VariableBindings: map[string]NodeId{},
	}
}

// AddNode inserts node under a freshly minted id and returns that id.
func (p *Program) AddNode(node *Node) NodeId {
	id := NewNodeId()
	p.Nodes[id] = node
	return id
}

// Clone returns a deep-enough copy of p for an optimizer pass to mutate
// without aliasing the input program (spec.md §3: "Optimizer passes
// return a new Program; the checker/lowerer does not share mutable
// state with them.").
func (p *Program) Clone() *Program {
	out := &Program{
		Nodes:            make(map[NodeId]*Node, len(p.Nodes)),
		Inputs:           append([]NodeId(nil), p.Inputs...),
		DeclaredOutputs:  append([]string(nil), p.DeclaredOutputs...),
		VariableBindings: make(map[string]NodeId, len(p.VariableBindings)),
	}
	for id, n := range p.Nodes {
		cp := *n
		cp.Inputs = append([]NodeId(nil), n.Inputs...)
		cp.Fields = append([]string(nil), n.Fields...)
		cp.StringParts = append([]string(nil), n.StringParts...)
		cp.BranchConds = append([]NodeId(nil), n.BranchConds...)
		out.Nodes[id] = &cp
	}
	for k, v := range p.VariableBindings {
		out.VariableBindings[k] = v
	}
	return out
}
