package checker

import (
	"github.com/constellation-compiler/constellation/internal/ast"
	"github.com/constellation-compiler/constellation/internal/compileerr"
	"github.com/constellation-compiler/constellation/internal/registry"
	"github.com/constellation-compiler/constellation/internal/span"
	"github.com/constellation-compiler/constellation/internal/types"
)

// TypedExpr mirrors an ast.Expression but carries its computed Type
// (spec.md §3: "Mirrors the untyped AST but every expression node
// carries its computed Type").
type TypedExpr struct {
	Span span.Span
	Type types.Type
	Kind TypedExprKind
	// Children/fields vary by Kind; using one struct rather than a full
	// sum-type hierarchy keeps the IR lowerer's traversal simple while
	// still carrying every field each node variant needs. Source is the
	// original untyped node, preserved for lowering and diagnostics.
	Source ast.Expression

	Operands []TypedExpr // Merge, BoolBinary, Coalesce: [left, right]; Guard: [expr, cond]; Not, Lambda (body) use Operands[0]
	Elements []TypedExpr // ListLit, StringInterpolation.Exprs
	Fields   []string    // Projection
	Field    string       // FieldAccess
	Branches []TypedBranchCase
	Then     *TypedExpr // Conditional
	Else     *TypedExpr
	Cond     *TypedExpr

	// Call carries the resolved call data for a FunctionCall node.
	Call *TypedCall
}

// TypedExprKind tags which ast.Expression variant a TypedExpr mirrors.
type TypedExprKind string

const (
	KindVarRef              TypedExprKind = "VarRef"
	KindLiteral             TypedExprKind = "Literal"
	KindListLit             TypedExprKind = "ListLit"
	KindStringInterpolation TypedExprKind = "StringInterpolation"
	KindMerge               TypedExprKind = "Merge"
	KindProjection          TypedExprKind = "Projection"
	KindFieldAccess         TypedExprKind = "FieldAccess"
	KindConditional         TypedExprKind = "Conditional"
	KindBoolBinary          TypedExprKind = "BoolBinary"
	KindNot                 TypedExprKind = "Not"
	KindGuard               TypedExprKind = "Guard"
	KindCoalesce            TypedExprKind = "Coalesce"
	KindBranch              TypedExprKind = "Branch"
	KindLambda              TypedExprKind = "Lambda"
	KindFunctionCall        TypedExprKind = "FunctionCall"
)

// TypedBranchCase is one checked `when c -> body` arm.
type TypedBranchCase struct {
	Cond TypedExpr
	Body TypedExpr
}

// TypedCall carries everything the IR lowerer needs from a resolved
// function call (spec.md §4.5): the original (uninstantiated) signature,
// the checked arguments, and the validated call options. The
// post-substitution return type is the enclosing TypedExpr's Type.
type TypedCall struct {
	Signature registry.Signature
	Args      []TypedExpr
	Options   TypedCallOptions
}

// TypedCallOptions mirrors ast.ModuleCallOptions with the fallback
// expression checked against the return type.
type TypedCallOptions struct {
	Fallback     *TypedExpr
	Retry        *int
	Concurrency  *int
	Throttle     *ast.Throttle
	Timeout      *ast.Duration
	Delay        *ast.Duration
	Cache        *ast.Duration
	Backoff      *string
	CacheBackend *string
}

// TypedDeclaration mirrors an ast.Declaration; only Assignment and
// InputDecl introduce variable bindings the lowerer cares about, but all
// variants are kept so the typed pipeline is a faithful, span-carrying
// mirror of the source (spec.md §3).
type TypedDeclaration struct {
	Span span.Span
	Kind TypedDeclKind

	Name     string
	Type     types.Type // InputDecl, TypeDef, Assignment, OutputDecl
	Value    *TypedExpr // Assignment
	Examples []TypedExpr
	Path     string // UseDecl
	Alias    string // UseDecl
}

type TypedDeclKind string

const (
	DeclTypeDef     TypedDeclKind = "TypeDef"
	DeclInputDecl   TypedDeclKind = "InputDecl"
	DeclAssignment  TypedDeclKind = "Assignment"
	DeclOutputDecl  TypedDeclKind = "OutputDecl"
	DeclUseDecl     TypedDeclKind = "UseDecl"
)

// OutputBinding is one entry of TypedPipeline.Outputs.
type OutputBinding struct {
	Name string
	Type types.Type
	Span span.Span
}

// TypedPipeline is the checker's successful result (spec.md §6).
type TypedPipeline struct {
	Declarations []TypedDeclaration
	Outputs      []OutputBinding
	Warnings     []compileerr.Warning
}
