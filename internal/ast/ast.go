// Package ast defines the untyped AST consumed by the checker: the
// surface-syntax parser that produces it is an external collaborator
// out of this module's scope (spec.md §1), so this package only carries
// the node shapes, grounded on the teacher's internal/ast Node/Statement/
// Expression interface split (internal/ast/ast_core.go) but rewritten
// against this pipeline language's much smaller grammar (no packages,
// traits, generics, or pattern matching).
package ast

import "github.com/constellation-compiler/constellation/internal/span"

// Node is the base interface for every AST node.
type Node interface {
	GetSpan() span.Span
}

// Declaration is a top-level pipeline statement (spec.md §3: TypeDef,
// InputDecl, Assignment, OutputDecl, UseDecl).
type Declaration interface {
	Node
	declarationNode()
}

// Expression is any value-producing AST node.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of an untyped pipeline AST.
type Program struct {
	Declarations []Declaration
}

// --- Declarations ---

// TypeDef binds a name to a resolved type expression: `type name = te`.
type TypeDef struct {
	Span span.Span
	Name string
	Expr TypeExpr
}

func (d *TypeDef) GetSpan() span.Span { return d.Span }
func (*TypeDef) declarationNode()     {}

// Example is an `@example(expr)` annotation attached to an InputDecl.
type Example struct {
	Span span.Span
	Expr Expression
}

// InputDecl declares a pipeline input: `in name : te @example(...)`.
type InputDecl struct {
	Span     span.Span
	Name     string
	TypeExpr TypeExpr
	Examples []Example
}

func (d *InputDecl) GetSpan() span.Span { return d.Span }
func (*InputDecl) declarationNode()     {}

// Assignment binds a name to the inferred type of an expression: `x = e`.
type Assignment struct {
	Span  span.Span
	Name  string
	Value Expression
}

func (d *Assignment) GetSpan() span.Span { return d.Span }
func (*Assignment) declarationNode()     {}

// OutputDecl marks a previously bound variable as a pipeline output.
type OutputDecl struct {
	Span span.Span
	Name string
}

func (d *OutputDecl) GetSpan() span.Span { return d.Span }
func (*OutputDecl) declarationNode()     {}

// UseDecl imports a namespace, optionally aliased: `use path [as alias]`.
type UseDecl struct {
	Span  span.Span
	Path  string
	Alias string // empty when no alias was given
}

func (d *UseDecl) GetSpan() span.Span { return d.Span }
func (*UseDecl) declarationNode()     {}

// --- Type expressions ---

// TypeExpr is an unresolved type as written in source.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedTypeExpr is a simple or generic named type: `String`, `List<Int>`,
// `Candidates<Int>` (the legacy List alias, spec.md §9).
type NamedTypeExpr struct {
	Span span.Span
	Name string
	Args []TypeExpr
}

func (t *NamedTypeExpr) GetSpan() span.Span { return t.Span }
func (*NamedTypeExpr) typeExprNode()        {}

// RecordTypeExpr is `{ f1: T1, ... }` or, when Open is true, an open
// record written with a trailing row variable: `{ f1: T1 | rho }`.
type RecordTypeExpr struct {
	Span   span.Span
	Fields map[string]TypeExpr
	Open   bool
}

func (t *RecordTypeExpr) GetSpan() span.Span { return t.Span }
func (*RecordTypeExpr) typeExprNode()        {}

// FunctionTypeExpr is `(T1, T2) -> R`.
type FunctionTypeExpr struct {
	Span   span.Span
	Params []TypeExpr
	Ret    TypeExpr
}

func (t *FunctionTypeExpr) GetSpan() span.Span { return t.Span }
func (*FunctionTypeExpr) typeExprNode()        {}

// UnionTypeExpr is `T1 | T2 | ...`.
type UnionTypeExpr struct {
	Span    span.Span
	Members []TypeExpr
}

func (t *UnionTypeExpr) GetSpan() span.Span { return t.Span }
func (*UnionTypeExpr) typeExprNode()        {}

// --- Expressions ---

type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralBoolean
)

// VarRef references a previously bound variable.
type VarRef struct {
	Span span.Span
	Name string
}

func (e *VarRef) GetSpan() span.Span { return e.Span }
func (*VarRef) expressionNode()      {}

// Literal is a primitive literal value.
type Literal struct {
	Span span.Span
	Kind LiteralKind
	// Raw holds the literal's source text; the checker only needs Kind
	// to derive a type, but optimizer constant folding needs the actual
	// value, which IR lowering parses from Raw.
	Raw string
}

func (e *Literal) GetSpan() span.Span { return e.Span }
func (*Literal) expressionNode()      {}

// ListLit is a list literal `[e1, e2, ...]`.
type ListLit struct {
	Span     span.Span
	Elements []Expression
}

func (e *ListLit) GetSpan() span.Span { return e.Span }
func (*ListLit) expressionNode()      {}

// StringInterpolation is `"...${e1}...${e2}..."`.
type StringInterpolation struct {
	Span  span.Span
	Parts []string // len(Parts) == len(Exprs)+1
	Exprs []Expression
}

func (e *StringInterpolation) GetSpan() span.Span { return e.Span }
func (*StringInterpolation) expressionNode()      {}

// Merge is `l + r` where both sides are record-shaped (spec.md §4.4).
type Merge struct {
	Span        span.Span
	Left, Right Expression
}

func (e *Merge) GetSpan() span.Span { return e.Span }
func (*Merge) expressionNode()      {}

// Projection selects a subset of fields: `src.{f1, f2}`.
type Projection struct {
	Span   span.Span
	Src    Expression
	Fields []string
}

func (e *Projection) GetSpan() span.Span { return e.Span }
func (*Projection) expressionNode()      {}

// FieldAccess is `src.field`.
type FieldAccess struct {
	Span  span.Span
	Src   Expression
	Field string
}

func (e *FieldAccess) GetSpan() span.Span { return e.Span }
func (*FieldAccess) expressionNode()      {}

// Conditional is `if c then t else e`.
type Conditional struct {
	Span                    span.Span
	Cond, Then, Else        Expression
}

func (e *Conditional) GetSpan() span.Span { return e.Span }
func (*Conditional) expressionNode()      {}

type CompareOp string

const (
	CompareEq  CompareOp = "=="
	CompareNeq CompareOp = "!="
	CompareLt  CompareOp = "<"
	CompareGt  CompareOp = ">"
	CompareLte CompareOp = "<="
	CompareGte CompareOp = ">="
)

// Compare is `l op r` for a comparison operator.
type Compare struct {
	Span        span.Span
	Op          CompareOp
	Left, Right Expression
}

func (e *Compare) GetSpan() span.Span { return e.Span }
func (*Compare) expressionNode()      {}

type ArithOp string

const (
	ArithAdd ArithOp = "+"
	ArithSub ArithOp = "-"
	ArithMul ArithOp = "*"
	ArithDiv ArithOp = "/"
)

// Arithmetic is `l op r` for an arithmetic operator. `+` on record-shaped
// operands desugars to Merge during checking (spec.md §4.4).
type Arithmetic struct {
	Span        span.Span
	Op          ArithOp
	Left, Right Expression
}

func (e *Arithmetic) GetSpan() span.Span { return e.Span }
func (*Arithmetic) expressionNode()      {}

type BoolOp string

const (
	BoolAnd BoolOp = "and"
	BoolOr  BoolOp = "or"
)

// BoolBinary is `l and r` / `l or r`.
type BoolBinary struct {
	Span        span.Span
	Op          BoolOp
	Left, Right Expression
}

func (e *BoolBinary) GetSpan() span.Span { return e.Span }
func (*BoolBinary) expressionNode()      {}

// Not is `not e`.
type Not struct {
	Span span.Span
	Expr Expression
}

func (e *Not) GetSpan() span.Span { return e.Span }
func (*Not) expressionNode()      {}

// Guard is `e when c`, producing Optional<type(e)>.
type Guard struct {
	Span      span.Span
	Expr      Expression
	Condition Expression
}

func (e *Guard) GetSpan() span.Span { return e.Span }
func (*Guard) expressionNode()      {}

// Coalesce is `l ?? r`.
type Coalesce struct {
	Span        span.Span
	Left, Right Expression
}

func (e *Coalesce) GetSpan() span.Span { return e.Span }
func (*Coalesce) expressionNode()      {}

// BranchCase is one `when c -> body` arm of a Branch.
type BranchCase struct {
	Cond Expression
	Body Expression
}

// Branch is a multi-way conditional: `branch { when c1 -> b1 ... otherwise -> o }`.
type Branch struct {
	Span      span.Span
	Cases     []BranchCase
	Otherwise Expression
}

func (e *Branch) GetSpan() span.Span { return e.Span }
func (*Branch) expressionNode()      {}

// LambdaParam is a lambda parameter, optionally annotated.
type LambdaParam struct {
	Name       string
	Annotation TypeExpr // nil when uninferred
}

// Lambda is `(params) => body`, appearing only in argument position
// (spec.md §9).
type Lambda struct {
	Span   span.Span
	Params []LambdaParam
	Body   Expression
}

func (e *Lambda) GetSpan() span.Span { return e.Span }
func (*Lambda) expressionNode()      {}

// DurationUnit is the explicit unit required by timeout/delay/cache
// option values (spec.md §4.4).
type DurationUnit string

const (
	DurationSeconds DurationUnit = "s"
	DurationMinutes DurationUnit = "m"
	DurationHours   DurationUnit = "h"
)

// Duration is a positive duration with an explicit unit.
type Duration struct {
	Value int
	Unit  DurationUnit
}

// Throttle is a `count/window` rate limit option value.
type Throttle struct {
	Count  int
	Window Duration
}

// ModuleCallOptions carries the optional per-call metadata described in
// spec.md §4.4. Every field is a pointer / zero-value sentinel so the
// checker can distinguish "not specified" from "specified as zero".
type ModuleCallOptions struct {
	Fallback     Expression
	Retry        *int
	Concurrency  *int
	Throttle     *Throttle
	Timeout      *Duration
	Delay        *Duration
	Cache        *Duration
	Backoff      *string
	CacheBackend *string
}

// FunctionCall is `name(args...) [with options]`, where name may be a
// simple or dotted-qualified reference resolved via the function
// registry (spec.md §4.3, §4.4).
type FunctionCall struct {
	Span    span.Span
	Name    string
	Args    []Expression
	Options ModuleCallOptions
}

func (e *FunctionCall) GetSpan() span.Span { return e.Span }
func (*FunctionCall) expressionNode()      {}
