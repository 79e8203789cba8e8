package checker

import (
	"github.com/constellation-compiler/constellation/internal/ast"
	"github.com/constellation-compiler/constellation/internal/compileerr"
	"github.com/constellation-compiler/constellation/internal/registry"
	"github.com/constellation-compiler/constellation/internal/types"
)

// Checker holds the per-invocation state spec.md §4.4 requires to be
// fresh on every call: a monotonic row-variable counter, a warning
// buffer, and an extra-error buffer, none shared between concurrent
// invocations on the same registry.
//
// extraErrs accumulates errors from independent sub-trees (Branch case
// arms, call arguments) that fail alongside a sibling sub-tree within
// the same containing expression: the containing expression still
// returns its own single *compileerr.CompileError so every existing
// caller's short-circuit-on-error shape keeps working, but the extra
// siblings' errors are not discarded — Check merges them into its
// final result so independent failures are all reported together
// rather than one at a time across repeated runs.
type Checker struct {
	rowCounter *types.RowVarCounter
	warnings   []compileerr.Warning
	extraErrs  []*compileerr.CompileError
}

// collectExtra records errors from independent sub-trees beyond the
// first one a caller will already return/propagate.
func (c *Checker) collectExtra(errs []*compileerr.CompileError) {
	c.extraErrs = append(c.extraErrs, errs...)
}

// Check type-checks an untyped pipeline against reg, implementing
// spec.md §6's `check(pipeline_ast, registry) → Result<TypedPipeline,
// [Error]>`. Declarations are checked in source order; a declaration
// that fails short-circuits further declarations (spec.md §4.4's
// "Error accumulation": "Declarations are sequenced (first error stops
// further declarations)"), but independent sub-trees within that
// failing declaration — Branch arms, a call's arguments — are checked
// exhaustively first, so the returned list carries every independent
// failure from the declaration that stopped the pipeline, not just
// the first one encountered.
func Check(program *ast.Program, reg *registry.Registry) (*TypedPipeline, []*compileerr.CompileError) {
	c := &Checker{rowCounter: &types.RowVarCounter{}}
	env := NewTypeEnv(reg)

	var (
		typed   []TypedDeclaration
		outputs []OutputBinding
	)

	for _, decl := range program.Declarations {
		td, newEnv, err := c.checkDeclaration(env, decl)
		if err != nil {
			return nil, append([]*compileerr.CompileError{err}, c.extraErrs...)
		}
		env = newEnv
		typed = append(typed, td)
		if td.Kind == DeclOutputDecl {
			t, _ := env.LookupVar(td.Name)
			outputs = append(outputs, OutputBinding{Name: td.Name, Type: t, Span: td.Span})
		}
	}

	return &TypedPipeline{Declarations: typed, Outputs: outputs, Warnings: c.warnings}, nil
}
