// Command constellation checks and optimizes a single hand-built
// pipeline program, printing diagnostics and optimizer statistics.
//
// It is a thin demonstration harness, not the full surface language
// tooling of the teacher's cmd/funxy: there is no lexer/parser here —
// the pipeline AST is constructed directly in Go — because the
// language's concrete syntax is outside this module's scope. What it
// exercises is the compiler core itself: registry seeding, bidirectional
// checking, IR lowering, and optimization.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/constellation-compiler/constellation/internal/ast"
	"github.com/constellation-compiler/constellation/internal/catalog"
	"github.com/constellation-compiler/constellation/internal/checker"
	"github.com/constellation-compiler/constellation/internal/ir"
	"github.com/constellation-compiler/constellation/internal/optimizer"
	"github.com/constellation-compiler/constellation/internal/registry"
	"github.com/constellation-compiler/constellation/internal/span"
)

func main() {
	os.Exit(run())
}

func run() int {
	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	reg := registry.New()
	if err := catalog.LoadDefault(reg); err != nil {
		fmt.Fprintf(os.Stderr, "loading builtin catalog: %v\n", err)
		return 1
	}

	program := samplePipeline()

	typed, errs := checker.Check(program, reg)
	if len(errs) > 0 {
		for _, e := range errs {
			printDiagnostic(os.Stderr, e, color)
		}
		return 1
	}

	irProgram, err := ir.Lower(typed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lowering to IR: %v\n", err)
		return 1
	}

	optimized, stats := optimizer.Optimize(irProgram, optimizer.DefaultConfig())

	printStats(os.Stdout, stats, color)
	fmt.Printf("declared outputs: %v\n", optimized.DeclaredOutputs)
	fmt.Printf("surviving nodes: %s\n", humanize.Comma(int64(len(optimized.Nodes))))
	return 0
}

func printDiagnostic(w *os.File, e interface{ Error() string }, color bool) {
	if color {
		fmt.Fprintf(w, "\x1b[31merror:\x1b[0m %s\n", e.Error())
		return
	}
	fmt.Fprintf(w, "error: %s\n", e.Error())
}

func printStats(w *os.File, stats optimizer.Stats, color bool) {
	label := "optimizer stats:"
	if color {
		label = "\x1b[1moptimizer stats:\x1b[0m"
	}
	fmt.Fprintf(w, "%s %s -> %s nodes over %d pass(es) (%v)\n",
		label,
		humanize.Comma(int64(stats.NodesBefore)),
		humanize.Comma(int64(stats.NodesAfter)),
		len(stats.PassesApplied),
		stats.PassesApplied,
	)
}

// samplePipeline builds a small pipeline equivalent to:
//
//	input amount: Int
//	let doubled = stdlib.math.add(amount, amount)
//	let total = stdlib.math.multiply(doubled, 1)
//	output total
//
// chosen because it exercises both constant-adjacent folding opportunities
// (multiply by a literal) and a simple declared-output chain.
func samplePipeline() *ast.Program {
	sp := span.Zero
	amountRef := &ast.VarRef{Name: "amount", Span: sp}
	one := &ast.Literal{Kind: ast.LiteralInt, Raw: "1", Span: sp}

	doubled := &ast.FunctionCall{
		Name: "stdlib.math.add",
		Args: []ast.Expression{amountRef, amountRef},
		Span: sp,
	}
	total := &ast.FunctionCall{
		Name: "stdlib.math.multiply",
		Args: []ast.Expression{&ast.VarRef{Name: "doubled", Span: sp}, one},
		Span: sp,
	}

	return &ast.Program{
		Declarations: []ast.Declaration{
			&ast.InputDecl{
				Name:     "amount",
				TypeExpr: &ast.NamedTypeExpr{Name: "Int", Span: sp},
				Span:     sp,
			},
			&ast.Assignment{Name: "doubled", Value: doubled, Span: sp},
			&ast.Assignment{Name: "total", Value: total, Span: sp},
			&ast.OutputDecl{Name: "total", Span: sp},
		},
	}
}
