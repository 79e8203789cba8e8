// Package optimizer implements the IR optimizer of spec.md §4.6: a
// sequence of passes run to fixpoint (or a configured iteration cap)
// over an ir.Program. The pass/driver shape is grounded on the
// retrieved kanso-lang/kanso reference file
// (internal/ir/optimizations.go)'s OptimizationPass interface and
// fixpoint-looping pipeline, rewritten against this system's
// NodeId-keyed DAG and the constant-folding/CSE/DCE rules spec.md §4.6
// specifies directly (the teacher funxy module has no IR optimizer of
// its own to ground this package on).
package optimizer

import (
	"github.com/constellation-compiler/constellation/internal/ir"
)

// Config controls which passes run and how many iterations the driver
// allows (spec.md §6: `config = { constant_folding, cse, dce,
// max_iterations }`).
type Config struct {
	ConstantFolding bool
	CSE             bool
	DCE             bool
	// MaxIterations caps the fixpoint loop; 0 disables optimization
	// entirely (spec.md §4.6).
	MaxIterations int
}

// DefaultConfig enables every pass with the spec's default iteration
// cap.
func DefaultConfig() Config {
	return Config{ConstantFolding: true, CSE: true, DCE: true, MaxIterations: 16}
}

// Stats reports what the optimizer did (spec.md §4.6's driver contract).
type Stats struct {
	NodesBefore       int
	NodesAfter        int
	Iterations        int
	PassesApplied     []string
	EliminationPct    float64
}

// Pass is one optimization transformation over a Program (grounded on
// kanso-lang's OptimizationPass interface).
type Pass interface {
	Name() string
	Apply(p *ir.Program) (*ir.Program, bool)
}

// Optimize runs constant-folding, CSE, and DCE in that order, repeating
// until a full iteration makes no change or cfg.MaxIterations is
// reached (spec.md §4.6's driver contract: "After each iteration,
// compare node_count and node_id set to the pre-iteration values; if
// unchanged, terminate.").
func Optimize(program *ir.Program, cfg Config) (*ir.Program, Stats) {
	nodesBefore := len(program.Nodes)
	stats := Stats{NodesBefore: nodesBefore}

	if cfg.MaxIterations == 0 {
		stats.NodesAfter = nodesBefore
		return program, stats
	}

	passes := buildPasses(cfg)
	current := program

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		before := nodeIdSet(current)
		anyChanged := false

		for _, pass := range passes {
			next, changed := pass.Apply(current)
			current = next
			if changed {
				anyChanged = true
				stats.PassesApplied = append(stats.PassesApplied, pass.Name())
			}
		}

		stats.Iterations++
		after := nodeIdSet(current)
		if !anyChanged || sameIdSet(before, after) {
			break
		}
	}

	stats.NodesAfter = len(current.Nodes)
	if nodesBefore > 0 {
		stats.EliminationPct = 100 * float64(nodesBefore-stats.NodesAfter) / float64(nodesBefore)
	}
	return current, stats
}

func buildPasses(cfg Config) []Pass {
	var passes []Pass
	if cfg.ConstantFolding {
		passes = append(passes, ConstantFoldingPass{})
	}
	if cfg.CSE {
		passes = append(passes, CSEPass{})
	}
	if cfg.DCE {
		passes = append(passes, DCEPass{})
	}
	return passes
}

func nodeIdSet(p *ir.Program) map[ir.NodeId]bool {
	set := make(map[ir.NodeId]bool, len(p.Nodes))
	for id := range p.Nodes {
		set[id] = true
	}
	return set
}

func sameIdSet(a, b map[ir.NodeId]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}
