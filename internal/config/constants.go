// Package config holds ambient, process-wide toggles and naming constants
// consulted by the type system, registry, and checker. It mirrors the
// teacher repository's internal/config package in spirit: a small,
// dependency-free set of vars and consts, not a general settings system.
package config

// IsTestMode normalizes generated row-variable names (RowVar.String
// renders "ρ?") for reproducible golden comparisons in tests. NodeIds are
// not affected by it.
var IsTestMode = false

// Builtin type constructor names. "Candidates" is the legacy alias for
// "List" (spec §9). The type printer and the type-expression resolver
// spell these names out themselves and do not reference these constants.
const (
	ListTypeName       = "List"
	CandidatesTypeName = "Candidates"
	MapTypeName        = "Map"
	OptionalTypeName   = "Optional"
)

// StdlibNamespace is the namespace under which constant-folding recognizes
// well-known builtins (stdlib.math.add, stdlib.string.concat, ...).
const StdlibNamespace = "stdlib"

// DefaultMaxOptimizerIterations is the optimizer's default fixpoint bound
// (spec §4.6: "default 16; 0 disables optimization").
const DefaultMaxOptimizerIterations = 16
