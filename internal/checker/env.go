// Package checker implements the bidirectional type checker of
// spec.md §4.4: infer/check dual entry points threaded through an
// immutable environment, grounded on the teacher's analyzer
// (internal/analyzer/analyzer.go, internal/analyzer/inference_calls.go)
// for its infer/check-entry-point shape and per-declaration
// environment-threading, but rewritten against this language's row-
// polymorphic record/union type system rather than the teacher's
// Hindley-Milner generics and trait dispatch.
package checker

import (
	"github.com/constellation-compiler/constellation/internal/registry"
	"github.com/constellation-compiler/constellation/internal/types"
)

// TypeEnv is the immutable snapshot flowing through checking (spec.md
// §3): type aliases, variable bindings, the registry handle, and the
// current namespace scope. Every With* method returns a new value —
// there is no in-place mutation, matching the teacher's own environment
// discipline in internal/analyzer.
type TypeEnv struct {
	aliases  map[string]types.Type
	vars     map[string]types.Type
	Registry *registry.Registry
	Scope    registry.NamespaceScope
}

// NewTypeEnv returns an empty environment bound to a registry.
func NewTypeEnv(reg *registry.Registry) TypeEnv {
	return TypeEnv{
		aliases:  map[string]types.Type{},
		vars:     map[string]types.Type{},
		Registry: reg,
		Scope:    registry.NewNamespaceScope(),
	}
}

func (e TypeEnv) LookupVar(name string) (types.Type, bool) {
	t, ok := e.vars[name]
	return t, ok
}

func (e TypeEnv) LookupAlias(name string) (types.Type, bool) {
	t, ok := e.aliases[name]
	return t, ok
}

// WithVar returns a new environment with name bound to t.
func (e TypeEnv) WithVar(name string, t types.Type) TypeEnv {
	out := e.clone()
	out.vars[name] = t
	return out
}

// WithAlias returns a new environment with name bound to t in the type
// alias map.
func (e TypeEnv) WithAlias(name string, t types.Type) TypeEnv {
	out := e.clone()
	out.aliases[name] = t
	return out
}

// WithScope returns a new environment carrying scope as its namespace
// scope.
func (e TypeEnv) WithScope(scope registry.NamespaceScope) TypeEnv {
	out := e.clone()
	out.Scope = scope
	return out
}

func (e TypeEnv) clone() TypeEnv {
	vars := make(map[string]types.Type, len(e.vars))
	for k, v := range e.vars {
		vars[k] = v
	}
	aliases := make(map[string]types.Type, len(e.aliases))
	for k, v := range e.aliases {
		aliases[k] = v
	}
	return TypeEnv{aliases: aliases, vars: vars, Registry: e.Registry, Scope: e.Scope}
}
