// Package registry implements the function/namespace registry described
// in spec.md §5: three synchronized indices over a set of function
// signatures, protected by a sync.RWMutex so provider-thread writes are
// atomically visible to reader (checker) threads, grounded on the
// teacher's symbol table (internal/symbols/symbol_table_core.go) which
// guards its own name/qualified-name/namespace indices the same way.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/constellation-compiler/constellation/internal/types"
)

// Signature records one registered function's shape (spec.md §5).
type Signature struct {
	Name      string
	Namespace string // empty for an unnamespaced signature
	Params    []Param
	Ret       types.Type
	// Impl is an opaque tag binding this signature to a runtime module;
	// the registry never interprets it.
	Impl string
	// RowVars lists the quantified row variables that make this
	// signature row-polymorphic; non-empty means each call site must
	// instantiate fresh row variables before checking arguments.
	RowVars []types.RowVar
}

// Param is one named, typed formal parameter.
type Param struct {
	Name string
	Type types.Type
}

// QualifiedName is namespace++"."++name, or just name when Namespace=="".
func (s Signature) QualifiedName() string {
	if s.Namespace == "" {
		return s.Name
	}
	return s.Namespace + "." + s.Name
}

func (s Signature) IsRowPolymorphic() bool { return len(s.RowVars) > 0 }

// Registry is the long-lived shared state described in spec.md §5: the
// only piece of mutable state shared across concurrent checker
// invocations. All three indices are updated together under one lock so
// no reader ever observes a torn view.
type Registry struct {
	mu sync.RWMutex

	bySimpleName map[string][]Signature // simple_name -> [signature]
	byQualified  map[string]Signature   // qualified_name -> signature (unique)
	namespaces   map[string]int         // namespace -> member count, for removal on empty
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		bySimpleName: make(map[string][]Signature),
		byQualified:  make(map[string]Signature),
		namespaces:   make(map[string]int),
	}
}

// Register inserts sig into all three indices atomically. If a signature
// with the same qualified name already exists, it is replaced in place
// (spec.md §5: "If (namespace, name) already exists, replaces it.").
func (r *Registry) Register(sig Signature) {
	r.mu.Lock()
	defer r.mu.Unlock()

	qn := sig.QualifiedName()
	if old, exists := r.byQualified[qn]; exists {
		r.removeFromSimpleIndexLocked(old)
		if old.Namespace != "" {
			r.decrementNamespaceLocked(old.Namespace)
		}
	}

	r.byQualified[qn] = sig
	r.bySimpleName[sig.Name] = append(r.bySimpleName[sig.Name], sig)
	if sig.Namespace != "" {
		r.namespaces[sig.Namespace]++
	}
}

// Deregister removes the signature named by qualifiedName from all three
// indices; its namespace is removed from the namespace set once its last
// member is gone (spec.md §5).
func (r *Registry) Deregister(qualifiedName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sig, ok := r.byQualified[qualifiedName]
	if !ok {
		return
	}
	delete(r.byQualified, qualifiedName)
	r.removeFromSimpleIndexLocked(sig)
	if sig.Namespace != "" {
		r.decrementNamespaceLocked(sig.Namespace)
	}
}

func (r *Registry) removeFromSimpleIndexLocked(sig Signature) {
	list := r.bySimpleName[sig.Name]
	out := list[:0]
	for _, s := range list {
		if s.QualifiedName() != sig.QualifiedName() {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		delete(r.bySimpleName, sig.Name)
	} else {
		r.bySimpleName[sig.Name] = out
	}
}

func (r *Registry) decrementNamespaceLocked(ns string) {
	r.namespaces[ns]--
	if r.namespaces[ns] <= 0 {
		delete(r.namespaces, ns)
	}
}

// LookupQualified returns the unique signature for a fully-qualified
// name, if any.
func (r *Registry) LookupQualified(qualifiedName string) (Signature, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sig, ok := r.byQualified[qualifiedName]
	return sig, ok
}

// LookupSimple returns every signature registered under the given simple
// name, across all namespaces.
func (r *Registry) LookupSimple(name string) []Signature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.bySimpleName[name]
	out := make([]Signature, len(list))
	copy(out, list)
	return out
}

// HasNamespace reports whether ns (or any namespace prefixed by ns+".")
// is currently registered.
func (r *Registry) HasNamespace(ns string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.namespaces[ns]; ok {
		return true
	}
	prefix := ns + "."
	for registered := range r.namespaces {
		if strings.HasPrefix(registered, prefix) {
			return true
		}
	}
	return false
}

// QualifiedNames returns every registered qualified name, sorted, for use
// in "did you mean" suggestion lists.
func (r *Registry) QualifiedNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byQualified))
	for qn := range r.byQualified {
		out = append(out, qn)
	}
	sort.Strings(out)
	return out
}

// NamespaceScope is the per-pipeline resolution context built up by
// UseDecl declarations (spec.md §5): wildcard-imported namespaces make
// their members visible unqualified, and aliases rewrite `alias.name` to
// `namespace.name`.
type NamespaceScope struct {
	WildcardImports map[string]bool
	Aliases         map[string]string // alias -> namespace
}

// NewNamespaceScope returns an empty scope.
func NewNamespaceScope() NamespaceScope {
	return NamespaceScope{
		WildcardImports: make(map[string]bool),
		Aliases:         make(map[string]string),
	}
}

// WithWildcardImport returns a new scope with ns added to the
// wildcard-import set (NamespaceScope is carried immutably through
// checking, mirroring TypeEnv — spec.md §5/§6).
func (s NamespaceScope) WithWildcardImport(ns string) NamespaceScope {
	out := s.clone()
	out.WildcardImports[ns] = true
	return out
}

// WithAlias returns a new scope with alias bound to ns.
func (s NamespaceScope) WithAlias(alias, ns string) NamespaceScope {
	out := s.clone()
	out.Aliases[alias] = ns
	return out
}

func (s NamespaceScope) clone() NamespaceScope {
	out := NewNamespaceScope()
	for k, v := range s.WildcardImports {
		out.WildcardImports[k] = v
	}
	for k, v := range s.Aliases {
		out.Aliases[k] = v
	}
	return out
}

// ResolveError describes why a name did not resolve to exactly one
// signature, tagged with the spec.md §5 outcome it corresponds to.
type ResolveError struct {
	Kind        string // "UndefinedFunction" | "UndefinedNamespace" | "AmbiguousFunction"
	Name        string
	Suggestions []string
}

func (e *ResolveError) Error() string {
	switch e.Kind {
	case "AmbiguousFunction":
		return fmt.Sprintf("ambiguous function %q: matches %v", e.Name, e.Suggestions)
	case "UndefinedNamespace":
		return fmt.Sprintf("undefined namespace referenced by %q", e.Name)
	default:
		return fmt.Sprintf("undefined function %q", e.Name)
	}
}

// LookupInScope resolves a call-site name (simple or dotted-qualified)
// against the registry under the given scope, implementing spec.md §5's
// resolution rules verbatim, including the backward-compatibility rule
// for scopes with no imports at all.
func (r *Registry) LookupInScope(name string, scope NamespaceScope) (Signature, error) {
	if strings.Contains(name, ".") {
		return r.lookupQualifiedInScope(name, scope)
	}
	return r.lookupSimpleInScope(name, scope)
}

func (r *Registry) lookupSimpleInScope(name string, scope NamespaceScope) (Signature, error) {
	// "if n is itself an alias, treat it as an incomplete reference"
	if _, isAlias := scope.Aliases[name]; isAlias {
		return Signature{}, &ResolveError{Kind: "UndefinedFunction", Name: name, Suggestions: r.QualifiedNames()}
	}

	candidates := map[string]Signature{}
	for _, sig := range r.LookupSimple(name) {
		if sig.Namespace == "" {
			candidates[sig.QualifiedName()] = sig
		}
	}
	for ns := range scope.WildcardImports {
		if sig, ok := r.LookupQualified(ns + "." + name); ok {
			candidates[sig.QualifiedName()] = sig
		}
	}

	noImports := len(scope.WildcardImports) == 0 && len(scope.Aliases) == 0
	if noImports {
		for _, sig := range r.LookupSimple(name) {
			if sig.Namespace != "" {
				candidates[sig.QualifiedName()] = sig
			}
		}
	}

	switch len(candidates) {
	case 1:
		for _, sig := range candidates {
			return sig, nil
		}
	case 0:
		return Signature{}, &ResolveError{Kind: "UndefinedFunction", Name: name, Suggestions: r.QualifiedNames()}
	}
	qns := make([]string, 0, len(candidates))
	for qn := range candidates {
		qns = append(qns, qn)
	}
	sort.Strings(qns)
	return Signature{}, &ResolveError{Kind: "AmbiguousFunction", Name: name, Suggestions: qns}
}

func (r *Registry) lookupQualifiedInScope(name string, scope NamespaceScope) (Signature, error) {
	dot := strings.Index(name, ".")
	head, rest := name[:dot], name[dot+1:]

	if ns, isAlias := scope.Aliases[head]; isAlias {
		full := ns + "." + rest
		if sig, ok := r.LookupQualified(full); ok {
			return sig, nil
		}
		if !r.HasNamespace(ns) {
			return Signature{}, &ResolveError{Kind: "UndefinedNamespace", Name: name}
		}
		return Signature{}, &ResolveError{Kind: "UndefinedFunction", Name: name, Suggestions: r.QualifiedNames()}
	}

	if sig, ok := r.LookupQualified(name); ok {
		return sig, nil
	}
	if !r.HasNamespace(head) {
		return Signature{}, &ResolveError{Kind: "UndefinedNamespace", Name: name}
	}
	return Signature{}, &ResolveError{Kind: "UndefinedFunction", Name: name, Suggestions: r.QualifiedNames()}
}
