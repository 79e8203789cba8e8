// Package compileerr implements the error and warning taxonomy of
// spec.md §7: one small Go type per kind, each carrying a stable
// human-readable message and an optional span, grounded stylistically on
// the teacher's single-purpose error structs (internal/typesystem/error.go)
// rather than a generic wrapped-error or assertion-library approach.
package compileerr

import (
	"fmt"

	"github.com/constellation-compiler/constellation/internal/span"
)

// Kind tags a CompileError with its stable identity, independent of the
// (potentially parameterized) message text.
type Kind string

const (
	KindUndefinedVariable     Kind = "UndefinedVariable"
	KindUndefinedType         Kind = "UndefinedType"
	KindUndefinedFunction     Kind = "UndefinedFunction"
	KindUndefinedNamespace    Kind = "UndefinedNamespace"
	KindAmbiguousFunction     Kind = "AmbiguousFunction"
	KindTypeMismatch          Kind = "TypeMismatch"
	KindTypeError             Kind = "TypeError"
	KindIncompatibleMerge     Kind = "IncompatibleMerge"
	KindInvalidProjection     Kind = "InvalidProjection"
	KindInvalidFieldAccess    Kind = "InvalidFieldAccess"
	KindUnsupportedComparison Kind = "UnsupportedComparison"
	KindUnsupportedArithmetic Kind = "UnsupportedArithmetic"
	KindFallbackTypeMismatch  Kind = "FallbackTypeMismatch"
	KindInvalidOptionValue    Kind = "InvalidOptionValue"
)

// CompileError is every error kind the checker and registry can produce.
// Callers receive a list of these (spec.md §7: "a message, an error kind
// tag, and an optional span").
type CompileError struct {
	Kind       Kind
	Message    string
	Span       span.Span
	// Suggestions carries "did you mean" qualified names for
	// UndefinedFunction and candidate lists for AmbiguousFunction.
	Suggestions []string
}

func (e *CompileError) Error() string {
	if e.Span.IsZero() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

func newErr(k Kind, sp span.Span, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: k, Message: fmt.Sprintf(format, args...), Span: sp}
}

func UndefinedVariable(name string, sp span.Span) *CompileError {
	return newErr(KindUndefinedVariable, sp, "undefined variable %q", name)
}

func UndefinedType(name string, sp span.Span) *CompileError {
	return newErr(KindUndefinedType, sp, "undefined type %q", name)
}

func UndefinedFunction(name string, sp span.Span, suggestions []string) *CompileError {
	e := newErr(KindUndefinedFunction, sp, "undefined function %q", name)
	e.Suggestions = suggestions
	return e
}

func UndefinedNamespace(ns string, sp span.Span) *CompileError {
	return newErr(KindUndefinedNamespace, sp, "undefined namespace %q", ns)
}

func AmbiguousFunction(name string, candidates []string, sp span.Span) *CompileError {
	e := newErr(KindAmbiguousFunction, sp, "ambiguous function %q: matches %v", name, candidates)
	e.Suggestions = candidates
	return e
}

func TypeMismatch(expected, got fmt.Stringer, sp span.Span) *CompileError {
	return newErr(KindTypeMismatch, sp, "type mismatch: expected %s, got %s", expected, got)
}

func TypeErrorf(sp span.Span, format string, args ...interface{}) *CompileError {
	return newErr(KindTypeError, sp, format, args...)
}

func IncompatibleMerge(left, right fmt.Stringer, sp span.Span) *CompileError {
	return newErr(KindIncompatibleMerge, sp, "cannot merge %s with %s", left, right)
}

func InvalidProjection(field string, available []string, sp span.Span) *CompileError {
	return newErr(KindInvalidProjection, sp, "field %q is not present; available fields: %v", field, available)
}

func InvalidFieldAccess(field string, available []string, sp span.Span) *CompileError {
	return newErr(KindInvalidFieldAccess, sp, "no field %q; available fields: %v", field, available)
}

func UnsupportedComparison(op string, lhs, rhs fmt.Stringer, sp span.Span) *CompileError {
	return newErr(KindUnsupportedComparison, sp, "unsupported comparison %q between %s and %s", op, lhs, rhs)
}

func UnsupportedArithmetic(op string, lhs, rhs fmt.Stringer, sp span.Span) *CompileError {
	return newErr(KindUnsupportedArithmetic, sp, "unsupported arithmetic %q between %s and %s", op, lhs, rhs)
}

func FallbackTypeMismatch(expected, got fmt.Stringer, sp span.Span) *CompileError {
	return newErr(KindFallbackTypeMismatch, sp, "fallback type mismatch: expected %s, got %s", expected, got)
}

func InvalidOptionValue(option, value, constraint string, sp span.Span) *CompileError {
	return newErr(KindInvalidOptionValue, sp, "invalid value %q for option %q: %s", value, option, constraint)
}

// WarningKind tags a Warning's stable identity (spec.md §7).
type WarningKind string

const (
	WarningOptionDependency WarningKind = "OptionDependency"
	WarningHighRetryCount   WarningKind = "HighRetryCount"
)

// Warning is non-fatal and accumulated alongside a successful check
// result; it never influences whether checking succeeds (spec.md §9).
type Warning struct {
	Kind    WarningKind
	Message string
	Span    span.Span
}

func (w Warning) String() string {
	if w.Span.IsZero() {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Span, w.Message)
}

func OptionDependencyWarning(option, required string, sp span.Span) Warning {
	return Warning{
		Kind:    WarningOptionDependency,
		Message: fmt.Sprintf("option %q has no effect without %q", option, required),
		Span:    sp,
	}
}

func HighRetryCountWarning(value int, sp span.Span) Warning {
	return Warning{
		Kind:    WarningHighRetryCount,
		Message: fmt.Sprintf("retry count %d is unusually high", value),
		Span:    sp,
	}
}
