package checker

import (
	"strconv"

	"github.com/constellation-compiler/constellation/internal/ast"
	"github.com/constellation-compiler/constellation/internal/compileerr"
	"github.com/constellation-compiler/constellation/internal/span"
	"github.com/constellation-compiler/constellation/internal/types"
)

const highRetryThreshold = 10

// checkCallOptions validates a FunctionCall's module-call options
// against retType, the call's resolved return type (spec.md §4.4):
// type-checks fallback, range-checks numeric options, and appends
// non-fatal dependency warnings to the checker's per-invocation buffer.
func (c *Checker) checkCallOptions(env TypeEnv, expr *ast.FunctionCall, retType types.Type) (TypedCallOptions, *compileerr.CompileError) {
	opts := expr.Options
	out := TypedCallOptions{
		Retry:        opts.Retry,
		Concurrency:  opts.Concurrency,
		Throttle:     opts.Throttle,
		Timeout:      opts.Timeout,
		Delay:        opts.Delay,
		Cache:        opts.Cache,
		Backoff:      opts.Backoff,
		CacheBackend: opts.CacheBackend,
	}

	if opts.Fallback != nil {
		checked, err := c.check(env, opts.Fallback, retType)
		if err != nil {
			inferred, ierr := c.infer(env, opts.Fallback)
			got := types.Type(types.Nothing{})
			if ierr == nil {
				got = inferred.Type
			}
			return TypedCallOptions{}, compileerr.FallbackTypeMismatch(retType, got, expr.Span)
		}
		out.Fallback = &checked
	}

	if opts.Retry != nil {
		if *opts.Retry < 0 {
			return TypedCallOptions{}, compileerr.InvalidOptionValue("retry", strconv.Itoa(*opts.Retry), "must be non-negative", expr.Span)
		}
		if *opts.Retry > highRetryThreshold {
			c.warnings = append(c.warnings, compileerr.HighRetryCountWarning(*opts.Retry, expr.Span))
		}
	}

	if opts.Concurrency != nil && *opts.Concurrency <= 0 {
		return TypedCallOptions{}, compileerr.InvalidOptionValue("concurrency", strconv.Itoa(*opts.Concurrency), "must be positive", expr.Span)
	}

	if opts.Throttle != nil {
		if opts.Throttle.Count <= 0 {
			return TypedCallOptions{}, compileerr.InvalidOptionValue("throttle", strconv.Itoa(opts.Throttle.Count), "count must be positive", expr.Span)
		}
		if err := validateDuration("throttle", opts.Throttle.Window, expr.Span); err != nil {
			return TypedCallOptions{}, err
		}
	}
	if opts.Timeout != nil {
		if err := validateDuration("timeout", *opts.Timeout, expr.Span); err != nil {
			return TypedCallOptions{}, err
		}
	}
	if opts.Delay != nil {
		if err := validateDuration("delay", *opts.Delay, expr.Span); err != nil {
			return TypedCallOptions{}, err
		}
	}
	if opts.Cache != nil {
		if err := validateDuration("cache", *opts.Cache, expr.Span); err != nil {
			return TypedCallOptions{}, err
		}
	}

	if opts.Delay != nil && opts.Retry == nil {
		c.warnings = append(c.warnings, compileerr.OptionDependencyWarning("delay", "retry", expr.Span))
	}
	if opts.Backoff != nil && opts.Delay == nil && opts.Retry == nil {
		c.warnings = append(c.warnings, compileerr.OptionDependencyWarning("backoff", "delay or retry", expr.Span))
	}
	if opts.CacheBackend != nil && opts.Cache == nil {
		c.warnings = append(c.warnings, compileerr.OptionDependencyWarning("cache_backend", "cache", expr.Span))
	}

	return out, nil
}

// validateDuration requires a positive duration value and a unit that is
// one of s, m, h (an empty or unknown unit is rejected).
func validateDuration(option string, d ast.Duration, sp span.Span) *compileerr.CompileError {
	if d.Value <= 0 {
		return compileerr.InvalidOptionValue(option, strconv.Itoa(d.Value), "duration must be positive", sp)
	}
	switch d.Unit {
	case ast.DurationSeconds, ast.DurationMinutes, ast.DurationHours:
		return nil
	default:
		return compileerr.InvalidOptionValue(option, string(d.Unit), "unit must be one of s, m, h", sp)
	}
}
