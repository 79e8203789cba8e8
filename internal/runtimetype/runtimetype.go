// Package runtimetype defines the minimal CType mirror spec.md §6
// requires this module to convert to/from: the actual DAG-runtime type
// system is an external collaborator out of scope here, so this package
// defines just enough of its shape for the adapter functions to target.
package runtimetype

import (
	"fmt"

	"github.com/constellation-compiler/constellation/internal/types"
)

// CType is the runtime's own type representation. Unlike types.Type, it
// has no Function, RowVar, or OpenRecord case — those are compile-time
// only constructs (spec.md §9).
type CType interface {
	cType()
}

type CString struct{}
type CInt struct{}
type CFloat struct{}
type CBoolean struct{}
type CNothing struct{}
type CList struct{ Elem CType }
type CMap struct{ Key, Value CType }
type COptional struct{ Elem CType }
type CRecord struct{ Fields map[string]CType }
type CUnion struct{ Members []CType }

func (CString) cType()   {}
func (CInt) cType()      {}
func (CFloat) cType()    {}
func (CBoolean) cType()  {}
func (CNothing) cType()  {}
func (CList) cType()     {}
func (CMap) cType()      {}
func (COptional) cType() {}
func (CRecord) cType()   {}
func (CUnion) cType()    {}

// ProgrammerError signals that compile-time-only type machinery
// (Function, RowVar, unresolved OpenRecord) reached the runtime
// boundary — a bug in the compiler, never a user-facing condition
// (spec.md §6, §9).
type ProgrammerError struct {
	Reason string
}

func (e *ProgrammerError) Error() string { return "programmer error: " + e.Reason }

// ToRuntimeType converts a compile-time Type to its runtime mirror.
// Function, RowVar, and any OpenRecord not yet resolved by substitution
// are programmer errors: they must never leak into the runtime type
// system (spec.md §9).
func ToRuntimeType(t types.Type) (CType, error) {
	switch v := t.(type) {
	case types.String:
		return CString{}, nil
	case types.Int:
		return CInt{}, nil
	case types.Float:
		return CFloat{}, nil
	case types.Boolean:
		return CBoolean{}, nil
	case types.Nothing:
		return CNothing{}, nil
	case types.List:
		elem, err := ToRuntimeType(v.Elem)
		if err != nil {
			return nil, err
		}
		return CList{Elem: elem}, nil
	case types.Map:
		key, err := ToRuntimeType(v.Key)
		if err != nil {
			return nil, err
		}
		val, err := ToRuntimeType(v.Value)
		if err != nil {
			return nil, err
		}
		return CMap{Key: key, Value: val}, nil
	case types.Optional:
		elem, err := ToRuntimeType(v.Elem)
		if err != nil {
			return nil, err
		}
		return COptional{Elem: elem}, nil
	case types.Record:
		fields := make(map[string]CType, len(v.Fields))
		for name, ft := range v.Fields {
			converted, err := ToRuntimeType(ft)
			if err != nil {
				return nil, err
			}
			fields[name] = converted
		}
		return CRecord{Fields: fields}, nil
	case types.Union:
		members := make([]CType, len(v.Members))
		for i, m := range v.Members {
			converted, err := ToRuntimeType(m)
			if err != nil {
				return nil, err
			}
			members[i] = converted
		}
		return CUnion{Members: members}, nil
	case types.OpenRecord:
		return nil, &ProgrammerError{Reason: fmt.Sprintf("unresolved OpenRecord reached the runtime boundary: %s", v)}
	case types.Function:
		return nil, &ProgrammerError{Reason: fmt.Sprintf("Function type reached the runtime boundary: %s", v)}
	case types.RowVar:
		return nil, &ProgrammerError{Reason: fmt.Sprintf("RowVar reached the runtime boundary: %s", v)}
	default:
		return nil, &ProgrammerError{Reason: fmt.Sprintf("unrecognized compile-time type %T", t)}
	}
}

// FromRuntimeType converts a runtime CType back to a compile-time Type.
// Every CType has a compile-time counterpart, so this direction never
// fails.
func FromRuntimeType(t CType) types.Type {
	switch v := t.(type) {
	case CString:
		return types.String{}
	case CInt:
		return types.Int{}
	case CFloat:
		return types.Float{}
	case CBoolean:
		return types.Boolean{}
	case CNothing:
		return types.Nothing{}
	case CList:
		return types.List{Elem: FromRuntimeType(v.Elem)}
	case CMap:
		return types.Map{Key: FromRuntimeType(v.Key), Value: FromRuntimeType(v.Value)}
	case COptional:
		return types.Optional{Elem: FromRuntimeType(v.Elem)}
	case CRecord:
		fields := make(map[string]types.Type, len(v.Fields))
		for name, ft := range v.Fields {
			fields[name] = FromRuntimeType(ft)
		}
		return types.NewRecord(fields)
	case CUnion:
		members := make([]types.Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = FromRuntimeType(m)
		}
		return types.NormalizeUnion(members)
	default:
		return types.Nothing{}
	}
}
