package checker

import (
	"github.com/constellation-compiler/constellation/internal/compileerr"
	"github.com/constellation-compiler/constellation/internal/span"
	"github.com/constellation-compiler/constellation/internal/types"
)

// mergeTypes implements spec.md §4.4's type merge: record union with the
// right operand winning collisions, list-broadcast in both directions,
// and failure for anything else.
func mergeTypes(a, b types.Type, sp span.Span) (types.Type, *compileerr.CompileError) {
	switch left := a.(type) {
	case types.Record:
		switch right := b.(type) {
		case types.Record:
			return mergeRecords(left, right), nil
		case types.List:
			if rightRec, ok := right.Elem.(types.Record); ok {
				merged, err := mergeTypes(left, rightRec, sp)
				if err != nil {
					return nil, err
				}
				return types.List{Elem: merged}, nil
			}
		}
	case types.List:
		switch leftElem := left.Elem.(type) {
		case types.Record:
			switch right := b.(type) {
			case types.Record:
				merged, err := mergeTypes(leftElem, right, sp)
				if err != nil {
					return nil, err
				}
				return types.List{Elem: merged}, nil
			case types.List:
				if rightRec, ok := right.Elem.(types.Record); ok {
					merged, err := mergeTypes(leftElem, rightRec, sp)
					if err != nil {
						return nil, err
					}
					return types.List{Elem: merged}, nil
				}
			}
		}
	}
	return nil, compileerr.IncompatibleMerge(a, b, sp)
}

func mergeRecords(a, b types.Record) types.Record {
	fields := make(map[string]types.Type, len(a.Fields)+len(b.Fields))
	for k, v := range a.Fields {
		fields[k] = v
	}
	for k, v := range b.Fields {
		fields[k] = v // right wins on collision
	}
	return types.NewRecord(fields)
}

func isMergeable(t types.Type) bool {
	switch v := t.(type) {
	case types.Record:
		return true
	case types.List:
		_, ok := v.Elem.(types.Record)
		return ok
	}
	return false
}
