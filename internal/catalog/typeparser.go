package catalog

import (
	"fmt"
	"strings"

	"github.com/constellation-compiler/constellation/internal/types"
)

// typeParser parses the catalog's small type-string grammar:
//
//	Int | Float | String | Boolean | Nothing
//	List<T>
//	Optional<T>
//	Map<K, V>
//	{field: T, field: T}              (closed record)
//	{field: T | row}                  (open record; "row" is a placeholder
//	                                    row-variable name, only its
//	                                    presence as a distinct name across
//	                                    one signature's params matters)
//	(T1, T2) -> R                      (function type, mirroring
//	                                    types.Function's own String())
//
// Every row variable named in one FunctionSpec gets its own template
// types.RowVar, collected into rowVars so toSignature can populate
// Signature.RowVars; the checker mints fresh ids per call site via
// freshRowSubst, so the exact template id only needs to be internally
// consistent within a single signature.
type typeParser struct {
	rowVars  []types.RowVar
	rowNames map[string]types.RowVar
	nextID   uint64
}

func (p *typeParser) parse(s string) (types.Type, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "Int":
		return types.Int{}, nil
	case "Float":
		return types.Float{}, nil
	case "String":
		return types.String{}, nil
	case "Boolean":
		return types.Boolean{}, nil
	case "Nothing":
		return types.Nothing{}, nil
	}

	if strings.HasPrefix(s, "List<") && strings.HasSuffix(s, ">") {
		elem, err := p.parse(s[len("List<") : len(s)-1])
		if err != nil {
			return nil, err
		}
		return types.List{Elem: elem}, nil
	}
	if strings.HasPrefix(s, "Optional<") && strings.HasSuffix(s, ">") {
		elem, err := p.parse(s[len("Optional<") : len(s)-1])
		if err != nil {
			return nil, err
		}
		return types.Optional{Elem: elem}, nil
	}
	if strings.HasPrefix(s, "Map<") && strings.HasSuffix(s, ">") {
		inner := s[len("Map<") : len(s)-1]
		parts := splitTopLevel(inner, ',')
		if len(parts) != 2 {
			return nil, fmt.Errorf("Map requires exactly two type arguments: %q", s)
		}
		key, err := p.parse(parts[0])
		if err != nil {
			return nil, err
		}
		val, err := p.parse(parts[1])
		if err != nil {
			return nil, err
		}
		return types.Map{Key: key, Value: val}, nil
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return p.parseRecord(s[1 : len(s)-1])
	}
	if strings.HasPrefix(s, "(") {
		return p.parseFunction(s)
	}

	return nil, fmt.Errorf("unrecognized type expression %q", s)
}

// parseFunction parses "(T1, T2) -> R", scanning for the paren that
// matches the leading "(" so nested function types in param/return
// position (e.g. "((Int) -> Boolean) -> Int") match correctly.
func (p *typeParser) parseFunction(s string) (types.Type, error) {
	closeIdx, err := matchingParen(s)
	if err != nil {
		return nil, err
	}

	afterParen := strings.TrimSpace(s[closeIdx+1:])
	if !strings.HasPrefix(afterParen, "->") {
		return nil, fmt.Errorf("expected '->' after parameter list in function type %q", s)
	}
	retExpr := strings.TrimSpace(afterParen[len("->"):])

	var params []types.Type
	paramsBody := strings.TrimSpace(s[1:closeIdx])
	if paramsBody != "" {
		for _, part := range splitTopLevel(paramsBody, ',') {
			pt, err := p.parse(part)
			if err != nil {
				return nil, err
			}
			params = append(params, pt)
		}
	}

	ret, err := p.parse(retExpr)
	if err != nil {
		return nil, err
	}
	return types.Function{Params: params, Ret: ret}, nil
}

// matchingParen returns the index within s of the ')' matching the '('
// at s[0].
func matchingParen(s string) (int, error) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("unbalanced parentheses in function type %q", s)
}

func (p *typeParser) parseRecord(body string) (types.Type, error) {
	rowName := ""
	if idx := strings.LastIndex(body, "|"); idx >= 0 {
		rowName = strings.TrimSpace(body[idx+1:])
		body = body[:idx]
	}

	fields := map[string]types.Type{}
	body = strings.TrimSpace(body)
	if body != "" {
		for _, entry := range splitTopLevel(body, ',') {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			colon := strings.Index(entry, ":")
			if colon < 0 {
				return nil, fmt.Errorf("malformed record field %q", entry)
			}
			name := strings.TrimSpace(entry[:colon])
			ft, err := p.parse(entry[colon+1:])
			if err != nil {
				return nil, err
			}
			fields[name] = ft
		}
	}

	if rowName == "" {
		return types.NewRecord(fields), nil
	}
	return types.OpenRecord{Fields: fields, Row: p.rowVarNamed(rowName)}, nil
}

// rowVarNamed returns the template RowVar for rowName, minting one the
// first time it's seen within this signature and reusing it for every
// later occurrence of the same name.
func (p *typeParser) rowVarNamed(rowName string) types.RowVar {
	if p.rowNames == nil {
		p.rowNames = map[string]types.RowVar{}
	}
	if rv, ok := p.rowNames[rowName]; ok {
		return rv
	}
	p.nextID++
	rv := types.RowVar{ID: p.nextID}
	p.rowNames[rowName] = rv
	p.rowVars = append(p.rowVars, rv)
	return rv
}

// splitTopLevel splits s on sep, but never inside matching <...>, {...},
// (...) nesting, so "Map<String, Int>" in a record field list isn't split
// on its inner comma. The '>' of a function type's "->" is not a closing
// bracket.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '{', '(':
			depth++
		case '>':
			if i == 0 || s[i-1] != '-' {
				depth--
			}
		case '}', ')':
			depth--
		default:
			if s[i] == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
