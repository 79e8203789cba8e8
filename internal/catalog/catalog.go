// Package catalog seeds a registry.Registry from a YAML document
// describing the prelude of builtin functions, grounded on the teacher
// repository's internal/ext/config.go (funxy.yaml loading via
// gopkg.in/yaml.v3: read bytes, yaml.Unmarshal into a typed struct,
// validate, then derive the in-memory shape the rest of the program
// needs).
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/constellation-compiler/constellation/internal/registry"
)

//go:embed prelude.yaml
var preludeYAML []byte

// Document is the top-level shape of a catalog YAML file.
type Document struct {
	Functions []FunctionSpec `yaml:"functions"`
}

// FunctionSpec is one YAML-described builtin signature.
type FunctionSpec struct {
	Name      string      `yaml:"name"`
	Namespace string      `yaml:"namespace,omitempty"`
	Impl      string      `yaml:"impl"`
	Params    []ParamSpec `yaml:"params"`
	Ret       string      `yaml:"ret"`
}

// ParamSpec is one formal parameter as written in YAML.
type ParamSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LoadDefault seeds reg with the embedded prelude catalog (spec.md §5's
// "some function signatures are supplied by a builtin prelude").
func LoadDefault(reg *registry.Registry) error {
	return LoadBytes(reg, preludeYAML)
}

// LoadFile reads a catalog YAML document from disk and registers every
// signature it describes.
func LoadFile(reg *registry.Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return LoadBytes(reg, data)
}

// LoadBytes parses a catalog YAML document and registers every
// signature it describes.
func LoadBytes(reg *registry.Registry, data []byte) error {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing catalog: %w", err)
	}

	for _, fn := range doc.Functions {
		sig, err := fn.toSignature()
		if err != nil {
			return fmt.Errorf("function %q: %w", fn.Name, err)
		}
		reg.Register(sig)
	}
	return nil
}

func (fn FunctionSpec) toSignature() (registry.Signature, error) {
	parser := &typeParser{}

	params := make([]registry.Param, len(fn.Params))
	for i, p := range fn.Params {
		t, err := parser.parse(p.Type)
		if err != nil {
			return registry.Signature{}, fmt.Errorf("param %q: %w", p.Name, err)
		}
		params[i] = registry.Param{Name: p.Name, Type: t}
	}

	ret, err := parser.parse(fn.Ret)
	if err != nil {
		return registry.Signature{}, fmt.Errorf("return type: %w", err)
	}

	return registry.Signature{
		Name:      fn.Name,
		Namespace: fn.Namespace,
		Params:    params,
		Ret:       ret,
		Impl:      fn.Impl,
		RowVars:   parser.rowVars,
	}, nil
}
