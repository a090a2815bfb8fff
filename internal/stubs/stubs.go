// Package stubs loads the builtin Kotlin callables the bundled oracle knows
// about independently of any indexed source: the for-loop iteration protocol
// (iterator/hasNext/next), destructuring componentN functions, operator
// conventions, and common stdlib functions.
//
// The set is described by a Risor script rather than compiled in, so it can
// be extended without rebuilding catkin. The script must evaluate to a list
// of maps with keys name, kind, params, returns, and operator.
package stubs

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"
)

// Stub is one builtin callable declaration.
type Stub struct {
	Name     string
	Kind     string // "function" or "property"
	Params   []string
	Returns  string
	Operator bool
}

// Load evaluates a Risor stub script and converts its result.
func Load(ctx context.Context, src string) ([]Stub, error) {
	result, err := risor.Eval(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("stubs: eval script: %w", err)
	}
	list, ok := result.(*object.List)
	if !ok {
		return nil, fmt.Errorf("stubs: script must return a list, got %s", result.Type())
	}

	var out []Stub
	for i, item := range list.Value() {
		m, ok := item.(*object.Map)
		if !ok {
			return nil, fmt.Errorf("stubs: entry %d: expected map, got %s", i, item.Type())
		}
		stub, err := stubFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("stubs: entry %d: %w", i, err)
		}
		out = append(out, stub)
	}
	return out, nil
}

// LoadFS reads path from fsys and evaluates it with Load.
func LoadFS(ctx context.Context, fsys fs.FS, path string) ([]Stub, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("stubs: reading script %s: %w", path, err)
	}
	return Load(ctx, string(data))
}

func stubFromMap(m *object.Map) (Stub, error) {
	fields := m.Value()

	name, err := stringField(fields, "name")
	if err != nil {
		return Stub{}, err
	}
	if name == "" {
		return Stub{}, fmt.Errorf("missing name")
	}
	kind, err := stringField(fields, "kind")
	if err != nil {
		return Stub{}, err
	}
	if kind == "" {
		kind = "function"
	}
	returns, err := stringField(fields, "returns")
	if err != nil {
		return Stub{}, err
	}

	stub := Stub{Name: name, Kind: kind, Returns: returns}

	if v, ok := fields["operator"]; ok {
		b, ok := v.(*object.Bool)
		if !ok {
			return Stub{}, fmt.Errorf("operator must be a bool, got %s", v.Type())
		}
		stub.Operator = b.Value()
	}

	if v, ok := fields["params"]; ok {
		list, ok := v.(*object.List)
		if !ok {
			return Stub{}, fmt.Errorf("params must be a list, got %s", v.Type())
		}
		for _, p := range list.Value() {
			s, ok := p.(*object.String)
			if !ok {
				return Stub{}, fmt.Errorf("param must be a string, got %s", p.Type())
			}
			stub.Params = append(stub.Params, s.Value())
		}
	}
	return stub, nil
}

func stringField(fields map[string]object.Object, key string) (string, error) {
	v, ok := fields[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(*object.String)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %s", key, v.Type())
	}
	return s.Value(), nil
}
