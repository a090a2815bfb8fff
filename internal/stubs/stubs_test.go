package stubs

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FullEntry(t *testing.T) {
	src := `[{"name": "plus", "kind": "function", "params": ["Int"], "returns": "Int", "operator": true}]`
	stubs, err := Load(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, stubs, 1)

	s := stubs[0]
	assert.Equal(t, "plus", s.Name)
	assert.Equal(t, "function", s.Kind)
	assert.Equal(t, []string{"Int"}, s.Params)
	assert.Equal(t, "Int", s.Returns)
	assert.True(t, s.Operator)
}

func TestLoad_DefaultsKindToFunction(t *testing.T) {
	stubs, err := Load(context.Background(), `[{"name": "println"}]`)
	require.NoError(t, err)
	require.Len(t, stubs, 1)
	assert.Equal(t, "function", stubs[0].Kind)
	assert.False(t, stubs[0].Operator)
	assert.Empty(t, stubs[0].Params)
}

func TestLoad_ScriptCanComputeEntries(t *testing.T) {
	src := `
entries := []
for i := 1; i <= 3; i++ {
    entries.append({"name": 'component{i}', "operator": true})
}
entries
`
	stubs, err := Load(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, stubs, 3)
	assert.Equal(t, "component1", stubs[0].Name)
	assert.Equal(t, "component3", stubs[2].Name)
}

func TestLoad_NotAList(t *testing.T) {
	_, err := Load(context.Background(), `{"name": "plus"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must return a list")
}

func TestLoad_EntryNotAMap(t *testing.T) {
	_, err := Load(context.Background(), `["plus"]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected map")
}

func TestLoad_MissingName(t *testing.T) {
	_, err := Load(context.Background(), `[{"kind": "function"}]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name")
}

func TestLoad_BadParamType(t *testing.T) {
	_, err := Load(context.Background(), `[{"name": "f", "params": [1]}]`)
	require.Error(t, err)
}

func TestLoad_SyntaxError(t *testing.T) {
	_, err := Load(context.Background(), `[{`)
	require.Error(t, err)
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"builtins.risor": {Data: []byte(`[{"name": "get", "operator": true}]`)},
	}
	stubs, err := LoadFS(context.Background(), fsys, "builtins.risor")
	require.NoError(t, err)
	require.Len(t, stubs, 1)
	assert.Equal(t, "get", stubs[0].Name)
}

func TestLoadFS_MissingFile(t *testing.T) {
	_, err := LoadFS(context.Background(), fstest.MapFS{}, "nope.risor")
	require.Error(t, err)
}
