package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormat(t *testing.T) {
	require.NoError(t, validateFormat("json"))
	require.NoError(t, validateFormat("text"))
	require.Error(t, validateFormat("yaml"))
	require.Error(t, validateFormat(""))
}

func TestFindRepoRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, findRepoRoot(nested))
}

func TestFindRepoRoot_NoRepo(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, findRepoRoot(dir))
}

func TestResolveDBPath(t *testing.T) {
	repoRoot := "/repo"

	flagDB = ""
	assert.Equal(t, filepath.Join("/repo", ".catkin", "index.db"), resolveDBPath(repoRoot))

	flagDB = "custom.db"
	assert.Equal(t, filepath.Join("/repo", "custom.db"), resolveDBPath(repoRoot))

	flagDB = "/abs/custom.db"
	assert.Equal(t, "/abs/custom.db", resolveDBPath(repoRoot))

	flagDB = ""
}

func TestResolveTargetDir(t *testing.T) {
	dir := t.TempDir()
	got, err := resolveTargetDir([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = resolveTargetDir([]string{filepath.Join(dir, "missing")})
	require.Error(t, err)

	file := filepath.Join(dir, "f.kt")
	require.NoError(t, os.WriteFile(file, []byte("fun a() {}"), 0o644))
	_, err = resolveTargetDir([]string{file})
	require.Error(t, err)
}

func TestFormatCallTargetsText(t *testing.T) {
	var buf bytes.Buffer
	formatCallTargetsText(&buf, []CLICallTarget{
		{Line: 3, Col: 5, Shape: "function_call", Name: "plus", SymbolKind: "function", Builtin: true},
		{Line: 4, Col: 1, Shape: "variable_access", Name: "x", SymbolKind: "local", DeclFile: "a.kt", DeclLine: 2},
	})

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "SHAPE")
	assert.Contains(t, lines[1], "plus")
	assert.Contains(t, lines[1], "builtin")
	assert.Contains(t, lines[2], "a.kt:2")
}

func TestFormatUnresolvedText_TruncatesLongText(t *testing.T) {
	var buf bytes.Buffer
	formatUnresolvedText(&buf, []CLIUnresolvedCall{
		{Line: 1, Col: 1, Text: strings.Repeat("x", 60), Diagnostic: "unresolved reference: x"},
	})
	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), strings.Repeat("x", 41))
}

// chdir changes to dir for the duration of the test, restoring the previous
// working directory on cleanup. (testing.T.Chdir requires Go 1.24+.)
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadConfig_MissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	assert.Equal(t, fileConfig{}, loadConfig())

	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(":\tnot yaml ["), 0o644))
	assert.Equal(t, fileConfig{}, loadConfig())
}

func TestLoadConfig_ReadsValues(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName),
		[]byte("db: custom.db\nformat: text\n"), 0o644))

	cfg := loadConfig()
	assert.Equal(t, "custom.db", cfg.DB)
	assert.Equal(t, "text", cfg.Format)
}
