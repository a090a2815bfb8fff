package catkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_SessionInvalidOutsideScope(t *testing.T) {
	e := newTestEngine(t)
	root := indexAndParse(t, e, "fun main() { missing() }\n")

	var escaped Session
	err := e.Analyzer().Analyze(root, func(s Session) error {
		escaped = s
		return nil
	})
	require.NoError(t, err)

	_, err = escaped.ResolveCall(root)
	require.ErrorIs(t, err, errSessionClosed)
	_, err = escaped.ResolveToSymbols(root)
	require.ErrorIs(t, err, errSessionClosed)
	_, err = escaped.Signature(Symbol{})
	require.ErrorIs(t, err, errSessionClosed)
}

func TestAnalyze_PropagatesCallbackError(t *testing.T) {
	e := newTestEngine(t)
	root := indexAndParse(t, e, "fun main() {}\n")

	sentinel := assert.AnError
	err := e.Analyzer().Analyze(root, func(s Session) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestResolve_ExtensionFunctionSignature(t *testing.T) {
	rec := resolveAll(t, `
fun Int.twice(): Int = this + this

fun main() {
    1.twice()
}
`)
	var twice CallTarget
	for _, tgt := range rec.targets {
		if tgt.Symbol().Name == "twice" {
			twice = tgt
		}
	}
	require.NotNil(t, twice)
	assert.Equal(t, "Int", twice.Applied().Signature.Receiver)
	assert.Equal(t, "Int", twice.Applied().Signature.Return)
}

func TestResolve_ExplicitTypeArguments(t *testing.T) {
	rec := resolveAll(t, `
fun <T> make(): T = TODO()

fun main() {
    make<String>()
}
`)
	var found CallTarget
	for _, tgt := range rec.targets {
		if tgt.Symbol().Name == "make" {
			found = tgt
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, []string{"String"}, found.Applied().TypeArguments)
}

func TestResolve_SymbolCarriesDeclLocation(t *testing.T) {
	rec := resolveAll(t, `
fun greet() {}
fun main() {
    greet()
}
`)
	require.Equal(t, []string{"greet"}, rec.names())
	sym := rec.targets[0].Symbol()
	assert.Equal(t, 2, sym.Line)
	assert.NotEmpty(t, sym.File)
	assert.False(t, sym.Builtin)
}
