package catkin

import (
	"testing"

	"github.com/jward/catkin/internal/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchor_BinaryOperatorToken(t *testing.T) {
	rec := resolveAll(t, `
fun main() {
    val x = 1 + 2
}
`)
	require.Equal(t, []string{"plus"}, rec.names())
	target := rec.targets[0]

	anchor := target.Anchor()
	assert.Equal(t, "+", anchor.Text())
	assert.False(t, anchor.Equal(target.Caller()))

	// The operator token is already a leaf.
	assert.True(t, target.AnchorLeaf().Equal(anchor))
}

func TestAnchor_CompoundAssignmentOperatorToken(t *testing.T) {
	rec := resolveAll(t, `
fun main() {
    var n = 0
    n += 1
}
`)
	require.Equal(t, []string{"n", "plus"}, rec.names())
	for _, tgt := range rec.targets {
		assert.Equal(t, "+=", tgt.Anchor().Text())
	}
}

func TestAnchor_PostfixOperatorToken(t *testing.T) {
	rec := resolveAll(t, `
fun main() {
    var n = 0
    n++
}
`)
	require.Equal(t, []string{"n", "inc"}, rec.names())
	assert.Equal(t, "++", rec.targets[1].Anchor().Text())
}

func TestAnchor_CallFallsBackToCaller(t *testing.T) {
	rec := resolveAll(t, `
fun greet() {}
fun main() {
    greet()
}
`)
	require.Equal(t, []string{"greet"}, rec.names())
	target := rec.targets[0]

	assert.True(t, target.Anchor().Equal(target.Caller()))
	assert.Equal(t, "greet", target.AnchorLeaf().Text())
}

func TestTarget_SymbolMatchesApplied(t *testing.T) {
	rec := resolveAll(t, `
fun greet() {}
fun main() {
    greet()
}
`)
	require.Len(t, rec.targets, 1)
	target := rec.targets[0]
	assert.Equal(t, target.Applied().Symbol, target.Symbol())
	assert.NotNil(t, target.Call())
}

func TestTarget_VariantSplit(t *testing.T) {
	rec := resolveAll(t, `
fun main(flag: Boolean) {
    flag
    listOf(1)
}
`)
	require.Equal(t, []string{"flag", "listOf"}, rec.names())

	_, isVar := rec.targets[0].(VariableAccessTarget)
	assert.True(t, isVar)
	_, isFn := rec.targets[1].(FunctionCallTarget)
	assert.True(t, isFn)

	_, ok := rec.targets[0].Call().(*VariableAccess)
	assert.True(t, ok)
}

func TestTargetVisitor_IgnoresUnresolved(t *testing.T) {
	var seen []string
	proc := TargetVisitor(func(tgt CallTarget) {
		seen = append(seen, tgt.Symbol().Name)
	})

	assert.True(t, proc.ProcessUnresolvedCall(syntax.Node{}, nil))
	assert.Empty(t, seen)
}
