package syntax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTest(t *testing.T, src string) Node {
	t.Helper()
	p := NewParser()
	t.Cleanup(p.Close)
	tree, err := p.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree.Root()
}

// findFirst returns the first descendant of root with the given kind, in
// document order.
func findFirst(root Node, kind Kind) Node {
	if root.Kind() == kind {
		return root
	}
	for i := 0; i < root.NamedChildCount(); i++ {
		if n := findFirst(root.NamedChild(i), kind); n.Valid() {
			return n
		}
	}
	return Node{}
}

// findName returns the first simple identifier with the given text.
func findName(root Node, text string) Node {
	if root.Kind() == KindSimpleName && root.Text() == text {
		return root
	}
	for i := 0; i < root.NamedChildCount(); i++ {
		if n := findName(root.NamedChild(i), text); n.Valid() {
			return n
		}
	}
	return Node{}
}

func TestParse_RootIsSourceFile(t *testing.T) {
	root := parseTest(t, "fun main() {}\n")
	assert.Equal(t, KindSourceFile, root.Kind())
	assert.Equal(t, "source_file", root.RawKind())
}

func TestKindClassification(t *testing.T) {
	src := `
fun main() {
    val x = 1 + 2
    val list = mutableListOf(1)
    val first = list[0]
    list[0] = x
}
`
	root := parseTest(t, src)

	assert.True(t, findFirst(root, KindFunctionDecl).Valid())
	assert.True(t, findFirst(root, KindPropertyDecl).Valid())
	assert.True(t, findFirst(root, KindBinaryExpr).Valid())
	assert.True(t, findFirst(root, KindCallExpr).Valid())
	assert.True(t, findFirst(root, KindIndexExpr).Valid())
	assert.True(t, findFirst(root, KindAssignment).Valid())
}

func TestZeroNode_SafeChaining(t *testing.T) {
	var n Node
	assert.False(t, n.Valid())
	assert.False(t, n.Parent().Parent().Valid())
	assert.False(t, n.NamedChild(0).Valid())
	assert.Equal(t, KindUnknown, n.Kind())
	assert.Equal(t, "", n.Text())
	assert.Equal(t, 0, n.StartLine())
}

func TestNodeText(t *testing.T) {
	root := parseTest(t, "fun main() { val answer = 42 }\n")
	prop := findFirst(root, KindPropertyDecl)
	require.True(t, prop.Valid())
	assert.Equal(t, "val answer = 42", prop.Text())
}

func TestOperatorToken_Binary(t *testing.T) {
	root := parseTest(t, "fun main() { val x = 1 + 2 }\n")
	bin := findFirst(root, KindBinaryExpr)
	require.True(t, bin.Valid())
	op := bin.OperatorToken()
	require.True(t, op.Valid())
	assert.Equal(t, "+", op.Text())
}

func TestOperatorToken_Prefix(t *testing.T) {
	root := parseTest(t, "fun main() { val x = !flag }\n")
	pre := findFirst(root, KindPrefixExpr)
	require.True(t, pre.Valid())
	assert.Equal(t, "!", pre.OperatorToken().Text())
}

func TestOperatorToken_Infix(t *testing.T) {
	root := parseTest(t, "fun main() { val x = a shl 2 }\n")
	bin := findFirst(root, KindBinaryExpr)
	require.True(t, bin.Valid())
	assert.Equal(t, "infix_expression", bin.RawKind())
	assert.Equal(t, "shl", bin.OperatorToken().Text())
}

func TestOperatorToken_NonOperatorShape(t *testing.T) {
	root := parseTest(t, "fun main() { f() }\n")
	call := findFirst(root, KindCallExpr)
	require.True(t, call.Valid())
	assert.False(t, call.OperatorToken().Valid())
}

func TestCallee(t *testing.T) {
	root := parseTest(t, "fun main() { greet() }\n")
	call := findFirst(root, KindCallExpr)
	require.True(t, call.Valid())
	assert.Equal(t, "greet", call.Callee().Text())
}

func TestSelectorName_Simple(t *testing.T) {
	root := parseTest(t, "fun main() { x }\n")
	name := findFirst(root, KindSimpleName)
	require.True(t, name.Valid())
	sel := SelectorName(name)
	assert.True(t, sel.Equal(name))
}

func TestSelectorName_Navigation(t *testing.T) {
	root := parseTest(t, "fun main() { a.b.c }\n")
	nav := findFirst(root, KindNavigation)
	require.True(t, nav.Valid())
	assert.Equal(t, "c", SelectorName(nav).Text())
	assert.Equal(t, "a.b", Receiver(nav).Text())
}

func TestIsNamedArgumentLabel(t *testing.T) {
	root := parseTest(t, "fun main() { f(x = 1, y) }\n")

	var labels, plain []string
	var walk func(n Node)
	walk = func(n Node) {
		if n.Kind() == KindSimpleName && n.Parent().Kind() == KindValueArgument {
			if IsNamedArgumentLabel(n) {
				labels = append(labels, n.Text())
			} else {
				plain = append(plain, n.Text())
			}
		}
		for i := 0; i < n.NamedChildCount(); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	assert.Equal(t, []string{"x"}, labels)
	assert.Equal(t, []string{"y"}, plain)
}

func TestUnparenthesize(t *testing.T) {
	root := parseTest(t, "fun main() { ((x)) + 1 }\n")
	name := findName(root, "x")
	require.True(t, name.Valid())
	outer := Unparenthesize(name)
	assert.Equal(t, "((x))", outer.Text())
	assert.Equal(t, KindBinaryExpr, outer.Parent().Kind())
}

func TestIndexArguments(t *testing.T) {
	root := parseTest(t, "fun main() { grid[i, j] }\n")
	idx := findFirst(root, KindIndexExpr)
	require.True(t, idx.Valid())
	args := IndexArguments(idx)
	require.Len(t, args, 2)
	assert.Equal(t, "i", args[0].Text())
	assert.Equal(t, "j", args[1].Text())
}

func TestIndexedAssignable(t *testing.T) {
	// In assignment position the grammar produces no indexing_expression;
	// the directly_assignable_expression carries the indexing_suffix itself.
	root := parseTest(t, "fun main() { list[0] = x }\n")
	require.False(t, findFirst(root, KindIndexExpr).Valid())

	assign := findFirst(root, KindAssignment)
	require.True(t, assign.Valid())
	lhs := assign.NamedChild(0)
	require.Equal(t, "directly_assignable_expression", lhs.RawKind())

	receiver, ok := IndexedAssignable(lhs)
	require.True(t, ok)
	assert.Equal(t, "list", receiver.Text())

	args := IndexArguments(lhs)
	require.Len(t, args, 1)
	assert.Equal(t, "0", args[0].Text())

	// In expression position the same shape is an indexing_expression.
	root = parseTest(t, "fun main() { val v = list[0] }\n")
	idx := findFirst(root, KindIndexExpr)
	require.True(t, idx.Valid())
	receiver, ok = IndexedAssignable(idx)
	require.True(t, ok)
	assert.Equal(t, "list", receiver.Text())

	_, ok = IndexedAssignable(findName(root, "v"))
	assert.False(t, ok)
}

func TestCallTypeArguments(t *testing.T) {
	root := parseTest(t, "fun main() { listOf<Int>(1) }\n")
	call := findFirst(root, KindCallExpr)
	require.True(t, call.Valid())
	assert.Equal(t, []string{"Int"}, CallTypeArguments(call))
}

func TestEqual(t *testing.T) {
	root := parseTest(t, "fun main() { x + x }\n")
	bin := findFirst(root, KindBinaryExpr)
	left := bin.NamedChild(0)
	right := bin.NamedChild(1)

	assert.True(t, left.Equal(bin.NamedChild(0)))
	assert.False(t, left.Equal(right)) // same text, different byte range
	assert.True(t, Node{}.Equal(Node{}))
	assert.False(t, left.Equal(Node{}))
}

func TestFirstLeaf(t *testing.T) {
	root := parseTest(t, "fun main() { a.b + 1 }\n")
	bin := findFirst(root, KindBinaryExpr)
	require.True(t, bin.Valid())
	leaf := bin.FirstLeaf()
	assert.True(t, leaf.IsLeaf())
	assert.Equal(t, "a", leaf.Text())
}

func TestCollectExpressions_DocumentOrder(t *testing.T) {
	root := parseTest(t, "fun main() { a + b }\n")
	exprs := CollectExpressions(root)
	require.NotEmpty(t, exprs)

	last := -1
	for _, e := range exprs {
		assert.GreaterOrEqual(t, e.StartByte(), last)
		last = e.StartByte()
	}

	var texts []string
	for _, e := range exprs {
		if e.Kind() == KindSimpleName {
			texts = append(texts, e.Text())
		}
	}
	// The function's own name is an identifier too; filtering declaration
	// names from uses is the resolver's job, not the walker's.
	assert.Equal(t, []string{"main", "a", "b"}, texts)
}

func TestCollectExpressions_IncludesForAndDestructuring(t *testing.T) {
	src := `
fun main() {
    for (item in items) {}
    val (a, b) = pair
}
`
	root := parseTest(t, src)
	exprs := CollectExpressions(root)

	kinds := map[Kind]bool{}
	for _, e := range exprs {
		kinds[e.Kind()] = true
	}
	assert.True(t, kinds[KindForLoop])
	assert.True(t, kinds[KindMultiVariableDecl])
	assert.True(t, kinds[KindVariableDecl])
}

func TestAncestors_StopsOnFalse(t *testing.T) {
	root := parseTest(t, "fun main() { val x = 1 + 2 }\n")
	bin := findFirst(root, KindBinaryExpr)
	require.True(t, bin.Valid())

	var seen []Kind
	Ancestors(bin, func(a Node) bool {
		seen = append(seen, a.Kind())
		return a.Kind() != KindFunctionDecl
	})
	require.NotEmpty(t, seen)
	assert.Equal(t, KindFunctionDecl, seen[len(seen)-1])
}

func TestRoot(t *testing.T) {
	root := parseTest(t, "fun main() { x }\n")
	name := findFirst(root, KindSimpleName)
	assert.True(t, Root(name).Equal(root))
}
