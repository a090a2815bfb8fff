// Package syntax wraps tree-sitter's Kotlin grammar behind a small typed
// node API. It classifies raw grammar node types into a closed Kind set,
// exposes the parent/child traversal the call resolver needs, and keeps all
// grammar-name knowledge out of the resolution layer.
package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"
)

// Parser parses Kotlin source into Trees. Not safe for concurrent use; create
// one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a Parser configured with the Kotlin grammar.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(kotlin.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses src and returns the resulting Tree. The source bytes are
// retained by the Tree so node text can be recovered later.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Tree, error) {
	t, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("syntax: parse: %w", err)
	}
	return &Tree{tree: t, src: src}, nil
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.parser.Close()
}

// Tree is a parsed Kotlin source file.
type Tree struct {
	tree *sitter.Tree
	src  []byte
}

// Root returns the tree's source_file node.
func (t *Tree) Root() Node {
	return Node{inner: t.tree.RootNode(), src: t.src}
}

// Source returns the bytes the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.src
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	t.tree.Close()
}

// Node is one syntax tree node. The zero Node is invalid; traversal methods
// on it return invalid Nodes, so chains like n.Parent().Parent() are safe
// without nil checks.
type Node struct {
	inner *sitter.Node
	src   []byte
}

// Valid reports whether the node refers to an actual tree node.
func (n Node) Valid() bool {
	return n.inner != nil
}

// Kind returns the node's classified kind, or KindUnknown for raw grammar
// types the resolver has no use for.
func (n Node) Kind() Kind {
	if n.inner == nil {
		return KindUnknown
	}
	return kindOf(n.inner.Type())
}

// RawKind returns the underlying grammar node type string.
func (n Node) RawKind() string {
	if n.inner == nil {
		return ""
	}
	return n.inner.Type()
}

// Text returns the source text the node spans.
func (n Node) Text() string {
	if n.inner == nil {
		return ""
	}
	return n.inner.Content(n.src)
}

// Parent returns the node's parent, or an invalid Node at the root.
func (n Node) Parent() Node {
	if n.inner == nil {
		return Node{}
	}
	return n.wrap(n.inner.Parent())
}

// Child returns the i-th child (named or anonymous).
func (n Node) Child(i int) Node {
	if n.inner == nil || i < 0 || i >= int(n.inner.ChildCount()) {
		return Node{}
	}
	return n.wrap(n.inner.Child(i))
}

// ChildCount returns the number of children, anonymous tokens included.
func (n Node) ChildCount() int {
	if n.inner == nil {
		return 0
	}
	return int(n.inner.ChildCount())
}

// NamedChild returns the i-th named child.
func (n Node) NamedChild(i int) Node {
	if n.inner == nil || i < 0 || i >= int(n.inner.NamedChildCount()) {
		return Node{}
	}
	return n.wrap(n.inner.NamedChild(i))
}

// NamedChildCount returns the number of named children.
func (n Node) NamedChildCount() int {
	if n.inner == nil {
		return 0
	}
	return int(n.inner.NamedChildCount())
}

// IsNamed reports whether the node is a named grammar node rather than an
// anonymous token.
func (n Node) IsNamed() bool {
	return n.inner != nil && n.inner.IsNamed()
}

// IsLeaf reports whether the node has no children (a terminal token).
func (n Node) IsLeaf() bool {
	return n.inner != nil && n.inner.ChildCount() == 0
}

// StartLine returns the 1-based start line.
func (n Node) StartLine() int {
	if n.inner == nil {
		return 0
	}
	return int(n.inner.StartPoint().Row) + 1
}

// StartCol returns the 1-based start column.
func (n Node) StartCol() int {
	if n.inner == nil {
		return 0
	}
	return int(n.inner.StartPoint().Column) + 1
}

// EndLine returns the 1-based end line.
func (n Node) EndLine() int {
	if n.inner == nil {
		return 0
	}
	return int(n.inner.EndPoint().Row) + 1
}

// EndCol returns the 1-based end column.
func (n Node) EndCol() int {
	if n.inner == nil {
		return 0
	}
	return int(n.inner.EndPoint().Column) + 1
}

// StartByte returns the node's start offset in the source.
func (n Node) StartByte() int {
	if n.inner == nil {
		return 0
	}
	return int(n.inner.StartByte())
}

// EndByte returns the node's end offset in the source.
func (n Node) EndByte() int {
	if n.inner == nil {
		return 0
	}
	return int(n.inner.EndByte())
}

// Equal reports whether two Nodes refer to the same tree node. tree-sitter
// node handles are not pointer-stable across traversals, so identity is the
// (type, byte range) pair within one tree.
func (n Node) Equal(other Node) bool {
	if n.inner == nil || other.inner == nil {
		return n.inner == nil && other.inner == nil
	}
	return n.inner.Type() == other.inner.Type() &&
		n.inner.StartByte() == other.inner.StartByte() &&
		n.inner.EndByte() == other.inner.EndByte()
}

func (n Node) wrap(inner *sitter.Node) Node {
	if inner == nil {
		return Node{}
	}
	return Node{inner: inner, src: n.src}
}

// FirstLeaf descends via first-child links until it reaches a terminal token.
func (n Node) FirstLeaf() Node {
	cur := n
	for cur.Valid() && !cur.IsLeaf() {
		cur = cur.Child(0)
	}
	return cur
}

// OperatorToken returns the operator token of a unary, binary, or assignment
// node: the first anonymous child. Returns an invalid Node for other shapes.
func (n Node) OperatorToken() Node {
	switch n.Kind() {
	case KindPrefixExpr, KindPostfixExpr, KindBinaryExpr, KindAssignment:
	default:
		return Node{}
	}
	for i := 0; i < n.ChildCount(); i++ {
		if c := n.Child(i); c.Valid() && !c.IsNamed() {
			return c
		}
	}
	// infix_expression: the operator is a named simple_identifier between the
	// operands.
	if n.RawKind() == "infix_expression" && n.NamedChildCount() == 3 {
		return n.NamedChild(1)
	}
	return Node{}
}

// Callee returns the function position of a call expression: its first named
// child (an identifier or navigation chain).
func (n Node) Callee() Node {
	if n.Kind() != KindCallExpr {
		return Node{}
	}
	return n.NamedChild(0)
}

// SelectorName returns the rightmost simple identifier of a navigation
// expression (`a.b.c` yields `c`), or the node itself when it is already a
// simple identifier.
func SelectorName(n Node) Node {
	switch n.Kind() {
	case KindSimpleName:
		return n
	case KindNavigation:
		for i := 0; i < n.NamedChildCount(); i++ {
			c := n.NamedChild(i)
			if c.Kind() == KindNavigationSuffix {
				for j := 0; j < c.NamedChildCount(); j++ {
					if s := c.NamedChild(j); s.Kind() == KindSimpleName {
						return s
					}
				}
			}
		}
	}
	return Node{}
}

// Receiver returns the receiver side of a navigation expression (`a.b`
// yields `a`).
func Receiver(n Node) Node {
	if n.Kind() != KindNavigation {
		return Node{}
	}
	return n.NamedChild(0)
}

// IsNamedArgumentLabel reports whether a simple identifier is the label of a
// named argument (`f(x = 1)` labels `x`). The label is the first child of a
// value_argument followed by an `=` token.
func IsNamedArgumentLabel(n Node) bool {
	if n.Kind() != KindSimpleName {
		return false
	}
	parent := n.Parent()
	if parent.Kind() != KindValueArgument {
		return false
	}
	for i := 0; i < parent.ChildCount(); i++ {
		c := parent.Child(i)
		if c.Equal(n) {
			next := parent.Child(i + 1)
			return next.Valid() && next.Text() == "="
		}
	}
	return false
}

// Unparenthesize strips enclosing parenthesized expressions, returning the
// outermost wrapper above n. Used when deciding what an expression's true
// parent context is.
func Unparenthesize(n Node) Node {
	cur := n
	for cur.Parent().Kind() == KindParenExpr {
		cur = cur.Parent()
	}
	return cur
}

// IndexedAssignable reports whether n is an indexed form assignment can
// target: an indexing expression, or a directly_assignable_expression
// carrying an indexing_suffix. The second shape is how the grammar parses an
// assignment target like `a[i] = x`; no indexing_expression node exists
// there. Returns the receiver expression being indexed.
func IndexedAssignable(n Node) (Node, bool) {
	if n.Kind() == KindIndexExpr {
		return n.NamedChild(0), true
	}
	if n.RawKind() != "directly_assignable_expression" {
		return Node{}, false
	}
	for i := 0; i < n.NamedChildCount(); i++ {
		if n.NamedChild(i).RawKind() == "indexing_suffix" {
			return n.NamedChild(0), true
		}
	}
	return Node{}, false
}

// IndexArguments returns the index expressions of an indexed access
// (`a[i, j]` yields i and j), whether it appears as an indexing expression or
// as an indexed assignment target.
func IndexArguments(n Node) []Node {
	var out []Node
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.RawKind() == "indexing_suffix" {
			for j := 0; j < c.NamedChildCount(); j++ {
				out = append(out, c.NamedChild(j))
			}
		}
	}
	return out
}

// CallTypeArguments returns the text of each explicit type argument of a
// call expression (`f<Int, String>()` yields "Int", "String").
func CallTypeArguments(n Node) []string {
	if n.Kind() != KindCallExpr {
		return nil
	}
	var out []string
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() != KindCallSuffix {
			continue
		}
		for j := 0; j < c.NamedChildCount(); j++ {
			ta := c.NamedChild(j)
			if ta.Kind() != KindTypeArguments {
				continue
			}
			for k := 0; k < ta.NamedChildCount(); k++ {
				out = append(out, ta.NamedChild(k).Text())
			}
		}
	}
	return out
}

// Root walks up parent links to the tree's source_file node.
func Root(n Node) Node {
	cur := n
	for cur.Parent().Valid() {
		cur = cur.Parent()
	}
	return cur
}

// CollectExpressions returns every descendant of root (root included) whose
// kind is expression-like, in document order.
func CollectExpressions(root Node) []Node {
	var out []Node
	var walk func(n Node)
	walk = func(n Node) {
		if !n.Valid() {
			return
		}
		if expressionKinds[n.Kind()] {
			out = append(out, n)
		}
		for i := 0; i < n.NamedChildCount(); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
	return out
}

// Ancestors iterates parents of n from nearest to the root, calling fn for
// each. Iteration stops when fn returns false.
func Ancestors(n Node, fn func(Node) bool) {
	for cur := n.Parent(); cur.Valid(); cur = cur.Parent() {
		if !fn(cur) {
			return
		}
	}
}
