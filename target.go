package catkin

import "github.com/jward/catkin/internal/syntax"

// CallTarget is one resolved call-site outcome: the syntax node that
// triggered resolution, the oracle's raw call descriptor, and the partially
// applied symbol the site binds to. Targets are immutable values created per
// resolution attempt; they hold no identity beyond their fields.
//
// The two implementations are VariableAccessTarget and FunctionCallTarget.
type CallTarget interface {
	// Caller is the syntax node that triggered resolution.
	Caller() syntax.Node
	// Call is the raw call descriptor the target was derived from.
	Call() ResolvedCall
	// Applied is the receiver + symbol + type-argument bundle.
	Applied() PartiallyAppliedSymbol
	// Symbol is the resolved callable. Always identical to Applied().Symbol.
	Symbol() Symbol
	// Anchor is the node diagnostics should point at: the operator token for
	// unary, binary, and assignment callers, the caller itself otherwise.
	Anchor() syntax.Node
	// AnchorLeaf descends from Anchor via first-child links to a terminal
	// token.
	AnchorLeaf() syntax.Node

	sealedTarget()
}

// baseTarget carries the fields shared by both variants. Anchor and
// AnchorLeaf are computed from caller on every access so they can never go
// stale relative to it.
type baseTarget struct {
	caller  syntax.Node
	call    ResolvedCall
	applied PartiallyAppliedSymbol
}

func (t baseTarget) Caller() syntax.Node             { return t.caller }
func (t baseTarget) Call() ResolvedCall              { return t.call }
func (t baseTarget) Applied() PartiallyAppliedSymbol { return t.applied }
func (t baseTarget) Symbol() Symbol                  { return t.applied.Symbol }

func (t baseTarget) Anchor() syntax.Node {
	switch t.caller.Kind() {
	case syntax.KindPrefixExpr, syntax.KindPostfixExpr, syntax.KindBinaryExpr, syntax.KindAssignment:
		if op := t.caller.OperatorToken(); op.Valid() {
			return op
		}
	}
	return t.caller
}

func (t baseTarget) AnchorLeaf() syntax.Node {
	return t.Anchor().FirstLeaf()
}

func (baseTarget) sealedTarget() {}

// VariableAccessTarget is a call site resolving to a variable-like symbol
// (property, local, parameter).
type VariableAccessTarget struct {
	baseTarget
}

// FunctionCallTarget is a call site resolving to a function-like symbol
// (function or constructor).
type FunctionCallTarget struct {
	baseTarget
}

func newVariableAccessTarget(caller syntax.Node, call ResolvedCall, applied PartiallyAppliedSymbol) VariableAccessTarget {
	return VariableAccessTarget{baseTarget{caller: caller, call: call, applied: applied}}
}

func newFunctionCallTarget(caller syntax.Node, call ResolvedCall, applied PartiallyAppliedSymbol) FunctionCallTarget {
	return FunctionCallTarget{baseTarget{caller: caller, call: call, applied: applied}}
}
