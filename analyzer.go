package catkin

import "github.com/jward/catkin/internal/syntax"

// Session is one open semantic-analysis session. A Session is only valid for
// the dynamic extent of the Analyze callback that produced it; implementations
// may release per-session resources as soon as the callback returns, so
// Sessions must not be stored or used after Analyze returns.
type Session interface {
	// ResolveCall resolves the call the node represents. A nil *CallInfo
	// means the node produced no call information at all; a non-nil info with
	// a nil Call means resolution was attempted and failed.
	ResolveCall(node syntax.Node) (*CallInfo, error)

	// ResolveToSymbols resolves the node's direct symbol reference to all
	// candidate symbols, without constructing a call descriptor. Used for the
	// multi-symbol fan-outs (for-loop protocol calls, destructuring
	// components).
	ResolveToSymbols(node syntax.Node) ([]Symbol, error)

	// Signature returns the callable signature of a symbol.
	Signature(sym Symbol) (Signature, error)
}

// Analyzer is the semantic-analysis oracle boundary. Analyze opens a session
// scoped to the node's containing file and invokes fn with it; the session is
// released when fn returns, normally or not. Errors from fn propagate
// unmodified.
type Analyzer interface {
	Analyze(node syntax.Node, fn func(Session) error) error
}
