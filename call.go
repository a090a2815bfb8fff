package catkin

import "github.com/jward/catkin/internal/syntax"

// SymbolKind classifies resolved callable symbols. The resolver only cares
// about the function-like / variable-like split; the finer kinds exist for
// reporting.
type SymbolKind int

const (
	SymbolUnknown SymbolKind = iota
	SymbolFunction
	SymbolConstructor
	SymbolProperty
	SymbolLocalVariable
	SymbolParameter
	SymbolClass
)

var symbolKindNames = map[SymbolKind]string{
	SymbolUnknown:       "unknown",
	SymbolFunction:      "function",
	SymbolConstructor:   "constructor",
	SymbolProperty:      "property",
	SymbolLocalVariable: "local",
	SymbolParameter:     "parameter",
	SymbolClass:         "class",
}

func (k SymbolKind) String() string {
	if s, ok := symbolKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// FunctionLike reports whether the kind denotes an invokable declaration.
func (k SymbolKind) FunctionLike() bool {
	return k == SymbolFunction || k == SymbolConstructor
}

// VariableLike reports whether the kind denotes a value-holding declaration.
func (k SymbolKind) VariableLike() bool {
	return k == SymbolProperty || k == SymbolLocalVariable || k == SymbolParameter
}

// Symbol is a resolved callable declaration. Decl is the declaring syntax
// node when the symbol comes from the same tree (locals, parameters,
// destructuring entries); it is the zero Node for indexed and builtin
// symbols, which carry File/Line/Col instead.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Decl    syntax.Node
	File    string
	Line    int
	Col     int
	Builtin bool

	// sig is the signature resolved alongside the symbol; Session.Signature
	// exposes it.
	sig Signature
}

// Param is one parameter of a callable signature.
type Param struct {
	Name       string
	Type       string
	HasDefault bool
}

// Signature is a callable's declared shape: receiver type (empty for
// top-level non-extension callables), parameters, and return type.
type Signature struct {
	Receiver string
	Params   []Param
	Return   string
}

// PartiallyAppliedSymbol bundles a symbol with its signature, the receiver
// expressions it was applied to at the call site, and explicit type
// arguments. Call-site argument values are not part of it.
type PartiallyAppliedSymbol struct {
	Symbol            Symbol
	Signature         Signature
	DispatchReceiver  syntax.Node
	ExtensionReceiver syntax.Node
	TypeArguments     []string
}

// ResolvedCall is the closed set of call descriptors a Session can produce.
// Adding a variant requires updating the emission switch in resolver.go;
// the marker method keeps the set closed to this package.
type ResolvedCall interface {
	resolvedCall()
}

// FunctionCall is a plain function or method invocation, including operator
// conventions desugared to a single function (`a + b`, `a[i]`, `!a`).
type FunctionCall struct {
	Function PartiallyAppliedSymbol
}

// DelegationKind distinguishes super from this constructor delegation.
type DelegationKind int

const (
	DelegationSuper DelegationKind = iota
	DelegationThis
)

// DelegatedConstructorCall is a `super(...)` or `this(...)` call inside a
// constructor.
type DelegatedConstructorCall struct {
	Constructor PartiallyAppliedSymbol
	Kind        DelegationKind
}

// AccessKind distinguishes variable reads from writes.
type AccessKind int

const (
	AccessRead AccessKind = iota
	AccessWrite
)

// VariableAccess is a simple read or write of a property, local, or
// parameter.
type VariableAccess struct {
	Variable PartiallyAppliedSymbol
	Access   AccessKind
}

// CompoundKind distinguishes `x += y` style operator-assignments from
// `x++`/`x--`.
type CompoundKind int

const (
	CompoundOperatorAssign CompoundKind = iota
	CompoundIncDec
)

// CompoundOperation is the operator-function half of a compound access.
type CompoundOperation struct {
	Kind     CompoundKind
	Operator PartiallyAppliedSymbol
}

// CompoundVariableAccess is a compound assignment to a variable: one read of
// the variable plus one operator-function call (`x += y` desugars to
// `x = x.plus(y)`).
type CompoundVariableAccess struct {
	Variable  PartiallyAppliedSymbol
	Operation CompoundOperation
}

// CompoundArrayAccess is a compound assignment through an indexing
// expression: `a[i] += y` desugars to `a.set(i, a.get(i).plus(y))`.
type CompoundArrayAccess struct {
	Getter    PartiallyAppliedSymbol
	Setter    PartiallyAppliedSymbol
	Operation CompoundOperation
	Indexes   []syntax.Node
}

func (*FunctionCall) resolvedCall()             {}
func (*DelegatedConstructorCall) resolvedCall() {}
func (*VariableAccess) resolvedCall()           {}
func (*CompoundVariableAccess) resolvedCall()   {}
func (*CompoundArrayAccess) resolvedCall()      {}

// CallInfo is the oracle's raw answer for one node. Call is non-nil exactly
// when resolution succeeded; otherwise Candidates and Diagnostic carry
// whatever best-effort information the oracle produced, possibly nothing.
type CallInfo struct {
	Call       ResolvedCall
	Candidates []Symbol
	Diagnostic string
}

// Resolved reports whether the info describes a successful resolution.
func (ci *CallInfo) Resolved() bool {
	return ci != nil && ci.Call != nil
}
