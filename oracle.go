package catkin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jward/catkin/internal/store"
	"github.com/jward/catkin/internal/stubs"
	"github.com/jward/catkin/internal/syntax"
)

// analyzer is the bundled semantic oracle: deterministic, scope-aware,
// name-based resolution over the declaration index, the live syntax tree,
// and the builtin stubs. It makes no type-inference claims; where Kotlin
// overload resolution would disambiguate by argument types, the analyzer
// returns the first matching candidate.
type analyzer struct {
	store *store.Store
	stubs map[string][]stubs.Stub
}

func newAnalyzer(s *store.Store, stubList []stubs.Stub) *analyzer {
	byName := make(map[string][]stubs.Stub, len(stubList))
	for _, st := range stubList {
		byName[st.Name] = append(byName[st.Name], st)
	}
	return &analyzer{store: s, stubs: byName}
}

// errSessionClosed is returned when a Session escapes its Analyze scope.
var errSessionClosed = errors.New("catkin: session used outside its Analyze scope")

// Analyze opens a session for the node's file and runs fn with it. The
// session is invalidated when fn returns, matching the boundary contract
// that sessions have no life beyond the callback.
func (a *analyzer) Analyze(node syntax.Node, fn func(Session) error) error {
	s := &session{analyzer: a, filePaths: make(map[int64]string)}
	defer func() { s.closed = true }()
	return fn(s)
}

type session struct {
	analyzer  *analyzer
	filePaths map[int64]string
	closed    bool
}

// --- symbol lookup ---

// lookupAll returns all candidate symbols for a name visible at a node:
// lexical locals first (shadowing), then indexed declarations, then builtin
// stubs.
func (s *session) lookupAll(name string, at syntax.Node) ([]Symbol, error) {
	var out []Symbol
	out = append(out, lookupLocals(name, at)...)

	if s.analyzer.store != nil {
		decls, err := s.analyzer.store.DeclsByName(name)
		if err != nil {
			return nil, fmt.Errorf("lookup %s: %w", name, err)
		}
		for _, d := range decls {
			sym, err := s.symbolFromDecl(d)
			if err != nil {
				return nil, err
			}
			out = append(out, sym)
		}
	}

	for _, st := range s.analyzer.stubs[name] {
		out = append(out, symbolFromStub(st))
	}
	return out, nil
}

var declSymbolKinds = map[string]SymbolKind{
	store.KindFunction:    SymbolFunction,
	store.KindConstructor: SymbolConstructor,
	store.KindClass:       SymbolClass,
	store.KindProperty:    SymbolProperty,
	store.KindParameter:   SymbolParameter,
}

func (s *session) symbolFromDecl(d *store.Decl) (Symbol, error) {
	path, ok := s.filePaths[d.FileID]
	if !ok {
		f, err := s.analyzer.store.FileByID(d.FileID)
		if err != nil {
			return Symbol{}, err
		}
		if f != nil {
			path = f.Path
		}
		s.filePaths[d.FileID] = path
	}

	sig := Signature{Receiver: d.Receiver, Return: d.ReturnType}
	if d.Kind == store.KindFunction || d.Kind == store.KindConstructor {
		params, err := s.analyzer.store.ParamsByDecl(d.ID)
		if err != nil {
			return Symbol{}, err
		}
		for _, p := range params {
			sig.Params = append(sig.Params, Param{Name: p.Name, Type: p.TypeExpr, HasDefault: p.HasDefault})
		}
	}

	return Symbol{
		Name: d.Name,
		Kind: declSymbolKinds[d.Kind],
		File: path,
		Line: d.StartLine,
		Col:  d.StartCol,
		sig:  sig,
	}, nil
}

func symbolFromStub(st stubs.Stub) Symbol {
	kind := SymbolFunction
	if st.Kind == "property" {
		kind = SymbolProperty
	}
	sig := Signature{Return: st.Returns}
	for i, p := range st.Params {
		sig.Params = append(sig.Params, Param{Name: fmt.Sprintf("p%d", i), Type: p})
	}
	return Symbol{Name: st.Name, Kind: kind, Builtin: true, sig: sig}
}

func firstFunctionLike(syms []Symbol) (Symbol, bool) {
	for _, sym := range syms {
		if sym.Kind.FunctionLike() {
			return sym, true
		}
	}
	return Symbol{}, false
}

func firstVariableLike(syms []Symbol) (Symbol, bool) {
	for _, sym := range syms {
		if sym.Kind.VariableLike() {
			return sym, true
		}
	}
	return Symbol{}, false
}

// --- Session ---

// Signature returns the signature resolved alongside the symbol.
func (s *session) Signature(sym Symbol) (Signature, error) {
	if s.closed {
		return Signature{}, errSessionClosed
	}
	return sym.sig, nil
}

// ResolveToSymbols resolves a node's direct symbol reference to all
// candidates. For loops it returns the iteration-protocol candidates; for
// destructuring entries the componentN candidates plus the entry's own
// synthesized local.
func (s *session) ResolveToSymbols(node syntax.Node) ([]Symbol, error) {
	if s.closed {
		return nil, errSessionClosed
	}
	switch node.Kind() {
	case syntax.KindForLoop:
		var out []Symbol
		for _, name := range []string{"iterator", "hasNext", "next"} {
			syms, err := s.lookupAll(name, node)
			if err != nil {
				return nil, err
			}
			out = append(out, syms...)
		}
		return out, nil
	case syntax.KindVariableDecl:
		name := entryName(node)
		component := fmt.Sprintf("component%d", destructuringOrdinal(node))
		out, err := s.lookupAll(component, node)
		if err != nil {
			return nil, err
		}
		out = append(out, localSymbol(name, node, false))
		return out, nil
	default:
		ref := syntax.SelectorName(node)
		if !ref.Valid() {
			ref = node
		}
		return s.lookupAll(ref.Text(), node)
	}
}

// destructuringOrdinal returns the 1-based position of an entry within its
// multi_variable_declaration.
func destructuringOrdinal(entry syntax.Node) int {
	parent := entry.Parent()
	n := 0
	for i := 0; i < parent.NamedChildCount(); i++ {
		c := parent.NamedChild(i)
		if c.Kind() == syntax.KindVariableDecl {
			n++
			if c.Equal(entry) {
				return n
			}
		}
	}
	return n
}

// operator-convention function names.
var binaryOperatorFunctions = map[string]string{
	"+": "plus", "-": "minus", "*": "times", "/": "div", "%": "rem",
	"..": "rangeTo", "..<": "rangeUntil",
	"<": "compareTo", "<=": "compareTo", ">": "compareTo", ">=": "compareTo",
	"==": "equals", "!=": "equals",
	"in": "contains", "!in": "contains",
}

var augmentedAssignFunctions = map[string]string{
	"+=": "plus", "-=": "minus", "*=": "times", "/=": "div", "%=": "rem",
}

var unaryOperatorFunctions = map[string]string{
	"!": "not", "-": "unaryMinus", "+": "unaryPlus",
}

// ResolveCall classifies a node's call shape and resolves it. A nil CallInfo
// means the node carries no call semantics at all (`a && b`, `x is T`); a
// non-nil info with nil Call means resolution was attempted and failed.
func (s *session) ResolveCall(node syntax.Node) (*CallInfo, error) {
	if s.closed {
		return nil, errSessionClosed
	}
	switch node.Kind() {
	case syntax.KindCallExpr:
		if node.RawKind() == "constructor_delegation_call" {
			return s.resolveDelegation(node)
		}
		return s.resolveCallExpr(node)
	case syntax.KindIndexExpr:
		return s.resolveIndexRead(node)
	case syntax.KindPrefixExpr, syntax.KindPostfixExpr:
		return s.resolveUnary(node)
	case syntax.KindBinaryExpr:
		return s.resolveBinary(node)
	case syntax.KindAssignment:
		return s.resolveAssignment(node)
	case syntax.KindSimpleName:
		return s.resolveNameRead(node)
	default:
		return nil, nil
	}
}

func unresolved(candidates []Symbol, format string, args ...any) *CallInfo {
	return &CallInfo{Candidates: candidates, Diagnostic: fmt.Sprintf(format, args...)}
}

// resolveFunctionCall looks up a function-like symbol and builds a
// FunctionCall descriptor, or an unresolved info when no candidate matches.
func (s *session) resolveFunctionCall(name string, at, receiver syntax.Node, typeArgs []string) (*CallInfo, error) {
	cands, err := s.lookupAll(name, at)
	if err != nil {
		return nil, err
	}
	fn, ok := firstFunctionLike(cands)
	if !ok {
		return unresolved(cands, "unresolved reference: %s", name), nil
	}
	applied := PartiallyAppliedSymbol{
		Symbol:           fn,
		Signature:        fn.sig,
		DispatchReceiver: receiver,
		TypeArguments:    typeArgs,
	}
	return &CallInfo{Call: &FunctionCall{Function: applied}}, nil
}

// appliedVariable looks up a variable-like symbol for a read or write.
func (s *session) appliedVariable(name string, at, receiver syntax.Node) (PartiallyAppliedSymbol, []Symbol, bool, error) {
	cands, err := s.lookupAll(name, at)
	if err != nil {
		return PartiallyAppliedSymbol{}, nil, false, err
	}
	v, ok := firstVariableLike(cands)
	if !ok {
		return PartiallyAppliedSymbol{}, cands, false, nil
	}
	return PartiallyAppliedSymbol{Symbol: v, Signature: v.sig, DispatchReceiver: receiver}, cands, true, nil
}

func (s *session) resolveCallExpr(node syntax.Node) (*CallInfo, error) {
	callee := node.Callee()
	nameNode := syntax.SelectorName(callee)
	if !nameNode.Valid() {
		// Calling the result of another expression: `f()()`, `(g())()`.
		// Resolving the invoke convention needs the callee's type, which the
		// name-based analyzer does not track.
		return unresolved(nil, "cannot resolve callee of kind %s", callee.RawKind()), nil
	}
	return s.resolveFunctionCall(nameNode.Text(), node, syntax.Receiver(callee), syntax.CallTypeArguments(node))
}

// resolveDelegation handles `super(...)` / `this(...)` inside a constructor.
func (s *session) resolveDelegation(node syntax.Node) (*CallInfo, error) {
	class := enclosingClass(node)
	if !class.Valid() {
		return unresolved(nil, "constructor delegation outside a class"), nil
	}
	kind := DelegationThis
	target := classDeclName(class)
	if strings.HasPrefix(strings.TrimSpace(node.Text()), "super") {
		kind = DelegationSuper
		target = superclassName(class)
		if target == "" {
			return unresolved(nil, "no superclass for delegation from %s", classDeclName(class)), nil
		}
	}

	cands, err := s.lookupAll(target, node)
	if err != nil {
		return nil, err
	}
	for _, sym := range cands {
		if sym.Kind != SymbolConstructor {
			continue
		}
		applied := PartiallyAppliedSymbol{Symbol: sym, Signature: sym.sig}
		return &CallInfo{Call: &DelegatedConstructorCall{Constructor: applied, Kind: kind}}, nil
	}
	return unresolved(cands, "unresolved constructor: %s", target), nil
}

func enclosingClass(node syntax.Node) syntax.Node {
	var class syntax.Node
	syntax.Ancestors(node, func(a syntax.Node) bool {
		if a.Kind() == syntax.KindClassDecl {
			class = a
			return false
		}
		return true
	})
	return class
}

// superclassName returns the first delegation-specifier type of a class
// declaration (`class A : B(), C` yields "B").
func superclassName(class syntax.Node) string {
	for i := 0; i < class.NamedChildCount(); i++ {
		c := class.NamedChild(i)
		if c.RawKind() != "delegation_specifier" {
			continue
		}
		// constructor_invocation wraps the user_type for `: B()`.
		name := c.Text()
		if idx := strings.IndexAny(name, "(<"); idx > 0 {
			name = name[:idx]
		}
		return strings.TrimSpace(name)
	}
	return ""
}

func (s *session) resolveIndexRead(node syntax.Node) (*CallInfo, error) {
	return s.resolveFunctionCall("get", node, node.NamedChild(0), nil)
}

func (s *session) resolveUnary(node syntax.Node) (*CallInfo, error) {
	op := node.OperatorToken().Text()
	operand := node.NamedChild(0)

	if op == "++" || op == "--" {
		fname := "inc"
		if op == "--" {
			fname = "dec"
		}
		return s.resolveIncDec(node, operand, fname)
	}

	fname, ok := unaryOperatorFunctions[op]
	if !ok {
		return nil, nil // `!!` and friends have no operator function
	}
	return s.resolveFunctionCall(fname, node, operand, nil)
}

// resolveIncDec desugars `x++` / `--x` into a compound access: the variable
// (or get/set pair for an indexed operand) plus the inc/dec operator
// function.
func (s *session) resolveIncDec(node, operand syntax.Node, fname string) (*CallInfo, error) {
	opInfo, err := s.resolveFunctionCall(fname, node, operand, nil)
	if err != nil {
		return nil, err
	}
	if !opInfo.Resolved() {
		return opInfo, nil
	}
	operation := CompoundOperation{Kind: CompoundIncDec, Operator: opInfo.Call.(*FunctionCall).Function}

	if _, ok := syntax.IndexedAssignable(operand); ok {
		return s.compoundArrayAccess(node, operand, operation)
	}

	nameNode := syntax.SelectorName(operand)
	if !nameNode.Valid() {
		return unresolved(nil, "cannot apply %s to %s", fname, operand.RawKind()), nil
	}
	variable, cands, ok, err := s.appliedVariable(nameNode.Text(), node, syntax.Receiver(operand))
	if err != nil {
		return nil, err
	}
	if !ok {
		return unresolved(cands, "unresolved reference: %s", nameNode.Text()), nil
	}
	return &CallInfo{Call: &CompoundVariableAccess{Variable: variable, Operation: operation}}, nil
}

func (s *session) resolveBinary(node syntax.Node) (*CallInfo, error) {
	opTok := node.OperatorToken()
	if !opTok.Valid() {
		return nil, nil
	}
	fname := opTok.Text()
	if opTok.Kind() != syntax.KindSimpleName {
		// Not an infix function: translate the operator to its convention
		// function; operators without one (&&, ||, ?:, is, as) carry no call.
		var ok bool
		fname, ok = binaryOperatorFunctions[opTok.Text()]
		if !ok {
			return nil, nil
		}
	}
	return s.resolveFunctionCall(fname, node, node.NamedChild(0), nil)
}

func (s *session) resolveAssignment(node syntax.Node) (*CallInfo, error) {
	op := node.OperatorToken().Text()
	lhs := node.NamedChild(0)

	if receiver, ok := syntax.IndexedAssignable(lhs); ok {
		if op == "=" {
			return s.resolveFunctionCall("set", node, receiver, nil)
		}
		fname, ok := augmentedAssignFunctions[op]
		if !ok {
			return nil, nil
		}
		opInfo, err := s.resolveFunctionCall(fname, node, lhs, nil)
		if err != nil {
			return nil, err
		}
		if !opInfo.Resolved() {
			return opInfo, nil
		}
		operation := CompoundOperation{Kind: CompoundOperatorAssign, Operator: opInfo.Call.(*FunctionCall).Function}
		return s.compoundArrayAccess(node, lhs, operation)
	}

	nameNode, receiver := assignableName(lhs)
	if !nameNode.Valid() {
		return unresolved(nil, "cannot assign to %s", lhs.RawKind()), nil
	}

	if op == "=" {
		variable, cands, ok, err := s.appliedVariable(nameNode.Text(), node, receiver)
		if err != nil {
			return nil, err
		}
		if !ok {
			return unresolved(cands, "unresolved reference: %s", nameNode.Text()), nil
		}
		return &CallInfo{Call: &VariableAccess{Variable: variable, Access: AccessWrite}}, nil
	}

	fname, ok := augmentedAssignFunctions[op]
	if !ok {
		return nil, nil
	}
	opInfo, err := s.resolveFunctionCall(fname, node, lhs, nil)
	if err != nil {
		return nil, err
	}
	if !opInfo.Resolved() {
		return opInfo, nil
	}
	operation := CompoundOperation{Kind: CompoundOperatorAssign, Operator: opInfo.Call.(*FunctionCall).Function}

	variable, cands, varOK, err := s.appliedVariable(nameNode.Text(), node, receiver)
	if err != nil {
		return nil, err
	}
	if !varOK {
		return unresolved(cands, "unresolved reference: %s", nameNode.Text()), nil
	}
	return &CallInfo{Call: &CompoundVariableAccess{Variable: variable, Operation: operation}}, nil
}

// assignableName returns the simple name an assignment targets and its
// navigation receiver, seeing through the grammar's
// directly_assignable_expression wrappers (`x`, `(x)`, `a.b`).
func assignableName(lhs syntax.Node) (name, receiver syntax.Node) {
	if lhs.RawKind() == "directly_assignable_expression" {
		for i := lhs.NamedChildCount() - 1; i >= 0; i-- {
			suffix := lhs.NamedChild(i)
			if suffix.Kind() != syntax.KindNavigationSuffix {
				continue
			}
			for j := 0; j < suffix.NamedChildCount(); j++ {
				if s := suffix.NamedChild(j); s.Kind() == syntax.KindSimpleName {
					return s, lhs.NamedChild(0)
				}
			}
		}
		if lhs.NamedChildCount() > 0 {
			return assignableName(lhs.NamedChild(0))
		}
		return syntax.Node{}, syntax.Node{}
	}
	return syntax.SelectorName(lhs), syntax.Receiver(lhs)
}

// compoundArrayAccess builds the get/set pair for `a[i] += y` and
// `a[i]++`-style operations.
func (s *session) compoundArrayAccess(node, index syntax.Node, operation CompoundOperation) (*CallInfo, error) {
	receiver := index.NamedChild(0)
	getInfo, err := s.resolveFunctionCall("get", node, receiver, nil)
	if err != nil {
		return nil, err
	}
	if !getInfo.Resolved() {
		return getInfo, nil
	}
	setInfo, err := s.resolveFunctionCall("set", node, receiver, nil)
	if err != nil {
		return nil, err
	}
	if !setInfo.Resolved() {
		return setInfo, nil
	}
	return &CallInfo{Call: &CompoundArrayAccess{
		Getter:    getInfo.Call.(*FunctionCall).Function,
		Setter:    setInfo.Call.(*FunctionCall).Function,
		Operation: operation,
		Indexes:   syntax.IndexArguments(index),
	}}, nil
}

// resolveNameRead handles a standalone reference: a bare property or
// variable read.
func (s *session) resolveNameRead(node syntax.Node) (*CallInfo, error) {
	name := node.Text()
	variable, cands, ok, err := s.appliedVariable(name, node, receiverFor(node))
	if err != nil {
		return nil, err
	}
	if !ok {
		return unresolved(cands, "unresolved reference: %s", name), nil
	}
	return &CallInfo{Call: &VariableAccess{Variable: variable, Access: AccessRead}}, nil
}

// receiverFor returns the receiver expression when the reference is the
// selector of a navigation chain.
func receiverFor(ref syntax.Node) syntax.Node {
	suffix := ref.Parent()
	if suffix.Kind() != syntax.KindNavigationSuffix {
		return syntax.Node{}
	}
	nav := suffix.Parent()
	if nav.Kind() != syntax.KindNavigation {
		return syntax.Node{}
	}
	return syntax.Receiver(nav)
}
