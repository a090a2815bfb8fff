package catkin

import (
	"github.com/jward/catkin/internal/syntax"
)

// CallResolver classifies syntax nodes by call shape and resolves the
// relevant ones against an Analyzer, reporting each outcome to a
// CallTargetProcessor. It holds no state between nodes; resolution results
// are never cached.
type CallResolver struct {
	analyzer Analyzer
}

// NewCallResolver creates a CallResolver backed by the given oracle.
func NewCallResolver(analyzer Analyzer) *CallResolver {
	return &CallResolver{analyzer: analyzer}
}

// Process classifies one node and, when it is a call-like shape, resolves it
// and feeds the outcome to proc. Returns whether the caller should keep
// processing further nodes. Nodes that are not call-like return (true, nil)
// without touching the oracle.
func (r *CallResolver) Process(node syntax.Node, proc CallTargetProcessor) (bool, error) {
	switch node.Kind() {
	case syntax.KindIndexExpr:
		// `a[i] = x` and `a[i]++` resolve through the enclosing construct as
		// get/set pairs; resolving the indexing itself would duplicate the get.
		if consumedByCompound(node) {
			return true, nil
		}
		return r.resolve(node, proc)
	case syntax.KindCallExpr, syntax.KindPrefixExpr,
		syntax.KindPostfixExpr, syntax.KindBinaryExpr, syntax.KindAssignment,
		syntax.KindForLoop, syntax.KindMultiVariableDecl:
		return r.resolve(node, proc)
	case syntax.KindVariableDecl:
		// Only destructuring entries are call sites; a plain `val x = ...`
		// declares, it does not call.
		if node.Parent().Kind() == syntax.KindMultiVariableDecl {
			return r.resolve(node, proc)
		}
		return true, nil
	case syntax.KindSimpleName:
		if !relevantReference(node) {
			return true, nil
		}
		return r.resolve(node, proc)
	default:
		return true, nil
	}
}

// consumedByCompound reports whether node is the target of an assignment or
// the operand of an inc/dec expression, in which case the enclosing construct
// performs its resolution.
func consumedByCompound(node syntax.Node) bool {
	outer := node
	parent := outer.Parent()
	for parent.Valid() && plainAssignableWrapper(parent) {
		outer = parent
		parent = parent.Parent()
	}
	switch parent.Kind() {
	case syntax.KindAssignment:
		return parent.NamedChild(0).Equal(outer)
	case syntax.KindPrefixExpr, syntax.KindPostfixExpr:
		return true
	}
	return false
}

// plainAssignableWrapper reports whether n is a directly_assignable_expression
// that adds no indexing of its own, so its child stands for the whole
// assignment target. An indexed assignable (`a[i] = x`) is not a plain
// wrapper: its receiver is an ordinary read, not the assignment target.
func plainAssignableWrapper(n syntax.Node) bool {
	if n.RawKind() != "directly_assignable_expression" {
		return false
	}
	_, indexed := syntax.IndexedAssignable(n)
	return !indexed
}

// maxQualifiedDepth bounds the outward walk over qualified-access wrappers.
// A chain deeper than this is treated as malformed and the reference skipped.
const maxQualifiedDepth = 128

// relevantReference decides whether a bare simple identifier is worth
// resolving on its own. A reference that is the callee or operand of an
// enclosing call-like construct is a duplicate of the resolution performed
// when that construct is processed directly, and references under
// non-executable contexts (types, imports, labels, comments) are never call
// sites.
func relevantReference(ref syntax.Node) bool {
	// Declaration-name identifiers (function names, parameter names,
	// variable_declaration entries) introduce a symbol rather than use one.
	declParent := ref.Parent()
	switch declParent.Kind() {
	case syntax.KindFunctionDecl, syntax.KindParameter, syntax.KindVariableDecl:
		return false
	}
	if declParent.RawKind() == "type_parameter" {
		return false
	}

	outer, ok := outermostQualified(ref)
	if !ok {
		return false
	}

	parent := outer.Parent()
	// Assignment targets are wrapped in directly_assignable_expression;
	// see through plain wrappers so the assignment arm below fires.
	for parent.Valid() && plainAssignableWrapper(parent) {
		outer = parent
		parent = parent.Parent()
	}

	switch parent.Kind() {
	case syntax.KindCallableRef:
		// In `::f` the reference part resolves with the callable reference.
		last := parent.NamedChild(parent.NamedChildCount() - 1)
		if last.Equal(outer) {
			return false
		}
	case syntax.KindCallExpr:
		if parent.Callee().Equal(outer) {
			return false
		}
	case syntax.KindPrefixExpr, syntax.KindPostfixExpr:
		return false
	case syntax.KindAssignment:
		if parent.NamedChild(0).Equal(outer) {
			return false
		}
	case syntax.KindBinaryExpr:
		// In `a fn b` the infix function name resolves with the expression.
		if parent.OperatorToken().Equal(outer) {
			return false
		}
	}

	if syntax.IsNamedArgumentLabel(ref) {
		return false
	}
	relevant := true
	syntax.Ancestors(ref, func(a syntax.Node) bool {
		switch a.Kind() {
		case syntax.KindTypeRef, syntax.KindImportHeader, syntax.KindPackageHeader, syntax.KindComment:
			relevant = false
			return false
		}
		return true
	})
	return relevant
}

// outermostQualified walks outward from ref through enclosing navigation
// chains while ref roots their selector (rightmost) side, dereferencing
// parentheses, and returns the outermost expression the reference is the
// selector of. Reports false when the chain fails to stabilize within
// maxQualifiedDepth steps.
func outermostQualified(ref syntax.Node) (syntax.Node, bool) {
	cur := ref
	for steps := 0; steps <= maxQualifiedDepth; steps++ {
		cur = syntax.Unparenthesize(cur)
		parent := cur.Parent()
		switch {
		case parent.Kind() == syntax.KindNavigationSuffix:
			nav := parent.Parent()
			if nav.Kind() != syntax.KindNavigation {
				return syntax.Node{}, false
			}
			cur = nav
		case parent.Kind() == syntax.KindNavigation && !syntax.Receiver(parent).Equal(cur):
			cur = parent
		default:
			return cur, true
		}
	}
	return syntax.Node{}, false
}

// resolve opens one analysis session for the node and dispatches to the
// matching resolution path. The session is valid only inside the callback;
// every symbol and signature access happens within it.
func (r *CallResolver) resolve(node syntax.Node, proc CallTargetProcessor) (bool, error) {
	cont := true
	err := r.analyzer.Analyze(node, func(s Session) error {
		var err error
		switch {
		case node.Kind() == syntax.KindForLoop:
			cont, err = r.processLoopCalls(s, node, proc)
		case node.Kind() == syntax.KindVariableDecl:
			cont, err = r.processDestructuringEntry(s, node, proc)
		default:
			cont, err = r.processResolvedCall(s, node, proc)
		}
		return err
	})
	if err != nil {
		return false, err
	}
	return cont, nil
}

// processLoopCalls handles the implicit iterator()/hasNext()/next() protocol
// a for loop desugars to. Candidates come from direct symbol resolution, not
// call resolution; only function-like candidates participate, each
// synthesized into a receiver-less zero-argument call.
func (r *CallResolver) processLoopCalls(s Session, loop syntax.Node, proc CallTargetProcessor) (bool, error) {
	syms, err := s.ResolveToSymbols(loop)
	if err != nil {
		return false, err
	}
	for _, sym := range syms {
		if !sym.Kind.FunctionLike() {
			continue
		}
		sig, err := s.Signature(sym)
		if err != nil {
			return false, err
		}
		applied := PartiallyAppliedSymbol{Symbol: sym, Signature: sig}
		target := newFunctionCallTarget(loop, &FunctionCall{Function: applied}, applied)
		if !proc.ProcessCallTarget(target) {
			return false, nil
		}
	}
	return true, nil
}

// processDestructuringEntry handles one entry of `val (a, b) = ...`. Each
// entry references a componentN convention function (and possibly a
// same-name variable); the entry's own synthesized local is excluded so it
// does not resolve to itself. Candidates that are neither function-like nor
// variable-like contribute nothing.
func (r *CallResolver) processDestructuringEntry(s Session, entry syntax.Node, proc CallTargetProcessor) (bool, error) {
	syms, err := s.ResolveToSymbols(entry)
	if err != nil {
		return false, err
	}
	for _, sym := range syms {
		if sym.Kind == SymbolLocalVariable && sym.Decl.Equal(entry) {
			continue
		}
		sig, err := s.Signature(sym)
		if err != nil {
			return false, err
		}
		applied := PartiallyAppliedSymbol{Symbol: sym, Signature: sig}

		var target CallTarget
		switch {
		case sym.Kind.VariableLike():
			target = newVariableAccessTarget(entry, &VariableAccess{Variable: applied, Access: AccessRead}, applied)
		case sym.Kind.FunctionLike():
			target = newFunctionCallTarget(entry, &FunctionCall{Function: applied}, applied)
		default:
			continue
		}
		if !proc.ProcessCallTarget(target) {
			return false, nil
		}
	}
	return true, nil
}

// processResolvedCall is the generic path: ask the oracle for full call
// resolution and emit targets according to the descriptor's shape. The
// switch enumerates every ResolvedCall variant; compound shapes emit two
// targets for the same caller, honoring the processor's stop signal between
// them.
func (r *CallResolver) processResolvedCall(s Session, node syntax.Node, proc CallTargetProcessor) (bool, error) {
	info, err := s.ResolveCall(node)
	if err != nil {
		return false, err
	}
	if info == nil {
		// The node carries no call semantics (`a && b`, `x is T`).
		return true, nil
	}
	if !info.Resolved() {
		return proc.ProcessUnresolvedCall(node, info), nil
	}

	switch call := info.Call.(type) {
	case *DelegatedConstructorCall:
		return proc.ProcessCallTarget(newFunctionCallTarget(node, call, call.Constructor)), nil
	case *FunctionCall:
		return proc.ProcessCallTarget(newFunctionCallTarget(node, call, call.Function)), nil
	case *CompoundVariableAccess:
		if !proc.ProcessCallTarget(newVariableAccessTarget(node, call, call.Variable)) {
			return false, nil
		}
		return proc.ProcessCallTarget(newFunctionCallTarget(node, call, call.Operation.Operator)), nil
	case *VariableAccess:
		return proc.ProcessCallTarget(newVariableAccessTarget(node, call, call.Variable)), nil
	case *CompoundArrayAccess:
		if !proc.ProcessCallTarget(newFunctionCallTarget(node, call, call.Getter)) {
			return false, nil
		}
		return proc.ProcessCallTarget(newFunctionCallTarget(node, call, call.Setter)), nil
	}
	// Unreachable while ResolvedCall stays closed; continuing keeps a future
	// variant from silently halting traversal.
	return true, nil
}
