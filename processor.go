package catkin

import "github.com/jward/catkin/internal/syntax"

// CallTargetProcessor consumes resolution outcomes. Both methods return
// whether processing should continue; the first false aborts remaining
// emissions for the current node and stops any enclosing traversal.
type CallTargetProcessor interface {
	// ProcessCallTarget receives one resolved target.
	ProcessCallTarget(target CallTarget) bool

	// ProcessUnresolvedCall receives a call-like node whose resolution
	// failed, with whatever raw call information the oracle produced. info
	// may be nil.
	ProcessUnresolvedCall(node syntax.Node, info *CallInfo) bool
}

// TargetVisitor adapts a plain per-target callback into a
// CallTargetProcessor that always continues and ignores unresolved calls.
func TargetVisitor(fn func(CallTarget)) CallTargetProcessor {
	return targetVisitor(fn)
}

type targetVisitor func(CallTarget)

func (f targetVisitor) ProcessCallTarget(target CallTarget) bool {
	f(target)
	return true
}

func (f targetVisitor) ProcessUnresolvedCall(syntax.Node, *CallInfo) bool {
	return true
}
