package catkin

import (
	"context"

	"github.com/jward/catkin/internal/syntax"
)

// ProcessAll resolves each node in order. Cancellation is polled between
// nodes only: a context cancelled mid-resolution takes effect at the next
// node boundary. Traversal stops silently the first time proc returns false;
// oracle errors and cancellation propagate as the returned error.
func (r *CallResolver) ProcessAll(ctx context.Context, nodes []syntax.Node, proc CallTargetProcessor) error {
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		cont, err := r.Process(node, proc)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// ProcessExpressionsRecursively collects every expression-like descendant of
// root in document order and resolves them as a collection.
func (r *CallResolver) ProcessExpressionsRecursively(ctx context.Context, root syntax.Node, proc CallTargetProcessor) error {
	return r.ProcessAll(ctx, syntax.CollectExpressions(root), proc)
}

// ProcessTargets is the callback convenience form of Process: unresolved
// calls are ignored and traversal never stops early.
func (r *CallResolver) ProcessTargets(node syntax.Node, fn func(CallTarget)) error {
	_, err := r.Process(node, TargetVisitor(fn))
	return err
}

// ProcessTargetsRecursively is the callback convenience form of
// ProcessExpressionsRecursively.
func (r *CallResolver) ProcessTargetsRecursively(ctx context.Context, root syntax.Node, fn func(CallTarget)) error {
	return r.ProcessExpressionsRecursively(ctx, root, TargetVisitor(fn))
}
