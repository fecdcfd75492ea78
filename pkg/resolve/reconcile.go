package resolve

import (
	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/errors"
)

// isReconcilable decides whether the new root may reuse the committed
// tree. Reconciliation only makes sense when there is pending state to
// carry forward and the root itself is unchanged: same sibling key, same
// concrete type, value-equal own props. Declared children are excluded
// here; the reconciling walk compares them one by one.
func isReconcilable(ctx *Context, next component.Component, current *Node) bool {
	if current == nil || next == nil {
		return false
	}
	if !ctx.Config().ReconciliationEnabled() {
		return false
	}
	if !ctx.TreeState().HasUncommittedUpdates() {
		return false
	}
	head := current.HeadComponent()
	if head == nil || head.Key() != next.Key() {
		return false
	}
	return component.EquivalentProps(head, next)
}

// shouldComponentUpdate reports whether a committed subtree must be
// re-resolved for its new counterpart. Unit-backed nodes always update;
// their own unit-level equivalence check runs later, at mount time, and is
// authoritative. A pending state update anywhere under the subtree also
// forces re-resolution, since reuse would drop it.
func shouldComponentUpdate(ctx *Context, prev *Node, next component.Component) bool {
	prevHead := prev.HeadComponent()
	if prevHead == nil || next == nil {
		return true
	}
	if !component.SameType(prevHead, next) {
		return true
	}
	if prev.RenderUnit() != nil {
		return true
	}
	if ctx.TreeState().HasPendingUpdatesUnder(prev.HeadKey()) {
		return true
	}
	if u, ok := next.(component.Updater); ok {
		return runUpdater(ctx, u, prev, next)
	}
	return !component.Equivalent(prevHead, next)
}

// runUpdater invokes a user comparator. A panicking comparator is reported
// and defaults to "needs update".
func runUpdater(ctx *Context, u component.Updater, prev *Node, next component.Component) (update bool) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportComparison(&errors.ComparisonError{
				Component:  component.Name(next),
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
			})
			update = true
		}
	}()
	prevState := prev.Head().State()
	var nextState any
	if s, ok := next.(component.Stateful); ok {
		nextState = ctx.TreeState().ResolveState(prev.HeadKey(), s.InitialState())
	}
	return u.ShouldUpdate(prev.HeadComponent(), next, prevState, nextState)
}

// rebindSubtree re-registers a reused subtree in the current pass: every
// scope's global key is claimed again so uniqueness still holds, and
// resolved state is carried forward so the commit keeps it.
func rebindSubtree(ctx *Context, n *Node) {
	for _, sc := range n.scopes {
		ctx.registerGlobalKey(sc.GlobalKey(), sc.Component())
		if _, ok := sc.Component().(component.Stateful); ok {
			ctx.TreeState().carryForward(sc.GlobalKey(), sc.State())
		}
	}
	for _, child := range n.children {
		rebindSubtree(ctx, child)
	}
}
