package resolve

import (
	"reflect"

	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/errors"
	"github.com/nextcore/tessera/pkg/geometry"
	"github.com/nextcore/tessera/pkg/perf"
	"github.com/nextcore/tessera/pkg/sizespec"
)

// ContainerComponent is implemented by structural components that build
// their own node from a list of child components (rows, columns, stacks).
// The scope gives access to resolved state, so a stateful container may
// derive its children from it.
type ContainerComponent interface {
	component.Component
	ChildComponents(sc *component.ScopedContext) []component.Component
}

// DelegatingComponent is implemented by components that render to a single
// child resolved in their place. The produced node carries both scopes,
// the delegating component outermost.
type DelegatingComponent interface {
	component.Component
	Render(sc *component.ScopedContext) component.Component
}

// Measurable is implemented by components that measure their own content.
type Measurable interface {
	Measure(sc *component.ScopedContext, widthSpec, heightSpec sizespec.Spec) geometry.Size
}

// Preparer is implemented by leaf components that pre-resolve a renderable
// unit during the render phase.
type Preparer interface {
	component.Component
	Prepare(sc *component.ScopedContext) PrepareResult
}

// ConstraintAware is implemented by deferred components: their layout
// depends on the concrete box they are given, so resolution is postponed
// until the container measures them against real constraints.
type ConstraintAware interface {
	component.Component
	// ResolveWithConstraints renders the content for the now-known
	// constraints.
	ResolveWithConstraints(sc *component.ScopedContext, widthSpec, heightSpec sizespec.Spec) component.Component
	// RequiresExactConstraints reports whether the content's structure
	// depends on the exact constraint values. When false, an existing
	// sub-tree may be re-measured against new constraints without being
	// re-resolved.
	RequiresExactConstraints() bool
}

// ResolvedTree is the output of one resolution pass: the root node, which
// is partial when an interruption parked unresolved children somewhere in
// the tree.
type ResolvedTree struct {
	Root    *Node
	Partial bool
}

// ResolveTree runs the render phase of a pass: it resolves the root
// component into a node tree, reconciling against the committed tree when
// the root is equivalent and only state changed. A partial tree is
// returned when the pass is interrupted; complete it with ResumeTree.
func ResolveTree(ctx *Context, root component.Component, current *Node) *ResolvedTree {
	ev := ctx.Perf()
	ev.MarkerPoint(perf.MarkerStartCreateLayout)

	rootScope := component.NewRootScope(ctx.RootProps())
	var node *Node
	if isReconcilable(ctx, root, current) {
		ev.MarkerPoint(perf.MarkerStartReconcile)
		node = resolveWith(ctx, rootScope, root, current, current.HeadKey())
		ev.MarkerPoint(perf.MarkerEndReconcile)
	} else {
		node = resolveWith(ctx, rootScope, root, nil, "")
	}

	partial := hasUnresolved(node)
	if partial {
		ctx.Stats().Interruptions.Add(1)
		ctx.Log().Record("pass interrupted, partial tree returned")
	} else {
		ctx.MarkUninterruptible()
	}
	ev.MarkerPoint(perf.MarkerEndCreateLayout)
	return &ResolvedTree{Root: node, Partial: partial}
}

// Resolve resolves one component under a parent scope, returning its node
// or nil when the subtree failed or the component rendered to nothing.
func Resolve(ctx *Context, parent *component.ScopedContext, comp component.Component) *Node {
	return resolveWith(ctx, parent, comp, nil, "")
}

// resolveWith is the full resolution entry. prev is the committed node
// this resolution may reuse; keyToReuse preserves identity across passes.
func resolveWith(ctx *Context, parent *component.ScopedContext, comp component.Component, prev *Node, keyToReuse string) *Node {
	if comp == nil {
		return nil
	}
	if f := ctx.Future(); f != nil && f.Released() {
		return nil
	}

	// A node speculatively produced for this exact instance is consumed,
	// never rebuilt.
	if node := ctx.RenderCache().ConsumeWillRender(comp); node != nil {
		ctx.Stats().RenderCacheHits.Add(1)
		return node
	}

	if prev != nil && !shouldComponentUpdate(ctx, prev, comp) {
		ctx.Stats().ReconciledSubtrees.Add(1)
		rebindSubtree(ctx, prev)
		return prev
	}

	scoped := parent.Descend(comp, keyToReuse)
	ctx.registerGlobalKey(scoped.GlobalKey(), comp)

	if tp, ok := comp.(component.TreePropsProvider); ok {
		scoped.SetTreeProps(tp.TreePropsForChildren(scoped, scoped.TreeProps()))
	}
	if s, ok := comp.(component.Stateful); ok {
		ctx.TreeState().ApplyStateUpdates(scoped, s.InitialState())
	}
	ctx.Stats().Resolutions.Add(1)

	node := resolveComponent(ctx, scoped, comp, prev)
	if node == nil {
		return nil
	}
	node.appendScope(scoped)
	postProcess(scoped, comp, node)
	return node
}

// resolveComponent dispatches on the component's kind. A panic while
// resolving is reported with the component hierarchy and collapses the
// subtree to nil; lifecycle violations are not survivable and re-panic.
func resolveComponent(ctx *Context, scoped *component.ScopedContext, comp component.Component, prev *Node) (node *Node) {
	defer func() {
		if r := recover(); r != nil {
			if lc, ok := r.(*errors.LifecycleError); ok {
				panic(lc)
			}
			errors.ReportResolution(&errors.ResolutionError{
				Component:  component.Name(comp),
				Hierarchy:  scoped.Hierarchy(),
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
			})
			node = nil
		}
	}()

	switch comp.Kind() {
	case component.KindContainer:
		container, ok := comp.(ContainerComponent)
		if !ok {
			return nil
		}
		node = NewNode(ctx)
		node.prev = prev
		for _, child := range container.ChildComponents(scoped) {
			node.Child(ctx, scoped, child)
		}
		return node

	case component.KindLeaf:
		node = NewNode(ctx)
		node.measure = MeasureLeaf
		if p, ok := comp.(Preparer); ok {
			node.unit = p.Prepare(scoped).Unit
		}
		return node

	case component.KindDelegating:
		delegating, ok := comp.(DelegatingComponent)
		if !ok {
			return nil
		}
		child := delegating.Render(scoped)
		if child == nil {
			return nil
		}
		if sameInstance(child, comp) {
			return resolveSelfDelegation(ctx, scoped, comp)
		}
		return resolveWith(ctx, scoped, child, prev, "")

	case component.KindDeferred:
		cached := ctx.RenderCache().CachedNode(comp)
		node = NewDeferredNode(ctx, cached)
		node.measure = MeasureNested
		return node
	}
	return nil
}

// resolveSelfDelegation handles a component rendering to itself: instead
// of recursing forever, the instance is resolved directly from its other
// capabilities.
func resolveSelfDelegation(ctx *Context, scoped *component.ScopedContext, comp component.Component) *Node {
	node := NewNode(ctx)
	if _, ok := comp.(Measurable); ok {
		node.measure = MeasureLeaf
	}
	return node
}

// sameInstance reports whether two components are the same live instance.
func sameInstance(a, b component.Component) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Pointer && vb.Kind() == reflect.Pointer {
		return va.Pointer() == vb.Pointer()
	}
	return false
}

// postProcess applies the steps every resolved node receives regardless of
// which strategy produced it: measure-function fixup for childless
// delegation roots, style copy, and transition, attach and working-range
// registration.
func postProcess(scoped *component.ScopedContext, comp component.Component, node *Node) {
	if node.measure == MeasureNone && !node.IsDeferred() && node.ChildCount() == 0 {
		if _, ok := comp.(Measurable); ok {
			node.measure = MeasureLeaf
		}
	}
	if hp, ok := comp.(component.HasCommonProps); ok && !node.styleSet {
		if props := hp.CommonProps(); props != nil {
			node.applyCommonProps(props)
		}
	}
	if tp, ok := comp.(component.TransitionProvider); ok {
		if t := tp.CreateTransition(scoped); t != nil {
			node.transitions = append(node.transitions, t)
		}
	}
	if ah, ok := comp.(component.AttachHandler); ok {
		node.attachables = append(node.attachables, component.Attachable{
			GlobalKey: scoped.GlobalKey(),
			Handler:   ah,
		})
	}
	if wr, ok := comp.(component.WorkingRangeProvider); ok {
		for _, r := range wr.WorkingRanges(scoped) {
			node.workingRanges = append(node.workingRanges, component.WorkingRangeRegistration{
				GlobalKey: scoped.GlobalKey(),
				Range:     r,
			})
		}
	}
}

// WillRender speculatively resolves a component so a caller can branch on
// whether it produces output. The node is cached and consumed by the real
// resolution of the same instance later in the pass.
func WillRender(ctx *Context, sc *component.ScopedContext, comp component.Component) bool {
	if comp == nil {
		return false
	}
	if ctx.RenderCache().WillRenderNode(comp) != nil {
		return true
	}
	node := Resolve(ctx, sc, comp)
	if node == nil {
		return false
	}
	ctx.RenderCache().PutWillRender(comp, node)
	return true
}

// ResumeTree completes a partial tree: every node holding children parked
// by an interruption resolves them in place, then the walk descends to
// find deeper parked lists. Resuming a complete tree is a no-op.
func ResumeTree(ctx *Context, root *Node) {
	if root == nil {
		return
	}
	ctx.Stats().Resumes.Add(1)
	ctx.Log().Record("resume started")
	resumeNode(ctx, root)
	if !hasUnresolved(root) {
		ctx.MarkUninterruptible()
		ctx.Log().Record("resume completed")
	}
}

func resumeNode(ctx *Context, n *Node) {
	if len(n.unresolved) > 0 {
		pending := n.unresolved
		n.unresolved = nil
		sc := n.Tail()
		for _, child := range pending {
			n.Child(ctx, sc, child)
		}
	}
	for _, child := range n.children {
		resumeNode(ctx, child)
	}
}

// hasUnresolved reports whether any node in the tree still holds children
// parked by an interruption.
func hasUnresolved(n *Node) bool {
	if n == nil {
		return false
	}
	if n.HasUnresolved() {
		return true
	}
	for _, child := range n.children {
		if hasUnresolved(child) {
			return true
		}
	}
	return false
}
