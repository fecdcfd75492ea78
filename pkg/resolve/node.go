package resolve

import (
	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/errors"
	"github.com/nextcore/tessera/pkg/geometry"
	"github.com/nextcore/tessera/pkg/sizespec"
)

// MeasureStrategy tells the solver how a node's own size is produced.
// It is decided once, during post-processing, and attached to the node as a
// plain value.
type MeasureStrategy uint8

const (
	// MeasureNone means the node's size comes from the solver's own
	// layout of its children.
	MeasureNone MeasureStrategy = iota
	// MeasureLeaf means the tail component measures its own content.
	MeasureLeaf
	// MeasureNested means the node is a deferred holder and measurement
	// triggers nested-tree resolution.
	MeasureNested
)

// RenderUnit is a pre-resolved renderable unit produced by a leaf
// component's prepare hook. Unit-backed nodes skip fine-grained diffing
// during reconciliation; their own equivalence check runs at mount time.
type RenderUnit interface {
	// RenderType names the concrete unit for pooling and diagnostics.
	RenderType() string
}

// PrepareResult carries the output of a leaf component's prepare hook.
type PrepareResult struct {
	Unit RenderUnit
}

// Node is one element of the resolved tree. It is owned exclusively by the
// resolving pass until commit; afterwards it is read-only and may be shared
// across threads.
type Node struct {
	id     int64
	scopes []*component.ScopedContext // resolution chain, innermost first

	children   []*Node
	unresolved []component.Component // children deferred by an interruption

	style    component.CommonProps
	styleSet bool

	measure MeasureStrategy
	unit    RenderUnit

	transitions   []*component.Transition
	attachables   []component.Attachable
	workingRanges []component.WorkingRangeRegistration

	layoutDirection component.LayoutDirection

	// Deferred holder state.
	deferred   bool
	cachedNode *Node

	// Reconciliation candidate: the committed node this node replaces.
	// Children are matched against its children as they are declared.
	prev         *Node
	prevConsumed map[*Node]bool
}

// NewNode creates an empty node owned by the given pass.
func NewNode(ctx *Context) *Node {
	return &Node{id: ctx.nextNodeID()}
}

// NewDeferredNode creates a holder node that postpones resolution until the
// container supplies real constraints. cached is the sub-tree resolved for
// the same component in an earlier measure call, if any.
func NewDeferredNode(ctx *Context, cached *Node) *Node {
	return &Node{id: ctx.nextNodeID(), deferred: true, cachedNode: cached}
}

// ID returns the node's pass-unique identifier.
func (n *Node) ID() int64 {
	return n.id
}

// Child resolves a child component and appends the result. If the pass has
// been interrupted the component is recorded as unresolved instead, to be
// completed by a later resume. When the node carries a reconciliation
// candidate, the child is matched against the committed children so an
// unchanged subtree can be reused.
func (n *Node) Child(ctx *Context, sc *component.ScopedContext, child component.Component) {
	if child == nil {
		return
	}
	if ctx.Interrupted() {
		n.unresolved = append(n.unresolved, child)
		return
	}
	prev := n.takePrevChild(child)
	keyToReuse := ""
	if prev != nil {
		keyToReuse = prev.HeadKey()
	}
	if resolved := resolveWith(ctx, sc, child, prev, keyToReuse); resolved != nil {
		n.children = append(n.children, resolved)
	}
}

// takePrevChild finds the committed child a new child corresponds to: same
// head type and sibling key, preferring the same position. Each committed
// child is matched at most once.
func (n *Node) takePrevChild(child component.Component) *Node {
	if n.prev == nil {
		return nil
	}
	match := func(candidate *Node) bool {
		if n.prevConsumed[candidate] {
			return false
		}
		head := candidate.HeadComponent()
		return head != nil && component.SameType(head, child) && head.Key() == child.Key()
	}
	prevKids := n.prev.children
	var found *Node
	if i := len(n.children); i < len(prevKids) && match(prevKids[i]) {
		found = prevKids[i]
	} else {
		for _, candidate := range prevKids {
			if match(candidate) {
				found = candidate
				break
			}
		}
	}
	if found == nil {
		return nil
	}
	if n.prevConsumed == nil {
		n.prevConsumed = make(map[*Node]bool)
	}
	n.prevConsumed[found] = true
	return found
}

// Children returns the resolved children in declaration order.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount returns the number of resolved children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// ChildAt returns the i-th resolved child.
func (n *Node) ChildAt(i int) *Node {
	return n.children[i]
}

// HasUnresolved reports whether an interruption left pending children here.
func (n *Node) HasUnresolved() bool {
	return len(n.unresolved) > 0
}

// appendScope registers a component scope on the node. Scopes accumulate
// innermost first, so the head (outermost) component is the last appended.
func (n *Node) appendScope(sc *component.ScopedContext) {
	n.scopes = append(n.scopes, sc)
}

// ScopeCount returns the number of components registered on the node.
func (n *Node) ScopeCount() int {
	return len(n.scopes)
}

// Scopes returns the registered scopes, innermost first.
func (n *Node) Scopes() []*component.ScopedContext {
	return n.scopes
}

// Head returns the outermost component scope.
func (n *Node) Head() *component.ScopedContext {
	if len(n.scopes) == 0 {
		return nil
	}
	return n.scopes[len(n.scopes)-1]
}

// Tail returns the innermost component scope, the one that directly
// produced this node.
func (n *Node) Tail() *component.ScopedContext {
	if len(n.scopes) == 0 {
		return nil
	}
	return n.scopes[0]
}

// HeadComponent returns the outermost component, or nil.
func (n *Node) HeadComponent() component.Component {
	if sc := n.Head(); sc != nil {
		return sc.Component()
	}
	return nil
}

// TailComponent returns the innermost component, or nil.
func (n *Node) TailComponent() component.Component {
	if sc := n.Tail(); sc != nil {
		return sc.Component()
	}
	return nil
}

// HeadKey returns the global key of the outermost component.
func (n *Node) HeadKey() string {
	if sc := n.Head(); sc != nil {
		return sc.GlobalKey()
	}
	return ""
}

// TailKey returns the global key of the innermost component.
func (n *Node) TailKey() string {
	if sc := n.Tail(); sc != nil {
		return sc.GlobalKey()
	}
	return ""
}

// Style returns the node's resolved common props.
func (n *Node) Style() *component.CommonProps {
	return &n.style
}

// applyCommonProps copies style props onto the node.
func (n *Node) applyCommonProps(props *component.CommonProps) {
	n.style = *props
	n.styleSet = true
	if props.LayoutDirection != component.DirectionInherit {
		n.layoutDirection = props.LayoutDirection
	}
}

// copyStyleInto transplants the holder's style onto a freshly resolved
// nested tree, preserving props recorded before resolution was deferred.
func (n *Node) copyStyleInto(target *Node) {
	if n.styleSet && !target.styleSet {
		target.style = n.style
		target.styleSet = true
	}
}

// MeasureStrategy returns the measurement strategy attached at creation.
func (n *Node) MeasureStrategy() MeasureStrategy {
	return n.measure
}

// RenderUnit returns the pre-resolved renderable unit, or nil.
func (n *Node) RenderUnit() RenderUnit {
	return n.unit
}

// IsDeferred reports whether the node is a deferred holder.
func (n *Node) IsDeferred() bool {
	return n.deferred
}

// CachedNode returns the previously resolved sub-tree a holder carries.
func (n *Node) CachedNode() *Node {
	return n.cachedNode
}

// LayoutDirection returns the node's resolved layout direction.
func (n *Node) LayoutDirection() component.LayoutDirection {
	return n.layoutDirection
}

// SetLayoutDirection fixes the node's layout direction.
func (n *Node) SetLayoutDirection(dir component.LayoutDirection) {
	n.layoutDirection = dir
}

// Transitions returns the transitions registered on the node.
func (n *Node) Transitions() []*component.Transition {
	return n.transitions
}

// Attachables returns the attach/detach registrations on the node.
func (n *Node) Attachables() []component.Attachable {
	return n.attachables
}

// WorkingRanges returns the working-range subscriptions on the node.
func (n *Node) WorkingRanges() []component.WorkingRangeRegistration {
	return n.workingRanges
}

// MeasureContent measures a leaf node's own content by dispatching to the
// tail component. A panicking measurer is reported with the component
// hierarchy and yields a zero size.
func (n *Node) MeasureContent(ctx *Context, widthSpec, heightSpec sizespec.Spec) geometry.Size {
	tail := n.Tail()
	if tail == nil {
		return geometry.Size{}
	}
	m, ok := tail.Component().(Measurable)
	if !ok {
		return geometry.Size{}
	}
	var size geometry.Size
	func() {
		defer func() {
			if r := recover(); r != nil {
				errors.ReportResolution(&errors.ResolutionError{
					Component:  component.Name(tail.Component()),
					Hierarchy:  tail.Hierarchy(),
					Recovered:  r,
					StackTrace: errors.CaptureStack(),
				})
				size = geometry.Size{}
			}
		}()
		size = m.Measure(tail, widthSpec, heightSpec)
	}()
	return size
}
