package resolve

import (
	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/sizespec"
)

// DiffNode is the previous committed tree's counterpart to a Node. It is
// used purely for update comparison during reconciliation and is never
// mutated by the current pass.
type DiffNode struct {
	comp           component.Component
	scope          *component.ScopedContext
	children       []*DiffNode
	lastSpecs      sizespec.Pair
	measuredWidth  float64
	measuredHeight float64
}

// NewDiffTree builds the diff tree for a committed layout result. It walks
// the measured tree and snapshots, per node, the tail component, its scope,
// and the specs and sizes it was last measured against.
func NewDiffTree(result *LayoutResult) *DiffNode {
	if result == nil || result.Node() == nil {
		return nil
	}
	node := result.Node()
	diff := &DiffNode{
		comp:  node.TailComponent(),
		scope: node.Tail(),
	}
	if specs, ok := result.LastSpecs(); ok {
		diff.lastSpecs = specs
		diff.measuredWidth = result.LastMeasuredWidth()
		diff.measuredHeight = result.LastMeasuredHeight()
	}
	for _, child := range result.Children() {
		if childDiff := NewDiffTree(child); childDiff != nil {
			diff.children = append(diff.children, childDiff)
		}
	}
	// A deferred holder keeps its measured content on the side; that
	// sub-tree must be diffable too, or nested content would remeasure on
	// every pass.
	if nested := result.NestedResult(); nested != nil {
		if nestedDiff := NewDiffTree(nested); nestedDiff != nil {
			diff.children = append(diff.children, nestedDiff)
		}
	}
	return diff
}

// Component returns the committed component this diff node represents.
func (d *DiffNode) Component() component.Component {
	if d == nil {
		return nil
	}
	return d.comp
}

// Scope returns the committed scoped context, or nil.
func (d *DiffNode) Scope() *component.ScopedContext {
	if d == nil {
		return nil
	}
	return d.scope
}

// State returns the committed state for the component, or nil.
func (d *DiffNode) State() any {
	if d == nil || d.scope == nil {
		return nil
	}
	return d.scope.State()
}

// ChildCount returns the number of child diff nodes.
func (d *DiffNode) ChildCount() int {
	if d == nil {
		return 0
	}
	return len(d.children)
}

// ChildAt returns the i-th child diff node, or nil when out of range.
func (d *DiffNode) ChildAt(i int) *DiffNode {
	if d == nil || i < 0 || i >= len(d.children) {
		return nil
	}
	return d.children[i]
}

// LastSpecs returns the spec pair the committed node was measured against.
func (d *DiffNode) LastSpecs() sizespec.Pair {
	return d.lastSpecs
}

// LastMeasured returns the committed measured size.
func (d *DiffNode) LastMeasured() (width, height float64) {
	return d.measuredWidth, d.measuredHeight
}
