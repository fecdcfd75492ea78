package resolve

import (
	"github.com/nextcore/tessera/pkg/geometry"
	"github.com/nextcore/tessera/pkg/sizespec"
)

// LayoutResult is the output of measuring a node against a spec pair:
// concrete width and height, opaque solver data, and child results with
// their offsets. A result is valid only together with the specs it was
// measured against; compatibility against a new request is decided by
// sizespec.IsCompatible.
type LayoutResult struct {
	node   *Node
	width  float64
	height float64
	data   any

	children []*LayoutResult
	offset   geometry.Offset // position within the parent result

	lastSpecs      sizespec.Pair
	measuredWidth  float64
	measuredHeight float64
	specsRecorded  bool

	// Deferred holder linkage.
	nested *LayoutResult
	diff   *DiffNode
}

// NewLayoutResult creates a result for a node with the given geometry.
func NewLayoutResult(node *Node, width, height float64) *LayoutResult {
	return &LayoutResult{node: node, width: width, height: height}
}

// Node returns the node this result measures.
func (r *LayoutResult) Node() *Node {
	return r.node
}

// Width returns the measured width.
func (r *LayoutResult) Width() float64 {
	return r.width
}

// Height returns the measured height.
func (r *LayoutResult) Height() float64 {
	return r.height
}

// SetSize overwrites the measured geometry.
func (r *LayoutResult) SetSize(width, height float64) {
	r.width = width
	r.height = height
}

// LayoutData returns the opaque solver payload.
func (r *LayoutResult) LayoutData() any {
	return r.data
}

// SetLayoutData stores an opaque solver payload.
func (r *LayoutResult) SetLayoutData(data any) {
	r.data = data
}

// AddChild appends a child result positioned at offset.
func (r *LayoutResult) AddChild(child *LayoutResult, offset geometry.Offset) {
	if child == nil {
		return
	}
	child.offset = offset
	r.children = append(r.children, child)
}

// Children returns the child results in declaration order.
func (r *LayoutResult) Children() []*LayoutResult {
	return r.children
}

// ChildAt returns the i-th child result.
func (r *LayoutResult) ChildAt(i int) *LayoutResult {
	return r.children[i]
}

// Offset returns this result's position within its parent.
func (r *LayoutResult) Offset() geometry.Offset {
	return r.offset
}

// RecordSpecs stores the specs this result was measured against along with
// the measured size, for future compatibility checks.
func (r *LayoutResult) RecordSpecs(specs sizespec.Pair, measuredWidth, measuredHeight float64) {
	r.lastSpecs = specs
	r.measuredWidth = measuredWidth
	r.measuredHeight = measuredHeight
	r.specsRecorded = true
}

// LastSpecs returns the recorded spec pair; ok is false when the result
// has never been measured through the engine.
func (r *LayoutResult) LastSpecs() (sizespec.Pair, bool) {
	return r.lastSpecs, r.specsRecorded
}

// LastMeasuredWidth returns the width recorded with the specs.
func (r *LayoutResult) LastMeasuredWidth() float64 {
	return r.measuredWidth
}

// LastMeasuredHeight returns the height recorded with the specs.
func (r *LayoutResult) LastMeasuredHeight() float64 {
	return r.measuredHeight
}

// IsCompatibleWith reports whether this result can satisfy the requested
// specs without remeasuring.
func (r *LayoutResult) IsCompatibleWith(requested sizespec.Pair) bool {
	if !r.specsRecorded {
		return false
	}
	return r.lastSpecs.IsCompatibleWith(requested, r.measuredWidth, r.measuredHeight)
}

// NestedResult returns the sub-tree result held by a deferred holder.
func (r *LayoutResult) NestedResult() *LayoutResult {
	return r.nested
}

// SetNestedResult stores the sub-tree result on a deferred holder.
func (r *LayoutResult) SetNestedResult(nested *LayoutResult) {
	r.nested = nested
}

// DiffNode returns the diff linkage for the nested pass, or nil.
func (r *LayoutResult) DiffNode() *DiffNode {
	return r.diff
}

// SetDiffNode records the diff linkage consumed by the nested pass.
func (r *LayoutResult) SetDiffNode(diff *DiffNode) {
	r.diff = diff
}
