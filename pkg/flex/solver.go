// Package flex lays out resolved node trees with a single-axis flexbox
// model: children stack along the container's main axis, fixed sizes win,
// and remaining main-axis space is split by flex-grow factors.
package flex

import (
	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/geometry"
	"github.com/nextcore/tessera/pkg/resolve"
	"github.com/nextcore/tessera/pkg/sizespec"
)

// Solver implements resolve.Solver.
type Solver struct{}

// ContainerData is the solver payload recorded on every container result:
// the main axis it laid out and the space the children settled on.
type ContainerData struct {
	Direction component.Direction
	MainUsed  float64
	CrossMax  float64
}

// NewSolver returns the flex layout solver.
func NewSolver() *Solver {
	return &Solver{}
}

// Layout measures a node tree against the given specs.
func (s *Solver) Layout(ctx *resolve.Context, node *resolve.Node, widthSpec, heightSpec sizespec.Spec) *resolve.LayoutResult {
	if node == nil {
		return nil
	}
	switch node.MeasureStrategy() {
	case resolve.MeasureNested:
		return resolve.MeasureNestedTree(ctx, node, widthSpec, heightSpec)
	case resolve.MeasureLeaf:
		size := node.MeasureContent(ctx, widthSpec, heightSpec)
		result := resolve.NewLayoutResult(node, size.Width, size.Height)
		return result
	default:
		return s.layoutContainer(ctx, node, widthSpec, heightSpec)
	}
}

func (s *Solver) layoutContainer(ctx *resolve.Context, node *resolve.Node, widthSpec, heightSpec sizespec.Spec) *resolve.LayoutResult {
	style := node.Style()
	padding := style.Padding
	horizontal := style.Direction == component.Row

	innerWidth := inset(widthSpec, 2*padding)
	innerHeight := inset(heightSpec, 2*padding)

	children := node.Children()
	results := make([]*resolve.LayoutResult, len(children))

	// First pass: rigid children, measured against the free inner specs.
	var mainUsed, crossMax, growSum float64
	for i, child := range children {
		grow := child.Style().FlexGrow
		growSum += grow
		if grow > 0 {
			continue
		}
		r := s.measureChild(ctx, child, innerWidth, innerHeight, horizontal, mainUsed)
		results[i] = r
		mainUsed += mainExtent(r, horizontal)
		crossMax = max(crossMax, crossExtent(r, horizontal))
	}

	// Second pass: growing children share what is left of the main axis.
	if growSum > 0 {
		available := mainAvailable(innerWidth, innerHeight, horizontal)
		remaining := max(0, available-mainUsed)
		for i, child := range children {
			grow := child.Style().FlexGrow
			if grow <= 0 {
				continue
			}
			share := remaining * grow / growSum
			r := s.measureFlexChild(ctx, child, innerWidth, innerHeight, horizontal, share)
			results[i] = r
			mainUsed += mainExtent(r, horizontal)
			crossMax = max(crossMax, crossExtent(r, horizontal))
		}
	}

	var width, height float64
	if horizontal {
		width = widthSpec.Resolve(mainUsed + 2*padding)
		height = heightSpec.Resolve(crossMax + 2*padding)
	} else {
		width = widthSpec.Resolve(crossMax + 2*padding)
		height = heightSpec.Resolve(mainUsed + 2*padding)
	}

	result := resolve.NewLayoutResult(node, width, height)
	result.SetLayoutData(ContainerData{Direction: style.Direction, MainUsed: mainUsed, CrossMax: crossMax})
	placeChildren(result, results, node, width, padding, horizontal)
	return result
}

// measureChild sizes one rigid child. Fixed style dimensions become exact
// specs; otherwise the child is capped by the container's remaining space.
func (s *Solver) measureChild(ctx *resolve.Context, child *resolve.Node, innerWidth, innerHeight sizespec.Spec, horizontal bool, mainUsed float64) *resolve.LayoutResult {
	w := childSpec(child.Style().Width, innerWidth)
	h := childSpec(child.Style().Height, innerHeight)
	if horizontal {
		w = shrink(w, mainUsed)
	} else {
		h = shrink(h, mainUsed)
	}
	return resolve.MeasureTree(ctx, child, w, h)
}

// measureFlexChild sizes one growing child to its computed main-axis share.
func (s *Solver) measureFlexChild(ctx *resolve.Context, child *resolve.Node, innerWidth, innerHeight sizespec.Spec, horizontal bool, share float64) *resolve.LayoutResult {
	w := childSpec(child.Style().Width, innerWidth)
	h := childSpec(child.Style().Height, innerHeight)
	if horizontal {
		w = sizespec.MakeExact(share)
	} else {
		h = sizespec.MakeExact(share)
	}
	return resolve.MeasureTree(ctx, child, w, h)
}

// placeChildren assigns offsets along the main axis, honoring RTL rows.
func placeChildren(parent *resolve.LayoutResult, results []*resolve.LayoutResult, node *resolve.Node, width, padding float64, horizontal bool) {
	rtl := horizontal && node.LayoutDirection() == component.DirectionRTL
	cursor := padding
	for _, r := range results {
		if r == nil {
			continue
		}
		var offset geometry.Offset
		if horizontal {
			x := cursor
			if rtl {
				x = width - cursor - r.Width()
			}
			offset = geometry.Offset{X: x, Y: padding}
			cursor += r.Width()
		} else {
			offset = geometry.Offset{X: padding, Y: cursor}
			cursor += r.Height()
		}
		parent.AddChild(r, offset)
	}
}

// childSpec turns a fixed style dimension into an exact spec, falling back
// to the container's inner constraint loosened to at-most.
func childSpec(fixed float64, inner sizespec.Spec) sizespec.Spec {
	if fixed > 0 {
		return sizespec.MakeExact(fixed)
	}
	switch inner.Mode {
	case sizespec.Exact, sizespec.AtMost:
		return sizespec.MakeAtMost(inner.Size)
	default:
		return sizespec.MakeUnspecified()
	}
}

// inset narrows a spec by the given amount, never below zero.
func inset(spec sizespec.Spec, by float64) sizespec.Spec {
	if spec.IsUnspecified() {
		return spec
	}
	return sizespec.Make(max(0, spec.Size-by), spec.Mode)
}

// shrink reduces an at-most spec by already-consumed main-axis space.
func shrink(spec sizespec.Spec, used float64) sizespec.Spec {
	if spec.Mode != sizespec.AtMost {
		return spec
	}
	return sizespec.MakeAtMost(max(0, spec.Size-used))
}

func mainExtent(r *resolve.LayoutResult, horizontal bool) float64 {
	if r == nil {
		return 0
	}
	if horizontal {
		return r.Width()
	}
	return r.Height()
}

func crossExtent(r *resolve.LayoutResult, horizontal bool) float64 {
	if r == nil {
		return 0
	}
	if horizontal {
		return r.Height()
	}
	return r.Width()
}

func mainAvailable(innerWidth, innerHeight sizespec.Spec, horizontal bool) float64 {
	if horizontal {
		return innerWidth.Size
	}
	return innerHeight.Size
}
