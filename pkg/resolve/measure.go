package resolve

import (
	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/geometry"
	"github.com/nextcore/tessera/pkg/perf"
	"github.com/nextcore/tessera/pkg/sizespec"
)

// Solver turns a resolved node tree and a spec pair into concrete
// geometry. It must be deterministic for identical inputs. Leaf content is
// measured through Node.MeasureContent; deferred holders are measured
// through MeasureNestedTree.
type Solver interface {
	Layout(ctx *Context, node *Node, widthSpec, heightSpec sizespec.Spec) *LayoutResult
}

// MeasureTree measures a resolved tree against the given specs, consulting
// the layout-phase cache first. A compatible cached result is returned
// unchanged; an incompatible one is evicted and the tree is remeasured.
func MeasureTree(ctx *Context, node *Node, widthSpec, heightSpec sizespec.Spec) *LayoutResult {
	if node == nil {
		return nil
	}
	if node.IsDeferred() {
		return MeasureNestedTree(ctx, node, widthSpec, heightSpec)
	}

	requested := sizespec.MakePair(widthSpec, heightSpec)
	if cached := ctx.LayoutCache().Get(node); cached != nil {
		if cached.IsCompatibleWith(requested) {
			ctx.Stats().LayoutCacheHits.Add(1)
			return cached
		}
		ctx.Stats().LayoutCacheIncompatible.Add(1)
		ctx.LayoutCache().Remove(node)
	}
	if node.MeasureStrategy() == MeasureLeaf {
		if reused := reuseFromDiff(ctx, node, requested); reused != nil {
			return reused
		}
	}

	ev := ctx.Perf()
	ev.MarkerPoint(perf.MarkerStartMeasure)
	ctx.Stats().Measures.Add(1)

	var result *LayoutResult
	if solver := ctx.Solver(); solver != nil {
		result = solver.Layout(ctx, node, widthSpec, heightSpec)
	} else {
		result = stackLayout(ctx, node, widthSpec, heightSpec)
	}
	ev.MarkerPoint(perf.MarkerEndMeasure)
	if result == nil {
		return nil
	}
	result.RecordSpecs(requested, result.Width(), result.Height())
	ctx.LayoutCache().Put(node, result)
	return result
}

// reuseFromDiff answers a leaf measurement from the committed tree. The
// committed size is adopted without running the measurer when the
// component is unchanged, nothing is pending under its key, and the specs
// it was last measured against are compatible with the request.
func reuseFromDiff(ctx *Context, node *Node, requested sizespec.Pair) *LayoutResult {
	diff := ctx.diffFor(node.TailKey())
	if diff == nil {
		return nil
	}
	w, h := diff.LastMeasured()
	if !diff.LastSpecs().IsCompatibleWith(requested, w, h) {
		return nil
	}
	if !component.Equivalent(diff.Component(), node.TailComponent()) {
		return nil
	}
	if ctx.TreeState().HasPendingUpdatesUnder(node.TailKey()) {
		return nil
	}
	ctx.Stats().LayoutDiffReuses.Add(1)
	result := NewLayoutResult(node, w, h)
	result.RecordSpecs(requested, w, h)
	ctx.LayoutCache().Put(node, result)
	return result
}

// MeasureComponent resolves and measures a component outside the normal
// tree walk, for callers that need its size before declaring it. The
// resolved node is parked in the render-phase cache so the real resolution
// of the same instance later in the pass picks it up instead of starting
// over.
func MeasureComponent(ctx *Context, sc *component.ScopedContext, comp component.Component, widthSpec, heightSpec sizespec.Spec) *LayoutResult {
	node := Resolve(ctx, sc, comp)
	if node == nil {
		return nil
	}
	result := MeasureTree(ctx, node, widthSpec, heightSpec)
	ctx.RenderCache().PutWillRender(comp, node)
	return result
}

// stackLayout is the solver of last resort: children are measured against
// the parent's specs and stacked at the origin, and the node's size is the
// spec-resolved bound of the largest child (or of its own content for
// leaves). Engines are expected to install a real solver.
func stackLayout(ctx *Context, node *Node, widthSpec, heightSpec sizespec.Spec) *LayoutResult {
	var content geometry.Size
	switch node.MeasureStrategy() {
	case MeasureLeaf:
		content = node.MeasureContent(ctx, widthSpec, heightSpec)
	case MeasureNested:
		if nested := MeasureNestedTree(ctx, node, widthSpec, heightSpec); nested != nil {
			content = geometry.Size{Width: nested.Width(), Height: nested.Height()}
		}
	}

	result := NewLayoutResult(node, 0, 0)
	for _, child := range node.Children() {
		childResult := MeasureTree(ctx, child, widthSpec, heightSpec)
		if childResult == nil {
			continue
		}
		result.AddChild(childResult, geometry.Offset{})
		if childResult.Width() > content.Width {
			content.Width = childResult.Width()
		}
		if childResult.Height() > content.Height {
			content.Height = childResult.Height()
		}
	}
	result.SetSize(widthSpec.Resolve(content.Width), heightSpec.Resolve(content.Height))
	return result
}
