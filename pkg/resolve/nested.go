package resolve

import (
	"github.com/nextcore/tessera/pkg/sizespec"
)

// MeasureNestedTree measures a deferred holder against real constraints. The
// cheapest sufficient source wins, each step tried only when the previous
// one fails:
//
//  1. the holder's prior result, when its stored specs are compatible;
//  2. the layout cache entry for the holder's cached sub-tree: adopted
//     when compatible, or remeasured without re-resolving when the
//     component's structure does not depend on exact constraint values;
//  3. a full deferred resolution against the now-known constraints,
//     followed by a measure.
//
// The result is recorded with the specs it was measured against, so the
// next request can be answered by step 1.
func MeasureNestedTree(ctx *Context, holder *Node, widthSpec, heightSpec sizespec.Spec) *LayoutResult {
	if holder == nil || !holder.IsDeferred() {
		return nil
	}
	requested := sizespec.MakePair(widthSpec, heightSpec)

	if prior := ctx.LayoutCache().Get(holder); prior != nil {
		if prior.IsCompatibleWith(requested) {
			ctx.Stats().LayoutCacheHits.Add(1)
			return prior
		}
		ctx.Stats().LayoutCacheIncompatible.Add(1)
		ctx.LayoutCache().Remove(holder)
	}

	if result := consumeCachedLayout(ctx, holder, requested, widthSpec, heightSpec); result != nil {
		return result
	}
	return resolveDeferred(ctx, holder, requested, widthSpec, heightSpec)
}

// consumeCachedLayout tries to satisfy the request from the sub-tree
// resolved for the holder's component in an earlier measure call.
func consumeCachedLayout(ctx *Context, holder *Node, requested sizespec.Pair, widthSpec, heightSpec sizespec.Spec) *LayoutResult {
	cached := holder.CachedNode()
	if cached == nil {
		return nil
	}
	prior := ctx.LayoutCache().Get(cached)
	if prior != nil && prior.IsCompatibleWith(requested) {
		ctx.Stats().LayoutCacheHits.Add(1)
		return holderResultFor(ctx, holder, prior, requested)
	}
	if prior == nil {
		return nil
	}
	ctx.Stats().LayoutCacheIncompatible.Add(1)
	ctx.LayoutCache().Remove(cached)
	if requiresExactConstraints(holder) {
		return nil
	}
	// Reflow only: the sub-tree's structure is constraint-independent, so
	// remeasuring it against the new specs is enough.
	remeasured := MeasureTree(ctx, cached, widthSpec, heightSpec)
	if remeasured == nil {
		return nil
	}
	return holderResultFor(ctx, holder, remeasured, requested)
}

// resolveDeferred performs the postponed resolution now that the holder's
// constraints are known, then measures the fresh sub-tree. Nested
// resolution always runs to completion; interrupting inside a measure
// would leave the container with no usable size.
func resolveDeferred(ctx *Context, holder *Node, requested sizespec.Pair, widthSpec, heightSpec sizespec.Spec) *LayoutResult {
	tail := holder.Tail()
	if tail == nil {
		return nil
	}
	ca, ok := tail.Component().(ConstraintAware)
	if !ok {
		return nil
	}
	ctx.MarkUninterruptible()
	if ctx.nestedDiff == nil {
		ctx.SetNestedDiff(ctx.diffFor(holder.TailKey()))
	}

	content := ca.ResolveWithConstraints(tail, widthSpec, heightSpec)
	if content == nil {
		return nil
	}
	keyToReuse := ""
	if cached := holder.CachedNode(); cached != nil {
		keyToReuse = cached.HeadKey()
	}
	resolved := resolveWith(ctx.forNestedPass(), tail, content, nil, keyToReuse)
	if resolved == nil {
		return nil
	}
	holder.copyStyleInto(resolved)
	if dir := holder.LayoutDirection(); dir != resolved.LayoutDirection() {
		resolved.SetLayoutDirection(dir)
	}
	// The fresh sub-tree becomes the holder's cached sub-tree, so a later
	// incompatible request can reflow it instead of resolving again.
	holder.cachedNode = resolved
	ctx.RenderCache().PutCachedNode(tail.Component(), resolved)

	result := MeasureTree(ctx, resolved, widthSpec, heightSpec)
	if result == nil {
		return nil
	}
	wrapped := holderResultFor(ctx, holder, result, requested)
	if diff := ctx.ConsumeNestedDiff(); diff != nil {
		result.SetDiffNode(diff)
		wrapped.SetDiffNode(diff)
	}
	return wrapped
}

// holderResultFor wraps a sub-tree result in a holder-level result and
// records it under the holder so the next compatible request is a hit.
func holderResultFor(ctx *Context, holder *Node, nested *LayoutResult, requested sizespec.Pair) *LayoutResult {
	result := NewLayoutResult(holder, nested.Width(), nested.Height())
	result.SetNestedResult(nested)
	result.RecordSpecs(requested, nested.Width(), nested.Height())
	ctx.LayoutCache().Put(holder, result)
	return result
}

// requiresExactConstraints reports whether the holder's component must be
// re-resolved, not just remeasured, when constraints change.
func requiresExactConstraints(holder *Node) bool {
	tail := holder.Tail()
	if tail == nil {
		return true
	}
	ca, ok := tail.Component().(ConstraintAware)
	if !ok {
		return false
	}
	return ca.RequiresExactConstraints()
}
