package resolve

import "github.com/nextcore/tessera/pkg/component"

// RenderPhaseCache holds speculatively resolved nodes for the render
// phase of one pass. It has two compartments: will-render nodes, consumed
// exactly once by the real resolution of the same component instance, and
// cached nodes produced by explicit measure calls, picked up by deferred
// holders.
//
// Components stored here are compared by instance identity, so components
// participating in will-render or measure calls must be pointer-typed or
// comparable values. The cache is scoped to a single pass and is not safe
// for concurrent use; the pass owns it exclusively.
type RenderPhaseCache struct {
	willRender  map[component.Component]*Node
	cachedNodes map[component.Component]*Node
}

func newRenderPhaseCache() *RenderPhaseCache {
	return &RenderPhaseCache{}
}

// PutWillRender stores a node speculatively resolved for a component.
func (c *RenderPhaseCache) PutWillRender(comp component.Component, node *Node) {
	if c.willRender == nil {
		c.willRender = make(map[component.Component]*Node)
	}
	c.willRender[comp] = node
}

// WillRenderNode returns the speculative node without consuming it.
func (c *RenderPhaseCache) WillRenderNode(comp component.Component) *Node {
	return c.willRender[comp]
}

// ConsumeWillRender removes and returns the speculative node for a
// component, so it can never be reused twice.
func (c *RenderPhaseCache) ConsumeWillRender(comp component.Component) *Node {
	node, ok := c.willRender[comp]
	if !ok {
		return nil
	}
	delete(c.willRender, comp)
	return node
}

// PutCachedNode records the sub-tree resolved for a component by an
// explicit measure call.
func (c *RenderPhaseCache) PutCachedNode(comp component.Component, node *Node) {
	if c.cachedNodes == nil {
		c.cachedNodes = make(map[component.Component]*Node)
	}
	c.cachedNodes[comp] = node
}

// CachedNode returns the sub-tree previously resolved for a component, or
// nil.
func (c *RenderPhaseCache) CachedNode(comp component.Component) *Node {
	return c.cachedNodes[comp]
}

// LayoutPhaseCache maps node identity to the layout result it was last
// measured into. It is scoped to one pass; the previous pass's committed
// results are seeded in as plain data at pass start.
type LayoutPhaseCache struct {
	results map[*Node]*LayoutResult
}

func newLayoutPhaseCache() *LayoutPhaseCache {
	return &LayoutPhaseCache{}
}

// Put stores the result measured for a node.
func (c *LayoutPhaseCache) Put(node *Node, result *LayoutResult) {
	if node == nil || result == nil {
		return
	}
	if c.results == nil {
		c.results = make(map[*Node]*LayoutResult)
	}
	c.results[node] = result
}

// Get returns the cached result for a node, or nil. Compatibility with the
// requested specs is the caller's concern.
func (c *LayoutPhaseCache) Get(node *Node) *LayoutResult {
	return c.results[node]
}

// Remove deletes the cached result for a node.
func (c *LayoutPhaseCache) Remove(node *Node) {
	delete(c.results, node)
}

// Seed installs the committed results of the previous pass. The map is
// copied; the previous pass's cache object is never shared.
func (c *LayoutPhaseCache) Seed(committed map[*Node]*LayoutResult) {
	if len(committed) == 0 {
		return
	}
	if c.results == nil {
		c.results = make(map[*Node]*LayoutResult, len(committed))
	}
	for node, result := range committed {
		c.results[node] = result
	}
}

// Snapshot returns a copy of the cache contents, handed forward to the
// next pass as plain data.
func (c *LayoutPhaseCache) Snapshot() map[*Node]*LayoutResult {
	out := make(map[*Node]*LayoutResult, len(c.results))
	for node, result := range c.results {
		out[node] = result
	}
	return out
}
