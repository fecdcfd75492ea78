package resolve

import (
	"strings"
	"sync/atomic"

	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/config"
	"github.com/nextcore/tessera/pkg/errors"
	"github.com/nextcore/tessera/pkg/perf"
)

// Options configures a resolution pass.
type Options struct {
	// Config toggles engine behaviour; nil means defaults.
	Config *config.Config
	// TreeState carries component state across passes. nil creates a
	// fresh, empty state.
	TreeState *TreeState
	// Future is the handle for the pass, carrying the interruption
	// handshake. nil makes the pass uninterruptible.
	Future *TreeFuture
	// Solver performs the layout-phase measurement of resolved trees.
	Solver Solver
	// Stats receives activity counters; nil allocates a private set.
	Stats *Stats
	// CurrentDiff is the committed tree's diff root, enabling
	// reconciliation and size-spec reuse. nil forces a full resolve.
	CurrentDiff *DiffNode
	// RootProps seeds the tree props visible at the root scope.
	RootProps component.TreeProps
	// Perf is the event covering the pass, or nil.
	Perf *perf.Event
}

// Context owns everything scoped to a single resolution pass: the
// per-pass caches, node identity, global-key registry, and the
// interruption and release lifecycle. It is created when a pass starts
// and released exactly once when the pass's output is committed or
// discarded. Any use after release is a bug in the caller and panics
// with a LifecycleError carrying the pass's event history.
type Context struct {
	cfg       *config.Config
	treeState *TreeState
	future    *TreeFuture
	solver    Solver
	stats     *Stats
	diff      *DiffNode
	rootProps component.TreeProps
	perfEvent *perf.Event

	renderCache *RenderPhaseCache
	layoutCache *LayoutPhaseCache
	log         *LifecycleLog

	nodeID        *atomic.Int64
	globalKeys    map[string]component.Component
	interruptible bool
	released      atomic.Bool

	// Diff slot handed from a deferred holder to the nested pass it spawns.
	nestedDiff *DiffNode

	// Lazy index of the committed diff tree by global key.
	diffIndex map[string]*DiffNode
}

// NewContext creates the context for one pass.
func NewContext(opts Options) *Context {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.TreeState == nil {
		opts.TreeState = NewTreeState()
	}
	if opts.Stats == nil {
		opts.Stats = &Stats{}
	}
	ctx := &Context{
		cfg:           opts.Config,
		treeState:     opts.TreeState,
		future:        opts.Future,
		solver:        opts.Solver,
		stats:         opts.Stats,
		diff:          opts.CurrentDiff,
		rootProps:     opts.RootProps,
		perfEvent:     opts.Perf,
		renderCache:   newRenderPhaseCache(),
		layoutCache:   newLayoutPhaseCache(),
		log:           NewLifecycleLog(),
		nodeID:        new(atomic.Int64),
		globalKeys:    make(map[string]component.Component),
		interruptible: opts.Config.InterruptionEnabled() && opts.Future != nil,
	}
	ctx.log.Record("context created (interruptible=%v)", ctx.interruptible)
	return ctx
}

func (c *Context) checkAlive(op string) {
	if c.released.Load() {
		panic(&errors.LifecycleError{
			Op:      op,
			Reason:  "context used after release",
			History: strings.Join(c.log.History(), "\n"),
		})
	}
}

// TreeState returns the state shared across passes.
func (c *Context) TreeState() *TreeState {
	c.checkAlive("resolve.Context.TreeState")
	return c.treeState
}

// RenderCache returns the pass's render-phase cache.
func (c *Context) RenderCache() *RenderPhaseCache {
	c.checkAlive("resolve.Context.RenderCache")
	return c.renderCache
}

// LayoutCache returns the pass's layout-phase cache.
func (c *Context) LayoutCache() *LayoutPhaseCache {
	c.checkAlive("resolve.Context.LayoutCache")
	return c.layoutCache
}

// Diff returns the committed tree's diff root, or nil.
func (c *Context) Diff() *DiffNode {
	c.checkAlive("resolve.Context.Diff")
	return c.diff
}

// Config returns the engine configuration.
func (c *Context) Config() *config.Config {
	return c.cfg
}

// Solver returns the layout solver for the pass, or nil.
func (c *Context) Solver() Solver {
	return c.solver
}

// Stats returns the activity counters.
func (c *Context) Stats() *Stats {
	return c.stats
}

// Perf returns the event covering the pass, or nil.
func (c *Context) Perf() *perf.Event {
	return c.perfEvent
}

// Future returns the pass handle, or nil.
func (c *Context) Future() *TreeFuture {
	return c.future
}

// RootProps returns the tree props seeded at the root scope.
func (c *Context) RootProps() component.TreeProps {
	return c.rootProps
}

// Log returns the pass's lifecycle event log.
func (c *Context) Log() *LifecycleLog {
	return c.log
}

// Interrupted reports whether the pass should park now: it is
// interruptible, still running in the background, and an interrupt has
// been requested.
func (c *Context) Interrupted() bool {
	if !c.interruptible || c.future == nil {
		return false
	}
	if c.future.OnForeground() {
		return false
	}
	return c.future.InterruptRequested()
}

// IsInterruptible reports whether the pass may still be parked.
func (c *Context) IsInterruptible() bool {
	return c.interruptible
}

// MarkUninterruptible pins the pass: from now on interrupt requests are
// ignored. Called once the pass's output is complete, and by nested
// passes that must run to completion.
func (c *Context) MarkUninterruptible() {
	if c.interruptible {
		c.interruptible = false
		c.log.Record("marked uninterruptible")
	}
}

// AttachToForeground moves the pass to the foreground thread, clearing
// any pending interrupt effect so resumption runs to completion.
func (c *Context) AttachToForeground() {
	if c.future != nil {
		c.future.MoveToForeground()
	}
	c.log.Record("attached to foreground")
}

// Release ends the pass. The per-pass caches are dropped and any further
// use of the context panics. Releasing twice is itself a lifecycle
// violation and panics.
func (c *Context) Release() {
	if !c.released.CompareAndSwap(false, true) {
		panic(&errors.LifecycleError{
			Op:      "resolve.Context.Release",
			Reason:  "context released twice",
			History: strings.Join(c.log.History(), "\n"),
		})
	}
	c.log.Record("context released")
	c.renderCache = nil
	c.layoutCache = nil
}

// Released reports whether the pass has ended.
func (c *Context) Released() bool {
	return c.released.Load()
}

// forNestedPass derives the context a nested resolution runs under. It
// shares the pass's state, caches, counters, node-ID source and log, but
// carries a fresh global-key registry: the nested content may be resolved
// more than once per pass (measure, then layout) under the same keys, and
// that is not a collision. Nested passes are never interruptible.
func (c *Context) forNestedPass() *Context {
	c.checkAlive("resolve.Context.forNestedPass")
	return &Context{
		cfg:         c.cfg,
		treeState:   c.treeState,
		future:      c.future,
		solver:      c.solver,
		stats:       c.stats,
		diff:        c.diff,
		rootProps:   c.rootProps,
		perfEvent:   c.perfEvent,
		renderCache: c.renderCache,
		layoutCache: c.layoutCache,
		log:         c.log,
		nodeID:      c.nodeID,
		globalKeys:  make(map[string]component.Component),
		diffIndex:   c.diffIndex,
	}
}

// nextNodeID issues a pass-unique node identifier.
func (c *Context) nextNodeID() int64 {
	return c.nodeID.Add(1)
}

// registerGlobalKey records a resolved component under its global key.
// Two live components with the same key would silently share state, so a
// collision panics immediately.
func (c *Context) registerGlobalKey(key string, comp component.Component) {
	if prev, ok := c.globalKeys[key]; ok {
		panic(&errors.LifecycleError{
			Op: "resolve.Context.registerGlobalKey",
			Reason: "global key collision: " + key +
				" claimed by both " + component.Name(prev) + " and " + component.Name(comp),
			History: strings.Join(c.log.History(), "\n"),
		})
	}
	c.globalKeys[key] = comp
}

// diffFor returns the committed diff node for a global key, or nil. The
// index over the diff tree is built on first use and shared with nested
// passes derived afterwards.
func (c *Context) diffFor(key string) *DiffNode {
	if key == "" {
		return nil
	}
	root := c.Diff()
	if root == nil {
		return nil
	}
	if c.diffIndex == nil {
		c.diffIndex = make(map[string]*DiffNode)
		indexDiffTree(root, c.diffIndex)
	}
	return c.diffIndex[key]
}

func indexDiffTree(d *DiffNode, into map[string]*DiffNode) {
	if d == nil {
		return
	}
	if d.scope != nil {
		into[d.scope.GlobalKey()] = d
	}
	for _, child := range d.children {
		indexDiffTree(child, into)
	}
}

// SetNestedDiff parks the diff sub-tree a deferred holder carries for the
// nested pass it is about to spawn.
func (c *Context) SetNestedDiff(diff *DiffNode) {
	c.nestedDiff = diff
}

// ConsumeNestedDiff takes the parked diff sub-tree, clearing the slot.
func (c *Context) ConsumeNestedDiff() *DiffNode {
	diff := c.nestedDiff
	c.nestedDiff = nil
	return diff
}
