// Package engine drives resolution passes end to end: it schedules
// background passes, arbitrates the foreground takeover, commits results,
// and carries the committed tree, diff and cache contents into the next
// pass.
package engine

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/config"
	"github.com/nextcore/tessera/pkg/perf"
	"github.com/nextcore/tessera/pkg/resolve"
	"github.com/nextcore/tessera/pkg/sizespec"
)

// Committed is the published output of a pass: immutable and freely
// shared for reads.
type Committed struct {
	Version int
	Root    *resolve.Node
	Result  *resolve.LayoutResult
	Diff    *resolve.DiffNode

	layoutSeed map[*resolve.Node]*resolve.LayoutResult
}

type inflight struct {
	future *resolve.TreeFuture
	ctx    *resolve.Context
	root   component.Component
	width  sizespec.Spec
	height sizespec.Spec
}

// Engine owns one component tree: its state, its committed result, and at
// most one in-flight background pass.
type Engine struct {
	cfg    *config.Config
	solver resolve.Solver

	mu        sync.Mutex
	treeState *resolve.TreeState
	stats     *resolve.Stats
	version   int
	committed *Committed
	pending   *inflight
	rootProps component.TreeProps
}

// New creates an engine with the given configuration and solver. A nil
// config uses defaults.
func New(cfg *config.Config, solver resolve.Solver) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{
		cfg:       cfg,
		solver:    solver,
		treeState: resolve.NewTreeState(),
		stats:     &resolve.Stats{},
	}
}

// SetRootProps seeds the tree props visible at the root of future passes.
func (e *Engine) SetRootProps(props component.TreeProps) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rootProps = props
}

// Stats returns the engine's activity counters.
func (e *Engine) Stats() *resolve.Stats {
	return e.stats
}

// Committed returns the last committed pass output, or nil before the
// first commit.
func (e *Engine) Committed() *Committed {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed
}

// UpdateState enqueues a state update for the component with the given
// global key. It takes effect in the next pass.
func (e *Engine) UpdateState(globalKey string, update resolve.StateUpdate) {
	e.treeState.Enqueue(globalKey, update)
}

// SetRoot resolves and measures a new root synchronously and commits the
// result.
func (e *Engine) SetRoot(root component.Component, widthSpec, heightSpec sizespec.Spec) *resolve.LayoutResult {
	ctx, current, ev := e.beginPass(nil)
	tree := resolve.ResolveTree(ctx, root, current)
	if tree == nil || tree.Root == nil {
		ctx.Release()
		ev.End()
		return nil
	}
	result := resolve.MeasureTree(ctx, tree.Root, widthSpec, heightSpec)
	e.commit(ctx, tree, result, ev)
	return result
}

// SetRootAsync starts a background pass for a new root. The returned
// future completes when the pass either finishes (and is committed) or
// parks on an interrupt; a parked pass is finished by the next
// ResolveSync call.
func (e *Engine) SetRootAsync(root component.Component, widthSpec, heightSpec sizespec.Spec) *resolve.TreeFuture {
	e.mu.Lock()
	e.version++
	future := resolve.NewTreeFuture(e.version)
	e.mu.Unlock()

	ctx, current, ev := e.beginPass(future)
	e.mu.Lock()
	e.pending = &inflight{future: future, ctx: ctx, root: root, width: widthSpec, height: heightSpec}
	e.mu.Unlock()

	go func() {
		tree := resolve.ResolveTree(ctx, root, current)
		if tree != nil && tree.Partial {
			// Hand the partial tree to whoever interrupted us.
			future.Complete(tree, nil)
			return
		}
		if tree == nil || tree.Root == nil {
			e.abandon(ctx, future, ev)
			future.Complete(tree, nil)
			return
		}
		result := resolve.MeasureTree(ctx, tree.Root, widthSpec, heightSpec)
		e.commit(ctx, tree, result, ev)
		future.Complete(tree, nil)
	}()
	return future
}

// ResolveSync produces a committed result for the foreground thread. A
// running background pass is interrupted, its partial tree adopted,
// resumed to completion on this thread, then measured and committed. With
// nothing in flight a plain synchronous pass runs.
func (e *Engine) ResolveSync(root component.Component, widthSpec, heightSpec sizespec.Spec) *resolve.LayoutResult {
	e.mu.Lock()
	pending := e.pending
	e.mu.Unlock()

	if pending != nil && !pending.future.Released() {
		pending.future.RequestInterrupt()
		tree, _ := pending.future.Wait()
		if tree != nil && tree.Partial {
			pending.ctx.AttachToForeground()
			resolve.ResumeTree(pending.ctx, tree.Root)
			result := resolve.MeasureTree(pending.ctx, tree.Root, widthSpec, heightSpec)
			e.commit(pending.ctx, tree, result, nil)
			return result
		}
		// The background pass won the race and committed; the fresh pass
		// below reconciles against its output.
	}
	return e.SetRoot(root, widthSpec, heightSpec)
}

// Abandon releases a parked background pass without committing it.
func (e *Engine) Abandon(future *resolve.TreeFuture) {
	e.mu.Lock()
	pending := e.pending
	if pending != nil && pending.future == future {
		e.pending = nil
	} else {
		pending = nil
	}
	e.mu.Unlock()
	if pending != nil {
		future.Release()
		pending.ctx.Release()
	}
}

// beginPass builds the context for a new pass, seeded with the committed
// diff tree and layout results.
func (e *Engine) beginPass(future *resolve.TreeFuture) (*resolve.Context, *resolve.Node, *perf.Event) {
	e.mu.Lock()
	committed := e.committed
	props := e.rootProps
	e.mu.Unlock()

	var ev *perf.Event
	if e.cfg.Debug.PerfTracing {
		version := 0
		if future != nil {
			version = future.Version()
		}
		_, ev = perf.Begin(context.Background(), "tessera.pass",
			attribute.Int("pass.version", version))
	}

	var diff *resolve.DiffNode
	var current *resolve.Node
	if committed != nil {
		diff = committed.Diff
		current = committed.Root
	}
	ctx := resolve.NewContext(resolve.Options{
		Config:      e.cfg,
		TreeState:   e.treeState,
		Future:      future,
		Solver:      e.solver,
		Stats:       e.stats,
		CurrentDiff: diff,
		RootProps:   props,
		Perf:        ev,
	})
	if committed != nil {
		ctx.LayoutCache().Seed(committed.layoutSeed)
	}
	return ctx, current, ev
}

// commit publishes a pass result, promotes its state, dispatches attach
// and detach callbacks, and releases the pass context.
func (e *Engine) commit(ctx *resolve.Context, tree *resolve.ResolvedTree, result *resolve.LayoutResult, ev *perf.Event) {
	e.mu.Lock()
	previous := e.committed
	e.treeState.Commit()
	e.version++
	next := &Committed{
		Version:    e.version,
		Root:       tree.Root,
		Result:     result,
		Diff:       resolve.NewDiffTree(result),
		layoutSeed: ctx.LayoutCache().Snapshot(),
	}
	e.committed = next
	e.pending = nil
	e.mu.Unlock()

	dispatchAttachments(previous, next)
	ctx.Release()
	if result != nil {
		ev.Annotate(
			attribute.Int("pass.committed_version", next.Version),
			attribute.Float64("pass.root_width", result.Width()),
			attribute.Float64("pass.root_height", result.Height()),
		)
	}
	ev.End()
}

// abandon discards a failed pass without publishing anything.
func (e *Engine) abandon(ctx *resolve.Context, future *resolve.TreeFuture, ev *perf.Event) {
	e.mu.Lock()
	if e.pending != nil && e.pending.future == future {
		e.pending = nil
	}
	e.mu.Unlock()
	ctx.Release()
	ev.End()
}
