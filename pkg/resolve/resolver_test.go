package resolve_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/errors"
	"github.com/nextcore/tessera/pkg/geometry"
	"github.com/nextcore/tessera/pkg/resolve"
	"github.com/nextcore/tessera/pkg/sizespec"
)

type captureHandler struct {
	resolutions []*errors.ResolutionError
	comparisons []*errors.ComparisonError
}

func (h *captureHandler) HandleResolution(err *errors.ResolutionError) {
	h.resolutions = append(h.resolutions, err)
}

func (h *captureHandler) HandleComparison(err *errors.ComparisonError) {
	h.comparisons = append(h.comparisons, err)
}

func installCapture(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func TestResolveBuildsDeclaredStructure(t *testing.T) {
	ctx := newTestContext(resolve.Options{})
	root := &box{ID: "root", Kids: []component.Component{
		&image{ID: "a", W: 10, H: 10},
		&image{ID: "b", W: 20, H: 20},
	}}

	tree := resolve.ResolveTree(ctx, root, nil)
	if tree.Partial {
		t.Fatal("uninterrupted pass returned a partial tree")
	}
	node := tree.Root
	if node == nil {
		t.Fatal("root did not resolve")
	}
	if got := node.ChildCount(); got != 2 {
		t.Fatalf("child count = %d, want 2", got)
	}
	if key := node.ChildAt(0).HeadKey(); key != "root,a" {
		t.Errorf("first child key = %q, want %q", key, "root,a")
	}
	if key := node.ChildAt(1).HeadKey(); key != "root,b" {
		t.Errorf("second child key = %q, want %q", key, "root,b")
	}
}

func TestDelegationStacksScopes(t *testing.T) {
	ctx := newTestContext(resolve.Options{})
	inner := &box{ID: "inner"}
	root := &render{ID: "outer", Body: func(sc *component.ScopedContext) component.Component {
		return inner
	}}

	node := resolve.Resolve(ctx, rootScope(), root)
	if node == nil {
		t.Fatal("delegating root did not resolve")
	}
	if got := node.ScopeCount(); got != 2 {
		t.Fatalf("scope count = %d, want 2", got)
	}
	if head := node.HeadComponent(); head != component.Component(root) {
		t.Errorf("head component = %v, want the delegating root", component.Name(head))
	}
	if tail := node.TailComponent(); tail != component.Component(inner) {
		t.Errorf("tail component = %v, want the rendered box", component.Name(tail))
	}
}

func TestDelegationToNilResolvesToNothing(t *testing.T) {
	ctx := newTestContext(resolve.Options{})
	root := &render{ID: "empty", Body: func(sc *component.ScopedContext) component.Component {
		return nil
	}}
	if node := resolve.Resolve(ctx, rootScope(), root); node != nil {
		t.Fatalf("nil render produced a node: %v", node)
	}
}

func TestResolutionFailureIsolatesSubtree(t *testing.T) {
	h := installCapture(t)
	ctx := newTestContext(resolve.Options{})
	root := &box{ID: "root", Kids: []component.Component{
		&render{ID: "bad", Body: func(sc *component.ScopedContext) component.Component {
			panic("render exploded")
		}},
		&image{ID: "ok", W: 5, H: 5},
	}}

	node := resolve.Resolve(ctx, rootScope(), root)
	if node == nil {
		t.Fatal("root collapsed with the failing child")
	}
	if got := node.ChildCount(); got != 1 {
		t.Fatalf("child count = %d, want 1 (failed subtree dropped)", got)
	}
	if key := node.ChildAt(0).HeadKey(); key != "root,ok" {
		t.Errorf("surviving child key = %q", key)
	}
	if len(h.resolutions) != 1 {
		t.Fatalf("reported resolution errors = %d, want 1", len(h.resolutions))
	}
	if h.resolutions[0].Component != "render" {
		t.Errorf("reported component = %q", h.resolutions[0].Component)
	}
	if len(h.resolutions[0].Hierarchy) == 0 {
		t.Error("reported error carries no hierarchy")
	}
}

func TestStatefulComponentSeesResolvedState(t *testing.T) {
	state := resolve.NewTreeState()
	c := &counter{ID: "counter", Initial: 3}

	ctx := newTestContext(resolve.Options{TreeState: state})
	node := resolve.Resolve(ctx, rootScope(), c)
	if node == nil {
		t.Fatal("counter did not resolve")
	}
	text := node.ChildAt(0)
	lbl, ok := text.TailComponent().(*label)
	if !ok {
		t.Fatalf("first child is %T, want *label", text.TailComponent())
	}
	if lbl.Value != "3" {
		t.Errorf("label value = %q, want %q", lbl.Value, "3")
	}
}

func TestWillRenderNodeIsConsumedExactlyOnce(t *testing.T) {
	ctx := newTestContext(resolve.Options{})
	sc := rootScope()
	img := &image{ID: "probe", W: 8, H: 8}

	if !resolve.WillRender(ctx, sc, img) {
		t.Fatal("WillRender = false for a resolvable component")
	}
	before := ctx.Stats().Resolutions.Load()
	first := resolve.Resolve(ctx, sc, img)
	if first == nil {
		t.Fatal("consuming resolve returned nil")
	}
	if got := ctx.Stats().Resolutions.Load(); got != before {
		t.Errorf("consuming resolve re-resolved the component (%d -> %d)", before, got)
	}
	if hits := ctx.Stats().RenderCacheHits.Load(); hits != 1 {
		t.Errorf("render cache hits = %d, want 1", hits)
	}
}

// banner is a leaf that animates and subscribes to working ranges.
type banner struct {
	ID string
}

func (b *banner) Key() string          { return b.ID }
func (b *banner) Kind() component.Kind { return component.KindLeaf }

func (b *banner) Measure(sc *component.ScopedContext, w, h sizespec.Spec) geometry.Size {
	return geometry.Size{Width: w.Resolve(30), Height: h.Resolve(10)}
}

func (b *banner) CreateTransition(sc *component.ScopedContext) *component.Transition {
	return &component.Transition{Key: b.ID, Property: "alpha", Duration: 120 * time.Millisecond}
}

func (b *banner) WorkingRanges(sc *component.ScopedContext) []component.WorkingRange {
	return []component.WorkingRange{{Name: "prefetch"}, {Name: "visible"}}
}

func TestPostProcessingRegistersTransitionsAndWorkingRanges(t *testing.T) {
	ctx := newTestContext(resolve.Options{})
	root := &box{ID: "root", Kids: []component.Component{&banner{ID: "hero"}}}

	node := resolve.Resolve(ctx, rootScope(), root)
	if node == nil || node.ChildCount() != 1 {
		t.Fatal("root did not resolve its child")
	}
	child := node.ChildAt(0)

	transitions := child.Transitions()
	if len(transitions) != 1 {
		t.Fatalf("registered transitions = %d, want 1", len(transitions))
	}
	if transitions[0].Property != "alpha" || transitions[0].Key != "hero" {
		t.Errorf("transition = %+v, want alpha/hero", transitions[0])
	}

	ranges := child.WorkingRanges()
	if len(ranges) != 2 {
		t.Fatalf("working-range registrations = %d, want 2", len(ranges))
	}
	for _, r := range ranges {
		if r.GlobalKey != "root,hero" {
			t.Errorf("registration key = %q, want %q", r.GlobalKey, "root,hero")
		}
	}
	if ranges[0].Range.Name != "prefetch" || ranges[1].Range.Name != "visible" {
		t.Errorf("range names = %q, %q", ranges[0].Range.Name, ranges[1].Range.Name)
	}

	if len(node.Transitions()) != 0 || len(node.WorkingRanges()) != 0 {
		t.Error("registrations leaked onto the container node")
	}
}

func TestSiblingKeyCollisionIsFatal(t *testing.T) {
	ctx := newTestContext(resolve.Options{})
	root := &box{ID: "root", Kids: []component.Component{
		&image{ID: "dup", W: 1, H: 1},
		&image{ID: "dup", W: 2, H: 2},
	}}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("colliding keys did not panic")
		}
		if _, ok := r.(*errors.LifecycleError); !ok {
			t.Fatalf("panic value = %T, want *errors.LifecycleError", r)
		}
	}()
	resolve.Resolve(ctx, rootScope(), root)
}

func TestResolutionIsIdempotent(t *testing.T) {
	build := func() component.Component {
		return &box{ID: "root", Kids: []component.Component{
			&box{ID: "left", Kids: []component.Component{&image{ID: "a", W: 10, H: 10}}},
			&image{ID: "b", W: 20, H: 20},
		}}
	}
	w, h := exactPair(100, 100)

	run := func() (*resolve.Node, *resolve.LayoutResult) {
		ctx := newTestContext(resolve.Options{})
		tree := resolve.ResolveTree(ctx, build(), nil)
		return tree.Root, resolve.MeasureTree(ctx, tree.Root, w, h)
	}
	root1, res1 := run()
	root2, res2 := run()

	var compare func(t *testing.T, a, b *resolve.Node)
	compare = func(t *testing.T, a, b *resolve.Node) {
		t.Helper()
		if a.HeadKey() != b.HeadKey() {
			t.Fatalf("keys diverge: %q vs %q", a.HeadKey(), b.HeadKey())
		}
		if a.ChildCount() != b.ChildCount() {
			t.Fatalf("child counts diverge at %q", a.HeadKey())
		}
		for i := 0; i < a.ChildCount(); i++ {
			compare(t, a.ChildAt(i), b.ChildAt(i))
		}
	}
	compare(t, root1, root2)
	if res1.Width() != res2.Width() || res1.Height() != res2.Height() {
		t.Errorf("measured sizes diverge: %gx%g vs %gx%g",
			res1.Width(), res1.Height(), res2.Width(), res2.Height())
	}
}

func TestMeasureComponentParksNodeForRealResolution(t *testing.T) {
	ctx := newTestContext(resolve.Options{})
	sc := rootScope()
	var measures atomic.Int64
	img := &image{ID: "early", W: 12, H: 12, Measures: &measures}

	result := resolve.MeasureComponent(ctx, sc, img, sizespec.MakeExact(12), sizespec.MakeExact(12))
	if result == nil {
		t.Fatal("early measure returned nil")
	}
	node := resolve.Resolve(ctx, sc, img)
	if node == nil {
		t.Fatal("real resolution returned nil")
	}
	if measures.Load() != 1 {
		t.Errorf("measure calls = %d, want 1", measures.Load())
	}
	again := resolve.MeasureTree(ctx, node, sizespec.MakeExact(12), sizespec.MakeExact(12))
	if again != result {
		t.Error("compatible remeasure did not return the cached result")
	}
	if measures.Load() != 1 {
		t.Errorf("measure calls after cached remeasure = %d, want 1", measures.Load())
	}
}
