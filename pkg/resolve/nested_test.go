package resolve_test

import (
	"sync/atomic"
	"testing"

	"github.com/nextcore/tessera/pkg/resolve"
	"github.com/nextcore/tessera/pkg/sizespec"
)

func TestDeferredResolutionWaitsForConstraints(t *testing.T) {
	var resolves, leafCalls atomic.Int64
	d := &deferredBox{ID: "d", ContentW: 40, ContentH: 30, Resolves: &resolves, LeafCalls: &leafCalls}

	ctx := newTestContext(resolve.Options{})
	holder := resolve.Resolve(ctx, rootScope(), d)
	if holder == nil {
		t.Fatal("deferred component did not resolve to a holder")
	}
	if !holder.IsDeferred() {
		t.Fatal("node is not a deferred holder")
	}
	if resolves.Load() != 0 {
		t.Fatalf("content resolved before constraints were known (%d calls)", resolves.Load())
	}

	result := resolve.MeasureTree(ctx, holder, sizespec.MakeAtMost(100), sizespec.MakeAtMost(100))
	if result == nil {
		t.Fatal("deferred measure returned nil")
	}
	if resolves.Load() != 1 {
		t.Fatalf("content resolves = %d, want 1", resolves.Load())
	}
	if result.Width() != 40 || result.Height() != 30 {
		t.Errorf("deferred size = %gx%g, want 40x30", result.Width(), result.Height())
	}
	if result.NestedResult() == nil {
		t.Error("holder result has no nested sub-tree result")
	}
}

func TestCompatibleDeferredRequestIsACacheHit(t *testing.T) {
	var resolves, leafCalls atomic.Int64
	d := &deferredBox{ID: "d", ContentW: 40, ContentH: 30, Resolves: &resolves, LeafCalls: &leafCalls}

	ctx := newTestContext(resolve.Options{})
	holder := resolve.Resolve(ctx, rootScope(), d)
	first := resolve.MeasureTree(ctx, holder, sizespec.MakeAtMost(100), sizespec.MakeAtMost(100))
	second := resolve.MeasureTree(ctx, holder, sizespec.MakeAtMost(100), sizespec.MakeAtMost(100))

	if second != first {
		t.Error("compatible repeat measure returned a different result object")
	}
	if resolves.Load() != 1 {
		t.Errorf("content resolves = %d, want 1", resolves.Load())
	}
	if leafCalls.Load() != 1 {
		t.Errorf("leaf measure calls = %d, want 1", leafCalls.Load())
	}
}

func TestIncompatibleDeferredRequestReflowsWithoutReresolving(t *testing.T) {
	var resolves, leafCalls atomic.Int64
	d := &deferredBox{ID: "d", ContentW: 40, ContentH: 30, Resolves: &resolves, LeafCalls: &leafCalls}

	ctx := newTestContext(resolve.Options{})
	holder := resolve.Resolve(ctx, rootScope(), d)
	resolve.MeasureTree(ctx, holder, sizespec.MakeAtMost(100), sizespec.MakeAtMost(100))

	// 30 is tighter than the measured 40, so the cached result cannot be
	// adopted; the structure is constraint-independent, so only a
	// remeasure runs.
	result := resolve.MeasureTree(ctx, holder, sizespec.MakeAtMost(30), sizespec.MakeAtMost(30))
	if result == nil {
		t.Fatal("reflow returned nil")
	}
	if resolves.Load() != 1 {
		t.Errorf("content resolves = %d, want 1 (reflow must not re-resolve)", resolves.Load())
	}
	if leafCalls.Load() != 2 {
		t.Errorf("leaf measure calls = %d, want 2", leafCalls.Load())
	}
	if result.Width() != 30 {
		t.Errorf("reflowed width = %g, want 30", result.Width())
	}
}

func TestNestedResolutionKeepsNodeIDsUnique(t *testing.T) {
	var resolves, leafCalls atomic.Int64
	d := &deferredBox{ID: "d", ContentW: 40, ContentH: 30, Resolves: &resolves, LeafCalls: &leafCalls}

	ctx := newTestContext(resolve.Options{})
	sc := rootScope()
	holder := resolve.Resolve(ctx, sc, d)
	result := resolve.MeasureTree(ctx, holder, sizespec.MakeAtMost(100), sizespec.MakeAtMost(100))
	if result == nil || result.NestedResult() == nil {
		t.Fatal("deferred measure produced no nested result")
	}
	nested := result.NestedResult().Node()
	later := resolve.Resolve(ctx, sc, &image{ID: "later", W: 5, H: 5})
	if later == nil {
		t.Fatal("post-measure resolution failed")
	}

	seen := map[int64]string{holder.ID(): "holder"}
	for name, node := range map[string]*resolve.Node{"nested": nested, "later": later} {
		if prev, ok := seen[node.ID()]; ok {
			t.Errorf("node ID %d issued to both %s and %s", node.ID(), prev, name)
		}
		seen[node.ID()] = name
	}
}

func TestDeferredContentReusesCommittedSizesAcrossPasses(t *testing.T) {
	var resolves, leafCalls atomic.Int64
	build := func() *deferredBox {
		return &deferredBox{ID: "d", ContentW: 40, ContentH: 30, Resolves: &resolves, LeafCalls: &leafCalls}
	}

	first := runPass(t, nil, build())
	if first.result.NestedResult() == nil {
		t.Fatal("holder result has no nested sub-tree result")
	}
	if got := leafCalls.Load(); got != 1 {
		t.Fatalf("leaf measure calls after first pass = %d, want 1", got)
	}

	second := runPass(t, first, build())
	if second.result.DiffNode() == nil {
		t.Error("second pass holder result carries no diff linkage")
	}
	if got := resolves.Load(); got != 2 {
		t.Errorf("content resolves = %d, want 2 (a fresh holder re-resolves)", got)
	}
	if got := leafCalls.Load(); got != 1 {
		t.Errorf("leaf measure calls = %d, want 1 (committed size should answer the repeat)", got)
	}
	if got := second.stats.LayoutDiffReuses.Load(); got == 0 {
		t.Error("no measurement was answered from the committed tree")
	}
}

func TestExactConstraintComponentIsReresolved(t *testing.T) {
	var resolves, leafCalls atomic.Int64
	d := &deferredBox{ID: "d", Exact: true, ContentW: 40, ContentH: 30, Resolves: &resolves, LeafCalls: &leafCalls}

	ctx := newTestContext(resolve.Options{})
	holder := resolve.Resolve(ctx, rootScope(), d)
	resolve.MeasureTree(ctx, holder, sizespec.MakeAtMost(100), sizespec.MakeAtMost(100))
	resolve.MeasureTree(ctx, holder, sizespec.MakeAtMost(30), sizespec.MakeAtMost(30))

	if resolves.Load() != 2 {
		t.Errorf("content resolves = %d, want 2 for a constraint-dependent component", resolves.Load())
	}
}
