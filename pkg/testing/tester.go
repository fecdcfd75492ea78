// Package testing provides an isolated harness for component tests: it
// drives the same resolution and measurement phases as the engine against
// a fixed logical surface, with finders for locating resolved nodes.
package testing

import (
	"testing"

	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/config"
	"github.com/nextcore/tessera/pkg/engine"
	"github.com/nextcore/tessera/pkg/flex"
	"github.com/nextcore/tessera/pkg/resolve"
	"github.com/nextcore/tessera/pkg/sizespec"
)

const (
	// DefaultTestWidth is the default logical width for the test surface.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default logical height for the test surface.
	DefaultTestHeight = 600
)

// TreeTester resolves and measures component trees against a test surface,
// committing through a real engine so state updates, reconciliation and
// caching behave exactly as in production.
type TreeTester struct {
	engine *engine.Engine
	width  float64
	height float64
	root   component.Component
}

// NewTreeTester creates a tester with the default surface and the flex
// solver. A nil config uses defaults.
func NewTreeTester(cfg *config.Config) *TreeTester {
	return &TreeTester{
		engine: engine.New(cfg, flex.NewSolver()),
		width:  DefaultTestWidth,
		height: DefaultTestHeight,
	}
}

// NewTreeTesterWithT creates a tester tied to a test's lifetime. This is
// the recommended constructor for tests.
func NewTreeTesterWithT(t *testing.T) *TreeTester {
	t.Helper()
	return NewTreeTester(nil)
}

// SetSize sets the logical surface size. Takes effect on the next Pump.
func (t *TreeTester) SetSize(width, height float64) {
	t.width = width
	t.height = height
}

// Engine exposes the underlying engine for direct assertions.
func (t *TreeTester) Engine() *engine.Engine {
	return t.engine
}

// Pump resolves, measures and commits a root component, and remembers it
// for Repump.
func (t *TreeTester) Pump(root component.Component) *resolve.LayoutResult {
	t.root = root
	return t.engine.SetRoot(root, sizespec.MakeExact(t.width), sizespec.MakeExact(t.height))
}

// Repump runs another pass with the last pumped root, picking up any state
// updates enqueued since.
func (t *TreeTester) Repump() *resolve.LayoutResult {
	if t.root == nil {
		return nil
	}
	return t.Pump(t.root)
}

// UpdateState enqueues a state update; it applies on the next pump.
func (t *TreeTester) UpdateState(globalKey string, update resolve.StateUpdate) {
	t.engine.UpdateState(globalKey, update)
}

// Root returns the committed root node, or nil before the first pump.
func (t *TreeTester) Root() *resolve.Node {
	committed := t.engine.Committed()
	if committed == nil {
		return nil
	}
	return committed.Root
}

// Find evaluates a finder against the committed tree.
func (t *TreeTester) Find(f Finder) FinderResult {
	return FinderResult{nodes: f.Evaluate(t.Root()), finder: f}
}

// ResultFor returns the layout result measured for a node in the last
// committed pass, or nil when the node was never measured.
func (t *TreeTester) ResultFor(node *resolve.Node) *resolve.LayoutResult {
	committed := t.engine.Committed()
	if committed == nil || node == nil {
		return nil
	}
	return findResult(committed.Result, node)
}

func findResult(r *resolve.LayoutResult, node *resolve.Node) *resolve.LayoutResult {
	if r == nil {
		return nil
	}
	if r.Node() == node {
		return r
	}
	if found := findResult(r.NestedResult(), node); found != nil {
		return found
	}
	for _, child := range r.Children() {
		if found := findResult(child, node); found != nil {
			return found
		}
	}
	return nil
}
