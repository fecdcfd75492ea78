package testing_test

import (
	stdtesting "testing"

	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/flex"
	"github.com/nextcore/tessera/pkg/geometry"
	"github.com/nextcore/tessera/pkg/sizespec"
	tessera "github.com/nextcore/tessera/pkg/testing"
)

// tile is a leaf with a fixed size, optionally driven by its state.
type tile struct {
	ID       string
	W, H     float64
	Stateful bool
}

func (c *tile) Key() string          { return c.ID }
func (c *tile) Kind() component.Kind { return component.KindLeaf }

func (c *tile) InitialState() any {
	if !c.Stateful {
		return nil
	}
	return int(c.W)
}

func (c *tile) Measure(sc *component.ScopedContext, w, h sizespec.Spec) geometry.Size {
	width := c.W
	if c.Stateful {
		if v, ok := sc.State().(int); ok {
			width = float64(v)
		}
	}
	return geometry.Size{Width: w.Resolve(width), Height: h.Resolve(c.H)}
}

func TestPumpCommitsAndFindsNodes(t *stdtesting.T) {
	tester := tessera.NewTreeTesterWithT(t)
	result := tester.Pump(&flex.Column{ID: "col", Children: []component.Component{
		&tile{ID: "a", W: 10, H: 10},
		&tile{ID: "b", W: 20, H: 20},
	}})
	if result == nil {
		t.Fatal("pump produced no result")
	}

	if got := tester.Find(tessera.ByType(&tile{})).Count(); got != 2 {
		t.Fatalf("tiles found = %d, want 2", got)
	}
	node := tester.Find(tessera.ByKey("col,b")).First()
	measured := tester.ResultFor(node)
	if measured == nil {
		t.Fatal("no layout result for found node")
	}
	if measured.Width() != 20 || measured.Height() != 20 {
		t.Errorf("found node = %gx%g, want 20x20", measured.Width(), measured.Height())
	}
}

func TestMissingNodeReturnsNilNotPanic(t *stdtesting.T) {
	tester := tessera.NewTreeTesterWithT(t)
	tester.Pump(&tile{ID: "solo", W: 5, H: 5})
	if node := tester.Find(tessera.ByKey("absent")).FirstOrNil(); node != nil {
		t.Errorf("found unexpected node %q", node.HeadKey())
	}
}

func TestUpdateStateAppliesOnRepump(t *stdtesting.T) {
	tester := tessera.NewTreeTesterWithT(t)
	tester.SetSize(100, 100)
	tester.Pump(&flex.Column{ID: "col", Children: []component.Component{
		&tile{ID: "g", W: 10, H: 10, Stateful: true},
	}})

	tester.UpdateState("col,g", func(prev any) any { return prev.(int) + 30 })
	tester.Repump()

	node := tester.Find(tessera.ByKey("col,g")).First()
	measured := tester.ResultFor(node)
	if measured.Width() != 40 {
		t.Errorf("width after update = %g, want 40", measured.Width())
	}
}
