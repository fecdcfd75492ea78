package resolve_test

import (
	"sync/atomic"

	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/geometry"
	"github.com/nextcore/tessera/pkg/resolve"
	"github.com/nextcore/tessera/pkg/sizespec"
)

// box is a plain container component.
type box struct {
	ID    string
	Style component.CommonProps
	Kids  []component.Component
}

func (b *box) Key() string          { return b.ID }
func (b *box) Kind() component.Kind { return component.KindContainer }
func (b *box) ChildComponents(sc *component.ScopedContext) []component.Component {
	return b.Kids
}
func (b *box) CommonProps() *component.CommonProps {
	style := b.Style
	return &style
}

// label is a unit-backed leaf with a fixed size. Measure calls are counted
// through the shared counter so tests can assert cache behaviour.
type label struct {
	ID       string
	Value    string
	W, H     float64
	Measures *atomic.Int64
}

func (l *label) Key() string          { return l.ID }
func (l *label) Kind() component.Kind { return component.KindLeaf }

func (l *label) Prepare(sc *component.ScopedContext) resolve.PrepareResult {
	return resolve.PrepareResult{Unit: &labelUnit{value: l.Value}}
}

func (l *label) Measure(sc *component.ScopedContext, w, h sizespec.Spec) geometry.Size {
	if l.Measures != nil {
		l.Measures.Add(1)
	}
	return geometry.Size{Width: w.Resolve(l.W), Height: h.Resolve(l.H)}
}

type labelUnit struct{ value string }

func (u *labelUnit) RenderType() string { return "label" }

// image is a leaf with no render unit, so reconciliation may reuse it.
type image struct {
	ID       string
	W, H     float64
	Measures *atomic.Int64
}

func (i *image) Key() string          { return i.ID }
func (i *image) Kind() component.Kind { return component.KindLeaf }

func (i *image) Measure(sc *component.ScopedContext, w, h sizespec.Spec) geometry.Size {
	if i.Measures != nil {
		i.Measures.Add(1)
	}
	return geometry.Size{Width: w.Resolve(i.W), Height: h.Resolve(i.H)}
}

// render wraps a render function into a delegating component.
type render struct {
	ID   string
	Body func(sc *component.ScopedContext) component.Component
}

func (r *render) Key() string          { return r.ID }
func (r *render) Kind() component.Kind { return component.KindDelegating }
func (r *render) Render(sc *component.ScopedContext) component.Component {
	return r.Body(sc)
}

// counter is a stateful delegating component holding an int, rendering a
// box with a state-bound label and a static image.
type counter struct {
	ID           string
	Initial      int
	TextMeasures *atomic.Int64
	IconMeasures *atomic.Int64
}

func (c *counter) Key() string          { return c.ID }
func (c *counter) Kind() component.Kind { return component.KindDelegating }
func (c *counter) InitialState() any    { return c.Initial }

func (c *counter) Render(sc *component.ScopedContext) component.Component {
	count, _ := sc.State().(int)
	return &box{ID: "body", Kids: []component.Component{
		&label{ID: "text", Value: string(rune('0' + count)), W: 20, H: 10, Measures: c.TextMeasures},
		&image{ID: "icon", W: 32, H: 32, Measures: c.IconMeasures},
	}}
}

// deferredBox is resolved only once real constraints are known.
type deferredBox struct {
	ID        string
	Exact     bool
	Resolves  *atomic.Int64
	ContentW  float64
	ContentH  float64
	LeafCalls *atomic.Int64
}

func (d *deferredBox) Key() string { return d.ID }

func (d *deferredBox) Kind() component.Kind { return component.KindDeferred }

func (d *deferredBox) RequiresExactConstraints() bool { return d.Exact }

func (d *deferredBox) ResolveWithConstraints(sc *component.ScopedContext, w, h sizespec.Spec) component.Component {
	if d.Resolves != nil {
		d.Resolves.Add(1)
	}
	return &image{ID: "content", W: d.ContentW, H: d.ContentH, Measures: d.LeafCalls}
}

func newTestContext(opts resolve.Options) *resolve.Context {
	return resolve.NewContext(opts)
}

func rootScope() *component.ScopedContext {
	return component.NewRootScope(component.TreeProps{})
}

func exactPair(w, h float64) (sizespec.Spec, sizespec.Spec) {
	return sizespec.MakeExact(w), sizespec.MakeExact(h)
}
