package text

import (
	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/geometry"
	"github.com/nextcore/tessera/pkg/resolve"
	"github.com/nextcore/tessera/pkg/sizespec"
)

// Unit is the pre-resolved renderable for a block of text.
type Unit struct {
	Layout *Layout
}

// RenderType implements resolve.RenderUnit.
func (u *Unit) RenderType() string { return "text" }

// Text is a leaf component that measures a string against a font face.
// A nil Face uses the bundled default.
type Text struct {
	ID    string
	Value string
	Style component.CommonProps

	// Measurer overrides the default face, mainly for tests.
	Measurer *Measurer
}

// Key implements component.Component.
func (t *Text) Key() string { return t.ID }

// Kind implements component.Component.
func (t *Text) Kind() component.Kind { return component.KindLeaf }

// CommonProps implements component.HasCommonProps.
func (t *Text) CommonProps() *component.CommonProps {
	style := t.Style
	return &style
}

func (t *Text) measurer() *Measurer {
	if t.Measurer != nil {
		return t.Measurer
	}
	return Default()
}

// Prepare implements resolve.Preparer: the unwrapped layout becomes the
// render unit, so mounting never remeasures.
func (t *Text) Prepare(sc *component.ScopedContext) resolve.PrepareResult {
	return resolve.PrepareResult{Unit: &Unit{Layout: t.measurer().Layout(t.Value, 0)}}
}

// Measure implements resolve.Measurable, wrapping against the width
// constraint when one is given.
func (t *Text) Measure(sc *component.ScopedContext, widthSpec, heightSpec sizespec.Spec) geometry.Size {
	maxWidth := 0.0
	if !widthSpec.IsUnspecified() {
		maxWidth = widthSpec.Size
	}
	layout := t.measurer().Layout(t.Value, maxWidth)
	return geometry.Size{
		Width:  widthSpec.Resolve(layout.Size.Width),
		Height: heightSpec.Resolve(layout.Size.Height),
	}
}
