package flex

import (
	"github.com/nextcore/tessera/pkg/component"
)

// Column stacks its children vertically.
type Column struct {
	ID       string
	Style    component.CommonProps
	Children []component.Component
}

// Key implements component.Component.
func (c *Column) Key() string { return c.ID }

// Kind implements component.Component.
func (c *Column) Kind() component.Kind { return component.KindContainer }

// ChildComponents implements resolve.ContainerComponent.
func (c *Column) ChildComponents(sc *component.ScopedContext) []component.Component {
	return c.Children
}

// CommonProps implements component.HasCommonProps.
func (c *Column) CommonProps() *component.CommonProps {
	style := c.Style
	style.Direction = component.Column
	return &style
}

// Row places its children horizontally.
type Row struct {
	ID       string
	Style    component.CommonProps
	Children []component.Component
}

// Key implements component.Component.
func (r *Row) Key() string { return r.ID }

// Kind implements component.Component.
func (r *Row) Kind() component.Kind { return component.KindContainer }

// ChildComponents implements resolve.ContainerComponent.
func (r *Row) ChildComponents(sc *component.ScopedContext) []component.Component {
	return r.Children
}

// CommonProps implements component.HasCommonProps.
func (r *Row) CommonProps() *component.CommonProps {
	style := r.Style
	style.Direction = component.Row
	return &style
}
