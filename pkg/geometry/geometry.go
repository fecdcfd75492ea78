// Package geometry provides the basic value types shared by measurement
// and layout: sizes and offsets in logical pixels.
package geometry

import "fmt"

// Size is a width/height pair in logical pixels.
type Size struct {
	Width  float64
	Height float64
}

func (s Size) String() string {
	return fmt.Sprintf("Size(%.1f, %.1f)", s.Width, s.Height)
}

// Offset is a position relative to a parent's origin.
type Offset struct {
	X float64
	Y float64
}

func (o Offset) String() string {
	return fmt.Sprintf("Offset(%.1f, %.1f)", o.X, o.Y)
}
