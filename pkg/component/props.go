package component

import "time"

// Direction is the main axis of a container.
type Direction uint8

const (
	// Column stacks children vertically. It is the default.
	Column Direction = iota
	// Row places children horizontally.
	Row
)

func (d Direction) String() string {
	if d == Row {
		return "row"
	}
	return "column"
}

// LayoutDirection is the text/layout direction of a subtree.
type LayoutDirection uint8

const (
	// DirectionInherit adopts the container's direction. It is the default.
	DirectionInherit LayoutDirection = iota
	// DirectionLTR lays out left to right.
	DirectionLTR
	// DirectionRTL lays out right to left.
	DirectionRTL
)

func (d LayoutDirection) String() string {
	switch d {
	case DirectionLTR:
		return "ltr"
	case DirectionRTL:
		return "rtl"
	default:
		return "inherit"
	}
}

// CommonProps are the style and layout props shared by all components.
// They are copied onto the resolved node during post-processing.
type CommonProps struct {
	// Direction is the main axis for container layout.
	Direction Direction
	// LayoutDirection is the resolved layout direction for the subtree.
	LayoutDirection LayoutDirection
	// Width is a fixed width hint in logical pixels; zero means unset.
	Width float64
	// Height is a fixed height hint in logical pixels; zero means unset.
	Height float64
	// FlexGrow distributes remaining main-axis space among siblings.
	FlexGrow float64
	// Padding is uniform padding in logical pixels.
	Padding float64
	// TransitionKey links the node to transition definitions.
	TransitionKey string
}

// HasCommonProps is implemented by components carrying common props.
type HasCommonProps interface {
	Component
	CommonProps() *CommonProps
}

// Transition describes an animated property change registered on a node.
type Transition struct {
	Key      string
	Property string
	Duration time.Duration
}

// TransitionProvider is implemented by components that animate changes.
type TransitionProvider interface {
	Component
	CreateTransition(sc *ScopedContext) *Transition
}

// AttachHandler is implemented by components that observe attachment of
// their node to, and detachment from, the committed tree.
type AttachHandler interface {
	Component
	OnAttach(sc *ScopedContext)
	OnDetach(sc *ScopedContext)
}

// Attachable pairs an attach handler with the global key it was registered
// under.
type Attachable struct {
	GlobalKey string
	Handler   AttachHandler
}

// WorkingRange names a visibility band a component subscribes to.
type WorkingRange struct {
	Name string
}

// WorkingRangeProvider is implemented by components that subscribe to
// working-range events.
type WorkingRangeProvider interface {
	Component
	WorkingRanges(sc *ScopedContext) []WorkingRange
}

// WorkingRangeRegistration records one subscription on a node.
type WorkingRangeRegistration struct {
	GlobalKey string
	Range     WorkingRange
}
