// Package sizespec encodes one-dimensional measurement constraints.
//
// A Spec pairs a mode with a size: Exact demands a specific dimension,
// AtMost caps it, and Unspecified leaves it to the content. Specs travel
// with every measurement call, and the compatibility rules in this package
// are the single source of truth for deciding whether a previously measured
// result can be reused against a new request.
package sizespec

import "fmt"

// Mode describes how the size of a Spec constrains measurement.
type Mode uint8

const (
	// Unspecified places no constraint; the content picks its own size.
	Unspecified Mode = iota
	// Exact requires the measured result to be exactly Size.
	Exact
	// AtMost allows any measured result up to Size.
	AtMost
)

func (m Mode) String() string {
	switch m {
	case Exact:
		return "EXACT"
	case AtMost:
		return "AT_MOST"
	default:
		return "UNSPECIFIED"
	}
}

// Spec is a one-dimensional sizing constraint.
type Spec struct {
	Mode Mode
	Size float64
}

// Make builds a Spec from a size and mode.
func Make(size float64, mode Mode) Spec {
	return Spec{Mode: mode, Size: size}
}

// MakeExact returns an Exact spec for the given size.
func MakeExact(size float64) Spec {
	return Spec{Mode: Exact, Size: size}
}

// MakeAtMost returns an AtMost spec for the given size.
func MakeAtMost(size float64) Spec {
	return Spec{Mode: AtMost, Size: size}
}

// MakeUnspecified returns the placeholder spec used when real constraints
// are not yet known.
func MakeUnspecified() Spec {
	return Spec{Mode: Unspecified}
}

func (s Spec) String() string {
	if s.Mode == Unspecified {
		return "UNSPECIFIED"
	}
	return fmt.Sprintf("%s %.1f", s.Mode, s.Size)
}

// IsUnspecified reports whether the spec carries no constraint.
func (s Spec) IsUnspecified() bool {
	return s.Mode == Unspecified
}

// Resolve clamps a desired content size against the spec.
func (s Spec) Resolve(content float64) float64 {
	switch s.Mode {
	case Exact:
		return s.Size
	case AtMost:
		if content > s.Size {
			return s.Size
		}
		return content
	default:
		return content
	}
}

// IsCompatible reports whether a result measured against old, yielding
// measured, satisfies the requested spec without remeasuring.
//
// Exact results are reusable only for an identical Exact request. AtMost
// results are reusable when the request is Exact at the measured size, or
// AtMost with a bound that is no looser than the old one and still fits the
// measured content. Unspecified results are never trivially compatible and
// always force a remeasure.
func IsCompatible(old, requested Spec, measured float64) bool {
	switch old.Mode {
	case Exact:
		return requested.Mode == Exact && requested.Size == old.Size
	case AtMost:
		switch requested.Mode {
		case Exact:
			return requested.Size == measured
		case AtMost:
			return requested.Size <= old.Size && measured <= requested.Size
		default:
			return false
		}
	default:
		return false
	}
}

// Pair bundles the width and height specs of one measurement.
type Pair struct {
	Width  Spec
	Height Spec
}

// MakePair builds a Pair from two specs.
func MakePair(width, height Spec) Pair {
	return Pair{Width: width, Height: height}
}

// UnspecifiedPair is the placeholder used for deferred resolution.
func UnspecifiedPair() Pair {
	return Pair{Width: MakeUnspecified(), Height: MakeUnspecified()}
}

func (p Pair) String() string {
	return fmt.Sprintf("w=%s h=%s", p.Width, p.Height)
}

// IsCompatibleWith reports whether a result measured against p with the
// given measured size satisfies the requested pair in both dimensions.
func (p Pair) IsCompatibleWith(requested Pair, measuredWidth, measuredHeight float64) bool {
	return IsCompatible(p.Width, requested.Width, measuredWidth) &&
		IsCompatible(p.Height, requested.Height, measuredHeight)
}
