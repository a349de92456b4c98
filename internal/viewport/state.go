// Package viewport implements the coordinate transform and viewport
// engine: the bidirectional mapping between screen pixels and the fixed
// coordinate space of an unrotated image, and the pan/zoom/rotation
// state machine built on top of it.
package viewport

import "errors"

// Rotation is a discrete view rotation in degrees clockwise.
// Only the four quarter-turn values are legal.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Valid reports whether r is one of the four legal rotation values.
func (r Rotation) Valid() bool {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

// Swapped reports whether the rotated bitmap's width and height are
// swapped relative to the native image (90 and 270 only).
func (r Rotation) Swapped() bool {
	return r == Rotate90 || r == Rotate270
}

// Default scale bounds, used when a caller does not supply its own.
const (
	DefaultMinScale = 0.05
	DefaultMaxScale = 10.0
)

var (
	// ErrNoImage is returned when a transform is requested before an
	// image has been loaded (native dimensions are zero).
	ErrNoImage = errors.New("viewport: no image loaded")

	// ErrBadScale is returned when the active scale is zero or negative,
	// which would otherwise divide the transform into garbage.
	ErrBadScale = errors.New("viewport: non-positive scale")

	// ErrBadRotation is returned for rotation values outside
	// {0, 90, 180, 270}.
	ErrBadRotation = errors.New("viewport: rotation must be 0, 90, 180 or 270")
)

// State is the complete, explicit viewport state. It is a plain value:
// the Controller owns the authoritative copy and every mutation runs
// through it, but the pure functions in this package take and return
// State so the geometry can be tested without a live surface.
type State struct {
	// Scale is the zoom factor, always clamped to [MinScale, MaxScale].
	Scale float64

	// OffsetX and OffsetY are the screen-space translation of the
	// rotated bitmap's origin. They are only meaningful relative to the
	// currently loaded rotated bitmap dimensions.
	OffsetX float64
	OffsetY float64

	// Rotation is the current quarter-turn view rotation.
	Rotation Rotation

	// SurfaceW and SurfaceH are the current drawing surface size in
	// pixels, updated on resize.
	SurfaceW float64
	SurfaceH float64

	// MinScale and MaxScale bound Scale.
	MinScale float64
	MaxScale float64
}

// NewState returns a State with the given scale bounds and identity
// placement.
func NewState(minScale, maxScale float64) State {
	if minScale <= 0 {
		minScale = DefaultMinScale
	}
	if maxScale < minScale {
		maxScale = DefaultMaxScale
	}
	return State{
		Scale:    1.0,
		Rotation: Rotate0,
		MinScale: minScale,
		MaxScale: maxScale,
	}
}

// ClampScale returns the scale clamped to the state's bounds.
func (s State) ClampScale(scale float64) float64 {
	if scale < s.MinScale {
		return s.MinScale
	}
	if scale > s.MaxScale {
		return s.MaxScale
	}
	return scale
}

// SurfaceCenter returns the screen coordinates of the viewport's visual
// center.
func (s State) SurfaceCenter() (float64, float64) {
	return s.SurfaceW / 2, s.SurfaceH / 2
}
