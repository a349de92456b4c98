package viewport

import (
	"github.com/rs/zerolog/log"

	"github.com/NielsIH/snapspot/pkg/geometry"
)

// Controller is the state machine over a single viewport. One controller
// owns exactly one State for one loaded image; there is no ambient
// global state, so independent viewports can coexist and the geometry is
// unit-testable.
type Controller struct {
	st      State
	nativeW float64
	nativeH float64
}

// NewController creates a controller with the given scale bounds.
func NewController(minScale, maxScale float64) *Controller {
	return &Controller{st: NewState(minScale, maxScale)}
}

// State returns a copy of the current viewport state.
func (c *Controller) State() State {
	return c.st
}

// SetState replaces scale, offsets and rotation wholesale, re-clamping
// the scale and rejecting illegal rotations. Surface size and bounds are
// kept. Used to restore a persisted view.
func (c *Controller) SetState(st State) error {
	if !st.Rotation.Valid() {
		return ErrBadRotation
	}
	if st.Scale > 0 {
		c.st.Scale = c.st.ClampScale(st.Scale)
	}
	c.st.OffsetX = st.OffsetX
	c.st.OffsetY = st.OffsetY
	c.st.Rotation = st.Rotation
	return nil
}

// Transform returns the pure transform for the current state.
func (c *Controller) Transform() Transform {
	return Transform{
		Scale:    c.st.Scale,
		OffsetX:  c.st.OffsetX,
		OffsetY:  c.st.OffsetY,
		Rotation: c.st.Rotation,
		NativeW:  c.nativeW,
		NativeH:  c.nativeH,
	}
}

// HasImage reports whether native image dimensions are known.
func (c *Controller) HasImage() bool {
	return c.nativeW > 0 && c.nativeH > 0
}

// SetImage records the native (unrotated) dimensions of a newly loaded
// image and fits it to the surface. Any rotation recorded while no image
// was loaded stays in effect.
func (c *Controller) SetImage(nativeW, nativeH float64) {
	c.nativeW = nativeW
	c.nativeH = nativeH
	c.FitToScreen()
}

// ClearImage forgets the image dimensions. Transforms fail until the
// next SetImage.
func (c *Controller) ClearImage() {
	c.nativeW = 0
	c.nativeH = 0
}

// Resize records a new drawing surface size.
func (c *Controller) Resize(w, h float64) {
	c.st.SurfaceW = w
	c.st.SurfaceH = h
}

// FitToScreen scales the rotated bitmap to fit the surface (never
// upscaling past 1.0) and centers it.
func (c *Controller) FitToScreen() {
	c.st = fitToScreen(c.st, c.nativeW, c.nativeH)
}

// fitToScreen is the pure fit computation: scale = min(sw/bw, sh/bh, 1)
// clamped to the lower bound, bitmap centered per axis.
func fitToScreen(st State, nativeW, nativeH float64) State {
	if nativeW <= 0 || nativeH <= 0 || st.SurfaceW <= 0 || st.SurfaceH <= 0 {
		return st
	}
	bw, bh := nativeW, nativeH
	if st.Rotation.Swapped() {
		bw, bh = bh, bw
	}
	scale := st.SurfaceW / bw
	if s := st.SurfaceH / bh; s < scale {
		scale = s
	}
	if scale > 1.0 {
		scale = 1.0
	}
	if scale < st.MinScale {
		scale = st.MinScale
	}
	st.Scale = scale
	st.OffsetX = (st.SurfaceW - bw*scale) / 2
	st.OffsetY = (st.SurfaceH - bh*scale) / 2
	return st
}

// ZoomBy zooms by a factor of the current scale, anchored at the given
// screen point.
func (c *Controller) ZoomBy(factor, anchorX, anchorY float64) {
	c.zoomToScale(c.st.Scale*factor, anchorX, anchorY)
}

// ZoomTo zooms to an absolute scale, anchored at the given screen point.
func (c *Controller) ZoomTo(scale, anchorX, anchorY float64) {
	c.zoomToScale(scale, anchorX, anchorY)
}

// ZoomCentered zooms by a factor anchored at the viewport center, the
// default anchor when no cursor position applies.
func (c *Controller) ZoomCentered(factor float64) {
	cx, cy := c.st.SurfaceCenter()
	c.zoomToScale(c.st.Scale*factor, cx, cy)
}

// zoomToScale clamps the target scale and recomputes the offsets so the
// anchor point stays fixed on screen:
//
//	offset' = anchor - (anchor - offset) * (newScale/oldScale)
func (c *Controller) zoomToScale(target, anchorX, anchorY float64) {
	target = c.st.ClampScale(target)
	if target == c.st.Scale {
		return
	}
	ratio := target / c.st.Scale
	anchor := geometry.NewPoint2D(anchorX, anchorY)
	offset := anchor.Sub(anchor.Sub(geometry.NewPoint2D(c.st.OffsetX, c.st.OffsetY)).Scale(ratio))
	c.st.OffsetX = offset.X
	c.st.OffsetY = offset.Y
	c.st.Scale = target
}

// Pan shifts the view by a screen-space delta. Panning past the image
// edge is allowed.
func (c *Controller) Pan(dx, dy float64) {
	c.st.OffsetX += dx
	c.st.OffsetY += dy
}

// SetRotation switches to a new quarter-turn rotation while keeping the
// map-space point at the viewport's visual center fixed. Illegal values
// are rejected with no state change. With no image loaded the rotation
// is recorded for later application. If the current center cannot be
// resolved the view falls back to FitToScreen rather than ending up
// inconsistent.
func (c *Controller) SetRotation(rotation Rotation) error {
	if !rotation.Valid() {
		log.Warn().Int("rotation", int(rotation)).Msg("rejecting unsupported rotation")
		return ErrBadRotation
	}
	if rotation == c.st.Rotation {
		return nil
	}
	if !c.HasImage() {
		c.st.Rotation = rotation
		return nil
	}

	cx, cy := c.st.SurfaceCenter()
	center, err := c.Transform().ScreenToMap(cx, cy)
	if err != nil {
		c.st.Rotation = rotation
		c.FitToScreen()
		return nil
	}

	c.st = RecenterAfterRotation(c.st, c.nativeW, c.nativeH, center, rotation)
	return nil
}

// RecenterAfterRotation computes the post-rotation state that keeps the
// captured map-space point at the viewport's visual center. It is the
// pure core of SetRotation: the scale survives the rotation (re-clamped
// to bounds) and the offsets are rebuilt so the captured point, run
// through the new forward rotation at offset (0,0), lands back at the
// center.
func RecenterAfterRotation(old State, nativeW, nativeH float64, captured geometry.Point2D, rotation Rotation) State {
	st := old
	st.Rotation = rotation
	st.Scale = st.ClampScale(old.Scale)

	rotated, err := (Transform{
		Scale:    1,
		Rotation: rotation,
		NativeW:  nativeW,
		NativeH:  nativeH,
	}).RotatePoint(captured.X, captured.Y)
	if err != nil {
		return fitToScreen(st, nativeW, nativeH)
	}

	cx, cy := st.SurfaceCenter()
	st.OffsetX = cx - rotated.X*st.Scale
	st.OffsetY = cy - rotated.Y*st.Scale
	return st
}

// PanAndZoomTo centers the view on a map-space coordinate at the given
// target scale. A target below 1.0 is a multiplier of the current
// scale, 1.0 and above is an absolute scale, and zero or negative keeps
// the current scale. Used to jump to a marker from search results.
func (c *Controller) PanAndZoomTo(mapX, mapY, targetScale float64) error {
	scale := c.st.Scale
	switch {
	case targetScale <= 0:
		// keep current
	case targetScale < 1.0:
		scale = c.st.Scale * targetScale
	default:
		scale = targetScale
	}
	scale = c.st.ClampScale(scale)

	rotated, err := c.Transform().RotatePoint(mapX, mapY)
	if err != nil {
		return err
	}
	cx, cy := c.st.SurfaceCenter()
	c.st.Scale = scale
	c.st.OffsetX = cx - rotated.X*scale
	c.st.OffsetY = cy - rotated.Y*scale
	return nil
}
