package viewport

import "github.com/NielsIH/snapspot/pkg/geometry"

// Transform maps between screen space and map space. Map space is the
// fixed coordinate system of the unrotated source image; markers are
// persisted in it so they survive rotation changes. A Transform is a
// pure value: it captures scale, offsets, rotation and the native image
// dimensions, and every method is side-effect free.
type Transform struct {
	Scale    float64
	OffsetX  float64
	OffsetY  float64
	Rotation Rotation

	// NativeW and NativeH are the dimensions of the unrotated image.
	NativeW float64
	NativeH float64
}

// check validates the transform inputs before any conversion. Degenerate
// inputs fail explicitly rather than producing NaN.
func (t Transform) check() error {
	if t.NativeW <= 0 || t.NativeH <= 0 {
		return ErrNoImage
	}
	if t.Scale <= 0 {
		return ErrBadScale
	}
	return nil
}

// RotatedSize returns the dimensions of the rotated bitmap: width and
// height swap for 90 and 270.
func (t Transform) RotatedSize() geometry.Size {
	if t.Rotation.Swapped() {
		return geometry.NewSize(t.NativeH, t.NativeW)
	}
	return geometry.NewSize(t.NativeW, t.NativeH)
}

// rotateForward maps an unrotated-image point onto the rotated bitmap.
//
//	  0°: (x, y)
//	 90°: (H-y, x)
//	180°: (W-x, H-y)
//	270°: (y, W-x)
func (t Transform) rotateForward(x, y float64) (float64, float64) {
	switch t.Rotation {
	case Rotate90:
		return t.NativeH - y, x
	case Rotate180:
		return t.NativeW - x, t.NativeH - y
	case Rotate270:
		return y, t.NativeW - x
	default:
		return x, y
	}
}

// rotateInverse maps a rotated-bitmap point back onto the unrotated
// image. Each case is the algebraic inverse of rotateForward.
func (t Transform) rotateInverse(rx, ry float64) (float64, float64) {
	switch t.Rotation {
	case Rotate90:
		return ry, t.NativeH - rx
	case Rotate180:
		return t.NativeW - rx, t.NativeH - ry
	case Rotate270:
		return t.NativeW - ry, rx
	default:
		return rx, ry
	}
}

// ScreenToMap converts a screen pixel to map-space coordinates: undo
// scale and offset to land on the rotated bitmap, then undo the
// rotation.
func (t Transform) ScreenToMap(screenX, screenY float64) (geometry.Point2D, error) {
	if err := t.check(); err != nil {
		return geometry.Point2D{}, err
	}
	rx := (screenX - t.OffsetX) / t.Scale
	ry := (screenY - t.OffsetY) / t.Scale
	x, y := t.rotateInverse(rx, ry)
	return geometry.Point2D{X: x, Y: y}, nil
}

// MapToScreen converts map-space coordinates to a screen pixel: apply
// the forward rotation, then scale and offset.
func (t Transform) MapToScreen(mapX, mapY float64) (geometry.Point2D, error) {
	if err := t.check(); err != nil {
		return geometry.Point2D{}, err
	}
	rx, ry := t.rotateForward(mapX, mapY)
	return geometry.Point2D{
		X: rx*t.Scale + t.OffsetX,
		Y: ry*t.Scale + t.OffsetY,
	}, nil
}

// RotatePoint applies only the forward rotation to a map-space point,
// without scale or offset. Jump-to-coordinates needs the bare rotated
// position to place it under the viewport center.
func (t Transform) RotatePoint(mapX, mapY float64) (geometry.Point2D, error) {
	if t.NativeW <= 0 || t.NativeH <= 0 {
		return geometry.Point2D{}, ErrNoImage
	}
	rx, ry := t.rotateForward(mapX, mapY)
	return geometry.Point2D{X: rx, Y: ry}, nil
}

// ScreenVectorToMapVector converts a screen-space displacement to a
// map-space displacement. The rotation logic is the same as for points
// but without the translation terms, so a marker dragged visually
// rightward moves correctly in persisted space at any rotation.
func (t Transform) ScreenVectorToMapVector(dx, dy float64) (geometry.Point2D, error) {
	if err := t.check(); err != nil {
		return geometry.Point2D{}, err
	}
	vx := dx / t.Scale
	vy := dy / t.Scale
	switch t.Rotation {
	case Rotate90:
		return geometry.Point2D{X: vy, Y: -vx}, nil
	case Rotate180:
		return geometry.Point2D{X: -vx, Y: -vy}, nil
	case Rotate270:
		return geometry.Point2D{X: -vy, Y: vx}, nil
	default:
		return geometry.Point2D{X: vx, Y: vy}, nil
	}
}
