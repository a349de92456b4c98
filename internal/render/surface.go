// Package render orchestrates each frame: base bitmap, markers,
// highlight ring and overlays, drawn in a fixed order onto a Surface.
package render

import (
	"image"
	"image/color"
)

// Surface is the drawing collaborator. The engine never owns pixels
// directly; it draws through this interface so the same pipeline runs
// against a UI raster or an offscreen software canvas.
type Surface interface {
	// Size returns the current pixel dimensions of the surface.
	Size() (w, h float64)

	// Clear fills the whole surface with a color.
	Clear(c color.Color)

	// DrawImage draws bitmap scaled into the rectangle (x, y, w, h).
	DrawImage(bitmap image.Image, x, y, w, h float64)

	// DrawCircle draws a filled circle with a stroked border.
	DrawCircle(cx, cy, r float64, fill, border color.Color, borderWidth float64)

	// DrawRing draws an unfilled circle outline.
	DrawRing(cx, cy, r float64, c color.Color, width float64)

	// DrawLine draws a straight line segment.
	DrawLine(x1, y1, x2, y2 float64, c color.Color, width float64)

	// DrawText draws a string centered on (cx, cy).
	DrawText(s string, cx, cy float64, c color.Color, size float64)
}
