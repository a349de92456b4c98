package render

import (
	"image"
	"image/color"
	"strconv"

	"github.com/NielsIH/snapspot/internal/marker"
	"github.com/NielsIH/snapspot/internal/viewport"
	"github.com/NielsIH/snapspot/pkg/colorutil"
	"github.com/NielsIH/snapspot/pkg/geometry"
)

const (
	// markerRadius is the base circle radius in screen pixels.
	markerRadius = 13.0

	// HitRadius is the tap target radius, a touch larger than the drawn
	// circle so edge taps still register.
	HitRadius = markerRadius + 4.0

	// cullMargin keeps markers slightly outside the surface drawable so
	// circles straddling an edge are not clipped away.
	cullMargin = 40.0

	highlightGap = 5.0
)

var (
	backgroundColor = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	emptyStateText  = color.RGBA{R: 150, G: 150, B: 158, A: 255}
	crosshairColor  = color.RGBA{R: 255, G: 80, B: 80, A: 200}
	highlightColor  = colorutil.Yellow
)

// Frame is everything one draw needs, captured from the engine state.
// The pipeline itself is stateless between frames.
type Frame struct {
	// Bitmap is the rotated bitmap to draw, nil while a decode is
	// pending (a placeholder block is drawn instead).
	Bitmap image.Image

	// HasImage distinguishes "decode pending" from "nothing loaded".
	HasImage bool

	Transform viewport.Transform
	State     viewport.State

	Markers  []marker.Marker
	Editable bool

	// HighlightID is the marker drawn with an emphasis ring, or "".
	HighlightID string

	// Crosshair enables the debug overlay through the viewport center.
	Crosshair bool
}

// Pipeline draws frames. One pipeline serves one engine.
type Pipeline struct {
	styles *marker.StyleEngine
}

// NewPipeline creates a pipeline using the given style engine.
func NewPipeline(styles *marker.StyleEngine) *Pipeline {
	return &Pipeline{styles: styles}
}

// Render performs one synchronous draw: clear, base image (or
// placeholder, or empty state), markers in order, overlays last.
func (p *Pipeline) Render(s Surface, f Frame) {
	s.Clear(backgroundColor)

	switch {
	case f.Bitmap != nil:
		p.drawBitmap(s, f)
	case f.HasImage:
		p.drawPendingPlaceholder(s, f)
	default:
		p.drawEmptyState(s)
	}

	if f.Bitmap != nil || f.HasImage {
		p.drawMarkers(s, f)
	}

	if f.Crosshair {
		p.drawCrosshair(s)
	}
}

func (p *Pipeline) drawBitmap(s Surface, f Frame) {
	size := f.Transform.RotatedSize()
	st := f.State
	s.DrawImage(f.Bitmap, st.OffsetX, st.OffsetY, size.Width*st.Scale, size.Height*st.Scale)
}

// drawPendingPlaceholder renders a flat block where the bitmap will
// appear once the decode completes, so the layout stays stable.
func (p *Pipeline) drawPendingPlaceholder(s Surface, f Frame) {
	size := f.Transform.RotatedSize()
	st := f.State
	w := size.Width * st.Scale
	h := size.Height * st.Scale
	fill := color.RGBA{R: 60, G: 60, B: 66, A: 255}
	s.DrawImage(image.NewUniform(fill), st.OffsetX, st.OffsetY, w, h)
	s.DrawText("loading...", st.OffsetX+w/2, st.OffsetY+h/2, emptyStateText, 16)
}

func (p *Pipeline) drawEmptyState(s Surface) {
	w, h := s.Size()
	c := geometry.NewRect(0, 0, w, h).Center()
	s.DrawText("No image loaded", c.X, c.Y, emptyStateText, 18)
	s.DrawRing(c.X, c.Y, 48, emptyStateText, 1.5)
}

func (p *Pipeline) drawMarkers(s Surface, f Frame) {
	w, h := s.Size()
	visible := geometry.NewRect(0, 0, w, h).Expand(cullMargin)
	for i, m := range f.Markers {
		pt, err := f.Transform.MapToScreen(m.X, m.Y)
		if err != nil {
			return
		}
		if !visible.Contains(pt) {
			continue
		}

		style := p.styles.StyleFor(m, f.Editable)
		s.DrawCircle(pt.X, pt.Y, markerRadius, style.Fill, style.Border, 2)
		s.DrawText(strconv.Itoa(i+1), pt.X, pt.Y, style.Text, 12)

		if m.ID != "" && m.ID == f.HighlightID {
			s.DrawRing(pt.X, pt.Y, markerRadius+highlightGap, highlightColor, 3)
		}
	}
}

func (p *Pipeline) drawCrosshair(s Surface) {
	w, h := s.Size()
	s.DrawLine(0, h/2, w, h/2, crosshairColor, 1)
	s.DrawLine(w/2, 0, w/2, h, crosshairColor, 1)
}
