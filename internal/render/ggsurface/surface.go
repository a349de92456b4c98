// Package ggsurface implements render.Surface on an offscreen canvas
// using the gg library. The UI raster and the headless snapshot tool
// both render through it.
package ggsurface

import (
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/NielsIH/snapspot/internal/render"
)

var (
	fontOnce sync.Once
	baseFont *opentype.Font
)

// Surface is a software drawing surface backed by a gg.Context.
type Surface struct {
	dc    *gg.Context
	w     int
	h     int
	faces map[float64]font.Face
}

// New creates a surface with the given pixel dimensions.
func New(w, h int) *Surface {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Surface{dc: gg.NewContext(w, h), w: w, h: h}
}

// Size returns the surface dimensions.
func (s *Surface) Size() (float64, float64) {
	return float64(s.w), float64(s.h)
}

// Image returns the rendered output.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// Clear fills the surface with a color.
func (s *Surface) Clear(c color.Color) {
	s.dc.SetColor(c)
	s.dc.Clear()
}

// DrawImage draws bitmap scaled into the rectangle (x, y, w, h).
func (s *Surface) DrawImage(bitmap image.Image, x, y, w, h float64) {
	bounds := bitmap.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 || w <= 0 || h <= 0 {
		return
	}
	s.dc.Push()
	defer s.dc.Pop()

	s.dc.Translate(x, y)
	s.dc.Scale(w/float64(bounds.Dx()), h/float64(bounds.Dy()))
	s.dc.DrawImage(bitmap, 0, 0)
}

// DrawCircle draws a filled circle with a stroked border.
func (s *Surface) DrawCircle(cx, cy, r float64, fill, border color.Color, borderWidth float64) {
	s.dc.DrawCircle(cx, cy, r)
	s.dc.SetColor(fill)
	s.dc.FillPreserve()
	s.dc.SetColor(border)
	s.dc.SetLineWidth(borderWidth)
	s.dc.Stroke()
}

// DrawRing draws an unfilled circle outline.
func (s *Surface) DrawRing(cx, cy, r float64, c color.Color, width float64) {
	s.dc.DrawCircle(cx, cy, r)
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.Stroke()
}

// DrawLine draws a straight line segment.
func (s *Surface) DrawLine(x1, y1, x2, y2 float64, c color.Color, width float64) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

// DrawText draws a string centered on (cx, cy) at the given point size.
func (s *Surface) DrawText(str string, cx, cy float64, c color.Color, size float64) {
	if f := s.face(size); f != nil {
		s.dc.SetFontFace(f)
	}
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(str, cx, cy, 0.5, 0.5)
}

// face returns a cached Go Regular face for the size, or nil if the
// font cannot be prepared (gg's built-in face draws instead).
func (s *Surface) face(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err == nil {
			baseFont = f
		}
	})
	if baseFont == nil || size <= 0 {
		return nil
	}
	if f, ok := s.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(baseFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	if s.faces == nil {
		s.faces = make(map[float64]font.Face)
	}
	s.faces[size] = f
	return f
}

var _ render.Surface = (*Surface)(nil)
