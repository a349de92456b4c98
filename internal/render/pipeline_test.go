package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/NielsIH/snapspot/internal/marker"
	"github.com/NielsIH/snapspot/internal/viewport"
)

// recordingSurface captures draw calls in order.
type recordingSurface struct {
	w, h  float64
	calls []string

	circles []circleCall
	texts   []string
	rings   int
	lines   int
	images  int
	cleared bool
}

type circleCall struct {
	x, y float64
	fill color.Color
}

func newRecordingSurface(w, h float64) *recordingSurface {
	return &recordingSurface{w: w, h: h}
}

func (r *recordingSurface) Size() (float64, float64) { return r.w, r.h }

func (r *recordingSurface) Clear(color.Color) {
	r.cleared = true
	r.calls = append(r.calls, "clear")
}

func (r *recordingSurface) DrawImage(image.Image, float64, float64, float64, float64) {
	r.images++
	r.calls = append(r.calls, "image")
}

func (r *recordingSurface) DrawCircle(cx, cy, _ float64, fill, _ color.Color, _ float64) {
	r.circles = append(r.circles, circleCall{x: cx, y: cy, fill: fill})
	r.calls = append(r.calls, "circle")
}

func (r *recordingSurface) DrawRing(float64, float64, float64, color.Color, float64) {
	r.rings++
	r.calls = append(r.calls, "ring")
}

func (r *recordingSurface) DrawLine(float64, float64, float64, float64, color.Color, float64) {
	r.lines++
	r.calls = append(r.calls, "line")
}

func (r *recordingSurface) DrawText(s string, _, _ float64, _ color.Color, _ float64) {
	r.texts = append(r.texts, s)
	r.calls = append(r.calls, "text")
}

func testFrame(markers []marker.Marker) Frame {
	tr := viewport.Transform{
		Scale:   0.5,
		NativeW: 1000,
		NativeH: 800,
	}
	return Frame{
		Bitmap:    image.NewRGBA(image.Rect(0, 0, 1000, 800)),
		HasImage:  true,
		Transform: tr,
		State: viewport.State{
			Scale: 0.5, SurfaceW: 500, SurfaceH: 400,
			MinScale: 0.05, MaxScale: 10,
		},
		Markers: markers,
	}
}

func TestDrawOrder(t *testing.T) {
	s := newRecordingSurface(500, 400)
	p := NewPipeline(marker.NewStyleEngine())

	f := testFrame([]marker.Marker{{ID: "a", X: 100, Y: 100}})
	f.HighlightID = "a"
	f.Crosshair = true
	p.Render(s, f)

	if !s.cleared {
		t.Fatal("surface was not cleared")
	}
	want := []string{"clear", "image", "circle", "text", "ring", "line", "line"}
	if len(s.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", s.calls, want)
	}
	for i := range want {
		if s.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", s.calls, want)
		}
	}
}

func TestMarkerScreenPlacementAndNumbering(t *testing.T) {
	s := newRecordingSurface(500, 400)
	p := NewPipeline(marker.NewStyleEngine())

	p.Render(s, testFrame([]marker.Marker{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 400, Y: 200},
	}))

	if len(s.circles) != 2 {
		t.Fatalf("expected 2 marker circles, got %d", len(s.circles))
	}
	if s.circles[0].x != 50 || s.circles[0].y != 50 {
		t.Errorf("marker 1 at (%g,%g), want (50,50)", s.circles[0].x, s.circles[0].y)
	}
	if len(s.texts) != 2 || s.texts[0] != "1" || s.texts[1] != "2" {
		t.Errorf("marker numbers = %v, want sequential 1,2", s.texts)
	}
}

func TestOffscreenMarkersCulled(t *testing.T) {
	s := newRecordingSurface(500, 400)
	p := NewPipeline(marker.NewStyleEngine())

	p.Render(s, testFrame([]marker.Marker{
		{ID: "far", X: 100000, Y: 100000},
		{ID: "near-edge", X: 1020, Y: 100}, // screen x=510, inside the margin
	}))

	if len(s.circles) != 1 {
		t.Fatalf("expected 1 circle after culling, got %d", len(s.circles))
	}
}

func TestHighlightRingOnlyForActiveMarker(t *testing.T) {
	s := newRecordingSurface(500, 400)
	p := NewPipeline(marker.NewStyleEngine())

	f := testFrame([]marker.Marker{{ID: "a", X: 100, Y: 100}, {ID: "b", X: 200, Y: 200}})
	f.HighlightID = "b"
	p.Render(s, f)

	if s.rings != 1 {
		t.Errorf("expected exactly one highlight ring, got %d", s.rings)
	}
}

func TestEmptyStateWhenNoImage(t *testing.T) {
	s := newRecordingSurface(500, 400)
	p := NewPipeline(marker.NewStyleEngine())

	p.Render(s, Frame{})

	if s.images != 0 {
		t.Error("no bitmap should be drawn without an image")
	}
	if len(s.texts) != 1 || s.texts[0] != "No image loaded" {
		t.Errorf("texts = %v, want empty-state message", s.texts)
	}
}

func TestPendingDecodeDrawsPlaceholderBlock(t *testing.T) {
	s := newRecordingSurface(500, 400)
	p := NewPipeline(marker.NewStyleEngine())

	f := testFrame(nil)
	f.Bitmap = nil // decode still pending
	p.Render(s, f)

	if s.images != 1 {
		t.Errorf("expected a placeholder block, got %d image draws", s.images)
	}
	if len(s.texts) == 0 || s.texts[0] != "loading..." {
		t.Errorf("texts = %v, want loading indicator", s.texts)
	}
}
