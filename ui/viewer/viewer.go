// Package viewer provides the interactive image widget: it paints the
// engine's frames into a raster and translates gestures into engine
// operations.
package viewer

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/NielsIH/snapspot/internal/engine"
	"github.com/NielsIH/snapspot/internal/render/ggsurface"
)

const (
	zoomStep = 1.25
)

// Viewer is the interactive viewport widget backed by one engine.
type Viewer struct {
	widget.BaseWidget

	eng    *engine.Engine
	raster *fynecanvas.Raster

	surface *ggsurface.Surface

	// Drag state. A drag either pans the view or moves a marker,
	// decided at drag start by hit testing.
	dragging   bool
	dragMarker string

	// Callbacks
	onMarkerTapped func(id string)
	onMarkerAdded  func(id string)
}

// New creates a viewer over the given engine and subscribes to its
// change events so external mutations repaint the widget.
func New(eng *engine.Engine) *Viewer {
	v := &Viewer{eng: eng}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.ExtendBaseWidget(v)

	redraw := func(interface{}) { v.raster.Refresh() }
	eng.On(engine.EventImageLoaded, redraw)
	eng.On(engine.EventViewChanged, redraw)
	eng.On(engine.EventMarkersChanged, redraw)
	eng.On(engine.EventRulesChanged, redraw)
	eng.On(engine.EventHighlightChanged, redraw)
	return v
}

// OnMarkerTapped sets the callback invoked when a marker is tapped.
func (v *Viewer) OnMarkerTapped(fn func(id string)) {
	v.onMarkerTapped = fn
}

// OnMarkerAdded sets the callback invoked when a marker is created by a
// secondary tap.
func (v *Viewer) OnMarkerAdded(fn func(id string)) {
	v.onMarkerAdded = fn
}

func (v *Viewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

func (v *Viewer) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

// draw renders one engine frame at the raster's pixel size.
func (v *Viewer) draw(w, h int) image.Image {
	if v.surface == nil {
		v.surface = ggsurface.New(w, h)
	} else if sw, sh := v.surface.Size(); int(sw) != w || int(sh) != h {
		v.surface = ggsurface.New(w, h)
	}
	v.eng.Render(v.surface)
	return v.surface.Image()
}

// scalePos maps a widget-space event position to engine surface
// coordinates. The raster renders at device pixels; the engine sees the
// same scale factor on both axes.
func (v *Viewer) scalePos(pos fyne.Position) (float64, float64) {
	size := v.Size()
	if size.Width <= 0 || size.Height <= 0 || v.surface == nil {
		return float64(pos.X), float64(pos.Y)
	}
	sw, sh := v.surface.Size()
	return float64(pos.X) * sw / float64(size.Width), float64(pos.Y) * sh / float64(size.Height)
}

func (v *Viewer) Dragged(ev *fyne.DragEvent) {
	x, y := v.scalePos(ev.Position)
	dx, dy := v.scalePos(fyne.NewPos(ev.Dragged.DX, ev.Dragged.DY))

	if !v.dragging {
		v.dragging = true
		v.dragMarker = ""
		if m, ok := v.eng.MarkerAt(x-dx, y-dy); ok && v.eng.MarkersEditable() {
			v.dragMarker = m.ID
		}
	}

	if v.dragMarker != "" {
		_ = v.eng.MoveMarkerBy(v.dragMarker, dx, dy)
		return
	}
	v.eng.Pan(dx, dy)
}

func (v *Viewer) DragEnd() {
	v.dragging = false
	v.dragMarker = ""
}

// Scrolled zooms toward the cursor.
func (v *Viewer) Scrolled(ev *fyne.ScrollEvent) {
	x, y := v.scalePos(ev.Position)
	if ev.Scrolled.DY > 0 {
		v.eng.ZoomAt(zoomStep, x, y)
	} else if ev.Scrolled.DY < 0 {
		v.eng.ZoomAt(1/zoomStep, x, y)
	}
}

// Tapped highlights the marker under the cursor, if any.
func (v *Viewer) Tapped(ev *fyne.PointEvent) {
	x, y := v.scalePos(ev.Position)
	m, ok := v.eng.MarkerAt(x, y)
	if !ok {
		return
	}
	v.eng.HighlightMarker(m.ID)
	if v.onMarkerTapped != nil {
		v.onMarkerTapped(m.ID)
	}
}

// TappedSecondary adds a marker at the cursor when the set is editable.
func (v *Viewer) TappedSecondary(ev *fyne.PointEvent) {
	x, y := v.scalePos(ev.Position)
	m, err := v.eng.AddMarkerAt(x, y)
	if err != nil {
		return
	}
	if v.onMarkerAdded != nil {
		v.onMarkerAdded(m.ID)
	}
}

// MouseIn, MouseMoved and MouseOut satisfy desktop.Hoverable so the
// widget receives scroll events on all platforms.
func (v *Viewer) MouseIn(*desktop.MouseEvent)    {}
func (v *Viewer) MouseMoved(*desktop.MouseEvent) {}
func (v *Viewer) MouseOut()                      {}
