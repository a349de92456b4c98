// Package engine ties the viewport, marker set, styling, highlight and
// render pipeline together behind the public viewer contract. One
// Engine owns exactly one image/viewport pair; nothing is shared
// between instances.
package engine

import (
	"errors"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NielsIH/snapspot/internal/highlight"
	"github.com/NielsIH/snapspot/internal/imageio"
	"github.com/NielsIH/snapspot/internal/marker"
	"github.com/NielsIH/snapspot/internal/render"
	"github.com/NielsIH/snapspot/internal/viewport"
	"github.com/NielsIH/snapspot/pkg/geometry"
)

// ErrNilImage is returned when LoadImage is handed a nil bitmap.
var ErrNilImage = errors.New("engine: nil image")

// EventType identifies engine events the UI can subscribe to.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventViewChanged
	EventMarkersChanged
	EventRulesChanged
	EventHighlightChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Options configures a new engine.
type Options struct {
	MinScale          float64
	MaxScale          float64
	HighlightDuration time.Duration
	Clock             highlight.Clock
	Crosshair         bool
}

// Engine is the viewer facade. All reads and mutations are safe for
// concurrent use, though the expected model is one UI thread plus the
// highlight timer.
type Engine struct {
	mu sync.RWMutex

	ctrl    *viewport.Controller
	imageID string
	native  image.Image
	rotated image.Image

	markers  []marker.Marker
	editable bool

	// fitPending defers the initial fit when an image arrives before
	// the surface has reported a size.
	fitPending bool

	styles    *marker.StyleEngine
	highlight *highlight.Controller
	pipeline  *render.Pipeline
	crosshair bool

	listeners map[EventType][]EventListener
}

// New creates an engine with the given options.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = highlight.SystemClock{}
	}
	styles := marker.NewStyleEngine()
	e := &Engine{
		ctrl:      viewport.NewController(opts.MinScale, opts.MaxScale),
		editable:  true,
		styles:    styles,
		pipeline:  render.NewPipeline(styles),
		crosshair: opts.Crosshair,
		listeners: make(map[EventType][]EventListener),
	}
	e.highlight = highlight.NewWithClock(opts.Clock, opts.HighlightDuration, func() {
		e.emit(EventHighlightChanged, e.highlight.Active())
	})
	return e
}

// On registers an event listener for the specified event type.
func (e *Engine) On(event EventType, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], listener)
}

// emit triggers all listeners for the specified event type.
func (e *Engine) emit(event EventType, data interface{}) {
	e.mu.RLock()
	listeners := e.listeners[event]
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadImage installs a decoded, unrotated image under the given id and
// fits it to the surface. Decoding itself is the collaborator's job;
// while it runs the engine keeps rendering its prior state. Any
// rotation selected before the load stays in effect and the rotated
// bitmap is derived accordingly.
func (e *Engine) LoadImage(id string, img image.Image) error {
	if img == nil {
		return ErrNilImage
	}
	bounds := img.Bounds()

	e.mu.Lock()
	e.imageID = id
	e.native = img
	e.rotated = imageio.Rotate(img, e.ctrl.State().Rotation)
	e.ctrl.SetImage(float64(bounds.Dx()), float64(bounds.Dy()))
	st := e.ctrl.State()
	e.fitPending = st.SurfaceW <= 0 || st.SurfaceH <= 0
	e.mu.Unlock()

	e.emit(EventImageLoaded, id)
	e.emit(EventViewChanged, nil)
	return nil
}

// LoadImageBytes decodes and installs an image. A decode failure is a
// hard error; the engine stays usable with its previous content.
func (e *Engine) LoadImageBytes(id string, data []byte) error {
	img, err := imageio.Decode(data)
	if err != nil {
		return err
	}
	return e.LoadImage(id, img)
}

// LoadPlaceholder installs the generated placeholder bitmap, used when
// a real image is unavailable (for example after a decode failure).
func (e *Engine) LoadPlaceholder() {
	_ = e.LoadImage("placeholder", imageio.Placeholder(800, 600))
}

// Dispose releases the held image resources. The engine remains usable:
// a later LoadImage starts a fresh lifetime.
func (e *Engine) Dispose() {
	e.mu.Lock()
	e.imageID = ""
	e.native = nil
	e.rotated = nil
	e.ctrl.ClearImage()
	e.mu.Unlock()

	e.highlight.Clear()
	e.emit(EventViewChanged, nil)
}

// SetRotation switches the view to a quarter-turn rotation, preserving
// the visual center, and swaps in the newly rotated bitmap. Unsupported
// values are rejected with a warning and no state change.
func (e *Engine) SetRotation(degrees int) error {
	e.mu.Lock()
	err := e.ctrl.SetRotation(viewport.Rotation(degrees))
	if err == nil && e.native != nil {
		e.rotated = imageio.Rotate(e.native, e.ctrl.State().Rotation)
	}
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.emit(EventViewChanged, nil)
	return nil
}

// Zoom zooms by a factor anchored at the viewport center.
func (e *Engine) Zoom(factor float64) {
	e.mu.Lock()
	e.ctrl.ZoomCentered(factor)
	e.mu.Unlock()
	e.emit(EventViewChanged, nil)
}

// ZoomAt zooms by a factor anchored at a screen point, the
// zoom-toward-cursor gesture.
func (e *Engine) ZoomAt(factor, anchorX, anchorY float64) {
	e.mu.Lock()
	e.ctrl.ZoomBy(factor, anchorX, anchorY)
	e.mu.Unlock()
	e.emit(EventViewChanged, nil)
}

// Pan shifts the view by a screen-space delta.
func (e *Engine) Pan(dx, dy float64) {
	e.mu.Lock()
	e.ctrl.Pan(dx, dy)
	e.mu.Unlock()
	e.emit(EventViewChanged, nil)
}

// ResetView refits the image to the surface.
func (e *Engine) ResetView() {
	e.mu.Lock()
	e.ctrl.FitToScreen()
	e.mu.Unlock()
	e.emit(EventViewChanged, nil)
}

// PanAndZoomToCoordinates centers the view on a map-space coordinate,
// typically to jump to a marker from search results. A target scale
// below 1.0 multiplies the current scale; 1.0 and above is absolute.
func (e *Engine) PanAndZoomToCoordinates(mapX, mapY, targetScale float64) error {
	e.mu.Lock()
	err := e.ctrl.PanAndZoomTo(mapX, mapY, targetScale)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.emit(EventViewChanged, nil)
	return nil
}

// ScreenToMap converts a screen pixel to map-space coordinates.
func (e *Engine) ScreenToMap(x, y float64) (geometry.Point2D, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ctrl.Transform().ScreenToMap(x, y)
}

// MapToScreen converts map-space coordinates to a screen pixel.
func (e *Engine) MapToScreen(x, y float64) (geometry.Point2D, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ctrl.Transform().MapToScreen(x, y)
}

// ScreenVectorToMapVector converts a screen-space displacement to a
// map-space displacement.
func (e *Engine) ScreenVectorToMapVector(dx, dy float64) (geometry.Point2D, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ctrl.Transform().ScreenVectorToMapVector(dx, dy)
}

// SetMarkers replaces the working marker set wholesale.
func (e *Engine) SetMarkers(markers []marker.Marker) {
	e.mu.Lock()
	e.markers = append([]marker.Marker(nil), markers...)
	e.mu.Unlock()
	e.emit(EventMarkersChanged, len(markers))
}

// Markers returns a copy of the working marker set.
func (e *Engine) Markers() []marker.Marker {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]marker.Marker(nil), e.markers...)
}

// SetMarkersEditable sets the global lock flag from which per-marker
// editability is derived.
func (e *Engine) SetMarkersEditable(editable bool) {
	e.mu.Lock()
	e.editable = editable
	e.mu.Unlock()
	e.emit(EventMarkersChanged, nil)
}

// MarkersEditable reports the global lock flag.
func (e *Engine) MarkersEditable() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.editable
}

// AddMarkerAt creates a marker at the screen position and appends it to
// the working set. Fails when the position cannot be resolved or the
// set is locked.
func (e *Engine) AddMarkerAt(screenX, screenY float64) (marker.Marker, error) {
	e.mu.Lock()
	if !e.editable {
		e.mu.Unlock()
		return marker.Marker{}, errors.New("engine: marker set is locked")
	}
	p, err := e.ctrl.Transform().ScreenToMap(screenX, screenY)
	if err != nil {
		e.mu.Unlock()
		return marker.Marker{}, err
	}
	m := marker.New(p.X, p.Y)
	e.markers = append(e.markers, m)
	e.mu.Unlock()

	e.emit(EventMarkersChanged, m.ID)
	return m, nil
}

// MoveMarkerBy drags a marker by a screen-space delta, converting the
// displacement through the current rotation so the persisted map
// position moves the way the gesture looked.
func (e *Engine) MoveMarkerBy(id string, screenDx, screenDy float64) error {
	e.mu.Lock()
	if !e.editable {
		e.mu.Unlock()
		return errors.New("engine: marker set is locked")
	}
	v, err := e.ctrl.Transform().ScreenVectorToMapVector(screenDx, screenDy)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	moved := false
	for i := range e.markers {
		if e.markers[i].ID == id {
			p := geometry.NewPoint2D(e.markers[i].X, e.markers[i].Y).Add(v)
			e.markers[i].X = p.X
			e.markers[i].Y = p.Y
			moved = true
			break
		}
	}
	e.mu.Unlock()

	if !moved {
		log.Warn().Str("marker", id).Msg("move requested for unknown marker")
		return nil
	}
	e.emit(EventMarkersChanged, id)
	return nil
}

// MarkerAt hit-tests the working set at a screen position, returning
// the topmost marker whose circle covers the point.
func (e *Engine) MarkerAt(screenX, screenY float64) (marker.Marker, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tr := e.ctrl.Transform()
	at := geometry.NewPoint2D(screenX, screenY)
	for i := len(e.markers) - 1; i >= 0; i-- {
		p, err := tr.MapToScreen(e.markers[i].X, e.markers[i].Y)
		if err != nil {
			return marker.Marker{}, false
		}
		if p.Distance(at) <= render.HitRadius {
			return e.markers[i], true
		}
	}
	return marker.Marker{}, false
}

// SetColorRules replaces the styling rules wholesale.
func (e *Engine) SetColorRules(rules []marker.Rule) {
	e.mu.Lock()
	e.styles.SetRules(rules)
	e.mu.Unlock()
	e.emit(EventRulesChanged, len(rules))
}

// HighlightMarker emphasizes a marker for the highlight window. An id
// not present in the current set is a no-op with a logged warning.
func (e *Engine) HighlightMarker(id string) {
	e.mu.RLock()
	_, ok := marker.Find(e.markers, id)
	e.mu.RUnlock()

	if !ok {
		log.Warn().Str("marker", id).Msg("highlight requested for unknown marker")
		return
	}
	e.highlight.Highlight(id)
}

// Highlighted returns the currently highlighted marker id, or "".
func (e *Engine) Highlighted() string {
	return e.highlight.Active()
}

// Render draws one frame. The surface's current size is consulted first
// so resizes are picked up before the transform runs.
func (e *Engine) Render(s render.Surface) {
	w, h := s.Size()

	e.mu.Lock()
	e.ctrl.Resize(w, h)
	if e.fitPending && w > 0 && h > 0 && e.ctrl.HasImage() {
		e.ctrl.FitToScreen()
		e.fitPending = false
	}
	f := render.Frame{
		Bitmap:      e.rotated,
		HasImage:    e.native != nil,
		Transform:   e.ctrl.Transform(),
		State:       e.ctrl.State(),
		Markers:     e.markers,
		Editable:    e.editable,
		HighlightID: e.highlight.Active(),
		Crosshair:   e.crosshair,
	}
	pipeline := e.pipeline
	e.mu.Unlock()

	pipeline.Render(s, f)
}

// SetCrosshair toggles the debug crosshair overlay.
func (e *Engine) SetCrosshair(on bool) {
	e.mu.Lock()
	e.crosshair = on
	e.mu.Unlock()
	e.emit(EventViewChanged, nil)
}
