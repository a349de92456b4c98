package engine

import (
	"fmt"

	"github.com/NielsIH/snapspot/internal/imageio"
	"github.com/NielsIH/snapspot/internal/viewport"
)

// ViewState is the persistable view snapshot: enough to restore the
// exact view of an image in a later session.
type ViewState struct {
	ImageID  string  `json:"image_id"`
	Scale    float64 `json:"scale"`
	OffsetX  float64 `json:"offset_x"`
	OffsetY  float64 `json:"offset_y"`
	Rotation int     `json:"rotation"`
}

// ViewState captures the current view for persistence.
func (e *Engine) ViewState() ViewState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := e.ctrl.State()
	return ViewState{
		ImageID:  e.imageID,
		Scale:    st.Scale,
		OffsetX:  st.OffsetX,
		OffsetY:  st.OffsetY,
		Rotation: int(st.Rotation),
	}
}

// SetViewState restores a previously captured view. The snapshot must
// belong to the currently loaded image; applying a stale snapshot from
// another image is rejected rather than silently showing the wrong
// region.
func (e *Engine) SetViewState(vs ViewState) error {
	rot := viewport.Rotation(vs.Rotation)
	if !rot.Valid() {
		return viewport.ErrBadRotation
	}

	e.mu.Lock()
	if vs.ImageID != e.imageID {
		e.mu.Unlock()
		return fmt.Errorf("engine: view state belongs to image %q, loaded is %q", vs.ImageID, e.imageID)
	}
	st := e.ctrl.State()
	st.Scale = vs.Scale
	st.OffsetX = vs.OffsetX
	st.OffsetY = vs.OffsetY
	st.Rotation = rot
	err := e.ctrl.SetState(st)
	if err == nil {
		e.fitPending = false
		if e.native != nil {
			e.rotated = imageio.Rotate(e.native, rot)
		}
	}
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.emit(EventViewChanged, nil)
	return nil
}
