// Package marker provides the annotation marker model and the
// rule-driven styling engine.
package marker

import (
	"fmt"

	"github.com/google/uuid"
)

// Marker is a positioned annotation. X and Y are coordinates in the
// unrotated image's space; this is the canonical, persisted coordinate
// system, so markers survive rotation changes. Editability is derived
// from a global lock flag and is deliberately not stored per marker.
type Marker struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Description string  `json:"description"`
	HasPhotos   bool    `json:"has_photos,omitempty"`
}

// New creates a marker at the given map-space position with a fresh id
// and the auto-generated default description.
func New(x, y float64) Marker {
	return Marker{
		ID:          uuid.New().String(),
		X:           x,
		Y:           y,
		Description: DefaultDescription(x, y),
	}
}

// DefaultDescription returns the auto-generated description for a
// marker placed at the given position.
func DefaultDescription(x, y float64) string {
	return fmt.Sprintf("Marker at %d, %d", int(x), int(y))
}

// Find returns the marker with the given id, if present.
func Find(markers []Marker, id string) (Marker, bool) {
	for _, m := range markers {
		if m.ID == id {
			return m, true
		}
	}
	return Marker{}, false
}
