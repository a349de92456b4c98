package viewport

import (
	"math/rand"
	"testing"

	"github.com/NielsIH/snapspot/pkg/geometry"
)

// newTestController returns a controller with a 500x400 surface and a
// 1000x800 image loaded, the concrete scenario used throughout.
func newTestController() *Controller {
	c := NewController(0.05, 10.0)
	c.Resize(500, 400)
	c.SetImage(1000, 800)
	return c
}

func TestFitToScreen(t *testing.T) {
	c := newTestController()
	st := c.State()
	if !almostEqual(st.Scale, 0.5) {
		t.Errorf("fit scale = %g, want 0.5", st.Scale)
	}
	if !almostEqual(st.OffsetX, 0) || !almostEqual(st.OffsetY, 0) {
		t.Errorf("fit offset = (%g,%g), want (0,0)", st.OffsetX, st.OffsetY)
	}

	// Marker at map (100,100) renders at screen (50,50).
	p, err := c.Transform().MapToScreen(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(p.X, 50) || !almostEqual(p.Y, 50) {
		t.Errorf("marker screen position = (%g,%g), want (50,50)", p.X, p.Y)
	}
}

func TestFitToScreenNeverUpscales(t *testing.T) {
	c := NewController(0.05, 10.0)
	c.Resize(2000, 2000)
	c.SetImage(100, 50)
	if st := c.State(); !almostEqual(st.Scale, 1.0) {
		t.Errorf("fit scale = %g, want 1.0 (no upscaling)", st.Scale)
	}
}

func TestFitToScreenUsesRotatedDimensions(t *testing.T) {
	c := newTestController()
	if err := c.SetRotation(Rotate90); err != nil {
		t.Fatal(err)
	}
	c.FitToScreen()
	// Rotated bitmap is 800x1000 on a 500x400 surface: min(500/800, 400/1000).
	if st := c.State(); !almostEqual(st.Scale, 0.4) {
		t.Errorf("fit scale after 90 = %g, want 0.4", st.Scale)
	}
}

func TestZoomAnchorInvariance(t *testing.T) {
	c := newTestController()
	before, err := c.Transform().ScreenToMap(120, 80)
	if err != nil {
		t.Fatal(err)
	}
	c.ZoomBy(1.6, 120, 80)
	after, err := c.Transform().ScreenToMap(120, 80)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(before.X, after.X) || !almostEqual(before.Y, after.Y) {
		t.Errorf("anchor point moved: (%g,%g) -> (%g,%g)",
			before.X, before.Y, after.X, after.Y)
	}
}

func TestZoomClampedNoOp(t *testing.T) {
	c := newTestController()
	c.ZoomTo(10.0, 250, 200)
	st := c.State()
	c.ZoomBy(3.0, 0, 0) // already at max, offsets must not drift
	if got := c.State(); got != st {
		t.Errorf("zoom at max scale mutated state: %+v -> %+v", st, got)
	}
}

func TestScaleBoundsHold(t *testing.T) {
	c := newTestController()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		factor := 0.1 + rng.Float64()*5
		c.ZoomBy(factor, rng.Float64()*500, rng.Float64()*400)
		st := c.State()
		if st.Scale < st.MinScale || st.Scale > st.MaxScale {
			t.Fatalf("scale %g escaped bounds [%g,%g] after %d zooms",
				st.Scale, st.MinScale, st.MaxScale, i+1)
		}
	}
}

func TestPanIsUnbounded(t *testing.T) {
	c := newTestController()
	c.Pan(-5000, 7000)
	st := c.State()
	if !almostEqual(st.OffsetX, -5000) || !almostEqual(st.OffsetY, 7000) {
		t.Errorf("pan offsets = (%g,%g), want (-5000,7000)", st.OffsetX, st.OffsetY)
	}
}

func TestSetRotationRejectsIllegalValues(t *testing.T) {
	c := newTestController()
	before := c.State()
	for _, deg := range []Rotation{45, -90, 360, 1} {
		if err := c.SetRotation(deg); err != ErrBadRotation {
			t.Errorf("SetRotation(%d) = %v, want ErrBadRotation", deg, err)
		}
	}
	if got := c.State(); got != before {
		t.Errorf("illegal rotation mutated state")
	}
}

func TestSetRotationBeforeImageLoad(t *testing.T) {
	c := NewController(0.05, 10.0)
	c.Resize(500, 400)
	if err := c.SetRotation(Rotate180); err != nil {
		t.Fatal(err)
	}
	if c.State().Rotation != Rotate180 {
		t.Errorf("rotation not recorded before image load")
	}
	c.SetImage(1000, 800)
	if c.State().Rotation != Rotate180 {
		t.Errorf("recorded rotation lost on image load")
	}
}

func TestRotationPreservesVisualCenter(t *testing.T) {
	rotations := []Rotation{Rotate0, Rotate90, Rotate180, Rotate270}
	for _, from := range rotations {
		for _, to := range rotations {
			c := newTestController()
			if err := c.SetRotation(from); err != nil {
				t.Fatal(err)
			}
			// Move off-center so the recentering actually has work to do.
			c.Pan(37, -22)
			c.ZoomBy(1.8, 100, 300)

			before, err := c.Transform().ScreenToMap(250, 200)
			if err != nil {
				t.Fatal(err)
			}
			scaleBefore := c.State().Scale

			if err := c.SetRotation(to); err != nil {
				t.Fatal(err)
			}
			after, err := c.Transform().ScreenToMap(250, 200)
			if err != nil {
				t.Fatal(err)
			}
			if !almostEqual(before.X, after.X) || !almostEqual(before.Y, after.Y) {
				t.Errorf("%d->%d: center map point moved (%g,%g) -> (%g,%g)",
					from, to, before.X, before.Y, after.X, after.Y)
			}
			if !almostEqual(scaleBefore, c.State().Scale) {
				t.Errorf("%d->%d: scale changed %g -> %g", from, to, scaleBefore, c.State().Scale)
			}
		}
	}
}

func TestRotationKeepsCenterAndMapsMarker(t *testing.T) {
	// 1000x800 image, 500x400 surface, fit gives scale 0.5 offset (0,0).
	c := newTestController()

	centerBefore, err := c.Transform().ScreenToMap(250, 200)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetRotation(Rotate90); err != nil {
		t.Fatal(err)
	}

	// The viewport-center map point must not have moved on screen.
	centerScreen, err := c.Transform().MapToScreen(centerBefore.X, centerBefore.Y)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(centerScreen.X, 250) || !almostEqual(centerScreen.Y, 200) {
		t.Errorf("center point now at (%g,%g), want (250,200)", centerScreen.X, centerScreen.Y)
	}

	// A marker at map (100,100) maps to rotated-bitmap (700,100).
	rotated, err := c.Transform().RotatePoint(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(rotated.X, 700) || !almostEqual(rotated.Y, 100) {
		t.Errorf("marker rotated position = (%g,%g), want (700,100)", rotated.X, rotated.Y)
	}
}

func TestRecenterFallsBackToFitOnBadCapture(t *testing.T) {
	st := NewState(0.05, 10)
	st.SurfaceW, st.SurfaceH = 500, 400
	st.Scale = 2
	got := RecenterAfterRotation(st, 0, 0, geometry.NewPoint2D(100, 100), Rotate90)
	// No image dimensions: fit is a no-op but state must stay coherent.
	if got.Rotation != Rotate90 {
		t.Errorf("rotation not applied on fallback")
	}
}

func TestPanAndZoomToCoordinates(t *testing.T) {
	c := newTestController()

	// Absolute target scale.
	if err := c.PanAndZoomTo(100, 100, 2.0); err != nil {
		t.Fatal(err)
	}
	st := c.State()
	if !almostEqual(st.Scale, 2.0) {
		t.Errorf("scale = %g, want 2.0", st.Scale)
	}
	p, err := c.Transform().MapToScreen(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(p.X, 250) || !almostEqual(p.Y, 200) {
		t.Errorf("target point at (%g,%g), want viewport center (250,200)", p.X, p.Y)
	}

	// Fractional target is a multiplier of the current scale.
	if err := c.PanAndZoomTo(500, 400, 0.5); err != nil {
		t.Fatal(err)
	}
	if st := c.State(); !almostEqual(st.Scale, 1.0) {
		t.Errorf("multiplier scale = %g, want 1.0", st.Scale)
	}

	// Works under rotation too: the point still lands at the center.
	if err := c.SetRotation(Rotate270); err != nil {
		t.Fatal(err)
	}
	if err := c.PanAndZoomTo(321, 123, 3.0); err != nil {
		t.Fatal(err)
	}
	p, err = c.Transform().MapToScreen(321, 123)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(p.X, 250) || !almostEqual(p.Y, 200) {
		t.Errorf("rotated jump point at (%g,%g), want (250,200)", p.X, p.Y)
	}
}

func TestSetStateClampsAndValidates(t *testing.T) {
	c := newTestController()
	if err := c.SetState(State{Scale: 99, Rotation: Rotate90}); err != nil {
		t.Fatal(err)
	}
	if st := c.State(); !almostEqual(st.Scale, 10.0) || st.Rotation != Rotate90 {
		t.Errorf("restored state = %+v", st)
	}
	if err := c.SetState(State{Scale: 1, Rotation: 33}); err != ErrBadRotation {
		t.Errorf("expected ErrBadRotation, got %v", err)
	}
}
