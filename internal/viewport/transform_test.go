package viewport

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestRotateForwardMapping(t *testing.T) {
	// 1000x800 native image, unit scale, zero offset.
	tests := []struct {
		rotation Rotation
		x, y     float64
		wantX    float64
		wantY    float64
	}{
		{Rotate0, 100, 100, 100, 100},
		{Rotate90, 100, 100, 700, 100},  // (H-y, x)
		{Rotate180, 100, 100, 900, 700}, // (W-x, H-y)
		{Rotate270, 100, 100, 100, 900}, // (y, W-x)
		{Rotate90, 0, 0, 800, 0},
		{Rotate270, 1000, 800, 800, 0},
	}
	for _, tc := range tests {
		tr := Transform{Scale: 1, Rotation: tc.rotation, NativeW: 1000, NativeH: 800}
		got, err := tr.MapToScreen(tc.x, tc.y)
		if err != nil {
			t.Fatalf("rotation %d: MapToScreen failed: %v", tc.rotation, err)
		}
		if !almostEqual(got.X, tc.wantX) || !almostEqual(got.Y, tc.wantY) {
			t.Errorf("rotation %d: map (%g,%g) -> screen (%g,%g), want (%g,%g)",
				tc.rotation, tc.x, tc.y, got.X, got.Y, tc.wantX, tc.wantY)
		}
	}
}

func TestRoundTripAllRotations(t *testing.T) {
	points := [][2]float64{
		{0, 0}, {1000, 800}, {100, 100}, {999.5, 0.25}, {123.456, 654.321},
	}
	for _, rot := range []Rotation{Rotate0, Rotate90, Rotate180, Rotate270} {
		tr := Transform{
			Scale:    1.75,
			OffsetX:  -42.5,
			OffsetY:  117.25,
			Rotation: rot,
			NativeW:  1000,
			NativeH:  800,
		}
		for _, p := range points {
			screen, err := tr.MapToScreen(p[0], p[1])
			if err != nil {
				t.Fatalf("rotation %d: MapToScreen failed: %v", rot, err)
			}
			back, err := tr.ScreenToMap(screen.X, screen.Y)
			if err != nil {
				t.Fatalf("rotation %d: ScreenToMap failed: %v", rot, err)
			}
			if !almostEqual(back.X, p[0]) || !almostEqual(back.Y, p[1]) {
				t.Errorf("rotation %d: round trip (%g,%g) -> (%g,%g)",
					rot, p[0], p[1], back.X, back.Y)
			}
		}
	}
}

func TestRotateInversePerCase(t *testing.T) {
	// Verify the inverse mapping algebraically per rotation case rather
	// than only through round trips.
	tr := Transform{Scale: 1, NativeW: 1000, NativeH: 800}

	tr.Rotation = Rotate90
	if x, y := tr.rotateInverse(700, 100); !almostEqual(x, 100) || !almostEqual(y, 100) {
		t.Errorf("90 inverse: got (%g,%g), want (100,100)", x, y)
	}
	tr.Rotation = Rotate180
	if x, y := tr.rotateInverse(900, 700); !almostEqual(x, 100) || !almostEqual(y, 100) {
		t.Errorf("180 inverse: got (%g,%g), want (100,100)", x, y)
	}
	tr.Rotation = Rotate270
	if x, y := tr.rotateInverse(100, 900); !almostEqual(x, 100) || !almostEqual(y, 100) {
		t.Errorf("270 inverse: got (%g,%g), want (100,100)", x, y)
	}
	tr.Rotation = Rotate0
	if x, y := tr.rotateInverse(100, 100); !almostEqual(x, 100) || !almostEqual(y, 100) {
		t.Errorf("0 inverse: got (%g,%g), want (100,100)", x, y)
	}
}

func TestScreenVectorToMapVector(t *testing.T) {
	// A drag of (+10, 0) on screen at scale 2 is a displacement of 5
	// rotated-bitmap pixels, mapped back per rotation.
	tests := []struct {
		rotation Rotation
		wantX    float64
		wantY    float64
	}{
		{Rotate0, 5, 0},
		{Rotate90, 0, -5},
		{Rotate180, -5, 0},
		{Rotate270, 0, 5},
	}
	for _, tc := range tests {
		tr := Transform{Scale: 2, Rotation: tc.rotation, NativeW: 1000, NativeH: 800}
		v, err := tr.ScreenVectorToMapVector(10, 0)
		if err != nil {
			t.Fatalf("rotation %d: %v", tc.rotation, err)
		}
		if !almostEqual(v.X, tc.wantX) || !almostEqual(v.Y, tc.wantY) {
			t.Errorf("rotation %d: vector (10,0) -> (%g,%g), want (%g,%g)",
				tc.rotation, v.X, v.Y, tc.wantX, tc.wantY)
		}
	}
}

func TestVectorRoundTripViaPoints(t *testing.T) {
	// The vector transform must agree with the difference of two point
	// transforms at every rotation.
	for _, rot := range []Rotation{Rotate0, Rotate90, Rotate180, Rotate270} {
		tr := Transform{Scale: 0.5, OffsetX: 30, OffsetY: -12, Rotation: rot, NativeW: 640, NativeH: 480}
		a, _ := tr.ScreenToMap(100, 100)
		b, _ := tr.ScreenToMap(117, 91)
		v, err := tr.ScreenVectorToMapVector(17, -9)
		if err != nil {
			t.Fatalf("rotation %d: %v", rot, err)
		}
		if !almostEqual(v.X, b.X-a.X) || !almostEqual(v.Y, b.Y-a.Y) {
			t.Errorf("rotation %d: vector (%g,%g) disagrees with point delta (%g,%g)",
				rot, v.X, v.Y, b.X-a.X, b.Y-a.Y)
		}
	}
}

func TestDegenerateTransformsFail(t *testing.T) {
	noImage := Transform{Scale: 1}
	if _, err := noImage.ScreenToMap(10, 10); err != ErrNoImage {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
	if _, err := noImage.MapToScreen(10, 10); err != ErrNoImage {
		t.Errorf("expected ErrNoImage, got %v", err)
	}

	badScale := Transform{Scale: 0, NativeW: 100, NativeH: 100}
	if _, err := badScale.ScreenToMap(10, 10); err != ErrBadScale {
		t.Errorf("expected ErrBadScale, got %v", err)
	}
	if _, err := badScale.ScreenVectorToMapVector(1, 1); err != ErrBadScale {
		t.Errorf("expected ErrBadScale, got %v", err)
	}
	negScale := Transform{Scale: -2, NativeW: 100, NativeH: 100}
	if _, err := negScale.MapToScreen(10, 10); err != ErrBadScale {
		t.Errorf("expected ErrBadScale, got %v", err)
	}
}

func TestRotatedSize(t *testing.T) {
	tr := Transform{NativeW: 1000, NativeH: 800}
	for _, rot := range []Rotation{Rotate0, Rotate180} {
		tr.Rotation = rot
		if s := tr.RotatedSize(); s.Width != 1000 || s.Height != 800 {
			t.Errorf("rotation %d: got %gx%g, want 1000x800", rot, s.Width, s.Height)
		}
	}
	for _, rot := range []Rotation{Rotate90, Rotate270} {
		tr.Rotation = rot
		if s := tr.RotatedSize(); s.Width != 800 || s.Height != 1000 {
			t.Errorf("rotation %d: got %gx%g, want 800x1000", rot, s.Width, s.Height)
		}
	}
}
