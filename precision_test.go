package mandelzoom

import "testing"

// geometryAt builds a square n x n geometry for a centred view at the given
// magnification, using the same step derivation as the engine.
func geometryAt(centreX, centreY, magnification float64, n int) PlaneGeometry {
	step := planeRangeX / magnification / float64(n)
	return PlaneGeometry{
		CentreX: centreX, CentreY: centreY,
		DX: step, DY: step,
		Nx: n, Ny: n,
	}
}

func TestFloatOK(t *testing.T) {
	tests := []struct {
		name          string
		magnification float64
		want          bool
	}{
		{"home view", 1, true},
		{"moderate zoom", 1e3, true},
		{"beyond float32 resolution", 1e12, false},
		{"beyond float64 resolution", 1e18, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := geometryAt(-0.5, 0, tt.magnification, 512)
			if got := FloatOK(g); got != tt.want {
				t.Errorf("FloatOK at x%g = %v, want %v", tt.magnification, got, tt.want)
			}
		})
	}
}

func TestDoubleOK(t *testing.T) {
	tests := []struct {
		name          string
		magnification float64
		want          bool
	}{
		{"home view", 1, true},
		{"past the float32 limit", 1e12, true},
		{"beyond float64 resolution", 1e18, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := geometryAt(-0.5, 0, tt.magnification, 512)
			if got := DoubleOK(g); got != tt.want {
				t.Errorf("DoubleOK at x%g = %v, want %v", tt.magnification, got, tt.want)
			}
		})
	}
}

// Once a format loses adequacy on the way in, deeper magnification never
// restores it.
func TestPrecisionLossIsMonotonic(t *testing.T) {
	lostFloat, lostDouble := false, false
	for mag := 1.0; mag <= 1e20; mag *= 10 {
		g := geometryAt(-0.5, 0.1, mag, 512)
		if f := FloatOK(g); lostFloat && f {
			t.Fatalf("FloatOK regained adequacy at x%g", mag)
		} else if !f {
			lostFloat = true
		}
		if d := DoubleOK(g); lostDouble && d {
			t.Fatalf("DoubleOK regained adequacy at x%g", mag)
		} else if !d {
			lostDouble = true
		}
	}
	if !lostFloat || !lostDouble {
		t.Fatalf("expected both formats to lose adequacy by x1e20 (float lost %v, double lost %v)",
			lostFloat, lostDouble)
	}
}

func TestPrecisionDegenerateImages(t *testing.T) {
	tests := []struct {
		name   string
		nx, ny int
	}{
		{"single pixel", 1, 1},
		{"single column", 1, 512},
		{"single row", 512, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := PlaneGeometry{DX: 0.01, DY: 0.01, Nx: tt.nx, Ny: tt.ny}
			if FloatOK(g) || DoubleOK(g) {
				t.Errorf("adequacy reported for %dx%d image", tt.nx, tt.ny)
			}
		})
	}
}
