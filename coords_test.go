package mandelzoom

import (
	"math"
	"testing"
)

func TestFrameToPlaneKnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		m        PlaneMap
		atX, atY float64
		wantX    float64
		wantY    float64
	}{
		{
			"frame centre maps to view centre",
			PlaneMap{CentreX: -0.5, CentreY: 0, Magnification: 1, FrameWidth: 800, FrameHeight: 600},
			400, 300, -0.5, 0,
		},
		{
			"left edge at magnification 1",
			PlaneMap{CentreX: 0, CentreY: 0, Magnification: 1, FrameWidth: 800, FrameHeight: 800},
			0, 400, -1, 0,
		},
		{
			"right edge at magnification 1",
			PlaneMap{CentreX: 0, CentreY: 0, Magnification: 1, FrameWidth: 800, FrameHeight: 800},
			800, 400, 1, 0,
		},
		{
			"top edge of a square frame",
			PlaneMap{CentreX: 0, CentreY: 0, Magnification: 1, FrameWidth: 800, FrameHeight: 800},
			400, 0, 0, -1,
		},
		{
			"magnification shrinks the visible range",
			PlaneMap{CentreX: 0, CentreY: 0, Magnification: 4, FrameWidth: 800, FrameHeight: 800},
			0, 400, -0.25, 0,
		},
		{
			"non-square frame keeps the plane undistorted",
			PlaneMap{CentreX: 0, CentreY: 0, Magnification: 1, FrameWidth: 800, FrameHeight: 400},
			400, 0, 0, -0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.m.FrameToPlane(tt.atX, tt.atY)
			if math.Abs(x-tt.wantX) > 1e-12 || math.Abs(y-tt.wantY) > 1e-12 {
				t.Errorf("FrameToPlane(%g, %g) = (%g, %g), want (%g, %g)",
					tt.atX, tt.atY, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPlaneFrameRoundTrip(t *testing.T) {
	maps := []struct {
		name string
		m    PlaneMap
	}{
		{"home view", PlaneMap{CentreX: -0.5, CentreY: 0, Magnification: 1, FrameWidth: 800, FrameHeight: 600}},
		{"deep zoom", PlaneMap{CentreX: -0.74275, CentreY: 0.13175, Magnification: 1.3e8, FrameWidth: 1024, FrameHeight: 768}},
		{"tall frame", PlaneMap{CentreX: 0.25, CentreY: -0.1, Magnification: 250, FrameWidth: 480, FrameHeight: 960}},
	}
	points := [][2]float64{{0, 0}, {17, 333}, {799, 1}, {400, 300}, {123.5, 456.25}}

	for _, tm := range maps {
		t.Run(tm.name, func(t *testing.T) {
			for _, p := range points {
				px, py := tm.m.FrameToPlane(p[0], p[1])
				gx, gy := tm.m.PlaneToFrame(px, py)
				if math.Abs(gx-p[0]) > 1e-6 || math.Abs(gy-p[1]) > 1e-6 {
					t.Errorf("round trip of (%g, %g) = (%g, %g)", p[0], p[1], gx, gy)
				}
			}
		})
	}
}
