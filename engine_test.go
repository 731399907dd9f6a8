package mandelzoom

import (
	"errors"
	"math"
	"testing"
)

func TestEngineGeometry(t *testing.T) {
	tests := []struct {
		name           string
		nx, ny         int
		viewW, viewH   float64
		magnification  float64
		wantDX, wantDY float64
	}{
		{"square view at home", 4, 4, 4, 4, 1, 0.5, 0.5},
		{"square view zoomed", 512, 512, 512, 512, 4, 2.0 / 4 / 512, 2.0 / 4 / 512},
		{"wide view squashes the y range", 100, 100, 800, 600, 1, 0.02, 0.015},
		{"tall view stretches the y range", 100, 100, 600, 800, 2, 0.01, 0.01 * 8.0 / 6.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(tt.nx, tt.ny, 100)
			if err != nil {
				t.Fatalf("NewEngine: %v", err)
			}
			if err := e.SetAspect(tt.viewW, tt.viewH); err != nil {
				t.Fatalf("SetAspect: %v", err)
			}
			if err := e.SetMagnification(tt.magnification); err != nil {
				t.Fatalf("SetMagnification: %v", err)
			}
			g := e.Geometry()
			if math.Abs(g.DX-tt.wantDX) > 1e-15 || math.Abs(g.DY-tt.wantDY) > 1e-15 {
				t.Errorf("steps = (%g, %g), want (%g, %g)", g.DX, g.DY, tt.wantDX, tt.wantDY)
			}
		})
	}
}

func TestEngineValidation(t *testing.T) {
	e, err := NewEngine(8, 8, 100)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	tests := []struct {
		name string
		call func() error
	}{
		{"zero width image", func() error { return e.SetImageSize(0, 8) }},
		{"negative height image", func() error { return e.SetImageSize(8, -1) }},
		{"zero magnification", func() error { return e.SetMagnification(0) }},
		{"negative magnification", func() error { return e.SetMagnification(-2) }},
		{"zero iteration limit", func() error { return e.SetMaxIter(0) }},
		{"zero view size", func() error { return e.SetAspect(0, 600) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrInvalidViewState) {
				t.Errorf("err = %v, want ErrInvalidViewState", err)
			}
		})
	}
}

// referenceCounts is an independent, single-threaded re-statement of the
// whole-image computation. It shares the factored (x+y)*(x-y) squaring with
// the kernel — the two must round identically — so any mismatch points at
// the row partitioning or the pixel-to-plane addressing, not the algebra.
func referenceCounts(g PlaneGeometry, maxIter uint32) []uint32 {
	out := make([]uint32, g.Nx*g.Ny)
	for iy := 0; iy < g.Ny; iy++ {
		for ix := 0; ix < g.Nx; ix++ {
			x0 := g.CentreX + (float64(ix)-float64(g.Nx)*0.5)*g.DX
			y0 := g.CentreY + (float64(iy)-float64(g.Ny)*0.5)*g.DY
			var x, y float64
			var count uint32
			for it := uint32(1); it < maxIter; it++ {
				x, y = (x+y)*(x-y)+x0, 2*x*y+y0
				if x*x+y*y >= 4 {
					count = it
					break
				}
			}
			out[iy*g.Nx+ix] = count
		}
	}
	return out
}

func TestComputeCPUMatchesReference(t *testing.T) {
	e, err := NewEngine(64, 48, 200)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.SetCentre(-0.5, 0)
	if err := e.SetAspect(640, 480); err != nil {
		t.Fatalf("SetAspect: %v", err)
	}

	img := e.ComputeCPU()
	want := referenceCounts(e.Geometry(), 200)
	for i, got := range img.Counts {
		if got != want[i] {
			t.Fatalf("count[%d] = %d, want %d", i, got, want[i])
		}
	}
}

func TestComputeCPUKnownCells(t *testing.T) {
	e, err := NewEngine(4, 4, 10)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.SetCentre(-0.5, 0)

	// dx = dy = 0.5, so pixel (ix, iy) sits at (-0.5+(ix-2)*0.5, (iy-2)*0.5).
	img := e.ComputeCPU()
	tests := []struct {
		name   string
		ix, iy int
		want   uint32
	}{
		{"far corner escapes fast", 0, 0, 2},
		{"image centre is inside the set", 2, 2, 0},
		{"c=-i is inside the set", 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.At(tt.ix, tt.iy); got != tt.want {
				t.Errorf("At(%d, %d) = %d, want %d", tt.ix, tt.iy, got, tt.want)
			}
		})
	}
}

func TestComputeCPUDeterministic(t *testing.T) {
	e, err := NewEngine(32, 32, 150)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.SetCentre(-0.75, 0.1)
	if err := e.SetMagnification(50); err != nil {
		t.Fatalf("SetMagnification: %v", err)
	}

	first := append([]uint32(nil), e.ComputeCPU().Counts...)
	for run := 0; run < 3; run++ {
		img := e.ComputeCPU()
		for i, got := range img.Counts {
			if got != first[i] {
				t.Fatalf("run %d: count[%d] = %d, want %d", run, i, got, first[i])
			}
		}
	}
}

func TestEngineBufferReuse(t *testing.T) {
	e, err := NewEngine(16, 16, 50)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	a := e.ComputeCPU()
	b := e.ComputeCPU()
	if &a.Counts[0] != &b.Counts[0] {
		t.Error("iteration buffer reallocated between same-size frames")
	}

	if err := e.SetImageSize(16, 16); err != nil {
		t.Fatalf("SetImageSize: %v", err)
	}
	c := e.ComputeCPU()
	if &b.Counts[0] != &c.Counts[0] {
		t.Error("same-size SetImageSize reallocated the buffer")
	}

	if err := e.SetImageSize(32, 8); err != nil {
		t.Fatalf("SetImageSize: %v", err)
	}
	d := e.ComputeCPU()
	if len(d.Counts) != 32*8 {
		t.Fatalf("buffer length %d after resize, want %d", len(d.Counts), 32*8)
	}
}

func TestComputeGPUWithoutAccelerator(t *testing.T) {
	swapAccelerator(t, nil)

	e, err := NewEngine(8, 8, 50)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := e.ComputeGPU(PrecisionSingle); !errors.Is(err, ErrNoAccelerator) {
		t.Errorf("err = %v, want ErrNoAccelerator", err)
	}
	if e.GPUSupportsDouble() {
		t.Error("GPUSupportsDouble() = true with no accelerator")
	}
}

func TestComputeGPUDowngradesDouble(t *testing.T) {
	fake := &fakeAccelerator{}
	swapAccelerator(t, fake)

	e, err := NewEngine(8, 8, 50)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := e.ComputeGPU(PrecisionDouble); err != nil {
		t.Fatalf("ComputeGPU: %v", err)
	}
	if fake.lastPrecision != PrecisionSingle {
		t.Errorf("dispatched precision %v, want single on a single-only device", fake.lastPrecision)
	}

	fake.double = true
	if _, err := e.ComputeGPU(PrecisionDouble); err != nil {
		t.Fatalf("ComputeGPU: %v", err)
	}
	if fake.lastPrecision != PrecisionDouble {
		t.Errorf("dispatched precision %v, want double", fake.lastPrecision)
	}
}
