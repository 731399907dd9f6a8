//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/mandelzoom"
)

func TestPackParamsLayout(t *testing.T) {
	p := mandelzoom.KernelParams{
		CentreX: -0.74275, CentreY: 0.13175,
		DX: 1e-7, DY: 1.5e-7,
		MaxIter: 1024,
		Nx:      800, Ny: 600,
	}
	le := binary.LittleEndian

	t.Run("double", func(t *testing.T) {
		buf := packParams(p, mandelzoom.PrecisionDouble)
		if len(buf) != paramsSizeF64 {
			t.Fatalf("len = %d, want %d", len(buf), paramsSizeF64)
		}
		if got := math.Float64frombits(le.Uint64(buf[0:])); got != p.CentreX {
			t.Errorf("centre_x = %g, want %g", got, p.CentreX)
		}
		if got := math.Float64frombits(le.Uint64(buf[24:])); got != p.DY {
			t.Errorf("dy = %g, want %g", got, p.DY)
		}
		if got := le.Uint32(buf[32:]); got != 800 {
			t.Errorf("nx = %d, want 800", got)
		}
		if got := le.Uint32(buf[40:]); got != 1024 {
			t.Errorf("max_iter = %d, want 1024", got)
		}
	})

	t.Run("single", func(t *testing.T) {
		buf := packParams(p, mandelzoom.PrecisionSingle)
		if len(buf) != paramsSizeF32 {
			t.Fatalf("len = %d, want %d", len(buf), paramsSizeF32)
		}
		if got := math.Float32frombits(le.Uint32(buf[0:])); got != float32(p.CentreX) {
			t.Errorf("centre_x = %g, want %g", got, float32(p.CentreX))
		}
		if got := math.Float32frombits(le.Uint32(buf[12:])); got != float32(p.DY) {
			t.Errorf("dy = %g, want %g", got, float32(p.DY))
		}
		if got := le.Uint32(buf[20:]); got != 600 {
			t.Errorf("ny = %d, want 600", got)
		}
		if got := le.Uint32(buf[24:]); got != 1024 {
			t.Errorf("max_iter = %d, want 1024", got)
		}
	})
}

func TestGroups(t *testing.T) {
	tests := []struct {
		n    int
		want uint32
	}{
		{1, 1},
		{16, 1},
		{17, 2},
		{512, 32},
		{513, 33},
	}
	for _, tt := range tests {
		if got := groups(tt.n); got != tt.want {
			t.Errorf("groups(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestComputeRejectsBadState(t *testing.T) {
	a := NewAccelerator()
	dst := make([]uint32, 4)
	err := a.Compute(mandelzoom.KernelParams{Nx: 2, Ny: 2, MaxIter: 10},
		mandelzoom.PrecisionSingle, dst)
	if err == nil {
		t.Fatal("Compute succeeded on an uninitialized accelerator")
	}
}
