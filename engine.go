package mandelzoom

import (
	"fmt"

	"github.com/gogpu/mandelzoom/internal/parallel"
)

// IterationImage is a row-major buffer of per-pixel iteration counts.
// A count of 0 means the pixel is treated as inside the set (the iteration
// limit was reached without escape); counts 1..limit-1 record the escape
// iteration.
//
// The buffer is owned by the Engine that produced it and is overwritten by
// the next Compute call. Consumers read it strictly before the next frame.
type IterationImage struct {
	Counts []uint32
	Nx, Ny int
}

// At returns the count at pixel (ix, iy).
func (im IterationImage) At(ix, iy int) uint32 {
	return im.Counts[iy*im.Nx+ix]
}

// Engine generates iteration-count images for the current view settings.
//
// The CPU path partitions image rows into contiguous bands across all
// hardware threads. The GPU paths delegate to the registered
// KernelAccelerator; when double precision is requested on a device without
// double support the single-precision kernel is substituted transparently.
//
// Engine is not safe for concurrent use: one draw cycle runs at a time and
// the image buffer is reused across frames, reallocated only when the image
// dimensions change.
type Engine struct {
	nx, ny        int
	centreX       float64
	centreY       float64
	magnification float64
	maxIter       uint32
	viewWidth     float64
	viewHeight    float64

	counts []uint32 // len nx*ny, reallocated only on size change
}

// NewEngine creates an engine producing nx x ny images. The view aspect
// defaults to the image aspect and the magnification to 1.
func NewEngine(nx, ny int, maxIter int) (*Engine, error) {
	e := &Engine{magnification: 1}
	if err := e.SetImageSize(nx, ny); err != nil {
		return nil, err
	}
	if err := e.SetMaxIter(maxIter); err != nil {
		return nil, err
	}
	e.viewWidth = float64(nx)
	e.viewHeight = float64(ny)
	return e, nil
}

// SetImageSize resizes the output image. The iteration buffer is
// reallocated only when the size actually changes.
func (e *Engine) SetImageSize(nx, ny int) error {
	if nx <= 0 || ny <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidViewState, nx, ny)
	}
	if nx == e.nx && ny == e.ny {
		return nil
	}
	e.nx, e.ny = nx, ny
	e.counts = make([]uint32, nx*ny)
	return nil
}

// SetCentre moves the image centre to the plane point (x, y).
func (e *Engine) SetCentre(x, y float64) {
	e.centreX, e.centreY = x, y
}

// SetMagnification sets the view magnification. Values that are not
// strictly positive are rejected; the viewer's zoom arithmetic keeps its
// magnification strictly positive (division is clamped against underflow),
// so this boundary only guards direct callers and compute never re-checks it.
func (e *Engine) SetMagnification(m float64) error {
	if m <= 0 {
		return fmt.Errorf("%w: magnification %g", ErrInvalidViewState, m)
	}
	e.magnification = m
	return nil
}

// SetMaxIter sets the iteration limit.
func (e *Engine) SetMaxIter(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: iteration limit %d", ErrInvalidViewState, n)
	}
	e.maxIter = uint32(n)
	return nil
}

// SetAspect records the display dimensions so that a non-square view shows
// an undistorted region of the plane.
func (e *Engine) SetAspect(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: view size %gx%g", ErrInvalidViewState, width, height)
	}
	e.viewWidth, e.viewHeight = width, height
	return nil
}

// ImageSize returns the current image dimensions.
func (e *Engine) ImageSize() (nx, ny int) { return e.nx, e.ny }

// Geometry returns the pixel-to-plane mapping of the next image. The
// per-axis steps couple the display aspect into the plane ranges:
//
//	aspect = (viewHeight/viewWidth) * (Nx/Ny)
//	xRange = 2/magnification
//	yRange = aspect * xRange * Ny/Nx
//	dx = xRange/Nx
//	dy = yRange/Ny
func (e *Engine) Geometry() PlaneGeometry {
	aspect := (e.viewHeight / e.viewWidth) * (float64(e.nx) / float64(e.ny))
	xRange := planeRangeX / e.magnification
	yRange := aspect * xRange * float64(e.ny) / float64(e.nx)
	return PlaneGeometry{
		CentreX: e.centreX,
		CentreY: e.centreY,
		DX:      xRange / float64(e.nx),
		DY:      yRange / float64(e.ny),
		Nx:      e.nx,
		Ny:      e.ny,
	}
}

// params assembles the kernel parameter block for the current view.
func (e *Engine) params() KernelParams {
	g := e.Geometry()
	return KernelParams{
		CentreX: g.CentreX, CentreY: g.CentreY,
		DX: g.DX, DY: g.DY,
		MaxIter: e.maxIter,
		Nx:      e.nx, Ny: e.ny,
	}
}

// ComputeCPU generates the iteration image on the CPU, partitioning rows
// across all available hardware threads. Row bands are disjoint regions of
// the shared buffer, so the only synchronization is the final join.
func (e *Engine) ComputeCPU() IterationImage {
	p := e.params()
	parallel.Rows(e.ny, 0, func(lo, hi int) {
		computeRows(p, e.counts, lo, hi)
	})
	return IterationImage{Counts: e.counts, Nx: e.nx, Ny: e.ny}
}

// computeRows runs the kernel over rows [lo, hi) into dst.
func computeRows(p KernelParams, dst []uint32, lo, hi int) {
	halfX := float64(p.Nx) * 0.5
	halfY := float64(p.Ny) * 0.5
	for iy := lo; iy < hi; iy++ {
		y0 := p.CentreY + (float64(iy)-halfY)*p.DY
		row := dst[iy*p.Nx : (iy+1)*p.Nx]
		for ix := range row {
			x0 := p.CentreX + (float64(ix)-halfX)*p.DX
			row[ix] = iterate(x0, y0, p.MaxIter)
		}
	}
}

// ComputeGPU generates the iteration image on the registered GPU
// accelerator at the requested precision.
//
// A double-precision request on a device without double support is
// downgraded to single precision before dispatch. If no accelerator is
// registered, or the dispatch fails, the error is returned and the caller
// decides whether to fall back to ComputeCPU.
func (e *Engine) ComputeGPU(precision Precision) (IterationImage, error) {
	a := Accelerator()
	if a == nil {
		return IterationImage{}, ErrNoAccelerator
	}
	if precision == PrecisionDouble && !a.SupportsDouble() {
		Logger().Debug("double precision unsupported, substituting single")
		precision = PrecisionSingle
	}
	if err := a.Compute(e.params(), precision, e.counts); err != nil {
		return IterationImage{}, fmt.Errorf("gpu %s kernel: %w", precision, err)
	}
	return IterationImage{Counts: e.counts, Nx: e.nx, Ny: e.ny}, nil
}

// GPUSupportsDouble reports whether a registered accelerator can run the
// double-precision kernel. False when no accelerator is registered.
func (e *Engine) GPUSupportsDouble() bool {
	a := Accelerator()
	return a != nil && a.SupportsDouble()
}
