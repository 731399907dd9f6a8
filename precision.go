package mandelzoom

// Precision adequacy checks.
//
// At high magnification the plane step between adjacent pixels shrinks below
// the resolution of the floating-point format evaluating the kernel, and
// neighbouring pixels collapse onto the same representable coordinate. The
// advisor detects this by probing pixel pairs: a format is adequate at a
// pixel only if the coordinates of that pixel and its +1 neighbour remain
// distinguishable after rounding to the format.
//
// Probing every pixel would cost as much as the frame itself, so a fixed
// gridSamples x gridSamples grid of evenly spaced positions is tested and a
// single failing sample fails the whole check. Precision loss between grid
// lines can go undetected; that sampling density is a deliberate, known
// approximation and must not be changed without revisiting the behavior
// documented in the tests.
const gridSamples = 10

// PlaneGeometry describes the pixel-to-plane mapping of one iteration
// image: the plane coordinate of the image centre, the per-axis plane step
// between adjacent pixels, and the image dimensions.
type PlaneGeometry struct {
	CentreX, CentreY float64
	DX, DY           float64
	Nx, Ny           int
}

// pixelPlane returns the plane coordinates of pixel (ix, iy) in float64.
func (g PlaneGeometry) pixelPlane(ix, iy int) (x, y float64) {
	x = g.CentreX + (float64(ix)-float64(g.Nx)*0.5)*g.DX
	y = g.CentreY + (float64(iy)-float64(g.Ny)*0.5)*g.DY
	return x, y
}

// FloatOK reports whether 32-bit floats can distinguish adjacent pixel
// coordinates at every sampled position of the image.
func FloatOK(g PlaneGeometry) bool {
	return precisionOK(g, func(a, b float64) bool {
		return float32(a) != float32(b)
	})
}

// DoubleOK reports whether 64-bit floats can distinguish adjacent pixel
// coordinates at every sampled position of the image.
func DoubleOK(g PlaneGeometry) bool {
	return precisionOK(g, func(a, b float64) bool {
		return a != b
	})
}

// precisionOK runs the sampling grid with the given distinguishability test.
func precisionOK(g PlaneGeometry, distinct func(a, b float64) bool) bool {
	if g.Nx < 2 || g.Ny < 2 {
		return false
	}
	for i := 0; i < gridSamples; i++ {
		ix := i * (g.Nx - 1) / (gridSamples - 1)
		for j := 0; j < gridSamples; j++ {
			iy := j * (g.Ny - 1) / (gridSamples - 1)
			x0, y0 := g.pixelPlane(ix, iy)
			x1, _ := g.pixelPlane(ix+1, iy)
			_, y1 := g.pixelPlane(ix, iy+1)
			if !distinct(x0, x1) || !distinct(y0, y1) {
				return false
			}
		}
	}
	return true
}
