package mandelzoom

// iterate runs the escape-time recurrence for the plane point (x0, y0) and
// returns the iteration at which the orbit escaped (|z|^2 >= 4), or 0 if it
// stayed bounded for maxIter iterations and the point is treated as inside
// the set.
//
// The squaring step uses (x+y)*(x-y) for x^2-y^2. The factored form costs
// one multiply instead of two and the GPU kernels use the identical
// expression, so CPU and GPU results match to representable precision.
func iterate(x0, y0 float64, maxIter uint32) uint32 {
	var x, y float64
	for it := uint32(1); it < maxIter; it++ {
		xtmp := (x+y)*(x-y) + x0
		y = 2*x*y + y0
		x = xtmp
		if x*x+y*y >= 4 {
			return it
		}
	}
	return 0
}

// OrbitPoint is one iterate position in the fractal plane.
type OrbitPoint struct {
	X, Y float64
}

// OrbitPath is the sequence of iterate positions for a single starting
// point, recorded for overlay display. An empty path means no overlay.
type OrbitPath struct {
	Points []OrbitPoint
}

// Len returns the number of recorded iterates.
func (p OrbitPath) Len() int { return len(p.Points) }

// TraceOrbit computes the orbit of the plane point (x0, y0): the same
// recurrence as the iteration kernel, but recording the (x, y) pair after
// every step instead of only counting. Tracing stops at escape or after
// maxIter steps, whichever comes first.
//
// The path is always recomputed from scratch; callers replace, never
// append to, a previous orbit.
func TraceOrbit(x0, y0 float64, maxIter int) OrbitPath {
	if maxIter <= 0 {
		return OrbitPath{}
	}
	pts := make([]OrbitPoint, 0, maxIter)
	var x, y float64
	for it := 0; it < maxIter; it++ {
		xtmp := (x+y)*(x-y) + x0
		y = 2*x*y + y0
		x = xtmp
		pts = append(pts, OrbitPoint{X: x, Y: y})
		if x*x+y*y >= 4 {
			break
		}
	}
	return OrbitPath{Points: pts}
}
