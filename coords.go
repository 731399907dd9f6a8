package mandelzoom

// PlaneMap converts between screen pixel coordinates and fractal-plane
// coordinates for one view state. It is a pure value: all four fields are
// inputs, and both conversions are side-effect free.
//
// The visible plane range along X is fixed at 2.0/Magnification and the Y
// range scales with the frame's height/width ratio, so a non-square frame
// shows a non-square but undistorted region of the plane.
type PlaneMap struct {
	CentreX, CentreY float64
	Magnification    float64
	FrameWidth       float64
	FrameHeight      float64
}

// planeRangeX is the full plane width shown at magnification 1.
const planeRangeX = 2.0

// FrameToPlane converts the screen pixel (atX, atY) to plane coordinates.
func (m PlaneMap) FrameToPlane(atX, atY float64) (x, y float64) {
	distX := m.FrameWidth*0.5 - atX
	x = m.CentreX - distX*planeRangeX/(m.FrameWidth*m.Magnification)

	rangeY := planeRangeX * m.FrameHeight / m.FrameWidth
	distY := m.FrameHeight*0.5 - atY
	y = m.CentreY - distY*rangeY/(m.FrameHeight*m.Magnification)
	return x, y
}

// PlaneToFrame converts the plane point (x, y) to screen pixel coordinates.
// It is the exact inverse of FrameToPlane up to floating rounding.
func (m PlaneMap) PlaneToFrame(x, y float64) (atX, atY float64) {
	atX = m.FrameWidth*0.5 - (m.CentreX-x)*m.FrameWidth*m.Magnification/planeRangeX

	rangeY := planeRangeX * m.FrameHeight / m.FrameWidth
	atY = m.FrameHeight*0.5 - (m.CentreY-y)*m.FrameHeight*m.Magnification/rangeY
	return atX, atY
}
