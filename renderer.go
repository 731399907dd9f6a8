package mandelzoom

// FramePoint is a point in screen pixel coordinates.
type FramePoint struct {
	X, Y float64
}

// Renderer is the display surface the viewer draws into. Implementations
// live outside this package (a windowing host, a test capture, an image
// writer); the viewer only requires that Draw make the supplied RGB buffer
// visible before returning.
//
// Calls arrive strictly sequentially from the draw cycle: a size or
// overlay change is always followed by the Draw call it applies to.
type Renderer interface {
	// SetImageSize announces the dimensions of subsequent Draw buffers.
	SetImageSize(nx, ny int)

	// SetMaxIter announces the iteration limit used for subsequent frames.
	SetMaxIter(n int)

	// SetOverlay replaces the orbit overlay polyline, in screen pixel
	// coordinates. A nil slice clears the overlay.
	SetOverlay(points []FramePoint)

	// Draw displays a packed RGB frame (3 bytes per pixel, row-major,
	// dimensions as announced by SetImageSize).
	Draw(rgb []uint8) error
}
