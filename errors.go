package mandelzoom

import "errors"

// Errors returned by the compute engine and viewer.
var (
	// ErrBackendUnavailable indicates the requested GPU precision is not
	// supported on the current device. Not fatal: the engine substitutes
	// the next best backend automatically.
	ErrBackendUnavailable = errors.New("mandelzoom: compute backend unavailable")

	// ErrNoAccelerator indicates no GPU accelerator has been registered.
	// GPU compute requests fall back to the CPU path.
	ErrNoAccelerator = errors.New("mandelzoom: no GPU accelerator registered")

	// ErrInvalidViewState indicates a view mutation that would leave the
	// state machine inconsistent (non-positive magnification, zero image
	// dimensions). State-mutation boundaries reject such values; compute
	// never has to re-check them.
	ErrInvalidViewState = errors.New("mandelzoom: invalid view state")

	// ErrResourceAllocation indicates a buffer or image allocation failed.
	// Fatal to the frame being drawn; the frame is skipped and the error
	// reported to the caller of Draw.
	ErrResourceAllocation = errors.New("mandelzoom: resource allocation failed")
)
