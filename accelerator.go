package mandelzoom

import (
	"errors"
	"sync"
)

// Precision selects the floating-point width of a GPU kernel dispatch.
type Precision int

const (
	// PrecisionSingle runs the 32-bit kernel.
	PrecisionSingle Precision = iota

	// PrecisionDouble runs the 64-bit kernel. Only available when the
	// device supports double-precision shader arithmetic.
	PrecisionDouble
)

// String returns "single" or "double".
func (p Precision) String() string {
	if p == PrecisionDouble {
		return "double"
	}
	return "single"
}

// KernelParams is the parameter block uploaded to a kernel before dispatch.
// It fully describes one iteration image: the plane coordinate of the image
// centre, the per-axis plane step between adjacent pixels, the iteration
// limit and the image dimensions.
type KernelParams struct {
	CentreX, CentreY float64
	DX, DY           float64
	MaxIter          uint32
	Nx, Ny           int
}

// KernelAccelerator is an optional GPU iteration-kernel provider.
//
// When registered via RegisterAccelerator, the compute engine dispatches
// GPU-backend frames through it. Any error from Compute makes the engine
// fall back to the CPU kernel for that frame; ErrBackendUnavailable from a
// double-precision request makes it retry at single precision first.
//
// Implementations are provided by GPU backend packages. Users opt in via
// blank import:
//
//	import _ "github.com/gogpu/mandelzoom/gpu" // enables GPU kernels
type KernelAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu-compute").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// SupportsDouble reports whether the device can run the
	// double-precision kernel.
	SupportsDouble() bool

	// Compute uploads params, dispatches the escape-time kernel over the
	// whole image at the given precision, blocks until the device-side
	// result is readable, and writes the iteration counts into dst
	// (row-major, len Nx*Ny). Counts use the same convention as the CPU
	// kernel: 0 means the iteration limit was reached without escape.
	Compute(params KernelParams, precision Precision, dst []uint32) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share a GPU device with an external provider (e.g., a windowing host).
// When SetDeviceProvider is called, the accelerator reuses the provided
// device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   KernelAccelerator
)

// RegisterAccelerator registers a GPU accelerator for the iteration kernels.
//
// Only one accelerator can be registered; subsequent calls replace the
// previous one. The accelerator's Init() method is called during
// registration. If Init() fails, the accelerator is not registered and the
// error is returned.
//
// Typical usage via blank import in GPU backend packages:
//
//	func init() {
//	    mandelzoom.RegisterAccelerator(NewAccelerator())
//	}
func RegisterAccelerator(a KernelAccelerator) error {
	if a == nil {
		return errors.New("mandelzoom: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Accelerator returns the currently registered accelerator, or nil if none.
func Accelerator() KernelAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator, enabling GPU device sharing. If no accelerator is registered
// or it does not support device sharing, this is a no-op.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
