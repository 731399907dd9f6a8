//go:build !nogpu

// Package gpu registers the wgpu compute accelerator for the mandelzoom
// iteration kernels.
//
// Import this package to move iteration-count generation onto the GPU:
//
//	import _ "github.com/gogpu/mandelzoom/gpu" // enables GPU kernels
//
// If GPU initialization fails (no Vulkan available, kernel compilation
// error), the registration is silently skipped and the viewer computes on
// the CPU.
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/mandelzoom"
	gpuimpl "github.com/gogpu/mandelzoom/internal/gpu"
)

func init() {
	if err := mandelzoom.RegisterAccelerator(gpuimpl.NewAccelerator()); err != nil {
		mandelzoom.Logger().Warn("GPU kernels not available", "err", err)
	}
}

// SetDeviceProvider configures the accelerator to reuse a GPU device from
// an external provider (e.g., a windowing host), instead of the standalone
// Vulkan device created at registration. The provider must also expose the
// underlying HAL device and queue for compute dispatch.
//
// Call this once after the host's GPU context exists, before drawing.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return mandelzoom.SetAcceleratorDeviceProvider(provider)
}
