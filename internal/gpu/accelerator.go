//go:build !nogpu

package gpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandelzoom"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Accelerator runs the escape-time kernels on a wgpu/hal device. It
// implements mandelzoom.KernelAccelerator and
// mandelzoom.DeviceProviderAware.
//
// Dispatches are synchronous from the caller's perspective: Compute blocks
// on a fence until the result has been read back from the staging buffer.
type Accelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	single *kernelPipeline
	double *kernelPipeline // nil when the device cannot run f64
	frame  frameBuffers

	gpuReady       bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
}

// Interface compliance checks.
var _ mandelzoom.KernelAccelerator = (*Accelerator)(nil)
var _ mandelzoom.DeviceProviderAware = (*Accelerator)(nil)

// NewAccelerator creates an unregistered accelerator. Init is called by
// mandelzoom.RegisterAccelerator.
func NewAccelerator() *Accelerator { return &Accelerator{} }

// Name returns the accelerator identifier.
func (a *Accelerator) Name() string { return "wgpu-compute" }

// SetLogger sets the logger for the accelerator and its internals.
// Called by mandelzoom.SetLogger to propagate logging configuration.
func (a *Accelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// Init creates a standalone Vulkan device and compiles the kernel
// pipelines. Failure leaves the accelerator unregistered and the viewer on
// the CPU path.
func (a *Accelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.gpuReady {
		return nil
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		a.closeLocked()
		return fmt.Errorf("no GPU adapters found")
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		a.closeLocked()
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue

	if err := a.buildPipelines(); err != nil {
		a.closeLocked()
		return err
	}

	a.gpuReady = true
	slogger().Info("GPU kernels initialized",
		"adapter", selected.Info.Name,
		"double", a.double != nil)
	return nil
}

// buildPipelines compiles the single-precision pipeline (required) and
// probes the double-precision one (optional).
func (a *Accelerator) buildPipelines() error {
	single, err := newKernelPipeline(a.device, mandelzoom.PrecisionSingle, shaderMandelF32)
	if err != nil {
		return fmt.Errorf("single-precision kernel: %w", err)
	}
	a.single = single

	// Double support is probed, not queried: a device or compiler
	// without f64 fails here and we carry on with single only.
	double, err := newKernelPipeline(a.device, mandelzoom.PrecisionDouble, shaderMandelF64)
	if err != nil {
		slogger().Info("double-precision kernel unavailable", "err", err)
		a.double = nil
		return nil
	}
	a.double = double
	return nil
}

// SupportsDouble reports whether the double-precision kernel compiled.
func (a *Accelerator) SupportsDouble() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.double != nil
}

// Compute dispatches one frame at the given precision into dst.
func (a *Accelerator) Compute(params mandelzoom.KernelParams, precision mandelzoom.Precision, dst []uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.gpuReady {
		return mandelzoom.ErrBackendUnavailable
	}
	if len(dst) != params.Nx*params.Ny {
		return fmt.Errorf("dst length %d does not match image %dx%d",
			len(dst), params.Nx, params.Ny)
	}

	p := a.single
	if precision == mandelzoom.PrecisionDouble {
		if a.double == nil {
			return mandelzoom.ErrBackendUnavailable
		}
		p = a.double
	}
	return a.dispatch(p, params, dst)
}

// SetDeviceProvider switches the accelerator to a shared GPU device from
// an external provider. The provider must expose HalDevice() any and
// HalQueue() any returning hal types.
func (a *Accelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu-compute: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu-compute: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu-compute: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.closeLocked()
	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.buildPipelines(); err != nil {
		return err
	}
	a.gpuReady = true
	slogger().Debug("switched to shared GPU device")
	return nil
}

// Close releases all GPU resources held by the accelerator.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeLocked()
}

func (a *Accelerator) closeLocked() {
	if a.device != nil {
		a.frame.destroy(a.device)
		if a.single != nil {
			a.single.destroy(a.device)
			a.single = nil
		}
		if a.double != nil {
			a.double.destroy(a.device)
			a.double = nil
		}
	}
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.queue = nil
	a.instance = nil
	a.gpuReady = false
	a.externalDevice = false
}
