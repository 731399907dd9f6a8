//go:build !nogpu

// Package gpu implements the wgpu/hal compute accelerator behind the
// mandelzoom iteration kernels.
//
// Two WGSL compute shaders (one per floating-point width) are compiled to
// SPIR-V at init time and dispatched over the iteration image in 16x16
// workgroups. The double-precision pipeline is probed at init: devices or
// shader compilers without f64 support simply fail the probe, and the
// accelerator reports double precision as unavailable instead of erroring.
//
// The package is wired up by github.com/gogpu/mandelzoom/gpu, which
// registers the accelerator on blank import.
package gpu
