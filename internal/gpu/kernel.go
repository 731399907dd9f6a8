//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandelzoom"
)

//go:embed shaders/mandel_f32.wgsl
var shaderMandelF32 string

//go:embed shaders/mandel_f64.wgsl
var shaderMandelF64 string

const (
	// workgroupDim is the x and y workgroup size of both kernels.
	// Matches @workgroup_size(16, 16) in the WGSL.
	workgroupDim = 16

	// paramsSizeF32 and paramsSizeF64 are the uniform block sizes:
	// 4 floats plus 4 u32s at the respective float width.
	paramsSizeF32 = 4*4 + 4*4
	paramsSizeF64 = 4*8 + 4*4

	// kernelFenceTimeout bounds the wait for a dispatched frame.
	kernelFenceTimeout = 5 * time.Second
)

// packParams serializes the kernel parameter block at the given precision.
// The layout matches the Params struct in the corresponding WGSL shader.
func packParams(p mandelzoom.KernelParams, precision mandelzoom.Precision) []byte {
	le := binary.LittleEndian
	if precision == mandelzoom.PrecisionDouble {
		buf := make([]byte, paramsSizeF64)
		le.PutUint64(buf[0:], math.Float64bits(p.CentreX))
		le.PutUint64(buf[8:], math.Float64bits(p.CentreY))
		le.PutUint64(buf[16:], math.Float64bits(p.DX))
		le.PutUint64(buf[24:], math.Float64bits(p.DY))
		le.PutUint32(buf[32:], uint32(p.Nx))
		le.PutUint32(buf[36:], uint32(p.Ny))
		le.PutUint32(buf[40:], p.MaxIter)
		return buf
	}
	buf := make([]byte, paramsSizeF32)
	le.PutUint32(buf[0:], math.Float32bits(float32(p.CentreX)))
	le.PutUint32(buf[4:], math.Float32bits(float32(p.CentreY)))
	le.PutUint32(buf[8:], math.Float32bits(float32(p.DX)))
	le.PutUint32(buf[12:], math.Float32bits(float32(p.DY)))
	le.PutUint32(buf[16:], uint32(p.Nx))
	le.PutUint32(buf[20:], uint32(p.Ny))
	le.PutUint32(buf[24:], p.MaxIter)
	return buf
}

// kernelPipeline holds the compiled pipeline for one precision.
type kernelPipeline struct {
	precision mandelzoom.Precision
	module    hal.ShaderModule
	bgLayout  hal.BindGroupLayout
	layout    hal.PipelineLayout
	pipeline  hal.ComputePipeline
	params    hal.Buffer // uniform, sized for this precision
}

// newKernelPipeline compiles one WGSL kernel and builds its pipeline.
func newKernelPipeline(device hal.Device, precision mandelzoom.Precision, source string) (*kernelPipeline, error) {
	label := fmt.Sprintf("mandel_%s", precision)

	words, err := compileWGSL(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	module, err := createShaderModule(device, label, words)
	if err != nil {
		return nil, fmt.Errorf("%s: create module: %w", label, err)
	}

	p := &kernelPipeline{precision: precision, module: module}
	cleanup := func() { p.destroy(device) }

	p.bgLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_bgl",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
			},
		},
	})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%s: create bind group layout: %w", label, err)
	}

	p.layout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pl",
		BindGroupLayouts: []hal.BindGroupLayout{p.bgLayout},
	})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%s: create pipeline layout: %w", label, err)
	}

	p.pipeline, err = device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  label,
		Layout: p.layout,
		Compute: hal.ComputeState{
			Module:     p.module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%s: create pipeline: %w", label, err)
	}

	paramsSize := uint64(paramsSizeF32)
	if precision == mandelzoom.PrecisionDouble {
		paramsSize = paramsSizeF64
	}
	p.params, err = device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_params",
		Size:  paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%s: create params buffer: %w", label, err)
	}

	return p, nil
}

// destroy releases the pipeline's GPU resources. Safe on a partially
// constructed pipeline.
func (p *kernelPipeline) destroy(device hal.Device) {
	if p.params != nil {
		device.DestroyBuffer(p.params)
		p.params = nil
	}
	if p.pipeline != nil {
		device.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.layout != nil {
		device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.bgLayout != nil {
		device.DestroyBindGroupLayout(p.bgLayout)
		p.bgLayout = nil
	}
	if p.module != nil {
		device.DestroyShaderModule(p.module)
		p.module = nil
	}
}

// frameBuffers holds the per-image GPU buffers, reallocated only when the
// image dimensions change.
type frameBuffers struct {
	pixels  int
	counts  hal.Buffer // storage, written by the kernel
	staging hal.Buffer // map-read copy target for readback
}

// ensure sizes the buffers for pixels counts, reallocating on change.
func (b *frameBuffers) ensure(device hal.Device, pixels int) error {
	if b.pixels == pixels && b.counts != nil {
		return nil
	}
	b.destroy(device)

	size := uint64(pixels) * 4
	counts, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_counts",
		Size:  size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create counts buffer: %w", err)
	}
	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		device.DestroyBuffer(counts)
		return fmt.Errorf("create staging buffer: %w", err)
	}
	b.pixels = pixels
	b.counts = counts
	b.staging = staging
	return nil
}

// destroy releases the frame buffers.
func (b *frameBuffers) destroy(device hal.Device) {
	if b.counts != nil {
		device.DestroyBuffer(b.counts)
		b.counts = nil
	}
	if b.staging != nil {
		device.DestroyBuffer(b.staging)
		b.staging = nil
	}
	b.pixels = 0
}

// dispatch runs one kernel over the image and reads the counts back into
// dst. Blocking: returns once the staging buffer has been read.
func (a *Accelerator) dispatch(p *kernelPipeline, params mandelzoom.KernelParams, dst []uint32) error {
	pixels := params.Nx * params.Ny
	if err := a.frame.ensure(a.device, pixels); err != nil {
		return err
	}

	a.queue.WriteBuffer(p.params, 0, packParams(params, p.precision))

	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "mandel_bg",
		Layout: p.bgLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: p.params.NativeHandle()}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: a.frame.counts.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bg)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "mandel_compute",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("mandel_compute"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "mandel_pass"})
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(groups(params.Nx), groups(params.Ny), 1)
	pass.End()

	size := uint64(pixels) * 4
	encoder.CopyBufferToBuffer(a.frame.counts, a.frame.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)

	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := a.device.Wait(fence, 1, kernelFenceTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("GPU timeout after %v", kernelFenceTimeout)
	}

	readback := make([]byte, size)
	if err := a.queue.ReadBuffer(a.frame.staging, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint32(readback[i*4:])
	}

	slogger().Debug("kernel dispatched",
		"precision", p.precision.String(),
		"image", fmt.Sprintf("%dx%d", params.Nx, params.Ny))
	return nil
}

// groups returns the workgroup count covering n pixels along one axis.
func groups(n int) uint32 {
	return uint32((n + workgroupDim - 1) / workgroupDim)
}
