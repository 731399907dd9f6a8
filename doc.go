// Package mandelzoom is the compute and coordination core of an interactive
// Mandelbrot set visualizer.
//
// The package owns everything between input events and a finished RGB frame:
// the escape-time iteration engine with a multi-core CPU path and optional
// GPU kernels, the screen/plane coordinate mapping, the floating-point
// precision advisor that decides per frame whether 32-bit GPU arithmetic is
// still safe at the current magnification, the orbit tracer for cursor
// overlays, the histogram-equalizing colour mapper, and the zoom/view state
// machine that drives all of them.
//
// Window creation, the OS event loop and GPU device bootstrap live outside
// this package. The host feeds events in through the Viewer's On* handlers
// and receives frames through the Renderer interface it supplies. GPU
// kernels are optional and enabled by blank import:
//
//	import _ "github.com/gogpu/mandelzoom/gpu" // enables GPU iteration kernels
//
// Without that import (or when no usable device is found) the viewer runs
// entirely on the CPU path and remains fully functional, if more slowly.
package mandelzoom
