// Command mandelview is an interactive SDL2 host for the mandelzoom core.
//
// It owns the window, the OS event loop and a streaming texture; everything
// else — compute, colour, zoom state — happens inside the mandelzoom
// package. Run with -debug for per-frame logging, -cpu to disable the GPU
// kernels for this session.
//
// Bindings: z/x hold to zoom, t timed test, r reset, a/c/g backend policy,
// u/i/o/p image size, 0-9 preset memories, click to recentre, drag to pan,
// wheel to zoom at the cursor.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/gogpu/mandelzoom"
	_ "github.com/gogpu/mandelzoom/gpu" // enables GPU iteration kernels
)

func main() {
	var (
		width   = flag.Int("width", 800, "window width")
		height  = flag.Int("height", 600, "window height")
		size    = flag.Int("size", 512, "base iteration image size")
		maxIter = flag.Int("iter", 1024, "iteration limit")
		cpuOnly = flag.Bool("cpu", false, "start with the force-CPU backend policy")
		debug   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	mandelzoom.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*width, *height, *size, *maxIter, *cpuOnly, *debug); err != nil {
		fmt.Fprintln(os.Stderr, "mandelview:", err)
		os.Exit(1)
	}
}

func run(width, height, size, maxIter int, cpuOnly, debug bool) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_TIMER); err != nil {
		return err
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"Mandelbrot",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	display := newDisplay(renderer)
	defer display.close()

	policy := mandelzoom.PolicyAuto
	if cpuOnly {
		policy = mandelzoom.PolicyForceCPU
	}
	viewer, err := mandelzoom.New(display, mandelzoom.Config{
		Nx: size, Ny: size,
		MaxIter:           maxIter,
		ViewWidth:         float64(width),
		ViewHeight:        float64(height),
		Policy:            policy,
		FrameCompensation: true,
		Debug:             debug,
	})
	if err != nil {
		return err
	}

	title := ""
	for {
		for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
			if quit := dispatch(viewer, e); quit {
				return nil
			}
		}

		if err := viewer.Draw(); err != nil {
			mandelzoom.Logger().Warn("frame skipped", "err", err)
		}
		if t := viewer.Title(); t != title {
			title = t
			window.SetTitle(t)
		}
		display.present()
	}
}

// dispatch translates one SDL event into core viewer events.
// Returns true when the host should quit.
func dispatch(v *mandelzoom.Viewer, e sdl.Event) bool {
	switch t := e.(type) {
	case *sdl.QuitEvent:
		return true
	case *sdl.WindowEvent:
		if t.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			v.SetViewSize(float64(t.Data1), float64(t.Data2))
		}
	case *sdl.KeyboardEvent:
		if t.Keysym.Sym == sdl.K_ESCAPE {
			return true
		}
		k := mandelzoom.Key(t.Keysym.Sym)
		if t.Type == sdl.KEYDOWN && t.Repeat == 0 {
			v.OnKeyDown(k)
		} else if t.Type == sdl.KEYUP {
			v.OnKeyUp(k)
		}
	case *sdl.MouseButtonEvent:
		b := mandelzoom.MouseLeft
		if t.Button != sdl.BUTTON_LEFT {
			b = mandelzoom.MouseRight
		}
		if t.Type == sdl.MOUSEBUTTONDOWN {
			v.OnMouseDown(float64(t.X), float64(t.Y), b)
		} else {
			v.OnMouseUp(float64(t.X), float64(t.Y), b)
		}
	case *sdl.MouseMotionEvent:
		v.OnMouseMove(float64(t.X), float64(t.Y))
	case *sdl.MouseWheelEvent:
		x, y, _ := sdl.GetMouseState()
		v.OnScroll(float64(x), float64(y), float64(t.Y))
	}
	return false
}
