package mandelzoom

import (
	"fmt"
	"math"
	"time"
)

// Config configures a Viewer. Zero values take the defaults noted on each
// field. All configuration is passed here at construction; the package keeps
// no global settings.
type Config struct {
	// Nx, Ny is the base iteration-image size. Defaults to 512x512.
	// The size-multiplier keys scale relative to this base.
	Nx, Ny int

	// MaxIter is the iteration limit. Defaults to 1024.
	MaxIter int

	// ViewWidth, ViewHeight is the display size in pixels. Defaults to
	// the image size.
	ViewWidth, ViewHeight float64

	// Strategy selects the colour mapping. Defaults to histogram
	// equalization.
	Strategy MappingStrategy

	// Policy is the initial backend policy. Defaults to PolicyAuto.
	Policy BackendPolicy

	// FrameCompensation scales each animated zoom step by the measured
	// time since the previous zoom frame instead of assuming 60 fps, so
	// slow frames do not slow the zoom down.
	FrameCompensation bool

	// Now supplies the clock for zoom timing. Defaults to time.Now.
	// Tests inject a simulated clock here.
	Now func() time.Time

	// Debug enables per-frame debug logging through the package logger.
	Debug bool
}

// withDefaults returns cfg with zero values replaced.
func (cfg Config) withDefaults() Config {
	if cfg.Nx <= 0 {
		cfg.Nx = 512
	}
	if cfg.Ny <= 0 {
		cfg.Ny = 512
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 1024
	}
	if cfg.ViewWidth <= 0 {
		cfg.ViewWidth = float64(cfg.Nx)
	}
	if cfg.ViewHeight <= 0 {
		cfg.ViewHeight = float64(cfg.Ny)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return cfg
}

// Viewer owns the view state and runs the interaction state machine: it
// consumes input events, drives the compute engine and colour mapper, and
// hands finished frames to the renderer.
//
// A single logical thread drives the viewer; no draw cycle overlaps the
// next. All event handlers only mutate state and mark the view dirty, so
// they are cheap to call at input rate. Draw is an idempotent no-op while
// nothing has changed.
type Viewer struct {
	cfg      Config
	engine   *Engine
	mapper   *ColourMapper
	renderer Renderer

	// View state. The viewer is the sole owner; the engine receives
	// copies before each compute.
	centreX, centreY float64
	magnification    float64
	nx, ny           int
	viewW, viewH     float64

	policy        BackendPolicy
	activeBackend Backend
	zoomMode      ZoomMode
	session       zoomSession
	lastSummary   *ZoomSummary
	memories      [MemorySlots]Memory

	// Orbit overlay: the plane point under the cursor, when any.
	orbitSet       bool
	orbitX, orbitY float64

	// Drag state.
	dragging         bool
	dragMoved        bool
	dragX, dragY     float64
	pressX, pressY   float64
	lastRGB          []uint8
	dirty            bool
	title            string
	titleNeedsUpdate bool
}

// New creates a Viewer drawing into renderer.
func New(renderer Renderer, cfg Config) (*Viewer, error) {
	if renderer == nil {
		return nil, fmt.Errorf("mandelzoom: renderer must not be nil")
	}
	cfg = cfg.withDefaults()

	engine, err := NewEngine(cfg.Nx, cfg.Ny, cfg.MaxIter)
	if err != nil {
		return nil, err
	}
	if err := engine.SetAspect(cfg.ViewWidth, cfg.ViewHeight); err != nil {
		return nil, err
	}

	v := &Viewer{
		cfg:           cfg,
		engine:        engine,
		mapper:        NewColourMapper(cfg.Strategy),
		renderer:      renderer,
		centreX:       defaultCentreX,
		centreY:       defaultCentreY,
		magnification: defaultMagnification,
		nx:            cfg.Nx,
		ny:            cfg.Ny,
		viewW:         cfg.ViewWidth,
		viewH:         cfg.ViewHeight,
		policy:        cfg.Policy,
	}
	v.SetMemoriesToDefault()
	renderer.SetImageSize(cfg.Nx, cfg.Ny)
	renderer.SetMaxIter(cfg.MaxIter)
	v.markDirty()
	return v, nil
}

func (v *Viewer) now() time.Time { return v.cfg.Now() }

// markDirty flags the view for recompute on the next Draw.
func (v *Viewer) markDirty() {
	v.dirty = true
	v.titleNeedsUpdate = true
}

// Dirty reports whether the next Draw will recompute the frame.
func (v *Viewer) Dirty() bool { return v.dirty }

// Centre returns the current view centre in plane coordinates.
func (v *Viewer) Centre() (x, y float64) { return v.centreX, v.centreY }

// Magnification returns the current magnification.
func (v *Viewer) Magnification() float64 { return v.magnification }

// Policy returns the current backend policy.
func (v *Viewer) Policy() BackendPolicy { return v.policy }

// ZoomMode returns the active zoom mode.
func (v *Viewer) ZoomMode() ZoomMode { return v.zoomMode }

// ActiveBackend returns the backend that produced the last frame.
func (v *Viewer) ActiveBackend() Backend { return v.activeBackend }

// LastSummary returns the summary of the most recently finished zoom
// session, or nil if none has finished yet.
func (v *Viewer) LastSummary() *ZoomSummary { return v.lastSummary }

// planeMap returns the screen/plane mapping for the current view.
func (v *Viewer) planeMap() PlaneMap {
	return PlaneMap{
		CentreX:       v.centreX,
		CentreY:       v.centreY,
		Magnification: v.magnification,
		FrameWidth:    v.viewW,
		FrameHeight:   v.viewH,
	}
}

// SetViewSize records a changed display size.
func (v *Viewer) SetViewSize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	v.viewW, v.viewH = width, height
	v.markDirty()
}

// SetPolicy changes the backend policy.
func (v *Viewer) SetPolicy(p BackendPolicy) {
	v.policy = p
	v.markDirty()
}

// setImageSize resizes the iteration image to mul times the base size.
func (v *Viewer) setImageSize(mul float64) {
	nx := int(float64(v.cfg.Nx) * mul)
	ny := int(float64(v.cfg.Ny) * mul)
	if err := v.engine.SetImageSize(nx, ny); err != nil {
		Logger().Warn("resize rejected", "err", err)
		return
	}
	v.nx, v.ny = nx, ny
	v.renderer.SetImageSize(nx, ny)
	v.markDirty()
}

// ResetView restores the home view and clears the orbit overlay.
func (v *Viewer) ResetView() {
	v.centreX, v.centreY = defaultCentreX, defaultCentreY
	v.magnification = defaultMagnification
	v.orbitSet = false
	v.renderer.SetOverlay(nil)
	v.markDirty()
}

// ToggleTimedTest starts a timed zoom benchmark, or stops the running one
// and returns its summary.
func (v *Viewer) ToggleTimedTest() *ZoomSummary {
	if v.zoomMode == ZoomTimedTest {
		return v.endZoom(v.now())
	}
	v.beginZoom(ZoomTimedTest)
	return nil
}

// OnKeyDown handles a key press.
func (v *Viewer) OnKeyDown(k Key) {
	switch k {
	case KeyZoomIn:
		if v.zoomMode != ZoomIn {
			v.beginZoom(ZoomIn)
		}
	case KeyZoomOut:
		if v.zoomMode != ZoomOut {
			v.beginZoom(ZoomOut)
		}
	case KeyTimedTest:
		v.ToggleTimedTest()
	case KeyReset:
		v.ResetView()
	case KeyPolicyAuto:
		v.SetPolicy(PolicyAuto)
	case KeyPolicyCPU:
		v.SetPolicy(PolicyForceCPU)
	case KeyPolicyGPU:
		v.SetPolicy(PolicyForceGPU)
	case KeySizeDouble:
		v.setImageSize(2)
	case KeySizeBase:
		v.setImageSize(1)
	case KeySizeHalf:
		v.setImageSize(0.5)
	case KeySizeQuarter:
		v.setImageSize(0.25)
	default:
		if k >= '0' && k <= '9' {
			v.RecallMemory(int(k - '0'))
		}
	}
}

// OnKeyUp handles a key release. Releasing a held zoom key ends the
// animated zoom and reports its summary through the logger.
func (v *Viewer) OnKeyUp(k Key) {
	if (k == KeyZoomIn && v.zoomMode == ZoomIn) ||
		(k == KeyZoomOut && v.zoomMode == ZoomOut) {
		v.endZoom(v.now())
	}
}

// OnMouseDown starts a potential drag-pan or recentre.
func (v *Viewer) OnMouseDown(x, y float64, b MouseButton) {
	if b != MouseLeft {
		return
	}
	v.dragging = true
	v.dragMoved = false
	v.dragX, v.dragY = x, y
	v.pressX, v.pressY = x, y
}

// OnMouseUp finishes a drag. A press released without movement recentres
// the view on the clicked point.
func (v *Viewer) OnMouseUp(x, y float64, b MouseButton) {
	if b != MouseLeft || !v.dragging {
		return
	}
	v.dragging = false
	if !v.dragMoved {
		px, py := v.planeMap().FrameToPlane(x, y)
		v.centreX, v.centreY = px, py
		v.markDirty()
	}
}

// OnMouseMove pans while the left button is held; otherwise it retargets
// the orbit overlay at the plane point under the cursor.
func (v *Viewer) OnMouseMove(x, y float64) {
	if v.dragging {
		// clickSlop ignores the jitter of a stationary press.
		const clickSlop = 2.0
		if math.Abs(x-v.pressX) > clickSlop || math.Abs(y-v.pressY) > clickSlop {
			v.dragMoved = true
		}
		if v.dragMoved {
			m := v.planeMap()
			fromX, fromY := m.FrameToPlane(v.dragX, v.dragY)
			toX, toY := m.FrameToPlane(x, y)
			v.centreX += fromX - toX
			v.centreY += fromY - toY
			v.dragX, v.dragY = x, y
			v.markDirty()
		}
		return
	}
	v.orbitX, v.orbitY = v.planeMap().FrameToPlane(x, y)
	v.orbitSet = true
	v.markDirty()
}

// scrollZoomBase is the magnification factor per scroll notch.
const scrollZoomBase = 1.25

// divideMagnification applies one zoom-out division. A long enough run of
// divisions underflows float64 to exactly zero; the previous value is kept
// in that case, so the magnification stays strictly positive under any
// input sequence. Zoom-in multiplication needs no guard: it saturates at
// +Inf, which is still a positive, drawable magnification.
func (v *Viewer) divideMagnification(factor float64) {
	if m := v.magnification / factor; m > 0 {
		v.magnification = m
	}
}

// OnScroll zooms about the cursor position (atX, atY) by dy notches:
// positive dy zooms in, negative zooms out. The plane point under the
// cursor stays fixed on screen.
func (v *Viewer) OnScroll(atX, atY, dy float64) {
	if dy == 0 {
		return
	}
	anchorX, anchorY := v.planeMap().FrameToPlane(atX, atY)

	factor := math.Pow(scrollZoomBase, math.Abs(dy))
	if dy > 0 {
		v.magnification *= factor
	} else {
		v.divideMagnification(factor)
	}

	// Shift the centre so the anchor stays under the cursor.
	newX, newY := v.planeMap().FrameToPlane(atX, atY)
	v.centreX += anchorX - newX
	v.centreY += anchorY - newY
	v.markDirty()
}

// selectBackend picks the compute backend for this frame from the policy,
// the precision advisor and device capability. Selection and the later
// title refresh happen inside the same Draw call, so the reported backend
// always matches the frame on screen.
func (v *Viewer) selectBackend() Backend {
	hasGPU := Accelerator() != nil
	floatOK := FloatOK(v.engine.Geometry())
	doubleOK := hasGPU && v.engine.GPUSupportsDouble()

	switch v.policy {
	case PolicyForceCPU:
		return BackendCPU
	case PolicyForceGPU:
		if !floatOK && doubleOK {
			return BackendGPUDouble
		}
		return BackendGPUSingle
	default: // PolicyAuto
		switch {
		case !hasGPU:
			return BackendCPU
		case floatOK:
			return BackendGPUSingle
		case doubleOK:
			return BackendGPUDouble
		default:
			return BackendCPU
		}
	}
}

// compute produces the iteration image on the selected backend, falling
// back to the CPU path if a GPU dispatch fails.
func (v *Viewer) compute(b Backend) (IterationImage, Backend) {
	switch b {
	case BackendGPUSingle, BackendGPUDouble:
		precision := PrecisionSingle
		if b == BackendGPUDouble {
			precision = PrecisionDouble
		}
		img, err := v.engine.ComputeGPU(precision)
		if err == nil {
			return img, b
		}
		Logger().Warn("GPU compute failed, falling back to CPU", "err", err)
		fallthrough
	default:
		return v.engine.ComputeCPU(), BackendCPU
	}
}

// Draw runs one draw cycle: when the view is dirty it recomputes the
// iteration image on the selected backend, recolours it, refreshes the
// orbit overlay and hands the frame to the renderer; afterwards any active
// zoom mode applies its per-frame magnification step and re-marks the view
// dirty for the next cycle. When nothing has changed, Draw does nothing.
//
// A failure to produce or display the frame skips the frame and is
// returned; the view stays dirty so the next Draw retries.
func (v *Viewer) Draw() error {
	if !v.dirty {
		return nil
	}

	v.pushViewState()
	backend := v.selectBackend()

	computeStart := v.now()
	img, backend := v.compute(backend)
	computeTime := v.now().Sub(computeStart)
	v.activeBackend = backend

	renderStart := v.now()
	rgb, err := v.mapper.Map(img, int(v.engine.maxIter))
	if err != nil {
		return err
	}
	v.lastRGB = rgb

	v.refreshOverlay(img)

	if err := v.renderer.Draw(rgb); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	renderTime := v.now().Sub(renderStart)

	if v.zoomMode != ZoomNone {
		v.session.record(backend, computeTime, renderTime)
	}
	if v.cfg.Debug {
		Logger().Debug("frame",
			"backend", backend.String(),
			"magnification", v.magnification,
			"compute", computeTime,
			"render", renderTime)
	}

	v.dirty = false
	v.refreshTitle()
	v.stepZoom(v.now())
	return nil
}

// pushViewState copies the authoritative view state into the engine.
func (v *Viewer) pushViewState() {
	v.engine.SetCentre(v.centreX, v.centreY)
	// Magnification positivity is maintained by construction; a failure
	// here would mean the state machine itself is broken.
	if err := v.engine.SetMagnification(v.magnification); err != nil {
		panic(err)
	}
	if err := v.engine.SetAspect(v.viewW, v.viewH); err != nil {
		panic(err)
	}
}

// refreshOverlay retraces the orbit of the current cursor point and hands
// it to the renderer in screen coordinates, scaled to the iteration image.
func (v *Viewer) refreshOverlay(img IterationImage) {
	if !v.orbitSet {
		v.renderer.SetOverlay(nil)
		return
	}
	orbit := TraceOrbit(v.orbitX, v.orbitY, int(v.engine.maxIter))
	m := v.planeMap()
	sx := float64(img.Nx) / v.viewW
	sy := float64(img.Ny) / v.viewH
	pts := make([]FramePoint, 0, orbit.Len())
	for _, p := range orbit.Points {
		fx, fy := m.PlaneToFrame(p.X, p.Y)
		pts = append(pts, FramePoint{X: fx * sx, Y: fy * sy})
	}
	v.renderer.SetOverlay(pts)
}
