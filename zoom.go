package mandelzoom

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ZoomMode is the state of the zoom controller.
type ZoomMode int

const (
	// ZoomNone means no animated zoom is active.
	ZoomNone ZoomMode = iota

	// ZoomIn grows the magnification each frame while active.
	ZoomIn

	// ZoomOut shrinks the magnification each frame while active.
	ZoomOut

	// ZoomTimedTest runs a fixed benchmark: magnification grows for the
	// first half of timedTestDuration, shrinks for the second half, and
	// the session stops itself when the time is up.
	ZoomTimedTest
)

// String returns the mode name used in summaries.
func (z ZoomMode) String() string {
	switch z {
	case ZoomIn:
		return "zoom-in"
	case ZoomOut:
		return "zoom-out"
	case ZoomTimedTest:
		return "timed-test"
	default:
		return "none"
	}
}

const (
	// zoomRatePerSecond is the target magnification growth: x2 per second
	// of wall-clock zoom time.
	zoomRatePerSecond = 2.0

	// fixedFrameSeconds is the per-frame step assumed when frame-time
	// compensation is disabled (exactly 60 fps).
	fixedFrameSeconds = 1.0 / 60.0

	// timedTestDuration is the total length of a timed zoom test. The
	// direction flips at the halfway point.
	timedTestDuration = 10 * time.Second
)

// zoomSession accumulates statistics for one zoom run. It is reset when a
// zoom mode starts and reported when it ends.
type zoomSession struct {
	started   time.Time
	lastFrame time.Time

	frames      [backendCount]int
	computeTime [backendCount]time.Duration
	renderTime  time.Duration
}

func (s *zoomSession) reset(now time.Time) {
	*s = zoomSession{started: now, lastFrame: now}
}

func (s *zoomSession) record(b Backend, compute, render time.Duration) {
	s.frames[b]++
	s.computeTime[b] += compute
	s.renderTime += render
}

// ZoomSummary reports one finished zoom session.
type ZoomSummary struct {
	Mode    ZoomMode
	Elapsed time.Duration

	// Frames and ComputeTime are indexed by Backend.
	Frames      [backendCount]int
	ComputeTime [backendCount]time.Duration

	// RenderTime is the total time spent colour-mapping and handing
	// frames to the renderer, across all backends.
	RenderTime time.Duration
}

// TotalFrames returns the frame count summed over backends.
func (s ZoomSummary) TotalFrames() int {
	n := 0
	for _, f := range s.Frames {
		n += f
	}
	return n
}

// FPS returns the mean frame rate over the session, or 0 for an empty one.
func (s ZoomSummary) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalFrames()) / s.Elapsed.Seconds()
}

// String formats the summary as a single log-friendly line.
func (s ZoomSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d frames in %.2fs (%.1f fps)",
		s.Mode, s.TotalFrames(), s.Elapsed.Seconds(), s.FPS())
	for be := Backend(0); be < backendCount; be++ {
		if s.Frames[be] == 0 {
			continue
		}
		fmt.Fprintf(&b, ", %s %d frames %.2fs compute",
			be, s.Frames[be], s.ComputeTime[be].Seconds())
	}
	fmt.Fprintf(&b, ", %.2fs render", s.RenderTime.Seconds())
	return b.String()
}

// stepZoom applies one frame's magnification step for the active zoom mode
// and re-marks the view dirty. Returns the session summary when the step
// ended a timed test, nil otherwise.
//
// Both the end-of-test check and the grow/shrink direction use the elapsed
// time at the start of the step, so a timed test spends exactly as many
// steps growing as shrinking and lands back on its initial magnification.
func (v *Viewer) stepZoom(now time.Time) *ZoomSummary {
	if v.zoomMode == ZoomNone {
		return nil
	}

	elapsed := v.session.lastFrame.Sub(v.session.started)
	if v.zoomMode == ZoomTimedTest && elapsed >= timedTestDuration {
		return v.endZoom(now)
	}

	frameSeconds := fixedFrameSeconds
	if v.cfg.FrameCompensation {
		frameSeconds = now.Sub(v.session.lastFrame).Seconds()
	}
	v.session.lastFrame = now

	factor := math.Pow(zoomRatePerSecond, frameSeconds)
	grow := v.zoomMode == ZoomIn ||
		(v.zoomMode == ZoomTimedTest && elapsed < timedTestDuration/2)
	if grow {
		v.magnification *= factor
	} else {
		v.divideMagnification(factor)
	}
	v.markDirty()
	return nil
}

// beginZoom enters the given zoom mode, resetting the session counters.
func (v *Viewer) beginZoom(mode ZoomMode) {
	v.zoomMode = mode
	v.session.reset(v.now())
	v.markDirty()
}

// endZoom leaves any active zoom mode and returns the session summary.
func (v *Viewer) endZoom(now time.Time) *ZoomSummary {
	if v.zoomMode == ZoomNone {
		return nil
	}
	s := &ZoomSummary{
		Mode:        v.zoomMode,
		Elapsed:     now.Sub(v.session.started),
		Frames:      v.session.frames,
		ComputeTime: v.session.computeTime,
		RenderTime:  v.session.renderTime,
	}
	v.zoomMode = ZoomNone
	v.lastSummary = s
	Logger().Info("zoom session finished", "summary", s.String())
	return s
}
