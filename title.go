package mandelzoom

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// titlePrinter formats the numbers in the title with locale digit
// grouping, so deep-zoom magnifications stay readable.
var titlePrinter = message.NewPrinter(language.English)

// magUnits are the spoken-unit steps used for the magnification readout.
var magUnits = []struct {
	scale float64
	name  string
}{
	{1e15, "quadrillion"},
	{1e12, "trillion"},
	{1e9, "billion"},
	{1e6, "million"},
	{1e3, "thousand"},
}

// formatMagnification renders a magnification in human units:
// "x415.1", "x2.4 million", "x871.0 quadrillion".
func formatMagnification(mag float64) string {
	for _, u := range magUnits {
		if mag >= u.scale {
			return titlePrinter.Sprintf("x%.1f %s", mag/u.scale, u.name)
		}
	}
	return titlePrinter.Sprintf("x%.1f", mag)
}

// refreshTitle rebuilds the status line when the view has changed since
// the last build.
func (v *Viewer) refreshTitle() {
	if !v.titleNeedsUpdate {
		return
	}
	v.title = titlePrinter.Sprintf("Mandelbrot %s %s %dx%d @%d",
		formatMagnification(v.magnification),
		v.activeBackend, v.nx, v.ny, int(v.engine.maxIter))
	v.titleNeedsUpdate = false
}

// Title returns the status line for the current view: magnification in
// human-readable units, the backend that produced the frame on screen, the
// image size and the iteration limit. It is refreshed whenever the view
// changes.
func (v *Viewer) Title() string {
	v.refreshTitle()
	return v.title
}
