package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/gogpu/mandelzoom"
)

// display presents iteration frames through an SDL streaming texture. It
// implements mandelzoom.Renderer: the core hands it packed RGB frames and
// an orbit overlay in image pixel coordinates, the display stretches both
// to the window.
type display struct {
	renderer *sdl.Renderer
	texture  *sdl.Texture
	nx, ny   int
	overlay  []mandelzoom.FramePoint
	hasFrame bool
}

var _ mandelzoom.Renderer = (*display)(nil)

func newDisplay(r *sdl.Renderer) *display {
	return &display{renderer: r}
}

// SetImageSize recreates the texture when the iteration image resizes.
func (d *display) SetImageSize(nx, ny int) {
	if nx == d.nx && ny == d.ny && d.texture != nil {
		return
	}
	if d.texture != nil {
		d.texture.Destroy()
		d.texture = nil
	}
	d.nx, d.ny = nx, ny
	d.hasFrame = false
}

// SetMaxIter is part of the Renderer interface; the SDL host has no
// per-iteration state to adjust.
func (d *display) SetMaxIter(n int) {}

// SetOverlay stores the orbit polyline for the next present. Points are in
// image pixel coordinates; nil clears the overlay.
func (d *display) SetOverlay(points []mandelzoom.FramePoint) {
	d.overlay = points
}

// Draw uploads one packed RGB frame (3 bytes per pixel, row-major) into
// the streaming texture.
func (d *display) Draw(rgb []uint8) error {
	if len(rgb) != d.nx*d.ny*3 {
		return fmt.Errorf("frame length %d does not match image %dx%d", len(rgb), d.nx, d.ny)
	}
	if d.texture == nil {
		// RGB24 is byte-order R,G,B, matching the core's frame layout.
		t, err := d.renderer.CreateTexture(
			sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING,
			int32(d.nx), int32(d.ny))
		if err != nil {
			return fmt.Errorf("create texture: %w", err)
		}
		d.texture = t
	}

	data, pitch, err := d.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("lock texture: %w", err)
	}
	rowBytes := d.nx * 3
	for y := 0; y < d.ny; y++ {
		copy(data[y*pitch:], rgb[y*rowBytes:(y+1)*rowBytes])
	}
	d.texture.Unlock()
	d.hasFrame = true
	return nil
}

// present blits the last frame and overlay to the window.
func (d *display) present() {
	d.renderer.SetDrawColor(0, 0, 0, 255)
	d.renderer.Clear()
	if d.hasFrame {
		d.renderer.Copy(d.texture, nil, nil)
		d.drawOverlay()
	}
	d.renderer.Present()
	sdl.Delay(1)
}

// drawOverlay draws the orbit polyline, scaled from image pixels to the
// window output size.
func (d *display) drawOverlay() {
	if len(d.overlay) < 2 || d.nx == 0 || d.ny == 0 {
		return
	}
	outW, outH, err := d.renderer.GetOutputSize()
	if err != nil {
		return
	}
	sx := float64(outW) / float64(d.nx)
	sy := float64(outH) / float64(d.ny)

	points := make([]sdl.Point, len(d.overlay))
	for i, p := range d.overlay {
		points[i] = sdl.Point{X: int32(p.X * sx), Y: int32(p.Y * sy)}
	}
	d.renderer.SetDrawColor(255, 255, 255, 255)
	d.renderer.DrawLines(points)
}

func (d *display) close() {
	if d.texture != nil {
		d.texture.Destroy()
		d.texture = nil
	}
}
