package mandelzoom

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Snapshot returns the most recently drawn frame as an RGBA image. It
// returns an error before the first successful Draw.
//
// The pixels are copied, so the snapshot stays valid across later frames.
func (v *Viewer) Snapshot() (*image.RGBA, error) {
	nx, ny := v.engine.ImageSize()
	if v.lastRGB == nil || len(v.lastRGB) != nx*ny*3 {
		return nil, fmt.Errorf("%w: no frame drawn yet", ErrResourceAllocation)
	}
	img := image.NewRGBA(image.Rect(0, 0, nx, ny))
	for i := 0; i < nx*ny; i++ {
		img.Pix[i*4] = v.lastRGB[i*3]
		img.Pix[i*4+1] = v.lastRGB[i*3+1]
		img.Pix[i*4+2] = v.lastRGB[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return img, nil
}

// Thumbnail returns the current frame scaled to w x h, for preset-memory
// previews and similar chrome. CatmullRom keeps the filament detail that a
// box filter would smear away.
func (v *Viewer) Thumbnail(w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: thumbnail size %dx%d", ErrInvalidViewState, w, h)
	}
	src, err := v.Snapshot()
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, nil
}
