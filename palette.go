package mandelzoom

// The display palette: 256 RGB triples, built once at init and immutable
// afterwards. Entry 0 is reserved for points inside the set and is black;
// entries 1..255 blend through the deep-blue / white / orange gradient,
// wrapping back towards dark at the top so dense bands stay readable.

// PaletteSize is the number of palette entries.
const PaletteSize = 256

// palette holds the process-wide colour table, indexed by palette level.
var palette [PaletteSize][3]uint8

// paletteStop is one control point of the gradient.
type paletteStop struct {
	pos     float64
	r, g, b uint8
}

// paletteStops are the gradient control points, in ascending position.
var paletteStops = []paletteStop{
	{0.0, 0, 7, 100},
	{0.16, 32, 107, 203},
	{0.42, 237, 255, 255},
	{0.6425, 255, 170, 0},
	{0.8575, 0, 2, 0},
	{1.0, 0, 7, 100},
}

func init() {
	palette[0] = [3]uint8{0, 0, 0}
	for i := 1; i < PaletteSize; i++ {
		t := float64(i-1) / float64(PaletteSize-2)
		palette[i] = paletteAt(t)
	}
}

// paletteAt interpolates the gradient at position t in [0, 1].
func paletteAt(t float64) [3]uint8 {
	for s := 1; s < len(paletteStops); s++ {
		hi := paletteStops[s]
		if t > hi.pos {
			continue
		}
		lo := paletteStops[s-1]
		f := (t - lo.pos) / (hi.pos - lo.pos)
		return [3]uint8{
			lerp8(lo.r, hi.r, f),
			lerp8(lo.g, hi.g, f),
			lerp8(lo.b, hi.b, f),
		}
	}
	last := paletteStops[len(paletteStops)-1]
	return [3]uint8{last.r, last.g, last.b}
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
}

// PaletteEntry returns the RGB triple at palette level i.
func PaletteEntry(i int) (r, g, b uint8) {
	c := palette[i]
	return c[0], c[1], c[2]
}
