package mandelzoom

import "fmt"

// MappingStrategy selects how raw iteration counts are spread over the
// palette.
type MappingStrategy int

const (
	// MapHistogramEqualise distributes palette levels proportionally to
	// how many pixels carry each count, maximizing visual contrast. This
	// is the default and visually preferred strategy.
	MapHistogramEqualise MappingStrategy = iota

	// MapPercentileLinear is the legacy strategy: discard the extreme
	// tails of the count distribution and map the retained range to the
	// palette linearly.
	MapPercentileLinear
)

// defaultPercentile is the fraction of nonzero pixels retained by
// MapPercentileLinear.
const defaultPercentile = 0.95

// ColourMapper turns an IterationImage into packed RGB.
//
// The mapper owns its output buffer and scratch histogram; both are reused
// across frames and grown only when the image dimensions or the iteration
// limit change. Mapping is deterministic: the same image always produces
// the same bytes.
type ColourMapper struct {
	strategy   MappingStrategy
	percentile float64

	hist   []int   // per-count pixel totals, len >= maxIter
	levels []uint8 // per-count palette level, len >= maxIter
	rgb    []uint8 // packed RGB output, 3 bytes per pixel
}

// NewColourMapper creates a mapper using the given strategy.
func NewColourMapper(strategy MappingStrategy) *ColourMapper {
	return &ColourMapper{strategy: strategy, percentile: defaultPercentile}
}

// SetStrategy switches the mapping strategy for subsequent frames.
func (m *ColourMapper) SetStrategy(s MappingStrategy) { m.strategy = s }

// Strategy returns the active mapping strategy.
func (m *ColourMapper) Strategy() MappingStrategy { return m.strategy }

// Map colours the image and returns the packed RGB buffer, 3 bytes per
// pixel in row-major order. The buffer is owned by the mapper and valid
// until the next Map call. maxIter must be the iteration limit the image
// was computed with.
func (m *ColourMapper) Map(img IterationImage, maxIter int) ([]uint8, error) {
	if maxIter <= 0 || len(img.Counts) != img.Nx*img.Ny || len(img.Counts) == 0 {
		return nil, fmt.Errorf("%w: colour map input", ErrInvalidViewState)
	}
	m.resize(img.Nx*img.Ny, maxIter)

	m.buildHistogram(img.Counts, maxIter)
	switch m.strategy {
	case MapPercentileLinear:
		m.assignLinear(maxIter)
	default:
		m.assignEqualised(maxIter)
	}

	for i, v := range img.Counts {
		c := palette[m.levels[v]]
		m.rgb[i*3] = c[0]
		m.rgb[i*3+1] = c[1]
		m.rgb[i*3+2] = c[2]
	}
	return m.rgb, nil
}

// LevelFor returns the palette level assigned to a raw count by the most
// recent Map call. Exposed for tests and diagnostics.
func (m *ColourMapper) LevelFor(count uint32) uint8 {
	return m.levels[count]
}

func (m *ColourMapper) resize(pixels, maxIter int) {
	if cap(m.hist) < maxIter {
		m.hist = make([]int, maxIter)
		m.levels = make([]uint8, maxIter)
	}
	m.hist = m.hist[:maxIter]
	m.levels = m.levels[:maxIter]
	if cap(m.rgb) < pixels*3 {
		m.rgb = make([]uint8, pixels*3)
	}
	m.rgb = m.rgb[:pixels*3]
}

// buildHistogram tallies counts into m.hist. Bucket 0 holds the pixels
// treated as inside the set.
func (m *ColourMapper) buildHistogram(counts []uint32, maxIter int) {
	for i := range m.hist {
		m.hist[i] = 0
	}
	for _, v := range counts {
		if int(v) < maxIter {
			m.hist[v]++
		}
	}
}

// activeRange returns the smallest and largest buckets above 0 with any
// pixels, plus the pixel total across them. ok is false when every pixel
// is inside the set.
func (m *ColourMapper) activeRange(maxIter int) (minV, maxV, total int, ok bool) {
	minV = -1
	for v := 1; v < maxIter; v++ {
		if m.hist[v] == 0 {
			continue
		}
		if minV < 0 {
			minV = v
		}
		maxV = v
		total += m.hist[v]
	}
	return minV, maxV, total, minV >= 0
}

// assignEqualised fills m.levels using histogram equalization.
//
// Palette levels 1..255 are walked across the active bucket range, moving
// to the next level whenever the pixels accumulated within the current
// level exceed its running target. The target is recomputed as levels are
// consumed so that late, sparse buckets still spread over the remaining
// levels. Bucket 0 always maps to level 0; buckets below the active range
// map to 1 and above it to 255.
func (m *ColourMapper) assignEqualised(maxIter int) {
	minV, maxV, total, ok := m.activeRange(maxIter)
	m.levels[0] = 0
	if !ok {
		for v := 1; v < maxIter; v++ {
			m.levels[v] = 1
		}
		return
	}

	level := 1
	acc := 0
	remaining := total
	target := float64(total) / float64(PaletteSize)
	for v := minV; v <= maxV; v++ {
		m.levels[v] = uint8(level)
		acc += m.hist[v]
		remaining -= m.hist[v]
		if float64(acc) > target && level < PaletteSize-1 {
			level++
			acc = 0
			target = float64(remaining) / float64(PaletteSize-level)
		}
	}
	// The counter may have stepped past the last level it handed out; the
	// stretch below needs the level the top bucket actually received.
	topLevel := int(m.levels[maxV])

	// A clustered distribution can finish without touching the top of the
	// palette; stretch the assigned levels over the full [1,255] range.
	if topLevel > 1 && topLevel < PaletteSize-1 {
		for v := minV; v <= maxV; v++ {
			l := int(m.levels[v])
			m.levels[v] = uint8(1 + (l-1)*(PaletteSize-2)/(topLevel-1))
		}
	}

	for v := 1; v < minV; v++ {
		m.levels[v] = 1
	}
	for v := maxV + 1; v < maxIter; v++ {
		m.levels[v] = PaletteSize - 1
	}
}

// assignLinear fills m.levels with the legacy percentile-range scaling:
// the count histogram is trimmed symmetrically until the retained range
// covers m.percentile of the nonzero pixels, then mapped linearly onto the
// palette.
func (m *ColourMapper) assignLinear(maxIter int) {
	minV, maxV, total, ok := m.activeRange(maxIter)
	m.levels[0] = 0
	if !ok {
		for v := 1; v < maxIter; v++ {
			m.levels[v] = 1
		}
		return
	}

	discard := int(float64(total) * (1 - m.percentile) / 2)
	lo, hi := minV, maxV
	for n := 0; lo < hi; lo++ {
		n += m.hist[lo]
		if n > discard {
			break
		}
	}
	for n := 0; hi > lo; hi-- {
		n += m.hist[hi]
		if n > discard {
			break
		}
	}

	span := hi - lo
	for v := 1; v < maxIter; v++ {
		switch {
		case v <= lo:
			m.levels[v] = 0
		case v >= hi:
			m.levels[v] = PaletteSize - 1
		default:
			m.levels[v] = uint8((v - lo) * (PaletteSize - 1) / span)
		}
	}
}
