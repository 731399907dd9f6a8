package mandelzoom

// MemorySlots is the number of preset view memories.
const MemorySlots = 10

// Memory is one stored view: a plane centre plus a magnification.
type Memory struct {
	CentreX, CentreY float64
	Magnification    float64
}

// defaultCentreX, defaultCentreY and defaultMagnification describe the home
// view: the whole set, centred on the real axis between the main cardioid
// and the period-2 bulb.
const (
	defaultCentreX       = -0.5
	defaultCentreY       = 0.0
	defaultMagnification = 1.0
)

// defaultMemories seeds the preset slots. Slot 0 is the home view; the
// remaining slots point at well-known landmarks so a fresh session has
// somewhere interesting to jump to.
var defaultMemories = [MemorySlots]Memory{
	{defaultCentreX, defaultCentreY, defaultMagnification},
	{-0.75, 0.1, 20},            // Seahorse Valley
	{-1.8, -0.06, 25},           // Elephant Valley
	{-0.74275, 0.13175, 1.3e3},  // spiral minibrot
	{-0.7465, 0.0965, 6.6e2},    // triple spiral
	{-0.7375, 0.1825, 4e2},      // Valley of the Dragon
	{-1.73825, -0.02275, 1.3e3}, // minibrot in a mini-spiral
	{-0.1592, 1.0317, 2e2},      // top-bulb filaments
	{0.2925, 0.0149, 1e3},       // east-coast valley
	{-1.25066, 0.02012, 2e3},    // scepter valley
}

// SetMemoriesToDefault resets every preset slot to its built-in value.
func (v *Viewer) SetMemoriesToDefault() {
	v.memories = defaultMemories
}

// Memory returns the preset stored in slot i, or a zero Memory for an
// out-of-range slot.
func (v *Viewer) Memory(i int) Memory {
	if i < 0 || i >= MemorySlots {
		return Memory{}
	}
	return v.memories[i]
}

// StoreMemory writes the current centre and magnification into slot i.
// Slots change only through this explicit operation.
func (v *Viewer) StoreMemory(i int) {
	if i < 0 || i >= MemorySlots {
		return
	}
	v.memories[i] = Memory{
		CentreX:       v.centreX,
		CentreY:       v.centreY,
		Magnification: v.magnification,
	}
}

// RecallMemory restores the centre and magnification from slot i and marks
// the view dirty.
func (v *Viewer) RecallMemory(i int) {
	if i < 0 || i >= MemorySlots {
		return
	}
	m := v.memories[i]
	v.centreX, v.centreY = m.CentreX, m.CentreY
	v.magnification = m.Magnification
	v.markDirty()
}
