package mandelzoom

// Backend identifies which compute path produced a frame.
type Backend int

const (
	// BackendCPU is the multi-core CPU iteration path.
	BackendCPU Backend = iota

	// BackendGPUSingle is the single-precision GPU kernel.
	BackendGPUSingle

	// BackendGPUDouble is the double-precision GPU kernel.
	BackendGPUDouble

	backendCount
)

// String returns the backend label used in titles and summaries.
func (b Backend) String() string {
	switch b {
	case BackendGPUSingle:
		return "GPU(single)"
	case BackendGPUDouble:
		return "GPU(double)"
	default:
		return "CPU"
	}
}

// BackendPolicy controls how the backend is chosen each frame.
type BackendPolicy int

const (
	// PolicyAuto picks the fastest backend whose precision is adequate:
	// single-precision GPU while 32-bit floats can still separate
	// adjacent pixels, then double-precision GPU, then CPU.
	PolicyAuto BackendPolicy = iota

	// PolicyForceCPU always uses the CPU path.
	PolicyForceCPU

	// PolicyForceGPU keeps compute on the GPU, switching to the
	// double-precision kernel only when single precision has become
	// inadequate and the device supports double.
	PolicyForceGPU
)

// String returns the policy name.
func (p BackendPolicy) String() string {
	switch p {
	case PolicyForceCPU:
		return "force-cpu"
	case PolicyForceGPU:
		return "force-gpu"
	default:
		return "auto"
	}
}

// Key identifies a pressed key by its lowercase character. The bindings
// below are the event vocabulary of the viewer; hosts translate their
// native key events into these values.
type Key rune

const (
	// KeyZoomIn starts an animated zoom-in while held.
	KeyZoomIn Key = 'z'

	// KeyZoomOut starts an animated zoom-out while held.
	KeyZoomOut Key = 'x'

	// KeyTimedTest toggles the 10-second timed zoom benchmark.
	KeyTimedTest Key = 't'

	// KeyReset restores the home view and clears the orbit overlay.
	KeyReset Key = 'r'

	// KeyPolicyAuto, KeyPolicyCPU and KeyPolicyGPU change the backend policy.
	KeyPolicyAuto Key = 'a'
	KeyPolicyCPU  Key = 'c'
	KeyPolicyGPU  Key = 'g'

	// KeySizeDouble .. KeySizeQuarter resize the iteration image relative
	// to the configured base size: x2, x1, /2 and /4.
	KeySizeDouble  Key = 'u'
	KeySizeBase    Key = 'i'
	KeySizeHalf    Key = 'o'
	KeySizeQuarter Key = 'p'

	// Digit keys '0'..'9' recall the corresponding preset memory slot.
)

// MouseButton identifies a mouse button in mouse events.
type MouseButton int

const (
	// MouseLeft recentres on the clicked point, or pans while dragged.
	MouseLeft MouseButton = iota

	// MouseRight is reserved for hosts; the core ignores it.
	MouseRight
)
