package mandelzoom

import "testing"

func TestIterate(t *testing.T) {
	tests := []struct {
		name    string
		x0, y0  float64
		maxIter uint32
		want    uint32
	}{
		{"origin never escapes", 0, 0, 1000, 0},
		{"origin at limit 1", 0, 0, 1, 0},
		{"far point escapes immediately", 2, 2, 100, 1},
		{"boundary point -2 leaves on the first step", -2, 0, 100, 1},
		{"c=1+i escapes on the second step", 1, 1, 100, 2},
		{"period-2 point -1 stays bounded", -1, 0, 1000, 0},
		{"c=-i stays bounded", 0, -1, 1000, 0},
		{"main cardioid interior", -0.1, 0.05, 1000, 0},
		{"slow escape truncated by a low limit", 0.26, 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := iterate(tt.x0, tt.y0, tt.maxIter); got != tt.want {
				t.Errorf("iterate(%g, %g, %d) = %d, want %d",
					tt.x0, tt.y0, tt.maxIter, got, tt.want)
			}
		})
	}
}

// The count range is limited to 0..maxIter-1: 0 marks the limit reached,
// everything else records the escape iteration.
func TestIterateCountRange(t *testing.T) {
	const maxIter = 64
	for ix := 0; ix < 40; ix++ {
		for iy := 0; iy < 40; iy++ {
			x0 := -2.0 + float64(ix)*0.1
			y0 := -2.0 + float64(iy)*0.1
			got := iterate(x0, y0, maxIter)
			if got >= maxIter {
				t.Fatalf("iterate(%g, %g, %d) = %d, out of range", x0, y0, maxIter, got)
			}
		}
	}
}

func TestTraceOrbit(t *testing.T) {
	t.Run("escaping point stops at escape", func(t *testing.T) {
		orbit := TraceOrbit(1, 1, 10)
		want := []OrbitPoint{{1, 1}, {1, 3}}
		if orbit.Len() != len(want) {
			t.Fatalf("Len() = %d, want %d", orbit.Len(), len(want))
		}
		for i, p := range orbit.Points {
			if p != want[i] {
				t.Errorf("Points[%d] = %+v, want %+v", i, p, want[i])
			}
		}
	})

	t.Run("bounded point records maxIter steps", func(t *testing.T) {
		orbit := TraceOrbit(0, 0, 7)
		if orbit.Len() != 7 {
			t.Fatalf("Len() = %d, want 7", orbit.Len())
		}
		for i, p := range orbit.Points {
			if p.X != 0 || p.Y != 0 {
				t.Errorf("Points[%d] = %+v, want origin", i, p)
			}
		}
	})

	t.Run("non-positive limit yields an empty path", func(t *testing.T) {
		if got := TraceOrbit(1, 1, 0).Len(); got != 0 {
			t.Errorf("Len() = %d, want 0", got)
		}
	})

	t.Run("orbit matches the iteration count", func(t *testing.T) {
		const maxIter = 200
		points := [][2]float64{{-1.5, -1}, {0.3, 0.5}, {-0.75, 0.1}, {0.4, 0.4}}
		for _, c := range points {
			count := iterate(c[0], c[1], maxIter)
			orbit := TraceOrbit(c[0], c[1], maxIter)
			if count == 0 {
				if orbit.Len() != maxIter {
					t.Errorf("bounded c=(%g, %g): orbit length %d, want %d",
						c[0], c[1], orbit.Len(), maxIter)
				}
				continue
			}
			if orbit.Len() != int(count) {
				t.Errorf("c=(%g, %g): orbit length %d, escape count %d",
					c[0], c[1], orbit.Len(), count)
			}
		}
	})
}
