package vector

import "math"

// Clampf limits v to [lo, hi].
func Clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Wrapf wraps v into [lo, hi).
func Wrapf(v, lo, hi float64) float64 {
	r := hi - lo
	if r == 0 {
		return lo
	}
	m := math.Mod(v-lo, r)
	if m < 0 {
		m += r
	}
	return lo + m
}

// Wrap is the integer form of Wrapf.
func Wrap(v, lo, hi int) int {
	r := hi - lo
	if r <= 0 {
		return lo
	}
	m := (v - lo) % r
	if m < 0 {
		m += r
	}
	return lo + m
}

// Clamp is the integer form of Clampf.
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// IsCounterClockwise reports whether a, b, c wind counter-clockwise.
func IsCounterClockwise(a, b, c Vec2) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}
