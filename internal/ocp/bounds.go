package ocp

import "math"

// Bounds is a closed interval [Lower, Upper] on one scalar quantity.
// Build values with Free, Fixed, or Range; the zero value means
// "fixed at zero", which is rarely what you want.
type Bounds struct {
	Lower float64
	Upper float64
}

// Free returns an unbounded interval (-inf, +inf).
func Free() Bounds {
	return Bounds{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// Fixed returns a degenerate interval pinning the value to v.
func Fixed(v float64) Bounds {
	return Bounds{Lower: v, Upper: v}
}

// Range returns the interval [lo, hi].
func Range(lo, hi float64) Bounds {
	return Bounds{Lower: lo, Upper: hi}
}

// Ordered reports whether Lower <= Upper. NaN endpoints are never
// ordered.
func (b Bounds) Ordered() bool {
	return b.Lower <= b.Upper
}

// IsFixed reports whether the interval pins a single finite value.
func (b Bounds) IsFixed() bool {
	return b.Lower == b.Upper && !math.IsInf(b.Lower, 0) && !math.IsNaN(b.Lower)
}
