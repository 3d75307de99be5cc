package calc

import "math"

const (
	scale = 1e5

	// integral is the magnitude from which every float64 is an integer.
	integral = 1 << 52
)

// Round rounds x to 5 decimal places, halves rounding towards +Inf.
// NaN and infinities are returned unchanged, as are values whose scaled
// form has no fractional part left to round.
func Round(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	// explicit conversions keep the compiler from fusing into an FMA
	scaled := float64(x * scale)
	if math.Abs(scaled) >= integral {
		return x
	}
	r := math.Floor(scaled)
	if float64(scaled-r) >= 0.5 {
		r++
	}
	return r / scale
}
