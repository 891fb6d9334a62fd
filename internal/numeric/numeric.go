// Package numeric holds the small float helpers shared by the mood engine.
package numeric

import "math"

// epsilon nudges values sitting just below a .5 boundary (for example
// 1.005 stored as 1.00499999...) so they round the way they read.
const epsilon = 0x1p-52

// Clamp constrains v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, decimals int) float64 {
	if v < 0 {
		return -Round(-v, decimals)
	}
	factor := math.Pow(10, float64(decimals))
	return math.Round((v+epsilon)*factor) / factor
}

// InRange reports whether lo <= v <= hi.
func InRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
