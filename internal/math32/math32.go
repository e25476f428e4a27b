// Package math32 provides scalar float32 helpers shared by the codec,
// the distance functions and the clustering engine.
package math32

import "math"

// Clamp01 clamps v to [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Sanitize01 clamps v to [0, 1] and maps NaN/Inf to 0.
func Sanitize01(v float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return 0
	}
	return Clamp01(v)
}

// Wrap01 wraps v into [0, 1). Used for angular (hue) channels.
func Wrap01(v float32) float32 {
	w := float32(math.Mod(float64(v), 1.0))
	if w < 0 {
		w += 1
	}
	return w
}

// Sqrt is a float32 square root.
func Sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
