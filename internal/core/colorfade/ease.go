package colorfade

import "math"

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(float64) float64

// Linear leaves progress unchanged.
func Linear(t float64) float64 {
	return t
}

// EaseInOutSine is 0.5*(1-cos(pi*t)) with t clamped to [0,1].
func EaseInOutSine(t float64) float64 {
	return 0.5 * (1 - math.Cos(math.Pi*clamp01(t)))
}
