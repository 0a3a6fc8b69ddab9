package platform

import "math"

// Ease maps linear progress t in [0,1] onto a symmetric S-curve with exponent
// easeAmount+1. Zero gives linear motion; larger values dwell longer near
// the ends. easeAmount must be >= 0.
func Ease(t, easeAmount float64) float64 {
	a := easeAmount + 1
	ta := math.Pow(t, a)
	return ta / (ta + math.Pow(1-t, a))
}
