// Package physics holds the small amount of 2D geometry the platform
// controller needs: axis-aligned bodies, a layer-filtered raycast primitive
// and the skin ray-origin geometry computed from a body's bounds.
//
// There is no dynamic solver here. Bodies only move when something calls
// Translate on them.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up    = mgl64.Vec2{0, 1}
	Down  = mgl64.Vec2{0, -1}
	Right = mgl64.Vec2{1, 0}
	Left  = mgl64.Vec2{-1, 0}
)

// Sign returns -1 for negative input and +1 otherwise. Zero maps to +1, which
// decides the probe edge when an axis is not moving.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// Distance2 computes the Euclidean distance between two points.
func Distance2(a, b mgl64.Vec2) float64 { return b.Sub(a).Len() }

// Lerp interpolates between a and b by t without clamping.
func Lerp(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

func isFinite(v mgl64.Vec2) bool {
	return !math.IsNaN(v[0]) && !math.IsNaN(v[1]) && !math.IsInf(v[0], 0) && !math.IsInf(v[1], 0)
}
