package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// raycastBox runs the slab test of a normalized ray against box. An origin
// inside the box reports distance 0.
func raycastBox(origin, direction mgl64.Vec2, box AABB, maxDistance float64) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	for axis := 0; axis < 2; axis++ {
		if direction[axis] == 0 {
			if origin[axis] < box.Min[axis] || origin[axis] > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - origin[axis]) / direction[axis]
		t2 := (box.Max[axis] - origin[axis]) / direction[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}

	if tmin > tmax || tmax < 0 {
		return 0, false
	}

	t := tmin
	if t < 0 {
		t = 0
	}
	if t > maxDistance {
		return 0, false
	}
	return t, true
}
