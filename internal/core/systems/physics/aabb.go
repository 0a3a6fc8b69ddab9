package physics

import "github.com/go-gl/mathgl/mgl64"

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// BoxAt builds the box of the given size centred on center.
func BoxAt(center, size mgl64.Vec2) AABB {
	half := size.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

func (b AABB) Center() mgl64.Vec2 { return b.Min.Add(b.Max).Mul(0.5) }
func (b AABB) Size() mgl64.Vec2   { return b.Max.Sub(b.Min) }

// Inset shrinks every side by d. A negative d grows the box.
func (b AABB) Inset(d float64) AABB {
	off := mgl64.Vec2{d, d}
	return AABB{Min: b.Min.Add(off), Max: b.Max.Sub(off)}
}

// Contains reports whether p lies inside or on the boundary of b.
func (b AABB) Contains(p mgl64.Vec2) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] && p[1] >= b.Min[1] && p[1] <= b.Max[1]
}

// Overlaps reports whether the interiors of a and b intersect.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min[0] < o.Max[0] && b.Max[0] > o.Min[0] && b.Min[1] < o.Max[1] && b.Max[1] > o.Min[1]
}
