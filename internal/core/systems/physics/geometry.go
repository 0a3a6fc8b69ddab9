package physics

import "github.com/go-gl/mathgl/mgl64"

// DefaultRayCount is used when a geometry is configured with zero rays.
const DefaultRayCount = 4

// RaycastOrigins are the corners of a body's bounds after the skin inset.
type RaycastOrigins struct {
	TopLeft     mgl64.Vec2
	TopRight    mgl64.Vec2
	BottomLeft  mgl64.Vec2
	BottomRight mgl64.Vec2
}

// RayGeometry is everything a sweep needs to lay out its probes for one tick.
// Horizontal rays are stacked along the vertical edges, vertical rays along
// the horizontal edges.
type RayGeometry struct {
	Origins              RaycastOrigins
	SkinWidth            float64
	HorizontalRayCount   int
	VerticalRayCount     int
	HorizontalRaySpacing float64
	VerticalRaySpacing   float64
}

// BoxGeometry derives ray origins and spacing from a body's current bounds.
type BoxGeometry struct {
	body               *Body
	skinWidth          float64
	horizontalRayCount int
	verticalRayCount   int
}

// NewBoxGeometry clamps both ray counts to at least two so the spacing
// always spans the full edge.
func NewBoxGeometry(body *Body, skinWidth float64, horizontalRayCount, verticalRayCount int) *BoxGeometry {
	return &BoxGeometry{
		body:               body,
		skinWidth:          skinWidth,
		horizontalRayCount: clampRayCount(horizontalRayCount),
		verticalRayCount:   clampRayCount(verticalRayCount),
	}
}

// Refresh recomputes the geometry from where the body is now.
func (g *BoxGeometry) Refresh() RayGeometry {
	inner := g.body.Bounds().Inset(g.skinWidth)
	size := inner.Size()

	return RayGeometry{
		Origins: RaycastOrigins{
			TopLeft:     mgl64.Vec2{inner.Min[0], inner.Max[1]},
			TopRight:    inner.Max,
			BottomLeft:  inner.Min,
			BottomRight: mgl64.Vec2{inner.Max[0], inner.Min[1]},
		},
		SkinWidth:            g.skinWidth,
		HorizontalRayCount:   g.horizontalRayCount,
		VerticalRayCount:     g.verticalRayCount,
		HorizontalRaySpacing: size[1] / float64(g.horizontalRayCount-1),
		VerticalRaySpacing:   size[0] / float64(g.verticalRayCount-1),
	}
}

func clampRayCount(n int) int {
	if n == 0 {
		return DefaultRayCount
	}
	if n < 2 {
		return 2
	}
	return n
}
