package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	assert.Equal(t, 1.0, Sign(0))
	assert.Equal(t, 1.0, Sign(0.3))
	assert.Equal(t, -1.0, Sign(-0.0001))
}

func TestSpaceAddRejectsDegenerateBodies(t *testing.T) {
	s := NewSpace()

	_, err := s.Add("flat", mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, LayerDefault)
	assert.ErrorIs(t, err, ErrInvalidBody)

	b, err := s.Add("box", mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}, LayerDefault)
	require.NoError(t, err)
	assert.Equal(t, BodyID(1), b.ID)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Remove(b.ID))
	assert.ErrorIs(t, s.Remove(b.ID), ErrBodyNotFound)
}

func TestRaycast(t *testing.T) {
	s := NewSpace()
	near, err := s.Add("near", mgl64.Vec2{0, 0}, mgl64.Vec2{2, 1}, LayerPassenger)
	require.NoError(t, err)
	_, err = s.Add("far", mgl64.Vec2{0, 3}, mgl64.Vec2{2, 1}, LayerPassenger)
	require.NoError(t, err)
	wall, err := s.Add("wall", mgl64.Vec2{5, 0}, mgl64.Vec2{1, 4}, LayerDefault)
	require.NoError(t, err)

	tests := []struct {
		name     string
		origin   mgl64.Vec2
		dir      mgl64.Vec2
		max      float64
		mask     LayerMask
		wantHit  bool
		wantBody BodyID
		wantDist float64
	}{
		{name: "closest of two", origin: mgl64.Vec2{0, -2}, dir: Up, max: 10, mask: LayerPassenger, wantHit: true, wantBody: near.ID, wantDist: 1.5},
		{name: "out of range", origin: mgl64.Vec2{0, -2}, dir: Up, max: 1, mask: LayerPassenger},
		{name: "exactly at range", origin: mgl64.Vec2{0, -2}, dir: Up, max: 1.5, mask: LayerPassenger, wantHit: true, wantBody: near.ID, wantDist: 1.5},
		{name: "inside reports zero", origin: mgl64.Vec2{0.5, 0}, dir: Right, max: 3, mask: LayerPassenger, wantHit: true, wantBody: near.ID, wantDist: 0},
		{name: "mask filters", origin: mgl64.Vec2{2, 0}, dir: Right, max: 10, mask: LayerPassenger},
		{name: "other layer", origin: mgl64.Vec2{2, 0}, dir: Right, max: 10, mask: LayerDefault, wantHit: true, wantBody: wall.ID, wantDist: 2.5},
		{name: "pointing away", origin: mgl64.Vec2{0, -2}, dir: Down, max: 10, mask: LayerAll},
		{name: "unnormalized direction", origin: mgl64.Vec2{-3, 0}, dir: mgl64.Vec2{4, 0}, max: 10, mask: LayerPassenger, wantHit: true, wantBody: near.ID, wantDist: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := s.Raycast(tt.origin, tt.dir, tt.max, tt.mask)
			require.Equal(t, tt.wantHit, ok)
			if !tt.wantHit {
				return
			}
			assert.Equal(t, tt.wantBody, hit.Body)
			assert.InDelta(t, tt.wantDist, hit.Distance, 1e-9)
		})
	}
}

func TestRaycastFollowsTranslation(t *testing.T) {
	s := NewSpace()
	b, err := s.Add("mover", mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}, LayerPassenger)
	require.NoError(t, err)

	b.Translate(mgl64.Vec2{0, 2})
	hit, ok := s.Raycast(mgl64.Vec2{0, 0}, Up, 5, LayerPassenger)
	require.True(t, ok)
	assert.InDelta(t, 1.5, hit.Distance, 1e-9)
}

func TestBoxGeometryRefresh(t *testing.T) {
	s := NewSpace()
	b, err := s.Add("platform", mgl64.Vec2{0, 0}, mgl64.Vec2{4, 2}, LayerPlatform)
	require.NoError(t, err)

	g := NewBoxGeometry(b, 0.5, 3, 4).Refresh()
	assert.Equal(t, mgl64.Vec2{-1.5, -0.5}, g.Origins.BottomLeft)
	assert.Equal(t, mgl64.Vec2{1.5, -0.5}, g.Origins.BottomRight)
	assert.Equal(t, mgl64.Vec2{-1.5, 0.5}, g.Origins.TopLeft)
	assert.Equal(t, mgl64.Vec2{1.5, 0.5}, g.Origins.TopRight)
	assert.InDelta(t, 0.5, g.HorizontalRaySpacing, 1e-12)
	assert.InDelta(t, 1.0, g.VerticalRaySpacing, 1e-12)
	assert.Equal(t, 0.5, g.SkinWidth)

	b.Translate(mgl64.Vec2{1, 1})
	moved := NewBoxGeometry(b, 0.5, 3, 4).Refresh()
	assert.Equal(t, mgl64.Vec2{-0.5, 0.5}, moved.Origins.BottomLeft)
}

func TestBoxGeometryClampsRayCounts(t *testing.T) {
	s := NewSpace()
	b, err := s.Add("platform", mgl64.Vec2{0, 0}, mgl64.Vec2{4, 2}, LayerPlatform)
	require.NoError(t, err)

	g := NewBoxGeometry(b, 0.1, 0, 1).Refresh()
	assert.Equal(t, DefaultRayCount, g.HorizontalRayCount)
	assert.Equal(t, 2, g.VerticalRayCount)
}
