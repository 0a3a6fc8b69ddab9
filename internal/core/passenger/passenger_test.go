package passenger

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/platformer/internal/core/platform"
	"github.com/zeusync/platformer/internal/core/systems/physics"
)

func TestControllerMove(t *testing.T) {
	space := physics.NewSpace()
	body, err := space.Add("hero", mgl64.Vec2{0, 1}, mgl64.Vec2{1, 1}, physics.LayerPassenger)
	require.NoError(t, err)

	c, err := NewController(body)
	require.NoError(t, err)
	assert.False(t, c.Grounded())

	c.Move(mgl64.Vec2{0.5, -0.25}, true)
	assert.Equal(t, mgl64.Vec2{0.5, 0.75}, c.Position())
	assert.Equal(t, mgl64.Vec2{0.5, 0.75}, body.Position())
	assert.True(t, c.Grounded())
	assert.Equal(t, mgl64.Vec2{0.5, -0.25}, c.LastVelocity())

	c.Move(mgl64.Vec2{0.25, 0}, false)
	assert.False(t, c.Grounded())
	assert.Equal(t, uint64(2), c.Moves())
}

func TestNewControllerRejectsNilBody(t *testing.T) {
	_, err := NewController(nil)
	assert.ErrorIs(t, err, ErrNilBody)
}

func TestRegistry(t *testing.T) {
	space := physics.NewSpace()
	body, err := space.Add("hero", mgl64.Vec2{}, mgl64.Vec2{1, 1}, physics.LayerPassenger)
	require.NoError(t, err)

	r := NewRegistry()
	c, err := r.Register(body)
	require.NoError(t, err)

	_, err = r.Register(body)
	assert.ErrorIs(t, err, ErrDuplicate)

	m, ok := r.ResolveMover(body.ID)
	require.True(t, ok)
	assert.Same(t, c, m)

	_, ok = r.ResolveMover(body.ID + 1)
	assert.False(t, ok)

	require.NoError(t, r.Unregister(body.ID))
	assert.ErrorIs(t, r.Unregister(body.ID), ErrNotRegistered)
	assert.Zero(t, r.Len())
}

func TestRegistryCarriesRiderOnPlatform(t *testing.T) {
	space := physics.NewSpace()
	r := NewRegistry()

	hero, err := space.Add("hero", mgl64.Vec2{0, 0.75}, mgl64.Vec2{1, 1}, physics.LayerPassenger)
	require.NoError(t, err)
	rider, err := r.Register(hero)
	require.NoError(t, err)

	cfg := platform.DefaultConfig()
	cfg.Name = "elevator"
	cfg.Size = mgl64.Vec2{2, 0.5}
	cfg.Waypoints = []mgl64.Vec2{{0, 0}, {0, 4}}
	cfg.Speed = 2
	c, _, err := platform.Spawn(space, cfg, r)
	require.NoError(t, err)

	// 8 ticks of 1/16 s at 2 units/s lift the platform by 1.
	for i := 0; i < 8; i++ {
		_, err := c.Tick(float64(i)*0.0625, 0.0625)
		require.NoError(t, err)
	}

	assert.InDelta(t, 1, c.Position()[1], 1e-9)
	assert.InDelta(t, 1.75, rider.Position()[1], 1e-9)
	assert.True(t, rider.Grounded())
	assert.Equal(t, uint64(8), rider.Moves())
	assert.Equal(t, 1, c.CachedPassengers())
}
