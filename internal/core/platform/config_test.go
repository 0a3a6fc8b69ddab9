package platform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/platformer/internal/core/systems/physics"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Name = "lift"
	cfg.Size = mgl64.Vec2{2, 0.5}
	cfg.Waypoints = []mgl64.Vec2{{0, 0}, {5, 0}}
	cfg.Speed = 5
	return cfg
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "one waypoint", mutate: func(c *Config) { c.Waypoints = c.Waypoints[:1] }, want: ErrTooFewWaypoints},
		{name: "no waypoints", mutate: func(c *Config) { c.Waypoints = nil }, want: ErrTooFewWaypoints},
		{name: "adjacent duplicates", mutate: func(c *Config) { c.Waypoints = []mgl64.Vec2{{0, 0}, {1, 0}, {1, 0}} }, want: ErrCoincidentWaypoints},
		{name: "cyclic wrap duplicates", mutate: func(c *Config) {
			c.Waypoints = []mgl64.Vec2{{0, 0}, {1, 0}, {0, 0}}
			c.Cyclic = true
		}, want: ErrCoincidentWaypoints},
		{name: "zero speed", mutate: func(c *Config) { c.Speed = 0 }, want: ErrInvalidSpeed},
		{name: "nan speed", mutate: func(c *Config) { c.Speed = math.NaN() }, want: ErrInvalidSpeed},
		{name: "negative wait", mutate: func(c *Config) { c.WaitTime = -1 }, want: ErrInvalidWaitTime},
		{name: "negative ease", mutate: func(c *Config) { c.EaseAmount = -0.5 }, want: ErrInvalidEase},
		{name: "flat platform", mutate: func(c *Config) { c.Size = mgl64.Vec2{2, 0} }, want: ErrInvalidSize},
		{name: "zero skin", mutate: func(c *Config) { c.SkinWidth = 0 }, want: ErrInvalidSkinWidth},
		{name: "skin thicker than platform", mutate: func(c *Config) { c.SkinWidth = 0.25 }, want: ErrInvalidSkinWidth},
		{name: "single ray", mutate: func(c *Config) { c.VerticalRayCount = 1 }, want: ErrInvalidRayCount},
		{name: "negative rays", mutate: func(c *Config) { c.HorizontalRayCount = -3 }, want: ErrInvalidRayCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestConfigValidateNonCyclicIgnoresWrap(t *testing.T) {
	cfg := validConfig()
	cfg.Waypoints = []mgl64.Vec2{{0, 0}, {1, 0}, {0, 0}}
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidateJoinsErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Speed = -1
	cfg.WaitTime = -1
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidSpeed)
	assert.ErrorIs(t, err, ErrInvalidWaitTime)
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	assert.Equal(t, DefaultSkinWidth, cfg.SkinWidth)
	assert.Equal(t, physics.LayerPassenger, cfg.PassengerMask)

	custom := Config{SkinWidth: 0.05, PassengerMask: physics.LayerDefault}.WithDefaults()
	assert.Equal(t, 0.05, custom.SkinWidth)
	assert.Equal(t, physics.LayerDefault, custom.PassengerMask)
}

func TestConfigWorldWaypoints(t *testing.T) {
	cfg := validConfig()
	cfg.Position = mgl64.Vec2{10, -2}
	assert.Equal(t, []mgl64.Vec2{{10, -2}, {15, -2}}, cfg.WorldWaypoints())
	// Local offsets are untouched.
	assert.Equal(t, mgl64.Vec2{5, 0}, cfg.Waypoints[1])
}
