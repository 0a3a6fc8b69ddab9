package platform

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/platformer/internal/core/systems/physics"
)

const (
	DefaultSkinWidth = 0.015
	DefaultRayCount  = physics.DefaultRayCount
)

// Config describes one moving platform. Waypoints are offsets from Position;
// the world path is fixed when the controller is created.
type Config struct {
	Name          string            `json:"name" yaml:"name"`
	Position      mgl64.Vec2        `json:"position" yaml:"position"`
	Size          mgl64.Vec2        `json:"size" yaml:"size"`
	Waypoints     []mgl64.Vec2      `json:"waypoints" yaml:"waypoints"`
	Speed         float64           `json:"speed" yaml:"speed"`
	Cyclic        bool              `json:"cyclic" yaml:"cyclic"`
	WaitTime      float64           `json:"wait_time" yaml:"wait_time"`
	EaseAmount    float64           `json:"ease_amount" yaml:"ease_amount"`
	PassengerMask physics.LayerMask `json:"passenger_mask" yaml:"passenger_mask"`

	SkinWidth          float64 `json:"skin_width" yaml:"skin_width"`
	HorizontalRayCount int     `json:"horizontal_ray_count" yaml:"horizontal_ray_count"`
	VerticalRayCount   int     `json:"vertical_ray_count" yaml:"vertical_ray_count"`
}

// DefaultConfig returns a one-by-one platform with no path. Callers fill in
// Waypoints and Speed at minimum.
func DefaultConfig() Config {
	return Config{
		Size:               mgl64.Vec2{1, 1},
		PassengerMask:      physics.LayerPassenger,
		SkinWidth:          DefaultSkinWidth,
		HorizontalRayCount: DefaultRayCount,
		VerticalRayCount:   DefaultRayCount,
	}
}

// WithDefaults fills the zero-valued probe settings. A zero passenger mask
// means the passenger layer.
func (c Config) WithDefaults() Config {
	if c.SkinWidth == 0 {
		c.SkinWidth = DefaultSkinWidth
	}
	if c.PassengerMask == 0 {
		c.PassengerMask = physics.LayerPassenger
	}
	return c
}

// Validate reports every configuration problem at once. A platform that fails
// validation never ticks.
func (c Config) Validate() error {
	var errs []error

	if len(c.Waypoints) < 2 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrTooFewWaypoints, len(c.Waypoints)))
	} else {
		segments := len(c.Waypoints) - 1
		if c.Cyclic {
			segments++
		}
		for i := 0; i < segments; i++ {
			j := (i + 1) % len(c.Waypoints)
			if physics.Distance2(c.Waypoints[i], c.Waypoints[j]) == 0 {
				errs = append(errs, fmt.Errorf("%w: %d and %d at %v", ErrCoincidentWaypoints, i, j, c.Waypoints[i]))
			}
		}
	}

	if !(c.Speed > 0) || math.IsInf(c.Speed, 0) {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidSpeed, c.Speed))
	}
	if !(c.WaitTime >= 0) {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidWaitTime, c.WaitTime))
	}
	if !(c.EaseAmount >= 0) || math.IsInf(c.EaseAmount, 0) {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidEase, c.EaseAmount))
	}

	sizeOK := c.Size[0] > 0 && c.Size[1] > 0
	if !sizeOK {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidSize, c.Size))
	}
	if !(c.SkinWidth > 0) || (sizeOK && 2*c.SkinWidth >= math.Min(c.Size[0], c.Size[1])) {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidSkinWidth, c.SkinWidth))
	}
	for _, n := range []int{c.HorizontalRayCount, c.VerticalRayCount} {
		if n < 0 || n == 1 {
			errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidRayCount, n))
		}
	}

	return errors.Join(errs...)
}

// WorldWaypoints offsets every local waypoint by the platform's start position.
func (c Config) WorldWaypoints() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(c.Waypoints))
	for i, wp := range c.Waypoints {
		out[i] = wp.Add(c.Position)
	}
	return out
}
