package platform

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/platformer/internal/core/systems/physics"
)

// TraversalState is where the platform is along its path.
type TraversalState struct {
	FromIndex               int     `json:"from_index"`
	PercentBetweenWaypoints float64 `json:"percent"`
	NextMoveTime            float64 `json:"next_move_time"`
}

// Step is the outcome of one Advance call.
type Step struct {
	Displacement mgl64.Vec2
	// Paused is set when the platform is waiting at a waypoint.
	Paused bool
	// Arrived is set on the tick the platform lands on a waypoint.
	Arrived bool
	// Reversed is set when a non-cyclic path flipped direction this tick.
	Reversed bool
	// Reached is the waypoint landed on when Arrived is set.
	Reached mgl64.Vec2
}

// Traversal walks a platform along its world waypoints.
//
// Non-cyclic paths ping-pong by reversing the waypoint slice in place each
// time the last waypoint is reached, so FromIndex only ever counts up. The
// backward pass is then the forward pass played in mirror image.
type Traversal struct {
	waypoints  []mgl64.Vec2
	speed      float64
	waitTime   float64
	easeAmount float64
	cyclic     bool

	state TraversalState
}

// NewTraversal expects a config that passed Validate.
func NewTraversal(cfg Config) *Traversal {
	return &Traversal{
		waypoints:  cfg.WorldWaypoints(),
		speed:      cfg.Speed,
		waitTime:   cfg.WaitTime,
		easeAmount: cfg.EaseAmount,
		cyclic:     cfg.Cyclic,
	}
}

// Advance moves progress forward by deltaTime and returns the displacement
// that takes position to where the platform should be. While now is before
// the pause gate nothing changes and the displacement is zero.
func (t *Traversal) Advance(now, deltaTime float64, position mgl64.Vec2) Step {
	if now < t.state.NextMoveTime {
		return Step{Paused: true}
	}

	n := len(t.waypoints)
	t.state.FromIndex %= n
	from := t.waypoints[t.state.FromIndex]
	to := t.waypoints[(t.state.FromIndex+1)%n]

	dist := physics.Distance2(from, to)
	t.state.PercentBetweenWaypoints = mgl64.Clamp(t.state.PercentBetweenWaypoints+deltaTime*t.speed/dist, 0, 1)

	eased := Ease(t.state.PercentBetweenWaypoints, t.easeAmount)
	intended := physics.Lerp(from, to, eased)
	step := Step{Displacement: intended.Sub(position)}

	if t.state.PercentBetweenWaypoints >= 1 {
		step.Arrived = true
		step.Reached = to

		t.state.PercentBetweenWaypoints = 0
		t.state.FromIndex++
		if !t.cyclic && t.state.FromIndex >= n-1 {
			t.state.FromIndex = 0
			slices.Reverse(t.waypoints)
			step.Reversed = true
		}
		t.state.NextMoveTime = now + t.waitTime
	}

	return step
}

func (t *Traversal) State() TraversalState { return t.state }

// Waypoints returns a copy of the world path in its current direction.
func (t *Traversal) Waypoints() []mgl64.Vec2 { return slices.Clone(t.waypoints) }
