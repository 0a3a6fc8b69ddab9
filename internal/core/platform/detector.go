package platform

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/platformer/internal/core/systems/physics"
)

// PassengerMovement is what one passenger must do this tick because of the
// platform's planned displacement.
type PassengerMovement struct {
	Passenger          physics.BodyID `json:"passenger"`
	Velocity           mgl64.Vec2     `json:"velocity"`
	StandingOnPlatform bool           `json:"standing_on_platform"`
	MoveBeforePlatform bool           `json:"move_before_platform"`
}

// Detector finds the passengers a planned displacement affects, before the
// platform itself moves.
type Detector struct {
	raycaster physics.Raycaster
	mask      physics.LayerMask
}

func NewDetector(raycaster physics.Raycaster, mask physics.LayerMask) *Detector {
	return &Detector{raycaster: raycaster, mask: mask}
}

// Detect sweeps vertically, then horizontally, then for riders on top. A
// passenger claimed by an earlier sweep is skipped by later ones, and hits at
// distance zero are overlaps rather than contacts.
func (d *Detector) Detect(velocity mgl64.Vec2, g physics.RayGeometry) []PassengerMovement {
	moved := make(map[physics.BodyID]struct{})
	var out []PassengerMovement

	claim := func(hit physics.Hit, ok bool) bool {
		if !ok || hit.Distance == 0 {
			return false
		}
		if _, seen := moved[hit.Body]; seen {
			return false
		}
		moved[hit.Body] = struct{}{}
		return true
	}

	skin := g.SkinWidth
	directionX := physics.Sign(velocity[0])
	directionY := physics.Sign(velocity[1])

	// Pushed from above or below.
	if velocity[1] != 0 {
		rayLength := abs(velocity[1]) + skin
		base := g.Origins.TopLeft
		if directionY == -1 {
			base = g.Origins.BottomLeft
		}
		for i := 0; i < g.VerticalRayCount; i++ {
			origin := base.Add(physics.Right.Mul(g.VerticalRaySpacing * float64(i)))
			hit, ok := d.raycaster.Raycast(origin, physics.Up.Mul(directionY), rayLength, d.mask)
			if !claim(hit, ok) {
				continue
			}
			pushX := 0.0
			if directionY == 1 {
				pushX = velocity[0]
			}
			pushY := velocity[1] - (hit.Distance-skin)*directionY
			out = append(out, PassengerMovement{
				Passenger:          hit.Body,
				Velocity:           mgl64.Vec2{pushX, pushY},
				StandingOnPlatform: directionY == 1,
				MoveBeforePlatform: true,
			})
		}
	}

	// Pushed from the side.
	if velocity[0] != 0 {
		rayLength := abs(velocity[0]) + skin
		base := g.Origins.BottomRight
		if directionX == -1 {
			base = g.Origins.BottomLeft
		}
		for i := 0; i < g.HorizontalRayCount; i++ {
			origin := base.Add(physics.Up.Mul(g.HorizontalRaySpacing * float64(i)))
			hit, ok := d.raycaster.Raycast(origin, physics.Right.Mul(directionX), rayLength, d.mask)
			if !claim(hit, ok) {
				continue
			}
			pushX := velocity[0] - (hit.Distance-skin)*directionX
			out = append(out, PassengerMovement{
				Passenger:          hit.Body,
				Velocity:           mgl64.Vec2{pushX, -skin},
				StandingOnPlatform: false,
				MoveBeforePlatform: true,
			})
		}
	}

	// Riding on top of a platform that moves down or sideways.
	if directionY == -1 || (velocity[1] == 0 && velocity[0] != 0) {
		rayLength := skin * 2
		for i := 0; i < g.VerticalRayCount; i++ {
			origin := g.Origins.TopLeft.Add(physics.Right.Mul(g.VerticalRaySpacing * float64(i)))
			hit, ok := d.raycaster.Raycast(origin, physics.Up, rayLength, d.mask)
			if !claim(hit, ok) {
				continue
			}
			out = append(out, PassengerMovement{
				Passenger:          hit.Body,
				Velocity:           velocity,
				StandingOnPlatform: true,
				MoveBeforePlatform: false,
			})
		}
	}

	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
