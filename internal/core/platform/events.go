package platform

import "github.com/go-gl/mathgl/mgl64"

// Event types published on the bus by a Controller.
const (
	EventWaypointReached = "platform.waypoint.reached"
	EventPathReversed    = "platform.path.reversed"
	EventPassengerMoved  = "platform.passenger.moved"
)

// WaypointEvent is the payload of EventWaypointReached and EventPathReversed.
type WaypointEvent struct {
	Platform string     `json:"platform"`
	Waypoint mgl64.Vec2 `json:"waypoint"`
	Time     float64    `json:"time"`
}

// PassengerEvent is the payload of EventPassengerMoved.
type PassengerEvent struct {
	Platform string            `json:"platform"`
	Movement PassengerMovement `json:"movement"`
	Time     float64           `json:"time"`
}
