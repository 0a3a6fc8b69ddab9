package platform

import "errors"

// Configuration errors. Validate joins every violation it finds.
var (
	ErrTooFewWaypoints     = errors.New("platform needs at least two waypoints")
	ErrCoincidentWaypoints = errors.New("adjacent waypoints coincide")
	ErrInvalidSpeed        = errors.New("speed must be positive")
	ErrInvalidWaitTime     = errors.New("wait time must not be negative")
	ErrInvalidEase         = errors.New("ease amount must not be negative")
	ErrInvalidSize         = errors.New("platform size must be positive")
	ErrInvalidSkinWidth    = errors.New("skin width must be positive and thinner than the platform")
	ErrInvalidRayCount     = errors.New("ray count must be zero (default) or at least two")
)

// ErrNoMover is returned when a detected passenger has no movement capability.
var ErrNoMover = errors.New("passenger has no movement capability")
