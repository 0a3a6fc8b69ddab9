package platform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/platformer/internal/core/observability/log"
	"github.com/zeusync/platformer/internal/core/systems/physics"
)

// Mover is a passenger's own movement capability. It resolves its own
// collisions; the platform only tells it how far to go.
type Mover interface {
	Move(velocity mgl64.Vec2, standingOnPlatform bool)
}

// MoverResolver looks up the movement capability of a body.
type MoverResolver interface {
	ResolveMover(id physics.BodyID) (Mover, bool)
}

// MoverResolverFunc adapts a plain function to MoverResolver.
type MoverResolverFunc func(id physics.BodyID) (Mover, bool)

func (f MoverResolverFunc) ResolveMover(id physics.BodyID) (Mover, bool) { return f(id) }

// Phase selects which records a dispatch pass applies.
type Phase uint8

const (
	PhaseBeforePlatform Phase = iota
	PhaseAfterPlatform
)

func (p Phase) String() string {
	switch p {
	case PhaseBeforePlatform:
		return "before_platform"
	case PhaseAfterPlatform:
		return "after_platform"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Dispatcher hands passenger movements to their movers. Movers are cached
// per body for the platform's whole lifetime, so a passenger that leaves and
// comes back reuses its entry.
type Dispatcher struct {
	resolver MoverResolver
	cache    map[physics.BodyID]Mover
	logger   log.Log
}

func NewDispatcher(resolver MoverResolver, logger log.Log) *Dispatcher {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Dispatcher{
		resolver: resolver,
		cache:    make(map[physics.BodyID]Mover),
		logger:   logger,
	}
}

// Apply moves every passenger whose MoveBeforePlatform flag matches phase, in
// record order. All records are resolved first, so a passenger without a
// mover fails the pass before anybody moves.
func (d *Dispatcher) Apply(records []PassengerMovement, phase Phase) error {
	movers := make([]Mover, len(records))
	for i, r := range records {
		m, err := d.mover(r.Passenger)
		if err != nil {
			d.logger.Error("passenger dispatch failed",
				log.Uint64("passenger", uint64(r.Passenger)),
				log.String("phase", phase.String()),
				log.Err(err),
			)
			return err
		}
		movers[i] = m
	}

	before := phase == PhaseBeforePlatform
	for i, r := range records {
		if r.MoveBeforePlatform != before {
			continue
		}
		movers[i].Move(r.Velocity, r.StandingOnPlatform)
	}
	return nil
}

// Cached reports how many distinct passengers have been resolved so far.
func (d *Dispatcher) Cached() int { return len(d.cache) }

func (d *Dispatcher) mover(id physics.BodyID) (Mover, error) {
	if m, ok := d.cache[id]; ok {
		return m, nil
	}
	m, ok := d.resolver.ResolveMover(id)
	if !ok || m == nil {
		return nil, fmt.Errorf("%w: body %d", ErrNoMover, id)
	}
	d.cache[id] = m
	return m, nil
}
