// Package platform moves kinematic platforms along waypoint paths and carries,
// pushes or blocks the passengers they touch.
//
// A tick plans the platform's displacement, probes for the passengers that
// displacement affects, moves passengers that must clear the way, translates
// the platform, and finally moves passengers riding on top.
package platform

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/platformer/internal/core/events/bus"
	"github.com/zeusync/platformer/internal/core/observability/log"
	"github.com/zeusync/platformer/internal/core/systems/physics"
)

// Body is the platform's own kinematic body.
type Body interface {
	Position() mgl64.Vec2
	Translate(delta mgl64.Vec2)
}

// GeometryProvider supplies ray origins and spacing for the platform's
// current bounds. It is refreshed once per tick before detection.
type GeometryProvider interface {
	Refresh() physics.RayGeometry
}

// TickReport describes what one tick did.
type TickReport struct {
	Step       Step
	Passengers []PassengerMovement
}

type Option func(*Controller)

func WithLogger(logger log.Log) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEventBus publishes waypoint and passenger events on eb.
func WithEventBus(eb bus.EventBus) Option {
	return func(c *Controller) { c.events = eb }
}

// WithEventSource sets the Source of published events. It defaults to the
// platform name.
func WithEventSource(source string) Option {
	return func(c *Controller) {
		if source != "" {
			c.source = source
		}
	}
}

// Controller owns one platform: its traversal state, its probes and its
// passenger mover cache.
type Controller struct {
	name       string
	body       Body
	geometry   GeometryProvider
	traversal  *Traversal
	detector   *Detector
	dispatcher *Dispatcher

	events bus.EventBus
	source string
	logger log.Log
	ticks  uint64
}

// New validates cfg and builds a controller around an existing body. The
// body must already sit at cfg.Position.
func New(cfg Config, body Body, geometry GeometryProvider, raycaster physics.Raycaster, resolver MoverResolver, opts ...Option) (*Controller, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("platform %q: %w", cfg.Name, err)
	}
	if body == nil || geometry == nil || raycaster == nil || resolver == nil {
		return nil, errors.New("platform: body, geometry, raycaster and resolver are required")
	}

	c := &Controller{
		name:      cfg.Name,
		body:      body,
		geometry:  geometry,
		traversal: NewTraversal(cfg),
		detector:  NewDetector(raycaster, cfg.PassengerMask),
		source:    cfg.Name,
		logger:    log.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(log.String("platform", cfg.Name))
	c.dispatcher = NewDispatcher(resolver, c.logger)
	return c, nil
}

// Spawn adds a platform body to space at cfg.Position and builds a controller
// that probes the same space.
func Spawn(space *physics.Space, cfg Config, resolver MoverResolver, opts ...Option) (*Controller, *physics.Body, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("platform %q: %w", cfg.Name, err)
	}
	body, err := space.Add(cfg.Name, cfg.Position, cfg.Size, physics.LayerPlatform)
	if err != nil {
		return nil, nil, err
	}
	geometry := physics.NewBoxGeometry(body, cfg.SkinWidth, cfg.HorizontalRayCount, cfg.VerticalRayCount)
	c, err := New(cfg, body, geometry, space, resolver, opts...)
	if err != nil {
		_ = space.Remove(body.ID)
		return nil, nil, err
	}
	return c, body, nil
}

// Tick runs one frame. now is the simulation time at this frame and
// deltaTime the length of the frame. Passengers that must clear the way move
// first, then the platform, then riders on top. A dispatch failure in the
// first pass leaves the platform where it was.
func (c *Controller) Tick(now, deltaTime float64) (TickReport, error) {
	geometry := c.geometry.Refresh()
	step := c.traversal.Advance(now, deltaTime, c.body.Position())
	passengers := c.detector.Detect(step.Displacement, geometry)

	if err := c.dispatcher.Apply(passengers, PhaseBeforePlatform); err != nil {
		return TickReport{}, fmt.Errorf("platform %q: %w", c.name, err)
	}
	c.body.Translate(step.Displacement)
	if err := c.dispatcher.Apply(passengers, PhaseAfterPlatform); err != nil {
		return TickReport{}, fmt.Errorf("platform %q: %w", c.name, err)
	}

	c.ticks++
	c.publish(now, step, passengers)

	return TickReport{Step: step, Passengers: passengers}, nil
}

func (c *Controller) Name() string            { return c.name }
func (c *Controller) Position() mgl64.Vec2    { return c.body.Position() }
func (c *Controller) State() TraversalState   { return c.traversal.State() }
func (c *Controller) Waypoints() []mgl64.Vec2 { return c.traversal.Waypoints() }
func (c *Controller) Ticks() uint64           { return c.ticks }
func (c *Controller) CachedPassengers() int   { return c.dispatcher.Cached() }

func (c *Controller) publish(now float64, step Step, passengers []PassengerMovement) {
	if step.Arrived {
		c.logger.Debug("waypoint reached",
			log.Float64("time", now),
			log.Float64("x", step.Reached[0]),
			log.Float64("y", step.Reached[1]),
			log.Bool("reversed", step.Reversed),
		)
	}
	if c.events == nil {
		return
	}

	var events []bus.Event
	if step.Arrived {
		wp := WaypointEvent{Platform: c.name, Waypoint: step.Reached, Time: now}
		events = append(events, bus.NewEvent(EventWaypointReached, c.source, wp))
		if step.Reversed {
			events = append(events, bus.NewEvent(EventPathReversed, c.source, wp))
		}
	}
	for _, p := range passengers {
		events = append(events, bus.NewEvent(EventPassengerMoved, c.source, PassengerEvent{Platform: c.name, Movement: p, Time: now}))
	}
	if len(events) == 0 {
		return
	}
	if err := c.events.PublishBatch(events...); err != nil {
		c.logger.Warn("event handler failed", log.Err(err))
	}
}
