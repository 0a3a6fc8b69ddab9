// Package sim runs scenes of moving platforms and passengers at a fixed time
// step and snapshots them into frames.
package sim

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/platformer/internal/core/events/bus"
	"github.com/zeusync/platformer/internal/core/observability/log"
	"github.com/zeusync/platformer/internal/core/passenger"
	"github.com/zeusync/platformer/internal/core/platform"
	"github.com/zeusync/platformer/internal/core/systems/physics"
)

// DefaultPassengerSize is used for passengers declared without a size.
var DefaultPassengerSize = mgl64.Vec2{1, 1}

// FrameSink receives a frame after every step. Returning an error stops Run.
type FrameSink func(Frame) error

type Option func(*World)

func WithLogger(logger log.Log) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithEventBus shares eb with the world's platforms instead of a private bus.
func WithEventBus(eb bus.EventBus) Option {
	return func(w *World) {
		if eb != nil {
			w.events = eb
		}
	}
}

// WithRealtime paces Run to one step per TimeStep of wall-clock time.
func WithRealtime(enabled bool) Option {
	return func(w *World) { w.realtime = enabled }
}

// WithRunID overrides the generated run id stamped on frames.
func WithRunID(id string) Option {
	return func(w *World) {
		if id != "" {
			w.runID = id
		}
	}
}

// Stats counts platform events seen by a world.
type Stats struct {
	WaypointsReached uint64 `json:"waypoints_reached"`
	Reversals        uint64 `json:"reversals"`
	PassengerMoves   uint64 `json:"passenger_moves"`
}

// World owns one scene's physics space, platforms and passengers. Step and
// Run must be called from a single goroutine.
type World struct {
	scene      *Scene
	runID      string
	space      *physics.Space
	registry   *passenger.Registry
	platforms  []*platform.Controller
	passengers []*passenger.Controller

	events   bus.EventBus
	subs     []bus.Subscription
	sources  map[string]struct{}
	logger   log.Log
	realtime bool

	tick uint64
	now  float64

	waypoints  atomic.Uint64
	reversals  atomic.Uint64
	passengerN atomic.Uint64
}

// NewWorld validates scene and spawns its platforms, then its passengers.
// Body ids therefore follow scene order.
func NewWorld(scene *Scene, opts ...Option) (*World, error) {
	if scene == nil {
		return nil, fmt.Errorf("%w: nil scene", ErrInvalidScene)
	}
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", scene.Name, err)
	}

	w := &World{
		scene:    scene,
		runID:    uuid.NewString(),
		space:    physics.NewSpace(),
		registry: passenger.NewRegistry(),
		sources:  make(map[string]struct{}, len(scene.Platforms)),
		logger:   log.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.events == nil {
		w.events = bus.New()
	}
	w.logger = w.logger.With(log.String("scene", scene.Name), log.String("run_id", w.runID))

	for _, cfg := range scene.Platforms {
		source := scene.Name + "/" + cfg.Name
		w.sources[source] = struct{}{}
		c, _, err := platform.Spawn(w.space, cfg, w.registry,
			platform.WithLogger(w.logger),
			platform.WithEventBus(w.events),
			platform.WithEventSource(source),
		)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", scene.Name, err)
		}
		w.platforms = append(w.platforms, c)
	}

	for _, ps := range scene.Passengers {
		layer, err := ParseLayer(ps.Layer)
		if err != nil {
			return nil, err
		}
		size := ps.Size
		if size == (mgl64.Vec2{}) {
			size = DefaultPassengerSize
		}
		body, err := w.space.Add(ps.Name, ps.Position, size, layer)
		if err != nil {
			return nil, fmt.Errorf("passenger %q: %w", ps.Name, err)
		}
		c, err := w.registry.Register(body)
		if err != nil {
			return nil, err
		}
		w.passengers = append(w.passengers, c)
	}

	if err := w.subscribe(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *World) subscribe() error {
	counters := map[string]*atomic.Uint64{
		platform.EventWaypointReached: &w.waypoints,
		platform.EventPathReversed:    &w.reversals,
		platform.EventPassengerMoved:  &w.passengerN,
	}
	for typ, counter := range counters {
		counter := counter
		sub, err := w.events.Subscribe(typ, func(e bus.Event) error {
			if !w.owns(e.Source()) {
				return nil
			}
			counter.Add(1)
			return nil
		})
		if err != nil {
			w.Close()
			return err
		}
		w.subs = append(w.subs, sub)
	}
	return nil
}

// owns reports whether an event source is one of this world's platforms.
// Sources are "<scene>/<platform>", so worlds sharing a bus only count their
// own events.
func (w *World) owns(source string) bool {
	_, ok := w.sources[source]
	return ok
}

// Step advances every platform by one time step, in scene order.
func (w *World) Step() error {
	now := w.now
	for _, p := range w.platforms {
		if _, err := p.Tick(now, w.scene.TimeStep); err != nil {
			return fmt.Errorf("tick %d at t=%g: %w", w.tick, now, err)
		}
	}
	w.tick++
	w.now = float64(w.tick) * w.scene.TimeStep
	return nil
}

// Run steps until the scene's duration is covered, handing each frame to
// sink. It stops early on the first error or when ctx is done, and returns
// the last frame produced.
func (w *World) Run(ctx context.Context, sink FrameSink) (Frame, error) {
	total := w.scene.Ticks()
	w.logger.Info("scene started",
		log.Uint64("ticks", total),
		log.Float64("time_step", w.scene.TimeStep),
		log.Int("platforms", len(w.platforms)),
		log.Int("passengers", len(w.passengers)),
	)
	start := time.Now()

	var pace <-chan time.Time
	if w.realtime {
		t := time.NewTicker(time.Duration(w.scene.TimeStep * float64(time.Second)))
		defer t.Stop()
		pace = t.C
	}

	frame := w.Frame()
	for w.tick < total {
		if pace != nil {
			select {
			case <-ctx.Done():
				return frame, ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return frame, err
		}

		if err := w.Step(); err != nil {
			w.logger.Error("scene failed", log.Uint64("tick", w.tick), log.Err(err))
			return frame, err
		}
		frame = w.Frame()
		if sink != nil {
			if err := sink(frame); err != nil {
				return frame, fmt.Errorf("frame sink: %w", err)
			}
		}
	}

	stats := w.Stats()
	w.logger.Info("scene finished",
		log.Uint64("ticks", w.tick),
		log.String("digest", frame.Digest),
		log.Uint64("waypoints_reached", stats.WaypointsReached),
		log.Uint64("reversals", stats.Reversals),
		log.Uint64("passenger_moves", stats.PassengerMoves),
		log.Duration("elapsed", time.Since(start)),
	)
	return frame, nil
}

// Close drops the world's bus subscriptions.
func (w *World) Close() {
	for _, sub := range w.subs {
		_ = w.events.Unsubscribe(sub)
	}
	w.subs = nil
}

func (w *World) Stats() Stats {
	return Stats{
		WaypointsReached: w.waypoints.Load(),
		Reversals:        w.reversals.Load(),
		PassengerMoves:   w.passengerN.Load(),
	}
}

func (w *World) Scene() *Scene                       { return w.scene }
func (w *World) RunID() string                       { return w.runID }
func (w *World) Tick() uint64                        { return w.tick }
func (w *World) Now() float64                        { return w.now }
func (w *World) Space() *physics.Space               { return w.space }
func (w *World) Platforms() []*platform.Controller   { return w.platforms }
func (w *World) Passengers() []*passenger.Controller { return w.passengers }
