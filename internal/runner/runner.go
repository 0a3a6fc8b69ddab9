// Package runner loads scenes and runs them side by side, fanning frames out
// to the tick log and the viewer hub.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeusync/platformer/internal/core/events/bus"
	"github.com/zeusync/platformer/internal/core/observability/log"
	"github.com/zeusync/platformer/internal/core/sim"
	"github.com/zeusync/platformer/internal/persistence/ticklog"
	"github.com/zeusync/platformer/internal/server"
	"github.com/zeusync/platformer/pkg/concurrent"
)

var ErrDuplicateScene = errors.New("runner: duplicate scene name")

type Config struct {
	// TickLogDir enables a compressed frame log per scene when set.
	TickLogDir string
	// Realtime paces every scene to wall-clock time.
	Realtime bool
	// Parallelism caps how many scenes run at once; zero means all.
	Parallelism int
}

// Result summarises one finished scene.
type Result struct {
	Scene   string    `json:"scene"`
	RunID   string    `json:"run_id"`
	Ticks   uint64    `json:"ticks"`
	Time    float64   `json:"time"`
	Digest  string    `json:"digest"`
	Stats   sim.Stats `json:"stats"`
	TickLog string    `json:"tick_log,omitempty"`
}

func (r Result) String() string {
	return fmt.Sprintf("%s: ticks=%d time=%g digest=%s waypoints=%d reversals=%d passenger_moves=%d",
		r.Scene, r.Ticks, r.Time, r.Digest, r.Stats.WaypointsReached, r.Stats.Reversals, r.Stats.PassengerMoves)
}

type Runner struct {
	cfg    Config
	logger log.Log
	events bus.EventBus
	hub    *server.FrameHub
}

// New builds a runner. hub may be nil when nobody watches.
func New(cfg Config, logger log.Log, events bus.EventBus, hub *server.FrameHub) *Runner {
	if logger == nil {
		logger = log.NewNop()
	}
	if events == nil {
		events = bus.New()
	}
	return &Runner{cfg: cfg, logger: logger, events: events, hub: hub}
}

// RunFiles loads every scene file and runs them.
func (r *Runner) RunFiles(ctx context.Context, paths []string) ([]Result, error) {
	scenes := make([]*sim.Scene, 0, len(paths))
	for _, path := range paths {
		s, err := sim.LoadSceneFile(path)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, s)
	}
	return r.Run(ctx, scenes)
}

// Run runs scenes concurrently. Scene names must be unique because they key
// tick logs and event sources. The first failing scene cancels the others.
func (r *Runner) Run(ctx context.Context, scenes []*sim.Scene) ([]Result, error) {
	seen := make(map[string]struct{}, len(scenes))
	for _, s := range scenes {
		if _, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateScene, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return concurrent.Map(ctx, scenes, r.cfg.Parallelism, r.runScene)
}

func (r *Runner) runScene(ctx context.Context, scene *sim.Scene) (res Result, err error) {
	w, err := sim.NewWorld(scene,
		sim.WithLogger(r.logger),
		sim.WithEventBus(r.events),
		sim.WithRealtime(r.cfg.Realtime),
	)
	if err != nil {
		return Result{}, err
	}
	defer w.Close()

	var sinks []sim.FrameSink
	if r.cfg.TickLogDir != "" {
		tl, terr := ticklog.Create(r.cfg.TickLogDir, scene.Name)
		if terr != nil {
			return Result{}, fmt.Errorf("scene %q: %w", scene.Name, terr)
		}
		defer func() {
			if cerr := tl.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("scene %q: close tick log: %w", scene.Name, cerr))
			}
		}()
		res.TickLog = ticklog.Path(r.cfg.TickLogDir, scene.Name)
		sinks = append(sinks, tl.WriteFrame)
	}
	if r.hub != nil {
		sinks = append(sinks, r.broadcast)
	}

	frame, err := w.Run(ctx, fanOut(sinks))
	if err != nil {
		return res, err
	}

	res.Scene = scene.Name
	res.RunID = frame.RunID
	res.Ticks = frame.Tick
	res.Time = frame.Time
	res.Digest = frame.Digest
	res.Stats = w.Stats()
	return res, nil
}

// broadcast tolerates a hub that was shut down while scenes still run.
func (r *Runner) broadcast(f sim.Frame) error {
	if err := r.hub.Broadcast(f); err != nil && !errors.Is(err, server.ErrHubClosed) {
		return err
	}
	return nil
}

func fanOut(sinks []sim.FrameSink) sim.FrameSink {
	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	}
	return func(f sim.Frame) error {
		for _, sink := range sinks {
			if err := sink(f); err != nil {
				return err
			}
		}
		return nil
	}
}
