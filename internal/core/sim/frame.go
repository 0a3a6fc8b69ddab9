package sim

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/platformer/internal/core/platform"
)

// Frame is a snapshot of a world after a step.
type Frame struct {
	RunID      string           `json:"run_id"`
	Scene      string           `json:"scene"`
	Tick       uint64           `json:"tick"`
	Time       float64          `json:"time"`
	Platforms  []PlatformFrame  `json:"platforms"`
	Passengers []PassengerFrame `json:"passengers"`
	Digest     string           `json:"digest"`
}

type PlatformFrame struct {
	Name     string                  `json:"name"`
	Position mgl64.Vec2              `json:"position"`
	State    platform.TraversalState `json:"state"`
}

type PassengerFrame struct {
	Name     string     `json:"name"`
	Position mgl64.Vec2 `json:"position"`
	Grounded bool       `json:"grounded"`
}

// Frame snapshots the world as it stands.
func (w *World) Frame() Frame {
	f := Frame{
		RunID:      w.runID,
		Scene:      w.scene.Name,
		Tick:       w.tick,
		Time:       w.now,
		Platforms:  make([]PlatformFrame, 0, len(w.platforms)),
		Passengers: make([]PassengerFrame, 0, len(w.passengers)),
	}
	for _, p := range w.platforms {
		f.Platforms = append(f.Platforms, PlatformFrame{Name: p.Name(), Position: p.Position(), State: p.State()})
	}
	for _, p := range w.passengers {
		f.Passengers = append(f.Passengers, PassengerFrame{Name: p.Name(), Position: p.Position(), Grounded: p.Grounded()})
	}
	f.Digest = f.digest()
	return f
}

// digest hashes everything in the frame except the run id, so two runs of
// the same scene agree tick for tick.
func (f *Frame) digest() string {
	h := xxhash.New()
	var tmp [8]byte

	digestWriteString(h, f.Scene)
	digestWriteU64(h, &tmp, f.Tick)
	digestWriteFloat(h, &tmp, f.Time)
	for _, p := range f.Platforms {
		digestWriteString(h, p.Name)
		digestWriteVec(h, &tmp, p.Position)
		digestWriteU64(h, &tmp, uint64(p.State.FromIndex))
		digestWriteFloat(h, &tmp, p.State.PercentBetweenWaypoints)
		digestWriteFloat(h, &tmp, p.State.NextMoveTime)
	}
	for _, p := range f.Passengers {
		digestWriteString(h, p.Name)
		digestWriteVec(h, &tmp, p.Position)
		if p.Grounded {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func digestWriteString(h *xxhash.Digest, s string) {
	_, _ = h.WriteString(s)
	_, _ = h.Write([]byte{0})
}

func digestWriteU64(h *xxhash.Digest, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	_, _ = h.Write(tmp[:])
}

func digestWriteFloat(h *xxhash.Digest, tmp *[8]byte, v float64) {
	digestWriteU64(h, tmp, math.Float64bits(v))
}

func digestWriteVec(h *xxhash.Digest, tmp *[8]byte, v mgl64.Vec2) {
	digestWriteFloat(h, tmp, v[0])
	digestWriteFloat(h, tmp, v[1])
}
