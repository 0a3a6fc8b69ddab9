package physics

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyID identifies a body for the lifetime of its Space.
type BodyID uint64

// LayerMask selects bodies by layer bit. A body matches a mask when
// body.Layer&mask != 0.
type LayerMask uint32

const (
	LayerDefault   LayerMask = 1 << 0
	LayerPlatform  LayerMask = 1 << 1
	LayerPassenger LayerMask = 1 << 2
	LayerAll       LayerMask = ^LayerMask(0)
)

// Body is a kinematic axis-aligned box. Position is the box centre.
type Body struct {
	ID    BodyID
	Name  string
	Layer LayerMask

	center mgl64.Vec2
	size   mgl64.Vec2
}

func (b *Body) Position() mgl64.Vec2 { return b.center }
func (b *Body) Size() mgl64.Vec2     { return b.size }
func (b *Body) Bounds() AABB         { return BoxAt(b.center, b.size) }

// Translate moves the body by delta.
func (b *Body) Translate(delta mgl64.Vec2) {
	b.center = b.center.Add(delta)
}

// Hit is the closest body a ray touched and how far along the ray it was.
type Hit struct {
	Body     BodyID
	Distance float64
}

// Raycaster is the probe primitive consumed by the passenger detector.
type Raycaster interface {
	// Raycast returns the closest body matching mask within maxDistance of
	// origin along direction. A ray starting inside a body reports that body
	// at distance 0.
	Raycast(origin, direction mgl64.Vec2, maxDistance float64, mask LayerMask) (Hit, bool)
}

var _ Raycaster = (*Space)(nil)

// Space owns the bodies of one simulated world. It is not safe for
// concurrent use; a world ticks its space from a single goroutine.
type Space struct {
	bodies map[BodyID]*Body
	nextID BodyID
}

func NewSpace() *Space {
	return &Space{bodies: make(map[BodyID]*Body)}
}

// Add registers a new body centred on center.
func (s *Space) Add(name string, center, size mgl64.Vec2, layer LayerMask) (*Body, error) {
	if !isFinite(center) || !isFinite(size) || size[0] <= 0 || size[1] <= 0 {
		return nil, fmt.Errorf("%w: %q center=%v size=%v", ErrInvalidBody, name, center, size)
	}
	s.nextID++
	b := &Body{ID: s.nextID, Name: name, Layer: layer, center: center, size: size}
	s.bodies[b.ID] = b
	return b, nil
}

func (s *Space) Remove(id BodyID) error {
	if _, ok := s.bodies[id]; !ok {
		return fmt.Errorf("%w: %d", ErrBodyNotFound, id)
	}
	delete(s.bodies, id)
	return nil
}

func (s *Space) Body(id BodyID) (*Body, bool) {
	b, ok := s.bodies[id]
	return b, ok
}

// Bodies returns every body ordered by id.
func (s *Space) Bodies() []*Body {
	out := make([]*Body, 0, len(s.bodies))
	for _, b := range s.bodies {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Space) Len() int { return len(s.bodies) }

// Raycast checks every body on the mask and returns the closest hit. Ties
// resolve to the lowest id so results do not depend on map order.
func (s *Space) Raycast(origin, direction mgl64.Vec2, maxDistance float64, mask LayerMask) (Hit, bool) {
	if direction.LenSqr() == 0 || maxDistance < 0 {
		return Hit{}, false
	}
	direction = direction.Normalize()

	closest := Hit{Distance: maxDistance}
	found := false
	for id, b := range s.bodies {
		if b.Layer&mask == 0 {
			continue
		}
		t, ok := raycastBox(origin, direction, b.Bounds(), maxDistance)
		if !ok {
			continue
		}
		if !found || t < closest.Distance || (t == closest.Distance && id < closest.Body) {
			closest = Hit{Body: id, Distance: t}
			found = true
		}
	}
	return closest, found
}
