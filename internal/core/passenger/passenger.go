// Package passenger provides a minimal movement capability for bodies that
// ride on or get pushed by platforms.
package passenger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/platformer/internal/core/platform"
	"github.com/zeusync/platformer/internal/core/systems/physics"
)

var (
	ErrNilBody       = errors.New("passenger: nil body")
	ErrDuplicate     = errors.New("passenger: body already registered")
	ErrNotRegistered = errors.New("passenger: body not registered")
)

// Controller moves one passenger body. It has no collision response of its
// own: a move is applied as given.
type Controller struct {
	body *physics.Body

	mu           sync.RWMutex
	grounded     bool
	lastVelocity mgl64.Vec2
	moves        uint64
}

var _ platform.Mover = (*Controller)(nil)

func NewController(body *physics.Body) (*Controller, error) {
	if body == nil {
		return nil, ErrNilBody
	}
	return &Controller{body: body}, nil
}

// Move translates the body by velocity and remembers whether the move came
// from standing on a platform.
func (c *Controller) Move(velocity mgl64.Vec2, standingOnPlatform bool) {
	c.body.Translate(velocity)

	c.mu.Lock()
	c.grounded = standingOnPlatform
	c.lastVelocity = velocity
	c.moves++
	c.mu.Unlock()
}

func (c *Controller) ID() physics.BodyID   { return c.body.ID }
func (c *Controller) Name() string         { return c.body.Name }
func (c *Controller) Position() mgl64.Vec2 { return c.body.Position() }

// Grounded reports whether the last move was made while standing on a
// platform.
func (c *Controller) Grounded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grounded
}

func (c *Controller) LastVelocity() mgl64.Vec2 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastVelocity
}

// Moves counts Move calls since creation.
func (c *Controller) Moves() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.moves
}

// Registry maps bodies to their controllers and resolves movers for
// platforms.
type Registry struct {
	mu          sync.RWMutex
	controllers map[physics.BodyID]*Controller
}

var _ platform.MoverResolver = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{controllers: make(map[physics.BodyID]*Controller)}
}

// Register creates a controller for body.
func (r *Registry) Register(body *physics.Body) (*Controller, error) {
	c, err := NewController(body)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.controllers[body.ID]; ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicate, body.ID)
	}
	r.controllers[body.ID] = c
	return c, nil
}

// Unregister forgets id. Platforms that already cached its controller keep
// moving it.
func (r *Registry) Unregister(id physics.BodyID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.controllers[id]; !ok {
		return fmt.Errorf("%w: %d", ErrNotRegistered, id)
	}
	delete(r.controllers, id)
	return nil
}

func (r *Registry) Get(id physics.BodyID) (*Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.controllers[id]
	return c, ok
}

func (r *Registry) ResolveMover(id physics.BodyID) (platform.Mover, bool) {
	c, ok := r.Get(id)
	if !ok {
		return nil, false
	}
	return c, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.controllers)
}
