package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/platformer/internal/core/platform"
	"github.com/zeusync/platformer/internal/core/systems/physics"
)

// Scene describes one simulation: a fixed time step, how long to run, and the
// bodies in the world. It can be written as JSON or YAML.
type Scene struct {
	Name       string            `json:"name" yaml:"name"`
	TimeStep   float64           `json:"time_step" yaml:"time_step"`
	Duration   float64           `json:"duration" yaml:"duration"`
	Platforms  []platform.Config `json:"platforms" yaml:"platforms"`
	Passengers []PassengerSpec   `json:"passengers" yaml:"passengers"`
}

// PassengerSpec places a passenger body. Layer is "passenger" (the default)
// or "default"; bodies on the default layer are scenery platforms ignore.
type PassengerSpec struct {
	Name     string     `json:"name" yaml:"name"`
	Position mgl64.Vec2 `json:"position" yaml:"position"`
	Size     mgl64.Vec2 `json:"size" yaml:"size"`
	Layer    string     `json:"layer,omitempty" yaml:"layer,omitempty"`
}

// LoadJSON loads a scene from JSON reader.
func LoadJSON(r io.Reader) (*Scene, error) {
	var s Scene
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadYAML loads a scene from YAML reader.
func LoadYAML(r io.Reader) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSceneFile picks the decoder by file extension. A scene without a name
// is named after its file.
func LoadSceneFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	var s *Scene
	switch ext {
	case ".yaml", ".yml":
		s, err = LoadYAML(f)
	case ".json":
		s, err = LoadJSON(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Ticks is the number of fixed steps needed to cover Duration.
func (s *Scene) Ticks() uint64 {
	if !(s.TimeStep > 0) || !(s.Duration > 0) {
		return 0
	}
	return uint64(math.Ceil(s.Duration/s.TimeStep - 1e-9))
}

// Validate checks the scene itself. Platform configs are validated when the
// world spawns them.
func (s *Scene) Validate() error {
	var errs []error
	if !(s.TimeStep > 0) || math.IsInf(s.TimeStep, 0) {
		errs = append(errs, fmt.Errorf("%w: time_step must be positive, got %v", ErrInvalidScene, s.TimeStep))
	}
	if !(s.Duration > 0) || math.IsInf(s.Duration, 0) {
		errs = append(errs, fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidScene, s.Duration))
	}
	if len(s.Platforms) == 0 {
		errs = append(errs, fmt.Errorf("%w: no platforms", ErrInvalidScene))
	}

	names := make(map[string]struct{}, len(s.Platforms)+len(s.Passengers))
	unique := func(kind, name string) {
		if name == "" {
			errs = append(errs, fmt.Errorf("%w: %s without a name", ErrInvalidScene, kind))
			return
		}
		if _, ok := names[name]; ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateName, name))
		}
		names[name] = struct{}{}
	}
	for _, p := range s.Platforms {
		unique("platform", p.Name)
	}
	for _, p := range s.Passengers {
		unique("passenger", p.Name)
		if _, err := ParseLayer(p.Layer); err != nil {
			errs = append(errs, fmt.Errorf("passenger %q: %w", p.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ParseLayer maps a scene layer name to its mask.
func ParseLayer(name string) (physics.LayerMask, error) {
	switch strings.ToLower(name) {
	case "", "passenger":
		return physics.LayerPassenger, nil
	case "default":
		return physics.LayerDefault, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
}
