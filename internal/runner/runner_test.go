package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/platformer/internal/core/platform"
	"github.com/zeusync/platformer/internal/core/sim"
	"github.com/zeusync/platformer/internal/persistence/ticklog"
	"github.com/zeusync/platformer/internal/server"
)

const liftYAML = `
name: lift
time_step: 0.125
duration: 1.5
platforms:
  - name: cage
    size: [2, 0.5]
    waypoints: [[0, 0], [0, 2]]
    speed: 2
passengers:
  - name: hero
    position: [0, 0.75]
`

const ferryJSON = `{
  "name": "ferry",
  "time_step": 0.25,
  "duration": 4,
  "platforms": [
    {"name": "boat", "size": [3, 1], "waypoints": [[0, 0], [4, 0], [4, 2]], "speed": 2, "cyclic": true, "ease_amount": 1}
  ]
}`

func writeScenes(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	lift := filepath.Join(dir, "lift.yaml")
	ferry := filepath.Join(dir, "ferry.json")
	require.NoError(t, os.WriteFile(lift, []byte(liftYAML), 0o644))
	require.NoError(t, os.WriteFile(ferry, []byte(ferryJSON), 0o644))
	return []string{lift, ferry}
}

func TestRunFilesWritesTickLogs(t *testing.T) {
	logDir := t.TempDir()
	r := New(Config{TickLogDir: logDir}, nil, nil, server.NewFrameHub(nil, 0))

	results, err := r.RunFiles(context.Background(), writeScenes(t))
	require.NoError(t, err)
	require.Len(t, results, 2)

	lift, ferry := results[0], results[1]
	assert.Equal(t, "lift", lift.Scene)
	assert.Equal(t, uint64(12), lift.Ticks)
	assert.Equal(t, uint64(1), lift.Stats.Reversals)
	assert.Positive(t, lift.Stats.PassengerMoves)
	assert.Contains(t, lift.String(), "lift: ticks=12")

	assert.Equal(t, "ferry", ferry.Scene)
	assert.Equal(t, uint64(16), ferry.Ticks)
	assert.Zero(t, ferry.Stats.Reversals)
	assert.Zero(t, ferry.Stats.PassengerMoves)

	for _, res := range results {
		frames, err := ticklog.ReadFile(res.TickLog)
		require.NoError(t, err)
		require.Len(t, frames, int(res.Ticks))
		assert.Equal(t, res.Digest, frames[len(frames)-1].Digest)
		assert.Equal(t, res.RunID, frames[0].RunID)
	}
}

func TestRunIsReproducible(t *testing.T) {
	paths := writeScenes(t)
	a, err := New(Config{}, nil, nil, nil).RunFiles(context.Background(), paths)
	require.NoError(t, err)
	b, err := New(Config{Parallelism: 1}, nil, nil, nil).RunFiles(context.Background(), paths)
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].Digest, b[i].Digest)
		assert.Empty(t, a[i].TickLog)
	}
}

func TestRunRejectsDuplicateScenes(t *testing.T) {
	paths := writeScenes(t)
	_, err := New(Config{}, nil, nil, nil).RunFiles(context.Background(), []string{paths[0], paths[0]})
	assert.ErrorIs(t, err, ErrDuplicateScene)
}

func TestRunReportsInvalidScene(t *testing.T) {
	scene := &sim.Scene{
		Name:      "broken",
		TimeStep:  0.1,
		Duration:  1,
		Platforms: []platform.Config{{Name: "p", Size: mgl64.Vec2{1, 1}, Speed: 1}},
	}
	_, err := New(Config{}, nil, nil, nil).Run(context.Background(), []*sim.Scene{scene})
	assert.ErrorIs(t, err, platform.ErrTooFewWaypoints)
}

func TestRunFilesMissingFile(t *testing.T) {
	_, err := New(Config{}, nil, nil, nil).RunFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}
