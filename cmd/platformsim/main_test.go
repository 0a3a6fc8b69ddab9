package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/platformer/internal/persistence/ticklog"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.yaml", "b.json"}, splitList(" a.yaml, ,b.json,"))
	assert.Empty(t, splitList(""))
}

func TestRunScenes(t *testing.T) {
	dir := t.TempDir()
	err := run([]string{
		"-log-level", "silent",
		"-ticklog", dir,
		"-scene", "../../scenes/elevator.yaml",
		"../../scenes/ferry.json",
	})
	require.NoError(t, err)

	frames, err := ticklog.ReadFile(filepath.Join(dir, "elevator.jsonl.zst"))
	require.NoError(t, err)
	assert.NotEmpty(t, frames)
}

func TestRunWithoutScenes(t *testing.T) {
	assert.Error(t, run([]string{"-log-level", "silent"}))
}
