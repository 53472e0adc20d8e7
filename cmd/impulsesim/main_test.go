package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jakecoffman/impulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScene(t *testing.T, dir string) string {
	space := impulse.NewSpace()
	ground := space.CreateBody(impulse.BODY_STATIC, 0, 0, 0)
	space.AddSegmentShape(ground, impulse.Vector{X: -5}, impulse.Vector{X: 5}, 0.1, 1)
	box := space.CreateBody(impulse.BODY_DYNAMIC, 0, 2, 0)
	space.AddBoxShape(box, 1, 1, 1)

	text, err := json.Marshal(space)
	require.NoError(t, err)
	path := filepath.Join(dir, "scene.json")
	require.NoError(t, os.WriteFile(path, text, 0o644))
	return path
}

func quietSim(dir string) *simulation {
	return &simulation{
		scenePath: filepath.Join(dir, "scene.json"),
		outPath:   filepath.Join(dir, "out.json"),
		steps:     120,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSimulationRun(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir)

	configPath := filepath.Join(dir, "world.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("gravity: {x: 0, y: -20}\n"), 0o644))

	sim := quietSim(dir)
	sim.configPath = configPath
	require.NoError(t, sim.run(context.Background()))

	text, err := os.ReadFile(sim.outPath)
	require.NoError(t, err)
	space, err := impulse.Create(text)
	require.NoError(t, err)

	assert.Equal(t, impulse.Vector{X: 0, Y: -20}, space.Gravity)
	require.Equal(t, 2, space.NumBodies())
	box := space.Bodies()[1]
	assert.Less(t, box.Position().Y, 2.0, "the box fell")
	assert.Greater(t, box.Position().Y, 0.4, "and landed on the ground")
}

func TestSimulationRunErrors(t *testing.T) {
	dir := t.TempDir()

	sim := quietSim(dir)
	assert.Error(t, sim.run(context.Background()), "missing scene")

	writeScene(t, dir)
	sim.configPath = filepath.Join(dir, "world.ini")
	require.NoError(t, os.WriteFile(sim.configPath, []byte("x"), 0o644))
	assert.Error(t, sim.run(context.Background()), "unsupported config")

	sim.configPath = ""
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sim.run(ctx), context.Canceled)
	_, err := os.Stat(sim.outPath)
	assert.ErrorIs(t, err, os.ErrNotExist, "no snapshot after a cancelled run")
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	w, err := newInputWatcher(path, "")
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, []string{path}, w.Inputs())

	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	select {
	case name := <-w.Changed:
		assert.Equal(t, path, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	w, err := newInputWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case name := <-w.Changed:
		t.Fatalf("unexpected change %s", name)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	select {
	case name := <-w.Changed:
		assert.Equal(t, path, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
}
