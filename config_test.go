package impulse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigFormats(t *testing.T) {
	tests := []struct {
		ext  string
		data string
	}{
		{".yaml", "gravity: {x: 0, y: -9.8}\nvelocityIterations: 12\nallowSleep: false\n"},
		{".yml", "gravity:\n  x: 0\n  y: -9.8\nvelocityIterations: 12\nallowSleep: false\n"},
		{".toml", "velocityIterations = 12\nallowSleep = false\n\n[gravity]\nx = 0.0\ny = -9.8\n"},
		{".json", `{"gravity": {"x": 0, "y": -9.8}, "velocityIterations": 12, "allowSleep": false}`},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.data), tt.ext)
			require.NoError(t, err)

			assert.Equal(t, Vector{0, -9.8}, cfg.Gravity)
			assert.Equal(t, 12, cfg.VelocityIterations)
			assert.False(t, cfg.AllowSleep)

			// untouched keys keep their defaults
			def := DefaultConfig()
			assert.Equal(t, def.PositionIterations, cfg.PositionIterations)
			assert.Equal(t, def.TimeStep, cfg.TimeStep)
			assert.True(t, cfg.WarmStarting)
			assert.Equal(t, TIME_TO_SLEEP, cfg.TimeToSleep)
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"zero timestep", ".yaml", "timeStep: 0\n"},
		{"no velocity iterations", ".json", `{"velocityIterations": 0}`},
		{"negative damping", ".toml", "damping = -1.0\n"},
		{"unknown json key", ".json", `{"gravty": {"x": 0, "y": 0}}`},
		{"unknown toml key", ".toml", "gravty = 1\n"},
		{"broken yaml", ".yaml", "gravity: [\n"},
		{"unsupported format", ".ini", "gravity=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), tt.ext)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.YAML")
	require.NoError(t, os.WriteFile(path, []byte("damping: 0.25\nmaxSteps: 3\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Damping)
	assert.Equal(t, 3, cfg.MaxSteps)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewSpaceFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = Vector{1, 2}
	cfg.Damping = 0.5
	cfg.TimeToSleep = 2

	space := NewSpaceFromConfig(cfg)
	assert.Equal(t, Vector{1, 2}, space.Gravity)
	assert.Equal(t, 0.5, space.Damping)
	assert.Equal(t, 2.0, space.TimeToSleep)
	assert.Equal(t, SLEEP_LINEAR_TOLERANCE, space.SleepLinearTolerance)

	cfg.SleepLinearTolerance = 0
	space.Apply(cfg)
	assert.Equal(t, SLEEP_LINEAR_TOLERANCE, space.SleepLinearTolerance, "zero keeps the current tolerance")
}
