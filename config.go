package impulse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the world settings and the stepping parameters of a simulation run.
type Config struct {
	Gravity Vector  `yaml:"gravity" toml:"gravity" json:"gravity"`
	Damping float64 `yaml:"damping" toml:"damping" json:"damping"`

	VelocityIterations int  `yaml:"velocityIterations" toml:"velocityIterations" json:"velocityIterations"`
	PositionIterations int  `yaml:"positionIterations" toml:"positionIterations" json:"positionIterations"`
	WarmStarting       bool `yaml:"warmStarting" toml:"warmStarting" json:"warmStarting"`
	AllowSleep         bool `yaml:"allowSleep" toml:"allowSleep" json:"allowSleep"`

	// seconds per step
	TimeStep float64 `yaml:"timeStep" toml:"timeStep" json:"timeStep"`
	// Stepper catch up limit per Update
	MaxSteps int `yaml:"maxSteps" toml:"maxSteps" json:"maxSteps"`

	SleepLinearTolerance  float64 `yaml:"sleepLinearTolerance" toml:"sleepLinearTolerance" json:"sleepLinearTolerance"`
	SleepAngularTolerance float64 `yaml:"sleepAngularTolerance" toml:"sleepAngularTolerance" json:"sleepAngularTolerance"`
	TimeToSleep           float64 `yaml:"timeToSleep" toml:"timeToSleep" json:"timeToSleep"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:               Vector{0, -10},
		VelocityIterations:    8,
		PositionIterations:    4,
		WarmStarting:          true,
		AllowSleep:            true,
		TimeStep:              1.0 / 60.0,
		MaxSteps:              5,
		SleepLinearTolerance:  SLEEP_LINEAR_TOLERANCE,
		SleepAngularTolerance: SLEEP_ANGULAR_TOLERANCE,
		TimeToSleep:           TIME_TO_SLEEP,
	}
}

// Validate rejects settings the solver cannot run with.
func (cfg Config) Validate() error {
	switch {
	case cfg.TimeStep <= 0:
		return fmt.Errorf("timeStep must be positive, got %v", cfg.TimeStep)
	case cfg.VelocityIterations < 1:
		return fmt.Errorf("velocityIterations must be at least 1, got %d", cfg.VelocityIterations)
	case cfg.PositionIterations < 0:
		return fmt.Errorf("positionIterations must not be negative, got %d", cfg.PositionIterations)
	case cfg.Damping < 0:
		return fmt.Errorf("damping must not be negative, got %v", cfg.Damping)
	case cfg.MaxSteps < 1:
		return fmt.Errorf("maxSteps must be at least 1, got %d", cfg.MaxSteps)
	}
	return nil
}

// LoadConfig reads a .yaml, .yml, .toml or .json file over DefaultConfig. Keys missing from the
// file keep their default.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes data in the format named by ext.
func ParseConfig(data []byte, ext string) (Config, error) {
	cfg := DefaultConfig()

	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewSpaceFromConfig makes a space with the world settings of cfg.
func NewSpaceFromConfig(cfg Config) *Space {
	space := NewSpace()
	space.Apply(cfg)
	return space
}

// Apply copies the world settings of cfg onto the space.
func (space *Space) Apply(cfg Config) {
	space.Gravity = cfg.Gravity
	space.Damping = cfg.Damping
	if cfg.SleepLinearTolerance > 0 {
		space.SleepLinearTolerance = cfg.SleepLinearTolerance
	}
	if cfg.SleepAngularTolerance > 0 {
		space.SleepAngularTolerance = cfg.SleepAngularTolerance
	}
	if cfg.TimeToSleep > 0 {
		space.TimeToSleep = cfg.TimeToSleep
	}
}
