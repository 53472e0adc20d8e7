package impulse

import (
	"context"
	"math"
)

// Stepper drives a Space with a fixed time step from variable frame times.
type Stepper struct {
	Space  *Space
	Config Config

	accumulator float64
	steps       uint
}

func NewStepper(space *Space, cfg Config) *Stepper {
	return &Stepper{Space: space, Config: cfg}
}

// Step advances the space by exactly one fixed step.
func (s *Stepper) Step() {
	cfg := &s.Config
	s.Space.Step(cfg.TimeStep, cfg.VelocityIterations, cfg.PositionIterations, cfg.WarmStarting, cfg.AllowSleep)
	s.steps++
}

// Update banks elapsed seconds and runs as many fixed steps as fit, at most MaxSteps. Time beyond
// that is dropped so a long stall does not snowball.
func (s *Stepper) Update(elapsed float64) int {
	if elapsed <= 0 || s.Config.TimeStep <= 0 {
		return 0
	}
	dt := s.Config.TimeStep
	maxSteps := max(s.Config.MaxSteps, 1)

	s.accumulator += elapsed
	n := 0
	for s.accumulator >= dt && n < maxSteps {
		s.Step()
		s.accumulator -= dt
		n++
	}
	if n == maxSteps && s.accumulator >= dt {
		logger.Debug("stepper dropping time", "seconds", s.accumulator)
		s.accumulator = math.Mod(s.accumulator, dt)
	}
	return n
}

// Alpha is the fraction of a step left in the accumulator, for interpolating poses.
func (s *Stepper) Alpha() float64 {
	if s.Config.TimeStep <= 0 {
		return 0
	}
	return s.accumulator / s.Config.TimeStep
}

// Steps counts the fixed steps taken so far.
func (s *Stepper) Steps() uint {
	return s.steps
}

// Run takes n fixed steps, stopping early when ctx is done.
func (s *Stepper) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		s.Step()
	}
	return nil
}
