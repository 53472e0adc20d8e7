// Command impulsesim steps a saved scene headless and reports how it settled.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/jakecoffman/impulse"
)

func main() {
	configPath := flag.String("config", "", "world config (.yaml, .yml, .toml or .json)")
	scenePath := flag.String("scene", "", "scene snapshot to load (json)")
	steps := flag.Int("steps", 600, "number of fixed steps to run")
	outPath := flag.String("out", "", "write the final snapshot here, - for stdout")
	watch := flag.Bool("watch", false, "rerun whenever the config or scene changes")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	impulse.SetLogger(log.With("component", "impulse"))

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "usage: impulsesim -scene scene.json [-config world.yaml] [-steps n] [-out out.json] [-watch]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sim := &simulation{
		configPath: *configPath,
		scenePath:  *scenePath,
		outPath:    *outPath,
		steps:      *steps,
		log:        log,
	}

	if err := sim.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("simulation failed", "err", err)
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}

	if err := sim.watch(ctx); err != nil {
		log.Error("watch failed", "err", err)
		os.Exit(1)
	}
}

type simulation struct {
	configPath string
	scenePath  string
	outPath    string
	steps      int
	log        *slog.Logger
}

func (sim *simulation) loadConfig() (impulse.Config, error) {
	if sim.configPath == "" {
		return impulse.DefaultConfig(), nil
	}
	return impulse.LoadConfig(sim.configPath)
}

func (sim *simulation) run(ctx context.Context) error {
	cfg, err := sim.loadConfig()
	if err != nil {
		return err
	}

	text, err := os.ReadFile(sim.scenePath)
	if err != nil {
		return fmt.Errorf("reading scene: %w", err)
	}
	space, err := impulse.Create(text)
	if err != nil {
		return fmt.Errorf("%s: %w", sim.scenePath, err)
	}
	space.Apply(cfg)

	broken := 0
	space.OnJointBreak = func(space *impulse.Space, joint *impulse.Joint) {
		broken++
		sim.log.Debug("joint broke", "joint", joint.ID(), "type", joint.Type(), "step", space.StepCount())
	}

	stepper := impulse.NewStepper(space, cfg)
	start := time.Now()
	err = stepper.Run(ctx, sim.steps)
	elapsed := time.Since(start)

	awake, asleep := 0, 0
	space.EachBody(func(body *impulse.Body) {
		if !body.IsDynamic() {
			return
		}
		if body.IsAwake() {
			awake++
		} else {
			asleep++
		}
	})

	sim.log.Info("simulation finished",
		"steps", stepper.Steps(),
		"simulated", time.Duration(float64(stepper.Steps())*cfg.TimeStep*float64(time.Second)),
		"elapsed", elapsed,
		"bodies", space.NumBodies(),
		"awake", awake,
		"asleep", asleep,
		"joints", space.NumJoints(),
		"broken", broken,
		"contacts", space.NumContacts(),
		"settled", space.PositionSolved(),
	)
	if err != nil {
		return err
	}
	return sim.write(space)
}

func (sim *simulation) write(space *impulse.Space) error {
	if sim.outPath == "" {
		return nil
	}
	text, err := json.MarshalIndent(space, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	text = append(text, '\n')

	if sim.outPath == "-" {
		_, err = os.Stdout.Write(text)
		return err
	}
	if err := os.WriteFile(sim.outPath, text, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	sim.log.Info("wrote snapshot", "path", sim.outPath)
	return nil
}

// watch reruns the simulation whenever one of its input files changes.
func (sim *simulation) watch(ctx context.Context) error {
	w, err := newInputWatcher(sim.configPath, sim.scenePath)
	if err != nil {
		return err
	}
	defer w.Close()

	sim.log.Info("watching for changes", "inputs", w.Inputs())
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-w.Changed:
			if !ok {
				return nil
			}
			sim.log.Info("input changed, rerunning", "path", name)
			if err := sim.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				sim.log.Error("simulation failed", "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			sim.log.Warn("watcher error", "err", err)
		}
	}
}
