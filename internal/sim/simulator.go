// Package sim drives scene controllers without a window: a fixed-rate frame
// loop for recorded runs and an ensemble that runs several scenes at once.
package sim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/rigidscene/internal/dynamo"
	"github.com/san-kum/rigidscene/internal/scene"
)

type Simulator struct {
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run feeds ctrl cfg.Duration seconds of frames of 1/cfg.FPS seconds and
// records every committed frame, starting with the current one.
func (s *Simulator) Run(ctx context.Context, ctrl *scene.Controller, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := int(math.Round(cfg.Duration * float64(cfg.FPS)))
	dt := 1 / float64(cfg.FPS)
	result := &Result{
		Frames:  make([]dynamo.Snapshot, 0, frames+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	forces := append([]float64(nil), cfg.ForceAt...)
	sort.Float64s(forces)

	result.Frames = append(result.Frames, ctrl.Snapshot())

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := ctrl.Snapshot().Time
		for len(forces) > 0 && forces[0] <= t+dt/2 {
			ctrl.ApplyForce()
			forces = forces[1:]
			result.ForcesUsed++
		}

		ctrl.Update(dt)
		snap := ctrl.Snapshot()

		for _, m := range s.metrics {
			m.OnFrame(snap)
		}
		for _, obs := range s.observers {
			obs.OnFrame(snap)
		}

		if cfg.ValidateState && !(snap.Sphere.IsValid() && snap.Cube.IsValid()) {
			result.Errors = append(result.Errors, SimError{Time: snap.Time, Frame: i, Message: "invalid transform (NaN/Inf)"})
			break
		}

		result.FramesRun++
		result.Frames = append(result.Frames, snap)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d: %w", cfg.FPS, dynamo.ErrParameterBounds)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrParameterBounds)
	}
	return nil
}

// RunWithCallback is Run without recording: callback sees each committed
// frame and stops the run by returning false.
func (s *Simulator) RunWithCallback(ctx context.Context, ctrl *scene.Controller, cfg Config, callback func(dynamo.Snapshot) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	dt := 1 / float64(cfg.FPS)
	end := ctrl.Snapshot().Time + cfg.Duration
	for ctrl.Snapshot().Time < end-dt/2 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ctrl.Update(dt)
		snap := ctrl.Snapshot()
		if !callback(snap) {
			return nil
		}

		if cfg.ValidateState && !(snap.Sphere.IsValid() && snap.Cube.IsValid()) {
			return fmt.Errorf("invalid transform at t=%.4f", snap.Time)
		}
	}

	return nil
}
