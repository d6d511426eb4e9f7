package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/dynamo"
	"github.com/san-kum/rigidscene/internal/metrics"
	"github.com/san-kum/rigidscene/internal/scene"
)

func newController(t *testing.T, preset string) *scene.Controller {
	t.Helper()
	c, err := scene.New(config.GetPreset(preset), nil)
	if err != nil {
		t.Fatalf("scene: %v", err)
	}
	return c
}

func TestSimulatorRun(t *testing.T) {
	sim := New()
	ctrl := newController(t, "drop")

	result, err := sim.Run(context.Background(), ctrl, Config{FPS: 60, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 61 {
		t.Errorf("expected 61 frames, got %d", len(result.Frames))
	}
	if result.FramesRun != 60 {
		t.Errorf("expected 60 frames run, got %d", result.FramesRun)
	}

	times := result.Times()
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Fatalf("time not increasing at frame %d: %v <= %v", i, times[i], times[i-1])
		}
	}

	first, last := result.Frames[0], result.Frames[len(result.Frames)-1]
	if last.Sphere.Position.Y() >= first.Sphere.Position.Y() {
		t.Errorf("sphere did not fall: %v -> %v", first.Sphere.Position.Y(), last.Sphere.Position.Y())
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New()
	ctrl := newController(t, "default")

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero fps", Config{FPS: 0, Duration: 1.0}},
		{"negative fps", Config{FPS: -30, Duration: 1.0}},
		{"zero duration", Config{FPS: 60, Duration: 0}},
		{"negative duration", Config{FPS: 60, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), ctrl, tt.cfg)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string            { return "count" }
func (c *countMetric) OnFrame(dynamo.Snapshot) { c.count++ }
func (c *countMetric) Value() float64          { return float64(c.count) }
func (c *countMetric) Reset()                  { c.count = 0 }

func TestSimulatorMetrics(t *testing.T) {
	sim := New()
	metric := &countMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), newController(t, "default"), Config{FPS: 10, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got, ok := result.Metrics["count"]; !ok || got != 10 {
		t.Errorf("expected count metric 10, got %v (present=%v)", got, ok)
	}
}

func TestSimulatorForceAt(t *testing.T) {
	run := func(forceAt []float64) *Result {
		r, err := New().Run(context.Background(), newController(t, "drop"), Config{FPS: 60, Duration: 0.5, ForceAt: forceAt})
		if err != nil {
			t.Fatal(err)
		}
		return r
	}

	plain := run(nil)
	kicked := run([]float64{0.25, 0})

	if kicked.ForcesUsed != 2 {
		t.Errorf("expected 2 forces applied, got %d", kicked.ForcesUsed)
	}
	// frame 0 is identical, frame 1 already differs
	if plain.Frames[0] != kicked.Frames[0] {
		t.Error("initial frames differ")
	}
	if plain.Frames[1].Sphere == kicked.Frames[1].Sphere {
		t.Error("force at t=0 had no effect on the first frame")
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().Run(ctx, newController(t, "default"), Config{FPS: 60, Duration: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.FramesRun != 0 {
		t.Errorf("expected no frames after cancel, got %d", result.FramesRun)
	}
}

func TestRunWithCallback(t *testing.T) {
	calls := 0
	err := New().RunWithCallback(context.Background(), newController(t, "default"), Config{FPS: 60, Duration: 1}, func(s dynamo.Snapshot) bool {
		calls++
		return calls < 30
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 30 {
		t.Errorf("expected callback to stop the run at 30, got %d", calls)
	}

	calls = 0
	err = New().RunWithCallback(context.Background(), newController(t, "default"), Config{FPS: 60, Duration: 1}, func(dynamo.Snapshot) bool {
		calls++
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 60 {
		t.Errorf("expected 60 frames, got %d", calls)
	}
}

func TestEnsemble(t *testing.T) {
	cfgs := []*config.Config{config.GetPreset("default"), config.GetPreset("moon"), config.GetPreset("heavy")}
	ens := NewEnsemble(metrics.Default)

	results, err := ens.Run(context.Background(), cfgs, Config{FPS: 30, Duration: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(cfgs) {
		t.Fatalf("expected %d results, got %d", len(cfgs), len(results))
	}

	// moon gravity falls slower than earth gravity
	earth := results[0].Frames[15].Sphere.Position.Y()
	moon := results[1].Frames[15].Sphere.Position.Y()
	if moon <= earth {
		t.Errorf("moon sphere at %v, earth sphere at %v", moon, earth)
	}
	for i, r := range results {
		if _, ok := r.Metrics["energy"]; !ok {
			t.Errorf("result %d missing energy metric", i)
		}
	}
}

func TestEnsemble_InvalidConfig(t *testing.T) {
	bad := config.DefaultConfig()
	bad.Sphere.Radius = -1

	_, err := NewEnsemble(nil).Run(context.Background(), []*config.Config{config.DefaultConfig(), bad}, Config{FPS: 30, Duration: 0.1})
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}
