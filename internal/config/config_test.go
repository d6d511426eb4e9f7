package config

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/rigidscene/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Gravity != (Vec{0, -9.8, 0}) {
		t.Errorf("expected gravity (0,-9.8,0), got %v", cfg.Gravity)
	}
	if cfg.Loop.MaxSubStep <= 0 {
		t.Error("max sub-step should be positive")
	}
	if !cfg.Ground.Enabled {
		t.Error("ground should be enabled by default")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("moon")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Gravity[1] != -1.62 {
		t.Errorf("expected moon gravity, got %v", cfg.Gravity)
	}
	if cfg.Name != "moon" {
		t.Errorf("expected name moon, got %q", cfg.Name)
	}

	// presets are built fresh each time
	cfg.Gravity[1] = 0
	if GetPreset("moon").Gravity[1] != -1.62 {
		t.Error("preset mutated through returned config")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresets_Valid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d names, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative mass", func(c *Config) { c.Sphere.Mass = -1 }},
		{"zero radius", func(c *Config) { c.Sphere.Radius = 0 }},
		{"flat cube", func(c *Config) { c.Cube.HalfExtents[2] = 0 }},
		{"restitution above one", func(c *Config) { c.Cube.Restitution = 1.5 }},
		{"zero sub-step", func(c *Config) { c.Loop.MaxSubStep = 0 }},
		{"frame shorter than sub-step", func(c *Config) { c.Loop.MaxFrameTime = c.Loop.MaxSubStep / 2 }},
		{"no iterations", func(c *Config) { c.Solver.VelocityIterations = 0 }},
		{"zero fps", func(c *Config) { c.Loop.FPS = 0 }},
		{"nan restitution", func(c *Config) { c.Sphere.Restitution = math.NaN() }},
		{"nan friction", func(c *Config) { c.Cube.Friction = math.NaN() }},
		{"nan linear damping", func(c *Config) { c.Sphere.LinearDamping = math.NaN() }},
		{"nan angular damping", func(c *Config) { c.Cube.AngularDamping = math.NaN() }},
		{"nan resting speed", func(c *Config) { c.Solver.RestingSpeed = math.NaN() }},
		{"nan slop", func(c *Config) { c.Solver.Slop = math.NaN() }},
		{"nan ground height", func(c *Config) { c.Ground.Height = math.NaN() }},
		{"infinite ground height", func(c *Config) { c.Ground.Height = math.Inf(-1) }},
		{"ground restitution above one", func(c *Config) { c.Ground.Restitution = 1.5 }},
		{"nan ground restitution", func(c *Config) { c.Ground.Restitution = math.NaN() }},
		{"negative ground friction", func(c *Config) { c.Ground.Friction = -1 }},
		{"nan camera yaw", func(c *Config) { c.Camera.Yaw = math.NaN() }},
		{"nan camera pitch", func(c *Config) { c.Camera.Pitch = math.NaN() }},
		{"nan move speed", func(c *Config) { c.Camera.MoveSpeed = math.NaN() }},
		{"infinite turn speed", func(c *Config) { c.Camera.TurnSpeed = math.Inf(1) }},
		{"nan follow distance", func(c *Config) { c.Camera.FollowDistance = math.NaN() }},
		{"nan duration", func(c *Config) { c.Duration = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestParse_OverDefaults(t *testing.T) {
	cfg, err := Parse([]byte("gravity: [0, -3, 0]\nsphere:\n  mass: 4\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gravity != (Vec{0, -3, 0}) {
		t.Errorf("gravity = %v", cfg.Gravity)
	}
	if cfg.Sphere.Mass != 4 {
		t.Errorf("sphere mass = %v", cfg.Sphere.Mass)
	}
	if cfg.Sphere.Radius != DefaultSphereRadius {
		t.Errorf("unset radius should keep default, got %v", cfg.Sphere.Radius)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("sphere:\n  radius: -1\n")); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	for _, doc := range []string{
		"sphere:\n  restitution: .nan\n",
		"sphere:\n  linear_damping: .nan\n",
		"camera:\n  pitch: .nan\n",
		"ground:\n  height: .nan\n",
	} {
		if _, err := Parse([]byte(doc)); !errors.Is(err, dynamo.ErrParameterBounds) {
			t.Errorf("Parse(%q) = %v, want ErrParameterBounds", doc, err)
		}
	}
	if _, err := Parse([]byte("gravity: {")); err == nil {
		t.Error("expected yaml error")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg := GetPreset("bouncy")

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("loaded %+v, want %+v", got, cfg)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := Save(path, DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := Watch(ctx, path)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("gravity: [0, -1, 0]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case u := <-updates:
			if u.Err == nil && u.Config.Gravity == (Vec{0, -1, 0}) {
				done = true
			}
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}

	cancel()
	for range updates {
	}
}
