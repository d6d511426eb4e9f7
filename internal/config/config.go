package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidscene/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGravityY     = -9.8
	DefaultSphereRadius = 0.5
	DefaultSphereMass   = 1.0
	DefaultCubeHalf     = 0.5
	DefaultCubeMass     = 2.0
	DefaultRestitution  = 0.5
	DefaultFriction     = 0.5
	DefaultMaxSubStep   = 1.0 / 120
	DefaultMaxFrameTime = 0.25
	DefaultFPS          = 60
	DefaultDuration     = 10.0
	DefaultMoveSpeed    = 4.0
	DefaultTurnSpeed    = 90.0
)

// Vec is a yaml-friendly 3-vector written as [x, y, z].
type Vec [3]float64

func (v Vec) V() mgl64.Vec3 { return mgl64.Vec3(v) }

func (v Vec) finite() bool { return dynamo.VecIsFinite(mgl64.Vec3(v)) }

type Config struct {
	Name         string       `yaml:"name,omitempty"`
	Gravity      Vec          `yaml:"gravity"`
	Sphere       BodyConfig   `yaml:"sphere"`
	Cube         BodyConfig   `yaml:"cube"`
	Ground       GroundConfig `yaml:"ground"`
	Solver       SolverConfig `yaml:"solver"`
	Loop         LoopConfig   `yaml:"loop"`
	Camera       CameraConfig `yaml:"camera"`
	ForceImpulse Vec          `yaml:"force_impulse"`
	// Duration is the simulated time of a headless run, in seconds.
	Duration float64 `yaml:"duration"`
}

// BodyConfig describes one body. Radius is used by the sphere, HalfExtents
// by the cube. Mass 0 makes the body static.
type BodyConfig struct {
	Radius         float64 `yaml:"radius,omitempty"`
	HalfExtents    Vec     `yaml:"half_extents,omitempty"`
	Mass           float64 `yaml:"mass"`
	Position       Vec     `yaml:"position"`
	Velocity       Vec     `yaml:"velocity,omitempty"`
	Restitution    float64 `yaml:"restitution"`
	Friction       float64 `yaml:"friction"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
}

type GroundConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Height      float64 `yaml:"height"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
}

type SolverConfig struct {
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`
	RestingSpeed       float64 `yaml:"resting_speed"`
	Slop               float64 `yaml:"slop"`
}

// LoopConfig bounds how a frame's elapsed time is turned into world steps.
type LoopConfig struct {
	MaxSubStep   float64 `yaml:"max_sub_step"`
	MaxFrameTime float64 `yaml:"max_frame_time"`
	FPS          int     `yaml:"fps"`
}

type CameraConfig struct {
	Position       Vec     `yaml:"position"`
	Yaw            float64 `yaml:"yaw"`
	Pitch          float64 `yaml:"pitch"`
	FollowDistance float64 `yaml:"follow_distance"`
	Tracking       bool    `yaml:"tracking"`
	// MoveSpeed (units/s) and TurnSpeed (deg/s) scale held-key input.
	MoveSpeed float64 `yaml:"move_speed"`
	TurnSpeed float64 `yaml:"turn_speed"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:    "default",
		Gravity: Vec{0, DefaultGravityY, 0},
		Sphere: BodyConfig{
			Radius:         DefaultSphereRadius,
			Mass:           DefaultSphereMass,
			Position:       Vec{0.25, 5, 0},
			Restitution:    DefaultRestitution,
			Friction:       DefaultFriction,
			LinearDamping:  0.01,
			AngularDamping: 0.1,
		},
		Cube: BodyConfig{
			HalfExtents:    Vec{DefaultCubeHalf, DefaultCubeHalf, DefaultCubeHalf},
			Mass:           DefaultCubeMass,
			Position:       Vec{0, DefaultCubeHalf, 0},
			Restitution:    DefaultRestitution,
			Friction:       DefaultFriction,
			LinearDamping:  0.01,
			AngularDamping: 0.1,
		},
		Ground: GroundConfig{
			Enabled:     true,
			Restitution: 1,
			Friction:    1,
		},
		Solver: SolverConfig{
			VelocityIterations: 8,
			PositionIterations: 32,
			RestingSpeed:       0.5,
			Slop:               1e-6,
		},
		Loop: LoopConfig{
			MaxSubStep:   DefaultMaxSubStep,
			MaxFrameTime: DefaultMaxFrameTime,
			FPS:          DefaultFPS,
		},
		Camera: CameraConfig{
			Position:       Vec{0, 3, 10},
			Pitch:          -15,
			FollowDistance: 8,
			MoveSpeed:      DefaultMoveSpeed,
			TurnSpeed:      DefaultTurnSpeed,
		},
		ForceImpulse: Vec{0, 5, 0},
		Duration:     DefaultDuration,
	}
}

// Clone returns a deep copy; Config holds no reference types.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes yaml over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every out-of-range field, joined.
func (c *Config) Validate() error {
	var errs []error
	bad := func(field string, format string, args ...any) {
		errs = append(errs, fmt.Errorf("config: %s %s: %w", field, fmt.Sprintf(format, args...), dynamo.ErrParameterBounds))
	}

	if !c.Gravity.finite() {
		bad("gravity", "must be finite")
	}
	if !c.ForceImpulse.finite() {
		bad("force_impulse", "must be finite")
	}
	if !(c.Sphere.Radius > 0) || !dynamo.IsFinite(c.Sphere.Radius) {
		bad("sphere.radius", "must be positive, got %g", c.Sphere.Radius)
	}
	h := c.Cube.HalfExtents
	if !h.finite() || !(h[0] > 0 && h[1] > 0 && h[2] > 0) {
		bad("cube.half_extents", "must be positive, got %v", h)
	}
	for _, nb := range []struct {
		name string
		b    BodyConfig
	}{{"sphere", c.Sphere}, {"cube", c.Cube}} {
		name, b := nb.name, nb.b
		if !nonNegative(b.Mass) {
			bad(name+".mass", "must be >= 0, got %g", b.Mass)
		}
		if !b.Position.finite() || !b.Velocity.finite() {
			bad(name+".position", "must be finite")
		}
		if !unit(b.Restitution) {
			bad(name+".restitution", "must be in [0,1], got %g", b.Restitution)
		}
		if !nonNegative(b.Friction) {
			bad(name+".friction", "must be >= 0, got %g", b.Friction)
		}
		if !nonNegative(b.LinearDamping) || !nonNegative(b.AngularDamping) {
			bad(name+".damping", "must be >= 0")
		}
	}
	if !dynamo.IsFinite(c.Ground.Height) {
		bad("ground.height", "must be finite")
	}
	if !unit(c.Ground.Restitution) {
		bad("ground.restitution", "must be in [0,1], got %g", c.Ground.Restitution)
	}
	if !nonNegative(c.Ground.Friction) {
		bad("ground.friction", "must be >= 0, got %g", c.Ground.Friction)
	}
	if c.Solver.VelocityIterations < 1 || c.Solver.PositionIterations < 1 {
		bad("solver.iterations", "must be >= 1")
	}
	if !nonNegative(c.Solver.RestingSpeed) || !nonNegative(c.Solver.Slop) {
		bad("solver", "resting_speed and slop must be >= 0")
	}
	if !(c.Loop.MaxSubStep > 0) || !dynamo.IsFinite(c.Loop.MaxSubStep) {
		bad("loop.max_sub_step", "must be positive, got %g", c.Loop.MaxSubStep)
	}
	if !(c.Loop.MaxFrameTime >= c.Loop.MaxSubStep) || !dynamo.IsFinite(c.Loop.MaxFrameTime) {
		bad("loop.max_frame_time", "must be >= max_sub_step, got %g", c.Loop.MaxFrameTime)
	}
	if c.Loop.FPS <= 0 {
		bad("loop.fps", "must be positive, got %d", c.Loop.FPS)
	}
	if !c.Camera.Position.finite() {
		bad("camera.position", "must be finite")
	}
	if !dynamo.IsFinite(c.Camera.Yaw) || !dynamo.IsFinite(c.Camera.Pitch) {
		bad("camera", "yaw and pitch must be finite")
	}
	if !nonNegative(c.Camera.FollowDistance) {
		bad("camera.follow_distance", "must be >= 0")
	}
	if !nonNegative(c.Camera.MoveSpeed) || !nonNegative(c.Camera.TurnSpeed) {
		bad("camera", "move_speed and turn_speed must be >= 0")
	}
	if !nonNegative(c.Duration) {
		bad("duration", "must be >= 0, got %g", c.Duration)
	}
	return errors.Join(errs...)
}

// nonNegative is false for NaN.
func nonNegative(v float64) bool { return v >= 0 && dynamo.IsFinite(v) }

func unit(v float64) bool { return v >= 0 && v <= 1 }
