// Package scene wires the dynamics world, the two scene bodies and the
// camera into the per-frame surface a render loop drives.
package scene

import (
	"fmt"
	"io"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidscene/internal/camera"
	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/dynamo"
	"github.com/san-kum/rigidscene/internal/physics"
)

// Controller owns one world with a sphere, a cube and optional ground, plus
// the camera rig. Transforms are served from the snapshot committed at the
// end of the last Update, so a frame never sees a half-stepped world.
//
// Controller is not safe for concurrent use.
type Controller struct {
	cfg    *config.Config
	logger *log.Logger

	world        *physics.World
	sphere, cube *physics.RigidBody
	rig          *camera.Rig
	mode         Mode

	frame     uint64
	committed dynamo.Snapshot
	observers []dynamo.Observer
}

// New builds the scene described by cfg. A nil cfg uses the defaults; a nil
// logger discards diagnostics.
func New(cfg *config.Config, logger *log.Logger) (*Controller, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	c := &Controller{logger: logger, mode: DefaultMode}
	if err := c.build(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) build(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.Clone()

	w := physics.NewWorld(cfg.Gravity.V())
	w.VelocityIterations = cfg.Solver.VelocityIterations
	w.PositionIterations = cfg.Solver.PositionIterations
	w.RestingSpeed = cfg.Solver.RestingSpeed
	w.Slop = cfg.Solver.Slop
	if cfg.Ground.Enabled {
		w.Ground = &physics.Plane{Normal: mgl64.Vec3{0, 1, 0}, Offset: cfg.Ground.Height}
		w.GroundRestitution = cfg.Ground.Restitution
		w.GroundFriction = cfg.Ground.Friction
	}

	sphere := newBody(physics.Sphere(cfg.Sphere.Radius), cfg.Sphere)
	cube := newBody(physics.Box(cfg.Cube.HalfExtents.V()), cfg.Cube)
	if _, err := w.AddBody(sphere); err != nil {
		return fmt.Errorf("scene: sphere: %w", err)
	}
	if _, err := w.AddBody(cube); err != nil {
		return fmt.Errorf("scene: cube: %w", err)
	}

	rig := camera.New(cfg.Camera.Position.V(), cfg.Camera.Yaw, cfg.Camera.Pitch)
	rig.FollowDistance = cfg.Camera.FollowDistance
	rig.Tracking = cfg.Camera.Tracking

	c.cfg = cfg
	c.world = w
	c.sphere = sphere
	c.cube = cube
	c.rig = rig
	c.frame = 0
	c.commit()
	return nil
}

func newBody(shape physics.Shape, bc config.BodyConfig) *physics.RigidBody {
	b := physics.NewRigidBody(shape, bc.Mass, bc.Position.V())
	b.Restitution = bc.Restitution
	b.Friction = bc.Friction
	b.LinearDamping = bc.LinearDamping
	b.AngularDamping = bc.AngularDamping
	if bc.Mass > 0 {
		b.LinearVelocity = bc.Velocity.V()
	}
	return b
}

// Update advances the simulation by elapsed seconds of wall time and
// commits the resulting frame. elapsed is clamped to the configured
// maximum frame time and split into equal sub-steps no longer than the
// maximum sub-step. Non-positive or non-finite elapsed time is ignored.
func (c *Controller) Update(elapsed float64) {
	if !(elapsed > 0) || math.IsInf(elapsed, 0) {
		if elapsed != 0 {
			c.logger.Printf("[scene] ignoring frame time %v", elapsed)
		}
		return
	}
	if elapsed > c.cfg.Loop.MaxFrameTime {
		elapsed = c.cfg.Loop.MaxFrameTime
	}

	n := int(math.Ceil(elapsed / c.cfg.Loop.MaxSubStep))
	dt := elapsed / float64(n)
	penetration := 0.0
	for i := 0; i < n; i++ {
		c.world.Step(dt)
		penetration = math.Max(penetration, c.world.MaxPenetration())
	}

	c.frame++
	c.commit()
	c.committed.Penetration = penetration
	for _, o := range c.observers {
		o.OnFrame(c.committed)
	}
}

func (c *Controller) commit() {
	sphere := c.sphere.Transform()
	c.committed = dynamo.Snapshot{
		Time:        c.world.SimulatedTime(),
		Frame:       c.frame,
		Sphere:      sphere,
		Cube:        c.cube.Transform(),
		Camera:      c.rig.Transform(&sphere.Position),
		Contacts:    len(c.world.Contacts()),
		Penetration: c.world.MaxPenetration(),
		Energy:      c.world.Energy(),
		SphereSpeed: c.sphere.LinearVelocity.Len(),
		CubeSpeed:   c.cube.LinearVelocity.Len(),
	}
}

// commitCamera refreshes only the camera part of the committed frame.
func (c *Controller) commitCamera() {
	c.committed.Camera = c.rig.Transform(&c.committed.Sphere.Position)
}

// ApplyForce gives the sphere the configured impulse. Calls stack; a
// static sphere is unaffected. The change shows after the next Update.
func (c *Controller) ApplyForce() {
	c.sphere.ApplyImpulse(c.cfg.ForceImpulse.V())
}

// ApplyImpulse applies j to the body with handle h.
func (c *Controller) ApplyImpulse(h physics.BodyHandle, j mgl64.Vec3) error {
	if !dynamo.VecIsFinite(j) {
		return &dynamo.InputError{Op: "ApplyImpulse", Field: "impulse", Value: firstNonFinite(j)}
	}
	b, err := c.world.Body(h)
	if err != nil {
		return err
	}
	b.ApplyImpulse(j)
	return nil
}

// UpdateCamera feeds one frame of camera input: x and y are yaw and pitch
// deltas in degrees, z moves the camera along its forward vector.
// Non-finite components are treated as zero.
func (c *Controller) UpdateCamera(x, y, z float64) {
	x, y, z = c.sanitize("UpdateCamera", "x", x), c.sanitize("UpdateCamera", "y", y), c.sanitize("UpdateCamera", "z", z)
	if x == 0 && y == 0 && z == 0 {
		return
	}
	c.rig.Rotate(x, y)
	c.rig.Translate(0, z)
	c.commitCamera()
}

func (c *Controller) RotateCamera(xDelta, zDelta float64) {
	c.rig.Rotate(c.sanitize("RotateCamera", "x", xDelta), c.sanitize("RotateCamera", "z", zDelta))
	c.commitCamera()
}

func (c *Controller) TranslateCamera(xDelta, zDelta float64) {
	c.rig.Translate(c.sanitize("TranslateCamera", "x", xDelta), c.sanitize("TranslateCamera", "z", zDelta))
	c.commitCamera()
}

func (c *Controller) ResetCamera() {
	c.rig.Reset()
	c.commitCamera()
}

// SetTracking makes the camera follow the sphere.
func (c *Controller) SetTracking(on bool) {
	c.rig.Tracking = on
	c.commitCamera()
}

func (c *Controller) Tracking() bool { return c.rig.Tracking }

func (c *Controller) sanitize(op, field string, v float64) float64 {
	if dynamo.IsFinite(v) {
		return v
	}
	c.logger.Printf("[scene] %v", &dynamo.InputError{Op: op, Field: field, Value: v})
	return 0
}

// Reset rebuilds the scene from its configuration. Render mode and
// observers are kept.
func (c *Controller) Reset() {
	if err := c.build(c.cfg); err != nil {
		c.logger.Printf("[scene] reset failed: %v", err)
	}
}

// Reconfigure replaces the configuration and rebuilds the scene. On error
// the current scene is left untouched.
func (c *Controller) Reconfigure(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("scene: nil config: %w", dynamo.ErrInvalidInput)
	}
	if err := c.build(cfg); err != nil {
		c.logger.Printf("[scene] reconfigure rejected: %v", err)
		return err
	}
	return nil
}

func (c *Controller) SphereTransform() dynamo.Transform { return c.committed.Sphere }
func (c *Controller) CubeTransform() dynamo.Transform   { return c.committed.Cube }
func (c *Controller) CameraTransform() dynamo.Transform { return c.committed.Camera }
func (c *Controller) Snapshot() dynamo.Snapshot         { return c.committed }

// View returns the camera view matrix for the committed frame.
func (c *Controller) View() mgl64.Mat4 {
	return c.rig.View(&c.committed.Sphere.Position)
}

func (c *Controller) Mode() Mode         { return c.mode }
func (c *Controller) SetMode(m Mode)     { c.mode = m }
func (c *Controller) Toggle(f Mode) Mode { c.mode = c.mode.Toggle(f); return c.mode }

// Observe registers o to receive every committed frame.
func (c *Controller) Observe(o dynamo.Observer) {
	c.observers = append(c.observers, o)
}

func (c *Controller) Config() *config.Config { return c.cfg.Clone() }

// World exposes the underlying world. Mutating it between frames is
// allowed; the changes become visible at the next commit.
func (c *Controller) World() *physics.World { return c.world }

func (c *Controller) SphereHandle() physics.BodyHandle { return c.sphere.Handle() }
func (c *Controller) CubeHandle() physics.BodyHandle   { return c.cube.Handle() }

func firstNonFinite(v mgl64.Vec3) float64 {
	for _, x := range v {
		if !dynamo.IsFinite(x) {
			return x
		}
	}
	return 0
}
