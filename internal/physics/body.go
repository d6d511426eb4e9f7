package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidscene/internal/dynamo"
)

// BodyHandle identifies a body registered with a World. Handles are issued
// in increasing order and never reused; zero is never a valid handle.
type BodyHandle uint32

// Material defaults for new bodies.
const (
	DefaultRestitution    = 0.5
	DefaultFriction       = 0.5
	DefaultLinearDamping  = 0.01
	DefaultAngularDamping = 0.1
)

// RigidBody is the simulated state of one object.
type RigidBody struct {
	Position        mgl64.Vec3 // world-space centre of mass
	Orientation     mgl64.Quat
	LinearVelocity  mgl64.Vec3 // m/s
	AngularVelocity mgl64.Vec3 // rad/s, world space

	// Mass in kg; zero marks a static body.
	Mass  float64
	Shape Shape

	Restitution    float64 // 0 = no rebound, 1 = perfect rebound
	Friction       float64
	LinearDamping  float64 // per second, exponential
	AngularDamping float64

	force  mgl64.Vec3
	torque mgl64.Vec3
	handle BodyHandle
}

// NewRigidBody creates a body at rest with identity orientation and the
// default material.
func NewRigidBody(shape Shape, mass float64, position mgl64.Vec3) *RigidBody {
	return &RigidBody{
		Position:       position,
		Orientation:    mgl64.QuatIdent(),
		Mass:           mass,
		Shape:          shape,
		Restitution:    DefaultRestitution,
		Friction:       DefaultFriction,
		LinearDamping:  DefaultLinearDamping,
		AngularDamping: DefaultAngularDamping,
	}
}

// Handle returns the handle issued by the owning world, or zero.
func (b *RigidBody) Handle() BodyHandle { return b.handle }

func (b *RigidBody) IsStatic() bool { return b.Mass == 0 }

func (b *RigidBody) InverseMass() float64 {
	if b.IsStatic() {
		return 0
	}
	return 1 / b.Mass
}

// InverseInertiaWorld returns R * I_local^-1 * R^T.
func (b *RigidBody) InverseInertiaWorld() mgl64.Mat3 {
	if b.IsStatic() {
		return mgl64.Mat3{}
	}
	i := b.Shape.Inertia(b.Mass)
	inv := mgl64.Diag3(mgl64.Vec3{1 / i[0], 1 / i[1], 1 / i[2]})
	r := b.Orientation.Mat4().Mat3()
	return r.Mul3(inv).Mul3(r.Transpose())
}

// Transform returns the current position and orientation.
func (b *RigidBody) Transform() dynamo.Transform {
	return dynamo.Transform{Position: b.Position, Orientation: b.Orientation}
}

// Bounds returns the world-space AABB of the body.
func (b *RigidBody) Bounds() AABB {
	return b.Shape.Bounds(b.Position, b.Orientation)
}

// ApplyImpulse changes the linear velocity immediately by j/m. Static
// bodies are unaffected.
func (b *RigidBody) ApplyImpulse(j mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	b.LinearVelocity = b.LinearVelocity.Add(j.Mul(1 / b.Mass))
}

// ApplyAngularImpulse changes the angular velocity immediately.
func (b *RigidBody) ApplyAngularImpulse(j mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	b.AngularVelocity = b.AngularVelocity.Add(b.InverseInertiaWorld().Mul3x1(j))
}

// ApplyForce accumulates a force (N) for the next step.
func (b *RigidBody) ApplyForce(f mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	b.force = b.force.Add(f)
}

// ApplyTorque accumulates a torque (N·m) for the next step.
func (b *RigidBody) ApplyTorque(t mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	b.torque = b.torque.Add(t)
}

func (b *RigidBody) ClearForces() {
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

// KineticEnergy returns linear plus rotational kinetic energy in J.
func (b *RigidBody) KineticEnergy() float64 {
	if b.IsStatic() {
		return 0
	}
	v := b.LinearVelocity
	ke := 0.5 * b.Mass * v.Dot(v)
	// rotational term in the body frame, where the tensor is diagonal
	w := b.Orientation.Inverse().Rotate(b.AngularVelocity)
	i := b.Shape.Inertia(b.Mass)
	ke += 0.5 * (i[0]*w[0]*w[0] + i[1]*w[1]*w[1] + i[2]*w[2]*w[2])
	return ke
}

func (b *RigidBody) validate() error {
	if !(b.Mass >= 0) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("physics: mass %v: %w", b.Mass, dynamo.ErrParameterBounds)
	}
	if !b.Shape.valid() {
		return fmt.Errorf("physics: %s shape dimensions: %w", b.Shape.Kind, dynamo.ErrParameterBounds)
	}
	if !dynamo.VecIsFinite(b.Position) || !dynamo.VecIsFinite(b.LinearVelocity) || !dynamo.VecIsFinite(b.AngularVelocity) {
		return &dynamo.InputError{Op: "add body", Field: "state", Value: math.NaN()}
	}
	if !dynamo.IsFinite(b.Orientation.W) || !dynamo.VecIsFinite(b.Orientation.V) {
		return &dynamo.InputError{Op: "add body", Field: "orientation", Value: math.NaN()}
	}
	return nil
}

// integrate advances one dynamic body by dt under gravity g and the
// accumulated force and torque, then clears the accumulators.
func (b *RigidBody) integrate(dt float64, g mgl64.Vec3) {
	if b.IsStatic() {
		b.ClearForces()
		return
	}

	acc := g.Add(b.force.Mul(1 / b.Mass))
	b.LinearVelocity = b.LinearVelocity.Add(acc.Mul(dt))
	b.LinearVelocity = b.LinearVelocity.Mul(math.Exp(-b.LinearDamping * dt))
	b.Position = b.Position.Add(b.LinearVelocity.Mul(dt))

	alpha := b.InverseInertiaWorld().Mul3x1(b.torque)
	b.AngularVelocity = b.AngularVelocity.Add(alpha.Mul(dt))
	b.AngularVelocity = b.AngularVelocity.Mul(math.Exp(-b.AngularDamping * dt))

	spin := mgl64.Quat{W: 0, V: b.AngularVelocity}.Mul(b.Orientation).Scale(0.5 * dt)
	b.Orientation = normalizeQuat(b.Orientation.Add(spin))

	b.ClearForces()
}

// normalizeQuat renormalizes q, falling back to identity for a degenerate
// quaternion.
func normalizeQuat(q mgl64.Quat) mgl64.Quat {
	l := q.Len()
	if l < 1e-12 || !dynamo.IsFinite(l) {
		return mgl64.QuatIdent()
	}
	return q.Scale(1 / l)
}
