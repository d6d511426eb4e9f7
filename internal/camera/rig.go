// Package camera implements the free camera of the scene: yaw/pitch
// rotation, camera-relative translation and optional tracking of a body.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidscene/internal/dynamo"
)

const (
	// MaxPitch keeps the view away from the poles, in degrees.
	MaxPitch              = 89.0
	DefaultYaw            = 0.0
	DefaultPitch          = -15.0
	DefaultFollowDistance = 8.0
)

var (
	DefaultPosition = mgl64.Vec3{0, 3, 10}
	worldUp         = mgl64.Vec3{0, 1, 0}
)

// Rig holds the camera state. Angles are in degrees; yaw 0 looks down -Z.
type Rig struct {
	position   mgl64.Vec3
	yaw, pitch float64

	homePosition       mgl64.Vec3
	homeYaw, homePitch float64

	// Tracking places the camera FollowDistance behind the tracked target
	// along the current forward vector instead of at its stored position.
	Tracking       bool
	FollowDistance float64
}

// New returns a rig whose Reset state is the given pose.
func New(position mgl64.Vec3, yaw, pitch float64) *Rig {
	pitch = mgl64.Clamp(pitch, -MaxPitch, MaxPitch)
	return &Rig{
		position:       position,
		yaw:            yaw,
		pitch:          pitch,
		homePosition:   position,
		homeYaw:        yaw,
		homePitch:      pitch,
		FollowDistance: DefaultFollowDistance,
	}
}

func NewDefault() *Rig {
	return New(DefaultPosition, DefaultYaw, DefaultPitch)
}

func (r *Rig) Position() mgl64.Vec3 { return r.position }
func (r *Rig) Yaw() float64         { return r.yaw }
func (r *Rig) Pitch() float64       { return r.pitch }

// Rotate adds xDelta to yaw and zDelta to pitch, clamping pitch to
// ±MaxPitch. Non-finite deltas are ignored.
func (r *Rig) Rotate(xDelta, zDelta float64) {
	if dynamo.IsFinite(xDelta) {
		r.yaw = wrapDegrees(r.yaw + xDelta)
	}
	if dynamo.IsFinite(zDelta) {
		r.pitch = mgl64.Clamp(r.pitch+zDelta, -MaxPitch, MaxPitch)
	}
}

// Translate moves the camera xDelta along its right vector and zDelta
// along its forward vector. Non-finite deltas are ignored.
func (r *Rig) Translate(xDelta, zDelta float64) {
	if dynamo.IsFinite(xDelta) && xDelta != 0 {
		r.position = r.position.Add(r.Right().Mul(xDelta))
	}
	if dynamo.IsFinite(zDelta) && zDelta != 0 {
		r.position = r.position.Add(r.Forward().Mul(zDelta))
	}
}

// Reset restores the pose the rig was created with. Tracking is left as is.
func (r *Rig) Reset() {
	r.position = r.homePosition
	r.yaw = r.homeYaw
	r.pitch = r.homePitch
}

// Orientation rotates the camera's local -Z onto Forward.
func (r *Rig) Orientation() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(r.yaw), worldUp)
	pitch := mgl64.QuatRotate(mgl64.DegToRad(r.pitch), mgl64.Vec3{1, 0, 0})
	return yaw.Mul(pitch).Normalize()
}

func (r *Rig) Forward() mgl64.Vec3 {
	y, p := mgl64.DegToRad(r.yaw), mgl64.DegToRad(r.pitch)
	return mgl64.Vec3{
		-math.Sin(y) * math.Cos(p),
		math.Sin(p),
		-math.Cos(y) * math.Cos(p),
	}
}

// Right is horizontal; it does not depend on pitch.
func (r *Rig) Right() mgl64.Vec3 {
	y := mgl64.DegToRad(r.yaw)
	return mgl64.Vec3{math.Cos(y), 0, -math.Sin(y)}
}

func (r *Rig) Up() mgl64.Vec3 {
	return r.Right().Cross(r.Forward())
}

// Transform returns the camera pose. When Tracking is set and target is
// non-nil the camera sits FollowDistance behind target.
func (r *Rig) Transform(target *mgl64.Vec3) dynamo.Transform {
	pos := r.position
	if r.Tracking && target != nil {
		pos = target.Sub(r.Forward().Mul(r.FollowDistance))
	}
	return dynamo.Transform{Position: pos, Orientation: r.Orientation()}
}

// View returns the view matrix for the pose returned by Transform.
func (r *Rig) View(target *mgl64.Vec3) mgl64.Mat4 {
	eye := r.Transform(target).Position
	return mgl64.LookAtV(eye, eye.Add(r.Forward()), r.Up())
}

// wrapDegrees maps a to (-360, 360) so yaw does not grow without bound.
func wrapDegrees(a float64) float64 {
	return math.Mod(a, 360)
}
