package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a position + orientation pair, enough to build a model or
// view matrix.
type Transform struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// IdentityTransform returns a transform at the origin with no rotation.
func IdentityTransform() Transform {
	return Transform{Orientation: mgl64.QuatIdent()}
}

// Mat4 returns the model matrix translate(Position) * rotate(Orientation).
func (t Transform) Mat4() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).Mul4(t.Orientation.Mat4())
}

// AxisAngle returns the orientation as a unit axis and an angle in degrees.
// The identity rotation yields the Y axis and zero.
func (t Transform) AxisAngle() (mgl64.Vec3, float64) {
	q := t.Orientation.Normalize()
	w := mgl64.Clamp(q.W, -1, 1)
	angle := 2 * math.Acos(w)
	s := math.Sqrt(1 - w*w)
	if s < 1e-9 {
		return mgl64.Vec3{0, 1, 0}, 0
	}
	return q.V.Mul(1 / s), mgl64.RadToDeg(angle)
}

// IsValid reports whether every component is finite.
func (t Transform) IsValid() bool {
	return VecIsFinite(t.Position) && IsFinite(t.Orientation.W) && VecIsFinite(t.Orientation.V)
}

// Snapshot is one committed frame of the scene.
type Snapshot struct {
	Time     float64
	Frame    uint64
	Sphere   Transform
	Cube     Transform
	Camera   Transform
	Contacts int
	// Penetration is the deepest overlap measured before resolution during
	// the last step.
	Penetration float64
	// Energy is the total mechanical energy of dynamic bodies.
	Energy float64
	// SphereSpeed and CubeSpeed are linear speeds in m/s.
	SphereSpeed float64
	CubeSpeed   float64
}

// Observer receives every committed frame.
type Observer interface {
	OnFrame(s Snapshot)
}

// Metric reduces observed frames to a single value.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// VecIsFinite reports whether every component of v is finite.
func VecIsFinite(v mgl64.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}
