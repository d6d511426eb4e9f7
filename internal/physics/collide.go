package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane is the set of points p with Normal·p = Offset. Normal must be unit
// length; the solid side is below the plane.
type Plane struct {
	Normal mgl64.Vec3
	Offset float64
}

// Distance returns the signed distance of p above the plane.
func (p Plane) Distance(v mgl64.Vec3) float64 {
	return p.Normal.Dot(v) - p.Offset
}

// Contact is one overlapping pair found by the narrow phase. Normal points
// from A towards B. B is nil for a contact with the ground plane.
type Contact struct {
	A, B   *RigidBody
	Normal mgl64.Vec3
	Depth  float64
	Point  mgl64.Vec3

	restitution float64
	friction    float64
	target      float64 // desired separating normal velocity
	normalImp   float64 // accumulated normal impulse
	tangentImp  mgl64.Vec3
}

// Ground reports whether the contact is with the ground plane.
func (c *Contact) Ground() bool { return c.B == nil }

// collide runs the narrow phase for a body pair. ok is false when the
// shapes do not overlap or the pair is not modelled (box-box).
func collide(a, b *RigidBody) (c Contact, ok bool) {
	switch {
	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeSphere:
		c, ok = sphereSphere(a, b)
	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeBox:
		c, ok = sphereBox(a, b)
	case a.Shape.Kind == ShapeBox && b.Shape.Kind == ShapeSphere:
		c, ok = sphereBox(b, a)
		c.Normal = c.Normal.Mul(-1)
	default:
		return Contact{}, false
	}
	c.A, c.B = a, b
	return c, ok
}

func sphereSphere(a, b *RigidBody) (Contact, bool) {
	d := b.Position.Sub(a.Position)
	dist := d.Len()
	r := a.Shape.Radius + b.Shape.Radius
	if dist >= r {
		return Contact{}, false
	}
	n := mgl64.Vec3{0, 1, 0}
	if dist > 1e-12 {
		n = d.Mul(1 / dist)
	}
	return Contact{
		Normal: n,
		Depth:  r - dist,
		Point:  a.Position.Add(n.Mul(a.Shape.Radius)),
	}, true
}

// sphereBox tests sphere s against box bx. The returned normal points from
// the sphere towards the box.
func sphereBox(s, bx *RigidBody) (Contact, bool) {
	inv := bx.Orientation.Inverse()
	local := inv.Rotate(s.Position.Sub(bx.Position))
	h := bx.Shape.HalfExtents
	r := s.Shape.Radius

	closest := local
	inside := true
	for i := 0; i < 3; i++ {
		if closest[i] > h[i] {
			closest[i] = h[i]
			inside = false
		} else if closest[i] < -h[i] {
			closest[i] = -h[i]
			inside = false
		}
	}

	var localNormal mgl64.Vec3 // box -> sphere
	var depth float64
	if inside {
		// centre inside the box: push out through the nearest face
		axis, best := 0, math.Inf(1)
		for i := 0; i < 3; i++ {
			if d := h[i] - math.Abs(local[i]); d < best {
				axis, best = i, d
			}
		}
		sign := 1.0
		if local[axis] < 0 {
			sign = -1
		}
		localNormal[axis] = sign
		closest[axis] = sign * h[axis]
		depth = r + best
	} else {
		diff := local.Sub(closest)
		dist := diff.Len()
		if dist >= r {
			return Contact{}, false
		}
		localNormal = diff.Mul(1 / dist)
		depth = r - dist
	}

	n := bx.Orientation.Rotate(localNormal)
	return Contact{
		Normal: n.Mul(-1),
		Depth:  depth,
		Point:  bx.Position.Add(bx.Orientation.Rotate(closest)),
	}, true
}

// collidePlane tests a body against the ground plane. The contact normal
// points from the body into the plane.
func collidePlane(b *RigidBody, p Plane) (Contact, bool) {
	var c Contact
	switch b.Shape.Kind {
	case ShapeSphere:
		d := p.Distance(b.Position) - b.Shape.Radius
		if d >= 0 {
			return c, false
		}
		c.Depth = -d
		c.Point = b.Position.Sub(p.Normal.Mul(b.Shape.Radius))
	case ShapeBox:
		lowest := math.Inf(1)
		for _, v := range b.Shape.corners(b.Position, b.Orientation) {
			if d := p.Distance(v); d < lowest {
				lowest = d
				c.Point = v
			}
		}
		if lowest >= 0 {
			return c, false
		}
		c.Depth = -lowest
	default:
		return c, false
	}
	c.A = b
	c.Normal = p.Normal.Mul(-1)
	return c, true
}

// SignedDistance returns the surface-to-surface distance between two
// bodies, negative when they overlap. Box-box pairs are not modelled and
// report +Inf.
func SignedDistance(a, b *RigidBody) float64 {
	switch {
	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeSphere:
		return b.Position.Sub(a.Position).Len() - a.Shape.Radius - b.Shape.Radius
	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeBox:
		return sphereBoxDistance(a, b)
	case a.Shape.Kind == ShapeBox && b.Shape.Kind == ShapeSphere:
		return sphereBoxDistance(b, a)
	}
	return math.Inf(1)
}

func sphereBoxDistance(s, bx *RigidBody) float64 {
	local := bx.Orientation.Inverse().Rotate(s.Position.Sub(bx.Position))
	h := bx.Shape.HalfExtents
	var outside mgl64.Vec3
	inside := math.Inf(-1)
	for i := 0; i < 3; i++ {
		d := math.Abs(local[i]) - h[i]
		outside[i] = math.Max(d, 0)
		inside = math.Max(inside, d)
	}
	return outside.Len() + math.Min(inside, 0) - s.Shape.Radius
}
