package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind identifies a collision primitive.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	default:
		return fmt.Sprintf("shape(%d)", int(k))
	}
}

// Shape is the collision geometry of a body, fixed at creation.
type Shape struct {
	Kind        ShapeKind
	Radius      float64    // sphere only
	HalfExtents mgl64.Vec3 // box only
}

func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

func Box(halfExtents mgl64.Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents}
}

func (s Shape) valid() bool {
	switch s.Kind {
	case ShapeSphere:
		return s.Radius > 0 && !math.IsInf(s.Radius, 0)
	case ShapeBox:
		for _, h := range s.HalfExtents {
			if !(h > 0) || math.IsInf(h, 0) {
				return false
			}
		}
		return true
	}
	return false
}

// Volume returns the enclosed volume in m^3.
func (s Shape) Volume() float64 {
	switch s.Kind {
	case ShapeSphere:
		return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
	case ShapeBox:
		h := s.HalfExtents
		return 8 * h.X() * h.Y() * h.Z()
	}
	return 0
}

// Inertia returns the diagonal of the local inertia tensor for the given
// mass. Both primitives are symmetric, so the off-diagonal terms are zero.
func (s Shape) Inertia(mass float64) mgl64.Vec3 {
	switch s.Kind {
	case ShapeSphere:
		i := 0.4 * mass * s.Radius * s.Radius
		return mgl64.Vec3{i, i, i}
	case ShapeBox:
		h := s.HalfExtents
		x2, y2, z2 := h.X()*h.X(), h.Y()*h.Y(), h.Z()*h.Z()
		return mgl64.Vec3{mass / 3 * (y2 + z2), mass / 3 * (x2 + z2), mass / 3 * (x2 + y2)}
	}
	return mgl64.Vec3{}
}

// Bounds returns the world-space AABB of the shape placed at pos with
// orientation q.
func (s Shape) Bounds(pos mgl64.Vec3, q mgl64.Quat) AABB {
	var ext mgl64.Vec3
	switch s.Kind {
	case ShapeSphere:
		ext = mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	case ShapeBox:
		r := q.Mat4().Mat3()
		h := s.HalfExtents
		for i := 0; i < 3; i++ {
			ext[i] = math.Abs(r.At(i, 0))*h[0] + math.Abs(r.At(i, 1))*h[1] + math.Abs(r.At(i, 2))*h[2]
		}
	}
	return AABB{Min: pos.Sub(ext), Max: pos.Add(ext)}
}

// corners returns the eight world-space vertices of a box shape.
func (s Shape) corners(pos mgl64.Vec3, q mgl64.Quat) [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	h := s.HalfExtents
	for i := 0; i < 8; i++ {
		local := mgl64.Vec3{h[0], h[1], h[2]}
		if i&1 != 0 {
			local[0] = -local[0]
		}
		if i&2 != 0 {
			local[1] = -local[1]
		}
		if i&4 != 0 {
			local[2] = -local[2]
		}
		out[i] = pos.Add(q.Rotate(local))
	}
	return out
}
