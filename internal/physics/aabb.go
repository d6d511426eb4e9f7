package physics

import "github.com/go-gl/mathgl/mgl64"

// AABB is an axis-aligned bounding box used by the broad phase.
type AABB struct {
	Min, Max mgl64.Vec3
}

// Overlaps reports whether the two boxes intersect. Touching faces count as
// overlapping so resting contacts reach the narrow phase.
func (a AABB) Overlaps(b AABB) bool {
	for i := 0; i < 3; i++ {
		if a.Max[i] < b.Min[i] || b.Max[i] < a.Min[i] {
			return false
		}
	}
	return true
}

// Below reports whether any part of the box lies on the negative side of p.
func (a AABB) Below(p Plane) bool {
	// support point of the box in the direction of -normal
	var v mgl64.Vec3
	for i := 0; i < 3; i++ {
		if p.Normal[i] >= 0 {
			v[i] = a.Min[i]
		} else {
			v[i] = a.Max[i]
		}
	}
	return p.Distance(v) <= 0
}
