package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCollide_SphereSphere(t *testing.T) {
	a := NewRigidBody(Sphere(1), 1, mgl64.Vec3{})
	b := NewRigidBody(Sphere(0.5), 1, mgl64.Vec3{1.2, 0, 0})

	c, ok := collide(a, b)
	if !ok {
		t.Fatal("expected contact")
	}
	if !near(c.Normal, mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("normal = %v, want +X", c.Normal)
	}
	if math.Abs(c.Depth-0.3) > 1e-12 {
		t.Errorf("depth = %v, want 0.3", c.Depth)
	}

	b.Position = mgl64.Vec3{1.6, 0, 0}
	if _, ok := collide(a, b); ok {
		t.Error("separated spheres reported a contact")
	}
}

func TestCollide_SphereBox(t *testing.T) {
	box := NewRigidBody(Box(mgl64.Vec3{1, 1, 1}), 1, mgl64.Vec3{})

	tests := []struct {
		name      string
		pos       mgl64.Vec3
		hit       bool
		depth     float64
		boxToBall mgl64.Vec3
	}{
		{"above face", mgl64.Vec3{0, 1.4, 0}, true, 0.1, mgl64.Vec3{0, 1, 0}},
		{"beside face", mgl64.Vec3{-1.25, 0.2, 0}, true, 0.25, mgl64.Vec3{-1, 0, 0}},
		{"centre inside", mgl64.Vec3{0, 0, 0.8}, true, 0.7, mgl64.Vec3{0, 0, 1}},
		{"near edge miss", mgl64.Vec3{1.4, 1.4, 0}, false, 0, mgl64.Vec3{}},
		{"far away", mgl64.Vec3{5, 0, 0}, false, 0, mgl64.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ball := NewRigidBody(Sphere(0.5), 1, tt.pos)

			c, ok := collide(box, ball)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if !ok {
				return
			}
			if math.Abs(c.Depth-tt.depth) > 1e-9 {
				t.Errorf("depth = %v, want %v", c.Depth, tt.depth)
			}
			if !near(c.Normal, tt.boxToBall, 1e-9) {
				t.Errorf("normal = %v, want %v", c.Normal, tt.boxToBall)
			}

			// reversed order flips the normal
			r, _ := collide(ball, box)
			if !near(r.Normal, tt.boxToBall.Mul(-1), 1e-9) {
				t.Errorf("reversed normal = %v", r.Normal)
			}
		})
	}
}

func TestCollide_SphereRotatedBox(t *testing.T) {
	box := NewRigidBody(Box(mgl64.Vec3{1, 1, 1}), 0, mgl64.Vec3{})
	box.Orientation = mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1})

	// the rotated box reaches sqrt(2) along +Y
	ball := NewRigidBody(Sphere(0.5), 1, mgl64.Vec3{0, 1.8, 0})
	c, ok := collide(box, ball)
	if !ok {
		t.Fatal("expected contact with rotated corner")
	}
	wantDepth := 0.5 - (1.8 - math.Sqrt2)
	if math.Abs(c.Depth-wantDepth) > 1e-9 {
		t.Errorf("depth = %v, want %v", c.Depth, wantDepth)
	}
	if !near(c.Normal, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("normal = %v, want +Y", c.Normal)
	}
}

func TestCollide_BoxBoxNotModelled(t *testing.T) {
	a := NewRigidBody(Box(mgl64.Vec3{1, 1, 1}), 1, mgl64.Vec3{})
	b := NewRigidBody(Box(mgl64.Vec3{1, 1, 1}), 1, mgl64.Vec3{0.5, 0, 0})
	if _, ok := collide(a, b); ok {
		t.Error("box-box reported a contact")
	}
	if d := SignedDistance(a, b); !math.IsInf(d, 1) {
		t.Errorf("SignedDistance(box, box) = %v, want +Inf", d)
	}
}

func TestCollidePlane(t *testing.T) {
	ground := Plane{Normal: mgl64.Vec3{0, 1, 0}}

	ball := NewRigidBody(Sphere(0.5), 1, mgl64.Vec3{0, 0.4, 0})
	c, ok := collidePlane(ball, ground)
	if !ok || math.Abs(c.Depth-0.1) > 1e-12 {
		t.Errorf("sphere: ok=%v depth=%v, want 0.1", ok, c.Depth)
	}
	if !c.Ground() || c.Normal != (mgl64.Vec3{0, -1, 0}) {
		t.Errorf("sphere: ground=%v normal=%v", c.Ground(), c.Normal)
	}

	box := NewRigidBody(Box(mgl64.Vec3{0.5, 0.5, 0.5}), 1, mgl64.Vec3{0, 0.6, 0})
	if _, ok := collidePlane(box, ground); ok {
		t.Error("resting box above ground reported contact")
	}

	// tilted 45 degrees, the lowest edge drops to 0.6 - sqrt(0.5)
	box.Orientation = mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1})
	c, ok = collidePlane(box, ground)
	if !ok {
		t.Fatal("tilted box should touch ground")
	}
	want := math.Sqrt(0.5) - 0.6
	if math.Abs(c.Depth-want) > 1e-9 {
		t.Errorf("box depth = %v, want %v", c.Depth, want)
	}
}

func TestSignedDistance(t *testing.T) {
	box := NewRigidBody(Box(mgl64.Vec3{1, 1, 1}), 0, mgl64.Vec3{})
	tests := []struct {
		name string
		pos  mgl64.Vec3
		want float64
	}{
		{"outside face", mgl64.Vec3{0, 3, 0}, 1.5},
		{"outside corner", mgl64.Vec3{2, 2, 1}, math.Sqrt2 - 0.5},
		{"touching", mgl64.Vec3{1.5, 0, 0}, 0},
		{"inside", mgl64.Vec3{0, 0.5, 0}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ball := NewRigidBody(Sphere(0.5), 1, tt.pos)
			if got := SignedDistance(ball, box); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SignedDistance() = %v, want %v", got, tt.want)
			}
			if got := SignedDistance(box, ball); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SignedDistance() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABB(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	b := AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}
	c := AABB{Min: mgl64.Vec3{1.1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}

	if !a.Overlaps(b) {
		t.Error("touching boxes should overlap")
	}
	if a.Overlaps(c) {
		t.Error("separated boxes should not overlap")
	}

	ground := Plane{Normal: mgl64.Vec3{0, 1, 0}, Offset: 0.5}
	if !a.Below(ground) {
		t.Error("box straddling plane should be below")
	}
	if (AABB{Min: mgl64.Vec3{0, 1, 0}, Max: mgl64.Vec3{1, 2, 1}}).Below(ground) {
		t.Error("box above plane should not be below")
	}
}

func TestShape_Bounds(t *testing.T) {
	s := Box(mgl64.Vec3{1, 0.5, 0.25})
	bb := s.Bounds(mgl64.Vec3{}, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))
	want := mgl64.Vec3{0.5, 1, 0.25}
	if !near(bb.Max, want, 1e-9) || !near(bb.Min, want.Mul(-1), 1e-9) {
		t.Errorf("rotated bounds = %v..%v, want ±%v", bb.Min, bb.Max, want)
	}
}

func TestShape_Inertia(t *testing.T) {
	if got := Sphere(1).Inertia(5); math.Abs(got[0]-2) > 1e-12 {
		t.Errorf("sphere inertia = %v, want 2", got[0])
	}
	// unit cube of side 2: I = m/12 * (4 + 4)
	if got := Box(mgl64.Vec3{1, 1, 1}).Inertia(3); math.Abs(got[1]-2) > 1e-12 {
		t.Errorf("box inertia = %v, want 2", got[1])
	}
	if got := Box(mgl64.Vec3{1, 1, 1}).Volume(); got != 8 {
		t.Errorf("box volume = %v, want 8", got)
	}
}

// near compares with an absolute tolerance.
func near(a, b mgl64.Vec3, tol float64) bool { return a.Sub(b).Len() <= tol }
