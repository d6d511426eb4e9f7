package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidscene/internal/dynamo"
)

// World defaults.
const (
	DefaultMaxBodies          = 64
	DefaultVelocityIterations = 8
	DefaultPositionIterations = 32
	// DefaultRestingSpeed is the approach speed (m/s) below which contacts
	// do not bounce, so resting bodies settle instead of jittering.
	DefaultRestingSpeed = 0.5
	// DefaultSlop is the penetration (m) tolerated after position solving.
	DefaultSlop = 1e-6
)

// World owns the rigid bodies and advances them in time.
type World struct {
	Gravity mgl64.Vec3
	// Ground is an optional static plane every body collides with.
	Ground *Plane
	// GroundRestitution and GroundFriction combine with body materials.
	GroundRestitution float64
	GroundFriction    float64

	MaxBodies          int
	VelocityIterations int
	PositionIterations int
	RestingSpeed       float64
	Slop               float64

	bodies        []*RigidBody // ascending handle order
	nextHandle    BodyHandle
	simulatedTime float64
	steps         uint64

	contacts       []Contact
	scratch        []Contact
	grounded       map[BodyHandle]bool
	maxPenetration float64
}

func NewWorld(gravity mgl64.Vec3) *World {
	return &World{
		Gravity:            gravity,
		GroundRestitution:  1,
		GroundFriction:     1,
		MaxBodies:          DefaultMaxBodies,
		VelocityIterations: DefaultVelocityIterations,
		PositionIterations: DefaultPositionIterations,
		RestingSpeed:       DefaultRestingSpeed,
		Slop:               DefaultSlop,
		nextHandle:         1,
		grounded:           make(map[BodyHandle]bool),
	}
}

// AddBody registers b and returns its handle.
func (w *World) AddBody(b *RigidBody) (BodyHandle, error) {
	if b == nil {
		return 0, fmt.Errorf("physics: nil body: %w", dynamo.ErrInvalidInput)
	}
	if b.handle != 0 {
		return 0, fmt.Errorf("physics: body already registered as %d: %w", b.handle, dynamo.ErrInvalidInput)
	}
	if w.MaxBodies > 0 && len(w.bodies) >= w.MaxBodies {
		return 0, &dynamo.CapacityError{Limit: w.MaxBodies}
	}
	if err := b.validate(); err != nil {
		return 0, err
	}

	b.Orientation = normalizeQuat(b.Orientation)
	b.handle = w.nextHandle
	w.nextHandle++
	w.bodies = append(w.bodies, b)
	if cap(w.contacts) < len(w.bodies)*(len(w.bodies)+1)/2 {
		n := len(w.bodies) * (len(w.bodies) + 1) / 2
		w.contacts = make([]Contact, 0, n)
		w.scratch = make([]Contact, 0, n)
	}
	return b.handle, nil
}

// RemoveBody unregisters the body. The handle, and any pointer to the body
// obtained earlier, must not be used afterwards.
func (w *World) RemoveBody(h BodyHandle) error {
	for i, b := range w.bodies {
		if b.handle == h {
			copy(w.bodies[i:], w.bodies[i+1:])
			w.bodies[len(w.bodies)-1] = nil
			w.bodies = w.bodies[:len(w.bodies)-1]
			b.handle = 0
			w.contacts = w.contacts[:0]
			return nil
		}
	}
	return fmt.Errorf("physics: remove %d: %w", h, dynamo.ErrUnknownBody)
}

// Body returns the body registered under h.
func (w *World) Body(h BodyHandle) (*RigidBody, error) {
	for _, b := range w.bodies {
		if b.handle == h {
			return b, nil
		}
	}
	return nil, fmt.Errorf("physics: body %d: %w", h, dynamo.ErrUnknownBody)
}

// Bodies returns the registered bodies in ascending handle order. The slice
// is owned by the world.
func (w *World) Bodies() []*RigidBody { return w.bodies }

func (w *World) Len() int { return len(w.bodies) }

// SimulatedTime returns the total seconds advanced by Step.
func (w *World) SimulatedTime() float64 { return w.simulatedTime }

// Steps returns the number of completed steps.
func (w *World) Steps() uint64 { return w.steps }

// Contacts returns the contacts detected during the last step, before
// resolution. The slice is reused by the next step.
func (w *World) Contacts() []Contact { return w.contacts }

// MaxPenetration returns the deepest overlap detected during the last step.
func (w *World) MaxPenetration() float64 { return w.maxPenetration }

// Energy returns kinetic plus gravitational potential energy of the
// dynamic bodies, with zero potential at the origin.
func (w *World) Energy() float64 {
	e := 0.0
	for _, b := range w.bodies {
		if b.IsStatic() {
			continue
		}
		e += b.KineticEnergy() - b.Mass*w.Gravity.Dot(b.Position)
	}
	return e
}

// Step advances the world by dt seconds. A non-positive or non-finite dt is
// a no-op.
func (w *World) Step(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}

	for _, b := range w.bodies {
		b.integrate(dt, w.Gravity)
	}

	w.contacts = w.detect(w.contacts[:0])
	w.maxPenetration = 0
	for i := range w.contacts {
		w.maxPenetration = math.Max(w.maxPenetration, w.contacts[i].Depth)
	}

	w.solveVelocities()
	w.solvePositions()

	w.simulatedTime += dt
	w.steps++
}

// detect appends all current contacts to buf: body pairs in ascending
// handle order first, then ground contacts.
func (w *World) detect(buf []Contact) []Contact {
	n := len(w.bodies)
	for i := 0; i < n; i++ {
		a := w.bodies[i]
		boundsA := a.Bounds()
		for j := i + 1; j < n; j++ {
			b := w.bodies[j]
			if a.IsStatic() && b.IsStatic() {
				continue
			}
			if !boundsA.Overlaps(b.Bounds()) {
				continue
			}
			if c, ok := collide(a, b); ok {
				buf = append(buf, c)
			}
		}
	}

	if w.Ground != nil {
		for _, b := range w.bodies {
			if b.IsStatic() || !b.Bounds().Below(*w.Ground) {
				continue
			}
			if c, ok := collidePlane(b, *w.Ground); ok {
				buf = append(buf, c)
			}
		}
	}
	return buf
}

func (w *World) material(c *Contact) (restitution, friction float64) {
	if c.B == nil {
		return c.A.Restitution * w.GroundRestitution, math.Sqrt(c.A.Friction * w.GroundFriction)
	}
	return c.A.Restitution * c.B.Restitution, math.Sqrt(c.A.Friction * c.B.Friction)
}

func relativeVelocity(c *Contact) mgl64.Vec3 {
	v := c.A.LinearVelocity.Mul(-1)
	if c.B != nil {
		v = v.Add(c.B.LinearVelocity)
	}
	return v
}

func inverseMassSum(c *Contact) float64 {
	s := c.A.InverseMass()
	if c.B != nil {
		s += c.B.InverseMass()
	}
	return s
}

func applyPair(c *Contact, j mgl64.Vec3) {
	c.A.ApplyImpulse(j.Mul(-1))
	if c.B != nil {
		c.B.ApplyImpulse(j)
	}
}

// solveVelocities runs sequential impulses over the contact list. Normal
// impulses are accumulated and clamped to stay repulsive; friction is
// clamped to the Coulomb cone of the accumulated normal impulse.
func (w *World) solveVelocities() {
	for i := range w.contacts {
		c := &w.contacts[i]
		c.restitution, c.friction = w.material(c)
		c.normalImp, c.tangentImp = 0, mgl64.Vec3{}

		vn := relativeVelocity(c).Dot(c.Normal)
		c.target = 0
		// approaching when vn < 0 since the normal points from A to B
		if -vn > w.RestingSpeed {
			c.target = -c.restitution * vn
		}
	}

	for iter := 0; iter < w.VelocityIterations; iter++ {
		for i := range w.contacts {
			c := &w.contacts[i]
			k := inverseMassSum(c)
			if k == 0 {
				continue
			}

			vn := relativeVelocity(c).Dot(c.Normal)
			// impulse that brings vn to target; positive pushes A and B apart
			jn := (c.target - vn) / k
			acc := math.Max(c.normalImp+jn, 0)
			jn = acc - c.normalImp
			c.normalImp = acc
			applyPair(c, c.Normal.Mul(jn))

			rel := relativeVelocity(c)
			vt := rel.Sub(c.Normal.Mul(rel.Dot(c.Normal)))
			speed := vt.Len()
			if speed < 1e-9 {
				continue
			}
			limit := c.friction * c.normalImp
			want := c.tangentImp.Sub(vt.Mul(1 / k))
			if l := want.Len(); l > limit {
				want = want.Mul(limit / l)
			}
			jt := want.Sub(c.tangentImp)
			c.tangentImp = want
			applyPair(c, jt)
		}
	}

	for i := range w.contacts {
		c := &w.contacts[i]
		if c.friction > 0 && c.normalImp > 0 {
			roll(c.A, c.Normal)
			if c.B != nil {
				roll(c.B, c.Normal.Mul(-1))
			}
		}
	}
}

// roll sets the spin of a sphere to match its tangential velocity over a
// surface whose normal n points from the sphere into the surface.
func roll(b *RigidBody, n mgl64.Vec3) {
	if b.IsStatic() || b.Shape.Kind != ShapeSphere {
		return
	}
	up := n.Mul(-1)
	b.AngularVelocity = up.Cross(b.LinearVelocity).Mul(1 / b.Shape.Radius)
}

// solvePositions separates overlapping bodies along the contact normal,
// splitting the correction by inverse mass, until no pair penetrates more
// than Slop or the iteration budget is spent. A body touching the ground is
// treated as immovable by corrections that would push it into the ground.
func (w *World) solvePositions() {
	for iter := 0; iter < w.PositionIterations; iter++ {
		w.scratch = w.detect(w.scratch[:0])
		clear(w.grounded)
		for i := range w.scratch {
			if w.scratch[i].Ground() {
				w.grounded[w.scratch[i].A.handle] = true
			}
		}

		worst := 0.0
		for i := range w.scratch {
			c := &w.scratch[i]
			// re-measure: earlier corrections in this pass may have moved the pair
			var ok bool
			var fresh Contact
			if c.Ground() {
				fresh, ok = collidePlane(c.A, *w.Ground)
			} else {
				fresh, ok = collide(c.A, c.B)
			}
			if !ok {
				continue
			}
			wa, wb := w.correctionWeights(&fresh)
			if wa+wb == 0 {
				continue
			}
			worst = math.Max(worst, fresh.Depth)
			move := fresh.Normal.Mul(fresh.Depth / (wa + wb))
			fresh.A.Position = fresh.A.Position.Sub(move.Mul(wa))
			if fresh.B != nil {
				fresh.B.Position = fresh.B.Position.Add(move.Mul(wb))
			}
		}
		if worst <= w.Slop {
			return
		}
	}
}

// correctionWeights returns the share of a positional correction taken by
// A and B. A moves along -Normal and B along +Normal.
func (w *World) correctionWeights(c *Contact) (wa, wb float64) {
	wa = c.A.InverseMass()
	if c.B == nil {
		return wa, 0
	}
	wb = c.B.InverseMass()
	if w.Ground == nil {
		return wa, wb
	}

	into := c.Normal.Dot(w.Ground.Normal)
	ga, gb := wa, wb
	if w.grounded[c.A.handle] && into > 0 {
		ga = 0
	}
	if w.grounded[c.B.handle] && into < 0 {
		gb = 0
	}
	if ga+gb == 0 {
		return wa, wb
	}
	return ga, gb
}
