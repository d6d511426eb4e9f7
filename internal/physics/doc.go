// Package physics implements the rigid-body dynamics world of the scene.
//
// A [World] owns a set of [RigidBody] values, each with a fixed [Shape]
// (sphere or box), and advances them in discrete steps:
//
//   - integration: semi-implicit Euler for velocity and position, quaternion
//     update for orientation (renormalized every step)
//   - broad phase: [AABB] overlap between every pair, ascending handle order
//   - narrow phase: sphere-sphere, sphere-box, sphere-plane and box-plane
//   - resolution: sequential normal impulses with restitution and Coulomb
//     friction, then full-depth positional separation
//
// Bodies with zero mass are static: forces, gravity and contact impulses
// never change their velocity.
//
// # Example
//
//	w := physics.NewWorld(mgl64.Vec3{0, -9.8, 0})
//	w.Ground = &physics.Plane{Normal: mgl64.Vec3{0, 1, 0}}
//	ball := physics.NewRigidBody(physics.Sphere(0.5), 1, mgl64.Vec3{0, 5, 0})
//	h, _ := w.AddBody(ball)
//	for i := 0; i < 300; i++ {
//	    w.Step(1.0 / 60)
//	}
//
// # Thread Safety
//
// World is NOT thread-safe. All calls must come from the frame loop that
// owns it.
package physics
