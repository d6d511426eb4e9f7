// Package dynamo provides the shared primitives of the rigid-body scene.
//
// The package defines the small value types and interfaces that the physics
// world, the scene controller and the render loops exchange:
//
//   - [Transform]: position + orientation snapshot of a body or camera
//   - [Snapshot]: one committed frame (sphere, cube, camera, time)
//   - [Observer]: receives every committed frame
//   - [Metric]: an Observer that reduces frames to a single value
//
// # Errors
//
// Errors are package-prefixed sentinels ([ErrCapacity], [ErrInvalidInput],
// [ErrUnknownBody], [ErrParameterBounds]) and typed wrappers
// ([CapacityError], [InputError]) that unwrap to them, so callers test with
// errors.Is.
//
// # Thread Safety
//
// None of the types here are synchronized. A scene is driven from a single
// frame loop; independent scenes may run in parallel.
package dynamo
