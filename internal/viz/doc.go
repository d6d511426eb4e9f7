// Package viz renders a scene in the terminal.
//
// The view projects wireframes of the sphere, the cube and the ground grid
// through the controller's camera onto a braille [Canvas], shaded by the
// active [scene.Mode]:
//
//   - [Model]: live bubbletea view of one [scene.Controller]
//   - [RunInteractive]: preset picker that opens a live view
//   - [Projector] and [Wireframe]: perspective projection with near-plane
//     and screen clipping
//
// # Key Bindings
//
//	F/Enter - Push the sphere
//	Arrows  - Turn and tilt the camera
//	W/A/S/D - Move the camera
//	C       - Reset camera
//	T       - Follow the sphere
//	1/2/3/N - Spotlight, fog, exponential fog, day/night
//	Space   - Pause/Resume
//	R       - Reset the scene
//	G       - Toggle GIF recording
//	?       - Show help overlay
//
// # Recording
//
// Recordings are saved as rigidscene.gif in the current directory.
package viz
