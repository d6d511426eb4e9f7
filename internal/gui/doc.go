// Package gui draws a scene in a raylib window.
//
// All objects share one shader [Program] whose uniforms come from
// [UniformsFor]: ambient light for day or night, an optional spotlight at
// the camera and linear or exponential fog. Keys map onto the
// [scene.Controller] camera and force surface; a config watcher can
// rebuild the scene while the window is open.
package gui
