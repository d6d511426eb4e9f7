package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/dynamo"
)

const (
	sphereRings  = 16
	sphereSlices = 16
	groundSize   = 40
)

type object struct {
	mesh rl.Mesh
	mtl  rl.Material
}

// meshes holds the GPU side of the scene, sized from the config.
type meshes struct {
	sphere, cube, ground object
	groundY              float64
	hasGround            bool
}

func newObject(mesh rl.Mesh, color rl.Color, p *Program) object {
	mtl := rl.LoadMaterialDefault()
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = color
	}
	if p.Valid() {
		mtl.Shader = p.Shader
	}
	return object{mesh: mesh, mtl: mtl}
}

func loadMeshes(cfg *config.Config, p *Program) *meshes {
	h := cfg.Cube.HalfExtents
	return &meshes{
		sphere:    newObject(rl.GenMeshSphere(float32(cfg.Sphere.Radius), sphereRings, sphereSlices), ColSphere, p),
		cube:      newObject(rl.GenMeshCube(float32(2*h[0]), float32(2*h[1]), float32(2*h[2])), ColCube, p),
		ground:    newObject(rl.GenMeshPlane(groundSize, groundSize, 1, 1), ColGround, p),
		groundY:   cfg.Ground.Height,
		hasGround: cfg.Ground.Enabled,
	}
}

func (m *meshes) unload() {
	for _, o := range []object{m.sphere, m.cube, m.ground} {
		rl.UnloadMesh(&o.mesh)
	}
}

func (a *App) drawScene() {
	m := a.meshes
	if m.hasGround {
		rl.DrawMesh(m.ground.mesh, m.ground.mtl, toMatrix(mgl64.Translate3D(0, m.groundY, 0)))
	}
	rl.DrawMesh(m.sphere.mesh, m.sphere.mtl, toMatrix(a.Ctrl.SphereTransform().Mat4()))
	rl.DrawMesh(m.cube.mesh, m.cube.mtl, toMatrix(a.Ctrl.CubeTransform().Mat4()))
}

// toMatrix converts a column-major mgl64 matrix; raylib names its fields
// by the same column-major index.
func toMatrix(m mgl64.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: float32(m[0]), M1: float32(m[1]), M2: float32(m[2]), M3: float32(m[3]),
		M4: float32(m[4]), M5: float32(m[5]), M6: float32(m[6]), M7: float32(m[7]),
		M8: float32(m[8]), M9: float32(m[9]), M10: float32(m[10]), M11: float32(m[11]),
		M12: float32(m[12]), M13: float32(m[13]), M14: float32(m[14]), M15: float32(m[15]),
	}
}

func toVector3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}

// cameraFor builds the raylib camera for a committed camera transform.
func cameraFor(t dynamo.Transform) rl.Camera3D {
	fwd := t.Orientation.Rotate(mgl64.Vec3{0, 0, -1})
	up := t.Orientation.Rotate(mgl64.Vec3{0, 1, 0})
	return rl.NewCamera3D(toVector3(t.Position), toVector3(t.Position.Add(fwd)), toVector3(up), 60, rl.CameraPerspective)
}
