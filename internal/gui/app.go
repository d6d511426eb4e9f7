package gui

import (
	"fmt"
	"io"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/scene"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSphere  = rl.NewColor(230, 90, 90, 255)
	ColCube    = rl.NewColor(90, 200, 110, 255)
	ColGround  = rl.NewColor(170, 180, 190, 255)
)

const (
	windowWidth    = 1280
	windowHeight   = 720
	telemetryLimit = 200
)

type App struct {
	Ctrl      *scene.Controller
	Lighting  scene.Lighting
	Running   bool
	Telemetry []float64

	program *Program
	meshes  *meshes
	reloads <-chan config.Update
	status  string
	logger  *log.Logger
}

func initWindow() {
	rl.InitWindow(windowWidth, windowHeight, "rigidscene")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp prepares GPU resources for ctrl. The window must be open.
func NewApp(ctrl *scene.Controller, reloads <-chan config.Update, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	a := &App{
		Ctrl:      ctrl,
		Lighting:  scene.DefaultLighting,
		Running:   true,
		Telemetry: make([]float64, 0, telemetryLimit),
		program:   LoadProgram(),
		reloads:   reloads,
		logger:    logger,
	}
	if !a.program.Valid() {
		logger.Printf("[gui] scene shader failed to compile, using raylib default")
	}
	a.meshes = loadMeshes(ctrl.Config(), a.program)
	return a
}

// Run opens a window on ctrl and blocks until it is closed.
func Run(ctrl *scene.Controller, reloads <-chan config.Update, logger *log.Logger) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(ctrl, reloads, logger)
	defer app.Unload()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) Unload() {
	a.meshes.unload()
	a.program.Unload()
}

// Update feeds one frame of input to the controller and advances it.
func (a *App) Update() {
	a.pollReload()

	dt := float64(rl.GetFrameTime())
	cam := a.Ctrl.Config().Camera
	x, y, z := cameraInput(keyState{
		left:     rl.IsKeyDown(rl.KeyLeft),
		right:    rl.IsKeyDown(rl.KeyRight),
		up:       rl.IsKeyDown(rl.KeyUp),
		down:     rl.IsKeyDown(rl.KeyDown),
		forward:  rl.IsKeyDown(rl.KeyW),
		backward: rl.IsKeyDown(rl.KeyS),
	}, cam.TurnSpeed*dt, cam.MoveSpeed*dt)
	a.Ctrl.UpdateCamera(x, y, z)

	strafe := 0.0
	if rl.IsKeyDown(rl.KeyA) {
		strafe -= cam.MoveSpeed * dt
	}
	if rl.IsKeyDown(rl.KeyD) {
		strafe += cam.MoveSpeed * dt
	}
	if strafe != 0 {
		a.Ctrl.TranslateCamera(strafe, 0)
	}

	switch {
	case rl.IsKeyPressed(rl.KeyF), rl.IsKeyPressed(rl.KeyEnter):
		a.Ctrl.ApplyForce()
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.Ctrl.Reset()
		a.Telemetry = a.Telemetry[:0]
	case rl.IsKeyPressed(rl.KeyC):
		a.Ctrl.ResetCamera()
	case rl.IsKeyPressed(rl.KeyT):
		a.Ctrl.SetTracking(!a.Ctrl.Tracking())
	case rl.IsKeyPressed(rl.KeyOne):
		a.Ctrl.Toggle(scene.Spotlight)
	case rl.IsKeyPressed(rl.KeyTwo):
		a.Ctrl.Toggle(scene.Fog)
	case rl.IsKeyPressed(rl.KeyThree):
		a.Ctrl.Toggle(scene.FogExp)
	case rl.IsKeyPressed(rl.KeyN):
		a.Ctrl.Toggle(scene.Day)
	}

	if a.Running {
		a.Ctrl.Update(dt)
		a.Telemetry = append(a.Telemetry, a.Ctrl.Snapshot().Energy)
		if len(a.Telemetry) > telemetryLimit {
			a.Telemetry = a.Telemetry[1:]
		}
	}
}

func (a *App) pollReload() {
	if a.reloads == nil {
		return
	}
	select {
	case u, ok := <-a.reloads:
		if !ok {
			a.reloads = nil
			return
		}
		if u.Err != nil {
			a.status = "reload failed: " + u.Err.Error()
			return
		}
		if err := a.Ctrl.Reconfigure(u.Config); err != nil {
			a.status = "reload rejected: " + err.Error()
			return
		}
		a.meshes.unload()
		a.meshes = loadMeshes(a.Ctrl.Config(), a.program)
		a.Telemetry = a.Telemetry[:0]
		a.status = "config reloaded"
		a.logger.Printf("[gui] %s", a.status)
	default:
	}
}

type keyState struct {
	left, right, up, down, forward, backward bool
}

// cameraInput turns held keys into UpdateCamera deltas.
func cameraInput(k keyState, turn, move float64) (x, y, z float64) {
	if k.left {
		x += turn
	}
	if k.right {
		x -= turn
	}
	if k.up {
		y += turn
	}
	if k.down {
		y -= turn
	}
	if k.forward {
		z += move
	}
	if k.backward {
		z -= move
	}
	return x, y, z
}

func (a *App) Draw() {
	rl.BeginDrawing()
	mode := a.Ctrl.Mode()
	u := UniformsFor(a.Lighting, mode, a.Ctrl.CameraTransform())
	rl.ClearBackground(rl.NewColor(uint8(u.FogColor[0]*255), uint8(u.FogColor[1]*255), uint8(u.FogColor[2]*255), 255))

	a.program.Apply(u)
	rl.BeginMode3D(cameraFor(a.Ctrl.CameraTransform()))
	a.drawScene()
	rl.EndMode3D()

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	s := a.Ctrl.Snapshot()
	drawText("rigidscene", 30, 30, 24, ColSelect)
	drawText(fmt.Sprintf(":: %s", a.Ctrl.Config().Name), 190, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	drawText(status, 1150, 30, 16, col)

	drawText(fmt.Sprintf("t %.2fs  frame %d  contacts %d", s.Time, s.Frame, s.Contacts), 30, 70, 14, ColText)
	drawText(fmt.Sprintf("sphere %.2f %.2f %.2f", s.Sphere.Position[0], s.Sphere.Position[1], s.Sphere.Position[2]), 30, 90, 14, ColText)
	drawText(fmt.Sprintf("cube   %.2f %.2f %.2f", s.Cube.Position[0], s.Cube.Position[1], s.Cube.Position[2]), 30, 110, 14, ColText)
	drawText("mode "+a.Ctrl.Mode().String(), 30, 130, 14, ColAccent)
	if a.status != "" {
		drawText(a.status, 30, 150, 14, rl.Orange)
	}

	a.DrawTelemetry()
	drawText("[F] PUSH  [ARROWS/WASD] CAMERA  [C] RESET CAM  [T] FOLLOW  [1/2/3/N] LIGHTS  [SPACE] PAUSE  [R] RESET  [Q] QUIT", 250, 690, 14, ColTextDim)
	drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 690, 14, ColTextDim)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	drawText(fmt.Sprintf("E: %.2f J", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func drawText(text string, x, y, size int, color rl.Color) {
	rl.DrawText(text, int32(x), int32(y), int32(size), color)
}
