package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/scene"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 44
	historyCapacity = 600
	// keyRepeat is the time one key press stands for when scaling
	// camera speeds.
	keyRepeat = 1.0 / 15
	gifPath   = "rigidscene.gif"
)

type TickMsg time.Time

// ReloadMsg carries a config reload from a file watcher.
type ReloadMsg config.Update

// Model is the live terminal view of one scene.
type Model struct {
	ctrl          *scene.Controller
	lighting      scene.Lighting
	fps           int
	width, height int
	canvas        *Canvas
	wire          *Wireframe
	running       bool
	lastTick      time.Time
	energy        []float64
	speed         []float64
	recording     bool
	frames        []*image.Paletted
	showHelp      bool
	status        string
	reloads       <-chan config.Update
}

// NewModel wraps ctrl. reloads may be nil; when set, every update received
// on it reconfigures the scene.
func NewModel(ctrl *scene.Controller, reloads <-chan config.Update) Model {
	fps := ctrl.Config().Loop.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return Model{
		ctrl:     ctrl,
		lighting: scene.DefaultLighting,
		fps:      fps,
		width:    width,
		height:   height,
		canvas:   NewCanvas(width, height),
		wire:     NewWireframe(),
		running:  true,
		energy:   make([]float64, 0, historyCapacity),
		speed:    make([]float64, 0, historyCapacity),
		reloads:  reloads,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) waitReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return ReloadMsg(u)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitReload())
}

// Update handles input events and advances the scene on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		elapsed := 1 / float64(m.fps)
		if !m.lastTick.IsZero() {
			elapsed = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		if m.running {
			m.step(elapsed)
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	case ReloadMsg:
		switch {
		case msg.Err != nil:
			m.status = "reload failed: " + msg.Err.Error()
		default:
			if err := m.ctrl.Reconfigure(msg.Config); err != nil {
				m.status = "reload rejected: " + err.Error()
			} else {
				m.status = "config reloaded"
				m.energy, m.speed = m.energy[:0], m.speed[:0]
			}
		}
		return m, m.waitReload()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cam := m.ctrl.Config().Camera
	turn, move := cam.TurnSpeed*keyRepeat, cam.MoveSpeed*keyRepeat

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if m.recording {
			m.saveGIF()
		}
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "left":
		m.ctrl.UpdateCamera(turn, 0, 0)
	case "right":
		m.ctrl.UpdateCamera(-turn, 0, 0)
	case "up":
		m.ctrl.UpdateCamera(0, turn, 0)
	case "down":
		m.ctrl.UpdateCamera(0, -turn, 0)
	case "w":
		m.ctrl.UpdateCamera(0, 0, move)
	case "s":
		m.ctrl.UpdateCamera(0, 0, -move)
	case "a":
		m.ctrl.TranslateCamera(-move, 0)
	case "d":
		m.ctrl.TranslateCamera(move, 0)
	case "c":
		m.ctrl.ResetCamera()
	case "t":
		m.ctrl.SetTracking(!m.ctrl.Tracking())
	case "f", "enter":
		m.ctrl.ApplyForce()
	case "r":
		m.ctrl.Reset()
		m.energy, m.speed = m.energy[:0], m.speed[:0]
	case "1":
		m.ctrl.Toggle(scene.Spotlight)
	case "2":
		m.ctrl.Toggle(scene.Fog)
	case "3":
		m.ctrl.Toggle(scene.FogExp)
	case "n":
		m.ctrl.Toggle(scene.Day)
	case "g":
		if m.recording {
			m.saveGIF()
			m.recording = false
			m.frames = nil
		} else {
			m.recording = true
			m.frames = make([]*image.Paletted, 0)
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	m.draw()
	return m, nil
}

func (m *Model) resize(w, h int) {
	cw := max(w-statsWidth-8, 20)
	ch := max(h-4, 8)
	if cw == m.width && ch == m.height {
		return
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

func (m *Model) step(elapsed float64) {
	m.ctrl.Update(elapsed)
	s := m.ctrl.Snapshot()
	m.energy = appendCapped(m.energy, s.Energy)
	m.speed = appendCapped(m.speed, s.SphereSpeed)
}

func appendCapped(xs []float64, v float64) []float64 {
	if len(xs) == historyCapacity {
		copy(xs, xs[1:])
		xs = xs[:len(xs)-1]
	}
	return append(xs, v)
}

func (m *Model) draw() {
	DrawScene(m.canvas, m.wire, m.ctrl, m.lighting)
}

// DrawScene clears c and draws the controller's committed frame onto it
// from the current camera. w is reused when non-nil.
func DrawScene(c *Canvas, w *Wireframe, ctrl *scene.Controller, light scene.Lighting) {
	if w == nil {
		w = NewWireframe()
	}
	s := ctrl.Snapshot()
	cfg := ctrl.Config()

	w.Clear()
	if cfg.Ground.Enabled {
		w.AddGrid(10, 1, cfg.Ground.Height, TagGround)
	}
	w.AddBox(s.Cube, cfg.Cube.HalfExtents.V(), TagCube)
	w.AddSphere(s.Sphere, cfg.Sphere.Radius, 24, TagSphere)

	c.Clear()
	Render3D(c, w, NewProjector(ctrl.View(), c), light, ctrl.Mode())
}

func (m Model) View() string {
	s := m.ctrl.Snapshot()
	mode := m.ctrl.Mode()
	theme := ThemeFor(mode)

	canvasView := canvasStyle.Render(m.canvas.Render(theme.CellStyle))

	var b strings.Builder
	b.WriteString(headerStyle.Render(GradientText("RIGIDSCENE", theme.Sphere, theme.Cube)) + "\n")

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("● REC")
	}
	b.WriteString(status + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		b.WriteString(graphStyle.Render(chart) + "\n")
	}
	b.WriteString(labelStyle.Render("Speed") + SparklineChart(m.speed, 24) + "\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", s.Time))
	row("Frame", fmt.Sprintf("%d", s.Frame))
	row("Energy", fmt.Sprintf("%.2f J", s.Energy))
	row("Contacts", fmt.Sprintf("%d", s.Contacts))
	row("Sphere", fmtVec(s.Sphere.Position))
	row("Cube", fmtVec(s.Cube.Position))
	row("Camera", fmtVec(s.Camera.Position))
	row("Mode", mode.String())
	if m.ctrl.Tracking() {
		row("Tracking", "sphere")
	}
	if m.status != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Warning).Render(m.status) + "\n")
	}

	b.WriteString(helpStyle.Render(Separator(statsWidth-6) + "\nF:Force R:Reset SP:Pause Q:Quit\n1:Spot 2:Fog 3:Exp N:Night ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(b.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  F/Enter  - Push the sphere          ║
║  ←/→      - Turn camera              ║
║  ↑/↓      - Tilt camera              ║
║  W/S      - Move forward/back        ║
║  A/D      - Strafe                   ║
║  C        - Reset camera             ║
║  T        - Follow the sphere        ║
║  1        - Spotlight                ║
║  2        - Fog                      ║
║  3        - Exponential fog          ║
║  N        - Day/night                ║
║  R        - Reset scene              ║
║  Space    - Pause/Resume             ║
║  G        - Toggle GIF recording     ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

func fmtVec(v [3]float64) string {
	return fmt.Sprintf("%6.2f %6.2f %6.2f", v[0], v[1], v[2])
}

// captureFrame rasterizes the braille canvas, one cell to 8x16 pixels.
func (m *Model) captureFrame() {
	const charW, charH = 8, 16
	theme := ThemeFor(m.ctrl.Mode())
	palette := color.Palette{toRGBA(theme.Background), toRGBA(theme.Sphere)}

	img := image.NewPaletted(image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH), palette)
	dotW, dotH := charW/2, charH/4
	for row := 0; row < m.canvas.Height; row++ {
		for col := 0; col < m.canvas.Width; col++ {
			pattern := int(m.canvas.Grid[row][col] - blank)
			if pattern <= 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					baseX, baseY := col*charW+dx*dotW, row*charH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+px, baseY+py, 1)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	delay := max(100/m.fps, 1)
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(gifPath)
	if err != nil {
		m.status = "gif: " + err.Error()
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.status = "gif: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), gifPath)
}

func toRGBA(c lipgloss.Color) color.RGBA {
	r, g, b := parseHex(string(c))
	return color.RGBA{uint8(r), uint8(g), uint8(b), 0xff}
}

// Run starts the live view of ctrl in the terminal.
func Run(ctrl *scene.Controller, reloads <-chan config.Update) error {
	_, err := tea.NewProgram(NewModel(ctrl, reloads), tea.WithAltScreen()).Run()
	return err
}
