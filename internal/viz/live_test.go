package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/scene"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	ctrl, err := scene.New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(ctrl, nil)
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModelTickAdvances(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(0, 0)
	m = send(m, TickMsg(start))
	m = send(m, TickMsg(start.Add(50*time.Millisecond)))

	s := m.ctrl.Snapshot()
	if s.Frame != 2 {
		t.Fatalf("frame = %d, want 2", s.Frame)
	}
	if len(m.energy) != 2 || len(m.speed) != 2 {
		t.Errorf("history lengths %d/%d", len(m.energy), len(m.speed))
	}

	m = send(m, tea.KeyMsg{Type: tea.KeySpace})
	m = send(m, TickMsg(start.Add(100*time.Millisecond)))
	if m.ctrl.Snapshot().Frame != 2 {
		t.Error("paused model advanced")
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t)
	cam := m.ctrl.CameraTransform()

	m = send(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.ctrl.CameraTransform() == cam {
		t.Error("left did not turn the camera")
	}
	m = send(m, runes("c"))
	if m.ctrl.CameraTransform() != cam {
		t.Error("c did not reset the camera")
	}
	m = send(m, runes("w"))
	if m.ctrl.CameraTransform().Position == cam.Position {
		t.Error("w did not move the camera")
	}

	m = send(m, runes("1"))
	if !m.ctrl.Mode().Has(scene.Spotlight) {
		t.Error("1 did not enable the spotlight")
	}
	m = send(m, runes("n"))
	if m.ctrl.Mode().Has(scene.Day) {
		t.Error("n did not switch to night")
	}
	m = send(m, runes("t"))
	if !m.ctrl.Tracking() {
		t.Error("t did not enable tracking")
	}
	m = send(m, runes("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay missing")
	}
}

func TestModelForce(t *testing.T) {
	pushed := newTestModel(t)
	plain := newTestModel(t)
	pushed = send(pushed, runes("f"))

	start := time.Unix(0, 0)
	pushed = send(pushed, TickMsg(start))
	plain = send(plain, TickMsg(start))
	if pushed.ctrl.SphereTransform() == plain.ctrl.SphereTransform() {
		t.Error("force key had no effect")
	}

	pushed = send(pushed, runes("r"))
	if pushed.ctrl.SphereTransform().Position != config.DefaultConfig().Sphere.Position.V() {
		t.Error("r did not reset the scene")
	}
	if len(pushed.energy) != 0 {
		t.Error("reset kept energy history")
	}
}

func TestModelReload(t *testing.T) {
	m := newTestModel(t)
	m = send(m, ReloadMsg(config.Update{Config: config.GetPreset("moon")}))
	if g := m.ctrl.Config().Gravity[1]; g != -1.62 {
		t.Errorf("gravity after reload = %v", g)
	}
	if m.status != "config reloaded" {
		t.Errorf("status = %q", m.status)
	}

	m = send(m, ReloadMsg(config.Update{Err: errors.New("boom")}))
	if !strings.HasPrefix(m.status, "reload failed") {
		t.Errorf("status = %q", m.status)
	}
	if g := m.ctrl.Config().Gravity[1]; g != -1.62 {
		t.Error("failed reload changed the scene")
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.canvas.Width != 120-statsWidth-8 || m.canvas.Height != 36 {
		t.Errorf("canvas = %dx%d", m.canvas.Width, m.canvas.Height)
	}
	m = send(m, tea.WindowSizeMsg{Width: 10, Height: 5})
	if m.canvas.Width != 20 || m.canvas.Height != 8 {
		t.Errorf("small canvas = %dx%d", m.canvas.Width, m.canvas.Height)
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg(time.Unix(0, 0)))
	v := m.View()
	for _, want := range []string{"Frame", "Energy", "Mode"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelCapture(t *testing.T) {
	m := newTestModel(t)
	m = send(m, runes("g"))
	m = send(m, TickMsg(time.Unix(0, 0)))
	if !m.recording || len(m.frames) != 1 {
		t.Fatalf("recording=%v frames=%d", m.recording, len(m.frames))
	}
	b := m.frames[0].Bounds()
	if b.Dx() != m.canvas.Width*8 || b.Dy() != m.canvas.Height*16 {
		t.Errorf("frame bounds %v", b)
	}
}

func TestAppendCapped(t *testing.T) {
	var xs []float64
	for i := 0; i < historyCapacity+10; i++ {
		xs = appendCapped(xs, float64(i))
	}
	if len(xs) != historyCapacity || xs[0] != 10 {
		t.Errorf("len=%d first=%v", len(xs), xs[0])
	}
}

func TestInteractiveMenu(t *testing.T) {
	app := NewInteractiveApp(nil, nil)
	step := func(msg tea.Msg) {
		next, _ := app.Update(msg)
		mm := next.(model)
		app = &mm
	}

	step(tea.KeyMsg{Type: tea.KeyDown})
	step(tea.KeyMsg{Type: tea.KeyEnter})
	if app.state != stateConfig || app.cfg.Name != app.presets[1] {
		t.Fatalf("state=%d preset=%v", app.state, app.cfg)
	}

	g := app.cfg.Gravity[1]
	step(tea.KeyMsg{Type: tea.KeyRight})
	if app.cfg.Gravity[1] != g+0.1 {
		t.Errorf("gravity = %v, want %v", app.cfg.Gravity[1], g+0.1)
	}

	step(runes("s"))
	if app.state != stateSim {
		t.Fatalf("state = %d, want sim", app.state)
	}
	if app.liveModel.ctrl.Config().Gravity[1] != g+0.1 {
		t.Error("edited value did not reach the scene")
	}
}

func TestInteractiveRejectsInvalid(t *testing.T) {
	app := NewInteractiveApp(nil, nil)
	next, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm := next.(model)
	mm.cfg.Sphere.Radius = -1
	next, _ = mm.Update(runes("s"))
	mm = next.(model)
	if mm.state != stateConfig || mm.err == nil {
		t.Errorf("state=%d err=%v", mm.state, mm.err)
	}
}

func drawnTags(t *testing.T, cfg *config.Config) map[Tag]bool {
	t.Helper()
	ctrl, err := scene.New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCanvas(60, 24)
	DrawScene(c, nil, ctrl, scene.DefaultLighting)

	seen := map[Tag]bool{}
	for _, row := range c.Tags {
		for _, tag := range row {
			seen[tag] = true
		}
	}
	return seen
}

func TestDrawScene(t *testing.T) {
	seen := drawnTags(t, nil)
	if !seen[TagGround] || !seen[TagSphere] {
		t.Errorf("drawn tags = %v, want ground and sphere", seen)
	}

	cfg := config.DefaultConfig()
	cfg.Ground.Enabled = false
	seen = drawnTags(t, cfg)
	if seen[TagGround] {
		t.Error("ground drawn while disabled")
	}
	if !seen[TagCube] || !seen[TagSphere] {
		t.Errorf("drawn tags = %v, want cube and sphere", seen)
	}
}
