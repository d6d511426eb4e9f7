package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/rigidscene/internal/scene"
)

// Theme defines the color scheme for the TUI. Sphere, Cube and Ground are
// the fully lit colors of the scene objects; unlit cells fade into Fog.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Warning    lipgloss.Color
	Sphere     lipgloss.Color
	Cube       lipgloss.Color
	Ground     lipgloss.Color
	Fog        lipgloss.Color
}

var (
	ThemeDay = Theme{
		Name:       "day",
		Primary:    lipgloss.Color("#0077be"),
		Secondary:  lipgloss.Color("#00a8cc"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#1c2833"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Warning:    lipgloss.Color("#ffcc00"),
		Sphere:     lipgloss.Color("#ff6b6b"),
		Cube:       lipgloss.Color("#5fd068"),
		Ground:     lipgloss.Color("#c8d6e5"),
		Fog:        lipgloss.Color("#8395a7"),
	}

	ThemeNight = Theme{
		Name:       "night",
		Primary:    lipgloss.Color("#ff00ff"),
		Secondary:  lipgloss.Color("#00ffff"),
		Accent:     lipgloss.Color("#ffff00"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
		Warning:    lipgloss.Color("#ff8800"),
		Sphere:     lipgloss.Color("#ff4757"),
		Cube:       lipgloss.Color("#00ff88"),
		Ground:     lipgloss.Color("#888899"),
		Fog:        lipgloss.Color("#1e1e24"),
	}

	Themes = []Theme{ThemeDay, ThemeNight}
)

// ThemeFor picks the palette for a render mode.
func ThemeFor(m scene.Mode) Theme {
	if m.Has(scene.Day) {
		return ThemeDay
	}
	return ThemeNight
}

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDay
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) base(tag Tag) lipgloss.Color {
	switch tag {
	case TagSphere:
		return t.Sphere
	case TagCube:
		return t.Cube
	case TagGround:
		return t.Ground
	default:
		return t.Text
	}
}

// shadeLevels quantizes light so neighbouring cells share styles.
const shadeLevels = 8

// Shade returns the color of a cell drawn with tag at the given light,
// blending from the fog color at 0 to the tag's color at 1.
func (t Theme) Shade(tag Tag, light float64) lipgloss.Color {
	level := math.Round(math.Max(0, math.Min(1, light)) * shadeLevels)
	return blend(t.Fog, t.base(tag), level/shadeLevels)
}

// CellStyle adapts Shade for Canvas.Render.
func (t Theme) CellStyle(tag Tag, light float64) lipgloss.Style {
	if tag == TagNone {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(t.Shade(tag, light))
}
