package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille dot grid. Besides the dots, every cell remembers the
// brightest Tag drawn into it so the cell can be coloured as a whole.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Light         [][]float64
	Tags          [][]Tag
}

// Tag identifies what was drawn into a cell.
type Tag uint8

const (
	TagNone Tag = iota
	TagGround
	TagSphere
	TagCube
)

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Light:  make([][]float64, h),
		Tags:   make([][]Tag, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Light[i] = make([]float64, w)
		c.Tags[i] = make([]Tag, w)
	}
	c.Clear()
	return c
}

// DotSize is the canvas size in dots.
func (c *Canvas) DotSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the dot at (x, y), in dot coordinates.
func (c *Canvas) Set(x, y int) {
	c.Plot(x, y, TagNone, 1)
}

// Plot lights a dot and records tag and light for its cell when light is
// the brightest seen there so far.
func (c *Canvas) Plot(x, y int, tag Tag, light float64) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if c.Tags[row][col] == TagNone || light > c.Light[row][col] {
		c.Tags[row][col] = tag
		c.Light[row][col] = light
	}
}

// Unset clears a dot; the cell keeps its tag.
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	mask := ^rune(pixelMap[y%4][x%2])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Light[i][j] = 0
			c.Tags[i][j] = TagNone
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm, interpolating light
// from l0 to l1.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, tag Tag, l0, l1 float64) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	n := max(dx, dy)
	for i := 0; ; i++ {
		light := l0
		if n > 0 {
			light = l0 + (l1-l0)*float64(i)/float64(n)
		}
		c.Plot(x0, y0, tag, light)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colours the canvas cell by cell. Runs of cells with the same
// style are written with one escape sequence.
func (c *Canvas) Render(style func(tag Tag, light float64) lipgloss.Style) string {
	var b strings.Builder
	var run []rune
	for i, row := range c.Grid {
		run = run[:0]
		var cur lipgloss.Style
		for j, r := range row {
			s := style(c.Tags[i][j], c.Light[i][j])
			if len(run) > 0 && !sameColors(s, cur) {
				b.WriteString(cur.Render(string(run)))
				run = run[:0]
			}
			cur = s
			run = append(run, r)
		}
		if len(run) > 0 {
			b.WriteString(cur.Render(string(run)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func sameColors(a, b lipgloss.Style) bool {
	return a.GetForeground() == b.GetForeground() && a.GetBackground() == b.GetBackground()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
