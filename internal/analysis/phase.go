package analysis

import (
	"strings"
)

type Point struct{ X, Y float64 }

// PhasePortrait holds data for a 2D phase space plot.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []Point
}

// NewPhasePortrait pairs xs with ys; the longer series is truncated.
func NewPhasePortrait(xs, ys []float64, xLabel, yLabel string) *PhasePortrait {
	n := min(len(xs), len(ys))
	p := &PhasePortrait{XLabel: xLabel, YLabel: yLabel, Points: make([]Point, n)}
	for i := 0; i < n; i++ {
		p.Points[i] = Point{xs[i], ys[i]}
	}
	return p
}

// Derivative differentiates values sampled at times: central differences
// inside, one-sided at the ends.
func Derivative(values, times []float64) []float64 {
	n := min(len(values), len(times))
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	slope := func(i, j int) float64 {
		dt := times[j] - times[i]
		if dt == 0 {
			return 0
		}
		return (values[j] - values[i]) / dt
	}
	out[0] = slope(0, 1)
	for i := 1; i < n-1; i++ {
		out[i] = slope(i-1, i+1)
	}
	out[n-1] = slope(n-2, n-1)
	return out
}

// Crossings returns the points where values passes level going up. X is
// the interpolated time and Y the sample index just after the crossing.
func Crossings(values, times []float64, level float64) []Point {
	var out []Point
	n := min(len(values), len(times))
	for i := 1; i < n; i++ {
		prev, curr := values[i-1], values[i]
		if !(prev < level && curr >= level) {
			continue
		}
		frac := (level - prev) / (curr - prev)
		out = append(out, Point{X: times[i-1] + frac*(times[i]-times[i-1]), Y: float64(i)})
	}
	return out
}

// ASCII renders the portrait as a width x height character plot.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y

	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// axes, where they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
