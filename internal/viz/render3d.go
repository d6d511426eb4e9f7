package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidscene/internal/dynamo"
	"github.com/san-kum/rigidscene/internal/scene"
)

const (
	DefaultFOV  = 60.0 // vertical, degrees
	DefaultNear = 0.1
	DefaultFar  = 200.0
)

// Projector maps world points to canvas dots through a view matrix and a
// perspective projection.
type Projector struct {
	View, Proj    mgl64.Mat4
	Width, Height int // in dots
	Near          float64
}

// NewProjector sizes the projection for a canvas. Braille dots are close
// to square, so the aspect ratio is taken from the dot grid.
func NewProjector(view mgl64.Mat4, c *Canvas) *Projector {
	w, h := c.DotSize()
	aspect := float64(w) / float64(max(h, 1))
	return &Projector{
		View:   view,
		Proj:   mgl64.Perspective(mgl64.DegToRad(DefaultFOV), aspect, DefaultNear, DefaultFar),
		Width:  w,
		Height: h,
		Near:   DefaultNear,
	}
}

// ToView transforms a world point into camera space, where the camera
// looks down -Z.
func (p *Projector) ToView(w mgl64.Vec3) mgl64.Vec3 {
	return p.View.Mul4x1(w.Vec4(1)).Vec3()
}

// screen projects a camera-space point that lies in front of the near
// plane to fractional dot coordinates.
func (p *Projector) screen(v mgl64.Vec3) (float64, float64) {
	c := p.Proj.Mul4x1(v.Vec4(1))
	nx, ny := c.X()/c.W(), c.Y()/c.W()
	return (nx + 1) / 2 * float64(p.Width-1), (1 - ny) / 2 * float64(p.Height-1)
}

// Project returns the dot a world point lands on and whether it is in
// front of the camera and on the canvas.
func (p *Projector) Project(w mgl64.Vec3) (int, int, bool) {
	v := p.ToView(w)
	if -v.Z() < p.Near {
		return 0, 0, false
	}
	x, y := p.screen(v)
	xi, yi := int(math.Round(x)), int(math.Round(y))
	return xi, yi, xi >= 0 && xi < p.Width && yi >= 0 && yi < p.Height
}

// Segment is a projected line in dot coordinates with its endpoints'
// camera-space positions.
type Segment struct {
	X0, Y0, X1, Y1 int
	V0, V1         mgl64.Vec3
}

// Clip projects the world segment a-b, cutting it at the near plane and at
// the canvas border. ok is false when nothing remains.
func (p *Projector) Clip(a, b mgl64.Vec3) (Segment, bool) {
	va, vb := p.ToView(a), p.ToView(b)
	da, db := -va.Z()-p.Near, -vb.Z()-p.Near
	if da < 0 && db < 0 {
		return Segment{}, false
	}
	if da < 0 {
		va = va.Add(vb.Sub(va).Mul(da / (da - db)))
	} else if db < 0 {
		vb = vb.Add(va.Sub(vb).Mul(db / (db - da)))
	}

	x0, y0 := p.screen(va)
	x1, y1 := p.screen(vb)
	t0, t1, ok := clipRect(x0, y0, x1, y1, float64(p.Width-1), float64(p.Height-1))
	if !ok {
		return Segment{}, false
	}

	dx, dy, dv := x1-x0, y1-y0, vb.Sub(va)
	return Segment{
		X0: int(math.Round(x0 + t0*dx)), Y0: int(math.Round(y0 + t0*dy)),
		X1: int(math.Round(x0 + t1*dx)), Y1: int(math.Round(y0 + t1*dy)),
		V0: va.Add(dv.Mul(t0)), V1: va.Add(dv.Mul(t1)),
	}, true
}

// clipRect is Liang-Barsky clipping of a 2D segment to [0,w]x[0,h]; it
// returns the parameter range that stays inside.
func clipRect(x0, y0, x1, y1, w, h float64) (float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	for _, e := range [4][2]float64{{-dx, x0}, {dx, w - x0}, {-dy, y0}, {dy, h - y0}} {
		pk, qk := e[0], e[1]
		if pk == 0 {
			if qk < 0 {
				return 0, 0, false
			}
			continue
		}
		r := qk / pk
		if pk < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

type Edge struct {
	Start, End mgl64.Vec3
	Tag        Tag
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                        { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3, tag Tag) { w.Edges = append(w.Edges, Edge{s, e, tag}) }
func (w *Wireframe) Clear()                           { w.Edges = w.Edges[:0] }

var boxEdges = [12][2]int{{0, 1}, {1, 3}, {3, 2}, {2, 0}, {4, 5}, {5, 7}, {7, 6}, {6, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}

// AddBox adds the 12 edges of a box with the given half extents.
func (w *Wireframe) AddBox(t dynamo.Transform, half mgl64.Vec3, tag Tag) {
	var v [8]mgl64.Vec3
	for i := range v {
		local := mgl64.Vec3{half[0], half[1], half[2]}
		if i&1 == 0 {
			local[0] = -local[0]
		}
		if i&2 == 0 {
			local[1] = -local[1]
		}
		if i&4 == 0 {
			local[2] = -local[2]
		}
		v[i] = t.Position.Add(t.Orientation.Rotate(local))
	}
	for _, e := range boxEdges {
		w.AddEdge(v[e[0]], v[e[1]], tag)
	}
}

// AddSphere adds three orthogonal great circles that turn with the
// sphere, so rolling is visible.
func (w *Wireframe) AddSphere(t dynamo.Transform, radius float64, segments int, tag Tag) {
	if segments < 3 {
		segments = 3
	}
	circle := func(i int, axis int) mgl64.Vec3 {
		a := 2 * math.Pi * float64(i) / float64(segments)
		s, c := math.Sincos(a)
		var p mgl64.Vec3
		p[(axis+1)%3] = radius * c
		p[(axis+2)%3] = radius * s
		return t.Position.Add(t.Orientation.Rotate(p))
	}
	for axis := 0; axis < 3; axis++ {
		prev := circle(0, axis)
		for i := 1; i <= segments; i++ {
			next := circle(i, axis)
			w.AddEdge(prev, next, tag)
			prev = next
		}
	}
}

// AddGrid adds a square grid of lines on the plane y = height.
func (w *Wireframe) AddGrid(halfSize float64, step float64, height float64, tag Tag) {
	if step <= 0 {
		return
	}
	n := int(halfSize / step)
	for i := -n; i <= n; i++ {
		o := float64(i) * step
		w.AddEdge(mgl64.Vec3{o, height, -halfSize}, mgl64.Vec3{o, height, halfSize}, tag)
		w.AddEdge(mgl64.Vec3{-halfSize, height, o}, mgl64.Vec3{halfSize, height, o}, tag)
	}
}

// Render3D draws the wireframe, shading each edge with the lighting of
// the current mode.
func Render3D(c *Canvas, w *Wireframe, p *Projector, light scene.Lighting, mode scene.Mode) {
	if c == nil || w == nil || p == nil {
		return
	}
	for _, e := range w.Edges {
		seg, ok := p.Clip(e.Start, e.End)
		if !ok {
			continue
		}
		l0 := light.Brightness(mode, seg.V0)
		l1 := light.Brightness(mode, seg.V1)
		c.DrawLine(seg.X0, seg.Y0, seg.X1, seg.Y1, e.Tag, l0, l1)
	}
}
