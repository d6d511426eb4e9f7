package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Lighting holds the parameters of the render effects selected by Mode.
// Both render loops read it so a scene looks alike in the window and in
// the terminal.
type Lighting struct {
	FogStart   float64 // linear fog: fully clear before this distance
	FogEnd     float64 // linear fog: fully fogged beyond this distance
	FogDensity float64 // exponential fog: exp(-density*distance)

	// SpotInner and SpotOuter are the half-angles of the camera spotlight
	// cone in degrees; light fades between them.
	SpotInner float64
	SpotOuter float64
	SpotBoost float64

	DayAmbient   float64
	NightAmbient float64
}

var DefaultLighting = Lighting{
	FogStart:     4,
	FogEnd:       25,
	FogDensity:   0.12,
	SpotInner:    12,
	SpotOuter:    20,
	SpotBoost:    0.7,
	DayAmbient:   0.85,
	NightAmbient: 0.2,
}

// FogFactor returns how much of a surface at distance d stays visible:
// 1 is unfogged, 0 is fully fog coloured.
func (l Lighting) FogFactor(m Mode, d float64) float64 {
	switch m.Fog() {
	case FogLinear:
		if l.FogEnd <= l.FogStart {
			return 1
		}
		return mgl64.Clamp((l.FogEnd-d)/(l.FogEnd-l.FogStart), 0, 1)
	case FogExponential:
		return mgl64.Clamp(math.Exp(-l.FogDensity*d), 0, 1)
	default:
		return 1
	}
}

// Spot returns the spotlight contribution at a view-space point: 1 inside
// the inner cone, fading to 0 at the outer cone. The light sits at the
// camera and points down -Z.
func (l Lighting) Spot(view mgl64.Vec3) float64 {
	d := view.Len()
	if d == 0 {
		return 1
	}
	cos := -view.Z() / d
	inner := math.Cos(mgl64.DegToRad(l.SpotInner))
	outer := math.Cos(mgl64.DegToRad(l.SpotOuter))
	if cos >= inner {
		return 1
	}
	if cos <= outer || inner == outer {
		return 0
	}
	t := (cos - outer) / (inner - outer)
	return t * t * (3 - 2*t)
}

// Brightness combines ambient, spotlight and fog for a view-space point,
// in [0,1].
func (l Lighting) Brightness(m Mode, view mgl64.Vec3) float64 {
	light := l.NightAmbient
	if m.Has(Day) {
		light = l.DayAmbient
	}
	if m.Has(Spotlight) {
		light += l.SpotBoost * l.Spot(view)
	}
	return mgl64.Clamp(light, 0, 1) * l.FogFactor(m, view.Len())
}
