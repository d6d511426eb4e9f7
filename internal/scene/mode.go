package scene

import "strings"

// Mode is the set of render effects handed to the draw stage.
type Mode uint8

const (
	Spotlight Mode = 1 << iota
	// Fog enables linear fog; with FogExp set it is exponential instead.
	Fog
	FogExp
	Day

	DefaultMode = Day
)

// FogKind is the fog model selected by a Mode.
type FogKind int

const (
	FogNone FogKind = iota
	FogLinear
	FogExponential
)

func (m Mode) Has(f Mode) bool { return m&f == f }

func (m Mode) Toggle(f Mode) Mode { return m ^ f }

func (m Mode) Fog() FogKind {
	switch {
	case !m.Has(Fog):
		return FogNone
	case m.Has(FogExp):
		return FogExponential
	default:
		return FogLinear
	}
}

func (m Mode) String() string {
	var parts []string
	if m.Has(Day) {
		parts = append(parts, "day")
	} else {
		parts = append(parts, "night")
	}
	if m.Has(Spotlight) {
		parts = append(parts, "spotlight")
	}
	switch m.Fog() {
	case FogLinear:
		parts = append(parts, "fog")
	case FogExponential:
		parts = append(parts, "fog(exp)")
	}
	return strings.Join(parts, "+")
}
