package metrics

import (
	"math"

	"github.com/san-kum/rigidscene/internal/dynamo"
)

// Stability is the fraction of frames whose pre-solve penetration stayed
// within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) OnFrame(f dynamo.Snapshot) {
	s.samples++
	if f.Penetration > s.threshold || !f.Sphere.IsValid() || !f.Cube.IsValid() {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// MaxPenetration is the deepest overlap seen in any frame.
type MaxPenetration struct {
	max float64
}

func NewMaxPenetration() *MaxPenetration { return &MaxPenetration{} }

func (m *MaxPenetration) Name() string { return "max_penetration" }

func (m *MaxPenetration) OnFrame(f dynamo.Snapshot) {
	m.max = math.Max(m.max, f.Penetration)
}

func (m *MaxPenetration) Value() float64 { return m.max }

func (m *MaxPenetration) Reset() { m.max = 0 }
