package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/rigidscene/internal/dynamo"
)

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()

	m.OnFrame(dynamo.Snapshot{Energy: 10})
	m.OnFrame(dynamo.Snapshot{Energy: 20})

	if math.Abs(m.Value()-15) > 1e-12 {
		t.Errorf("expected mean energy 15, got %f", m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()

	m.OnFrame(dynamo.Snapshot{Energy: 3})
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	for _, e := range []float64{100, 90, 95, 40} {
		m.OnFrame(dynamo.Snapshot{Energy: e})
	}

	if math.Abs(m.Value()-0.6) > 1e-12 {
		t.Errorf("expected drift 0.6, got %f", m.Value())
	}

	m.Reset()
	m.OnFrame(dynamo.Snapshot{Energy: 5})
	if m.Value() != 0 {
		t.Errorf("expected zero drift after reset, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	valid := dynamo.IdentityTransform()
	m := NewStability(0.1)

	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", m.Value())
	}

	m.OnFrame(dynamo.Snapshot{Sphere: valid, Cube: valid, Penetration: 0.01})
	m.OnFrame(dynamo.Snapshot{Sphere: valid, Cube: valid, Penetration: 0.5})
	m.OnFrame(dynamo.Snapshot{Sphere: valid, Cube: valid})
	bad := valid
	bad.Position[0] = math.NaN()
	m.OnFrame(dynamo.Snapshot{Sphere: bad, Cube: valid})

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}
}

func TestMaxPenetration(t *testing.T) {
	m := NewMaxPenetration()
	for _, p := range []float64{0.01, 0.2, 0.05} {
		m.OnFrame(dynamo.Snapshot{Penetration: p})
	}
	if m.Value() != 0.2 {
		t.Errorf("expected 0.2, got %f", m.Value())
	}
}

func TestContactRate(t *testing.T) {
	m := NewContactRate()
	for _, n := range []int{0, 1, 2, 1} {
		m.OnFrame(dynamo.Snapshot{Contacts: n})
	}
	if m.Value() != 1 {
		t.Errorf("expected 1 contact per frame, got %f", m.Value())
	}
}

func TestRestTime(t *testing.T) {
	m := NewRestTime(0.1)
	frames := []dynamo.Snapshot{
		{Time: 1, SphereSpeed: 3},
		{Time: 2, SphereSpeed: 0.01},
		{Time: 3, SphereSpeed: 0.5},
		{Time: 4, SphereSpeed: 0.05, CubeSpeed: 0.02},
		{Time: 5},
	}

	m.OnFrame(frames[0])
	if m.Value() != -1 {
		t.Errorf("expected -1 while moving, got %f", m.Value())
	}
	for _, f := range frames[1:] {
		m.OnFrame(f)
	}
	if m.Value() != 4 {
		t.Errorf("expected rest from t=4, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != -1 {
		t.Errorf("expected -1 after reset, got %f", m.Value())
	}
}

func TestDefaultNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
