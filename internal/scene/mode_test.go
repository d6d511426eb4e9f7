package scene

import "testing"

func TestMode_Toggle(t *testing.T) {
	m := DefaultMode
	m = m.Toggle(Spotlight)
	if !m.Has(Spotlight) || !m.Has(Day) {
		t.Errorf("toggle on: %v", m)
	}
	m = m.Toggle(Spotlight)
	if m != DefaultMode {
		t.Errorf("toggle off: %v", m)
	}
}

func TestMode_Fog(t *testing.T) {
	tests := []struct {
		mode Mode
		want FogKind
	}{
		{0, FogNone},
		{FogExp, FogNone},
		{Fog, FogLinear},
		{Fog | FogExp, FogExponential},
	}

	for _, tt := range tests {
		if got := tt.mode.Fog(); got != tt.want {
			t.Errorf("%v.Fog() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Day, "day"},
		{0, "night"},
		{Spotlight | Fog, "night+spotlight+fog"},
		{Day | Fog | FogExp, "day+fog(exp)"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestController_Toggle(t *testing.T) {
	c, _ := New(nil, nil)
	if got := c.Toggle(Day); got.Has(Day) {
		t.Errorf("expected night, got %v", got)
	}
	if c.Mode().Has(Day) {
		t.Error("toggle not stored")
	}
}
