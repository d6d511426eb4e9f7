package dynamo

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  bool
	}{
		{"zero", 0, true},
		{"normal", 1.5, true},
		{"NaN", math.NaN(), false},
		{"+Inf", math.Inf(1), false},
		{"-Inf", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFinite(tt.value); got != tt.want {
				t.Errorf("IsFinite(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestTransform_IsValid(t *testing.T) {
	tr := IdentityTransform()
	if !tr.IsValid() {
		t.Error("identity transform should be valid")
	}

	tr.Position = mgl64.Vec3{0, math.NaN(), 0}
	if tr.IsValid() {
		t.Error("transform with NaN position should be invalid")
	}
}

func TestTransform_Mat4(t *testing.T) {
	tr := Transform{
		Position:    mgl64.Vec3{1, 2, 3},
		Orientation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}),
	}

	got := tr.Mat4().Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3()
	want := mgl64.Vec3{1, 2, 2}
	if !near(got, want, 1e-9) {
		t.Errorf("Mat4 * (1,0,0) = %v, want %v", got, want)
	}
}

func TestTransform_AxisAngle(t *testing.T) {
	axis, angle := IdentityTransform().AxisAngle()
	if angle != 0 || axis != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("identity AxisAngle = %v, %v", axis, angle)
	}

	tr := Transform{Orientation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})}
	axis, angle = tr.AxisAngle()
	if math.Abs(angle-90) > 1e-9 {
		t.Errorf("angle = %v, want 90", angle)
	}
	if !near(axis, mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("axis = %v, want X", axis)
	}
}

func TestErrors_Unwrap(t *testing.T) {
	var err error = &CapacityError{Limit: 2}
	if !errors.Is(err, ErrCapacity) {
		t.Error("CapacityError should unwrap to ErrCapacity")
	}

	err = &InputError{Op: "step", Field: "dt", Value: math.NaN()}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("InputError should unwrap to ErrInvalidInput")
	}
	if err.Error() == "" {
		t.Error("InputError should have a message")
	}
}

func near(a, b mgl64.Vec3, tol float64) bool { return a.Sub(b).Len() <= tol }
