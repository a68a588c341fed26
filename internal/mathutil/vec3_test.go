package mathutil

import (
	"math"
	"testing"
)

func TestVec3Basics(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}

	if got := a.Add(b); got != (Vec3{5, -3, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vec3{-3, 7, -3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot = %v", got)
	}
	if got := a.Cross(b); got != (Vec3{27, 6, -13}) {
		t.Errorf("Cross = %v", got)
	}
	if got := (Vec3{3, 4, 0}).Len(); got != 5 {
		t.Errorf("Len = %v", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"axis", Vec3{0, 0, 7}, Vec3{0, 0, 1}},
		{"diagonal", Vec3{3, 4, 0}, Vec3{0.6, 0.8, 0}},
		{"zero", Vec3{}, Vec3{}},
		{"tiny", Vec3{1e-14, 0, 0}, Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.Sub(tt.want).Len() > 1e-12 {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	a := Vec3{0, 10, -2}
	b := Vec3{4, 20, 2}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v", got)
	}
	if got := a.Lerp(b, 0.25); got != (Vec3{1, 12.5, -1}) {
		t.Errorf("Lerp(0.25) = %v", got)
	}
}

func TestReflect(t *testing.T) {
	n := Vec3{0, 0, 1}
	v := Vec3{1, 0, 1}.Normalize()
	r := v.Reflect(n)
	want := Vec3{-1, 0, 1}.Normalize()
	if r.Sub(want).Len() > 1e-12 {
		t.Errorf("Reflect = %v, want %v", r, want)
	}
	if math.Abs(r.Len()-1) > 1e-12 {
		t.Errorf("reflection of a unit vector has length %v", r.Len())
	}
}

func TestLongitudeSign(t *testing.T) {
	if LongitudeSign != (Vec3{0, 0, -1}) {
		t.Errorf("LongitudeSign = %v", LongitudeSign)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-2, -1, 1) != -1 || Clamp(2, -1, 1) != 1 || Clamp(0.5, -1, 1) != 0.5 {
		t.Error("Clamp out of range")
	}
}
