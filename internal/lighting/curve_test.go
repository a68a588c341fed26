package lighting

import (
	"math"
	"testing"
)

func TestCurveEndpoints(t *testing.T) {
	tests := []struct {
		curve BumpCurve
		at0   float64
		at255 float64
	}{
		{Linear, 0, 255},
		{Sinusoidal, 0, 255},
		{Spherical, 0, 255 * math.Sqrt(math.Sin(math.Pi*255/512))},
		{Logarithmic, 1.15 * 255 * math.Exp(-1/(8*(5.0/255))), 255},
	}

	for _, tt := range tests {
		t.Run(tt.curve.String(), func(t *testing.T) {
			table := curveFor(tt.curve)
			if math.Abs(table[0]-tt.at0) > 1e-9 {
				t.Errorf("curve[0] = %v, want %v", table[0], tt.at0)
			}
			if math.Abs(table[255]-tt.at255) > 1e-9 {
				t.Errorf("curve[255] = %v, want %v", table[255], tt.at255)
			}
		})
	}
}

func TestCurvesAreMonotoneAndBounded(t *testing.T) {
	for _, c := range []BumpCurve{Linear, Logarithmic, Sinusoidal, Spherical} {
		table := curveFor(c)
		for i := 1; i < 256; i++ {
			if table[i] < table[i-1] {
				t.Fatalf("%s: curve decreases at %d", c, i)
			}
			if table[i] > 255 {
				t.Fatalf("%s: curve[%d] = %v exceeds 255", c, i, table[i])
			}
		}
	}
}

func TestLogarithmicCurveSaturates(t *testing.T) {
	table := curveFor(Logarithmic)
	if table[255] != 255 {
		t.Errorf("expected logarithmic curve capped at 255, got %v", table[255])
	}
}

func TestParseBumpCurve(t *testing.T) {
	for _, c := range []BumpCurve{Linear, Logarithmic, Sinusoidal, Spherical} {
		got, err := ParseBumpCurve(c.String())
		if err != nil || got != c {
			t.Errorf("ParseBumpCurve(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseBumpCurve("cubic"); err == nil {
		t.Error("expected error for unknown curve")
	}
}
