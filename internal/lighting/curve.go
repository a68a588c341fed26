package lighting

import "math"

// curveTable holds the 256-entry transfer curve for one BumpCurve, in the
// 0–255 intensity domain.
type curveTable [256]float64

var curveTables = [...]curveTable{
	Linear:      buildCurve(func(x float64) float64 { return x }),
	Logarithmic: buildCurve(logCurve),
	Sinusoidal:  buildCurve(sineCurve),
	Spherical:   buildCurve(sphereCurve),
}

func buildCurve(f func(float64) float64) curveTable {
	var t curveTable
	for i := range t {
		t[i] = f(float64(i))
	}
	return t
}

func logCurve(x float64) float64 {
	const (
		c = 1.0 / 255.0
		d = 1.15 * 255.0
	)
	return math.Min(255, d*math.Exp(-1.0/(8.0*c*(x+5.0))))
}

func sineCurve(x float64) float64 {
	return 255.0 * 0.5 * (math.Sin(math.Pi*x/255.0-math.Pi/2.0) + 1.0)
}

func sphereCurve(x float64) float64 {
	return 255.0 * math.Sqrt(math.Sin(math.Pi*x/512.0))
}

func curveFor(c BumpCurve) *curveTable {
	if c < 0 || int(c) >= len(curveTables) {
		return &curveTables[Linear]
	}
	return &curveTables[c]
}
