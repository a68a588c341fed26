package raster

import "image/color"

// Color is a linear RGBA sample with channels nominally in [0, 1].
type Color struct {
	R, G, B, A float64
}

var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Transparent = Color{}
)

func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Scale multiplies all four channels by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A * s}
}

// ScaleRGB multiplies the color channels by s and keeps alpha.
func (c Color) ScaleRGB(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A}
}

// Clamp limits every channel to [0, 1].
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// MaxDelta returns the largest per-channel absolute difference.
func (c Color) MaxDelta(o Color) float64 {
	d := abs(c.R - o.R)
	if v := abs(c.G - o.G); v > d {
		d = v
	}
	if v := abs(c.B - o.B); v > d {
		d = v
	}
	if v := abs(c.A - o.A); v > d {
		d = v
	}
	return d
}

// NRGBA converts to 8-bit non-premultiplied color, clamping first.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// FromNRGBA converts an 8-bit sample to Color.
func FromNRGBA(c color.NRGBA) Color {
	return Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
		A: float64(c.A) / 255.0,
	}
}

func to8(v float64) uint8 {
	return uint8(clamp01(v)*255.0 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
