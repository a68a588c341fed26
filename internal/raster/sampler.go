package raster

import (
	"math"

	"lighting-renderer/internal/mathutil"
)

// Bilinear samples d at the continuous pixel coordinate (u, v).
//
// inside is false when the top-left neighbour lies outside the buffer; the
// returned color is then transparent. When only the bottom-right neighbour
// is outside, the top-left sample is returned unblended.
func Bilinear(d Drawable, u, v float64) (c Color, inside bool) {
	fx, fy := math.Floor(u), math.Floor(v)
	x0, y0 := int(fx), int(fy)
	if !inBounds(d, x0, y0) {
		return Transparent, false
	}
	x1, y1 := x0+1, y0+1
	if !inBounds(d, x1, y1) {
		return d.At(x0, y0), true
	}

	dx := u - fx
	dy := v - fy

	c00 := d.At(x0, y0)
	c10 := d.At(x1, y0)
	c01 := d.At(x0, y1)
	c11 := d.At(x1, y1)

	return blend4(c00, c10, c01, c11, dx, dy), true
}

// Nearest returns the pixel closest to (u, v), with the same inside
// semantics as Bilinear.
func Nearest(d Drawable, u, v float64) (c Color, inside bool) {
	x := int(math.Floor(u + 0.5))
	y := int(math.Floor(v + 0.5))
	if !inBounds(d, x, y) {
		return Transparent, false
	}
	return d.At(x, y), true
}

// EnvUV maps a unit direction to spherical texture coordinates in [0, 1].
// v runs from the north pole (0) to the south pole (1); at either pole u is 0.
func EnvUV(dir mathutil.Vec3) (u, v float64) {
	alpha := math.Acos(mathutil.Clamp(-mathutil.NorthPole.Dot(dir), -1, 1))
	v = alpha / math.Pi
	if v == 0 || v == 1 {
		return 0, v
	}

	s := math.Sin(alpha)
	if s == 0 {
		return 0, v
	}
	fac := mathutil.Clamp(mathutil.LongitudeAxis.Dot(dir)/s, -1, 1)
	u = math.Acos(fac) / (2 * math.Pi)
	if mathutil.LongitudeSign.Dot(dir) < 0 {
		u = 1 - u
	}
	return u, v
}

// EnvLookup returns the environment color seen along dir. Coordinates are
// clamped to the map edges, never wrapped.
func EnvLookup(env Drawable, dir mathutil.Vec3, bilinear bool) Color {
	w, h := env.Width(), env.Height()
	u, v := EnvUV(dir)
	fx := mathutil.Clamp(u*float64(w), 0, float64(w-1))
	fy := mathutil.Clamp(v*float64(h), 0, float64(h-1))

	if !bilinear {
		x := clampInt(int(math.Floor(fx+0.5)), 0, w-1)
		y := clampInt(int(math.Floor(fy+0.5)), 0, h-1)
		return env.At(x, y)
	}

	x0, y0 := int(fx), int(fy)
	x1 := clampInt(x0+1, 0, w-1)
	y1 := clampInt(y0+1, 0, h-1)
	return blend4(env.At(x0, y0), env.At(x1, y0), env.At(x0, y1), env.At(x1, y1),
		fx-float64(x0), fy-float64(y0))
}

func blend4(c00, c10, c01, c11 Color, dx, dy float64) Color {
	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy
	return Color{
		R: c00.R*w00 + c10.R*w10 + c01.R*w01 + c11.R*w11,
		G: c00.G*w00 + c10.G*w10 + c01.G*w01 + c11.G*w11,
		B: c00.B*w00 + c10.B*w10 + c01.B*w01 + c11.B*w11,
		A: c00.A*w00 + c10.A*w10 + c01.A*w01 + c11.A*w11,
	}
}

func inBounds(d Drawable, x, y int) bool {
	return x >= 0 && y >= 0 && x < d.Width() && y < d.Height()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
