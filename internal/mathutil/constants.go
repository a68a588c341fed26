package mathutil

import "math"

// Axes used by the spherical environment mapping.
var (
	// NorthPole is the direction that maps to the top row (v=0) of an
	// environment map.
	NorthPole = Vec3{0, 1, 0}

	// LongitudeAxis is the direction at longitude 0 (u=0).
	LongitudeAxis = Vec3{1, 0, 0}

	// LongitudeSign selects the half-sphere where u is mirrored to 1-u.
	// NorthPole × LongitudeAxis
	LongitudeSign = NorthPole.Cross(LongitudeAxis)

	// PlaneUp is the default normal of the unperturbed image plane.
	PlaneUp = Vec3{0, 0, 1}
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
