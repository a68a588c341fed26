package lighting

import (
	"math"

	"lighting-renderer/internal/mathutil"
	"lighting-renderer/internal/raster"
)

// Shade returns the diffuse and specular contribution of a single light at
// position, with alpha 0. Ambient light is not included; the caller adds it
// once per pixel. Empty or inactive lights contribute nothing and are not
// evaluated.
func Shade(position, viewpoint, normal mathutil.Vec3, light LightSource, diffuse raster.Color, m Material) raster.Color {
	if !light.Enabled() {
		return raster.Color{}
	}

	var l mathutil.Vec3
	atten := 1.0

	switch e := light.Emitter.(type) {
	case PointLight:
		l = e.Position.Sub(position).Normalize()
	case DirectionalLight:
		l = e.Direction.Normalize()
	case SpotLight:
		l = e.Position.Sub(position).Normalize()
		atten = spotFactor(e, l)
		if atten == 0 {
			return raster.Color{}
		}
	default:
		return raster.Color{}
	}

	c := phong(position, viewpoint, normal, l, diffuse, light.Radiance(), m)
	if atten != 1 {
		c = c.ScaleRGB(atten)
	}
	return c
}

// phong evaluates the Phong terms for the unit light vector l.
// The N·L term is doubled; rendered output depends on it.
func phong(position, viewpoint, normal, l mathutil.Vec3, diffuse, lightColor raster.Color, m Material) raster.Color {
	nl := math.Max(0, 2.0*normal.Dot(l))

	v := viewpoint.Sub(position).Normalize()
	h := l.Add(v).Normalize()
	rv := math.Pow(math.Max(0.01, normal.Dot(h)), m.Highlight) * nl

	kd := m.DiffuseInt * nl
	d := raster.Color{
		R: lightColor.R * diffuse.R * kd,
		G: lightColor.G * diffuse.G * kd,
		B: lightColor.B * diffuse.B * kd,
	}

	s := raster.Color{R: lightColor.R, G: lightColor.G, B: lightColor.B}
	if m.Metallic {
		s.R *= diffuse.R
		s.G *= diffuse.G
		s.B *= diffuse.B
	}
	ks := m.SpecularRef * rv
	s.R *= ks
	s.G *= ks
	s.B *= ks

	return d.Add(s).Clamp()
}

// spotFactor attenuates a spot light by the angle between the light axis
// and the ray towards the shaded point. Zero outside the cone.
func spotFactor(s SpotLight, l mathutil.Vec3) float64 {
	axis := s.Direction.Normalize()
	if axis.IsZero() {
		return 1
	}
	cosTheta := l.Scale(-1).Dot(axis)
	if cosTheta < math.Cos(s.Cutoff) {
		return 0
	}
	if s.Exponent == 0 {
		return 1
	}
	return math.Pow(cosTheta, s.Exponent)
}

// environmentTerm is the reflection contribution: the environment color
// acts as both light and surface color arriving along the reflected ray,
// with diffuse intensity forced to zero. reflected must be a unit vector.
func environmentTerm(position, viewpoint, normal, reflected mathutil.Vec3, envColor raster.Color, m Material) raster.Color {
	m.DiffuseInt = 0
	return phong(position, viewpoint, normal, reflected, envColor, envColor, m)
}
