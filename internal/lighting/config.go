package lighting

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"lighting-renderer/internal/mathutil"
	"lighting-renderer/internal/raster"
)

// ErrInvalidMaterial reports a material that cannot be shaded.
var ErrInvalidMaterial = errors.New("lighting: invalid material")

// Material holds the surface reflectance constants.
type Material struct {
	AmbientInt  float64
	DiffuseInt  float64
	DiffuseRef  float64 // carried for preset compatibility; shading uses DiffuseInt
	SpecularRef float64
	Highlight   float64 // specular exponent
	Metallic    bool
}

// DefaultMaterial returns the stock plug-in material.
func DefaultMaterial() Material {
	return Material{
		AmbientInt:  0.2,
		DiffuseInt:  0.5,
		DiffuseRef:  0.4,
		SpecularRef: 0.5,
		Highlight:   27.0,
	}
}

// sanitize clamps negative reflectivities to zero and rejects a non-finite
// highlight exponent.
func (m Material) sanitize() (Material, error) {
	if math.IsNaN(m.Highlight) || math.IsInf(m.Highlight, 0) {
		return m, fmt.Errorf("%w: highlight %v", ErrInvalidMaterial, m.Highlight)
	}
	m.AmbientInt = math.Max(0, m.AmbientInt)
	m.DiffuseInt = math.Max(0, m.DiffuseInt)
	m.DiffuseRef = math.Max(0, m.DiffuseRef)
	m.SpecularRef = math.Max(0, m.SpecularRef)
	m.Highlight = math.Max(0, m.Highlight)
	return m, nil
}

// BumpCurve selects the transfer curve applied to bump-map intensities.
type BumpCurve int

const (
	Linear BumpCurve = iota
	Logarithmic
	Sinusoidal
	Spherical
)

func (c BumpCurve) String() string {
	switch c {
	case Logarithmic:
		return "logarithmic"
	case Sinusoidal:
		return "sinusoidal"
	case Spherical:
		return "spherical"
	default:
		return "linear"
	}
}

// ParseBumpCurve accepts the names produced by String.
func ParseBumpCurve(s string) (BumpCurve, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return Linear, nil
	case "logarithmic", "log":
		return Logarithmic, nil
	case "sinusoidal", "sine":
		return Sinusoidal, nil
	case "spherical":
		return Spherical, nil
	}
	return Linear, fmt.Errorf("lighting: unknown bump curve %q", s)
}

// RenderConfig is everything the engine needs besides the pixel buffers.
// It is read-only for the duration of a render pass.
type RenderConfig struct {
	Viewpoint   mathutil.Vec3
	PlaneNormal mathutil.Vec3
	Lights      [NumLights]LightSource
	Material    Material

	BumpEnabled   bool
	BumpMaxHeight float64
	BumpCurve     BumpCurve

	EnvEnabled bool

	Antialiasing bool
	AAMaxDepth   int
	AAThreshold  float64

	TransparentBackground bool
}

// DefaultRenderConfig mirrors the plug-in's startup values: one white point
// light at (-1, -1, 1) and the stock material.
func DefaultRenderConfig() RenderConfig {
	cfg := RenderConfig{
		Viewpoint:     mathutil.Vec3{0.5, 0.5, 0.25},
		PlaneNormal:   mathutil.PlaneUp,
		Material:      DefaultMaterial(),
		BumpMaxHeight: 0.1,
		BumpCurve:     Linear,
		AAMaxDepth:    3,
		AAThreshold:   0.25,
	}
	cfg.Lights[0] = NewLight(Point,
		mathutil.Vec3{-1, -1, 1},
		mathutil.Vec3{-1, -1, 1},
		raster.White, 1.0)
	return cfg
}
