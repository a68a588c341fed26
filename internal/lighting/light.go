package lighting

import (
	"fmt"
	"strings"

	"lighting-renderer/internal/mathutil"
	"lighting-renderer/internal/raster"
)

// NumLights is the size of the light table.
const NumLights = 6

// LightKind names the emitter variants.
type LightKind int

const (
	NoLight LightKind = iota
	Point
	Directional
	Spot
)

func (k LightKind) String() string {
	switch k {
	case Point:
		return "Point"
	case Directional:
		return "Directional"
	case Spot:
		return "Spot"
	default:
		return "None"
	}
}

// ParseLightKind accepts the names produced by String, case-insensitively.
func ParseLightKind(s string) (LightKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "point":
		return Point, nil
	case "directional":
		return Directional, nil
	case "spot":
		return Spot, nil
	case "none", "":
		return NoLight, nil
	}
	return NoLight, fmt.Errorf("lighting: unknown light type %q", s)
}

// Emitter is the geometric part of a light: one of PointLight,
// DirectionalLight or SpotLight.
type Emitter interface {
	Kind() LightKind
}

// PointLight radiates from Position in all directions.
type PointLight struct {
	Position mathutil.Vec3
}

// DirectionalLight arrives from Direction (pointing towards the light)
// everywhere in the scene.
type DirectionalLight struct {
	Direction mathutil.Vec3
}

// SpotLight is a point light restricted to a cone around Direction.
// Cutoff is the cone half-angle in radians; Exponent sharpens the falloff
// towards the cone edge.
type SpotLight struct {
	Position  mathutil.Vec3
	Direction mathutil.Vec3
	Cutoff    float64
	Exponent  float64
}

func (PointLight) Kind() LightKind       { return Point }
func (DirectionalLight) Kind() LightKind { return Directional }
func (SpotLight) Kind() LightKind        { return Spot }

// LightSource is one slot of the light table. A nil Emitter is an empty slot.
type LightSource struct {
	Emitter   Emitter
	Color     raster.Color
	Intensity float64
	Active    bool
}

// Kind returns NoLight for empty slots.
func (l LightSource) Kind() LightKind {
	if l.Emitter == nil {
		return NoLight
	}
	return l.Emitter.Kind()
}

// Enabled reports whether the light takes part in shading.
func (l LightSource) Enabled() bool {
	return l.Active && l.Emitter != nil
}

// Radiance is Color scaled by Intensity.
func (l LightSource) Radiance() raster.Color {
	return l.Color.ScaleRGB(l.Intensity)
}

// Position returns the emitter position, or the zero vector for variants
// without one.
func (l LightSource) Position() mathutil.Vec3 {
	switch e := l.Emitter.(type) {
	case PointLight:
		return e.Position
	case SpotLight:
		return e.Position
	}
	return mathutil.Vec3{}
}

// Direction returns the emitter direction, or the zero vector for variants
// without one.
func (l LightSource) Direction() mathutil.Vec3 {
	switch e := l.Emitter.(type) {
	case DirectionalLight:
		return e.Direction
	case SpotLight:
		return e.Direction
	}
	return mathutil.Vec3{}
}

// NewLight builds a light of the given kind from the superset of fields the
// preset and job-file formats carry. Spot cone parameters take defaults.
func NewLight(kind LightKind, pos, dir mathutil.Vec3, c raster.Color, intensity float64) LightSource {
	ls := LightSource{Color: c, Intensity: intensity, Active: true}
	switch kind {
	case Point:
		ls.Emitter = PointLight{Position: pos}
	case Directional:
		ls.Emitter = DirectionalLight{Direction: dir}
	case Spot:
		ls.Emitter = SpotLight{
			Position:  pos,
			Direction: dir,
			Cutoff:    mathutil.Deg2Rad(DefaultSpotCutoffDeg),
			Exponent:  DefaultSpotExponent,
		}
	default:
		ls.Active = false
	}
	return ls
}

// Spot defaults.
const (
	DefaultSpotCutoffDeg = 30.0
	DefaultSpotExponent  = 1.0
)

// IsolateLight leaves only light k active. Out-of-range k activates all.
func IsolateLight(lights *[NumLights]LightSource, k int) {
	if k < 0 || k >= NumLights {
		ActivateAll(lights)
		return
	}
	for i := range lights {
		lights[i].Active = i == k
	}
}

// ActivateAll marks every slot active; empty slots stay inert.
func ActivateAll(lights *[NumLights]LightSource) {
	for i := range lights {
		lights[i].Active = true
	}
}

// CountLights returns the number of non-empty slots.
func CountLights(lights [NumLights]LightSource) int {
	n := 0
	for _, l := range lights {
		if l.Kind() != NoLight {
			n++
		}
	}
	return n
}
