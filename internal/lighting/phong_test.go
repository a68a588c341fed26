package lighting

import (
	"math"
	"testing"

	"lighting-renderer/internal/mathutil"
	"lighting-renderer/internal/raster"
)

func TestShadeSkipsInactiveLights(t *testing.T) {
	nan := math.NaN()
	degenerate := LightSource{
		Emitter:   PointLight{Position: mathutil.Vec3{nan, nan, nan}},
		Color:     raster.White,
		Intensity: 1,
		Active:    false,
	}
	tests := []struct {
		name  string
		light LightSource
	}{
		{"inactive", degenerate},
		{"empty slot", LightSource{Color: raster.White, Intensity: 1, Active: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shade(mathutil.Vec3{}, mathutil.Vec3{0, 0, 1}, mathutil.PlaneUp,
				tt.light, raster.White, DefaultMaterial())
			if got != (raster.Color{}) {
				t.Errorf("expected no contribution, got %+v", got)
			}
		})
	}
}

func TestShadeDiffuseUsesDoubledCosine(t *testing.T) {
	m := Material{DiffuseInt: 0.25}
	light := NewLight(Directional, mathutil.Vec3{}, mathutil.Vec3{0, 1, 1}, raster.White, 1)
	base := raster.Color{R: 1, G: 0.5, B: 0, A: 1}

	got := Shade(mathutil.Vec3{}, mathutil.Vec3{0, 0, 1}, mathutil.PlaneUp, light, base, m)

	nl := 2 * mathutil.PlaneUp.Dot(mathutil.Vec3{0, 1, 1}.Normalize())
	want := raster.Color{R: 0.25 * nl, G: 0.25 * 0.5 * nl, B: 0}
	assertColor(t, "diffuse", got, want, tolerance)
}

func TestShadeBackfacingLightHasNoDiffuse(t *testing.T) {
	m := Material{DiffuseInt: 1}
	light := NewLight(Directional, mathutil.Vec3{}, mathutil.Vec3{0, 0, -1}, raster.White, 1)
	got := Shade(mathutil.Vec3{}, mathutil.Vec3{0, 0, 1}, mathutil.PlaneUp, light, raster.White, m)
	if got != (raster.Color{}) {
		t.Errorf("expected zero for a light behind the surface, got %+v", got)
	}
}

func TestShadeZeroHighlightGivesUniformSpecular(t *testing.T) {
	viewpoint := mathutil.Vec3{0.5, 0.5, 0.25}
	m := Material{SpecularRef: 0.3, Highlight: 0}
	light := NewLight(Point, viewpoint, mathutil.Vec3{}, raster.White, 1)

	for _, pos := range []mathutil.Vec3{{0, 0, 0}, {0.5, 0.5, 0}, {1, 0.25, 0}, {0.9, 0.9, 0}} {
		got := Shade(pos, viewpoint, mathutil.PlaneUp, light, raster.White, m)
		l := viewpoint.Sub(pos).Normalize()
		nl := math.Max(0, 2*mathutil.PlaneUp.Dot(l))
		v := 0.3 * nl
		if v > 1 {
			v = 1
		}
		assertColor(t, "specular", got, raster.Color{R: v, G: v, B: v}, tolerance)
	}
}

func TestShadeMetallicTintsSpecular(t *testing.T) {
	viewpoint := mathutil.Vec3{0, 0, 1}
	light := NewLight(Point, viewpoint, mathutil.Vec3{}, raster.White, 1)
	base := raster.Color{R: 0.2, G: 0.4, B: 0.6, A: 1}

	plain := Material{SpecularRef: 0.2, Highlight: 10}
	metal := plain
	metal.Metallic = true

	p := Shade(mathutil.Vec3{}, viewpoint, mathutil.PlaneUp, light, base, plain)
	q := Shade(mathutil.Vec3{}, viewpoint, mathutil.PlaneUp, light, base, metal)

	if p.R != p.G || p.G != p.B {
		t.Errorf("expected a white highlight without metallic, got %+v", p)
	}
	assertColor(t, "metallic", q, raster.Color{R: p.R * 0.2, G: p.G * 0.4, B: p.B * 0.6}, tolerance)
}

func TestShadeClampsEachChannel(t *testing.T) {
	m := Material{DiffuseInt: 5, SpecularRef: 5, Highlight: 1}
	light := NewLight(Point, mathutil.Vec3{0, 0, 1}, mathutil.Vec3{}, raster.White, 10)
	got := Shade(mathutil.Vec3{}, mathutil.Vec3{0, 0, 1}, mathutil.PlaneUp, light, raster.White, m)
	assertColor(t, "clamped", got, raster.Color{R: 1, G: 1, B: 1}, 0)
}

func TestShadeIntensityScalesLightColor(t *testing.T) {
	m := Material{DiffuseInt: 0.1}
	dim := NewLight(Directional, mathutil.Vec3{}, mathutil.PlaneUp, raster.White, 1)
	bright := dim
	bright.Intensity = 2

	a := Shade(mathutil.Vec3{}, mathutil.Vec3{0, 0, 1}, mathutil.PlaneUp, dim, raster.White, m)
	b := Shade(mathutil.Vec3{}, mathutil.Vec3{0, 0, 1}, mathutil.PlaneUp, bright, raster.White, m)
	assertColor(t, "intensity", b, a.ScaleRGB(2), tolerance)
}

func TestSpotLightCone(t *testing.T) {
	m := Material{DiffuseInt: 0.2}
	spot := NewLight(Spot, mathutil.Vec3{0, 0, 1}, mathutil.Vec3{0, 0, -1}, raster.White, 1)

	inside := Shade(mathutil.Vec3{}, mathutil.Vec3{0, 0, 1}, mathutil.PlaneUp, spot, raster.White, m)
	if inside.R <= 0 {
		t.Errorf("expected light directly under the spot, got %+v", inside)
	}

	// 45 degrees off-axis is outside the default 30 degree cone.
	outside := Shade(mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 0, 1}, mathutil.PlaneUp, spot, raster.White, m)
	if outside != (raster.Color{}) {
		t.Errorf("expected no light outside the cone, got %+v", outside)
	}
}

func TestEnvironmentTermIgnoresDiffuse(t *testing.T) {
	m := Material{DiffuseInt: 1, SpecularRef: 0.5, Highlight: 4}
	env := raster.Color{R: 0.2, G: 0.4, B: 0.1, A: 1}
	r := mathutil.Vec3{0, 0.3, 1}.Normalize()

	got := environmentTerm(mathutil.Vec3{}, mathutil.Vec3{0, 0, 1}, mathutil.PlaneUp, r, env, m)
	m.DiffuseInt = 0
	want := phong(mathutil.Vec3{}, mathutil.Vec3{0, 0, 1}, mathutil.PlaneUp, r, env, env, m)
	assertColor(t, "environment", got, want, 0)
}
