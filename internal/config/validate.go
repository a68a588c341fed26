package config

import (
	"errors"
	"fmt"
	"math"

	"lighting-renderer/internal/lighting"
	"lighting-renderer/internal/mathutil"
	"lighting-renderer/internal/preset"
	"lighting-renderer/internal/raster"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid job")

// Validate reports every problem with the job at once.
func (j *Job) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if j.Input == "" {
		bad("input path is required")
	}
	if j.Output == "" {
		bad("output path is required")
	}
	if len(j.Lights) > lighting.NumLights {
		bad("%d lights configured, at most %d allowed", len(j.Lights), lighting.NumLights)
	}
	for i, l := range j.Lights {
		if _, err := lighting.ParseLightKind(l.Type); err != nil {
			bad("light %d: %v", i, err)
		}
		if l.CutoffDeg < 0 || l.CutoffDeg > 90 {
			bad("light %d: cutoff_deg %v outside [0, 90]", i, l.CutoffDeg)
		}
	}
	if j.IsolateLight < -1 || j.IsolateLight >= lighting.NumLights {
		bad("isolate_light %d outside [-1, %d]", j.IsolateLight, lighting.NumLights-1)
	}
	if math.IsNaN(j.Material.Highlight) || math.IsInf(j.Material.Highlight, 0) {
		bad("material highlight must be finite")
	}
	if _, err := lighting.ParseBumpCurve(j.Bump.Curve); err != nil {
		bad("%v", err)
	}
	if j.Bump.MaxHeight < 0 {
		bad("bump max_height must not be negative")
	}
	if j.AAMaxDepth < 0 || j.AAMaxDepth > 8 {
		bad("aa_max_depth %d outside [0, 8]", j.AAMaxDepth)
	}
	if j.AAThreshold < 0 {
		bad("aa_threshold must not be negative")
	}
	if j.Quality < 0 || j.Quality > 100 {
		bad("quality %d outside [0, 100]", j.Quality)
	}
	if j.Preview < 0 {
		bad("preview must not be negative")
	}

	return errors.Join(errs...)
}

// RenderConfig builds the engine configuration. A preset file, when set,
// replaces the job's light table; isolation is applied last.
func (j *Job) RenderConfig() (lighting.RenderConfig, error) {
	cfg := lighting.DefaultRenderConfig()
	cfg.Viewpoint = j.Viewpoint
	cfg.PlaneNormal = j.PlaneNormal
	cfg.Material = lighting.Material{
		AmbientInt:  j.Material.AmbientInt,
		DiffuseInt:  j.Material.DiffuseInt,
		DiffuseRef:  j.Material.DiffuseRef,
		SpecularRef: j.Material.SpecularRef,
		Highlight:   j.Material.Highlight,
		Metallic:    j.Material.Metallic,
	}

	curve, err := lighting.ParseBumpCurve(j.Bump.Curve)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	cfg.BumpEnabled = j.Bump.Enabled
	cfg.BumpCurve = curve
	cfg.BumpMaxHeight = j.Bump.MaxHeight
	cfg.EnvEnabled = j.EnvEnabled
	cfg.Antialiasing = j.Antialiasing
	cfg.AAMaxDepth = j.AAMaxDepth
	cfg.AAThreshold = j.AAThreshold
	cfg.TransparentBackground = j.TransparentBackground

	if j.Preset != "" {
		lights, err := preset.Load(j.Preset)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		cfg.Lights = lights
	} else {
		lights, err := j.lightTable()
		if err != nil {
			return cfg, err
		}
		cfg.Lights = lights
	}

	if j.IsolateLight >= 0 {
		lighting.IsolateLight(&cfg.Lights, j.IsolateLight)
	}
	return cfg, nil
}

func (j *Job) lightTable() ([lighting.NumLights]lighting.LightSource, error) {
	var lights [lighting.NumLights]lighting.LightSource
	if len(j.Lights) > lighting.NumLights {
		return lights, fmt.Errorf("%w: %d lights configured", ErrInvalid, len(j.Lights))
	}
	for i, spec := range j.Lights {
		kind, err := lighting.ParseLightKind(spec.Type)
		if err != nil {
			return lights, fmt.Errorf("config: light %d: %w", i, err)
		}
		c := raster.Color{R: spec.Color[0], G: spec.Color[1], B: spec.Color[2], A: 1}
		ls := lighting.NewLight(kind, spec.Position, spec.Direction, c, spec.Intensity)
		if s, ok := ls.Emitter.(lighting.SpotLight); ok {
			if spec.CutoffDeg > 0 {
				s.Cutoff = mathutil.Deg2Rad(spec.CutoffDeg)
			}
			if spec.Exponent > 0 {
				s.Exponent = spec.Exponent
			}
			ls.Emitter = s
		}
		ls.Active = ls.Active && spec.Active
		lights[i] = ls
	}
	return lights, nil
}
