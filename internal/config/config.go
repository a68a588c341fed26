// Package config loads render job descriptions from YAML files and merges
// them with command-line overrides.
package config

import (
	"gopkg.in/yaml.v3"

	"lighting-renderer/internal/mathutil"
)

// Job describes one lighting render: input and output paths plus every
// setting of the lighting pass.
type Job struct {
	Name string `yaml:"name,omitempty"`

	// Paths
	Input      string `yaml:"input"`
	Output     string `yaml:"output"`
	BumpMap    string `yaml:"bump_map,omitempty"`
	EnvMap     string `yaml:"env_map,omitempty"`
	Preset     string `yaml:"preset,omitempty"`
	SavePreset string `yaml:"save_preset,omitempty"`

	// Scene
	Viewpoint   mathutil.Vec3  `yaml:"viewpoint"`
	PlaneNormal mathutil.Vec3  `yaml:"plane_normal"`
	Material    MaterialConfig `yaml:"material"`
	Lights      []LightSpec    `yaml:"lights"`
	// IsolateLight keeps only the given light slot active; -1 leaves the
	// per-light active flags alone.
	IsolateLight int `yaml:"isolate_light"`

	Bump       BumpConfig `yaml:"bump"`
	EnvEnabled bool       `yaml:"env_enabled"`

	// Render settings
	Antialiasing          bool    `yaml:"antialiasing"`
	AAMaxDepth            int     `yaml:"aa_max_depth"`
	AAThreshold           float64 `yaml:"aa_threshold"`
	TransparentBackground bool    `yaml:"transparent_background"`
	Workers               int     `yaml:"workers"`
	Quality               int     `yaml:"quality"`
	// Preview limits the longest side of the rendered image; 0 renders at
	// full size.
	Preview int `yaml:"preview"`

	Logging LoggingConfig `yaml:"logging"`
}

// MaterialConfig mirrors lighting.Material.
type MaterialConfig struct {
	AmbientInt  float64 `yaml:"ambient_int"`
	DiffuseInt  float64 `yaml:"diffuse_int"`
	DiffuseRef  float64 `yaml:"diffuse_ref"`
	SpecularRef float64 `yaml:"specular_ref"`
	Highlight   float64 `yaml:"highlight"`
	Metallic    bool    `yaml:"metallic"`
}

// LightSpec is one entry of the light table.
type LightSpec struct {
	Type      string        `yaml:"type"`
	Position  mathutil.Vec3 `yaml:"position"`
	Direction mathutil.Vec3 `yaml:"direction"`
	Color     [3]float64    `yaml:"color"`
	Intensity float64       `yaml:"intensity"`
	Active    bool          `yaml:"active"`
	CutoffDeg float64       `yaml:"cutoff_deg,omitempty"`
	Exponent  float64       `yaml:"exponent,omitempty"`
}

// BumpConfig holds the bump-mapping settings.
type BumpConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Curve     string  `yaml:"curve"`
	MaxHeight float64 `yaml:"max_height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file,omitempty"`
}

// Default returns a job with the plug-in's startup values: the stock
// material and one white point light at (-1, -1, 1).
func Default() *Job {
	return &Job{
		Viewpoint:   mathutil.Vec3{0.5, 0.5, 0.25},
		PlaneNormal: mathutil.PlaneUp,
		Material: MaterialConfig{
			AmbientInt:  0.2,
			DiffuseInt:  0.5,
			DiffuseRef:  0.4,
			SpecularRef: 0.5,
			Highlight:   27.0,
		},
		Lights: []LightSpec{{
			Type:      "point",
			Position:  mathutil.Vec3{-1, -1, 1},
			Direction: mathutil.Vec3{-1, -1, 1},
			Color:     [3]float64{1, 1, 1},
			Intensity: 1,
			Active:    true,
		}},
		IsolateLight: -1,
		Bump: BumpConfig{
			Curve:     "linear",
			MaxHeight: 0.1,
		},
		AAMaxDepth:  3,
		AAThreshold: 0.25,
		Quality:     90,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultLight is the starting point for each light entry in a file.
func defaultLight() LightSpec {
	return LightSpec{
		Type:      "point",
		Color:     [3]float64{1, 1, 1},
		Intensity: 1,
		Active:    true,
	}
}

// UnmarshalYAML decodes over the defaults so that fields missing from the
// file keep their default values, including for jobs inside a batch file.
func (j *Job) UnmarshalYAML(n *yaml.Node) error {
	type plain Job
	*j = *Default()
	return n.Decode((*plain)(j))
}

// UnmarshalYAML decodes over defaultLight.
func (l *LightSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain LightSpec
	*l = defaultLight()
	return n.Decode((*plain)(l))
}
