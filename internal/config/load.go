package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Batch is a file listing several jobs. Jobs decode over Default
// individually; Workers bounds how many render at once.
type Batch struct {
	Workers  int           `yaml:"workers"`
	Manifest string        `yaml:"manifest,omitempty"`
	Logging  LoggingConfig `yaml:"logging"`
	Jobs     []*Job        `yaml:"jobs"`
}

// Load reads a single job file. Relative paths in the file are resolved
// against the file's directory.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	job := Default()
	if err := yaml.Unmarshal(data, job); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	job.resolvePaths(filepath.Dir(path))
	return job, nil
}

// LoadBatch reads a batch file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	b := &Batch{Logging: LoggingConfig{Level: "info"}}
	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, j := range b.Jobs {
		if j == nil {
			return nil, fmt.Errorf("config: %s: job %d is empty", path, i)
		}
		if j.Name == "" {
			j.Name = fmt.Sprintf("job-%d", i+1)
		}
		j.resolvePaths(dir)
	}
	if b.Manifest != "" && !filepath.IsAbs(b.Manifest) {
		b.Manifest = filepath.Join(dir, b.Manifest)
	}
	return b, nil
}

// resolvePaths makes relative paths absolute against dir.
func (j *Job) resolvePaths(dir string) {
	for _, p := range []*string{&j.Input, &j.Output, &j.BumpMap, &j.EnvMap, &j.Preset, &j.SavePreset, &j.Logging.LogFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
