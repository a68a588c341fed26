package config

import "runtime"

// Flags holds CLI flag values that override job file settings. Zero values
// leave the file's setting in place.
type Flags struct {
	Input      string
	Output     string
	BumpMap    string
	EnvMap     string
	Preset     string
	SavePreset string
	Preview    int
	Workers    int
	Quality    int
	LogLevel   string
	LogFile    string
}

// Resolve applies CLI overrides and fills render settings still unset.
// Naming a bump or environment map on the command line also enables it.
func (j *Job) Resolve(flags Flags) {
	if flags.Input != "" {
		j.Input = flags.Input
	}
	if flags.Output != "" {
		j.Output = flags.Output
	}
	if flags.BumpMap != "" {
		j.BumpMap = flags.BumpMap
		j.Bump.Enabled = true
	}
	if flags.EnvMap != "" {
		j.EnvMap = flags.EnvMap
		j.EnvEnabled = true
	}
	if flags.Preset != "" {
		j.Preset = flags.Preset
	}
	if flags.SavePreset != "" {
		j.SavePreset = flags.SavePreset
	}
	if flags.Preview > 0 {
		j.Preview = flags.Preview
	}
	if flags.Workers > 0 {
		j.Workers = flags.Workers
	}
	if flags.Quality > 0 {
		j.Quality = flags.Quality
	}
	if flags.LogLevel != "" {
		j.Logging.Level = flags.LogLevel
	}
	if flags.LogFile != "" {
		j.Logging.LogFile = flags.LogFile
	}

	if j.Quality <= 0 {
		j.Quality = 90
	}
	if j.Workers <= 0 {
		j.Workers = runtime.NumCPU()
	}
	if j.Logging.Level == "" {
		j.Logging.Level = "info"
	}
}

// Resolve applies render-setting overrides to every job. Paths stay per
// job. Jobs without their own worker count share the CPUs with the other
// jobs running at once, so row workers default to NumCPU divided by the
// batch's job workers.
func (b *Batch) Resolve(flags Flags) {
	if b.Workers <= 0 {
		b.Workers = 1
	}
	if flags.LogLevel != "" {
		b.Logging.Level = flags.LogLevel
	}
	if flags.LogFile != "" {
		b.Logging.LogFile = flags.LogFile
	}

	rows := max(1, runtime.NumCPU()/b.Workers)
	for _, j := range b.Jobs {
		if j.Workers <= 0 {
			j.Workers = rows
		}
		j.Resolve(Flags{
			Preview: flags.Preview,
			Workers: flags.Workers,
			Quality: flags.Quality,
		})
	}
}
