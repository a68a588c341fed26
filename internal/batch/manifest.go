package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestEntry describes one job in the output manifest.
type ManifestEntry struct {
	Name       string  `json:"name"`
	Input      string  `json:"input"`
	Output     string  `json:"output,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Bump       bool    `json:"bump"`
	Env        bool    `json:"env"`
	Error      string  `json:"error,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

// WriteManifest writes a JSON manifest of results to path. Output is only
// listed for successful jobs.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		e := ManifestEntry{
			Name:       r.Name,
			Input:      r.Input,
			Bump:       r.BumpUsed,
			Env:        r.EnvUsed,
			Error:      r.Error,
			DurationMS: float64(r.Duration.Microseconds()) / 1000,
		}
		if r.Success {
			e.Output = r.Output
			e.Width, e.Height = r.Width, r.Height
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: marshal manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Failed counts unsuccessful results.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Success {
			n++
		}
	}
	return n
}
