// Package preset reads and writes light-table presets in the plug-in's
// line-oriented text format:
//
//	Number of lights: N
//	Type: Point|Directional|Spot
//	Position: x y z
//	Direction: x y z
//	Color: r g b
//	Intensity: v
//
// with the last five lines repeated for each of the N lights.
package preset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lighting-renderer/internal/lighting"
	"lighting-renderer/internal/mathutil"
	"lighting-renderer/internal/raster"
)

var (
	ErrUnknownLightType = errors.New("preset: unknown light type")
	ErrTooManyLights    = errors.New("preset: too many lights")
	ErrMalformed        = errors.New("preset: malformed line")
)

// Write stores every non-empty light slot.
func Write(w io.Writer, lights [lighting.NumLights]lighting.LightSource) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Number of lights: %d\n", lighting.CountLights(lights))

	for _, l := range lights {
		if l.Kind() == lighting.NoLight {
			continue
		}
		p, d := l.Position(), l.Direction()
		fmt.Fprintf(bw, "Type: %s\n", l.Kind())
		fmt.Fprintf(bw, "Position: %s %s %s\n", ftoa(p[0]), ftoa(p[1]), ftoa(p[2]))
		fmt.Fprintf(bw, "Direction: %s %s %s\n", ftoa(d[0]), ftoa(d[1]), ftoa(d[2]))
		fmt.Fprintf(bw, "Color: %s %s %s\n", ftoa(l.Color.R), ftoa(l.Color.G), ftoa(l.Color.B))
		fmt.Fprintf(bw, "Intensity: %s\n", ftoa(l.Intensity))
	}
	return bw.Flush()
}

// Read parses a preset. Slots past the stored lights are left empty and
// every loaded light is active.
func Read(r io.Reader) ([lighting.NumLights]lighting.LightSource, error) {
	var lights [lighting.NumLights]lighting.LightSource
	s := &scanner{sc: bufio.NewScanner(r)}

	n, err := s.count("Number of lights")
	if err != nil {
		return lights, err
	}
	if n < 0 {
		return lights, fmt.Errorf("%w: negative light count %d", ErrMalformed, n)
	}
	if n > lighting.NumLights {
		return lights, fmt.Errorf("%w: %d (max %d)", ErrTooManyLights, n, lighting.NumLights)
	}

	for k := 0; k < n; k++ {
		typ, err := s.field("Type")
		if err != nil {
			return lights, err
		}
		kind, err := lighting.ParseLightKind(typ)
		if err != nil || kind == lighting.NoLight {
			return lights, fmt.Errorf("%w: %q", ErrUnknownLightType, typ)
		}

		pos, err := s.vec("Position")
		if err != nil {
			return lights, err
		}
		dir, err := s.vec("Direction")
		if err != nil {
			return lights, err
		}
		rgb, err := s.vec("Color")
		if err != nil {
			return lights, err
		}
		intensity, err := s.float("Intensity")
		if err != nil {
			return lights, err
		}

		c := raster.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 1}
		lights[k] = lighting.NewLight(kind, pos, dir, c, intensity)
	}
	return lights, nil
}

// Load reads a preset file.
func Load(path string) ([lighting.NumLights]lighting.LightSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return [lighting.NumLights]lighting.LightSource{}, fmt.Errorf("preset: open %s: %w", path, err)
	}
	defer f.Close()

	lights, err := Read(f)
	if err != nil {
		return lights, fmt.Errorf("preset: %s: %w", path, err)
	}
	return lights, nil
}

// Save writes a preset file, creating parent directories.
func Save(path string, lights [lighting.NumLights]lighting.LightSource) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preset: create %s: %w", path, err)
	}
	if err := Write(f, lights); err != nil {
		f.Close()
		return fmt.Errorf("preset: write %s: %w", path, err)
	}
	return f.Close()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// scanner yields "Key: value" lines, skipping blanks.
type scanner struct {
	sc   *bufio.Scanner
	line int
}

func (s *scanner) field(key string) (string, error) {
	for s.sc.Scan() {
		s.line++
		text := strings.TrimSpace(s.sc.Text())
		if text == "" {
			continue
		}
		k, v, ok := strings.Cut(text, ":")
		if !ok || strings.TrimSpace(k) != key {
			return "", fmt.Errorf("%w: line %d: expected %q, got %q", ErrMalformed, s.line, key, text)
		}
		return strings.TrimSpace(v), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: unexpected end of file, expected %q", ErrMalformed, key)
}

func (s *scanner) count(key string) (int, error) {
	v, err := s.field(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s: %v", ErrMalformed, s.line, key, err)
	}
	return n, nil
}

func (s *scanner) float(key string) (float64, error) {
	v, err := s.field(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s: %v", ErrMalformed, s.line, key, err)
	}
	return f, nil
}

func (s *scanner) vec(key string) (mathutil.Vec3, error) {
	v, err := s.field(key)
	if err != nil {
		return mathutil.Vec3{}, err
	}
	parts := strings.Fields(v)
	if len(parts) != 3 {
		return mathutil.Vec3{}, fmt.Errorf("%w: line %d: %s needs 3 values, got %d", ErrMalformed, s.line, key, len(parts))
	}
	var out mathutil.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return mathutil.Vec3{}, fmt.Errorf("%w: line %d: %s: %v", ErrMalformed, s.line, key, err)
		}
		out[i] = f
	}
	return out, nil
}
