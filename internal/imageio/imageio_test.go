package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"lighting-renderer/internal/raster"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func gradient(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 60), B: 200, A: alpha})
		}
	}
	return img
}

func TestLoadDetectsChannels(t *testing.T) {
	dir := t.TempDir()

	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	gray.SetGray(1, 1, color.Gray{Y: 128})
	writePNG(t, filepath.Join(dir, "gray.png"), gray)
	writePNG(t, filepath.Join(dir, "rgb.png"), gradient(3, 2, 255))
	writePNG(t, filepath.Join(dir, "rgba.png"), gradient(3, 2, 100))

	tests := []struct {
		file  string
		alpha bool
		gray  bool
	}{
		{"gray.png", false, true},
		{"rgb.png", false, false},
		{"rgba.png", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			buf, err := Load(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if buf.Width() != 3 || buf.Height() != 2 {
				t.Errorf("size %dx%d, want 3x2", buf.Width(), buf.Height())
			}
			if buf.HasAlpha() != tt.alpha || buf.IsGray() != tt.gray {
				t.Errorf("alpha=%v gray=%v, want alpha=%v gray=%v",
					buf.HasAlpha(), buf.IsGray(), tt.alpha, tt.gray)
			}
		})
	}

	buf, err := Load(filepath.Join(dir, "gray.png"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := buf.Intensity(1, 1); got != 128 {
		t.Errorf("gray intensity = %d, want 128", got)
	}
}

func TestDecodeSniffsFormat(t *testing.T) {
	src := gradient(2, 2, 255)

	for _, format := range []string{".png", ".jpg", ".bmp", ".tif", ".webp"} {
		t.Run(format, func(t *testing.T) {
			var b bytes.Buffer
			if err := Encode(&b, src, format, 95); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			buf, err := Decode(&b, format)
			if err != nil {
				t.Fatalf("Decode(%s): %v", format, err)
			}
			if buf.Width() != 2 || buf.Height() != 2 || buf.HasAlpha() {
				t.Errorf("got %dx%d alpha=%v", buf.Width(), buf.Height(), buf.HasAlpha())
			}
		})
	}

	// The header decides, not the extension.
	var b bytes.Buffer
	if err := png.Encode(&b, src); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(&b, ".tga"); err != nil {
		t.Errorf("PNG data named .tga: %v", err)
	}
}

func TestDecodeTGA(t *testing.T) {
	// Uncompressed true-color 1x1, 24 bits, top-left origin.
	header := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 24, 0x20}
	data := append(header, 10, 20, 30) // BGR

	buf, err := Decode(bytes.NewReader(data), ".tga")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := buf.Img.NRGBAAt(0, 0)
	if got.R != 30 || got.G != 20 || got.B != 10 {
		t.Errorf("pixel = %v, want R30 G20 B10", got)
	}
}

func TestDecodeUnrecognised(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely not an image"), ".png")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestToNRGBARebasesOrigin(t *testing.T) {
	src := gradient(4, 4, 255).SubImage(image.Rect(1, 1, 3, 4)).(*image.NRGBA)
	dst := toNRGBA(src)
	if dst.Rect.Min != (image.Point{}) || dst.Rect.Dx() != 2 || dst.Rect.Dy() != 3 {
		t.Fatalf("unexpected bounds %v", dst.Rect)
	}
	if dst.NRGBAAt(0, 0) != src.NRGBAAt(1, 1) {
		t.Errorf("pixel moved: %v vs %v", dst.NRGBAAt(0, 0), src.NRGBAAt(1, 1))
	}
}

func TestSaveLosslessRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := gradient(5, 4, 255)

	for _, ext := range []string{".png", ".webp", ".tif", ".bmp"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "sub", "out"+ext)
			if err := Save(path, src, 90); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Width() != 5 || got.Height() != 4 {
				t.Fatalf("size %dx%d", got.Width(), got.Height())
			}
			for y := 0; y < 4; y++ {
				for x := 0; x < 5; x++ {
					if got.Img.NRGBAAt(x, y) != src.NRGBAAt(x, y) {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got.Img.NRGBAAt(x, y), src.NRGBAAt(x, y))
					}
				}
			}
		})
	}
}

func TestSaveJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := Save(path, gradient(8, 8, 255), 75); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Width() != 8 || got.HasAlpha() {
		t.Errorf("unexpected jpeg result %dx%d alpha=%v", got.Width(), got.Height(), got.HasAlpha())
	}
}

func TestSaveUnsupported(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "out.xcf"), gradient(1, 1, 255), 0)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "absent.png")); err == nil {
		t.Error("expected error for missing file")
	}
	junk := filepath.Join(dir, "junk.png")
	os.WriteFile(junk, []byte("not an image"), 0644)
	if _, err := Load(junk); err == nil {
		t.Error("expected decode error")
	}
}

func TestCacheLoadsOnce(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}
	c := NewCache()
	c.load = func(path string) (*raster.NRGBABuffer, error) {
		mu.Lock()
		calls[path]++
		mu.Unlock()
		if filepath.Base(path) == "bad.png" {
			return nil, errors.New("boom")
		}
		return raster.NewBuffer(2, 2), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get("maps/height.png"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	a, _ := c.Get("maps/./height.png")
	b, _ := c.Get("maps/height.png")
	if a != b {
		t.Error("cleaned paths should share an entry")
	}
	if _, err := c.Get("bad.png"); err == nil {
		t.Error("expected cached error")
	}
	if _, err := c.Get("bad.png"); err == nil {
		t.Error("expected cached error on second call")
	}
	if c.Len() != 2 {
		t.Errorf("cache holds %d entries, want 2", c.Len())
	}
	if calls["bad.png"] != 1 {
		t.Errorf("failed load retried %d times", calls["bad.png"])
	}
}
