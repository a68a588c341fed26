package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Save encodes img according to the extension of path, creating parent
// directories. Quality only affects JPEG output; WebP is lossless.
func Save(path string, img image.Image, quality int) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imageio: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	if err := Encode(f, img, ext, quality); err != nil {
		f.Close()
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	return f.Close()
}

// Supported reports whether Encode handles ext.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".webp", ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return true
	}
	return false
}

// Encode writes img in the format named by ext.
func Encode(w io.Writer, img image.Image, ext string, quality int) error {
	switch strings.ToLower(ext) {
	case ".webp":
		return nativewebp.Encode(w, img, nil)
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		if quality <= 0 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case ".bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}
