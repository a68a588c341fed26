// Package imageio decodes source, bump and environment maps into raster
// buffers and encodes rendered results.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"lighting-renderer/internal/raster"
)

// ErrUnsupportedFormat is returned for extensions Save cannot encode and
// for input in no recognised format.
var ErrUnsupportedFormat = errors.New("imageio: unsupported format")

// Load decodes an image file. The buffer records whether the source had
// any translucent pixel and whether it was stored as grayscale.
func Load(path string) (*raster.NRGBABuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	buf, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return buf, nil
}

// decoder pairs a file signature with its decoder. A zero byte in magic
// matches any input byte.
type decoder struct {
	magic  string
	decode func(io.Reader) (image.Image, error)
}

// decoders are tried in order against the file header. The tga package
// registers itself with image.RegisterFormat under an empty signature,
// which would claim every input, so image.Decode is never used here.
var decoders = []decoder{
	{"\x89PNG\r\n\x1a\n", png.Decode},
	{"\xff\xd8", jpeg.Decode},
	{"GIF8", gif.Decode},
	{"BM", bmp.Decode},
	{"II*\x00", tiff.Decode},
	{"MM\x00*", tiff.Decode},
	{"RIFF\x00\x00\x00\x00WEBP", webp.Decode},
}

const headerLen = 12

// Decode reads an image from r. The format is sniffed from the header;
// input matching no known signature is decoded as TGA, which has none.
// ext is only used to report an unrecognised file.
func Decode(r io.Reader, ext string) (*raster.NRGBABuffer, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(headerLen)
	if err != nil && err != io.EOF {
		return nil, err
	}

	dec := tga.Decode
	for _, d := range decoders {
		if match(d.magic, header) {
			dec = d.decode
			break
		}
	}

	img, err := dec(br)
	if err != nil {
		if ext != "" && !strings.EqualFold(ext, ".tga") && !matchesAny(header) {
			return nil, fmt.Errorf("%w: unrecognised %s data: %v", ErrUnsupportedFormat, ext, err)
		}
		return nil, err
	}

	dst := toNRGBA(img)
	return raster.WrapNRGBA(dst, hasTranslucency(dst), isGrayModel(img)), nil
}

func match(magic string, header []byte) bool {
	if len(header) < len(magic) {
		return false
	}
	for i := 0; i < len(magic); i++ {
		if magic[i] != 0 && magic[i] != header[i] {
			return false
		}
	}
	return true
}

func matchesAny(header []byte) bool {
	for _, d := range decoders {
		if match(d.magic, header) {
			return true
		}
	}
	return false
}

// toNRGBA converts any image to a zero-origin NRGBA image.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		// Opaque models: a plain draw is exact.
		draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				i := dst.PixOffset(x, y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}

func hasTranslucency(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return true
		}
	}
	return false
}

func isGrayModel(img image.Image) bool {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	case *image.Paletted:
		for _, c := range m.Palette {
			r, g, b, _ := c.RGBA()
			if r != g || g != b {
				return false
			}
		}
		return len(m.Palette) > 0
	}
	return false
}
