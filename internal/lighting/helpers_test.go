package lighting

import (
	"image"
	"math"
	"testing"

	"lighting-renderer/internal/mathutil"
	"lighting-renderer/internal/raster"
)

const tolerance = 1e-9

func solid(w, h int, c raster.Color) *raster.FloatBuffer {
	b := raster.NewFloatBuffer(w, h)
	b.Alpha = false
	b.Fill(c)
	return b
}

// grayMap builds a gray bump map whose intensity at (x, y) is f(x, y).
func grayMap(w, h int, f func(x, y int) uint8) *raster.NRGBABuffer {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := f(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
		}
	}
	return raster.WrapNRGBA(img, false, true)
}

func unlit() RenderConfig {
	cfg := DefaultRenderConfig()
	cfg.Lights = [NumLights]LightSource{}
	return cfg
}

func colorsClose(a, b raster.Color, tol float64) bool {
	return math.Abs(a.R-b.R) <= tol && math.Abs(a.G-b.G) <= tol &&
		math.Abs(a.B-b.B) <= tol && math.Abs(a.A-b.A) <= tol
}

func vecClose(a, b mathutil.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func assertColor(t *testing.T, what string, got, want raster.Color, tol float64) {
	t.Helper()
	if !colorsClose(got, want, tol) {
		t.Errorf("%s: got %+v, want %+v", what, got, want)
	}
}
