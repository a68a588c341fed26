// Package postprocess resizes buffers around a lighting pass.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// FitSize scales w×h down so that the longer side is at most maxDim,
// keeping the aspect ratio. Sizes already within bounds, or maxDim <= 0,
// are returned unchanged.
func FitSize(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}
	if w >= h {
		return maxDim, max(1, (h*maxDim+w/2)/w)
	}
	return max(1, (w*maxDim+h/2)/h), maxDim
}

// Downsample shrinks img so its longer side is at most maxDim.
func Downsample(img *image.NRGBA, maxDim int) *image.NRGBA {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxDim)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return Resize(img, w, h)
}

// Resize scales img to exactly w×h with CatmullRom filtering in
// premultiplied alpha, so transparent pixels do not bleed dark fringes.
func Resize(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()

	premul := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			si := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			di := premul.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255.0
			premul.Pix[di] = uint8(float64(img.Pix[si])*a + 0.5)
			premul.Pix[di+1] = uint8(float64(img.Pix[si+1])*a + 0.5)
			premul.Pix[di+2] = uint8(float64(img.Pix[si+2])*a + 0.5)
			premul.Pix[di+3] = img.Pix[si+3]
		}
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	out := image.NewNRGBA(scaled.Bounds())
	for i := 0; i < len(scaled.Pix); i += 4 {
		a := float64(scaled.Pix[i+3])
		if a > 0 {
			inv := 255.0 / a
			out.Pix[i] = clamp8(float64(scaled.Pix[i]) * inv)
			out.Pix[i+1] = clamp8(float64(scaled.Pix[i+1]) * inv)
			out.Pix[i+2] = clamp8(float64(scaled.Pix[i+2]) * inv)
		}
		out.Pix[i+3] = scaled.Pix[i+3]
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
