package raster

import "image"

// Drawable is the pixel-buffer contract the renderer reads from and writes to.
// Coordinates are zero-based regardless of the underlying image bounds.
type Drawable interface {
	Width() int
	Height() int
	HasAlpha() bool
	IsGray() bool
	At(x, y int) Color
	Set(x, y int, c Color)
}

// NRGBABuffer adapts an *image.NRGBA to Drawable. The alpha and gray flags
// describe the image the pixels were decoded from, since NRGBA always stores
// four channels.
type NRGBABuffer struct {
	Img   *image.NRGBA
	Alpha bool
	Gray  bool
}

// NewBuffer allocates a zeroed, fully transparent buffer with an alpha channel.
func NewBuffer(w, h int) *NRGBABuffer {
	return &NRGBABuffer{
		Img:   image.NewNRGBA(image.Rect(0, 0, w, h)),
		Alpha: true,
	}
}

// WrapNRGBA wraps an existing image without copying.
func WrapNRGBA(img *image.NRGBA, hasAlpha, gray bool) *NRGBABuffer {
	return &NRGBABuffer{Img: img, Alpha: hasAlpha, Gray: gray}
}

func (b *NRGBABuffer) Width() int  { return b.Img.Rect.Dx() }
func (b *NRGBABuffer) Height() int { return b.Img.Rect.Dy() }

func (b *NRGBABuffer) HasAlpha() bool { return b.Alpha }
func (b *NRGBABuffer) IsGray() bool   { return b.Gray }

// At reads pixel (x, y). Accesses Pix directly for performance.
func (b *NRGBABuffer) At(x, y int) Color {
	i := y*b.Img.Stride + x*4
	p := b.Img.Pix[i : i+4 : i+4]
	return Color{
		R: float64(p[0]) / 255.0,
		G: float64(p[1]) / 255.0,
		B: float64(p[2]) / 255.0,
		A: float64(p[3]) / 255.0,
	}
}

// Set writes pixel (x, y), clamping channels to [0, 1].
func (b *NRGBABuffer) Set(x, y int, c Color) {
	i := y*b.Img.Stride + x*4
	n := c.NRGBA()
	p := b.Img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = n.R, n.G, n.B, n.A
}

// Intensity returns the 0–255 value used for height lookups: the gray level
// for gray images, otherwise the truncated mean of R, G and B.
func (b *NRGBABuffer) Intensity(x, y int) uint8 {
	i := y*b.Img.Stride + x*4
	p := b.Img.Pix[i : i+3 : i+3]
	if b.Gray {
		return p[0]
	}
	return uint8((int(p[0]) + int(p[1]) + int(p[2])) / 3)
}

// Intensity reads the height-lookup intensity from any Drawable, using the
// fast path when it is an NRGBABuffer.
func Intensity(d Drawable, x, y int) uint8 {
	if b, ok := d.(*NRGBABuffer); ok {
		return b.Intensity(x, y)
	}
	c := d.At(x, y)
	if d.IsGray() {
		return c.NRGBA().R
	}
	n := c.NRGBA()
	return uint8((int(n.R) + int(n.G) + int(n.B)) / 3)
}
