package raster

import "image"

// FloatBuffer is a Drawable that stores full-precision colors. Writes are
// clamped to [0, 1] like the 8-bit buffer, but not quantised.
type FloatBuffer struct {
	W, H  int
	Pix   []Color
	Alpha bool
	Gray  bool
}

// NewFloatBuffer allocates a transparent w×h buffer.
func NewFloatBuffer(w, h int) *FloatBuffer {
	return &FloatBuffer{W: w, H: h, Pix: make([]Color, w*h), Alpha: true}
}

func (b *FloatBuffer) Width() int     { return b.W }
func (b *FloatBuffer) Height() int    { return b.H }
func (b *FloatBuffer) HasAlpha() bool { return b.Alpha }
func (b *FloatBuffer) IsGray() bool   { return b.Gray }

func (b *FloatBuffer) At(x, y int) Color { return b.Pix[y*b.W+x] }

func (b *FloatBuffer) Set(x, y int, c Color) { b.Pix[y*b.W+x] = c.Clamp() }

// Fill sets every pixel to c.
func (b *FloatBuffer) Fill(c Color) {
	c = c.Clamp()
	for i := range b.Pix {
		b.Pix[i] = c
	}
}

// NRGBA quantises the buffer to an 8-bit image.
func (b *FloatBuffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			n := b.Pix[y*b.W+x].NRGBA()
			i := y*img.Stride + x*4
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = n.R, n.G, n.B, n.A
		}
	}
	return img
}
