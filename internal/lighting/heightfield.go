package lighting

import "lighting-renderer/internal/raster"

// HeightField keeps the three bump-map rows around the scanline being
// shaded: previous (y-1), current (y) and next (y+1). The rows live in a
// ring of three slots; advancing one scanline moves the ring offset instead
// of copying.
type HeightField struct {
	width, height int
	maxHeight     float64
	curve         *curveTable

	rows [3][]float64
	base int // slot holding the previous row
	last int // scanline of the last Advance, -1 before the first
}

// NewHeightField allocates zeroed rows for a width×height bump map.
func NewHeightField(width, height int, curve BumpCurve, maxHeight float64) *HeightField {
	hf := &HeightField{
		width:     width,
		height:    height,
		maxHeight: maxHeight,
		curve:     curveFor(curve),
		last:      -1,
	}
	for i := range hf.rows {
		hf.rows[i] = make([]float64, width)
	}
	return hf
}

func (hf *HeightField) Prev() []float64 { return hf.rows[hf.base] }
func (hf *HeightField) Cur() []float64  { return hf.rows[(hf.base+1)%3] }
func (hf *HeightField) Next() []float64 { return hf.rows[(hf.base+2)%3] }

// Height converts a 0–255 bump intensity to an elevation.
func (hf *HeightField) Height(intensity uint8) float64 {
	return hf.maxHeight * hf.curve[intensity] / 255.0
}

// Advance positions the field on scanline y. A call for the scanline right
// after the previous one rotates the ring and loads only row y+1; any other
// call reloads all three rows. It reports whether the ring was rotated.
// With a nil bump map nothing happens and every height stays 0.
func (hf *HeightField) Advance(bump raster.Drawable, y int) bool {
	if bump == nil {
		return false
	}

	if hf.last >= 0 && y == hf.last+1 {
		hf.base = (hf.base + 1) % 3
		hf.load(bump, hf.Next(), y+1)
		hf.last = y
		return true
	}

	hf.load(bump, hf.Prev(), y-1)
	hf.load(bump, hf.Cur(), y)
	hf.load(bump, hf.Next(), y+1)
	hf.last = y
	return false
}

// load fills dst from bump row y, reusing the nearest valid row outside
// the map.
func (hf *HeightField) load(bump raster.Drawable, dst []float64, y int) {
	if y < 0 {
		y = 0
	}
	if y > hf.height-1 {
		y = hf.height - 1
	}
	for x := range dst {
		dst[x] = hf.Height(raster.Intensity(bump, x, y))
	}
}
