package postprocess

import (
	"lighting-renderer/internal/raster"
)

// Maps is the set of buffers one lighting pass reads.
type Maps struct {
	Source *raster.NRGBABuffer
	Bump   *raster.NRGBABuffer
	Env    *raster.NRGBABuffer
}

// Preview shrinks the maps for a reduced-size render. The bump map is
// scaled to exactly the new source size so the pair stays aligned; the
// environment map is addressed by direction and is left untouched. A bump
// map that did not match the source beforehand is passed through so the
// engine still rejects it.
func Preview(m Maps, maxDim int) Maps {
	if m.Source == nil {
		return m
	}
	sw, sh := m.Source.Width(), m.Source.Height()
	w, h := FitSize(sw, sh, maxDim)
	if w == sw && h == sh {
		return m
	}

	out := Maps{Env: m.Env, Bump: m.Bump}
	out.Source = raster.WrapNRGBA(Resize(m.Source.Img, w, h), m.Source.HasAlpha(), m.Source.IsGray())
	if m.Bump != nil && m.Bump.Width() == sw && m.Bump.Height() == sh {
		out.Bump = raster.WrapNRGBA(Resize(m.Bump.Img, w, h), m.Bump.HasAlpha(), m.Bump.IsGray())
	}
	return out
}
