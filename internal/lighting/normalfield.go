package lighting

import (
	"math"

	"lighting-renderer/internal/mathutil"
)

// NormalField holds the vertex normals of the scanline being shaded.
//
// Each pixel quad of the height field is split into two triangles. The
// triangle normals of the row pair above the scanline (previous, current)
// and below it (current, next) are kept in a ring of two, so a sequential
// advance only computes the new lower row.
type NormalField struct {
	width, height int
	xstep, ystep  float64
	plane         mathutil.Vec3

	tris  [2][]mathutil.Vec3
	above int // slot of the upper triangle row

	normals []mathutil.Vec3
}

// NewNormalField allocates buffers for a width×height image. Until the
// first Recompute every normal equals plane.
func NewNormalField(width, height int, plane mathutil.Vec3) *NormalField {
	nf := &NormalField{
		width:   width,
		height:  height,
		xstep:   1.0 / float64(width),
		ystep:   1.0 / float64(height),
		plane:   plane,
		normals: make([]mathutil.Vec3, width),
	}
	quads := width - 1
	if quads < 0 {
		quads = 0
	}
	for i := range nf.tris {
		nf.tris[i] = make([]mathutil.Vec3, 2*quads)
	}
	nf.Flat()
	return nf
}

// Flat sets every normal to the plane normal.
func (nf *NormalField) Flat() {
	for i := range nf.normals {
		nf.normals[i] = nf.plane
	}
}

// Row returns the normals of the current scanline. The slice is reused by
// the next Recompute.
func (nf *NormalField) Row() []mathutil.Vec3 { return nf.normals }

// Normal returns the vertex normal of column x.
func (nf *NormalField) Normal(x int) mathutil.Vec3 {
	if x < 0 {
		x = 0
	}
	if x >= nf.width {
		x = nf.width - 1
	}
	return nf.normals[x]
}

// NormalAt interpolates between the two columns around u.
func NormalAt(row []mathutil.Vec3, u float64) mathutil.Vec3 {
	w := len(row)
	fx := mathutil.Clamp(u, 0, float64(w-1))
	x0 := int(math.Floor(fx))
	x1 := x0 + 1
	if x1 >= w {
		return row[x0]
	}
	n := row[x0].Lerp(row[x1], fx-float64(x0)).Normalize()
	if n.IsZero() {
		return row[x0]
	}
	return n
}

// Recompute derives the vertex normals of scanline y from hf, which must
// already be positioned on y. shifted tells whether hf was advanced by
// exactly one scanline since the previous call, in which case the old lower
// triangle row is reused as the upper one.
func (nf *NormalField) Recompute(hf *HeightField, y int, shifted bool) {
	if shifted {
		nf.above ^= 1
	} else {
		nf.triangles(nf.tris[nf.above], hf.Prev(), hf.Cur())
	}
	nf.triangles(nf.tris[nf.above^1], hf.Cur(), hf.Next())

	up := nf.tris[nf.above]
	down := nf.tris[nf.above^1]
	hasUp := y > 0
	hasDown := y < nf.height-1

	for n := 0; n < nf.width; n++ {
		var sum mathutil.Vec3
		nv := 0

		if n > 0 {
			i := 2 * (n - 1)
			if hasUp {
				sum = sum.Add(up[i]).Add(up[i+1])
				nv += 2
			}
			if hasDown {
				sum = sum.Add(down[i+1])
				nv++
			}
		}
		if n < nf.width-1 {
			i := 2 * n
			if hasUp {
				sum = sum.Add(up[i]).Add(up[i+1])
				nv += 2
			}
			if hasDown {
				sum = sum.Add(down[i]).Add(down[i+1])
				nv += 2
			}
		}

		if nv == 0 {
			nf.normals[n] = nf.plane
			continue
		}
		normal := sum.Scale(1.0 / float64(nv)).Normalize()
		if normal.IsZero() {
			normal = nf.plane
		}
		nf.normals[n] = normal
	}
}

// triangles fills dst with two normals per quad of the row pair (top, bottom).
func (nf *NormalField) triangles(dst []mathutil.Vec3, top, bottom []float64) {
	for n := 0; n < nf.width-1; n++ {
		p1 := mathutil.Vec3{0, nf.ystep, bottom[n] - top[n]}
		p2 := mathutil.Vec3{nf.xstep, nf.ystep, bottom[n+1] - top[n]}
		p3 := mathutil.Vec3{nf.xstep, 0, top[n+1] - top[n]}

		dst[2*n] = p2.Cross(p1).Normalize()
		dst[2*n+1] = p3.Cross(p2).Normalize()
	}
}
