package lighting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"lighting-renderer/internal/mathutil"
	"lighting-renderer/internal/raster"
)

var (
	// ErrDimensionMismatch is returned when source and output sizes differ
	// or are empty.
	ErrDimensionMismatch = errors.New("lighting: source and output dimensions differ")

	// ErrEngineState is returned when Run is called on an engine that is not
	// in the Configured state.
	ErrEngineState = errors.New("lighting: engine is not configured")
)

// State is the lifecycle stage of an Engine.
type State int32

const (
	Uninitialized State = iota
	Configured
	Rendering
	Done
	Cancelled
)

func (s State) String() string {
	switch s {
	case Configured:
		return "configured"
	case Rendering:
		return "rendering"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	default:
		return "uninitialized"
	}
}

// ProgressFunc receives the fraction of scanlines finished, at most once
// per scanline. Calls are never concurrent.
type ProgressFunc func(fraction float64)

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithProgress installs a progress callback.
func WithProgress(p ProgressFunc) Option {
	return func(e *Engine) { e.progress = p }
}

// WithWorkers sets the number of row workers. 1 renders serially; values
// below 1 use runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		e.workers = n
	}
}

// Engine renders one lighting pass from src into dst.
type Engine struct {
	cfg RenderConfig

	src, bump, env, dst raster.Drawable

	width, height int
	invLong       float64
	offX, offY    float64

	bumpOn bool
	envOn  bool

	workers  int
	log      *zap.Logger
	progress ProgressFunc
	progMu   sync.Mutex
	rowsDone int

	state atomic.Int32
}

// NewEngine validates the buffers and configuration and returns a
// Configured engine. Mismatched bump or environment maps disable the
// respective feature instead of failing.
func NewEngine(cfg RenderConfig, src, bump, env, dst raster.Drawable, opts ...Option) (*Engine, error) {
	e := &Engine{
		src:     src,
		dst:     dst,
		workers: 1,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if src == nil || dst == nil {
		return nil, fmt.Errorf("%w: missing source or output buffer", ErrDimensionMismatch)
	}
	w, h := src.Width(), src.Height()
	if w <= 0 || h <= 0 || dst.Width() != w || dst.Height() != h {
		return nil, fmt.Errorf("%w: source %dx%d, output %dx%d",
			ErrDimensionMismatch, w, h, dst.Width(), dst.Height())
	}

	m, err := cfg.Material.sanitize()
	if err != nil {
		return nil, err
	}
	cfg.Material = m
	if cfg.PlaneNormal.IsZero() {
		cfg.PlaneNormal = mathutil.PlaneUp
	}
	e.cfg = cfg

	e.width, e.height = w, h
	long := float64(max(w, h))
	e.invLong = 1.0 / long
	e.offX = 0.5 * (1 - float64(w)/long)
	e.offY = 0.5 * (1 - float64(h)/long)

	if cfg.BumpEnabled {
		switch {
		case isNil(bump):
			e.log.Warn("bump mapping disabled: no bump map")
		case bump.Width() != w || bump.Height() != h:
			e.log.Warn("bump mapping disabled: size mismatch",
				zap.Int("bump_width", bump.Width()), zap.Int("bump_height", bump.Height()),
				zap.Int("width", w), zap.Int("height", h))
		default:
			e.bump = bump
			e.bumpOn = true
		}
	}

	if cfg.EnvEnabled {
		switch {
		case isNil(env):
			e.log.Warn("environment mapping disabled: no environment map")
		case env.IsGray() || env.HasAlpha():
			e.log.Warn("environment mapping disabled: map must be RGB without alpha",
				zap.Bool("gray", env.IsGray()), zap.Bool("alpha", env.HasAlpha()))
		case env.Width() <= 0 || env.Height() <= 0:
			e.log.Warn("environment mapping disabled: empty map")
		default:
			e.env = env
			e.envOn = true
		}
	}

	e.state.Store(int32(Configured))
	return e, nil
}

func isNil(d raster.Drawable) bool {
	if d == nil {
		return true
	}
	switch b := d.(type) {
	case *raster.NRGBABuffer:
		return b == nil
	case *raster.FloatBuffer:
		return b == nil
	}
	return false
}

// State returns the current lifecycle stage.
func (e *Engine) State() State { return State(e.state.Load()) }

// BumpEnabled reports whether bump mapping survived validation.
func (e *Engine) BumpEnabled() bool { return e.bumpOn }

// EnvEnabled reports whether environment mapping survived validation.
func (e *Engine) EnvEnabled() bool { return e.envOn }

// Config returns the sanitised configuration used for rendering.
func (e *Engine) Config() RenderConfig { return e.cfg }

// Position maps image coordinates to the unit scene square. The longer
// image side spans [0, 1]; the shorter one is centred.
func (e *Engine) Position(u, v float64) mathutil.Vec3 {
	return mathutil.Vec3{
		u*e.invLong + e.offX,
		v*e.invLong + e.offY,
		0,
	}
}

// Run renders every scanline. It may be called once. When ctx is
// cancelled the output is left partially written, the engine ends in
// Cancelled and ctx.Err() is returned.
func (e *Engine) Run(ctx context.Context) error {
	if !e.state.CompareAndSwap(int32(Configured), int32(Rendering)) {
		return fmt.Errorf("%w: state %s", ErrEngineState, e.State())
	}

	start := time.Now()
	var err error
	if e.workers > 1 && e.height > 1 {
		err = e.runParallel(ctx)
	} else {
		err = e.runSerial(ctx)
	}

	if err != nil {
		e.state.Store(int32(Cancelled))
		e.log.Debug("render aborted", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return err
	}
	e.state.Store(int32(Done))
	e.log.Debug("render finished",
		zap.Int("width", e.width), zap.Int("height", e.height),
		zap.Int("workers", e.workers),
		zap.Bool("bump", e.bumpOn), zap.Bool("env", e.envOn),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (e *Engine) runSerial(ctx context.Context) error {
	var hf *HeightField
	var nf *NormalField
	if e.bumpOn {
		hf = NewHeightField(e.width, e.height, e.cfg.BumpCurve, e.cfg.BumpMaxHeight)
		nf = NewNormalField(e.width, e.height, e.cfg.PlaneNormal)
	}

	for y := 0; y < e.height; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var normals []mathutil.Vec3
		var heights []float64
		if e.bumpOn {
			shifted := hf.Advance(e.bump, y)
			nf.Recompute(hf, y, shifted)
			normals = nf.Row()
			heights = hf.Cur()
		}

		e.shadeRow(y, normals, heights)
		e.rowDone()
	}
	return nil
}

// runParallel precomputes the whole normal field, then shades rows on a
// worker pool. Each row is written by exactly one worker.
func (e *Engine) runParallel(ctx context.Context) error {
	var normals [][]mathutil.Vec3
	var heights [][]float64
	if e.bumpOn {
		normals = make([][]mathutil.Vec3, e.height)
		heights = make([][]float64, e.height)
		hf := NewHeightField(e.width, e.height, e.cfg.BumpCurve, e.cfg.BumpMaxHeight)
		nf := NewNormalField(e.width, e.height, e.cfg.PlaneNormal)
		for y := 0; y < e.height; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			shifted := hf.Advance(e.bump, y)
			nf.Recompute(hf, y, shifted)
			normals[y] = append([]mathutil.Vec3(nil), nf.Row()...)
			heights[y] = append([]float64(nil), hf.Cur()...)
		}
	}

	rows := make(chan int, e.workers*2)
	var wg sync.WaitGroup

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				if ctx.Err() != nil {
					continue
				}
				if e.bumpOn {
					e.shadeRow(y, normals[y], heights[y])
				} else {
					e.shadeRow(y, nil, nil)
				}
				e.rowDone()
			}
		}()
	}

	for y := 0; y < e.height; y++ {
		if ctx.Err() != nil {
			break
		}
		rows <- y
	}
	close(rows)
	wg.Wait()

	if err := ctx.Err(); err != nil && e.finished() < e.height {
		return err
	}
	return nil
}

// rowDone counts a finished scanline and reports progress.
func (e *Engine) rowDone() int {
	e.progMu.Lock()
	defer e.progMu.Unlock()
	e.rowsDone++
	if e.progress != nil {
		e.progress(float64(e.rowsDone) / float64(e.height))
	}
	return e.rowsDone
}

func (e *Engine) finished() int {
	e.progMu.Lock()
	defer e.progMu.Unlock()
	return e.rowsDone
}

// shadeRow renders scanline y. normals and heights are nil without bump
// mapping.
func (e *Engine) shadeRow(y int, normals []mathutil.Vec3, heights []float64) {
	fy := float64(y)
	for x := 0; x < e.width; x++ {
		var c raster.Color
		if e.cfg.Antialiasing {
			c = e.supersample(x, y, normals, heights)
		} else {
			normal := e.cfg.PlaneNormal
			height := -1.0
			if normals != nil {
				normal = normals[x]
				height = heights[x]
			}
			c = e.shade(float64(x), fy, normal, height)
		}
		e.dst.Set(x, y, c)
	}
}

// shade computes the final color at image coordinate (u, v). height is the
// bump elevation under the sample, or negative without bump mapping.
func (e *Engine) shade(u, v float64, normal mathutil.Vec3, height float64) raster.Color {
	var base raster.Color
	var inside bool
	if e.cfg.Antialiasing {
		base, inside = raster.Bilinear(e.src, u, v)
	} else {
		base, inside = raster.Nearest(e.src, u, v)
	}

	if e.cfg.TransparentBackground && (!inside || height == 0) {
		return raster.Transparent
	}

	m := e.cfg.Material
	pos := e.Position(u, v)
	sum := raster.Color{
		R: base.R * m.AmbientInt,
		G: base.G * m.AmbientInt,
		B: base.B * m.AmbientInt,
	}

	for i := range e.cfg.Lights {
		light := e.cfg.Lights[i]
		if !light.Enabled() {
			continue
		}
		sum = sum.Add(Shade(pos, e.cfg.Viewpoint, normal, light, base, m))
	}

	if e.envOn {
		view := e.cfg.Viewpoint.Sub(pos).Normalize()
		r := view.Reflect(normal).Normalize()
		ec := raster.EnvLookup(e.env, r, e.cfg.Antialiasing)
		sum = sum.Add(environmentTerm(pos, e.cfg.Viewpoint, normal, r, ec, m))
	}

	sum = sum.Clamp()
	sum.A = base.A
	return sum
}

// supersample adaptively antialiases pixel (x, y): the pixel square is
// split while its corner colors differ by more than AAThreshold and the
// depth limit is not reached.
func (e *Engine) supersample(x, y int, normals []mathutil.Vec3, heights []float64) raster.Color {
	x0, y0 := float64(x)-0.5, float64(y)-0.5
	x1, y1 := x0+1, y0+1
	c00 := e.sampleAt(x0, y0, normals, heights)
	c10 := e.sampleAt(x1, y0, normals, heights)
	c01 := e.sampleAt(x0, y1, normals, heights)
	c11 := e.sampleAt(x1, y1, normals, heights)
	return e.subdivide(x0, y0, x1, y1, c00, c10, c01, c11, 0, normals, heights)
}

func (e *Engine) subdivide(x0, y0, x1, y1 float64, c00, c10, c01, c11 raster.Color, depth int, normals []mathutil.Vec3, heights []float64) raster.Color {
	if depth >= e.cfg.AAMaxDepth || maxSpread(c00, c10, c01, c11) <= e.cfg.AAThreshold {
		return average(c00, c10, c01, c11)
	}

	mx, my := 0.5*(x0+x1), 0.5*(y0+y1)
	cT := e.sampleAt(mx, y0, normals, heights)
	cL := e.sampleAt(x0, my, normals, heights)
	cM := e.sampleAt(mx, my, normals, heights)
	cR := e.sampleAt(x1, my, normals, heights)
	cB := e.sampleAt(mx, y1, normals, heights)

	d := depth + 1
	return average(
		e.subdivide(x0, y0, mx, my, c00, cT, cL, cM, d, normals, heights),
		e.subdivide(mx, y0, x1, my, cT, c10, cM, cR, d, normals, heights),
		e.subdivide(x0, my, mx, y1, cL, cM, c01, cB, d, normals, heights),
		e.subdivide(mx, my, x1, y1, cM, cR, cB, c11, d, normals, heights),
	)
}

// sampleAt shades a sub-pixel position, clamped into the image. Normals
// come from the current scanline, interpolated across columns.
func (e *Engine) sampleAt(u, v float64, normals []mathutil.Vec3, heights []float64) raster.Color {
	u = mathutil.Clamp(u, 0, float64(e.width-1))
	v = mathutil.Clamp(v, 0, float64(e.height-1))

	normal := e.cfg.PlaneNormal
	height := -1.0
	if normals != nil {
		normal = NormalAt(normals, u)
		height = heights[int(math.Floor(u+0.5))]
	}
	return e.shade(u, v, normal, height)
}

func maxSpread(cs ...raster.Color) float64 {
	var d float64
	for i := 0; i < len(cs); i++ {
		for j := i + 1; j < len(cs); j++ {
			if v := cs[i].MaxDelta(cs[j]); v > d {
				d = v
			}
		}
	}
	return d
}

func average(cs ...raster.Color) raster.Color {
	var sum raster.Color
	for _, c := range cs {
		sum = sum.Add(c)
	}
	return sum.Scale(1.0 / float64(len(cs)))
}
