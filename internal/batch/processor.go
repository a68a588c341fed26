// Package batch renders lighting jobs concurrently.
package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"lighting-renderer/internal/config"
	"lighting-renderer/internal/imageio"
	"lighting-renderer/internal/lighting"
	"lighting-renderer/internal/postprocess"
	"lighting-renderer/internal/preset"
	"lighting-renderer/internal/raster"
)

// Config holds the resources shared by every job of a run.
type Config struct {
	Workers int
	// Cache shares bump and environment maps between jobs; nil disables
	// sharing.
	Cache  *imageio.Cache
	Logger *zap.Logger
	// Progress, when set, receives per-job scanline progress.
	Progress func(job string, fraction float64)
	// ProgressInterval is the period of the aggregate progress log line.
	ProgressInterval time.Duration
}

// Result holds the outcome of one job.
type Result struct {
	Name     string
	Input    string
	Output   string
	Width    int
	Height   int
	BumpUsed bool
	EnvUsed  bool
	Success  bool
	Error    string
	Duration time.Duration
}

// Run renders all jobs with a worker pool. Results keep the order of jobs.
// Jobs not started before ctx is cancelled fail with the context error.
func Run(ctx context.Context, cfg Config, jobs []*config.Job) []Result {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	interval := cfg.ProgressInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	total := len(jobs)
	results := make([]Result, total)
	var processed, failed atomic.Int64
	start := time.Now()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					log.Info("progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Int64("failed", failed.Load()),
						zap.Float64("jobs_per_sec", float64(p)/time.Since(start).Seconds()))
				}
			}
		}
	}()

	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				job := jobs[idx]
				if err := ctx.Err(); err != nil {
					results[idx] = failure(job, err, 0)
				} else {
					results[idx] = RenderJob(ctx, cfg, job)
				}
				if !results[idx].Success {
					failed.Add(1)
				}
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)
	wg.Wait()
	close(done)

	log.Info("batch finished",
		zap.Int("total", total),
		zap.Int64("failed", failed.Load()),
		zap.Duration("elapsed", time.Since(start)))
	return results
}

// RenderJob runs one job end to end: load maps, light, save.
func RenderJob(ctx context.Context, cfg Config, job *config.Job) Result {
	start := time.Now()
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("job", job.Name))

	if err := job.Validate(); err != nil {
		return failure(job, err, time.Since(start))
	}
	rc, err := job.RenderConfig()
	if err != nil {
		return failure(job, err, time.Since(start))
	}

	src, err := imageio.Load(job.Input)
	if err != nil {
		return failure(job, err, time.Since(start))
	}
	maps := postprocess.Maps{Source: src}
	if rc.BumpEnabled && job.BumpMap != "" {
		if maps.Bump, err = loadShared(cfg.Cache, job.BumpMap); err != nil {
			return failure(job, err, time.Since(start))
		}
	}
	if rc.EnvEnabled && job.EnvMap != "" {
		if maps.Env, err = loadShared(cfg.Cache, job.EnvMap); err != nil {
			return failure(job, err, time.Since(start))
		}
	}
	maps = postprocess.Preview(maps, job.Preview)

	dst := raster.NewBuffer(maps.Source.Width(), maps.Source.Height())
	opts := []lighting.Option{
		lighting.WithLogger(log),
		lighting.WithWorkers(job.Workers),
	}
	if cfg.Progress != nil {
		name := job.Name
		opts = append(opts, lighting.WithProgress(func(f float64) { cfg.Progress(name, f) }))
	}

	eng, err := lighting.NewEngine(rc, maps.Source, maps.Bump, maps.Env, dst, opts...)
	if err != nil {
		return failure(job, err, time.Since(start))
	}
	if err := eng.Run(ctx); err != nil {
		return failure(job, err, time.Since(start))
	}

	if err := imageio.Save(job.Output, dst.Img, job.Quality); err != nil {
		return failure(job, err, time.Since(start))
	}
	if job.SavePreset != "" {
		if err := preset.Save(job.SavePreset, rc.Lights); err != nil {
			return failure(job, err, time.Since(start))
		}
	}

	res := Result{
		Name:     job.Name,
		Input:    job.Input,
		Output:   job.Output,
		Width:    dst.Width(),
		Height:   dst.Height(),
		BumpUsed: eng.BumpEnabled(),
		EnvUsed:  eng.EnvEnabled(),
		Success:  true,
		Duration: time.Since(start),
	}
	log.Debug("job rendered",
		zap.String("output", res.Output),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Duration("elapsed", res.Duration))
	return res
}

func loadShared(c *imageio.Cache, path string) (*raster.NRGBABuffer, error) {
	if c == nil {
		return imageio.Load(path)
	}
	return c.Get(path)
}

func failure(job *config.Job, err error, d time.Duration) Result {
	return Result{
		Name:     job.Name,
		Input:    job.Input,
		Output:   job.Output,
		Error:    fmt.Sprint(err),
		Duration: d,
	}
}
