package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lighting-renderer/internal/batch"
	"lighting-renderer/internal/config"
	"lighting-renderer/internal/imageio"
	"lighting-renderer/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "Path to a job YAML file")
	jobsFile := flag.String("jobs", "", "Path to a batch YAML file listing several jobs")
	input := flag.String("input", "", "Source image")
	bump := flag.String("bump", "", "Bump map (enables bump mapping)")
	env := flag.String("env", "", "Environment map (enables environment mapping)")
	output := flag.String("output", "", "Output image (.webp, .png, .jpg, .tif, .bmp)")
	presetFile := flag.String("preset", "", "Light preset to load")
	savePreset := flag.String("save-preset", "", "Write the light table to this preset file")
	preview := flag.Int("preview", 0, "Render at most this many pixels on the longer side")
	workers := flag.Int("workers", 0, "Row workers per render (default: NumCPU)")
	quality := flag.Int("quality", 0, "JPEG quality 1-100 (default: 90)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	logFile := flag.String("log-file", "", "Also log to this rotated file")
	saveConfig := flag.String("save-config", "", "Write the resolved job to this YAML file")

	flag.Parse()

	flags := config.Flags{
		Input:      *input,
		Output:     *output,
		BumpMap:    *bump,
		EnvMap:     *env,
		Preset:     *presetFile,
		SavePreset: *savePreset,
		Preview:    *preview,
		Workers:    *workers,
		Quality:    *quality,
		LogLevel:   *logLevel,
		LogFile:    *logFile,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var code int
	if *jobsFile != "" {
		code = runBatch(ctx, *jobsFile, flags)
	} else {
		code = runSingle(ctx, *configFile, *saveConfig, flags)
	}
	logger.Sync()
	os.Exit(code)
}

func initLogging(level, file string) {
	if err := logger.Init(level, file); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}

func runSingle(ctx context.Context, configFile, saveConfig string, flags config.Flags) int {
	job := config.Default()
	if configFile != "" {
		var err error
		job, err = config.Load(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}
	job.Resolve(flags)
	if job.Name == "" {
		job.Name = filepath.Base(job.Input)
	}
	initLogging(job.Logging.Level, job.Logging.LogFile)

	log := logger.Named("lighting")
	if saveConfig != "" {
		if err := job.SaveTo(saveConfig); err != nil {
			log.Error("saving config failed", zap.Error(err))
			return 1
		}
		log.Info("config saved", zap.String("path", saveConfig))
	}
	last := -1
	res := batch.RenderJob(ctx, batch.Config{
		Logger: log,
		Progress: func(_ string, f float64) {
			if pct := int(f * 10); pct > last {
				last = pct
				log.Debug("rendering", zap.Int("percent", pct*10))
			}
		},
	}, job)

	if !res.Success {
		log.Error("render failed", zap.String("job", res.Name), zap.String("error", res.Error))
		return 1
	}
	log.Info("rendered",
		zap.String("output", res.Output),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Bool("bump", res.BumpUsed),
		zap.Bool("env", res.EnvUsed),
		zap.Duration("elapsed", res.Duration))
	return 0
}

func runBatch(ctx context.Context, jobsFile string, flags config.Flags) int {
	b, err := config.LoadBatch(jobsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading jobs: %v\n", err)
		return 1
	}

	b.Resolve(flags)
	initLogging(b.Logging.Level, b.Logging.LogFile)
	log := logger.Named("batch")

	if len(b.Jobs) == 0 {
		log.Info("no jobs to render")
		return 0
	}

	jobWorkers := b.Workers
	log.Info("starting batch",
		zap.String("file", jobsFile),
		zap.Int("jobs", len(b.Jobs)),
		zap.Int("workers", jobWorkers))

	start := time.Now()
	results := batch.Run(ctx, batch.Config{
		Workers: jobWorkers,
		Cache:   imageio.NewCache(),
		Logger:  log,
	}, b.Jobs)

	failed := batch.Failed(results)
	log.Info("done",
		zap.Int("rendered", len(results)-failed),
		zap.Int("total", len(results)),
		zap.Duration("elapsed", time.Since(start)))

	limit := 20
	for _, r := range results {
		if r.Success {
			continue
		}
		if limit == 0 {
			break
		}
		limit--
		log.Warn("job failed", zap.String("job", r.Name), zap.String("error", r.Error))
	}

	if b.Manifest != "" {
		if err := batch.WriteManifest(b.Manifest, results); err != nil {
			log.Warn("manifest write failed", zap.Error(err))
		} else {
			log.Info("manifest written", zap.String("path", b.Manifest))
		}
	}

	if failed > 0 {
		return 1
	}
	return 0
}
