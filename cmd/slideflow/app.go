package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/align"
	"github.com/nguyentantai21042004/slide-flow/internal/config"
	"github.com/nguyentantai21042004/slide-flow/internal/jobstore"
	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
	"github.com/nguyentantai21042004/slide-flow/internal/lock"
	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/nguyentantai21042004/slide-flow/internal/metrics"
	"github.com/nguyentantai21042004/slide-flow/internal/processor"
	"github.com/nguyentantai21042004/slide-flow/internal/storage"
	"github.com/nguyentantai21042004/slide-flow/internal/tracing"
	"github.com/nguyentantai21042004/slide-flow/internal/transcript"
	"github.com/nguyentantai21042004/slide-flow/internal/video"
	"github.com/nguyentantai21042004/slide-flow/pkg/executor"
)

// newExtractor builds the keyframe extractor. A positive threshold skips
// the adaptive estimate.
func newExtractor(cfg *config.Config, exec executor.Executor, threshold float64, log logger.Logger) keyframe.Extractor {
	decoder := video.New(exec, cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath)
	return keyframe.New(decoder, keyframe.Options{
		Interval:     cfg.Keyframe.CaptureInterval,
		MaxKeyframes: cfg.Keyframe.MaxKeyframes,
		SampleCount:  cfg.Keyframe.SampleCount,
		Threshold:    threshold,
		ImageExt:     cfg.Keyframe.ImageExt,
		JPEGQuality:  cfg.Keyframe.JPEGQuality,
	}, log)
}

// newTranscriber builds the configured engine once. The returned close
// releases it.
func newTranscriber(cfg *config.Config, exec executor.Executor, log logger.Logger) (transcript.Service, func() error, error) {
	engine, err := transcript.NewEngine(cfg.ASR, exec, cfg.Paths.Temp, log)
	if err != nil {
		return nil, nil, fmt.Errorf("create asr engine: %w", err)
	}

	svc, err := transcript.New(engine, exec, transcript.ServiceOptions{
		Language:   cfg.ASR.Language,
		FFmpegPath: cfg.FFmpeg.FFmpegPath,
		TempDir:    cfg.Paths.Temp,
		Timeout:    cfg.ASRTimeout(),
	}, log)
	if err != nil {
		engine.Close()
		return nil, nil, err
	}
	return svc, engine.Close, nil
}

func newGenerator(cfg *config.Config, log logger.Logger) align.Generator {
	return align.New(align.Options{
		Tolerance:  cfg.Align.ToleranceSeconds,
		ExportDocx: cfg.Align.ExportDocx,
	}, log)
}

func newPublisher(cfg *config.Config) (storage.Publisher, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}
	return storage.New(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
	})
}

// pipeline bundles a processor with the resources it holds open
type pipeline struct {
	processor.Processor
	closers []func() error
}

func (p *pipeline) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		_ = p.closers[i]()
	}
}

func newPipeline(cfg *config.Config, log logger.Logger) (*pipeline, error) {
	exec := executor.New()
	p := &pipeline{}

	transcriber, closeEngine, err := newTranscriber(cfg, exec, log)
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, closeEngine)

	store, err := jobstore.Open(cfg.Database.Path)
	if err != nil {
		p.Close()
		return nil, err
	}
	p.closers = append(p.closers, store.Close)

	publisher, err := newPublisher(cfg)
	if err != nil {
		p.Close()
		return nil, err
	}

	deps := processor.Deps{
		Extractor:   newExtractor(cfg, exec, 0, log),
		Transcriber: transcriber,
		Generator:   newGenerator(cfg, log),
		Locker:      lock.New(filepath.Join(cfg.Paths.Temp, "locks")),
		Store:       store,
		Publisher:   publisher,
	}
	p.Processor = processor.New(cfg, deps, log)
	return p, nil
}

// startTelemetry installs tracing and, when enabled, serves metrics. The
// returned function shuts both down.
func startTelemetry(ctx context.Context, cfg *config.Config, log logger.Logger) func() {
	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		log.Warn(ctx, "Tracing disabled: %v", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	var stopMetrics func(context.Context) error
	if cfg.Metrics.Enabled {
		srv := metrics.StartServer(ctx, cfg.Metrics.Port, log)
		stopMetrics = srv.Shutdown
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if stopMetrics != nil {
			_ = stopMetrics(shutdownCtx)
		}
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Warn(shutdownCtx, "Tracer shutdown: %v", err)
		}
	}
}
