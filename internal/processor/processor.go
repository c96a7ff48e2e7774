package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/align"
	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
	"github.com/nguyentantai21042004/slide-flow/internal/metrics"
	"github.com/nguyentantai21042004/slide-flow/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	stageKeyframes  = "keyframes"
	stageTranscribe = "transcribe"
	stageAlign      = "align"
	stagePublish    = "publish"
)

func (p *implProcessor) Process(ctx context.Context, videoPath string) error {
	_, err := p.Run(ctx, videoPath, nil)
	return err
}

// Run orchestrates the pipeline: keyframes, transcript, alignment, then
// optional publishing and archiving. A transcription failure fails the
// video but keeps the extracted keyframes.
func (p *implProcessor) Run(ctx context.Context, videoPath string, progress keyframe.ProgressFunc) (out *Output, err error) {
	startTime := time.Now()
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	held, err := p.deps.Locker.Acquire(videoPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := held.Release(); rerr != nil {
			p.logger.Warn(ctx, "Failed to release lock for %s: %v", videoPath, rerr)
		}
	}()

	ctx, span := tracing.Tracer().Start(ctx, "process_video",
		trace.WithAttributes(attribute.String("video", filepath.Base(videoPath))))
	defer span.End()

	metrics.ActiveVideos.Inc()
	defer metrics.ActiveVideos.Dec()

	out = &Output{Video: videoPath}
	runID := p.startRun(ctx, videoPath)
	out.RunID = runID
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.VideosProcessedTotal.WithLabelValues("failed").Inc()
			p.failRun(ctx, runID, err)
			p.logger.Error(ctx, "Processing failed for %s: %v", videoPath, err)
		}
	}()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting video processing: %s", videoPath)
	p.logger.Info(ctx, "========================================")

	videoPath, err = p.moveToProcessing(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	out.Video = videoPath

	// Step 1: Extract keyframes
	keyframesDir := filepath.Join(p.cfg.Paths.Keyframes, base)
	err = p.stage(ctx, runID, stageKeyframes, func(ctx context.Context) error {
		res, err := p.deps.Extractor.Extract(ctx, videoPath, keyframesDir, progress)
		if err != nil {
			return fmt.Errorf("extract keyframes: %w", err)
		}
		out.Keyframes = res
		metrics.KeyframesExtractedTotal.Add(float64(len(res.Keyframes)))
		if res.Partial {
			metrics.PartialScansTotal.Inc()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 2: Transcribe speech next to the keyframes
	err = p.stage(ctx, runID, stageTranscribe, func(ctx context.Context) error {
		res, err := p.deps.Transcriber.Transcribe(ctx, videoPath, keyframesDir)
		if err != nil {
			return fmt.Errorf("transcribe: %w", err)
		}
		out.Transcript = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 3: Align keyframes with sentences
	err = p.stage(ctx, runID, stageAlign, func(ctx context.Context) error {
		res, err := p.deps.Generator.Generate(ctx, align.Request{
			VideoName:    filepath.Base(videoPath),
			KeyframesDir: keyframesDir,
			ASRFile:      out.Transcript.Path,
			OutputDir:    p.cfg.Paths.Output,
			Keyframes:    out.Keyframes.Keyframes,
		})
		if err != nil {
			return fmt.Errorf("align: %w", err)
		}
		out.Document = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 4: Publish outputs
	if p.deps.Publisher != nil {
		if perr := p.stage(ctx, runID, stagePublish, func(ctx context.Context) error {
			keys, err := p.publish(ctx, base, out)
			out.Published = keys
			return err
		}); perr != nil {
			p.logger.Warn(ctx, "Failed to publish outputs for %s: %v", base, perr)
		}
	}

	// Step 5: Move original video to archived folder
	if archived, aerr := p.moveToArchived(ctx, videoPath); aerr != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", aerr)
	} else {
		out.ArchivedPath = archived
	}

	p.completeRun(ctx, runID, len(out.Keyframes.Keyframes), out.Document.Path)
	metrics.VideosProcessedTotal.WithLabelValues("succeeded").Inc()

	duration := time.Since(startTime)
	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Keyframes: %d in %s", len(out.Keyframes.Keyframes), keyframesDir)
	p.logger.Info(ctx, "Transcript: %s", out.Transcript.Path)
	p.logger.Info(ctx, "Slides: %s", out.Document.Path)
	p.logger.Info(ctx, "Processing time: %s", duration.Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")

	return out, nil
}

// stage runs fn inside a span, records its duration and the run stage
func (p *implProcessor) stage(ctx context.Context, runID, name string, fn func(context.Context) error) error {
	ctx, span := tracing.Tracer().Start(ctx, name)
	defer span.End()

	if p.deps.Store != nil && runID != "" {
		if err := p.deps.Store.SetStage(ctx, runID, name); err != nil {
			p.logger.Warn(ctx, "Failed to record stage %s: %v", name, err)
		}
	}

	begin := time.Now()
	err := fn(ctx)
	metrics.StageDuration.WithLabelValues(name).Observe(time.Since(begin).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (p *implProcessor) startRun(ctx context.Context, videoPath string) string {
	if p.deps.Store == nil {
		return ""
	}
	run, err := p.deps.Store.Start(ctx, filepath.Base(videoPath))
	if err != nil {
		p.logger.Warn(ctx, "Failed to record run for %s: %v", videoPath, err)
		return ""
	}
	return run.ID
}

func (p *implProcessor) completeRun(ctx context.Context, runID string, keyframes int, output string) {
	if p.deps.Store == nil || runID == "" {
		return
	}
	if err := p.deps.Store.Complete(ctx, runID, keyframes, output); err != nil {
		p.logger.Warn(ctx, "Failed to complete run %s: %v", runID, err)
	}
}

func (p *implProcessor) failRun(ctx context.Context, runID string, cause error) {
	if p.deps.Store == nil || runID == "" {
		return
	}
	if err := p.deps.Store.Fail(ctx, runID, cause); err != nil {
		p.logger.Warn(ctx, "Failed to mark run %s failed: %v", runID, err)
	}
}
