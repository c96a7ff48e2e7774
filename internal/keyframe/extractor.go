package keyframe

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Extract opens the video, estimates a threshold and writes keyframes into
// outputDir. A frame read failure mid-scan yields a partial result rather
// than an error.
func (e *implExtractor) Extract(ctx context.Context, videoPath, outputDir string, progress ProgressFunc) (*Result, error) {
	start := e.now()

	src, err := e.decoder.Open(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	defer src.Close()

	info := src.Info()
	e.logger.Debug(ctx, "Video info: %s fps=%.2f frames=%d size=%dx%d duration=%.2fs",
		videoPath, info.FPS, info.FrameCount, info.Width, info.Height, info.Duration)

	threshold, estimated := e.opts.Threshold, false
	if threshold <= 0 {
		threshold, estimated = EstimateThreshold(ctx, src, e.opts.SampleCount)
		if !estimated {
			e.logger.Warn(ctx, "Too few sample frames in %s, using default threshold %.2f", videoPath, threshold)
		}
	}
	e.logger.Debug(ctx, "Using difference threshold %.4f", threshold)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create keyframes dir: %w", err)
	}

	sink := NewImageStore(outputDir, e.opts.ImageExt, e.opts.JPEGQuality)
	scan, err := Scan(ctx, src, ScanOptions{
		Interval:     e.opts.Interval,
		MaxKeyframes: e.opts.MaxKeyframes,
		Threshold:    threshold,
	}, sink, progress, e.now)
	if err != nil {
		return nil, fmt.Errorf("scan keyframes: %w", err)
	}
	if scan.Partial {
		e.logger.Warn(ctx, "Frame read failed before end of %s, keeping %d keyframes", videoPath, len(scan.Keyframes))
	}

	elapsed := e.now().Sub(start)
	e.logger.Info(ctx, "Extracted %d keyframes from %s in %s", len(scan.Keyframes), videoPath, elapsed.Round(time.Millisecond))

	return &Result{
		VideoPath:          videoPath,
		OutputDir:          outputDir,
		Info:               info,
		Duration:           FormatDuration(info.Duration),
		Threshold:          threshold,
		ThresholdEstimated: estimated,
		Keyframes:          scan.Keyframes,
		Partial:            scan.Partial,
		Elapsed:            elapsed,
	}, nil
}
