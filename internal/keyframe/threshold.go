package keyframe

import (
	"context"
	"image"
	"math"

	"github.com/nguyentantai21042004/slide-flow/internal/video"
)

const (
	// DefaultThreshold is used when too few frames can be sampled
	DefaultThreshold = 0.1
	// DefaultSampleCount is the number of frame pairs sampled for the threshold
	DefaultSampleCount = 10

	minThreshold = 0.05
	maxThreshold = 0.3
)

// EstimateThreshold samples sampleCount+1 evenly spaced frames and derives a
// scene-change threshold from the spread of their pairwise differences.
// The bool result is false when the default threshold was used.
func EstimateThreshold(ctx context.Context, src video.Source, sampleCount int) (float64, bool) {
	if sampleCount <= 0 {
		sampleCount = DefaultSampleCount
	}

	frameCount := src.Info().FrameCount
	if frameCount <= 1 {
		return DefaultThreshold, false
	}

	spacing := max(1, frameCount/(sampleCount+1))

	var diffs []float64
	var prev *image.Gray
	for i := 0; i <= sampleCount; i++ {
		idx := i * spacing
		if idx >= frameCount || ctx.Err() != nil {
			break
		}
		img, err := src.ReadFrame(ctx, idx)
		if err != nil {
			break
		}
		gray := Grayscale(img)
		if prev != nil {
			diffs = append(diffs, Difference(prev, gray))
		}
		prev = gray
	}

	if len(diffs) == 0 {
		return DefaultThreshold, false
	}

	mean, std := meanStd(diffs)
	return clamp(mean+0.5*std, minThreshold, maxThreshold), true
}

// meanStd returns the mean and population standard deviation
func meanStd(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
