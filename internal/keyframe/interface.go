package keyframe

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/video"
)

// Extractor turns a video into a directory of keyframe images
type Extractor interface {
	Extract(ctx context.Context, videoPath, outputDir string, progress ProgressFunc) (*Result, error)
}

// Options configures an Extractor
type Options struct {
	Interval     float64
	MaxKeyframes int
	SampleCount  int
	// Threshold overrides the adaptive estimate when positive
	Threshold   float64
	ImageExt    string
	JPEGQuality int
}

// Result summarises one extraction
type Result struct {
	VideoPath          string           `json:"video_path"`
	OutputDir          string           `json:"output_dir"`
	Info               video.StreamInfo `json:"info"`
	Duration           string           `json:"duration"`
	Threshold          float64          `json:"threshold"`
	ThresholdEstimated bool             `json:"threshold_estimated"`
	Keyframes          []Record         `json:"keyframes"`
	Partial            bool             `json:"partial"`
	Elapsed            time.Duration    `json:"elapsed"`
}
