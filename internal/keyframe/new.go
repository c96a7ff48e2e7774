package keyframe

import (
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/nguyentantai21042004/slide-flow/internal/video"
)

type implExtractor struct {
	decoder video.Decoder
	opts    Options
	logger  logger.Logger
	now     func() time.Time
}

// New creates an Extractor reading frames through decoder
func New(decoder video.Decoder, opts Options, log logger.Logger) Extractor {
	if opts.Interval <= 0 {
		opts.Interval = 1.0
	}
	if opts.MaxKeyframes <= 0 {
		opts.MaxKeyframes = DefaultMaxKeyframes
	}
	if opts.SampleCount <= 0 {
		opts.SampleCount = DefaultSampleCount
	}
	return &implExtractor{
		decoder: decoder,
		opts:    opts,
		logger:  log,
		now:     time.Now,
	}
}
