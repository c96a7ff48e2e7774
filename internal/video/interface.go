package video

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrUnreadable is returned when a video cannot be opened or has no decodable video stream
	ErrUnreadable = errors.New("video unreadable")
	// ErrFrameUnavailable is returned when a frame index cannot be decoded
	ErrFrameUnavailable = errors.New("frame unavailable")
)

// DefaultFPS is used when the container reports a non-positive frame rate
const DefaultFPS = 30.0

// StreamInfo describes the primary video stream
type StreamInfo struct {
	FPS        float64
	FrameCount int
	Width      int
	Height     int
	Duration   float64
}

// Decoder opens videos for random-access frame reads
type Decoder interface {
	Open(ctx context.Context, path string) (Source, error)
}

// Source is an opened video. A Source must not be shared between goroutines.
type Source interface {
	Info() StreamInfo
	ReadFrame(ctx context.Context, index int) (image.Image, error)
	Close() error
}
