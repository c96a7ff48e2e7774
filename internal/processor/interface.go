package processor

import (
	"context"

	"github.com/nguyentantai21042004/slide-flow/internal/align"
	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
	"github.com/nguyentantai21042004/slide-flow/internal/transcript"
)

// Processor runs the whole slide pipeline for one video
type Processor interface {
	// Process matches the watcher handler signature
	Process(ctx context.Context, videoPath string) error
	Run(ctx context.Context, videoPath string, progress keyframe.ProgressFunc) (*Output, error)
}

// Output collects the artifacts of one pipeline run
type Output struct {
	RunID        string
	Video        string
	Keyframes    *keyframe.Result
	Transcript   *transcript.Output
	Document     *align.Output
	Published    []string
	ArchivedPath string
}
