package video

import (
	"github.com/nguyentantai21042004/slide-flow/pkg/executor"
)

type implDecoder struct {
	executor executor.Executor
	ffmpeg   string
	ffprobe  string
}

// New creates a Decoder backed by the ffprobe and ffmpeg binaries
func New(exec executor.Executor, ffmpegPath, ffprobePath string) Decoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &implDecoder{
		executor: exec,
		ffmpeg:   ffmpegPath,
		ffprobe:  ffprobePath,
	}
}
