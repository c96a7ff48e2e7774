package transcript

import (
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/nguyentantai21042004/slide-flow/pkg/executor"
)

// ServiceOptions configures a transcription Service
type ServiceOptions struct {
	Language   string
	FFmpegPath string
	TempDir    string
	// Timeout bounds one engine call; zero means no deadline
	Timeout time.Duration
}

type implService struct {
	engine    Engine
	tokenizer Tokenizer
	executor  executor.Executor
	opts      ServiceOptions
	logger    logger.Logger
}

// New creates a Service. The tokenizer is chosen from the language.
func New(engine Engine, exec executor.Executor, opts ServiceOptions, log logger.Logger) (Service, error) {
	tok, err := ForLanguage(opts.Language)
	if err != nil {
		return nil, err
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	return &implService{
		engine:    engine,
		tokenizer: tok,
		executor:  exec,
		opts:      opts,
		logger:    log,
	}, nil
}
