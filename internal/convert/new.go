package convert

import (
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/batch"
	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/nguyentantai21042004/slide-flow/pkg/executor"
)

// Options configures a Converter
type Options struct {
	BinaryPath string
	Method     string
	Timeout    time.Duration
	OutputDir  string
}

type implConverter struct {
	executor executor.Executor
	runner   batch.Runner
	opts     Options
	logger   logger.Logger
	now      func() time.Time
}

// New creates a Converter. Folders in ConvertAll are fanned out over runner.
func New(exec executor.Executor, runner batch.Runner, opts Options, log logger.Logger) Converter {
	if opts.BinaryPath == "" {
		opts.BinaryPath = "magic-pdf"
	}
	if opts.Method == "" {
		opts.Method = "auto"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 300 * time.Second
	}
	return &implConverter{
		executor: exec,
		runner:   runner,
		opts:     opts,
		logger:   log,
		now:      time.Now,
	}
}
