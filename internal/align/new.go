package align

import (
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/logger"
)

// Options configures a Generator
type Options struct {
	Tolerance  float64
	ExportDocx bool
}

type implGenerator struct {
	opts   Options
	logger logger.Logger
	now    func() time.Time
}

// New creates a Generator
func New(opts Options, log logger.Logger) Generator {
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	return &implGenerator{
		opts:   opts,
		logger: log,
		now:    time.Now,
	}
}
