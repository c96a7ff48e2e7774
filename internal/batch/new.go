package batch

import (
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/logger"
)

type implRunner struct {
	maxConcurrent int
	logger        logger.Logger
	now           func() time.Time
}

// New creates a Runner with at most maxConcurrent items in flight
func New(maxConcurrent int, log logger.Logger) Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &implRunner{
		maxConcurrent: maxConcurrent,
		logger:        log,
		now:           time.Now,
	}
}
