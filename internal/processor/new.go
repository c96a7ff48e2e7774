package processor

import (
	"github.com/nguyentantai21042004/slide-flow/internal/align"
	"github.com/nguyentantai21042004/slide-flow/internal/config"
	"github.com/nguyentantai21042004/slide-flow/internal/jobstore"
	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
	"github.com/nguyentantai21042004/slide-flow/internal/lock"
	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/nguyentantai21042004/slide-flow/internal/storage"
	"github.com/nguyentantai21042004/slide-flow/internal/transcript"
)

// Deps are the pipeline stages. Store and Publisher are optional.
type Deps struct {
	Extractor   keyframe.Extractor
	Transcriber transcript.Service
	Generator   align.Generator
	Locker      lock.Locker
	Store       jobstore.Store
	Publisher   storage.Publisher
}

type implProcessor struct {
	cfg    *config.Config
	deps   Deps
	logger logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps, log logger.Logger) Processor {
	return &implProcessor{
		cfg:    cfg,
		deps:   deps,
		logger: log,
	}
}
