package transcript

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

func (s *implService) Transcribe(ctx context.Context, mediaPath, outputDir string) (*Output, error) {
	audioPath := mediaPath
	if !strings.EqualFold(filepath.Ext(mediaPath), ".wav") {
		extracted, err := s.extractAudio(ctx, mediaPath)
		if err != nil {
			return nil, fmt.Errorf("extract audio: %w", err)
		}
		defer s.cleanupTempFile(ctx, extracted)
		audioPath = extracted
	}

	engineCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		engineCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	res, err := s.engine.Transcribe(engineCtx, audioPath, s.opts.Language)
	if err != nil {
		return nil, fmt.Errorf("%s engine: %w", s.engine.Name(), err)
	}

	doc := Build(res, s.tokenizer)
	s.logger.Info(ctx, "Recognised %d segments, %d sentences", len(doc.Segments), len(doc.Sentences))

	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	path := filepath.Join(outputDir, FileName(base))
	if err := Write(path, doc); err != nil {
		return nil, fmt.Errorf("write transcript: %w", err)
	}

	s.logger.Info(ctx, "Transcript saved: %s", path)
	return &Output{Path: path, Document: doc, Language: res.Language}, nil
}
