package processor

import (
	"context"
	"fmt"
)

// publish uploads the structured document, transcript and optional DOCX
// under the video's base name.
func (p *implProcessor) publish(ctx context.Context, base string, out *Output) ([]string, error) {
	if err := p.deps.Publisher.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	files := []string{out.Document.Path, out.Transcript.Path}
	if out.Document.DocxPath != "" {
		files = append(files, out.Document.DocxPath)
	}

	keys, err := p.deps.Publisher.Publish(ctx, base, files)
	if err != nil {
		return keys, fmt.Errorf("publish: %w", err)
	}
	p.logger.Info(ctx, "Published %d files for %s", len(keys), base)
	return keys, nil
}
