package align

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
	"github.com/nguyentantai21042004/slide-flow/internal/transcript"
)

// Generate aligns keyframes with the transcript and writes
// <video>_structured.json into the output directory. An unreadable
// transcript is treated as empty speech.
func (g *implGenerator) Generate(ctx context.Context, req Request) (*Output, error) {
	records := req.Keyframes
	if records == nil {
		loaded, err := keyframe.LoadDir(req.KeyframesDir)
		if err != nil {
			return nil, fmt.Errorf("load keyframes: %w", err)
		}
		records = loaded
	}

	var doc transcript.Document
	if req.ASRFile != "" {
		read, err := transcript.Read(req.ASRFile)
		if err != nil {
			g.logger.Warn(ctx, "Transcript %s unusable, aligning without speech: %v", req.ASRFile, err)
		} else {
			doc = read
		}
	}

	name := req.VideoName
	if name == "" {
		name = filepath.Base(req.KeyframesDir)
	}

	structured := Build(Input{
		VideoName:    name,
		KeyframesDir: req.KeyframesDir,
		ASRFile:      req.ASRFile,
		Keyframes:    records,
		Transcript:   doc,
		Tolerance:    g.opts.Tolerance,
		ProcessedAt:  g.now(),
	})

	base := strings.TrimSuffix(name, filepath.Ext(name))
	out := &Output{
		Path:     filepath.Join(req.OutputDir, FileName(base)),
		Document: structured,
	}
	if err := Write(out.Path, structured); err != nil {
		return nil, fmt.Errorf("write structured document: %w", err)
	}
	g.logger.Info(ctx, "Structured document saved: %s (%d slides, %d with text)",
		out.Path, structured.Metadata.TotalSlides, structured.Summary.ContentAnalysis.SlidesWithText)

	if g.opts.ExportDocx {
		out.DocxPath = filepath.Join(req.OutputDir, base+"_slides.docx")
		if err := WriteDocx(structured, out.DocxPath); err != nil {
			g.logger.Warn(ctx, "DOCX export failed for %s: %v", name, err)
			out.DocxPath = ""
		}
	}

	return out, nil
}
