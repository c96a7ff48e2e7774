package transcript

import "context"

// Service turns a media file into a persisted transcript document
type Service interface {
	// Transcribe writes <base>_asr.json into outputDir. No file is written
	// when the engine fails.
	Transcribe(ctx context.Context, mediaPath, outputDir string) (*Output, error)
}

// Output is a written transcript
type Output struct {
	Path     string
	Document Document
	Language string
}
