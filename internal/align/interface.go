package align

import (
	"context"

	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
)

// Generator builds and stores the structured document for one video
type Generator interface {
	Generate(ctx context.Context, req Request) (*Output, error)
}

// Request names the inputs of one generation. When Keyframes is nil the
// records are recovered from KeyframesDir file names.
type Request struct {
	VideoName    string
	KeyframesDir string
	ASRFile      string
	OutputDir    string
	Keyframes    []keyframe.Record
}

// Output reports where the document was written
type Output struct {
	Path     string
	DocxPath string
	Document Document
}
