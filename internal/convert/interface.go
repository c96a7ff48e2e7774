package convert

import (
	"context"
	"errors"
)

// ErrToolFailed wraps failures of the external conversion tool
var ErrToolFailed = errors.New("conversion tool failed")

// Converter turns keyframe folders into per-slide documents through an
// external PDF-to-markdown tool.
type Converter interface {
	// Convert processes one keyframe folder
	Convert(ctx context.Context, keyframesDir string) (*Result, error)
	// ConvertAll processes every keyframe folder under root and writes
	// processing_summary.json into the output directory
	ConvertAll(ctx context.Context, root string) (*Summary, error)
}

// Result describes one converted folder
type Result struct {
	VideoName      string    `json:"video_name"`
	PDFPath        string    `json:"pdf_path"`
	Pages          int       `json:"pages"`
	MarkdownPath   string    `json:"markdown_path"`
	ImagesDir      string    `json:"images_dir,omitempty"`
	StructuredPath string    `json:"structured_json_file"`
	LineCount      int       `json:"line_count"`
	ImageCount     int       `json:"image_count"`
	Statistics     TextStats `json:"statistics"`
	Files          Files     `json:"generated_files"`
	ProcessedAt    string    `json:"processed_at"`
	Deck           Deck      `json:"-"`
}

// Summary is the aggregate outcome of ConvertAll
type Summary struct {
	TotalVideos      int          `json:"total_videos"`
	SuccessfulVideos int          `json:"successful_videos"`
	FailedVideos     int          `json:"failed_videos"`
	ProcessedAt      string       `json:"processing_time"`
	Results          []ItemResult `json:"results"`
}

// ItemResult is one folder's entry in the summary
type ItemResult struct {
	VideoName  string `json:"video_name"`
	Status     string `json:"status"`
	ResultFile string `json:"result_file,omitempty"`
	Error      string `json:"error,omitempty"`
}
