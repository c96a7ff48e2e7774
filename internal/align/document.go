package align

// Document is the structured slide document written per video
type Document struct {
	Metadata Metadata `json:"metadata"`
	Slides   []Slide  `json:"slides"`
	Summary  Summary  `json:"summary"`
}

type Metadata struct {
	VideoName         string      `json:"video_name"`
	ProcessedAt       string      `json:"processed_at"`
	TotalSlides       int         `json:"total_slides"`
	TotalKeyframes    int         `json:"total_keyframes"`
	TotalASRSegments  int         `json:"total_asr_segments"`
	DurationSeconds   float64     `json:"duration_seconds"`
	DurationFormatted string      `json:"duration_formatted"`
	SourceFiles       SourceFiles `json:"source_files"`
}

type SourceFiles struct {
	KeyframesDirectory string `json:"keyframes_directory"`
	ASRFile            string `json:"asr_file"`
}

// Slide pairs one keyframe with the speech around it
type Slide struct {
	SlideNumber      int         `json:"slide_number"`
	Timestamp        string      `json:"timestamp"`
	TimestampSeconds float64     `json:"timestamp_seconds"`
	Keyframe         KeyframeRef `json:"keyframe"`
	Content          []string    `json:"content"`
	Title            string      `json:"title"`
	SpeakerText      string      `json:"speaker_text"`
}

type KeyframeRef struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

type Summary struct {
	ContentAnalysis ContentAnalysis `json:"content_analysis"`
	Timeline        []TimelineEntry `json:"timeline"`
	KeyTopics       []string        `json:"key_topics"`
}

type ContentAnalysis struct {
	TotalTextLength     int     `json:"total_text_length"`
	AverageTextPerSlide float64 `json:"average_text_per_slide"`
	SlidesWithText      int     `json:"slides_with_text"`
	SlidesWithoutText   int     `json:"slides_without_text"`
}

type TimelineEntry struct {
	SlideNumber int    `json:"slide_number"`
	Timestamp   string `json:"timestamp"`
	Title       string `json:"title"`
	HasText     bool   `json:"has_text"`
	TextLength  int    `json:"text_length"`
}
