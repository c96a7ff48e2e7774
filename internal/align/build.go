package align

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
	"github.com/nguyentantai21042004/slide-flow/internal/transcript"
)

// Input gathers everything needed to build a Document
type Input struct {
	VideoName    string
	KeyframesDir string
	ASRFile      string
	Keyframes    []keyframe.Record
	Transcript   transcript.Document
	Tolerance    float64
	ProcessedAt  time.Time
}

// Build aligns the keyframes with the transcript and computes the summary
func Build(in Input) Document {
	tolerance := in.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	slides := Align(in.Keyframes, in.Transcript.Units(), tolerance)

	var duration float64
	if n := len(in.Keyframes); n > 0 {
		duration = in.Keyframes[n-1].Timestamp
	}

	return Document{
		Metadata: Metadata{
			VideoName:         in.VideoName,
			ProcessedAt:       in.ProcessedAt.Format(time.RFC3339),
			TotalSlides:       len(slides),
			TotalKeyframes:    len(in.Keyframes),
			TotalASRSegments:  len(in.Transcript.Segments),
			DurationSeconds:   duration,
			DurationFormatted: formatMinutes(duration),
			SourceFiles: SourceFiles{
				KeyframesDirectory: in.KeyframesDir,
				ASRFile:            in.ASRFile,
			},
		},
		Slides:  slides,
		Summary: summarize(slides),
	}
}

// formatMinutes renders MM:SS; minutes are not wrapped into hours
func formatMinutes(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func summarize(slides []Slide) Summary {
	s := Summary{
		Timeline:  make([]TimelineEntry, 0, len(slides)),
		KeyTopics: []string{},
	}

	seen := make(map[string]bool)
	for _, slide := range slides {
		length := utf8.RuneCountInString(slide.SpeakerText)
		s.ContentAnalysis.TotalTextLength += length
		if slide.SpeakerText != "" {
			s.ContentAnalysis.SlidesWithText++
		} else {
			s.ContentAnalysis.SlidesWithoutText++
		}

		title := slide.Title
		if title == "" {
			title = fmt.Sprintf("Slide %d", slide.SlideNumber)
		}
		s.Timeline = append(s.Timeline, TimelineEntry{
			SlideNumber: slide.SlideNumber,
			Timestamp:   slide.Timestamp,
			Title:       title,
			HasText:     slide.SpeakerText != "",
			TextLength:  length,
		})

		if utf8.RuneCountInString(slide.Title) > 5 && !seen[slide.Title] {
			seen[slide.Title] = true
			s.KeyTopics = append(s.KeyTopics, slide.Title)
		}
	}

	if len(slides) > 0 {
		s.ContentAnalysis.AverageTextPerSlide = float64(s.ContentAnalysis.TotalTextLength) / float64(len(slides))
	}
	return s
}
