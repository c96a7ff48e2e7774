package align

import (
	"math"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
	"github.com/nguyentantai21042004/slide-flow/internal/transcript"
)

const (
	// DefaultTolerance is the largest gap in seconds between a sentence
	// start and a keyframe for the sentence to attach
	DefaultTolerance = 5.0

	titleLimit = 50
)

var reClause = regexp.MustCompile(`[。！？.!?]`)

// Match returns every unit whose span contains ts or whose start lies
// within tolerance of ts, in transcript order.
func Match(ts float64, units []transcript.Sentence, tolerance float64) []transcript.Sentence {
	var out []transcript.Sentence
	for _, u := range units {
		if (u.Start <= ts && ts <= u.End) || math.Abs(u.Start-ts) <= tolerance {
			out = append(out, u)
		}
	}
	return out
}

// Title takes the first clause of text, capped at 50 characters
func Title(text string) string {
	clause := strings.TrimSpace(reClause.Split(text, 2)[0])
	if r := []rune(clause); len(r) > titleLimit {
		return string(r[:titleLimit])
	}
	return clause
}

// Align produces exactly one slide per keyframe. A unit near two keyframes
// attaches to both.
func Align(keyframes []keyframe.Record, units []transcript.Sentence, tolerance float64) []Slide {
	slides := make([]Slide, 0, len(keyframes))
	for i, k := range keyframes {
		matched := Match(k.Timestamp, units, tolerance)

		content := make([]string, 0, len(matched))
		for _, m := range matched {
			content = append(content, m.Text)
		}

		var title string
		if len(content) > 0 {
			title = Title(content[0])
		}

		slides = append(slides, Slide{
			SlideNumber:      i + 1,
			Timestamp:        keyframe.FormatTimestamp(k.Timestamp),
			TimestampSeconds: k.Timestamp,
			Keyframe: KeyframeRef{
				Filename: filepath.Base(k.Path),
				Path:     k.Path,
			},
			Content:     content,
			Title:       title,
			SpeakerText: strings.Join(content, " "),
		})
	}
	return slides
}
