package transcript

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Apportion splits a merged segment into sentences and spreads the
// segment's time span across them in proportion to their length in
// characters. Boundaries are rounded to hundredths of a second.
func Apportion(seg Segment, tok Tokenizer) []Sentence {
	texts := tok.Tokenize(strings.TrimSpace(seg.Text))
	switch len(texts) {
	case 0:
		return nil
	case 1:
		return []Sentence{{Text: texts[0], Start: seg.Start, End: seg.End}}
	}

	total := 0
	for _, t := range texts {
		total += utf8.RuneCountInString(t)
	}

	span := seg.End - seg.Start
	out := make([]Sentence, 0, len(texts))
	pos := 0
	for _, t := range texts {
		n := utf8.RuneCountInString(t)
		start, end := seg.Start, seg.Start
		if total > 0 {
			start = seg.Start + span*float64(pos)/float64(total)
			end = start + span*float64(n)/float64(total)
		}
		out = append(out, Sentence{Text: t, Start: round2(start), End: round2(end)})
		pos += n
	}
	return out
}

// Sentences apportions every merged segment in order
func Sentences(merged []Segment, tok Tokenizer) []Sentence {
	var out []Sentence
	for _, seg := range merged {
		out = append(out, Apportion(seg, tok)...)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
