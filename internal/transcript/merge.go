package transcript

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const terminalMarks = ".!?。！？"

// Merge folds adjacent segments into sentence-level units. A unit ends when
// its text ends with terminal punctuation or the next segment starts with an
// upper-case Latin letter. The input is not modified.
func Merge(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}

	merged := make([]Segment, 0, len(segments))
	acc := clone(segments[0])
	for _, next := range segments[1:] {
		if isBoundary(acc, next) {
			merged = append(merged, acc)
			acc = clone(next)
			continue
		}
		acc = join(acc, next)
	}
	return append(merged, acc)
}

func isBoundary(acc, next Segment) bool {
	cur := strings.TrimSpace(acc.Text)
	if r, _ := utf8.DecodeLastRuneInString(cur); cur != "" && strings.ContainsRune(terminalMarks, r) {
		return true
	}

	nt := strings.TrimSpace(next.Text)
	if nt == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(nt)
	return unicode.IsUpper(r) && unicode.Is(unicode.Latin, r)
}

// join appends next onto acc. Word lists are concatenated only when both
// sides carry them.
func join(acc, next Segment) Segment {
	out := Segment{
		Start: acc.Start,
		End:   next.End,
		Text:  acc.Text + " " + strings.TrimSpace(next.Text),
		Words: acc.Words,
	}
	if acc.Words != nil && next.Words != nil {
		words := make([]Word, 0, len(acc.Words)+len(next.Words))
		words = append(words, acc.Words...)
		out.Words = append(words, next.Words...)
	}
	return out
}

func clone(s Segment) Segment {
	if s.Words != nil {
		s.Words = append([]Word{}, s.Words...)
	}
	return s
}
