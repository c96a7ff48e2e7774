package transcript

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"golang.org/x/text/language"
)

// Tokenizer splits text into sentences
type Tokenizer interface {
	Tokenize(text string) []string
}

// ForLanguage picks a tokenizer for an ISO language code. Chinese, Japanese
// and Korean split on terminal punctuation; everything else uses the punkt
// model.
func ForLanguage(code string) (Tokenizer, error) {
	if strings.TrimSpace(code) == "" {
		return NewPunktTokenizer()
	}

	tag, err := language.Parse(code)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", code, err)
	}

	base, _ := tag.Base()
	switch base.String() {
	case "zh", "ja", "ko":
		return NewRuleTokenizer(), nil
	default:
		return NewPunktTokenizer()
	}
}

type punktTokenizer struct {
	tok *sentences.DefaultSentenceTokenizer
}

// NewPunktTokenizer returns the English punkt sentence tokenizer
func NewPunktTokenizer() (Tokenizer, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load punkt model: %w", err)
	}
	return &punktTokenizer{tok: tok}, nil
}

func (p *punktTokenizer) Tokenize(text string) []string {
	var out []string
	for _, s := range p.tok.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type ruleTokenizer struct{}

// NewRuleTokenizer splits after 。！？ always and after . ! ? when followed
// by whitespace or the end of the text.
func NewRuleTokenizer() Tokenizer {
	return ruleTokenizer{}
}

func (ruleTokenizer) Tokenize(text string) []string {
	runes := []rune(text)

	var out []string
	start := 0
	flush := func(end int) {
		if t := strings.TrimSpace(string(runes[start:end])); t != "" {
			out = append(out, t)
		}
		start = end
	}

	for i, r := range runes {
		switch r {
		case '。', '！', '？':
			flush(i + 1)
		case '.', '!', '?':
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				flush(i + 1)
			}
		}
	}
	flush(len(runes))
	return out
}
