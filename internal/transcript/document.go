package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is the persisted transcript: raw engine segments plus the
// apportioned sentences derived from them.
type Document struct {
	FullText  string     `json:"full_text"`
	Segments  []Segment  `json:"segments"`
	Sentences []Sentence `json:"sentences"`
}

// FileName returns the transcript file name for a video base name
func FileName(base string) string {
	return base + "_asr.json"
}

// Build merges the raw segments and apportions sentences
func Build(res *Result, tok Tokenizer) Document {
	doc := Document{
		FullText:  res.Text,
		Segments:  res.Segments,
		Sentences: Sentences(Merge(res.Segments), tok),
	}
	if doc.FullText == "" {
		doc.FullText = joinText(res.Segments)
	}
	if doc.Segments == nil {
		doc.Segments = []Segment{}
	}
	if doc.Sentences == nil {
		doc.Sentences = []Sentence{}
	}
	return doc
}

// Units returns the sentences, or the raw segments as sentences when the
// document carries none.
func (d Document) Units() []Sentence {
	if len(d.Sentences) > 0 {
		return d.Sentences
	}
	units := make([]Sentence, 0, len(d.Segments))
	for _, s := range d.Segments {
		units = append(units, Sentence{Text: strings.TrimSpace(s.Text), Start: s.Start, End: s.End})
	}
	return units
}

func joinText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Write stores doc at path. The file appears only once fully written.
func Write(path string, doc Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".asr-*.json")
	if err != nil {
		return fmt.Errorf("create temp transcript: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp transcript: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename transcript: %w", err)
	}
	return nil
}

// Read loads a transcript file. A bare JSON array of segments is accepted
// as well as the full document.
func Read(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read transcript: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var segments []Segment
		if err := json.Unmarshal(data, &segments); err != nil {
			return Document{}, fmt.Errorf("parse transcript segments: %w", err)
		}
		return Document{FullText: joinText(segments), Segments: segments}, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse transcript: %w", err)
	}
	return doc, nil
}
