package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Deck is the per-slide document parsed from the converted markdown
type Deck struct {
	Metadata DeckMetadata `json:"metadata"`
	Slides   []DeckSlide  `json:"slides"`
	Summary  DeckSummary  `json:"summary"`
}

type DeckMetadata struct {
	SourceFile      string  `json:"source_file"`
	ImagesDirectory string  `json:"images_directory"`
	ProcessedAt     string  `json:"processed_at"`
	TotalSlides     int     `json:"total_slides"`
	TotalImages     int     `json:"total_images"`
	TotalFormulas   int     `json:"total_formulas"`
	MainTopic       string  `json:"main_topic"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type DeckSlide struct {
	Timestamp        string     `json:"timestamp"`
	TimestampSeconds float64    `json:"timestamp_seconds"`
	Title            string     `json:"title"`
	Content          []string   `json:"content"`
	Images           []ImageRef `json:"images"`
	Formulas         []string   `json:"formulas"`
}

type ImageRef struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	FullPath string `json:"full_path"`
}

type DeckSummary struct {
	KeyTopics         []string            `json:"key_topics"`
	ImageDistribution map[string]int      `json:"image_distribution"`
	ContentTypes      ContentTypes        `json:"content_types"`
	Timeline          []DeckTimelineEntry `json:"timeline"`
}

type ContentTypes struct {
	HasFormulas bool `json:"has_formulas"`
	HasImages   bool `json:"has_images"`
	HasText     bool `json:"has_text"`
}

type DeckTimelineEntry struct {
	SlideNumber   int    `json:"slide_number"`
	Timestamp     string `json:"timestamp"`
	Title         string `json:"title"`
	ImageCount    int    `json:"image_count"`
	ContentLength int    `json:"content_length"`
}

const unknownTopic = "Unknown topic"

var (
	// the header line reads "Timestamp: HH:MM:SS.mmm"; OCR may keep only
	// the colon before the clock
	reTimestamp = regexp.MustCompile(`^(?:[^\d]*:\s*)?(\d{2}):(\d{2}):(\d{2})\.(\d{3})`)
	reImage     = regexp.MustCompile(`^!\[[^\]]*\]\(images/([^)]+)\)`)
	reFooter    = regexp.MustCompile(`^(?:Page \d+ / \d+|File: keyframe_\S+)$`)
)

// ParseMarkdown splits converted markdown into slides. A timestamp line
// opens a slide; "# " lines set its title, image links and $$ blocks are
// collected, and other non-empty lines become content. Lines before the
// first timestamp are ignored.
func ParseMarkdown(content, sourceFile, imagesDir string, now time.Time) Deck {
	var (
		slides    []DeckSlide
		current   *DeckSlide
		formula   []string
		inFormula bool
	)

	flush := func() {
		if current != nil {
			slides = append(slides, *current)
		}
	}

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		if inFormula {
			if strings.HasSuffix(line, "$$") {
				formula = append(formula, strings.TrimSuffix(line, "$$"))
				current.addFormula(formula)
				inFormula = false
				continue
			}
			formula = append(formula, line)
			continue
		}

		if m := reTimestamp.FindStringSubmatch(line); m != nil {
			flush()
			current = newDeckSlide(m)
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case strings.HasPrefix(line, "# "):
			current.Title = strings.TrimSpace(line[2:])
		case reImage.MatchString(line):
			name := reImage.FindStringSubmatch(line)[1]
			ref := ImageRef{Filename: name, Path: "images/" + name, FullPath: "images/" + name}
			if imagesDir != "" {
				ref.FullPath = imagesDir + "/" + name
			}
			current.Images = append(current.Images, ref)
		case strings.HasPrefix(line, "$$"):
			body := strings.TrimPrefix(line, "$$")
			if strings.HasSuffix(body, "$$") {
				current.addFormula([]string{strings.TrimSuffix(body, "$$")})
				continue
			}
			formula = []string{body}
			inFormula = true
		case reFooter.MatchString(line):
		case line != "" && !strings.HasPrefix(line, ":"):
			current.Content = append(current.Content, line)
		}
	}
	if inFormula {
		current.addFormula(formula)
	}
	flush()

	return buildDeck(slides, sourceFile, imagesDir, now)
}

func newDeckSlide(m []string) *DeckSlide {
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	ms, _ := strconv.Atoi(m[4])
	return &DeckSlide{
		Timestamp:        fmt.Sprintf("%s:%s:%s.%s", m[1], m[2], m[3], m[4]),
		TimestampSeconds: float64(h*3600+mi*60+s) + float64(ms)/1000,
		Content:          []string{},
		Images:           []ImageRef{},
		Formulas:         []string{},
	}
}

func (s *DeckSlide) addFormula(lines []string) {
	if f := strings.TrimSpace(strings.Join(lines, "\n")); f != "" {
		s.Formulas = append(s.Formulas, f)
	}
}

func buildDeck(slides []DeckSlide, sourceFile, imagesDir string, now time.Time) Deck {
	if slides == nil {
		slides = []DeckSlide{}
	}

	deck := Deck{
		Metadata: DeckMetadata{
			SourceFile:      sourceFile,
			ImagesDirectory: imagesDir,
			ProcessedAt:     now.Format(time.RFC3339),
			TotalSlides:     len(slides),
			MainTopic:       unknownTopic,
		},
		Slides: slides,
		Summary: DeckSummary{
			KeyTopics:         []string{},
			ImageDistribution: make(map[string]int, len(slides)),
			Timeline:          make([]DeckTimelineEntry, 0, len(slides)),
		},
	}

	seen := make(map[string]bool)
	for i, s := range slides {
		deck.Metadata.TotalImages += len(s.Images)
		deck.Metadata.TotalFormulas += len(s.Formulas)
		if len(s.Content) > 0 {
			deck.Summary.ContentTypes.HasText = true
		}

		if s.Title != "" && !seen[s.Title] {
			if len(seen) == 0 {
				deck.Metadata.MainTopic = s.Title
			}
			seen[s.Title] = true
			deck.Summary.KeyTopics = append(deck.Summary.KeyTopics, s.Title)
		}

		deck.Summary.ImageDistribution[fmt.Sprintf("slide_%d", i+1)] = len(s.Images)

		title := s.Title
		if title == "" {
			title = fmt.Sprintf("Slide %d", i+1)
		}
		deck.Summary.Timeline = append(deck.Summary.Timeline, DeckTimelineEntry{
			SlideNumber:   i + 1,
			Timestamp:     s.Timestamp,
			Title:         title,
			ImageCount:    len(s.Images),
			ContentLength: utf8.RuneCountInString(strings.Join(s.Content, " ")),
		})
	}

	if n := len(slides); n > 0 {
		deck.Metadata.DurationSeconds = slides[n-1].TimestampSeconds
	}
	deck.Summary.ContentTypes.HasFormulas = deck.Metadata.TotalFormulas > 0
	deck.Summary.ContentTypes.HasImages = deck.Metadata.TotalImages > 0
	return deck
}

// TextStats summarises raw markdown
type TextStats struct {
	TotalTextBlocks int  `json:"total_text_blocks"`
	MarkdownLength  int  `json:"markdown_length"`
	HasImages       bool `json:"has_images"`
	HasTables       bool `json:"has_tables"`
	HasFormulas     bool `json:"has_formulas"`
	ImageCount      int  `json:"image_count"`
}

// Analyze counts blank-line separated blocks and flags tables, images and
// formulas in the markdown.
func Analyze(markdown string, imageCount int) TextStats {
	blocks, inBlock := 0, false
	for _, line := range strings.Split(markdown, "\n") {
		if strings.TrimSpace(line) != "" {
			if !inBlock {
				blocks++
			}
			inBlock = true
		} else {
			inBlock = false
		}
	}

	lower := strings.ToLower(markdown)
	return TextStats{
		TotalTextBlocks: blocks,
		MarkdownLength:  utf8.RuneCountInString(markdown),
		HasImages:       strings.Contains(lower, "images") || imageCount > 0,
		HasTables:       strings.Contains(lower, "table") || strings.Contains(markdown, "|"),
		HasFormulas:     strings.Contains(markdown, "$") || strings.Contains(lower, "formula"),
		ImageCount:      imageCount,
	}
}
