package align

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// WriteDocx renders the slides as a reading document: one heading per
// slide followed by its speaker text.
func WriteDocx(doc Document, outputPath string) error {
	d, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(d.AddParagraph(""), doc.Metadata.VideoName, true, 16)
	addStyledRun(d.AddParagraph(""),
		fmt.Sprintf("%d slides, %s", doc.Metadata.TotalSlides, doc.Metadata.DurationFormatted), false, fontSize)

	if len(doc.Summary.KeyTopics) > 0 {
		addStyledRun(d.AddParagraph(""), "Key topics", true, 15)
		for _, topic := range doc.Summary.KeyTopics {
			addStyledRun(d.AddParagraph(""), "• "+topic, false, fontSize)
		}
	}

	for _, slide := range doc.Slides {
		title := slide.Title
		if title == "" {
			title = fmt.Sprintf("Slide %d", slide.SlideNumber)
		}
		addStyledRun(d.AddParagraph(""), fmt.Sprintf("%d. %s", slide.SlideNumber, title), true, 14)
		addStyledRun(d.AddParagraph(""), slide.Timestamp+"  "+slide.Keyframe.Filename, false, 11)
		if slide.SpeakerText != "" {
			addStyledRun(d.AddParagraph(""), slide.SpeakerText, false, fontSize)
		}
	}

	return d.SaveTo(outputPath)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
