package convert

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
)

// ErrNoKeyframes is returned when a folder holds no keyframe images
var ErrNoKeyframes = errors.New("no keyframe images")

const inch = 72.0

// BuildPDF renders one keyframe per A4 page, scaled to fit and centred,
// with the timestamp in the header and page and file name in the footer.
// Images that cannot be decoded are skipped. The number of pages written
// is returned.
func BuildPDF(records []keyframe.Record, outputPath string) (int, error) {
	if len(records) == 0 {
		return 0, ErrNoKeyframes
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreator("slideflow", false)
	pageW, pageH := pdf.GetPageSize()

	pages := 0
	for i, rec := range records {
		w, h, err := imageSize(rec.Path)
		if err != nil {
			continue
		}

		scale := min((pageW-2*inch)/float64(w), (pageH-3*inch)/float64(h))
		drawW, drawH := float64(w)*scale, float64(h)*scale

		pdf.AddPage()
		pdf.ImageOptions(rec.Path, (pageW-drawW)/2, (pageH-drawH)/2, drawW, drawH, false, fpdf.ImageOptions{}, 0, "")

		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(50, 50, "Timestamp: "+keyframe.FormatTimestamp(rec.Timestamp))

		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(50, pageH-30, fmt.Sprintf("Page %d / %d", i+1, len(records)))
		pdf.Text(50, pageH-15, "File: "+filepath.Base(rec.Path))
		pages++
	}

	if pages == 0 {
		return 0, fmt.Errorf("%w: none of %d images could be read", ErrNoKeyframes, len(records))
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return 0, fmt.Errorf("create pdf dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return 0, fmt.Errorf("write pdf: %w", err)
	}
	return pages, nil
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, fmt.Errorf("empty image %s", path)
	}
	return cfg.Width, cfg.Height, nil
}
