package convert

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Files groups what the conversion tool left in its output directory
type Files struct {
	Markdown    string   `json:"markdown,omitempty"`
	ContentJSON string   `json:"content_json,omitempty"`
	MiddleJSON  string   `json:"middle_json,omitempty"`
	OtherJSON   string   `json:"other_json,omitempty"`
	LayoutPDF   string   `json:"layout_pdf,omitempty"`
	SpansPDF    string   `json:"spans_pdf,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// CollectFiles walks dir and classifies the generated files by extension
// and name. When several files share a class the last one walked wins.
func CollectFiles(dir string) (Files, error) {
	var files Files
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := strings.ToLower(d.Name())
		switch filepath.Ext(name) {
		case ".md":
			files.Markdown = path
		case ".json":
			switch {
			case strings.Contains(name, "content"):
				files.ContentJSON = path
			case strings.Contains(name, "middle"):
				files.MiddleJSON = path
			default:
				files.OtherJSON = path
			}
		case ".png", ".jpg", ".jpeg":
			files.Images = append(files.Images, path)
		case ".pdf":
			switch {
			case strings.Contains(name, "layout"):
				files.LayoutPDF = path
			case strings.Contains(name, "span"):
				files.SpansPDF = path
			}
		}
		return nil
	})
	return files, err
}

var redundantPatterns = []string{
	"*_origin.pdf",
	"*_layout.pdf",
	"*_spans.pdf",
	"*_middle.json",
	"*_model.json",
	"*_content_list.json",
}

// pruneOutput removes intermediate tool files and then empty directories
func pruneOutput(dir string) (int, error) {
	removed := 0
	var dirs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir {
				dirs = append(dirs, path)
			}
			return nil
		}
		for _, pattern := range redundantPatterns {
			if ok, _ := filepath.Match(pattern, d.Name()); ok {
				if err := os.Remove(path); err != nil {
					return err
				}
				removed++
				break
			}
		}
		return nil
	})
	if err != nil {
		return removed, err
	}

	// deepest first so parents empty out after their children
	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err == nil && len(entries) == 0 {
			_ = os.Remove(dirs[i])
		}
	}
	return removed, nil
}
