package keyframe

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultJPEGQuality matches the quality keyframes are archived at
const DefaultJPEGQuality = 95

type imageStore struct {
	dir     string
	ext     string
	quality int
}

// NewImageStore returns a Sink writing keyframe images into dir.
// ext selects the encoder: jpg/jpeg or png.
func NewImageStore(dir, ext string, quality int) Sink {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "jpg"
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &imageStore{dir: dir, ext: ext, quality: quality}
}

func (s *imageStore) Save(rec Record, img image.Image) (string, error) {
	path := filepath.Join(s.dir, rec.Filename(s.ext))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create keyframe image: %w", err)
	}

	switch s.ext {
	case "png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: s.quality})
	}
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("encode keyframe image: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close keyframe image: %w", err)
	}
	return path, nil
}

// LoadDir rebuilds keyframe records from the image names in dir, ordered
// by sequence. Frame index and difference cannot be recovered from names
// and are left zero.
func LoadDir(dir string) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read keyframes dir: %w", err)
	}

	var records []Record
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ts, seq, ok := ParseFilename(e.Name())
		if !ok {
			continue
		}
		records = append(records, Record{
			Sequence:  seq,
			Timestamp: ts,
			Path:      filepath.Join(dir, e.Name()),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Sequence < records[j].Sequence
	})
	return records, nil
}
