package align

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/nguyentantai21042004/slide-flow/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(opts Options) *implGenerator {
	g := New(opts, logger.NewNop()).(*implGenerator)
	g.now = func() time.Time { return processedAt }
	return g
}

func writeKeyframeFiles(t *testing.T, dir string, stamps ...float64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for i, ts := range stamps {
		name := keyframe.FormatFilename(ts, i, "jpg")
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
}

func TestGenerateFromDirectory(t *testing.T) {
	root := t.TempDir()
	kfDir := filepath.Join(root, "keyframes", "lecture")
	writeKeyframeFiles(t, kfDir, 0, 12.0, 50.0)

	asr := filepath.Join(root, transcript.FileName("lecture"))
	require.NoError(t, transcript.Write(asr, transcript.Document{
		FullText: "Intro topic. More.",
		Segments: []transcript.Segment{{Text: "Intro topic. More.", Start: 10.0, End: 11.0}},
		Sentences: []transcript.Sentence{
			{Text: "Intro topic.", Start: 10.0, End: 10.6},
			{Text: "More.", Start: 10.6, End: 11.0},
		},
	}))

	g := newTestGenerator(Options{})
	out, err := g.Generate(context.Background(), Request{
		VideoName:    "lecture.mp4",
		KeyframesDir: kfDir,
		ASRFile:      asr,
		OutputDir:    filepath.Join(root, "output"),
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "output", "lecture_structured.json"), out.Path)
	assert.Empty(t, out.DocxPath)
	require.Len(t, out.Document.Slides, 3)
	assert.Equal(t, "Intro topic. More.", out.Document.Slides[1].SpeakerText)
	assert.Equal(t, "Intro topic", out.Document.Slides[1].Title)
	assert.Empty(t, out.Document.Slides[2].SpeakerText)

	onDisk, err := Read(out.Path)
	require.NoError(t, err)
	assert.Equal(t, out.Document, onDisk)
}

func TestGenerateWithRecords(t *testing.T) {
	root := t.TempDir()
	g := newTestGenerator(Options{Tolerance: 1.0})

	out, err := g.Generate(context.Background(), Request{
		VideoName: "clip.mp4",
		Keyframes: []keyframe.Record{kf(0, 0), kf(1, 3.0)},
		OutputDir: root,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Document.Metadata.TotalSlides)
	assert.Equal(t, filepath.Join(root, "clip_structured.json"), out.Path)
}

func TestGenerateMalformedTranscript(t *testing.T) {
	root := t.TempDir()
	kfDir := filepath.Join(root, "kf")
	writeKeyframeFiles(t, kfDir, 0, 5.0)

	asr := filepath.Join(root, "broken_asr.json")
	require.NoError(t, os.WriteFile(asr, []byte("not json"), 0644))

	g := newTestGenerator(Options{})
	out, err := g.Generate(context.Background(), Request{
		VideoName:    "broken",
		KeyframesDir: kfDir,
		ASRFile:      asr,
		OutputDir:    root,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Document.Metadata.TotalSlides)
	assert.Equal(t, 0, out.Document.Metadata.TotalASRSegments)
	assert.Equal(t, 2, out.Document.Summary.ContentAnalysis.SlidesWithoutText)
}

func TestGenerateMissingKeyframesDir(t *testing.T) {
	g := newTestGenerator(Options{})
	_, err := g.Generate(context.Background(), Request{
		KeyframesDir: filepath.Join(t.TempDir(), "absent"),
		OutputDir:    t.TempDir(),
	})
	assert.Error(t, err)
}

func TestGenerateDocx(t *testing.T) {
	root := t.TempDir()
	g := newTestGenerator(Options{ExportDocx: true})

	out, err := g.Generate(context.Background(), Request{
		VideoName: "deck.mp4",
		Keyframes: []keyframe.Record{kf(0, 0)},
		OutputDir: root,
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "deck_slides.docx"), out.DocxPath)

	info, err := os.Stat(out.DocxPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
