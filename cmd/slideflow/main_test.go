package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/slide-flow/internal/align"
	"github.com/nguyentantai21042004/slide-flow/internal/batch"
	"github.com/nguyentantai21042004/slide-flow/internal/jobstore"
	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
	"github.com/nguyentantai21042004/slide-flow/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, root string) string {
	t.Helper()
	content := fmt.Sprintf(`paths:
  input: %[1]s/input
  processing: %[1]s/processing
  output: %[1]s/output
  keyframes: %[1]s/keyframes
  archived: %[1]s/archived
  temp: %[1]s/temp
logging:
  level: error
database:
  path: %[1]s/db/slideflow.db
`, root)
	path := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	cmd := newRootCommand()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"extract", "transcribe", "align", "run", "batch", "watch", "convert", "status"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestRenderTable(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		rows    [][]string
		want    []string
	}{
		{
			name:    "pads short rows",
			headers: []string{"Video", "Status"},
			rows:    [][]string{{"a.mp4", "succeeded"}, {"b.mp4"}},
			want:    []string{"Video", "Status", "a.mp4", "succeeded", "b.mp4"},
		},
		{
			name:    "headers only",
			headers: []string{"#"},
			want:    []string{"#"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderTable(tt.headers, tt.rows, nil)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}

	assert.Empty(t, renderTable(nil, nil, nil))
	assert.NotContains(t, renderTable([]string{"Video"}, nil, nil), "VIDEO")
}

func TestProgressPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	report := progressPrinter(&buf, "Scanning")

	for _, pct := range []float64{0, 5, 10, 55, 57, 100} {
		report(keyframe.Progress{Percent: pct, Keyframes: 2})
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Scanning 0% keyframes: 2", lines[0])
	assert.Equal(t, "Scanning 100% keyframes: 2", lines[3])
}

func TestCollectVideos(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp4", "a.MOV", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.mp4"), 0755))
	explicit := filepath.Join(t.TempDir(), "explicit.bin")
	require.NoError(t, os.WriteFile(explicit, nil, 0644))

	videos, err := collectVideos([]string{dir, explicit})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.MOV"),
		filepath.Join(dir, "b.mp4"),
		explicit,
	}, videos)

	_, err = collectVideos([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestAlignCommand(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeConfig(t, root)

	kfDir := filepath.Join(root, "keyframes", "lecture")
	require.NoError(t, os.MkdirAll(kfDir, 0755))
	for i, ts := range []float64{0, 12.0} {
		name := keyframe.FormatFilename(ts, i, "jpg")
		require.NoError(t, os.WriteFile(filepath.Join(kfDir, name), []byte("x"), 0644))
	}
	asr := filepath.Join(kfDir, transcript.FileName("lecture"))
	require.NoError(t, transcript.Write(asr, transcript.Document{
		FullText:  "Welcome everyone. Today we cover caching.",
		Segments:  []transcript.Segment{{Text: "Welcome everyone. Today we cover caching.", Start: 10.0, End: 14.0}},
		Sentences: []transcript.Sentence{{Text: "Welcome everyone.", Start: 10.0, End: 11.5}, {Text: "Today we cover caching.", Start: 11.5, End: 14.0}},
	}))

	out, err := execute(t, "--config", cfgPath, "align", kfDir, "--asr", asr)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome everyone")

	doc, err := align.Read(filepath.Join(root, "output", "lecture_structured.json"))
	require.NoError(t, err)
	require.Len(t, doc.Slides, 2)
	assert.Equal(t, "lecture", doc.Metadata.VideoName)
	assert.Equal(t, 2, doc.Metadata.TotalSlides)
	assert.NotEmpty(t, doc.Slides[1].Content)
}

func TestStatusCommand(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeConfig(t, root)

	t.Run("empty history", func(t *testing.T) {
		out, err := execute(t, "--config", cfgPath, "status")
		require.NoError(t, err)
		assert.Contains(t, out, "No runs recorded")
	})

	store, err := jobstore.Open(filepath.Join(root, "db", "slideflow.db"))
	require.NoError(t, err)
	ctx := context.Background()
	ok, err := store.Start(ctx, "good.mp4")
	require.NoError(t, err)
	require.NoError(t, store.Complete(ctx, ok.ID, 7, "out/good_structured.json"))
	bad, err := store.Start(ctx, "bad.mp4")
	require.NoError(t, err)
	require.NoError(t, store.Fail(ctx, bad.ID, fmt.Errorf("asr engine crashed")))
	require.NoError(t, store.Close())

	t.Run("lists runs", func(t *testing.T) {
		out, err := execute(t, "--config", cfgPath, "status")
		require.NoError(t, err)
		assert.Contains(t, out, "good.mp4")
		assert.Contains(t, out, "out/good_structured.json")
		assert.Contains(t, out, "bad.mp4")
		assert.Contains(t, out, "asr engine crashed")
	})
}

func TestFinishBatch(t *testing.T) {
	succeeded := batch.Report{
		Total:     1,
		Succeeded: 1,
		Results:   []batch.Result{{Item: "/in/a.mp4", Status: batch.StatusSucceeded, Output: "out/a_structured.json"}},
	}
	failed := batch.Report{
		Total:   1,
		Failed:  1,
		Results: []batch.Result{{Item: "/in/b.mp4", Status: batch.StatusFailed, Error: "ffprobe exited with status 1"}},
	}

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	tests := []struct {
		name        string
		summaryPath string
		report      batch.Report
		wantErr     string
		wantSummary bool
	}{
		{
			name:        "all succeeded",
			summaryPath: filepath.Join(t.TempDir(), "output", "batch_summary.json"),
			report:      succeeded,
			wantSummary: true,
		},
		{
			name:        "item failure is reported, not returned",
			summaryPath: filepath.Join(t.TempDir(), "batch_summary.json"),
			report:      failed,
			wantSummary: true,
		},
		{
			name:        "unwritable summary fails the command",
			summaryPath: filepath.Join(blocker, "output", "batch_summary.json"),
			report:      succeeded,
			wantErr:     "write batch summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newBatchCommand(newCommandContext(nil, nil))
			var out bytes.Buffer
			cmd.SetOut(&out)

			err := finishBatch(cmd, tt.summaryPath, tt.report)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			_, statErr := os.Stat(tt.summaryPath)
			assert.Equal(t, tt.wantSummary, statErr == nil)
			if tt.wantSummary {
				r := tt.report.Results[0]
				assert.Contains(t, out.String(), filepath.Base(r.Item))
				if r.Error != "" {
					assert.Contains(t, out.String(), r.Error)
				}
			}
		})
	}
}
