package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/batch"
	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
)

func (c *implConverter) Convert(ctx context.Context, keyframesDir string) (*Result, error) {
	name := filepath.Base(keyframesDir)

	records, err := keyframe.LoadDir(keyframesDir)
	if err != nil {
		return nil, fmt.Errorf("load keyframes: %w", err)
	}

	pdfPath := filepath.Join(c.opts.OutputDir, "pdfs", name+".pdf")
	pages, err := BuildPDF(records, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	c.logger.Info(ctx, "PDF created: %s (%d pages)", pdfPath, pages)

	toolDir := filepath.Join(c.opts.OutputDir, "results", name+"_temp")
	if err := c.runTool(ctx, pdfPath, toolDir); err != nil {
		return nil, err
	}

	files, err := CollectFiles(toolDir)
	if err != nil {
		return nil, fmt.Errorf("collect tool output: %w", err)
	}
	if files.Markdown == "" {
		return nil, fmt.Errorf("%w: no markdown in %s", ErrToolFailed, toolDir)
	}

	data, err := os.ReadFile(files.Markdown)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	markdown := string(data)

	imagesDir := filepath.Join(filepath.Dir(files.Markdown), "images")
	if _, err := os.Stat(imagesDir); err != nil {
		imagesDir = ""
	}

	now := c.now()
	resultDir := filepath.Join(c.opts.OutputDir, "results", name)
	res := &Result{
		VideoName:      name,
		PDFPath:        pdfPath,
		Pages:          pages,
		MarkdownPath:   files.Markdown,
		ImagesDir:      imagesDir,
		StructuredPath: filepath.Join(resultDir, name+"_structured.json"),
		LineCount:      len(strings.Split(markdown, "\n")),
		ImageCount:     len(files.Images),
		Statistics:     Analyze(markdown, len(files.Images)),
		Files:          files,
		ProcessedAt:    now.Format(time.RFC3339),
		Deck:           ParseMarkdown(markdown, files.Markdown, imagesDir, now),
	}

	if err := writeJSON(res.StructuredPath, res.Deck); err != nil {
		return nil, err
	}
	if err := writeJSON(filepath.Join(resultDir, name+"_processing_result.json"), res); err != nil {
		return nil, err
	}

	if removed, err := pruneOutput(toolDir); err != nil {
		c.logger.Warn(ctx, "Failed to prune tool output %s: %v", toolDir, err)
	} else if removed > 0 {
		c.logger.Debug(ctx, "Removed %d intermediate files from %s", removed, toolDir)
	}

	c.logger.Info(ctx, "Converted %s: %d slides, %d images", name, res.Deck.Metadata.TotalSlides, res.ImageCount)
	return res, nil
}

// runTool invokes the converter as `<bin> -p <pdf> -o <dir> -m <method>`
// under the configured deadline.
func (c *implConverter) runTool(ctx context.Context, pdfPath, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create tool output dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	args := []string{"-p", pdfPath, "-o", outDir, "-m", c.opts.Method}
	c.logger.Debug(ctx, "Running %s %s", c.opts.BinaryPath, strings.Join(args, " "))

	if _, err := c.executor.Execute(ctx, c.opts.BinaryPath, args...); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: timed out after %s", ErrToolFailed, c.opts.Timeout)
		}
		return fmt.Errorf("%w: %v", ErrToolFailed, err)
	}
	return nil
}

func (c *implConverter) ConvertAll(ctx context.Context, root string) (*Summary, error) {
	folders, err := KeyframeFolders(root)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		c.logger.Warn(ctx, "No keyframe folders found under %s", root)
	}

	report := c.runner.Run(ctx, folders, func(ctx context.Context, dir string) (string, error) {
		res, err := c.Convert(ctx, dir)
		if err != nil {
			return "", err
		}
		return filepath.Join(filepath.Dir(res.StructuredPath), res.VideoName+"_processing_result.json"), nil
	})

	summary := &Summary{
		TotalVideos:      report.Total,
		SuccessfulVideos: report.Succeeded,
		FailedVideos:     report.Failed,
		ProcessedAt:      c.now().Format(time.RFC3339),
		Results:          make([]ItemResult, 0, len(report.Results)),
	}
	for _, r := range report.Results {
		item := ItemResult{VideoName: filepath.Base(r.Item), ResultFile: r.Output, Error: r.Error}
		item.Status = "success"
		if r.Status != batch.StatusSucceeded {
			item.Status = "error"
		}
		summary.Results = append(summary.Results, item)
	}

	if err := writeJSON(filepath.Join(c.opts.OutputDir, "processing_summary.json"), summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// KeyframeFolders lists the subdirectories of root that hold at least one
// keyframe image, sorted by name.
func KeyframeFolders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read keyframes root: %w", err)
	}

	var folders []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		records, err := keyframe.LoadDir(dir)
		if err != nil || len(records) == 0 {
			continue
		}
		folders = append(folders, dir)
	}
	sort.Strings(folders)
	return folders, nil
}

func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create result dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".result-*.json")
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
