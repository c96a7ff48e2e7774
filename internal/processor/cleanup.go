package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// moveToProcessing moves a video that sits in the input folder into the
// processing folder. Videos elsewhere are processed in place.
func (p *implProcessor) moveToProcessing(ctx context.Context, videoPath string) (string, error) {
	if !sameDir(filepath.Dir(videoPath), p.cfg.Paths.Input) || p.cfg.Paths.Processing == "" {
		return videoPath, nil
	}

	destPath := filepath.Join(p.cfg.Paths.Processing, filepath.Base(videoPath))
	p.logger.Info(ctx, "Moving to processing folder: %s -> %s", videoPath, destPath)

	if err := os.MkdirAll(p.cfg.Paths.Processing, 0755); err != nil {
		return "", fmt.Errorf("create processing dir: %w", err)
	}
	if err := os.Rename(videoPath, destPath); err != nil {
		return "", fmt.Errorf("move to processing: %w", err)
	}
	return destPath, nil
}

// moveToArchived moves a processed video out of the processing folder.
// Videos that were processed in place are left alone.
func (p *implProcessor) moveToArchived(ctx context.Context, videoPath string) (string, error) {
	if !sameDir(filepath.Dir(videoPath), p.cfg.Paths.Processing) || p.cfg.Paths.Archived == "" {
		return "", nil
	}

	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(videoPath))
	p.logger.Info(ctx, "Archiving: %s -> %s", videoPath, destPath)

	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	if err := os.Rename(videoPath, destPath); err != nil {
		return "", fmt.Errorf("move to archived: %w", err)
	}
	return destPath, nil
}

func sameDir(a, b string) bool {
	if b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
