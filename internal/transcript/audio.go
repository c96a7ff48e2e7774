package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extractAudio converts the media file to 16kHz mono PCM WAV, the input
// format every engine accepts.
func (s *implService) extractAudio(ctx context.Context, mediaPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	f, err := os.CreateTemp(s.opts.TempDir, base+"-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp audio: %w", err)
	}
	audioPath := f.Name()
	f.Close()

	s.logger.Info(ctx, "Extracting audio: %s", mediaPath)

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", mediaPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		audioPath,
	}

	if _, err := s.executor.Execute(ctx, s.opts.FFmpegPath, args...); err != nil {
		os.Remove(audioPath)
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	s.logger.Debug(ctx, "Audio extracted: %s", audioPath)
	return audioPath, nil
}

// cleanupTempFile removes a temporary file, logs warning if it fails
func (s *implService) cleanupTempFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", path, err)
	}
}
