package transcript

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/config"
	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/nguyentantai21042004/slide-flow/pkg/executor"
)

// ErrTranscription wraps every engine failure
var ErrTranscription = errors.New("transcription failed")

// Result is the raw output of a speech recognition engine
type Result struct {
	Text     string
	Language string
	Segments []Segment
}

// Engine is a speech recognition backend. Engines are built once at
// startup and released with Close.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, mediaPath, language string) (*Result, error)
	Close() error
}

// NewEngine builds the engine selected by cfg.Backend. CLI backends fail
// here when their binary is not installed.
func NewEngine(cfg config.ASRConfig, exec executor.Executor, workDir string, log logger.Logger) (Engine, error) {
	switch cfg.Backend {
	case "http":
		return newHTTPEngine(cfg.URL, time.Duration(cfg.TimeoutSeconds)*time.Second, log), nil
	case "whispercpp":
		if err := lookPath(cfg.BinaryPath); err != nil {
			return nil, err
		}
		return newWhisperCPPEngine(cfg, exec, workDir, log), nil
	case "whisperx", "":
		if err := lookPath(cfg.BinaryPath); err != nil {
			return nil, err
		}
		return newWhisperXEngine(cfg, exec, workDir, log), nil
	default:
		return nil, fmt.Errorf("unknown asr backend %q", cfg.Backend)
	}
}

func lookPath(bin string) error {
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("asr binary %q not found: %w", bin, err)
	}
	return nil
}
