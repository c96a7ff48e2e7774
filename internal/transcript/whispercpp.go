package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/slide-flow/internal/config"
	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/nguyentantai21042004/slide-flow/pkg/executor"
)

type whisperCPPEngine struct {
	cfg      config.ASRConfig
	executor executor.Executor
	workDir  string
	logger   logger.Logger
}

func newWhisperCPPEngine(cfg config.ASRConfig, exec executor.Executor, workDir string, log logger.Logger) *whisperCPPEngine {
	return &whisperCPPEngine{cfg: cfg, executor: exec, workDir: workDir, logger: log}
}

func (e *whisperCPPEngine) Name() string { return "whispercpp" }

func (e *whisperCPPEngine) Close() error { return nil }

type whisperCPPOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs whisper.cpp on a 16kHz WAV file and reads its JSON output
func (e *whisperCPPEngine) Transcribe(ctx context.Context, audioPath, language string) (*Result, error) {
	dir, err := os.MkdirTemp(e.workDir, "whispercpp-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create work dir: %v", ErrTranscription, err)
	}
	defer os.RemoveAll(dir)

	outputPrefix := filepath.Join(dir, strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath)))

	// -oj: JSON output, -ml/-mc 0: no segment length or context limits,
	// -bo 5: best of five candidates
	args := []string{
		"-m", e.cfg.Model,
		"-f", audioPath,
		"-oj",
		"-l", language,
		"-t", strconv.Itoa(e.cfg.Threads),
		"-ml", "0",
		"-mc", "0",
		"-bo", "5",
		"--output-file", outputPrefix,
	}
	if e.cfg.Prompt != "" {
		args = append(args, "--prompt", e.cfg.Prompt)
	}

	e.logger.Info(ctx, "Transcribing with whisper.cpp (%d threads): %s", e.cfg.Threads, audioPath)
	if _, err := e.executor.Execute(ctx, e.cfg.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("%w: whisper.cpp: %v", ErrTranscription, err)
	}

	data, err := os.ReadFile(outputPrefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: read whisper.cpp output: %v", ErrTranscription, err)
	}
	return parseWhisperCPP(data)
}

func parseWhisperCPP(data []byte) (*Result, error) {
	var out whisperCPPOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: parse whisper.cpp output: %v", ErrTranscription, err)
	}

	res := &Result{Language: out.Result.Language}
	var text strings.Builder
	for _, t := range out.Transcription {
		res.Segments = append(res.Segments, Segment{
			Start: float64(t.Offsets.From) / 1000,
			End:   float64(t.Offsets.To) / 1000,
			Text:  t.Text,
		})
		text.WriteString(t.Text)
	}
	res.Text = strings.TrimSpace(text.String())
	return res, nil
}
