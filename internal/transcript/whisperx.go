package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/slide-flow/internal/config"
	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/nguyentantai21042004/slide-flow/pkg/executor"
)

const (
	pypiIndexURL = "https://pypi.org/simple"
	cudaIndexURL = "https://download.pytorch.org/whl/cu128"
)

type whisperXEngine struct {
	cfg      config.ASRConfig
	executor executor.Executor
	workDir  string
	logger   logger.Logger
}

func newWhisperXEngine(cfg config.ASRConfig, exec executor.Executor, workDir string, log logger.Logger) *whisperXEngine {
	return &whisperXEngine{cfg: cfg, executor: exec, workDir: workDir, logger: log}
}

func (e *whisperXEngine) Name() string { return "whisperx" }

func (e *whisperXEngine) Close() error { return nil }

// whisperXWord keeps timing optional; whisperx omits it for tokens it
// could not align, such as numerals.
type whisperXWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

type whisperXOutput struct {
	Language string `json:"language"`
	Segments []struct {
		Start float64        `json:"start"`
		End   float64        `json:"end"`
		Text  string         `json:"text"`
		Words []whisperXWord `json:"words"`
	} `json:"segments"`
}

// Transcribe runs whisperx through uvx and reads the JSON it writes
func (e *whisperXEngine) Transcribe(ctx context.Context, audioPath, language string) (*Result, error) {
	dir, err := os.MkdirTemp(e.workDir, "whisperx-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create work dir: %v", ErrTranscription, err)
	}
	defer os.RemoveAll(dir)

	e.logger.Info(ctx, "Transcribing with whisperx (model %s): %s", e.cfg.Model, audioPath)
	if _, err := e.executor.Execute(ctx, e.cfg.BinaryPath, e.buildArgs(audioPath, dir, language)...); err != nil {
		return nil, fmt.Errorf("%w: whisperx: %v", ErrTranscription, err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(dir, base+".json"))
	if err != nil {
		return nil, fmt.Errorf("%w: read whisperx output: %v", ErrTranscription, err)
	}
	return parseWhisperX(data)
}

func (e *whisperXEngine) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 24)
	if e.cfg.CUDA {
		args = append(args, "--index-url", cudaIndexURL, "--extra-index-url", pypiIndexURL)
	} else {
		args = append(args, "--index-url", pypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", e.cfg.Model,
		"--output_dir", outputDir,
		"--output_format", "json",
	)
	if language != "" {
		args = append(args, "--language", language)
	}
	if e.cfg.Prompt != "" {
		args = append(args, "--initial_prompt", e.cfg.Prompt)
	}
	if e.cfg.CUDA {
		args = append(args, "--device", "cuda")
	} else {
		args = append(args, "--device", "cpu", "--compute_type", "int8")
	}
	return args
}

func parseWhisperX(data []byte) (*Result, error) {
	var out whisperXOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: parse whisperx output: %v", ErrTranscription, err)
	}

	res := &Result{Language: out.Language}
	for _, s := range out.Segments {
		seg := Segment{Start: s.Start, End: s.End, Text: s.Text}
		for _, w := range s.Words {
			if w.Start == nil || w.End == nil {
				continue
			}
			seg.Words = append(seg.Words, Word{Word: w.Word, Start: *w.Start, End: *w.End})
		}
		res.Segments = append(res.Segments, seg)
	}
	res.Text = joinText(res.Segments)
	return res, nil
}
