package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/config"
	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedExecutor records calls and lets a test react to them
type scriptedExecutor struct {
	calls [][]string
	run   func(name string, args []string) (string, error)
}

func (s *scriptedExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	if s.run == nil {
		return "", nil
	}
	return s.run(name, args)
}

func (s *scriptedExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return s.Execute(ctx, name, args...)
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestWhisperCPPEngine(t *testing.T) {
	output := `{
  "result": {"language": "en"},
  "transcription": [
    {"timestamps": {"from": "00:00:00,000", "to": "00:00:01,500"}, "offsets": {"from": 0, "to": 1500}, "text": " Hello."},
    {"timestamps": {"from": "00:00:01,500", "to": "00:00:03,000"}, "offsets": {"from": 1500, "to": 3000}, "text": " world"}
  ]
}`
	exec := &scriptedExecutor{run: func(name string, args []string) (string, error) {
		prefix := argAfter(args, "--output-file")
		return "", os.WriteFile(prefix+".json", []byte(output), 0644)
	}}

	cfg := config.ASRConfig{Model: "ggml-base.bin", BinaryPath: "whisper-cli", Threads: 4, Prompt: "slides"}
	engine := newWhisperCPPEngine(cfg, exec, t.TempDir(), logger.NewNop())

	res, err := engine.Transcribe(context.Background(), "/tmp/talk.wav", "en")
	require.NoError(t, err)
	assert.Equal(t, "en", res.Language)
	assert.Equal(t, "Hello. world", res.Text)
	assert.Equal(t, []Segment{
		{Start: 0, End: 1.5, Text: " Hello."},
		{Start: 1.5, End: 3, Text: " world"},
	}, res.Segments)

	require.Len(t, exec.calls, 1)
	call := exec.calls[0]
	assert.Equal(t, "whisper-cli", call[0])
	assert.Equal(t, "ggml-base.bin", argAfter(call, "-m"))
	assert.Equal(t, "en", argAfter(call, "-l"))
	assert.Equal(t, "slides", argAfter(call, "--prompt"))
	assert.Contains(t, call, "-oj")
}

func TestWhisperCPPEngineFailure(t *testing.T) {
	exec := &scriptedExecutor{run: func(string, []string) (string, error) {
		return "", errors.New("exit status 1")
	}}
	engine := newWhisperCPPEngine(config.ASRConfig{BinaryPath: "whisper-cli"}, exec, t.TempDir(), logger.NewNop())

	_, err := engine.Transcribe(context.Background(), "talk.wav", "en")
	assert.True(t, errors.Is(err, ErrTranscription))
}

func TestWhisperXEngine(t *testing.T) {
	output := `{
  "language": "en",
  "segments": [
    {"start": 0.0, "end": 2.0, "text": " It costs 5 dollars.",
     "words": [{"word": "It", "start": 0.0, "end": 0.3}, {"word": "5"}, {"word": "dollars.", "start": 1.2, "end": 2.0}]}
  ]
}`
	exec := &scriptedExecutor{run: func(name string, args []string) (string, error) {
		dir := argAfter(args, "--output_dir")
		return "", os.WriteFile(filepath.Join(dir, "talk.json"), []byte(output), 0644)
	}}

	cfg := config.ASRConfig{Model: "large-v3", BinaryPath: "uvx"}
	engine := newWhisperXEngine(cfg, exec, t.TempDir(), logger.NewNop())

	res, err := engine.Transcribe(context.Background(), "/data/talk.wav", "en")
	require.NoError(t, err)
	require.Len(t, res.Segments, 1)
	assert.Equal(t, "It costs 5 dollars.", res.Text)
	assert.Equal(t, []Word{{"It", 0, 0.3}, {"dollars.", 1.2, 2.0}}, res.Segments[0].Words)

	call := exec.calls[0]
	assert.Equal(t, "uvx", call[0])
	assert.Equal(t, "large-v3", argAfter(call, "--model"))
	assert.Equal(t, "cpu", argAfter(call, "--device"))
	assert.Equal(t, pypiIndexURL, argAfter(call, "--index-url"))
}

func TestWhisperXArgsCUDA(t *testing.T) {
	engine := newWhisperXEngine(config.ASRConfig{Model: "small", CUDA: true}, nil, "", logger.NewNop())
	args := engine.buildArgs("a.wav", "/out", "")

	assert.Equal(t, cudaIndexURL, argAfter(args, "--index-url"))
	assert.Equal(t, "cuda", argAfter(args, "--device"))
	assert.NotContains(t, args, "--language")
	assert.NotContains(t, args, "--compute_type")
}

func TestHTTPEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transcribe", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "zh", r.FormValue("language"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "talk.wav", hdr.Filename)
		assert.Equal(t, "RIFF", string(body))

		json.NewEncoder(w).Encode(map[string]any{
			"language": "zh",
			"segments": []map[string]any{{"start": 0, "end": 1.5, "text": "你好。"}},
		})
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "talk.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0644))

	engine := newHTTPEngine(srv.URL+"/", 5*time.Second, logger.NewNop())
	defer engine.Close()

	res, err := engine.Transcribe(context.Background(), audio, "zh")
	require.NoError(t, err)
	assert.Equal(t, "你好。", res.Text)
	assert.Equal(t, []Segment{{Start: 0, End: 1.5, Text: "你好。"}}, res.Segments)
}

func TestHTTPEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "talk.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0644))

	_, err := newHTTPEngine(srv.URL, time.Second, logger.NewNop()).Transcribe(context.Background(), audio, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTranscription))
	assert.True(t, strings.Contains(err.Error(), "model not loaded"))
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(config.ASRConfig{Backend: "http", URL: "http://asr"}, nil, "", logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "http", engine.Name())

	_, err = NewEngine(config.ASRConfig{Backend: "whispercpp", BinaryPath: "definitely-not-installed-whisper"}, nil, "", logger.NewNop())
	assert.Error(t, err)

	_, err = NewEngine(config.ASRConfig{Backend: "vosk"}, nil, "", logger.NewNop())
	assert.Error(t, err)
}
