package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "http backend with url",
			config: Config{
				ASR: ASRConfig{Backend: "http", URL: "http://localhost:8000"},
			},
			wantErr: false,
		},
		{
			name: "http backend without url",
			config: Config{
				ASR: ASRConfig{Backend: "http"},
			},
			wantErr: true,
		},
		{
			name: "whispercpp without model",
			config: Config{
				ASR: ASRConfig{Backend: "whispercpp"},
			},
			wantErr: true,
		},
		{
			name: "unknown backend",
			config: Config{
				ASR: ASRConfig{Backend: "vosk"},
			},
			wantErr: true,
		},
		{
			name: "negative capture interval",
			config: Config{
				Keyframe: KeyframeConfig{CaptureInterval: -1},
			},
			wantErr: true,
		},
		{
			name: "jpeg quality out of range",
			config: Config{
				Keyframe: KeyframeConfig{JPEGQuality: 101},
			},
			wantErr: true,
		},
		{
			name: "storage enabled without bucket",
			config: Config{
				Storage: StorageConfig{Enabled: true, Endpoint: "localhost:9000"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "whisperx", cfg.ASR.Backend)
	assert.Equal(t, "uvx", cfg.ASR.BinaryPath)
	assert.Equal(t, "zh", cfg.ASR.Language)
	assert.Equal(t, 1.0, cfg.Keyframe.CaptureInterval)
	assert.Equal(t, 5000, cfg.Keyframe.MaxKeyframes)
	assert.Equal(t, 10, cfg.Keyframe.SampleCount)
	assert.Equal(t, 95, cfg.Keyframe.JPEGQuality)
	assert.Equal(t, 5.0, cfg.Align.ToleranceSeconds)
	assert.Equal(t, "magic-pdf", cfg.Convert.BinaryPath)
	assert.Equal(t, 300*time.Second, cfg.ConvertTimeout())
	assert.Equal(t, 2, cfg.Performance.MaxConcurrent)
	assert.Len(t, cfg.Directories(), 6)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
paths:
  input: "data/input"
  output: "data/output"

keyframe:
  capture_interval: 2.5
  max_keyframes: 100

asr:
  backend: "whispercpp"
  model: "models/ggml-base.bin"
  language: "en"

logging:
  level: "debug"
  format: "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/input", cfg.Paths.Input)
	assert.Equal(t, 2.5, cfg.Keyframe.CaptureInterval)
	assert.Equal(t, 100, cfg.Keyframe.MaxKeyframes)
	assert.Equal(t, "whisper-cli", cfg.ASR.BinaryPath)
	assert.Equal(t, "models/ggml-base.bin", cfg.ASR.Model)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("asr:\n  language: \"en\"\n"), 0644))

	t.Setenv("SLIDEFLOW_ASR_LANGUAGE", "ja")
	t.Setenv("SLIDEFLOW_ALIGN_TOLERANCE_SECONDS", "2.5")
	t.Setenv("SLIDEFLOW_PERF_MAX_CONCURRENT", "6")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ja", cfg.ASR.Language)
	assert.Equal(t, 2.5, cfg.Align.ToleranceSeconds)
	assert.Equal(t, 6, cfg.Performance.MaxConcurrent)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "data/keyframes", cfg.Paths.Keyframes)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
