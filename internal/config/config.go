package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SLIDEFLOW_"

type Config struct {
	Paths       PathsConfig       `yaml:"paths" envPrefix:"PATHS_"`
	Keyframe    KeyframeConfig    `yaml:"keyframe" envPrefix:"KEYFRAME_"`
	ASR         ASRConfig         `yaml:"asr" envPrefix:"ASR_"`
	Align       AlignConfig       `yaml:"align" envPrefix:"ALIGN_"`
	Convert     ConvertConfig     `yaml:"convert" envPrefix:"CONVERT_"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg" envPrefix:"FFMPEG_"`
	Logging     LoggingConfig     `yaml:"logging" envPrefix:"LOG_"`
	Performance PerformanceConfig `yaml:"performance" envPrefix:"PERF_"`
	Metrics     MetricsConfig     `yaml:"metrics" envPrefix:"METRICS_"`
	Tracing     TracingConfig     `yaml:"tracing" envPrefix:"TRACING_"`
	Storage     StorageConfig     `yaml:"storage" envPrefix:"STORAGE_"`
	Database    DatabaseConfig    `yaml:"database" envPrefix:"DB_"`
}

type PathsConfig struct {
	Input      string `yaml:"input" env:"INPUT"`
	Processing string `yaml:"processing" env:"PROCESSING"`
	Output     string `yaml:"output" env:"OUTPUT"`
	Keyframes  string `yaml:"keyframes" env:"KEYFRAMES"`
	Archived   string `yaml:"archived" env:"ARCHIVED"`
	Temp       string `yaml:"temp" env:"TEMP"`
}

type KeyframeConfig struct {
	CaptureInterval float64 `yaml:"capture_interval" env:"CAPTURE_INTERVAL"`
	MaxKeyframes    int     `yaml:"max_keyframes" env:"MAX"`
	SampleCount     int     `yaml:"sample_count" env:"SAMPLE_COUNT"`
	ImageExt        string  `yaml:"image_ext" env:"IMAGE_EXT"`
	JPEGQuality     int     `yaml:"jpeg_quality" env:"JPEG_QUALITY"`
}

type ASRConfig struct {
	// Backend selects the engine: whispercpp, whisperx or http
	Backend        string `yaml:"backend" env:"BACKEND"`
	Language       string `yaml:"language" env:"LANGUAGE"`
	Model          string `yaml:"model" env:"MODEL"`
	BinaryPath     string `yaml:"binary_path" env:"BINARY"`
	Threads        int    `yaml:"threads" env:"THREADS"`
	Prompt         string `yaml:"prompt" env:"PROMPT"`
	CUDA           bool   `yaml:"cuda" env:"CUDA"`
	URL            string `yaml:"url" env:"URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
}

type AlignConfig struct {
	ToleranceSeconds float64 `yaml:"tolerance_seconds" env:"TOLERANCE_SECONDS"`
	ExportDocx       bool    `yaml:"export_docx" env:"EXPORT_DOCX"`
}

type ConvertConfig struct {
	BinaryPath     string `yaml:"binary_path" env:"BINARY"`
	Method         string `yaml:"method" env:"METHOD"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	Output         string `yaml:"output" env:"OUTPUT"`
}

type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path" env:"BINARY"`
	FFprobePath string `yaml:"ffprobe_path" env:"PROBE_BINARY"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" env:"MAX_CONCURRENT"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	Port    int  `yaml:"port" env:"PORT"`
}

type TracingConfig struct {
	Endpoint    string `yaml:"endpoint" env:"ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
}

type StorageConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Endpoint  string `yaml:"endpoint" env:"ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"SECRET_KEY"`
	UseSSL    bool   `yaml:"use_ssl" env:"USE_SSL"`
	Bucket    string `yaml:"bucket" env:"BUCKET"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// Load reads the YAML file at path, applies SLIDEFLOW_* environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.ASR.Backend {
	case "":
		c.ASR.Backend = "whisperx"
	case "whisperx", "whispercpp", "http":
	default:
		return fmt.Errorf("asr.backend %q is not supported", c.ASR.Backend)
	}
	if c.ASR.Backend == "http" && c.ASR.URL == "" {
		return fmt.Errorf("asr.url is required for the http backend")
	}
	if c.ASR.Backend == "whispercpp" && c.ASR.Model == "" {
		return fmt.Errorf("asr.model is required for the whispercpp backend")
	}
	if c.Keyframe.CaptureInterval < 0 {
		return fmt.Errorf("keyframe.capture_interval must not be negative")
	}
	if c.Keyframe.JPEGQuality < 0 || c.Keyframe.JPEGQuality > 100 {
		return fmt.Errorf("keyframe.jpeg_quality must be within 1..100")
	}
	if c.Align.ToleranceSeconds < 0 {
		return fmt.Errorf("align.tolerance_seconds must not be negative")
	}
	if c.Storage.Enabled && (c.Storage.Endpoint == "" || c.Storage.Bucket == "") {
		return fmt.Errorf("storage.endpoint and storage.bucket are required when storage is enabled")
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Processing == "" {
		c.Paths.Processing = "data/processing"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Keyframes == "" {
		c.Paths.Keyframes = "data/keyframes"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}

	if c.Keyframe.CaptureInterval == 0 {
		c.Keyframe.CaptureInterval = 1.0
	}
	if c.Keyframe.MaxKeyframes == 0 {
		c.Keyframe.MaxKeyframes = 5000
	}
	if c.Keyframe.SampleCount == 0 {
		c.Keyframe.SampleCount = 10
	}
	if c.Keyframe.ImageExt == "" {
		c.Keyframe.ImageExt = "jpg"
	}
	if c.Keyframe.JPEGQuality == 0 {
		c.Keyframe.JPEGQuality = 95
	}

	if c.ASR.Language == "" {
		c.ASR.Language = "zh"
	}
	if c.ASR.Model == "" {
		c.ASR.Model = "base"
	}
	if c.ASR.BinaryPath == "" {
		switch c.ASR.Backend {
		case "whispercpp":
			c.ASR.BinaryPath = "whisper-cli"
		case "whisperx":
			c.ASR.BinaryPath = "uvx"
		}
	}
	if c.ASR.Threads == 0 {
		c.ASR.Threads = 4
	}
	if c.ASR.TimeoutSeconds == 0 {
		c.ASR.TimeoutSeconds = 3600
	}

	if c.Align.ToleranceSeconds == 0 {
		c.Align.ToleranceSeconds = 5.0
	}

	if c.Convert.BinaryPath == "" {
		c.Convert.BinaryPath = "magic-pdf"
	}
	if c.Convert.Method == "" {
		c.Convert.Method = "auto"
	}
	if c.Convert.TimeoutSeconds == 0 {
		c.Convert.TimeoutSeconds = 300
	}
	if c.Convert.Output == "" {
		c.Convert.Output = "data/converted"
	}

	if c.FFmpeg.FFmpegPath == "" {
		c.FFmpeg.FFmpegPath = "ffmpeg"
	}
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = "ffprobe"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "slideflow"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/slideflow.db"
	}

	return nil
}

// ASRTimeout returns the transcription deadline
func (c *Config) ASRTimeout() time.Duration {
	return time.Duration(c.ASR.TimeoutSeconds) * time.Second
}

// ConvertTimeout returns the conversion tool deadline
func (c *Config) ConvertTimeout() time.Duration {
	return time.Duration(c.Convert.TimeoutSeconds) * time.Second
}

// Directories lists every working directory the pipeline writes to
func (c *Config) Directories() []string {
	return []string{
		c.Paths.Input,
		c.Paths.Processing,
		c.Paths.Output,
		c.Paths.Keyframes,
		c.Paths.Archived,
		c.Paths.Temp,
	}
}

// EnsureDirectories creates the working directories if they are missing
func (c *Config) EnsureDirectories() error {
	for _, dir := range c.Directories() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
