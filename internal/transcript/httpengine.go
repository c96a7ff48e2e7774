package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/logger"
)

// httpEngine posts audio to a remote transcription service
type httpEngine struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

func newHTTPEngine(baseURL string, timeout time.Duration, log logger.Logger) *httpEngine {
	return &httpEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

func (e *httpEngine) Name() string { return "http" }

func (e *httpEngine) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

type httpResponse struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Transcribe uploads the file as multipart form field "file"
func (e *httpEngine) Transcribe(ctx context.Context, audioPath, language string) (*Result, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open audio: %v", ErrTranscription, err)
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	if language != "" {
		if err := w.WriteField("language", language); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
		}
	}
	if err = w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/transcribe", &b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	e.logger.Info(ctx, "Uploading %s to %s", audioPath, e.baseURL)
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: asr %s: %s", ErrTranscription, resp.Status, strings.TrimSpace(string(body)))
	}

	var out httpResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: asr decode: %v", ErrTranscription, err)
	}

	res := &Result{Text: out.Text, Language: out.Language, Segments: out.Segments}
	if res.Text == "" {
		res.Text = joinText(out.Segments)
	}
	return res, nil
}
