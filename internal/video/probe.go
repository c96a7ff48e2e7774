package video

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// probe reads stream metadata with ffprobe
func (d *implDecoder) probe(ctx context.Context, path string) (StreamInfo, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,avg_frame_rate,nb_frames,duration:format=duration",
		"-of", "json",
		path,
	}

	out, err := d.executor.Execute(ctx, d.ffprobe, args...)
	if err != nil {
		return StreamInfo{}, fmt.Errorf("%w: ffprobe: %v", ErrUnreadable, err)
	}

	var parsed probeOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return StreamInfo{}, fmt.Errorf("%w: parse ffprobe output: %v", ErrUnreadable, err)
	}
	if len(parsed.Streams) == 0 {
		return StreamInfo{}, fmt.Errorf("%w: no video stream", ErrUnreadable)
	}

	return streamInfo(parsed.Streams[0], parsed.Format)
}

func streamInfo(s probeStream, f probeFormat) (StreamInfo, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return StreamInfo{}, fmt.Errorf("%w: invalid dimensions %dx%d", ErrUnreadable, s.Width, s.Height)
	}

	fps := parseRate(s.AvgFrameRate)
	if fps <= 0 {
		fps = parseRate(s.RFrameRate)
	}
	if fps <= 0 {
		fps = DefaultFPS
	}

	duration := parseFloat(s.Duration)
	if duration <= 0 {
		duration = parseFloat(f.Duration)
	}

	frames, _ := strconv.Atoi(strings.TrimSpace(s.NbFrames))
	if frames <= 0 && duration > 0 {
		frames = int(math.Round(duration * fps))
	}
	if duration <= 0 && frames > 0 {
		duration = float64(frames) / fps
	}

	return StreamInfo{
		FPS:        fps,
		FrameCount: frames,
		Width:      s.Width,
		Height:     s.Height,
		Duration:   duration,
	}, nil
}

// parseRate parses ffprobe rationals such as "30000/1001"
func parseRate(v string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(v), "/")
	if !ok {
		return parseFloat(num)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
