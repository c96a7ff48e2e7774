package video

import (
	"context"
	"fmt"
	"image"
	"strconv"
)

type ffmpegSource struct {
	decoder *implDecoder
	path    string
	info    StreamInfo
}

// Open probes the video and returns a Source for frame reads
func (d *implDecoder) Open(ctx context.Context, path string) (Source, error) {
	info, err := d.probe(ctx, path)
	if err != nil {
		return nil, err
	}
	return &ffmpegSource{decoder: d, path: path, info: info}, nil
}

func (s *ffmpegSource) Info() StreamInfo {
	return s.info
}

// ReadFrame seeks to the frame's timestamp and decodes a single RGB frame
func (s *ffmpegSource) ReadFrame(ctx context.Context, index int) (image.Image, error) {
	if index < 0 || (s.info.FrameCount > 0 && index >= s.info.FrameCount) {
		return nil, fmt.Errorf("%w: index %d out of range", ErrFrameUnavailable, index)
	}

	ts := float64(index) / s.info.FPS
	args := []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(ts, 'f', 6, 64),
		"-i", s.path,
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	}

	out, err := s.decoder.executor.Execute(ctx, s.decoder.ffmpeg, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d: %v", ErrFrameUnavailable, index, err)
	}

	return rgbToImage([]byte(out), s.info.Width, s.info.Height, index)
}

func (s *ffmpegSource) Close() error {
	return nil
}

func rgbToImage(raw []byte, width, height, index int) (image.Image, error) {
	want := width * height * 3
	if len(raw) < want {
		return nil, fmt.Errorf("%w: frame %d: got %d bytes, want %d", ErrFrameUnavailable, index, len(raw), want)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i < want; i, j = i+3, j+4 {
		img.Pix[j] = raw[i]
		img.Pix[j+1] = raw[i+1]
		img.Pix[j+2] = raw[i+2]
		img.Pix[j+3] = 0xff
	}
	return img, nil
}
