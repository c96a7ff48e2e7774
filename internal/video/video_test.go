package video

import (
	"context"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	probe    string
	probeErr error
	frame    []byte
	frameErr error
	calls    [][]string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if name == "ffprobe" {
		return f.probe, f.probeErr
	}
	return string(f.frame), f.frameErr
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name      string
		probe     string
		probeErr  error
		wantErr   bool
		wantFPS   float64
		wantCount int
	}{
		{
			name:      "rational frame rate with nb_frames",
			probe:     `{"streams":[{"width":4,"height":2,"avg_frame_rate":"30000/1001","r_frame_rate":"30000/1001","nb_frames":"300","duration":"10.01"}]}`,
			wantFPS:   30000.0 / 1001.0,
			wantCount: 300,
		},
		{
			name:      "frame count derived from duration",
			probe:     `{"streams":[{"width":4,"height":2,"avg_frame_rate":"25/1"}],"format":{"duration":"4.0"}}`,
			wantFPS:   25,
			wantCount: 100,
		},
		{
			name:      "zero frame rate falls back to default",
			probe:     `{"streams":[{"width":4,"height":2,"avg_frame_rate":"0/0","r_frame_rate":"0/0","nb_frames":"60"}]}`,
			wantFPS:   DefaultFPS,
			wantCount: 60,
		},
		{
			name:    "no video stream",
			probe:   `{"streams":[]}`,
			wantErr: true,
		},
		{
			name:     "ffprobe failure",
			probeErr: errors.New("exit status 1"),
			wantErr:  true,
		},
		{
			name:    "garbage output",
			probe:   `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{probe: tt.probe, probeErr: tt.probeErr}
			src, err := New(exec, "", "").Open(context.Background(), "talk.mp4")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnreadable))
				return
			}
			require.NoError(t, err)
			defer src.Close()

			info := src.Info()
			assert.InDelta(t, tt.wantFPS, info.FPS, 1e-9)
			assert.Equal(t, tt.wantCount, info.FrameCount)
			assert.Equal(t, 4, info.Width)
			assert.Equal(t, 2, info.Height)
		})
	}
}

func TestReadFrame(t *testing.T) {
	raw := make([]byte, 4*2*3)
	for i := range raw {
		raw[i] = byte(i)
	}
	exec := &fakeExecutor{
		probe: `{"streams":[{"width":4,"height":2,"avg_frame_rate":"10/1","nb_frames":"50"}]}`,
		frame: raw,
	}

	src, err := New(exec, "", "").Open(context.Background(), "talk.mp4")
	require.NoError(t, err)

	img, err := src.ReadFrame(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, color.RGBA{R: 3, G: 4, B: 5, A: 0xff}, img.At(1, 0))

	last := exec.calls[len(exec.calls)-1]
	assert.Equal(t, "ffmpeg", last[0])
	assert.Contains(t, strings.Join(last, " "), "-ss 2.500000")
}

func TestReadFrameFailures(t *testing.T) {
	probe := `{"streams":[{"width":4,"height":2,"avg_frame_rate":"10/1","nb_frames":"50"}]}`

	tests := []struct {
		name  string
		index int
		frame []byte
		err   error
	}{
		{"index past end", 50, make([]byte, 24), nil},
		{"negative index", -1, make([]byte, 24), nil},
		{"short read", 3, make([]byte, 10), nil},
		{"decoder error", 3, nil, errors.New("exit status 1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{probe: probe, frame: tt.frame, frameErr: tt.err}
			src, err := New(exec, "", "").Open(context.Background(), "talk.mp4")
			require.NoError(t, err)

			_, err = src.ReadFrame(context.Background(), tt.index)
			assert.True(t, errors.Is(err, ErrFrameUnavailable))
		})
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"24000/1001", 24000.0 / 1001.0},
		{"0/0", 0},
		{"25", 25},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, parseRate(tt.in), 1e-9)
		})
	}
}
