package batch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	r := New(2, logger.NewNop())

	report := r.Run(context.Background(), []string{"a.mp4", "bad.mp4", "c.mp4"}, func(ctx context.Context, item string) (string, error) {
		if strings.HasPrefix(item, "bad") {
			return "", errors.New("unreadable video")
		}
		return "out/" + item, nil
	})

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Results, 3)

	tests := []struct {
		item   string
		status Status
		output string
		errMsg string
	}{
		{item: "a.mp4", status: StatusSucceeded, output: "out/a.mp4"},
		{item: "bad.mp4", status: StatusFailed, errMsg: "unreadable video"},
		{item: "c.mp4", status: StatusSucceeded, output: "out/c.mp4"},
	}
	for i, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			res := report.Results[i]
			assert.Equal(t, tt.item, res.Item)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.output, res.Output)
			assert.Equal(t, tt.errMsg, res.Error)
			_, err := uuid.Parse(res.ID)
			assert.NoError(t, err)
		})
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	r := New(2, logger.NewNop())

	var inFlight, peak int32
	items := []string{"1", "2", "3", "4", "5", "6"}
	report := r.Run(context.Background(), items, func(ctx context.Context, item string) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return item, nil
	})

	assert.Equal(t, 6, report.Succeeded)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRunCancelled(t *testing.T) {
	r := New(1, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	report := r.Run(ctx, []string{"a", "b"}, func(ctx context.Context, item string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return item, nil
	})

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, report.Total, report.Succeeded+report.Failed)
	for _, res := range report.Results {
		if res.Status == StatusFailed {
			assert.Equal(t, context.Canceled.Error(), res.Error)
		}
	}
}

func TestRunRecoversPanic(t *testing.T) {
	r := New(1, logger.NewNop())
	report := r.Run(context.Background(), []string{"x"}, func(ctx context.Context, item string) (string, error) {
		panic("decoder exploded")
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.Contains(t, report.Results[0].Error, "decoder exploded")
}

func TestRunEmpty(t *testing.T) {
	report := New(0, logger.NewNop()).Run(context.Background(), nil, nil)
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Results)
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "processing_summary.json")
	report := Report{
		Total:     1,
		Succeeded: 1,
		Results:   []Result{{ID: "id-1", Item: "a.mp4", Status: StatusSucceeded, Output: "out.json"}},
	}
	require.NoError(t, WriteSummary(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, report, got)
}
