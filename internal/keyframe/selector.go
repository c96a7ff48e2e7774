package keyframe

import (
	"context"
	"errors"
	"image"
	"math"
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/video"
)

// DefaultMaxKeyframes caps a scan when the caller does not
const DefaultMaxKeyframes = 5000

// Sink persists a keyframe image and returns where it was stored
type Sink interface {
	Save(rec Record, img image.Image) (string, error)
}

// ScanOptions controls a keyframe scan
type ScanOptions struct {
	// Interval is the capture cadence in seconds
	Interval     float64
	MaxKeyframes int
	Threshold    float64
}

// ScanResult is the outcome of a scan. Partial is set when a frame read
// failed before the end of the video.
type ScanResult struct {
	Keyframes []Record
	Partial   bool
}

// scanState is the accumulator folded over sampled frames
type scanState struct {
	prev    *image.Gray
	records []Record
}

// decide reports whether cur starts a new scene relative to the previous
// sampled frame. The first frame always does, with difference 0.
func (s scanState) decide(cur *image.Gray, threshold float64) (bool, float64) {
	if s.prev == nil {
		return true, 0.0
	}
	diff := Difference(s.prev, cur)
	return diff > threshold, diff
}

// advance returns the state after cur was sampled, with rec appended if set
func (s scanState) advance(cur *image.Gray, rec *Record) scanState {
	next := scanState{prev: cur, records: s.records}
	if rec != nil {
		next.records = append(next.records, *rec)
	}
	return next
}

// FrameInterval converts a capture cadence to a frame step of at least one
func FrameInterval(interval, fps float64) int {
	if fps <= 0 {
		fps = video.DefaultFPS
	}
	return max(1, int(math.Floor(interval*fps)))
}

// Scan walks src at a fixed cadence and emits a keyframe for the first
// sampled frame and for every sampled frame whose difference from the
// previous sampled frame exceeds the threshold.
func Scan(ctx context.Context, src video.Source, opts ScanOptions, sink Sink, progress ProgressFunc, now func() time.Time) (ScanResult, error) {
	info := src.Info()
	fps := info.FPS
	if fps <= 0 {
		fps = video.DefaultFPS
	}
	limit := opts.MaxKeyframes
	if limit <= 0 {
		limit = DefaultMaxKeyframes
	}

	step := FrameInterval(opts.Interval, fps)
	total := progressTotal(info.FrameCount, step)
	thr := newThrottle(now)

	var state scanState
	var partial bool

	for pos := 0; pos < info.FrameCount && len(state.records) < limit; pos += step {
		if err := ctx.Err(); err != nil {
			return ScanResult{Keyframes: state.records}, err
		}

		img, err := src.ReadFrame(ctx, pos)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ScanResult{Keyframes: state.records}, ctxErr
			}
			if !errors.Is(err, video.ErrFrameUnavailable) {
				return ScanResult{Keyframes: state.records}, err
			}
			partial = true
			break
		}

		pct := percent(pos, total)
		if progress != nil && pct < 100 && thr.allow() {
			progress(Progress{Percent: pct, Position: pos, Total: total, Keyframes: len(state.records)})
		}

		gray := Grayscale(img)
		emit, diff := state.decide(gray, opts.Threshold)
		if !emit {
			state = state.advance(gray, nil)
			continue
		}

		rec := Record{
			Sequence:   len(state.records),
			FrameIndex: pos,
			Timestamp:  float64(pos) / fps,
			Difference: diff,
		}
		if sink != nil {
			path, err := sink.Save(rec, img)
			if err != nil {
				return ScanResult{Keyframes: state.records}, err
			}
			rec.Path = path
		}
		state = state.advance(gray, &rec)
	}

	if progress != nil {
		progress(Progress{Percent: 100, Position: total, Total: total, Keyframes: len(state.records)})
	}

	return ScanResult{Keyframes: state.records, Partial: partial}, nil
}
