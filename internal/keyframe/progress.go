package keyframe

import "time"

const progressInterval = 500 * time.Millisecond

// Progress is reported while a video is scanned
type Progress struct {
	Percent   float64
	Position  int
	Total     int
	Keyframes int
}

// ProgressFunc receives scan progress. It is called from the scanning
// goroutine and must return quickly.
type ProgressFunc func(Progress)

// throttle limits progress callbacks to one per interval
type throttle struct {
	interval time.Duration
	now      func() time.Time
	last     time.Time
}

func newThrottle(now func() time.Time) *throttle {
	if now == nil {
		now = time.Now
	}
	return &throttle{interval: progressInterval, now: now}
}

func (t *throttle) allow() bool {
	n := t.now()
	if !t.last.IsZero() && n.Sub(t.last) <= t.interval {
		return false
	}
	t.last = n
	return true
}

// progressTotal is the last position the scan can reach, used as 100%
func progressTotal(frameCount, frameInterval int) int {
	total := (frameCount / frameInterval) * frameInterval
	if total <= 0 {
		return frameCount
	}
	return min(frameCount, total)
}

func percent(position, total int) float64 {
	if total <= 0 {
		return 0
	}
	return min(100, float64(position)/float64(total)*100)
}
