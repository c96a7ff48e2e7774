package keyframe

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var reFilename = regexp.MustCompile(`^keyframe_(\d{2,})-(\d{2})-(\d{2})-(\d{3})_(\d{4,})\.([A-Za-z0-9]+)$`)

// clock splits seconds into whole hours, minutes, seconds and milliseconds.
// Milliseconds are truncated, with a small epsilon absorbing float noise so
// that parsed names format back to the same bytes.
func clock(seconds float64) (h, m, s, ms int64) {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds*1000 + 1e-6))
	ms = total % 1000
	s = total / 1000 % 60
	m = total / 60000 % 60
	h = total / 3600000
	return h, m, s, ms
}

// FormatFilename returns keyframe_HH-MM-SS-mmm_NNNN.<ext>
func FormatFilename(timestamp float64, sequence int, ext string) string {
	h, m, s, ms := clock(timestamp)
	return fmt.Sprintf("keyframe_%02d-%02d-%02d-%03d_%04d.%s", h, m, s, ms, sequence, ext)
}

// ParseFilename is the inverse of FormatFilename
func ParseFilename(name string) (timestamp float64, sequence int, ok bool) {
	match := reFilename.FindStringSubmatch(name)
	if match == nil {
		return 0, 0, false
	}

	parts := make([]int64, 5)
	for i := range parts {
		v, err := strconv.ParseInt(match[i+1], 10, 64)
		if err != nil {
			return 0, 0, false
		}
		parts[i] = v
	}
	if parts[1] >= 60 || parts[2] >= 60 {
		return 0, 0, false
	}

	timestamp = float64(parts[0]*3600+parts[1]*60+parts[2]) + float64(parts[3])/1000
	return timestamp, int(parts[4]), true
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm
func FormatTimestamp(seconds float64) string {
	h, m, s, ms := clock(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// FormatDuration renders seconds as HH:MM:SS
func FormatDuration(seconds float64) string {
	h, m, s, _ := clock(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
