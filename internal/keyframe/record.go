package keyframe

// Record describes one emitted keyframe. Records are never modified after
// they are appended to a result.
type Record struct {
	Sequence   int     `json:"sequence"`
	FrameIndex int     `json:"frame_index"`
	Timestamp  float64 `json:"timestamp"`
	Difference float64 `json:"difference"`
	Path       string  `json:"path"`
}

// Filename returns the canonical image name for the record
func (r Record) Filename(ext string) string {
	return FormatFilename(r.Timestamp, r.Sequence, ext)
}
