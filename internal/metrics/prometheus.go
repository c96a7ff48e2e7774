package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VideosProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slideflow_videos_processed_total",
		Help: "Total number of videos processed, by status",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slideflow_stage_duration_seconds",
		Help:    "Duration of each pipeline stage",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
	}, []string{"stage"})

	KeyframesExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slideflow_keyframes_extracted_total",
		Help: "Total number of keyframes written across all videos",
	})

	PartialScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slideflow_partial_scans_total",
		Help: "Scans that stopped early on a frame read failure",
	})

	ActiveVideos = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slideflow_active_videos",
		Help: "Number of videos currently in the pipeline",
	})
)
