package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/slide-flow/pkg/executor"
	"github.com/spf13/cobra"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir string
		interval  float64
		maxFrames int
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "extract <video>",
		Short: "Extract keyframes from a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if interval > 0 {
				cfg.Keyframe.CaptureInterval = interval
			}
			if maxFrames > 0 {
				cfg.Keyframe.MaxKeyframes = maxFrames
			}

			videoPath := args[0]
			if outputDir == "" {
				base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
				outputDir = filepath.Join(cfg.Paths.Keyframes, base)
			}

			log := ctx.logger()
			extractor := newExtractor(cfg, executor.New(), threshold, log)

			out := cmd.OutOrStdout()
			res, err := extractor.Extract(cmd.Context(), videoPath, outputDir, progressPrinter(cmd.ErrOrStderr(), "Scanning"))
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Video", res.VideoPath},
				{"Duration", res.Duration},
				{"FPS", fmt.Sprintf("%.2f", res.Info.FPS)},
				{"Frames", fmt.Sprintf("%d", res.Info.FrameCount)},
				{"Threshold", fmt.Sprintf("%.4f (estimated: %s)", res.Threshold, yesNo(res.ThresholdEstimated))},
				{"Keyframes", fmt.Sprintf("%d", len(res.Keyframes))},
				{"Partial", yesNo(res.Partial)},
				{"Output", res.OutputDir},
				{"Elapsed", res.Elapsed.Round(time.Millisecond).String()},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Keyframe output directory (default <keyframes>/<video>)")
	cmd.Flags().Float64Var(&interval, "interval", 0, "Seconds between sampled frames")
	cmd.Flags().IntVar(&maxFrames, "max", 0, "Maximum number of keyframes")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Fixed difference threshold instead of the adaptive estimate")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
