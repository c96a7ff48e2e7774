package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/batch"
	"github.com/nguyentantai21042004/slide-flow/internal/watcher"
	"github.com/spf13/cobra"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch [video|dir]...",
		Short: "Run the full pipeline over several videos",
		Long:  "Run the full pipeline over the given videos and directories (default paths.input). Failures are reported per video in the table and in batch_summary.json.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger()
			if concurrency <= 0 {
				concurrency = cfg.Performance.MaxConcurrent
			}
			if len(args) == 0 {
				args = []string{cfg.Paths.Input}
			}

			videos, err := collectVideos(args)
			if err != nil {
				return err
			}
			if len(videos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No videos found")
				return nil
			}

			stopTelemetry := startTelemetry(cmd.Context(), cfg, log)
			defer stopTelemetry()

			p, err := newPipeline(cfg, log)
			if err != nil {
				return err
			}
			defer p.Close()

			report := batch.New(concurrency, log).Run(cmd.Context(), videos, func(runCtx context.Context, video string) (string, error) {
				out, err := p.Run(runCtx, video, nil)
				if err != nil {
					return "", err
				}
				return out.Document.Path, nil
			})

			return finishBatch(cmd, filepath.Join(cfg.Paths.Output, "batch_summary.json"), report)
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "Videos processed at once (default performance.max_concurrent)")
	return cmd
}

// collectVideos expands directories into their video files. Explicit
// files are kept as given.
func collectVideos(args []string) ([]string, error) {
	var videos []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			videos = append(videos, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && watcher.IsVideoFile(e.Name()) {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		videos = append(videos, found...)
	}
	return videos, nil
}

// finishBatch persists and prints the report. Item failures are part of
// the report; only a summary that cannot be written fails the command.
func finishBatch(cmd *cobra.Command, summaryPath string, report batch.Report) error {
	if err := batch.WriteSummary(summaryPath, report); err != nil {
		return fmt.Errorf("write batch summary: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, report batch.Report) {
	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		detail := r.Output
		if r.Error != "" {
			detail = r.Error
		}
		rows = append(rows, []string{
			filepath.Base(r.Item),
			string(r.Status),
			r.Duration.Round(time.Millisecond).String(),
			detail,
		})
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, renderTable(
		[]string{"Item", "Status", "Duration", "Output / Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(w, "%d succeeded, %d failed in %s\n", report.Succeeded, report.Failed, report.Elapsed.Round(time.Millisecond))
}
