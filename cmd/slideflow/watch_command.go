package main

import (
	"context"
	"errors"
	"runtime"

	"github.com/nguyentantai21042004/slide-flow/internal/watcher"
	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var scanExisting bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the input folder and process new videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger()
			runCtx := cmd.Context()

			log.Info(runCtx, "========================================")
			log.Info(runCtx, "Slide Pipeline")
			log.Info(runCtx, "========================================")
			log.Info(runCtx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
			log.Info(runCtx, "ASR backend: %s (%s)", cfg.ASR.Backend, cfg.ASR.Language)
			log.Info(runCtx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

			stopTelemetry := startTelemetry(runCtx, cfg, log)
			defer stopTelemetry()

			p, err := newPipeline(cfg, log)
			if err != nil {
				return err
			}
			defer p.Close()

			w, err := watcher.New(cfg.Paths.Input, p.Process, log, watcher.Options{
				MaxConcurrent: cfg.Performance.MaxConcurrent,
				ScanExisting:  scanExisting,
			})
			if err != nil {
				return err
			}
			defer w.Stop()

			log.Info(runCtx, "Monitoring: %s", cfg.Paths.Input)
			log.Info(runCtx, "Keyframes: %s", cfg.Paths.Keyframes)
			log.Info(runCtx, "Output: %s", cfg.Paths.Output)
			log.Info(runCtx, "Press Ctrl+C to stop")

			err = w.Start(runCtx)
			log.Info(context.Background(), "Slide Pipeline stopped")
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&scanExisting, "scan-existing", true, "Process videos already in the input folder at start")
	return cmd
}
