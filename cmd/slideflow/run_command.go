package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run <video>",
		Short: "Run the full pipeline for one video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger()

			stopTelemetry := startTelemetry(cmd.Context(), cfg, log)
			defer stopTelemetry()

			p, err := newPipeline(cfg, log)
			if err != nil {
				return err
			}
			defer p.Close()

			out, err := p.Run(cmd.Context(), args[0], progressPrinter(cmd.ErrOrStderr(), "Scanning"))
			if err != nil {
				return err
			}

			printSlides(cmd, out.Document.Document)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Keyframes: %s\n", out.Keyframes.OutputDir)
			fmt.Fprintf(w, "Transcript: %s\n", out.Transcript.Path)
			fmt.Fprintf(w, "Structured document: %s\n", out.Document.Path)
			for _, key := range out.Published {
				fmt.Fprintf(w, "Published: %s\n", key)
			}
			return nil
		},
	}
}
