package main

import (
	"fmt"

	"github.com/nguyentantai21042004/slide-flow/internal/batch"
	"github.com/nguyentantai21042004/slide-flow/internal/convert"
	"github.com/nguyentantai21042004/slide-flow/pkg/executor"
	"github.com/spf13/cobra"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir string
		single    bool
	)

	cmd := &cobra.Command{
		Use:   "convert [keyframes-root]",
		Short: "Convert keyframe folders to PDF and per-slide content",
		Long:  "Render each keyframe folder as a PDF, run the PDF-to-markdown tool on it and parse the result into per-slide JSON. With --single the argument is one keyframe folder.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger()
			if outputDir == "" {
				outputDir = cfg.Convert.Output
			}
			root := cfg.Paths.Keyframes
			if len(args) == 1 {
				root = args[0]
			}

			conv := convert.New(executor.New(), batch.New(cfg.Performance.MaxConcurrent, log), convert.Options{
				BinaryPath: cfg.Convert.BinaryPath,
				Method:     cfg.Convert.Method,
				Timeout:    cfg.ConvertTimeout(),
				OutputDir:  outputDir,
			}, log)

			w := cmd.OutOrStdout()
			if single {
				res, err := conv.Convert(cmd.Context(), root)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Converted %s: %d pages, %d slides\n", res.VideoName, res.Pages, res.Deck.Metadata.TotalSlides)
				fmt.Fprintf(w, "Structured content: %s\n", res.StructuredPath)
				return nil
			}

			summary, err := conv.ConvertAll(cmd.Context(), root)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(summary.Results))
			for _, r := range summary.Results {
				detail := r.ResultFile
				if r.Error != "" {
					detail = r.Error
				}
				rows = append(rows, []string{r.VideoName, r.Status, detail})
			}
			fmt.Fprintln(w, renderTable([]string{"Video", "Status", "Result / Error"}, rows, nil))
			fmt.Fprintf(w, "%d succeeded, %d failed\n", summary.SuccessfulVideos, summary.FailedVideos)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default convert.output)")
	cmd.Flags().BoolVar(&single, "single", false, "Treat the argument as a single keyframe folder")
	return cmd
}
