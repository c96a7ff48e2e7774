package main

import (
	"fmt"

	"github.com/nguyentantai21042004/slide-flow/internal/align"
	"github.com/spf13/cobra"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var (
		asrFile   string
		outputDir string
		name      string
		tolerance float64
		docx      bool
	)

	cmd := &cobra.Command{
		Use:   "align <keyframes-dir>",
		Short: "Align a keyframe folder with a transcript into a slide document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if tolerance > 0 {
				cfg.Align.ToleranceSeconds = tolerance
			}
			if docx {
				cfg.Align.ExportDocx = true
			}
			if outputDir == "" {
				outputDir = cfg.Paths.Output
			}

			res, err := newGenerator(cfg, ctx.logger()).Generate(cmd.Context(), align.Request{
				VideoName:    name,
				KeyframesDir: args[0],
				ASRFile:      asrFile,
				OutputDir:    outputDir,
			})
			if err != nil {
				return err
			}

			printSlides(cmd, res.Document)
			fmt.Fprintf(cmd.OutOrStdout(), "Structured document: %s\n", res.Path)
			if res.DocxPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "DOCX: %s\n", res.DocxPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&asrFile, "asr", "", "Transcript JSON (<name>_asr.json)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default paths.output)")
	cmd.Flags().StringVar(&name, "name", "", "Video name (default keyframe folder name)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Alignment tolerance in seconds")
	cmd.Flags().BoolVar(&docx, "docx", false, "Also export a DOCX reading document")
	return cmd
}

func printSlides(cmd *cobra.Command, doc align.Document) {
	rows := make([][]string, 0, len(doc.Summary.Timeline))
	for _, e := range doc.Summary.Timeline {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.SlideNumber),
			e.Timestamp,
			e.Title,
			fmt.Sprintf("%d", e.TextLength),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"#", "Timestamp", "Title", "Text"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	))
}
