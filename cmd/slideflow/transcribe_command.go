package main

import (
	"fmt"

	"github.com/nguyentantai21042004/slide-flow/pkg/executor"
	"github.com/spf13/cobra"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir string
		language  string
	)

	cmd := &cobra.Command{
		Use:   "transcribe <media>",
		Short: "Transcribe a video or WAV file into <name>_asr.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if language != "" {
				cfg.ASR.Language = language
			}
			if outputDir == "" {
				outputDir = cfg.Paths.Output
			}

			svc, closeEngine, err := newTranscriber(cfg, executor.New(), ctx.logger())
			if err != nil {
				return err
			}
			defer closeEngine()

			res, err := svc.Transcribe(cmd.Context(), args[0], outputDir)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Transcript", res.Path},
				{"Language", res.Language},
				{"Segments", fmt.Sprintf("%d", len(res.Document.Segments))},
				{"Sentences", fmt.Sprintf("%d", len(res.Document.Sentences))},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for the transcript (default paths.output)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Spoken language code")
	return cmd
}
