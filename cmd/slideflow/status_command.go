package main

import (
	"fmt"
	"time"

	"github.com/nguyentantai21042004/slide-flow/internal/jobstore"
	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent pipeline runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := jobstore.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, runRow(r))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Video", "Status", "Stage", "Keyframes", "Started", "Duration", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	return cmd
}

func runRow(r jobstore.Run) []string {
	duration := "-"
	if !r.FinishedAt.IsZero() {
		duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
	}
	detail := r.Output
	if r.Status == jobstore.StatusFailed {
		detail = r.Error
	}
	return []string{
		r.Video,
		string(r.Status),
		r.Stage,
		fmt.Sprintf("%d", r.Keyframes),
		r.StartedAt.Local().Format("2006-01-02 15:04:05"),
		duration,
		detail,
	}
}
