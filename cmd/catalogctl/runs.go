package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newRunsCommand(d deps, flags *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show the most recent sync runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			application, logger, err := openApp(ctx, cmd, d, flags)
			if err != nil {
				return err
			}
			defer closeApp(application, logger)

			runs, err := application.Runner.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printf(out, "no sync runs recorded\n")
				return nil
			}
			for _, run := range runs {
				printf(out, "%s  %-11s %-5s %s  %d/%d created=%d updated=%d skipped=%d failed=%d\n",
					run.ID, run.Status, run.Trigger, run.QueuedAt.Format(time.RFC3339),
					run.Processed, run.Total, run.Created, run.Updated, run.Skipped, run.Failed)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show (max 100)")
	return cmd
}
