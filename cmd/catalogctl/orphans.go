package main

import (
	"github.com/spf13/cobra"
)

func newOrphansCommand(d deps, flags *rootFlags) *cobra.Command {
	var deleteOrphans bool
	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "List stored courses that are no longer in the upstream feed",
		Long: `orphans compares the stored catalog with a fresh feed fetch.

Courses are only removed when --delete is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			application, logger, err := openApp(ctx, cmd, d, flags)
			if err != nil {
				return err
			}
			defer closeApp(application, logger)

			report, err := application.Orphans.Report(ctx)
			if err != nil {
				return err
			}

			printf(out, "feed records: %d (unique keys %d), stored courses: %d, orphans: %d\n",
				report.FeedCount, report.UniqueKeys, report.StoredCount, len(report.Orphans))
			ids := make([]string, 0, len(report.Orphans))
			for _, orphan := range report.Orphans {
				printf(out, "  %s  %s  %q  %s\n", orphan.ID, orphan.ExternalID, orphan.DisplayName, orphan.Location)
				ids = append(ids, orphan.ID)
			}

			if !deleteOrphans || len(ids) == 0 {
				return nil
			}
			deleted, err := application.Orphans.Delete(ctx, ids)
			if err != nil {
				return err
			}
			printf(out, "deleted %d course(s)\n", deleted)
			return nil
		},
	}
	cmd.Flags().BoolVar(&deleteOrphans, "delete", false, "delete the reported orphan courses")
	return cmd
}
