package main

import (
	"context"
	"io"

	"github.com/riskibarqy/golf-catalog/internal/app"
	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/golf-catalog/internal/usecase"
	"github.com/spf13/cobra"
)

func newSyncCommand(d deps, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass inline and print its progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			application, logger, err := openApp(ctx, cmd, d, flags, app.WithProgressReporter(&consoleReporter{out: out}))
			if err != nil {
				return err
			}
			defer closeApp(application, logger)

			result, err := application.SyncService.RunPass(ctx, usecase.PassInput{Trigger: syncrun.TriggerCLI})
			printRunSummary(out, result.Run)
			return err
		},
	}
}

// consoleReporter prints pass events as plain lines for an operator terminal.
type consoleReporter struct {
	out io.Writer
}

func (r *consoleReporter) ReportProgress(_ context.Context, p usecase.Progress) {
	printf(r.out, "[%s] %d/%d processed (created=%d updated=%d skipped=%d failed=%d) %dms\n",
		p.Status, p.Processed, p.Total, p.Created, p.Updated, p.Skipped, p.Failed, p.ElapsedMs)
}

func (r *consoleReporter) ReportRecordFailure(_ context.Context, f usecase.RecordFailure) {
	kind := "failed"
	if f.Skipped {
		kind = "skipped"
	}
	printf(r.out, "  record #%d %s (%s %q): %v\n", f.Index, kind, f.ExternalID, f.DisplayName, f.Err)
}

func printRunSummary(w io.Writer, run syncrun.Run) {
	if run.ID == "" {
		return
	}
	printf(w, "run %s %s: total=%d processed=%d created=%d updated=%d skipped=%d failed=%d elapsed=%dms\n",
		run.ID, run.Status, run.Total, run.Processed, run.Created, run.Updated, run.Skipped, run.Failed, run.ElapsedMs)
	if run.LastError != "" {
		printf(w, "last error: %s\n", run.LastError)
	}
}
