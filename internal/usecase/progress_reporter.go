package usecase

import (
	"context"

	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
)

type Progress struct {
	RunID     string
	Status    syncrun.Status
	Processed int
	Total     int
	ElapsedMs int64
	Created   int
	Updated   int
	Skipped   int
	Failed    int
}

type RecordFailure struct {
	RunID       string
	Index       int
	ExternalID  string
	DisplayName string
	Skipped     bool
	Err         error
}

// ProgressReporter receives operator-facing pass events. Return values are never consumed.
type ProgressReporter interface {
	ReportProgress(ctx context.Context, progress Progress)
	ReportRecordFailure(ctx context.Context, failure RecordFailure)
}

type LogProgressReporter struct {
	logger *logging.Logger
}

func NewLogProgressReporter(logger *logging.Logger) *LogProgressReporter {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogProgressReporter{logger: logger}
}

func (r *LogProgressReporter) ReportProgress(ctx context.Context, p Progress) {
	r.logger.InfoContext(ctx, "course sync progress",
		"run_id", p.RunID,
		"status", string(p.Status),
		"processed", p.Processed,
		"total", p.Total,
		"elapsed_ms", p.ElapsedMs,
		"created", p.Created,
		"updated", p.Updated,
		"skipped", p.Skipped,
		"failed", p.Failed,
	)
}

func (r *LogProgressReporter) ReportRecordFailure(ctx context.Context, f RecordFailure) {
	msg := "course sync record failed"
	if f.Skipped {
		msg = "course sync record skipped"
	}
	r.logger.ErrorContext(ctx, msg,
		"run_id", f.RunID,
		"index", f.Index,
		"external_id", f.ExternalID,
		"display_name", f.DisplayName,
		"error", f.Err,
	)
}
