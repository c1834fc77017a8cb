package postgres

import (
	"time"

	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
)

type syncRunTableModel struct {
	ID         string     `db:"id"`
	Trigger    string     `db:"trigger_source"`
	Status     string     `db:"status"`
	Total      int        `db:"total"`
	Processed  int        `db:"processed"`
	Created    int        `db:"created_count"`
	Updated    int        `db:"updated_count"`
	Skipped    int        `db:"skipped_count"`
	Failed     int        `db:"failed_count"`
	ElapsedMs  int64      `db:"elapsed_ms"`
	LastError  *string    `db:"last_error"`
	QueuedAt   time.Time  `db:"queued_at"`
	StartedAt  *time.Time `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
	TraceID    *string    `db:"trace_id"`
	SpanID     *string    `db:"span_id"`
}

func syncRunToModel(run syncrun.Run) syncRunTableModel {
	return syncRunTableModel{
		ID:         run.ID,
		Trigger:    string(run.Trigger),
		Status:     string(run.Status),
		Total:      run.Total,
		Processed:  run.Processed,
		Created:    run.Created,
		Updated:    run.Updated,
		Skipped:    run.Skipped,
		Failed:     run.Failed,
		ElapsedMs:  run.ElapsedMs,
		LastError:  optionalString(run.LastError),
		QueuedAt:   run.QueuedAt.UTC(),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		TraceID:    optionalString(run.TraceID),
		SpanID:     optionalString(run.SpanID),
	}
}

func syncRunFromRow(row syncRunTableModel) syncrun.Run {
	return syncrun.Run{
		ID:         row.ID,
		Trigger:    syncrun.Trigger(row.Trigger),
		Status:     syncrun.Status(row.Status),
		Total:      row.Total,
		Processed:  row.Processed,
		Created:    row.Created,
		Updated:    row.Updated,
		Skipped:    row.Skipped,
		Failed:     row.Failed,
		ElapsedMs:  row.ElapsedMs,
		LastError:  stringValue(row.LastError),
		QueuedAt:   row.QueuedAt,
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
		TraceID:    stringValue(row.TraceID),
		SpanID:     stringValue(row.SpanID),
	}
}
